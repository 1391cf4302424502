package jsonfile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/pairchat-server/internal/store"
)

func TestUpdateSurvivesReopen(t *testing.T) {
	req := require.New(t)
	dir := t.TempDir()
	ctx := context.Background()

	s, err := New(dir)
	req.NoError(err)

	err = s.UpdateUsers(ctx, func(users map[string]store.User) error {
		users["u1"] = store.User{ID: "u1", Username: "alice", Password: "secret"}
		return nil
	})
	req.NoError(err)
	req.NoError(s.Close())

	reopened, err := New(dir)
	req.NoError(err)
	defer reopened.Close()

	users, err := reopened.Users(ctx)
	req.NoError(err)
	req.Len(users, 1)
	req.Equal("alice", users["u1"].Username)
}

func TestAbortedUpdateWritesNothing(t *testing.T) {
	req := require.New(t)
	dir := t.TempDir()
	ctx := context.Background()

	s, err := New(dir)
	req.NoError(err)
	defer s.Close()

	req.NoError(s.UpdateRooms(ctx, func(rooms map[string]store.Room) error {
		rooms["r1"] = store.Room{ID: "r1", Users: []string{"a", "b"}}
		return nil
	}))

	boom := errors.New("boom")
	err = s.UpdateRooms(ctx, func(rooms map[string]store.Room) error {
		rooms["r2"] = store.Room{ID: "r2"}
		return boom
	})
	req.ErrorIs(err, boom)

	rooms, err := s.Rooms(ctx)
	req.NoError(err)
	req.Len(rooms, 1)
	req.Contains(rooms, "r1")
}

func TestCorruptCollectionIsUnavailable(t *testing.T) {
	req := require.New(t)
	dir := t.TempDir()
	ctx := context.Background()

	s, err := New(dir)
	req.NoError(err)
	defer s.Close()

	req.NoError(os.WriteFile(filepath.Join(dir, "users.json"), []byte("{broken"), 0o600))

	_, err = s.Users(ctx)
	req.ErrorIs(err, store.ErrUnavailable)

	// A failed read also fails the update before fn runs.
	called := false
	err = s.UpdateUsers(ctx, func(map[string]store.User) error {
		called = true
		return nil
	})
	req.ErrorIs(err, store.ErrUnavailable)
	req.False(called)
}

func TestConcurrentUpdatesAreSerialized(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()

	s, err := New(t.TempDir())
	req.NoError(err)
	defer s.Close()

	const writers = 16
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("u%d", i)
			err := s.UpdateUsers(ctx, func(users map[string]store.User) error {
				users[id] = store.User{ID: id, Username: id}
				return nil
			})
			if err != nil {
				t.Errorf("update %d: %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	users, err := s.Users(ctx)
	req.NoError(err)
	req.Len(users, writers)
}

func TestCollectionsAreIndependent(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()

	s, err := New(t.TempDir())
	req.NoError(err)
	defer s.Close()

	req.NoError(s.UpdateUsers(ctx, func(users map[string]store.User) error {
		users["u1"] = store.User{ID: "u1", Username: "alice"}
		return nil
	}))

	rooms, err := s.Rooms(ctx)
	req.NoError(err)
	req.Empty(rooms)
}
