package users

import (
	"context"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/pairchat-server/internal/store/jsonfile"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	st, err := jsonfile.New(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	logger := zerolog.Nop()
	return NewService(st, &logger)
}

func TestCreateAssignsFreshID(t *testing.T) {
	req := require.New(t)
	svc := newTestService(t)
	ctx := context.Background()

	alice, err := svc.Create(ctx, "alice", "secret")
	req.NoError(err)
	req.NotEmpty(alice.ID)
	req.Equal("alice", alice.Username)

	bob, err := svc.Create(ctx, "bob", "secret")
	req.NoError(err)
	req.NotEqual(alice.ID, bob.ID)
}

func TestCreateRejectsDuplicateUsername(t *testing.T) {
	req := require.New(t)
	svc := newTestService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, "alice", "secret")
	req.NoError(err)

	_, err = svc.Create(ctx, "alice", "other")
	req.ErrorIs(err, ErrUsernameTaken)

	// The failed create must not have written anything.
	got, err := svc.Get(ctx, first.ID)
	req.NoError(err)
	req.Equal("secret", got.Password)

	users := mustList(t, svc)
	req.Len(users, 1)
}

func TestCreateIsCaseSensitive(t *testing.T) {
	req := require.New(t)
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "alice", "secret")
	req.NoError(err)

	// Exact match only; a different casing is a different name.
	_, err = svc.Create(ctx, "Alice", "secret")
	req.NoError(err)
}

func TestConcurrentCreateSameUsername(t *testing.T) {
	req := require.New(t)
	svc := newTestService(t)
	ctx := context.Background()

	const attempts = 8
	errs := make([]error, attempts)

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Create(ctx, "alice", "secret")
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
		} else {
			req.ErrorIs(err, ErrUsernameTaken)
		}
	}
	req.Equal(1, successes)
}

func TestGetUnknownUser(t *testing.T) {
	req := require.New(t)
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Get(ctx, "missing")
	req.ErrorIs(err, ErrNotFound)

	_, err = svc.GetByUsername(ctx, "missing")
	req.ErrorIs(err, ErrNotFound)
}

func mustList(t *testing.T, svc *Service) map[string]struct{} {
	t.Helper()

	users, err := svc.store.Users(context.Background())
	require.NoError(t, err)

	ids := make(map[string]struct{}, len(users))
	for id := range users {
		ids[id] = struct{}{}
	}
	return ids
}
