package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/vovakirdan/pairchat-server/internal/store"
)

const (
	usersFile = "users.json"
	roomsFile = "rooms.json"
)

// JSONStore implements store.Store over two JSON files, one per collection,
// each holding an object keyed by record id. Every mutation rewrites the
// whole collection under that collection's lock, so racing read-modify-write
// cycles are serialized and never lose updates.
type JSONStore struct {
	users collection[store.User]
	rooms collection[store.Room]
}

// collection is one JSON file guarded by its own mutex. The mutex is held
// for the full read-modify-write span of an update.
type collection[T any] struct {
	mu   sync.Mutex
	path string
}

// New opens the store rooted at dir, creating the directory and empty
// collection files on first use.
func New(dir string) (*JSONStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	s := &JSONStore{
		users: collection[store.User]{path: filepath.Join(dir, usersFile)},
		rooms: collection[store.Room]{path: filepath.Join(dir, roomsFile)},
	}
	if err := ensureFile(s.users.path); err != nil {
		return nil, err
	}
	if err := ensureFile(s.rooms.path); err != nil {
		return nil, err
	}
	return s, nil
}

// Users returns a snapshot of the users collection.
func (s *JSONStore) Users(ctx context.Context) (map[string]store.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.users.snapshot()
}

// Rooms returns a snapshot of the rooms collection.
func (s *JSONStore) Rooms(ctx context.Context) (map[string]store.Room, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.rooms.snapshot()
}

// UpdateUsers runs fn against the users collection under its lock.
func (s *JSONStore) UpdateUsers(ctx context.Context, fn func(users map[string]store.User) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.users.update(fn)
}

// UpdateRooms runs fn against the rooms collection under its lock.
func (s *JSONStore) UpdateRooms(ctx context.Context, fn func(rooms map[string]store.Room) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.rooms.update(fn)
}

// Close implements store.Store. The files need no teardown.
func (s *JSONStore) Close() error {
	return nil
}

func ensureFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte("{}\n"), 0o600); err != nil {
		return fmt.Errorf("init %s: %w", path, err)
	}
	return nil
}

func (c *collection[T]) snapshot() (map[string]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.read()
}

// update holds the collection lock across read, fn, and write. An error
// from fn aborts without touching the file. The update is deliberately not
// interruptible: once started it completes or fails on its own, regardless
// of what happens to the connection that initiated it.
func (c *collection[T]) update(fn func(map[string]T) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	records, err := c.read()
	if err != nil {
		return err
	}
	if err := fn(records); err != nil {
		return err
	}
	return c.write(records)
}

func (c *collection[T]) read() (map[string]T, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", store.ErrUnavailable, filepath.Base(c.path), err)
	}
	records := make(map[string]T)
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", store.ErrUnavailable, filepath.Base(c.path), err)
	}
	return records, nil
}

// write replaces the collection file atomically: marshal, write to a temp
// file in the same directory, fsync, rename over the original. A failure at
// any point leaves the previous snapshot intact.
func (c *collection[T]) write(records map[string]T) error {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", store.ErrUnavailable, filepath.Base(c.path), err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(c.path), filepath.Base(c.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: temp file: %v", store.ErrUnavailable, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: write %s: %v", store.ErrUnavailable, filepath.Base(c.path), err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: sync %s: %v", store.ErrUnavailable, filepath.Base(c.path), err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: close %s: %v", store.ErrUnavailable, filepath.Base(c.path), err)
	}
	if err := os.Rename(tmpName, c.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: replace %s: %v", store.ErrUnavailable, filepath.Base(c.path), err)
	}
	return nil
}
