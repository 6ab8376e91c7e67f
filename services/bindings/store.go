// Package bindings persists and resolves the links between in-game names
// and external user identities for one club. Multiple names may share one
// identity; that is how player aliases are modeled.
package bindings

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

var ErrNotBound = errors.New("name is not bound")

// Store owns one club's binding file. All reads and writes go through the
// store's mutex so a management command cannot interleave with the weekly
// report's read of the same file.
type Store struct {
	path string
	mu   sync.Mutex
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load returns the full binding map. A missing file is first-run, not an
// error, and yields an empty map.
func (s *Store) Load() (map[string]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Store) load() (map[string]int64, error) {
	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return map[string]int64{}, nil
	}
	if err != nil {
		return nil, err
	}

	out := map[string]int64{}
	err = json.Unmarshal(raw, &out)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.path, err)
	}
	return out, nil
}

func (s *Store) save(b map[string]int64) error {
	raw, err := json.MarshalIndent(b, "", "    ")
	if err != nil {
		return err
	}
	return writeFileAtomic(s.path, raw)
}

// Link binds an in-game name to an identity, replacing any previous
// binding for the same name.
func (s *Store) Link(name string, identity int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := s.load()
	if err != nil {
		return err
	}
	b[name] = identity
	return s.save(b)
}

// Unlink removes a name's binding. Returns ErrNotBound when the name has
// no binding to remove.
func (s *Store) Unlink(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := b[name]; !ok {
		return fmt.Errorf("%q: %w", name, ErrNotBound)
	}
	delete(b, name)
	return s.save(b)
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	_, err = tmp.Write(data)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}
