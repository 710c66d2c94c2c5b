// Package gitstore binds the store abstraction to a real Git object
// history via go-git/go-git. It is the only backend this module ships:
// calculate_root, ekala_init/sync/ekala_root/get_refs, and the
// object-graph writes the publisher needs are all implemented directly
// against go-git's plumbing, except for the final push of a ref to a
// remote, which shells out to the host git binary exactly as the
// original implementation does.
package gitstore

import (
	"fmt"

	"github.com/go-git/go-git/v5"

	"github.com/ekala-project/atom/store"
)

// Store is a git-backed realization of store.Backend.
type Store struct {
	repo *git.Repository
	path string
}

// Open opens an existing git repository at path as a Store.
func Open(path string) (*Store, error) {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return nil, fmt.Errorf("opening git store at %s: %w", path, err)
	}
	return &Store{repo: repo, path: path}, nil
}

// Init creates a new git repository at path and opens it as a Store.
func Init(path string) (*Store, error) {
	repo, err := git.PlainInit(path, false)
	if err != nil {
		return nil, fmt.Errorf("initializing git store at %s: %w", path, err)
	}
	return &Store{repo: repo, path: path}, nil
}

// Repository exposes the underlying go-git repository for callers that
// need direct plumbing access beyond store.Backend, such as test setup
// or migration tooling.
func (s *Store) Repository() *git.Repository {
	return s.repo
}

// Path returns the filesystem path this Store was opened or initialized
// at.
func (s *Store) Path() string {
	return s.path
}

var (
	_ store.Backend = (*Store)(nil)
)
