package gitstore

import (
	"sort"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/ekala-project/atom/store"
)

// Root is a git commit hash wrapped to satisfy store.Root (an alias for
// id.Root). It accommodates both today's 20-byte SHA-1 object ids and a
// future 32-byte SHA-256 object format without an API change.
type Root struct {
	bytes []byte
}

// AsBytes implements id.Root / store.Root.
func (r Root) AsBytes() []byte { return r.bytes }

// RootFromHash wraps a go-git plumbing.Hash as a Root.
func RootFromHash(h plumbing.Hash) Root {
	b := make([]byte, len(h))
	copy(b, h[:])
	return Root{bytes: b}
}

// hashFromRoot recovers the plumbing.Hash carried by a store.Root
// produced by this package.
func hashFromRoot(r store.Root) plumbing.Hash {
	var h plumbing.Hash
	copy(h[:], r.AsBytes())
	return h
}

// CalculateRoot walks ancestry from commit oldest-first (a FIFO
// traversal rather than go-git's own newest-first default iterators) and
// returns the unique parentless commit reached. Parents of each visited
// commit are enqueued sorted by author time ascending, the spec's
// explicit tie-break for repositories with multiple roots along
// divergent merge histories.
func (s *Store) CalculateRoot(commit store.CommitID) (store.Root, error) {
	start, err := s.repo.CommitObject(plumbing.NewHash(commit.String()))
	if err != nil {
		return nil, &store.WalkFailureError{Cause: err}
	}

	seen := map[plumbing.Hash]bool{start.Hash: true}
	queue := []*object.Commit{start}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if cur.NumParents() == 0 {
			return RootFromHash(cur.Hash), nil
		}

		parents := make([]*object.Commit, 0, cur.NumParents())
		if err := cur.Parents().ForEach(func(p *object.Commit) error {
			parents = append(parents, p)
			return nil
		}); err != nil {
			return nil, &store.WalkFailureError{Cause: err}
		}

		sort.Slice(parents, func(i, j int) bool {
			return parents[i].Author.When.Before(parents[j].Author.When)
		})

		for _, p := range parents {
			if !seen[p.Hash] {
				seen[p.Hash] = true
				queue = append(queue, p)
			}
		}
	}

	return nil, store.ErrRootNotFound
}
