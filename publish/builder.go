package publish

import (
	"context"
	"fmt"

	"github.com/ekala-project/atom/id"
	"github.com/ekala-project/atom/internal/logging"
	"github.com/ekala-project/atom/manifest"
	"github.com/ekala-project/atom/store"
)

// Builder constructs a Publisher only after validating the full state of
// a tree: per spec.md section 4.5.1, there is no other way to obtain a
// Publisher.
type Builder struct{}

// Build first verifies the backend reports a consistent store Root, then
// traverses the entire tree at revision, accumulating every manifest
// blob's Id and path. It returns the validated Id -> path map
// alongside a Publisher bound to backend/remote/revision, or an error if
// validation failed.
func (Builder) Build(ctx context.Context, backend store.Backend, remote string, revision store.CommitID) (map[id.Id]string, *Publisher, error) {
	root, err := backend.EkalaRoot(ctx, remote)
	if err != nil {
		return nil, nil, &NotInitializedError{Cause: err}
	}

	var total int
	type hit struct {
		path string
		hash string
	}
	var hits []hit

	err = backend.WalkBlobs(revision, func(path, hash string) error {
		total++
		if manifest.IsManifestPath(path) {
			hits = append(hits, hit{path: path, hash: hash})
		}
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("walking tree: %w", err)
	}

	valid := make(map[id.Id]string, mapCapacity(total))
	var conflicts []DuplicateConflict

	for _, h := range hits {
		data, err := backend.ReadBlob(h.hash)
		if err != nil {
			logging.WithPath(h.path).WithError(err).Warn("failed reading manifest blob, skipping")
			continue
		}

		atom, err := manifest.ParseAtom(data)
		if err != nil {
			logging.WithPath(h.path).WithError(err).Warn("failed parsing manifest, skipping")
			continue
		}

		if first, exists := valid[atom.Id]; exists {
			logging.WithAtom(atom.Id.String()).WithField("first", first).WithField("second", h.path).
				Error("duplicate atom id found in tree")
			conflicts = append(conflicts, DuplicateConflict{Id: atom.Id, FirstPath: first, Path: h.path})
			continue
		}

		valid[atom.Id] = h.path
	}

	if len(conflicts) > 0 {
		return nil, nil, &DuplicatesError{Conflicts: conflicts}
	}

	p := &Publisher{
		ctx:      ctx,
		backend:  backend,
		remote:   remote,
		revision: revision,
		root:     root,
	}

	return valid, p, nil
}
