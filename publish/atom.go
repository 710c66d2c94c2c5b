package publish

import (
	"fmt"
	pathpkg "path"

	"github.com/ekala-project/atom/id"
	"github.com/ekala-project/atom/internal/logging"
	"github.com/ekala-project/atom/manifest"
	"github.com/ekala-project/atom/store"
)

// contentFormat is the fixed value of the "format" commit header: a
// version tag for the shape of the content commit itself, independent of
// the Atom's own semver.
const contentFormat = "v1"

func refHandles(atomID id.Id, version string) RefHandles {
	base := fmt.Sprintf("refs/atoms/%s", atomID)
	return RefHandles{
		Content: fmt.Sprintf("%s/%s", base, version),
		Spec:    fmt.Sprintf("%s/_specs/%s", base, version),
		Origin:  fmt.Sprintf("%s/_origins/%s", base, version),
	}
}

// publishAtom runs the full per-Atom pipeline against a single manifest
// path: locate, parse, build the content and spec trees, commit, and
// write the three refs that make the Atom addressable. The pushes of those
// refs are scheduled here but not awaited; AwaitPushes waits for them.
func (p *Publisher) publishAtom(path string) (Outcome, error) {
	ok, specHash, err := p.backend.FindBlob(p.revision, path)
	if err != nil {
		return Outcome{}, fmt.Errorf("locating %s: %w", path, err)
	}
	if !ok {
		return Outcome{}, &NotAnAtomError{Path: path}
	}

	specData, err := p.backend.ReadBlob(specHash)
	if err != nil {
		return Outcome{}, fmt.Errorf("reading manifest blob at %s: %w", path, err)
	}

	m, err := manifest.ParseManifest(specData)
	if err != nil {
		return Outcome{}, &InvalidError{Path: path, Cause: err}
	}

	atomID := id.Compute(p.root, m.Atom.Id)
	version := m.Atom.Version.String()
	refs := refHandles(m.Atom.Id, version)

	logging.WithAtom(atomID.String()).WithPath(path).Info("publishing atom")

	paths := manifest.DerivePaths(path)

	manifestEntry := store.TreeEntry{Name: pathpkg.Base(paths.Spec), Hash: specHash, Kind: store.BlobEntry}

	companion, err := p.findCompanion(paths.Content)
	if err != nil {
		return Outcome{}, fmt.Errorf("locating companion content for %s: %w", path, err)
	}

	var lockEntry *store.TreeEntry
	if hasLock, lockHash, err := p.backend.FindBlob(p.revision, paths.Lock); err != nil {
		return Outcome{}, fmt.Errorf("locating lockfile for %s: %w", path, err)
	} else if hasLock {
		lockEntry = &store.TreeEntry{Name: pathpkg.Base(paths.Lock), Hash: lockHash, Kind: store.BlobEntry}
	}

	// The content tree is the full discovered-entries vector: manifest,
	// optional companion dir/file, optional lock. The spec tree is the
	// blobs-only subset (manifest, optional lock) — it never includes the
	// companion directory.
	contentEntries := []store.TreeEntry{manifestEntry}
	if companion != nil {
		contentEntries = append(contentEntries, *companion)
	}
	if lockEntry != nil {
		contentEntries = append(contentEntries, *lockEntry)
	}

	contentTree, err := p.backend.WriteTree(contentEntries)
	if err != nil {
		return Outcome{}, fmt.Errorf("writing content tree for %s: %w", path, err)
	}

	specEntries := []store.TreeEntry{manifestEntry}
	if lockEntry != nil {
		specEntries = append(specEntries, *lockEntry)
	}

	specTree, err := p.backend.WriteTree(specEntries)
	if err != nil {
		return Outcome{}, fmt.Errorf("writing spec tree for %s: %w", path, err)
	}

	commitSpec := store.CommitSpec{
		Tree:    contentTree,
		Message: fmt.Sprintf("%s: %s", m.Atom.Id, version),
		Headers: []store.CommitHeader{
			{Key: "_origin", Value: string(p.revision)},
			{Key: "path", Value: path},
			{Key: "format", Value: contentFormat},
		},
	}

	existing, hadExisting, err := p.backend.ResolveRef(refs.Content)
	if err != nil {
		return Outcome{}, fmt.Errorf("resolving %s: %w", refs.Content, err)
	}

	contentCommit, err := p.backend.WriteCommit(commitSpec)
	if err != nil {
		return Outcome{}, fmt.Errorf("writing content commit for %s: %w", path, err)
	}

	if hadExisting && existing == contentCommit {
		logging.WithAtom(atomID.String()).Info("atom already published at this content, skipping")
		return Outcome{Kind: Skipped, SkippedID: m.Atom.Id}, nil
	}

	if err := p.backend.SetRefCAS(refs.Content, contentCommit); err != nil {
		return Outcome{}, &RefCollisionError{Ref: refs.Content, Cause: err}
	}
	if err := p.backend.SetRefCAS(refs.Spec, specTree); err != nil {
		return Outcome{}, &RefCollisionError{Ref: refs.Spec, Cause: err}
	}
	if err := p.backend.SetRefCAS(refs.Origin, string(p.revision)); err != nil {
		return Outcome{}, &RefCollisionError{Ref: refs.Origin, Cause: err}
	}

	p.schedulePush(refs.Content)
	p.schedulePush(refs.Spec)
	p.schedulePush(refs.Origin)

	return Outcome{
		Kind: Published,
		Record: Record{
			AtomID: atomID,
			Refs:   refs,
			Path:   path,
		},
	}, nil
}

// findCompanion looks up the Atom's companion content at contentPath: an
// existing directory is reused as-is (no re-hashing of its contents); a
// single companion file becomes a blob entry; an Atom with no separate
// content at all has no companion, and findCompanion returns nil, nil.
func (p *Publisher) findCompanion(contentPath string) (*store.TreeEntry, error) {
	if ok, hash, err := p.backend.FindTree(p.revision, contentPath); err != nil {
		return nil, err
	} else if ok {
		return &store.TreeEntry{Name: pathpkg.Base(contentPath), Hash: hash, Kind: store.DirEntry}, nil
	}

	if ok, hash, err := p.backend.FindBlob(p.revision, contentPath); err != nil {
		return nil, err
	} else if ok {
		return &store.TreeEntry{Name: pathpkg.Base(contentPath), Hash: hash, Kind: store.BlobEntry}, nil
	}

	return nil, nil
}
