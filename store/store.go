// Package store describes the capabilities every Atom object-history
// backend must provide. It mirrors the way the teacher splits one coarse
// "talk to a registry" capability into several narrow interfaces
// (types.ImageSource / types.ImageDestination / types.ImageTransport):
// here a concrete backend is reached through four orthogonal capability
// interfaces composed into one Store, rather than a single fat interface
// or a plugin registry.
package store

import (
	"context"

	"github.com/ekala-project/atom/id"
)

// Root is the identity of an object-history's root commit: the unique
// parentless ancestor reached by walking commit history oldest-first. It
// is kept as an opaque byte slice rather than a fixed-size array since a
// SHA-1 backend (20 bytes) and a future SHA-256 backend (32 bytes) must
// both satisfy it without an API change.
type Root = id.Root

// CommitID identifies a commit within a backend's own addressing scheme
// (a hex object id for a git backend).
type CommitID string

// String implements fmt.Stringer.
func (c CommitID) String() string { return string(c) }

// Normalizer resolves user-supplied paths to paths relative to the store
// root.
type Normalizer interface {
	// Normalize reinterprets an absolute path as relative to the store
	// root (its leading separator stripped) and rejects any path that
	// would escape the root.
	Normalize(path string) (string, error)
}

// RootCalculator computes a backend's Root by walking ancestry.
type RootCalculator interface {
	// CalculateRoot walks the ancestry of commit oldest-first and returns
	// the unique parentless commit reached. It returns ErrRootNotFound if
	// none is reached (a truncated/shallow history) and wraps any
	// traversal error in a WalkFailureError.
	CalculateRoot(commit CommitID) (Root, error)
}

// Initializer performs the one-time binding of a store to its root.
type Initializer interface {
	// EkalaInit syncs HEAD from remote, computes its Root, writes
	// refs/tags/ekala/root/v1 under a must-not-exist precondition, and
	// pushes the new ref to remote.
	EkalaInit(ctx context.Context, remote string) error
}

// RefQuerier reads state from a remote without mutating the local store's
// root binding.
type RefQuerier interface {
	// Sync fetches from remote and returns its HEAD.
	Sync(ctx context.Context, remote string) (CommitID, error)

	// EkalaRoot fetches HEAD and the root tag from remote and verifies
	// that the Root computed from HEAD matches the tag, returning a
	// RootInconsistentError otherwise.
	EkalaRoot(ctx context.Context, remote string) (Root, error)

	// GetRefs resolves each of specs against remote, returning a result
	// map keyed by the queried name. A name that does not resolve is
	// reported via a NoRefError carrying that name, not a partial map entry.
	GetRefs(ctx context.Context, remote string, specs []string) (map[string]CommitID, error)

	// IsEkalaStore reports whether EkalaRoot would succeed against
	// remote.
	IsEkalaStore(ctx context.Context, remote string) bool
}

// Store is the full capability set a publisher depends on to validate and
// bind itself to a backend. It is deliberately narrower than what the
// publish pipeline needs to write Atom content — the lower-level
// object-graph write operations (tree/commit construction, CAS ref
// writes, push) are backend-specific and live behind store.ObjectWriter,
// composed separately by callers that need them (see package publish).
type Store interface {
	Normalizer
	Initializer
	RootCalculator
	RefQuerier
}

// TreeEntryKind distinguishes blob and tree entries within a written
// tree, since the object database requires entries sorted with mode
// awareness.
type TreeEntryKind int

const (
	// BlobEntry is a regular file (the manifest or lock blob).
	BlobEntry TreeEntryKind = iota
	// DirEntry is a subtree (the companion content directory).
	DirEntry
)

// TreeEntry is one named member of a tree object to be written.
type TreeEntry struct {
	Name string
	Hash string
	Kind TreeEntryKind
}

// CommitSpec describes a reproducible, content-addressed commit to write.
// Author, committer, and timestamp are not part of the spec: the backend's
// WriteCommit fixes them, keeping commit hashes a pure function of tree,
// parents, headers, and message.
type CommitSpec struct {
	Tree    string
	Parents []string
	Message string
	// Headers are extra commit-message headers in insertion order
	// (git "gpgsig"-style extra header lines): _origin, path, format.
	Headers []CommitHeader
}

// CommitHeader is one extra header line on a CommitSpec, kept as a slice
// of pairs (rather than a map) so callers can rely on insertion order.
type CommitHeader struct {
	Key   string
	Value string
}

// ObjectWriter is the lower-level, backend-specific capability used by
// the publisher to assemble and write Atom content: finding blobs/trees
// at a revision, writing new tree and commit objects, and writing
// reference updates under a must-not-exist precondition. A git backend
// realizes this directly against its object database; it is not part of
// Store because no operation in store.Store's contract (spec.md §4.4)
// requires it.
type ObjectWriter interface {
	// FindBlob looks up path within commit's tree, reporting whether it
	// exists and is a blob, and its content hash if so.
	FindBlob(commit CommitID, path string) (exists bool, hash string, err error)

	// FindTree looks up path within commit's tree, reporting whether it
	// exists and is a tree, and its hash if so.
	FindTree(commit CommitID, path string) (exists bool, hash string, err error)

	// ReadBlob returns the content addressed by a blob hash previously
	// returned by FindBlob or WalkBlobs.
	ReadBlob(hash string) ([]byte, error)

	// WalkBlobs visits every blob reachable from commit's tree, passing
	// each one's full slash-separated path and content hash to visit.
	// Traversal order is unspecified; callers that need a full count or
	// a duplicate-key scan do not depend on it.
	WalkBlobs(commit CommitID, visit func(path string, hash string) error) error

	// TreeExists reports whether a tree object with the given hash is
	// already present in the object database.
	TreeExists(hash string) (bool, error)

	// HashTree computes the hash a tree built from entries would have,
	// without writing it.
	HashTree(entries []TreeEntry) (string, error)

	// WriteTree writes a tree built from entries and returns its hash.
	WriteTree(entries []TreeEntry) (string, error)

	// WriteCommit writes a reproducible commit and returns its hash.
	WriteCommit(spec CommitSpec) (string, error)

	// ResolveRef resolves ref to a hash, reporting whether it exists.
	ResolveRef(ref string) (string, bool, error)

	// SetRefCAS writes ref to point at hash under a must-not-exist
	// precondition: it fails if ref already resolves to a different
	// hash, and succeeds without error (idempotently) if ref already
	// resolves to the same hash.
	SetRefCAS(ref string, hash string) error

	// Push pushes refspec (in "src:dst" identity-mapping form) to
	// remote.
	Push(ctx context.Context, remote string, refspec string) error
}

// Backend is the full set of capabilities the publisher needs: the
// backend-agnostic Store contract plus the object-graph write operations
// a concrete backend realizes directly.
type Backend interface {
	Store
	ObjectWriter
}
