package publish

import (
	"fmt"

	"github.com/ekala-project/atom/id"
)

// NotAnAtomError is returned when a requested path has no manifest blob
// at the revision being published from.
type NotAnAtomError struct {
	Path string
}

func (e *NotAnAtomError) Error() string { return fmt.Sprintf("not an atom: %s", e.Path) }

// InvalidError wraps a manifest parse or schema failure encountered
// while publishing a specific path.
type InvalidError struct {
	Path  string
	Cause error
}

func (e *InvalidError) Error() string {
	return fmt.Sprintf("invalid atom manifest at %s: %v", e.Path, e.Cause)
}
func (e *InvalidError) Unwrap() error { return e.Cause }

// DuplicateConflict names two paths that both resolve to the same Atom
// Id, discovered during Build's tree validation.
type DuplicateConflict struct {
	Id        id.Id
	FirstPath string
	Path      string
}

// DuplicatesError is the atomic validation failure returned by Build when
// the same Id appears at more than one path: no publisher is
// constructed, and no Atom may be published from this tree.
type DuplicatesError struct {
	Conflicts []DuplicateConflict
}

func (e *DuplicatesError) Error() string {
	return fmt.Sprintf("duplicate atom ids found in tree: %d conflict(s)", len(e.Conflicts))
}

// NotInitializedError wraps the store's refusal to report a consistent
// root, surfaced by Build before any publisher is constructed.
type NotInitializedError struct {
	Cause error
}

func (e *NotInitializedError) Error() string {
	return fmt.Sprintf("store is not an initialized ekala store: %v", e.Cause)
}
func (e *NotInitializedError) Unwrap() error { return e.Cause }

// RefCollisionError is returned when one of the three per-Atom
// references already exists pointing at different content than what
// this publish attempt computed — a genuine conflict, not an idempotent
// re-publish.
type RefCollisionError struct {
	Ref   string
	Cause error
}

func (e *RefCollisionError) Error() string {
	return fmt.Sprintf("ref collision writing %s: %v", e.Ref, e.Cause)
}
func (e *RefCollisionError) Unwrap() error { return e.Cause }

// SomePushFailedError aggregates the push failures collected by
// AwaitPushes across every Atom published so far.
type SomePushFailedError struct {
	Errors []error
}

func (e *SomePushFailedError) Error() string {
	return fmt.Sprintf("%d push task(s) failed", len(e.Errors))
}
