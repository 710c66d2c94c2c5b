package store

import "fmt"

// ErrRootNotFound is returned by CalculateRoot when ancestry walking
// never reaches a parentless commit (a shallow or truncated history).
var ErrRootNotFound = fmt.Errorf("no root commit found: history has no parentless ancestor")

// ErrPathEscapesRoot is returned by Normalize when a path, once resolved,
// would fall outside the store root.
var ErrPathEscapesRoot = fmt.Errorf("path escapes the store root")

// ErrRootTagMissing is returned by EkalaRoot when a remote's HEAD
// resolves but refs/tags/ekala/root/v1 does not exist, i.e. the remote
// has never been bound with EkalaInit.
var ErrRootTagMissing = fmt.Errorf("remote has no ekala root tag: not an ekala store")

// WalkFailureError wraps an underlying ancestry-traversal error.
type WalkFailureError struct {
	Cause error
}

func (e *WalkFailureError) Error() string { return fmt.Sprintf("ancestry walk failed: %v", e.Cause) }
func (e *WalkFailureError) Unwrap() error { return e.Cause }

// RootInconsistentError is returned by EkalaRoot when the Root computed
// from the remote's current HEAD disagrees with the persisted root tag.
type RootInconsistentError struct {
	Remote   string
	FromTag  Root
	FromHead Root
}

func (e *RootInconsistentError) Error() string {
	return fmt.Sprintf("root mismatch for %s: tag=%x head=%x", e.Remote, e.FromTag.AsBytes(), e.FromHead.AsBytes())
}

// NoRefError is returned by GetRefs for a ref spec that did not resolve.
type NoRefError struct {
	Name string
}

func (e *NoRefError) Error() string { return fmt.Sprintf("ref did not resolve: %s", e.Name) }

// RefConflictError is returned by SetRefCAS when a ref already exists and
// points at a different hash than the one being written.
type RefConflictError struct {
	Ref      string
	Existing string
	Wanted   string
}

func (e *RefConflictError) Error() string {
	return fmt.Sprintf("ref %s already exists at %s, refusing to overwrite with %s", e.Ref, e.Existing, e.Wanted)
}
