package publish

import (
	"github.com/ekala-project/atom/id"
)

// OutcomeKind distinguishes the two ways a per-Atom publish attempt can
// succeed. Outcome is deliberately not an error type: per spec.md section
// 4.5.1, an idempotent re-publish is a successful result, not a failure.
type OutcomeKind int

const (
	// Published means new content was written and refs were created.
	Published OutcomeKind = iota
	// Skipped means the content ref already pointed at the identical
	// content commit; no refs were written and no pushes scheduled. Only
	// the content ref is compared, not the spec or origin refs.
	Skipped
)

// RefHandles names the three references written (or already present) for
// a published Atom.
type RefHandles struct {
	Content string // refs/atoms/<id>/<version>
	Spec    string // refs/atoms/<id>/_specs/<version>
	Origin  string // refs/atoms/<id>/_origins/<version>
}

// Record carries the identity and backend reference handles of a
// published Atom, along with the path it was published from.
type Record struct {
	AtomID id.AtomId
	Refs   RefHandles
	Path   string
}

// Outcome is the result of publishing one Atom: either Published(Record)
// or Skipped(Id), mirroring the sum type described in spec.md.
type Outcome struct {
	Kind      OutcomeKind
	Record    Record
	SkippedID id.Id
}
