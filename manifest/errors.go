package manifest

import "github.com/pkg/errors"

// ErrMissing is returned when a manifest document has no top-level [atom]
// table.
var ErrMissing = errors.New("manifest is missing the `[atom]` key")

// InvalidTomlError wraps a TOML syntax error encountered while parsing a
// manifest document.
type InvalidTomlError struct {
	Cause error
}

func (e *InvalidTomlError) Error() string {
	return errors.Wrap(e.Cause, "manifest is not valid toml").Error()
}

func (e *InvalidTomlError) Unwrap() error { return e.Cause }

// InvalidAtomError wraps a schema violation in the [atom] table or one of
// its dependency sections.
type InvalidAtomError struct {
	Cause error
}

func (e *InvalidAtomError) Error() string {
	return errors.Wrap(e.Cause, "invalid atom manifest").Error()
}

func (e *InvalidAtomError) Unwrap() error { return e.Cause }
