package uri

import (
	"fmt"
)

// AliasError wraps a failure to validate an alias name using Id's
// validation rules (an alias must itself be a valid Id).
type AliasError struct {
	Cause error
}

func (e *AliasError) Error() string { return fmt.Sprintf("invalid alias: %v", e.Cause) }
func (e *AliasError) Unwrap() error { return e.Cause }

// InvalidVersionReqError wraps a semver constraint parse failure.
type InvalidVersionReqError struct {
	Cause error
}

func (e *InvalidVersionReqError) Error() string {
	return fmt.Sprintf("invalid version requirement: %v", e.Cause)
}
func (e *InvalidVersionReqError) Unwrap() error { return e.Cause }

// NoAliasError is returned when a URI references an alias with no
// corresponding entry in the configured alias table.
type NoAliasError struct {
	Name string
}

func (e *NoAliasError) Error() string {
	return fmt.Sprintf("the passed alias does not exist: %s", e.Name)
}

// ErrNoUrl is returned when a caller requires a Url but none could be
// constructed from the parsed URI.
var ErrNoUrl = fmt.Errorf("parsing url failed")

// ErrNoAtom is returned when the URI is missing its required Atom id.
var ErrNoAtom = fmt.Errorf("missing the required atom id in uri")
