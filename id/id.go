// Package id implements the validated Unicode identifier used to name
// Atoms, and the keyed BLAKE3 hash that gives every Atom a stable,
// collision-resistant external name bound to a store's root.
package id

import (
	"strings"
	"unicode"

	"github.com/pkg/errors"
)

// MaxLen is the maximum length, in bytes, of an Id.
const MaxLen = 128

// Id is a validated, immutable Unicode identifier. It is created only
// through New and is safe to use as a map key.
type Id string

// Error is the sentinel type returned by New; callers can type-assert on
// the concrete variants below to distinguish failure modes.
type Error struct {
	kind string
	// Char is set for InvalidStart errors.
	Char rune
	// Chars holds the offending characters, in order, for InvalidCharacters errors.
	Chars string
}

func (e *Error) Error() string {
	switch e.kind {
	case "empty":
		return "an atom id cannot be empty"
	case "too_long":
		return errors.Errorf("an atom id cannot be more than %d bytes", MaxLen).Error()
	case "invalid_start":
		return errors.Errorf("an atom id cannot start with: %q", e.Char).Error()
	case "invalid_characters":
		return errors.Errorf("the atom id contains invalid characters: %q", e.Chars).Error()
	default:
		return "invalid atom id"
	}
}

// Is lets errors.Is match against the sentinel kind, ignoring payload.
func (e *Error) Is(target error) bool {
	o, ok := target.(*Error)
	if !ok {
		return false
	}
	return o.kind == e.kind
}

var (
	// ErrEmpty is returned when the input string is empty.
	ErrEmpty = &Error{kind: "empty"}
	// ErrTooLong is returned when the input exceeds MaxLen bytes.
	ErrTooLong = &Error{kind: "too_long"}
)

// newInvalidStart builds the InvalidStart(c) error variant.
func newInvalidStart(c rune) *Error {
	return &Error{kind: "invalid_start", Char: c}
}

// newInvalidCharacters builds the InvalidCharacters(s) error variant,
// preserving the order in which offending runes were encountered.
func newInvalidCharacters(offenders string) *Error {
	return &Error{kind: "invalid_characters", Chars: offenders}
}

// New validates s and returns the corresponding Id.
//
// The first rune must be a Unicode letter (Lowercase, Uppercase, Titlecase,
// Modifier, or Other Letter category). Subsequent runes may additionally be
// decimal or letter numbers, '-', or '_'.
func New(s string) (Id, error) {
	if err := validate(s); err != nil {
		return "", err
	}
	return Id(s), nil
}

func validate(s string) error {
	if len(s) > MaxLen {
		return ErrTooLong
	}

	runes := []rune(s)
	if len(runes) == 0 {
		return ErrEmpty
	}

	if isInvalidStart(runes[0]) {
		return newInvalidStart(runes[0])
	}

	var offenders strings.Builder
	for _, c := range runes {
		if !isValidChar(c) {
			offenders.WriteRune(c)
		}
	}
	if offenders.Len() > 0 {
		return newInvalidCharacters(offenders.String())
	}

	return nil
}

func isLetterCategory(c rune) bool {
	return unicode.Is(unicode.Ll, c) ||
		unicode.Is(unicode.Lu, c) ||
		unicode.Is(unicode.Lt, c) ||
		unicode.Is(unicode.Lm, c) ||
		unicode.Is(unicode.Lo, c)
}

func isNumberCategory(c rune) bool {
	return unicode.Is(unicode.Nd, c) || unicode.Is(unicode.Nl, c)
}

func isValidChar(c rune) bool {
	return isLetterCategory(c) || isNumberCategory(c) || c == '-' || c == '_'
}

func isInvalidStart(c rune) bool {
	if isNumberCategory(c) || c == '_' || c == '-' {
		return true
	}
	return !isValidChar(c)
}

// String returns the underlying Unicode string.
func (i Id) String() string {
	return string(i)
}
