package uri

import "strings"

// splitFirst splits s on the first occurrence of sep, returning the part
// before it and the remainder after it. ok is false if sep does not occur,
// in which case before is the whole of s.
func splitFirst(s, sep string) (before, after string, ok bool) {
	idx := strings.Index(s, sep)
	if idx < 0 {
		return s, "", false
	}
	return s[:idx], s[idx+len(sep):], true
}
