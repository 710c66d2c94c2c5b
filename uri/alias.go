package uri

import (
	"strings"

	"github.com/ekala-project/atom/id"
)

// aliases wraps the configured alias -> URL-prefix map and implements the
// one-level-of-indirection resolution rule.
type aliases map[string]string

func (a aliases) get(name string) (string, error) {
	v, ok := a[name]
	if !ok {
		return "", &NoAliasError{Name: name}
	}
	if _, err := id.New(name); err != nil {
		return "", &AliasError{Cause: err}
	}
	return v, nil
}

// resolve expands name to its configured URL prefix, allowing exactly one
// level of indirection: an alias whose expansion is itself "alias:rest" is
// expanded once more and no further.
func (a aliases) resolve(name string) (string, error) {
	v, err := a.get(name)
	if err != nil {
		return "", err
	}

	if sub, rest, ok := splitFirst(v, ":"); ok {
		expanded, err := a.get(sub)
		if err != nil {
			return "", err
		}
		return expanded + "/" + rest, nil
	}

	return v, nil
}

// parseAlias inspects frag for a leading "alias:" token, per the grammar's
// disambiguation rule 3: the candidate must contain no '.', '/', or ':'
// internally, and the character following its ':' must not be a digit (a
// port) or another ':'.
func parseAlias(frag string) (rest, candidate string, ok bool) {
	idx := strings.Index(frag, ":")

	var after string
	if idx < 0 {
		candidate = frag
		after = ""
	} else {
		candidate = frag[:idx]
		after = frag[idx+1:]
		if len(after) > 0 {
			c := after[0]
			if c >= '0' && c <= '9' {
				return frag, "", false
			}
			if c == ':' {
				return frag, "", false
			}
		}
	}

	if candidate == "" {
		return frag, "", false
	}
	if strings.ContainsAny(candidate, "./:") {
		return frag, "", false
	}

	return after, candidate, true
}
