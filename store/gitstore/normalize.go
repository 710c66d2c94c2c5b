package gitstore

import (
	"path"
	"strings"

	"github.com/ekala-project/atom/store"
)

// Normalize reinterprets an absolute path as relative to the store root
// (its leading separator stripped) and rejects a relative path that
// would climb above the root once cleaned. Ported from the original
// implementation's normalize (store/git.rs): join onto the root, clean,
// and strip the root prefix; a path that cannot be stripped back to a
// root-relative form is rejected rather than silently clamped.
func (s *Store) Normalize(p string) (string, error) {
	rel := strings.TrimPrefix(p, "/")

	cleaned := path.Clean(rel)
	if cleaned == "." {
		return "", nil
	}
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", store.ErrPathEscapesRoot
	}

	return cleaned, nil
}
