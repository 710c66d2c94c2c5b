package manifest

import (
	"path"
	"strings"
)

// Suffix is the filename suffix that marks a blob as an Atom manifest.
const Suffix = "@.toml"

// AtomPaths is the derived file-name tuple for a manifest found at path P:
// the content directory (P with the trailing '@' stripped from the
// basename) and the lockfile (content, with ".lock" appended).
type AtomPaths struct {
	// Spec is the manifest path itself.
	Spec string
	// Content is the path to the Atom's optional content tree.
	Content string
	// Lock is the path to the Atom's optional lockfile.
	Lock string
}

// DerivePaths computes the companion content and lock paths for a manifest
// blob found at specPath.
func DerivePaths(specPath string) AtomPaths {
	dir := path.Dir(specPath)
	base := path.Base(specPath)
	stem := strings.TrimSuffix(base, Suffix)

	content := stem
	if dir != "." {
		content = path.Join(dir, stem)
	}

	return AtomPaths{
		Spec:    specPath,
		Content: content,
		Lock:    content + ".lock",
	}
}

// IsManifestPath reports whether p names a blob that could be an Atom
// manifest, based on filename alone.
func IsManifestPath(p string) bool {
	return strings.HasSuffix(path.Base(p), Suffix)
}
