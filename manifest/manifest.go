// Package manifest provides the core types for working with an Atom's
// manifest format: a TOML document with a required [atom] table and
// optional [deps.atoms], [deps.pins], [deps.srcs] dependency sections.
package manifest

import (
	"bytes"

	"github.com/BurntSushi/toml"
	"github.com/Masterminds/semver/v3"

	"github.com/ekala-project/atom/id"
)

// Atom is the required, top-level declaration of a manifest: the Atom's
// identity, version, and optional human-readable description.
type Atom struct {
	Id          id.Id
	Version     *semver.Version
	Description *string
}

// Manifest is the full, optional-dependency-aware view of a manifest
// document.
type Manifest struct {
	Atom Atom
	Deps Dependencies
}

type rawDoc struct {
	Atom atomDoc `toml:"atom"`
	Deps depsDoc `toml:"deps"`
}

type atomDoc struct {
	Id          string `toml:"id"`
	Version     string `toml:"version"`
	Description string `toml:"description"`
}

func (a atomDoc) toAtom() (Atom, error) {
	atomID, err := id.New(a.Id)
	if err != nil {
		return Atom{}, err
	}
	version, err := semver.NewVersion(a.Version)
	if err != nil {
		return Atom{}, err
	}
	var desc *string
	if a.Description != "" {
		d := a.Description
		desc = &d
	}
	return Atom{Id: atomID, Version: version, Description: desc}, nil
}

// ParseAtom reads a TOML document and extracts only the required [atom]
// table, ignoring dependency sections entirely.
func ParseAtom(data []byte) (Atom, error) {
	m, err := parse(data, false)
	if err != nil {
		return Atom{}, err
	}
	return m.Atom, nil
}

// ParseManifest reads a TOML document in full, including optional
// dependency sections.
func ParseManifest(data []byte) (Manifest, error) {
	return parse(data, true)
}

func parse(data []byte, withDeps bool) (Manifest, error) {
	var doc rawDoc
	meta, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&doc)
	if err != nil {
		return Manifest{}, &InvalidTomlError{Cause: err}
	}

	if !meta.IsDefined("atom") {
		return Manifest{}, ErrMissing
	}

	atom, err := doc.Atom.toAtom()
	if err != nil {
		return Manifest{}, &InvalidAtomError{Cause: err}
	}

	m := Manifest{Atom: atom}
	if !withDeps {
		return m, nil
	}

	for _, k := range meta.Undecoded() {
		if len(k) > 0 && k[0] == "deps" {
			return Manifest{}, &InvalidAtomError{
				Cause: unknownKeyError(k.String()),
			}
		}
	}

	deps, err := doc.Deps.toDependencies()
	if err != nil {
		return Manifest{}, &InvalidAtomError{Cause: err}
	}
	m.Deps = deps

	return m, nil
}
