package manifest

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
	"github.com/pkg/errors"

	"github.com/ekala-project/atom/id"
)

// SrcKind discriminates the two legal shapes of a dependency source.
type SrcKind int

const (
	// SrcPath is a path-addressed source, relative to the atom's manifest.
	SrcPath SrcKind = iota
	// SrcURL is a remote, URL-addressed source, with an optional ref.
	SrcURL
)

// Src is the flattened `path | (url, ref?)` discriminated union used by
// every dependency section. The `path` and `url` keys are mutually
// exclusive; `ref` is only legal alongside `url`.
type Src struct {
	Kind SrcKind
	Path string
	URL  string
	Ref  string
}

// AtomDependency is a declared dependency on another Atom.
type AtomDependency struct {
	Version *semver.Constraints
	Src     Src
}

// Dependencies holds the three optional dependency sections a manifest may
// declare.
type Dependencies struct {
	Atoms map[id.Id]AtomDependency
	Pins  map[string]Src
	Srcs  map[string]Src
}

type depsDoc struct {
	Atoms map[string]atomDepDoc `toml:"atoms"`
	Pins  map[string]srcDoc     `toml:"pins"`
	Srcs  map[string]srcDoc     `toml:"srcs"`
}

type atomDepDoc struct {
	Version string `toml:"version"`
	Path    string `toml:"path"`
	URL     string `toml:"url"`
	Ref     string `toml:"ref"`
}

type srcDoc struct {
	Path string `toml:"path"`
	URL  string `toml:"url"`
	Ref  string `toml:"ref"`
}

func unknownKeyError(key string) error {
	return errors.Errorf("unknown key in manifest: %s", key)
}

func (s srcDoc) validate() (Src, error) {
	hasPath := s.Path != ""
	hasURL := s.URL != ""

	switch {
	case hasPath && hasURL:
		return Src{}, errors.New("a dependency src must specify exactly one of `path` or `url`, not both")
	case !hasPath && !hasURL:
		return Src{}, errors.New("a dependency src requires either `path` or `url`")
	case hasPath:
		if s.Ref != "" {
			return Src{}, errors.New("`ref` is only valid alongside a `url` src, not a `path` src")
		}
		return Src{Kind: SrcPath, Path: s.Path}, nil
	default:
		return Src{Kind: SrcURL, URL: s.URL, Ref: s.Ref}, nil
	}
}

func (d depsDoc) toDependencies() (Dependencies, error) {
	var result Dependencies

	if len(d.Atoms) > 0 {
		result.Atoms = make(map[id.Id]AtomDependency, len(d.Atoms))
		for name, raw := range d.Atoms {
			atomID, err := id.New(name)
			if err != nil {
				return Dependencies{}, fmt.Errorf("deps.atoms.%s: %w", name, err)
			}
			constraint, err := semver.NewConstraint(raw.Version)
			if err != nil {
				return Dependencies{}, fmt.Errorf("deps.atoms.%s: %w", name, err)
			}
			src, err := (srcDoc{Path: raw.Path, URL: raw.URL, Ref: raw.Ref}).validate()
			if err != nil {
				return Dependencies{}, fmt.Errorf("deps.atoms.%s: %w", name, err)
			}
			result.Atoms[atomID] = AtomDependency{Version: constraint, Src: src}
		}
	}

	if len(d.Pins) > 0 {
		result.Pins = make(map[string]Src, len(d.Pins))
		for name, raw := range d.Pins {
			src, err := raw.validate()
			if err != nil {
				return Dependencies{}, fmt.Errorf("deps.pins.%s: %w", name, err)
			}
			result.Pins[name] = src
		}
	}

	if len(d.Srcs) > 0 {
		result.Srcs = make(map[string]Src, len(d.Srcs))
		for name, raw := range d.Srcs {
			src, err := raw.validate()
			if err != nil {
				return Dependencies{}, fmt.Errorf("deps.srcs.%s: %w", name, err)
			}
			result.Srcs[name] = src
		}
	}

	return result, nil
}
