// Package config assembles the process-wide alias table: a static
// mapping from short alias names (e.g. "gh") to URL prefixes, consulted
// by package uri when resolving an Atom URI's alias segment. Loading and
// merge precedence follow the same shape as the teacher's
// pkg/sysregistriesv2.GetRegistries: a package-level cache guarded by a
// mutex, populated once per distinct store path and otherwise reused.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// builtinAliases are the defaults every store starts with, overridable
// by any later-merged source.
var builtinAliases = map[string]string{
	"gh":   "github.com",
	"gl":   "gitlab.com",
	"cb":   "codeberg.org",
	"bb":   "bitbucket.org",
	"sh":   "sourcehut.org",
	"pkgs": "gh:nixos/nixpkgs",
}

// envPrefix is the prefix stripped from environment variables that
// override alias entries, e.g. EKA_ALIAS_GH=git.example.com sets "gh".
const envPrefix = "EKA_ALIAS_"

// fileDoc is the shape of an eka.toml alias file.
type fileDoc struct {
	Aliases map[string]string `toml:"aliases"`
}

// loadFile reads and parses an eka.toml at path, returning an empty map
// (not an error) if the file does not exist — both the user config file
// and the store-local config file are optional per spec.md section 4.6.
func loadFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "reading config file %s", path)
	}

	var doc fileDoc
	if _, err := toml.Decode(string(data), &doc); err != nil {
		return nil, errors.Wrapf(err, "parsing config file %s", path)
	}
	return doc.Aliases, nil
}

func loadEnv() map[string]string {
	out := make(map[string]string)
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(k, envPrefix) {
			continue
		}
		name := strings.ToLower(strings.TrimPrefix(k, envPrefix))
		if name == "" {
			continue
		}
		out[name] = v
	}
	return out
}

func merge(dst, src map[string]string) {
	for k, v := range src {
		dst[k] = v
	}
}

// userConfigPath returns the path to the user's eka.toml, or "" if the
// user config directory cannot be determined.
func userConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "eka", "eka.toml")
}

// storeConfigPath returns the path to a store-local eka.toml living next
// to the store's info directory (mirroring ".git/info/").
func storeConfigPath(storePath string) string {
	if storePath == "" {
		return ""
	}
	return filepath.Join(storePath, "info", "eka.toml")
}

// load assembles the alias table for storePath (which may be "" if no
// store-local override should be consulted), merging in precedence order
// low to high: built-in defaults, user config, store-local config, env.
func load(storePath string) (map[string]string, error) {
	merged := make(map[string]string, len(builtinAliases))
	merge(merged, builtinAliases)

	if p := userConfigPath(); p != "" {
		user, err := loadFile(p)
		if err != nil {
			return nil, err
		}
		merge(merged, user)
	}

	if p := storeConfigPath(storePath); p != "" {
		local, err := loadFile(p)
		if err != nil {
			return nil, err
		}
		merge(merged, local)
	}

	merge(merged, loadEnv())

	return merged, nil
}

var (
	cacheMu sync.Mutex
	cache   = make(map[string]map[string]string)
)

// Aliases returns the process-wide, lazily initialized alias table for
// storePath, loading and caching it on first access. The returned map
// must be treated as read-only: per spec.md section 4.6 it is immutable
// for the remainder of the process once built.
func Aliases(storePath string) (map[string]string, error) {
	cacheMu.Lock()
	defer cacheMu.Unlock()

	if cached, ok := cache[storePath]; ok {
		return cached, nil
	}

	merged, err := load(storePath)
	if err != nil {
		return nil, err
	}

	cache[storePath] = merged
	return merged, nil
}

// Reset clears the process-wide cache. It exists for tests; production
// callers never need it, since the table is meant to be read-only after
// first access.
func Reset() {
	cacheMu.Lock()
	defer cacheMu.Unlock()
	cache = make(map[string]map[string]string)
}
