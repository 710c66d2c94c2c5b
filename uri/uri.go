// Package uri implements the Atom URI grammar:
//
//	[scheme://][user[:pass]@][alias:][frag::]id[@version]
//
// An alias is a user-configurable URL shortener (see package config) that
// expands to a URL prefix, with at most one level of indirection.
package uri

import (
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/ekala-project/atom/id"
)

// Uri is the parsed form of an Atom URI.
type Uri struct {
	url     *Url
	id      id.Id
	version *semver.Constraints
}

// Url returns the repository URL parsed out of the URI, if any.
func (u Uri) Url() *Url { return u.url }

// Id returns the Atom identifier parsed out of the URI.
func (u Uri) Id() id.Id { return u.id }

// Version returns the requested version constraint, if any.
func (u Uri) Version() *semver.Constraints { return u.version }

// String renders the URI in its canonical display form:
// "<url>::<id>[@<version>]", with any trailing '/' on the URL trimmed.
func (u Uri) String() string {
	var b strings.Builder
	if u.url != nil {
		b.WriteString(strings.TrimRight(u.url.String(), "/"))
	}
	b.WriteString("::")
	b.WriteString(u.id.String())
	if u.version != nil {
		b.WriteByte('@')
		b.WriteString(u.version.String())
	}
	return b.String()
}

// Parse parses s into a Uri, expanding any alias using the given table.
// aliases maps short names (e.g. "gh") to URL prefixes (e.g.
// "github.com"), with one level of indirection permitted between entries.
func Parse(s string, aliasTable map[string]string) (Uri, error) {
	al := aliases(aliasTable)

	urlPart, atomPart, hasSep := splitFirst(s, "::")
	if !hasSep {
		urlPart = ""
		atomPart = s
	}

	atomID, version, err := parseAtomPart(atomPart)
	if err != nil {
		return Uri{}, err
	}

	var parsedURL *Url
	if urlPart != "" {
		ref := parseUrlRef(urlPart)
		parsedURL, err = ref.toURL(al)
		if err != nil {
			return Uri{}, err
		}
	}

	return Uri{url: parsedURL, id: atomID, version: version}, nil
}

// MustParse is like Parse but panics on error; intended for tests and
// trusted, compile-time-constant URIs only.
func MustParse(s string, aliasTable map[string]string) Uri {
	u, err := Parse(s, aliasTable)
	if err != nil {
		panic(err)
	}
	return u
}

func parseAtomPart(s string) (id.Id, *semver.Constraints, error) {
	idStr, versionStr, hasVersion := splitFirst(s, "@")
	if idStr == "" {
		return "", nil, ErrNoAtom
	}

	atomID, err := id.New(idStr)
	if err != nil {
		return "", nil, err
	}

	if !hasVersion || versionStr == "" {
		return atomID, nil, nil
	}

	constraint, err := semver.NewConstraint(versionStr)
	if err != nil {
		return "", nil, &InvalidVersionReqError{Cause: err}
	}

	return atomID, constraint, nil
}

// URLForRequired is a convenience for callers (e.g. the publisher) that
// require a concrete Url to proceed.
func (u Uri) URLForRequired() (Url, error) {
	if u.url == nil {
		return Url{}, ErrNoUrl
	}
	return *u.url, nil
}
