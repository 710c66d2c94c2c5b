package uri

import (
	"strconv"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// Url is the (scheme, userinfo, host, port, path) tuple parsed out of an
// Atom URI's url-ish prefix. It intentionally does not reuse net/url.URL:
// the grammar must support git's scp-like "user@host:path" alternate form,
// which net/url cannot round-trip.
type Url struct {
	Scheme string
	User   string
	Pass   string
	Host   string
	Port   int // 0 means unset
	Path   string
	// scpLike marks the ssh/file alternate display form ("host:path"
	// instead of "scheme://host/path").
	scpLike bool
}

// String renders the Url the way an Atom URI display form expects.
func (u Url) String() string {
	var b strings.Builder

	if u.Host == "" {
		b.WriteString(u.Path)
		return b.String()
	}

	if u.scpLike {
		if u.User != "" {
			b.WriteString(u.User)
			if u.Pass != "" {
				b.WriteByte(':')
				b.WriteString(u.Pass)
			}
			b.WriteByte('@')
		}
		b.WriteString(u.Host)
		b.WriteByte(':')
		b.WriteString(strings.TrimPrefix(u.Path, "/"))
		return b.String()
	}

	b.WriteString(u.Scheme)
	b.WriteString("://")
	if u.User != "" {
		b.WriteString(u.User)
		if u.Pass != "" {
			b.WriteByte(':')
			b.WriteString(u.Pass)
		}
		b.WriteByte('@')
	}
	b.WriteString(u.Host)
	if u.Port != 0 {
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(u.Port))
	}
	b.WriteString(u.Path)
	return b.String()
}

// hostSplit is the result of splitHost: the host, the remainder of the
// frag string, and the delimiter that separated them: "/" for a
// conventional path-rooted URL, ":" for an scp-like ssh host, or "" when
// no split occurred at all.
type hostSplit struct {
	host  string
	delim string
	rest  string
}

// splitHost finds the host component of frag, preferring a "/"-delimited
// path, then an scp-like "host:path" form, and finally treating the whole
// string as an opaque host with no remainder.
func splitHost(frag string) hostSplit {
	if before, after, ok := splitFirst(frag, "/"); ok {
		if !strings.Contains(before, ":") || validPort(before) {
			return hostSplit{host: before, delim: "/", rest: after}
		}
	}

	if before, after, ok := splitFirst(frag, ":"); ok {
		if after == "" || !isDigitByte(after[0]) {
			return hostSplit{host: before, delim: ":", rest: after}
		}
	}

	return hostSplit{host: frag, delim: "", rest: ""}
}

func isDigitByte(b byte) bool { return b >= '0' && b <= '9' }

// validPort reports whether s is of the form "host:NNN".
func validPort(s string) bool {
	_, port, ok := splitFirst(s, ":")
	if !ok {
		return false
	}
	if port == "" {
		return false
	}
	for i := 0; i < len(port); i++ {
		if !isDigitByte(port[i]) {
			return false
		}
	}
	return true
}

// splitPort separates a trailing ":NNN" port from a host string, if
// present and valid.
func splitPort(host string) (string, int) {
	before, after, ok := splitFirst(host, ":")
	if !ok {
		return host, 0
	}
	port, err := strconv.Atoi(after)
	if err != nil {
		return host, 0
	}
	return before, port
}

// looksLikeHost reports whether candidate should be treated as a network
// host: it contains a '.' and has a publicly known suffix, or userinfo was
// supplied alongside it.
func looksLikeHost(candidate string, hasUserInfo bool) bool {
	if hasUserInfo {
		return true
	}
	if !strings.Contains(candidate, ".") {
		return false
	}
	_, icann := publicsuffix.PublicSuffix(strings.ToLower(candidate))
	return icann
}

// urlRef holds the raw pieces parsed out of the url-ish prefix of an Atom
// URI, prior to alias resolution and host detection.
type urlRef struct {
	scheme string
	user   string
	pass   string
	frag   string
}

func parseUrlRef(s string) urlRef {
	scheme, rest1, hasScheme := splitFirst(s, "://")
	if !hasScheme {
		rest1 = s
		scheme = ""
	}

	userPass, rest2, hasAt := splitFirst(rest1, "@")
	var user, pass string
	if hasAt {
		if u, p, ok := splitFirst(userPass, ":"); ok {
			user, pass = u, p
		} else {
			user = userPass
		}
	} else {
		rest2 = rest1
	}

	return urlRef{scheme: scheme, user: user, pass: pass, frag: rest2}
}

// toURL resolves any alias within the frag, determines the host and path,
// and applies the default-scheme rules, returning nil if no Url could be
// constructed (an empty or absent frag).
func (r urlRef) toURL(al aliases) (*Url, error) {
	if r.frag == "" {
		return nil, nil
	}

	frag := r.frag
	var resolved string
	var hasResolved bool

	if rest, candidate, ok := parseAlias(r.frag); ok {
		expanded, err := al.resolve(candidate)
		if err == nil {
			resolved = expanded
			hasResolved = true
			frag = rest
		}
	}

	var split hostSplit
	if hasResolved {
		split = splitHost(resolved)
	} else {
		split = splitHost(frag)
	}

	// split.rest is only a meaningful (possibly empty) path remainder when
	// splitHost actually found a delimiter. When it found none, the whole
	// candidate was consumed as the host: a resolved alias falls back to
	// the post-alias-token text as its path, but a bare, non-alias host
	// has no further path at all, so rest stays empty rather than
	// duplicating the host into the path.
	rest := split.rest
	if split.delim == "" {
		if hasResolved {
			rest = frag
		} else {
			rest = ""
		}
	}

	hostCandidate, port := split.host, 0
	if split.delim == "/" {
		hostCandidate, port = splitPort(split.host)
	}

	hasUserInfo := r.user != "" || r.pass != ""
	var host string
	if looksLikeHost(hostCandidate, hasUserInfo) {
		host = hostCandidate
	}

	scheme := r.scheme
	if scheme == "" {
		switch {
		case host == "":
			scheme = "file"
		case split.delim == ":" || (r.user != "" && r.pass == ""):
			scheme = "ssh"
		default:
			scheme = "https"
		}
	}

	scpLike := scheme == "file" || scheme == "ssh"
	if scheme == "ssh" {
		port = 0
	}

	var path string
	switch {
	case host == "":
		path = hostCandidate + split.delim + rest
	case rest == "":
		path = ""
	case !strings.HasPrefix(rest, "/"):
		path = "/" + rest
	default:
		path = rest
	}

	return &Url{
		Scheme:  scheme,
		User:    r.user,
		Pass:    r.pass,
		Host:    host,
		Port:    port,
		Path:    path,
		scpLike: scpLike,
	}, nil
}
