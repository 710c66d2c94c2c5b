package uri

import (
	"errors"
	"testing"

	"github.com/Masterminds/semver/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAliases() map[string]string {
	return map[string]string{
		"gh":   "github.com",
		"gl":   "gitlab.com",
		"pkgs": "gh:nixos/nixpkgs",
	}
}

func TestParseGithubAlias(t *testing.T) {
	u, err := Parse("gh:owner/repo::λ@^1", testAliases())
	require.NoError(t, err)
	require.NotNil(t, u.Url())
	assert.Equal(t, "https://github.com/owner/repo", u.Url().String())
	assert.Equal(t, "λ", u.Id().String())
	require.NotNil(t, u.Version())
	v, err := semver.NewVersion("1.2.3")
	require.NoError(t, err)
	assert.True(t, u.Version().Check(v))
}

func TestParseScpLikeWithUser(t *testing.T) {
	u, err := Parse("git@gh:owner/repo::this-atom@^1", testAliases())
	require.NoError(t, err)
	require.NotNil(t, u.Url())
	assert.Equal(t, "git@github.com:owner/repo", u.Url().String())
	assert.Equal(t, "this-atom", u.Id().String())
}

func TestParseIndirectAlias(t *testing.T) {
	u, err := Parse("pkgs::zlib@^1", testAliases())
	require.NoError(t, err)
	require.NotNil(t, u.Url())
	assert.Equal(t, "https://github.com/nixos/nixpkgs", u.Url().String())
	assert.Equal(t, "zlib", u.Id().String())
}

func TestParseNoUrl(t *testing.T) {
	u, err := Parse("::foo", testAliases())
	require.NoError(t, err)
	assert.Nil(t, u.Url())
	assert.Equal(t, "foo", u.Id().String())
}

func TestParseExplicitSchemeWithPort(t *testing.T) {
	u, err := Parse("https://example.com:8080/owner/repo::foo@^1", testAliases())
	require.NoError(t, err)
	require.NotNil(t, u.Url())
	assert.Equal(t, "https://example.com:8080/owner/repo", u.Url().String())
	assert.Equal(t, "foo", u.Id().String())
}

func TestParseBareSshHost(t *testing.T) {
	u, err := Parse("my.ssh.com:my/repo::hello", testAliases())
	require.NoError(t, err)
	require.NotNil(t, u.Url())
	assert.Equal(t, "ssh", u.Url().Scheme)
	assert.Equal(t, "my.ssh.com", u.Url().Host)
	assert.Equal(t, "hello", u.Id().String())
}

func TestParseBareHostNoPath(t *testing.T) {
	u, err := Parse("github.com::foo", testAliases())
	require.NoError(t, err)
	require.NotNil(t, u.Url())
	assert.Equal(t, "github.com", u.Url().Host)
	assert.Equal(t, "https://github.com", u.Url().String())
	assert.Equal(t, "foo", u.Id().String())
}

func TestParseBareAliasNoPath(t *testing.T) {
	u, err := Parse("gh::foo", testAliases())
	require.NoError(t, err)
	require.NotNil(t, u.Url())
	assert.Equal(t, "github.com", u.Url().Host)
	assert.Equal(t, "https://github.com", u.Url().String())
	assert.Equal(t, "foo", u.Id().String())
}

// An unrecognized alias candidate is not an error: per the original
// grammar, failed alias resolution falls back to treating the fragment as
// a literal (non-host) path rather than aborting the parse.
func TestParseUnknownAliasFallsBackToLiteral(t *testing.T) {
	u, err := Parse("nope:owner/repo::foo", testAliases())
	require.NoError(t, err)
	require.NotNil(t, u.Url())
	assert.Equal(t, "", u.Url().Host)
	assert.Equal(t, "foo", u.Id().String())
}

func TestParseInvalidVersionReq(t *testing.T) {
	_, err := Parse("gh:owner/repo::foo@not-a-version", testAliases())
	require.Error(t, err)
	var badVersion *InvalidVersionReqError
	assert.True(t, errors.As(err, &badVersion))
}

func TestParseMissingAtomId(t *testing.T) {
	_, err := Parse("gh:owner/repo::", testAliases())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoAtom)
}

func TestParseNoVersionDefaultsToNil(t *testing.T) {
	u, err := Parse("::foo", testAliases())
	require.NoError(t, err)
	assert.Nil(t, u.Version())
}

func TestUriStringRoundTrip(t *testing.T) {
	u, err := Parse("gh:owner/repo::foo@^1", testAliases())
	require.NoError(t, err)
	assert.Equal(t, "https://github.com/owner/repo::foo@^1", u.String())
}

func TestURLForRequiredMissing(t *testing.T) {
	u, err := Parse("::foo", testAliases())
	require.NoError(t, err)
	_, err = u.URLForRequired()
	assert.ErrorIs(t, err, ErrNoUrl)
}
