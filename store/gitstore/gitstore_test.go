package gitstore

import (
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekala-project/atom/store"
)

func newMemStore(t *testing.T) *Store {
	t.Helper()
	repo, err := git.Init(memory.NewStorage(), memfs.New())
	require.NoError(t, err)
	return &Store{repo: repo, path: "/"}
}

func (s *Store) writeTestBlob(t *testing.T, content string) string {
	t.Helper()
	obj := s.repo.Storer.NewEncodedObject()
	obj.SetType(plumbing.BlobObject)
	w, err := obj.Writer()
	require.NoError(t, err)
	_, err = w.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	hash, err := s.repo.Storer.SetEncodedObject(obj)
	require.NoError(t, err)
	return hash.String()
}

func TestNormalizeAbsolutePath(t *testing.T) {
	s := newMemStore(t)
	got, err := s.Normalize("/foo/bar@.toml")
	require.NoError(t, err)
	assert.Equal(t, "foo/bar@.toml", got)
}

func TestNormalizeRelativePath(t *testing.T) {
	s := newMemStore(t)
	got, err := s.Normalize("foo/bar@.toml")
	require.NoError(t, err)
	assert.Equal(t, "foo/bar@.toml", got)
}

func TestNormalizeEscapingPathFails(t *testing.T) {
	s := newMemStore(t)
	_, err := s.Normalize("../escape")
	assert.ErrorIs(t, err, store.ErrPathEscapesRoot)
}

func TestNormalizeRoot(t *testing.T) {
	s := newMemStore(t)
	got, err := s.Normalize("/")
	require.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestWriteTreeAndHashTreeAgree(t *testing.T) {
	s := newMemStore(t)
	blob := s.writeTestBlob(t, "hello")

	entries := []store.TreeEntry{{Name: "a.txt", Hash: blob, Kind: store.BlobEntry}}

	hashed, err := s.HashTree(entries)
	require.NoError(t, err)

	written, err := s.WriteTree(entries)
	require.NoError(t, err)

	assert.Equal(t, hashed, written)
}

func TestWriteCommitReproducibleEncoding(t *testing.T) {
	s := newMemStore(t)
	blob := s.writeTestBlob(t, "hello")
	tree, err := s.WriteTree([]store.TreeEntry{{Name: "a.txt", Hash: blob, Kind: store.BlobEntry}})
	require.NoError(t, err)

	spec := store.CommitSpec{
		Tree:    tree,
		Message: "zlib: 1.0.0",
		Headers: []store.CommitHeader{
			{Key: "_origin", Value: "deadbeef"},
			{Key: "path", Value: "pkgs/zlib"},
			{Key: "format", Value: "v1"},
		},
	}

	a, err := s.WriteCommit(spec)
	require.NoError(t, err)
	b, err := s.WriteCommit(spec)
	require.NoError(t, err)
	assert.Equal(t, a, b, "identical commit specs must hash identically")
}

func TestCalculateRootLinearHistory(t *testing.T) {
	s := newMemStore(t)
	blob := s.writeTestBlob(t, "hello")
	tree, err := s.WriteTree([]store.TreeEntry{{Name: "a.txt", Hash: blob, Kind: store.BlobEntry}})
	require.NoError(t, err)

	root, err := s.WriteCommit(store.CommitSpec{Tree: tree, Message: "root"})
	require.NoError(t, err)

	mid, err := s.WriteCommit(store.CommitSpec{Tree: tree, Parents: []string{root}, Message: "mid"})
	require.NoError(t, err)

	tip, err := s.WriteCommit(store.CommitSpec{Tree: tree, Parents: []string{mid}, Message: "tip"})
	require.NoError(t, err)

	got, err := s.CalculateRoot(store.CommitID(tip))
	require.NoError(t, err)
	assert.Equal(t, root, hashFromRoot(got).String())
}

func TestCalculateRootNoParentIsOwnRoot(t *testing.T) {
	s := newMemStore(t)
	blob := s.writeTestBlob(t, "hello")
	tree, err := s.WriteTree([]store.TreeEntry{{Name: "a.txt", Hash: blob, Kind: store.BlobEntry}})
	require.NoError(t, err)

	root, err := s.WriteCommit(store.CommitSpec{Tree: tree, Message: "root"})
	require.NoError(t, err)

	got, err := s.CalculateRoot(store.CommitID(root))
	require.NoError(t, err)
	assert.Equal(t, root, hashFromRoot(got).String())
}

func TestFindBlobAndFindTree(t *testing.T) {
	s := newMemStore(t)
	blob := s.writeTestBlob(t, "hello")
	inner, err := s.WriteTree([]store.TreeEntry{{Name: "file", Hash: blob, Kind: store.BlobEntry}})
	require.NoError(t, err)

	outer, err := s.WriteTree([]store.TreeEntry{
		{Name: "a.toml", Hash: blob, Kind: store.BlobEntry},
		{Name: "a", Hash: inner, Kind: store.DirEntry},
	})
	require.NoError(t, err)

	commit, err := s.WriteCommit(store.CommitSpec{Tree: outer, Message: "m"})
	require.NoError(t, err)

	ok, hash, err := s.FindBlob(store.CommitID(commit), "a.toml")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, blob, hash)

	ok, hash, err = s.FindTree(store.CommitID(commit), "a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, inner, hash)

	ok, _, err = s.FindBlob(store.CommitID(commit), "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestWalkBlobsAndReadBlob(t *testing.T) {
	s := newMemStore(t)
	blob := s.writeTestBlob(t, "id = \"zlib\"\n")
	tree, err := s.WriteTree([]store.TreeEntry{{Name: "zlib@.toml", Hash: blob, Kind: store.BlobEntry}})
	require.NoError(t, err)
	commit, err := s.WriteCommit(store.CommitSpec{Tree: tree, Message: "m"})
	require.NoError(t, err)

	var seen []string
	err = s.WalkBlobs(store.CommitID(commit), func(path, hash string) error {
		seen = append(seen, path)
		assert.Equal(t, blob, hash)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"zlib@.toml"}, seen)

	content, err := s.ReadBlob(blob)
	require.NoError(t, err)
	assert.Equal(t, "id = \"zlib\"\n", string(content))
}

func TestTreeExists(t *testing.T) {
	s := newMemStore(t)
	blob := s.writeTestBlob(t, "x")
	hash, err := s.WriteTree([]store.TreeEntry{{Name: "a", Hash: blob, Kind: store.BlobEntry}})
	require.NoError(t, err)

	ok, err := s.TreeExists(hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.TreeExists(blob)
	require.NoError(t, err)
	assert.False(t, ok, "a blob hash must not be reported as an existing tree")
}

func TestSetRefCASRejectsConflict(t *testing.T) {
	s := newMemStore(t)
	blob := s.writeTestBlob(t, "hello")
	tree, err := s.WriteTree([]store.TreeEntry{{Name: "a.txt", Hash: blob, Kind: store.BlobEntry}})
	require.NoError(t, err)
	c1, err := s.WriteCommit(store.CommitSpec{Tree: tree, Message: "one"})
	require.NoError(t, err)
	c2, err := s.WriteCommit(store.CommitSpec{Tree: tree, Message: "two"})
	require.NoError(t, err)

	require.NoError(t, s.SetRefCAS("refs/atoms/zlib/1.0.0", c1))

	// Setting the same value again is idempotent.
	require.NoError(t, s.SetRefCAS("refs/atoms/zlib/1.0.0", c1))

	err = s.SetRefCAS("refs/atoms/zlib/1.0.0", c2)
	require.Error(t, err)
	var conflict *store.RefConflictError
	assert.ErrorAs(t, err, &conflict)
}
