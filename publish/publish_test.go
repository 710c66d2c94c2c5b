package publish

import (
	"context"
	"os"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/stretchr/testify/require"

	"github.com/ekala-project/atom/store"
	"github.com/ekala-project/atom/store/gitstore"
)

// setupRemote creates a bare repository to act as the ekala remote, and
// a non-bare working repository seeded with a single commit containing
// one Atom manifest. It returns the working Store, the remote path, and
// the seed commit id.
func setupRemote(t *testing.T) (*gitstore.Store, string, string) {
	t.Helper()

	remoteDir := t.TempDir()
	_, err := git.PlainInit(remoteDir, true)
	require.NoError(t, err)

	workDir := t.TempDir()
	s, err := gitstore.Init(workDir)
	require.NoError(t, err)

	blobHash := writeBlob(t, s, "[atom]\nid = \"zlib\"\nversion = \"1.0.0\"\n")

	tree, err := s.WriteTree([]store.TreeEntry{
		{Name: "zlib@.toml", Hash: blobHash, Kind: store.BlobEntry},
	})
	require.NoError(t, err)

	commit, err := s.WriteCommit(store.CommitSpec{Tree: tree, Message: "seed"})
	require.NoError(t, err)

	repo := s.Repository()
	require.NoError(t, repo.Storer.SetReference(
		plumbing.NewHashReference(plumbing.NewBranchReferenceName("master"), plumbing.NewHash(commit)),
	))
	require.NoError(t, repo.Storer.SetReference(
		plumbing.NewSymbolicReference(plumbing.HEAD, plumbing.NewBranchReferenceName("master")),
	))

	_, err = repo.CreateRemote(&config.RemoteConfig{Name: "origin", URLs: []string{remoteDir}})
	require.NoError(t, err)
	require.NoError(t, repo.Push(&git.PushOptions{
		RemoteName: "origin",
		RefSpecs:   []config.RefSpec{"refs/heads/master:refs/heads/master"},
	}))

	return s, remoteDir, commit
}

// writeBlob writes a blob directly through go-git, since a tree write
// requires a blob hash that already exists in the store and
// store.Backend itself exposes no standalone blob-write primitive: a
// Publisher only ever reads blobs that publishing a repository's
// ordinary commits already put there.
func writeBlob(t *testing.T, s *gitstore.Store, content string) string {
	t.Helper()
	repo := s.Repository()
	obj := repo.Storer.NewEncodedObject()
	obj.SetType(plumbing.BlobObject)
	w, err := obj.Writer()
	require.NoError(t, err)
	_, err = w.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	hash, err := repo.Storer.SetEncodedObject(obj)
	require.NoError(t, err)
	return hash.String()
}

func TestBuildAndPublishAtom(t *testing.T) {
	if _, err := os.Stat("/usr/bin/git"); err != nil {
		t.Skip("requires host git for push")
	}

	s, remote, commit := setupRemote(t)
	ctx := context.Background()

	require.NoError(t, s.EkalaInit(ctx, remote))

	valid, publisher, err := (Builder{}).Build(ctx, s, remote, store.CommitID(commit))
	require.NoError(t, err)
	require.Len(t, valid, 1)

	var path string
	for _, p := range valid {
		path = p
	}
	require.Equal(t, "zlib@.toml", path)

	outcome, err := publisher.PublishAtom(path)
	require.NoError(t, err)
	require.Equal(t, Published, outcome.Kind)
	require.Equal(t, "zlib@.toml", outcome.Record.Path)

	// Re-publishing identical content is idempotent.
	outcome2, err := publisher.PublishAtom(path)
	require.NoError(t, err)
	require.Equal(t, Skipped, outcome2.Kind)

	require.NoError(t, publisher.AwaitPushes())
}

func TestMapCapacityFloor(t *testing.T) {
	require.Equal(t, minCapacity, mapCapacity(0))
	require.Equal(t, minCapacity, mapCapacity(1))
}
