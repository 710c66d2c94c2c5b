package gitstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/storage/memory"

	"github.com/ekala-project/atom/store"
)

const remoteName = "ekala"

// listRemoteRefs performs a lightweight ls-remote-style listing without
// requiring a local fetch.
func listRemoteRefs(ctx context.Context, url string) ([]*plumbing.Reference, error) {
	remote := git.NewRemote(memory.NewStorage(), &config.RemoteConfig{
		Name: remoteName,
		URLs: []string{url},
	})
	refs, err := remote.ListContext(ctx, &git.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("listing refs on %s: %w", url, err)
	}
	return refs, nil
}

func findRef(refs []*plumbing.Reference, name string) (*plumbing.Reference, bool) {
	for _, r := range refs {
		if r.Name().String() == name {
			return r, true
		}
	}
	return nil, false
}

// resolveHead finds the commit hash HEAD points at among a ref listing,
// following one level of symbolic indirection if the server advertised
// HEAD unresolved.
func resolveHead(refs []*plumbing.Reference) (plumbing.Hash, bool) {
	head, ok := findRef(refs, "HEAD")
	if !ok {
		return plumbing.ZeroHash, false
	}
	if head.Type() == plumbing.HashReference {
		return head.Hash(), true
	}
	if head.Type() == plumbing.SymbolicReference {
		target, ok := findRef(refs, head.Target().String())
		if !ok {
			return plumbing.ZeroHash, false
		}
		return target.Hash(), true
	}
	return plumbing.ZeroHash, false
}

// ensureRemote returns the repository's configured remote under
// remoteName, creating it against url if not already present.
func (s *Store) ensureRemote(url string) (*git.Remote, error) {
	r, err := s.repo.Remote(remoteName)
	if err == nil {
		return r, nil
	}
	if !errors.Is(err, git.ErrRemoteNotFound) {
		return nil, err
	}
	return s.repo.CreateRemote(&config.RemoteConfig{Name: remoteName, URLs: []string{url}})
}

// fetchAll brings every ref under refs/* from remote into this store's
// local object database under refs/remotes/ekala/*, so object lookups
// against the synced HEAD (tree walks, ancestry walks) can proceed
// locally and synchronously per the concurrency model (only the network
// round-trip itself suspends).
func (s *Store) fetchAll(ctx context.Context, url string) error {
	if _, err := s.ensureRemote(url); err != nil {
		return fmt.Errorf("configuring remote %s: %w", url, err)
	}

	spec := config.RefSpec(fmt.Sprintf("+refs/*:refs/remotes/%s/*", remoteName))
	err := s.repo.FetchContext(ctx, &git.FetchOptions{
		RemoteName: remoteName,
		RefSpecs:   []config.RefSpec{spec},
	})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return fmt.Errorf("fetching from %s: %w", url, err)
	}
	return nil
}

// Sync implements store.RefQuerier.
func (s *Store) Sync(ctx context.Context, remote string) (store.CommitID, error) {
	if err := s.fetchAll(ctx, remote); err != nil {
		return "", err
	}

	refs, err := listRemoteRefs(ctx, remote)
	if err != nil {
		return "", err
	}
	hash, ok := resolveHead(refs)
	if !ok {
		return "", fmt.Errorf("remote %s: HEAD did not resolve", remote)
	}
	return store.CommitID(hash.String()), nil
}

// rootTagRef is the fixed reference the store root is published under.
const rootTagRef = "refs/tags/ekala/root/v1"

// EkalaInit implements store.Initializer.
func (s *Store) EkalaInit(ctx context.Context, remote string) error {
	head, err := s.Sync(ctx, remote)
	if err != nil {
		return err
	}

	root, err := s.CalculateRoot(head)
	if err != nil {
		return err
	}

	if err := s.SetRefCAS(rootTagRef, hashFromRoot(root).String()); err != nil {
		return err
	}

	return s.Push(ctx, remote, rootTagRef+":"+rootTagRef)
}

// EkalaRoot implements store.RefQuerier.
func (s *Store) EkalaRoot(ctx context.Context, remote string) (store.Root, error) {
	head, err := s.Sync(ctx, remote)
	if err != nil {
		return nil, err
	}
	fromHead, err := s.CalculateRoot(head)
	if err != nil {
		return nil, err
	}

	refs, err := listRemoteRefs(ctx, remote)
	if err != nil {
		return nil, err
	}
	tagRef, ok := findRef(refs, rootTagRef)
	if !ok {
		return nil, store.ErrRootTagMissing
	}
	fromTag := RootFromHash(tagRef.Hash())

	if !bytes.Equal(fromTag.AsBytes(), fromHead.AsBytes()) {
		return nil, &store.RootInconsistentError{Remote: remote, FromTag: fromTag, FromHead: fromHead}
	}
	return fromHead, nil
}

// GetRefs implements store.RefQuerier.
func (s *Store) GetRefs(ctx context.Context, remote string, specs []string) (map[string]store.CommitID, error) {
	refs, err := listRemoteRefs(ctx, remote)
	if err != nil {
		return nil, err
	}
	out := make(map[string]store.CommitID, len(specs))
	for _, spec := range specs {
		ref, ok := findRef(refs, spec)
		if !ok {
			return nil, &store.NoRefError{Name: spec}
		}
		out[spec] = store.CommitID(ref.Hash().String())
	}
	return out, nil
}

// IsEkalaStore implements store.RefQuerier.
func (s *Store) IsEkalaStore(ctx context.Context, remote string) bool {
	_, err := s.EkalaRoot(ctx, remote)
	return err == nil
}
