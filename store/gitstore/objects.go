package gitstore

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/ekala-project/atom/store"
)

func (s *Store) lookup(commit store.CommitID, p string) (*object.TreeEntry, error) {
	c, err := s.repo.CommitObject(plumbing.NewHash(commit.String()))
	if err != nil {
		return nil, err
	}
	tree, err := c.Tree()
	if err != nil {
		return nil, err
	}
	entry, err := tree.FindEntry(p)
	if err != nil {
		if errors.Is(err, object.ErrEntryNotFound) || errors.Is(err, object.ErrDirectoryNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return entry, nil
}

// FindBlob implements store.ObjectWriter.
func (s *Store) FindBlob(commit store.CommitID, p string) (bool, string, error) {
	entry, err := s.lookup(commit, p)
	if err != nil {
		return false, "", err
	}
	if entry == nil || entry.Mode == filemode.Dir {
		return false, "", nil
	}
	return true, entry.Hash.String(), nil
}

// FindTree implements store.ObjectWriter.
func (s *Store) FindTree(commit store.CommitID, p string) (bool, string, error) {
	entry, err := s.lookup(commit, p)
	if err != nil {
		return false, "", err
	}
	if entry == nil || entry.Mode != filemode.Dir {
		return false, "", nil
	}
	return true, entry.Hash.String(), nil
}

// ReadBlob implements store.ObjectWriter.
func (s *Store) ReadBlob(hash string) ([]byte, error) {
	blob, err := s.repo.BlobObject(plumbing.NewHash(hash))
	if err != nil {
		return nil, err
	}
	r, err := blob.Reader()
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

// WalkBlobs implements store.ObjectWriter.
func (s *Store) WalkBlobs(commit store.CommitID, visit func(path string, hash string) error) error {
	c, err := s.repo.CommitObject(plumbing.NewHash(commit.String()))
	if err != nil {
		return err
	}
	tree, err := c.Tree()
	if err != nil {
		return err
	}

	files := tree.Files()
	defer files.Close()

	return files.ForEach(func(f *object.File) error {
		return visit(f.Name, f.Hash.String())
	})
}

// TreeExists implements store.ObjectWriter.
func (s *Store) TreeExists(hash string) (bool, error) {
	_, err := s.repo.TreeObject(plumbing.NewHash(hash))
	if err != nil {
		if errors.Is(err, plumbing.ErrObjectNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// sortTreeEntries orders entries the way git requires: byte-comparison of
// names, with directory entries compared as though suffixed with '/'.
func sortTreeEntries(entries []object.TreeEntry) {
	for i := 1; i < len(entries); i++ {
		for j := i; j > 0 && treeEntryLess(entries[j], entries[j-1]); j-- {
			entries[j], entries[j-1] = entries[j-1], entries[j]
		}
	}
}

func treeEntryLess(a, b object.TreeEntry) bool {
	na, nb := a.Name, b.Name
	if a.Mode == filemode.Dir {
		na += "/"
	}
	if b.Mode == filemode.Dir {
		nb += "/"
	}
	return na < nb
}

func toObjectTree(entries []store.TreeEntry) *object.Tree {
	oe := make([]object.TreeEntry, len(entries))
	for i, e := range entries {
		mode := filemode.Regular
		if e.Kind == store.DirEntry {
			mode = filemode.Dir
		}
		oe[i] = object.TreeEntry{Name: e.Name, Mode: mode, Hash: plumbing.NewHash(e.Hash)}
	}
	sortTreeEntries(oe)
	return &object.Tree{Entries: oe}
}

// HashTree implements store.ObjectWriter.
func (s *Store) HashTree(entries []store.TreeEntry) (string, error) {
	tree := toObjectTree(entries)
	obj := &plumbing.MemoryObject{}
	if err := tree.Encode(obj); err != nil {
		return "", err
	}
	return obj.Hash().String(), nil
}

// WriteTree implements store.ObjectWriter.
func (s *Store) WriteTree(entries []store.TreeEntry) (string, error) {
	tree := toObjectTree(entries)
	obj := s.repo.Storer.NewEncodedObject()
	if err := tree.Encode(obj); err != nil {
		return "", err
	}
	hash, err := s.repo.Storer.SetEncodedObject(obj)
	if err != nil {
		return "", err
	}
	return hash.String(), nil
}

// encodeCommit renders spec in raw git commit object format. A hand
// encoding is used, rather than go-git's object.Commit, because this
// package needs arbitrary extra header lines (_origin, path, format)
// that go-git's typed Commit does not expose; the object format itself
// is plain text and stable, so writing it directly keeps the reproducible
// encoding (spec.md section 6.3) exact.
func encodeCommit(spec store.CommitSpec) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "tree %s\n", spec.Tree)
	for _, p := range spec.Parents {
		fmt.Fprintf(&b, "parent %s\n", p)
	}
	fmt.Fprintf(&b, "author  <> 0 +0000\n")
	fmt.Fprintf(&b, "committer  <> 0 +0000\n")
	for _, h := range spec.Headers {
		fmt.Fprintf(&b, "%s %s\n", h.Key, h.Value)
	}
	b.WriteByte('\n')
	b.WriteString(spec.Message)
	return b.Bytes()
}

// WriteCommit implements store.ObjectWriter.
func (s *Store) WriteCommit(spec store.CommitSpec) (string, error) {
	raw := encodeCommit(spec)

	obj := s.repo.Storer.NewEncodedObject()
	obj.SetType(plumbing.CommitObject)

	w, err := obj.Writer()
	if err != nil {
		return "", err
	}
	if _, err := w.Write(raw); err != nil {
		_ = w.Close()
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}

	hash, err := s.repo.Storer.SetEncodedObject(obj)
	if err != nil {
		return "", err
	}
	return hash.String(), nil
}

// ResolveRef implements store.ObjectWriter.
func (s *Store) ResolveRef(ref string) (string, bool, error) {
	r, err := s.repo.Reference(plumbing.ReferenceName(ref), true)
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return r.Hash().String(), true, nil
}

// SetRefCAS implements store.ObjectWriter. The must-not-exist
// precondition is enforced by checking for the ref's absence immediately
// before writing; go-git's CheckAndSetReference compares against a known
// prior value rather than asserting absence, so it does not fit this
// precondition directly. The local dotgit storer serializes ref writes
// with its own file locking, bounding the race between the check and the
// write to concurrent writers of this process.
func (s *Store) SetRefCAS(ref string, hash string) error {
	existing, found, err := s.ResolveRef(ref)
	if err != nil {
		return err
	}
	if found {
		if existing == hash {
			return nil
		}
		return &store.RefConflictError{Ref: ref, Existing: existing, Wanted: hash}
	}

	newRef := plumbing.NewHashReference(plumbing.ReferenceName(ref), plumbing.NewHash(hash))
	return s.repo.Storer.SetReference(newRef)
}
