package id

import (
	"encoding/base32"
	"fmt"

	"lukechampine.com/blake3"
)

// domainSeparator is the fixed context string used to derive the keyed
// BLAKE3 key for every AtomId hash. It must never change: changing it
// would silently re-name every previously published Atom.
const domainSeparator = "AtomId"

// base32Encoding is lowercase RFC 4648 base32 without padding, as required
// for the external AtomId display form.
var base32Encoding = base32.NewEncoding("abcdefghijklmnopqrstuvwxyz234567").WithPadding(base32.NoPadding)

// Root is the opaque, store-specific digest that anchors every AtomId in a
// single store to a common domain-separation key. Concrete stores (e.g.
// store/gitstore) provide their own Root implementation; id never inspects
// the byte layout beyond treating it as keying material.
type Root interface {
	// AsBytes returns the raw digest bytes (20 or 32 bytes, depending on
	// the backend's object format).
	AsBytes() []byte
}

// AtomId is the pair (root, id) that names an Atom within a store.
// Equality and hashing (as a Go map key) compare both fields, which
// requires the Root's dynamic type to be comparable: gitstore.Root holds a
// byte slice and is not, so AtomIds built on it cannot be compared with ==
// or used as map keys. The *external*, human-displayed identifier is the
// keyed hash returned by Hash.
type AtomId struct {
	root Root
	id   Id
}

// Compute constructs the AtomId for id within the store identified by root.
// There is no other way to build an AtomId: its root is always bound to a
// concrete store at construction time.
func Compute(root Root, atomID Id) AtomId {
	return AtomId{root: root, id: atomID}
}

// Root returns the store root this AtomId is bound to.
func (a AtomId) Root() Root {
	return a.root
}

// Id returns the Atom's human-readable identifier.
func (a AtomId) Id() Id {
	return a.id
}

// Hash is the 32-byte keyed BLAKE3 digest that serves as an AtomId's
// external, collision-resistant name. Two AtomIds with equal (root, id)
// always produce an identical Hash; AtomIds from different stores (even
// with the same human-readable id) practically never collide because the
// hash key is derived from the store's root.
type Hash [32]byte

// Hash derives the keyed BLAKE3 hash for this AtomId.
//
// The 32-byte key is blake3.DeriveKey("AtomId", root.AsBytes()); the keyed
// hash is then computed over the Id's UTF-8 bytes.
func (a AtomId) Hash() Hash {
	return computeHash(a.root, a.id)
}

func computeHash(root Root, atomID Id) Hash {
	var key [32]byte
	blake3.DeriveKey(key[:], domainSeparator, root.AsBytes())

	hasher := blake3.NewKeyed(key[:])
	_, _ = hasher.Write([]byte(atomID))

	var out Hash
	hasher.Sum(out[:0])
	return out
}

// String renders the hash as lowercase, unpadded RFC 4648 base32.
func (h Hash) String() string {
	return base32Encoding.EncodeToString(h[:])
}

// Format implements fmt.Formatter so that a precision specifier (e.g.
// "%.8s"-equivalent via fmt.Sprintf("%.8v", hash)) truncates the rendered
// base32 string, matching the display semantics required for AtomId.
func (h Hash) Format(f fmt.State, verb rune) {
	s := h.String()
	if prec, ok := f.Precision(); ok && prec < len(s) {
		s = s[:prec]
	}
	_, _ = fmt.Fprint(f, s)
}

// String implements fmt.Stringer for an AtomId, delegating to its Hash.
func (a AtomId) String() string {
	return a.Hash().String()
}
