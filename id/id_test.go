package id

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type testRoot string

func (r testRoot) AsBytes() []byte { return []byte(r) }

func TestNewValid(t *testing.T) {
	cases := []string{"foo", "Foo-Bar_42", "λ", "my-atom", "名前"}
	for _, c := range cases {
		got, err := New(c)
		require.NoError(t, err, c)
		require.Equal(t, c, got.String())
	}
}

func TestNewEmpty(t *testing.T) {
	_, err := New("")
	require.True(t, errors.Is(err, ErrEmpty))
}

func TestNewTooLong(t *testing.T) {
	_, err := New(strings.Repeat("a", MaxLen+1))
	require.True(t, errors.Is(err, ErrTooLong))
}

func TestNewInvalidStart(t *testing.T) {
	for _, c := range []string{"1abc", "-abc", "_abc"} {
		_, err := New(c)
		var target *Error
		require.ErrorAs(t, err, &target)
		require.Equal(t, rune(c[0]), target.Char)
	}
}

func TestNewInvalidCharacters(t *testing.T) {
	_, err := New("ok ok!")
	var target *Error
	require.ErrorAs(t, err, &target)
	require.Equal(t, " !", target.Chars)
}

func TestHashEqualForEqualInputs(t *testing.T) {
	root := testRoot("root-a")
	atomID, err := New("foo")
	require.NoError(t, err)

	a := Compute(root, atomID)
	b := Compute(root, atomID)

	require.Equal(t, a.Hash(), b.Hash())
}

func TestHashDiffersByRoot(t *testing.T) {
	atomID, err := New("foo")
	require.NoError(t, err)

	a := Compute(testRoot("root-a"), atomID)
	b := Compute(testRoot("root-b"), atomID)

	require.NotEqual(t, a.Hash(), b.Hash())
}

func TestHashDiffersByID(t *testing.T) {
	root := testRoot("root-a")
	idA, err := New("foo")
	require.NoError(t, err)
	idB, err := New("bar")
	require.NoError(t, err)

	a := Compute(root, idA)
	b := Compute(root, idB)

	require.NotEqual(t, a.Hash(), b.Hash())
}

func TestHashStringIsLowercaseBase32NoPadding(t *testing.T) {
	root := testRoot("root-a")
	atomID, err := New("foo")
	require.NoError(t, err)

	s := Compute(root, atomID).Hash().String()
	require.Equal(t, strings.ToLower(s), s)
	require.NotContains(t, s, "=")
}

func TestHashFormatPrecisionTruncates(t *testing.T) {
	root := testRoot("root-a")
	atomID, err := New("foo")
	require.NoError(t, err)

	h := Compute(root, atomID).Hash()
	full := h.String()
	truncated := fmt.Sprintf("%.8v", h)
	require.Equal(t, full[:8], truncated)
}
