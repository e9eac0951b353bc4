package reader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akasaka-miraina/lambdust-sub003/internal/value"
)

func TestReadAllAtoms(t *testing.T) {
	datums, err := ReadAll(`42 "hi" foo #t #\a`)
	require.NoError(t, err)
	require.Len(t, datums, 5)

	i, ok := datums[0].(value.Integer)
	require.True(t, ok)
	assert.Equal(t, "42", i.V.String())

	s, ok := datums[1].(value.Str)
	require.True(t, ok)
	assert.Equal(t, "hi", s.String())

	sym, ok := datums[2].(value.Symbol)
	require.True(t, ok)
	assert.Equal(t, "foo", sym.Name())

	b, ok := datums[3].(value.Bool)
	require.True(t, ok)
	assert.True(t, bool(b))

	c, ok := datums[4].(value.Char)
	require.True(t, ok)
	assert.Equal(t, 'a', rune(c))
}

func TestReadAllList(t *testing.T) {
	datums, err := ReadAll(`(1 2 . 3)`)
	require.NoError(t, err)
	require.Len(t, datums, 1)

	p, ok := datums[0].(value.Pair)
	require.True(t, ok)
	items, ok := value.ListToSlice(p)
	assert.False(t, ok) // improper list

	_ = items
	second, ok := p.Cdr.(value.Pair)
	require.True(t, ok)
	third, ok := second.Cdr.(value.Pair)
	require.True(t, ok)
	tail, ok := third.Cdr.(value.Integer)
	require.True(t, ok)
	assert.Equal(t, "3", tail.V.String())
}

func TestReadAllVectorAndBytevector(t *testing.T) {
	datums, err := ReadAll(`#(1 2 3) #u8(1 2 255)`)
	require.NoError(t, err)
	require.Len(t, datums, 2)

	v, ok := datums[0].(value.Vector)
	require.True(t, ok)
	assert.Equal(t, 3, v.Len())

	bv, ok := datums[1].(value.Bytevector)
	require.True(t, ok)
	assert.Equal(t, []byte{1, 2, 255}, bv.Bytes())
}

func TestReadUnterminatedListErrors(t *testing.T) {
	_, err := ReadAll(`(1 2`)
	assert.Error(t, err)
}

func TestReadUnexpectedCloseParenErrors(t *testing.T) {
	_, err := ReadAll(`)`)
	assert.Error(t, err)
}
