package port

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akasaka-miraina/lambdust-sub003/internal/value"
)

func TestStringOutputPortAccumulates(t *testing.T) {
	p := NewStringOutputPort()
	require.NoError(t, p.WriteString("hello "))
	require.NoError(t, p.WriteString("world"))
	assert.Equal(t, "hello world", p.OutputString())
}

func TestStringInputPortReadsCharsThenEOF(t *testing.T) {
	p := NewStringInputPort("ab")
	r, err := p.ReadChar()
	require.NoError(t, err)
	assert.Equal(t, 'a', r)

	r, err = p.ReadChar()
	require.NoError(t, err)
	assert.Equal(t, 'b', r)

	_, err = p.ReadChar()
	assert.Error(t, err)
}

func TestBytevectorOutputPortAccumulates(t *testing.T) {
	p := NewBytevectorOutputPort()
	require.NoError(t, p.WriteByte(1))
	require.NoError(t, p.WriteByte(2))
	assert.Equal(t, value.NewBytevector([]byte{1, 2}), p.OutputBytevector())
}

func TestClosedPortErrorsOnWrite(t *testing.T) {
	p := NewStringOutputPort()
	require.NoError(t, p.Close())
	assert.ErrorIs(t, p.WriteString("x"), ErrClosed)
}

func TestPeekCharDoesNotAdvance(t *testing.T) {
	p := NewStringInputPort("z")
	peeked, err := p.PeekChar()
	require.NoError(t, err)
	assert.Equal(t, 'z', peeked)

	read, err := p.ReadChar()
	require.NoError(t, err)
	assert.Equal(t, 'z', read)
}
