package gcroots

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akasaka-miraina/lambdust-sub003/internal/env"
	"github.com/akasaka-miraina/lambdust-sub003/internal/machine"
)

func TestOpenRegistersGlobalRoot(t *testing.T) {
	global := env.New("global")
	s := Open(machine.New(), global)

	roots := s.Roots()
	require.Len(t, roots, 1)
	assert.Equal(t, "global", roots[0].Name)
	assert.Same(t, global, roots[0].Value)
}

func TestRegisterAndDeregisterRoot(t *testing.T) {
	s := Open(machine.New(), env.New("global"))

	s.RegisterRoot("param:1", nil)
	assert.Len(t, s.Roots(), 2)

	s.DeregisterRoot("param:1")
	assert.Len(t, s.Roots(), 1)
}

func TestContinuationRegistry(t *testing.T) {
	s := Open(machine.New(), env.New("global"))
	assert.Empty(t, s.Continuations())

	c := &machine.Continuation{}
	s.RegisterContinuation(c)
	assert.Len(t, s.Continuations(), 1)

	s.DeregisterContinuation(c)
	assert.Empty(t, s.Continuations())
}
