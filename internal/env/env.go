// Package env implements the lexical environment model of spec §3/§4.2:
// an immutable record of bindings with interior mutation, a parent link,
// and a generation counter, shared by reference across closures.
//
// The reader/writer-lock-per-frame design is grounded in the teacher's
// text.CloneableReader contract (a read-only view that can be cloned into
// a new, independent view at the same position without aliasing mutable
// state) — generalized here from a byte offset to a binding map.
package env

import (
	"sync"
	"sync/atomic"

	"github.com/akasaka-miraina/lambdust-sub003/internal/symbol"
	"github.com/akasaka-miraina/lambdust-sub003/internal/value"
)

var generationCounter uint64

// Env is a lexically nested, thread-shareable name->value mapping.
type Env struct {
	mu       sync.RWMutex
	bindings map[symbol.ID]value.Value
	parent   *Env
	gen      uint64
	name     string
}

// New creates the top-level (global) environment: no parent, and the next
// generation number from the process-wide counter (never 0).
func New(name string) *Env {
	return &Env{
		bindings: make(map[symbol.ID]value.Value, 256),
		gen:      atomic.AddUint64(&generationCounter, 1),
		name:     name,
	}
}

// Extend returns a new child environment, sharing e by reference as its
// parent (spec §4.2's extend(generation)).
func (e *Env) Extend() value.Environment {
	return &Env{
		bindings: make(map[symbol.ID]value.Value, 8),
		parent:   e,
		gen:      atomic.AddUint64(&generationCounter, 1),
	}
}

// ExtendNamed is Extend with a name attached, for stack-trace/debugger
// display (spec §4.3's StackFrame.name?).
func (e *Env) ExtendNamed(name string) *Env {
	child := &Env{
		bindings: make(map[symbol.ID]value.Value, 8),
		parent:   e,
		gen:      atomic.AddUint64(&generationCounter, 1),
		name:     name,
	}
	return child
}

// Lookup walks the parent chain looking for id, wait-free when
// uncontended (a single RLock per frame visited; spec §4.2).
func (e *Env) Lookup(id symbol.ID) (value.Value, bool) {
	for frame := e; frame != nil; frame = frame.parent {
		frame.mu.RLock()
		v, ok := frame.bindings[id]
		frame.mu.RUnlock()
		if ok {
			return v, true
		}
	}
	return nil, false
}

// Define mutates the local frame's map, per spec §4.2.
func (e *Env) Define(id symbol.ID, v value.Value) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.bindings[id] = v
}

// Set mutates the binding in whichever ancestor frame declared it,
// reporting false if no frame has a binding for id (caller should raise
// an unbound-variable error).
func (e *Env) Set(id symbol.ID, v value.Value) bool {
	for frame := e; frame != nil; frame = frame.parent {
		frame.mu.Lock()
		if _, ok := frame.bindings[id]; ok {
			frame.bindings[id] = v
			frame.mu.Unlock()
			return true
		}
		frame.mu.Unlock()
	}
	return false
}

// Capture returns the environment itself — closures capture a reference,
// not a copy (spec §4.2's capture() -> env, "returns self-by-reference").
func (e *Env) Capture() *Env { return e }

func (e *Env) Generation() uint64 { return e.gen }

func (e *Env) Name() string { return e.name }

// Parent returns e's parent, or nil for the global environment.
func (e *Env) Parent() *Env { return e.parent }

// AllNames returns every name bound in e's local frame (not ancestors),
// per spec §4.2's all_names().
func (e *Env) AllNames() []symbol.ID {
	e.mu.RLock()
	defer e.mu.RUnlock()
	names := make([]symbol.ID, 0, len(e.bindings))
	for id := range e.bindings {
		names = append(names, id)
	}
	return names
}
