// Package gcroots implements the Root & Liveness Contract of spec §4.8: a
// session handle a collector opens against one evaluation, an enumerator
// over that session's active frames and their per-frame environments, a
// registry of global roots (global env, parameter objects, macro
// transformer envs), and a registry of live continuations. It does not
// implement a collector — mark/sweep and object storage are explicitly
// out of scope (spec §4.8); gcroots only answers "what is reachable".
//
// The shape is adapted from file.Watcher: a long-lived registry of live
// external resources (there, open files; here, continuations and global
// roots) that something else polls for liveness, with explicit
// register/Deregister calls bracketing each resource's lifetime instead
// of the watcher's background poll loop (a continuation's liveness is
// driven by the mutator registering and dropping references to it, not
// by a timer).
package gcroots

import (
	"sync"

	"github.com/akasaka-miraina/lambdust-sub003/internal/machine"
	"github.com/akasaka-miraina/lambdust-sub003/internal/value"
)

// Root is one entry in the global-roots registry: a named, independently
// revocable reference a collector must trace from, same as file.Watcher's
// Path identifies one watched resource. Value is deliberately untyped —
// the global environment registered by Open is a value.Environment, while
// a parameter object or macro transformer environment registered later by
// a caller may be a value.Value or value.Environment in its own right, and
// Root has no business picking one of those interfaces over the other.
type Root struct {
	Name  string
	Value any
}

// Session is the handle a collector opens for one evaluation (spec
// §4.8's "(a) a session handle opened for each evaluation, carrying the
// active environment and pushed environments"). It is not itself a
// collector: a caller enumerates what Session reports and does its own
// marking.
type Session struct {
	mu      sync.Mutex
	m       *machine.Machine
	global  value.Environment
	roots   map[string]Root
	conts   map[*machine.Continuation]struct{}
}

// Open returns a Session tracking m's frame stack and global as the
// global-roots base. global is itself registered as a root named
// "global" so Roots always reports it alongside anything RegisterRoot
// adds (parameter objects, macro transformer envs).
func Open(m *machine.Machine, global value.Environment) *Session {
	s := &Session{
		m:      m,
		global: global,
		roots:  make(map[string]Root),
		conts:  make(map[*machine.Continuation]struct{}),
	}
	s.RegisterRoot("global", global)
	return s
}

// RegisterRoot adds or replaces a named global root (a parameter
// object's current binding, a macro transformer's definition
// environment, ...). Registering under a name already present replaces
// the prior entry, mirroring NewWatcher re-arming a watch on the same
// path.
func (s *Session) RegisterRoot(name string, v any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roots[name] = Root{Name: name, Value: v}
}

// DeregisterRoot removes a previously registered root, the gcroots
// analogue of Watcher.Stop: once a parameter or transformer environment
// is no longer reachable from anywhere a session cares about, it stops
// being traced from here (it may of course still be reachable through
// some other root).
func (s *Session) DeregisterRoot(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.roots, name)
}

// Roots returns a snapshot of every registered global root, including
// the session's global environment.
func (s *Session) Roots() []Root {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Root, 0, len(s.roots))
	for _, r := range s.roots {
		out = append(out, r)
	}
	return out
}

// RegisterContinuation adds c to the continuation registry (spec §4.8's
// "(d) a continuation registry so that captured contexts are reachable
// while the continuation value is"): as long as c is registered, every
// environment reachable from c.Frames()/c.CapturedEnv() counts as live
// even though those frames are no longer on m's active stack.
func (s *Session) RegisterContinuation(c *machine.Continuation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conts[c] = struct{}{}
}

// DeregisterContinuation removes c from the registry once the mutator
// can prove nothing still references it (e.g. it was one-shot and has
// been invoked, or its enclosing dynamic extent is provably done with
// it). Collectible continuations are not dropped automatically —
// gcroots exposes the registry, it does not decide when an entry is
// dead, consistent with package not implementing a collector.
func (s *Session) DeregisterContinuation(c *machine.Continuation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conts, c)
}

// Continuations returns every currently registered continuation.
func (s *Session) Continuations() []*machine.Continuation {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*machine.Continuation, 0, len(s.conts))
	for c := range s.conts {
		out = append(out, c)
	}
	return out
}

// FrameRoot pairs one active frame with the environment spec §4.8's
// frame enumerator must report for it.
type FrameRoot struct {
	Frame machine.Frame
	Env   value.Environment
}

// EnumerateFrames implements spec §4.8's "(b) an enumeration over active
// frames and their per-frame values": one FrameRoot per entry currently
// on the session's Machine, bottom to top.
func (s *Session) EnumerateFrames() []FrameRoot {
	frames := s.m.Frames()
	out := make([]FrameRoot, len(frames))
	for i, f := range frames {
		out[i] = FrameRoot{Frame: f, Env: machine.Env(f)}
	}
	return out
}

// EnumerateContinuationFrames reports the same per-frame environments
// for every registered continuation's frozen context, so a collector
// traces reachable-via-continuation environments the same way it traces
// the live stack.
func (s *Session) EnumerateContinuationFrames() map[*machine.Continuation][]FrameRoot {
	conts := s.Continuations()
	out := make(map[*machine.Continuation][]FrameRoot, len(conts))
	for _, c := range conts {
		frames := c.Frames()
		roots := make([]FrameRoot, len(frames))
		for i, f := range frames {
			roots[i] = FrameRoot{Frame: f, Env: machine.Env(f)}
		}
		out[c] = roots
	}
	return out
}
