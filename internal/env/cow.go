package env

import (
	"github.com/akasaka-miraina/lambdust-sub003/internal/symbol"
	"github.com/akasaka-miraina/lambdust-sub003/internal/value"
)

// COW is the copy-on-write variant of Env mentioned in spec §4.2/§5: a
// persistent, functional environment where DefineCOW/SetCOW return a new
// environment with the update applied, rather than mutating in place.
// Reads still walk the parent chain by reference, so unrelated branches of
// a COW tree never alias each other's bindings.
type COW struct {
	bindings map[symbol.ID]value.Value
	parent   *COW
}

func NewCOW() *COW {
	return &COW{bindings: map[symbol.ID]value.Value{}}
}

func (c *COW) Lookup(id symbol.ID) (value.Value, bool) {
	for frame := c; frame != nil; frame = frame.parent {
		if v, ok := frame.bindings[id]; ok {
			return v, true
		}
	}
	return nil, false
}

// DefineCOW returns a new COW environment with id bound to v in its local
// frame: c's local bindings map is copied, and c's parent chain is shared
// by reference (only the frame that actually changes is copied).
func (c *COW) DefineCOW(id symbol.ID, v value.Value) *COW {
	cp := make(map[symbol.ID]value.Value, len(c.bindings)+1)
	for k, val := range c.bindings {
		cp[k] = val
	}
	cp[id] = v
	return &COW{bindings: cp, parent: c.parent}
}

// SetCOW returns a new COW tree with id rebound in whichever frame
// originally declared it, or ok=false if no frame does.
func (c *COW) SetCOW(id symbol.ID, v value.Value) (result *COW, ok bool) {
	if _, here := c.bindings[id]; here {
		return c.DefineCOW(id, v), true
	}
	if c.parent == nil {
		return c, false
	}
	newParent, ok := c.parent.SetCOW(id, v)
	if !ok {
		return c, false
	}
	return &COW{bindings: c.bindings, parent: newParent}, true
}

func (c *COW) Extend() *COW {
	return &COW{bindings: map[symbol.ID]value.Value{}, parent: c}
}
