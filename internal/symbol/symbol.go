// Package symbol implements the process-wide interned identifier table.
//
// Every Scheme symbol and keyword is represented internally by a small
// integer ID; two symbols are the same identifier iff their IDs are equal.
// This lets the evaluator, the environment, and the macro expander compare
// identifiers with a single integer comparison instead of a string compare.
package symbol

import "sync"

// ID identifies an interned symbol. The zero value is never returned by
// Intern; it is reserved so a zero ID can mean "no symbol" in callers that
// want that.
type ID uint64

// table is the process-wide symbol table: a bidirectional map between
// names and IDs, guarded by a single read-write mutex. Interning is rare
// relative to lookup, so lookups share the read lock and only a name's
// first Intern takes the write lock.
type table struct {
	mu       sync.RWMutex
	byName   map[string]ID
	byID     []string // byID[id-1] == name for id
}

var global = &table{
	byName: make(map[string]ID, 256),
}

// Intern returns the ID for name, allocating a new one if this is the
// first time name has been seen.
func Intern(name string) ID {
	global.mu.RLock()
	if id, ok := global.byName[name]; ok {
		global.mu.RUnlock()
		return id
	}
	global.mu.RUnlock()

	global.mu.Lock()
	defer global.mu.Unlock()
	// Another goroutine may have interned it while we waited for the write lock.
	if id, ok := global.byName[name]; ok {
		return id
	}
	global.byID = append(global.byID, name)
	id := ID(len(global.byID))
	global.byName[name] = id
	return id
}

// Name returns the textual name of id. It panics if id was never interned;
// every ID a caller holds must have come from Intern.
func Name(id ID) string {
	global.mu.RLock()
	defer global.mu.RUnlock()
	if id == 0 || int(id) > len(global.byID) {
		panic("symbol: use of un-interned ID")
	}
	return global.byID[id-1]
}

// String returns the textual name of id, for use in error messages and
// pretty-printing. Equivalent to Name, provided as a method for id.
func (id ID) String() string {
	return Name(id)
}
