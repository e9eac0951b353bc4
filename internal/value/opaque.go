package value

// Opaque is the host-language escape hatch (spec §3/§9): a value the core
// carries but never interprets. Used by FFI and by the bytecode backend,
// both explicitly out of scope here; Opaque exists so those external
// collaborators have a Value variant to hand the core without the core
// needing to understand it.
type Opaque struct {
	Tag string
	Data any
}

func (Opaque) Kind() Kind { return KindOpaque }
