package value

// ValuesTag marks an Opaque carrying R7RS multiple values (spec §3/§9):
// Opaque is the closed value universe's escape hatch, reused here rather
// than extending Kind, since multiple values are a wire format between
// values/call-with-values/let-values and not a datum any other Scheme
// code observes directly. Exported so any package producing or consuming
// multiple values (eval, stdlib, ...) agrees on one wire format.
const ValuesTag = "lambdust:values"

// MakeValues wraps vs as a multiple-values result. A single value passes
// through unwrapped, so (values x) and plain x are indistinguishable to
// every consumer that isn't call-with-values/let-values.
func MakeValues(vs []Value) Value {
	if len(vs) == 1 {
		return vs[0]
	}
	return Opaque{Tag: ValuesTag, Data: vs}
}

// AsValues unwraps a values-Opaque back to a slice, or wraps a plain
// value as a single-element slice.
func AsValues(v Value) []Value {
	if op, ok := v.(Opaque); ok && op.Tag == ValuesTag {
		return op.Data.([]Value)
	}
	return []Value{v}
}
