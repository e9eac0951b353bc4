package macro

import "sync/atomic"

// markCounter allocates process-wide, strictly increasing hygiene marks,
// the same "every allocation is globally unique and never reused" idiom
// the teacher uses for vm.CaptureId allocation (input/vm/expression.go):
// each syntax-rules expansion gets one fresh mark, and every template
// identifier introduced by that expansion (but not identifiers copied
// verbatim from the matched input) is renamed to a mark-qualified
// identifier, so it cannot capture or be captured by a binding from the
// use site.
type markCounter struct {
	next_ uint64
}

func (m *markCounter) next() uint64 {
	return atomic.AddUint64(&m.next_, 1)
}

var globalMarks = &markCounter{}
