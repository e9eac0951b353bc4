package value

// Continuation is the Value-level view of a reified evaluation context
// (spec §4.3). The concrete representation (a frozen frame-stack
// snapshot) lives in package machine, which implements this interface; it
// is declared here, not there, so that any Value consumer can recognize
// and invoke a continuation without importing package machine.
type Continuation interface {
	Value

	// Invoke resumes the captured context with v as the value flowing
	// into it. It returns an error if the continuation has already been
	// invoked and was marked one-shot (spec §4.3's `invoked` flag).
	Invoke(v Value) error

	// MarkOneShot opts this specific capture into one-shot enforcement
	// (spec §9 open question 1 — default is multi-shot).
	MarkOneShot()

	// Invoked reports whether Invoke has succeeded at least once.
	Invoked() bool
}
