// Package value implements Lambdust's uniform runtime value universe: the
// tagged sum described in spec §3 (numbers, strings, pairs, vectors,
// procedures, continuations, promises, ports, records, and the rest).
//
// The set of variants is closed. Every function that consumes a Value is
// expected to type-switch over the full set; Opaque is the only escape
// hatch for host-language values that don't fit the sum.
package value

import "github.com/akasaka-miraina/lambdust-sub003/internal/symbol"

// Value is the uniform representation of a Scheme datum. It is a closed
// interface: Kind reports which variant a Value is, so a type switch (or a
// switch over Kind()) can be exhaustive.
type Value interface {
	// Kind identifies the concrete variant, for fast dispatch without a
	// type switch (used by the evaluator's hot path and by equality).
	Kind() Kind
}

// Kind enumerates the Value variants, mirroring spec §3's list exactly.
type Kind int

const (
	KindInteger Kind = iota
	KindRational
	KindReal
	KindComplex
	KindChar
	KindBool
	KindString
	KindMutableString
	KindBytevector
	KindNil
	KindUnspecified
	KindSymbol
	KindKeyword
	KindPair
	KindMutablePair
	KindVector
	KindProcedure
	KindCaseLambda
	KindPrimitive
	KindContinuation
	KindSyntax
	KindPort
	KindPromise
	KindRecord
	KindRecordType
	KindParameter
	KindErrorObject
	KindCharSet
	KindContainer
	KindOpaque
	KindEOF
)

// Environment is the subset of the environment contract (spec §4.2) that a
// Value needs to know about: enough to capture a closure's defining scope
// and to extend it for a call. The concrete implementation lives in
// package env; Value only depends on this interface to avoid an import
// cycle between env (which stores Values) and value (which stores
// Environments inside Procedure).
type Environment interface {
	Lookup(id symbol.ID) (Value, bool)
	Define(id symbol.ID, v Value)
	Set(id symbol.ID, v Value) bool
	Extend() Environment
	Name() string
}

// Unspecified is the value produced by forms whose result is not defined by
// the standard (e.g. set!, most definitions).
type Unspecified struct{}

func (Unspecified) Kind() Kind { return KindUnspecified }

// Nil is the empty list, (). It is distinct from Unspecified and is truthy
// per spec §3's truthiness rule (everything but #f is true).
type Nil struct{}

func (Nil) Kind() Kind { return KindNil }

// EOFObject is returned by read operations at end of input.
type EOFObject struct{}

func (EOFObject) Kind() Kind { return KindEOF }

// TheNil, TheUnspecified, and TheEOF are the shared singleton instances;
// callers should use these rather than constructing new zero-size structs,
// so eq? on them behaves as expected (though eq? on these types already
// holds regardless, since Go compares equal empty structs as identical
// under == — TheNil exists for readability, not correctness).
var (
	TheNil         Value = Nil{}
	TheUnspecified Value = Unspecified{}
	TheEOF         Value = EOFObject{}
)

// Bool is the boolean literal.
type Bool bool

func (Bool) Kind() Kind { return KindBool }

// IsTruthy implements spec §3's truthiness rule: #f alone is false, every
// other value (including '(), 0, and "") is true.
func IsTruthy(v Value) bool {
	b, ok := v.(Bool)
	return !ok || bool(b)
}

// Char is a Unicode code point.
type Char rune

func (Char) Kind() Kind { return KindChar }

// Symbol is an interned identifier; equality is by ID.
type Symbol struct {
	ID symbol.ID
}

func (Symbol) Kind() Kind { return KindSymbol }

func NewSymbol(name string) Symbol { return Symbol{ID: symbol.Intern(name)} }

func (s Symbol) Name() string { return symbol.Name(s.ID) }

// Keyword is #:name, compared by name rather than by interned identity
// (spec §3: "compared by name").
type Keyword struct {
	Name string
}

func (Keyword) Kind() Kind { return KindKeyword }
