package value

import "math/big"

// Eq reports Scheme eq?: identity for heap objects, value equality for
// atoms (spec §3).
func Eq(a, b Value) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	switch av := a.(type) {
	case Bool:
		return av == b.(Bool)
	case Char:
		return av == b.(Char)
	case Nil, Unspecified, EOFObject:
		return true
	case Symbol:
		return av.ID == b.(Symbol).ID
	case Keyword:
		return av.Name == b.(Keyword).Name
	case Integer:
		// Small exact integers behave eq? in most implementations only by
		// coincidence of interning; we make eq? on Integer match eqv? so
		// callers don't observe pointer-identity flakiness on numbers.
		return av.V.Cmp(b.(Integer).V) == 0
	default:
		// Heap objects (Pair, MutablePair, Vector, MutableString,
		// Procedure, Primitive, Continuation, Port, Promise, Record,
		// Parameter, Container, Opaque, ...): identity.
		return samePointerIdentity(a, b)
	}
}

// samePointerIdentity compares the underlying pointer/handle of heap
// values. Value variants that wrap a pointer (*Promise, *Record, ...) or a
// shared handle (Vector/MutableString/MutablePair hold a *mutex+*slice
// pair) compare equal under Go's == for interfaces holding such
// comparable underlying data, as long as the handles were copied from one
// shared allocation rather than reconstructed — which is how every
// constructor in this package behaves. Str holds a plain slice, which ==
// cannot compare, so it is compared by the address of its backing array.
func samePointerIdentity(a, b Value) bool {
	if as, ok := a.(Str); ok {
		bs, ok := b.(Str)
		return ok && len(as.runes) == len(bs.runes) && (len(as.runes) == 0 || &as.runes[0] == &bs.runes[0])
	}
	defer func() { recover() }() //nolint:errcheck // non-comparable underlying type: not eq?
	return a == b
}

// Eqv reports Scheme eqv?: eq?, plus numeric and character equivalence
// with R7RS rules (same exactness, same value; spec §3).
func Eqv(a, b Value) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	switch av := a.(type) {
	case Integer:
		return av.V.Cmp(b.(Integer).V) == 0
	case Rational:
		bv := b.(Rational)
		return av.Num.Cmp(bv.Num) == 0 && av.Den.Cmp(bv.Den) == 0
	case Real:
		return av == b.(Real)
	case Complex:
		bv := b.(Complex)
		return av.Re == bv.Re && av.Im == bv.Im
	case Str:
		// Immutable strings of equal content are eqv? only if they are
		// literally the same allocation is NOT required by R7RS for
		// strings (strings are not required to be eqv? even with equal
		// content) — but two references to the very same Str value
		// (e.g. the same quoted literal evaluated twice) are.
		return samePointerIdentity(a, b)
	default:
		return Eq(a, b)
	}
}

// Equal reports Scheme equal?: structural equality, terminating on cycles
// by treating a MutablePair or Vector pair already seen during this
// comparison as equal (spec §3).
func Equal(a, b Value) bool {
	return equalRec(a, b, make(map[[2]any]bool))
}

func equalRec(a, b Value, seen map[[2]any]bool) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	switch av := a.(type) {
	case Pair:
		bv := b.(Pair)
		return equalRec(av.Car, bv.Car, seen) && equalRec(av.Cdr, bv.Cdr, seen)
	case MutablePair:
		bv := b.(MutablePair)
		key := [2]any{av, bv}
		if seen[key] {
			return true // already seen in this comparison: treat as equal to break the cycle
		}
		seen[key] = true
		return equalRec(av.Car(), bv.Car(), seen) && equalRec(av.Cdr(), bv.Cdr(), seen)
	case Vector:
		bv := b.(Vector)
		if av.Len() != bv.Len() {
			return false
		}
		key := [2]any{av, bv}
		if seen[key] {
			return true
		}
		seen[key] = true
		for i := 0; i < av.Len(); i++ {
			if !equalRec(av.Ref(i), bv.Ref(i), seen) {
				return false
			}
		}
		return true
	case Str:
		return av.String() == b.(Str).String()
	case MutableString:
		return av.String() == b.(MutableString).String()
	case Bytevector:
		bv := b.(Bytevector)
		ab, bb := av.Bytes(), bv.Bytes()
		if len(ab) != len(bb) {
			return false
		}
		for i := range ab {
			if ab[i] != bb[i] {
				return false
			}
		}
		return true
	default:
		return Eqv(a, b)
	}
}

// NumericExact reports whether v (a numeric Value) is exact: Integer and
// Rational are exact, Real and Complex are inexact (spec §3's exactness
// partition).
func NumericExact(v Value) bool {
	switch v.(type) {
	case Integer, Rational:
		return true
	default:
		return false
	}
}

// NumericIsZero reports whether a numeric Value is zero, across all four
// numeric representations.
func NumericIsZero(v Value) bool {
	switch t := v.(type) {
	case Integer:
		return t.V.Sign() == 0
	case Rational:
		return t.Num.Sign() == 0
	case Real:
		return t == 0
	case Complex:
		return t.IsZero()
	}
	return false
}

// BigZero and BigOne are shared immutable constants for arithmetic helpers
// across the value and numeric packages.
var (
	BigZero = big.NewInt(0)
	BigOne  = big.NewInt(1)
)
