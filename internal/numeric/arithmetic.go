package numeric

import (
	"math"
	"math/big"

	"github.com/akasaka-miraina/lambdust-sub003/internal/lerr"
	"github.com/akasaka-miraina/lambdust-sub003/internal/value"
)

// rank places a number on the Integer ⊂ Rational ⊂ Real ⊂ Complex
// lattice (spec.md §4.1) so binary operators know which representation
// to promote both operands to before combining them.
type rank int

const (
	rankInteger rank = iota
	rankRational
	rankReal
	rankComplex
)

func rankOf(v value.Value) (rank, error) {
	switch v.(type) {
	case value.Integer:
		return rankInteger, nil
	case value.Rational:
		return rankRational, nil
	case value.Real:
		return rankReal, nil
	case value.Complex:
		return rankComplex, nil
	default:
		return 0, lerr.Typef(lerr.Span{}, "not a number: %v", v)
	}
}

func maxRank(a, b rank) rank {
	if a > b {
		return a
	}
	return b
}

func toRational(v value.Value) (num, den *big.Int) {
	switch n := v.(type) {
	case value.Integer:
		return new(big.Int).Set(n.V), big.NewInt(1)
	case value.Rational:
		return new(big.Int).Set(n.Num), new(big.Int).Set(n.Den)
	default:
		panic("numeric: toRational on non-exact value")
	}
}

func toComplex(v value.Value) value.Complex {
	if c, ok := v.(value.Complex); ok {
		return c
	}
	return value.Complex{Re: ToFloat(v), Im: 0}
}

// Add computes a+b, promoting to the higher rank of the two operands.
func Add(a, b value.Value) (value.Value, error) {
	ra, err := rankOf(a)
	if err != nil {
		return nil, err
	}
	rb, err := rankOf(b)
	if err != nil {
		return nil, err
	}
	switch maxRank(ra, rb) {
	case rankInteger:
		ai, bi := a.(value.Integer), b.(value.Integer)
		return value.NewInteger(new(big.Int).Add(ai.V, bi.V)), nil
	case rankRational:
		an, ad := toRational(a)
		bn, bd := toRational(b)
		num := new(big.Int).Add(new(big.Int).Mul(an, bd), new(big.Int).Mul(bn, ad))
		den := new(big.Int).Mul(ad, bd)
		return value.NewRational(num, den), nil
	case rankReal:
		return value.Real(ToFloat(a) + ToFloat(b)), nil
	default:
		ac, bc := toComplex(a), toComplex(b)
		return value.Complex{Re: ac.Re + bc.Re, Im: ac.Im + bc.Im}, nil
	}
}

// Sub computes a-b.
func Sub(a, b value.Value) (value.Value, error) {
	neg, err := Negate(b)
	if err != nil {
		return nil, err
	}
	return Add(a, neg)
}

// Negate computes -v.
func Negate(v value.Value) (value.Value, error) {
	switch n := v.(type) {
	case value.Integer:
		return value.NewInteger(new(big.Int).Neg(n.V)), nil
	case value.Rational:
		return value.NewRational(new(big.Int).Neg(n.Num), n.Den), nil
	case value.Real:
		return value.Real(-n), nil
	case value.Complex:
		return value.Complex{Re: -n.Re, Im: -n.Im}, nil
	default:
		return nil, lerr.Typef(lerr.Span{}, "not a number: %v", v)
	}
}

// Mul computes a*b.
func Mul(a, b value.Value) (value.Value, error) {
	ra, err := rankOf(a)
	if err != nil {
		return nil, err
	}
	rb, err := rankOf(b)
	if err != nil {
		return nil, err
	}
	switch maxRank(ra, rb) {
	case rankInteger:
		ai, bi := a.(value.Integer), b.(value.Integer)
		return value.NewInteger(new(big.Int).Mul(ai.V, bi.V)), nil
	case rankRational:
		an, ad := toRational(a)
		bn, bd := toRational(b)
		return value.NewRational(new(big.Int).Mul(an, bn), new(big.Int).Mul(ad, bd)), nil
	case rankReal:
		return value.Real(ToFloat(a) * ToFloat(b)), nil
	default:
		ac, bc := toComplex(a), toComplex(b)
		return value.Complex{
			Re: ac.Re*bc.Re - ac.Im*bc.Im,
			Im: ac.Re*bc.Im + ac.Im*bc.Re,
		}, nil
	}
}

// Div computes a/b, returning a RuntimeError on exact division by zero
// (R7RS requires an error; inexact division by zero instead yields an
// infinity/NaN float, per IEEE 754).
func Div(a, b value.Value) (value.Value, error) {
	ra, err := rankOf(a)
	if err != nil {
		return nil, err
	}
	rb, err := rankOf(b)
	if err != nil {
		return nil, err
	}
	switch maxRank(ra, rb) {
	case rankInteger, rankRational:
		an, ad := toRational(a)
		bn, bd := toRational(b)
		if bn.Sign() == 0 {
			return nil, lerr.NewRuntimeError("division by zero")
		}
		return value.NewRational(new(big.Int).Mul(an, bd), new(big.Int).Mul(ad, bn)), nil
	case rankReal:
		return value.Real(ToFloat(a) / ToFloat(b)), nil
	default:
		ac, bc := toComplex(a), toComplex(b)
		denom := bc.Re*bc.Re + bc.Im*bc.Im
		return value.Complex{
			Re: (ac.Re*bc.Re + ac.Im*bc.Im) / denom,
			Im: (ac.Im*bc.Re - ac.Re*bc.Im) / denom,
		}, nil
	}
}

// Compare orders two real (non-complex) numbers: -1, 0, or 1. Complex
// numbers have no total order in R7RS and are rejected.
func Compare(a, b value.Value) (int, error) {
	ra, err := rankOf(a)
	if err != nil {
		return 0, err
	}
	rb, err := rankOf(b)
	if err != nil {
		return 0, err
	}
	if ra == rankComplex || rb == rankComplex {
		return 0, lerr.Typef(lerr.Span{}, "complex numbers are not orderable")
	}
	switch maxRank(ra, rb) {
	case rankInteger:
		return a.(value.Integer).V.Cmp(b.(value.Integer).V), nil
	case rankRational:
		an, ad := toRational(a)
		bn, bd := toRational(b)
		lhs := new(big.Int).Mul(an, bd)
		rhs := new(big.Int).Mul(bn, ad)
		return lhs.Cmp(rhs), nil
	default:
		af, bf := ToFloat(a), ToFloat(b)
		switch {
		case af < bf:
			return -1, nil
		case af > bf:
			return 1, nil
		default:
			return 0, nil
		}
	}
}

// NumericEqual implements R7RS `=`: numeric equality across the tower,
// including complex numbers (which Compare rejects as unorderable but
// which are still comparable for equality).
func NumericEqual(a, b value.Value) (bool, error) {
	ra, err := rankOf(a)
	if err != nil {
		return false, err
	}
	rb, err := rankOf(b)
	if err != nil {
		return false, err
	}
	if ra == rankComplex || rb == rankComplex {
		ac, bc := toComplex(a), toComplex(b)
		return ac.Re == bc.Re && ac.Im == bc.Im, nil
	}
	cmp, err := Compare(a, b)
	if err != nil {
		return false, err
	}
	return cmp == 0, nil
}

// IsZero reports whether v is the additive identity on the tower.
func IsZero(v value.Value) bool {
	switch n := v.(type) {
	case value.Integer:
		return n.V.Sign() == 0
	case value.Rational:
		return n.Num.Sign() == 0
	case value.Real:
		return float64(n) == 0
	case value.Complex:
		return n.IsZero()
	default:
		return false
	}
}

// IsInteger reports whether v denotes a mathematical integer, regardless
// of exactness (R7RS `integer?`).
func IsInteger(v value.Value) bool {
	switch n := v.(type) {
	case value.Integer:
		return true
	case value.Rational:
		return n.Den.Cmp(big.NewInt(1)) == 0
	case value.Real:
		f := float64(n)
		return !math.IsInf(f, 0) && !math.IsNaN(f) && f == math.Trunc(f)
	default:
		return false
	}
}
