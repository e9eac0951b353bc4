package value

import "math/big"

// Integer is an exact, arbitrary-precision integer (spec §9 open question
// 2: resolved to arbitrary precision, see DESIGN.md).
type Integer struct {
	V *big.Int
}

func (Integer) Kind() Kind { return KindInteger }

func NewInteger(i int64) Integer { return Integer{V: big.NewInt(i)} }

// Rational is an exact ratio in lowest terms with a positive denominator,
// per spec §3's {num, den, den>0} invariant.
type Rational struct {
	Num, Den *big.Int
}

func (Rational) Kind() Kind { return KindRational }

// NewRational builds a Rational in lowest terms with Den > 0.
func NewRational(num, den *big.Int) Rational {
	if den.Sign() == 0 {
		panic("value: rational with zero denominator")
	}
	n, d := new(big.Int).Set(num), new(big.Int).Set(den)
	if d.Sign() < 0 {
		n.Neg(n)
		d.Neg(d)
	}
	g := new(big.Int).GCD(nil, nil, new(big.Int).Abs(n), d)
	if g.Sign() != 0 && g.Cmp(big.NewInt(1)) != 0 {
		n.Quo(n, g)
		d.Quo(d, g)
	}
	return Rational{Num: n, Den: d}
}

// Real is an inexact real number (IEEE double).
type Real float64

func (Real) Kind() Kind { return KindReal }

// Complex is a+bi. Per R7RS and spec §6, NaN/Inf are forbidden in complex
// components at parse time; that restriction is enforced by the reader,
// not by this type.
type Complex struct {
	Re, Im float64
}

func (Complex) Kind() Kind { return KindComplex }

// IsZero reports whether c is exactly 0+0i.
func (c Complex) IsZero() bool { return c.Re == 0 && c.Im == 0 }
