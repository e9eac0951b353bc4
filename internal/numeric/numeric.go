// Package numeric implements R7RS-small numeric-literal parsing and
// tower arithmetic (spec.md §6/§4.1's exactness contagion lattice
// Integer ⊂ Rational ⊂ Real ⊂ Complex).
//
// Literal parsing is intentionally a pure function over already
// tokenized text, not a lexer: spec.md scopes lexing/parsing out of the
// core (§1), but original_source/src/parser/literals.rs shows the
// original implementation still treats *numeric* literal parsing (radix
// prefixes, exactness prefixes, rational/complex syntax) as part of the
// core crate rather than the external lexer, because the syntax is
// numeric-tower-specific, not general lexical structure. Lambdust
// follows that split: a host lexer hands numeric tokens to Parse here.
package numeric

import (
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/akasaka-miraina/lambdust-sub003/internal/lerr"
	"github.com/akasaka-miraina/lambdust-sub003/internal/value"
)

// Parse converts a numeric token's text into a value.Value on the
// exactness/rational/real/complex lattice, applying R7RS's default
// exactness rule (integer and rational literals are exact; decimal-point
// or exponent literals are inexact) unless overridden by an #e/#i
// prefix, and honoring #b/#o/#d/#x radix prefixes.
func Parse(text string) (value.Value, error) {
	radix := 10
	exactness := byte(0) // 0 = unspecified, 'e', 'i'
	s := text

	for len(s) >= 2 && s[0] == '#' {
		switch s[1] {
		case 'b', 'B':
			radix = 2
		case 'o', 'O':
			radix = 8
		case 'd', 'D':
			radix = 10
		case 'x', 'X':
			radix = 16
		case 'e', 'E':
			exactness = 'e'
		case 'i', 'I':
			exactness = 'i'
		default:
			return nil, lerr.Typef(lerr.Span{}, "invalid numeric prefix in %q", text)
		}
		s = s[2:]
	}

	v, err := parseReal(s, radix)
	if err != nil {
		return nil, err
	}
	return applyExactness(v, exactness)
}

// special-value literals recognized regardless of radix.
func parseSpecial(s string) (value.Value, bool) {
	switch s {
	case "+inf.0":
		return value.Real(math.Inf(1)), true
	case "-inf.0":
		return value.Real(math.Inf(-1)), true
	case "+nan.0", "-nan.0":
		return value.Real(math.NaN()), true
	}
	return nil, false
}

func parseReal(s string, radix int) (value.Value, error) {
	if v, ok := parseSpecial(s); ok {
		return v, nil
	}

	// Complex: a+bi / a-bi / +i / -i / bi, with a,b real parts already
	// in the given radix's digit syntax.
	if strings.HasSuffix(s, "i") || strings.HasSuffix(s, "I") {
		return parseComplex(s, radix)
	}

	if idx := strings.IndexByte(s, '/'); idx >= 0 {
		numTxt, denTxt := s[:idx], s[idx+1:]
		if numTxt == "" || denTxt == "" || strings.Contains(denTxt, "/") {
			return nil, lerr.Typef(lerr.Span{}, "malformed rational literal %q", s)
		}
		num, ok := new(big.Int).SetString(numTxt, radix)
		if !ok {
			return nil, lerr.Typef(lerr.Span{}, "malformed rational numerator %q", numTxt)
		}
		den, ok := new(big.Int).SetString(denTxt, radix)
		if !ok || den.Sign() == 0 {
			return nil, lerr.Typef(lerr.Span{}, "malformed rational denominator %q", denTxt)
		}
		return value.NewRational(num, den), nil
	}

	if radix == 10 && (strings.ContainsAny(s, ".eE") && !isAllDigitsSign(s)) {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, lerr.Typef(lerr.Span{}, "malformed real literal %q", s)
		}
		return value.Real(f), nil
	}

	i, ok := new(big.Int).SetString(s, radix)
	if !ok {
		return nil, lerr.Typef(lerr.Span{}, "malformed integer literal %q", s)
	}
	return value.NewInteger(i), nil
}

// isAllDigitsSign reports whether s is an optional leading sign
// followed only by decimal digits.
func isAllDigitsSign(s string) bool {
	for i, r := range s {
		if i == 0 && (r == '+' || r == '-') {
			continue
		}
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != "" && s != "+" && s != "-"
}

func parseComplex(s string, radix int) (value.Value, error) {
	body := s[:len(s)-1] // strip trailing i/I

	if body == "" || body == "+" {
		return value.Complex{Re: 0, Im: 1}, nil
	}
	if body == "-" {
		return value.Complex{Re: 0, Im: -1}, nil
	}

	// Find the split between real and imaginary parts: the last +/- not
	// at index 0 and not immediately preceded by an exponent marker.
	splitAt := -1
	for i := len(body) - 1; i > 0; i-- {
		if body[i] == '+' || body[i] == '-' {
			if prev := body[i-1]; prev == 'e' || prev == 'E' {
				continue
			}
			splitAt = i
			break
		}
	}

	var reTxt, imTxt string
	if splitAt < 0 {
		reTxt, imTxt = "0", body
	} else {
		reTxt, imTxt = body[:splitAt], body[splitAt:]
	}
	if imTxt == "+" {
		imTxt = "1"
	} else if imTxt == "-" {
		imTxt = "-1"
	}

	reV, err := parseReal(reTxt, radix)
	if err != nil {
		return nil, err
	}
	imV, err := parseReal(imTxt, radix)
	if err != nil {
		return nil, err
	}
	re, im := ToFloat(reV), ToFloat(imV)
	if math.IsInf(re, 0) || math.IsNaN(re) || math.IsInf(im, 0) || math.IsNaN(im) {
		return nil, lerr.Typef(lerr.Span{}, "NaN or infinity in complex literal %q", s)
	}
	return value.Complex{Re: re, Im: im}, nil
}

// ToFloat coerces any number on the tower down to a float64, for use in
// building a Complex's components (which are always stored as float64
// per internal/value/numbertype.go).
func ToFloat(v value.Value) float64 {
	switch n := v.(type) {
	case value.Integer:
		f, _ := new(big.Float).SetInt(n.V).Float64()
		return f
	case value.Rational:
		num, _ := new(big.Float).SetInt(n.Num).Float64()
		den, _ := new(big.Float).SetInt(n.Den).Float64()
		return num / den
	case value.Real:
		return float64(n)
	}
	return 0
}

// applyExactness enforces an explicit #e/#i prefix over the literal's
// natural exactness, per R7RS's "exactness prefix overrides default."
func applyExactness(v value.Value, exactness byte) (value.Value, error) {
	switch exactness {
	case 'e':
		return ToExact(v), nil
	case 'i':
		return ToInexact(v), nil
	default:
		return v, nil
	}
}

// ToExact converts v to the nearest exact representation (Integer or
// Rational), used by (exact x) and by the #e prefix.
func ToExact(v value.Value) value.Value {
	switch n := v.(type) {
	case value.Real:
		f := float64(n)
		if f == math.Trunc(f) && !math.IsInf(f, 0) {
			bi, _ := big.NewFloat(f).Int(nil)
			return value.NewInteger(bi)
		}
		rat := new(big.Rat).SetFloat64(f)
		if rat == nil {
			return n
		}
		return value.NewRational(rat.Num(), rat.Denom())
	default:
		return v
	}
}

// ToInexact converts v to a Real, used by (inexact x) and the #i prefix.
func ToInexact(v value.Value) value.Value {
	switch n := v.(type) {
	case value.Integer, value.Rational:
		return value.Real(ToFloat(n))
	default:
		return v
	}
}
