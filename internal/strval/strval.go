// Package strval implements the Unicode-aware string/char procedures
// spec §3 requires beyond raw code-point storage: case conversion and
// case-folding (R7RS 6.7/6.9 string-upcase/string-downcase/
// string-foldcase/char-foldcase) via golang.org/x/text/cases, and NFC
// normalization for string=?/symbol=? via golang.org/x/text/unicode/norm
// — codepoint-for-codepoint rune comparison is a correctness bug for
// composed-vs-decomposed forms of the same string, so the equality
// procedures in this package are canonical, not the naive fallback.
package strval

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/akasaka-miraina/lambdust-sub003/internal/lerr"
	"github.com/akasaka-miraina/lambdust-sub003/internal/value"
)

var (
	upperCaser = cases.Upper(language.Und)
	lowerCaser = cases.Lower(language.Und)
	foldCaser  = cases.Fold()
)

// Install registers every procedure this package implements into global.
func Install(global value.Environment) {
	prims := []*value.Primitive{
		stringUpcasePrimitive,
		stringDowncasePrimitive,
		stringFoldcasePrimitive,
		charUpcasePrimitive,
		charDowncasePrimitive,
		charFoldcasePrimitive,
		stringEqualPrimitive,
		symbolEqualPrimitive,
	}
	for _, p := range prims {
		global.Define(value.NewSymbol(p.Name).ID, p)
	}
}

func asRunes(v value.Value, who string) ([]rune, error) {
	switch s := v.(type) {
	case value.Str:
		return s.Runes(), nil
	case value.MutableString:
		return []rune(s.String()), nil
	default:
		return nil, lerr.Runtimef("%s: expected a string", who)
	}
}

func asChar(v value.Value, who string) (rune, error) {
	c, ok := v.(value.Char)
	if !ok {
		return 0, lerr.Runtimef("%s: expected a char", who)
	}
	return rune(c), nil
}

// NFC normalizes s for canonical comparison, the basis of StringEqual and
// SymbolEqual below.
func NFC(s string) string { return norm.NFC.String(s) }

// Upcase, Downcase, and Foldcase implement R7RS's Unicode case operations
// directly over Go strings, shared by the string and char primitives.
func Upcase(s string) string   { return upperCaser.String(s) }
func Downcase(s string) string { return lowerCaser.String(s) }
func Foldcase(s string) string { return foldCaser.String(s) }

var stringUpcasePrimitive = &value.Primitive{
	Name:  "string-upcase",
	Arity: value.Arity{Min: 1, Max: 1},
	Fn: func(args []value.Value) (value.Value, error) {
		runes, err := asRunes(args[0], "string-upcase")
		if err != nil {
			return nil, err
		}
		return value.NewStr(Upcase(string(runes))), nil
	},
}

var stringDowncasePrimitive = &value.Primitive{
	Name:  "string-downcase",
	Arity: value.Arity{Min: 1, Max: 1},
	Fn: func(args []value.Value) (value.Value, error) {
		runes, err := asRunes(args[0], "string-downcase")
		if err != nil {
			return nil, err
		}
		return value.NewStr(Downcase(string(runes))), nil
	},
}

var stringFoldcasePrimitive = &value.Primitive{
	Name:  "string-foldcase",
	Arity: value.Arity{Min: 1, Max: 1},
	Fn: func(args []value.Value) (value.Value, error) {
		runes, err := asRunes(args[0], "string-foldcase")
		if err != nil {
			return nil, err
		}
		return value.NewStr(Foldcase(string(runes))), nil
	},
}

var charUpcasePrimitive = &value.Primitive{
	Name:  "char-upcase",
	Arity: value.Arity{Min: 1, Max: 1},
	Fn: func(args []value.Value) (value.Value, error) {
		r, err := asChar(args[0], "char-upcase")
		if err != nil {
			return nil, err
		}
		up := []rune(Upcase(string(r)))
		if len(up) != 1 {
			return args[0], nil
		}
		return value.Char(up[0]), nil
	},
}

var charDowncasePrimitive = &value.Primitive{
	Name:  "char-downcase",
	Arity: value.Arity{Min: 1, Max: 1},
	Fn: func(args []value.Value) (value.Value, error) {
		r, err := asChar(args[0], "char-downcase")
		if err != nil {
			return nil, err
		}
		down := []rune(Downcase(string(r)))
		if len(down) != 1 {
			return args[0], nil
		}
		return value.Char(down[0]), nil
	},
}

var charFoldcasePrimitive = &value.Primitive{
	Name:  "char-foldcase",
	Arity: value.Arity{Min: 1, Max: 1},
	Fn: func(args []value.Value) (value.Value, error) {
		r, err := asChar(args[0], "char-foldcase")
		if err != nil {
			return nil, err
		}
		fold := []rune(Foldcase(string(r)))
		if len(fold) != 1 {
			return args[0], nil
		}
		return value.Char(fold[0]), nil
	},
}

// stringEqualPrimitive implements string=? over NFC-normalized operands
// (R7RS doesn't mandate normalization, but two byte-distinct-yet-
// canonically-equivalent Unicode strings denoting "the same string" is
// exactly the class of bug x/text/unicode/norm exists to prevent).
var stringEqualPrimitive = &value.Primitive{
	Name:  "string=?",
	Arity: value.Arity{Min: 2, Max: -1},
	Fn: func(args []value.Value) (value.Value, error) {
		first, err := asRunes(args[0], "string=?")
		if err != nil {
			return nil, err
		}
		want := NFC(string(first))
		for _, a := range args[1:] {
			runes, err := asRunes(a, "string=?")
			if err != nil {
				return nil, err
			}
			if NFC(string(runes)) != want {
				return value.Bool(false), nil
			}
		}
		return value.Bool(true), nil
	},
}

// symbolEqualPrimitive compares symbol names under the same NFC
// normalization (lambdust extension; R7RS symbols are eq?-comparable by
// identity, but symbol=? as a canonical name comparison is useful once
// symbol names themselves can come from differently-normalized string
// literals via string->symbol).
var symbolEqualPrimitive = &value.Primitive{
	Name:  "symbol=?",
	Arity: value.Arity{Min: 2, Max: -1},
	Fn: func(args []value.Value) (value.Value, error) {
		first, ok := args[0].(value.Symbol)
		if !ok {
			return nil, lerr.NewRuntimeError("symbol=?: expected a symbol")
		}
		want := NFC(first.Name())
		for _, a := range args[1:] {
			s, ok := a.(value.Symbol)
			if !ok {
				return nil, lerr.NewRuntimeError("symbol=?: expected a symbol")
			}
			if NFC(s.Name()) != want {
				return value.Bool(false), nil
			}
		}
		return value.Bool(true), nil
	},
}
