// Package bytevector implements R7RS 6.9's byte-exact bytevector
// procedures (spec §6) over the already-existing value.Bytevector type:
// construction, element access, copying, and the UTF-8 string
// conversions, grounded on original_source/src/stdlib/bytevector.rs's
// procedure set.
package bytevector

import (
	"github.com/akasaka-miraina/lambdust-sub003/internal/lerr"
	"github.com/akasaka-miraina/lambdust-sub003/internal/value"
)

// Install registers every procedure this package implements into global.
func Install(global value.Environment) {
	prims := []*value.Primitive{
		bytevectorPrimitive,
		makeBytevectorPrimitive,
		bytevectorPPrimitive,
		bytevectorLengthPrimitive,
		bytevectorU8RefPrimitive,
		bytevectorU8SetPrimitive,
		bytevectorCopyPrimitive,
		bytevectorCopyToPrimitive,
		bytevectorAppendPrimitive,
		utf8ToStringPrimitive,
		stringToUtf8Primitive,
	}
	for _, p := range prims {
		global.Define(value.NewSymbol(p.Name).ID, p)
	}
}

func asIndex(v value.Value, who string) (int, error) {
	i, ok := v.(value.Integer)
	if !ok {
		return 0, lerr.Runtimef("%s: expected an exact integer index", who)
	}
	if !i.V.IsInt64() {
		return 0, lerr.Runtimef("%s: index out of range", who)
	}
	return int(i.V.Int64()), nil
}

func asBytevector(v value.Value, who string) (value.Bytevector, error) {
	bv, ok := v.(value.Bytevector)
	if !ok {
		return value.Bytevector{}, lerr.Runtimef("%s: expected a bytevector", who)
	}
	return bv, nil
}

var bytevectorPrimitive = &value.Primitive{
	Name:  "bytevector",
	Arity: value.Arity{Min: 0, Max: -1},
	Fn: func(args []value.Value) (value.Value, error) {
		bytes := make([]byte, len(args))
		for i, a := range args {
			n, err := asIndex(a, "bytevector")
			if err != nil {
				return nil, err
			}
			if n < 0 || n > 255 {
				return nil, lerr.NewRuntimeError("bytevector: byte value out of range")
			}
			bytes[i] = byte(n)
		}
		return value.NewBytevector(bytes), nil
	},
}

var makeBytevectorPrimitive = &value.Primitive{
	Name:  "make-bytevector",
	Arity: value.Arity{Min: 1, Max: 2},
	Fn: func(args []value.Value) (value.Value, error) {
		n, err := asIndex(args[0], "make-bytevector")
		if err != nil {
			return nil, err
		}
		fill := byte(0)
		if len(args) == 2 {
			fv, err := asIndex(args[1], "make-bytevector")
			if err != nil {
				return nil, err
			}
			fill = byte(fv)
		}
		return value.NewBytevectorOfLen(n, fill), nil
	},
}

var bytevectorPPrimitive = &value.Primitive{
	Name:  "bytevector?",
	Arity: value.Arity{Min: 1, Max: 1},
	Fn: func(args []value.Value) (value.Value, error) {
		_, ok := args[0].(value.Bytevector)
		return value.Bool(ok), nil
	},
}

var bytevectorLengthPrimitive = &value.Primitive{
	Name:  "bytevector-length",
	Arity: value.Arity{Min: 1, Max: 1},
	Fn: func(args []value.Value) (value.Value, error) {
		bv, err := asBytevector(args[0], "bytevector-length")
		if err != nil {
			return nil, err
		}
		return value.NewInteger(int64(bv.Len())), nil
	},
}

var bytevectorU8RefPrimitive = &value.Primitive{
	Name:  "bytevector-u8-ref",
	Arity: value.Arity{Min: 2, Max: 2},
	Fn: func(args []value.Value) (value.Value, error) {
		bv, err := asBytevector(args[0], "bytevector-u8-ref")
		if err != nil {
			return nil, err
		}
		i, err := asIndex(args[1], "bytevector-u8-ref")
		if err != nil {
			return nil, err
		}
		if i < 0 || i >= bv.Len() {
			return nil, lerr.NewRuntimeError("bytevector-u8-ref: index out of range")
		}
		return value.NewInteger(int64(bv.Ref(i))), nil
	},
}

var bytevectorU8SetPrimitive = &value.Primitive{
	Name:  "bytevector-u8-set!",
	Arity: value.Arity{Min: 3, Max: 3},
	Fn: func(args []value.Value) (value.Value, error) {
		bv, err := asBytevector(args[0], "bytevector-u8-set!")
		if err != nil {
			return nil, err
		}
		i, err := asIndex(args[1], "bytevector-u8-set!")
		if err != nil {
			return nil, err
		}
		v, err := asIndex(args[2], "bytevector-u8-set!")
		if err != nil {
			return nil, err
		}
		if i < 0 || i >= bv.Len() {
			return nil, lerr.NewRuntimeError("bytevector-u8-set!: index out of range")
		}
		if v < 0 || v > 255 {
			return nil, lerr.NewRuntimeError("bytevector-u8-set!: byte value out of range")
		}
		bv.Set(i, byte(v))
		return value.TheUnspecified, nil
	},
}

var bytevectorCopyPrimitive = &value.Primitive{
	Name:  "bytevector-copy",
	Arity: value.Arity{Min: 1, Max: 3},
	Fn: func(args []value.Value) (value.Value, error) {
		bv, err := asBytevector(args[0], "bytevector-copy")
		if err != nil {
			return nil, err
		}
		start, end := 0, bv.Len()
		if len(args) >= 2 {
			start, err = asIndex(args[1], "bytevector-copy")
			if err != nil {
				return nil, err
			}
		}
		if len(args) == 3 {
			end, err = asIndex(args[2], "bytevector-copy")
			if err != nil {
				return nil, err
			}
		}
		if start < 0 || end > bv.Len() || start > end {
			return nil, lerr.NewRuntimeError("bytevector-copy: index out of range")
		}
		return value.NewBytevector(bv.Bytes()[start:end]), nil
	},
}

var bytevectorCopyToPrimitive = &value.Primitive{
	Name:  "bytevector-copy!",
	Arity: value.Arity{Min: 3, Max: 5},
	Fn: func(args []value.Value) (value.Value, error) {
		to, err := asBytevector(args[0], "bytevector-copy!")
		if err != nil {
			return nil, err
		}
		at, err := asIndex(args[1], "bytevector-copy!")
		if err != nil {
			return nil, err
		}
		from, err := asBytevector(args[2], "bytevector-copy!")
		if err != nil {
			return nil, err
		}
		start, end := 0, from.Len()
		if len(args) >= 4 {
			start, err = asIndex(args[3], "bytevector-copy!")
			if err != nil {
				return nil, err
			}
		}
		if len(args) == 5 {
			end, err = asIndex(args[4], "bytevector-copy!")
			if err != nil {
				return nil, err
			}
		}
		if start < 0 || end > from.Len() || start > end || at+(end-start) > to.Len() {
			return nil, lerr.NewRuntimeError("bytevector-copy!: index out of range")
		}
		src := from.Bytes()[start:end]
		for i, b := range src {
			to.Set(at+i, b)
		}
		return value.TheUnspecified, nil
	},
}

var bytevectorAppendPrimitive = &value.Primitive{
	Name:  "bytevector-append",
	Arity: value.Arity{Min: 0, Max: -1},
	Fn: func(args []value.Value) (value.Value, error) {
		var out []byte
		for _, a := range args {
			bv, err := asBytevector(a, "bytevector-append")
			if err != nil {
				return nil, err
			}
			out = append(out, bv.Bytes()...)
		}
		return value.NewBytevector(out), nil
	},
}

var utf8ToStringPrimitive = &value.Primitive{
	Name:  "utf8->string",
	Arity: value.Arity{Min: 1, Max: 3},
	Fn: func(args []value.Value) (value.Value, error) {
		bv, err := asBytevector(args[0], "utf8->string")
		if err != nil {
			return nil, err
		}
		start, end := 0, bv.Len()
		if len(args) >= 2 {
			start, err = asIndex(args[1], "utf8->string")
			if err != nil {
				return nil, err
			}
		}
		if len(args) == 3 {
			end, err = asIndex(args[2], "utf8->string")
			if err != nil {
				return nil, err
			}
		}
		if start < 0 || end > bv.Len() || start > end {
			return nil, lerr.NewRuntimeError("utf8->string: index out of range")
		}
		return value.NewStr(string(bv.Bytes()[start:end])), nil
	},
}

var stringToUtf8Primitive = &value.Primitive{
	Name:  "string->utf8",
	Arity: value.Arity{Min: 1, Max: 3},
	Fn: func(args []value.Value) (value.Value, error) {
		runes, err := asRunes(args[0], "string->utf8")
		if err != nil {
			return nil, err
		}
		start, end := 0, len(runes)
		if len(args) >= 2 {
			start, err = asIndex(args[1], "string->utf8")
			if err != nil {
				return nil, err
			}
		}
		if len(args) == 3 {
			end, err = asIndex(args[2], "string->utf8")
			if err != nil {
				return nil, err
			}
		}
		if start < 0 || end > len(runes) || start > end {
			return nil, lerr.NewRuntimeError("string->utf8: index out of range")
		}
		return value.NewBytevector([]byte(string(runes[start:end]))), nil
	},
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
