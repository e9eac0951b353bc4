package stdlib

import (
	"github.com/akasaka-miraina/lambdust-sub003/internal/lerr"
	"github.com/akasaka-miraina/lambdust-sub003/internal/numeric"
	"github.com/akasaka-miraina/lambdust-sub003/internal/value"
)

// numericPrimitives wires package numeric's pure arithmetic functions up
// as the R7RS arithmetic procedures (+, -, *, /, comparisons,
// exactness conversion); numeric itself stays free of any notion of
// variadic Scheme call conventions.
var numericPrimitives = []*value.Primitive{
	addPrimitive,
	subPrimitive,
	mulPrimitive,
	divPrimitive,
	numEqPrimitive,
	ltPrimitive,
	gtPrimitive,
	lePrimitive,
	gePrimitive,
	exactPrimitive,
	inexactPrimitive,
	zeroPPrimitive,
	numberPPrimitive,
}

var addPrimitive = &value.Primitive{
	Name: "+", Arity: value.Arity{Min: 0, Max: -1},
	Fn: func(args []value.Value) (value.Value, error) {
		acc := value.Value(value.NewInteger(0))
		var err error
		for _, a := range args {
			acc, err = numeric.Add(acc, a)
			if err != nil {
				return nil, err
			}
		}
		return acc, nil
	},
}

var subPrimitive = &value.Primitive{
	Name: "-", Arity: value.Arity{Min: 1, Max: -1},
	Fn: func(args []value.Value) (value.Value, error) {
		if len(args) == 1 {
			return numeric.Negate(args[0])
		}
		acc := args[0]
		var err error
		for _, a := range args[1:] {
			acc, err = numeric.Sub(acc, a)
			if err != nil {
				return nil, err
			}
		}
		return acc, nil
	},
}

var mulPrimitive = &value.Primitive{
	Name: "*", Arity: value.Arity{Min: 0, Max: -1},
	Fn: func(args []value.Value) (value.Value, error) {
		acc := value.Value(value.NewInteger(1))
		var err error
		for _, a := range args {
			acc, err = numeric.Mul(acc, a)
			if err != nil {
				return nil, err
			}
		}
		return acc, nil
	},
}

var divPrimitive = &value.Primitive{
	Name: "/", Arity: value.Arity{Min: 1, Max: -1},
	Fn: func(args []value.Value) (value.Value, error) {
		if len(args) == 1 {
			return numeric.Div(value.NewInteger(1), args[0])
		}
		acc := args[0]
		var err error
		for _, a := range args[1:] {
			acc, err = numeric.Div(acc, a)
			if err != nil {
				return nil, err
			}
		}
		return acc, nil
	},
}

func chainCompare(args []value.Value, who string, ok func(cmp int) bool) (value.Value, error) {
	for i := 0; i+1 < len(args); i++ {
		cmp, err := numeric.Compare(args[i], args[i+1])
		if err != nil {
			return nil, err
		}
		if !ok(cmp) {
			return value.Bool(false), nil
		}
	}
	return value.Bool(true), nil
}

var numEqPrimitive = &value.Primitive{
	Name: "=", Arity: value.Arity{Min: 1, Max: -1},
	Fn: func(args []value.Value) (value.Value, error) {
		for i := 0; i+1 < len(args); i++ {
			eq, err := numeric.NumericEqual(args[i], args[i+1])
			if err != nil {
				return nil, err
			}
			if !eq {
				return value.Bool(false), nil
			}
		}
		return value.Bool(true), nil
	},
}

var ltPrimitive = &value.Primitive{
	Name: "<", Arity: value.Arity{Min: 1, Max: -1},
	Fn: func(args []value.Value) (value.Value, error) {
		return chainCompare(args, "<", func(c int) bool { return c < 0 })
	},
}

var gtPrimitive = &value.Primitive{
	Name: ">", Arity: value.Arity{Min: 1, Max: -1},
	Fn: func(args []value.Value) (value.Value, error) {
		return chainCompare(args, ">", func(c int) bool { return c > 0 })
	},
}

var lePrimitive = &value.Primitive{
	Name: "<=", Arity: value.Arity{Min: 1, Max: -1},
	Fn: func(args []value.Value) (value.Value, error) {
		return chainCompare(args, "<=", func(c int) bool { return c <= 0 })
	},
}

var gePrimitive = &value.Primitive{
	Name: ">=", Arity: value.Arity{Min: 1, Max: -1},
	Fn: func(args []value.Value) (value.Value, error) {
		return chainCompare(args, ">=", func(c int) bool { return c >= 0 })
	},
}

var exactPrimitive = &value.Primitive{
	Name: "exact", Arity: value.Arity{Min: 1, Max: 1},
	Fn: func(args []value.Value) (value.Value, error) { return numeric.ToExact(args[0]), nil },
}

var inexactPrimitive = &value.Primitive{
	Name: "inexact", Arity: value.Arity{Min: 1, Max: 1},
	Fn: func(args []value.Value) (value.Value, error) { return numeric.ToInexact(args[0]), nil },
}

var zeroPPrimitive = &value.Primitive{
	Name: "zero?", Arity: value.Arity{Min: 1, Max: 1},
	Fn: func(args []value.Value) (value.Value, error) {
		if !numberKind(args[0]) {
			return nil, lerr.NewRuntimeError("zero?: expected a number")
		}
		return value.Bool(numeric.IsZero(args[0])), nil
	},
}

var numberPPrimitive = &value.Primitive{
	Name: "number?", Arity: value.Arity{Min: 1, Max: 1},
	Fn: func(args []value.Value) (value.Value, error) { return value.Bool(numberKind(args[0])), nil },
}

func numberKind(v value.Value) bool {
	switch v.Kind() {
	case value.KindInteger, value.KindRational, value.KindReal, value.KindComplex:
		return true
	default:
		return false
	}
}
