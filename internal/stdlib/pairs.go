package stdlib

import (
	"github.com/akasaka-miraina/lambdust-sub003/internal/lerr"
	"github.com/akasaka-miraina/lambdust-sub003/internal/value"
)

func asIndex(v value.Value, who string) (int, error) {
	i, ok := v.(value.Integer)
	if !ok || !i.V.IsInt64() {
		return 0, lerr.Runtimef("%s: expected an exact integer", who)
	}
	return int(i.V.Int64()), nil
}

var pairPrimitives = []*value.Primitive{
	consPrimitive,
	carPrimitive,
	cdrPrimitive,
	setCarPrimitive,
	setCdrPrimitive,
	pairPPrimitive,
	nullPPrimitive,
	listPPrimitive,
}

var consPrimitive = &value.Primitive{
	Name: "cons", Arity: value.Arity{Min: 2, Max: 2},
	Fn: func(args []value.Value) (value.Value, error) { return value.Cons(args[0], args[1]), nil },
}

func asPairCar(v value.Value, who string) (value.Value, error) {
	switch p := v.(type) {
	case value.Pair:
		return p.Car, nil
	case value.MutablePair:
		return p.Car(), nil
	default:
		return nil, lerr.Runtimef("%s: expected a pair", who)
	}
}

func asPairCdr(v value.Value, who string) (value.Value, error) {
	switch p := v.(type) {
	case value.Pair:
		return p.Cdr, nil
	case value.MutablePair:
		return p.Cdr(), nil
	default:
		return nil, lerr.Runtimef("%s: expected a pair", who)
	}
}

var carPrimitive = &value.Primitive{
	Name: "car", Arity: value.Arity{Min: 1, Max: 1},
	Fn: func(args []value.Value) (value.Value, error) { return asPairCar(args[0], "car") },
}

var cdrPrimitive = &value.Primitive{
	Name: "cdr", Arity: value.Arity{Min: 1, Max: 1},
	Fn: func(args []value.Value) (value.Value, error) { return asPairCdr(args[0], "cdr") },
}

var setCarPrimitive = &value.Primitive{
	Name: "set-car!", Arity: value.Arity{Min: 2, Max: 2},
	Fn: func(args []value.Value) (value.Value, error) {
		p, ok := args[0].(value.MutablePair)
		if !ok {
			return nil, lerr.NewRuntimeError("set-car!: expected a mutable pair")
		}
		p.SetCar(args[1])
		return value.TheUnspecified, nil
	},
}

var setCdrPrimitive = &value.Primitive{
	Name: "set-cdr!", Arity: value.Arity{Min: 2, Max: 2},
	Fn: func(args []value.Value) (value.Value, error) {
		p, ok := args[0].(value.MutablePair)
		if !ok {
			return nil, lerr.NewRuntimeError("set-cdr!: expected a mutable pair")
		}
		p.SetCdr(args[1])
		return value.TheUnspecified, nil
	},
}

var pairPPrimitive = &value.Primitive{
	Name: "pair?", Arity: value.Arity{Min: 1, Max: 1},
	Fn: func(args []value.Value) (value.Value, error) {
		switch args[0].(type) {
		case value.Pair, value.MutablePair:
			return value.Bool(true), nil
		default:
			return value.Bool(false), nil
		}
	},
}

var nullPPrimitive = &value.Primitive{
	Name: "null?", Arity: value.Arity{Min: 1, Max: 1},
	Fn: func(args []value.Value) (value.Value, error) {
		_, ok := args[0].(value.Nil)
		return value.Bool(ok), nil
	},
}

var listPPrimitive = &value.Primitive{
	Name: "list?", Arity: value.Arity{Min: 1, Max: 1},
	Fn: func(args []value.Value) (value.Value, error) { return value.Bool(value.IsProperList(args[0])), nil },
}
