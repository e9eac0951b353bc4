package stdlib

import (
	"github.com/akasaka-miraina/lambdust-sub003/internal/lerr"
	"github.com/akasaka-miraina/lambdust-sub003/internal/value"
)

var vectorPrimitives = []*value.Primitive{
	vectorPrimitive,
	makeVectorPrimitive,
	vectorPPrimitive,
	vectorLengthPrimitive,
	vectorRefPrimitive,
	vectorSetPrimitive,
	vectorToListPrimitive,
	listToVectorPrimitive,
	vectorFillPrimitive,
	vectorCopyPrimitive,
	vectorMapPrimitive,
	vectorForEachPrimitive,
}

func asVector(v value.Value, who string) (value.Vector, error) {
	vec, ok := v.(value.Vector)
	if !ok {
		return value.Vector{}, lerr.Runtimef("%s: expected a vector", who)
	}
	return vec, nil
}

var vectorPrimitive = &value.Primitive{
	Name: "vector", Arity: value.Arity{Min: 0, Max: -1},
	Fn: func(args []value.Value) (value.Value, error) { return value.NewVector(args), nil },
}

var makeVectorPrimitive = &value.Primitive{
	Name: "make-vector", Arity: value.Arity{Min: 1, Max: 2},
	Fn: func(args []value.Value) (value.Value, error) {
		n, err := asIndex(args[0], "make-vector")
		if err != nil {
			return nil, err
		}
		var fill value.Value = value.TheUnspecified
		if len(args) == 2 {
			fill = args[1]
		}
		return value.NewVectorOfLen(n, fill), nil
	},
}

var vectorPPrimitive = &value.Primitive{
	Name: "vector?", Arity: value.Arity{Min: 1, Max: 1},
	Fn: func(args []value.Value) (value.Value, error) {
		_, ok := args[0].(value.Vector)
		return value.Bool(ok), nil
	},
}

var vectorLengthPrimitive = &value.Primitive{
	Name: "vector-length", Arity: value.Arity{Min: 1, Max: 1},
	Fn: func(args []value.Value) (value.Value, error) {
		vec, err := asVector(args[0], "vector-length")
		if err != nil {
			return nil, err
		}
		return value.NewInteger(int64(vec.Len())), nil
	},
}

var vectorRefPrimitive = &value.Primitive{
	Name: "vector-ref", Arity: value.Arity{Min: 2, Max: 2},
	Fn: func(args []value.Value) (value.Value, error) {
		vec, err := asVector(args[0], "vector-ref")
		if err != nil {
			return nil, err
		}
		i, err := asIndex(args[1], "vector-ref")
		if err != nil {
			return nil, err
		}
		if i < 0 || i >= vec.Len() {
			return nil, lerr.NewRuntimeError("vector-ref: index out of range")
		}
		return vec.Ref(i), nil
	},
}

var vectorSetPrimitive = &value.Primitive{
	Name: "vector-set!", Arity: value.Arity{Min: 3, Max: 3},
	Fn: func(args []value.Value) (value.Value, error) {
		vec, err := asVector(args[0], "vector-set!")
		if err != nil {
			return nil, err
		}
		i, err := asIndex(args[1], "vector-set!")
		if err != nil {
			return nil, err
		}
		if i < 0 || i >= vec.Len() {
			return nil, lerr.NewRuntimeError("vector-set!: index out of range")
		}
		vec.Set(i, args[2])
		return value.TheUnspecified, nil
	},
}

var vectorToListPrimitive = &value.Primitive{
	Name: "vector->list", Arity: value.Arity{Min: 1, Max: 1},
	Fn: func(args []value.Value) (value.Value, error) {
		vec, err := asVector(args[0], "vector->list")
		if err != nil {
			return nil, err
		}
		return value.SliceToList(vec.Slice()), nil
	},
}

var listToVectorPrimitive = &value.Primitive{
	Name: "list->vector", Arity: value.Arity{Min: 1, Max: 1},
	Fn: func(args []value.Value) (value.Value, error) {
		items, err := asList(args[0], "list->vector")
		if err != nil {
			return nil, err
		}
		return value.NewVector(items), nil
	},
}

var vectorFillPrimitive = &value.Primitive{
	Name: "vector-fill!", Arity: value.Arity{Min: 2, Max: 4},
	Fn: func(args []value.Value) (value.Value, error) {
		vec, err := asVector(args[0], "vector-fill!")
		if err != nil {
			return nil, err
		}
		start, end := 0, vec.Len()
		if len(args) >= 3 {
			start, err = asIndex(args[2], "vector-fill!")
			if err != nil {
				return nil, err
			}
		}
		if len(args) == 4 {
			end, err = asIndex(args[3], "vector-fill!")
			if err != nil {
				return nil, err
			}
		}
		for i := start; i < end; i++ {
			vec.Set(i, args[1])
		}
		return value.TheUnspecified, nil
	},
}

var vectorCopyPrimitive = &value.Primitive{
	Name: "vector-copy", Arity: value.Arity{Min: 1, Max: 3},
	Fn: func(args []value.Value) (value.Value, error) {
		vec, err := asVector(args[0], "vector-copy")
		if err != nil {
			return nil, err
		}
		start, end := 0, vec.Len()
		if len(args) >= 2 {
			start, err = asIndex(args[1], "vector-copy")
			if err != nil {
				return nil, err
			}
		}
		if len(args) == 3 {
			end, err = asIndex(args[2], "vector-copy")
			if err != nil {
				return nil, err
			}
		}
		if start < 0 || end > vec.Len() || start > end {
			return nil, lerr.NewRuntimeError("vector-copy: index out of range")
		}
		return value.NewVector(vec.Slice()[start:end]), nil
	},
}

var vectorMapPrimitive = &value.Primitive{
	Name: "vector-map", Arity: value.Arity{Min: 2, Max: -1},
	AwareFn: func(ev value.EvaluatorHandle, args []value.Value) (value.Value, error) {
		vecs := make([]value.Vector, len(args)-1)
		minLen := -1
		for i, a := range args[1:] {
			v, err := asVector(a, "vector-map")
			if err != nil {
				return nil, err
			}
			vecs[i] = v
			if minLen == -1 || v.Len() < minLen {
				minLen = v.Len()
			}
		}
		out := make([]value.Value, minLen)
		for i := 0; i < minLen; i++ {
			row := make([]value.Value, len(vecs))
			for j, v := range vecs {
				row[j] = v.Ref(i)
			}
			r, err := ev.Apply(args[0], row)
			if err != nil {
				return nil, err
			}
			out[i] = r
		}
		return value.NewVector(out), nil
	},
}

var vectorForEachPrimitive = &value.Primitive{
	Name: "vector-for-each", Arity: value.Arity{Min: 2, Max: -1},
	AwareFn: func(ev value.EvaluatorHandle, args []value.Value) (value.Value, error) {
		vecs := make([]value.Vector, len(args)-1)
		minLen := -1
		for i, a := range args[1:] {
			v, err := asVector(a, "vector-for-each")
			if err != nil {
				return nil, err
			}
			vecs[i] = v
			if minLen == -1 || v.Len() < minLen {
				minLen = v.Len()
			}
		}
		for i := 0; i < minLen; i++ {
			row := make([]value.Value, len(vecs))
			for j, v := range vecs {
				row[j] = v.Ref(i)
			}
			if _, err := ev.Apply(args[0], row); err != nil {
				return nil, err
			}
		}
		return value.TheUnspecified, nil
	},
}
