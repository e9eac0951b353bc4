// Package stdlib implements the R7RS-small procedure library that sits
// above internal/eval's core special forms: SRFI-1 list procedures
// (fold, filter, remove, partition, delete-duplicates, iota, take, drop,
// last, ...), numeric-tower entry points delegating to package numeric,
// and the pair/list/vector accessors spec §3 assumes exist. Install is
// called once per global environment, after eval.InstallCore, the same
// layering the teacher's own app package uses to install editor
// commands on top of a bare state.EditorState.
package stdlib

import (
	"github.com/akasaka-miraina/lambdust-sub003/internal/lerr"
	"github.com/akasaka-miraina/lambdust-sub003/internal/value"
)

// Install registers every procedure package stdlib implements into
// global: SRFI-1 lists, pairs, vectors, and numeric-tower arithmetic.
func Install(global value.Environment) {
	for _, p := range listPrimitives {
		global.Define(value.NewSymbol(p.Name).ID, p)
	}
	for _, p := range pairPrimitives {
		global.Define(value.NewSymbol(p.Name).ID, p)
	}
	for _, p := range vectorPrimitives {
		global.Define(value.NewSymbol(p.Name).ID, p)
	}
	for _, p := range numericPrimitives {
		global.Define(value.NewSymbol(p.Name).ID, p)
	}
}

func asList(v value.Value, who string) ([]value.Value, error) {
	items, ok := value.ListToSlice(v)
	if !ok {
		return nil, lerr.Runtimef("%s: expected a proper list", who)
	}
	return items, nil
}

var listPrimitives = []*value.Primitive{
	listPrimitive,
	listTailPrimitive,
	lastPrimitive,
	takePrimitive,
	dropPrimitive,
	iotaPrimitive,
	appendPrimitive,
	reversePrimitive,
	lengthPrimitive,
	foldPrimitive,
	foldRightPrimitive,
	mapPrimitive,
	forEachPrimitive,
	filterPrimitive,
	removePrimitive,
	partitionPrimitive,
	deleteDuplicatesPrimitive,
	memberPrimitive,
	assocPrimitive,
}

var listPrimitive = &value.Primitive{
	Name: "list", Arity: value.Arity{Min: 0, Max: -1},
	Fn: func(args []value.Value) (value.Value, error) { return value.SliceToList(args), nil },
}

var listTailPrimitive = &value.Primitive{
	Name: "list-tail", Arity: value.Arity{Min: 2, Max: 2},
	Fn: func(args []value.Value) (value.Value, error) {
		items, err := asList(args[0], "list-tail")
		if err != nil {
			return nil, err
		}
		k, err := asIndex(args[1], "list-tail")
		if err != nil {
			return nil, err
		}
		if k < 0 || k > len(items) {
			return nil, lerr.NewRuntimeError("list-tail: index out of range")
		}
		return value.SliceToList(items[k:]), nil
	},
}

var lastPrimitive = &value.Primitive{
	Name: "last", Arity: value.Arity{Min: 1, Max: 1},
	Fn: func(args []value.Value) (value.Value, error) {
		items, err := asList(args[0], "last")
		if err != nil {
			return nil, err
		}
		if len(items) == 0 {
			return nil, lerr.NewRuntimeError("last: empty list")
		}
		return items[len(items)-1], nil
	},
}

var takePrimitive = &value.Primitive{
	Name: "take", Arity: value.Arity{Min: 2, Max: 2},
	Fn: func(args []value.Value) (value.Value, error) {
		items, err := asList(args[0], "take")
		if err != nil {
			return nil, err
		}
		k, err := asIndex(args[1], "take")
		if err != nil {
			return nil, err
		}
		if k < 0 || k > len(items) {
			return nil, lerr.NewRuntimeError("take: index out of range")
		}
		return value.SliceToList(items[:k]), nil
	},
}

var dropPrimitive = &value.Primitive{
	Name: "drop", Arity: value.Arity{Min: 2, Max: 2},
	Fn: listTailPrimitive.Fn,
}

var iotaPrimitive = &value.Primitive{
	Name: "iota", Arity: value.Arity{Min: 1, Max: 3},
	Fn: func(args []value.Value) (value.Value, error) {
		count, err := asIndex(args[0], "iota")
		if err != nil {
			return nil, err
		}
		start, step := int64(0), int64(1)
		if len(args) >= 2 {
			s, err := asIndex(args[1], "iota")
			if err != nil {
				return nil, err
			}
			start = int64(s)
		}
		if len(args) == 3 {
			s, err := asIndex(args[2], "iota")
			if err != nil {
				return nil, err
			}
			step = int64(s)
		}
		out := make([]value.Value, count)
		for i := 0; i < count; i++ {
			out[i] = value.NewInteger(start + int64(i)*step)
		}
		return value.SliceToList(out), nil
	},
}

var appendPrimitive = &value.Primitive{
	Name: "append", Arity: value.Arity{Min: 0, Max: -1},
	Fn: func(args []value.Value) (value.Value, error) {
		if len(args) == 0 {
			return value.TheNil, nil
		}
		var all []value.Value
		for _, a := range args[:len(args)-1] {
			items, err := asList(a, "append")
			if err != nil {
				return nil, err
			}
			all = append(all, items...)
		}
		result := args[len(args)-1]
		for i := len(all) - 1; i >= 0; i-- {
			result = value.Cons(all[i], result)
		}
		return result, nil
	},
}

var reversePrimitive = &value.Primitive{
	Name: "reverse", Arity: value.Arity{Min: 1, Max: 1},
	Fn: func(args []value.Value) (value.Value, error) {
		items, err := asList(args[0], "reverse")
		if err != nil {
			return nil, err
		}
		out := make([]value.Value, len(items))
		for i, v := range items {
			out[len(items)-1-i] = v
		}
		return value.SliceToList(out), nil
	},
}

var lengthPrimitive = &value.Primitive{
	Name: "length", Arity: value.Arity{Min: 1, Max: 1},
	Fn: func(args []value.Value) (value.Value, error) {
		items, err := asList(args[0], "length")
		if err != nil {
			return nil, err
		}
		return value.NewInteger(int64(len(items))), nil
	},
}

// foldPrimitive implements SRFI-1 fold: (fold kons knil lis1 ...), kons
// called as (kons e ... acc), left to right.
var foldPrimitive = &value.Primitive{
	Name: "fold", Arity: value.Arity{Min: 3, Max: -1},
	AwareFn: func(ev value.EvaluatorHandle, args []value.Value) (value.Value, error) {
		return foldImpl(ev, args, false)
	},
}

var foldRightPrimitive = &value.Primitive{
	Name: "fold-right", Arity: value.Arity{Min: 3, Max: -1},
	AwareFn: func(ev value.EvaluatorHandle, args []value.Value) (value.Value, error) {
		return foldImpl(ev, args, true)
	},
}

func foldImpl(ev value.EvaluatorHandle, args []value.Value, right bool) (value.Value, error) {
	kons, acc := args[0], args[1]
	lists, err := zipLists(args[2:], "fold")
	if err != nil {
		return nil, err
	}
	order := lists
	if right {
		order = reversedRows(lists)
	}
	for _, row := range order {
		var callArgs []value.Value
		if right {
			callArgs = append(append([]value.Value{}, row...), acc)
		} else {
			callArgs = append(append([]value.Value{}, row...), acc)
		}
		v, err := ev.Apply(kons, callArgs)
		if err != nil {
			return nil, err
		}
		acc = v
	}
	return acc, nil
}

func reversedRows(rows [][]value.Value) [][]value.Value {
	out := make([][]value.Value, len(rows))
	for i, r := range rows {
		out[len(rows)-1-i] = r
	}
	return out
}

// zipLists converts n list arguments into the shorter-length-bounded
// slice of "rows", row i holding the i-th element of every list, the
// shape every SRFI-1 n-ary list procedure below iterates over.
func zipLists(listArgs []value.Value, who string) ([][]value.Value, error) {
	cols := make([][]value.Value, len(listArgs))
	minLen := -1
	for i, a := range listArgs {
		items, err := asList(a, who)
		if err != nil {
			return nil, err
		}
		cols[i] = items
		if minLen == -1 || len(items) < minLen {
			minLen = len(items)
		}
	}
	if minLen < 0 {
		minLen = 0
	}
	rows := make([][]value.Value, minLen)
	for i := 0; i < minLen; i++ {
		row := make([]value.Value, len(cols))
		for j := range cols {
			row[j] = cols[j][i]
		}
		rows[i] = row
	}
	return rows, nil
}

var mapPrimitive = &value.Primitive{
	Name: "map", Arity: value.Arity{Min: 2, Max: -1},
	AwareFn: func(ev value.EvaluatorHandle, args []value.Value) (value.Value, error) {
		rows, err := zipLists(args[1:], "map")
		if err != nil {
			return nil, err
		}
		out := make([]value.Value, len(rows))
		for i, row := range rows {
			v, err := ev.Apply(args[0], row)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return value.SliceToList(out), nil
	},
}

var forEachPrimitive = &value.Primitive{
	Name: "for-each", Arity: value.Arity{Min: 2, Max: -1},
	AwareFn: func(ev value.EvaluatorHandle, args []value.Value) (value.Value, error) {
		rows, err := zipLists(args[1:], "for-each")
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			if _, err := ev.Apply(args[0], row); err != nil {
				return nil, err
			}
		}
		return value.TheUnspecified, nil
	},
}

var filterPrimitive = &value.Primitive{
	Name: "filter", Arity: value.Arity{Min: 2, Max: 2},
	AwareFn: func(ev value.EvaluatorHandle, args []value.Value) (value.Value, error) {
		return filterImpl(ev, args, true)
	},
}

var removePrimitive = &value.Primitive{
	Name: "remove", Arity: value.Arity{Min: 2, Max: 2},
	AwareFn: func(ev value.EvaluatorHandle, args []value.Value) (value.Value, error) {
		return filterImpl(ev, args, false)
	},
}

func filterImpl(ev value.EvaluatorHandle, args []value.Value, keepOnTrue bool) (value.Value, error) {
	items, err := asList(args[1], "filter")
	if err != nil {
		return nil, err
	}
	var out []value.Value
	for _, v := range items {
		r, err := ev.Apply(args[0], []value.Value{v})
		if err != nil {
			return nil, err
		}
		if value.IsTruthy(r) == keepOnTrue {
			out = append(out, v)
		}
	}
	return value.SliceToList(out), nil
}

var partitionPrimitive = &value.Primitive{
	Name: "partition", Arity: value.Arity{Min: 2, Max: 2},
	AwareFn: func(ev value.EvaluatorHandle, args []value.Value) (value.Value, error) {
		items, err := asList(args[1], "partition")
		if err != nil {
			return nil, err
		}
		var yes, no []value.Value
		for _, v := range items {
			r, err := ev.Apply(args[0], []value.Value{v})
			if err != nil {
				return nil, err
			}
			if value.IsTruthy(r) {
				yes = append(yes, v)
			} else {
				no = append(no, v)
			}
		}
		return value.MakeValues([]value.Value{value.SliceToList(yes), value.SliceToList(no)}), nil
	},
}

var deleteDuplicatesPrimitive = &value.Primitive{
	Name: "delete-duplicates", Arity: value.Arity{Min: 1, Max: 2},
	AwareFn: func(ev value.EvaluatorHandle, args []value.Value) (value.Value, error) {
		items, err := asList(args[0], "delete-duplicates")
		if err != nil {
			return nil, err
		}
		equal := func(a, b value.Value) (bool, error) {
			if len(args) == 2 {
				r, err := ev.Apply(args[1], []value.Value{a, b})
				if err != nil {
					return false, err
				}
				return value.IsTruthy(r), nil
			}
			return value.Equal(a, b), nil
		}
		var out []value.Value
		for _, v := range items {
			dup := false
			for _, seen := range out {
				eq, err := equal(seen, v)
				if err != nil {
					return nil, err
				}
				if eq {
					dup = true
					break
				}
			}
			if !dup {
				out = append(out, v)
			}
		}
		return value.SliceToList(out), nil
	},
}

var memberPrimitive = &value.Primitive{
	Name: "member", Arity: value.Arity{Min: 2, Max: 3},
	AwareFn: func(ev value.EvaluatorHandle, args []value.Value) (value.Value, error) {
		items, err := asList(args[1], "member")
		if err != nil {
			return nil, err
		}
		for i, v := range items {
			var eq bool
			if len(args) == 3 {
				r, err := ev.Apply(args[2], []value.Value{args[0], v})
				if err != nil {
					return nil, err
				}
				eq = value.IsTruthy(r)
			} else {
				eq = value.Equal(args[0], v)
			}
			if eq {
				return value.SliceToList(items[i:]), nil
			}
		}
		return value.Bool(false), nil
	},
}

var assocPrimitive = &value.Primitive{
	Name: "assoc", Arity: value.Arity{Min: 2, Max: 3},
	AwareFn: func(ev value.EvaluatorHandle, args []value.Value) (value.Value, error) {
		items, err := asList(args[1], "assoc")
		if err != nil {
			return nil, err
		}
		for _, entry := range items {
			pair, ok := entry.(value.Pair)
			if !ok {
				return nil, lerr.NewRuntimeError("assoc: expected a list of pairs")
			}
			var eq bool
			if len(args) == 3 {
				r, err := ev.Apply(args[2], []value.Value{args[0], pair.Car})
				if err != nil {
					return nil, err
				}
				eq = value.IsTruthy(r)
			} else {
				eq = value.Equal(args[0], pair.Car)
			}
			if eq {
				return pair, nil
			}
		}
		return value.Bool(false), nil
	},
}
