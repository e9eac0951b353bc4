// Derived special forms: the handful of R7RS forms whose operands must
// not be pre-evaluated (so they cannot be ordinary Primitives) but which
// spec.md §6 has no dedicated ast.Kind for. Rather than installing each as
// a literal syntax-rules transformer (spec.md's "installed as
// transformers" framing, impractical to hand-author as Go data for every
// one of these), each is recognized by its head identifier's name on a
// generic KindApplication node and dispatched here — DESIGN.md records
// this as a deliberate simplification. User-defined macros are entirely
// unaffected: they still go through the real package macro engine in
// stepApplication, since a name only reaches this table if it has no
// Syntax binding shadowing it.
package eval

import (
	"github.com/akasaka-miraina/lambdust-sub003/internal/ast"
	"github.com/akasaka-miraina/lambdust-sub003/internal/lerr"
	"github.com/akasaka-miraina/lambdust-sub003/internal/machine"
	"github.com/akasaka-miraina/lambdust-sub003/internal/value"
)

type specialFormFn func(ev *Evaluator, operands []ast.Expr, env value.Environment, span ast.Span) (value.Value, ast.Expr, value.Environment, bool, error)

var specialForms map[string]specialFormFn

func init() {
	specialForms = map[string]specialFormFn{
		"call/cc":                     formCallCC,
		"call-with-current-continuation": formCallCC,
		"when":             formWhen,
		"unless":           formUnless,
		"do":               formDo,
		"cond-expand":      formCondExpand,
		"case-lambda":      formCaseLambda,
		"define-record-type": formDefineRecordType,
		"delay":            formDelay,
		"delay-force":      formDelayForce,
		"make-promise-lazy": formDelayForce,
		"define-values":    formDefineValues,
		"let-values":       formLetValues,
		"let*-values":      formLetStarValues,
		"parameterize":     formParameterize,
		"guard":            formGuard,
	}
}

// formCallCC evaluates its one operand (the receiver expression) with a
// CallCCFrame beneath it; when that value is ready, resume's CallCCFrame
// case captures the continuation and applies the receiver to it.
func formCallCC(ev *Evaluator, operands []ast.Expr, env value.Environment, span ast.Span) (value.Value, ast.Expr, value.Environment, bool, error) {
	if len(operands) != 1 {
		return nil, ast.Expr{}, nil, false, lerr.Runtimef("call/cc: expected 1 argument, got %d", len(operands))
	}
	ev.m.Push(machine.CallCCFrame{Base: machine.Base{Env: env, Span: span}})
	return nil, operands[0], env, true, nil
}

func formWhen(ev *Evaluator, operands []ast.Expr, env value.Environment, span ast.Span) (value.Value, ast.Expr, value.Environment, bool, error) {
	if len(operands) == 0 {
		return nil, ast.Expr{}, nil, false, lerr.NewRuntimeError("when: expected a test expression")
	}
	return nil, desugarWhenUnless(true, operands[0], operands[1:]), env, true, nil
}

func formUnless(ev *Evaluator, operands []ast.Expr, env value.Environment, span ast.Span) (value.Value, ast.Expr, value.Environment, bool, error) {
	if len(operands) == 0 {
		return nil, ast.Expr{}, nil, false, lerr.NewRuntimeError("unless: expected a test expression")
	}
	return nil, desugarWhenUnless(false, operands[0], operands[1:]), env, true, nil
}

// formDo expects operands[0] to be a literal list-of-lists spec
// `((var init step?) ...)`, operands[1] a `(test result...)` list, and
// the rest the loop's commands — carried, per spec.md §6, as raw KindPairExpr
// data (do's binding/test clauses are not ordinary sub-expressions, they
// are literal list syntax) rather than as pre-parsed ast.Expr sub-nodes.
func formDo(ev *Evaluator, operands []ast.Expr, env value.Environment, span ast.Span) (value.Value, ast.Expr, value.Environment, bool, error) {
	if len(operands) < 2 {
		return nil, ast.Expr{}, nil, false, lerr.NewRuntimeError("do: expected bindings and a test clause")
	}
	specItems, ok := exprListItems(operands[0])
	if !ok {
		return nil, ast.Expr{}, nil, false, lerr.NewRuntimeError("do: malformed binding list")
	}
	specs := make([]doSpec, len(specItems))
	for i, item := range specItems {
		parts, ok := exprListItems(item)
		if !ok || len(parts) < 2 {
			return nil, ast.Expr{}, nil, false, lerr.NewRuntimeError("do: malformed binding clause")
		}
		if parts[0].Kind != ast.KindIdentifier {
			return nil, ast.Expr{}, nil, false, lerr.NewRuntimeError("do: binding variable must be an identifier")
		}
		step := parts[0]
		if len(parts) >= 3 {
			step = parts[2]
		}
		specs[i] = doSpec{Var: parts[0].Name, Init: parts[1], Step: step}
	}

	testClause, ok := exprListItems(operands[1])
	if !ok || len(testClause) == 0 {
		return nil, ast.Expr{}, nil, false, lerr.NewRuntimeError("do: malformed test clause")
	}
	return nil, desugarDo(specs, testClause[0], testClause[1:], operands[2:]), env, true, nil
}

// exprListItems converts a literal-list-of-Exprs operand (a KindPairExpr
// chain built by the reader for raw syntax like do's binding list) into a
// slice. Most operands are ordinary sub-expressions (KindApplication,
// KindIdentifier, ...); this only applies where spec.md's grammar calls
// for literal list syntax rather than an evaluated sub-expression.
func exprListItems(e ast.Expr) ([]ast.Expr, bool) {
	var items []ast.Expr
	for {
		switch e.Kind {
		case ast.KindLiteral:
			if _, isNil := e.Literal.(value.Nil); isNil {
				return items, true
			}
			return nil, false
		case ast.KindPairExpr:
			items = append(items, e.PairExpr.Car)
			e = e.PairExpr.Cdr
		case ast.KindApplication:
			// The reader may also hand back bindings as an Application
			// node (operator + operands) rather than a raw pair chain.
			items = append(items, e.Application.Operator)
			items = append(items, e.Application.Operands...)
			return items, true
		default:
			return nil, false
		}
	}
}

// cond-expand's supported feature identifiers (spec.md §1/§9): a fixed,
// honest feature set rather than a full library-requirement resolver.
var supportedFeatures = map[string]bool{
	"r7rs":          true,
	"lambdust":      true,
	"exact-closed":  true,
	"ratios":        true,
	"full-unicode":  true,
	"else":          true,
}

func formCondExpand(ev *Evaluator, operands []ast.Expr, env value.Environment, span ast.Span) (value.Value, ast.Expr, value.Environment, bool, error) {
	for _, clause := range operands {
		items, ok := exprListItems(clause)
		if !ok || len(items) == 0 {
			continue
		}
		if featureRequirementHolds(items[0]) {
			return nil, bodyToBegin(items[1:]), env, true, nil
		}
	}
	return value.TheUnspecified, ast.Expr{}, nil, false, nil
}

func featureRequirementHolds(req ast.Expr) bool {
	switch req.Kind {
	case ast.KindIdentifier:
		return supportedFeatures[req.Name]
	case ast.KindApplication:
		items := append([]ast.Expr{req.Application.Operator}, req.Application.Operands...)
		return evalFeatureForm(items)
	case ast.KindPairExpr:
		items, ok := exprListItems(req)
		if !ok {
			return false
		}
		return evalFeatureForm(items)
	default:
		return false
	}
}

func evalFeatureForm(items []ast.Expr) bool {
	if len(items) == 0 || items[0].Kind != ast.KindIdentifier {
		return false
	}
	switch items[0].Name {
	case "and":
		for _, it := range items[1:] {
			if !featureRequirementHolds(it) {
				return false
			}
		}
		return true
	case "or":
		for _, it := range items[1:] {
			if featureRequirementHolds(it) {
				return true
			}
		}
		return false
	case "not":
		return len(items) == 2 && !featureRequirementHolds(items[1])
	case "library":
		return false // library-existence resolution is out of scope.
	default:
		return false
	}
}

// formCaseLambda builds a *value.CaseLambda whose clauses share env,
// each operand a literal `(formals body...)` clause.
func formCaseLambda(ev *Evaluator, operands []ast.Expr, env value.Environment, span ast.Span) (value.Value, ast.Expr, value.Environment, bool, error) {
	clauses := make([]value.Procedure, len(operands))
	for i, op := range operands {
		if op.Kind != ast.KindLambda {
			return nil, ast.Expr{}, nil, false, lerr.NewRuntimeError("case-lambda: expected a formals/body clause")
		}
		clauses[i] = value.Procedure{Formals: op.Lambda.Fixed, Rest: op.Lambda.Rest, Body: op.Lambda.Body, Env: env}
	}
	return &value.CaseLambda{Clauses: clauses, Env: env}, ast.Expr{}, nil, false, nil
}

// formDefineRecordType implements R7RS 5.5's define-record-type,
// generating constructor/predicate/accessor/mutator procedures bound in
// env, all in one side-effecting step (done=true, value #<unspecified>).
//
// operands: type-name, (constructor-name field...), predicate-name,
// then one `(field accessor [mutator])` clause per field.
func formDefineRecordType(ev *Evaluator, operands []ast.Expr, env value.Environment, span ast.Span) (value.Value, ast.Expr, value.Environment, bool, error) {
	if len(operands) < 3 {
		return nil, ast.Expr{}, nil, false, lerr.NewRuntimeError("define-record-type: malformed form")
	}
	typeName := exprName(operands[0])

	ctorItems, ok := exprListItems(operands[1])
	if !ok || len(ctorItems) == 0 {
		return nil, ast.Expr{}, nil, false, lerr.NewRuntimeError("define-record-type: malformed constructor spec")
	}
	ctorName := exprName(ctorItems[0])
	ctorFields := make([]string, len(ctorItems)-1)
	for i, f := range ctorItems[1:] {
		ctorFields[i] = exprName(f)
	}

	predName := exprName(operands[2])

	fieldClauses := operands[3:]
	allFields := make([]string, len(fieldClauses))
	accessors := make([]string, len(fieldClauses))
	mutators := make([]string, len(fieldClauses))
	for i, fc := range fieldClauses {
		items, ok := exprListItems(fc)
		if !ok || len(items) < 2 {
			return nil, ast.Expr{}, nil, false, lerr.NewRuntimeError("define-record-type: malformed field clause")
		}
		allFields[i] = exprName(items[0])
		accessors[i] = exprName(items[1])
		if len(items) >= 3 {
			mutators[i] = exprName(items[2])
		}
	}

	rt := value.NewRecordType(typeName, allFields)

	ctorIdx := make([]int, len(ctorFields))
	for i, f := range ctorFields {
		ctorIdx[i] = rt.FieldIndex(f)
	}
	constructor := &value.Primitive{
		Name:  ctorName,
		Arity: value.Arity{Min: len(ctorFields), Max: len(ctorFields)},
		Fn: func(args []value.Value) (value.Value, error) {
			fields := make([]value.Value, len(allFields))
			for i := range fields {
				fields[i] = value.TheUnspecified
			}
			for i, idx := range ctorIdx {
				fields[idx] = args[i]
			}
			return value.NewRecord(rt, fields), nil
		},
	}
	predicate := &value.Primitive{
		Name:  predName,
		Arity: value.Arity{Min: 1, Max: 1},
		Fn: func(args []value.Value) (value.Value, error) {
			r, ok := args[0].(*value.Record)
			return value.Bool(ok && r.Type == rt), nil
		},
	}

	env.Define(value.NewSymbol(typeName).ID, rt)
	env.Define(value.NewSymbol(ctorName).ID, constructor)
	env.Define(value.NewSymbol(predName).ID, predicate)

	for i := range allFields {
		idx := i
		if accessors[i] != "" {
			accName := accessors[i]
			env.Define(value.NewSymbol(accName).ID, &value.Primitive{
				Name:  accName,
				Arity: value.Arity{Min: 1, Max: 1},
				Fn: func(args []value.Value) (value.Value, error) {
					r, ok := args[0].(*value.Record)
					if !ok || r.Type != rt {
						return nil, lerr.Typef(lerr.Span{}, "%s: not a %s", accName, typeName)
					}
					return r.Field(idx), nil
				},
			})
		}
		if mutators[i] != "" {
			mutName := mutators[i]
			env.Define(value.NewSymbol(mutName).ID, &value.Primitive{
				Name:  mutName,
				Arity: value.Arity{Min: 2, Max: 2},
				Fn: func(args []value.Value) (value.Value, error) {
					r, ok := args[0].(*value.Record)
					if !ok || r.Type != rt {
						return nil, lerr.Typef(lerr.Span{}, "%s: not a %s", mutName, typeName)
					}
					r.SetField(idx, args[1])
					return value.TheUnspecified, nil
				},
			})
		}
	}

	return value.TheUnspecified, ast.Expr{}, nil, false, nil
}

func exprName(e ast.Expr) string {
	if e.Kind == ast.KindIdentifier {
		return e.Name
	}
	return ""
}

// formParameterize evaluates each parameter-expression/value-expression
// pair, pushes the converted values onto the Parameters' dynamic stacks,
// runs the body through a nested Eval, and pops them again afterwards —
// directly, without going through dynamic-wind.
func formParameterize(ev *Evaluator, operands []ast.Expr, env value.Environment, span ast.Span) (value.Value, ast.Expr, value.Environment, bool, error) {
	if len(operands) == 0 {
		return nil, ast.Expr{}, nil, false, lerr.NewRuntimeError("parameterize: expected a binding list")
	}
	specItems, ok := exprListItems(operands[0])
	if !ok {
		return nil, ast.Expr{}, nil, false, lerr.NewRuntimeError("parameterize: malformed binding list")
	}
	type binding struct {
		param *value.Parameter
		value value.Value
	}
	bindings := make([]binding, len(specItems))
	for i, spec := range specItems {
		parts, ok := exprListItems(spec)
		if !ok || len(parts) != 2 {
			return nil, ast.Expr{}, nil, false, lerr.NewRuntimeError("parameterize: malformed binding")
		}
		pv, err := ev.Eval(parts[0], env)
		if err != nil {
			return nil, ast.Expr{}, nil, false, err
		}
		p, ok := pv.(*value.Parameter)
		if !ok {
			return nil, ast.Expr{}, nil, false, lerr.Typef(lerr.Span{}, "parameterize: not a parameter")
		}
		v, err := ev.Eval(parts[1], env)
		if err != nil {
			return nil, ast.Expr{}, nil, false, err
		}
		if p.Converter() != nil {
			v, err = ev.Apply(p.Converter(), []value.Value{v})
			if err != nil {
				return nil, ast.Expr{}, nil, false, err
			}
		}
		bindings[i] = binding{param: p, value: v}
	}

	for _, b := range bindings {
		b.param.Push(b.value)
	}
	result, err := ev.Eval(bodyToBegin(operands[1:]), env)
	for _, b := range bindings {
		b.param.Pop()
	}
	if err != nil {
		return nil, ast.Expr{}, nil, false, err
	}
	return result, ast.Expr{}, nil, false, nil
}
