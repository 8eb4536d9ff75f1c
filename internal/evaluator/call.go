package evaluator

import (
	"github.com/vesperlang/vesper/internal/ast"
	"github.com/vesperlang/vesper/internal/diagnostics"
)

func (ev *Evaluator) evalCall(n *ast.Call, env *Environment) (Value, Signal) {
	callee, sig := ev.Eval(n.Callee, env)
	if sig.propagates() {
		return callee, sig
	}
	args := make([]Value, len(n.Args))
	for i, a := range n.Args {
		v, sig := ev.Eval(a, env)
		if sig.propagates() {
			return v, sig
		}
		args[i] = v
	}
	return ev.invoke(n, callee, args, n.ArgNames)
}

func (ev *Evaluator) invoke(n *ast.Call, callee Value, args []Value, argNames []string) (Value, Signal) {
	switch c := callee.(type) {
	case *BuiltinFn:
		v, diag := c.Fn(ev, args)
		if diag != nil {
			d := *diag
			if d.Line == 0 && d.Column == 0 {
				d.Line, d.Column = n.Token.Line, n.Token.Column
			}
			return NullValue, errSignal(d)
		}
		return v, none()
	case *Function:
		return ev.callFunction(c, args, argNames)
	case *Module:
		if c.Def != nil {
			return instantiatePattern(c.Def, args, argNames), none()
		}
	}
	return NullValue, errSignal(diagnostics.New(n.Token, "value of kind %s is not callable", callee.Kind()))
}

// callFunction binds parameters positionally (named args override by
// name when the declaration has a matching parameter), seeds any
// declared return-tuple members with null, evaluates the body, and
// resolves the result per §9 Open Question (b): an explicit
// `return expr` always wins outright; fall-through or a bare `return`
// collects the return-tuple's bindings when one was declared, and
// otherwise yields the body's last value.
func (ev *Evaluator) callFunction(fn *Function, args []Value, argNames []string) (Value, Signal) {
	callEnv := NewEnvironment(fn.Closure)
	for i, p := range fn.Decl.Params {
		var v Value = NullValue
		if named := findNamedArg(argNames, p.Name, args); named != nil {
			v = named
		} else if i < len(args) {
			v = args[i]
		} else if p.Init != nil {
			var sig Signal
			v, sig = ev.Eval(p.Init, callEnv)
			if sig.propagates() {
				return v, sig
			}
		}
		callEnv.Def(p.Name, v)
	}
	for _, p := range fn.Decl.ReturnTuple {
		callEnv.Def(p.Name, NullValue)
	}

	v, sig := ev.evalStatements(fn.Decl.Body.Statements, callEnv)
	switch sig.Kind {
	case SigReturn:
		if !sig.Bare {
			return v, none()
		}
		if fn.Decl.ReturnTuple != nil {
			return collectReturnTuple(fn.Decl.ReturnTuple, callEnv), none()
		}
		return v, none()
	case SigNone:
		if fn.Decl.ReturnTuple != nil {
			return collectReturnTuple(fn.Decl.ReturnTuple, callEnv), none()
		}
		return v, none()
	case SigBreak, SigYield:
		// A loop signal escaping a function body has no enclosing
		// loop to consume it; treat it as the function's result.
		return v, none()
	default:
		return v, sig
	}
}

func collectReturnTuple(members []*ast.Param, env *Environment) Value {
	elems := make([]Value, len(members))
	names := make([]string, len(members))
	for i, p := range members {
		v, _ := env.Get(p.Name)
		if v == nil {
			v = NullValue
		}
		elems[i] = v
		names[i] = p.Name
	}
	return &Tuple{Elements: elems, Names: names}
}

func findNamedArg(argNames []string, paramName string, args []Value) Value {
	for i, n := range argNames {
		if n == paramName && i < len(args) {
			return args[i]
		}
	}
	return nil
}
