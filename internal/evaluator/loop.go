package evaluator

import (
	"github.com/vesperlang/vesper/internal/ast"
	"github.com/vesperlang/vesper/internal/diagnostics"
)

// evalFor iterates either a Tuple's elements or, for an Int, the
// integer range [0, n). Each iteration gets the loop variable rebound
// in a fresh child frame so that closures captured inside the body see
// their own value, not a shared mutable cell.
func (ev *Evaluator) evalFor(n *ast.For, env *Environment) (Value, Signal) {
	iter, sig := ev.Eval(n.Iterable, env)
	if sig.propagates() {
		return iter, sig
	}
	var result Value = NullValue
	run := func(item Value) (Value, Signal, bool) {
		child := NewEnvironment(env)
		child.Def(n.Var, item)
		v, sig := ev.evalStatements(n.Body.Statements, child)
		switch sig.Kind {
		case SigBreak:
			return result, none(), true
		case SigYield:
			result = v
			return nil, none(), false
		case SigNone:
			return nil, none(), false
		default:
			return v, sig, true
		}
	}
	switch it := iter.(type) {
	case *Tuple:
		for _, el := range it.Elements {
			v, sig, done := run(el)
			if done {
				return v, sig
			}
		}
	case *Int:
		for i := int64(0); i < it.Value; i++ {
			v, sig, done := run(&Int{Value: i})
			if done {
				return v, sig
			}
		}
	default:
		return NullValue, errSignal(diagnostics.New(n.Token, "cannot iterate a %s", iter.Kind()))
	}
	return result, none()
}

// evalWhile supports a leading condition (checked before the body), a
// trailing condition (checked after, do-while style), or both.
func (ev *Evaluator) evalWhile(n *ast.While, env *Environment) (Value, Signal) {
	var result Value = NullValue
	for {
		if n.Leading != nil {
			c, sig := ev.Eval(n.Leading, env)
			if sig.propagates() {
				return c, sig
			}
			if !Truthy(c) {
				break
			}
		}
		child := NewEnvironment(env)
		v, sig := ev.evalStatements(n.Body.Statements, child)
		switch sig.Kind {
		case SigBreak:
			return result, none()
		case SigYield:
			result = v
		case SigNone:
		default:
			return v, sig
		}
		if n.Trailing != nil {
			c, sig := ev.Eval(n.Trailing, env)
			if sig.propagates() {
				return c, sig
			}
			if !Truthy(c) {
				break
			}
		}
		if n.Leading == nil && n.Trailing == nil {
			break
		}
	}
	return result, none()
}

// evalSwitch walks Cases in order for the first match (or the default
// arm); there is no fallthrough, and a Break inside a case body simply
// exits the switch.
func (ev *Evaluator) evalSwitch(n *ast.Switch, env *Environment) (Value, Signal) {
	tag, sig := ev.Eval(n.Tag, env)
	if sig.propagates() {
		return tag, sig
	}
	var defaultCase *ast.Case
	for _, c := range n.Cases {
		if c.Cond == nil {
			defaultCase = c
			continue
		}
		cv, sig := ev.Eval(c.Cond, env)
		if sig.propagates() {
			return cv, sig
		}
		if valuesEqual(tag, cv) {
			return ev.runSwitchCase(c, env)
		}
	}
	if defaultCase != nil {
		return ev.runSwitchCase(defaultCase, env)
	}
	return NullValue, none()
}

func (ev *Evaluator) runSwitchCase(c *ast.Case, env *Environment) (Value, Signal) {
	child := NewEnvironment(env)
	v, sig := ev.evalStatements(c.Body.Statements, child)
	if sig.Kind == SigBreak {
		return v, none()
	}
	return v, sig
}
