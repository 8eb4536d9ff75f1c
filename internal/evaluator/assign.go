package evaluator

import (
	"github.com/vesperlang/vesper/internal/ast"
	"github.com/vesperlang/vesper/internal/diagnostics"
)

func (ev *Evaluator) evalTuple(n *ast.Tuple, env *Environment) (Value, Signal) {
	elems := make([]Value, len(n.Elements))
	for i, e := range n.Elements {
		v, sig := ev.Eval(e, env)
		if sig.propagates() {
			return v, sig
		}
		elems[i] = v
	}
	var names []string
	for _, nm := range n.Names {
		if nm != "" {
			names = n.Names
			break
		}
	}
	return &Tuple{Elements: elems, Names: names}, none()
}

func (ev *Evaluator) evalOptionalExpr(n *ast.Optional, env *Environment) (Value, Signal) {
	cond, sig := ev.Eval(n.Cond, env)
	if sig.propagates() {
		return cond, sig
	}
	if Truthy(cond) {
		v, sig := ev.Eval(n.Then, env)
		if sig.propagates() {
			return v, sig
		}
		return &Optional{Payload: v, Present: true}, none()
	}
	if n.Else == nil {
		return &Optional{Present: false}, none()
	}
	v, sig := ev.Eval(n.Else, env)
	if sig.propagates() {
		return v, sig
	}
	return &Optional{Payload: v, Present: true}, none()
}

func (ev *Evaluator) evalAssign(n *ast.Assign, env *Environment) (Value, Signal) {
	v, sig := ev.Eval(n.Value, env)
	if sig.propagates() {
		return v, sig
	}
	switch target := n.Target.(type) {
	case *ast.Ident:
		env.Set(target.Value, v)
		return v, none()
	case *ast.Member:
		obj, sig := ev.Eval(target.Object, env)
		if sig.propagates() {
			return obj, sig
		}
		inst, ok := obj.(*PatternInstance)
		if !ok {
			return NullValue, errSignal(diagnostics.New(target.Token, "cannot assign field '%s' on non-pattern value", target.Name))
		}
		if !inst.SetField(target.Name, v) {
			return NullValue, errSignal(diagnostics.New(target.Token, "pattern '%s' has no field '%s'", inst.Def.Name, target.Name))
		}
		return v, none()
	case *ast.Index:
		left, sig := ev.Eval(target.Left, env)
		if sig.propagates() {
			return left, sig
		}
		idxV, sig := ev.Eval(target.Index, env)
		if sig.propagates() {
			return idxV, sig
		}
		tup, ok := left.(*Tuple)
		if !ok {
			return NullValue, errSignal(diagnostics.New(target.Token, "cannot index-assign a %s", left.Kind()))
		}
		i, ok := idxV.(*Int)
		if !ok {
			return NullValue, errSignal(diagnostics.New(target.Token, "tuple index out of range"))
		}
		idx := i.Value
		if idx < 0 {
			idx += int64(len(tup.Elements))
		}
		if idx < 0 || int(idx) >= len(tup.Elements) {
			return NullValue, errSignal(diagnostics.New(target.Token, "tuple index out of range"))
		}
		tup.Elements[idx] = v
		return v, none()
	default:
		return NullValue, errSignal(diagnostics.New(n.Token, "invalid assignment target"))
	}
}

func (ev *Evaluator) evalMember(n *ast.Member, env *Environment) (Value, Signal) {
	obj, sig := ev.Eval(n.Object, env)
	if sig.propagates() {
		return obj, sig
	}
	switch o := obj.(type) {
	case *PatternInstance:
		if v, ok := o.Field(n.Name); ok {
			return v, none()
		}
		if o.Def.Methods != nil {
			if m, ok := o.Def.Methods.Get(n.Name); ok {
				return bindMethod(m, o), none()
			}
		}
		return NullValue, errSignal(diagnostics.New(n.Token, "pattern '%s' has no field or method '%s'", o.Def.Name, n.Name))
	case *Module:
		if v, ok := o.Env.Get(n.Name); ok {
			return v, none()
		}
		return NullValue, errSignal(diagnostics.New(n.Token, "module '%s' has no member '%s'", o.Name, n.Name))
	case *Tuple:
		if idx := o.NameIndex(n.Name); idx >= 0 {
			return o.Elements[idx], none()
		}
		return NullValue, errSignal(diagnostics.New(n.Token, "tuple has no named element '%s'", n.Name))
	default:
		return NullValue, errSignal(diagnostics.New(n.Token, "cannot access member '%s' on %s", n.Name, obj.Kind()))
	}
}

// bindMethod returns a closure-equivalent Function whose environment
// has `self` bound to the receiving instance, mirroring how a method
// call would be written as a regular function taking self explicitly.
func bindMethod(m Value, self *PatternInstance) Value {
	fn, ok := m.(*Function)
	if !ok {
		return m
	}
	bound := NewEnvironment(fn.Closure)
	bound.Def("self", self)
	return &Function{Decl: fn.Decl, Closure: bound, Name: fn.Name}
}

func (ev *Evaluator) evalIndex(n *ast.Index, env *Environment) (Value, Signal) {
	left, sig := ev.Eval(n.Left, env)
	if sig.propagates() {
		return left, sig
	}
	idxV, sig := ev.Eval(n.Index, env)
	if sig.propagates() {
		return idxV, sig
	}
	switch l := left.(type) {
	case *Tuple:
		i, ok := idxV.(*Int)
		if !ok {
			return NullValue, errSignal(diagnostics.New(n.Token, "tuple index out of range"))
		}
		idx := i.Value
		if idx < 0 {
			idx += int64(len(l.Elements))
		}
		if idx < 0 || int(idx) >= len(l.Elements) {
			return NullValue, errSignal(diagnostics.New(n.Token, "tuple index out of range"))
		}
		return l.Elements[idx], none()
	case *String:
		i, ok := idxV.(*Int)
		if !ok {
			return NullValue, errSignal(diagnostics.New(n.Token, "string index out of range"))
		}
		runes := []rune(l.Value)
		idx := i.Value
		if idx < 0 {
			idx += int64(len(runes))
		}
		if idx < 0 || int(idx) >= len(runes) {
			return NullValue, errSignal(diagnostics.New(n.Token, "string index out of range"))
		}
		return &String{Value: string(runes[idx])}, none()
	default:
		return NullValue, errSignal(diagnostics.New(n.Token, "cannot index a %s", left.Kind()))
	}
}
