package evaluator

import (
	"github.com/vesperlang/vesper/internal/ast"
	"github.com/vesperlang/vesper/internal/diagnostics"
)

func (ev *Evaluator) evalUnOp(n *ast.UnOp, env *Environment) (Value, Signal) {
	v, sig := ev.Eval(n.Right, env)
	if sig.propagates() {
		return v, sig
	}
	switch n.Op {
	case "-":
		switch val := v.(type) {
		case *Int:
			return &Int{Value: -val.Value}, none()
		case *Float:
			return &Float{Value: -val.Value}, none()
		}
	case "!":
		return &Bool{Value: !Truthy(v)}, none()
	case "~":
		if i, ok := v.(*Int); ok {
			return &Int{Value: ^i.Value}, none()
		}
	}
	return NullValue, errSignal(diagnostics.New(n.Token, "unsupported unary operation '%s' on %s", n.Op, v.Kind()))
}

// evalCopy produces an independent value: primitives are already
// immutable Go values so returning them is a copy in effect; patterns
// and tuples get a shallow field-by-field duplicate.
func (ev *Evaluator) evalCopy(n *ast.Copy, env *Environment) (Value, Signal) {
	v, sig := ev.Eval(n.Right, env)
	if sig.propagates() {
		return v, sig
	}
	return cloneValue(v), none()
}

// evalMove is semantically identical to a copy in this implementation:
// the host garbage collector, not an ownership/refcount scheme, owns
// value lifetime (see DESIGN.md, Open Question (a)), so there is no
// source to null out. `move` is accepted and evaluated like `copy`
// rather than rejected, keeping programs that use it runnable.
func (ev *Evaluator) evalMove(n *ast.Move, env *Environment) (Value, Signal) {
	v, sig := ev.Eval(n.Right, env)
	if sig.propagates() {
		return v, sig
	}
	return cloneValue(v), none()
}

func cloneValue(v Value) Value {
	switch val := v.(type) {
	case *Tuple:
		elems := make([]Value, len(val.Elements))
		copy(elems, val.Elements)
		var names []string
		if val.Names != nil {
			names = make([]string, len(val.Names))
			copy(names, val.Names)
		}
		return &Tuple{Elements: elems, Names: names}
	case *PatternInstance:
		fields := make([]Value, len(val.Fields))
		copy(fields, val.Fields)
		return &PatternInstance{Def: val.Def, Fields: fields}
	default:
		return v
	}
}

func (ev *Evaluator) evalBinOp(n *ast.BinOp, env *Environment) (Value, Signal) {
	if n.Op == "&&" {
		l, sig := ev.Eval(n.Left, env)
		if sig.propagates() {
			return l, sig
		}
		if !Truthy(l) {
			return &Bool{Value: false}, none()
		}
		r, sig := ev.Eval(n.Right, env)
		if sig.propagates() {
			return r, sig
		}
		return &Bool{Value: Truthy(r)}, none()
	}
	if n.Op == "||" {
		l, sig := ev.Eval(n.Left, env)
		if sig.propagates() {
			return l, sig
		}
		if Truthy(l) {
			return &Bool{Value: true}, none()
		}
		r, sig := ev.Eval(n.Right, env)
		if sig.propagates() {
			return r, sig
		}
		return &Bool{Value: Truthy(r)}, none()
	}

	l, sig := ev.Eval(n.Left, env)
	if sig.propagates() {
		return l, sig
	}
	r, sig := ev.Eval(n.Right, env)
	if sig.propagates() {
		return r, sig
	}
	return applyBinOp(n, l, r)
}

func applyBinOp(n *ast.BinOp, l, r Value) (Value, Signal) {
	switch n.Op {
	case "==":
		return &Bool{Value: valuesEqual(l, r)}, none()
	case "!=":
		return &Bool{Value: !valuesEqual(l, r)}, none()
	}

	if ls, ok := l.(*String); ok {
		if rs, ok := r.(*String); ok && n.Op == "+" {
			return &String{Value: ls.Value + rs.Value}, none()
		}
	}

	lf, lIsFloat, lOK := numeric(l)
	rf, rIsFloat, rOK := numeric(r)
	if lOK && rOK {
		if lIsFloat || rIsFloat {
			res, ok := floatOp(n.Op, lf, rf)
			if ok {
				return res, none()
			}
		} else {
			li := l.(*Int).Value
			ri := r.(*Int).Value
			res, ok := intOp(n.Op, li, ri)
			if ok {
				return res, none()
			}
		}
	}

	return NullValue, errSignal(diagnostics.New(n.Token, "unsupported binary operation '%s' between %s and %s", n.Op, l.Kind(), r.Kind()))
}

func numeric(v Value) (f float64, isFloat, ok bool) {
	switch val := v.(type) {
	case *Int:
		return float64(val.Value), false, true
	case *Float:
		return val.Value, true, true
	}
	return 0, false, false
}

func floatOp(op string, l, r float64) (Value, bool) {
	switch op {
	case "+":
		return &Float{Value: l + r}, true
	case "-":
		return &Float{Value: l - r}, true
	case "*":
		return &Float{Value: l * r}, true
	case "/":
		return &Float{Value: l / r}, true
	case "<":
		return &Bool{Value: l < r}, true
	case "<=":
		return &Bool{Value: l <= r}, true
	case ">":
		return &Bool{Value: l > r}, true
	case ">=":
		return &Bool{Value: l >= r}, true
	}
	return nil, false
}

func intOp(op string, l, r int64) (Value, bool) {
	switch op {
	case "+":
		return &Int{Value: l + r}, true
	case "-":
		return &Int{Value: l - r}, true
	case "*":
		return &Int{Value: l * r}, true
	case "/":
		if r == 0 {
			return nil, false
		}
		return &Int{Value: l / r}, true
	case "%":
		if r == 0 {
			return nil, false
		}
		return &Int{Value: l % r}, true
	case "<":
		return &Bool{Value: l < r}, true
	case "<=":
		return &Bool{Value: l <= r}, true
	case ">":
		return &Bool{Value: l > r}, true
	case ">=":
		return &Bool{Value: l >= r}, true
	case "&":
		return &Int{Value: l & r}, true
	case "|":
		return &Int{Value: l | r}, true
	case "^":
		return &Int{Value: l ^ r}, true
	case "<<":
		return &Int{Value: l << uint(r)}, true
	case ">>":
		return &Int{Value: l >> uint(r)}, true
	}
	return nil, false
}

// valuesEqual implements ==/!= across kinds: null equals only null,
// int/float compare numerically across kind, everything else compares
// within its own kind.
func valuesEqual(l, r Value) bool {
	_, lNull := l.(*Null)
	_, rNull := r.(*Null)
	if lNull || rNull {
		return lNull && rNull
	}
	lf, lIsFloat, lOK := numeric(l)
	rf, rIsFloat, rOK := numeric(r)
	if lOK && rOK {
		if !lIsFloat && !rIsFloat {
			return l.(*Int).Value == r.(*Int).Value
		}
		return lf == rf
	}
	switch lv := l.(type) {
	case *Bool:
		if rv, ok := r.(*Bool); ok {
			return lv.Value == rv.Value
		}
	case *String:
		if rv, ok := r.(*String); ok {
			return lv.Value == rv.Value
		}
	case *Tuple:
		if rv, ok := r.(*Tuple); ok {
			if len(lv.Elements) != len(rv.Elements) {
				return false
			}
			for i := range lv.Elements {
				if !valuesEqual(lv.Elements[i], rv.Elements[i]) {
					return false
				}
			}
			return true
		}
	case *PatternInstance:
		if rv, ok := r.(*PatternInstance); ok {
			return lv == rv
		}
	}
	return false
}
