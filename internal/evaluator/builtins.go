package evaluator

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/vesperlang/vesper/internal/diagnostics"
)

// RegisterBuiltins binds the fixed core builtin set (§4.8) into env.
// Domain additions (yaml_encode/yaml_decode/uuid4/is_tty) are
// registered separately by RegisterDomainBuiltins so the two lists
// stay easy to tell apart in DESIGN.md's ledger.
func RegisterBuiltins(env *Environment) {
	def := func(name string, fn func(ev *Evaluator, args []Value) (Value, *diagnostics.Diagnostic)) {
		env.Def(name, &BuiltinFn{Name: name, Fn: fn})
	}

	def("print", builtinPrint(false))
	def("println", builtinPrint(true))
	def("input", builtinInput)

	def("int", builtinInt)
	def("float", builtinFloat)
	def("string", builtinString)
	def("bool", builtinBool)

	def("is_null", kindCheck(NullKind))
	def("is_int", kindCheck(IntKind))
	def("is_float", kindCheck(FloatKind))
	def("is_string", kindCheck(StringKind))

	def("type_of", builtinTypeOf)
	def("type", builtinType)

	def("abs", builtinAbs)
	def("sqrt", mathUnary(math.Sqrt))
	def("pow", builtinPow)
	def("floor", mathUnary(math.Floor))
	def("ceil", mathUnary(math.Ceil))
	def("min", builtinMin)
	def("max", builtinMax)

	def("len", builtinLen)
	def("substr", builtinSubstr)
	def("concat", builtinConcat)

	def("assert", builtinAssert)
}

func argErr(name string, want int, got int) *diagnostics.Diagnostic {
	d := diagnostics.AtLineCol(0, 0, "%s expects %d argument(s), got %d", name, want, got)
	return &d
}

func builtinPrint(newline bool) func(*Evaluator, []Value) (Value, *diagnostics.Diagnostic) {
	return func(ev *Evaluator, args []Value) (Value, *diagnostics.Diagnostic) {
		parts := make([]string, len(args))
		for i, a := range args {
			parts[i] = a.Inspect()
		}
		out := strings.Join(parts, " ")
		if newline {
			fmt.Fprintln(ev.Out, out)
		} else {
			fmt.Fprint(ev.Out, out)
		}
		return NullValue, nil
	}
}

func builtinInput(ev *Evaluator, args []Value) (Value, *diagnostics.Diagnostic) {
	if len(args) > 0 {
		fmt.Fprint(ev.Out, args[0].Inspect())
	}
	line, err := ev.In.ReadString('\n')
	line = strings.TrimRight(line, "\r\n")
	if err != nil && line == "" {
		return NullValue, nil
	}
	return &String{Value: line}, nil
}

func builtinInt(ev *Evaluator, args []Value) (Value, *diagnostics.Diagnostic) {
	if len(args) != 1 {
		return nil, argErr("int", 1, len(args))
	}
	switch v := args[0].(type) {
	case *Int:
		return v, nil
	case *Float:
		return &Int{Value: int64(v.Value)}, nil
	case *Bool:
		if v.Value {
			return &Int{Value: 1}, nil
		}
		return &Int{Value: 0}, nil
	case *String:
		n, err := strconv.ParseInt(strings.TrimSpace(v.Value), 10, 64)
		if err != nil {
			d := diagnostics.AtLineCol(0, 0, "cannot convert '%s' to int", v.Value)
			return nil, &d
		}
		return &Int{Value: n}, nil
	}
	d := diagnostics.AtLineCol(0, 0, "cannot convert %s to int", args[0].Kind())
	return nil, &d
}

func builtinFloat(ev *Evaluator, args []Value) (Value, *diagnostics.Diagnostic) {
	if len(args) != 1 {
		return nil, argErr("float", 1, len(args))
	}
	switch v := args[0].(type) {
	case *Float:
		return v, nil
	case *Int:
		return &Float{Value: float64(v.Value)}, nil
	case *String:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.Value), 64)
		if err != nil {
			d := diagnostics.AtLineCol(0, 0, "cannot convert '%s' to float", v.Value)
			return nil, &d
		}
		return &Float{Value: f}, nil
	}
	d := diagnostics.AtLineCol(0, 0, "cannot convert %s to float", args[0].Kind())
	return nil, &d
}

func builtinString(ev *Evaluator, args []Value) (Value, *diagnostics.Diagnostic) {
	if len(args) != 1 {
		return nil, argErr("string", 1, len(args))
	}
	return &String{Value: args[0].Inspect()}, nil
}

func builtinBool(ev *Evaluator, args []Value) (Value, *diagnostics.Diagnostic) {
	if len(args) != 1 {
		return nil, argErr("bool", 1, len(args))
	}
	return &Bool{Value: Truthy(args[0])}, nil
}

func kindCheck(k Kind) func(*Evaluator, []Value) (Value, *diagnostics.Diagnostic) {
	return func(ev *Evaluator, args []Value) (Value, *diagnostics.Diagnostic) {
		if len(args) != 1 {
			return nil, argErr("type check", 1, len(args))
		}
		return &Bool{Value: args[0].Kind() == k}, nil
	}
}

func builtinTypeOf(ev *Evaluator, args []Value) (Value, *diagnostics.Diagnostic) {
	if len(args) != 1 {
		return nil, argErr("type_of", 1, len(args))
	}
	return &String{Value: string(args[0].Kind())}, nil
}

func builtinType(ev *Evaluator, args []Value) (Value, *diagnostics.Diagnostic) {
	if len(args) != 1 {
		return nil, argErr("type", 1, len(args))
	}
	if inst, ok := args[0].(*PatternInstance); ok {
		return &Type{Name: inst.Def.Name, IsPat: true, Fields: inst.Def.FieldNames, Def: inst.Def}, nil
	}
	return &Type{Name: string(args[0].Kind())}, nil
}

func builtinAbs(ev *Evaluator, args []Value) (Value, *diagnostics.Diagnostic) {
	if len(args) != 1 {
		return nil, argErr("abs", 1, len(args))
	}
	switch v := args[0].(type) {
	case *Int:
		if v.Value < 0 {
			return &Int{Value: -v.Value}, nil
		}
		return v, nil
	case *Float:
		return &Float{Value: math.Abs(v.Value)}, nil
	}
	d := diagnostics.AtLineCol(0, 0, "abs expects a number, got %s", args[0].Kind())
	return nil, &d
}

func mathUnary(fn func(float64) float64) func(*Evaluator, []Value) (Value, *diagnostics.Diagnostic) {
	return func(ev *Evaluator, args []Value) (Value, *diagnostics.Diagnostic) {
		if len(args) != 1 {
			return nil, argErr("math function", 1, len(args))
		}
		f, _, ok := numeric(args[0])
		if !ok {
			d := diagnostics.AtLineCol(0, 0, "expected a number, got %s", args[0].Kind())
			return nil, &d
		}
		return &Float{Value: fn(f)}, nil
	}
}

func builtinPow(ev *Evaluator, args []Value) (Value, *diagnostics.Diagnostic) {
	if len(args) != 2 {
		return nil, argErr("pow", 2, len(args))
	}
	base, _, okB := numeric(args[0])
	exp, _, okE := numeric(args[1])
	if !okB || !okE {
		d := diagnostics.AtLineCol(0, 0, "pow expects two numbers")
		return nil, &d
	}
	return &Float{Value: math.Pow(base, exp)}, nil
}

func builtinMin(ev *Evaluator, args []Value) (Value, *diagnostics.Diagnostic) {
	return minMax(args, false)
}

func builtinMax(ev *Evaluator, args []Value) (Value, *diagnostics.Diagnostic) {
	return minMax(args, true)
}

func minMax(args []Value, wantMax bool) (Value, *diagnostics.Diagnostic) {
	if len(args) == 0 {
		d := diagnostics.AtLineCol(0, 0, "min/max expects at least one argument")
		return nil, &d
	}
	best := args[0]
	bestF, _, ok := numeric(best)
	if !ok {
		d := diagnostics.AtLineCol(0, 0, "min/max expects numbers, got %s", best.Kind())
		return nil, &d
	}
	for _, a := range args[1:] {
		f, _, ok := numeric(a)
		if !ok {
			d := diagnostics.AtLineCol(0, 0, "min/max expects numbers, got %s", a.Kind())
			return nil, &d
		}
		if (wantMax && f > bestF) || (!wantMax && f < bestF) {
			best, bestF = a, f
		}
	}
	return best, nil
}

func builtinLen(ev *Evaluator, args []Value) (Value, *diagnostics.Diagnostic) {
	if len(args) != 1 {
		return nil, argErr("len", 1, len(args))
	}
	switch v := args[0].(type) {
	case *String:
		return &Int{Value: int64(len([]rune(v.Value)))}, nil
	case *Tuple:
		return &Int{Value: int64(len(v.Elements))}, nil
	}
	d := diagnostics.AtLineCol(0, 0, "len expects a string or tuple, got %s", args[0].Kind())
	return nil, &d
}

// builtinSubstr implements substr(s, start, len): negative start clamps to
// 0, start past the end yields "", negative len clamps to 0, and
// start+len past the end truncates to the string's length.
func builtinSubstr(ev *Evaluator, args []Value) (Value, *diagnostics.Diagnostic) {
	if len(args) != 3 {
		return nil, argErr("substr", 3, len(args))
	}
	s, ok := args[0].(*String)
	start, okS := args[1].(*Int)
	length, okL := args[2].(*Int)
	if !ok || !okS || !okL {
		d := diagnostics.AtLineCol(0, 0, "substr expects (string, int, int)")
		return nil, &d
	}
	runes := []rune(s.Value)
	n := int64(len(runes))

	lo := start.Value
	if lo < 0 {
		lo = 0
	}
	if lo > n {
		lo = n
	}

	ln := length.Value
	if ln < 0 {
		ln = 0
	}

	hi := lo + ln
	if hi > n {
		hi = n
	}

	return &String{Value: string(runes[lo:hi])}, nil
}

func builtinConcat(ev *Evaluator, args []Value) (Value, *diagnostics.Diagnostic) {
	var b strings.Builder
	for _, a := range args {
		s, ok := a.(*String)
		if !ok {
			d := diagnostics.AtLineCol(0, 0, "concat expects string arguments, got %s", a.Kind())
			return nil, &d
		}
		b.WriteString(s.Value)
	}
	return &String{Value: b.String()}, nil
}

func builtinAssert(ev *Evaluator, args []Value) (Value, *diagnostics.Diagnostic) {
	if len(args) == 0 {
		d := diagnostics.AtLineCol(0, 0, "assert expects at least one argument")
		return nil, &d
	}
	if !Truthy(args[0]) {
		msg := "assertion failed"
		if len(args) > 1 {
			if s, ok := args[1].(*String); ok {
				msg = s.Value
			}
		}
		d := diagnostics.AtLineCol(0, 0, "%s", msg)
		return nil, &d
	}
	return NullValue, nil
}
