// Package evaluator implements the tree-walking evaluator: the value
// system, the environment chain, and the recursive eval function.
package evaluator

import "fmt"

// Kind identifies a Value's tag. Mirrors the core spec's tagged
// variant (§3): Null, Int, Float, Bool, String, Tuple, Function,
// BuiltinFn, PatternInstance, Scope, Module, Type, Optional.
type Kind string

const (
	NullKind        Kind = "null"
	IntKind         Kind = "int"
	FloatKind       Kind = "float"
	BoolKind        Kind = "bool"
	StringKind      Kind = "string"
	TupleKind       Kind = "tuple"
	FunctionKind    Kind = "function"
	BuiltinKind     Kind = "builtin"
	PatternKind     Kind = "pattern_instance"
	ScopeKind       Kind = "scope"
	ModuleKind      Kind = "module"
	TypeKind        Kind = "type"
	OptionalKind    Kind = "optional"
)

// Value is any runtime value produced by the evaluator.
type Value interface {
	Kind() Kind
	Inspect() string
}

// Null is the single absent-value kind. Use the shared NullValue
// instance rather than constructing a new one.
type Null struct{}

func (*Null) Kind() Kind      { return NullKind }
func (*Null) Inspect() string { return "null" }

// NullValue is the shared Null instance every evaluator path returns.
var NullValue = &Null{}

// Int is a 64-bit signed integer value.
type Int struct{ Value int64 }

func (i *Int) Kind() Kind      { return IntKind }
func (i *Int) Inspect() string { return fmt.Sprintf("%d", i.Value) }

// Float is a 64-bit IEEE float value.
type Float struct{ Value float64 }

func (f *Float) Kind() Kind      { return FloatKind }
func (f *Float) Inspect() string { return fmt.Sprintf("%g", f.Value) }

// Bool is a boolean value. It never arises from a literal token (the
// language has none); only comparisons and conversions produce it.
type Bool struct{ Value bool }

func (b *Bool) Kind() Kind      { return BoolKind }
func (b *Bool) Inspect() string { return fmt.Sprintf("%t", b.Value) }

// String is an owned UTF-8 string value.
type String struct{ Value string }

func (s *String) Kind() Kind      { return StringKind }
func (s *String) Inspect() string { return s.Value }

// Tuple is an ordered sequence of values with an optional parallel
// array of element names (empty string marks an unnamed position).
type Tuple struct {
	Elements []Value
	Names    []string // nil, or exactly len(Elements) entries
}

func (t *Tuple) Kind() Kind { return TupleKind }

func (t *Tuple) Inspect() string {
	out := "("
	for i, el := range t.Elements {
		if i > 0 {
			out += ", "
		}
		if t.Names != nil && t.Names[i] != "" {
			out += t.Names[i] + ": "
		}
		out += el.Inspect()
	}
	out += ")"
	return out
}

// NameIndex returns the index of the named element name, or -1.
func (t *Tuple) NameIndex(name string) int {
	for i, n := range t.Names {
		if n == name {
			return i
		}
	}
	return -1
}

// Optional wraps a ternary-expression result: present is false only
// when the `:`-right branch was absent and the condition was falsy.
type Optional struct {
	Payload Value
	Present bool
}

func (o *Optional) Kind() Kind { return OptionalKind }

func (o *Optional) Inspect() string {
	if !o.Present {
		return "null"
	}
	return o.Payload.Inspect()
}

// Scope wraps an environment as a first-class value. Current
// evaluation rules never construct one directly (a `{...}` block
// evaluates to its last statement's value per §4.3), but the kind is
// kept for the tagged variant's completeness per the core spec's
// Value list and the GLOSSARY's own definition of Scope.
type Scope struct{ Env *Environment }

func (s *Scope) Kind() Kind      { return ScopeKind }
func (s *Scope) Inspect() string { return "scope" }

// Module wraps the top-level environment of a loaded file, or the
// method environment of a pattern, exposing its public names via
// member access. When Def is non-nil the module is a pattern
// constructor: calling it instantiates Def.
type Module struct {
	Name string
	Env  *Environment
	Def  *PatDef
}

func (m *Module) Kind() Kind      { return ModuleKind }
func (m *Module) Inspect() string { return "module " + m.Name }

// Type is the reified result of the `type(v)` builtin: a type name
// plus, for pattern instances, the field list.
type Type struct {
	Name   string
	IsPat  bool
	Fields []string
	Def    *PatDef
}

func (t *Type) Kind() Kind      { return TypeKind }
func (t *Type) Inspect() string { return "type " + t.Name }

// Truthy implements the language's single truthiness rule (§4.3,
// GLOSSARY): null, zero int, zero float, false, empty string are
// false; Optional is truthy iff present; everything else is true.
func Truthy(v Value) bool {
	switch val := v.(type) {
	case *Null:
		return false
	case *Int:
		return val.Value != 0
	case *Float:
		return val.Value != 0
	case *Bool:
		return val.Value
	case *String:
		return val.Value != ""
	case *Optional:
		return val.Present
	default:
		return true
	}
}
