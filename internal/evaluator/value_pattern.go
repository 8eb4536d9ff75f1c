package evaluator

import "strings"

// PatDef is the shared descriptor of a pattern (§3): name, ordered
// field-name list, and an optional method environment (methods close
// over the pattern's scope). Every instance of a pattern points at
// the same PatDef. There is no refcount field — lifetime is handled
// by the host garbage collector (see DESIGN.md, Open Question (a)).
type PatDef struct {
	Name       string
	FieldNames []string
	Methods    *Environment
}

func (p *PatDef) FieldCount() int { return len(p.FieldNames) }

func (p *PatDef) FieldIndex(name string) int {
	for i, n := range p.FieldNames {
		if n == name {
			return i
		}
	}
	return -1
}

// PatternInstance is a live instance of a pattern: a reference to its
// PatDef plus ordered field values. FieldCount always equals
// Def.FieldCount() (§3 invariant).
type PatternInstance struct {
	Def    *PatDef
	Fields []Value
}

func (p *PatternInstance) Kind() Kind { return PatternKind }

func (p *PatternInstance) Inspect() string {
	var b strings.Builder
	b.WriteString(p.Def.Name)
	b.WriteByte('(')
	for i, f := range p.Fields {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(f.Inspect())
	}
	b.WriteByte(')')
	return b.String()
}

// Field looks up a field by name via linear scan of the pattern's
// field-name list, per §4.3's member-assignment rule.
func (p *PatternInstance) Field(name string) (Value, bool) {
	idx := p.Def.FieldIndex(name)
	if idx < 0 {
		return nil, false
	}
	return p.Fields[idx], true
}

func (p *PatternInstance) SetField(name string, v Value) bool {
	idx := p.Def.FieldIndex(name)
	if idx < 0 {
		return false
	}
	p.Fields[idx] = v
	return true
}
