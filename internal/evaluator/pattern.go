package evaluator

import (
	"github.com/vesperlang/vesper/internal/ast"
	"github.com/vesperlang/vesper/internal/diagnostics"
)

// evalPatDecl builds a PatDef from the pattern body: VarDecl children
// become ordered fields, FnDecl children become methods bound in a
// shared method environment, and any base patterns' fields/methods are
// folded in first. A derived pattern's own methods shadow same-named
// base methods; its own fields are appended after the base fields, and
// a repeated field name gets a second slot that lookups by name never
// reach (they find the base's slot first).
// The declaration binds a Module value in env so the pattern can be
// referenced both as a constructor (calling it builds an instance) and
// as a namespace (accessing its static members).
func (ev *Evaluator) evalPatDecl(n *ast.PatDecl, env *Environment) (Value, Signal) {
	def := &PatDef{Name: n.Name}
	def.Methods = NewEnvironment(env)

	for _, baseIdent := range n.Bases {
		baseVal, ok := env.Get(baseIdent.Value)
		if !ok {
			continue
		}
		baseMod, ok := baseVal.(*Module)
		if !ok || baseMod.Def == nil {
			continue
		}
		def.FieldNames = append(def.FieldNames, baseMod.Def.FieldNames...)
		for name, m := range baseMod.Def.Methods.vars {
			def.Methods.Def(name, m)
		}
	}

	for _, stmt := range n.Body.Statements {
		switch s := stmt.(type) {
		case *ast.VarDecl:
			def.FieldNames = append(def.FieldNames, s.Name)
		case *ast.FnDecl:
			fn := &Function{Decl: s, Closure: def.Methods, Name: s.DisplayName()}
			def.Methods.Def(s.Name, fn)
		}
	}

	mod := &Module{Name: n.Name, Env: def.Methods, Def: def}
	env.Def(n.Name, mod)
	return mod, none()
}

// instantiatePattern builds a PatternInstance, assigning constructor
// arguments to fields positionally (named args override by name), and
// defaulting any unfilled field to null.
func instantiatePattern(def *PatDef, args []Value, argNames []string) Value {
	fields := make([]Value, def.FieldCount())
	for i := range fields {
		fields[i] = NullValue
	}
	for i, name := range def.FieldNames {
		if named := findNamedArg(argNames, name, args); named != nil {
			fields[i] = named
		} else if i < len(args) {
			fields[i] = args[i]
		}
	}
	return &PatternInstance{Def: def, Fields: fields}
}

func (ev *Evaluator) evalImportDecl(n *ast.ImportDecl, env *Environment) (Value, Signal) {
	if ev.Loader == nil {
		return NullValue, errSignal(diagnostics.New(n.Token, "import of '%s' failed: no module loader configured", n.Path))
	}
	mod, diag := ev.Loader.Load(n.Path)
	if diag != nil {
		d := *diag
		if d.Line == 0 && d.Column == 0 {
			d.Line, d.Column = n.Token.Line, n.Token.Column
		}
		return NullValue, errSignal(d)
	}
	if len(n.Items) == 0 {
		name := n.Alias
		if name == "" {
			name = n.Path
		}
		env.Def(name, mod)
		return mod, none()
	}
	for _, item := range n.Items {
		v, ok := mod.Env.Get(item.Name)
		if !ok {
			v = NullValue
		}
		name := item.Alias
		if name == "" {
			name = item.Name
		}
		env.Def(name, v)
	}
	return mod, none()
}
