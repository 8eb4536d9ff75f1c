package evaluator

import (
	"fmt"

	"github.com/vesperlang/vesper/internal/ast"
	"github.com/vesperlang/vesper/internal/diagnostics"
)

// Function is a user-declared `fn`: an AST pointer plus the
// environment it closed over, per §3 (Value.Function).
type Function struct {
	Decl    *ast.FnDecl
	Closure *Environment
	Name    string
}

func (f *Function) Kind() Kind      { return FunctionKind }
func (f *Function) Inspect() string { return fmt.Sprintf("fn %s", f.Name) }

// BuiltinFn is a native callable registered into the global
// environment by the builtin registry (§4.8). It returns either a
// Value or a diagnostic, never both.
type BuiltinFn struct {
	Name string
	Fn   func(ev *Evaluator, args []Value) (Value, *diagnostics.Diagnostic)
}

func (b *BuiltinFn) Kind() Kind      { return BuiltinKind }
func (b *BuiltinFn) Inspect() string { return fmt.Sprintf("builtin %s", b.Name) }
