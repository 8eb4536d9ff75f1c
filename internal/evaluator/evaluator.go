package evaluator

import (
	"bufio"
	"io"

	"github.com/vesperlang/vesper/internal/ast"
	"github.com/vesperlang/vesper/internal/diagnostics"
)

// ModuleLoader resolves an import's dotted path to a Module value. The
// evaluator depends on this interface rather than on internal/modules
// directly, since the loader needs to evaluate programs itself and a
// direct import would cycle back here.
type ModuleLoader interface {
	Load(path string) (*Module, *diagnostics.Diagnostic)
}

// Evaluator holds the state shared across a single run: the module
// loader hook and the output/input streams used by the I/O builtins.
// It carries no value-lifetime bookkeeping of
// its own — that is the host garbage collector's job (DESIGN.md, Open
// Question (a)).
type Evaluator struct {
	Loader ModuleLoader
	Out    io.Writer
	In     *bufio.Reader
}

func New(out io.Writer, in io.Reader) *Evaluator {
	return &Evaluator{Out: out, In: bufio.NewReader(in)}
}

// Eval is the recursive tree-walk: eval(node, env) -> (value, signal).
// Every branch either produces a value with a SigNone signal, or
// propagates a control-flow signal unchanged from whichever subtree
// raised it.
func (ev *Evaluator) Eval(node ast.Node, env *Environment) (Value, Signal) {
	switch n := node.(type) {

	case *ast.Program:
		return ev.evalStatements(n.Statements, env)
	case *ast.Block:
		return ev.evalStatements(n.Statements, env)
	case *ast.ExpressionStatement:
		return ev.Eval(n.Expression, env)

	case *ast.IntLit:
		return &Int{Value: n.Value}, none()
	case *ast.FloatLit:
		return &Float{Value: n.Value}, none()
	case *ast.StrLit:
		return &String{Value: n.Value}, none()
	case *ast.NullLit:
		return NullValue, none()
	case *ast.Ident:
		return ev.evalIdent(n, env)

	case *ast.Scope:
		return ev.evalScope(n, env)

	case *ast.BinOp:
		return ev.evalBinOp(n, env)
	case *ast.UnOp:
		return ev.evalUnOp(n, env)
	case *ast.Copy:
		return ev.evalCopy(n, env)
	case *ast.Move:
		return ev.evalMove(n, env)

	case *ast.Tuple:
		return ev.evalTuple(n, env)
	case *ast.Optional:
		return ev.evalOptionalExpr(n, env)
	case *ast.Assign:
		return ev.evalAssign(n, env)

	case *ast.Member:
		return ev.evalMember(n, env)
	case *ast.Index:
		return ev.evalIndex(n, env)
	case *ast.Call:
		return ev.evalCall(n, env)
	case *ast.TemplateInst:
		// Templates are parsed and stored, never monomorphized (§9);
		// evaluating an instantiation just evaluates its base.
		return ev.Eval(n.Base, env)

	case *ast.For:
		return ev.evalFor(n, env)
	case *ast.While:
		return ev.evalWhile(n, env)
	case *ast.Switch:
		return ev.evalSwitch(n, env)

	case *ast.Break:
		return NullValue, Signal{Kind: SigBreak}
	case *ast.Yield:
		return ev.evalYield(n, env)
	case *ast.Return:
		return ev.evalReturn(n, env)

	case *ast.FnDecl:
		return ev.evalFnDecl(n, env)
	case *ast.VarDecl:
		return ev.evalVarDecl(n, env)
	case *ast.PatDecl:
		return ev.evalPatDecl(n, env)
	case *ast.ImportDecl:
		return ev.evalImportDecl(n, env)

	default:
		return NullValue, errSignal(diagnostics.AtLineCol(0, 0, "unhandled AST kind %T", node))
	}
}

// evalStatements implements the shared Scope/Program/Block rule:
// evaluate children in order, returning the last child's value;
// abort and propagate on the first non-None signal. A bare `return`
// propagates with the last value evaluated before it.
func (ev *Evaluator) evalStatements(stmts []ast.Statement, env *Environment) (Value, Signal) {
	var last Value = NullValue
	for _, stmt := range stmts {
		v, sig := ev.Eval(stmt, env)
		if sig.propagates() {
			if sig.Kind == SigReturn && sig.Bare {
				return last, sig
			}
			return v, sig
		}
		last = v
	}
	return last, none()
}

func (ev *Evaluator) evalScope(n *ast.Scope, env *Environment) (Value, Signal) {
	child := NewEnvironment(env)
	return ev.evalStatements(n.Body.Statements, child)
}

func (ev *Evaluator) evalIdent(n *ast.Ident, env *Environment) (Value, Signal) {
	v, ok := env.Get(n.Value)
	if !ok {
		return NullValue, errSignal(diagnostics.New(n.Token, "undefined variable '%s'", n.Value))
	}
	return v, none()
}

func (ev *Evaluator) evalYield(n *ast.Yield, env *Environment) (Value, Signal) {
	if n.Value == nil {
		return NullValue, Signal{Kind: SigYield}
	}
	v, sig := ev.Eval(n.Value, env)
	if sig.propagates() {
		return v, sig
	}
	return v, Signal{Kind: SigYield}
}

func (ev *Evaluator) evalReturn(n *ast.Return, env *Environment) (Value, Signal) {
	if n.Value == nil {
		return NullValue, Signal{Kind: SigReturn, Bare: true}
	}
	v, sig := ev.Eval(n.Value, env)
	if sig.propagates() {
		return v, sig
	}
	return v, Signal{Kind: SigReturn}
}

func (ev *Evaluator) evalVarDecl(n *ast.VarDecl, env *Environment) (Value, Signal) {
	var v Value = NullValue
	if n.Init != nil {
		var sig Signal
		v, sig = ev.Eval(n.Init, env)
		if sig.propagates() {
			return v, sig
		}
	}
	env.Def(n.Name, v)
	return v, none()
}

func (ev *Evaluator) evalFnDecl(n *ast.FnDecl, env *Environment) (Value, Signal) {
	fn := &Function{Decl: n, Closure: env, Name: n.DisplayName()}
	name := n.Name
	if name == "" {
		name = n.CustomOp
	}
	if name != "" {
		env.Def(name, fn)
	}
	return fn, none()
}
