package parser

import (
	"testing"

	"github.com/vesperlang/vesper/internal/ast"
	"github.com/vesperlang/vesper/internal/lexer"
)

func parse(t *testing.T, src string) *ast.Program {
	t.Helper()
	l := lexer.New(src)
	p := New(l)
	prog := p.ParseProgram()
	if err := p.FirstError(); err != nil {
		t.Fatalf("unexpected parse error: %s", err.Error())
	}
	return prog
}

func soleExpr(t *testing.T, prog *ast.Program) ast.Expression {
	t.Helper()
	if len(prog.Statements) != 1 {
		t.Fatalf("want exactly one statement, got %d", len(prog.Statements))
	}
	es, ok := prog.Statements[0].(*ast.ExpressionStatement)
	if !ok {
		t.Fatalf("want an expression statement, got %T", prog.Statements[0])
	}
	return es.Expression
}

func TestPrecedenceGroupsMultiplicationTighterThanAddition(t *testing.T) {
	prog := parse(t, "1 + 2 * 3")
	bo, ok := soleExpr(t, prog).(*ast.BinOp)
	if !ok || bo.Op != "+" {
		t.Fatalf("want a top-level '+', got %#v", soleExpr(t, prog))
	}
	rhs, ok := bo.Right.(*ast.BinOp)
	if !ok || rhs.Op != "*" {
		t.Fatalf("want '*' nested on the right of '+', got %#v", bo.Right)
	}
}

func TestTernaryGroupsBelowComparison(t *testing.T) {
	prog := parse(t, "a < b ? c : d")
	opt, ok := soleExpr(t, prog).(*ast.Optional)
	if !ok {
		t.Fatalf("want an Optional (ternary) node, got %T", soleExpr(t, prog))
	}
	if _, ok := opt.Cond.(*ast.BinOp); !ok {
		t.Fatalf("want the condition to be the '<' comparison, got %#v", opt.Cond)
	}
	if opt.Else == nil {
		t.Fatal("want the ':' branch to be present")
	}
}

func TestTernaryWithoutElseBranch(t *testing.T) {
	prog := parse(t, "a ? b")
	opt, ok := soleExpr(t, prog).(*ast.Optional)
	if !ok {
		t.Fatalf("want an Optional node, got %T", soleExpr(t, prog))
	}
	if opt.Else != nil {
		t.Fatal("want no ':' branch")
	}
}

func TestParenthesizedSingleExpressionIsNotATuple(t *testing.T) {
	prog := parse(t, "(1 + 2)")
	if _, ok := soleExpr(t, prog).(*ast.Tuple); ok {
		t.Fatal("a single parenthesized expression must not become a Tuple")
	}
}

func TestCommaMakesAParenExpressionATuple(t *testing.T) {
	prog := parse(t, "(1, 2, 3)")
	tup, ok := soleExpr(t, prog).(*ast.Tuple)
	if !ok || len(tup.Elements) != 3 {
		t.Fatalf("want a 3-element tuple, got %#v", soleExpr(t, prog))
	}
}

func TestNamedFirstElementMakesASingleParenExpressionATuple(t *testing.T) {
	prog := parse(t, "(x: 1)")
	tup, ok := soleExpr(t, prog).(*ast.Tuple)
	if !ok || len(tup.Elements) != 1 || tup.Names[0] != "x" {
		t.Fatalf("want a single named-element tuple, got %#v", soleExpr(t, prog))
	}
}

func TestCallWithNamedArguments(t *testing.T) {
	prog := parse(t, "f(1, y: 2)")
	call, ok := soleExpr(t, prog).(*ast.Call)
	if !ok {
		t.Fatalf("want a Call, got %T", soleExpr(t, prog))
	}
	if len(call.Args) != 2 || call.ArgNames[0] != "" || call.ArgNames[1] != "y" {
		t.Fatalf("want positional arg then named arg 'y', got names=%v", call.ArgNames)
	}
}

func TestSpeculativeTemplateInstantiationCommitsOnValidSyntax(t *testing.T) {
	prog := parse(t, "make<Int>(1)")
	call, ok := soleExpr(t, prog).(*ast.Call)
	if !ok {
		t.Fatalf("want a Call wrapping the template instantiation, got %T", soleExpr(t, prog))
	}
	inst, ok := call.Callee.(*ast.TemplateInst)
	if !ok || len(inst.TypeArgs) != 1 || inst.TypeArgs[0].Name != "Int" {
		t.Fatalf("want a TemplateInst<Int> callee, got %#v", call.Callee)
	}
}

func TestLessThanIsNotMisparsedAsTemplateStart(t *testing.T) {
	// `a < b` must roll back the speculative template attempt and parse
	// as an ordinary comparison, since `b` is followed by end of input,
	// not `>`.
	prog := parse(t, "a < b")
	bo, ok := soleExpr(t, prog).(*ast.BinOp)
	if !ok || bo.Op != "<" {
		t.Fatalf("want a plain '<' comparison, got %#v", soleExpr(t, prog))
	}
}

func TestFunctionDeclarationWithReturnTuple(t *testing.T) {
	prog := parse(t, "fn divmod(a, b): (q: int, r: int) { q = a / b }")
	fn, ok := prog.Statements[0].(*ast.FnDecl)
	if !ok {
		t.Fatalf("want an FnDecl, got %T", prog.Statements[0])
	}
	if len(fn.Params) != 2 || len(fn.ReturnTuple) != 2 {
		t.Fatalf("want 2 params and a 2-member return tuple, got %#v", fn)
	}
	if fn.ReturnTuple[0].Name != "q" || fn.ReturnTuple[0].Type.Name != "int" {
		t.Fatalf("want return-tuple member 'q: int', got %#v", fn.ReturnTuple[0])
	}
}

func TestCustomOperatorFunctionDeclaration(t *testing.T) {
	prog := parse(t, `fn "+"(a, b) { a }`)
	fn, ok := prog.Statements[0].(*ast.FnDecl)
	if !ok || fn.CustomOp != "+" || fn.Name != "" {
		t.Fatalf("want a custom-operator FnDecl named '+', got %#v", prog.Statements[0])
	}
}

func TestPatternDeclarationWithBases(t *testing.T) {
	prog := parse(t, "pat Derived : Base1 | Base2 { var x }")
	pd, ok := prog.Statements[0].(*ast.PatDecl)
	if !ok {
		t.Fatalf("want a PatDecl, got %T", prog.Statements[0])
	}
	if len(pd.Bases) != 2 || pd.Bases[0].Value != "Base1" || pd.Bases[1].Value != "Base2" {
		t.Fatalf("want two base identifiers, got %#v", pd.Bases)
	}
}

func TestImportWithAliasAndSelectedItems(t *testing.T) {
	prog := parse(t, "import a.b.c as abc of { x, y as z }")
	imp, ok := prog.Statements[0].(*ast.ImportDecl)
	if !ok {
		t.Fatalf("want an ImportDecl, got %T", prog.Statements[0])
	}
	if imp.Path != "a.b.c" || imp.Alias != "abc" {
		t.Fatalf("want path a.b.c aliased abc, got %#v", imp)
	}
	if len(imp.Items) != 2 || imp.Items[0].Name != "x" || imp.Items[1].Alias != "z" {
		t.Fatalf("want items [x, y as z], got %#v", imp.Items)
	}
}

func TestNewlineInsideParensDoesNotTerminateTheStatement(t *testing.T) {
	prog := parse(t, "var x = (\n1 +\n2\n)")
	if len(prog.Statements) != 1 {
		t.Fatalf("want the whole thing to parse as a single var declaration, got %d statements", len(prog.Statements))
	}
}

func TestFirstErrorWinsAndParsingContinues(t *testing.T) {
	l := lexer.New("var = 1\nvar = 2")
	p := New(l)
	p.ParseProgram()
	if p.FirstError() == nil {
		t.Fatal("want at least one recorded error")
	}
	if len(p.Errors()) < 2 {
		t.Fatalf("want parsing to continue past the first error and record a second, got %d", len(p.Errors()))
	}
	if *p.FirstError() != p.Errors()[0] {
		t.Fatal("want FirstError to stay pinned to the first recorded diagnostic")
	}
}
