package evaluator

import (
	"strings"
	"testing"

	"github.com/vesperlang/vesper/internal/lexer"
	"github.com/vesperlang/vesper/internal/parser"
)

// run lexes, parses, and evaluates src against a fresh global
// environment with the core builtins registered, returning the
// program's final value, signal, and whatever `print`/`println` wrote.
func run(t *testing.T, src string) (Value, Signal, string) {
	t.Helper()
	l := lexer.New(src)
	p := parser.New(l)
	prog := p.ParseProgram()
	if err := p.FirstError(); err != nil {
		t.Fatalf("parse error: %s", err.Error())
	}

	var out strings.Builder
	ev := New(&out, strings.NewReader(""))
	env := NewEnvironment(nil)
	RegisterBuiltins(env)
	RegisterDomainBuiltins(env)

	v, sig := ev.Eval(prog, env)
	return v, sig, out.String()
}

func requireNoError(t *testing.T, sig Signal) {
	t.Helper()
	if sig.Kind == SigError {
		t.Fatalf("unexpected evaluation error: %s", sig.Err.Error())
	}
}

func TestArithmeticPromotesToFloat(t *testing.T) {
	v, sig, _ := run(t, "1 + 2 * 3")
	requireNoError(t, sig)
	i, ok := v.(*Int)
	if !ok || i.Value != 7 {
		t.Fatalf("want int 7, got %#v", v)
	}

	v, sig, _ = run(t, "1 + 2.5")
	requireNoError(t, sig)
	f, ok := v.(*Float)
	if !ok || f.Value != 3.5 {
		t.Fatalf("want float 3.5, got %#v", v)
	}
}

func TestIntegerDivisionTruncatesTowardZero(t *testing.T) {
	v, sig, _ := run(t, "7 / 2")
	requireNoError(t, sig)
	if i, ok := v.(*Int); !ok || i.Value != 3 {
		t.Fatalf("want int 3, got %#v", v)
	}
}

func TestDivisionByZeroIsAnEvaluationError(t *testing.T) {
	_, sig, _ := run(t, "1 / 0")
	if sig.Kind != SigError {
		t.Fatalf("want a division-by-zero error, got signal %v", sig.Kind)
	}
}

func TestStringConcatenation(t *testing.T) {
	v, sig, _ := run(t, `"foo" + "bar"`)
	requireNoError(t, sig)
	if s, ok := v.(*String); !ok || s.Value != "foobar" {
		t.Fatalf("want string foobar, got %#v", v)
	}
}

func TestEqualityAcrossNumericKinds(t *testing.T) {
	v, sig, _ := run(t, "1 == 1.0")
	requireNoError(t, sig)
	if b, ok := v.(*Bool); !ok || !b.Value {
		t.Fatalf("want true, got %#v", v)
	}
}

func TestNullEqualsOnlyNull(t *testing.T) {
	v, sig, _ := run(t, "null == 0")
	requireNoError(t, sig)
	if b, ok := v.(*Bool); !ok || b.Value {
		t.Fatalf("want false, got %#v", v)
	}
}

func TestUndefinedVariableIsAnError(t *testing.T) {
	_, sig, _ := run(t, "nonexistent")
	if sig.Kind != SigError {
		t.Fatalf("want an undefined-variable error, got signal %v", sig.Kind)
	}
}

func TestVarDeclAndAssignment(t *testing.T) {
	v, sig, _ := run(t, "var x = 10\nx = x + 5\nx")
	requireNoError(t, sig)
	if i, ok := v.(*Int); !ok || i.Value != 15 {
		t.Fatalf("want int 15, got %#v", v)
	}
}

func TestForLoopOverIntRange(t *testing.T) {
	v, sig, _ := run(t, "var total = 0\nfor i 5 {\n  total = total + i\n}\ntotal")
	requireNoError(t, sig)
	if i, ok := v.(*Int); !ok || i.Value != 10 {
		t.Fatalf("want int 10 (0+1+2+3+4), got %#v", v)
	}
}

func TestForLoopBreakStopsAfterFirstIteration(t *testing.T) {
	v, sig, _ := run(t, "var result = 0\nfor item (10, 20, 30) {\n  result = item\n  break\n}\nresult")
	requireNoError(t, sig)
	if i, ok := v.(*Int); !ok || i.Value != 10 {
		t.Fatalf("want int 10 (break after the first iteration), got %#v", v)
	}
}

func TestForLoopYieldOverwritesAccumulatedResult(t *testing.T) {
	v, sig, _ := run(t, "for item (10, 20, 30) {\n  yield item\n}")
	requireNoError(t, sig)
	if i, ok := v.(*Int); !ok || i.Value != 30 {
		t.Fatalf("want the last yielded value (30), got %#v", v)
	}
}

func TestWhileLoopLeadingCondition(t *testing.T) {
	v, sig, _ := run(t, "var n = 0\nwhile n < 3 {\n  n = n + 1\n}\nn")
	requireNoError(t, sig)
	if i, ok := v.(*Int); !ok || i.Value != 3 {
		t.Fatalf("want int 3, got %#v", v)
	}
}

func TestDoWhileTrailingConditionRunsBodyOnce(t *testing.T) {
	v, sig, _ := run(t, "var n = 0\nwhile {\n  n = n + 1\n} while n < 0\nn")
	requireNoError(t, sig)
	if i, ok := v.(*Int); !ok || i.Value != 1 {
		t.Fatalf("want int 1 (body runs once even though condition is false), got %#v", v)
	}
}

func TestSwitchDispatchesFirstMatchAndDefault(t *testing.T) {
	v, sig, _ := run(t, `
var x = 2
switch (x) { case 1: { yield "one" } break; case 2: { yield "two" } break; default: { yield "other" } }
`)
	requireNoError(t, sig)
	if s, ok := v.(*String); !ok || s.Value != "two" {
		t.Fatalf("want \"two\", got %#v", v)
	}
}

func TestFunctionCallBindsParametersAndReturns(t *testing.T) {
	v, sig, _ := run(t, `
fn add(a, b) {
  return a + b
}
add(3, 4)
`)
	requireNoError(t, sig)
	if i, ok := v.(*Int); !ok || i.Value != 7 {
		t.Fatalf("want int 7, got %#v", v)
	}
}

func TestFunctionFallThroughYieldsLastExpressionValue(t *testing.T) {
	v, sig, _ := run(t, `
fn square(x) {
  x * x
}
square(6)
`)
	requireNoError(t, sig)
	if i, ok := v.(*Int); !ok || i.Value != 36 {
		t.Fatalf("want int 36, got %#v", v)
	}
}

// TestNamedReturnTupleCollection exercises Open Question (b): a bare
// `return` with a declared return tuple collects the current bindings
// of the named return-tuple members rather than the last expression
// value.
func TestNamedReturnTupleCollection(t *testing.T) {
	v, sig, _ := run(t, `
fn divmod(a, b): (q: int, r: int) {
  q = a / b
  r = a % b
  return
}
divmod(17, 5)
`)
	requireNoError(t, sig)
	tup, ok := v.(*Tuple)
	if !ok || len(tup.Elements) != 2 {
		t.Fatalf("want a 2-element named tuple, got %#v", v)
	}
	if idx := tup.NameIndex("q"); idx < 0 || tup.Elements[idx].(*Int).Value != 3 {
		t.Fatalf("want q=3, got %#v", tup)
	}
	if idx := tup.NameIndex("r"); idx < 0 || tup.Elements[idx].(*Int).Value != 2 {
		t.Fatalf("want r=2, got %#v", tup)
	}
}

// TestExplicitReturnBypassesTupleCollection verifies an explicit
// `return expr` always wins outright even when a return tuple is
// declared (Open Question (b)).
func TestExplicitReturnBypassesTupleCollection(t *testing.T) {
	v, sig, _ := run(t, `
fn first(a, b): (q: int, r: int) {
  q = a
  r = b
  return 99
}
first(1, 2)
`)
	requireNoError(t, sig)
	i, ok := v.(*Int)
	if !ok || i.Value != 99 {
		t.Fatalf("want int 99 (explicit return bypasses collection), got %#v", v)
	}
}

func TestPatternDeclarationAndFieldAccess(t *testing.T) {
	v, sig, _ := run(t, `
pat Point {
  var x
  var y
}
var p = Point(1, 2)
p.x + p.y
`)
	requireNoError(t, sig)
	if i, ok := v.(*Int); !ok || i.Value != 3 {
		t.Fatalf("want int 3, got %#v", v)
	}
}

func TestPatternMethodDispatchBindsSelf(t *testing.T) {
	v, sig, _ := run(t, `
pat Counter {
  var n
  fn bump() {
    self.n = self.n + 1
    self.n
  }
}
var c = Counter(0)
c.bump()
c.bump()
`)
	requireNoError(t, sig)
	if i, ok := v.(*Int); !ok || i.Value != 2 {
		t.Fatalf("want int 2, got %#v", v)
	}
}

func TestPatternFieldAssignment(t *testing.T) {
	v, sig, _ := run(t, `
pat Box {
  var contents
}
var b = Box(1)
b.contents = 42
b.contents
`)
	requireNoError(t, sig)
	if i, ok := v.(*Int); !ok || i.Value != 42 {
		t.Fatalf("want int 42, got %#v", v)
	}
}

func TestOptionalExpression(t *testing.T) {
	v, sig, _ := run(t, "var x = 1 < 2 ? 10 : 20\nx")
	requireNoError(t, sig)
	opt, ok := v.(*Optional)
	if !ok || !opt.Present || opt.Payload.(*Int).Value != 10 {
		t.Fatalf("want a present optional wrapping 10, got %#v", v)
	}
}

func TestOptionalWithoutElseBranchIsAbsentWhenFalsy(t *testing.T) {
	v, sig, _ := run(t, "0 ? 5")
	requireNoError(t, sig)
	opt, ok := v.(*Optional)
	if !ok || opt.Present {
		t.Fatalf("want an absent optional, got %#v", v)
	}
}

func TestTupleIndexingAndNamedElementAccess(t *testing.T) {
	v, sig, _ := run(t, "var t = (a: 1, b: 2)\nt.b")
	requireNoError(t, sig)
	if i, ok := v.(*Int); !ok || i.Value != 2 {
		t.Fatalf("want int 2, got %#v", v)
	}

	v, sig, _ = run(t, "var t = (10, 20, 30)\nt[1]")
	requireNoError(t, sig)
	if i, ok := v.(*Int); !ok || i.Value != 20 {
		t.Fatalf("want int 20, got %#v", v)
	}
}

func TestNegativeTupleIndexWrapsFromTheEnd(t *testing.T) {
	v, sig, _ := run(t, "var t = (10, 20, 30)\nt[-1]")
	requireNoError(t, sig)
	if i, ok := v.(*Int); !ok || i.Value != 30 {
		t.Fatalf("want int 30 (last element), got %#v", v)
	}

	_, sig, _ = run(t, "var t = (10, 20, 30)\nt[-4]")
	if sig.Kind != SigError {
		t.Fatal("want an out-of-range error once the negative index still underflows after wrapping")
	}
}

func TestNegativeTupleIndexAssignmentWraps(t *testing.T) {
	v, sig, _ := run(t, "var t = (10, 20, 30)\nt[-1] = 99\nt[2]")
	requireNoError(t, sig)
	if i, ok := v.(*Int); !ok || i.Value != 99 {
		t.Fatalf("want int 99, got %#v", v)
	}
}

func TestNegativeStringIndexWrapsFromTheEnd(t *testing.T) {
	v, sig, _ := run(t, `"hello"[-1]`)
	requireNoError(t, sig)
	if s, ok := v.(*String); !ok || s.Value != "o" {
		t.Fatalf("want string \"o\" (last rune), got %#v", v)
	}
}

func TestCopyProducesAnIndependentTuple(t *testing.T) {
	v, sig, _ := run(t, `
var a = (1, 2, 3)
var b = copy a
b[0] = 99
a[0]
`)
	requireNoError(t, sig)
	if i, ok := v.(*Int); !ok || i.Value != 1 {
		t.Fatalf("copy must not alias the source tuple, want a[0]==1, got %#v", v)
	}
}

func TestShortCircuitAndOr(t *testing.T) {
	// A right-hand undefined-variable reference must never be
	// evaluated once the left side already decides the result.
	v, sig, _ := run(t, "0 && nonexistent")
	requireNoError(t, sig)
	if b, ok := v.(*Bool); !ok || b.Value {
		t.Fatalf("want false without evaluating the right side, got %#v / %v", v, sig)
	}

	v, sig, _ = run(t, "1 || nonexistent")
	requireNoError(t, sig)
	if b, ok := v.(*Bool); !ok || !b.Value {
		t.Fatalf("want true without evaluating the right side, got %#v / %v", v, sig)
	}
}

func TestPrintWritesToEvaluatorOut(t *testing.T) {
	_, sig, out := run(t, `println("hello")`)
	requireNoError(t, sig)
	if out != "hello\n" {
		t.Fatalf("want %q, got %q", "hello\n", out)
	}
}

func TestBuiltinAssertFailureIsAnError(t *testing.T) {
	_, sig, _ := run(t, `assert(1 == 2, "nope")`)
	if sig.Kind != SigError {
		t.Fatalf("want assert failure to produce an error signal")
	}
}

func TestBuiltinTypeConversions(t *testing.T) {
	v, sig, _ := run(t, `int("42")`)
	requireNoError(t, sig)
	if i, ok := v.(*Int); !ok || i.Value != 42 {
		t.Fatalf("want int 42, got %#v", v)
	}

	v, sig, _ = run(t, `string(7)`)
	requireNoError(t, sig)
	if s, ok := v.(*String); !ok || s.Value != "7" {
		t.Fatalf("want string \"7\", got %#v", v)
	}
}

func TestSubstrClampsRatherThanErrors(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{`substr("hello", 1, 3)`, "ell"},
		{`substr("hello", -2, 3)`, "hel"},  // negative start clamps to 0
		{`substr("hello", 10, 3)`, ""},     // start past end yields empty
		{`substr("hello", 2, 100)`, "llo"}, // start+len past end truncates
		{`substr("hello", 2, -5)`, ""},     // negative len clamps to 0
	}
	for _, c := range cases {
		v, sig, _ := run(t, c.src)
		requireNoError(t, sig)
		s, ok := v.(*String)
		if !ok || s.Value != c.want {
			t.Fatalf("%s: want %q, got %#v", c.src, c.want, v)
		}
	}
}

func TestYAMLRoundTrip(t *testing.T) {
	v, sig, _ := run(t, `
var doc = (name: "vesper", count: 3)
var encoded = yaml_encode(doc)
yaml_decode(encoded)
`)
	requireNoError(t, sig)
	tup, ok := v.(*Tuple)
	if !ok {
		t.Fatalf("want a tuple decoded back from YAML, got %#v", v)
	}
	if idx := tup.NameIndex("name"); idx < 0 || tup.Elements[idx].(*String).Value != "vesper" {
		t.Fatalf("want name=vesper to round-trip, got %#v", tup)
	}
}

func TestUUID4ProducesA36CharacterString(t *testing.T) {
	v, sig, _ := run(t, `uuid4()`)
	requireNoError(t, sig)
	s, ok := v.(*String)
	if !ok || len(s.Value) != 36 {
		t.Fatalf("want a 36-character UUID string, got %#v", v)
	}
}

func TestCallingANonCallableValueIsAnError(t *testing.T) {
	_, sig, _ := run(t, "var x = 1\nx()")
	if sig.Kind != SigError {
		t.Fatalf("want calling an int to be an error")
	}
}
