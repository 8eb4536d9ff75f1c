package lexer

import (
	"testing"

	"github.com/vesperlang/vesper/internal/token"
)

func collect(src string) []token.Token {
	l := New(src)
	var out []token.Token
	for {
		t := l.Next()
		out = append(out, t)
		if t.Type == token.EOF {
			return out
		}
	}
}

func types(toks []token.Token) []token.Type {
	out := make([]token.Type, len(toks))
	for i, t := range toks {
		out[i] = t.Type
	}
	return out
}

func TestNewlineSuppressedInsideParens(t *testing.T) {
	src := "var x = (\n1 +\n2 +\n3\n)\nprint(x)"
	toks := collect(src)
	// Between the opening '(' and its matching ')' there must be no
	// NEWLINE tokens.
	depth := 0
	for _, tt := range toks {
		switch tt.Type {
		case token.LPAREN:
			depth++
		case token.RPAREN:
			depth--
		case token.NEWLINE:
			if depth > 0 {
				t.Fatalf("unexpected NEWLINE while inside parens (depth=%d)", depth)
			}
		}
	}
}

func TestNewlineAfterStatementEndingToken(t *testing.T) {
	toks := collect("x\ny")
	want := []token.Type{token.IDENT, token.NEWLINE, token.IDENT, token.EOF}
	got := types(toks)
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestNewlineSuppressedAfterOperator(t *testing.T) {
	toks := collect("x +\ny")
	for _, tt := range toks {
		if tt.Type == token.NEWLINE {
			t.Fatalf("newline after '+' should be suppressed, got %v", types(toks))
		}
	}
}

func TestCustomOperatorLiteralAfterFn(t *testing.T) {
	toks := collect(`fn "+"(a, b)`)
	if toks[0].Type != token.FN {
		t.Fatalf("expected FN, got %v", toks[0].Type)
	}
	if toks[1].Type != token.CUSTOMOP || toks[1].Literal != "+" {
		t.Fatalf("expected CUSTOMOP '+', got %v %q", toks[1].Type, toks[1].Literal)
	}
}

func TestOrdinaryStringIsNotCustomOp(t *testing.T) {
	toks := collect(`var s = "+"`)
	for _, tt := range toks {
		if tt.Type == token.CUSTOMOP {
			t.Fatalf("did not expect CUSTOMOP outside fn context, got %v", types(toks))
		}
	}
}

func TestMultiBytePunctuation(t *testing.T) {
	toks := collect("<< >> <= >= == != && || :: ->")
	want := []token.Type{token.SHL, token.SHR, token.LTE, token.GTE, token.EQ, token.NOT_EQ, token.AND, token.OR, token.DCOLON, token.ARROW, token.EOF}
	got := types(toks)
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestNumberLiterals(t *testing.T) {
	toks := collect("42 3.14 1e3 2.5e-2")
	want := []token.Type{token.INT, token.FLOAT, token.FLOAT, token.FLOAT, token.EOF}
	got := types(toks)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestFailedExponentLookaheadRestoresFullState(t *testing.T) {
	// "e" with no following digits is not an exponent suffix; the lexer
	// must roll back its whole state, not just `position`, so the "e"
	// is still lexed as its own identifier token afterward.
	toks := collect("3e")
	want := []token.Type{token.INT, token.IDENT, token.EOF}
	got := types(toks)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: got %v, want %v", i, got[i], want[i])
		}
	}
	if toks[0].Literal != "3" {
		t.Fatalf("got int literal %q, want \"3\"", toks[0].Literal)
	}
	if toks[1].Literal != "e" {
		t.Fatalf("got ident literal %q, want \"e\"", toks[1].Literal)
	}
}

func TestStringEscapes(t *testing.T) {
	toks := collect(`"a\nb\tc\\d\qe"`)
	// unknown escape \q passes q through unchanged
	want := "a\nb\tc\\dqe"
	if toks[0].Literal != want {
		t.Fatalf("got %q, want %q", toks[0].Literal, want)
	}
}

func TestPeekDoesNotAdvanceDepthOrLastReal(t *testing.T) {
	l := New("(x")
	first := l.Peek()
	if first.Type != token.LPAREN {
		t.Fatalf("expected LPAREN, got %v", first.Type)
	}
	if l.parenDepth != 0 {
		t.Fatalf("peek must not update depth, got %d", l.parenDepth)
	}
	second := l.Next()
	if second.Type != token.LPAREN {
		t.Fatalf("expected LPAREN from Next after Peek, got %v", second.Type)
	}
	if l.parenDepth != 1 {
		t.Fatalf("Next must update depth, got %d", l.parenDepth)
	}
	third := l.Next()
	if third.Type != token.IDENT || third.Literal != "x" {
		t.Fatalf("expected IDENT x, got %v %q", third.Type, third.Literal)
	}
}

func TestBalancedDepthAtEOF(t *testing.T) {
	toks := collect("f((a, [b, c]), {d: e})")
	_ = toks
	l := New("f((a, [b, c]), {d: e})")
	for {
		t := l.Next()
		if t.Type == token.EOF {
			break
		}
	}
	if !l.AtZeroDepth() {
		t.Fatalf("expected balanced depth at EOF")
	}
}
