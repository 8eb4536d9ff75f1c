// Package parser is a recursive-descent, Pratt-style expression parser
// producing the tagged AST in package ast. It keeps one token of lookahead
// plus a lexer-level save/restore pair for speculative template-argument
// parsing.
package parser

import (
	"github.com/vesperlang/vesper/internal/ast"
	"github.com/vesperlang/vesper/internal/diagnostics"
	"github.com/vesperlang/vesper/internal/lexer"
	"github.com/vesperlang/vesper/internal/token"
)

// Precedence levels, loosest to tightest. Assignment and the ternary
// optional are handled by dedicated recursive-descent functions above the
// Pratt table; everything from `||` down to `*` flows through it.
const (
	_ int = iota
	LOWEST
	LOGIC_OR
	LOGIC_AND
	BIT_OR
	BIT_XOR
	BIT_AND
	EQUALS
	RELATIONAL
	SHIFT
	SUM
	PRODUCT
	PREFIX
	POSTFIX
)

var precedences = map[token.Type]int{
	token.OR:       LOGIC_OR,
	token.AND:      LOGIC_AND,
	token.PIPE:     BIT_OR,
	token.CARET:    BIT_XOR,
	token.AMP:      BIT_AND,
	token.EQ:       EQUALS,
	token.NOT_EQ:   EQUALS,
	token.LT:       RELATIONAL,
	token.GT:       RELATIONAL,
	token.LTE:      RELATIONAL,
	token.GTE:      RELATIONAL,
	token.SHL:      SHIFT,
	token.SHR:      SHIFT,
	token.PLUS:     SUM,
	token.MINUS:    SUM,
	token.ASTERISK: PRODUCT,
	token.SLASH:    PRODUCT,
	token.PERCENT:  PRODUCT,
	token.LPAREN:   POSTFIX,
	token.LBRACKET: POSTFIX,
	token.DOT:      POSTFIX,
}

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

// Parser builds an *ast.Program from a token stream.
type Parser struct {
	l *lexer.Lexer

	curToken  token.Token
	peekToken token.Token

	errors    []diagnostics.Diagnostic
	firstErr  *diagnostics.Diagnostic

	prefixParseFns map[token.Type]prefixParseFn
	infixParseFns  map[token.Type]infixParseFn
}

// New constructs a Parser reading tokens from l.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}

	p.prefixParseFns = map[token.Type]prefixParseFn{}
	p.registerPrefix(token.IDENT, p.parseIdent)
	p.registerPrefix(token.INT, p.parseIntLit)
	p.registerPrefix(token.FLOAT, p.parseFloatLit)
	p.registerPrefix(token.STRING, p.parseStrLit)
	p.registerPrefix(token.NULL, p.parseNullLit)
	p.registerPrefix(token.LPAREN, p.parseParenOrTuple)
	p.registerPrefix(token.LBRACE, p.parseScopeExpr)
	p.registerPrefix(token.MINUS, p.parseUnary)
	p.registerPrefix(token.BANG, p.parseUnary)
	p.registerPrefix(token.TILDE, p.parseUnary)
	p.registerPrefix(token.COPY, p.parseCopy)
	p.registerPrefix(token.MOVE, p.parseMove)

	p.infixParseFns = map[token.Type]infixParseFn{}
	for _, tt := range []token.Type{
		token.OR, token.AND, token.PIPE, token.CARET, token.AMP,
		token.EQ, token.NOT_EQ, token.LT, token.GT, token.LTE, token.GTE,
		token.SHL, token.SHR, token.PLUS, token.MINUS,
		token.ASTERISK, token.SLASH, token.PERCENT,
	} {
		p.registerInfix(tt, p.parseBinOp)
	}
	p.registerInfix(token.LPAREN, p.parseCall)
	p.registerInfix(token.LBRACKET, p.parseIndex)
	p.registerInfix(token.DOT, p.parseMember)

	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) registerPrefix(tt token.Type, fn prefixParseFn) { p.prefixParseFns[tt] = fn }
func (p *Parser) registerInfix(tt token.Type, fn infixParseFn)   { p.infixParseFns[tt] = fn }

// Errors returns every diagnostic recorded while parsing. Only the first
// is authoritative per the "first error wins" contract (§4.2); later ones
// are best-effort noise from continued parsing.
func (p *Parser) Errors() []diagnostics.Diagnostic { return p.errors }

// FirstError returns the first recorded diagnostic, if any.
func (p *Parser) FirstError() *diagnostics.Diagnostic { return p.firstErr }

func (p *Parser) addError(d diagnostics.Diagnostic) {
	p.errors = append(p.errors, d)
	if p.firstErr == nil {
		p.firstErr = &d
	}
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.Next()
}

func (p *Parser) curIs(tt token.Type) bool  { return p.curToken.Type == tt }
func (p *Parser) peekIs(tt token.Type) bool { return p.peekToken.Type == tt }

func (p *Parser) expectPeek(tt token.Type) bool {
	if p.peekIs(tt) {
		p.nextToken()
		return true
	}
	p.addError(diagnostics.New(p.peekToken, "expected next token to be %s, got %s instead", tt, p.peekToken.Type))
	return false
}

func (p *Parser) peekPrecedence() int {
	if pr, ok := precedences[p.peekToken.Type]; ok {
		return pr
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if pr, ok := precedences[p.curToken.Type]; ok {
		return pr
	}
	return LOWEST
}

// skipSeparators consumes zero or more NEWLINE/SEMICOLON tokens.
func (p *Parser) skipSeparators() {
	for p.curIs(token.NEWLINE) || p.curIs(token.SEMICOLON) {
		p.nextToken()
	}
}

// ParseProgram parses the whole token stream into a Program.
func (p *Parser) ParseProgram() *ast.Program {
	prog := &ast.Program{}
	p.skipSeparators()
	for !p.curIs(token.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			prog.Statements = append(prog.Statements, stmt)
		}
		p.skipSeparators()
	}
	return prog
}
