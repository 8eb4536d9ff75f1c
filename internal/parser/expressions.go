package parser

import (
	"strconv"

	"github.com/vesperlang/vesper/internal/ast"
	"github.com/vesperlang/vesper/internal/diagnostics"
	"github.com/vesperlang/vesper/internal/token"
)

// parseExpression is the entry point for expression parsing, handling
// assignment and the ternary optional above the Pratt precedence table.
func (p *Parser) parseExpression(precedence int) ast.Expression {
	left := p.parseBinaryExpression(LOWEST)

	if precedence == LOWEST && p.peekIs(token.QUESTION) {
		p.nextToken() // consume '?'
		left = p.parseOptional(left)
	}

	if precedence == LOWEST && p.peekIs(token.ASSIGN) {
		tok := p.peekToken
		p.nextToken() // consume '='
		p.nextToken()
		value := p.parseExpression(LOWEST)
		return &ast.Assign{Token: tok, Target: left, Value: value}
	}

	return left
}

// parseBinaryExpression is the classic Pratt precedence-climbing loop over
// `|| && | ^ & == != < > <= >= << >> + - * / %` plus postfix.
func (p *Parser) parseBinaryExpression(precedence int) ast.Expression {
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.addError(diagnostics.New(p.curToken, "no prefix parse function for %s found", p.curToken.Type))
		return nil
	}
	left := prefix()

	for !p.peekIs(token.NEWLINE) && !p.peekIs(token.SEMICOLON) && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return left
		}
		p.nextToken()
		left = infix(left)
	}
	return left
}

func (p *Parser) parseOptional(cond ast.Expression) ast.Expression {
	tok := p.curToken // '?'
	p.nextToken()
	then := p.parseExpression(LOWEST)
	var elseExpr ast.Expression
	if p.peekIs(token.COLON) {
		p.nextToken() // consume ':'
		p.nextToken()
		elseExpr = p.parseExpression(LOWEST)
	}
	return &ast.Optional{Token: tok, Cond: cond, Then: then, Else: elseExpr}
}

func (p *Parser) parseIdent() ast.Expression {
	base := ast.Expression(&ast.Ident{Token: p.curToken, Value: p.curToken.Literal})
	if p.peekIs(token.LT) {
		if inst, ok := p.trySpeculativeTemplate(base); ok {
			return inst
		}
	}
	return base
}

func (p *Parser) parseIntLit() ast.Expression {
	v, err := strconv.ParseInt(p.curToken.Literal, 10, 64)
	if err != nil {
		p.addError(diagnostics.New(p.curToken, "could not parse %q as integer", p.curToken.Literal))
	}
	return &ast.IntLit{Token: p.curToken, Value: v}
}

func (p *Parser) parseFloatLit() ast.Expression {
	v, err := strconv.ParseFloat(p.curToken.Literal, 64)
	if err != nil {
		p.addError(diagnostics.New(p.curToken, "could not parse %q as float", p.curToken.Literal))
	}
	return &ast.FloatLit{Token: p.curToken, Value: v}
}

func (p *Parser) parseStrLit() ast.Expression {
	return &ast.StrLit{Token: p.curToken, Value: p.curToken.Literal}
}

func (p *Parser) parseNullLit() ast.Expression {
	return &ast.NullLit{Token: p.curToken}
}

func (p *Parser) parseUnary() ast.Expression {
	tok := p.curToken
	op := p.curToken.Literal
	p.nextToken()
	right := p.parseBinaryExpression(PREFIX)
	return &ast.UnOp{Token: tok, Op: op, Right: right}
}

func (p *Parser) parseCopy() ast.Expression {
	tok := p.curToken
	p.nextToken()
	right := p.parseBinaryExpression(PREFIX)
	return &ast.Copy{Token: tok, Right: right}
}

func (p *Parser) parseMove() ast.Expression {
	tok := p.curToken
	p.nextToken()
	right := p.parseBinaryExpression(PREFIX)
	return &ast.Move{Token: tok, Right: right}
}

func (p *Parser) parseBinOp(left ast.Expression) ast.Expression {
	tok := p.curToken
	op := p.curToken.Literal
	precedence := p.curPrecedence()
	p.nextToken()
	right := p.parseBinaryExpression(precedence)
	return &ast.BinOp{Token: tok, Op: op, Left: left, Right: right}
}

func (p *Parser) parseMember(obj ast.Expression) ast.Expression {
	tok := p.curToken // '.'
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	return &ast.Member{Token: tok, Object: obj, Name: p.curToken.Literal}
}

func (p *Parser) parseIndex(left ast.Expression) ast.Expression {
	tok := p.curToken // '['
	p.nextToken()
	idx := p.parseExpression(LOWEST)
	if !p.expectPeek(token.RBRACKET) {
		return nil
	}
	return &ast.Index{Token: tok, Left: left, Index: idx}
}

func (p *Parser) parseCall(callee ast.Expression) ast.Expression {
	tok := p.curToken // '('
	args, names := p.parseCallArgs()
	return &ast.Call{Token: tok, Callee: callee, Args: args, ArgNames: names}
}

func (p *Parser) parseCallArgs() ([]ast.Expression, []string) {
	var args []ast.Expression
	var names []string
	if p.peekIs(token.RPAREN) {
		p.nextToken()
		return args, names
	}
	p.nextToken()
	for {
		name, expr := p.parseMaybeNamedArg()
		args = append(args, expr)
		names = append(names, name)
		if p.peekIs(token.COMMA) {
			p.nextToken()
			p.nextToken()
			continue
		}
		break
	}
	if !p.expectPeek(token.RPAREN) {
		return args, names
	}
	return args, names
}

// parseMaybeNamedArg parses `ident: expr` (a named call argument) or a
// plain expression.
func (p *Parser) parseMaybeNamedArg() (string, ast.Expression) {
	if p.curIs(token.IDENT) && p.peekIs(token.COLON) {
		name := p.curToken.Literal
		p.nextToken() // consume ident
		p.nextToken() // consume ':'
		return name, p.parseExpression(LOWEST)
	}
	return "", p.parseExpression(LOWEST)
}

// parseParenOrTuple disambiguates `(expr)` from a tuple literal: a
// top-level comma, or a first element of the `ident : expr` named shape,
// makes it a Tuple; otherwise it is a plain parenthesized expression.
func (p *Parser) parseParenOrTuple() ast.Expression {
	tok := p.curToken // '('
	if p.peekIs(token.RPAREN) {
		p.nextToken()
		return &ast.Tuple{Token: tok}
	}
	p.nextToken()

	firstName, first := p.parseMaybeNamedArg()
	isTuple := firstName != ""

	if p.peekIs(token.COMMA) {
		isTuple = true
		names := []string{firstName}
		elems := []ast.Expression{first}
		for p.peekIs(token.COMMA) {
			p.nextToken()
			p.nextToken()
			n, e := p.parseMaybeNamedArg()
			names = append(names, n)
			elems = append(elems, e)
		}
		if !p.expectPeek(token.RPAREN) {
			return nil
		}
		return &ast.Tuple{Token: tok, Elements: elems, Names: names}
	}

	if !p.expectPeek(token.RPAREN) {
		return nil
	}

	if isTuple {
		return &ast.Tuple{Token: tok, Elements: []ast.Expression{first}, Names: []string{firstName}}
	}
	base := first
	if p.peekIs(token.LT) {
		if inst, ok := p.trySpeculativeTemplate(base); ok {
			return inst
		}
	}
	return base
}

func (p *Parser) parseScopeExpr() ast.Expression {
	tok := p.curToken
	body := p.parseBlock()
	return &ast.Scope{Token: tok, Body: body}
}

// parseBlock parses a `{ stmt* }` block. curToken must be '{' on entry;
// on return curToken is the matching '}'.
func (p *Parser) parseBlock() *ast.Block {
	block := &ast.Block{Token: p.curToken}
	p.nextToken() // consume '{'
	p.skipSeparators()
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
		p.skipSeparators()
	}
	return block
}

// trySpeculativeTemplate attempts to parse `< type_ann (, type_ann)* >`
// following base, where base's last token is curToken and peekToken is
// '<'. It snapshots the lexer and parser token-buffer state bit-for-bit
// and rolls back on any failure, per the speculative
// template-instantiation contract, restoring the parser to exactly the
// state it had on entry (curToken on base's last token, peekToken '<').
func (p *Parser) trySpeculativeTemplate(base ast.Expression) (ast.Expression, bool) {
	lexState := p.l.Save()
	savedCur, savedPeek := p.curToken, p.peekToken
	savedErrLen := len(p.errors)

	p.nextToken() // cur = '<'
	p.nextToken() // cur = first type_ann (or failure)

	var args []*ast.TypeAnn
	ok := true
	for {
		if !p.curIs(token.IDENT) {
			ok = false
			break
		}
		args = append(args, &ast.TypeAnn{Token: p.curToken, Name: p.curToken.Literal})
		p.nextToken()
		if p.curIs(token.COMMA) {
			p.nextToken()
			continue
		}
		break
	}
	if ok && !p.curIs(token.GT) {
		ok = false
	}

	if !ok {
		p.l.Restore(lexState)
		p.curToken, p.peekToken = savedCur, savedPeek
		p.errors = p.errors[:savedErrLen]
		if len(p.errors) > 0 {
			p.firstErr = &p.errors[0]
		} else {
			p.firstErr = nil
		}
		return base, false
	}

	// curToken is now '>', the last token of this primary expression;
	// leave it there so the caller's normal advancing takes over, per
	// the convention every other prefix parse function follows.
	inst := &ast.TemplateInst{Token: base.GetToken(), Base: base, TypeArgs: args}
	return inst, true
}
