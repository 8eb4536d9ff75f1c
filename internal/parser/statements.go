package parser

import (
	"github.com/vesperlang/vesper/internal/ast"
	"github.com/vesperlang/vesper/internal/diagnostics"
	"github.com/vesperlang/vesper/internal/token"
)

func (p *Parser) parseStatement() ast.Statement {
	isPub := false
	if p.curIs(token.PUB) {
		isPub = true
		p.nextToken()
	}

	switch p.curToken.Type {
	case token.FN:
		return p.parseFnDecl(isPub)
	case token.VAR:
		return p.parseVarDecl()
	case token.PAT:
		return p.parsePatDecl(isPub)
	case token.IMPORT:
		if isPub {
			p.addError(diagnostics.New(p.curToken, "import cannot be declared pub"))
		}
		return p.parseImportDecl()
	case token.FOR:
		return p.parseFor()
	case token.WHILE:
		return p.parseWhile()
	case token.SWITCH:
		sw := p.parseSwitchExpr()
		p.nextToken()
		return &ast.ExpressionStatement{Token: sw.GetToken(), Expression: sw}
	case token.BREAK:
		return p.parseBreak()
	case token.YIELD:
		return p.parseYield()
	case token.RETURN:
		return p.parseReturn()
	case token.LBRACE:
		block := p.parseBlock()
		p.nextToken()
		return block
	default:
		return p.parseExpressionStatement()
	}
}

// parseExpressionStatement parses a bare expression as a statement. Every
// statement-level parse function leaves curToken on the first token past
// what it consumed; parseExpression itself follows the opposite
// on-last-token Pratt convention, so the bridge is a single nextToken here.
func (p *Parser) parseExpressionStatement() ast.Statement {
	tok := p.curToken
	expr := p.parseExpression(LOWEST)
	p.nextToken()
	return &ast.ExpressionStatement{Token: tok, Expression: expr}
}

// parseTemplateArgsDecl parses an optional `<T, U>` template-parameter
// list preceding a fn/pat declaration name. Stored, never monomorphized.
func (p *Parser) parseTemplateArgsDecl() []string {
	if !p.curIs(token.LT) {
		return nil
	}
	var names []string
	p.nextToken() // consume '<'
	for p.curIs(token.IDENT) {
		names = append(names, p.curToken.Literal)
		p.nextToken()
		if p.curIs(token.COMMA) {
			p.nextToken()
			continue
		}
		break
	}
	if p.curIs(token.GT) {
		p.nextToken() // consume '>'
	} else {
		p.addError(diagnostics.New(p.curToken, "expected '>' to close template parameter list"))
	}
	return names
}

// parseAttrs parses zero or more comma-separated attribute keywords
// (`static`, `const`, `constexpr`) and returns the flags plus how many it
// consumed.
func (p *Parser) parseAttrs() (ast.Attrs, int) {
	var a ast.Attrs
	count := 0
	for {
		switch p.curToken.Type {
		case token.STATIC:
			a.IsStatic = true
		case token.CONST:
			a.IsConst = true
		case token.CONSTEXPR:
			a.IsConstexpr = true
		default:
			return a, count
		}
		count++
		p.nextToken()
		if p.curIs(token.COMMA) {
			p.nextToken()
			continue
		}
		return a, count
	}
}

// parseTypeAnn parses a single bare type name (`Type`).
func (p *Parser) parseTypeAnn() *ast.TypeAnn {
	if !p.curIs(token.IDENT) {
		p.addError(diagnostics.New(p.curToken, "expected type name, got %s", p.curToken.Type))
		return nil
	}
	t := &ast.TypeAnn{Token: p.curToken, Name: p.curToken.Literal}
	p.nextToken()
	return t
}

// parseAnnotatedSlot parses the universal `name [: type] [:: attrs] [= init]`
// form shared by var declarations, parameters and return-tuple members.
// On entry curToken is the leading name (or a copy/move qualifier); on
// return curToken is the first token past the slot.
func (p *Parser) parseAnnotatedSlot() *ast.Param {
	param := &ast.Param{Token: p.curToken}

	if p.curIs(token.COPY) {
		param.IsCopy = true
		p.nextToken()
	} else if p.curIs(token.MOVE) {
		param.IsMove = true
		p.nextToken()
	}

	if !p.curIs(token.IDENT) {
		p.addError(diagnostics.New(p.curToken, "expected identifier, got %s", p.curToken.Type))
		return param
	}
	param.Name = p.curToken.Literal
	p.nextToken()

	sawBareDcolonAttrs := false

	if p.curIs(token.COLON) {
		p.nextToken()
		if p.curIs(token.IDENT) {
			param.Type = p.parseTypeAnn()
		}
		if p.curIs(token.DCOLON) {
			p.nextToken()
			attrs, n := p.parseAttrs()
			param.Attrs = attrs
			if param.Type == nil && n > 0 {
				sawBareDcolonAttrs = true
			}
		}
	} else if p.curIs(token.DCOLON) {
		p.nextToken()
		attrs, n := p.parseAttrs()
		param.Attrs = attrs
		if n > 0 {
			sawBareDcolonAttrs = true
		}
	}

	if p.curIs(token.ASSIGN) {
		p.nextToken()
		param.Init = p.parseExpression(LOWEST)
		p.nextToken()
	} else if sawBareDcolonAttrs {
		p.addError(diagnostics.New(p.curToken, "type omitted with '::' but no '=' initializer"))
	}

	return param
}

func (p *Parser) parseVarDecl() ast.Statement {
	tok := p.curToken // 'var'
	p.nextToken()
	slot := p.parseAnnotatedSlot()
	return &ast.VarDecl{Token: tok, Name: slot.Name, Type: slot.Type, Attrs: slot.Attrs, Init: slot.Init}
}

func (p *Parser) parseFnDecl(isPub bool) ast.Statement {
	tok := p.curToken // 'fn'
	p.nextToken()

	templateArgs := p.parseTemplateArgsDecl()

	decl := &ast.FnDecl{Token: tok, IsPub: isPub, TemplateArgs: templateArgs}
	if p.curIs(token.CUSTOMOP) {
		decl.CustomOp = p.curToken.Literal
		p.nextToken()
	} else if p.curIs(token.IDENT) {
		decl.Name = p.curToken.Literal
		p.nextToken()
	} else {
		p.addError(diagnostics.New(p.curToken, "expected function name or operator literal, got %s", p.curToken.Type))
	}

	if !p.curIs(token.LPAREN) {
		p.addError(diagnostics.New(p.curToken, "expected '(' to start parameter list"))
		return decl
	}
	decl.Params = p.parseParamList()

	if p.curIs(token.COLON) {
		p.nextToken()
		if p.curIs(token.LPAREN) {
			decl.ReturnTuple = p.parseParamList()
		} else {
			decl.ReturnType = p.parseTypeAnn()
		}
	}
	if p.curIs(token.DCOLON) {
		p.nextToken()
		attrs, _ := p.parseAttrs()
		decl.Attrs = attrs
	}

	if p.curIs(token.LBRACE) {
		decl.Body = p.parseBlock()
		p.nextToken()
	}
	return decl
}

// parseParamList parses a `(slot, slot, ...)` list. curToken must be '('
// on entry; on return curToken is the first token past the matching ')'.
func (p *Parser) parseParamList() []*ast.Param {
	var params []*ast.Param
	p.nextToken() // consume '('
	if p.curIs(token.RPAREN) {
		p.nextToken()
		return params
	}
	for {
		params = append(params, p.parseAnnotatedSlot())
		if p.curIs(token.COMMA) {
			p.nextToken()
			continue
		}
		break
	}
	if p.curIs(token.RPAREN) {
		p.nextToken()
	} else {
		p.addError(diagnostics.New(p.curToken, "expected ')' to close parameter list"))
	}
	return params
}

func (p *Parser) parsePatDecl(isPub bool) ast.Statement {
	tok := p.curToken // 'pat'
	p.nextToken()
	templateArgs := p.parseTemplateArgsDecl()

	decl := &ast.PatDecl{Token: tok, TemplateArgs: templateArgs}
	_ = isPub
	if !p.curIs(token.IDENT) {
		p.addError(diagnostics.New(p.curToken, "expected pattern name, got %s", p.curToken.Type))
		return decl
	}
	decl.Name = p.curToken.Literal
	p.nextToken()

	if p.curIs(token.COLON) {
		p.nextToken()
		for p.curIs(token.IDENT) {
			decl.Bases = append(decl.Bases, &ast.Ident{Token: p.curToken, Value: p.curToken.Literal})
			p.nextToken()
			if p.curIs(token.PIPE) {
				p.nextToken()
				continue
			}
			break
		}
	}
	if p.curIs(token.DCOLON) {
		p.nextToken()
		attrs, _ := p.parseAttrs()
		decl.Attrs = attrs
	}
	if !p.curIs(token.LBRACE) {
		p.addError(diagnostics.New(p.curToken, "expected '{' to start pattern body"))
		return decl
	}
	decl.Body = p.parseBlock()
	p.nextToken()
	return decl
}

func (p *Parser) parseImportDecl() ast.Statement {
	tok := p.curToken // 'import'
	p.nextToken()

	decl := &ast.ImportDecl{Token: tok}
	var path []string
	for p.curIs(token.IDENT) {
		path = append(path, p.curToken.Literal)
		p.nextToken()
		if p.curIs(token.DOT) {
			p.nextToken()
			continue
		}
		break
	}
	decl.Path = joinDotted(path)

	if p.curIs(token.AS) {
		p.nextToken()
		if p.curIs(token.IDENT) {
			decl.Alias = p.curToken.Literal
			p.nextToken()
		}
	}

	if p.curIs(token.OF) {
		p.nextToken()
		if p.curIs(token.LBRACE) {
			p.nextToken()
			for p.curIs(token.IDENT) {
				decl.Items = append(decl.Items, p.parseImportItem())
				if p.curIs(token.COMMA) {
					p.nextToken()
					continue
				}
				break
			}
			if p.curIs(token.RBRACE) {
				p.nextToken()
			}
		} else if p.curIs(token.IDENT) {
			decl.Items = append(decl.Items, p.parseImportItem())
		}
	}
	return decl
}

func (p *Parser) parseImportItem() *ast.ImportItem {
	item := &ast.ImportItem{Token: p.curToken, Name: p.curToken.Literal}
	p.nextToken()
	if p.curIs(token.AS) {
		p.nextToken()
		if p.curIs(token.IDENT) {
			item.Alias = p.curToken.Literal
			p.nextToken()
		}
	}
	return item
}

func joinDotted(parts []string) string {
	out := ""
	for i, s := range parts {
		if i > 0 {
			out += "."
		}
		out += s
	}
	return out
}

func (p *Parser) parseFor() ast.Statement {
	tok := p.curToken // 'for'
	p.nextToken()

	f := &ast.For{Token: tok}
	if p.curIs(token.IDENT) {
		f.Var = p.curToken.Literal
		p.nextToken()
	}
	f.Iterable = p.parseExpression(LOWEST)
	p.nextToken()
	if !p.curIs(token.LBRACE) {
		p.addError(diagnostics.New(p.curToken, "expected '{' to start for-loop body"))
		return f
	}
	f.Body = p.parseBlock()
	p.nextToken()
	return f
}

func (p *Parser) parseWhile() ast.Statement {
	tok := p.curToken // 'while'
	p.nextToken()

	w := &ast.While{Token: tok}
	if !p.curIs(token.LBRACE) {
		w.Leading = p.parseExpression(LOWEST)
		p.nextToken()
	}
	if !p.curIs(token.LBRACE) {
		p.addError(diagnostics.New(p.curToken, "expected '{' to start while-loop body"))
		return w
	}
	w.Body = p.parseBlock()
	p.nextToken() // consume '}'

	if p.curIs(token.WHILE) {
		p.nextToken() // consume trailing 'while'
		w.Trailing = p.parseExpression(LOWEST)
		p.nextToken()
	}
	return w
}

func (p *Parser) parseSwitchExpr() ast.Expression {
	tok := p.curToken // 'switch'
	p.nextToken()
	if !p.curIs(token.LPAREN) {
		p.addError(diagnostics.New(p.curToken, "expected '(' after switch"))
	}
	p.nextToken() // consume '('
	tag := p.parseExpression(LOWEST)
	p.nextToken() // move to ')'
	if !p.curIs(token.RPAREN) {
		p.addError(diagnostics.New(p.curToken, "expected ')' after switch tag"))
	}
	p.nextToken() // consume ')'
	if !p.curIs(token.LBRACE) {
		p.addError(diagnostics.New(p.curToken, "expected '{' to start switch body"))
		return &ast.Switch{Token: tok, Tag: tag}
	}
	p.nextToken() // consume '{'
	p.skipSeparators()

	sw := &ast.Switch{Token: tok, Tag: tag}
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		sw.Cases = append(sw.Cases, p.parseCase())
		p.skipSeparators()
	}
	return sw
}

func (p *Parser) parseCase() *ast.Case {
	tok := p.curToken
	c := &ast.Case{Token: tok}
	if p.curIs(token.DEFAULT) {
		p.nextToken()
	} else if p.curIs(token.CASE) {
		p.nextToken()
		c.Cond = p.parseExpression(LOWEST)
		p.nextToken()
	}
	if p.curIs(token.COLON) {
		p.nextToken()
	}
	if p.curIs(token.LBRACE) {
		c.Body = p.parseBlock()
		p.nextToken()
	}
	if p.curIs(token.BREAK) {
		p.nextToken()
	}
	return c
}

func (p *Parser) parseBreak() ast.Statement {
	tok := p.curToken
	p.nextToken()
	return &ast.Break{Token: tok}
}

func (p *Parser) parseYield() ast.Statement {
	tok := p.curToken
	if p.peekIs(token.NEWLINE) || p.peekIs(token.SEMICOLON) || p.peekIs(token.RBRACE) || p.peekIs(token.EOF) {
		p.nextToken()
		return &ast.Yield{Token: tok}
	}
	p.nextToken()
	val := p.parseExpression(LOWEST)
	p.nextToken()
	return &ast.Yield{Token: tok, Value: val}
}

func (p *Parser) parseReturn() ast.Statement {
	tok := p.curToken
	if p.peekIs(token.NEWLINE) || p.peekIs(token.SEMICOLON) || p.peekIs(token.RBRACE) || p.peekIs(token.EOF) {
		p.nextToken()
		return &ast.Return{Token: tok}
	}
	p.nextToken()
	val := p.parseExpression(LOWEST)
	p.nextToken()
	return &ast.Return{Token: tok, Value: val}
}
