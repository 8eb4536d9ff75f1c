// Package ast defines the tagged AST produced by the parser. Every kind
// gets its own concrete struct rather than one generic tagged-union node,
// so that evaluator switches are exhaustive and each node only carries the
// fields that are actually meaningful for its shape.
package ast

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/vesperlang/vesper/internal/token"
)

// Node is the common interface satisfied by every AST node.
type Node interface {
	TokenLiteral() string
	GetToken() token.Token
	String() string
}

// Statement is a Node that occurs in statement position.
type Statement interface {
	Node
	statementNode()
}

// Expression is a Node that occurs in expression position.
type Expression interface {
	Node
	expressionNode()
}

// Attrs holds the `static`/`const`/`constexpr` flags shared by variable,
// parameter and return-tuple slots; they are stored on the node but do not
// affect evaluation semantics.
type Attrs struct {
	IsStatic    bool
	IsConst     bool
	IsConstexpr bool
}

// TypeAnn is a type annotation, e.g. `i32` in `x:i32`.
type TypeAnn struct {
	Token token.Token
	Name  string
}

func (t *TypeAnn) TokenLiteral() string  { return t.Token.Literal }
func (t *TypeAnn) GetToken() token.Token { return t.Token }
func (t *TypeAnn) String() string        { return t.Name }

// Param is a single `name [: type] [:: attrs] [= init]` slot, reused for
// function parameters, return-tuple members and `var` declarations'
// shared grammar.
type Param struct {
	Token     token.Token
	Name      string
	Type      *TypeAnn
	Attrs     Attrs
	Init      Expression
	IsCopy    bool
	IsMove    bool
	IsVariadic bool
}

func (p *Param) TokenLiteral() string  { return p.Token.Literal }
func (p *Param) GetToken() token.Token { return p.Token }
func (p *Param) String() string {
	var b bytes.Buffer
	b.WriteString(p.Name)
	if p.Type != nil {
		b.WriteString(":" + p.Type.Name)
	}
	if p.Init != nil {
		b.WriteString(" = " + p.Init.String())
	}
	return b.String()
}

// Program is the root node: a sequence of top-level statements.
type Program struct {
	Statements []Statement
}

func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	}
	return ""
}
func (p *Program) GetToken() token.Token {
	if len(p.Statements) > 0 {
		return p.Statements[0].GetToken()
	}
	return token.Token{}
}
func (p *Program) String() string {
	var b bytes.Buffer
	for _, s := range p.Statements {
		b.WriteString(s.String())
		b.WriteString("\n")
	}
	return b.String()
}

// Block is a `{ ... }` list of statements, used for function/pattern
// bodies and as the building block of Scope.
type Block struct {
	Token      token.Token
	Statements []Statement
}

func (b *Block) TokenLiteral() string  { return b.Token.Literal }
func (b *Block) GetToken() token.Token { return b.Token }
func (b *Block) statementNode()        {}
func (b *Block) expressionNode()       {}
func (b *Block) String() string {
	if len(b.Statements) == 0 {
		return "{ }"
	}
	var out bytes.Buffer
	out.WriteString("{ ")
	for i, s := range b.Statements {
		if i > 0 {
			out.WriteString("; ")
		}
		out.WriteString(s.String())
	}
	out.WriteString(" }")
	return out.String()
}

// Scope is a `{...}` block used as a value-producing expression.
type Scope struct {
	Token token.Token
	Body  *Block
}

func (s *Scope) TokenLiteral() string  { return s.Token.Literal }
func (s *Scope) GetToken() token.Token { return s.Token }
func (s *Scope) expressionNode()       {}
func (s *Scope) String() string        { return s.Body.String() }

// FnDecl declares a function, optionally exported (`pub`) and optionally
// named by a custom operator literal instead of an identifier.
type FnDecl struct {
	Token        token.Token
	IsPub        bool
	Name         string // empty when CustomOp is set
	CustomOp     string // non-empty for `fn "+" (...)`
	TemplateArgs []string
	Params       []*Param
	ReturnType   *TypeAnn // simple `: Type` form
	ReturnTuple  []*Param // named `:(name:Type, ...)` form
	Attrs        Attrs
	Body         *Block
}

func (f *FnDecl) TokenLiteral() string  { return f.Token.Literal }
func (f *FnDecl) GetToken() token.Token { return f.Token }
func (f *FnDecl) statementNode()        {}
func (f *FnDecl) DisplayName() string {
	if f.CustomOp != "" {
		return "\"" + f.CustomOp + "\""
	}
	return f.Name
}
func (f *FnDecl) String() string {
	var b bytes.Buffer
	b.WriteString("fn ")
	b.WriteString(f.DisplayName())
	b.WriteString("(")
	parts := make([]string, len(f.Params))
	for i, p := range f.Params {
		parts[i] = p.String()
	}
	b.WriteString(strings.Join(parts, ", "))
	b.WriteString(") ")
	if f.Body != nil {
		b.WriteString(f.Body.String())
	}
	return b.String()
}

// VarDecl declares (and optionally initializes) a variable in the current
// scope.
type VarDecl struct {
	Token token.Token
	Name  string
	Type  *TypeAnn
	Attrs Attrs
	Init  Expression
}

func (v *VarDecl) TokenLiteral() string  { return v.Token.Literal }
func (v *VarDecl) GetToken() token.Token { return v.Token }
func (v *VarDecl) statementNode()        {}
func (v *VarDecl) String() string {
	if v.Init != nil {
		return fmt.Sprintf("var %s = %s", v.Name, v.Init.String())
	}
	return "var " + v.Name
}

// PatDecl declares a pattern (struct-like record type), with optional
// base composition and a body of fields/methods.
type PatDecl struct {
	Token        token.Token
	Name         string
	TemplateArgs []string
	Bases        []*Ident
	Attrs        Attrs
	Body         *Block
}

func (p *PatDecl) TokenLiteral() string  { return p.Token.Literal }
func (p *PatDecl) GetToken() token.Token { return p.Token }
func (p *PatDecl) statementNode()        {}
func (p *PatDecl) String() string {
	return fmt.Sprintf("pat %s %s", p.Name, p.Body.String())
}

// ImportItem is a single `name [as alias]` entry inside an `of (...)`
// import clause.
type ImportItem struct {
	Token token.Token
	Name  string
	Alias string
}

func (i *ImportItem) TokenLiteral() string  { return i.Token.Literal }
func (i *ImportItem) GetToken() token.Token { return i.Token }
func (i *ImportItem) String() string {
	if i.Alias != "" {
		return i.Name + " as " + i.Alias
	}
	return i.Name
}

// ImportDecl declares an `import path(.path)* [as alias] [of (...)]`
// statement.
type ImportDecl struct {
	Token token.Token
	Path  string // dotted module path
	Alias string
	Items []*ImportItem // nil/empty means "import the whole module"
}

func (i *ImportDecl) TokenLiteral() string  { return i.Token.Literal }
func (i *ImportDecl) GetToken() token.Token { return i.Token }
func (i *ImportDecl) statementNode()        {}
func (i *ImportDecl) String() string {
	return "import " + i.Path
}

// ExpressionStatement wraps an expression used as a standalone statement.
type ExpressionStatement struct {
	Token      token.Token
	Expression Expression
}

func (e *ExpressionStatement) TokenLiteral() string  { return e.Token.Literal }
func (e *ExpressionStatement) GetToken() token.Token { return e.Token }
func (e *ExpressionStatement) statementNode()        {}
func (e *ExpressionStatement) String() string {
	if e.Expression != nil {
		return e.Expression.String()
	}
	return ""
}

// Ident is a variable/field/type reference.
type Ident struct {
	Token token.Token
	Value string
}

func (i *Ident) TokenLiteral() string  { return i.Token.Literal }
func (i *Ident) GetToken() token.Token { return i.Token }
func (i *Ident) expressionNode()       {}
func (i *Ident) String() string        { return i.Value }

// IntLit is an integer literal.
type IntLit struct {
	Token token.Token
	Value int64
}

func (n *IntLit) TokenLiteral() string  { return n.Token.Literal }
func (n *IntLit) GetToken() token.Token { return n.Token }
func (n *IntLit) expressionNode()       {}
func (n *IntLit) String() string        { return n.Token.Literal }

// FloatLit is a floating-point literal.
type FloatLit struct {
	Token token.Token
	Value float64
}

func (n *FloatLit) TokenLiteral() string  { return n.Token.Literal }
func (n *FloatLit) GetToken() token.Token { return n.Token }
func (n *FloatLit) expressionNode()       {}
func (n *FloatLit) String() string        { return n.Token.Literal }

// StrLit is a string literal.
type StrLit struct {
	Token token.Token
	Value string
}

func (n *StrLit) TokenLiteral() string  { return n.Token.Literal }
func (n *StrLit) GetToken() token.Token { return n.Token }
func (n *StrLit) expressionNode()       {}
func (n *StrLit) String() string        { return fmt.Sprintf("%q", n.Value) }

// NullLit is the `null` literal.
type NullLit struct {
	Token token.Token
}

func (n *NullLit) TokenLiteral() string  { return n.Token.Literal }
func (n *NullLit) GetToken() token.Token { return n.Token }
func (n *NullLit) expressionNode()       {}
func (n *NullLit) String() string        { return "null" }

// BinOp is a binary expression.
type BinOp struct {
	Token token.Token
	Op    string
	Left  Expression
	Right Expression
}

func (b *BinOp) TokenLiteral() string  { return b.Token.Literal }
func (b *BinOp) GetToken() token.Token { return b.Token }
func (b *BinOp) expressionNode()       {}
func (b *BinOp) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Left.String(), b.Op, b.Right.String())
}

// UnOp is a prefix unary expression (`- ! ~`).
type UnOp struct {
	Token token.Token
	Op    string
	Right Expression
}

func (u *UnOp) TokenLiteral() string  { return u.Token.Literal }
func (u *UnOp) GetToken() token.Token { return u.Token }
func (u *UnOp) expressionNode()       {}
func (u *UnOp) String() string        { return fmt.Sprintf("(%s%s)", u.Op, u.Right.String()) }

// Copy is the `copy expr` prefix expression.
type Copy struct {
	Token token.Token
	Right Expression
}

func (c *Copy) TokenLiteral() string  { return c.Token.Literal }
func (c *Copy) GetToken() token.Token { return c.Token }
func (c *Copy) expressionNode()       {}
func (c *Copy) String() string        { return "copy " + c.Right.String() }

// Move is the `move expr` prefix expression.
type Move struct {
	Token token.Token
	Right Expression
}

func (m *Move) TokenLiteral() string  { return m.Token.Literal }
func (m *Move) GetToken() token.Token { return m.Token }
func (m *Move) expressionNode()       {}
func (m *Move) String() string        { return "move " + m.Right.String() }

// Call is a function/pattern/type call `callee(args...)`.
type Call struct {
	Token    token.Token
	Callee   Expression
	Args     []Expression
	ArgNames []string // parallel to Args; empty string for positional args
}

func (c *Call) TokenLiteral() string  { return c.Token.Literal }
func (c *Call) GetToken() token.Token { return c.Token }
func (c *Call) expressionNode()       {}
func (c *Call) String() string {
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", c.Callee.String(), strings.Join(parts, ", "))
}

// Member is `expr.name` field/method access.
type Member struct {
	Token  token.Token
	Object Expression
	Name   string
}

func (m *Member) TokenLiteral() string  { return m.Token.Literal }
func (m *Member) GetToken() token.Token { return m.Token }
func (m *Member) expressionNode()       {}
func (m *Member) String() string        { return m.Object.String() + "." + m.Name }

// Index is `expr[index]` tuple/subscript access.
type Index struct {
	Token token.Token
	Left  Expression
	Index Expression
}

func (ix *Index) TokenLiteral() string  { return ix.Token.Literal }
func (ix *Index) GetToken() token.Token { return ix.Token }
func (ix *Index) expressionNode()       {}
func (ix *Index) String() string        { return ix.Left.String() + "[" + ix.Index.String() + "]" }

// Tuple is a tuple literal; elements may individually be named.
type Tuple struct {
	Token    token.Token
	Elements []Expression
	Names    []string // parallel to Elements; empty string for unnamed
}

func (t *Tuple) TokenLiteral() string  { return t.Token.Literal }
func (t *Tuple) GetToken() token.Token { return t.Token }
func (t *Tuple) expressionNode()       {}
func (t *Tuple) String() string {
	parts := make([]string, len(t.Elements))
	for i, e := range t.Elements {
		if i < len(t.Names) && t.Names[i] != "" {
			parts[i] = t.Names[i] + ":" + e.String()
		} else {
			parts[i] = e.String()
		}
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// TemplateInst is a postfix `base<Type, ...>` template instantiation.
type TemplateInst struct {
	Token     token.Token
	Base      Expression
	TypeArgs  []*TypeAnn
}

func (t *TemplateInst) TokenLiteral() string  { return t.Token.Literal }
func (t *TemplateInst) GetToken() token.Token { return t.Token }
func (t *TemplateInst) expressionNode()       {}
func (t *TemplateInst) String() string {
	parts := make([]string, len(t.TypeArgs))
	for i, a := range t.TypeArgs {
		parts[i] = a.Name
	}
	return fmt.Sprintf("%s<%s>", t.Base.String(), strings.Join(parts, ", "))
}

// TemplateDecl records a `<T, U>` template parameter list attached to a
// function or pattern declaration. Parsed and stored, never monomorphized
// (see the evaluator's handling of TemplateInst).
type TemplateDecl struct {
	Token token.Token
	Names []string
}

func (t *TemplateDecl) TokenLiteral() string  { return t.Token.Literal }
func (t *TemplateDecl) GetToken() token.Token { return t.Token }
func (t *TemplateDecl) String() string        { return "<" + strings.Join(t.Names, ", ") + ">" }

// For is a for-loop `for x iterable { body }`, iterating a tuple's
// elements or an integer range. Conditional loops use While below.
type For struct {
	Token    token.Token
	Var      string
	Iterable Expression
	Body     *Block
}

func (f *For) TokenLiteral() string  { return f.Token.Literal }
func (f *For) GetToken() token.Token { return f.Token }
func (f *For) statementNode()        {}
func (f *For) expressionNode()       {}
func (f *For) String() string {
	return fmt.Sprintf("for %s %s %s", f.Var, f.Iterable.String(), f.Body.String())
}

// While is a while-loop with an optional leading and/or trailing
// condition.
type While struct {
	Token      token.Token
	Leading    Expression // nil if absent
	Trailing   Expression // nil if absent
	Body       *Block
}

func (w *While) TokenLiteral() string  { return w.Token.Literal }
func (w *While) GetToken() token.Token { return w.Token }
func (w *While) statementNode()        {}
func (w *While) expressionNode()       {}
func (w *While) String() string        { return "while " + w.Body.String() }

// Case is a single `case expr: body` arm of a Switch; a nil Cond marks the
// default arm.
type Case struct {
	Token token.Token
	Cond  Expression // nil for `default`
	Body  *Block
}

func (c *Case) TokenLiteral() string  { return c.Token.Literal }
func (c *Case) GetToken() token.Token { return c.Token }
func (c *Case) String() string {
	if c.Cond == nil {
		return "default: " + c.Body.String()
	}
	return "case " + c.Cond.String() + ": " + c.Body.String()
}

// Switch evaluates Tag then walks Cases in order for the first match.
type Switch struct {
	Token token.Token
	Tag   Expression
	Cases []*Case
}

func (s *Switch) TokenLiteral() string  { return s.Token.Literal }
func (s *Switch) GetToken() token.Token { return s.Token }
func (s *Switch) statementNode()        {}
func (s *Switch) expressionNode()       {}
func (s *Switch) String() string        { return "switch (" + s.Tag.String() + ")" }

// Break exits the nearest enclosing loop/switch.
type Break struct {
	Token token.Token
}

func (b *Break) TokenLiteral() string  { return b.Token.Literal }
func (b *Break) GetToken() token.Token { return b.Token }
func (b *Break) statementNode()        {}
func (b *Break) String() string        { return "break" }

// Yield overwrites the accumulated loop result with Value and continues.
type Yield struct {
	Token token.Token
	Value Expression // nil means yield null
}

func (y *Yield) TokenLiteral() string  { return y.Token.Literal }
func (y *Yield) GetToken() token.Token { return y.Token }
func (y *Yield) statementNode()        {}
func (y *Yield) String() string {
	if y.Value == nil {
		return "yield"
	}
	return "yield " + y.Value.String()
}

// Return exits the enclosing function with an optional value.
type Return struct {
	Token token.Token
	Value Expression // nil means bare `return`
}

func (r *Return) TokenLiteral() string  { return r.Token.Literal }
func (r *Return) GetToken() token.Token { return r.Token }
func (r *Return) statementNode()        {}
func (r *Return) String() string {
	if r.Value == nil {
		return "return"
	}
	return "return " + r.Value.String()
}

// Optional is the ternary `cond ? then : else` optional expression.
type Optional struct {
	Token token.Token
	Cond  Expression
	Then  Expression
	Else  Expression // nil means "absent" -> null
}

func (o *Optional) TokenLiteral() string  { return o.Token.Literal }
func (o *Optional) GetToken() token.Token { return o.Token }
func (o *Optional) expressionNode()       {}
func (o *Optional) String() string {
	elseStr := "null"
	if o.Else != nil {
		elseStr = o.Else.String()
	}
	return fmt.Sprintf("(%s ? %s : %s)", o.Cond.String(), o.Then.String(), elseStr)
}

// Assign is `target = expr`, itself expression-valued.
type Assign struct {
	Token  token.Token
	Target Expression
	Value  Expression
}

func (a *Assign) TokenLiteral() string  { return a.Token.Literal }
func (a *Assign) GetToken() token.Token { return a.Token }
func (a *Assign) expressionNode()       {}
func (a *Assign) String() string {
	return fmt.Sprintf("%s = %s", a.Target.String(), a.Value.String())
}
