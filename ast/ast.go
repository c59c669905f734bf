// Package ast defines the ShapeScript abstract syntax tree (spec.md §3).
package ast

import (
	"github.com/shapescript/shapescript/source"
	"github.com/shapescript/shapescript/token"
)

// Node is implemented by every AST node.
type Node interface {
	Pos() source.Range
}

// Stmt is implemented by statement nodes: define, option, forLoop, ifElse,
// import, command, expressionStatement, block.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is implemented by expression nodes: literal, identifier, tuple,
// member, subscript, range, infix, prefix, functionCall, blockCall.
type Expr interface {
	Node
	exprNode()
}

// Program is the root of a parsed ShapeScript source file.
type Program struct {
	Statements []Stmt
	Range      source.Range
}

func (p *Program) Pos() source.Range { return p.Range }

// Block is a brace-delimited sequence of statements; it is also a Stmt in
// its own right when it appears as a standalone grouping construct (the
// body of for/if/define/commands with trailing blocks reuse it directly).
type Block struct {
	Statements []Stmt
	Range      source.Range
}

func (b *Block) Pos() source.Range { return b.Range }
func (b *Block) stmtNode()         {}

// DefineStmt binds NAME to a value, a block thunk, or a function.
//
//	define NAME value_or_block
//	define NAME(params) body
type DefineStmt struct {
	Name   string
	Params []string // non-nil (empty for the block form) for the function and block forms
	Value  Expr      // set for the plain value form
	Body   *Block    // set for the function and block forms
	Range  source.Range
}

func (d *DefineStmt) Pos() source.Range { return d.Range }
func (d *DefineStmt) stmtNode()         {}

// IsFunction reports whether this define introduces a callable function or
// block (Params non-nil, even if empty) rather than a plain value binding.
func (d *DefineStmt) IsFunction() bool { return d.Params != nil }

// OptionStmt declares a block parameter with a default value. Legal only at
// the top of a block's body (spec.md §4.3, §4.6 invalidOption).
type OptionStmt struct {
	Name    string
	Default Expr
	Range   source.Range
}

func (o *OptionStmt) Pos() source.Range { return o.Range }
func (o *OptionStmt) stmtNode()         {}

// ForStmt is `for [NAME in] range_or_iterable { body }`.
type ForStmt struct {
	Var      string // "" if the loop variable is omitted
	Iterable Expr
	Body     *Block
	Range    source.Range
}

func (f *ForStmt) Pos() source.Range { return f.Range }
func (f *ForStmt) stmtNode()         {}

// IfStmt is `if expr { body } [else if ... | else { body }]`. Else is nil,
// a *Block, or another *IfStmt.
type IfStmt struct {
	Cond  Expr
	Then  *Block
	Else  Stmt
	Range source.Range
}

func (i *IfStmt) Pos() source.Range { return i.Range }
func (i *IfStmt) stmtNode()         {}

// ImportStmt is `import "path"`.
type ImportStmt struct {
	Path  Expr
	Range source.Range
}

func (im *ImportStmt) Pos() source.Range { return im.Range }
func (im *ImportStmt) stmtNode()         {}

// CommandStmt invokes a command or block/function by name with a
// juxtaposed argument list whose length is resolved by the callee's arity,
// optionally followed by a trailing brace body (for blocks: `cube { ... }`).
type CommandStmt struct {
	Name  string
	Args  []Expr
	Body  *Block // non-nil when followed by `{ ... }`
	Range source.Range
}

func (c *CommandStmt) Pos() source.Range { return c.Range }
func (c *CommandStmt) stmtNode()         {}

// ExprStmt is a bare expression used as a statement (e.g. a `define`d
// constant referenced alone on a line).
type ExprStmt struct {
	Expr  Expr
	Range source.Range
}

func (e *ExprStmt) Pos() source.Range { return e.Range }
func (e *ExprStmt) stmtNode()         {}

// Literal is a number, string, or hex color literal.
type Literal struct {
	Kind   token.Kind // Number, String, or HexColor
	Text   string
	Number float64
	Str    string
	Range  source.Range
}

func (l *Literal) Pos() source.Range { return l.Range }
func (l *Literal) exprNode()         {}

// Ident is a bare identifier reference.
type Ident struct {
	Name  string
	Range source.Range
}

func (i *Ident) Pos() source.Range { return i.Range }
func (i *Ident) exprNode()         {}

// TupleExpr is a juxtaposed sequence of expressions in expression position
// (`1 2 3`), the universal compound value constructor.
type TupleExpr struct {
	Elems []Expr
	Range source.Range
}

func (t *TupleExpr) Pos() source.Range { return t.Range }
func (t *TupleExpr) exprNode()         {}

// MemberExpr is `target.name`.
type MemberExpr struct {
	Target Expr
	Name   string
	Range  source.Range
}

func (m *MemberExpr) Pos() source.Range { return m.Range }
func (m *MemberExpr) exprNode()         {}

// SubscriptExpr is `target[index]`.
type SubscriptExpr struct {
	Target Expr
	Index  Expr
	Range  source.Range
}

func (s *SubscriptExpr) Pos() source.Range { return s.Range }
func (s *SubscriptExpr) exprNode()         {}

// RangeExpr is `from to to [step step]`, inclusive of both endpoints.
type RangeExpr struct {
	From  Expr
	To    Expr
	Step  Expr // nil if omitted (defaults to 1)
	Range source.Range
}

func (r *RangeExpr) Pos() source.Range { return r.Range }
func (r *RangeExpr) exprNode()         {}

// InfixExpr is a binary operator expression: arithmetic, comparison,
// equality, `and`/`or`, or `in`.
type InfixExpr struct {
	Left  Expr
	Op    token.Kind
	Right Expr
	Range source.Range
}

func (b *InfixExpr) Pos() source.Range { return b.Range }
func (b *InfixExpr) exprNode()         {}

// PrefixExpr is a unary operator expression: `-x`, `+x`, or `not x`.
type PrefixExpr struct {
	Op      token.Kind
	Operand Expr
	Range   source.Range
}

func (p *PrefixExpr) Pos() source.Range { return p.Range }
func (p *PrefixExpr) exprNode()         {}

// CallExpr is a C-style call `name(args)` — only valid when there is no
// whitespace between the name and the opening paren (spec.md §4.3).
type CallExpr struct {
	Name  string
	Args  []Expr
	Range source.Range
}

func (c *CallExpr) Pos() source.Range { return c.Range }
func (c *CallExpr) exprNode()         {}

// BlockCallExpr is a named block or function invoked in expression
// position with a juxtaposed argument list and/or trailing body, e.g.
// `star { points 6 }` used as a value.
type BlockCallExpr struct {
	Name  string
	Args  []Expr
	Body  *Block
	Range source.Range
}

func (b *BlockCallExpr) Pos() source.Range { return b.Range }
func (b *BlockCallExpr) exprNode()         {}
