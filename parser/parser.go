// Package parser turns a ShapeScript token stream into an AST
// (spec.md §4.3).
package parser

import (
	"github.com/shapescript/shapescript/ast"
	"github.com/shapescript/shapescript/errs"
	"github.com/shapescript/shapescript/source"
	"github.com/shapescript/shapescript/token"
)

// Parser builds an *ast.Program from a flat token slice. Full type
// resolution of user `define`s is deferred to the analyzer; the parser
// resolves only the surface grammar (spec.md §4.3).
type Parser struct {
	tokens     []token.Token
	pos        int
	errors     errs.List
	parenDepth int
}

// New creates a Parser over tokens, as produced by lexer.Tokenize.
func New(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse lexes nothing further; it consumes the parser's token stream into
// a Program, or returns the accumulated errors.
func Parse(tokens []token.Token) (*ast.Program, errs.List) {
	p := New(tokens)
	prog := p.parseProgram()
	return prog, p.errors
}

func (p *Parser) parseProgram() *ast.Program {
	start := p.pos
	var stmts []ast.Stmt
	p.skipSeparators()
	for !p.atEOF() {
		stmt := p.parseStatement()
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
		if !p.atTerminator() && !p.atEOF() {
			p.errorHere(errs.UnexpectedToken, "unexpected token %s after statement", p.peek().Kind)
			p.synchronize()
		}
		p.skipSeparators()
	}
	return &ast.Program{
		Statements: stmts,
		Range:      source.Range{Start: p.tokens[start].Range.Start, End: p.lastEnd()},
	}
}

func (p *Parser) lastEnd() int {
	if len(p.tokens) == 0 {
		return 0
	}
	return p.tokens[len(p.tokens)-1].Range.End
}

// skipSeparators consumes blank statement-terminating line breaks.
func (p *Parser) skipSeparators() {
	for p.check(token.LineBreak) {
		p.advance()
	}
}

func (p *Parser) atTerminator() bool {
	return p.check(token.LineBreak) || p.check(token.EOF) || p.check(token.RBrace)
}

// parseStatement dispatches on the leading token of a line.
func (p *Parser) parseStatement() ast.Stmt {
	switch p.peek().Kind {
	case token.KwDefine:
		return p.parseDefine()
	case token.KwOption:
		return p.parseOption()
	case token.KwFor:
		return p.parseFor()
	case token.KwIf:
		return p.parseIf()
	case token.KwImport:
		return p.parseImport()
	case token.LBrace:
		block := p.parseBlock()
		return block
	case token.Identifier:
		return p.parseCommand()
	default:
		e := p.parseValueExpr()
		if e == nil {
			p.errorHere(errs.ExpectedExpression, "expected a statement, found %s", p.peek().Kind)
			p.synchronize()
			return nil
		}
		return &ast.ExprStmt{Expr: e, Range: e.Pos()}
	}
}

func (p *Parser) parseDefine() ast.Stmt {
	start := p.peek().Range.Start
	p.advance() // 'define'
	if !p.check(token.Identifier) {
		p.errorHere(errs.ExpectedExpression, "expected a name after 'define'")
		return nil
	}
	name := p.advance().Text

	// define NAME(params) body — parameters are space-separated, matching
	// the rest of the grammar's juxtaposition style; a comma between them
	// is also accepted.
	if p.check(token.LParen) && !p.tokens[p.pos].SpaceBefore {
		p.advance() // '('
		var params []string
		for p.check(token.Identifier) {
			params = append(params, p.advance().Text)
			p.match(token.Comma)
		}
		if !p.check(token.RParen) && !p.atEOF() {
			p.errorHere(errs.ExpectedExpression, "expected a parameter name or ')'")
		}
		p.expect(token.RParen, "missing closing ')' in parameter list")
		if params == nil {
			params = []string{}
		}
		body := p.parseBlock()
		return &ast.DefineStmt{Name: name, Params: params, Body: body, Range: source.Range{Start: start, End: p.lastConsumedEnd()}}
	}

	// define NAME { body } — a block, represented like the function form
	// with an empty parameter list.
	if p.check(token.LBrace) {
		body := p.parseBlock()
		return &ast.DefineStmt{Name: name, Params: []string{}, Body: body, Range: source.Range{Start: start, End: p.lastConsumedEnd()}}
	}

	value := p.parseValueExpr()
	if value == nil {
		p.errorHere(errs.ExpectedExpression, "expected a value after 'define %s'", name)
	}
	end := start
	if value != nil {
		end = value.Pos().End
	}
	return &ast.DefineStmt{Name: name, Value: value, Range: source.Range{Start: start, End: end}}
}

func (p *Parser) parseOption() ast.Stmt {
	start := p.peek().Range.Start
	p.advance() // 'option'
	if !p.check(token.Identifier) {
		p.errorHere(errs.ExpectedExpression, "expected a name after 'option'")
		return nil
	}
	name := p.advance().Text
	def := p.parseValueExpr()
	end := start
	if def != nil {
		end = def.Pos().End
	}
	return &ast.OptionStmt{Name: name, Default: def, Range: source.Range{Start: start, End: end}}
}

func (p *Parser) parseFor() ast.Stmt {
	start := p.peek().Range.Start
	p.advance() // 'for'

	varName := ""
	if p.check(token.Identifier) && p.peekAt(1).Kind == token.KwIn {
		varName = p.advance().Text
		p.advance() // 'in'
	}

	iterable := p.parseValueExpr()
	body := p.parseBlock()
	end := p.lastConsumedEnd()
	return &ast.ForStmt{Var: varName, Iterable: iterable, Body: body, Range: source.Range{Start: start, End: end}}
}

func (p *Parser) parseIf() ast.Stmt {
	start := p.peek().Range.Start
	p.advance() // 'if'
	cond := p.parseValueExpr()
	then := p.parseBlock()

	var elseStmt ast.Stmt
	if p.check(token.KwElse) {
		p.advance()
		if p.check(token.KwIf) {
			elseStmt = p.parseIf()
		} else {
			elseStmt = p.parseBlock()
		}
	}
	return &ast.IfStmt{Cond: cond, Then: then, Else: elseStmt, Range: source.Range{Start: start, End: p.lastConsumedEnd()}}
}

func (p *Parser) parseImport() ast.Stmt {
	start := p.peek().Range.Start
	p.advance() // 'import'
	pathExpr := p.parseValueExpr()
	end := start
	if pathExpr != nil {
		end = pathExpr.Pos().End
	}
	return &ast.ImportStmt{Path: pathExpr, Range: source.Range{Start: start, End: end}}
}

// parseCommand handles `NAME arg*  [{ body }]` at statement level: shape
// primitives, builders, CSG operators, structure nodes, and impure
// commands are syntactically identical at this level (spec.md §4.3).
func (p *Parser) parseCommand() ast.Stmt {
	start := p.peek().Range.Start
	name := p.advance().Text

	// C-style call with no space before '(' is still valid at statement
	// level; treat its argument list the same as juxtaposed args.
	var args []ast.Expr
	if p.check(token.LParen) && !p.tokens[p.pos].SpaceBefore {
		p.advance()
		p.parenDepth++
		p.skipSeparators()
		for !p.check(token.RParen) && !p.atEOF() {
			arg := p.parseExpr()
			if arg == nil {
				break
			}
			args = append(args, arg)
			p.skipSeparators()
			if p.check(token.Comma) {
				if p.peekAt(1).Kind == token.RParen {
					p.errorHere(errs.TrailingComma, "trailing comma in argument list")
				}
				p.advance()
				p.skipSeparators()
			}
		}
		p.expect(token.RParen, "missing closing ')' in call to %s", name)
		p.parenDepth--
	} else {
		args = p.parseExprList()
	}

	var body *ast.Block
	if p.check(token.LBrace) {
		body = p.parseBlock()
	}
	return &ast.CommandStmt{Name: name, Args: args, Body: body, Range: source.Range{Start: start, End: p.lastConsumedEnd()}}
}

// parseBlock parses a `{ ... }` body. Missing closing braces are reported
// but parsing still returns whatever statements were collected.
func (p *Parser) parseBlock() *ast.Block {
	start := p.peek().Range.Start
	if !p.expect(token.LBrace, "expected '{'") {
		return &ast.Block{Range: source.Range{Start: start, End: start}}
	}
	p.skipSeparators()
	var stmts []ast.Stmt
	for !p.check(token.RBrace) && !p.atEOF() {
		stmt := p.parseStatement()
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
		if !p.atTerminator() && !p.atEOF() {
			p.errorHere(errs.UnexpectedToken, "unexpected token %s in block", p.peek().Kind)
			p.synchronize()
		}
		p.skipSeparators()
	}
	end := p.peek().Range.End
	if !p.expect(token.RBrace, "missing closing '}'") {
		p.errorAt(errs.MissingClosingBrace, source.Range{Start: start, End: start + 1}, "missing closing '}' for block opened here")
	}
	return &ast.Block{Statements: stmts, Range: source.Range{Start: start, End: end}}
}

// synchronize skips tokens until a likely statement boundary, for error
// recovery after a parse error (mirrors wgsl.Parser.synchronize).
func (p *Parser) synchronize() {
	for !p.atEOF() {
		if p.check(token.LineBreak) || p.check(token.RBrace) {
			return
		}
		p.advance()
	}
}

func (p *Parser) lastConsumedEnd() int {
	if p.pos == 0 {
		return 0
	}
	return p.tokens[p.pos-1].Range.End
}

func (p *Parser) peek() token.Token { return p.tokens[p.pos] }

func (p *Parser) peekAt(n int) token.Token {
	idx := p.pos + n
	if idx >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[idx]
}

func (p *Parser) advance() token.Token {
	t := p.tokens[p.pos]
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) check(k token.Kind) bool { return p.peek().Kind == k }

func (p *Parser) match(k token.Kind) bool {
	if p.check(k) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) expect(k token.Kind, format string, args ...any) bool {
	if p.check(k) {
		p.advance()
		return true
	}
	p.errorHere(errs.UnexpectedToken, format, args...)
	return false
}

func (p *Parser) atEOF() bool { return p.peek().Kind == token.EOF }

func (p *Parser) errorHere(kind errs.Kind, format string, args ...any) {
	p.errorAt(kind, p.peek().Range, format, args...)
}

func (p *Parser) errorAt(kind errs.Kind, rng source.Range, format string, args ...any) {
	p.errors.Add(errs.Newf(kind, rng, format, args...))
}
