package parser

import (
	"github.com/shapescript/shapescript/ast"
	"github.com/shapescript/shapescript/errs"
	"github.com/shapescript/shapescript/source"
	"github.com/shapescript/shapescript/token"
)

// parseValueExpr parses one juxtaposed expression list and wraps it as a
// single value: a bare Expr if it has one element, or an ast.TupleExpr if
// it has more than one (spec.md §4.3's "expression position" juxtaposition
// rule — `1 2 3` used as a value is a 3-tuple).
func (p *Parser) parseValueExpr() ast.Expr {
	elems := p.parseExprList()
	switch len(elems) {
	case 0:
		return nil
	case 1:
		return elems[0]
	default:
		return &ast.TupleExpr{
			Elems: elems,
			Range: source.Range{Start: elems[0].Pos().Start, End: elems[len(elems)-1].Pos().End},
		}
	}
}

// parseExprList collects space-separated expressions at the top precedence
// level until a statement terminator, a closing bracket, or a comma is
// reached. Used both to build a value tuple (parseValueExpr) and, raw, as a
// command's juxtaposed argument list ("statement position").
func (p *Parser) parseExprList() []ast.Expr {
	var elems []ast.Expr
	for p.startsExpr() {
		e := p.parseExpr()
		if e == nil {
			break
		}
		elems = append(elems, e)
	}
	return elems
}

// startsExpr reports whether the current token could begin a new
// juxtaposed element, stopping the list at statement/argument boundaries.
func (p *Parser) startsExpr() bool {
	switch p.peek().Kind {
	case token.LineBreak, token.EOF, token.RBrace, token.RParen, token.RBracket, token.Comma, token.LBrace:
		return false
	case token.KwElse:
		return false
	default:
		return true
	}
}

// parseExpr parses a single expression at the loosest precedence level
// (range construction and membership testing).
func (p *Parser) parseExpr() ast.Expr {
	return p.parseRange()
}

// parseRange handles `from to to [step step]` and `value in iterable`.
func (p *Parser) parseRange() ast.Expr {
	left := p.parseBoolean()
	if left == nil {
		return nil
	}
	if p.check(token.KwTo) {
		p.advance()
		to := p.parseBoolean()
		var step ast.Expr
		if p.check(token.KwStep) {
			p.advance()
			step = p.parseBoolean()
		}
		end := left.Pos().Start
		if step != nil {
			end = step.Pos().End
		} else if to != nil {
			end = to.Pos().End
		}
		return &ast.RangeExpr{From: left, To: to, Step: step, Range: source.Range{Start: left.Pos().Start, End: end}}
	}
	if p.check(token.KwIn) {
		p.advance()
		right := p.parseBoolean()
		end := left.Pos().End
		if right != nil {
			end = right.Pos().End
		}
		return &ast.InfixExpr{Left: left, Op: token.KwIn, Right: right, Range: source.Range{Start: left.Pos().Start, End: end}}
	}
	return left
}

func (p *Parser) parseBoolean() ast.Expr {
	left := p.parseComparison()
	for p.check(token.KwAnd) || p.check(token.KwOr) {
		op := p.advance().Kind
		right := p.parseComparison()
		left = p.binary(left, op, right)
	}
	return left
}

// parseComparison implements non-associative comparison: `=`, `<>`, `<`,
// `<=`, `>`, `>=` may each appear once in a chain; a second one is a parse
// error (spec.md §4.3 "chained comparison illegal").
func (p *Parser) parseComparison() ast.Expr {
	left := p.parseAdditive()
	if !p.isComparisonOp(p.peek().Kind) {
		return left
	}
	op := p.advance().Kind
	right := p.parseAdditive()
	result := p.binary(left, op, right)
	if p.isComparisonOp(p.peek().Kind) {
		p.errorHere(errs.UnexpectedToken, "comparisons cannot be chained")
		p.advance()
		p.parseAdditive()
	}
	return result
}

func (p *Parser) isComparisonOp(k token.Kind) bool {
	switch k {
	case token.Assign, token.NotEqual, token.Less, token.LessEq, token.Greater, token.GreaterEq:
		return true
	}
	return false
}

// parseAdditive only consumes `+`/`-` as infix when the operator has
// whitespace on both sides (spec.md §4.2/§4.3: "with whitespace on both
// sides it is an infix operator"). A sign glued to the following operand
// (no SpaceAfter) is left for parseUnary to pick up as that operand's
// literal sign instead, so `point 0 -1` juxtaposes two arguments (`0`,
// `-1`) rather than folding into a single InfixExpr.
func (p *Parser) parseAdditive() ast.Expr {
	left := p.parseMultiplicative()
	for (p.check(token.Plus) || p.check(token.Minus)) && p.peek().SpaceBefore && p.peek().SpaceAfter {
		op := p.advance().Kind
		right := p.parseMultiplicative()
		left = p.binary(left, op, right)
	}
	return left
}

func (p *Parser) parseMultiplicative() ast.Expr {
	left := p.parseUnary()
	for p.check(token.Star) || p.check(token.Slash) || p.check(token.Percent) {
		op := p.advance().Kind
		right := p.parseUnary()
		left = p.binary(left, op, right)
	}
	return left
}

func (p *Parser) parseUnary() ast.Expr {
	if p.check(token.Minus) || p.check(token.Plus) || p.check(token.KwNot) {
		start := p.peek().Range.Start
		op := p.advance().Kind
		operand := p.parseUnary()
		end := start
		if operand != nil {
			end = operand.Pos().End
		}
		return &ast.PrefixExpr{Op: op, Operand: operand, Range: source.Range{Start: start, End: end}}
	}
	return p.parsePostfix()
}

func (p *Parser) binary(left ast.Expr, op token.Kind, right ast.Expr) ast.Expr {
	if left == nil {
		return right
	}
	start := left.Pos().Start
	end := left.Pos().End
	if right != nil {
		end = right.Pos().End
	}
	return &ast.InfixExpr{Left: left, Op: op, Right: right, Range: source.Range{Start: start, End: end}}
}

// parsePostfix handles member access, subscript, and tight C-style calls.
func (p *Parser) parsePostfix() ast.Expr {
	expr := p.parsePrimary()
	for expr != nil {
		switch {
		case p.check(token.Dot):
			p.advance()
			if !p.check(token.Identifier) {
				p.errorHere(errs.ExpectedExpression, "expected a member name after '.'")
				return expr
			}
			name := p.advance()
			expr = &ast.MemberExpr{Target: expr, Name: name.Text, Range: source.Range{Start: expr.Pos().Start, End: name.Range.End}}
		case p.check(token.LBracket) && !p.tokens[p.pos].SpaceBefore:
			p.advance()
			index := p.parseExpr()
			endTok := p.peek()
			p.expect(token.RBracket, "missing closing ']'")
			end := endTok.Range.End
			expr = &ast.SubscriptExpr{Target: expr, Index: index, Range: source.Range{Start: expr.Pos().Start, End: end}}
		default:
			return expr
		}
	}
	return expr
}

// parsePrimary parses literals, identifiers/calls, grouping, and block-call
// expressions.
func (p *Parser) parsePrimary() ast.Expr {
	tok := p.peek()
	switch tok.Kind {
	case token.Number:
		p.advance()
		return &ast.Literal{Kind: token.Number, Text: tok.Text, Number: tok.Number, Range: tok.Range}
	case token.String:
		p.advance()
		return &ast.Literal{Kind: token.String, Text: tok.Text, Str: tok.Str, Range: tok.Range}
	case token.HexColor:
		p.advance()
		return &ast.Literal{Kind: token.HexColor, Text: tok.Text, Str: tok.Str, Range: tok.Range}
	case token.LParen:
		return p.parseGrouping()
	case token.Identifier:
		return p.parseIdentOrCall()
	default:
		return nil
	}
}

// parseGrouping parses `(expr)` or `(expr expr ...)`, the latter forming a
// tuple regardless of surrounding statement context.
func (p *Parser) parseGrouping() ast.Expr {
	start := p.peek().Range.Start
	p.advance() // '('
	p.parenDepth++
	var elems []ast.Expr
	p.skipSeparators()
	for !p.check(token.RParen) && !p.atEOF() {
		e := p.parseExpr()
		if e == nil {
			break
		}
		elems = append(elems, e)
		p.skipSeparators()
		if p.check(token.Comma) {
			p.advance()
			p.skipSeparators()
			continue
		}
	}
	end := p.peek().Range.End
	p.expect(token.RParen, "missing closing ')'")
	p.parenDepth--
	switch len(elems) {
	case 0:
		p.errorAt(errs.ExpectedExpression, source.Range{Start: start, End: end}, "expected an expression inside '()'")
		return nil
	case 1:
		return elems[0]
	default:
		return &ast.TupleExpr{Elems: elems, Range: source.Range{Start: start, End: end}}
	}
}

// parseIdentOrCall parses a bare identifier, a C-style call `name(args)`
// (only when the '(' immediately follows with no space), or a block-call
// expression `name { body }` used in expression position; no arguments
// are collected for the block-call form.
func (p *Parser) parseIdentOrCall() ast.Expr {
	start := p.peek()
	name := p.advance().Text

	if p.check(token.LParen) && !p.tokens[p.pos].SpaceBefore {
		p.advance()
		p.parenDepth++
		var args []ast.Expr
		p.skipSeparators()
		for !p.check(token.RParen) && !p.atEOF() {
			arg := p.parseExpr()
			if arg == nil {
				break
			}
			args = append(args, arg)
			p.skipSeparators()
			if p.check(token.Comma) {
				p.advance()
				p.skipSeparators()
			}
		}
		end := p.peek().Range.End
		p.expect(token.RParen, "missing closing ')' in call to %s", name)
		p.parenDepth--
		return &ast.CallExpr{Name: name, Args: args, Range: source.Range{Start: start.Range.Start, End: end}}
	}

	if p.check(token.LBrace) {
		body := p.parseBlock()
		return &ast.BlockCallExpr{Name: name, Body: body, Range: source.Range{Start: start.Range.Start, End: body.Pos().End}}
	}

	return &ast.Ident{Name: name, Range: start.Range}
}
