package eval

import (
	"fmt"

	"github.com/shapescript/shapescript/ast"
	"github.com/shapescript/shapescript/errs"
	"github.com/shapescript/shapescript/scene"
	"github.com/shapescript/shapescript/stdlib"
	"github.com/shapescript/shapescript/token"
	"github.com/shapescript/shapescript/value"
)

// evalExpr evaluates e to a runtime Value under sc (spec.md §4.4, §4.7).
func evalExpr(e ast.Expr, sc *Scope) (value.Value, error) {
	switch x := e.(type) {
	case *ast.Literal:
		return evalLiteral(x)
	case *ast.Ident:
		return evalIdent(x, sc)
	case *ast.TupleExpr:
		elems := make([]value.Value, len(x.Elems))
		for i, el := range x.Elems {
			v, err := evalExpr(el, sc)
			if err != nil {
				return value.Value{}, err
			}
			elems[i] = v
		}
		return value.Tuple(elems...), nil
	case *ast.MemberExpr:
		target, err := evalExpr(x.Target, sc)
		if err != nil {
			return value.Value{}, err
		}
		v, ok := target.Member(x.Name)
		if !ok {
			return value.Value{}, errs.Newf(errs.UnknownMember, x.Range, "unknown member %q", x.Name)
		}
		return v, nil
	case *ast.SubscriptExpr:
		target, err := evalExpr(x.Target, sc)
		if err != nil {
			return value.Value{}, err
		}
		idx, err := evalExpr(x.Index, sc)
		if err != nil {
			return value.Value{}, err
		}
		v, err := target.Subscript(idx)
		if err != nil {
			return value.Value{}, errs.Newf(errs.IndexOutOfRange, x.Range, "%v", err)
		}
		return v, nil
	case *ast.RangeExpr:
		return evalRange(x, sc)
	case *ast.InfixExpr:
		return evalInfix(x, sc)
	case *ast.PrefixExpr:
		return evalPrefix(x, sc)
	case *ast.CallExpr:
		return evalCallExpr(x, sc)
	case *ast.BlockCallExpr:
		return evalBlockCallExpr(x, sc)
	default:
		return value.Value{}, fmt.Errorf("eval: unhandled expression %T", e)
	}
}

func evalLiteral(l *ast.Literal) (value.Value, error) {
	switch l.Kind {
	case token.Number:
		return value.Number(l.Number), nil
	case token.String:
		return value.String(l.Str), nil
	case token.HexColor:
		if c, ok := value.ParseHexColor(l.Str); ok {
			return c, nil
		}
		return value.Value{}, errs.Newf(errs.InvalidNumber, l.Range, "invalid color literal %q", l.Text)
	default:
		return value.Value{}, fmt.Errorf("eval: unhandled literal kind %s", l.Kind)
	}
}

func evalIdent(x *ast.Ident, sc *Scope) (value.Value, error) {
	if x.Name == "rnd" {
		return value.Number(sc.rnd()), nil
	}
	if sym, ok := sc.Lookup(x.Name); ok && sym.Kind == stdlib.Constant {
		return sym.Const, nil
	}
	if b, ok := sc.blocks.lookup(x.Name); ok {
		return invokeBlockAsValue(b, nil, nil, sc, x.Range)
	}
	return value.Value{}, errs.Newf(errs.UnknownSymbol, x.Range, "unknown symbol %q", x.Name)
}

func evalRange(x *ast.RangeExpr, sc *Scope) (value.Value, error) {
	from, err := evalExpr(x.From, sc)
	if err != nil {
		return value.Value{}, err
	}
	to, err := evalExpr(x.To, sc)
	if err != nil {
		return value.Value{}, err
	}
	step := 1.0
	if x.Step != nil {
		s, err := evalExpr(x.Step, sc)
		if err != nil {
			return value.Value{}, err
		}
		step = s.Number()
	}
	return value.Range(from.Number(), to.Number(), step), nil
}

// evalArith dispatches a binary arithmetic operator to its value.* form,
// all of which share the signature (Value, Value) -> (Value, error).
func evalArith(op token.Kind, left, right value.Value) (value.Value, error) {
	switch op {
	case token.Plus:
		return value.Add(left, right)
	case token.Minus:
		return value.Sub(left, right)
	case token.Star:
		return value.Mul(left, right)
	case token.Slash:
		return value.Div(left, right)
	default:
		return value.Mod(left, right)
	}
}

func evalPrefix(x *ast.PrefixExpr, sc *Scope) (value.Value, error) {
	operand, err := evalExpr(x.Operand, sc)
	if err != nil {
		return value.Value{}, err
	}
	switch x.Op {
	case token.Minus:
		out, err := value.Neg(operand)
		if err != nil {
			return value.Value{}, errs.Newf(errs.TypeMismatch, x.Range, "%v", err)
		}
		return out, nil
	case token.Plus:
		return operand, nil
	case token.KwNot:
		return value.Bool(!truthy(operand)), nil
	default:
		return value.Value{}, fmt.Errorf("eval: unhandled prefix operator %s", x.Op)
	}
}

func evalInfix(x *ast.InfixExpr, sc *Scope) (value.Value, error) {
	left, err := evalExpr(x.Left, sc)
	if err != nil {
		return value.Value{}, err
	}

	// and/or short-circuit: the right operand is only evaluated when it
	// can affect the result (spec.md §4.4).
	switch x.Op {
	case token.KwAnd:
		if !truthy(left) {
			return value.Bool(false), nil
		}
		right, err := evalExpr(x.Right, sc)
		if err != nil {
			return value.Value{}, err
		}
		return value.Bool(truthy(right)), nil
	case token.KwOr:
		if truthy(left) {
			return value.Bool(true), nil
		}
		right, err := evalExpr(x.Right, sc)
		if err != nil {
			return value.Value{}, err
		}
		return value.Bool(truthy(right)), nil
	}

	right, err := evalExpr(x.Right, sc)
	if err != nil {
		return value.Value{}, err
	}

	switch x.Op {
	case token.Plus, token.Minus, token.Star, token.Slash, token.Percent:
		out, err := evalArith(x.Op, left, right)
		if err != nil {
			return value.Value{}, errs.Newf(errs.TypeMismatch, x.Range, "%v", err)
		}
		return out, nil
	case token.Assign:
		return value.Bool(value.Equal(left, right)), nil
	case token.NotEqual:
		return value.Bool(!value.Equal(left, right)), nil
	case token.Less, token.LessEq, token.Greater, token.GreaterEq:
		cmp, ok := value.Compare(left, right)
		if !ok {
			return value.Value{}, errs.Newf(errs.TypeMismatch, x.Range, "cannot compare %s with %s", left.Kind(), right.Kind())
		}
		switch x.Op {
		case token.Less:
			return value.Bool(cmp < 0), nil
		case token.LessEq:
			return value.Bool(cmp <= 0), nil
		case token.Greater:
			return value.Bool(cmp > 0), nil
		default:
			return value.Bool(cmp >= 0), nil
		}
	case token.KwIn:
		ok, err := value.In(left, right)
		if err != nil {
			return value.Value{}, errs.Newf(errs.TypeMismatch, x.Range, "%v", err)
		}
		return value.Bool(ok), nil
	default:
		return value.Value{}, fmt.Errorf("eval: unhandled infix operator %s", x.Op)
	}
}

// evalCallExpr handles a C-style call in expression position: a pure
// stdlib function, or (as a convenience) a user block invoked as a
// function (spec.md §4.3).
func evalCallExpr(x *ast.CallExpr, sc *Scope) (value.Value, error) {
	if x.Name == "rnd" {
		return value.Number(sc.rnd()), nil
	}
	args := make([]value.Value, len(x.Args))
	for i, a := range x.Args {
		v, err := evalExpr(a, sc)
		if err != nil {
			return value.Value{}, err
		}
		args[i] = v
	}
	if sym, ok := sc.Lookup(x.Name); ok && sym.Kind == stdlib.Function {
		v, err := sym.Func(args)
		if err != nil {
			return value.Value{}, errs.Newf(errs.TypeMismatch, x.Range, "%v", err)
		}
		return v, nil
	}
	if b, ok := sc.blocks.lookup(x.Name); ok {
		return invokeBlockAsValue(b, args, nil, sc, x.Range)
	}
	return value.Value{}, errs.Newf(errs.UnknownSymbol, x.Range, "unknown function %q", x.Name)
}

// evalBlockCallExpr handles a named block invoked in expression position
// (`star { points 6 }` used as a value): if it names a shape/builder/CSG
// command it is dispatched exactly as evalCommand would, and the sole
// produced geometry node's mesh-ish value is returned (wrapped so its
// members, e.g. `.points`, remain accessible); a user block is invoked the
// same way as evalCommand's user-block path. Zero or multiple produced
// nodes coerce to Unset, since the value model has no "list of geometry"
// variant (documented simplification).
func evalBlockCallExpr(x *ast.BlockCallExpr, sc *Scope) (value.Value, error) {
	asCommand := &ast.CommandStmt{Name: x.Name, Args: x.Args, Body: x.Body, Range: x.Range}
	var children []*scene.Geometry
	if err := evalCommand(asCommand, sc, &children); err != nil {
		return value.Value{}, err
	}
	if len(children) != 1 {
		return value.Unset, nil
	}
	return geometryAsValue(children[0]), nil
}
