package parser

import (
	"testing"

	"github.com/shapescript/shapescript/ast"
	"github.com/shapescript/shapescript/lexer"
)

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	toks, lexErrs := lexer.Tokenize(src)
	if lexErrs.HasErrors() {
		t.Fatalf("lex errors: %v", lexErrs)
	}
	prog, errs := Parse(toks)
	if errs.HasErrors() {
		t.Fatalf("parse errors: %v", errs)
	}
	return prog
}

func TestParseDefineValue(t *testing.T) {
	prog := mustParse(t, "define x 5\n")
	if len(prog.Statements) != 1 {
		t.Fatalf("got %d statements, want 1", len(prog.Statements))
	}
	def, ok := prog.Statements[0].(*ast.DefineStmt)
	if !ok {
		t.Fatalf("got %T, want *ast.DefineStmt", prog.Statements[0])
	}
	if def.Name != "x" || def.IsFunction() {
		t.Fatalf("got %+v", def)
	}
	lit, ok := def.Value.(*ast.Literal)
	if !ok || lit.Number != 5 {
		t.Fatalf("got value %+v", def.Value)
	}
}

func TestParseDefineFunction(t *testing.T) {
	prog := mustParse(t, "define box(w h d) {\n  cube size w h d\n}\n")
	def := prog.Statements[0].(*ast.DefineStmt)
	if !def.IsFunction() {
		t.Fatalf("expected function define")
	}
	if len(def.Params) != 3 || def.Params[0] != "w" {
		t.Fatalf("got params %v", def.Params)
	}
	if len(def.Body.Statements) != 1 {
		t.Fatalf("got %d body statements", len(def.Body.Statements))
	}
}

func TestParseCommandJuxtaposedArgs(t *testing.T) {
	prog := mustParse(t, "cube size 1 2 3\n")
	cmd := prog.Statements[0].(*ast.CommandStmt)
	if cmd.Name != "cube" {
		t.Fatalf("got name %q", cmd.Name)
	}
	if len(cmd.Args) != 4 {
		t.Fatalf("got %d args, want 4 (size, 1, 2, 3 as juxtaposed elements)", len(cmd.Args))
	}
}

func TestParseCommandWithBody(t *testing.T) {
	prog := mustParse(t, "cube {\n  size 1 2 3\n  color red\n}\n")
	cmd := prog.Statements[0].(*ast.CommandStmt)
	if cmd.Body == nil {
		t.Fatalf("expected body")
	}
	if len(cmd.Body.Statements) != 2 {
		t.Fatalf("got %d body statements", len(cmd.Body.Statements))
	}
}

func TestParseTupleInExpressionPosition(t *testing.T) {
	prog := mustParse(t, "define p 1 2 3\n")
	def := prog.Statements[0].(*ast.DefineStmt)
	tup, ok := def.Value.(*ast.TupleExpr)
	if !ok {
		t.Fatalf("got %T, want *ast.TupleExpr", def.Value)
	}
	if len(tup.Elems) != 3 {
		t.Fatalf("got %d elements", len(tup.Elems))
	}
}

func TestParseForRange(t *testing.T) {
	prog := mustParse(t, "for i in 1 to 10 step 2 {\n  cube\n}\n")
	f := prog.Statements[0].(*ast.ForStmt)
	if f.Var != "i" {
		t.Fatalf("got var %q", f.Var)
	}
	rng, ok := f.Iterable.(*ast.RangeExpr)
	if !ok {
		t.Fatalf("got %T, want *ast.RangeExpr", f.Iterable)
	}
	if rng.Step == nil {
		t.Fatalf("expected a step expression")
	}
}

func TestParseIfElse(t *testing.T) {
	prog := mustParse(t, "if x > 0 {\n  cube\n} else {\n  sphere\n}\n")
	ifs := prog.Statements[0].(*ast.IfStmt)
	if ifs.Then == nil || ifs.Else == nil {
		t.Fatalf("got %+v", ifs)
	}
	cond, ok := ifs.Cond.(*ast.InfixExpr)
	if !ok || cond.Op.String() != ">" {
		t.Fatalf("got cond %+v", ifs.Cond)
	}
}

func TestParseChainedComparisonIsError(t *testing.T) {
	toks, _ := lexer.Tokenize("define x 1 < 2 < 3\n")
	_, errs := Parse(toks)
	if !errs.HasErrors() {
		t.Fatalf("expected a parse error for chained comparison")
	}
}

func TestParseMemberAndSubscript(t *testing.T) {
	prog := mustParse(t, "define x a.b[0]\n")
	def := prog.Statements[0].(*ast.DefineStmt)
	sub, ok := def.Value.(*ast.SubscriptExpr)
	if !ok {
		t.Fatalf("got %T, want *ast.SubscriptExpr", def.Value)
	}
	mem, ok := sub.Target.(*ast.MemberExpr)
	if !ok || mem.Name != "b" {
		t.Fatalf("got target %+v", sub.Target)
	}
}

func TestParseCStyleCall(t *testing.T) {
	prog := mustParse(t, "define x sin(90)\n")
	def := prog.Statements[0].(*ast.DefineStmt)
	call, ok := def.Value.(*ast.CallExpr)
	if !ok || call.Name != "sin" || len(call.Args) != 1 {
		t.Fatalf("got %+v", def.Value)
	}
}

func TestParseGroupingTuple(t *testing.T) {
	prog := mustParse(t, "define x (1 2 3)\n")
	def := prog.Statements[0].(*ast.DefineStmt)
	tup, ok := def.Value.(*ast.TupleExpr)
	if !ok || len(tup.Elems) != 3 {
		t.Fatalf("got %+v", def.Value)
	}
}

func TestParseOption(t *testing.T) {
	prog := mustParse(t, "option size 1\n")
	opt := prog.Statements[0].(*ast.OptionStmt)
	if opt.Name != "size" {
		t.Fatalf("got %+v", opt)
	}
}

func TestParseImport(t *testing.T) {
	prog := mustParse(t, "import \"shapes.shape\"\n")
	imp := prog.Statements[0].(*ast.ImportStmt)
	lit, ok := imp.Path.(*ast.Literal)
	if !ok || lit.Str != "shapes.shape" {
		t.Fatalf("got %+v", imp.Path)
	}
}

func TestParseBlockCallExpression(t *testing.T) {
	prog := mustParse(t, "define s star { points 6 }\n")
	def := prog.Statements[0].(*ast.DefineStmt)
	bc, ok := def.Value.(*ast.BlockCallExpr)
	if !ok || bc.Name != "star" {
		t.Fatalf("got %+v", def.Value)
	}
}

func TestParseMissingClosingBraceReported(t *testing.T) {
	toks, _ := lexer.Tokenize("cube {\n  size 1 2 3\n")
	_, errs := Parse(toks)
	if !errs.HasErrors() {
		t.Fatalf("expected a missing-brace error")
	}
}

func TestParseArithmeticPrecedence(t *testing.T) {
	prog := mustParse(t, "define x 1 + 2 * 3\n")
	def := prog.Statements[0].(*ast.DefineStmt)
	infix, ok := def.Value.(*ast.InfixExpr)
	if !ok || infix.Op.String() != "+" {
		t.Fatalf("got %+v", def.Value)
	}
	rhs, ok := infix.Right.(*ast.InfixExpr)
	if !ok || rhs.Op.String() != "*" {
		t.Fatalf("expected multiplication nested on the right, got %+v", infix.Right)
	}
}
