package eval

import (
	"github.com/shapescript/shapescript/analyzer"
	"github.com/shapescript/shapescript/ast"
	"github.com/shapescript/shapescript/errs"
	"github.com/shapescript/shapescript/lexer"
	"github.com/shapescript/shapescript/parser"
	"github.com/shapescript/shapescript/scene"
)

// evalImport resolves and splices an `import "path"` statement, per
// spec.md §4.7's "Imports": the delegate may hand back pre-built geometry
// directly, or raw source text to be re-entered at the lexer/parser/
// analyzer and evaluated in a fresh child scope. A URL already being
// resolved higher up the call stack raises circularImport.
func evalImport(s *ast.ImportStmt, sc *Scope, acc *[]*scene.Geometry) error {
	if sc.shared.delegate == nil {
		return errs.New(errs.ImportError, s.Range, "import requires a configured delegate")
	}
	pathVal, err := evalExpr(s.Path, sc)
	if err != nil {
		return err
	}
	path := pathVal.String()

	url, err := sc.shared.delegate.ResolveURL(path)
	if err != nil {
		return errs.Newf(errs.FileNotFound, s.Range, "%v", err)
	}
	if sc.shared.inFlight[url] {
		return errs.Newf(errs.CircularImport, s.Range, "circular import of %q", url)
	}

	if g, err := sc.shared.delegate.ImportGeometry(url); err != nil {
		return errs.Newf(errs.ImportError, s.Range, "%v", err)
	} else if g != nil {
		*acc = append(*acc, g)
		return nil
	}

	src, err := sc.shared.delegate.ImportSource(url)
	if err != nil {
		return errs.Newf(errs.ImportError, s.Range, "%v", err)
	}

	sc.shared.inFlight[url] = true
	defer delete(sc.shared.inFlight, url)

	children, err := evalImportedSource(src, url, sc)
	if err != nil {
		return err
	}
	*acc = append(*acc, children...)
	return nil
}

// evalImportedSource re-enters the pipeline for an imported file's source
// text, evaluating it in a fresh child scope of the importing statement's
// scope (so the imported file's own defines/options don't leak outward,
// but it still observes the importer's ambient transform/material).
func evalImportedSource(src, url string, sc *Scope) ([]*scene.Geometry, error) {
	normalized := lexer.Normalize([]byte(src))
	tokens, lexErrs := lexer.Tokenize(normalized)
	if len(lexErrs) > 0 {
		return nil, wrapImportErr(lexErrs[0], url, normalized)
	}
	prog, parseErrs := parser.Parse(tokens)
	if len(parseErrs) > 0 {
		return nil, wrapImportErr(parseErrs[0], url, normalized)
	}
	if analyzeErrs := analyzer.Analyze(prog, sc.shared.root); len(analyzeErrs) > 0 {
		return nil, wrapImportErr(analyzeErrs[0], url, normalized)
	}
	child := sc.Child()
	return evalBlockStatements(prog.Statements, child)
}

func wrapImportErr(e *errs.Error, url, src string) error {
	return errs.Wrap(e, url, src)
}
