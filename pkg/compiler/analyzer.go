package compiler

import (
	"regexp"

	"github.com/inconshreveable/log15"
)

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// AnalyzeOptions configures one analysis run.
type AnalyzeOptions struct {
	// Keywords are rejected as assignment targets. Defaults to DefaultKeywords.
	Keywords KeywordSet
	// Predeclared seeds the symbol table before the first statement, e.g.
	// with functions the host environment provides.
	Predeclared []Symbol
	Logger      log15.Logger
}

// Analysis is the outcome of a semantic pass.
type Analysis struct {
	Program []Stmt
	Symbols *SymbolTable
	Errors  ErrorList
}

// OK reports whether the pass found no errors.
func (a *Analysis) OK() bool { return len(a.Errors) == 0 }

// Analyzer walks a program once, building its symbol table and collecting
// semantic errors. It is not safe for concurrent use; use one per run.
type Analyzer struct {
	syms     *SymbolTable
	keywords KeywordSet
	errs     ErrorList
	log      log15.Logger
}

// NewAnalyzer returns an analyzer with a fresh symbol table.
func NewAnalyzer(opts AnalyzeOptions) *Analyzer {
	if !opts.Keywords.valid() {
		opts.Keywords = DefaultKeywords()
	}
	a := &Analyzer{
		syms:     NewSymbolTable(),
		keywords: opts.Keywords,
		log:      loggerOrDiscard(opts.Logger).New("stage", "analyze"),
	}
	for _, sym := range opts.Predeclared {
		a.syms.Declare(sym)
	}
	return a
}

// Analyze runs a fresh semantic pass over program. Errors are collected, the
// pass always visits every statement.
func Analyze(program []Stmt, opts AnalyzeOptions) *Analysis {
	return NewAnalyzer(opts).Run(program)
}

// Run analyzes program statement by statement.
func (a *Analyzer) Run(program []Stmt) *Analysis {
	a.stmts(program)
	a.log.Debug("Semantic analysis finished", "statements", len(program), "symbols", a.syms.Len(), "errors", len(a.errs))
	return &Analysis{Program: program, Symbols: a.syms, Errors: a.errs}
}

func (a *Analyzer) report(kind ErrorKind, pos Position, name, format string, args ...any) {
	err := newError(kind, pos, name, format, args...)
	a.log.Debug("Semantic error", "kind", kind, "pos", pos, "name", name)
	a.errs = append(a.errs, err)
}

func (a *Analyzer) stmts(list []Stmt) {
	for _, s := range list {
		a.stmt(s)
	}
}

func (a *Analyzer) stmt(s Stmt) {
	switch n := s.(type) {
	case *PrintStatement:
		a.expr(n.Expr)

	case *Assignment:
		valType := a.expr(n.Value)
		a.assign(n, valType)

	case *IfStatement:
		a.expr(n.Condition)
		a.stmts(n.Then)
		a.stmts(n.Else)

	case *WhileStatement:
		a.expr(n.Condition)
		a.stmts(n.Body)

	case *ForStatement:
		a.expr(n.Range)
		if a.validTarget(n.Var, n.At) {
			a.declare(n.Var, TypeInt)
		}
		a.stmts(n.Body)

	case nil:
		// Nothing to check.
	}
}

// assign applies declare-on-assign: an unknown target name becomes a new
// variable instead of an error.
func (a *Analyzer) assign(n *Assignment, valType string) {
	if !a.validTarget(n.Target, n.At) {
		return
	}
	a.declare(n.Target, valType)
}

func (a *Analyzer) validTarget(id *Identifier, at Position) bool {
	switch {
	case id == nil:
		a.report(InvalidAssignmentTarget, at, "", "missing assignment target")
		return false
	case !identPattern.MatchString(id.Name):
		a.report(InvalidAssignmentTarget, id.At, id.Name, "%q is not a valid identifier", id.Name)
		return false
	case a.keywords.Contains(id.Name) || isWordLiteral(id.Name):
		a.report(InvalidAssignmentTarget, id.At, id.Name, "cannot assign to reserved word %q", id.Name)
		return false
	}
	if sym, ok := a.syms.Lookup(id.Name); ok && sym.Kind == Function {
		a.report(InvalidAssignmentTarget, id.At, id.Name, "cannot assign to function %q", id.Name)
		return false
	}
	return true
}

func (a *Analyzer) declare(id *Identifier, varType string) {
	sym, found := a.syms.DeclareVariable(id.Name, varType, id.At)
	if found && sym.Type != varType && sym.Type != TypeAny {
		a.syms.SetType(id.Name, TypeAny)
	}
}

// expr checks every identifier reference in e and returns e's simple type.
func (a *Analyzer) expr(e Expr) string {
	switch n := e.(type) {
	case *Identifier:
		sym, ok := a.syms.Lookup(n.Name)
		if !ok {
			a.report(UndefinedIdentifier, n.At, n.Name, "undefined identifier %q", n.Name)
			return TypeAny
		}
		return sym.Type

	case *NumberLiteral:
		return TypeInt
	case *StringLiteral:
		return TypeString
	case *BooleanLiteral:
		return TypeBool
	case *NullLiteral:
		return TypeNull

	case *BinaryExpression:
		left := a.expr(n.Left)
		right := a.expr(n.Right)
		return binaryType(n.Op, left, right)
	}
	return TypeAny
}

func binaryType(op, left, right string) string {
	switch op {
	case "<", ">", "=", "and", "or":
		return TypeBool
	case "+":
		if left == TypeString || right == TypeString {
			return TypeString
		}
	}
	if left == TypeInt && right == TypeInt {
		return TypeInt
	}
	return TypeAny
}

func isWordLiteral(name string) bool {
	return name == "true" || name == "false" || name == "null"
}
