package compiler

import "fmt"

// Pass transforms a validated program into a program of the same shape.
// It is the hook for optimizations such as constant folding, dead code
// elimination and loop optimization; none ships with this package.
type Pass interface {
	Name() string
	Apply(program []Stmt) ([]Stmt, error)
}

// runPasses applies passes in order, rejecting a pass that drops the program
// or produces nil statements.
func runPasses(program []Stmt, passes []Pass) ([]Stmt, error) {
	for _, pass := range passes {
		out, err := pass.Apply(program)
		if err != nil {
			return program, fmt.Errorf("pass %s: %w", pass.Name(), err)
		}
		if out == nil && program != nil {
			return program, fmt.Errorf("pass %s returned no program", pass.Name())
		}
		for i, s := range out {
			if s == nil {
				return program, fmt.Errorf("pass %s produced a nil statement at index %d", pass.Name(), i)
			}
		}
		program = out
	}
	return program, nil
}

// Inspect walks the program depth first in source order, calling fn for each
// node. If fn returns false the children of that node are skipped.
func Inspect(program []Stmt, fn func(Node) bool) {
	for _, s := range program {
		inspectStmt(s, fn)
	}
}

func inspectStmt(s Stmt, fn func(Node) bool) {
	if s == nil || !fn(s) {
		return
	}
	switch n := s.(type) {
	case *PrintStatement:
		inspectExpr(n.Expr, fn)
	case *Assignment:
		if n.Target != nil {
			inspectExpr(n.Target, fn)
		}
		inspectExpr(n.Value, fn)
	case *IfStatement:
		inspectExpr(n.Condition, fn)
		Inspect(n.Then, fn)
		Inspect(n.Else, fn)
	case *WhileStatement:
		inspectExpr(n.Condition, fn)
		Inspect(n.Body, fn)
	case *ForStatement:
		if n.Var != nil {
			inspectExpr(n.Var, fn)
		}
		inspectExpr(n.Range, fn)
		Inspect(n.Body, fn)
	}
}

func inspectExpr(e Expr, fn func(Node) bool) {
	if e == nil || !fn(e) {
		return
	}
	if b, ok := e.(*BinaryExpression); ok {
		inspectExpr(b.Left, fn)
		inspectExpr(b.Right, fn)
	}
	// Identifier, NumberLiteral, StringLiteral, BooleanLiteral and
	// NullLiteral are leaves.
}
