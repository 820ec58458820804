package compiler

import (
	"fmt"
	"strconv"
	"strings"
)

// Node is implemented by every AST node.
type Node interface {
	Pos() Position
	String() string
}

//  Expression nodes

// Expr is implemented by every node that produces a value. Expressions have
// no side effects.
type Expr interface {
	Node
	exprNode()
}

// Identifier is a reference to a named value, or the target of an assignment
// or loop.
//
//	print(x);
//	      ^  Identifier{Name: "x"}
type Identifier struct {
	Name string
	At   Position
}

func (*Identifier) exprNode()        {}
func (i *Identifier) Pos() Position  { return i.At }
func (i *Identifier) String() string { return i.Name }

// NumberLiteral is an integer constant. Raw is set, and Value is zero, when
// the source digits did not fit an int64.
type NumberLiteral struct {
	Value int64
	Raw   string
	At    Position
}

func (*NumberLiteral) exprNode()       {}
func (n *NumberLiteral) Pos() Position { return n.At }
func (n *NumberLiteral) String() string {
	if n.Raw != "" {
		return n.Raw
	}
	return strconv.FormatInt(n.Value, 10)
}

// StringLiteral is a string constant with its quotes stripped.
type StringLiteral struct {
	Value string
	At    Position
}

func (*StringLiteral) exprNode()        {}
func (s *StringLiteral) Pos() Position  { return s.At }
func (s *StringLiteral) String() string { return strconv.Quote(s.Value) }

// BooleanLiteral is true or false.
type BooleanLiteral struct {
	Value bool
	At    Position
}

func (*BooleanLiteral) exprNode()        {}
func (b *BooleanLiteral) Pos() Position  { return b.At }
func (b *BooleanLiteral) String() string { return strconv.FormatBool(b.Value) }

// NullLiteral is null.
type NullLiteral struct {
	At Position
}

func (*NullLiteral) exprNode()       {}
func (n *NullLiteral) Pos() Position { return n.At }
func (*NullLiteral) String() string  { return "null" }

// BinaryExpression represents Left Op Right. Operators share one precedence
// level and group left to right.
//
//	x + 1
//	^ ^ ^
//	| | |
//	| | Right
//	| Op
//	Left
type BinaryExpression struct {
	Left  Expr
	Op    string // one of + - * / and or < > =
	Right Expr
	At    Position
}

func (*BinaryExpression) exprNode()       {}
func (b *BinaryExpression) Pos() Position { return b.At }
func (b *BinaryExpression) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Left, b.Op, b.Right)
}

//  Statement nodes

// Stmt is implemented by every statement node. The analyzer visits each
// statement independently.
type Stmt interface {
	Node
	stmtNode()
}

// PrintStatement represents print(expr)
type PrintStatement struct {
	Expr Expr
	At   Position
}

func (*PrintStatement) stmtNode()       {}
func (p *PrintStatement) Pos() Position { return p.At }
func (p *PrintStatement) String() string {
	return fmt.Sprintf("PrintStatement(%s)", p.Expr)
}

// IfStatement represents if cond { Then } [else { Else }].
// Else is nil when there is no else branch.
type IfStatement struct {
	Condition Expr
	Then      []Stmt
	Else      []Stmt
	At        Position
}

func (*IfStatement) stmtNode()       {}
func (i *IfStatement) Pos() Position { return i.At }
func (i *IfStatement) String() string {
	if i.Else != nil {
		return fmt.Sprintf("IfStatement(if %s then %s else %s)", i.Condition, blockString(i.Then), blockString(i.Else))
	}
	return fmt.Sprintf("IfStatement(if %s then %s)", i.Condition, blockString(i.Then))
}

// WhileStatement represents while cond { Body }
type WhileStatement struct {
	Condition Expr
	Body      []Stmt
	At        Position
}

func (*WhileStatement) stmtNode()       {}
func (w *WhileStatement) Pos() Position { return w.At }
func (w *WhileStatement) String() string {
	return fmt.Sprintf("WhileStatement(while %s do %s)", w.Condition, blockString(w.Body))
}

// ForStatement represents for Var in range(Range) { Body }
type ForStatement struct {
	Var   *Identifier
	Range Expr
	Body  []Stmt
	At    Position
}

func (*ForStatement) stmtNode()       {}
func (f *ForStatement) Pos() Position { return f.At }
func (f *ForStatement) String() string {
	return fmt.Sprintf("ForStatement(for %s in range(%s) do %s)", f.Var, f.Range, blockString(f.Body))
}

// Assignment represents Target = Value
type Assignment struct {
	Target *Identifier
	Value  Expr
	At     Position
}

func (*Assignment) stmtNode()       {}
func (a *Assignment) Pos() Position { return a.At }
func (a *Assignment) String() string {
	return fmt.Sprintf("Assignment(%s = %s)", a.Target, a.Value)
}

func blockString(stmts []Stmt) string {
	parts := make([]string, len(stmts))
	for i, s := range stmts {
		parts[i] = s.String()
	}
	return "{" + strings.Join(parts, "; ") + "}"
}
