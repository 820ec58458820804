// Package compiler provides the MiniScript front end: a lexer, a
// recursive-descent parser and a semantic analyzer producing a validated AST
// for a downstream code generator or interpreter.
//
// Pipeline: MiniScript source → Lex → Parse → Analyze → []Stmt
package compiler
