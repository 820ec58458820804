package compiler

import "fmt"

// TokenKind identifies the category of a lexed token.
type TokenKind int

const (
	EOF TokenKind = iota // sentinel: end of input

	KEYWORD    // reserved word, see KeywordSet
	IDENTIFIER // variable / function name
	LITERAL    // integer, string, boolean or null
	SYMBOL     // operator, delimiter or whitespace
)

var kindNames = [...]string{
	EOF:        "EOF",
	KEYWORD:    "KEYWORD",
	IDENTIFIER: "IDENTIFIER",
	LITERAL:    "LITERAL",
	SYMBOL:     "SYMBOL",
}

func (k TokenKind) String() string {
	if int(k) >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("TokenKind(%d)", int(k))
}

// LiteralType is the value type of a LITERAL token, fixed at lex time.
type LiteralType int

const (
	LitNone LiteralType = iota
	LitInt
	LitString
	LitBool
	LitNull
	LitRaw // numeric text that did not convert to an integer
)

var literalNames = [...]string{
	LitNone:   "-",
	LitInt:    "int",
	LitString: "string",
	LitBool:   "bool",
	LitNull:   "null",
	LitRaw:    "raw",
}

func (lt LiteralType) String() string {
	if int(lt) >= 0 && int(lt) < len(literalNames) {
		return literalNames[lt]
	}
	return fmt.Sprintf("LiteralType(%d)", int(lt))
}

// Position locates a token or node in the source text.
type Position struct {
	Offset int // byte offset
	Line   int // 1-based
	Column int // 1-based, counted in runes
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// IsValid reports whether p was set by the lexer.
func (p Position) IsValid() bool { return p.Line > 0 }

// Token is a single lexical unit produced by the Lexer.
type Token struct {
	Kind    TokenKind
	Lexeme  string      // the exact source text that was matched
	Literal LiteralType // set for LITERAL tokens
	Int     int64       // converted value when Literal == LitInt
	Trivia  bool        // whitespace SYMBOL token, dropped before parsing
	Pos     Position
}

// Value returns the typed value the token carries: int64 for integer
// literals, bool for booleans, nil for null, the lexeme otherwise.
// String literals keep their surrounding quotes.
func (t Token) Value() any {
	switch t.Literal {
	case LitInt:
		return t.Int
	case LitBool:
		return t.Lexeme == "true"
	case LitNull:
		return nil
	}
	return t.Lexeme
}

// Is reports whether t is the keyword or symbol with the given text.
func (t Token) Is(kind TokenKind, lexeme string) bool {
	return t.Kind == kind && t.Lexeme == lexeme
}

func (t Token) String() string {
	return fmt.Sprintf("%-10s %-14q  %s", t.Kind, t.Lexeme, t.Pos)
}
