package compiler

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// symbols is the single-character operator and delimiter set.
const symbols = "+-*/()=<>.,;:{}"

// Lexer holds all mutable state for a single scanning pass over src.
type Lexer struct {
	src      []rune
	keywords KeywordSet

	pos    int // index of the next rune to consume
	offset int // byte offset of src[pos]
	line   int // current 1-based source line
	col    int // current 1-based column
}

// NewLexer returns a lexer over src classifying words against keywords.
// An empty KeywordSet falls back to DefaultKeywords.
func NewLexer(src string, keywords KeywordSet) *Lexer {
	if !keywords.valid() {
		keywords = DefaultKeywords()
	}
	return &Lexer{src: []rune(src), keywords: keywords, line: 1, col: 1}
}

// peek returns the rune at the current position without advancing.
func (l *Lexer) peek() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

// peek2 returns the rune one position ahead of the current position.
func (l *Lexer) peek2() rune {
	if l.pos+1 >= len(l.src) {
		return 0
	}
	return l.src[l.pos+1]
}

// advance consumes one rune and returns it.
func (l *Lexer) advance() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	r := l.src[l.pos]
	l.pos++
	l.offset += utf8.RuneLen(r)
	// \r\n counts as one line break: the \r does not bump the line.
	if r == '\n' || (r == '\r' && l.peek() != '\n') {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r
}

func (l *Lexer) here() Position {
	return Position{Offset: l.offset, Line: l.line, Column: l.col}
}

func (l *Lexer) atEnd() bool { return l.pos >= len(l.src) }

func isWordStart(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isWordPart(r rune) bool {
	return isWordStart(r) || isDigit(r)
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

// canStart reports whether some token grammar can begin with r.
func canStart(r rune) bool {
	return isWordStart(r) || isDigit(r) || r == '"' || r == '\'' ||
		unicode.IsSpace(r) || strings.ContainsRune(symbols, r)
}

// scanSpace collects a run of whitespace, line terminators included, into a
// single trivia token.
func (l *Lexer) scanSpace() Token {
	pos := l.here()
	start := l.pos
	for !l.atEnd() && unicode.IsSpace(l.peek()) {
		l.advance()
	}
	return Token{Kind: SYMBOL, Lexeme: string(l.src[start:l.pos]), Trivia: true, Pos: pos}
}

// scanWord collects an identifier, keyword, or word literal.
// The first character must still be at l.peek().
func (l *Lexer) scanWord() Token {
	pos := l.here()
	start := l.pos
	for !l.atEnd() && isWordPart(l.peek()) {
		l.advance()
	}
	lexeme := string(l.src[start:l.pos])

	switch {
	case l.keywords.Contains(lexeme):
		return Token{Kind: KEYWORD, Lexeme: lexeme, Pos: pos}
	case lexeme == "true" || lexeme == "false":
		return Token{Kind: LITERAL, Lexeme: lexeme, Literal: LitBool, Pos: pos}
	case lexeme == "null":
		return Token{Kind: LITERAL, Lexeme: lexeme, Literal: LitNull, Pos: pos}
	}
	return Token{Kind: IDENTIFIER, Lexeme: lexeme, Pos: pos}
}

// scanInt collects a decimal integer literal and converts it eagerly. Text
// that overflows int64 is kept as a raw literal.
func (l *Lexer) scanInt() Token {
	pos := l.here()
	start := l.pos
	for !l.atEnd() && isDigit(l.peek()) {
		l.advance()
	}
	lexeme := string(l.src[start:l.pos])
	v, err := strconv.ParseInt(lexeme, 10, 64)
	if err != nil {
		return Token{Kind: LITERAL, Lexeme: lexeme, Literal: LitRaw, Pos: pos}
	}
	return Token{Kind: LITERAL, Lexeme: lexeme, Literal: LitInt, Int: v, Pos: pos}
}

// scanString collects a quoted string literal, quotes included. A backslash
// escapes the following character unless it ends the line.
func (l *Lexer) scanString() (Token, error) {
	pos := l.here()
	start := l.pos
	quote := l.advance()

	for !l.atEnd() {
		r := l.peek()
		if r == '\n' || r == '\r' {
			break
		}
		if r == '\\' && l.peek2() != 0 && l.peek2() != '\n' && l.peek2() != '\r' {
			l.advance()
			l.advance()
			continue
		}
		l.advance()
		if r == quote {
			return Token{Kind: LITERAL, Lexeme: string(l.src[start:l.pos]), Literal: LitString, Pos: pos}, nil
		}
	}
	return Token{}, newError(LexError, pos, string(quote), "unterminated string literal")
}

// nextToken returns the next token, whitespace included.
func (l *Lexer) nextToken() (Token, error) {
	if l.atEnd() {
		return Token{Kind: EOF, Pos: l.here()}, nil
	}

	ch := l.peek()
	switch {
	case unicode.IsSpace(ch):
		return l.scanSpace(), nil
	case isWordStart(ch):
		return l.scanWord(), nil
	case isDigit(ch):
		return l.scanInt(), nil
	case ch == '"' || ch == '\'':
		return l.scanString()
	case strings.ContainsRune(symbols, ch):
		pos := l.here()
		l.advance()
		return Token{Kind: SYMBOL, Lexeme: string(ch), Pos: pos}, nil
	}

	// Report the whole run of characters no grammar accepts.
	pos := l.here()
	start := l.pos
	for !l.atEnd() && !canStart(l.peek()) {
		l.advance()
	}
	frag := string(l.src[start:l.pos])
	return Token{}, newError(LexError, pos, frag, "unexpected character sequence %q", frag)
}

// Scan returns every token of the source, whitespace trivia included, ending
// with EOF. On a lex error no tokens are returned.
func (l *Lexer) Scan() ([]Token, error) {
	var tokens []Token
	for {
		tok, err := l.nextToken()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Kind == EOF {
			return tokens, nil
		}
	}
}

// Tokens returns the significant tokens of the source: Scan with the
// whitespace trivia filtered out.
func (l *Lexer) Tokens() ([]Token, error) {
	all, err := l.Scan()
	if err != nil {
		return nil, err
	}
	return Significant(all), nil
}

// Significant drops whitespace trivia tokens.
func Significant(tokens []Token) []Token {
	out := make([]Token, 0, len(tokens))
	for _, t := range tokens {
		if !t.Trivia {
			out = append(out, t)
		}
	}
	return out
}

// Lex tokenises src with the default keyword set and returns the significant
// tokens including the final EOF token.
func Lex(src string) ([]Token, error) {
	return NewLexer(src, DefaultKeywords()).Tokens()
}

// Tokenize is Lex with an explicit keyword set.
func Tokenize(src string, keywords KeywordSet) ([]Token, error) {
	return NewLexer(src, keywords).Tokens()
}

// FormatTokens renders tokens back to source text, one space between tokens.
// Trivia and EOF are skipped.
func FormatTokens(tokens []Token) string {
	var sb strings.Builder
	for _, t := range tokens {
		if t.Trivia || t.Kind == EOF {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(t.Lexeme)
	}
	return sb.String()
}
