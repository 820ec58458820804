package compiler

import (
	"errors"
	"strings"
)

// Parser consumes the significant token slice produced by the Lexer and
// builds an AST.
//
// Grammar:
//
//	program    = statement* EOF
//	statement  = print | if | while | for | assignment
//	print      = "print" "(" expression ")" ";"?
//	if         = "if" expression block ("else" block)?
//	while      = "while" expression block
//	for        = "for" IDENTIFIER "in" "range" "(" expression ")" block
//	assignment = IDENTIFIER "=" expression ";"?
//	block      = "{" statement* "}"
//	expression = term (operator term)*
//	operator   = "+" | "-" | "*" | "/" | "and" | "or" | "<" | ">" | "="
//	term       = IDENTIFIER | INTEGER | STRING | "true" | "false" | "null" | "(" expression ")"
//
// All binary operators share one precedence level and group left to right.
type Parser struct {
	tokens []Token
	pos    int
}

func NewParser(tokens []Token) *Parser {
	return &Parser{tokens: Significant(tokens)}
}

// binaryOps lists the operators accepted between terms, keyed by lexeme.
var binaryOps = map[string]TokenKind{
	"+": SYMBOL, "-": SYMBOL, "*": SYMBOL, "/": SYMBOL,
	"<": SYMBOL, ">": SYMBOL, "=": SYMBOL,
	"and": KEYWORD, "or": KEYWORD,
}

// errorAt builds a SyntaxError pointing at tok.
func (p *Parser) errorAt(tok Token, format string, args ...any) *Error {
	return newError(SyntaxError, tok.Pos, tok.Lexeme, format, args...)
}

// unexpected reports tok as not fitting the production being parsed.
func (p *Parser) unexpected(tok Token, want string) *Error {
	if tok.Kind == EOF {
		return p.errorAt(tok, "unexpected end of input, expected %s", want)
	}
	return p.errorAt(tok, "unexpected %s %q, expected %s", tok.Kind, tok.Lexeme, want)
}

// peek returns the current token without consuming it.
func (p *Parser) peek() Token {
	if p.pos >= len(p.tokens) {
		return p.eof()
	}
	return p.tokens[p.pos]
}

// peekNext returns the token immediately after the current one.
func (p *Parser) peekNext() Token {
	if p.pos+1 >= len(p.tokens) {
		return p.eof()
	}
	return p.tokens[p.pos+1]
}

// eof synthesizes an EOF token positioned after the last real token, for
// token slices that were built without one.
func (p *Parser) eof() Token {
	if n := len(p.tokens); n > 0 {
		last := p.tokens[n-1]
		if last.Kind == EOF {
			return last
		}
		pos := last.Pos
		pos.Offset += len(last.Lexeme)
		pos.Column += len([]rune(last.Lexeme))
		return Token{Kind: EOF, Pos: pos}
	}
	return Token{Kind: EOF, Pos: Position{Line: 1, Column: 1}}
}

// advance consumes and returns the current token.
func (p *Parser) advance() Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

// expect consumes the current token if it is the given keyword or symbol,
// otherwise returns a SyntaxError.
func (p *Parser) expect(kind TokenKind, lexeme string) (Token, error) {
	tok := p.peek()
	if !tok.Is(kind, lexeme) {
		return tok, p.unexpected(tok, "'"+lexeme+"'")
	}
	return p.advance(), nil
}

// expectIdent consumes an identifier token.
func (p *Parser) expectIdent() (*Identifier, error) {
	tok := p.peek()
	if tok.Kind != IDENTIFIER {
		return nil, p.unexpected(tok, "identifier")
	}
	p.advance()
	return &Identifier{Name: tok.Lexeme, At: tok.Pos}, nil
}

// skipOptional consumes the symbol if it is next.
func (p *Parser) skipOptional(lexeme string) {
	if p.peek().Is(SYMBOL, lexeme) {
		p.advance()
	}
}

// parseExpression parses term (operator term)* into a left-leaning tree.
func (p *Parser) parseExpression() (Expr, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		kind, ok := binaryOps[tok.Lexeme]
		if !ok || kind != tok.Kind {
			return left, nil
		}
		p.advance()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpression{Left: left, Op: tok.Lexeme, Right: right, At: left.Pos()}
	}
}

// parseTerm handles literals, identifiers, and parenthesised expressions.
func (p *Parser) parseTerm() (Expr, error) {
	tok := p.peek()
	switch tok.Kind {
	case IDENTIFIER:
		p.advance()
		return &Identifier{Name: tok.Lexeme, At: tok.Pos}, nil

	case LITERAL:
		p.advance()
		switch tok.Literal {
		case LitInt:
			return &NumberLiteral{Value: tok.Int, At: tok.Pos}, nil
		case LitRaw:
			return &NumberLiteral{Raw: tok.Lexeme, At: tok.Pos}, nil
		case LitString:
			return &StringLiteral{Value: unquote(tok.Lexeme), At: tok.Pos}, nil
		case LitBool:
			return &BooleanLiteral{Value: tok.Lexeme == "true", At: tok.Pos}, nil
		case LitNull:
			return &NullLiteral{At: tok.Pos}, nil
		}
		return nil, p.errorAt(tok, "malformed literal %q", tok.Lexeme)

	case SYMBOL:
		if tok.Lexeme == "(" {
			p.advance()
			expr, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(SYMBOL, ")"); err != nil {
				return nil, err
			}
			return expr, nil
		}
	}
	return nil, p.unexpected(tok, "expression")
}

// parseBlock parses { statement* }. An EOF before the closing brace is an
// unterminated block.
func (p *Parser) parseBlock() ([]Stmt, error) {
	open, err := p.expect(SYMBOL, "{")
	if err != nil {
		return nil, err
	}
	stmts := []Stmt{}
	for !p.peek().Is(SYMBOL, "}") {
		if p.peek().Kind == EOF {
			return nil, p.errorAt(p.peek(), "unterminated block opened at %s", open.Pos)
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	p.advance() // }
	return stmts, nil
}

// parsePrint parses print ( expr ) ;?
// The leading PRINT token has already been consumed by parseStatement.
func (p *Parser) parsePrint(kw Token) (Stmt, error) {
	if _, err := p.expect(SYMBOL, "("); err != nil {
		return nil, err
	}
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(SYMBOL, ")"); err != nil {
		return nil, err
	}
	p.skipOptional(";")
	return &PrintStatement{Expr: expr, At: kw.Pos}, nil
}

// parseIf parses if cond { ... } [ else { ... } ]
// The leading IF token has already been consumed by parseStatement.
func (p *Parser) parseIf(kw Token) (Stmt, error) {
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	var elseBody []Stmt
	if p.peek().Is(KEYWORD, "else") {
		p.advance()
		elseBody, err = p.parseBlock()
		if err != nil {
			return nil, err
		}
	}
	return &IfStatement{Condition: cond, Then: then, Else: elseBody, At: kw.Pos}, nil
}

// parseWhile parses while cond { ... }
// The leading WHILE token has already been consumed by parseStatement.
func (p *Parser) parseWhile(kw Token) (Stmt, error) {
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &WhileStatement{Condition: cond, Body: body, At: kw.Pos}, nil
}

// parseFor parses for IDENT in range ( expr ) { ... }
// The leading FOR token has already been consumed by parseStatement.
func (p *Parser) parseFor(kw Token) (Stmt, error) {
	loopVar, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(KEYWORD, "in"); err != nil {
		return nil, err
	}
	if _, err := p.expect(KEYWORD, "range"); err != nil {
		return nil, err
	}
	if _, err := p.expect(SYMBOL, "("); err != nil {
		return nil, err
	}
	rng, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(SYMBOL, ")"); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ForStatement{Var: loopVar, Range: rng, Body: body, At: kw.Pos}, nil
}

// parseAssignment parses IDENT = expr ;?
func (p *Parser) parseAssignment() (Stmt, error) {
	target, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(SYMBOL, "="); err != nil {
		return nil, err
	}
	val, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	p.skipOptional(";")
	return &Assignment{Target: target, Value: val, At: target.At}, nil
}

// parseStatement dispatches to the correct sub-parser based on the leading
// token.
func (p *Parser) parseStatement() (Stmt, error) {
	tok := p.peek()
	switch tok.Kind {
	case KEYWORD:
		switch tok.Lexeme {
		case "print":
			return p.parsePrint(p.advance())
		case "if":
			return p.parseIf(p.advance())
		case "while":
			return p.parseWhile(p.advance())
		case "for":
			return p.parseFor(p.advance())
		}

	case IDENTIFIER:
		if p.peekNext().Is(SYMBOL, "=") {
			return p.parseAssignment()
		}
		next := p.peekNext()
		return nil, p.unexpected(next, "'=' after "+tok.Lexeme)
	}
	return nil, p.unexpected(tok, "statement")
}

// ParseStatement parses one statement at the current position.
func (p *Parser) ParseStatement() (Stmt, error) {
	return p.parseStatement()
}

// AtEnd reports whether every token has been consumed.
func (p *Parser) AtEnd() bool {
	return p.peek().Kind == EOF
}

// Parse builds the statement list for tokens. It stops at the first syntax
// error and returns the statements parsed before it together with the error;
// the failing statement yields no node.
func Parse(tokens []Token) ([]Stmt, error) {
	p := NewParser(tokens)
	stmts := []Stmt{}
	for !p.AtEnd() {
		stmt, err := p.parseStatement()
		if err != nil {
			return stmts, err
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}

// ParseAll is Parse that keeps going: after a failed statement it resumes at
// the token following the offending one. It returns every statement that
// parsed and every syntax error, in source order.
func ParseAll(tokens []Token) ([]Stmt, ErrorList) {
	p := NewParser(tokens)
	stmts := []Stmt{}
	var errs ErrorList
	for !p.AtEnd() {
		stmt, err := p.parseStatement()
		if err == nil {
			stmts = append(stmts, stmt)
			continue
		}
		var serr *Error
		if !errors.As(err, &serr) {
			serr = newError(SyntaxError, p.peek().Pos, p.peek().Lexeme, "%v", err)
		}
		errs = append(errs, serr)
		p.resumeAfter(serr.Pos)
	}
	return stmts, errs
}

// resumeAfter moves past the token at pos so scanning can restart.
func (p *Parser) resumeAfter(pos Position) {
	for !p.AtEnd() && p.peek().Pos.Offset <= pos.Offset {
		p.advance()
	}
}

// unquote strips the quotes of a string literal lexeme and resolves its
// escapes. Unknown escapes keep the escaped character.
func unquote(lexeme string) string {
	r := []rune(lexeme)
	if len(r) < 2 {
		return lexeme
	}
	body := r[1 : len(r)-1]

	var sb strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' || i+1 == len(body) {
			sb.WriteRune(c)
			continue
		}
		i++
		switch body[i] {
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case 'r':
			sb.WriteByte('\r')
		case '0':
			sb.WriteByte(0)
		default:
			sb.WriteRune(body[i])
		}
	}
	return sb.String()
}
