package compiler

import (
	"fmt"
	"time"

	"github.com/inconshreveable/log15"
)

// Decision is the caller's answer when analysis reports errors.
type Decision int

const (
	Abort Decision = iota
	Continue
)

func (d Decision) String() string {
	if d == Continue {
		return "continue"
	}
	return "abort"
}

// ErrorHandler decides whether the pipeline goes on after semantic errors.
// It is only called with a non-empty list.
type ErrorHandler func(errs ErrorList) Decision

// AbortOnErrors is the fixed policy for non-interactive callers.
func AbortOnErrors(ErrorList) Decision { return Abort }

// ContinueOnErrors keeps the analyzed program despite errors.
func ContinueOnErrors(ErrorList) Decision { return Continue }

// Options configures a Compile run. The zero value is ready to use.
type Options struct {
	Keywords    KeywordSet
	Predeclared []Symbol
	// OnSemanticErrors is consulted when analysis finds errors; nil means
	// AbortOnErrors.
	OnSemanticErrors ErrorHandler
	// Passes run over the analyzed program, in order.
	Passes []Pass
	Logger log15.Logger
}

// Result holds every artifact of one pipeline run.
type Result struct {
	Tokens   []Token
	Program  []Stmt
	Symbols  *SymbolTable
	Errors   ErrorList
	Decision Decision
}

// Compile runs lexer, parser and analyzer over src.
//
// Lex and syntax errors stop the pipeline and are returned as *Error with a
// nil Result. Semantic errors are handed to OnSemanticErrors: on Abort the
// Result is returned together with the ErrorList as error, on Continue the
// Result is returned with a nil error and the errors kept in Result.Errors.
func Compile(src string, opts Options) (*Result, error) {
	if !opts.Keywords.valid() {
		opts.Keywords = DefaultKeywords()
	}
	logger := loggerOrDiscard(opts.Logger)
	start := time.Now()

	tokens, err := NewLexer(src, opts.Keywords).Tokens()
	if err != nil {
		logger.Debug("Lexing failed", "err", err)
		return nil, err
	}
	logger.Debug("Lexed source", "tokens", len(tokens))

	program, err := Parse(tokens)
	if err != nil {
		logger.Debug("Parsing failed", "parsed", len(program), "err", err)
		return nil, err
	}
	logger.Debug("Parsed program", "statements", len(program))

	analysis := Analyze(program, AnalyzeOptions{
		Keywords:    opts.Keywords,
		Predeclared: opts.Predeclared,
		Logger:      logger,
	})
	res := &Result{
		Tokens:   tokens,
		Program:  analysis.Program,
		Symbols:  analysis.Symbols,
		Errors:   analysis.Errors,
		Decision: Continue,
	}

	if !analysis.OK() {
		handler := opts.OnSemanticErrors
		if handler == nil {
			handler = AbortOnErrors
		}
		res.Decision = handler(analysis.Errors)
		logger.Debug("Semantic errors reported", "count", len(analysis.Errors), "decision", res.Decision)
		if res.Decision == Abort {
			return res, analysis.Errors
		}
	}

	if len(opts.Passes) > 0 {
		out, err := runPasses(res.Program, opts.Passes)
		if err != nil {
			return res, fmt.Errorf("optimize: %w", err)
		}
		res.Program = out
	}

	logger.Debug("Compiled source", "elapsed", time.Since(start))
	return res, nil
}

// loggerOrDiscard returns l, or a logger that drops every record when l is
// nil. The root logger is never touched.
func loggerOrDiscard(l log15.Logger) log15.Logger {
	if l != nil {
		return l
	}
	d := log15.New()
	d.SetHandler(log15.DiscardHandler())
	return d
}
