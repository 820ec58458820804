// Package report renders compiler artifacts for people: token and symbol
// tables, AST dumps, diagnostics, batch summaries and the interactive
// continue/abort prompt.
package report

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"

	"miniscript/pkg/batch"
	"miniscript/pkg/compiler"
)

// Token output formats.
const (
	FormatTable = "table"
	FormatYAML  = "yaml"
)

// tokenRecord is the serialized form of one token.
type tokenRecord struct {
	Kind    string `yaml:"kind"`
	Lexeme  string `yaml:"lexeme"`
	Literal string `yaml:"literal,omitempty"`
	Value   any    `yaml:"value,omitempty"`
	Line    int    `yaml:"line"`
	Column  int    `yaml:"column"`
}

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	return table
}

// WriteTokens prints tokens as a table or as a YAML list.
func WriteTokens(w io.Writer, tokens []compiler.Token, format string) error {
	switch format {
	case "", FormatTable:
		table := newTable(w, "#", "Kind", "Lexeme", "Literal", "Position")
		for i, tok := range tokens {
			lit := ""
			if tok.Kind == compiler.LITERAL {
				lit = tok.Literal.String()
			}
			table.Append([]string{strconv.Itoa(i), tok.Kind.String(), strconv.Quote(tok.Lexeme), lit, tok.Pos.String()})
		}
		table.Render()
		return nil

	case FormatYAML:
		records := make([]tokenRecord, len(tokens))
		for i, tok := range tokens {
			rec := tokenRecord{Kind: tok.Kind.String(), Lexeme: tok.Lexeme, Line: tok.Pos.Line, Column: tok.Pos.Column}
			if tok.Kind == compiler.LITERAL {
				rec.Literal = tok.Literal.String()
				rec.Value = tok.Value()
			}
			records[i] = rec
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(records); err != nil {
			return fmt.Errorf("encode tokens: %w", err)
		}
		return enc.Close()
	}
	return fmt.Errorf("unknown token format %q", format)
}

// WriteSymbols prints the symbol table sorted by name.
func WriteSymbols(w io.Writer, syms *compiler.SymbolTable) {
	if syms == nil || syms.Len() == 0 {
		fmt.Fprintln(w, "Symbols: (empty)")
		return
	}
	table := newTable(w, "Name", "Kind", "Type", "Params", "Declared")
	for _, sym := range syms.Symbols() {
		params, declared := "", "-"
		if sym.Kind == compiler.Function {
			params = "[" + strings.Join(sym.Params, ", ") + "]"
		}
		if sym.DeclaredAt.IsValid() {
			declared = sym.DeclaredAt.String()
		}
		table.Append([]string{sym.Name, sym.Kind.String(), sym.Type, params, declared})
	}
	table.Render()
}

// WriteAST prints the program as an indented tree, one node per line.
func WriteAST(w io.Writer, program []compiler.Stmt) {
	for _, s := range program {
		writeStmt(w, s, 0)
	}
}

func writeStmt(w io.Writer, s compiler.Stmt, depth int) {
	pad := strings.Repeat("  ", depth)
	switch n := s.(type) {
	case *compiler.IfStatement:
		fmt.Fprintf(w, "%sIfStatement %s  @%s\n", pad, n.Condition, n.At)
		fmt.Fprintf(w, "%s  then:\n", pad)
		writeBlock(w, n.Then, depth+2)
		if n.Else != nil {
			fmt.Fprintf(w, "%s  else:\n", pad)
			writeBlock(w, n.Else, depth+2)
		}
	case *compiler.WhileStatement:
		fmt.Fprintf(w, "%sWhileStatement %s  @%s\n", pad, n.Condition, n.At)
		writeBlock(w, n.Body, depth+1)
	case *compiler.ForStatement:
		fmt.Fprintf(w, "%sForStatement %s in range(%s)  @%s\n", pad, n.Var, n.Range, n.At)
		writeBlock(w, n.Body, depth+1)
	default:
		fmt.Fprintf(w, "%s%s  @%s\n", pad, s, s.Pos())
	}
}

func writeBlock(w io.Writer, stmts []compiler.Stmt, depth int) {
	if len(stmts) == 0 {
		fmt.Fprintf(w, "%s(empty)\n", strings.Repeat("  ", depth))
		return
	}
	for _, s := range stmts {
		writeStmt(w, s, depth)
	}
}

// WriteDiagnostics prints each error with its source line. With colored set
// the error kind is highlighted.
func WriteDiagnostics(w io.Writer, errs compiler.ErrorList, source string, colored bool) {
	kindColor := color.New(color.FgRed, color.Bold)
	semColor := color.New(color.FgYellow, color.Bold)
	if colored {
		kindColor.EnableColor()
		semColor.EnableColor()
	} else {
		kindColor.DisableColor()
		semColor.DisableColor()
	}

	for i, e := range errs {
		if i > 0 {
			fmt.Fprintln(w)
		}
		text := e.FormatWithContext(source)
		c := kindColor
		if e.Kind.Semantic() {
			c = semColor
		}
		kind := string(e.Kind)
		if strings.HasPrefix(text, kind) {
			text = c.Sprint(kind) + text[len(kind):]
		}
		fmt.Fprint(w, text)
		if !strings.HasSuffix(text, "\n") {
			fmt.Fprintln(w)
		}
	}
}

// AsList turns any error from the compiler into a list of diagnostics. Other
// errors yield nil.
func AsList(err error) compiler.ErrorList {
	switch e := err.(type) {
	case nil:
		return nil
	case compiler.ErrorList:
		return e
	case *compiler.Error:
		return compiler.ErrorList{e}
	}
	return nil
}

// WriteBatch prints one row per job and a summary line.
func WriteBatch(w io.Writer, results []batch.Result) {
	table := newTable(w, "File", "Status", "Errors", "Symbols", "Elapsed", "Run")
	for _, r := range results {
		status, errCount, symCount := "ok", 0, "-"
		if r.Result != nil {
			errCount = len(r.Result.Errors)
			symCount = strconv.Itoa(r.Result.Symbols.Len())
		}
		switch {
		case r.Err != nil && r.Result == nil:
			status = "failed"
			errCount = len(AsList(r.Err))
		case !r.OK():
			status = "errors"
		}
		run := r.RunID
		if len(run) > 8 {
			run = run[:8]
		}
		table.Append([]string{r.Name, status, strconv.Itoa(errCount), symCount, r.Elapsed.String(), run})
	}
	table.Render()

	s := batch.Summarize(results)
	fmt.Fprintf(w, "%d files, %d ok, %d failed\n", s.Total, s.OK, s.Failed)
}

// Prompt returns an ErrorHandler that prints the errors to out and asks on
// in whether to continue. Anything but y or yes aborts, as does end of
// input.
func Prompt(in io.Reader, out io.Writer) compiler.ErrorHandler {
	reader := bufio.NewReader(in)
	return func(errs compiler.ErrorList) compiler.Decision {
		fmt.Fprintf(out, "%d semantic error(s):\n", len(errs))
		for _, e := range errs {
			fmt.Fprintf(out, "  %s\n", e)
		}
		fmt.Fprint(out, "Continue despite errors? [y/N] ")

		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(out)
			return compiler.Abort
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return compiler.Continue
		}
		return compiler.Abort
	}
}
