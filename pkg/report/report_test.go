package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"miniscript/pkg/batch"
	"miniscript/pkg/compiler"
)

func compile(t *testing.T, src string) *compiler.Result {
	t.Helper()
	res, err := compiler.Compile(src, compiler.Options{OnSemanticErrors: compiler.ContinueOnErrors})
	require.NoError(t, err)
	return res
}

func TestWriteTokensTable(t *testing.T) {
	tokens, err := compiler.Lex(`x = "hi"`)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteTokens(&buf, tokens, FormatTable))
	out := buf.String()
	assert.Contains(t, out, "Kind")
	assert.Contains(t, out, "IDENTIFIER")
	assert.Contains(t, out, `"\"hi\""`)
	assert.Contains(t, out, "string")
	assert.Contains(t, out, "1:5")
}

func TestWriteTokensYAML(t *testing.T) {
	tokens, err := compiler.Lex("n = 42 ok = false")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteTokens(&buf, tokens, FormatYAML))

	var records []map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &records))
	require.Len(t, records, len(tokens))

	assert.Equal(t, "IDENTIFIER", records[0]["kind"])
	assert.NotContains(t, records[0], "value")
	assert.Equal(t, 42, records[2]["value"])
	assert.Equal(t, "int", records[2]["literal"])
	assert.Equal(t, false, records[5]["value"])
	assert.Equal(t, "EOF", records[len(records)-1]["kind"])
}

func TestWriteTokensUnknownFormat(t *testing.T) {
	assert.Error(t, WriteTokens(&bytes.Buffer{}, nil, "xml"))
}

func TestWriteSymbols(t *testing.T) {
	syms := compiler.NewSymbolTable()
	syms.DeclareVariable("x", compiler.TypeInt, compiler.Position{Line: 2, Column: 1})
	syms.DeclareFunction("len", compiler.TypeInt, []string{compiler.TypeString})

	var buf bytes.Buffer
	WriteSymbols(&buf, syms)
	out := buf.String()
	assert.Contains(t, out, "function")
	assert.Contains(t, out, "[string]")
	assert.Contains(t, out, "2:1")
	assert.Less(t, strings.Index(out, "len"), strings.Index(out, " x "), "rows must be sorted by name")

	buf.Reset()
	WriteSymbols(&buf, compiler.NewSymbolTable())
	assert.Equal(t, "Symbols: (empty)\n", buf.String())
}

func TestWriteAST(t *testing.T) {
	res := compile(t, "x = 1\nif x > 0 { print(x) } else { }\nfor i in range(2) { print(i) }")

	var buf bytes.Buffer
	WriteAST(&buf, res.Program)
	want := "Assignment(x = 1)  @1:1\n" +
		"IfStatement (x > 0)  @2:1\n" +
		"  then:\n" +
		"    PrintStatement(x)  @2:12\n" +
		"  else:\n" +
		"    (empty)\n" +
		"ForStatement i in range(2)  @3:1\n" +
		"  PrintStatement(i)  @3:21\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteDiagnostics(t *testing.T) {
	src := "print(y)\nz = q"
	res := compile(t, src)
	require.Len(t, res.Errors, 2)

	var buf bytes.Buffer
	WriteDiagnostics(&buf, res.Errors, src, false)
	out := buf.String()
	assert.Contains(t, out, "UndefinedIdentifier: undefined identifier \"y\"")
	assert.Contains(t, out, "  1| print(y)")
	assert.Contains(t, out, "  2| z = q")
	assert.NotContains(t, out, "\x1b[", "no escape codes without color")

	buf.Reset()
	WriteDiagnostics(&buf, res.Errors, src, true)
	assert.Contains(t, buf.String(), "\x1b[")
}

func TestAsList(t *testing.T) {
	single := &compiler.Error{Kind: compiler.SyntaxError, Message: "x"}
	assert.Equal(t, compiler.ErrorList{single}, AsList(single))
	assert.Len(t, AsList(compiler.ErrorList{single, single}), 2)
	assert.Nil(t, AsList(nil))
	assert.Nil(t, AsList(errors.New("io")))
}

func TestWriteBatch(t *testing.T) {
	ok := compile(t, "x = 1")
	bad := compile(t, "print(y)")
	results := []batch.Result{
		{Name: "ok.ms", RunID: "0123456789abcdef", Result: ok, Elapsed: time.Millisecond},
		{Name: "bad.ms", Result: bad, Err: bad.Errors},
		{Name: "broken.ms", Err: &compiler.Error{Kind: compiler.LexError, Message: "boom"}},
	}

	var buf bytes.Buffer
	WriteBatch(&buf, results)
	out := buf.String()
	assert.Contains(t, out, "01234567")
	assert.NotContains(t, out, "0123456789abcdef")
	assert.Contains(t, out, "errors")
	assert.Contains(t, out, "failed")
	assert.Contains(t, out, "3 files, 1 ok, 2 failed")
}

func TestPrompt(t *testing.T) {
	errs := compiler.ErrorList{{Kind: compiler.UndefinedIdentifier, Message: `undefined identifier "y"`, Pos: compiler.Position{Line: 1, Column: 7}}}

	tests := []struct {
		input string
		want  compiler.Decision
	}{
		{"y\n", compiler.Continue},
		{"YES\n", compiler.Continue},
		{" y \n", compiler.Continue},
		{"n\n", compiler.Abort},
		{"\n", compiler.Abort},
		{"", compiler.Abort},
		{"maybe\n", compiler.Abort},
		{"y", compiler.Continue},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		got := Prompt(strings.NewReader(tt.input), &out)(errs)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
		assert.Contains(t, out.String(), "Continue despite errors? [y/N]")
		assert.Contains(t, out.String(), "UndefinedIdentifier at 1:7")
	}
}

func TestPromptDrivesCompile(t *testing.T) {
	var out bytes.Buffer
	res, err := compiler.Compile("print(y)", compiler.Options{
		OnSemanticErrors: Prompt(strings.NewReader("y\n"), &out),
	})
	require.NoError(t, err)
	assert.Equal(t, compiler.Continue, res.Decision)

	_, err = compiler.Compile("print(y)", compiler.Options{
		OnSemanticErrors: Prompt(strings.NewReader("n\n"), &out),
	})
	assert.Error(t, err)
}
