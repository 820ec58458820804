package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"miniscript/pkg/config"
)

// run executes the CLI with args and returns stdout, stderr and the error.
func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv(config.EnvVar, "")
	t.Setenv("HOME", t.TempDir())

	var out, errOut bytes.Buffer
	root := NewRootCmd()
	root.SetArgs(append([]string{"--no-color"}, args...))
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(&errOut)
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func writeProgram(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func TestTokensCmd(t *testing.T) {
	path := writeProgram(t, t.TempDir(), "main.ms", "x = 1")

	out, _, err := run(t, "", "tokens", path)
	require.NoError(t, err)
	assert.Contains(t, out, "IDENTIFIER")
	assert.Contains(t, out, "EOF")

	out, _, err = run(t, "", "tokens", "--format", "yaml", "--all", path)
	require.NoError(t, err)
	assert.Contains(t, out, "kind: LITERAL")
	assert.Contains(t, out, `lexeme: ' '`, "whitespace kept with --all")
}

func TestTokensCmdLexError(t *testing.T) {
	path := writeProgram(t, t.TempDir(), "bad.ms", "x = 1 @")
	_, errOut, err := run(t, "", "tokens", path)
	assert.Error(t, err)
	assert.Contains(t, errOut, "LexError")
}

func TestParseCmd(t *testing.T) {
	dir := t.TempDir()
	good := writeProgram(t, dir, "good.ms", "while x < 3 { x = x + 1 }")
	out, _, err := run(t, "", "parse", good)
	require.NoError(t, err)
	assert.Contains(t, out, "WhileStatement (x < 3)")

	bad := writeProgram(t, dir, "bad.ms", "print(1) x 5 print(2) y = ; print(3)")
	out, errOut, err := run(t, "", "parse", bad)
	assert.Error(t, err)
	assert.Equal(t, 1, strings.Count(out, "PrintStatement"), "stops at the first error")
	assert.Equal(t, 1, strings.Count(errOut, "SyntaxError"))

	out, errOut, err = run(t, "", "parse", "--keep-going", bad)
	assert.Error(t, err)
	assert.Equal(t, 3, strings.Count(out, "PrintStatement"))
	assert.Equal(t, 2, strings.Count(errOut, "SyntaxError"))
}

func TestCheckCmd(t *testing.T) {
	dir := t.TempDir()
	good := writeProgram(t, dir, "good.ms", "x = 5\nprint(x)")
	bad := writeProgram(t, dir, "bad.ms", "print(y)")

	out, _, err := run(t, "", "check", good)
	require.NoError(t, err)
	assert.Contains(t, out, "good.ms: 2 statement(s), 1 symbol(s), 0 error(s)")

	out, _, err = run(t, "", "check", "--on-errors", "abort", bad)
	assert.Error(t, err)
	assert.Contains(t, out, "UndefinedIdentifier")
	assert.Contains(t, out, "aborted with 1 error(s)")

	out, _, err = run(t, "", "check", "--on-errors", "continue", bad)
	assert.NoError(t, err)
	assert.Contains(t, out, "bad.ms: 1 statement(s), 0 symbol(s), 1 error(s)")

	_, _, err = run(t, "", "check", "--on-errors", "shrug", bad)
	assert.ErrorContains(t, err, "unknown error policy")
}

func TestCheckCmdPrompt(t *testing.T) {
	bad := writeProgram(t, t.TempDir(), "bad.ms", "print(y)")

	out, errOut, err := run(t, "y\n", "check", bad)
	assert.NoError(t, err)
	assert.Contains(t, errOut, "Continue despite errors? [y/N]")
	assert.Contains(t, out, "1 error(s)")

	_, _, err = run(t, "n\n", "check", bad)
	assert.Error(t, err)
}

func TestCheckCmdConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := writeProgram(t, dir, "miniscript.toml", `
[analyzer]
on_errors = "abort"

[[analyzer.globals]]
name = "len"
kind = "function"
type = "int"
params = ["string"]
`)
	prog := writeProgram(t, dir, "main.ms", "len = 3")

	out, _, err := run(t, "", "--config", cfg, "check", prog)
	assert.Error(t, err)
	assert.Contains(t, out, "InvalidAssignmentTarget")

	_, _, err = run(t, "", "--config", filepath.Join(dir, "missing.toml"), "check", prog)
	assert.ErrorContains(t, err, "not found")
}

func TestBatchCmd(t *testing.T) {
	dir := t.TempDir()
	writeProgram(t, dir, "a.ms", "a = 1")
	writeProgram(t, dir, "b.ms", "b = 2 print(b)")

	out, _, err := run(t, "", "batch", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "2 files, 2 ok, 0 failed")

	writeProgram(t, dir, "c.ms", "print(c)")
	out, _, err = run(t, "", "batch", "--workers", "2", dir)
	assert.Error(t, err)
	assert.Contains(t, out, "3 files, 2 ok, 1 failed")
}

func TestVersionCmd(t *testing.T) {
	out, _, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "miniscript v"+Version)
}

func TestLogLevelFlag(t *testing.T) {
	path := writeProgram(t, t.TempDir(), "main.ms", "x = 1")
	_, errOut, err := run(t, "", "--log-level", "debug", "check", "--on-errors", "abort", path)
	require.NoError(t, err)
	assert.Contains(t, errOut, "Lexed source")

	_, _, err = run(t, "", "--log-level", "shout", "check", path)
	assert.Error(t, err)
}
