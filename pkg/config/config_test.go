package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"miniscript/pkg/compiler"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const tomlConfig = `
[lexer]
reserved = ["then", "end"]

[analyzer]
on_errors = "continue"

[[analyzer.globals]]
name = "len"
kind = "function"
type = "int"
params = ["string"]

[[analyzer.globals]]
name = "limit"
type = "int"

[log]
level = "debug"
format = "json"

[batch]
workers = 3
`

const yamlConfig = `
lexer:
  reserved: [then]
analyzer:
  on_errors: abort
  globals:
    - name: clamp
      kind: function
      type: int
      params: [int, int, int]
log:
  level: info
`

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, OnErrorsPrompt, cfg.Analyzer.OnErrors)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "terminal", cfg.Log.Format)
	assert.Equal(t, runtime.NumCPU(), cfg.Batch.Workers)
	assert.NoError(t, cfg.Validate())
}

func TestLoadTOML(t *testing.T) {
	cfg, err := Load(writeFile(t, "miniscript.toml", tomlConfig))
	require.NoError(t, err)

	assert.Equal(t, []string{"then", "end"}, cfg.Lexer.Reserved)
	assert.Equal(t, OnErrorsContinue, cfg.Analyzer.OnErrors)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 3, cfg.Batch.Workers)

	require.Len(t, cfg.Analyzer.Globals, 2)
	assert.Equal(t, "variable", cfg.Analyzer.Globals[1].Kind, "kind defaults to variable")

	syms := cfg.Predeclared()
	assert.Equal(t, compiler.Symbol{Name: "len", Kind: compiler.Function, Type: "int", Params: []string{"string"}}, syms[0])
	assert.Equal(t, compiler.Symbol{Name: "limit", Kind: compiler.Variable, Type: "int"}, syms[1])

	kw := cfg.Keywords()
	assert.True(t, kw.Contains("then"))
	assert.True(t, kw.Contains("while"), "built-in keywords are always kept")
}

func TestLoadYAML(t *testing.T) {
	cfg, err := Load(writeFile(t, "miniscript.yaml", yamlConfig))
	require.NoError(t, err)

	assert.Equal(t, OnErrorsAbort, cfg.Analyzer.OnErrors)
	assert.Equal(t, "terminal", cfg.Log.Format)
	require.Len(t, cfg.Analyzer.Globals, 1)
	assert.Equal(t, []string{"int", "int", "int"}, cfg.Analyzer.Globals[0].Params)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.ErrorContains(t, err, "not found")

	_, err = Load(writeFile(t, "miniscript.json", "{}"))
	assert.ErrorContains(t, err, "unsupported config format")

	_, err = Load(writeFile(t, "broken.toml", "[lexer\nreserved = 1"))
	assert.ErrorContains(t, err, "failed to parse config")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"reserved not a word", func(c *Config) { c.Lexer.Reserved = []string{"two words"} }, "not a word"},
		{"reserved literal", func(c *Config) { c.Lexer.Reserved = []string{"null"} }, "is a literal"},
		{"policy", func(c *Config) { c.Analyzer.OnErrors = "ignore" }, "unknown policy"},
		{"global keyword", func(c *Config) {
			c.Analyzer.Globals = []GlobalConfig{{Name: "print", Kind: "function", Type: "null"}}
		}, "invalid name"},
		{"global reserved by config", func(c *Config) {
			c.Lexer.Reserved = []string{"emit"}
			c.Analyzer.Globals = []GlobalConfig{{Name: "emit", Kind: "function", Type: "null"}}
		}, "invalid name"},
		{"global twice", func(c *Config) {
			c.Analyzer.Globals = []GlobalConfig{{Name: "a", Kind: "variable", Type: "int"}, {Name: "a", Kind: "variable", Type: "int"}}
		}, "declared twice"},
		{"global kind", func(c *Config) {
			c.Analyzer.Globals = []GlobalConfig{{Name: "a", Kind: "class", Type: "int"}}
		}, "unknown kind"},
		{"global type", func(c *Config) {
			c.Analyzer.Globals = []GlobalConfig{{Name: "a", Kind: "variable", Type: "float"}}
		}, "unknown type"},
		{"variable params", func(c *Config) {
			c.Analyzer.Globals = []GlobalConfig{{Name: "a", Kind: "variable", Type: "int", Params: []string{"int"}}}
		}, "take no params"},
		{"param type", func(c *Config) {
			c.Analyzer.Globals = []GlobalConfig{{Name: "f", Kind: "function", Type: "int", Params: []string{"list"}}}
		}, "unknown param type"},
		{"log level", func(c *Config) { c.Log.Level = "chatty" }, "log.level"},
		{"log format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.want)
		})
	}
}

func TestLoadFromEnv(t *testing.T) {
	path := writeFile(t, "custom.toml", tomlConfig)
	t.Setenv(EnvVar, path)

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Batch.Workers)
}

func TestLoadFromEnvFallsBackToDefault(t *testing.T) {
	t.Setenv(EnvVar, "")
	t.Setenv("HOME", t.TempDir())
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestCompilerOptions(t *testing.T) {
	cfg := Default()
	cfg.Analyzer.OnErrors = OnErrorsContinue
	cfg.Analyzer.Globals = []GlobalConfig{{Name: "limit", Kind: "variable", Type: "int"}}

	opts := cfg.CompilerOptions()
	res, err := compiler.Compile("print(limit + missing)", opts)
	require.NoError(t, err)
	assert.Len(t, res.Errors, 1, "only the undeclared name is reported")

	cfg.Analyzer.OnErrors = OnErrorsPrompt
	assert.Nil(t, cfg.CompilerOptions().OnSemanticErrors)
}

func TestPredeclaredFunctionWithoutParams(t *testing.T) {
	cfg := Default()
	cfg.Analyzer.Globals = []GlobalConfig{{Name: "now", Kind: "function", Type: "int"}}
	require.NoError(t, cfg.Validate())

	syms := cfg.Predeclared()
	require.Len(t, syms, 1)
	assert.NotNil(t, syms[0].Params, "functions always carry a parameter list")
	assert.Empty(t, syms[0].Params)

	table := compiler.NewSymbolTable()
	sym, _ := table.Declare(syms[0])
	assert.Equal(t, []string{}, sym.Params)
}
