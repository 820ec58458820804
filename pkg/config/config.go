// Package config loads miniscript settings from TOML or YAML files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"miniscript/pkg/compiler"
	"miniscript/pkg/logging"
)

// EnvVar names the environment variable holding the config file path.
const EnvVar = "MINISCRIPT_CONFIG"

// Policies for the analyzer's on_errors setting.
const (
	OnErrorsPrompt   = "prompt"
	OnErrorsAbort    = "abort"
	OnErrorsContinue = "continue"
)

var namePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Config holds the complete tool configuration
type Config struct {
	Lexer    LexerConfig    `toml:"lexer" yaml:"lexer"`
	Analyzer AnalyzerConfig `toml:"analyzer" yaml:"analyzer"`
	Log      LogConfig      `toml:"log" yaml:"log"`
	Batch    BatchConfig    `toml:"batch" yaml:"batch"`
}

// LexerConfig holds lexer settings
type LexerConfig struct {
	// Reserved lists words reserved on top of the built-in keywords.
	Reserved []string `toml:"reserved" yaml:"reserved"`
}

// AnalyzerConfig holds semantic analysis settings
type AnalyzerConfig struct {
	OnErrors string         `toml:"on_errors" yaml:"on_errors"`
	Globals  []GlobalConfig `toml:"globals" yaml:"globals"`
}

// GlobalConfig declares a symbol the host environment provides.
type GlobalConfig struct {
	Name   string   `toml:"name" yaml:"name"`
	Kind   string   `toml:"kind" yaml:"kind"` // variable or function
	Type   string   `toml:"type" yaml:"type"` // variable type or return type
	Params []string `toml:"params" yaml:"params"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"`
}

// BatchConfig holds batch runner settings
type BatchConfig struct {
	Workers int `toml:"workers" yaml:"workers"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads the file at path, choosing the decoder by extension.
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q", filepath.Ext(path))
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

// LoadFromEnv loads the file named by MINISCRIPT_CONFIG, or the first default
// location that exists. Without any file it returns Default.
func LoadFromEnv() (*Config, error) {
	path := os.Getenv(EnvVar)
	if path == "" {
		// Try default locations
		defaultPaths := []string{
			"./miniscript.toml",
			"./miniscript.yaml",
			filepath.Join(os.Getenv("HOME"), ".config/miniscript/config.toml"),
		}
		for _, p := range defaultPaths {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}

	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

func (c *Config) applyDefaults() {
	if c.Analyzer.OnErrors == "" {
		c.Analyzer.OnErrors = OnErrorsPrompt
	}
	if c.Log.Level == "" {
		c.Log.Level = "warn"
	}
	if c.Log.Format == "" {
		c.Log.Format = logging.FormatTerminal
	}
	if c.Batch.Workers <= 0 {
		c.Batch.Workers = runtime.NumCPU()
	}
	for i := range c.Analyzer.Globals {
		g := &c.Analyzer.Globals[i]
		if g.Kind == "" {
			g.Kind = compiler.Variable.String()
		}
		if g.Type == "" {
			g.Type = compiler.TypeAny
		}
	}
}

// Validate checks every setting and reports the first problem found.
func (c *Config) Validate() error {
	for _, w := range c.Lexer.Reserved {
		if !namePattern.MatchString(w) {
			return fmt.Errorf("lexer.reserved: %q is not a word", w)
		}
		if w == "true" || w == "false" || w == "null" {
			return fmt.Errorf("lexer.reserved: %q is a literal", w)
		}
	}

	switch c.Analyzer.OnErrors {
	case OnErrorsPrompt, OnErrorsAbort, OnErrorsContinue:
	default:
		return fmt.Errorf("analyzer.on_errors: unknown policy %q", c.Analyzer.OnErrors)
	}

	keywords := compiler.NewKeywordSet(c.Lexer.Reserved...)
	seen := make(map[string]bool)
	for _, g := range c.Analyzer.Globals {
		if !namePattern.MatchString(g.Name) || keywords.Contains(g.Name) {
			return fmt.Errorf("analyzer.globals: invalid name %q", g.Name)
		}
		if seen[g.Name] {
			return fmt.Errorf("analyzer.globals: %q declared twice", g.Name)
		}
		seen[g.Name] = true

		if g.Kind != compiler.Variable.String() && g.Kind != compiler.Function.String() {
			return fmt.Errorf("analyzer.globals: %s: unknown kind %q", g.Name, g.Kind)
		}
		if !validType(g.Type) {
			return fmt.Errorf("analyzer.globals: %s: unknown type %q", g.Name, g.Type)
		}
		if g.Kind == compiler.Variable.String() && len(g.Params) > 0 {
			return fmt.Errorf("analyzer.globals: %s: variables take no params", g.Name)
		}
		for _, p := range g.Params {
			if !validType(p) {
				return fmt.Errorf("analyzer.globals: %s: unknown param type %q", g.Name, p)
			}
		}
	}

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	switch c.Log.Format {
	case logging.FormatTerminal, logging.FormatLogfmt, logging.FormatJSON:
	default:
		return fmt.Errorf("log.format: unknown format %q", c.Log.Format)
	}
	return nil
}

func validType(t string) bool {
	switch t {
	case compiler.TypeInt, compiler.TypeString, compiler.TypeBool, compiler.TypeNull, compiler.TypeAny:
		return true
	}
	return false
}

// Keywords returns the built-in keywords plus lexer.reserved.
func (c *Config) Keywords() compiler.KeywordSet {
	return compiler.NewKeywordSet(c.Lexer.Reserved...)
}

// Predeclared converts analyzer.globals to symbols for the analyzer.
func (c *Config) Predeclared() []compiler.Symbol {
	out := make([]compiler.Symbol, 0, len(c.Analyzer.Globals))
	for _, g := range c.Analyzer.Globals {
		sym := compiler.Symbol{Name: g.Name, Kind: compiler.Variable, Type: g.Type}
		if g.Kind == compiler.Function.String() {
			sym.Kind = compiler.Function
			sym.Params = append([]string{}, g.Params...)
		}
		out = append(out, sym)
	}
	return out
}

// CompilerOptions returns pipeline options for this configuration. The error
// policy is left to the caller, since prompt needs a terminal.
func (c *Config) CompilerOptions() compiler.Options {
	opts := compiler.Options{
		Keywords:    c.Keywords(),
		Predeclared: c.Predeclared(),
	}
	switch c.Analyzer.OnErrors {
	case OnErrorsAbort:
		opts.OnSemanticErrors = compiler.AbortOnErrors
	case OnErrorsContinue:
		opts.OnSemanticErrors = compiler.ContinueOnErrors
	}
	return opts
}
