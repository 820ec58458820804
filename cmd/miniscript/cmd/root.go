// Package cmd implements the miniscript command line.
package cmd

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/inconshreveable/log15"
	"github.com/spf13/cobra"

	"miniscript/pkg/compiler"
	"miniscript/pkg/config"
	"miniscript/pkg/logging"
	"miniscript/pkg/report"
	"miniscript/pkg/utils"
)

// errReported marks a failure whose diagnostics were already printed.
var errReported = errors.New("check failed")

// app carries the state shared by every subcommand of one invocation.
type app struct {
	cfgFile  string
	logLevel string
	noColor  bool

	cfg *config.Config
	log log15.Logger
}

func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "miniscript",
		Short: "MiniScript front end: lexer, parser and semantic analyzer",
		Long: `miniscript lexes, parses and checks MiniScript programs.

Commands:
  tokens  - print the token stream
  parse   - print the syntax tree
  check   - run the full front end and print diagnostics and symbols
  batch   - check many files in parallel
  watch   - re-check a file whenever it changes`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default: $"+config.EnvVar+" or ./miniscript.toml)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: crit, error, warn, info, debug")
	root.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "disable colored output")

	root.AddCommand(
		newTokensCmd(a),
		newParseCmd(a),
		newCheckCmd(a),
		newBatchCmd(a),
		newWatchCmd(a),
		newVersionCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	var err error
	if a.cfgFile != "" {
		a.cfg, err = config.Load(a.cfgFile)
	} else {
		a.cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		a.cfg.Log.Level = a.logLevel
	}

	a.log, err = logging.New(logging.Config{
		Level:  a.cfg.Log.Level,
		Format: a.cfg.Log.Format,
		Output: cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}
	a.log.Debug("Configuration loaded", "reserved", len(a.cfg.Lexer.Reserved), "globals", len(a.cfg.Analyzer.Globals))
	return nil
}

func (a *app) colored() bool {
	return !a.noColor && !color.NoColor
}

// compilerOptions builds pipeline options from the configuration. policy
// overrides analyzer.on_errors when set. A prompt policy reads the answer
// from the command's input, or aborts when the command cannot ask.
func (a *app) compilerOptions(cmd *cobra.Command, policy string, interactive bool) (compiler.Options, error) {
	opts := a.cfg.CompilerOptions()
	opts.Logger = a.log
	if policy == "" {
		policy = a.cfg.Analyzer.OnErrors
	}
	switch policy {
	case config.OnErrorsAbort:
		opts.OnSemanticErrors = compiler.AbortOnErrors
	case config.OnErrorsContinue:
		opts.OnSemanticErrors = compiler.ContinueOnErrors
	case config.OnErrorsPrompt:
		opts.OnSemanticErrors = compiler.AbortOnErrors
		if interactive {
			opts.OnSemanticErrors = report.Prompt(cmd.InOrStdin(), cmd.ErrOrStderr())
		}
	default:
		return opts, fmt.Errorf("unknown error policy %q", policy)
	}
	return opts, nil
}

func (a *app) readSource(path string) (utils.Source, error) {
	src, err := utils.ReadSource(path)
	if err != nil {
		return src, err
	}
	a.log.Debug("Source loaded", "path", src.Path, "bytes", len(src.Text))
	return src, nil
}
