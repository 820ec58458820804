// Package logging builds the log15 loggers handed to the compiler and the
// command-line tools.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/inconshreveable/log15"
)

// Output formats.
const (
	FormatTerminal = "terminal"
	FormatLogfmt   = "logfmt"
	FormatJSON     = "json"
)

// Config selects level, format and destination of a logger.
type Config struct {
	Level  string    // crit, error, warn, info or debug
	Format string    // terminal, logfmt or json
	Output io.Writer // defaults to os.Stderr
}

// ParseLevel maps a level name to a log15 level. An empty name means warn.
func ParseLevel(name string) (log15.Lvl, error) {
	if name == "" {
		return log15.LvlWarn, nil
	}
	lvl, err := log15.LvlFromString(strings.ToLower(name))
	if err != nil {
		return 0, fmt.Errorf("log level %q: %w", name, err)
	}
	return lvl, nil
}

func formatFor(name string) (log15.Format, error) {
	switch strings.ToLower(name) {
	case "", FormatTerminal:
		return log15.TerminalFormat(), nil
	case FormatLogfmt:
		return log15.LogfmtFormat(), nil
	case FormatJSON:
		return log15.JsonFormat(), nil
	}
	return nil, fmt.Errorf("unknown log format %q", name)
}

// New returns a logger tagged with module=miniscript writing records at or
// above cfg.Level.
func New(cfg Config) (log15.Logger, error) {
	lvl, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	format, err := formatFor(cfg.Format)
	if err != nil {
		return nil, err
	}
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	l := log15.New("module", "miniscript")
	l.SetHandler(log15.LvlFilterHandler(lvl, log15.StreamHandler(out, format)))
	return l, nil
}

// Discard returns a logger that drops every record.
func Discard() log15.Logger {
	l := log15.New()
	l.SetHandler(log15.DiscardHandler())
	return l
}
