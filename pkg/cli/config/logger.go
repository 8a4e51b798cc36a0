package config

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/m-mizutani/clog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/masq"
	"github.com/urfave/cli/v3"
)

// Logger holds logger configuration
type Logger struct {
	Level  string
	JSON   bool
	Output string
}

// Flags returns CLI flags for logger configuration
func (c *Logger) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "Log level (debug, info, warn, error)",
			Value:       "info",
			Destination: &c.Level,
			Sources:     cli.EnvVars("EXAMRESULT_LOG_LEVEL"),
		},
		&cli.BoolFlag{
			Name:        "log-json",
			Usage:       "Output logs in JSON format",
			Value:       false,
			Destination: &c.JSON,
			Sources:     cli.EnvVars("EXAMRESULT_LOG_JSON"),
		},
		&cli.StringFlag{
			Name:        "log-output",
			Usage:       "Log destination: stdout, stderr or a file path",
			Value:       "stdout",
			Destination: &c.Output,
			Sources:     cli.EnvVars("EXAMRESULT_LOG_OUTPUT"),
		},
	}
}

// ToStdout reports whether logs go to the terminal's standard output
func (c *Logger) ToStdout() bool {
	return c.Output == "" || c.Output == "stdout" || c.Output == "-"
}

// Configure configures and returns a logger writing to Output
func (c *Logger) Configure() (*slog.Logger, error) {
	var w io.Writer
	switch {
	case c.ToStdout():
		w = os.Stdout
	case c.Output == "stderr":
		w = os.Stderr
	default:
		f, err := os.OpenFile(c.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to open log file", goerr.V("path", c.Output))
		}
		w = f
	}

	return c.New(w)
}

// New returns a logger writing to w
func (c *Logger) New(w io.Writer) (*slog.Logger, error) {
	level, err := parseLevel(c.Level)
	if err != nil {
		return nil, err
	}

	filter := redactAttr()

	var handler slog.Handler
	if c.JSON {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level:       level,
			ReplaceAttr: filter,
		})
	} else {
		handler = clog.New(
			clog.WithWriter(w),
			clog.WithLevel(level),
			clog.WithColor(w == os.Stdout || w == os.Stderr),
			clog.WithReplaceAttr(filter),
		)
	}

	return slog.New(handler), nil
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, goerr.New("invalid log level", goerr.V("level", s))
	}
}

// redactedKeys are attribute keys whose value is a roll number
var redactedKeys = map[string]struct{}{
	"roll_number": {},
	"rollNumber":  {},
	"prnno":       {},
}

// redactAttr hides roll numbers: struct fields tagged masq:"secret" through
// masq, plain attributes by key
func redactAttr() func(groups []string, a slog.Attr) slog.Attr {
	masker := masq.New(
		masq.WithTag("secret"),
		masq.WithFieldName("RollNumber"),
	)

	return func(groups []string, a slog.Attr) slog.Attr {
		if _, ok := redactedKeys[a.Key]; ok {
			return slog.String(a.Key, "[REDACTED]")
		}
		return masker(groups, a)
	}
}
