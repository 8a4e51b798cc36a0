package config

import (
	"os"
	"time"

	"github.com/m-mizutani/examresult/pkg/infra/report"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"
)

// Report holds configuration of the upstream report server
type Report struct {
	ConfigFile string
	BaseURL    string
	Timeout    time.Duration
	RPS        float64
	MaxBytes   int64
}

// reportFile is the layout of --report-config
type reportFile struct {
	Report report.Template `toml:"report"`
}

// Flags returns CLI flags for the report server
func (c *Report) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "report-config",
			Usage:       "TOML file overriding the report URL template ([report] table)",
			Destination: &c.ConfigFile,
			Sources:     cli.EnvVars("EXAMRESULT_REPORT_CONFIG"),
		},
		&cli.StringFlag{
			Name:        "upstream-url",
			Usage:       "Report runner URL (overrides the config file)",
			Destination: &c.BaseURL,
			Sources:     cli.EnvVars("EXAMRESULT_UPSTREAM_URL"),
		},
		&cli.DurationFlag{
			Name:        "upstream-timeout",
			Usage:       "Timeout of one report request (0 = none)",
			Value:       60 * time.Second,
			Destination: &c.Timeout,
			Sources:     cli.EnvVars("EXAMRESULT_UPSTREAM_TIMEOUT"),
		},
		&cli.FloatFlag{
			Name:        "upstream-rps",
			Usage:       "Maximum report requests per second (0 = unlimited)",
			Value:       0,
			Destination: &c.RPS,
			Sources:     cli.EnvVars("EXAMRESULT_UPSTREAM_RPS"),
		},
		&cli.Int64Flag{
			Name:        "upstream-max-bytes",
			Usage:       "Largest accepted report body in bytes (0 = unlimited)",
			Value:       report.DefaultMaxBodySize,
			Destination: &c.MaxBytes,
			Sources:     cli.EnvVars("EXAMRESULT_UPSTREAM_MAX_BYTES"),
		},
	}
}

// Template resolves the URL template: defaults, then the config file, then
// --upstream-url
func (c *Report) Template() (report.Template, error) {
	tmpl := report.DefaultTemplate()

	if c.ConfigFile != "" {
		raw, err := os.ReadFile(c.ConfigFile)
		if err != nil {
			return tmpl, goerr.Wrap(err, "failed to read report config", goerr.V("path", c.ConfigFile))
		}

		file := reportFile{Report: tmpl}
		if err := toml.Unmarshal(raw, &file); err != nil {
			return tmpl, goerr.Wrap(err, "failed to parse report config", goerr.V("path", c.ConfigFile))
		}
		tmpl = file.Report
	}

	if c.BaseURL != "" {
		tmpl.BaseURL = c.BaseURL
	}

	return tmpl, nil
}

// Options returns report client options for this configuration
func (c *Report) Options() ([]report.Option, error) {
	tmpl, err := c.Template()
	if err != nil {
		return nil, err
	}

	return []report.Option{
		report.WithTemplate(tmpl),
		report.WithTimeout(c.Timeout),
		report.WithRateLimit(c.RPS),
		report.WithMaxBodySize(c.MaxBytes),
	}, nil
}
