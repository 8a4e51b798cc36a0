package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/examresult/pkg/cli/config"
	"github.com/m-mizutani/examresult/pkg/infra/report"
	"github.com/m-mizutani/gt"
)

func TestReport_Template_Default(t *testing.T) {
	cfg := &config.Report{}
	tmpl, err := cfg.Template()
	gt.NoError(t, err)
	gt.Equal(t, tmpl, report.DefaultTemplate())
}

func TestReport_Template_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.toml")
	gt.NoError(t, os.WriteFile(path, []byte(`
[report]
base_url = "https://reports.example.edu/run"
cid = "007"
`), 0o600))

	t.Run("file overrides defaults", func(t *testing.T) {
		cfg := &config.Report{ConfigFile: path}
		tmpl, err := cfg.Template()
		gt.NoError(t, err)

		gt.Equal(t, tmpl.BaseURL, "https://reports.example.edu/run")
		gt.Equal(t, tmpl.CID, "007")
		// Keys missing from the file keep their defaults
		gt.Equal(t, tmpl.Report, report.DefaultTemplate().Report)
		gt.Equal(t, tmpl.Format, "pdf")
		gt.True(t, tmpl.AsAttachment)
	})

	t.Run("flag overrides file", func(t *testing.T) {
		cfg := &config.Report{ConfigFile: path, BaseURL: "http://127.0.0.1:9000/run"}
		tmpl, err := cfg.Template()
		gt.NoError(t, err)
		gt.Equal(t, tmpl.BaseURL, "http://127.0.0.1:9000/run")
		gt.Equal(t, tmpl.CID, "007")
	})
}

func TestReport_Template_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		cfg := &config.Report{ConfigFile: filepath.Join(t.TempDir(), "nope.toml")}
		_, err := cfg.Template()
		gt.Error(t, err)
	})

	t.Run("broken toml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.toml")
		gt.NoError(t, os.WriteFile(path, []byte("[report\nbase_url = "), 0o600))
		cfg := &config.Report{ConfigFile: path}
		_, err := cfg.Template()
		gt.Error(t, err)
	})
}

func TestReport_Options(t *testing.T) {
	cfg := &config.Report{}
	opts, err := cfg.Options()
	gt.NoError(t, err)

	client, err := report.NewClient(opts...)
	gt.NoError(t, err)
	gt.Value(t, client).NotNil()
}

func TestSentry_ConfigureWithoutDSN(t *testing.T) {
	cfg := &config.Sentry{}
	flush, err := cfg.Configure()
	gt.NoError(t, err)
	flush()
}
