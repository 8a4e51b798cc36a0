package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v3"
)

// Viewer holds configuration of the clients calling the proxy
type Viewer struct {
	ProxyURL    string
	DownloadDir string
	Timeout     time.Duration
}

// Flags returns CLI flags for proxy clients
func (c *Viewer) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "proxy-url",
			Usage:       "Base URL of a running `examresult serve`",
			Value:       "http://localhost:8080",
			Destination: &c.ProxyURL,
			Sources:     cli.EnvVars("EXAMRESULT_PROXY_URL"),
		},
		&cli.StringFlag{
			Name:        "download-dir",
			Usage:       "Directory where downloaded PDFs are saved",
			Value:       ".",
			Destination: &c.DownloadDir,
			Sources:     cli.EnvVars("EXAMRESULT_DOWNLOAD_DIR"),
		},
		&cli.DurationFlag{
			Name:        "fetch-timeout",
			Usage:       "Timeout of one call to the proxy (0 = none)",
			Value:       90 * time.Second,
			Destination: &c.Timeout,
			Sources:     cli.EnvVars("EXAMRESULT_FETCH_TIMEOUT"),
		},
	}
}

// DefaultViewLogFile is where `view` logs when --log-output is stdout, since
// the terminal belongs to the UI
func DefaultViewLogFile() string {
	return filepath.Join(os.TempDir(), "examresult-view.log")
}
