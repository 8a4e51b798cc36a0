package cli

import (
	"context"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/examresult/pkg/cli/config"
	"github.com/m-mizutani/examresult/pkg/infra/proxy"
	"github.com/m-mizutani/examresult/pkg/viewer"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdView(loggerCfg *config.Logger) *cli.Command {
	var viewerCfg config.Viewer

	return &cli.Command{
		Name:    "view",
		Aliases: []string{"v"},
		Usage:   "Browse results interactively through a running server",
		Flags:   viewerCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			// The terminal belongs to the UI, so stdout logging goes to a file
			if loggerCfg.ToStdout() {
				fileCfg := *loggerCfg
				fileCfg.Output = config.DefaultViewLogFile()
				logger, err := fileCfg.Configure()
				if err != nil {
					return err
				}
				slog.SetDefault(logger)
				ctx = ctxlog.With(ctx, logger)
			}

			fetcher, err := proxy.NewClient(viewerCfg.ProxyURL, nil)
			if err != nil {
				return err
			}

			ctxlog.From(ctx).Info("Starting viewer", slog.String("proxy_url", viewerCfg.ProxyURL))

			m := viewer.New(ctx, fetcher,
				viewer.WithDownloadDir(viewerCfg.DownloadDir),
				viewer.WithFetchTimeout(viewerCfg.Timeout),
			)

			p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
			if _, err := p.Run(); err != nil {
				return goerr.Wrap(err, "viewer exited with error")
			}
			return nil
		},
	}
}
