package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/examresult/pkg/cli/config"
	controller "github.com/m-mizutani/examresult/pkg/controller/http"
	"github.com/m-mizutani/examresult/pkg/infra/report"
	"github.com/m-mizutani/examresult/pkg/usecase"
	"github.com/m-mizutani/examresult/pkg/utils/async"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var (
		serverCfg config.Server
		reportCfg config.Report
		sentryCfg config.Sentry
	)

	flags := append(serverCfg.Flags(), reportCfg.Flags()...)
	flags = append(flags, sentryCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server relaying result PDFs",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			flush, err := sentryCfg.Configure()
			if err != nil {
				return err
			}
			defer flush()

			reportOpts, err := reportCfg.Options()
			if err != nil {
				return err
			}
			reportClient, err := report.NewClient(reportOpts...)
			if err != nil {
				return goerr.Wrap(err, "failed to create report client")
			}

			logger.Info("Starting examresult server",
				slog.String("addr", serverCfg.Addr),
				slog.Duration("upstream_timeout", reportCfg.Timeout),
				slog.Float64("upstream_rps", reportCfg.RPS),
			)

			// Create use cases
			resultUC := usecase.NewResult(reportClient)

			// Create HTTP server with options
			server, err := controller.NewServer(
				ctx,
				resultUC,
				controller.WithAddr(serverCfg.Addr),
				controller.WithRateLimit(serverCfg.RateLimit, serverCfg.RateBurst),
			)
			if err != nil {
				return goerr.Wrap(err, "failed to create HTTP server")
			}

			serveErr := async.Go(ctx, "http-server", func(ctx context.Context) error {
				ctxlog.From(ctx).Info("HTTP server starting", slog.String("addr", serverCfg.Addr))
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return goerr.Wrap(err, "HTTP server stopped", goerr.V("addr", serverCfg.Addr))
				}
				return nil
			})

			// Wait for interrupt signal
			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

			select {
			case <-ctx.Done():
				logger.Info("Context cancelled, shutting down...")
			case sig := <-sigChan:
				logger.Info("Signal received, shutting down...", slog.Any("signal", sig))
			case err := <-serveErr:
				if err != nil {
					return err
				}
				return nil
			}

			// Graceful shutdown
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown server gracefully")
			}

			logger.Info("Server shutdown complete")
			return nil
		},
	}
}
