package usecase

import (
	"context"
	"log/slog"

	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/examresult/pkg/domain/interfaces"
	"github.com/m-mizutani/examresult/pkg/domain/model"
	"github.com/m-mizutani/examresult/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

type resultUseCase struct {
	reportClient interfaces.ReportClient
}

// NewResult creates a new instance of ResultUseCase
func NewResult(reportClient interfaces.ReportClient) interfaces.ResultUseCase {
	return &resultUseCase{
		reportClient: reportClient,
	}
}

// FetchResult validates query and relays the report server's document.
// Nothing is cached and no call is retried.
func (uc *resultUseCase) FetchResult(ctx context.Context, query model.ResultQuery) (*model.PdfArtifact, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	fetchID := uuid.NewString()
	logger := ctxlog.From(ctx).With(slog.String("fetch_id", fetchID))

	logger.Debug("Fetching result from report server", slog.Any("query", query))

	data, err := uc.reportClient.FetchReport(ctx, query)
	if err != nil {
		err = goerr.Wrap(err, "failed to fetch result",
			goerr.T(types.ErrTagUpstreamFailure),
			goerr.V("fetch_id", fetchID),
			goerr.V("exam_id", query.ExamID),
		)
		logger.Error("Failed to fetch result from report server",
			slog.Any("error", err),
			slog.Any("query", query),
		)
		captureError(ctx, err)
		return nil, err
	}

	artifact := model.NewPdfArtifact(query.ExamID, data)
	logger.Debug("Fetched result",
		slog.String("exam_id", query.ExamID),
		slog.Int("size_bytes", artifact.Size()),
	)

	return artifact, nil
}

// captureError sends err to Sentry. It is a no-op unless sentry.Init was
// called with a DSN.
func captureError(ctx context.Context, err error) {
	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub().Clone()
	}

	hub.WithScope(func(scope *sentry.Scope) {
		for k, v := range goerr.Values(err) {
			scope.SetExtra(k, v)
		}
		hub.CaptureException(err)
	})
}
