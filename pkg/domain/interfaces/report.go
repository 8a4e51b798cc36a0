package interfaces

import (
	"context"

	"github.com/m-mizutani/examresult/pkg/domain/model"
)

// ReportClient talks to the third-party report server
type ReportClient interface {
	// FetchReport issues one GET for query and returns the raw body. Any
	// transport error or non-2xx status is returned as an error.
	FetchReport(ctx context.Context, query model.ResultQuery) ([]byte, error)
}

// ResultFetcher is the viewer side of the proxy: it calls GET /api/fetch-pdf
type ResultFetcher interface {
	FetchPdf(ctx context.Context, query model.ResultQuery) (*model.PdfArtifact, error)
}
