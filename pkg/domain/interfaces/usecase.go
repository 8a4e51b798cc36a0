package interfaces

import (
	"context"

	"github.com/m-mizutani/examresult/pkg/domain/model"
)

// ResultUseCase defines the proxy operation behind GET /api/fetch-pdf
type ResultUseCase interface {
	// FetchResult validates query, downloads the document from the report
	// server and returns it unchanged
	FetchResult(ctx context.Context, query model.ResultQuery) (*model.PdfArtifact, error)
}
