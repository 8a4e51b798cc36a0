package http

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/examresult/pkg/domain/interfaces"
	"github.com/m-mizutani/examresult/pkg/domain/model"
	"github.com/m-mizutani/examresult/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"github.com/oapi-codegen/runtime"
)

// Client-facing messages. Upstream detail never leaves the server.
const (
	msgMissingParameter = "Missing rollNumber or examId"
	msgFetchFailed      = "Failed to fetch PDF"
	msgTooManyRequests  = "Too many requests"
)

// ResultHandler serves GET /api/fetch-pdf
type ResultHandler struct {
	resultUC interfaces.ResultUseCase
}

// NewResultHandler creates a new ResultHandler
func NewResultHandler(resultUC interfaces.ResultUseCase) *ResultHandler {
	return &ResultHandler{
		resultUC: resultUC,
	}
}

// Handle relays the result document for rollNumber and examId
func (h *ResultHandler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := ctxlog.From(ctx)

	var query model.ResultQuery
	params := r.URL.Query()
	if err := runtime.BindQueryParameter("form", true, false, "rollNumber", params, &query.RollNumber); err != nil {
		logger.Warn("Invalid rollNumber parameter", "error", err)
		writeError(ctx, w, msgMissingParameter, http.StatusBadRequest)
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "examId", params, &query.ExamID); err != nil {
		logger.Warn("Invalid examId parameter", "error", err)
		writeError(ctx, w, msgMissingParameter, http.StatusBadRequest)
		return
	}

	artifact, err := h.resultUC.FetchResult(ctx, query)
	if err != nil {
		if goerr.HasTag(err, types.ErrTagMissingParameter) {
			writeError(ctx, w, msgMissingParameter, http.StatusBadRequest)
			return
		}
		// Already logged with detail by the use case
		writeError(ctx, w, msgFetchFailed, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", model.ContentTypePDF)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, artifact.Filename()))
	w.Header().Set("Content-Length", strconv.Itoa(artifact.Size()))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(artifact.Data); err != nil {
		logger.Warn("Failed to write PDF response", "error", err)
	}
}
