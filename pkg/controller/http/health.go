package http

import (
	"net/http"

	"github.com/m-mizutani/examresult/pkg/domain/model"
	"github.com/m-mizutani/examresult/pkg/domain/types"
)

// handleHealth handles health check requests
func handleHealth(w http.ResponseWriter, r *http.Request) {
	status := &model.HealthStatus{
		Status:  "healthy",
		Service: types.ServiceName,
		Version: types.Version,
	}

	writeJSON(r.Context(), w, http.StatusOK, status)
}

// handleSemesters returns the fixed semester table
func handleSemesters(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, map[string]any{
		"semesters": model.Semesters(),
	})
}
