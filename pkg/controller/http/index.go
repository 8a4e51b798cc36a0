package http

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/examresult/pkg/domain/model"
)

//go:embed templates/index.html
var templateFS embed.FS

type indexData struct {
	RollNumber string
	SelectedID string
	Semesters  []model.Semester
}

type indexHandler struct {
	tmpl *template.Template
}

func newIndexHandler() (*indexHandler, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/index.html")
	if err != nil {
		return nil, err
	}
	return &indexHandler{tmpl: tmpl}, nil
}

// Handle renders the form. ?rollNumber= and ?semester= prefill it.
func (h *indexHandler) Handle(w http.ResponseWriter, r *http.Request) {
	data := indexData{
		RollNumber: r.URL.Query().Get("rollNumber"),
		SelectedID: model.DefaultSemesterID,
		Semesters:  model.Semesters(),
	}
	if s, ok := model.SemesterByID(r.URL.Query().Get("semester")); ok {
		data.SelectedID = s.ID
	}

	var buf bytes.Buffer
	if err := h.tmpl.Execute(&buf, data); err != nil {
		ctxlog.From(r.Context()).Error("Failed to render index", "error", err)
		writeError(r.Context(), w, "Failed to render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
