package http

import (
	"context"
	_ "embed"
	"encoding/json"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/m-mizutani/examresult/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

//go:embed openapi.yaml
var openapiYAML []byte

// APIDoc is the validated OpenAPI description of the HTTP API
type APIDoc struct {
	doc  *openapi3.T
	json []byte
}

// LoadOpenAPI parses and validates the embedded OpenAPI document
func LoadOpenAPI(ctx context.Context) (*APIDoc, error) {
	loader := openapi3.NewLoader()
	loader.Context = ctx

	doc, err := loader.LoadFromData(openapiYAML)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse OpenAPI document")
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, goerr.Wrap(err, "invalid OpenAPI document")
	}
	doc.Info.Version = types.Version

	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to encode OpenAPI document")
	}

	return &APIDoc{doc: doc, json: raw}, nil
}

// Document returns the parsed document
func (d *APIDoc) Document() *openapi3.T {
	return d.doc
}

// Handle serves the document as JSON
func (d *APIDoc) Handle(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(d.json)
}
