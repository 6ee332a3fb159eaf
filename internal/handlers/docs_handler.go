package handlers

import (
	_ "embed"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"
)

//go:embed openapi.json
var openapiSpec []byte

// DocsHandler serves the API documentation UI
type DocsHandler struct{}

// NewDocsHandler creates a new DocsHandler
func NewDocsHandler() *DocsHandler {
	return &DocsHandler{}
}

// Spec serves the raw OpenAPI document
func (h *DocsHandler) Spec(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write(openapiSpec)
}

// UI returns the swagger UI handler pointed at the embedded spec
func (h *DocsHandler) UI() http.HandlerFunc {
	return httpSwagger.Handler(
		httpSwagger.URL("/api/docs/openapi.json"),
	)
}
