package handler

import (
	"net/http"

	"furnistore/internal/content"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// ContentHandler serves the storefront home page sections.
type ContentHandler struct {
	provider content.Provider
	logger   zerolog.Logger
}

// NewContentHandler creates a new content handler.
func NewContentHandler(provider content.Provider, logger zerolog.Logger) *ContentHandler {
	return &ContentHandler{
		provider: provider,
		logger:   logger.With().Str("handler", "content").Logger(),
	}
}

// All handles GET /api/content.
func (h *ContentHandler) All(w http.ResponseWriter, r *http.Request) {
	doc, err := h.provider.Content(r.Context())
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// Section handles GET /api/content/{section}.
func (h *ContentHandler) Section(w http.ResponseWriter, r *http.Request) {
	section, err := h.provider.Section(r.Context(), chi.URLParam(r, "section"))
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, section)
}
