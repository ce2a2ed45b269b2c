// This file implements the quote export endpoints. The PDF is rendered
// client-side; the server receives the finished bytes and stores them.
package handler

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/qfast/qfast/internal/auth"
	"github.com/qfast/qfast/internal/service"
)

// DocumentHandler handles exported quote documents.
type DocumentHandler struct {
	documents service.DocumentService
	logger    *slog.Logger
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(documents service.DocumentService, logger *slog.Logger) *DocumentHandler {
	return &DocumentHandler{
		documents: documents,
		logger:    logger,
	}
}

// Upload handles POST /api/quotes/{id}/exports. The body is the raw PDF.
func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFrom(r.Context())

	quoteID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		NotFoundResponse(w, h.logger)
		return
	}

	key, err := h.documents.StoreExport(r.Context(), identity.UserID, quoteID, r.Body, r.Header.Get("Content-Type"))
	if err != nil {
		ErrorResponse(w, h.logger, err)
		return
	}

	JSON(w, http.StatusCreated, map[string]string{"key": key})
}

// URL handles GET /api/quotes/{id}/exports/url?key=...
func (h *DocumentHandler) URL(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFrom(r.Context())

	quoteID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		NotFoundResponse(w, h.logger)
		return
	}

	key := r.URL.Query().Get("key")
	url, err := h.documents.ExportURL(r.Context(), identity.UserID, quoteID, key)
	if err != nil {
		ErrorResponse(w, h.logger, err)
		return
	}

	JSON(w, http.StatusOK, map[string]string{"url": url})
}

// Delete handles DELETE /api/quotes/{id}/exports?key=...
func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFrom(r.Context())

	quoteID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		NotFoundResponse(w, h.logger)
		return
	}

	key := r.URL.Query().Get("key")
	if err := h.documents.DeleteExport(r.Context(), identity.UserID, quoteID, key); err != nil {
		ErrorResponse(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
