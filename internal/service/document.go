// This file implements the document service: storing exported quote PDFs
// and handing out access URLs for them. Rendering the PDF itself is a
// client-side capability; the server only receives the finished bytes.
package service

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/qfast/qfast/internal/domain"
	"github.com/qfast/qfast/internal/metrics"
	"github.com/qfast/qfast/internal/storage"
)

// maxExportSize caps an uploaded export at 10 MB. Quote PDFs are a page
// or two; anything larger is not a quote.
const maxExportSize = 10 << 20

// exportURLTTL is how long a presigned export link stays valid.
const exportURLTTL = 15 * time.Minute

// DocumentService stores and serves exported quote documents.
type DocumentService interface {
	// StoreExport saves an exported PDF for a quote the user owns and
	// returns the storage key. The quote must exist; uploads for foreign
	// or unknown quotes fail with ENOTFOUND.
	StoreExport(ctx context.Context, userID, quoteID uuid.UUID, data io.Reader, contentType string) (string, error)

	// ExportURL returns a time-limited URL for a stored export.
	ExportURL(ctx context.Context, userID, quoteID uuid.UUID, key string) (string, error)

	// DeleteExport removes a stored export.
	DeleteExport(ctx context.Context, userID, quoteID uuid.UUID, key string) error
}

type documentService struct {
	store    storage.Store
	quotes   QuoteService
	provider string
	logger   *slog.Logger
}

// NewDocumentService creates a new DocumentService over the given storage
// provider.
func NewDocumentService(store storage.Store, quotes QuoteService, provider string, logger *slog.Logger) DocumentService {
	return &documentService{
		store:    store,
		quotes:   quotes,
		provider: provider,
		logger:   logger,
	}
}

func (s *documentService) StoreExport(ctx context.Context, userID, quoteID uuid.UUID, data io.Reader, contentType string) (string, error) {
	const op = "document.store_export"

	if contentType != "" && !storage.IsPDF(contentType) {
		return "", domain.Invalid(op, "exported documents must be PDF")
	}

	// Ownership check doubles as an existence check.
	if _, err := s.quotes.GetByID(ctx, quoteID, userID); err != nil {
		return "", err
	}

	key := storage.ExportKey(quoteID, "pdf")
	err := s.store.Put(ctx, key, data, storage.PutOptions{
		ContentType: "application/pdf",
		MaxSize:     maxExportSize,
	})
	if err != nil {
		if storage.IsTooLarge(err) {
			return "", domain.Errorf(domain.ETOOLARGE, op, "exported document exceeds %d bytes", maxExportSize)
		}
		return "", domain.Internal(err, op, "failed to store exported document")
	}

	metrics.DocumentsStored.WithLabelValues(s.provider).Inc()
	s.logger.Info("stored quote export", "quote_id", quoteID, "key", key)

	return key, nil
}

func (s *documentService) ExportURL(ctx context.Context, userID, quoteID uuid.UUID, key string) (string, error) {
	const op = "document.export_url"

	if _, err := s.quotes.GetByID(ctx, quoteID, userID); err != nil {
		return "", err
	}
	if !keyBelongsToQuote(key, quoteID) {
		return "", domain.NotFound(op, "Export", key)
	}

	url, err := s.store.URL(ctx, key, exportURLTTL)
	if err != nil {
		if storage.IsNotFound(err) {
			return "", domain.NotFound(op, "Export", key)
		}
		return "", domain.Internal(err, op, "failed to generate export URL")
	}
	return url, nil
}

func (s *documentService) DeleteExport(ctx context.Context, userID, quoteID uuid.UUID, key string) error {
	const op = "document.delete_export"

	if _, err := s.quotes.GetByID(ctx, quoteID, userID); err != nil {
		return err
	}
	if !keyBelongsToQuote(key, quoteID) {
		return domain.NotFound(op, "Export", key)
	}

	if err := s.store.Delete(ctx, key); err != nil {
		return domain.Internal(err, op, "failed to delete exported document")
	}
	return nil
}

// keyBelongsToQuote stops a caller who owns one quote from addressing
// another quote's exports through a crafted key.
func keyBelongsToQuote(key string, quoteID uuid.UUID) bool {
	prefix := "quotes/" + quoteID.String() + "/exports/"
	return len(key) > len(prefix) && key[:len(prefix)] == prefix
}
