// This file implements the quote service: persisting finalized quote
// drafts, listing them for the dashboard, and loading them back for
// editing.
package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/sqlc-dev/pqtype"
	"github.com/qfast/qfast/internal/domain"
	"github.com/qfast/qfast/internal/metrics"
	"github.com/qfast/qfast/internal/repository"
)

// QuoteService defines the interface for quote persistence operations.
//
// Validation failures are reported as *domain.ValidationError carrying the
// full violation list; persistence failures as domain.EINTERNAL.
type QuoteService interface {
	// Create validates and persists a finalized quote form. A client form
	// without an ID is resolved by company name, creating the client when
	// it does not exist yet.
	Create(ctx context.Context, userID uuid.UUID, form domain.QuoteForm) (*domain.Quote, error)

	// Update validates and replaces an existing quote owned by the user.
	Update(ctx context.Context, quoteID, userID uuid.UUID, form domain.QuoteForm) (*domain.Quote, error)

	// GetByID fetches one quote with typed line items.
	// Derived per-item amounts are recomputed from raw fields, not trusted
	// from storage.
	GetByID(ctx context.Context, quoteID, userID uuid.UUID) (*domain.Quote, error)

	// ListForOwner returns the owner's quotes with the client summary
	// joined in, newest first.
	ListForOwner(ctx context.Context, userID uuid.UUID) ([]domain.QuoteSummary, error)

	// Stats aggregates the owner's quotes for the dashboard.
	Stats(ctx context.Context, userID uuid.UUID) (*domain.QuoteStats, error)
}

type quoteService struct {
	queries *repository.Queries
	clients ClientService
	logger  *slog.Logger
}

// NewQuoteService creates a new QuoteService.
func NewQuoteService(queries *repository.Queries, clients ClientService, logger *slog.Logger) QuoteService {
	return &quoteService{
		queries: queries,
		clients: clients,
		logger:  logger,
	}
}

func (s *quoteService) Create(ctx context.Context, userID uuid.UUID, form domain.QuoteForm) (*domain.Quote, error) {
	const op = "quote.create"

	if violations := domain.ValidateQuoteForm(form); len(violations) > 0 {
		return nil, domain.NewValidationError(op, violations)
	}

	clientID, err := s.resolveClient(ctx, userID, form.Client)
	if err != nil {
		return nil, err
	}

	params, err := quoteWriteParams(form)
	if err != nil {
		return nil, domain.Invalid(op, err.Error())
	}

	row, err := s.queries.CreateQuote(ctx, repository.CreateQuoteParams{
		UserID:      userID,
		ClientID:    clientID,
		Number:      form.Number,
		Status:      params.status,
		Items:       params.items,
		Subtotal:    form.Subtotal,
		TaxTotal:    form.TaxTotal,
		Total:       form.Total,
		TaxRate:     form.TaxRate,
		TaxIncluded: form.TaxIncluded,
		Notes:       form.Notes,
		IssueDate:   params.issueDate,
		DueDate:     params.dueDate,
		ValidUntil:  params.validUntil,
	})
	if err != nil {
		return nil, domain.Internal(err, op, "failed to save quote")
	}

	metrics.QuotesCreated.Inc()
	s.logger.Info("quote created",
		"quote_id", row.ID,
		"user_id", userID,
		"number", row.Number,
		"total", row.Total,
	)

	quote, err := s.rowToQuote(row)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to decode saved quote")
	}
	return quote, nil
}

func (s *quoteService) Update(ctx context.Context, quoteID, userID uuid.UUID, form domain.QuoteForm) (*domain.Quote, error) {
	const op = "quote.update"

	if violations := domain.ValidateQuoteForm(form); len(violations) > 0 {
		return nil, domain.NewValidationError(op, violations)
	}

	clientID, err := s.resolveClient(ctx, userID, form.Client)
	if err != nil {
		return nil, err
	}

	params, err := quoteWriteParams(form)
	if err != nil {
		return nil, domain.Invalid(op, err.Error())
	}

	row, err := s.queries.UpdateQuote(ctx, repository.UpdateQuoteParams{
		ID:          quoteID,
		UserID:      userID,
		ClientID:    clientID,
		Number:      form.Number,
		Status:      params.status,
		Items:       params.items,
		Subtotal:    form.Subtotal,
		TaxTotal:    form.TaxTotal,
		Total:       form.Total,
		TaxRate:     form.TaxRate,
		TaxIncluded: form.TaxIncluded,
		Notes:       form.Notes,
		IssueDate:   params.issueDate,
		DueDate:     params.dueDate,
		ValidUntil:  params.validUntil,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound(op, "quote", quoteID.String())
		}
		return nil, domain.Internal(err, op, "failed to update quote")
	}

	s.logger.Info("quote updated", "quote_id", quoteID, "user_id", userID)

	quote, err := s.rowToQuote(row)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to decode updated quote")
	}
	return quote, nil
}

func (s *quoteService) GetByID(ctx context.Context, quoteID, userID uuid.UUID) (*domain.Quote, error) {
	const op = "quote.get"

	row, err := s.queries.GetQuoteByIDAndUserID(ctx, repository.GetQuoteByIDAndUserIDParams{
		ID:     quoteID,
		UserID: userID,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound(op, "quote", quoteID.String())
		}
		return nil, domain.Internal(err, op, "failed to get quote")
	}

	quote, err := s.rowToQuote(row)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to decode quote items")
	}
	return quote, nil
}

func (s *quoteService) ListForOwner(ctx context.Context, userID uuid.UUID) ([]domain.QuoteSummary, error) {
	const op = "quote.list"

	rows, err := s.queries.ListQuotesWithClientByUserID(ctx, userID)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to list quotes")
	}

	summaries := make([]domain.QuoteSummary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, domain.QuoteSummary{
			ID:                row.ID,
			Number:            row.Number,
			Status:            domain.QuoteStatus(row.Status),
			Total:             row.Total,
			ValidUntil:        row.ValidUntil.Time,
			CreatedAt:         row.CreatedAt,
			UpdatedAt:         row.UpdatedAt,
			ClientID:          row.ClientID,
			ClientCompanyName: row.ClientCompanyName,
			ClientEmail:       domain.FromNullString(row.ClientEmail),
		})
	}
	return summaries, nil
}

func (s *quoteService) Stats(ctx context.Context, userID uuid.UUID) (*domain.QuoteStats, error) {
	const op = "quote.stats"

	rows, err := s.queries.QuoteStatsByUserID(ctx, userID)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to load quote stats")
	}

	stats := &domain.QuoteStats{}
	for _, row := range rows {
		stats.Total += int(row.Count)
		stats.Amount += row.Amount
		switch domain.QuoteStatus(row.Status) {
		case domain.QuoteStatusDraft:
			stats.Draft += int(row.Count)
		case domain.QuoteStatusSent:
			stats.Sent += int(row.Count)
		case domain.QuoteStatusAccepted:
			stats.Accepted += int(row.Count)
		case domain.QuoteStatusRejected:
			stats.Rejected += int(row.Count)
		}
	}
	return stats, nil
}

// resolveClient returns the client ID for a quote form: the given ID when
// present, otherwise find-or-create by company name.
func (s *quoteService) resolveClient(ctx context.Context, userID uuid.UUID, form domain.ClientForm) (uuid.UUID, error) {
	if form.ID != nil {
		return *form.ID, nil
	}
	client, err := s.clients.FindOrCreateByCompanyName(ctx, userID, form)
	if err != nil {
		return uuid.Nil, err
	}
	return client.ID, nil
}

// writeParams holds the converted column values shared by create and update.
type writeParams struct {
	status     string
	items      pqtype.NullRawMessage
	issueDate  time.Time
	dueDate    time.Time
	validUntil sql.NullTime
}

func quoteWriteParams(form domain.QuoteForm) (writeParams, error) {
	status := form.Status
	if status == "" {
		status = domain.QuoteStatusDraft
	}

	itemsJSON, err := domain.EncodeQuoteItems(form.Items)
	if err != nil {
		return writeParams{}, err
	}

	issueDate, err := time.Parse(time.RFC3339, form.IssueDate)
	if err != nil {
		return writeParams{}, errors.New("issue date must be an RFC 3339 timestamp")
	}
	dueDate, err := time.Parse(time.RFC3339, form.DueDate)
	if err != nil {
		return writeParams{}, errors.New("due date must be an RFC 3339 timestamp")
	}

	var validUntil sql.NullTime
	if form.ValidUntil != "" {
		t, err := time.Parse(time.RFC3339, form.ValidUntil)
		if err != nil {
			return writeParams{}, errors.New("valid until must be an RFC 3339 timestamp")
		}
		validUntil = sql.NullTime{Time: t, Valid: true}
	}

	return writeParams{
		status:     string(status),
		items:      pqtype.NullRawMessage{RawMessage: itemsJSON, Valid: true},
		issueDate:  issueDate,
		dueDate:    dueDate,
		validUntil: validUntil,
	}, nil
}

func (s *quoteService) rowToQuote(row repository.Quote) (*domain.Quote, error) {
	var itemsJSON []byte
	if row.Items.Valid {
		itemsJSON = row.Items.RawMessage
	}
	items, err := domain.DecodeQuoteItems(itemsJSON, row.TaxRate)
	if err != nil {
		return nil, err
	}

	return &domain.Quote{
		ID:          row.ID,
		UserID:      row.UserID,
		ClientID:    row.ClientID,
		Number:      row.Number,
		Status:      domain.QuoteStatus(row.Status),
		Items:       items,
		Subtotal:    row.Subtotal,
		TaxTotal:    row.TaxTotal,
		Total:       row.Total,
		TaxRate:     row.TaxRate,
		TaxIncluded: row.TaxIncluded,
		Notes:       row.Notes,
		IssueDate:   row.IssueDate,
		DueDate:     row.DueDate,
		ValidUntil:  row.ValidUntil.Time,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}, nil
}
