// This file implements the quote endpoints: listing, detail, direct
// create/update with a complete form, and dashboard statistics.
package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/qfast/qfast/internal/auth"
	"github.com/qfast/qfast/internal/domain"
	"github.com/qfast/qfast/internal/locale"
	"github.com/qfast/qfast/internal/service"
)

// QuoteHandler handles quote-related HTTP requests.
type QuoteHandler struct {
	quotes service.QuoteService
	logger *slog.Logger
}

// NewQuoteHandler creates a new QuoteHandler.
func NewQuoteHandler(quotes service.QuoteService, logger *slog.Logger) *QuoteHandler {
	return &QuoteHandler{
		quotes: quotes,
		logger: logger,
	}
}

// quoteResponse is the JSON shape of a persisted quote.
type quoteResponse struct {
	ID          uuid.UUID          `json:"id"`
	ClientID    uuid.UUID          `json:"client_id"`
	Number      string             `json:"number"`
	Status      domain.QuoteStatus `json:"status"`
	Items       []domain.QuoteItem `json:"items"`
	Subtotal    float64            `json:"subtotal"`
	TaxTotal    float64            `json:"tax_total"`
	Total       float64            `json:"total"`
	TaxRate     float64            `json:"tax_rate"`
	TaxIncluded bool               `json:"tax_included"`
	Notes       string             `json:"notes,omitempty"`
	IssueDate   time.Time          `json:"issue_date"`
	DueDate     time.Time          `json:"due_date"`
	ValidUntil  time.Time          `json:"valid_until"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`

	// TotalFormatted renders the total in the request locale's currency.
	TotalFormatted string `json:"total_formatted"`
}

func toQuoteResponse(q *domain.Quote, fmt *locale.Formatter) quoteResponse {
	return quoteResponse{
		ID:             q.ID,
		ClientID:       q.ClientID,
		Number:         q.Number,
		Status:         q.Status,
		Items:          q.Items,
		Subtotal:       q.Subtotal,
		TaxTotal:       q.TaxTotal,
		Total:          q.Total,
		TaxRate:        q.TaxRate,
		TaxIncluded:    q.TaxIncluded,
		Notes:          q.Notes,
		IssueDate:      q.IssueDate,
		DueDate:        q.DueDate,
		ValidUntil:     q.ValidUntil,
		CreatedAt:      q.CreatedAt,
		UpdatedAt:      q.UpdatedAt,
		TotalFormatted: fmt.Amount(q.Total),
	}
}

// quoteSummaryResponse is one row of the quote list.
type quoteSummaryResponse struct {
	ID             uuid.UUID          `json:"id"`
	Number         string             `json:"number"`
	Status         domain.QuoteStatus `json:"status"`
	Total          float64            `json:"total"`
	TotalFormatted string             `json:"total_formatted"`
	ValidUntil     time.Time          `json:"valid_until"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
	Client         struct {
		ID          uuid.UUID `json:"id"`
		CompanyName string    `json:"company_name"`
		Email       string    `json:"email,omitempty"`
	} `json:"client"`
}

// List handles GET /api/quotes.
func (h *QuoteHandler) List(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFrom(r.Context())
	formatter := locale.NewFormatter(locale.FromContext(r.Context()))

	summaries, err := h.quotes.ListForOwner(r.Context(), identity.UserID)
	if err != nil {
		ErrorResponse(w, h.logger, err)
		return
	}

	items := make([]quoteSummaryResponse, 0, len(summaries))
	for _, s := range summaries {
		row := quoteSummaryResponse{
			ID:             s.ID,
			Number:         s.Number,
			Status:         s.Status,
			Total:          s.Total,
			TotalFormatted: formatter.Amount(s.Total),
			ValidUntil:     s.ValidUntil,
			CreatedAt:      s.CreatedAt,
			UpdatedAt:      s.UpdatedAt,
		}
		row.Client.ID = s.ClientID
		row.Client.CompanyName = s.ClientCompanyName
		row.Client.Email = s.ClientEmail
		items = append(items, row)
	}

	JSON(w, http.StatusOK, map[string]interface{}{"quotes": items})
}

// Get handles GET /api/quotes/{id}.
func (h *QuoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFrom(r.Context())

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		NotFoundResponse(w, h.logger)
		return
	}

	quote, err := h.quotes.GetByID(r.Context(), id, identity.UserID)
	if err != nil {
		ErrorResponse(w, h.logger, err)
		return
	}

	JSON(w, http.StatusOK, toQuoteResponse(quote, locale.NewFormatter(locale.FromContext(r.Context()))))
}

// Create handles POST /api/quotes with a complete quote form.
func (h *QuoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFrom(r.Context())

	var form domain.QuoteForm
	if err := Decode(r, &form); err != nil {
		BadRequestResponse(w, h.logger, err)
		return
	}

	quote, err := h.quotes.Create(r.Context(), identity.UserID, form)
	if err != nil {
		ErrorResponse(w, h.logger, err)
		return
	}

	JSON(w, http.StatusCreated, toQuoteResponse(quote, locale.NewFormatter(locale.FromContext(r.Context()))))
}

// Update handles PUT /api/quotes/{id}.
func (h *QuoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFrom(r.Context())

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		NotFoundResponse(w, h.logger)
		return
	}

	var form domain.QuoteForm
	if err := Decode(r, &form); err != nil {
		BadRequestResponse(w, h.logger, err)
		return
	}

	quote, err := h.quotes.Update(r.Context(), id, identity.UserID, form)
	if err != nil {
		ErrorResponse(w, h.logger, err)
		return
	}

	JSON(w, http.StatusOK, toQuoteResponse(quote, locale.NewFormatter(locale.FromContext(r.Context()))))
}

// Stats handles GET /api/quotes/stats for the dashboard.
func (h *QuoteHandler) Stats(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFrom(r.Context())
	formatter := locale.NewFormatter(locale.FromContext(r.Context()))

	stats, err := h.quotes.Stats(r.Context(), identity.UserID)
	if err != nil {
		ErrorResponse(w, h.logger, err)
		return
	}

	JSON(w, http.StatusOK, map[string]interface{}{
		"total":            stats.Total,
		"draft":            stats.Draft,
		"sent":             stats.Sent,
		"accepted":         stats.Accepted,
		"rejected":         stats.Rejected,
		"amount":           stats.Amount,
		"amount_formatted": formatter.Amount(stats.Amount),
	})
}
