// This file implements the quote wizard endpoints. Each authenticated
// user has at most one live draft flow; the endpoints mutate it, report
// its derived totals, and drive the suspend/resume lifecycle the client
// signals through blur, focus, and navigation events.
package handler

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/qfast/qfast/internal/auth"
	"github.com/qfast/qfast/internal/domain"
	"github.com/qfast/qfast/internal/draft"
	"github.com/qfast/qfast/internal/locale"
)

// DraftHandler handles the quote creation wizard.
type DraftHandler struct {
	manager *draft.Manager
	logger  *slog.Logger
}

// NewDraftHandler creates a new DraftHandler.
func NewDraftHandler(manager *draft.Manager, logger *slog.Logger) *DraftHandler {
	return &DraftHandler{
		manager: manager,
		logger:  logger,
	}
}

// draftState is the full wizard state returned after every operation so
// the client never has to merge partial updates.
type draftState struct {
	CurrentStep int                `json:"current_step"`
	Company     domain.CompanyInfo `json:"company"`
	Client      domain.ClientForm  `json:"client"`
	Items       []domain.QuoteItem `json:"items"`
	Terms       draft.Terms        `json:"terms"`
	TaxRate     float64            `json:"tax_rate"`
	TaxIncluded bool               `json:"tax_included"`
	Totals      totalsResponse     `json:"totals"`
	Phase       string             `json:"phase"`
}

type totalsResponse struct {
	Subtotal          float64 `json:"subtotal"`
	TaxTotal          float64 `json:"tax_total"`
	Total             float64 `json:"total"`
	SubtotalFormatted string  `json:"subtotal_formatted"`
	TaxTotalFormatted string  `json:"tax_total_formatted"`
	TotalFormatted    string  `json:"total_formatted"`
}

func (h *DraftHandler) state(r *http.Request, flow *draft.Flow) draftState {
	formatter := locale.NewFormatter(locale.FromContext(r.Context()))
	totals := flow.Store.Totals()

	return draftState{
		CurrentStep: flow.Store.CurrentStep(),
		Company:     flow.Store.Company(),
		Client:      flow.Store.Client(),
		Items:       flow.Store.Items(),
		Terms:       flow.Store.TermsData(),
		TaxRate:     flow.Store.TaxRate(),
		TaxIncluded: flow.Store.TaxIncluded(),
		Totals: totalsResponse{
			Subtotal:          totals.Subtotal,
			TaxTotal:          totals.TaxTotal,
			Total:             totals.Total,
			SubtotalFormatted: formatter.Amount(totals.Subtotal),
			TaxTotalFormatted: formatter.Amount(totals.TaxTotal),
			TotalFormatted:    formatter.Amount(totals.Total),
		},
		Phase: flow.Session.Phase().String(),
	}
}

func (h *DraftHandler) flow(r *http.Request) (*draft.Flow, uuid.UUID) {
	identity := auth.IdentityFrom(r.Context())
	return h.manager.Flow(identity.UserID), identity.UserID
}

// Enter handles POST /api/draft/enter: the creation-flow entry point.
func (h *DraftHandler) Enter(w http.ResponseWriter, r *http.Request) {
	flow, userID := h.flow(r)
	flow.Session.EnteringFlow(r.Context(), userID)
	JSON(w, http.StatusOK, h.state(r, flow))
}

// Get handles GET /api/draft.
func (h *DraftHandler) Get(w http.ResponseWriter, r *http.Request) {
	flow, _ := h.flow(r)
	JSON(w, http.StatusOK, h.state(r, flow))
}

// UpdateCompany handles PUT /api/draft/company.
func (h *DraftHandler) UpdateCompany(w http.ResponseWriter, r *http.Request) {
	flow, _ := h.flow(r)

	var company domain.CompanyInfo
	if err := Decode(r, &company); err != nil {
		BadRequestResponse(w, h.logger, err)
		return
	}

	flow.Store.UpdateCompany(company)
	JSON(w, http.StatusOK, h.state(r, flow))
}

// UpdateClient handles PUT /api/draft/client.
func (h *DraftHandler) UpdateClient(w http.ResponseWriter, r *http.Request) {
	flow, _ := h.flow(r)

	var client domain.ClientForm
	if err := Decode(r, &client); err != nil {
		BadRequestResponse(w, h.logger, err)
		return
	}

	flow.Store.UpdateClient(client)
	JSON(w, http.StatusOK, h.state(r, flow))
}

// UpdateItems handles PUT /api/draft/items.
func (h *DraftHandler) UpdateItems(w http.ResponseWriter, r *http.Request) {
	flow, _ := h.flow(r)

	var payload struct {
		Items       []domain.QuoteItem `json:"items"`
		TaxRate     *float64           `json:"tax_rate"`
		TaxIncluded *bool              `json:"tax_included"`
		TaxOverride *float64           `json:"tax_override"`
	}
	if err := Decode(r, &payload); err != nil {
		BadRequestResponse(w, h.logger, err)
		return
	}

	flow.Store.UpdateItems(payload.Items)
	if payload.TaxRate != nil {
		flow.Store.SetTaxRate(*payload.TaxRate)
	}
	if payload.TaxIncluded != nil {
		flow.Store.SetTaxIncluded(*payload.TaxIncluded)
	}
	flow.Store.SetTaxTotalOverride(payload.TaxOverride)

	JSON(w, http.StatusOK, h.state(r, flow))
}

// UpdateTerms handles PUT /api/draft/terms.
func (h *DraftHandler) UpdateTerms(w http.ResponseWriter, r *http.Request) {
	flow, _ := h.flow(r)

	var terms draft.Terms
	if err := Decode(r, &terms); err != nil {
		BadRequestResponse(w, h.logger, err)
		return
	}

	flow.Store.UpdateTerms(terms)
	JSON(w, http.StatusOK, h.state(r, flow))
}

// NextStep handles POST /api/draft/next.
func (h *DraftHandler) NextStep(w http.ResponseWriter, r *http.Request) {
	flow, userID := h.flow(r)
	flow.Store.NextStep(r.Context(), userID)
	JSON(w, http.StatusOK, h.state(r, flow))
}

// PreviousStep handles POST /api/draft/previous.
func (h *DraftHandler) PreviousStep(w http.ResponseWriter, r *http.Request) {
	flow, _ := h.flow(r)
	flow.Store.PreviousStep()
	JSON(w, http.StatusOK, h.state(r, flow))
}

// SetStep handles POST /api/draft/step.
func (h *DraftHandler) SetStep(w http.ResponseWriter, r *http.Request) {
	flow, _ := h.flow(r)

	var payload struct {
		Step int `json:"step"`
	}
	if err := Decode(r, &payload); err != nil {
		BadRequestResponse(w, h.logger, err)
		return
	}

	flow.Store.SetStep(payload.Step)
	JSON(w, http.StatusOK, h.state(r, flow))
}

// Reset handles POST /api/draft/reset: fresh start with a new number.
func (h *DraftHandler) Reset(w http.ResponseWriter, r *http.Request) {
	flow, userID := h.flow(r)
	flow.Store.ResetForm(r.Context(), userID)
	JSON(w, http.StatusOK, h.state(r, flow))
}

// Clear handles POST /api/draft/clear: hard abandon.
func (h *DraftHandler) Clear(w http.ResponseWriter, r *http.Request) {
	flow, _ := h.flow(r)
	flow.Store.ClearFormData()
	JSON(w, http.StatusOK, h.state(r, flow))
}

// Blur handles POST /api/draft/blur: the editing surface lost focus.
func (h *DraftHandler) Blur(w http.ResponseWriter, r *http.Request) {
	flow, _ := h.flow(r)
	flow.Session.Blur()
	JSON(w, http.StatusOK, map[string]string{"phase": flow.Session.Phase().String()})
}

// Focus handles POST /api/draft/focus: the editing surface regained focus.
func (h *DraftHandler) Focus(w http.ResponseWriter, r *http.Request) {
	flow, _ := h.flow(r)
	flow.Session.Focus()
	JSON(w, http.StatusOK, h.state(r, flow))
}

// Navigate handles POST /api/draft/navigate: the navigation guard check.
func (h *DraftHandler) Navigate(w http.ResponseWriter, r *http.Request) {
	flow, _ := h.flow(r)

	var payload struct {
		LeavingFlow bool `json:"leaving_flow"`
	}
	if err := Decode(r, &payload); err != nil {
		BadRequestResponse(w, h.logger, err)
		return
	}

	cleared := flow.Session.HandleNavigation(payload.LeavingFlow)
	JSON(w, http.StatusOK, map[string]interface{}{
		"cleared": cleared,
		"phase":   flow.Session.Phase().String(),
	})
}

// Save handles POST /api/draft/save: validate, persist as a new quote,
// and tear down the flow.
func (h *DraftHandler) Save(w http.ResponseWriter, r *http.Request) {
	flow, userID := h.flow(r)

	quote, err := flow.Store.SaveQuote(r.Context(), userID)
	if err != nil {
		ErrorResponse(w, h.logger, err)
		return
	}

	h.manager.End(userID)
	JSON(w, http.StatusCreated, toQuoteResponse(quote, locale.NewFormatter(locale.FromContext(r.Context()))))
}

// SaveExisting handles PUT /api/draft/quotes/{id}: persist the draft over
// an existing quote.
func (h *DraftHandler) SaveExisting(w http.ResponseWriter, r *http.Request) {
	flow, userID := h.flow(r)

	quoteID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		NotFoundResponse(w, h.logger)
		return
	}

	quote, err := flow.Store.UpdateQuote(r.Context(), quoteID, userID)
	if err != nil {
		ErrorResponse(w, h.logger, err)
		return
	}

	h.manager.End(userID)
	JSON(w, http.StatusOK, toQuoteResponse(quote, locale.NewFormatter(locale.FromContext(r.Context()))))
}

// Load handles POST /api/draft/quotes/{id}/load: reopen a persisted quote
// for editing in the wizard.
func (h *DraftHandler) Load(w http.ResponseWriter, r *http.Request) {
	flow, userID := h.flow(r)

	quoteID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		NotFoundResponse(w, h.logger)
		return
	}

	if _, err := flow.Store.LoadQuote(r.Context(), quoteID, userID); err != nil {
		ErrorResponse(w, h.logger, err)
		return
	}

	JSON(w, http.StatusOK, h.state(r, flow))
}
