// Package draft implements the quote draft engine: the wizard state a user
// builds a quote in, its derived totals, and the suspend/resume persistence
// that keeps in-progress edits alive across tab switches.
//
// A Store is an explicit per-flow session object. The creation-flow
// controller constructs one on entry and tears it down on exit or commit;
// nothing in this package is a process-wide singleton.
package draft

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/qfast/qfast/internal/domain"
)

// Wizard steps, in order.
const (
	StepCompany = 1
	StepClient  = 2
	StepItems   = 3
	StepTerms   = 4
	StepReview  = 5

	stepCount = 5
)

// defaultDueDays is how far the due date is placed after the issue date on
// a fresh draft.
const defaultDueDays = 14

// fallbackQuoteNumber is used when the numbering collaborator fails.
const fallbackQuoteNumber = "QF-0001"

// Terms holds the quote-level terms gathered in the wizard's fourth step.
type Terms struct {
	Number    string             `json:"number"`
	IssueDate time.Time          `json:"issue_date"`
	DueDate   time.Time          `json:"due_date"`
	Note      string             `json:"note"`
	Status    domain.QuoteStatus `json:"status"`
}

// ProfileFetcher is the external profile collaborator used to prefill the
// issuer company details.
type ProfileFetcher interface {
	Fetch(ctx context.Context, userID uuid.UUID) (*domain.Profile, error)
}

// NumberAllocator is the external quote numbering collaborator.
type NumberAllocator interface {
	NextNumber(ctx context.Context, userID uuid.UUID) (string, error)
}

// QuoteRepository persists finalized drafts.
type QuoteRepository interface {
	Create(ctx context.Context, userID uuid.UUID, form domain.QuoteForm) (*domain.Quote, error)
	Update(ctx context.Context, quoteID, userID uuid.UUID, form domain.QuoteForm) (*domain.Quote, error)
	GetByID(ctx context.Context, quoteID, userID uuid.UUID) (*domain.Quote, error)
}

// ClientFetcher loads the client referenced by a persisted quote when the
// quote is reopened for editing.
type ClientFetcher interface {
	GetByID(ctx context.Context, id, userID uuid.UUID) (*domain.Client, error)
}

// purger is satisfied by Session; ClearFormData uses it to drop every
// persistence key belonging to this draft.
type purger interface {
	Purge()
}

// Deps bundles the Store's collaborators.
type Deps struct {
	Profiles ProfileFetcher
	Numbers  NumberAllocator
	Quotes   QuoteRepository
	Clients  ClientFetcher
	Logger   *slog.Logger
}

// Store owns the mutable state of one in-progress quote.
//
// Mutations are synchronous and atomic from the caller's perspective.
// Derived totals are recomputed from current items on every read.
type Store struct {
	deps Deps

	mu               sync.Mutex
	company          domain.CompanyInfo
	client           domain.ClientForm
	items            []domain.QuoteItem
	terms            Terms
	currentStep      int
	taxRate          float64
	taxIncluded      bool
	taxTotalOverride *float64

	persistence purger // set when a Session is attached
}

// NewStore creates a draft store in its initial empty state: one blank
// item, step 1, default tax rate, tax excluded.
func NewStore(deps Deps) *Store {
	s := &Store{deps: deps}
	s.resetLocked()
	return s
}

// blankItem is the placeholder row a fresh draft always contains.
func blankItem() domain.QuoteItem {
	return domain.QuoteItem{
		ID:       uuid.New(),
		Quantity: 1,
		TaxRate:  domain.DefaultTaxRate,
	}
}

// resetLocked returns all state to the initial empty draft. Callers hold mu.
func (s *Store) resetLocked() {
	now := time.Now()
	s.company = domain.CompanyInfo{}
	s.client = domain.ClientForm{}
	s.items = []domain.QuoteItem{blankItem()}
	s.terms = Terms{
		IssueDate: now,
		DueDate:   now.AddDate(0, 0, defaultDueDays),
		Status:    domain.QuoteStatusDraft,
	}
	s.currentStep = StepCompany
	s.taxRate = domain.DefaultTaxRate
	s.taxIncluded = false
	s.taxTotalOverride = nil
}

// =============================================================================
// Mutations
// =============================================================================

// UpdateCompany replaces the issuer snapshot. Callers supply the complete
// object; there is no partial merge.
func (s *Store) UpdateCompany(company domain.CompanyInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.company = company
}

// UpdateClient replaces the client sub-object.
func (s *Store) UpdateClient(client domain.ClientForm) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.client = client
}

// UpdateItems replaces the line items. The slice is copied so later caller
// mutations cannot alias draft state.
func (s *Store) UpdateItems(items []domain.QuoteItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append([]domain.QuoteItem(nil), items...)
}

// UpdateTerms replaces the quote terms.
func (s *Store) UpdateTerms(terms Terms) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.terms = terms
}

// SetTaxRate sets the default rate applied to new items.
func (s *Store) SetTaxRate(rate float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.taxRate = rate
}

// SetTaxIncluded switches the quote-level tax inclusion policy.
func (s *Store) SetTaxIncluded(included bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.taxIncluded = included
}

// SetTaxTotalOverride bypasses the computed tax total. Pass nil to return
// to computed values.
func (s *Store) SetTaxTotalOverride(override *float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if override == nil {
		s.taxTotalOverride = nil
		return
	}
	v := *override
	s.taxTotalOverride = &v
}

// NextStep advances the wizard, clamped to the last step. Crossing from
// the items step into the terms step also tries to hydrate the issuer
// snapshot from the stored profile; a failure there never blocks the step
// change, it only leaves the company at its prior value.
func (s *Store) NextStep(ctx context.Context, userID uuid.UUID) {
	s.mu.Lock()
	if s.currentStep >= stepCount {
		s.mu.Unlock()
		return
	}
	enteringTerms := s.currentStep == StepItems
	s.currentStep++
	s.mu.Unlock()

	if !enteringTerms || s.deps.Profiles == nil || userID == uuid.Nil {
		return
	}

	profile, err := s.deps.Profiles.Fetch(ctx, userID)
	if err != nil {
		s.deps.Logger.Warn("profile hydration failed, keeping current company", "error", err)
		return
	}
	if profile == nil {
		return
	}
	s.UpdateCompany(profile.CompanyInfo())
}

// PreviousStep steps back, clamped to the first step.
func (s *Store) PreviousStep() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentStep > StepCompany {
		s.currentStep--
	}
}

// SetStep jumps to a step inside [1, 5]; out-of-range values are ignored.
func (s *Store) SetStep(step int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if step >= StepCompany && step <= stepCount {
		s.currentStep = step
	}
}

// CurrentStep returns the wizard position.
func (s *Store) CurrentStep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentStep
}

// ResetForm is the "fresh start" path: the draft returns to its initial
// empty state and the next sequential quote number is allocated. Number
// allocation is best effort with a fixed fallback.
func (s *Store) ResetForm(ctx context.Context, userID uuid.UUID) {
	s.mu.Lock()
	s.resetLocked()
	s.mu.Unlock()

	if s.deps.Numbers == nil || userID == uuid.Nil {
		return
	}

	number, err := s.deps.Numbers.NextNumber(ctx, userID)
	if err != nil {
		s.deps.Logger.Warn("quote number allocation failed, using fallback", "error", err)
		number = fallbackQuoteNumber
	}

	s.mu.Lock()
	s.terms.Number = number
	s.mu.Unlock()
}

// ClearFormData is the "hard abandon" path: same reset as ResetForm minus
// the number allocation, plus purging every durable persistence key
// belonging to this draft.
func (s *Store) ClearFormData() {
	s.mu.Lock()
	s.resetLocked()
	persistence := s.persistence
	s.mu.Unlock()

	if persistence != nil {
		persistence.Purge()
	}
}

// =============================================================================
// Derived values
// =============================================================================

// Totals recomputes the aggregate totals from the current items. The tax
// total honors the override when one is set.
func (s *Store) Totals() domain.QuoteTotals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.Totals(s.items, s.taxIncluded, s.taxTotalOverride)
}

// Subtotal returns the sum of net prices.
func (s *Store) Subtotal() float64 { return s.Totals().Subtotal }

// TaxTotal returns the computed (or overridden) tax total.
func (s *Store) TaxTotal() float64 { return s.Totals().TaxTotal }

// Total returns the quote total under the current tax inclusion policy.
func (s *Store) Total() float64 { return s.Totals().Total }

// Items returns a copy of the current line items.
func (s *Store) Items() []domain.QuoteItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.QuoteItem(nil), s.items...)
}

// Company returns the issuer snapshot.
func (s *Store) Company() domain.CompanyInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.company
}

// Client returns the client sub-object.
func (s *Store) Client() domain.ClientForm {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.client
}

// TermsData returns the quote terms.
func (s *Store) TermsData() Terms {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.terms
}

// TaxIncluded reports the quote-level tax inclusion policy.
func (s *Store) TaxIncluded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.taxIncluded
}

// TaxRate returns the default rate for new items.
func (s *Store) TaxRate() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.taxRate
}

// HasProgress reports whether the draft is worth snapshotting: the user
// moved past the first step or touched at least one line item.
func (s *Store) HasProgress() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.currentStep > StepCompany {
		return true
	}
	for _, item := range s.items {
		if item.Description != "" || item.UnitPrice != 0 {
			return true
		}
	}
	return false
}

// QuoteData projects the draft into the repository's quote form shape.
// Dates are converted to canonical RFC 3339 strings; the due date doubles
// as the valid-until date.
func (s *Store) QuoteData() domain.QuoteForm {
	s.mu.Lock()
	defer s.mu.Unlock()

	totals := domain.Totals(s.items, s.taxIncluded, s.taxTotalOverride)

	status := s.terms.Status
	if status == "" {
		status = domain.QuoteStatusDraft
	}

	return domain.QuoteForm{
		Number:      s.terms.Number,
		Client:      s.client,
		Items:       append([]domain.QuoteItem(nil), s.items...),
		Subtotal:    totals.Subtotal,
		TaxTotal:    totals.TaxTotal,
		Total:       totals.Total,
		TaxRate:     s.taxRate,
		TaxIncluded: s.taxIncluded,
		Notes:       s.terms.Note,
		IssueDate:   s.terms.IssueDate.Format(time.RFC3339),
		DueDate:     s.terms.DueDate.Format(time.RFC3339),
		ValidUntil:  s.terms.DueDate.Format(time.RFC3339),
		Status:      status,
	}
}

// =============================================================================
// Persistence operations
// =============================================================================

// SaveQuote validates the draft and persists it as a new quote. Validation
// failures are logged and re-raised with every violated rule; they are
// never swallowed.
func (s *Store) SaveQuote(ctx context.Context, userID uuid.UUID) (*domain.Quote, error) {
	const op = "draft.save"

	form := s.QuoteData()
	if violations := domain.ValidateQuoteForm(form); len(violations) > 0 {
		s.deps.Logger.Info("draft failed validation", "violations", len(violations))
		return nil, domain.NewValidationError(op, violations)
	}

	return s.deps.Quotes.Create(ctx, userID, form)
}

// UpdateQuote validates the draft and replaces an existing quote.
func (s *Store) UpdateQuote(ctx context.Context, quoteID, userID uuid.UUID) (*domain.Quote, error) {
	const op = "draft.update"

	form := s.QuoteData()
	if violations := domain.ValidateQuoteForm(form); len(violations) > 0 {
		s.deps.Logger.Info("draft failed validation", "violations", len(violations))
		return nil, domain.NewValidationError(op, violations)
	}

	return s.deps.Quotes.Update(ctx, quoteID, userID, form)
}

// LoadQuote fetches a persisted quote and overwrites draft state wholesale.
// Line items come back as raw entered fields; derived amounts are always
// recomputed rather than read from storage. The issuer snapshot is
// re-hydrated from the profile and the client record, both best effort.
func (s *Store) LoadQuote(ctx context.Context, quoteID, userID uuid.UUID) (*domain.Quote, error) {
	quote, err := s.deps.Quotes.GetByID(ctx, quoteID, userID)
	if err != nil {
		return nil, err
	}

	var company domain.CompanyInfo
	if s.deps.Profiles != nil {
		if profile, perr := s.deps.Profiles.Fetch(ctx, userID); perr == nil && profile != nil {
			company = profile.CompanyInfo()
		} else if perr != nil {
			s.deps.Logger.Warn("profile load during quote open failed", "error", perr)
		}
	}

	client := domain.ClientForm{CompanyName: "Unknown Client"}
	if s.deps.Clients != nil {
		if c, cerr := s.deps.Clients.GetByID(ctx, quote.ClientID, userID); cerr == nil {
			id := c.ID
			client = domain.ClientForm{
				ID:          &id,
				CompanyName: c.CompanyName,
				ContactName: c.ContactName,
				Email:       c.Email,
				Phone:       c.Phone,
				Street:      c.Street,
				City:        c.City,
				State:       c.State,
				Zip:         c.Zip,
				Country:     c.Country,
			}
		} else {
			s.deps.Logger.Warn("client load during quote open failed", "error", cerr)
		}
	}

	items := quote.Items
	if len(items) == 0 {
		items = []domain.QuoteItem{blankItem()}
	}

	s.mu.Lock()
	s.company = company
	s.client = client
	s.items = append([]domain.QuoteItem(nil), items...)
	s.terms = Terms{
		Number:    quote.Number,
		IssueDate: quote.IssueDate,
		DueDate:   quote.DueDate,
		Note:      quote.Notes,
		Status:    quote.Status,
	}
	s.taxRate = quote.TaxRate
	s.taxIncluded = quote.TaxIncluded
	s.taxTotalOverride = nil
	s.mu.Unlock()

	return quote, nil
}
