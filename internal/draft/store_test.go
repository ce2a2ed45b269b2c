package draft

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qfast/qfast/internal/domain"
)

// =============================================================================
// Test collaborators
// =============================================================================

type stubProfiles struct {
	profile *domain.Profile
	err     error
	calls   int
}

func (s *stubProfiles) Fetch(_ context.Context, _ uuid.UUID) (*domain.Profile, error) {
	s.calls++
	return s.profile, s.err
}

type stubNumbers struct {
	number string
	err    error
	calls  int
}

func (s *stubNumbers) NextNumber(_ context.Context, _ uuid.UUID) (string, error) {
	s.calls++
	return s.number, s.err
}

type stubQuotes struct {
	quote       *domain.Quote
	err         error
	createForms []domain.QuoteForm
	updateForms []domain.QuoteForm
}

func (s *stubQuotes) Create(_ context.Context, _ uuid.UUID, form domain.QuoteForm) (*domain.Quote, error) {
	s.createForms = append(s.createForms, form)
	return s.quote, s.err
}

func (s *stubQuotes) Update(_ context.Context, _, _ uuid.UUID, form domain.QuoteForm) (*domain.Quote, error) {
	s.updateForms = append(s.updateForms, form)
	return s.quote, s.err
}

func (s *stubQuotes) GetByID(_ context.Context, _, _ uuid.UUID) (*domain.Quote, error) {
	return s.quote, s.err
}

type stubClients struct {
	client *domain.Client
	err    error
}

func (s *stubClients) GetByID(_ context.Context, _, _ uuid.UUID) (*domain.Client, error) {
	return s.client, s.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestStore(deps Deps) *Store {
	if deps.Logger == nil {
		deps.Logger = testLogger()
	}
	return NewStore(deps)
}

func validDraft(s *Store) {
	s.UpdateClient(domain.ClientForm{CompanyName: "Acme s.r.o.", Email: "acme@example.com"})
	s.UpdateItems([]domain.QuoteItem{
		{ID: uuid.New(), Description: "Consulting", Quantity: 2, UnitPrice: 100, TaxRate: 21},
	})
	s.UpdateTerms(Terms{
		Number:    "QF-0042",
		IssueDate: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		DueDate:   time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		Status:    domain.QuoteStatusDraft,
	})
}

// =============================================================================
// Initial state and mutations
// =============================================================================

func TestNewStoreInitialState(t *testing.T) {
	s := newTestStore(Deps{})

	items := s.Items()
	require.Len(t, items, 1)
	assert.Empty(t, items[0].Description)
	assert.Equal(t, 1.0, items[0].Quantity)
	assert.Equal(t, domain.DefaultTaxRate, items[0].TaxRate)

	assert.Equal(t, StepCompany, s.CurrentStep())
	assert.Equal(t, domain.DefaultTaxRate, s.TaxRate())
	assert.False(t, s.TaxIncluded())
}

func TestUpdateItemsCopiesInput(t *testing.T) {
	s := newTestStore(Deps{})

	items := []domain.QuoteItem{{Description: "Original", Quantity: 1, UnitPrice: 10}}
	s.UpdateItems(items)
	items[0].Description = "Mutated"

	assert.Equal(t, "Original", s.Items()[0].Description)
}

func TestDerivedTotals(t *testing.T) {
	s := newTestStore(Deps{})
	s.UpdateItems([]domain.QuoteItem{
		{Description: "Work", Quantity: 2, UnitPrice: 100, TaxRate: 21},
	})

	s.SetTaxIncluded(true)
	assert.Equal(t, 200.0, s.Subtotal())
	assert.Equal(t, 42.0, s.TaxTotal())
	assert.Equal(t, 242.0, s.Total())

	s.SetTaxIncluded(false)
	assert.Equal(t, 42.0, s.TaxTotal())
	assert.Equal(t, 200.0, s.Total())
}

func TestTaxTotalOverride(t *testing.T) {
	s := newTestStore(Deps{})
	s.UpdateItems([]domain.QuoteItem{
		{Description: "Work", Quantity: 1, UnitPrice: 100, TaxRate: 21},
	})
	s.SetTaxIncluded(true)

	override := 15.5
	s.SetTaxTotalOverride(&override)
	assert.Equal(t, 15.5, s.TaxTotal())
	assert.Equal(t, 115.5, s.Total())

	s.SetTaxTotalOverride(nil)
	assert.Equal(t, 21.0, s.TaxTotal())
}

// =============================================================================
// Wizard steps
// =============================================================================

func TestStepNavigationClamps(t *testing.T) {
	s := newTestStore(Deps{})
	ctx := context.Background()

	s.PreviousStep()
	assert.Equal(t, StepCompany, s.CurrentStep())

	for i := 0; i < 10; i++ {
		s.NextStep(ctx, uuid.Nil)
	}
	assert.Equal(t, StepReview, s.CurrentStep())

	s.SetStep(0)
	assert.Equal(t, StepReview, s.CurrentStep())
	s.SetStep(StepItems)
	assert.Equal(t, StepItems, s.CurrentStep())
}

func TestNextStepHydratesCompanyEnteringTerms(t *testing.T) {
	profiles := &stubProfiles{profile: &domain.Profile{Name: "Moje Firma", Email: "me@firma.cz"}}
	s := newTestStore(Deps{Profiles: profiles})
	userID := uuid.New()
	ctx := context.Background()

	s.SetStep(StepClient)
	s.NextStep(ctx, userID)
	assert.Equal(t, 0, profiles.calls, "hydration must only fire on the items-to-terms boundary")

	s.NextStep(ctx, userID)
	assert.Equal(t, StepTerms, s.CurrentStep())
	assert.Equal(t, 1, profiles.calls)
	assert.Equal(t, "Moje Firma", s.Company().Name)
}

func TestNextStepHydrationFailureKeepsCompany(t *testing.T) {
	profiles := &stubProfiles{err: errors.New("backend down")}
	s := newTestStore(Deps{Profiles: profiles})
	s.UpdateCompany(domain.CompanyInfo{Name: "Existing"})
	s.SetStep(StepItems)

	s.NextStep(context.Background(), uuid.New())

	assert.Equal(t, StepTerms, s.CurrentStep(), "hydration failure must not block the step change")
	assert.Equal(t, "Existing", s.Company().Name)
}

// =============================================================================
// Reset and clear
// =============================================================================

func TestResetFormAllocatesNumber(t *testing.T) {
	numbers := &stubNumbers{number: "QF-0007"}
	s := newTestStore(Deps{Numbers: numbers})
	validDraft(s)
	s.SetStep(StepReview)
	s.SetTaxIncluded(true)

	s.ResetForm(context.Background(), uuid.New())

	assert.Len(t, s.Items(), 1)
	assert.Equal(t, StepCompany, s.CurrentStep())
	assert.False(t, s.TaxIncluded())
	assert.Equal(t, domain.DefaultTaxRate, s.TaxRate())
	assert.Equal(t, "QF-0007", s.TermsData().Number)
	assert.Equal(t, 1, numbers.calls)
}

func TestResetFormFallsBackOnAllocationFailure(t *testing.T) {
	numbers := &stubNumbers{err: errors.New("db down")}
	s := newTestStore(Deps{Numbers: numbers})

	s.ResetForm(context.Background(), uuid.New())

	assert.Equal(t, fallbackQuoteNumber, s.TermsData().Number)
}

func TestResetFormSkipsAllocationWithoutUser(t *testing.T) {
	numbers := &stubNumbers{number: "QF-0002"}
	s := newTestStore(Deps{Numbers: numbers})

	s.ResetForm(context.Background(), uuid.Nil)

	assert.Equal(t, 0, numbers.calls)
	assert.Empty(t, s.TermsData().Number)
}

type recordingPurger struct{ calls int }

func (p *recordingPurger) Purge() { p.calls++ }

func TestClearFormDataResetsAndPurges(t *testing.T) {
	p := &recordingPurger{}
	s := newTestStore(Deps{})
	s.persistence = p
	validDraft(s)
	s.SetStep(StepReview)

	s.ClearFormData()

	assert.Len(t, s.Items(), 1)
	assert.Empty(t, s.Items()[0].Description)
	assert.Equal(t, StepCompany, s.CurrentStep())
	assert.Empty(t, s.TermsData().Number)
	assert.Equal(t, 1, p.calls)
}

func TestHasProgress(t *testing.T) {
	s := newTestStore(Deps{})
	assert.False(t, s.HasProgress(), "fresh draft has no progress")

	s.UpdateItems([]domain.QuoteItem{{Description: "Something", Quantity: 1}})
	assert.True(t, s.HasProgress())

	s.ClearFormData()
	assert.False(t, s.HasProgress())

	s.NextStep(context.Background(), uuid.Nil)
	assert.True(t, s.HasProgress(), "moving past step 1 counts as progress")
}

// =============================================================================
// Projection and persistence
// =============================================================================

func TestQuoteDataProjection(t *testing.T) {
	s := newTestStore(Deps{})
	validDraft(s)
	s.SetTaxIncluded(true)

	form := s.QuoteData()

	assert.Equal(t, "QF-0042", form.Number)
	assert.Equal(t, "Acme s.r.o.", form.Client.CompanyName)
	assert.Equal(t, 200.0, form.Subtotal)
	assert.Equal(t, 42.0, form.TaxTotal)
	assert.Equal(t, 242.0, form.Total)
	assert.Equal(t, "2026-03-01T00:00:00Z", form.IssueDate)
	assert.Equal(t, "2026-03-15T00:00:00Z", form.DueDate)
	assert.Equal(t, form.DueDate, form.ValidUntil, "due date doubles as valid-until")
	assert.Equal(t, domain.QuoteStatusDraft, form.Status)
}

func TestSaveQuoteValidationFailureEnumeratesViolations(t *testing.T) {
	quotes := &stubQuotes{}
	s := newTestStore(Deps{Quotes: quotes})

	_, err := s.SaveQuote(context.Background(), uuid.New())

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Greater(t, len(verr.Violations), 1, "all violated rules must be reported, not just the first")
	assert.Empty(t, quotes.createForms, "invalid drafts never reach the repository")
}

func TestSaveQuoteDelegatesToRepository(t *testing.T) {
	persisted := &domain.Quote{ID: uuid.New(), Number: "QF-0042"}
	quotes := &stubQuotes{quote: persisted}
	s := newTestStore(Deps{Quotes: quotes})
	validDraft(s)

	got, err := s.SaveQuote(context.Background(), uuid.New())

	require.NoError(t, err)
	assert.Equal(t, persisted, got)
	require.Len(t, quotes.createForms, 1)
	assert.Equal(t, "QF-0042", quotes.createForms[0].Number)
}

func TestUpdateQuoteDelegatesToRepository(t *testing.T) {
	persisted := &domain.Quote{ID: uuid.New()}
	quotes := &stubQuotes{quote: persisted}
	s := newTestStore(Deps{Quotes: quotes})
	validDraft(s)

	got, err := s.UpdateQuote(context.Background(), persisted.ID, uuid.New())

	require.NoError(t, err)
	assert.Equal(t, persisted, got)
	require.Len(t, quotes.updateForms, 1)
}

func TestLoadQuoteOverwritesStateWholesale(t *testing.T) {
	clientID := uuid.New()
	quote := &domain.Quote{
		ID:       uuid.New(),
		ClientID: clientID,
		Number:   "QF-0099",
		Status:   domain.QuoteStatusSent,
		Items: []domain.QuoteItem{
			{ID: uuid.New(), Description: "Stored work", Quantity: 3, UnitPrice: 50, TaxRate: 21},
		},
		TaxRate:     21,
		TaxIncluded: true,
		Notes:       "payment within 14 days",
		IssueDate:   time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
		DueDate:     time.Date(2026, 1, 24, 0, 0, 0, 0, time.UTC),
	}
	quotes := &stubQuotes{quote: quote}
	clients := &stubClients{client: &domain.Client{ID: clientID, CompanyName: "Stored Client", Email: "c@example.com"}}
	profiles := &stubProfiles{profile: &domain.Profile{Name: "Issuer"}}
	s := newTestStore(Deps{Quotes: quotes, Clients: clients, Profiles: profiles})
	validDraft(s)

	got, err := s.LoadQuote(context.Background(), quote.ID, uuid.New())

	require.NoError(t, err)
	assert.Equal(t, quote, got)
	assert.Equal(t, "QF-0099", s.TermsData().Number)
	assert.Equal(t, "payment within 14 days", s.TermsData().Note)
	assert.Equal(t, domain.QuoteStatusSent, s.TermsData().Status)
	assert.Equal(t, "Stored Client", s.Client().CompanyName)
	assert.Equal(t, "Issuer", s.Company().Name)
	assert.True(t, s.TaxIncluded())
	assert.Equal(t, 150.0, s.Subtotal(), "totals recompute from raw items, not stored aggregates")
}

func TestLoadQuoteClientFetchFailureUsesPlaceholder(t *testing.T) {
	quote := &domain.Quote{ID: uuid.New(), ClientID: uuid.New()}
	quotes := &stubQuotes{quote: quote}
	clients := &stubClients{err: errors.New("gone")}
	s := newTestStore(Deps{Quotes: quotes, Clients: clients})

	_, err := s.LoadQuote(context.Background(), quote.ID, uuid.New())

	require.NoError(t, err)
	assert.Equal(t, "Unknown Client", s.Client().CompanyName)
	assert.Len(t, s.Items(), 1, "a quote stored with no items still yields one blank row")
}
