package draft

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qfast/qfast/internal/domain"
)

func TestSnapshotRoundTrip(t *testing.T) {
	s := newTestStore(Deps{})
	s.UpdateCompany(domain.CompanyInfo{Name: "Moje Firma", TaxID: "CZ12345678"})
	s.UpdateClient(domain.ClientForm{CompanyName: "Acme", Email: "a@example.com"})
	s.UpdateItems([]domain.QuoteItem{
		{ID: uuid.New(), Description: "Work", Quantity: 2, UnitPrice: 100, TaxRate: 21},
	})
	s.UpdateTerms(Terms{
		Number:    "QF-0042",
		IssueDate: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		DueDate:   time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		Note:      "platba do 14 dnů",
		Status:    domain.QuoteStatusDraft,
	})
	s.SetStep(StepTerms)
	s.SetTaxIncluded(true)
	override := 33.0
	s.SetTaxTotalOverride(&override)

	encoded, err := EncodeSnapshot(s.Snapshot())
	require.NoError(t, err)

	decoded, err := DecodeSnapshot(encoded)
	require.NoError(t, err)

	restored := newTestStore(Deps{})
	restored.Restore(decoded)

	assert.Equal(t, s.Company(), restored.Company())
	assert.Equal(t, s.Client(), restored.Client())
	assert.Equal(t, s.Items(), restored.Items())
	assert.Equal(t, s.TermsData(), restored.TermsData())
	assert.Equal(t, StepTerms, restored.CurrentStep())
	assert.True(t, restored.TaxIncluded())
	assert.Equal(t, 33.0, restored.TaxTotal(), "the tax override survives the round trip")
}

func TestDecodeSnapshotRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "not json", data: "garbage"},
		{name: "wrong version", data: `{"version": 99}`},
		{name: "missing version", data: `{"items": []}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeSnapshot(tt.data)
			assert.Error(t, err)
		})
	}
}

func TestRestoreRepairsDegenerateSnapshot(t *testing.T) {
	s := newTestStore(Deps{})
	s.Restore(Snapshot{Version: snapshotVersion, CurrentStep: 42})

	assert.Len(t, s.Items(), 1, "a snapshot with no items restores to one blank row")
	assert.Equal(t, StepCompany, s.CurrentStep(), "an out-of-range step resets to the first")
}
