package draft

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/qfast/qfast/internal/domain"
)

// snapshotVersion is bumped whenever the snapshot shape changes
// incompatibly. Decoding rejects unknown versions outright rather than
// guessing at field meanings.
const snapshotVersion = 1

// Snapshot is the single durable record of a suspended draft. All draft
// state travels in one versioned document; there are no sibling keys
// holding fragments of it.
type Snapshot struct {
	Version     int                `json:"version"`
	SavedAt     time.Time          `json:"saved_at"`
	Company     domain.CompanyInfo `json:"company"`
	Client      domain.ClientForm  `json:"client"`
	Items       []domain.QuoteItem `json:"items"`
	Terms       Terms              `json:"terms"`
	CurrentStep int                `json:"current_step"`
	TaxRate     float64            `json:"tax_rate"`
	TaxIncluded bool               `json:"tax_included"`
	TaxOverride *float64           `json:"tax_override,omitempty"`
}

// Snapshot captures the store's full state for persistence.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Version:     snapshotVersion,
		SavedAt:     time.Now(),
		Company:     s.company,
		Client:      s.client,
		Items:       append([]domain.QuoteItem(nil), s.items...),
		Terms:       s.terms,
		CurrentStep: s.currentStep,
		TaxRate:     s.taxRate,
		TaxIncluded: s.taxIncluded,
	}
	if s.taxTotalOverride != nil {
		v := *s.taxTotalOverride
		snap.TaxOverride = &v
	}
	return snap
}

// Restore overwrites the store's state from a decoded snapshot.
func (s *Store) Restore(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.company = snap.Company
	s.client = snap.Client
	s.items = append([]domain.QuoteItem(nil), snap.Items...)
	if len(s.items) == 0 {
		s.items = []domain.QuoteItem{blankItem()}
	}
	s.terms = snap.Terms
	s.currentStep = snap.CurrentStep
	if s.currentStep < StepCompany || s.currentStep > stepCount {
		s.currentStep = StepCompany
	}
	s.taxRate = snap.TaxRate
	s.taxIncluded = snap.TaxIncluded
	s.taxTotalOverride = nil
	if snap.TaxOverride != nil {
		v := *snap.TaxOverride
		s.taxTotalOverride = &v
	}
}

// EncodeSnapshot serializes a snapshot for the persistent store.
func EncodeSnapshot(snap Snapshot) (string, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return "", fmt.Errorf("encoding draft snapshot: %w", err)
	}
	return string(data), nil
}

// DecodeSnapshot parses a stored snapshot, rejecting documents whose
// version this build does not understand.
func DecodeSnapshot(data string) (Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		return Snapshot{}, fmt.Errorf("decoding draft snapshot: %w", err)
	}
	if snap.Version != snapshotVersion {
		return Snapshot{}, fmt.Errorf("unsupported draft snapshot version %d", snap.Version)
	}
	return snap, nil
}
