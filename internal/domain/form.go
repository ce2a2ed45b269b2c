package domain

import (
	"github.com/google/uuid"
)

// =============================================================================
// Quote Form
// =============================================================================

// QuoteForm is the finalized draft projection handed to the quote
// repository. Dates are canonical RFC 3339 strings.
type QuoteForm struct {
	Number      string      `json:"number"`
	Client      ClientForm  `json:"client"`
	Items       []QuoteItem `json:"items"`
	Subtotal    float64     `json:"subtotal"`
	TaxTotal    float64     `json:"tax_total"`
	Total       float64     `json:"total"`
	TaxRate     float64     `json:"tax_rate"`
	TaxIncluded bool        `json:"tax_included"`
	Notes       string      `json:"notes"`
	IssueDate   string      `json:"issue_date"`
	DueDate     string      `json:"due_date"`
	ValidUntil  string      `json:"valid_until"`
	Status      QuoteStatus `json:"status"`
}

// ClientForm is the client portion of a quote form. When ID is nil the
// repository finds or creates the client by company name.
type ClientForm struct {
	ID          *uuid.UUID `json:"id,omitempty"`
	CompanyName string     `json:"company_name"`
	ContactName string     `json:"contact_name"`
	Email       string     `json:"email"`
	Phone       string     `json:"phone"`
	Street      string     `json:"street"`
	City        string     `json:"city"`
	State       string     `json:"state"`
	Zip         string     `json:"zip"`
	Country     string     `json:"country"`
}

// CompanyInfo is the issuer profile snapshot carried on a draft.
type CompanyInfo struct {
	Email      string `json:"email"`
	Name       string `json:"name"`
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	Zip        string `json:"zip"`
	Country    string `json:"country"`
	TaxID      string `json:"tax_id"`
	IsTaxPayer bool   `json:"is_tax_payer"`
	TaxNumber  string `json:"tax_number"`
}
