// Package domain contains core business types and interfaces.
//
// This file defines the Quote domain type, its line items, and the tax
// calculation rules shared by the draft engine and the persistence layer.
package domain

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// Quote Domain Types
// =============================================================================

// QuoteStatus represents the lifecycle state of a persisted quote.
type QuoteStatus string

const (
	QuoteStatusDraft    QuoteStatus = "draft"
	QuoteStatusSent     QuoteStatus = "sent"
	QuoteStatusAccepted QuoteStatus = "accepted"
	QuoteStatusRejected QuoteStatus = "rejected"
)

// DefaultTaxRate is the tax rate applied to new line items (Czech VAT).
const DefaultTaxRate = 21.0

// QuoteItem is one priced row within a quote.
//
// Quantity and UnitPrice are stored as entered; derived amounts (net price,
// tax, line total) are always recomputed rather than trusted from storage.
type QuoteItem struct {
	ID          uuid.UUID `json:"id"`
	Description string    `json:"description"`
	Quantity    float64   `json:"quantity"`
	UnitPrice   float64   `json:"unit_price"`
	TaxRate     float64   `json:"tax_rate"`
	IsTaxExempt bool      `json:"is_tax_exempt"`
	SortOrder   int       `json:"sort_order"`
}

// Quote is a finalized, persisted quote owned by a single user.
type Quote struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	ClientID    uuid.UUID
	Number      string
	Status      QuoteStatus
	Items       []QuoteItem
	Subtotal    float64
	TaxTotal    float64
	Total       float64
	TaxRate     float64
	TaxIncluded bool
	Notes       string
	IssueDate   time.Time
	DueDate     time.Time
	ValidUntil  time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// QuoteSummary is the list-view row: quote header fields plus the client
// summary joined out-of-band.
type QuoteSummary struct {
	ID                uuid.UUID
	Number            string
	Status            QuoteStatus
	Total             float64
	ValidUntil        time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
	ClientID          uuid.UUID
	ClientCompanyName string
	ClientEmail       string
}

// QuoteStats aggregates an owner's quotes for the dashboard.
type QuoteStats struct {
	Total    int
	Draft    int
	Sent     int
	Accepted int
	Rejected int
	Amount   float64 // sum of quote totals
}

// =============================================================================
// Tax Calculation
// =============================================================================

// QuoteTotals holds the aggregated monetary values of a quote, rounded to
// two decimal places.
type QuoteTotals struct {
	Subtotal float64
	TaxTotal float64
	Total    float64
}

// ItemTax returns the tax amount for one line item.
//
// Tax is always computed from the entered price, even when the quote-level
// tax-included flag is off; the flag only decides whether the tax is added
// into the total. Do not change this to zero out tax for tax-exclusive
// quotes.
func ItemTax(item QuoteItem) float64 {
	if item.IsTaxExempt {
		return 0
	}
	base := finite(item.Quantity) * finite(item.UnitPrice)
	return base * finite(item.TaxRate) / 100
}

// NetPrice returns quantity x unit price. The "net" concept never extracts
// tax out of a tax-included price; it is simply the pre-tax entered price.
func NetPrice(item QuoteItem) float64 {
	return finite(item.Quantity) * finite(item.UnitPrice)
}

// LineTotal returns the item's total: net price, plus its tax when the
// quote-level policy adds tax into totals.
func LineTotal(item QuoteItem, taxIncluded bool) float64 {
	total := NetPrice(item)
	if taxIncluded {
		total += ItemTax(item)
	}
	return total
}

// Totals aggregates line items into quote totals.
//
// Per-item values stay unrounded until aggregation so rounding error does
// not compound. taxOverride, when non-nil, replaces the computed tax total.
func Totals(items []QuoteItem, taxIncluded bool, taxOverride *float64) QuoteTotals {
	var subtotal, taxTotal float64
	for _, item := range items {
		subtotal += NetPrice(item)
		taxTotal += ItemTax(item)
	}
	if taxOverride != nil {
		taxTotal = finite(*taxOverride)
	}

	total := subtotal
	if taxIncluded {
		total += taxTotal
	}

	return QuoteTotals{
		Subtotal: round2(subtotal),
		TaxTotal: round2(taxTotal),
		Total:    round2(total),
	}
}

// round2 rounds half-up to two decimal places.
func round2(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}

// finite treats NaN and infinities as 0 so a bad input never propagates
// through the totals.
func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
