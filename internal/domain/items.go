package domain

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// rawQuoteItem mirrors the stored JSON shape with optional fields, so rows
// written before the typed item model can still be decoded with explicit
// defaults instead of failing or silently dropping data.
type rawQuoteItem struct {
	ID          *uuid.UUID `json:"id"`
	Description *string    `json:"description"`
	Quantity    *float64   `json:"quantity"`
	UnitPrice   *float64   `json:"unit_price"`
	TaxRate     *float64   `json:"tax_rate"`
	IsTaxExempt *bool      `json:"is_tax_exempt"`
	SortOrder   *int       `json:"sort_order"`
}

// EncodeQuoteItems serializes items for the JSONB quotes.items column.
func EncodeQuoteItems(items []QuoteItem) ([]byte, error) {
	if items == nil {
		items = []QuoteItem{}
	}
	return json.Marshal(items)
}

// DecodeQuoteItems deserializes the quotes.items column into typed line
// items. Malformed documents are rejected; entries missing optional fields
// are coerced: quantity defaults to 1, unit price to 0, tax rate to the
// quote-level rate, sort order to the entry's position.
func DecodeQuoteItems(data []byte, quoteTaxRate float64) ([]QuoteItem, error) {
	if len(data) == 0 {
		return []QuoteItem{}, nil
	}

	var raw []rawQuoteItem
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("quote items are not a JSON array: %w", err)
	}

	items := make([]QuoteItem, 0, len(raw))
	for i, r := range raw {
		item := QuoteItem{
			ID:        uuid.New(),
			Quantity:  1,
			TaxRate:   quoteTaxRate,
			SortOrder: i,
		}
		if r.ID != nil {
			item.ID = *r.ID
		}
		if r.Description != nil {
			item.Description = *r.Description
		}
		if r.Quantity != nil {
			item.Quantity = *r.Quantity
		}
		if r.UnitPrice != nil {
			item.UnitPrice = *r.UnitPrice
		}
		if r.TaxRate != nil {
			item.TaxRate = *r.TaxRate
		}
		if r.IsTaxExempt != nil {
			item.IsTaxExempt = *r.IsTaxExempt
		}
		if r.SortOrder != nil {
			item.SortOrder = *r.SortOrder
		}
		items = append(items, item)
	}

	return items, nil
}
