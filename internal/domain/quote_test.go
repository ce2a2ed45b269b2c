package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestItemTax(t *testing.T) {
	tests := []struct {
		name string
		item QuoteItem
		want float64
	}{
		{
			name: "standard rate",
			item: QuoteItem{Quantity: 2, UnitPrice: 100, TaxRate: 21},
			want: 42,
		},
		{
			name: "tax exempt ignores rate",
			item: QuoteItem{Quantity: 2, UnitPrice: 100, TaxRate: 21, IsTaxExempt: true},
			want: 0,
		},
		{
			name: "zero rate",
			item: QuoteItem{Quantity: 3, UnitPrice: 50, TaxRate: 0},
			want: 0,
		},
		{
			name: "fractional quantity",
			item: QuoteItem{Quantity: 1.5, UnitPrice: 200, TaxRate: 10},
			want: 30,
		},
		{
			name: "nan unit price treated as zero",
			item: QuoteItem{Quantity: 2, UnitPrice: math.NaN(), TaxRate: 21},
			want: 0,
		},
		{
			name: "infinite quantity treated as zero",
			item: QuoteItem{Quantity: math.Inf(1), UnitPrice: 10, TaxRate: 21},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ItemTax(tt.item), 1e-9)
		})
	}
}

func TestNetPrice(t *testing.T) {
	item := QuoteItem{Quantity: 2, UnitPrice: 100, TaxRate: 21}

	// Net price is quantity x unit price, independent of tax settings.
	assert.Equal(t, 200.0, NetPrice(item))

	item.IsTaxExempt = true
	assert.Equal(t, 200.0, NetPrice(item))
}

func TestLineTotal(t *testing.T) {
	item := QuoteItem{Quantity: 2, UnitPrice: 100, TaxRate: 21}

	assert.Equal(t, 200.0, LineTotal(item, false))
	assert.Equal(t, 242.0, LineTotal(item, true))

	exempt := QuoteItem{Quantity: 1, UnitPrice: 50, TaxRate: 21, IsTaxExempt: true}
	assert.Equal(t, 50.0, LineTotal(exempt, true))
}

func TestTotals(t *testing.T) {
	tests := []struct {
		name        string
		items       []QuoteItem
		taxIncluded bool
		override    *float64
		want        QuoteTotals
	}{
		{
			name:        "tax included adds tax to total",
			items:       []QuoteItem{{Quantity: 2, UnitPrice: 100, TaxRate: 21}},
			taxIncluded: true,
			want:        QuoteTotals{Subtotal: 200, TaxTotal: 42, Total: 242},
		},
		{
			name:        "tax excluded still reports tax total",
			items:       []QuoteItem{{Quantity: 2, UnitPrice: 100, TaxRate: 21}},
			taxIncluded: false,
			want:        QuoteTotals{Subtotal: 200, TaxTotal: 42, Total: 200},
		},
		{
			name:        "exempt item contributes no tax",
			items:       []QuoteItem{{Quantity: 1, UnitPrice: 50, TaxRate: 21, IsTaxExempt: true}},
			taxIncluded: true,
			want:        QuoteTotals{Subtotal: 50, TaxTotal: 0, Total: 50},
		},
		{
			name: "mixed items",
			items: []QuoteItem{
				{Quantity: 2, UnitPrice: 100, TaxRate: 21},
				{Quantity: 1, UnitPrice: 50, TaxRate: 21, IsTaxExempt: true},
			},
			taxIncluded: true,
			want:        QuoteTotals{Subtotal: 250, TaxTotal: 42, Total: 292},
		},
		{
			name:        "override replaces computed tax",
			items:       []QuoteItem{{Quantity: 2, UnitPrice: 100, TaxRate: 21}},
			taxIncluded: true,
			override:    ptr(10.0),
			want:        QuoteTotals{Subtotal: 200, TaxTotal: 10, Total: 210},
		},
		{
			name:        "override reported but excluded from tax-exclusive total",
			items:       []QuoteItem{{Quantity: 2, UnitPrice: 100, TaxRate: 21}},
			taxIncluded: false,
			override:    ptr(10.0),
			want:        QuoteTotals{Subtotal: 200, TaxTotal: 10, Total: 200},
		},
		{
			name:  "empty item list",
			items: nil,
			want:  QuoteTotals{},
		},
		{
			name: "rounding happens at aggregation only",
			items: []QuoteItem{
				{Quantity: 1, UnitPrice: 0.005, TaxRate: 0},
				{Quantity: 1, UnitPrice: 0.005, TaxRate: 0},
			},
			taxIncluded: false,
			// Per-item rounding would give 0.01 + 0.01 = 0.02.
			want: QuoteTotals{Subtotal: 0.01, TaxTotal: 0, Total: 0.01},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Totals(tt.items, tt.taxIncluded, tt.override)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTotalsExclusiveEqualsSubtotal(t *testing.T) {
	items := []QuoteItem{
		{Quantity: 2, UnitPrice: 99.99, TaxRate: 21},
		{Quantity: 5, UnitPrice: 12.34, TaxRate: 15},
		{Quantity: 1, UnitPrice: 0.01, TaxRate: 21, IsTaxExempt: true},
	}

	got := Totals(items, false, nil)
	assert.Equal(t, got.Subtotal, got.Total)
}

func TestTotalsInclusiveEqualsSubtotalPlusTax(t *testing.T) {
	items := []QuoteItem{
		{Quantity: 2, UnitPrice: 99.99, TaxRate: 21},
		{Quantity: 5, UnitPrice: 12.34, TaxRate: 15},
	}

	got := Totals(items, true, nil)
	assert.InDelta(t, got.Subtotal+got.TaxTotal, got.Total, 0.01)
}

func TestTotalsIdempotent(t *testing.T) {
	items := []QuoteItem{
		{Quantity: 3, UnitPrice: 33.33, TaxRate: 21},
		{Quantity: 7, UnitPrice: 1.11, TaxRate: 10},
	}

	first := Totals(items, true, nil)
	second := Totals(items, true, nil)
	assert.Equal(t, first, second)
}

func ptr(v float64) *float64 { return &v }
