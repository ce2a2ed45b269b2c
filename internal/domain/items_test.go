package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeQuoteItems(t *testing.T) {
	t.Run("round trips typed items", func(t *testing.T) {
		original := []QuoteItem{
			{ID: uuid.New(), Description: "Design", Quantity: 2, UnitPrice: 500, TaxRate: 21, SortOrder: 0},
			{ID: uuid.New(), Description: "Hosting", Quantity: 12, UnitPrice: 25, TaxRate: 21, IsTaxExempt: true, SortOrder: 1},
		}

		data, err := EncodeQuoteItems(original)
		require.NoError(t, err)

		got, err := DecodeQuoteItems(data, 21)
		require.NoError(t, err)
		assert.Equal(t, original, got)
	})

	t.Run("coerces legacy entries with missing fields", func(t *testing.T) {
		data := []byte(`[{"description":"Old row","unit_price":100}]`)

		got, err := DecodeQuoteItems(data, 15)
		require.NoError(t, err)
		require.Len(t, got, 1)

		assert.Equal(t, "Old row", got[0].Description)
		assert.Equal(t, 1.0, got[0].Quantity)
		assert.Equal(t, 100.0, got[0].UnitPrice)
		assert.Equal(t, 15.0, got[0].TaxRate) // quote-level rate
		assert.Equal(t, 0, got[0].SortOrder)
		assert.NotEqual(t, uuid.Nil, got[0].ID)
	})

	t.Run("rejects non-array documents", func(t *testing.T) {
		_, err := DecodeQuoteItems([]byte(`{"description":"not a list"}`), 21)
		assert.Error(t, err)
	})

	t.Run("empty column yields empty slice", func(t *testing.T) {
		got, err := DecodeQuoteItems(nil, 21)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}
