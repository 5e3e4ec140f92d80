package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestApplyStockDerivations(t *testing.T) {
	cases := []struct {
		name       string
		quantity   int
		lower      int
		wantStatus string
	}{
		{"above threshold", 20, 5, StockIn},
		{"at threshold", 5, 5, StockLow},
		{"below threshold", 2, 5, StockLow},
		{"zero", 0, 5, StockOut},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			item := Inventory{
				Name:          "Paint",
				Category:      "supplies",
				Quantity:      tc.quantity,
				LowerQuantity: tc.lower,
				UnitPrice:     decimal.RequireFromString("9.50"),
			}
			item.ApplyStockDerivations()
			assert.Equal(t, tc.wantStatus, item.Status)

			wantValue := decimal.RequireFromString("9.50").Mul(decimal.NewFromInt(int64(tc.quantity)))
			assert.True(t, item.TotalValue.Equal(wantValue), item.TotalValue.String())
		})
	}
}
