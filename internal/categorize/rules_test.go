package categorize

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/SoloBooks/SB-Backend/internal/taxcat"
)

func TestRequiresSubstantiation(t *testing.T) {
	office := &taxcat.TaxCategory{Name: "Office expense"}
	meals := &taxcat.TaxCategory{Name: "Meals"}
	documented := &taxcat.TaxCategory{Name: "Depreciation", DocumentationRequired: true}

	tests := []struct {
		name     string
		amount   string
		category *taxcat.TaxCategory
		want     bool
	}{
		{"under threshold, ordinary category", "74.99", office, false},
		{"at threshold", "75.00", office, true},
		{"over threshold", "75.01", office, true},
		{"meals always require it", "5.00", meals, true},
		{"documentation-required flag", "5.00", documented, true},
		{"no category, small amount", "10.00", nil, false},
		{"no category, large amount", "200.00", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RequiresSubstantiation(decimal.RequireFromString(tt.amount), tt.category)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBusinessAmount(t *testing.T) {
	got := BusinessAmount(decimal.RequireFromString("100.00"), decimal.NewFromInt(60))
	assert.True(t, got.Equal(decimal.RequireFromString("60.00")), "got %s", got)

	// Rounds to the cent.
	got = BusinessAmount(decimal.RequireFromString("10.01"), decimal.NewFromInt(33))
	assert.True(t, got.Equal(decimal.RequireFromString("3.30")), "got %s", got)

	got = BusinessAmount(decimal.RequireFromString("50.00"), decimal.NewFromInt(0))
	assert.True(t, got.IsZero())
}

func TestTrackingComplete(t *testing.T) {
	tr := BusinessExpenseTracking{BusinessPurpose: "Client visit", ReceiptRequired: true}
	assert.False(t, tr.Complete(), "required receipt not attached")

	tr.ReceiptAttached = true
	assert.True(t, tr.Complete())

	tr.BusinessPurpose = ""
	assert.False(t, tr.Complete(), "purpose is always required")

	noReceipt := BusinessExpenseTracking{BusinessPurpose: "Supplies run"}
	assert.True(t, noReceipt.Complete(), "no receipt needed")
}
