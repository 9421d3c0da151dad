package categorize

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SoloBooks/SB-Backend/internal/banking"
)

func (f *engineFixture) addCategorized(t *testing.T, userID string, day time.Time, amount, deductible, line string, catID uuid.UUID) {
	t.Helper()
	d := decimal.RequireFromString(deductible)
	txn := banking.Transaction{
		ID:               uuid.New(),
		UserID:           userID,
		Amount:           decimal.RequireFromString(amount),
		TransactionType:  "debit",
		Date:             day,
		TaxCategoryID:    &catID,
		DeductibleAmount: &d,
		ScheduleCLine:    line,
		BusinessUsePct:   decimal.NewFromInt(100),
	}
	require.NoError(t, f.db.Create(&txn).Error)
}

func TestGetTaxSummary(t *testing.T) {
	fix := newFixture(t)
	in2026 := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	fix.addCategorized(t, "u1", in2026, "85.00", "42.50", "24b", fix.meals.ID)
	fix.addCategorized(t, "u1", in2026, "30.00", "15.00", "24b", fix.meals.ID)
	fix.addCategorized(t, "u1", in2026, "200.00", "200.00", "18", fix.office.ID)

	// Other years and other users stay out.
	fix.addCategorized(t, "u1", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), "99.00", "99.00", "18", fix.office.ID)
	fix.addCategorized(t, "u2", in2026, "70.00", "70.00", "18", fix.office.ID)
	fix.addTxn(t, "u1", "uncategorized noise", "12.00")

	summary, err := fix.engine.GetTaxSummary("u1", 2026)
	require.NoError(t, err)

	assert.Equal(t, 2026, summary.TaxYear)
	assert.Equal(t, 3, summary.TransactionCount)
	assert.True(t, summary.TotalDeductions.Equal(decimal.RequireFromString("257.50")), "got %s", summary.TotalDeductions)

	require.Len(t, summary.Categories, 2)
	// Sorted by category code: MEALS before OFFICE.
	assert.Equal(t, "MEALS", summary.Categories[0].Code)
	assert.True(t, summary.Categories[0].TotalDeductible.Equal(decimal.RequireFromString("57.50")))
	assert.Equal(t, 2, summary.Categories[0].TransactionCount)
	assert.Equal(t, "OFFICE", summary.Categories[1].Code)
	assert.True(t, summary.Categories[1].TotalDeductible.Equal(decimal.RequireFromString("200.00")))
}

func TestExportScheduleC(t *testing.T) {
	fix := newFixture(t)
	in2026 := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	fix.addCategorized(t, "u1", in2026, "85.00", "42.50", "24b", fix.meals.ID)
	fix.addCategorized(t, "u1", in2026, "120.00", "120.00", "18", fix.office.ID)
	fix.addCategorized(t, "u1", in2026, "80.00", "80.00", "18", fix.office.ID)

	export, err := fix.engine.ExportScheduleC("u1", 2026)
	require.NoError(t, err)

	assert.Equal(t, 2026, export.TaxYear)
	assert.True(t, export.TotalExpenses.Equal(decimal.RequireFromString("242.50")), "got %s", export.TotalExpenses)

	require.Len(t, export.Lines, 2)
	// Sorted by line.
	assert.Equal(t, "18", export.Lines[0].Line)
	assert.Equal(t, "Office expense", export.Lines[0].Label)
	assert.True(t, export.Lines[0].Amount.Equal(decimal.RequireFromString("200.00")))
	assert.Equal(t, 2, export.Lines[0].TransactionCount)
	assert.Equal(t, "24b", export.Lines[1].Line)
	assert.True(t, export.Lines[1].Amount.Equal(decimal.RequireFromString("42.50")))
}

func TestExportScheduleCEmptyYear(t *testing.T) {
	fix := newFixture(t)

	export, err := fix.engine.ExportScheduleC("u1", 2026)
	require.NoError(t, err)
	assert.Empty(t, export.Lines)
	assert.True(t, export.TotalExpenses.IsZero())
}
