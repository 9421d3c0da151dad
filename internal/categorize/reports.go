package categorize

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SoloBooks/SB-Backend/internal/banking"
)

type CategoryBreakdown struct {
	TaxCategoryID    uuid.UUID       `json:"tax_category_id"`
	Code             string          `json:"code"`
	Name             string          `json:"name"`
	ScheduleCLine    string          `json:"schedule_c_line"`
	TotalDeductible  decimal.Decimal `json:"total_deductible"`
	TransactionCount int             `json:"transaction_count"`
}

type TaxSummary struct {
	TaxYear          int                 `json:"tax_year"`
	TotalDeductions  decimal.Decimal     `json:"total_deductions"`
	Categories       []CategoryBreakdown `json:"categories"`
	TransactionCount int                 `json:"transaction_count"`
}

// GetTaxSummary totals deductible amounts per tax category for one tax year.
func (e *Engine) GetTaxSummary(userID string, taxYear int) (*TaxSummary, error) {
	txns, err := e.categorizedTransactions(userID, taxYear)
	if err != nil {
		return nil, err
	}

	byCategory := map[uuid.UUID]*CategoryBreakdown{}
	summary := TaxSummary{TaxYear: taxYear, TotalDeductions: decimal.Zero}

	for _, t := range txns {
		if t.DeductibleAmount == nil {
			continue
		}
		summary.TransactionCount++
		summary.TotalDeductions = summary.TotalDeductions.Add(*t.DeductibleAmount)

		b, ok := byCategory[*t.TaxCategoryID]
		if !ok {
			b = &CategoryBreakdown{
				TaxCategoryID:   *t.TaxCategoryID,
				ScheduleCLine:   t.ScheduleCLine,
				TotalDeductible: decimal.Zero,
			}
			if cat, err := e.catalog.FindByID(*t.TaxCategoryID); err == nil {
				b.Code = cat.Code
				b.Name = cat.Name
			}
			byCategory[*t.TaxCategoryID] = b
		}
		b.TotalDeductible = b.TotalDeductible.Add(*t.DeductibleAmount)
		b.TransactionCount++
	}

	summary.Categories = make([]CategoryBreakdown, 0, len(byCategory))
	for _, b := range byCategory {
		summary.Categories = append(summary.Categories, *b)
	}
	sort.Slice(summary.Categories, func(i, j int) bool {
		return summary.Categories[i].Code < summary.Categories[j].Code
	})
	return &summary, nil
}

type ScheduleCLine struct {
	Line             string          `json:"line"`
	Label            string          `json:"label"`
	Amount           decimal.Decimal `json:"amount"`
	TransactionCount int             `json:"transaction_count"`
}

type ScheduleCExport struct {
	TaxYear       int             `json:"tax_year"`
	Lines         []ScheduleCLine `json:"lines"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
}

// ExportScheduleC groups the year's deductible amounts by Schedule C line.
func (e *Engine) ExportScheduleC(userID string, taxYear int) (*ScheduleCExport, error) {
	txns, err := e.categorizedTransactions(userID, taxYear)
	if err != nil {
		return nil, err
	}

	byLine := map[string]*ScheduleCLine{}
	export := ScheduleCExport{TaxYear: taxYear, TotalExpenses: decimal.Zero}

	for _, t := range txns {
		if t.DeductibleAmount == nil || t.ScheduleCLine == "" {
			continue
		}
		export.TotalExpenses = export.TotalExpenses.Add(*t.DeductibleAmount)

		l, ok := byLine[t.ScheduleCLine]
		if !ok {
			l = &ScheduleCLine{Line: t.ScheduleCLine, Amount: decimal.Zero}
			if t.TaxCategoryID != nil {
				if cat, err := e.catalog.FindByID(*t.TaxCategoryID); err == nil {
					l.Label = cat.Name
				}
			}
			byLine[t.ScheduleCLine] = l
		}
		l.Amount = l.Amount.Add(*t.DeductibleAmount)
		l.TransactionCount++
	}

	export.Lines = make([]ScheduleCLine, 0, len(byLine))
	for _, l := range byLine {
		export.Lines = append(export.Lines, *l)
	}
	sort.Slice(export.Lines, func(i, j int) bool {
		return export.Lines[i].Line < export.Lines[j].Line
	})
	return &export, nil
}

func (e *Engine) categorizedTransactions(userID string, taxYear int) ([]banking.Transaction, error) {
	start := time.Date(taxYear, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(taxYear, time.December, 31, 23, 59, 59, 0, time.UTC)

	var txns []banking.Transaction
	err := e.db.
		Where("user_id = ? AND tax_category_id IS NOT NULL", userID).
		Where("date BETWEEN ? AND ?", start, end).
		Find(&txns).Error
	if err != nil {
		return nil, err
	}
	return txns, nil
}
