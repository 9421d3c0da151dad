package taxcat

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// TaxCategory is one IRS deduction classification (e.g. "Schedule C, Line 24b
// - Meals"). Rows are seeded centrally and never hard-deleted; retired
// categories are deactivated or closed out via ExpirationDate.
type TaxCategory struct {
	ID                    uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	Code                  string           `gorm:"uniqueIndex;not null" json:"code"`
	Name                  string           `gorm:"not null" json:"name"`
	TaxForm               string           `json:"tax_form"`
	TaxLine               string           `json:"tax_line"`
	DeductionKind         string           `gorm:"default:'full'" json:"deduction_kind"` // full, partial, depreciated
	PercentageLimit       *decimal.Decimal `gorm:"type:numeric(5,2)" json:"percentage_limit,omitempty"`
	DollarLimit           *decimal.Decimal `gorm:"type:numeric(14,2)" json:"dollar_limit,omitempty"`
	DocumentationRequired bool             `json:"documentation_required"`
	IsActive              bool             `gorm:"default:true" json:"is_active"`
	EffectiveDate         time.Time        `gorm:"type:date" json:"effective_date"`
	ExpirationDate        *time.Time       `gorm:"type:date" json:"expiration_date,omitempty"`
	Keywords              pq.StringArray   `gorm:"type:text[]" json:"keywords"`
	ExclusionKeywords     pq.StringArray   `gorm:"type:text[]" json:"exclusion_keywords"`
	SpecialRules          string           `json:"special_rules,omitempty"` // free-form JSON: mileage rate, 1099 threshold, etc.
	CreatedAt             time.Time        `json:"created_at"`
	UpdatedAt             time.Time        `json:"updated_at"`
}

func (TaxCategory) TableName() string { return "tax_categories" }

// EffectiveOn reports whether the category may be applied on the given day.
// The effective window is inclusive on both ends; a nil ExpirationDate means
// the category is open-ended.
func (c *TaxCategory) EffectiveOn(day time.Time) bool {
	if !c.IsActive {
		return false
	}
	if day.Before(c.EffectiveDate) {
		return false
	}
	if c.ExpirationDate != nil && day.After(*c.ExpirationDate) {
		return false
	}
	return true
}

// CalculateDeductible applies the category's percentage limit to the
// business-use portion of a transaction. DollarLimit is an annual cap and is
// deliberately NOT applied here: capping needs a year-to-date aggregate that
// a single-transaction calculation cannot see.
func (c *TaxCategory) CalculateDeductible(businessAmount decimal.Decimal) decimal.Decimal {
	if c.PercentageLimit == nil {
		return businessAmount
	}
	return businessAmount.Mul(*c.PercentageLimit).Div(decimal.NewFromInt(100)).Round(2)
}
