package categorize

import (
	"github.com/shopspring/decimal"

	"github.com/SoloBooks/SB-Backend/internal/taxcat"
)

// SubstantiationThreshold is the IRS receipt threshold: any expense at or
// above this amount needs documentation regardless of category.
var SubstantiationThreshold = decimal.NewFromInt(75)

// Categories that always require substantiation under IRC 274(d), no matter
// the amount.
var alwaysSubstantiate = map[string]bool{
	"Travel":                 true,
	"Meals":                  true,
	"Entertainment":          true,
	"Car and truck expenses": true,
}

// RequiresSubstantiation decides whether a transaction needs receipt-level
// documentation. Pure function of the amount and category metadata.
func RequiresSubstantiation(amount decimal.Decimal, category *taxcat.TaxCategory) bool {
	if amount.GreaterThanOrEqual(SubstantiationThreshold) {
		return true
	}
	if category == nil {
		return false
	}
	return category.DocumentationRequired || alwaysSubstantiate[category.Name]
}

// BusinessAmount is the business-use portion of a transaction amount, kept to
// the currency's minor unit.
func BusinessAmount(amount, businessPct decimal.Decimal) decimal.Decimal {
	return amount.Mul(businessPct).Div(decimal.NewFromInt(100)).Round(2)
}
