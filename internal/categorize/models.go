package categorize

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CategoryMapping is a learned or user-authored shortcut from a transaction's
// upstream source category to a tax category and ledger account. Lookups take
// the most-confident active mapping valid as of today.
type CategoryMapping struct {
	ID                   uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	UserID               string          `gorm:"not null;index:idx_mapping_user_source" json:"user_id"`
	SourceCategory       string          `gorm:"not null;index:idx_mapping_user_source" json:"source_category"`
	TaxCategoryID        *uuid.UUID      `gorm:"type:uuid" json:"tax_category_id,omitempty"`
	ChartAccountID       *uuid.UUID      `gorm:"type:uuid" json:"chart_account_id,omitempty"`
	ConfidenceScore      float64         `json:"confidence_score"` // [0,1]
	IsUserDefined        bool            `json:"is_user_defined"`
	EffectiveDate        time.Time       `gorm:"type:date" json:"effective_date"`
	ExpirationDate       *time.Time      `gorm:"type:date" json:"expiration_date,omitempty"`
	DefaultBusinessPct   decimal.Decimal `gorm:"type:numeric(5,2)" json:"default_business_pct"`
	AlwaysRequireReceipt bool            `json:"always_require_receipt"`
	IsActive             bool            `gorm:"default:true" json:"is_active"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

func (CategoryMapping) TableName() string { return "category_mappings" }

// ValidOn reports whether the mapping may be used on the given day.
func (m *CategoryMapping) ValidOn(day time.Time) bool {
	if !m.IsActive {
		return false
	}
	if day.Before(m.EffectiveDate) {
		return false
	}
	if m.ExpirationDate != nil && day.After(*m.ExpirationDate) {
		return false
	}
	return true
}

// BusinessExpenseTracking is the one-per-transaction substantiation record:
// business purpose, receipt state, and the mileage/depreciation metadata the
// IRS expects for the corresponding deduction.
type BusinessExpenseTracking struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	TransactionID      uuid.UUID       `gorm:"type:uuid;uniqueIndex;not null" json:"transaction_id"`
	UserID             string          `gorm:"not null;index" json:"user_id"`
	BusinessPurpose    string          `json:"business_purpose"`
	BusinessPercentage decimal.Decimal `gorm:"type:numeric(5,2)" json:"business_percentage"` // [0,100]
	ReceiptRequired    bool            `json:"receipt_required"`
	ReceiptAttached    bool            `json:"receipt_attached"`
	ReceiptURL         string          `json:"receipt_url,omitempty"`

	MileageStart *decimal.Decimal `gorm:"type:numeric(10,1)" json:"mileage_start,omitempty"`
	MileageEnd   *decimal.Decimal `gorm:"type:numeric(10,1)" json:"mileage_end,omitempty"`
	TotalMiles   *decimal.Decimal `gorm:"type:numeric(10,1)" json:"total_miles,omitempty"`
	MileageRate  *decimal.Decimal `gorm:"type:numeric(6,3)" json:"mileage_rate,omitempty"`

	DepreciationMethod string           `json:"depreciation_method,omitempty"`
	DepreciationLife   *int             `json:"depreciation_life,omitempty"` // years
	DepreciationBasis  *decimal.Decimal `gorm:"type:numeric(14,2)" json:"depreciation_basis,omitempty"`

	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (BusinessExpenseTracking) TableName() string { return "business_expense_tracking" }

// Complete reports whether the substantiation obligation is satisfied: a
// non-empty business purpose, plus a receipt when one is required.
func (b *BusinessExpenseTracking) Complete() bool {
	if b.ReceiptRequired && !b.ReceiptAttached {
		return false
	}
	return b.BusinessPurpose != ""
}

// CategorizationAudit is the append-only trail: one row per categorization
// mutation, never updated or deleted.
type CategorizationAudit struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	TransactionID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"transaction_id"`
	ActorID           string     `gorm:"not null" json:"actor_id"`
	Action            string     `gorm:"not null" json:"action"` // categorize, bulk_categorize
	OldTaxCategoryID  *uuid.UUID `gorm:"type:uuid" json:"old_tax_category_id,omitempty"`
	NewTaxCategoryID  *uuid.UUID `gorm:"type:uuid" json:"new_tax_category_id,omitempty"`
	OldChartAccountID *uuid.UUID `gorm:"type:uuid" json:"old_chart_account_id,omitempty"`
	NewChartAccountID *uuid.UUID `gorm:"type:uuid" json:"new_chart_account_id,omitempty"`
	Reason            string     `json:"reason,omitempty"`
	ConfidenceBefore  *float64   `json:"confidence_before,omitempty"`
	ConfidenceAfter   *float64   `json:"confidence_after,omitempty"`
	IsAutomated       bool       `json:"is_automated"`
	CreatedAt         time.Time  `json:"created_at"`
}

func (CategorizationAudit) TableName() string { return "categorization_audits" }
