package banking

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction is a bank transaction owned by the ingestion side (webhook or
// CSV import). The categorization engine only writes the tax fields at the
// bottom; everything above them is ingestion-owned and treated as read-only.
type Transaction struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	UserID           string          `gorm:"not null;index" json:"user_id"`
	Amount           decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount"` // always positive
	TransactionType  string          `gorm:"not null;default:'debit'" json:"transaction_type"` // debit or credit
	Date             time.Time       `gorm:"type:date;index" json:"date"`
	Name             string          `json:"name"`
	MerchantName     string          `json:"merchant_name"`
	Description      string          `json:"description"`
	SourceCategoryID *string         `gorm:"index" json:"source_category_id,omitempty"` // upstream category label, if any
	ExternalID       *string         `gorm:"index" json:"external_id,omitempty"`        // provider's transaction id, dedup key for redeliveries

	// Categorization output fields, written only by the engine.
	TaxCategoryID          *uuid.UUID       `gorm:"type:uuid;index" json:"tax_category_id,omitempty"`
	ChartAccountID         *uuid.UUID       `gorm:"type:uuid;index" json:"chart_account_id,omitempty"`
	BusinessUsePct         decimal.Decimal  `gorm:"type:numeric(5,2)" json:"business_use_pct"`
	DeductibleAmount       *decimal.Decimal `gorm:"type:numeric(14,2)" json:"deductible_amount,omitempty"`
	ScheduleCLine          string           `json:"schedule_c_line,omitempty"`
	RequiresSubstantiation bool             `json:"requires_substantiation"`
	SubstantiationComplete bool             `json:"substantiation_complete"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Transaction) TableName() string { return "transactions" }
