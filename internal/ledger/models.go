package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AccountType string

const (
	AccountTypeAsset           AccountType = "asset"
	AccountTypeLiability       AccountType = "liability"
	AccountTypeEquity          AccountType = "equity"
	AccountTypeRevenue         AccountType = "revenue"
	AccountTypeExpense         AccountType = "expense"
	AccountTypeContraAsset     AccountType = "contra_asset"
	AccountTypeContraLiability AccountType = "contra_liability"
	AccountTypeContraEquity    AccountType = "contra_equity"
)

type NormalBalance string

const (
	NormalBalanceDebit  NormalBalance = "debit"
	NormalBalanceCredit NormalBalance = "credit"
)

// NormalBalanceFor returns the natural increasing side for an account type.
// Contra accounts carry the opposite side of their base type. Unknown types
// return "".
func NormalBalanceFor(t AccountType) NormalBalance {
	switch t {
	case AccountTypeAsset, AccountTypeExpense, AccountTypeContraLiability, AccountTypeContraEquity:
		return NormalBalanceDebit
	case AccountTypeLiability, AccountTypeEquity, AccountTypeRevenue, AccountTypeContraAsset:
		return NormalBalanceCredit
	}
	return ""
}

// ChartOfAccount is one ledger account in a user's chart of accounts.
// CurrentBalance is a denormalized cache overwritten on every balance read;
// reports always recompute from transactions and never trust it alone.
type ChartOfAccount struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          string          `gorm:"not null;index:idx_account_user_code,unique" json:"user_id"`
	AccountCode     string          `gorm:"not null;index:idx_account_user_code,unique" json:"account_code"`
	Name            string          `gorm:"not null" json:"name"`
	AccountType     AccountType     `gorm:"not null" json:"account_type"`
	NormalBalance   NormalBalance   `gorm:"not null" json:"normal_balance"`
	ParentID        *uuid.UUID      `gorm:"type:uuid;index" json:"parent_id,omitempty"`
	Description     string          `json:"description,omitempty"`
	IsSystemAccount bool            `gorm:"default:false" json:"is_system_account"`
	IsActive        bool            `gorm:"default:true" json:"is_active"`
	CurrentBalance  decimal.Decimal `gorm:"type:numeric(14,2)" json:"current_balance"`
	TaxCategory     string          `json:"tax_category,omitempty"` // display-name link into the tax catalog
	TaxLineMapping  string          `json:"tax_line_mapping,omitempty"`
	Track1099       bool            `gorm:"default:false" json:"track_1099"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func (ChartOfAccount) TableName() string { return "chart_of_accounts" }
