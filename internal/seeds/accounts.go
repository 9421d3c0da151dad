package seeds

import (
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/SoloBooks/SB-Backend/internal/db"
	"github.com/SoloBooks/SB-Backend/internal/ledger"
)

type defaultAccount struct {
	Code        string
	Name        string
	Type        ledger.AccountType
	TaxCategory string
	TaxLine     string
	Track1099   bool
}

// defaultChart is the starter chart of accounts for a sole proprietor.
// Codes follow the usual 1xxx assets / 2xxx liabilities / 3xxx equity /
// 4xxx revenue / 5xxx expenses convention.
var defaultChart = []defaultAccount{
	{Code: "1010", Name: "Business Checking", Type: ledger.AccountTypeAsset},
	{Code: "1020", Name: "Business Savings", Type: ledger.AccountTypeAsset},
	{Code: "1500", Name: "Accumulated Depreciation", Type: ledger.AccountTypeContraAsset},
	{Code: "2010", Name: "Business Credit Card", Type: ledger.AccountTypeLiability},
	{Code: "3010", Name: "Owner's Equity", Type: ledger.AccountTypeEquity},
	{Code: "4010", Name: "Service Revenue", Type: ledger.AccountTypeRevenue},
	{Code: "5010", Name: "Advertising & Marketing", Type: ledger.AccountTypeExpense, TaxCategory: "Advertising", TaxLine: "8"},
	{Code: "5020", Name: "Car & Truck", Type: ledger.AccountTypeExpense, TaxCategory: "Car and truck expenses", TaxLine: "9"},
	{Code: "5030", Name: "Contract Labor", Type: ledger.AccountTypeExpense, TaxCategory: "Contract labor", TaxLine: "11", Track1099: true},
	{Code: "5040", Name: "Professional Services", Type: ledger.AccountTypeExpense, TaxCategory: "Legal and professional services", TaxLine: "17"},
	{Code: "5050", Name: "Office Expense", Type: ledger.AccountTypeExpense, TaxCategory: "Office expense", TaxLine: "18"},
	{Code: "5060", Name: "Rent & Lease", Type: ledger.AccountTypeExpense, TaxCategory: "Rent or lease - other business property", TaxLine: "20b"},
	{Code: "5070", Name: "Supplies", Type: ledger.AccountTypeExpense, TaxCategory: "Supplies", TaxLine: "22"},
	{Code: "5080", Name: "Travel", Type: ledger.AccountTypeExpense, TaxCategory: "Travel", TaxLine: "24a"},
	{Code: "5090", Name: "Meals", Type: ledger.AccountTypeExpense, TaxCategory: "Meals", TaxLine: "24b"},
	{Code: "5100", Name: "Utilities", Type: ledger.AccountTypeExpense, TaxCategory: "Utilities", TaxLine: "25"},
	{Code: "5900", Name: "Other Expenses", Type: ledger.AccountTypeExpense, TaxCategory: "Other expenses", TaxLine: "27a"},
}

// SeedDefaultAccounts creates the starter chart for one user. Accounts the
// user already has (by code) are left alone.
func SeedDefaultAccounts(userID string) error {
	svc := ledger.NewService(db.DB)

	for _, row := range defaultChart {
		var existing ledger.ChartOfAccount
		err := db.DB.First(&existing, "user_id = ? AND account_code = ?", userID, row.Code).Error
		if err == nil {
			continue
		} else if err != gorm.ErrRecordNotFound {
			return fmt.Errorf("DB error on account %s: %w", row.Code, err)
		}

		_, err = svc.CreateAccount(ledger.CreateAccountParams{
			UserID:          userID,
			AccountCode:     row.Code,
			Name:            row.Name,
			AccountType:     row.Type,
			IsSystemAccount: true,
			TaxCategory:     row.TaxCategory,
			TaxLineMapping:  row.TaxLine,
			Track1099:       row.Track1099,
		})
		if err != nil {
			return fmt.Errorf("failed to seed account %s: %w", row.Code, err)
		}
		log.Printf("Seeded account %s (%s) for user %s", row.Code, row.Name, userID)
	}
	return nil
}
