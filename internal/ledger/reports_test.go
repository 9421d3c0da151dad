package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTrialBalance(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewService(gdb)

	checking := mustCreate(t, svc, CreateAccountParams{
		UserID: "u1", AccountCode: "1010", Name: "Business Checking", AccountType: AccountTypeAsset,
	})
	revenue := mustCreate(t, svc, CreateAccountParams{
		UserID: "u1", AccountCode: "4010", Name: "Service Revenue", AccountType: AccountTypeRevenue,
	})
	expense := mustCreate(t, svc, CreateAccountParams{
		UserID: "u1", AccountCode: "5050", Name: "Office Expense", AccountType: AccountTypeExpense,
	})

	jan := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	postTxn(t, gdb, checking.ID, "u1", "debit", "1000.00", jan)
	postTxn(t, gdb, revenue.ID, "u1", "credit", "1000.00", jan)
	postTxn(t, gdb, expense.ID, "u1", "debit", "200.00", jan)

	tb, err := svc.GetTrialBalance("u1", nil)
	require.NoError(t, err)
	require.Len(t, tb.Accounts, 3)

	assert.True(t, tb.TotalDebits.Equal(decimal.RequireFromString("1200.00")), "got %s", tb.TotalDebits)
	assert.True(t, tb.TotalCredits.Equal(decimal.RequireFromString("1000.00")), "got %s", tb.TotalCredits)
	assert.False(t, tb.IsBalanced, "single-sided postings rarely balance")

	// Rows come back in account-code order with the balance on the normal side.
	assert.Equal(t, "1010", tb.Accounts[0].AccountCode)
	assert.True(t, tb.Accounts[0].Debit.Equal(decimal.RequireFromString("1000.00")))
	assert.True(t, tb.Accounts[0].Credit.IsZero())
	assert.True(t, tb.Accounts[1].Credit.Equal(decimal.RequireFromString("1000.00")))
}

func TestTrialBalanceNegativeFlipsColumn(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewService(gdb)

	checking := mustCreate(t, svc, CreateAccountParams{
		UserID: "u1", AccountCode: "1010", Name: "Business Checking", AccountType: AccountTypeAsset,
	})
	// Overdrawn: credits exceed debits on a debit-normal account.
	jan := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	postTxn(t, gdb, checking.ID, "u1", "debit", "100.00", jan)
	postTxn(t, gdb, checking.ID, "u1", "credit", "250.00", jan)

	tb, err := svc.GetTrialBalance("u1", nil)
	require.NoError(t, err)
	require.Len(t, tb.Accounts, 1)

	row := tb.Accounts[0]
	assert.True(t, row.Debit.IsZero())
	assert.True(t, row.Credit.Equal(decimal.RequireFromString("150.00")), "got %s", row.Credit)
	assert.False(t, tb.TotalCredits.IsNegative())
	assert.False(t, tb.TotalDebits.IsNegative())
}

func TestGenerateFinancialStatements(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewService(gdb)

	checking := mustCreate(t, svc, CreateAccountParams{
		UserID: "u1", AccountCode: "1010", Name: "Business Checking", AccountType: AccountTypeAsset,
	})
	depreciation := mustCreate(t, svc, CreateAccountParams{
		UserID: "u1", AccountCode: "1500", Name: "Accumulated Depreciation", AccountType: AccountTypeContraAsset,
	})
	equity := mustCreate(t, svc, CreateAccountParams{
		UserID: "u1", AccountCode: "3010", Name: "Owner's Equity", AccountType: AccountTypeEquity,
	})
	revenue := mustCreate(t, svc, CreateAccountParams{
		UserID: "u1", AccountCode: "4010", Name: "Service Revenue", AccountType: AccountTypeRevenue,
	})
	expense := mustCreate(t, svc, CreateAccountParams{
		UserID: "u1", AccountCode: "5050", Name: "Office Expense", AccountType: AccountTypeExpense,
	})

	jan := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	postTxn(t, gdb, checking.ID, "u1", "debit", "5000.00", jan)
	postTxn(t, gdb, depreciation.ID, "u1", "credit", "300.00", jan)
	postTxn(t, gdb, equity.ID, "u1", "credit", "2000.00", jan)
	postTxn(t, gdb, revenue.ID, "u1", "credit", "4000.00", jan)
	postTxn(t, gdb, expense.ID, "u1", "debit", "1500.00", jan)

	st, err := svc.GenerateFinancialStatements("u1", nil)
	require.NoError(t, err)

	// Assets section nets out the contra line.
	require.Len(t, st.BalanceSheet.Assets.Lines, 2)
	assert.True(t, st.BalanceSheet.Assets.Lines[1].Amount.Equal(decimal.RequireFromString("-300.00")),
		"contra asset shows negative, got %s", st.BalanceSheet.Assets.Lines[1].Amount)
	assert.True(t, st.BalanceSheet.Assets.Total.Equal(decimal.RequireFromString("4700.00")), "got %s", st.BalanceSheet.Assets.Total)

	assert.True(t, st.IncomeStatement.Revenue.Total.Equal(decimal.RequireFromString("4000.00")))
	assert.True(t, st.IncomeStatement.Expenses.Total.Equal(decimal.RequireFromString("1500.00")))
	assert.True(t, st.IncomeStatement.NetIncome.Equal(decimal.RequireFromString("2500.00")), "got %s", st.IncomeStatement.NetIncome)

	assert.True(t, st.BalanceSheet.Equity.Total.Equal(decimal.RequireFromString("2000.00")))
	assert.True(t, st.BalanceSheet.EquityTotalWithIncome.Equal(decimal.RequireFromString("4500.00")),
		"equity plus simulated closing entry, got %s", st.BalanceSheet.EquityTotalWithIncome)
}
