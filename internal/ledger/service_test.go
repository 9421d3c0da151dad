package ledger

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/SoloBooks/SB-Backend/internal/banking"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(&ChartOfAccount{}, &banking.Transaction{}))
	return gdb
}

func mustCreate(t *testing.T, svc *Service, p CreateAccountParams) *ChartOfAccount {
	t.Helper()
	account, err := svc.CreateAccount(p)
	require.NoError(t, err)
	return account
}

func postTxn(t *testing.T, db *gorm.DB, accountID uuid.UUID, userID, txnType, amount string, day time.Time) {
	t.Helper()
	txn := banking.Transaction{
		ID:              uuid.New(),
		UserID:          userID,
		Amount:          decimal.RequireFromString(amount),
		TransactionType: txnType,
		Date:            day,
		ChartAccountID:  &accountID,
	}
	require.NoError(t, db.Create(&txn).Error)
}

func TestCreateAccount(t *testing.T) {
	svc := NewService(newTestDB(t))

	account := mustCreate(t, svc, CreateAccountParams{
		UserID:      "u1",
		AccountCode: "5050",
		Name:        "Office Expense",
		AccountType: AccountTypeExpense,
	})
	assert.Equal(t, NormalBalanceDebit, account.NormalBalance, "derived from type")
	assert.True(t, account.IsActive)
	assert.True(t, account.CurrentBalance.IsZero())

	// Same code for the same user is a conflict.
	_, err := svc.CreateAccount(CreateAccountParams{
		UserID:      "u1",
		AccountCode: "5050",
		Name:        "Dup",
		AccountType: AccountTypeExpense,
	})
	assert.ErrorIs(t, err, ErrDuplicateCode)

	// Another user may reuse the code.
	_, err = svc.CreateAccount(CreateAccountParams{
		UserID:      "u2",
		AccountCode: "5050",
		Name:        "Office Expense",
		AccountType: AccountTypeExpense,
	})
	assert.NoError(t, err)

	// Mismatched normal balance is rejected.
	_, err = svc.CreateAccount(CreateAccountParams{
		UserID:        "u1",
		AccountCode:   "4010",
		Name:          "Revenue",
		AccountType:   AccountTypeRevenue,
		NormalBalance: NormalBalanceDebit,
	})
	assert.ErrorIs(t, err, ErrValidation)

	// Unknown parent is rejected.
	bogus := uuid.New()
	_, err = svc.CreateAccount(CreateAccountParams{
		UserID:      "u1",
		AccountCode: "5051",
		Name:        "Child",
		AccountType: AccountTypeExpense,
		ParentID:    &bogus,
	})
	assert.ErrorIs(t, err, ErrInvalidParent)
}

func TestUpdateAccountSystemProtection(t *testing.T) {
	svc := NewService(newTestDB(t))

	sys := mustCreate(t, svc, CreateAccountParams{
		UserID:          "u1",
		AccountCode:     "1010",
		Name:            "Business Checking",
		AccountType:     AccountTypeAsset,
		IsSystemAccount: true,
	})

	newCode := "1011"
	_, err := svc.UpdateAccount(sys.ID, "u1", AccountUpdate{AccountCode: &newCode})
	assert.ErrorIs(t, err, ErrSystemAccountProtected)

	// Non-structural fields stay editable on system accounts.
	newName := "Primary Checking"
	updated, err := svc.UpdateAccount(sys.ID, "u1", AccountUpdate{Name: &newName})
	require.NoError(t, err)
	assert.Equal(t, "Primary Checking", updated.Name)

	// Cross-user lookups read as not found.
	_, err = svc.UpdateAccount(sys.ID, "u2", AccountUpdate{Name: &newName})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReparentCycleRejected(t *testing.T) {
	svc := NewService(newTestDB(t))

	root := mustCreate(t, svc, CreateAccountParams{
		UserID: "u1", AccountCode: "5000", Name: "Expenses", AccountType: AccountTypeExpense,
	})
	child := mustCreate(t, svc, CreateAccountParams{
		UserID: "u1", AccountCode: "5100", Name: "Utilities", AccountType: AccountTypeExpense, ParentID: &root.ID,
	})
	grandchild := mustCreate(t, svc, CreateAccountParams{
		UserID: "u1", AccountCode: "5110", Name: "Internet", AccountType: AccountTypeExpense, ParentID: &child.ID,
	})

	_, err := svc.UpdateAccount(root.ID, "u1", AccountUpdate{ParentID: &root.ID})
	assert.ErrorIs(t, err, ErrInvalidParent, "self parent")

	_, err = svc.UpdateAccount(root.ID, "u1", AccountUpdate{ParentID: &grandchild.ID})
	assert.ErrorIs(t, err, ErrInvalidParent, "descendant parent closes a cycle")

	// Sibling move is fine.
	other := mustCreate(t, svc, CreateAccountParams{
		UserID: "u1", AccountCode: "5900", Name: "Other", AccountType: AccountTypeExpense,
	})
	updated, err := svc.UpdateAccount(grandchild.ID, "u1", AccountUpdate{ParentID: &other.ID})
	require.NoError(t, err)
	assert.Equal(t, other.ID, *updated.ParentID)

	// ClearParent detaches.
	updated, err = svc.UpdateAccount(grandchild.ID, "u1", AccountUpdate{ClearParent: true})
	require.NoError(t, err)
	assert.Nil(t, updated.ParentID)
}

func TestReparentCycleThroughInactiveAncestor(t *testing.T) {
	svc := NewService(newTestDB(t))

	root := mustCreate(t, svc, CreateAccountParams{
		UserID: "u1", AccountCode: "5000", Name: "Expenses", AccountType: AccountTypeExpense,
	})
	child := mustCreate(t, svc, CreateAccountParams{
		UserID: "u1", AccountCode: "5100", Name: "Utilities", AccountType: AccountTypeExpense, ParentID: &root.ID,
	})
	grandchild := mustCreate(t, svc, CreateAccountParams{
		UserID: "u1", AccountCode: "5110", Name: "Internet", AccountType: AccountTypeExpense, ParentID: &child.ID,
	})

	// Deactivating the middle of the chain must not hide the cycle.
	inactive := false
	_, err := svc.UpdateAccount(child.ID, "u1", AccountUpdate{IsActive: &inactive})
	require.NoError(t, err)

	_, err = svc.UpdateAccount(root.ID, "u1", AccountUpdate{ParentID: &grandchild.ID})
	assert.ErrorIs(t, err, ErrInvalidParent)
}

func TestDeleteAccount(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewService(gdb)

	sys := mustCreate(t, svc, CreateAccountParams{
		UserID: "u1", AccountCode: "3010", Name: "Owner's Equity",
		AccountType: AccountTypeEquity, IsSystemAccount: true,
	})
	assert.ErrorIs(t, svc.DeleteAccount(sys.ID, "u1"), ErrSystemAccountProtected)

	used := mustCreate(t, svc, CreateAccountParams{
		UserID: "u1", AccountCode: "5050", Name: "Office Expense", AccountType: AccountTypeExpense,
	})
	for i := 0; i < 5; i++ {
		postTxn(t, gdb, used.ID, "u1", "debit", "10.00", time.Date(2026, 3, 1+i, 0, 0, 0, 0, time.UTC))
	}
	require.NoError(t, svc.DeleteAccount(used.ID, "u1"))

	var kept ChartOfAccount
	require.NoError(t, gdb.First(&kept, "id = ?", used.ID).Error)
	assert.False(t, kept.IsActive, "linked account is deactivated, not removed")

	unused := mustCreate(t, svc, CreateAccountParams{
		UserID: "u1", AccountCode: "5060", Name: "Rent", AccountType: AccountTypeExpense,
	})
	require.NoError(t, svc.DeleteAccount(unused.ID, "u1"))
	err := gdb.First(&ChartOfAccount{}, "id = ?", unused.ID).Error
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound, "unlinked account is removed outright")

	assert.ErrorIs(t, svc.DeleteAccount(uuid.New(), "u1"), ErrNotFound)
}

func TestGetAccountBalance(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewService(gdb)

	expense := mustCreate(t, svc, CreateAccountParams{
		UserID: "u1", AccountCode: "5050", Name: "Office Expense", AccountType: AccountTypeExpense,
	})
	postTxn(t, gdb, expense.ID, "u1", "debit", "100.00", time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC))
	postTxn(t, gdb, expense.ID, "u1", "debit", "40.50", time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC))
	postTxn(t, gdb, expense.ID, "u1", "credit", "15.50", time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC))

	balance, err := svc.GetAccountBalance(expense.ID, "u1", nil)
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.RequireFromString("125.00")), "got %s", balance)

	// Cutoff excludes the later refund.
	asOf := time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)
	balance, err = svc.GetAccountBalance(expense.ID, "u1", &asOf)
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.RequireFromString("140.50")), "got %s", balance)

	// Credit-normal account nets the other way.
	revenue := mustCreate(t, svc, CreateAccountParams{
		UserID: "u1", AccountCode: "4010", Name: "Service Revenue", AccountType: AccountTypeRevenue,
	})
	postTxn(t, gdb, revenue.ID, "u1", "credit", "500.00", time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC))
	postTxn(t, gdb, revenue.ID, "u1", "debit", "50.00", time.Date(2026, 1, 6, 0, 0, 0, 0, time.UTC))

	balance, err = svc.GetAccountBalance(revenue.ID, "u1", nil)
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.RequireFromString("450.00")), "got %s", balance)

	// The cache reflects the last computation.
	var cached ChartOfAccount
	require.NoError(t, gdb.First(&cached, "id = ?", revenue.ID).Error)
	assert.True(t, cached.CurrentBalance.Equal(decimal.RequireFromString("450.00")))
}

func TestFindByTaxCategory(t *testing.T) {
	svc := NewService(newTestDB(t))

	mustCreate(t, svc, CreateAccountParams{
		UserID: "u1", AccountCode: "5090", Name: "Meals",
		AccountType: AccountTypeExpense, TaxCategory: "Meals",
	})

	found, err := svc.FindByTaxCategory("u1", "Meals")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "5090", found.AccountCode)

	found, err = svc.FindByTaxCategory("u1", "Travel")
	require.NoError(t, err)
	assert.Nil(t, found, "no match is nil, not an error")

	found, err = svc.FindByTaxCategory("u2", "Meals")
	require.NoError(t, err)
	assert.Nil(t, found, "labels do not cross users")
}
