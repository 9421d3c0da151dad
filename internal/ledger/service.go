package ledger

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/SoloBooks/SB-Backend/internal/banking"
)

// Service implements chart-of-accounts lifecycle and balance computation.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// CreateAccountParams carries only the fields a caller may set on a new
// account. NormalBalance may be left empty to derive it from AccountType.
type CreateAccountParams struct {
	UserID          string
	AccountCode     string
	Name            string
	AccountType     AccountType
	NormalBalance   NormalBalance
	ParentID        *uuid.UUID
	Description     string
	IsSystemAccount bool
	TaxCategory     string
	TaxLineMapping  string
	Track1099       bool
}

func (s *Service) CreateAccount(p CreateAccountParams) (*ChartOfAccount, error) {
	if p.UserID == "" || p.AccountCode == "" || p.Name == "" {
		return nil, fmt.Errorf("%w: user_id, account_code and name are required", ErrValidation)
	}

	expected := NormalBalanceFor(p.AccountType)
	if expected == "" {
		return nil, fmt.Errorf("%w: unknown account type %q", ErrValidation, p.AccountType)
	}
	if p.NormalBalance == "" {
		p.NormalBalance = expected
	} else if p.NormalBalance != expected {
		return nil, fmt.Errorf("%w: %s accounts carry a %s normal balance", ErrValidation, p.AccountType, expected)
	}

	var existing ChartOfAccount
	err := s.db.First(&existing, "user_id = ? AND account_code = ?", p.UserID, p.AccountCode).Error
	if err == nil {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateCode, p.AccountCode)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if p.ParentID != nil {
		if _, err := s.activeAccount(*p.ParentID, p.UserID); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidParent, *p.ParentID)
		}
	}

	account := ChartOfAccount{
		ID:              uuid.New(),
		UserID:          p.UserID,
		AccountCode:     p.AccountCode,
		Name:            p.Name,
		AccountType:     p.AccountType,
		NormalBalance:   p.NormalBalance,
		ParentID:        p.ParentID,
		Description:     p.Description,
		IsSystemAccount: p.IsSystemAccount,
		IsActive:        true,
		CurrentBalance:  decimal.Zero,
		TaxCategory:     p.TaxCategory,
		TaxLineMapping:  p.TaxLineMapping,
		Track1099:       p.Track1099,
	}
	if err := s.db.Create(&account).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

// AccountUpdate patches an account field-by-field. Only named, typed fields
// can change; nil pointers leave a field untouched. ClearParent detaches the
// account from its parent (ParentID alone cannot express "set to null").
type AccountUpdate struct {
	Name           *string
	Description    *string
	AccountCode    *string
	AccountType    *AccountType
	NormalBalance  *NormalBalance
	ParentID       *uuid.UUID
	ClearParent    bool
	TaxCategory    *string
	TaxLineMapping *string
	Track1099      *bool
	IsActive       *bool
}

// structural reports whether the update touches fields that are frozen on
// system accounts.
func (u AccountUpdate) structural() bool {
	return u.AccountCode != nil || u.AccountType != nil || u.NormalBalance != nil
}

func (s *Service) UpdateAccount(accountID uuid.UUID, userID string, upd AccountUpdate) (*ChartOfAccount, error) {
	var account ChartOfAccount
	err := s.db.First(&account, "id = ? AND user_id = ?", accountID, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, accountID)
	}
	if err != nil {
		return nil, err
	}

	if account.IsSystemAccount && upd.structural() {
		return nil, fmt.Errorf("%w: account_code, account_type and normal_balance are frozen on %s", ErrSystemAccountProtected, account.AccountCode)
	}

	if upd.AccountCode != nil && *upd.AccountCode != account.AccountCode {
		var clash ChartOfAccount
		err := s.db.First(&clash, "user_id = ? AND account_code = ? AND id <> ?", userID, *upd.AccountCode, accountID).Error
		if err == nil {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateCode, *upd.AccountCode)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		account.AccountCode = *upd.AccountCode
	}

	if upd.AccountType != nil {
		account.AccountType = *upd.AccountType
	}
	if upd.NormalBalance != nil {
		account.NormalBalance = *upd.NormalBalance
	}
	if expected := NormalBalanceFor(account.AccountType); expected == "" {
		return nil, fmt.Errorf("%w: unknown account type %q", ErrValidation, account.AccountType)
	} else if account.NormalBalance != expected {
		return nil, fmt.Errorf("%w: %s accounts carry a %s normal balance", ErrValidation, account.AccountType, expected)
	}

	if upd.ClearParent {
		account.ParentID = nil
	} else if upd.ParentID != nil {
		if err := s.checkReparent(account.ID, *upd.ParentID, userID); err != nil {
			return nil, err
		}
		account.ParentID = upd.ParentID
	}

	if upd.Name != nil {
		account.Name = *upd.Name
	}
	if upd.Description != nil {
		account.Description = *upd.Description
	}
	if upd.TaxCategory != nil {
		account.TaxCategory = *upd.TaxCategory
	}
	if upd.TaxLineMapping != nil {
		account.TaxLineMapping = *upd.TaxLineMapping
	}
	if upd.Track1099 != nil {
		account.Track1099 = *upd.Track1099
	}
	if upd.IsActive != nil {
		account.IsActive = *upd.IsActive
	}

	if err := s.db.Save(&account).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

// checkReparent rejects a parent that is missing/inactive/cross-user, or one
// whose ancestor chain contains the account itself (cycle by construction).
func (s *Service) checkReparent(accountID, newParentID uuid.UUID, userID string) error {
	if newParentID == accountID {
		return fmt.Errorf("%w: account cannot be its own parent", ErrInvalidParent)
	}

	parent, err := s.activeAccount(newParentID, userID)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidParent, newParentID)
	}

	// Walk up from the new parent; the chain is short in practice, and the
	// visited set guards against pre-existing bad data. Inactive ancestors
	// still count, a cycle through a soft-deleted account is still a cycle.
	visited := map[uuid.UUID]bool{}
	cur := parent
	for cur.ParentID != nil {
		if *cur.ParentID == accountID {
			return fmt.Errorf("%w: reparenting would create a cycle", ErrInvalidParent)
		}
		if visited[*cur.ParentID] {
			break
		}
		visited[*cur.ParentID] = true

		var next ChartOfAccount
		if err := s.db.First(&next, "id = ? AND user_id = ?", *cur.ParentID, userID).Error; err != nil {
			break
		}
		cur = &next
	}
	return nil
}

// DeleteAccount soft-deletes an account that has transactions posted to it
// and hard-deletes one that does not. System accounts cannot be deleted.
func (s *Service) DeleteAccount(accountID uuid.UUID, userID string) error {
	var account ChartOfAccount
	err := s.db.First(&account, "id = ? AND user_id = ?", accountID, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, accountID)
	}
	if err != nil {
		return err
	}

	if account.IsSystemAccount {
		return fmt.Errorf("%w: %s cannot be deleted", ErrSystemAccountProtected, account.AccountCode)
	}

	var linked int64
	if err := s.db.Model(&banking.Transaction{}).Where("chart_account_id = ?", accountID).Count(&linked).Error; err != nil {
		return err
	}

	if linked > 0 {
		account.IsActive = false
		return s.db.Save(&account).Error
	}
	return s.db.Delete(&account).Error
}

// GetAccountBalance recomputes an account's balance from its linked
// transactions as of the cutoff date (inclusive; nil = no cutoff). Debit and
// credit sides are summed separately and netted per the account's normal
// balance. The result also overwrites the cached CurrentBalance; the cache is
// last-write-wins and advisory only.
func (s *Service) GetAccountBalance(accountID uuid.UUID, userID string, asOf *time.Time) (decimal.Decimal, error) {
	var account ChartOfAccount
	err := s.db.First(&account, "id = ? AND user_id = ?", accountID, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrNotFound, accountID)
	}
	if err != nil {
		return decimal.Zero, err
	}

	balance, err := s.computeBalance(&account, asOf)
	if err != nil {
		return decimal.Zero, err
	}

	if err := s.db.Model(&account).Update("current_balance", balance).Error; err != nil {
		return decimal.Zero, err
	}
	return balance, nil
}

func (s *Service) computeBalance(account *ChartOfAccount, asOf *time.Time) (decimal.Decimal, error) {
	q := s.db.Where("chart_account_id = ?", account.ID)
	if asOf != nil {
		q = q.Where("date <= ?", *asOf)
	}

	var txns []banking.Transaction
	if err := q.Find(&txns).Error; err != nil {
		return decimal.Zero, err
	}

	// Aggregate in Go over exact decimals rather than in SQL floats.
	debits, credits := decimal.Zero, decimal.Zero
	for _, t := range txns {
		if t.TransactionType == "credit" {
			credits = credits.Add(t.Amount)
		} else {
			debits = debits.Add(t.Amount)
		}
	}

	if account.NormalBalance == NormalBalanceCredit {
		return credits.Sub(debits), nil
	}
	return debits.Sub(credits), nil
}

// ListAccounts returns the user's chart of accounts in code order.
func (s *Service) ListAccounts(userID string, includeInactive bool) ([]ChartOfAccount, error) {
	q := s.db.Where("user_id = ?", userID)
	if !includeInactive {
		q = q.Where("is_active = ?", true)
	}

	var accounts []ChartOfAccount
	if err := q.Order("account_code ASC").Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}

// FindByTaxCategory returns the user's first active account labeled with the
// given tax-category display name, or nil when none is.
func (s *Service) FindByTaxCategory(userID, taxCategoryName string) (*ChartOfAccount, error) {
	var account ChartOfAccount
	err := s.db.
		Where("user_id = ? AND tax_category = ? AND is_active = ?", userID, taxCategoryName, true).
		Order("account_code ASC").
		First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (s *Service) activeAccount(id uuid.UUID, userID string) (*ChartOfAccount, error) {
	var account ChartOfAccount
	err := s.db.First(&account, "id = ? AND user_id = ? AND is_active = ?", id, userID, true).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}
