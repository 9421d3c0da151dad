package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TrialBalanceRow is one account's contribution to the trial balance. A
// balance lands in the column matching the account's normal side; a negative
// balance flips to the opposite column so both totals stay non-negative.
type TrialBalanceRow struct {
	AccountID   uuid.UUID       `json:"account_id"`
	AccountCode string          `json:"account_code"`
	Name        string          `json:"name"`
	AccountType AccountType     `json:"account_type"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

type TrialBalance struct {
	AsOf         *time.Time        `json:"as_of,omitempty"`
	Accounts     []TrialBalanceRow `json:"accounts"`
	TotalDebits  decimal.Decimal   `json:"total_debits"`
	TotalCredits decimal.Decimal   `json:"total_credits"`
	IsBalanced   bool              `json:"is_balanced"`
}

// GetTrialBalance recomputes every active account's balance from its
// transactions and sums the debit and credit columns.
//
// Each transaction posts to exactly one account (no balanced multi-line
// journal entries), so IsBalanced is a health check, not a structural
// guarantee.
func (s *Service) GetTrialBalance(userID string, asOf *time.Time) (*TrialBalance, error) {
	accounts, err := s.ListAccounts(userID, false)
	if err != nil {
		return nil, err
	}

	tb := TrialBalance{
		AsOf:         asOf,
		Accounts:     make([]TrialBalanceRow, 0, len(accounts)),
		TotalDebits:  decimal.Zero,
		TotalCredits: decimal.Zero,
	}

	for i := range accounts {
		account := &accounts[i]
		balance, err := s.computeBalance(account, asOf)
		if err != nil {
			return nil, err
		}

		row := TrialBalanceRow{
			AccountID:   account.ID,
			AccountCode: account.AccountCode,
			Name:        account.Name,
			AccountType: account.AccountType,
			Debit:       decimal.Zero,
			Credit:      decimal.Zero,
		}

		side := account.NormalBalance
		if balance.IsNegative() {
			balance = balance.Neg()
			if side == NormalBalanceDebit {
				side = NormalBalanceCredit
			} else {
				side = NormalBalanceDebit
			}
		}
		if side == NormalBalanceDebit {
			row.Debit = balance
			tb.TotalDebits = tb.TotalDebits.Add(balance)
		} else {
			row.Credit = balance
			tb.TotalCredits = tb.TotalCredits.Add(balance)
		}

		tb.Accounts = append(tb.Accounts, row)
	}

	tb.IsBalanced = tb.TotalDebits.Equal(tb.TotalCredits)
	return &tb, nil
}

type StatementLine struct {
	AccountCode string          `json:"account_code"`
	Name        string          `json:"name"`
	Amount      decimal.Decimal `json:"amount"`
}

type StatementSection struct {
	Lines []StatementLine `json:"lines"`
	Total decimal.Decimal `json:"total"`
}

type BalanceSheet struct {
	Assets                StatementSection `json:"assets"`
	Liabilities           StatementSection `json:"liabilities"`
	Equity                StatementSection `json:"equity"`
	EquityTotalWithIncome decimal.Decimal  `json:"equity_total_with_income"`
}

type IncomeStatement struct {
	Revenue   StatementSection `json:"revenue"`
	Expenses  StatementSection `json:"expenses"`
	NetIncome decimal.Decimal  `json:"net_income"`
}

type Statements struct {
	AsOf            *time.Time      `json:"as_of,omitempty"`
	BalanceSheet    BalanceSheet    `json:"balance_sheet"`
	IncomeStatement IncomeStatement `json:"income_statement"`
}

// GenerateFinancialStatements partitions recomputed balances by account type.
// Contra accounts appear in their base section as negative lines, so section
// totals are net of their contra counterparts. Net income is added to equity
// as a simulated closing entry; nothing is posted.
func (s *Service) GenerateFinancialStatements(userID string, asOf *time.Time) (*Statements, error) {
	accounts, err := s.ListAccounts(userID, false)
	if err != nil {
		return nil, err
	}

	st := Statements{AsOf: asOf}
	sections := map[AccountType]*StatementSection{
		AccountTypeAsset:     &st.BalanceSheet.Assets,
		AccountTypeLiability: &st.BalanceSheet.Liabilities,
		AccountTypeEquity:    &st.BalanceSheet.Equity,
		AccountTypeRevenue:   &st.IncomeStatement.Revenue,
		AccountTypeExpense:   &st.IncomeStatement.Expenses,
	}
	for _, sec := range sections {
		sec.Total = decimal.Zero
	}
	contraBase := map[AccountType]AccountType{
		AccountTypeContraAsset:     AccountTypeAsset,
		AccountTypeContraLiability: AccountTypeLiability,
		AccountTypeContraEquity:    AccountTypeEquity,
	}

	for i := range accounts {
		account := &accounts[i]
		balance, err := s.computeBalance(account, asOf)
		if err != nil {
			return nil, err
		}

		amount := balance
		target := account.AccountType
		if base, ok := contraBase[target]; ok {
			amount = balance.Neg()
			target = base
		}

		sec, ok := sections[target]
		if !ok {
			continue
		}
		sec.Lines = append(sec.Lines, StatementLine{
			AccountCode: account.AccountCode,
			Name:        account.Name,
			Amount:      amount,
		})
		sec.Total = sec.Total.Add(amount)
	}

	st.IncomeStatement.NetIncome = st.IncomeStatement.Revenue.Total.Sub(st.IncomeStatement.Expenses.Total)
	st.BalanceSheet.EquityTotalWithIncome = st.BalanceSheet.Equity.Total.Add(st.IncomeStatement.NetIncome)
	return &st, nil
}
