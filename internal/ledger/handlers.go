package ledger

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/SoloBooks/SB-Backend/internal/db"
	"github.com/SoloBooks/SB-Backend/internal/utils"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// errStatus maps the package's error taxonomy onto HTTP status codes.
func errStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicateCode):
		return http.StatusConflict
	case errors.Is(err, ErrSystemAccountProtected):
		return http.StatusForbidden
	case errors.Is(err, ErrInvalidParent), errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// parseAsOf reads an optional ?as_of=YYYY-MM-DD cutoff.
func parseAsOf(r *http.Request) (*time.Time, error) {
	raw := r.URL.Query().Get("as_of")
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func ListAccountsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	svc := NewService(db.DB)
	includeInactive := r.URL.Query().Get("include_inactive") == "true"
	accounts, err := svc.ListAccounts(userID, includeInactive)
	if err != nil {
		http.Error(w, "Failed to fetch accounts: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(accounts)
}

func CreateAccountHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var input struct {
		AccountCode    string     `json:"account_code"`
		Name           string     `json:"name"`
		AccountType    string     `json:"account_type"`
		NormalBalance  string     `json:"normal_balance"`
		ParentID       *uuid.UUID `json:"parent_id"`
		Description    string     `json:"description"`
		TaxCategory    string     `json:"tax_category"`
		TaxLineMapping string     `json:"tax_line_mapping"`
		Track1099      bool       `json:"track_1099"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	svc := NewService(db.DB)
	account, err := svc.CreateAccount(CreateAccountParams{
		UserID:         userID,
		AccountCode:    input.AccountCode,
		Name:           input.Name,
		AccountType:    AccountType(input.AccountType),
		NormalBalance:  NormalBalance(input.NormalBalance),
		ParentID:       input.ParentID,
		Description:    input.Description,
		TaxCategory:    input.TaxCategory,
		TaxLineMapping: input.TaxLineMapping,
		Track1099:      input.Track1099,
	})
	if err != nil {
		http.Error(w, err.Error(), errStatus(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(account)
}

func UpdateAccountHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	accountID, err := uuid.Parse(chi.URLParam(r, "account_id"))
	if err != nil {
		http.Error(w, "Invalid account id", http.StatusBadRequest)
		return
	}

	var input struct {
		Name           *string    `json:"name"`
		Description    *string    `json:"description"`
		AccountCode    *string    `json:"account_code"`
		AccountType    *string    `json:"account_type"`
		NormalBalance  *string    `json:"normal_balance"`
		ParentID       *uuid.UUID `json:"parent_id"`
		ClearParent    bool       `json:"clear_parent"`
		TaxCategory    *string    `json:"tax_category"`
		TaxLineMapping *string    `json:"tax_line_mapping"`
		Track1099      *bool      `json:"track_1099"`
		IsActive       *bool      `json:"is_active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	upd := AccountUpdate{
		Name:           input.Name,
		Description:    input.Description,
		AccountCode:    input.AccountCode,
		ParentID:       input.ParentID,
		ClearParent:    input.ClearParent,
		TaxCategory:    input.TaxCategory,
		TaxLineMapping: input.TaxLineMapping,
		Track1099:      input.Track1099,
		IsActive:       input.IsActive,
	}
	if input.AccountType != nil {
		t := AccountType(*input.AccountType)
		upd.AccountType = &t
	}
	if input.NormalBalance != nil {
		nb := NormalBalance(*input.NormalBalance)
		upd.NormalBalance = &nb
	}

	svc := NewService(db.DB)
	account, err := svc.UpdateAccount(accountID, userID, upd)
	if err != nil {
		http.Error(w, err.Error(), errStatus(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(account)
}

func DeleteAccountHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	accountID, err := uuid.Parse(chi.URLParam(r, "account_id"))
	if err != nil {
		http.Error(w, "Invalid account id", http.StatusBadRequest)
		return
	}

	svc := NewService(db.DB)
	if err := svc.DeleteAccount(accountID, userID); err != nil {
		http.Error(w, err.Error(), errStatus(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func AccountBalanceHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	accountID, err := uuid.Parse(chi.URLParam(r, "account_id"))
	if err != nil {
		http.Error(w, "Invalid account id", http.StatusBadRequest)
		return
	}
	asOf, err := parseAsOf(r)
	if err != nil {
		http.Error(w, "Invalid as_of date, expected YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	svc := NewService(db.DB)
	balance, err := svc.GetAccountBalance(accountID, userID, asOf)
	if err != nil {
		http.Error(w, err.Error(), errStatus(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"account_id": accountID,
		"balance":    balance,
	})
}

func TrialBalanceHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	asOf, err := parseAsOf(r)
	if err != nil {
		http.Error(w, "Invalid as_of date, expected YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	svc := NewService(db.DB)
	tb, err := svc.GetTrialBalance(userID, asOf)
	if err != nil {
		http.Error(w, "Failed to build trial balance: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(tb)
}

func FinancialStatementsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	asOf, err := parseAsOf(r)
	if err != nil {
		http.Error(w, "Invalid as_of date, expected YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	svc := NewService(db.DB)
	st, err := svc.GenerateFinancialStatements(userID, asOf)
	if err != nil {
		http.Error(w, "Failed to build statements: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(st)
}
