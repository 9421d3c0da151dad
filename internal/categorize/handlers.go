package categorize

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/SoloBooks/SB-Backend/internal/db"
	"github.com/SoloBooks/SB-Backend/internal/taxcat"
	"github.com/SoloBooks/SB-Backend/internal/utils"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func errStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidReference), errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func newEngine() *Engine {
	return NewEngine(db.DB, taxcat.NewCatalog(db.DB))
}

type categorizeInput struct {
	TaxCategoryID     *uuid.UUID       `json:"tax_category_id"`
	ChartAccountID    *uuid.UUID       `json:"chart_account_id"`
	BusinessPct       *decimal.Decimal `json:"business_pct"`
	BusinessPurpose   string           `json:"business_purpose"`
	OverrideAutomated bool             `json:"override_automated"`
}

func CategorizeHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	transactionID, err := uuid.Parse(chi.URLParam(r, "transaction_id"))
	if err != nil {
		http.Error(w, "Invalid transaction id", http.StatusBadRequest)
		return
	}

	var input categorizeInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result, err := newEngine().Categorize(CategorizeParams{
		TransactionID:     transactionID,
		UserID:            userID,
		TaxCategoryID:     input.TaxCategoryID,
		ChartAccountID:    input.ChartAccountID,
		BusinessPct:       input.BusinessPct,
		BusinessPurpose:   input.BusinessPurpose,
		OverrideAutomated: input.OverrideAutomated,
	})
	if err != nil {
		http.Error(w, err.Error(), errStatus(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

func BulkCategorizeHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var input struct {
		TransactionIDs []uuid.UUID      `json:"transaction_ids"`
		TaxCategoryID  *uuid.UUID       `json:"tax_category_id"`
		ChartAccountID *uuid.UUID       `json:"chart_account_id"`
		BusinessPct    *decimal.Decimal `json:"business_pct"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if len(input.TransactionIDs) == 0 {
		http.Error(w, "transaction_ids is required", http.StatusBadRequest)
		return
	}

	result := newEngine().BulkCategorize(input.TransactionIDs, userID,
		input.TaxCategoryID, input.ChartAccountID, input.BusinessPct)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

func CreateMappingHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var input struct {
		SourceCategory       string           `json:"source_category"`
		TaxCategoryID        *uuid.UUID       `json:"tax_category_id"`
		ChartAccountID       *uuid.UUID       `json:"chart_account_id"`
		ConfidenceScore      float64          `json:"confidence_score"`
		EffectiveDate        string           `json:"effective_date"`
		ExpirationDate       *string          `json:"expiration_date"`
		DefaultBusinessPct   *decimal.Decimal `json:"default_business_pct"`
		AlwaysRequireReceipt bool             `json:"always_require_receipt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	effective := time.Now().Truncate(24 * time.Hour)
	if input.EffectiveDate != "" {
		var err error
		effective, err = time.Parse("2006-01-02", input.EffectiveDate)
		if err != nil {
			http.Error(w, "Invalid effective_date, expected YYYY-MM-DD", http.StatusBadRequest)
			return
		}
	}
	var expiration *time.Time
	if input.ExpirationDate != nil {
		t, err := time.Parse("2006-01-02", *input.ExpirationDate)
		if err != nil {
			http.Error(w, "Invalid expiration_date, expected YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		expiration = &t
	}

	mapping, err := newEngine().CreateCategoryMapping(CreateMappingParams{
		UserID:               userID,
		SourceCategory:       input.SourceCategory,
		TaxCategoryID:        input.TaxCategoryID,
		ChartAccountID:       input.ChartAccountID,
		ConfidenceScore:      input.ConfidenceScore,
		IsUserDefined:        true,
		EffectiveDate:        effective,
		ExpirationDate:       expiration,
		DefaultBusinessPct:   input.DefaultBusinessPct,
		AlwaysRequireReceipt: input.AlwaysRequireReceipt,
	})
	if err != nil {
		http.Error(w, err.Error(), errStatus(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(mapping)
}

func TaxSummaryHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		http.Error(w, "Invalid tax year", http.StatusBadRequest)
		return
	}

	summary, err := newEngine().GetTaxSummary(userID, year)
	if err != nil {
		http.Error(w, "Failed to build tax summary: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(summary)
}

func ScheduleCHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		http.Error(w, "Invalid tax year", http.StatusBadRequest)
		return
	}

	export, err := newEngine().ExportScheduleC(userID, year)
	if err != nil {
		http.Error(w, "Failed to export Schedule C: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(export)
}

// AuditTrailHandler lists the categorization history of one transaction,
// newest first.
func AuditTrailHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	transactionID, err := uuid.Parse(chi.URLParam(r, "transaction_id"))
	if err != nil {
		http.Error(w, "Invalid transaction id", http.StatusBadRequest)
		return
	}

	// Scope the lookup through the transaction so users can only read their
	// own history.
	var count int64
	if err := db.DB.Table("transactions").Where("id = ? AND user_id = ?", transactionID, userID).Count(&count).Error; err != nil || count == 0 {
		http.Error(w, "Transaction not found", http.StatusNotFound)
		return
	}

	var audits []CategorizationAudit
	if err := db.DB.Where("transaction_id = ?", transactionID).Order("created_at DESC").Find(&audits).Error; err != nil {
		http.Error(w, "Failed to fetch audit trail: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(audits)
}
