package banking

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/SoloBooks/SB-Backend/internal/db"
	"github.com/SoloBooks/SB-Backend/internal/utils"
	"github.com/go-chi/chi/v5"
)

// ListTransactions returns the caller's transactions, newest first, with
// optional ?year= and ?uncategorized=true filters.
func ListTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	query := db.DB.Where("user_id = ?", userID)

	if yearStr := r.URL.Query().Get("year"); yearStr != "" {
		year, err := strconv.Atoi(yearStr)
		if err != nil {
			http.Error(w, "Invalid year format", http.StatusBadRequest)
			return
		}
		query = query.Where("date >= ? AND date < ?",
			strconv.Itoa(year)+"-01-01", strconv.Itoa(year+1)+"-01-01")
	}
	if r.URL.Query().Get("uncategorized") == "true" {
		query = query.Where("tax_category_id IS NULL")
	}

	var txns []Transaction
	if err := query.Order("date DESC").Find(&txns).Error; err != nil {
		http.Error(w, "Failed to fetch transactions: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(txns)
}

// GetTransaction returns a single transaction owned by the caller.
func GetTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	transactionID := chi.URLParam(r, "transaction_id")

	var txn Transaction
	if err := db.DB.First(&txn, "id = ? AND user_id = ?", transactionID, userID).Error; err != nil {
		http.Error(w, "Transaction not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(txn)
}
