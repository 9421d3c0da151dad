package banking

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/SoloBooks/SB-Backend/internal/db"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

// Bank-sync providers retry aggressively; cap inbound webhook bursts.
var webhookLimiter = rate.NewLimiter(rate.Limit(20), 40)

type webhookTransaction struct {
	ExternalID     string `json:"external_id"`
	UserID         string `json:"user_id"`
	Amount         string `json:"amount"`
	Type           string `json:"type"` // debit or credit
	Date           string `json:"date"` // YYYY-MM-DD
	Name           string `json:"name"`
	MerchantName   string `json:"merchant_name"`
	Description    string `json:"description"`
	SourceCategory string `json:"source_category"`
}

// BankSyncWebhook ingests transactions pushed by the bank-sync provider.
// The payload is authenticated with an HMAC-SHA256 signature over body +
// delivery id, mirroring the provider's signing scheme.
func BankSyncWebhook(w http.ResponseWriter, r *http.Request) {
	if !webhookLimiter.Allow() {
		w.Header().Set("Retry-After", "1")
		http.Error(w, "rate limited", http.StatusTooManyRequests)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1 MiB
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "payload too large or unreadable", http.StatusRequestEntityTooLarge)
		return
	}
	defer r.Body.Close()

	sig := r.Header.Get("Bank-Signature")
	deliveryID := r.Header.Get("Bank-Delivery-Id")
	if deliveryID == "" {
		http.Error(w, "missing delivery id", http.StatusBadRequest)
		return
	}

	secret := os.Getenv("BANK_WEBHOOK_SECRET")
	if secret == "" {
		http.Error(w, "server misconfigured", http.StatusInternalServerError)
		return
	}
	if !verifySignature(sig, deliveryID, raw, secret) {
		http.Error(w, "invalid signature", http.StatusUnauthorized)
		return
	}

	var payload struct {
		Transactions []webhookTransaction `json:"transactions"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}

	// One delivery is one database transaction, and rows keyed by the
	// provider's external id are skipped on redelivery. Retries of a failed
	// or already-processed delivery never duplicate rows.
	inserted, skipped := 0, 0
	err = db.DB.Transaction(func(tx *gorm.DB) error {
		for _, wt := range payload.Transactions {
			amount, err := decimal.NewFromString(wt.Amount)
			if err != nil || amount.IsNegative() || wt.UserID == "" {
				continue // skip malformed rows, never fail the delivery
			}
			date, err := time.Parse("2006-01-02", wt.Date)
			if err != nil {
				continue
			}

			if wt.ExternalID != "" {
				var seen int64
				if err := tx.Model(&Transaction{}).
					Where("user_id = ? AND external_id = ?", wt.UserID, wt.ExternalID).
					Count(&seen).Error; err != nil {
					return err
				}
				if seen > 0 {
					skipped++
					continue
				}
			}

			txn := Transaction{
				ID:              uuid.New(),
				UserID:          wt.UserID,
				Amount:          amount,
				TransactionType: normalizeType(wt.Type),
				Date:            date,
				Name:            wt.Name,
				MerchantName:    wt.MerchantName,
				Description:     wt.Description,
			}
			if wt.ExternalID != "" {
				txn.ExternalID = &wt.ExternalID
			}
			if wt.SourceCategory != "" {
				txn.SourceCategoryID = &wt.SourceCategory
			}
			if err := tx.Create(&txn).Error; err != nil {
				return err
			}
			inserted++
		}
		return nil
	})
	if err != nil {
		http.Error(w, "db insert failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]any{"ok": true, "inserted": inserted, "skipped": skipped})
}

func normalizeType(t string) string {
	if strings.EqualFold(strings.TrimSpace(t), "credit") {
		return "credit"
	}
	return "debit"
}

func verifySignature(sig, deliveryID string, raw []byte, secret string) bool {
	if !strings.HasPrefix(sig, "sha256=") {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(raw)
	mac.Write([]byte(deliveryID))
	expected := "sha256=" + hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(sig), []byte(expected))
}
