package banking

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/SoloBooks/SB-Backend/internal/db"
)

func sign(secret, deliveryID string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	mac.Write([]byte(deliveryID))
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	body := []byte(`{"transactions":[]}`)

	good := sign("topsecret", "delivery-1", body)
	if !verifySignature(good, "delivery-1", body, "topsecret") {
		t.Error("expected valid signature to verify")
	}

	if verifySignature(good, "delivery-2", body, "topsecret") {
		t.Error("signature must be bound to the delivery id")
	}
	if verifySignature(good, "delivery-1", []byte(`{}`), "topsecret") {
		t.Error("signature must be bound to the body")
	}
	if verifySignature(good, "delivery-1", body, "wrong") {
		t.Error("wrong secret must not verify")
	}
	if verifySignature("bogus", "delivery-1", body, "topsecret") {
		t.Error("missing sha256= prefix must not verify")
	}
}

func setupWebhookDB(t *testing.T) {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := gdb.AutoMigrate(&Transaction{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	db.DB = gdb
}

func TestBankSyncWebhookRedelivery(t *testing.T) {
	setupWebhookDB(t)
	t.Setenv("BANK_WEBHOOK_SECRET", "topsecret")

	body := []byte(`{"transactions":[
		{"external_id":"ext-1","user_id":"u1","amount":"10.00","type":"debit","date":"2026-04-01","name":"Coffee"},
		{"external_id":"ext-2","user_id":"u1","amount":"20.00","type":"debit","date":"2026-04-02","name":"Printer paper"}
	]}`)

	deliver := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader(body))
		req.Header.Set("Bank-Delivery-Id", "delivery-1")
		req.Header.Set("Bank-Signature", sign("topsecret", "delivery-1", body))
		rr := httptest.NewRecorder()
		BankSyncWebhook(rr, req)
		return rr
	}

	first := deliver()
	if first.Code != http.StatusOK {
		t.Fatalf("first delivery: status %d, body %s", first.Code, first.Body.String())
	}

	// The provider retries the same delivery; nothing may duplicate.
	second := deliver()
	if second.Code != http.StatusOK {
		t.Fatalf("redelivery: status %d, body %s", second.Code, second.Body.String())
	}

	var resp struct {
		Inserted int `json:"inserted"`
		Skipped  int `json:"skipped"`
	}
	if err := json.NewDecoder(second.Body).Decode(&resp); err != nil {
		t.Fatalf("decode redelivery response: %v", err)
	}
	if resp.Inserted != 0 || resp.Skipped != 2 {
		t.Errorf("redelivery inserted=%d skipped=%d, want 0/2", resp.Inserted, resp.Skipped)
	}

	var count int64
	if err := db.DB.Model(&Transaction{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Errorf("got %d rows after redelivery, want 2", count)
	}

	var txn Transaction
	if err := db.DB.First(&txn, "external_id = ?", "ext-1").Error; err != nil {
		t.Fatalf("external id was not persisted: %v", err)
	}
}

func TestNormalizeType(t *testing.T) {
	cases := map[string]string{
		"credit":  "credit",
		" CREDIT": "credit",
		"debit":   "debit",
		"":        "debit",
		"unknown": "debit",
	}
	for in, want := range cases {
		if got := normalizeType(in); got != want {
			t.Errorf("normalizeType(%q) = %q, want %q", in, got, want)
		}
	}
}
