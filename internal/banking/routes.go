package banking

import (
	"net/http"

	"github.com/SoloBooks/SB-Backend/internal/auth"
	"github.com/SoloBooks/SB-Backend/internal/middleware"
	"github.com/go-chi/chi/v5"
)

func SetupRoutes() http.Handler {
	r := chi.NewRouter()
	sessionFetcher := auth.SessionInfo{}

	// Signed provider callback; authenticated by HMAC, not by session.
	r.Post("/webhook", BankSyncWebhook)

	r.Group(func(r chi.Router) {
		r.Use(middleware.SessionMiddleware(sessionFetcher))
		r.Get("/transactions", ListTransactions)
		r.Get("/transactions/{transaction_id}", GetTransaction)
	})

	return r
}
