package ledger

import (
	"net/http"

	"github.com/SoloBooks/SB-Backend/internal/auth"
	"github.com/SoloBooks/SB-Backend/internal/middleware"
	"github.com/go-chi/chi/v5"
)

func SetupRoutes() http.Handler {
	r := chi.NewRouter()
	sessionFetcher := auth.SessionInfo{}

	// Everything in the ledger is per-user; no public routes.
	r.Group(func(r chi.Router) {
		r.Use(middleware.SessionMiddleware(sessionFetcher))

		r.Get("/accounts", ListAccountsHandler)
		r.Post("/accounts", CreateAccountHandler)
		r.Patch("/accounts/{account_id}", UpdateAccountHandler)
		r.Delete("/accounts/{account_id}", DeleteAccountHandler)
		r.Get("/accounts/{account_id}/balance", AccountBalanceHandler)

		r.Get("/trial-balance", TrialBalanceHandler)
		r.Get("/statements", FinancialStatementsHandler)
	})

	return r
}
