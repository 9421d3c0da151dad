package categorize

import (
	"net/http"

	"github.com/SoloBooks/SB-Backend/internal/auth"
	"github.com/SoloBooks/SB-Backend/internal/middleware"
	"github.com/go-chi/chi/v5"
)

func SetupRoutes() http.Handler {
	r := chi.NewRouter()
	sessionFetcher := auth.SessionInfo{}

	r.Group(func(r chi.Router) {
		r.Use(middleware.SessionMiddleware(sessionFetcher))

		r.Post("/transactions/{transaction_id}", CategorizeHandler)
		r.Post("/transactions/bulk", BulkCategorizeHandler)
		r.Get("/transactions/{transaction_id}/audit", AuditTrailHandler)

		r.Post("/mappings", CreateMappingHandler)

		r.Get("/summary/{year}", TaxSummaryHandler)
		r.Get("/schedule-c/{year}", ScheduleCHandler)
	})

	return r
}
