package taxcat

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func SetupRoutes() http.Handler {
	r := chi.NewRouter()

	// Catalog is shared reference data; read-only and public.
	r.Get("/categories", ListCategories)
	r.Get("/categories/{code}", GetCategory)

	return r
}
