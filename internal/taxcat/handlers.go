package taxcat

import (
	"encoding/json"
	"net/http"

	"github.com/SoloBooks/SB-Backend/internal/db"
	"github.com/go-chi/chi/v5"
)

// ListCategories returns every currently-effective tax category.
func ListCategories(w http.ResponseWriter, r *http.Request) {
	catalog := NewCatalog(db.DB)

	cats, err := catalog.FindActive()
	if err != nil {
		http.Error(w, "Failed to fetch tax categories: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(cats)
}

// GetCategory returns a single tax category by its code.
func GetCategory(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	catalog := NewCatalog(db.DB)
	cat, err := catalog.FindByCode(code)
	if err != nil {
		http.Error(w, "Tax category not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(cat)
}
