package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/SoloBooks/SB-Backend/internal/auth"
	"github.com/SoloBooks/SB-Backend/internal/banking"
	"github.com/SoloBooks/SB-Backend/internal/categorize"
	"github.com/SoloBooks/SB-Backend/internal/db"
	"github.com/SoloBooks/SB-Backend/internal/ledger"
	"github.com/SoloBooks/SB-Backend/internal/middleware"
	"github.com/SoloBooks/SB-Backend/internal/seeds"
	"github.com/SoloBooks/SB-Backend/internal/taxcat"
)

func RootHandler(w http.ResponseWriter, r *http.Request) {
	response := "Server is up!"
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, response)
}

func main() {
	_ = godotenv.Load(".env.local")
	db.Connect()

	port := os.Getenv("PORT")
	if port == "" {
		port = "5050"
	}

	auth.Init()
	banking.Init()
	taxcat.Init()
	ledger.Init()
	categorize.Init()

	// New users get the starter chart of accounts.
	auth.OnUserCreated = seeds.SeedDefaultAccounts

	r := chi.NewRouter()
	r.Use(middleware.CORSMiddleware)
	r.Get("/", RootHandler)

	r.Mount("/auth", auth.SetupRoutes())
	r.Mount("/banking", banking.SetupRoutes())
	r.Mount("/tax", taxcat.SetupRoutes())
	r.Mount("/ledger", ledger.SetupRoutes())
	r.Mount("/categorize", categorize.SetupRoutes())

	fmt.Println("Server listening on port :" + port + "...")

	http.ListenAndServe("0.0.0.0:"+port, r)
}
