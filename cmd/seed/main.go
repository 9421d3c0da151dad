package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/SoloBooks/SB-Backend/internal/auth"
	"github.com/SoloBooks/SB-Backend/internal/banking"
	"github.com/SoloBooks/SB-Backend/internal/categorize"
	"github.com/SoloBooks/SB-Backend/internal/db"
	"github.com/SoloBooks/SB-Backend/internal/ledger"
	"github.com/SoloBooks/SB-Backend/internal/seeds"
	"github.com/SoloBooks/SB-Backend/internal/taxcat"
)

func main() {
	_ = godotenv.Load(".env.local")
	db.Connect()

	auth.Init()
	banking.Init()
	taxcat.Init()
	ledger.Init()
	categorize.Init()

	if err := seeds.SeedAll(); err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}
}
