package ledger

import (
	"log"

	"github.com/SoloBooks/SB-Backend/internal/db"
)

func Init() {
	if err := db.DB.AutoMigrate(&ChartOfAccount{}); err != nil {
		log.Fatal("Failed to auto-migrate ledger tables: ", err)
	}
}
