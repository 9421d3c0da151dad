package banking

import (
	"log"

	"github.com/SoloBooks/SB-Backend/internal/db"
)

func Init() {
	if err := db.DB.AutoMigrate(&Transaction{}); err != nil {
		log.Fatal("Failed to auto-migrate banking tables: ", err)
	}
}
