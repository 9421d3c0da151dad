package taxcat

import (
	"log"

	"github.com/SoloBooks/SB-Backend/internal/db"
)

func Init() {
	if err := db.DB.AutoMigrate(&TaxCategory{}); err != nil {
		log.Fatal("Failed to auto-migrate tax category tables: ", err)
	}
}
