package categorize

import (
	"log"

	"github.com/SoloBooks/SB-Backend/internal/db"
)

func Init() {
	err := db.DB.AutoMigrate(
		&CategoryMapping{},
		&BusinessExpenseTracking{},
		&CategorizationAudit{},
	)
	if err != nil {
		log.Fatal("Failed to auto-migrate categorization tables: ", err)
	}
}
