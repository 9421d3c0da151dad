package seeds

import "log"

// SeedAll runs every global seeder. Per-user seeding (default chart of
// accounts) happens at registration time, not here.
func SeedAll() error {
	log.Println("Seeding tax categories...")
	if err := SeedTaxCategories(); err != nil {
		return err
	}
	log.Println("Seeding complete")
	return nil
}
