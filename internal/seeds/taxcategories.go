package seeds

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/SoloBooks/SB-Backend/internal/db"
	"github.com/SoloBooks/SB-Backend/internal/taxcat"
)

type taxCategoryYAML struct {
	Code                  string   `yaml:"code"`
	Name                  string   `yaml:"name"`
	TaxForm               string   `yaml:"tax_form"`
	TaxLine               string   `yaml:"tax_line"`
	DeductionKind         string   `yaml:"deduction_kind"`
	PercentageLimit       *string  `yaml:"percentage_limit"`
	DollarLimit           *string  `yaml:"dollar_limit"`
	DocumentationRequired bool     `yaml:"documentation_required"`
	EffectiveDate         string   `yaml:"effective_date"`
	ExpirationDate        *string  `yaml:"expiration_date"`
	Keywords              []string `yaml:"keywords"`
	ExclusionKeywords     []string `yaml:"exclusion_keywords"`
	SpecialRules          string   `yaml:"special_rules"`
}

type taxCategoryFile struct {
	Categories []taxCategoryYAML `yaml:"categories"`
}

// SeedTaxCategories loads the Schedule C catalog from YAML. Existing codes
// are skipped; the catalog is administered by editing the file and reseeding.
func SeedTaxCategories() error {
	raw, err := os.ReadFile("internal/taxcat/data/tax_categories.yaml")
	if err != nil {
		return fmt.Errorf("could not read tax_categories.yaml: %w", err)
	}

	var file taxCategoryFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return fmt.Errorf("failed to parse tax_categories.yaml: %w", err)
	}

	for _, row := range file.Categories {
		var existing taxcat.TaxCategory
		err := db.DB.First(&existing, "code = ?", row.Code).Error
		if err == nil {
			log.Printf("Tax category exists, skipping: %s", row.Code)
			continue
		} else if err != gorm.ErrRecordNotFound {
			return fmt.Errorf("DB error on tax category %s: %w", row.Code, err)
		}

		cat, err := categoryFromYAML(row)
		if err != nil {
			return err
		}
		if err := db.DB.Create(cat).Error; err != nil {
			return fmt.Errorf("failed to seed tax category %s: %w", row.Code, err)
		}
		log.Printf("Seeded tax category: %s (%s)", row.Code, row.Name)
	}
	return nil
}

func categoryFromYAML(row taxCategoryYAML) (*taxcat.TaxCategory, error) {
	effective, err := time.Parse("2006-01-02", row.EffectiveDate)
	if err != nil {
		return nil, fmt.Errorf("bad effective_date for %s: %w", row.Code, err)
	}

	cat := taxcat.TaxCategory{
		ID:                    uuid.New(),
		Code:                  row.Code,
		Name:                  row.Name,
		TaxForm:               row.TaxForm,
		TaxLine:               row.TaxLine,
		DeductionKind:         row.DeductionKind,
		DocumentationRequired: row.DocumentationRequired,
		IsActive:              true,
		EffectiveDate:         effective,
		Keywords:              pq.StringArray(row.Keywords),
		ExclusionKeywords:     pq.StringArray(row.ExclusionKeywords),
		SpecialRules:          row.SpecialRules,
	}

	if row.ExpirationDate != nil {
		exp, err := time.Parse("2006-01-02", *row.ExpirationDate)
		if err != nil {
			return nil, fmt.Errorf("bad expiration_date for %s: %w", row.Code, err)
		}
		cat.ExpirationDate = &exp
	}
	if row.PercentageLimit != nil {
		limit, err := decimal.NewFromString(*row.PercentageLimit)
		if err != nil {
			return nil, fmt.Errorf("bad percentage_limit for %s: %w", row.Code, err)
		}
		cat.PercentageLimit = &limit
	}
	if row.DollarLimit != nil {
		limit, err := decimal.NewFromString(*row.DollarLimit)
		if err != nil {
			return nil, fmt.Errorf("bad dollar_limit for %s: %w", row.Code, err)
		}
		cat.DollarLimit = &limit
	}
	return &cat, nil
}
