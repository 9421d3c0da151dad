package categorize

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CreateMappingParams struct {
	UserID               string
	SourceCategory       string
	TaxCategoryID        *uuid.UUID
	ChartAccountID       *uuid.UUID
	ConfidenceScore      float64
	IsUserDefined        bool
	EffectiveDate        time.Time
	ExpirationDate       *time.Time
	DefaultBusinessPct   *decimal.Decimal
	AlwaysRequireReceipt bool
}

// CreateCategoryMapping validates and stores a (source category -> tax
// category + account) shortcut. At most one active mapping may exist per
// (user, source, effective date).
func (e *Engine) CreateCategoryMapping(p CreateMappingParams) (*CategoryMapping, error) {
	if p.UserID == "" || p.SourceCategory == "" {
		return nil, fmt.Errorf("%w: user_id and source_category are required", ErrValidation)
	}
	if p.ConfidenceScore < 0 || p.ConfidenceScore > 1 {
		return nil, fmt.Errorf("%w: confidence must be between 0 and 1", ErrValidation)
	}
	if p.ExpirationDate != nil && p.ExpirationDate.Before(p.EffectiveDate) {
		return nil, fmt.Errorf("%w: expiration date precedes effective date", ErrValidation)
	}

	pct := decimal.NewFromInt(100)
	if p.DefaultBusinessPct != nil {
		pct = *p.DefaultBusinessPct
	}
	if pct.IsNegative() || pct.GreaterThan(decimal.NewFromInt(100)) {
		return nil, fmt.Errorf("%w: default business percentage must be between 0 and 100", ErrValidation)
	}

	if p.TaxCategoryID != nil {
		if _, err := e.catalog.FindByID(*p.TaxCategoryID); err != nil {
			return nil, fmt.Errorf("%w: tax category %s", ErrInvalidReference, p.TaxCategoryID)
		}
	}
	if p.ChartAccountID != nil {
		if _, err := findActiveAccount(e.db, *p.ChartAccountID, p.UserID); err != nil {
			return nil, err
		}
	}

	var clash CategoryMapping
	err := e.db.First(&clash,
		"user_id = ? AND source_category = ? AND effective_date = ? AND is_active = ?",
		p.UserID, p.SourceCategory, p.EffectiveDate, true).Error
	if err == nil {
		return nil, fmt.Errorf("%w: an active mapping for %q already starts on %s",
			ErrValidation, p.SourceCategory, p.EffectiveDate.Format("2006-01-02"))
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	mapping := CategoryMapping{
		ID:                   uuid.New(),
		UserID:               p.UserID,
		SourceCategory:       p.SourceCategory,
		TaxCategoryID:        p.TaxCategoryID,
		ChartAccountID:       p.ChartAccountID,
		ConfidenceScore:      p.ConfidenceScore,
		IsUserDefined:        p.IsUserDefined,
		EffectiveDate:        p.EffectiveDate,
		ExpirationDate:       p.ExpirationDate,
		DefaultBusinessPct:   pct,
		AlwaysRequireReceipt: p.AlwaysRequireReceipt,
		IsActive:             true,
	}
	if err := e.db.Create(&mapping).Error; err != nil {
		return nil, err
	}
	return &mapping, nil
}
