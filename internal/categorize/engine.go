package categorize

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/SoloBooks/SB-Backend/internal/banking"
	"github.com/SoloBooks/SB-Backend/internal/ledger"
	"github.com/SoloBooks/SB-Backend/internal/taxcat"
)

// Detection sources reported in CategorizationResult.
const (
	SourceMapping  = "mapping"
	SourceKeyword  = "keyword"
	SourceNoMatch  = "no_match"
	SourceExplicit = "explicit"
)

// Engine resolves tax categories and ledger accounts for transactions,
// computes deductible amounts, maintains substantiation records, and writes
// the audit trail. The catalog is injected so tests can swap the backing
// store.
type Engine struct {
	db      *gorm.DB
	catalog taxcat.Catalog
}

func NewEngine(db *gorm.DB, catalog taxcat.Catalog) *Engine {
	return &Engine{db: db, catalog: catalog}
}

// CategorizeParams identifies the transaction and carries the caller's
// explicit choices. Nil TaxCategoryID/ChartAccountID means "auto-detect";
// nil BusinessPct defaults to 100.
type CategorizeParams struct {
	TransactionID     uuid.UUID
	UserID            string
	TaxCategoryID     *uuid.UUID
	ChartAccountID    *uuid.UUID
	BusinessPct       *decimal.Decimal
	BusinessPurpose   string
	OverrideAutomated bool

	// Audit metadata; zero values mean a direct single categorization.
	ActorID string
	Action  string
}

type CategorizationResult struct {
	Success                bool             `json:"success"`
	TransactionID          uuid.UUID        `json:"transaction_id"`
	TaxCategoryName        string           `json:"tax_category_name,omitempty"`
	ChartAccountName       string           `json:"chart_account_name,omitempty"`
	DeductibleAmount       *decimal.Decimal `json:"deductible_amount,omitempty"`
	RequiresSubstantiation bool             `json:"requires_substantiation"`
	Confidence             float64          `json:"confidence"`
	DetectionSource        string           `json:"detection_source"`
}

// Categorize applies a tax category and ledger account to one transaction.
// Field mutation, the substantiation upsert, and the audit write run inside
// one database transaction; any failure rolls everything back.
func (e *Engine) Categorize(p CategorizeParams) (*CategorizationResult, error) {
	pct := decimal.NewFromInt(100)
	if p.BusinessPct != nil {
		pct = *p.BusinessPct
	}
	if pct.IsNegative() || pct.GreaterThan(decimal.NewFromInt(100)) {
		return nil, fmt.Errorf("%w: business percentage must be between 0 and 100", ErrValidation)
	}
	if p.Action == "" {
		p.Action = "categorize"
	}
	if p.ActorID == "" {
		p.ActorID = p.UserID
	}

	var result *CategorizationResult
	err := e.db.Transaction(func(tx *gorm.DB) error {
		var err error
		result, err = e.categorizeInTx(tx, p, pct)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (e *Engine) categorizeInTx(tx *gorm.DB, p CategorizeParams, pct decimal.Decimal) (*CategorizationResult, error) {
	var txn banking.Transaction
	err := tx.First(&txn, "id = ? AND user_id = ?", p.TransactionID, p.UserID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, p.TransactionID)
	}
	if err != nil {
		return nil, err
	}

	today := time.Now()

	// Hands-off guard: a pure auto-detection pass never clobbers an existing
	// categorization unless the caller opts in.
	if p.TaxCategoryID == nil && p.ChartAccountID == nil &&
		(txn.TaxCategoryID != nil || txn.ChartAccountID != nil) && !p.OverrideAutomated {
		return e.existingResult(tx, &txn)
	}

	oldTaxCategoryID := txn.TaxCategoryID
	oldChartAccountID := txn.ChartAccountID

	var (
		category   *taxcat.TaxCategory
		account    *ledger.ChartOfAccount
		confidence float64
		source     = SourceExplicit
		automated  = false
	)

	if p.TaxCategoryID != nil {
		category, err = e.catalog.FindByID(*p.TaxCategoryID)
		if err != nil || !category.EffectiveOn(today) {
			return nil, fmt.Errorf("%w: tax category %s is not currently effective", ErrInvalidReference, p.TaxCategoryID)
		}
		confidence = 1.0
	}
	if p.ChartAccountID != nil {
		account, err = findActiveAccount(tx, *p.ChartAccountID, p.UserID)
		if err != nil {
			return nil, err
		}
	}

	if p.TaxCategoryID == nil {
		det, err := e.autoDetect(tx, &txn, p.UserID, today)
		if err != nil {
			return nil, err
		}
		category = det.category
		confidence = det.confidence
		source = det.source
		automated = true
		if p.ChartAccountID == nil && det.account != nil {
			account = det.account
		}
	} else if p.ChartAccountID == nil {
		// Explicit category with the account omitted: attach the user's
		// account labeled with that category, never a keyword guess for a
		// different one.
		account, err = ledger.NewService(tx).FindByTaxCategory(p.UserID, category.Name)
		if err != nil {
			return nil, err
		}
	}

	// Deduction math on the business-use portion. No category resolved
	// means the deductible stays unset.
	businessAmount := BusinessAmount(txn.Amount, pct)
	var deductible *decimal.Decimal
	if category != nil {
		d := category.CalculateDeductible(businessAmount)
		deductible = &d
	}
	needsSubstantiation := RequiresSubstantiation(txn.Amount, category)

	tracker, err := e.upsertTracking(tx, &txn, p, pct, needsSubstantiation)
	if err != nil {
		return nil, err
	}

	txn.TaxCategoryID = nil
	txn.ChartAccountID = nil
	txn.ScheduleCLine = ""
	if category != nil {
		txn.TaxCategoryID = &category.ID
		txn.ScheduleCLine = category.TaxLine
	}
	if account != nil {
		txn.ChartAccountID = &account.ID
	}
	txn.BusinessUsePct = pct
	txn.DeductibleAmount = deductible
	txn.RequiresSubstantiation = needsSubstantiation
	txn.SubstantiationComplete = tracker.Complete()

	if err := tx.Save(&txn).Error; err != nil {
		return nil, err
	}

	// The previous entry's confidence becomes this entry's "before".
	var confidenceBefore *float64
	var prev CategorizationAudit
	if err := tx.Where("transaction_id = ?", txn.ID).Order("created_at DESC").First(&prev).Error; err == nil {
		confidenceBefore = prev.ConfidenceAfter
	}

	audit := CategorizationAudit{
		ID:                uuid.New(),
		TransactionID:     txn.ID,
		ActorID:           p.ActorID,
		Action:            p.Action,
		OldTaxCategoryID:  oldTaxCategoryID,
		NewTaxCategoryID:  txn.TaxCategoryID,
		OldChartAccountID: oldChartAccountID,
		NewChartAccountID: txn.ChartAccountID,
		Reason:            fmt.Sprintf("source=%s", source),
		ConfidenceBefore:  confidenceBefore,
		ConfidenceAfter:   &confidence,
		IsAutomated:       automated,
	}
	if err := tx.Create(&audit).Error; err != nil {
		return nil, err
	}

	result := CategorizationResult{
		Success:                true,
		TransactionID:          txn.ID,
		DeductibleAmount:       deductible,
		RequiresSubstantiation: needsSubstantiation,
		Confidence:             confidence,
		DetectionSource:        source,
	}
	if category != nil {
		result.TaxCategoryName = category.Name
	}
	if account != nil {
		result.ChartAccountName = account.Name
	}
	return &result, nil
}

// existingResult reports the transaction's current categorization without
// mutating anything.
func (e *Engine) existingResult(tx *gorm.DB, txn *banking.Transaction) (*CategorizationResult, error) {
	result := CategorizationResult{
		Success:                true,
		TransactionID:          txn.ID,
		DeductibleAmount:       txn.DeductibleAmount,
		RequiresSubstantiation: txn.RequiresSubstantiation,
		DetectionSource:        SourceExplicit,
		Confidence:             1.0,
	}
	if txn.TaxCategoryID != nil {
		if cat, err := e.catalog.FindByID(*txn.TaxCategoryID); err == nil {
			result.TaxCategoryName = cat.Name
		}
	}
	if txn.ChartAccountID != nil {
		var account ledger.ChartOfAccount
		if err := tx.First(&account, "id = ?", *txn.ChartAccountID).Error; err == nil {
			result.ChartAccountName = account.Name
		}
	}
	return &result, nil
}

func (e *Engine) upsertTracking(tx *gorm.DB, txn *banking.Transaction, p CategorizeParams, pct decimal.Decimal, receiptRequired bool) (*BusinessExpenseTracking, error) {
	var tracker BusinessExpenseTracking
	err := tx.First(&tracker, "transaction_id = ?", txn.ID).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		tracker = BusinessExpenseTracking{
			ID:                 uuid.New(),
			TransactionID:      txn.ID,
			UserID:             p.UserID,
			BusinessPurpose:    p.BusinessPurpose,
			BusinessPercentage: pct,
			ReceiptRequired:    receiptRequired,
		}
		if err := tx.Create(&tracker).Error; err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		tracker.BusinessPercentage = pct
		tracker.ReceiptRequired = receiptRequired
		if p.BusinessPurpose != "" {
			tracker.BusinessPurpose = p.BusinessPurpose
		}
		if err := tx.Save(&tracker).Error; err != nil {
			return nil, err
		}
	}
	return &tracker, nil
}

// detection is an auto-detection outcome. Either field may be nil; source
// says which tier produced the match.
type detection struct {
	category   *taxcat.TaxCategory
	account    *ledger.ChartOfAccount
	confidence float64
	source     string
}

// autoDetect fills in missing categorization fields: first from the user's
// category mappings (most confident mapping for the transaction's source
// category valid today), then by keyword scoring against the catalog.
func (e *Engine) autoDetect(tx *gorm.DB, txn *banking.Transaction, userID string, today time.Time) (*detection, error) {
	if txn.SourceCategoryID != nil && *txn.SourceCategoryID != "" {
		var mappings []CategoryMapping
		err := tx.
			Where("user_id = ? AND source_category = ?", userID, *txn.SourceCategoryID).
			Order("confidence_score DESC").
			Find(&mappings).Error
		if err != nil {
			return nil, err
		}
		for i := range mappings {
			m := &mappings[i]
			if !m.ValidOn(today) {
				continue
			}
			det := detection{
				confidence: m.ConfidenceScore,
				source:     SourceMapping,
			}
			if m.TaxCategoryID != nil {
				cat, err := e.catalog.FindByID(*m.TaxCategoryID)
				if err == nil {
					det.category = cat
				}
			}
			if m.ChartAccountID != nil {
				var account ledger.ChartOfAccount
				if err := tx.First(&account, "id = ?", *m.ChartAccountID).Error; err == nil {
					det.account = &account
				}
			}
			return &det, nil
		}
	}

	candidates, err := e.catalog.FindActive()
	if err != nil {
		return nil, err
	}

	haystack := strings.TrimSpace(txn.Name + " " + txn.MerchantName + " " + txn.Description)
	best, score := taxcat.BestMatch(haystack, candidates)
	if best == nil {
		return &detection{source: SourceNoMatch}, nil
	}

	det := detection{
		confidence: score,
		source:     SourceKeyword,
		category:   best,
	}

	// Attach the user's ledger account labeled with this category, if any.
	account, err := ledger.NewService(tx).FindByTaxCategory(userID, best.Name)
	if err != nil {
		return nil, err
	}
	if account != nil {
		det.account = account
	}
	return &det, nil
}

func findActiveAccount(tx *gorm.DB, id uuid.UUID, userID string) (*ledger.ChartOfAccount, error) {
	var account ledger.ChartOfAccount
	err := tx.First(&account, "id = ? AND user_id = ? AND is_active = ?", id, userID, true).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: chart account %s is inactive or not yours", ErrInvalidReference, id)
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// BulkError pairs a failed transaction id with its error message.
type BulkError struct {
	TransactionID uuid.UUID `json:"transaction_id"`
	Error         string    `json:"error"`
}

type BulkResult struct {
	SuccessCount int                    `json:"success_count"`
	ErrorCount   int                    `json:"error_count"`
	Errors       []BulkError            `json:"errors"`
	Results      []CategorizationResult `json:"results"`
}

// BulkCategorize applies Categorize independently to each id. Every id runs
// in its own database transaction; one stale id never aborts the batch.
// Callers needing all-or-nothing semantics must wrap the batch themselves.
func (e *Engine) BulkCategorize(transactionIDs []uuid.UUID, userID string, taxCategoryID, chartAccountID *uuid.UUID, businessPct *decimal.Decimal) *BulkResult {
	out := BulkResult{
		Errors:  []BulkError{},
		Results: []CategorizationResult{},
	}

	for _, id := range transactionIDs {
		res, err := e.Categorize(CategorizeParams{
			TransactionID:  id,
			UserID:         userID,
			TaxCategoryID:  taxCategoryID,
			ChartAccountID: chartAccountID,
			BusinessPct:    businessPct,
			ActorID:        userID,
			Action:         "bulk_categorize",
		})
		if err != nil {
			out.ErrorCount++
			out.Errors = append(out.Errors, BulkError{TransactionID: id, Error: err.Error()})
			continue
		}
		out.SuccessCount++
		out.Results = append(out.Results, *res)
	}
	return &out
}
