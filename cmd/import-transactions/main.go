package main

import (
	"bufio"
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// CLI flags
var (
	csvPath     = flag.String("csv", "", "Path to the bank export CSV (required)")
	dsn         = flag.String("dsn", os.Getenv("DATABASE_URL"), "Postgres DSN (default: env DATABASE_URL)")
	userID      = flag.String("user", "", "Owner user_id for every imported row (required)")
	dryRun      = flag.Bool("dry-run", false, "Parse + validate only; no DB writes")
	confirm     = flag.Bool("confirm", false, "Required to perform the import")
	advisoryKey = flag.Int64("advisory-lock", 0, "Optional Postgres advisory lock key (e.g., 424242). 0 = disabled")
)

// CSV contract
// date,amount,type,name,merchant_name,description,source_category
// date is YYYY-MM-DD; amount is a positive decimal; type is debit or credit
// (blank type defaults to debit); merchant_name, description and
// source_category may be blank

type TxnCSV struct {
	Date           time.Time
	Amount         decimal.Decimal
	Type           string
	Name           string
	MerchantName   string
	Description    string
	SourceCategory string
}

func main() {
	_ = godotenv.Load(".env.local")
	flag.Parse()
	if *csvPath == "" {
		fatalf("--csv is required")
	}
	if *userID == "" {
		fatalf("--user is required")
	}
	if *dsn == "" {
		fatalf("--dsn not provided and DATABASE_URL not set")
	}

	rows, err := loadCSV(*csvPath)
	if err != nil {
		fatalf("CSV error: %v", err)
	}

	p := message.NewPrinter(language.English)
	p.Printf("Loaded %d transactions from %s\n", len(rows), *csvPath)

	if *dryRun {
		printPlan(p, rows)
		fmt.Println("Dry run complete. No changes made.")
		return
	}

	if !*confirm {
		fatalf("Refusing to run without --confirm. Add --dry-run to preview.")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	db, err := sql.Open("pgx", *dsn)
	if err != nil {
		fatalf("connect: %v", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		fatalf("ping: %v", err)
	}

	tx, err := db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		fatalf("begin tx: %v", err)
	}
	defer func() {
		_ = tx.Rollback() // no-op if already committed
	}()

	// Optional advisory lock to avoid concurrent imports for the same user
	if *advisoryKey != 0 {
		if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, *advisoryKey); err != nil {
			fatalf("advisory lock: %v", err)
		}
	}

	before, err := countTxns(ctx, tx, *userID)
	if err != nil {
		fatalf("pre-count: %v", err)
	}
	p.Printf("Before: %d transactions for user %s\n", before, *userID)

	inserted, skipped, err := insertAll(ctx, tx, rows, *userID)
	if err != nil {
		fatalf("insert data: %v", err)
	}

	after, err := countTxns(ctx, tx, *userID)
	if err != nil {
		fatalf("post-count: %v", err)
	}
	p.Printf("After: %d transactions (inserted %d, skipped %d duplicates)\n", after, inserted, skipped)

	// sanity: after = before + inserted
	if after != before+inserted {
		fatalf("sanity check failed: before=%d inserted=%d after=%d", before, inserted, after)
	}

	if err := tx.Commit(); err != nil {
		fatalf("commit: %v", err)
	}
	fmt.Println("Import complete ✅")
}

func loadCSV(path string) ([]TxnCSV, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	br := bufio.NewReader(f)
	r := csv.NewReader(br)
	r.TrimLeadingSpace = true

	headers, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(headers) > 0 {
		headers[0] = strings.TrimPrefix(headers[0], "\uFEFF")
	}

	idx := map[string]int{}
	for i, h := range headers {
		idx[strings.TrimSpace(h)] = i
	}
	required := []string{"date", "amount", "name"}
	for _, k := range required {
		if _, ok := idx[k]; !ok {
			return nil, fmt.Errorf("missing required column: %s", k)
		}
	}

	get := func(rec []string, name string) string {
		i, ok := idx[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var out []TxnCSV
	line := 1
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv read: %w", err)
		}
		line++

		day, err := time.Parse("2006-01-02", get(rec, "date"))
		if err != nil {
			return nil, fmt.Errorf("row %d: bad date %q", line, get(rec, "date"))
		}

		amount, err := decimal.NewFromString(get(rec, "amount"))
		if err != nil || !amount.IsPositive() {
			return nil, fmt.Errorf("row %d: amount must be a positive decimal (got %q)", line, get(rec, "amount"))
		}

		txnType := get(rec, "type")
		if txnType == "" {
			txnType = "debit"
		}
		if txnType != "debit" && txnType != "credit" {
			return nil, fmt.Errorf("row %d: type must be debit or credit (got %q)", line, txnType)
		}

		name := get(rec, "name")
		if name == "" {
			return nil, fmt.Errorf("row %d: name is empty", line)
		}

		out = append(out, TxnCSV{
			Date:           day,
			Amount:         amount,
			Type:           txnType,
			Name:           name,
			MerchantName:   get(rec, "merchant_name"),
			Description:    get(rec, "description"),
			SourceCategory: get(rec, "source_category"),
		})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("CSV has no data rows")
	}
	return out, nil
}

func printPlan(p *message.Printer, rows []TxnCSV) {
	total := decimal.Zero
	bySource := map[string]int{}
	for _, r := range rows {
		total = total.Add(r.Amount)
		if r.SourceCategory != "" {
			bySource[r.SourceCategory]++
		}
	}
	fmt.Println("Plan preview:")
	p.Printf("  Transactions to insert: %d\n", len(rows))
	p.Printf("  Total amount: %s\n", total.StringFixed(2))
	p.Printf("  Rows carrying a source category: %d across %d categories\n",
		len(rows)-countWithout(rows), len(bySource))
}

func countWithout(rows []TxnCSV) int {
	n := 0
	for _, r := range rows {
		if r.SourceCategory == "" {
			n++
		}
	}
	return n
}

func countTxns(ctx context.Context, tx *sql.Tx, user string) (int64, error) {
	var n int64
	err := tx.QueryRowContext(ctx, `SELECT count(*) FROM transactions WHERE user_id = $1`, user).Scan(&n)
	return n, err
}

func insertAll(ctx context.Context, tx *sql.Tx, rows []TxnCSV, user string) (inserted, skipped int64, err error) {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO transactions
			(id, user_id, amount, transaction_type, date, name, merchant_name,
			 description, source_category_id, business_use_pct, created_at, updated_at)
		SELECT $1,$2,$3,$4,$5,$6,$7,$8,$9,100,now(),now()
		WHERE NOT EXISTS (
			SELECT 1 FROM transactions
			WHERE user_id = $2 AND date = $5 AND amount = $3 AND name = $6
		)`)
	if err != nil {
		return 0, 0, err
	}
	defer stmt.Close()

	for i, r := range rows {
		var src *string
		if r.SourceCategory != "" {
			src = &r.SourceCategory
		}
		res, err := stmt.ExecContext(ctx, uuid.New(), user, r.Amount.StringFixed(2),
			r.Type, r.Date, r.Name, r.MerchantName, r.Description, src)
		if err != nil {
			return inserted, skipped, fmt.Errorf("insert row %d ('%s'): %w", i+2, r.Name, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return inserted, skipped, err
		}
		if n == 0 {
			skipped++
			continue
		}
		inserted += n
	}
	return inserted, skipped, nil
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
