// Package store provides SQLite-backed persistence for expense and budget records.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mbh206/aifinacker/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

// Store is the record database. The analytics engine never touches it;
// callers load full snapshots and hand them to the engine.
type Store struct {
	db *sql.DB
}

// Open opens or creates the records database at the given path.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening records db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveExpense inserts or replaces one expense record.
func (s *Store) SaveExpense(e model.ExpenseRecord) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO expenses
		(id, account_id, amount, original_amount, original_currency, exchange_rate,
		 category, subcategory, date, description, tags, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.AccountID, e.Amount, e.OriginalAmount, e.OriginalCurrency, e.ExchangeRate,
		e.Category, e.Subcategory, e.Date.UTC().Format(time.RFC3339),
		e.Description, strings.Join(e.Tags, ","), time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// SaveExpenses inserts a batch of expenses in one transaction.
func (s *Store) SaveExpenses(expenses []model.ExpenseRecord) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO expenses
		(id, account_id, amount, original_amount, original_currency, exchange_rate,
		 category, subcategory, date, description, tags, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, e := range expenses {
		if _, err := stmt.Exec(
			e.ID, e.AccountID, e.Amount, e.OriginalAmount, e.OriginalCurrency, e.ExchangeRate,
			e.Category, e.Subcategory, e.Date.UTC().Format(time.RFC3339),
			e.Description, strings.Join(e.Tags, ","), now,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// ListExpenses returns all expenses, oldest first.
func (s *Store) ListExpenses() ([]model.ExpenseRecord, error) {
	rows, err := s.db.Query(`SELECT
		id, account_id, amount, original_amount, original_currency, exchange_rate,
		category, subcategory, date, description, tags
		FROM expenses ORDER BY date`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var expenses []model.ExpenseRecord
	for rows.Next() {
		var e model.ExpenseRecord
		var origAmount, origRate sql.NullFloat64
		var origCurrency, subcategory, description, tags sql.NullString
		var dateStr string

		err := rows.Scan(
			&e.ID, &e.AccountID, &e.Amount, &origAmount, &origCurrency, &origRate,
			&e.Category, &subcategory, &dateStr, &description, &tags,
		)
		if err != nil {
			return nil, err
		}

		e.OriginalAmount = origAmount.Float64
		e.OriginalCurrency = origCurrency.String
		e.ExchangeRate = origRate.Float64
		e.Subcategory = subcategory.String
		e.Description = description.String
		if tags.Valid && tags.String != "" {
			e.Tags = strings.Split(tags.String, ",")
		}
		e.Date, _ = time.Parse(time.RFC3339, dateStr)

		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

// DeleteExpense removes one expense by ID.
func (s *Store) DeleteExpense(id string) error {
	_, err := s.db.Exec("DELETE FROM expenses WHERE id = ?", id)
	return err
}

// SaveBudget inserts or replaces one budget record.
func (s *Store) SaveBudget(b model.BudgetRecord) error {
	isActive := 0
	if b.IsActive {
		isActive = 1
	}

	_, err := s.db.Exec(`INSERT OR REPLACE INTO budgets
		(id, account_id, name, category, amount, start_date, end_date, notes, is_active, recurring, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.AccountID, b.Name, b.Category, b.Amount,
		b.StartDate.UTC().Format(time.RFC3339), b.EndDate.UTC().Format(time.RFC3339),
		b.Notes, isActive, string(b.Recurring), time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// ListBudgets returns all budgets, earliest start first.
func (s *Store) ListBudgets() ([]model.BudgetRecord, error) {
	rows, err := s.db.Query(`SELECT
		id, account_id, name, category, amount, start_date, end_date, notes, is_active, recurring
		FROM budgets ORDER BY start_date`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var budgets []model.BudgetRecord
	for rows.Next() {
		var b model.BudgetRecord
		var notes, recurring sql.NullString
		var startStr, endStr string
		var isActive int

		err := rows.Scan(
			&b.ID, &b.AccountID, &b.Name, &b.Category, &b.Amount,
			&startStr, &endStr, &notes, &isActive, &recurring,
		)
		if err != nil {
			return nil, err
		}

		b.Notes = notes.String
		b.IsActive = isActive != 0
		b.Recurring = model.RecurringPeriod(recurring.String)
		b.StartDate, _ = time.Parse(time.RFC3339, startStr)
		b.EndDate, _ = time.Parse(time.RFC3339, endStr)

		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}

// DeleteBudget removes one budget by ID.
func (s *Store) DeleteBudget(id string) error {
	_, err := s.db.Exec("DELETE FROM budgets WHERE id = ?", id)
	return err
}

// Counts returns the number of stored expenses and budgets.
func (s *Store) Counts() (expenses, budgets int, err error) {
	if err = s.db.QueryRow("SELECT COUNT(*) FROM expenses").Scan(&expenses); err != nil {
		return 0, 0, err
	}
	if err = s.db.QueryRow("SELECT COUNT(*) FROM budgets").Scan(&budgets); err != nil {
		return 0, 0, err
	}
	return expenses, budgets, nil
}

// Revision is a cheap change marker: the max created_at across both tables
// plus row counts. The daemon uses it to skip recomputing analytics when
// nothing changed.
func (s *Store) Revision() (string, error) {
	var maxExpense, maxBudget sql.NullString
	if err := s.db.QueryRow("SELECT MAX(created_at) FROM expenses").Scan(&maxExpense); err != nil {
		return "", err
	}
	if err := s.db.QueryRow("SELECT MAX(created_at) FROM budgets").Scan(&maxBudget); err != nil {
		return "", err
	}
	e, b, err := s.Counts()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s|%s|%d|%d", maxExpense.String, maxBudget.String, e, b), nil
}
