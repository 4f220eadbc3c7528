package source

import "github.com/mbh206/aifinacker/internal/model"

// DiscoveredFile is one CSV export found during scanning.
type DiscoveredFile struct {
	Path string
	Name string
}

// Options controls how raw rows become expense records.
type Options struct {
	// BaseCurrency is the account currency every amount is normalized to.
	BaseCurrency string

	// Rates maps foreign currency code -> units of base currency per one
	// unit of the foreign currency. Rows in a currency with no rate are
	// counted as row errors.
	Rates map[string]float64

	// AccountID is stamped on every imported record.
	AccountID string
}

// ParseResult holds the output of parsing a single export file.
type ParseResult struct {
	Expenses  []model.ExpenseRecord
	RowErrors int // malformed rows skipped
	Credits   int // negative-amount rows skipped (income, refunds)
	Err       error
}

// LoadResult holds the combined output of an import run.
type LoadResult struct {
	Expenses    []model.ExpenseRecord
	TotalFiles  int
	ParsedFiles int
	FileErrors  int
	RowErrors   int
	Credits     int
}

// ProgressFunc is called during loading to report progress.
type ProgressFunc func(current, total int)
