package source

import (
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

// writeExport creates a temp CSV file and returns a DiscoveredFile for it.
func writeExport(t *testing.T, lines ...string) DiscoveredFile {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "export.csv")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	return DiscoveredFile{Path: path, Name: "export.csv"}
}

func TestParseFile_Basic(t *testing.T) {
	df := writeExport(t,
		"Date,Amount,Category,Description,Tags",
		"2024-06-01,42.50,Food,Lunch,work; team",
		"2024-06-02,120.00,Transport,Monthly pass,",
	)

	result := ParseFile(df, Options{BaseCurrency: "USD", AccountID: "acct-1"})
	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	if len(result.Expenses) != 2 {
		t.Fatalf("Expenses = %d, want 2", len(result.Expenses))
	}

	e := result.Expenses[0]
	if e.ID == "" {
		t.Error("expected a generated record ID")
	}
	if e.AccountID != "acct-1" {
		t.Errorf("AccountID = %q, want acct-1", e.AccountID)
	}
	if e.Amount != 42.50 {
		t.Errorf("Amount = %v, want 42.50", e.Amount)
	}
	if e.Category != "Food" {
		t.Errorf("Category = %q, want Food", e.Category)
	}
	if !e.Date.Equal(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Date = %v, want 2024-06-01", e.Date)
	}
	if len(e.Tags) != 2 || e.Tags[0] != "work" || e.Tags[1] != "team" {
		t.Errorf("Tags = %v, want [work team]", e.Tags)
	}
}

func TestParseFile_HeaderAliases(t *testing.T) {
	df := writeExport(t,
		"DATE,AMOUNT,Memo,Sub Category",
		"2024-06-01,10.00,Coffee,Cafes",
	)

	result := ParseFile(df, Options{BaseCurrency: "USD"})
	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	if len(result.Expenses) != 1 {
		t.Fatalf("Expenses = %d, want 1", len(result.Expenses))
	}
	if result.Expenses[0].Description != "Coffee" {
		t.Errorf("Description = %q, want Coffee (via memo alias)", result.Expenses[0].Description)
	}
	if result.Expenses[0].Subcategory != "Cafes" {
		t.Errorf("Subcategory = %q, want Cafes", result.Expenses[0].Subcategory)
	}
}

func TestParseFile_CurrencyConversion(t *testing.T) {
	df := writeExport(t,
		"Date,Amount,Currency,Category",
		"2024-06-01,100.00,EUR,Travel",
		"2024-06-02,50.00,USD,Food",
		"2024-06-03,10.00,XYZ,Food",
	)

	opts := Options{
		BaseCurrency: "USD",
		Rates:        map[string]float64{"EUR": 1.10},
	}
	result := ParseFile(df, opts)
	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	if len(result.Expenses) != 2 {
		t.Fatalf("Expenses = %d, want 2 (unknown currency skipped)", len(result.Expenses))
	}
	if result.RowErrors != 1 {
		t.Errorf("RowErrors = %d, want 1 (missing XYZ rate)", result.RowErrors)
	}

	eur := result.Expenses[0]
	if eur.Amount != 110.0 {
		t.Errorf("converted Amount = %v, want 110.0", eur.Amount)
	}
	if eur.OriginalAmount != 100.0 || eur.OriginalCurrency != "EUR" || eur.ExchangeRate != 1.10 {
		t.Errorf("original triple = (%v, %q, %v), want (100, EUR, 1.10)",
			eur.OriginalAmount, eur.OriginalCurrency, eur.ExchangeRate)
	}

	usd := result.Expenses[1]
	if usd.OriginalCurrency != "" || usd.Amount != 50.0 {
		t.Errorf("base-currency row should not carry an original triple, got %+v", usd)
	}
}

func TestParseFile_CreditsSkipped(t *testing.T) {
	df := writeExport(t,
		"Date,Amount,Category",
		"2024-06-01,100.00,Food",
		"2024-06-02,-45.00,Refunds",
	)

	result := ParseFile(df, Options{BaseCurrency: "USD"})
	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	if len(result.Expenses) != 1 {
		t.Errorf("Expenses = %d, want 1", len(result.Expenses))
	}
	if result.Credits != 1 {
		t.Errorf("Credits = %d, want 1", result.Credits)
	}
	if result.RowErrors != 0 {
		t.Errorf("RowErrors = %d, want 0", result.RowErrors)
	}
}

func TestParseFile_MalformedRows(t *testing.T) {
	df := writeExport(t,
		"Date,Amount,Category",
		"not-a-date,10.00,Food",
		"2024-06-01,not-a-number,Food",
		"2024-06-02,25.00,Food",
	)

	result := ParseFile(df, Options{BaseCurrency: "USD"})
	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	if result.RowErrors != 2 {
		t.Errorf("RowErrors = %d, want 2", result.RowErrors)
	}
	if len(result.Expenses) != 1 {
		t.Errorf("Expenses = %d, want 1", len(result.Expenses))
	}
}

func TestParseFile_DateLayouts(t *testing.T) {
	df := writeExport(t,
		"Date,Amount",
		"2024-06-01,1.00",
		"2024-06-02T15:04:05Z,2.00",
		"06/03/2024,3.00",
		"2024/06/04,4.00",
	)

	result := ParseFile(df, Options{BaseCurrency: "USD"})
	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	if len(result.Expenses) != 4 {
		t.Fatalf("Expenses = %d, want 4", len(result.Expenses))
	}
	for i, wantDay := range []int{1, 2, 3, 4} {
		if got := result.Expenses[i].Date.Day(); got != wantDay {
			t.Errorf("row %d day = %d, want %d", i, got, wantDay)
		}
	}
}

func TestParseFile_MissingColumns(t *testing.T) {
	df := writeExport(t,
		"Description,Amount",
		"Lunch,10.00",
	)

	result := ParseFile(df, Options{BaseCurrency: "USD"})
	if result.Err == nil {
		t.Fatal("expected error for missing date column")
	}
	if !strings.Contains(result.Err.Error(), "date") {
		t.Errorf("error %q should name the missing column", result.Err)
	}
}

func TestParseFile_UncategorizedDefault(t *testing.T) {
	df := writeExport(t,
		"Date,Amount,Category",
		"2024-06-01,10.00,",
	)

	result := ParseFile(df, Options{BaseCurrency: "USD"})
	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	if got := result.Expenses[0].Category; got != "Uncategorized" {
		t.Errorf("Category = %q, want Uncategorized", got)
	}
}

func TestParseFile_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.csv")
	if err := os.WriteFile(path, nil, 0o600); err != nil {
		t.Fatal(err)
	}

	result := ParseFile(DiscoveredFile{Path: path, Name: "empty.csv"}, Options{BaseCurrency: "USD"})
	if result.Err != nil {
		t.Fatalf("unexpected error on empty file: %v", result.Err)
	}
	if len(result.Expenses) != 0 {
		t.Error("expected no expenses for empty file")
	}
}

func TestLoad_MultipleFiles(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"a.csv":      "Date,Amount,Category\n2024-06-01,10.00,Food\n",
		"sub/b.csv":  "Date,Amount,Category\n2024-06-02,20.00,Transport\n-bad-row-\n",
		"notes.txt":  "ignored\n",
		"sub/c.json": "ignored\n",
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	var calls atomic.Int64
	result, err := Load(dir, Options{BaseCurrency: "USD"}, func(current, total int) {
		calls.Add(1)
		if total != 2 {
			t.Errorf("progress total = %d, want 2", total)
		}
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.TotalFiles != 2 {
		t.Errorf("TotalFiles = %d, want 2 (non-CSV skipped)", result.TotalFiles)
	}
	if result.ParsedFiles != 2 {
		t.Errorf("ParsedFiles = %d, want 2", result.ParsedFiles)
	}
	if len(result.Expenses) != 2 {
		t.Errorf("Expenses = %d, want 2", len(result.Expenses))
	}
	if result.RowErrors != 1 {
		t.Errorf("RowErrors = %d, want 1", result.RowErrors)
	}
	if calls.Load() != 2 {
		t.Errorf("progress calls = %d, want 2", calls.Load())
	}
}

func TestLoad_EmptyDir(t *testing.T) {
	result, err := Load(t.TempDir(), Options{BaseCurrency: "USD"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.TotalFiles != 0 || len(result.Expenses) != 0 {
		t.Errorf("expected empty result, got %+v", result)
	}
}
