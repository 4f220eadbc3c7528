// Package source discovers and parses CSV expense exports for import into
// the records store.
package source

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mbh206/aifinacker/internal/model"
)

// Accepted date layouts, tried in order.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"01/02/2006",
	"2006/01/02",
}

// Recognized header names per field. Matching is case-insensitive and
// ignores spaces, so "Original Currency" and "original_currency" both work.
var headerAliases = map[string]string{
	"date":        "date",
	"amount":      "amount",
	"currency":    "currency",
	"category":    "category",
	"subcategory": "subcategory",
	"description": "description",
	"memo":        "description",
	"payee":       "description",
	"tags":        "tags",
	"account":     "account",
}

// ParseFile reads one CSV export and produces expense records. Rows with an
// unparsable date or amount are counted and skipped; negative amounts are
// treated as credits and skipped separately. Foreign-currency rows are
// converted with opts.Rates and keep the original amount/currency/rate.
func ParseFile(df DiscoveredFile, opts Options) ParseResult {
	f, err := os.Open(df.Path)
	if err != nil {
		return ParseResult{Err: err}
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // tolerate ragged rows, validated per field below
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		if err == io.EOF {
			return ParseResult{}
		}
		return ParseResult{Err: err}
	}

	cols := mapHeader(header)
	if _, ok := cols["date"]; !ok {
		return ParseResult{Err: errMissingColumn("date", df.Name)}
	}
	if _, ok := cols["amount"]; !ok {
		return ParseResult{Err: errMissingColumn("amount", df.Name)}
	}

	var result ParseResult
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.RowErrors++
			continue
		}

		field := func(name string) string {
			idx, ok := cols[name]
			if !ok || idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}

		date, ok := parseDate(field("date"))
		if !ok {
			result.RowErrors++
			continue
		}

		amount, err := strconv.ParseFloat(strings.ReplaceAll(field("amount"), ",", ""), 64)
		if err != nil {
			result.RowErrors++
			continue
		}
		if amount < 0 {
			result.Credits++
			continue
		}

		e := model.ExpenseRecord{
			ID:          uuid.NewString(),
			AccountID:   opts.AccountID,
			Amount:      amount,
			Category:    field("category"),
			Subcategory: field("subcategory"),
			Date:        date,
			Description: field("description"),
		}
		if e.Category == "" {
			e.Category = "Uncategorized"
		}
		if tags := field("tags"); tags != "" {
			e.Tags = strings.Split(tags, ";")
			for i := range e.Tags {
				e.Tags[i] = strings.TrimSpace(e.Tags[i])
			}
		}

		// Currency normalization happens at import; the analytics engine
		// only ever sees base-currency amounts.
		currency := strings.ToUpper(field("currency"))
		if currency != "" && currency != opts.BaseCurrency {
			rate, ok := opts.Rates[currency]
			if !ok || rate <= 0 {
				result.RowErrors++
				continue
			}
			e.OriginalAmount = amount
			e.OriginalCurrency = currency
			e.ExchangeRate = rate
			e.Amount = amount * rate
		}

		result.Expenses = append(result.Expenses, e)
	}

	return result
}

func mapHeader(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(h), " ", ""))
		if name, ok := headerAliases[key]; ok {
			if _, taken := cols[name]; !taken {
				cols[name] = i
			}
		}
	}
	return cols
}

func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func errMissingColumn(column, file string) error {
	return fmt.Errorf("%s: missing required column %q", file, column)
}
