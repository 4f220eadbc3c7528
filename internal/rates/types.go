package rates

import "time"

// Table holds exchange rates fetched for one base currency.
// Rates maps a foreign currency code to the number of base-currency
// units one unit of that currency is worth, which is the shape the
// import pipeline consumes directly.
type Table struct {
	Base      string
	Date      string
	Rates     map[string]float64
	FetchedAt time.Time
}

// latestResponse is the wire shape of a frankfurter-style /latest reply.
// Its rates run base -> foreign and get inverted into a Table.
type latestResponse struct {
	Base  string             `json:"base"`
	Date  string             `json:"date"`
	Rates map[string]float64 `json:"rates"`
}
