package codexi

import "github.com/shopspring/decimal"

// NoDate is displayed in a Resume for a kind that never occurred.
const NoDate = "__________"

// Balance holds the credit, debit and total of a set of operations, rounded to 2 decimals.
type Balance struct {
	Credit decimal.Decimal
	Debit  decimal.Decimal
	Total  decimal.Decimal
}

// BalanceFilter selects the operations accumulated by Ledger.Balance.
// Empty fields do not filter.
type BalanceFilter struct {
	From  string // YYYY-MM-DD, YYYY-MM or YYYY, resolved to the first day.
	To    string // YYYY-MM-DD, YYYY-MM or YYYY, resolved to the last day.
	Day   string // YYYY-MM-DD
	Month string // YYYY-MM
	Year  string // YYYY
}

// SearchQuery selects the operations returned by Ledger.Search.
// Empty fields do not filter.
type SearchQuery struct {
	From string
	To   string
	Text string // case-insensitive substring of the description
	Kind string
	Flow string
	Day  string

	// Inclusive bounds on the unsigned amount.
	AmountMin decimal.NullDecimal
	AmountMax decimal.NullDecimal

	// Latest keeps only the last N matches when set.
	Latest *int
}

// SearchItem is an operation matched by a search.
type SearchItem struct {
	Index     int // position in the ledger
	Operation Operation
	Balance   decimal.Decimal // running balance after this operation
}

// Resume summarizes the content of a ledger.
type Resume struct {
	Transactions int
	Inits        int
	Adjusts      int
	Closes       int
	Operations   int // sum of the counters above

	Balance decimal.Decimal

	LatestTransaction string
	LatestInit        string
	LatestAdjust      string
	LatestClose       string
}
