package codexi

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/etnz/codexi/date"
	"github.com/shopspring/decimal"
)

// bounds parses the from and to flexible dates. Zero dates stand for "no bound".
func bounds(from, to string) (start, end date.Date, err error) {
	if from != "" {
		if start, err = date.ParseFrom(from); err != nil {
			return start, end, fmt.Errorf("invalid from date: %w", err)
		}
	}
	if to != "" {
		if end, err = date.ParseTo(to); err != nil {
			return start, end, fmt.Errorf("invalid to date: %w", err)
		}
	}
	return start, end, nil
}

func inBounds(on, start, end date.Date) bool {
	if !start.IsZero() && on.Before(start) {
		return false
	}
	if !end.IsZero() && on.After(end) {
		return false
	}
	return true
}

// Balance computes the credit, debit and total of the operations matching the filter.
//
// An invalid From or To is an error. An invalid Day or Year matches nothing and
// returns a zero balance, while an invalid Month is ignored.
func (l *Ledger) Balance(filter BalanceFilter) (Balance, error) {
	start, end, err := bounds(filter.From, filter.To)
	if err != nil {
		return Balance{}, err
	}
	zero := Balance{Credit: decimal.Zero, Debit: decimal.Zero, Total: decimal.Zero}

	var day date.Date
	if filter.Day != "" {
		if day, err = date.Parse(filter.Day); err != nil {
			return zero, nil
		}
	}
	var (
		byMonth bool
		year    int
		month   int
	)
	if filter.Month != "" {
		if y, m, err := date.ParseYearMonth(filter.Month); err == nil {
			byMonth, year, month = true, y, int(m)
		}
	}
	var (
		byYear bool
		onYear int
	)
	if filter.Year != "" {
		if onYear, err = strconv.Atoi(filter.Year); err != nil {
			return zero, nil
		}
		byYear = true
	}

	credit, debit := decimal.Zero, decimal.Zero
	for _, op := range l.operations {
		switch {
		case !inBounds(op.date, start, end):
			continue
		case !day.IsZero() && op.date != day:
			continue
		case byMonth && (op.date.Year() != year || int(op.date.Month()) != month):
			continue
		case byYear && op.date.Year() != onYear:
			continue
		}
		switch op.flow {
		case Credit:
			credit = credit.Add(op.amount)
		case Debit:
			debit = debit.Add(op.amount)
		case None:
		default:
			panic(fmt.Sprintf("unknown flow %d", int(op.flow)))
		}
	}
	total := credit.Sub(debit)
	return Balance{Credit: credit.Round(2), Debit: debit.Round(2), Total: total.Round(2)}, nil
}

// RunningBalances returns the balance after each operation, in ledger order.
func (l *Ledger) RunningBalances() []decimal.Decimal {
	balances := make([]decimal.Decimal, len(l.operations))
	running := decimal.Zero
	for i, op := range l.operations {
		running = running.Add(op.Signed())
		balances[i] = running
	}
	return balances
}

// Search returns the operations matching the query, with their index in the
// ledger and the running balance after them.
//
// An invalid From or To is an error. An unknown Kind or Flow, or an invalid
// Day, matches nothing.
func (l *Ledger) Search(q SearchQuery) ([]SearchItem, error) {
	start, end, err := bounds(q.From, q.To)
	if err != nil {
		return nil, err
	}
	var (
		flow    Flow
		kind    Kind
		day     date.Date
		byFlow  = q.Flow != ""
		byKind  = q.Kind != ""
		needle  = strings.ToLower(q.Text)
		balance = l.RunningBalances()
	)
	if byFlow {
		if flow, err = ParseFlow(q.Flow); err != nil {
			return nil, nil
		}
	}
	if byKind {
		if kind, err = ParseKind(q.Kind); err != nil {
			return nil, nil
		}
	}
	if q.Day != "" {
		if day, err = date.Parse(q.Day); err != nil {
			return nil, nil
		}
	}

	var matched []SearchItem
	for i, op := range l.operations {
		switch {
		case !inBounds(op.date, start, end):
			continue
		case needle != "" && !strings.Contains(strings.ToLower(op.description), needle):
			continue
		case byFlow && op.flow != flow:
			continue
		case byKind && op.kind != kind:
			continue
		case !day.IsZero() && op.date != day:
			continue
		case q.AmountMin.Valid && op.amount.LessThan(q.AmountMin.Decimal):
			continue
		case q.AmountMax.Valid && op.amount.GreaterThan(q.AmountMax.Decimal):
			continue
		}
		matched = append(matched, SearchItem{Index: i, Operation: op, Balance: balance[i]})
	}
	if q.Latest != nil && len(matched) > max(*q.Latest, 0) {
		matched = matched[len(matched)-max(*q.Latest, 0):]
	}
	return matched, nil
}

// Resume counts the transactions and anchors of the ledger, with their latest date.
func (l *Ledger) Resume() Resume {
	r := Resume{
		LatestTransaction: NoDate,
		LatestInit:        NoDate,
		LatestAdjust:      NoDate,
		LatestClose:       NoDate,
	}
	for _, op := range l.operations {
		switch op.kind {
		case Regular(Transaction):
			r.Transactions++
			r.LatestTransaction = op.date.String()
		case System(Init):
			r.Inits++
			r.LatestInit = op.date.String()
		case System(Adjust):
			r.Adjusts++
			r.LatestAdjust = op.date.String()
		case System(Close):
			r.Closes++
			r.LatestClose = op.date.String()
		case Regular(Fee), Regular(Transfer), Regular(Refund):
		default:
			panic(fmt.Sprintf("unknown kind %v", op.kind))
		}
	}
	r.Balance = l.CurrentBalance().Round(2)
	r.Operations = r.Transactions + r.Inits + r.Adjusts + r.Closes
	return r
}
