package codexi

import (
	"fmt"
	"strings"

	"github.com/etnz/codexi/date"
	"github.com/shopspring/decimal"
)

// NoDescription replaces an empty operation description.
const NoDescription = "no description"

// Operation is a dated monetary movement in the ledger.
//
// The amount is always a non-negative magnitude, the sign is carried by the flow.
// An Operation is immutable once created.
type Operation struct {
	kind        Kind
	flow        Flow
	date        date.Date
	amount      decimal.Decimal
	description string
}

// NewOperation validates and creates an operation. The day must be a YYYY-MM-DD date.
func NewOperation(kind Kind, flow Flow, day string, amount decimal.Decimal, description string) (Operation, error) {
	on, err := date.Parse(strings.TrimSpace(day))
	if err != nil {
		return Operation{}, err
	}
	return newOperation(kind, flow, on, amount, description)
}

func newOperation(kind Kind, flow Flow, on date.Date, amount decimal.Decimal, description string) (Operation, error) {
	if amount.IsNegative() {
		return Operation{}, fmt.Errorf("%w %s: amounts are unsigned, use the flow to carry the sign", ErrInvalidAmount, amount)
	}
	description = strings.TrimSpace(description)
	if description == "" {
		description = NoDescription
	}
	return Operation{
		kind:        kind,
		flow:        flow,
		date:        on,
		amount:      amount,
		description: description,
	}, nil
}

// Kind returns the kind of operation.
func (o Operation) Kind() Kind { return o.kind }

// Flow returns the direction of the operation.
func (o Operation) Flow() Flow { return o.flow }

// When returns the date of the operation.
func (o Operation) When() date.Date { return o.date }

// Amount returns the unsigned amount.
func (o Operation) Amount() decimal.Decimal { return o.amount }

// Description returns the (never empty) description.
func (o Operation) Description() string { return o.description }

// Signed returns the amount with the sign of the flow.
func (o Operation) Signed() decimal.Decimal {
	return o.amount.Mul(decimal.NewFromInt(int64(o.flow.Sign())))
}

// Equal reports whether both operations have the same fields.
func (o Operation) Equal(x Operation) bool {
	return o.kind == x.kind &&
		o.flow == x.flow &&
		o.date == x.date &&
		o.amount.Equal(x.amount) &&
		o.description == x.description
}

func (o Operation) String() string {
	return fmt.Sprintf("%s | %s | %s | %s | %s", o.date, o.kind, o.flow, o.amount.StringFixed(2), o.description)
}
