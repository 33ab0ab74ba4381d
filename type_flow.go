package codexi

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Flow is the direction of an operation: money coming in (Credit) or going out (Debit).
//
// None is a neutral value that contributes nothing to balances.
type Flow int

const (
	None Flow = iota
	Credit
	Debit
)

func (f Flow) String() string {
	switch f {
	case None:
		return "None"
	case Credit:
		return "Credit"
	case Debit:
		return "Debit"
	default:
		panic(fmt.Sprintf("unknown flow %d", int(f)))
	}
}

// ParseFlow parses a flow name, case-insensitive: credit|cr, debit|db, none|no.
func ParseFlow(s string) (Flow, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "credit", "cr":
		return Credit, nil
	case "debit", "db":
		return Debit, nil
	case "none", "no":
		return None, nil
	default:
		return None, unrecognized("flow", s)
	}
}

// Sign returns +1 for Credit, -1 for Debit and 0 for None.
func (f Flow) Sign() int {
	switch f {
	case Credit:
		return 1
	case Debit:
		return -1
	case None:
		return 0
	default:
		panic(fmt.Sprintf("unknown flow %d", int(f)))
	}
}

// Opposite returns Debit for Credit, Credit for Debit, and None for None.
func (f Flow) Opposite() Flow {
	switch f {
	case Credit:
		return Debit
	case Debit:
		return Credit
	default:
		return None
	}
}

// FlowFromSign returns the flow carrying the sign of v.
func FlowFromSign(v decimal.Decimal) Flow {
	switch v.Sign() {
	case 1:
		return Credit
	case -1:
		return Debit
	default:
		return None
	}
}

func (f Flow) MarshalText() ([]byte, error) { return []byte(strings.ToLower(f.String())), nil }

func (f *Flow) UnmarshalText(text []byte) error {
	v, err := ParseFlow(string(text))
	if err != nil {
		return err
	}
	*f = v
	return nil
}
