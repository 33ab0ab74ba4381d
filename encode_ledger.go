package codexi

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/etnz/codexi/date"
	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// operationRecord is the flat form of an Operation shared by the codecs.
// Kind and Flow are pointers to tell a missing field from a zero value.
type operationRecord struct {
	Date        date.Date       `json:"date" yaml:"date"`
	Kind        *Kind           `json:"kind" yaml:"kind"`
	Flow        *Flow           `json:"flow" yaml:"flow"`
	Amount      decimal.Decimal `json:"amount" yaml:"amount"`
	Description string          `json:"description" yaml:"description"`
}

func (o Operation) record() operationRecord {
	return operationRecord{
		Date:        o.date,
		Kind:        &o.kind,
		Flow:        &o.flow,
		Amount:      o.amount,
		Description: o.description,
	}
}

func (r operationRecord) operation() (Operation, error) {
	switch {
	case r.Date.IsZero():
		return Operation{}, fmt.Errorf("%w: missing date", ErrInvalidDate)
	case r.Kind == nil:
		return Operation{}, fmt.Errorf("%w: missing kind", ErrUnrecognized)
	case r.Flow == nil:
		return Operation{}, fmt.Errorf("%w: missing flow", ErrUnrecognized)
	}
	return newOperation(*r.Kind, *r.Flow, r.Date, r.Amount, r.Description)
}

// MarshalJSON writes the operation with its keys in canonical order.
func (o Operation) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("date", o.date)
	w.Append("kind", o.kind)
	w.Append("flow", o.flow)
	w.Append("amount", o.amount)
	w.Optional("description", o.description)
	return w.MarshalJSON()
}

func (o *Operation) UnmarshalJSON(data []byte) error {
	var temp operationRecord
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	op, err := temp.operation()
	if err != nil {
		return err
	}
	*o = op
	return nil
}

// EncodeOperation marshals a single operation to JSON and writes it to the
// writer, followed by a newline, in JSONL format.
func EncodeOperation(w io.Writer, op Operation) error {
	data, err := json.Marshal(op)
	if err != nil {
		return fmt.Errorf("failed to marshal operation: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write operation: %w", err)
	}
	return nil
}

// EncodeOperations writes operations in JSONL format, in the given order.
func EncodeOperations(w io.Writer, ops []Operation) error {
	for _, op := range ops {
		if err := EncodeOperation(w, op); err != nil {
			return err
		}
	}
	return nil
}

// EncodeLedger persists the ledger operations to an io.Writer in JSONL format.
func EncodeLedger(w io.Writer, ledger *Ledger) error {
	return EncodeOperations(w, ledger.operations)
}

// DecodeOperations reads a stream of JSONL operations, in the stream order.
// Lines have no length limit.
func DecodeOperations(r io.Reader) ([]Operation, error) {
	var ops []Operation
	br := bufio.NewReader(r)
	for line := 1; ; line++ {
		data, err := br.ReadBytes('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("error reading operations: %w", err)
		}
		if data = bytes.TrimSpace(data); len(data) > 0 {
			var op Operation
			if err := json.Unmarshal(data, &op); err != nil {
				return nil, fmt.Errorf("could not decode operation on line %d %q: %w", line, truncated(data), err)
			}
			ops = append(ops, op)
		}
		if err != nil {
			return ops, nil
		}
	}
}

// truncated shortens a line quoted in an error message.
func truncated(data []byte) string {
	const limit = 80
	if len(data) <= limit {
		return string(data)
	}
	return string(data[:limit]) + "..."
}

// DecodeLedger decodes operations from a stream of JSONL data and returns a
// Ledger sorted by date. Operations on the same day keep their stream order.
func DecodeLedger(r io.Reader) (*Ledger, error) {
	ops, err := DecodeOperations(r)
	if err != nil {
		return nil, err
	}
	return newSortedLedger(ops), nil
}

// newSortedLedger builds a ledger from operations in any order.
func newSortedLedger(ops []Operation) *Ledger {
	ledger := NewLedger()
	ledger.operations = append(ledger.operations, ops...)
	sort.SliceStable(ledger.operations, func(i, j int) bool {
		return ledger.operations[i].date.Before(ledger.operations[j].date)
	})
	return ledger
}
