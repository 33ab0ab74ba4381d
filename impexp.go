package codexi

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// this file contains functions to handle the import/export formats.
// Both formats carry every field of every operation and are sorted by date on import.

// csvHeader is the first row of the tabular format.
var csvHeader = []string{"date", "kind", "flow", "amount", "description"}

const (
	// CSVFile is the default file name of the tabular export.
	CSVFile = "codexi.csv"
	// YAMLFile is the default file name of the structured export.
	YAMLFile = "codexi.yaml"
)

// ExportCSV writes the ledger operations as CSV rows: date, kind, flow, amount, description.
func ExportCSV(w io.Writer, ledger *Ledger) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("could not write csv header: %w", err)
	}
	for _, op := range ledger.operations {
		kind, _ := op.kind.MarshalText()
		flow, _ := op.flow.MarshalText()
		row := []string{op.date.String(), string(kind), string(flow), op.amount.String(), op.description}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("could not write csv row for %v: %w", op, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ImportCSV reads a ledger written by ExportCSV. Every row is validated as a new operation.
func ImportCSV(r io.Reader) (*Ledger, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(csvHeader)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return NewLedger(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not read csv header: %w", err)
	}
	for i, h := range header {
		if !strings.EqualFold(strings.TrimSpace(h), csvHeader[i]) {
			return nil, fmt.Errorf("unexpected csv column %d %q, want %q", i+1, h, csvHeader[i])
		}
	}

	var ops []Operation
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("could not read csv: %w", err)
		}
		line, _ := cr.FieldPos(0)
		op, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("invalid operation on line %d: %w", line, err)
		}
		ops = append(ops, op)
	}
	return newSortedLedger(ops), nil
}

func parseRow(row []string) (Operation, error) {
	kind, err := ParseKind(row[1])
	if err != nil {
		return Operation{}, err
	}
	flow, err := ParseFlow(row[2])
	if err != nil {
		return Operation{}, err
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(row[3]))
	if err != nil {
		return Operation{}, fmt.Errorf("%w %q: %w", ErrInvalidAmount, row[3], err)
	}
	return NewOperation(kind, flow, row[0], amount, row[4])
}

// yamlDocument is the structured export format.
type yamlDocument struct {
	Operations []operationRecord `yaml:"operations"`
}

// ExportYAML writes the ledger as a YAML document with a list of operations.
func ExportYAML(w io.Writer, ledger *Ledger) error {
	doc := yamlDocument{Operations: make([]operationRecord, 0, len(ledger.operations))}
	for _, op := range ledger.operations {
		doc.Operations = append(doc.Operations, op.record())
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("could not encode yaml: %w", err)
	}
	return enc.Close()
}

// ImportYAML reads a ledger written by ExportYAML.
func ImportYAML(r io.Reader) (*Ledger, error) {
	var doc yamlDocument
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("could not decode yaml: %w", err)
	}
	ops := make([]Operation, 0, len(doc.Operations))
	for i, rec := range doc.Operations {
		op, err := rec.operation()
		if err != nil {
			return nil, fmt.Errorf("invalid operation #%d: %w", i, err)
		}
		ops = append(ops, op)
	}
	return newSortedLedger(ops), nil
}
