package codexi

import (
	"errors"
	"slices"
	"testing"
)

func TestParseFlow(t *testing.T) {
	testCases := []struct {
		in      string
		want    Flow
		wantErr bool
	}{
		{"credit", Credit, false},
		{"CR", Credit, false},
		{"Debit", Debit, false},
		{"db", Debit, false},
		{"none", None, false},
		{"no", None, false},
		{"withdraw", None, true},
		{"", None, true},
	}
	for _, tc := range testCases {
		got, err := ParseFlow(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseFlow(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseFlow(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestUnrecognizedError(t *testing.T) {
	_, err := ParseFlow("sideways")
	if !errors.Is(err, ErrUnrecognized) {
		t.Fatalf("ParseFlow(sideways) error = %v, want ErrUnrecognized", err)
	}
	var uerr *UnrecognizedError
	if !errors.As(err, &uerr) {
		t.Fatalf("ParseFlow(sideways) error = %T, want *UnrecognizedError", err)
	}
	if uerr.Value != "sideways" || uerr.Type != "flow" {
		t.Errorf("UnrecognizedError = %+v, want flow %q", uerr, "sideways")
	}
}

func TestFlowSign(t *testing.T) {
	testCases := []struct {
		flow     Flow
		sign     int
		opposite Flow
	}{
		{Credit, 1, Debit},
		{Debit, -1, Credit},
		{None, 0, None},
	}
	for _, tc := range testCases {
		if got := tc.flow.Sign(); got != tc.sign {
			t.Errorf("%v.Sign() = %d, want %d", tc.flow, got, tc.sign)
		}
		if got := tc.flow.Opposite(); got != tc.opposite {
			t.Errorf("%v.Opposite() = %v, want %v", tc.flow, got, tc.opposite)
		}
	}

	fromSign := []struct {
		in   string
		want Flow
	}{
		{"12.5", Credit},
		{"-0.01", Debit},
		{"0", None},
	}
	for _, tc := range fromSign {
		if got := FlowFromSign(dec(tc.in)); got != tc.want {
			t.Errorf("FlowFromSign(%s) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestParseKind(t *testing.T) {
	testCases := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"init", System(Init), false},
		{"Initialize", System(Init), false},
		{"ADJUST", System(Adjust), false},
		{"close", System(Close), false},
		{"transaction", Regular(Transaction), false},
		{"trans", Regular(Transaction), false},
		{"fee", Regular(Fee), false},
		{"Transfer", Regular(Transfer), false},
		{"refund", Regular(Refund), false},
		{"System::Close", System(Close), false},
		{"regular::fee", Regular(Fee), false},
		{"Regular::Close", Kind{}, true},
		{"payment", Kind{}, true},
	}
	for _, tc := range testCases {
		got, err := ParseKind(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseKind(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseKind(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestKindOrder(t *testing.T) {
	sorted := slices.IsSortedFunc(Kinds, func(a, b Kind) int { return a.Compare(b) })
	if !sorted {
		t.Errorf("Kinds is not in kind order: %v", Kinds)
	}
	for _, k := range Kinds {
		// every kind can be parsed back from its name and its display string.
		for _, text := range []string{k.Name(), k.String()} {
			got, err := ParseKind(text)
			if err != nil || got != k {
				t.Errorf("ParseKind(%q) = %v, %v, want %v", text, got, err, k)
			}
		}
	}
	if System(Close).Compare(Regular(Transaction)) >= 0 {
		t.Errorf("System kinds must sort before Regular kinds")
	}
}

func TestKindDeconstruct(t *testing.T) {
	if sk, ok := System(Adjust).System(); !ok || sk != Adjust {
		t.Errorf("System(Adjust).System() = %v, %v", sk, ok)
	}
	if _, ok := System(Adjust).Regular(); ok {
		t.Errorf("System(Adjust).Regular() should not be ok")
	}
	if rk, ok := Regular(Refund).Regular(); !ok || rk != Refund {
		t.Errorf("Regular(Refund).Regular() = %v, %v", rk, ok)
	}
	if got, want := Regular(Fee).String(), "Regular::Fee"; got != want {
		t.Errorf("Regular(Fee).String() = %q, want %q", got, want)
	}
	if got, want := System(Init).String(), "System::Initialize"; got != want {
		t.Errorf("System(Init).String() = %q, want %q", got, want)
	}
}

func TestNewOperation(t *testing.T) {
	op, err := NewOperation(Regular(Fee), Debit, "2025-03-01", dec("2.50"), "   ")
	if err != nil {
		t.Fatalf("NewOperation() unexpected error: %v", err)
	}
	if op.Description() != NoDescription {
		t.Errorf("Description() = %q, want %q", op.Description(), NoDescription)
	}
	if got := op.Signed(); !got.Equal(dec("-2.5")) {
		t.Errorf("Signed() = %v, want -2.5", got)
	}

	if _, err := NewOperation(Regular(Fee), Debit, "2025-02-30", dec("2.50"), ""); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("NewOperation(2025-02-30) error = %v, want ErrInvalidDate", err)
	}
	if _, err := NewOperation(Regular(Fee), Debit, "2025-03-01", dec("-2.50"), ""); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("NewOperation(-2.50) error = %v, want ErrInvalidAmount", err)
	}
}
