package codexi

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/etnz/codexi/date"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	// InitialDescription is the description of the operation created by Initialize.
	InitialDescription = "INITIAL AMOUNT"
	// carriedForwardLabel starts the description of the operation created by ClosePeriod.
	carriedForwardLabel = "CARRIED FORWARD BALANCE:"
)

// adjustTolerance is the smallest difference that Adjust records.
var adjustTolerance = decimal.RequireFromString("0.001")

// Ledger represents the ordered history of operations.
//
// In a Ledger operations are always in chronological order. A Ledger is not
// safe for concurrent use.
type Ledger struct {
	operations []Operation
	log        *zap.Logger
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{operations: make([]Operation, 0)}
}

// SetLogger replaces the logger used to report mutations. It defaults to zap.L().
func (l *Ledger) SetLogger(log *zap.Logger) { l.log = log }

func (l *Ledger) logger() *zap.Logger {
	if l.log == nil {
		return zap.L()
	}
	return l.log
}

// Len returns the number of operations.
func (l *Ledger) Len() int { return len(l.operations) }

// At returns the operation at index i.
func (l *Ledger) At(i int) Operation { return l.operations[i] }

// Operations returns a copy of the operations in chronological order.
func (l *Ledger) Operations() []Operation { return slices.Clone(l.operations) }

// latestAnchors returns the latest Close date, and the latest Init or Adjust date.
// Zero dates stand for "none".
func (l *Ledger) latestAnchors() (lastClose, lastAnchor date.Date) {
	for _, op := range l.operations {
		sk, ok := op.kind.System()
		if !ok {
			continue
		}
		switch sk {
		case Close:
			if lastClose.IsZero() || op.date.After(lastClose) {
				lastClose = op.date
			}
		case Init, Adjust:
			if lastAnchor.IsZero() || op.date.After(lastAnchor) {
				lastAnchor = op.date
			}
		default:
			panic(fmt.Sprintf("unknown system kind %d", int(sk)))
		}
	}
	return lastClose, lastAnchor
}

// Append validates and adds a new operation to the ledger.
//
// The operation cannot be dated on or before the latest closing, nor strictly
// before the latest initialization or adjustment. A Debit cannot exceed the
// current balance.
func (l *Ledger) Append(kind Kind, flow Flow, day string, amount decimal.Decimal, description string) error {
	on, err := date.Parse(strings.TrimSpace(day))
	if err != nil {
		return err
	}
	lastClose, lastAnchor := l.latestAnchors()
	if !lastClose.IsZero() && !on.After(lastClose) {
		l.logger().Error("operation dated on or before the last period closing",
			zap.Stringer("date", on), zap.Stringer("closing", lastClose))
		return fmt.Errorf("%w: operation date %s cannot be on or before the last period closing %s", ErrDateConflict, on, lastClose)
	}
	if !lastAnchor.IsZero() && on.Before(lastAnchor) {
		l.logger().Error("operation dated before the latest system anchor",
			zap.Stringer("date", on), zap.Stringer("anchor", lastAnchor))
		return fmt.Errorf("%w: operation date %s cannot be before the latest system anchor %s", ErrDateConflict, on, lastAnchor)
	}
	if flow == Debit {
		current := l.CurrentBalance()
		if amount.GreaterThan(current) {
			l.logger().Error("insufficient funds",
				zap.Stringer("balance", current), zap.Stringer("debit", amount))
			return fmt.Errorf("%w: current balance is %s but debit amount is %s", ErrInsufficientFunds, current, amount)
		}
	}

	op, err := newOperation(kind, flow, on, amount, description)
	if err != nil {
		return err
	}
	l.operations = append(l.operations, op)
	sort.SliceStable(l.operations, func(i, j int) bool {
		return l.operations[i].date.Before(l.operations[j].date)
	})
	l.logger().Info("operation added", zap.Stringer("operation", op))
	return nil
}

// Delete removes the operation at index. System operations are protected.
//
// Later operations are shifted down by one: indexes are not stable identities.
func (l *Ledger) Delete(index int) error {
	if index < 0 || index >= len(l.operations) {
		return fmt.Errorf("%w: operation #%d does not exist (ledger has %d operations)", ErrOutOfBounds, index, len(l.operations))
	}
	op := l.operations[index]
	if op.kind.IsSystem() {
		return fmt.Errorf("%w: operation #%d is a %s entry and cannot be deleted", ErrProtectedOperation, index, op.kind)
	}
	l.operations = slices.Delete(l.operations, index, index+1)
	l.logger().Info("operation removed", zap.Int("index", index), zap.Stringer("operation", op))
	return nil
}

// Initialize sets the initial amount of an empty ledger.
//
// A negative amount is recorded as an initial Debit.
func (l *Ledger) Initialize(amount decimal.Decimal, day string) error {
	if len(l.operations) > 0 {
		return fmt.Errorf("%w: it already has %d operations", ErrNotEmpty, len(l.operations))
	}
	if err := l.Append(System(Init), FlowFromSign(amount), day, amount.Abs(), InitialDescription); err != nil {
		return err
	}
	l.logger().Info("ledger initialized", zap.Stringer("amount", amount), zap.String("date", day))
	return nil
}

// Adjust records an adjustment so that the current balance matches the physical balance.
//
// Negative physical balances are ignored, and so are differences below 0.001.
func (l *Ledger) Adjust(physical decimal.Decimal, day string) error {
	if physical.IsNegative() {
		l.logger().Warn("negative physical balance not allowed, nothing adjusted", zap.Stringer("physical", physical))
		return nil
	}
	current := l.CurrentBalance()
	difference := physical.Sub(current)
	if difference.Abs().LessThan(adjustTolerance) {
		l.logger().Info("no adjustment needed",
			zap.Stringer("balance", current), zap.Stringer("physical", physical))
		return nil
	}
	flow := FlowFromSign(difference)
	amount := difference.Abs()
	description := fmt.Sprintf("ADJUSTMENT: Deviation of %s to reach physical balance %s", amount, physical)
	if err := l.Append(System(Adjust), flow, day, amount, description); err != nil {
		return err
	}
	l.logger().Warn("adjustment made", zap.Stringer("flow", flow), zap.Stringer("amount", amount))
	return nil
}

// ClosePeriod archives every operation dated on or before day and replaces
// them with a single Close operation carrying the balance forward.
//
// The archived operations are written to archives first: if that fails the
// ledger is left untouched. Closing a period with nothing to archive and no
// remaining anchor is a no-op.
func (l *Ledger) ClosePeriod(archives ArchiveWriter, day string, description ...string) error {
	on, err := date.Parse(strings.TrimSpace(day))
	if err != nil {
		return err
	}

	var archived, retained []Operation
	for _, op := range l.operations {
		if op.date.After(on) {
			retained = append(retained, op)
		} else {
			archived = append(archived, op)
		}
	}
	if len(archived) == 0 && !slices.ContainsFunc(retained, isBalanceAnchor) {
		l.logger().Info("nothing to archive", zap.Stringer("date", on))
		return nil
	}

	if len(archived) > 0 {
		if err := archives.WriteArchive(on, archived); err != nil {
			return fmt.Errorf("could not archive operations up to %s: %w", on, err)
		}
		l.logger().Info("operations archived", zap.Int("count", len(archived)), zap.Stringer("date", on))
	}

	balance := closingBalance(archived)
	amount := balance.Abs()
	label := strings.TrimSpace(fmt.Sprintf("%s %s %s", carriedForwardLabel, amount, strings.Join(description, " ")))
	closing, err := newOperation(System(Close), FlowFromSign(balance), on, amount, label)
	if err != nil {
		return err
	}
	retained = append(retained, closing)
	sort.SliceStable(retained, func(i, j int) bool {
		a, b := retained[i], retained[j]
		if c := a.date.Compare(b.date); c != 0 {
			return c < 0
		}
		return a.kind.Compare(b.kind) < 0
	})
	l.operations = retained
	l.logger().Warn("period closed: operations archived and replaced by a single Close entry", zap.Stringer("date", on))
	return nil
}

// isBalanceAnchor reports whether op sets the balance to an absolute value.
func isBalanceAnchor(op Operation) bool {
	sk, ok := op.kind.System()
	return ok && (sk == Init || sk == Close)
}

// closingBalance folds operations into the balance carried forward by a closing.
//
// Init and Close operations reset the balance to their own signed amount,
// adjustments and regular operations move it.
func closingBalance(ops []Operation) decimal.Decimal {
	balance := decimal.Zero
	for _, op := range ops {
		switch op.kind {
		case System(Init), System(Close):
			if op.flow != None {
				balance = op.Signed()
			}
		case System(Adjust), Regular(Transaction), Regular(Fee), Regular(Transfer), Regular(Refund):
			balance = balance.Add(op.Signed())
		default:
			panic(fmt.Sprintf("unknown kind %v", op.kind))
		}
	}
	return balance
}

// CurrentBalance returns the credit minus debit total of every operation in the ledger.
func (l *Ledger) CurrentBalance() decimal.Decimal {
	total := decimal.Zero
	for _, op := range l.operations {
		total = total.Add(op.Signed())
	}
	return total
}

// Validate checks the chronological order of a loaded ledger, and that
// nothing but the latest closing is dated on or before it.
// It reports every violation found.
func (l *Ledger) Validate() error {
	var errs error
	lastClose, _ := l.latestAnchors()
	for i, op := range l.operations {
		if i > 0 && op.date.Before(l.operations[i-1].date) {
			errs = errors.Join(errs, fmt.Errorf("operation #%d dated %s is out of order", i, op.date))
		}
		if lastClose.IsZero() || op.date.After(lastClose) {
			continue
		}
		if op.kind == System(Close) && op.date.Compare(lastClose) == 0 {
			continue
		}
		errs = errors.Join(errs, fmt.Errorf("%w: %s #%d dated %s is on or before the period closing %s", ErrDateConflict, op.kind.Name(), i, op.date, lastClose))
	}
	if errs != nil {
		return fmt.Errorf("invalid ledger: %w", errs)
	}
	return nil
}
