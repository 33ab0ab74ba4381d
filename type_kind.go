package codexi

import (
	"fmt"
	"strings"
)

// SystemKind enumerates the anchors: operations that fix or re-fix the balance.
type SystemKind int

const (
	Init SystemKind = iota
	Adjust
	Close
)

func (k SystemKind) String() string {
	switch k {
	case Init:
		return "Initialize"
	case Adjust:
		return "Adjust"
	case Close:
		return "Close"
	default:
		panic(fmt.Sprintf("unknown system kind %d", int(k)))
	}
}

// ParseSystemKind parses a system kind name, case-insensitive: init|initialize, adjust, close.
func ParseSystemKind(s string) (SystemKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "init", "initialize":
		return Init, nil
	case "adjust":
		return Adjust, nil
	case "close":
		return Close, nil
	default:
		return Init, unrecognized("system kind", s)
	}
}

// RegularKind enumerates ordinary movements.
type RegularKind int

const (
	Transaction RegularKind = iota
	Fee
	Transfer
	Refund
)

func (k RegularKind) String() string {
	switch k {
	case Transaction:
		return "Transaction"
	case Fee:
		return "Fee"
	case Transfer:
		return "Transfer"
	case Refund:
		return "Refund"
	default:
		panic(fmt.Sprintf("unknown regular kind %d", int(k)))
	}
}

// ParseRegularKind parses a regular kind name, case-insensitive: transaction|trans, fee, transfer, refund.
func ParseRegularKind(s string) (RegularKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "transaction", "trans":
		return Transaction, nil
	case "fee":
		return Fee, nil
	case "transfer":
		return Transfer, nil
	case "refund":
		return Refund, nil
	default:
		return Transaction, unrecognized("regular kind", s)
	}
}

// Kind classifies an operation. It is either a System kind or a Regular kind.
//
// Kinds are totally ordered: every System kind comes before every Regular
// kind, and each group follows its declaration order.
// Kind values can only be built with System and Regular.
type Kind struct{ v int }

// numSystemKinds is the offset of regular kinds in the Kind order.
const numSystemKinds = 3

// Kinds lists every kind in order.
var Kinds = []Kind{
	System(Init), System(Adjust), System(Close),
	Regular(Transaction), Regular(Fee), Regular(Transfer), Regular(Refund),
}

// System returns the Kind of a system operation.
func System(k SystemKind) Kind { return Kind{int(k)} }

// Regular returns the Kind of a regular operation.
func Regular(k RegularKind) Kind { return Kind{numSystemKinds + int(k)} }

// System returns the system kind, and true, if k is a System kind.
func (k Kind) System() (SystemKind, bool) {
	if k.v < numSystemKinds {
		return SystemKind(k.v), true
	}
	return 0, false
}

// Regular returns the regular kind, and true, if k is a Regular kind.
func (k Kind) Regular() (RegularKind, bool) {
	if k.v >= numSystemKinds {
		return RegularKind(k.v - numSystemKinds), true
	}
	return 0, false
}

// IsSystem reports whether k is an anchor kind.
func (k Kind) IsSystem() bool { _, ok := k.System(); return ok }

// Compare returns -1, 0 or +1 depending on whether k is before, equal to or after x in the kind order.
func (k Kind) Compare(x Kind) int { return cmpInt(k.v, x.v) }

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// String returns the qualified display name, e.g. "System::Initialize" or "Regular::Fee".
func (k Kind) String() string {
	if s, ok := k.System(); ok {
		return "System::" + s.String()
	}
	r, _ := k.Regular()
	return "Regular::" + r.String()
}

// Name returns the short lowercase name of the kind, as accepted by ParseKind.
func (k Kind) Name() string {
	switch k {
	case System(Init):
		return "init"
	case System(Adjust):
		return "adjust"
	case System(Close):
		return "close"
	case Regular(Transaction):
		return "transaction"
	case Regular(Fee):
		return "fee"
	case Regular(Transfer):
		return "transfer"
	case Regular(Refund):
		return "refund"
	default:
		panic(fmt.Sprintf("unknown kind %d", k.v))
	}
}

// ParseKind parses any system or regular kind name, case-insensitive. The name can
// be qualified as "System::<name>" or "Regular::<name>".
func ParseKind(s string) (Kind, error) {
	name := strings.TrimSpace(s)
	group, sub, qualified := strings.Cut(name, "::")
	if qualified {
		switch strings.ToLower(group) {
		case "system":
			sk, err := ParseSystemKind(sub)
			if err != nil {
				return Kind{}, unrecognized("kind", s)
			}
			return System(sk), nil
		case "regular":
			rk, err := ParseRegularKind(sub)
			if err != nil {
				return Kind{}, unrecognized("kind", s)
			}
			return Regular(rk), nil
		default:
			return Kind{}, unrecognized("kind", s)
		}
	}
	if sk, err := ParseSystemKind(name); err == nil {
		return System(sk), nil
	}
	if rk, err := ParseRegularKind(name); err == nil {
		return Regular(rk), nil
	}
	return Kind{}, unrecognized("kind", s)
}

func (k Kind) MarshalText() ([]byte, error) { return []byte(k.Name()), nil }

func (k *Kind) UnmarshalText(text []byte) error {
	v, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = v
	return nil
}
