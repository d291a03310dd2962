package entities

import (
	"fmt"
	"math/big"
	"strings"
)

// AmountKind tells which side of a swap the caller fixes
type AmountKind uint8

const (
	// AmountExactIn fixes the input quantity and bounds the minimum output
	AmountExactIn AmountKind = iota
	// AmountExactOut fixes the output quantity and bounds the maximum input
	AmountExactOut
)

func (k AmountKind) String() string {
	switch k {
	case AmountExactIn:
		return "exact_in"
	case AmountExactOut:
		return "exact_out"
	default:
		return fmt.Sprintf("AmountKind(%d)", uint8(k))
	}
}

// ParseAmountKind parses "exact_in" or "exact_out"
func ParseAmountKind(s string) (AmountKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "exact_in", "in", "":
		return AmountExactIn, nil
	case "exact_out", "out":
		return AmountExactOut, nil
	}
	return 0, fmt.Errorf("unknown amount kind %q", s)
}

// Amount is a token quantity tagged with its role in a swap
type Amount struct {
	Kind  AmountKind
	Value *big.Int
}

func ExactIn(v *big.Int) Amount {
	return Amount{Kind: AmountExactIn, Value: v}
}

func ExactOut(v *big.Int) Amount {
	return Amount{Kind: AmountExactOut, Value: v}
}

func (a Amount) IsExactIn() bool {
	return a.Kind == AmountExactIn
}
