package amm

import (
	"fmt"
	"math"
	"math/big"
)

var bigOne = big.NewRat(1, 1)

// toleranceRat returns the exact value of a tolerance in [0, 1)
func toleranceRat(tolerance float64) (*big.Rat, error) {
	if math.IsNaN(tolerance) || tolerance < 0 || tolerance >= 1 {
		return nil, fmt.Errorf("%w: %v not in [0, 1)", ErrInvalidSlippage, tolerance)
	}
	return new(big.Rat).SetFloat64(tolerance), nil
}

// MinimumOut returns floor(expected * (1 - tolerance)), the smallest output
// an exact-in swap accepts.
func MinimumOut(expected *big.Int, tolerance float64) (*big.Int, error) {
	s, err := toleranceRat(tolerance)
	if err != nil {
		return nil, err
	}
	r := new(big.Rat).Sub(bigOne, s)
	r.Mul(r, new(big.Rat).SetInt(expected))
	// operands are non-negative, so truncation is the floor
	return new(big.Int).Quo(r.Num(), r.Denom()), nil
}

// MaximumIn returns ceil(expected * (1 + tolerance)), the largest input an
// exact-out swap spends.
func MaximumIn(expected *big.Int, tolerance float64) (*big.Int, error) {
	s, err := toleranceRat(tolerance)
	if err != nil {
		return nil, err
	}
	r := new(big.Rat).Add(bigOne, s)
	r.Mul(r, new(big.Rat).SetInt(expected))
	q, m := new(big.Int).QuoRem(r.Num(), r.Denom(), new(big.Int))
	if m.Sign() > 0 {
		q.Add(q, big.NewInt(1))
	}
	return q, nil
}
