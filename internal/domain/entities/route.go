package entities

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Hop represents a single swap step in a route
type Hop struct {
	Pair     Pair           `json:"pair"`
	TokenIn  common.Address `json:"tokenIn"`
	TokenOut common.Address `json:"tokenOut"`
}

// Route is a swap path resolved to pool snapshots
type Route struct {
	Hops []Hop `json:"hops"`
}

// AmountsOut chains GetAmountOut across the hops. The result has one entry
// per token (len(Hops)+1); nil means some hop could not be served.
func (r *Route) AmountsOut(amountIn *big.Int) []*big.Int {
	if len(r.Hops) == 0 || amountIn == nil || amountIn.Sign() <= 0 {
		return nil
	}

	amounts := make([]*big.Int, len(r.Hops)+1)
	amounts[0] = new(big.Int).Set(amountIn)
	for i, hop := range r.Hops {
		amounts[i+1] = hop.Pair.GetAmountOut(amounts[i], hop.TokenIn)
		if amounts[i+1].Sign() <= 0 {
			return nil
		}
	}
	return amounts
}

// AmountsIn walks the hops backwards from the desired output
func (r *Route) AmountsIn(amountOut *big.Int) []*big.Int {
	if len(r.Hops) == 0 || amountOut == nil || amountOut.Sign() <= 0 {
		return nil
	}

	amounts := make([]*big.Int, len(r.Hops)+1)
	amounts[len(r.Hops)] = new(big.Int).Set(amountOut)
	for i := len(r.Hops) - 1; i >= 0; i-- {
		hop := r.Hops[i]
		amounts[i] = hop.Pair.GetAmountIn(amounts[i+1], hop.TokenIn)
		if amounts[i].Sign() <= 0 {
			return nil
		}
	}
	return amounts
}
