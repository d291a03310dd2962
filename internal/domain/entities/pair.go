package entities

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Pair is a snapshot of a constant-product pool's reserves
type Pair struct {
	Address   common.Address `json:"address"`
	Token0    Token          `json:"token0"`
	Token1    Token          `json:"token1"`
	Reserve0  *big.Int       `json:"reserve0"`
	Reserve1  *big.Int       `json:"reserve1"`
	Protocol  ProtocolType   `json:"protocol"`
	Fee       uint64         `json:"fee"` // Fee in basis points (e.g., 30 = 0.3%)
	UpdatedAt int64          `json:"updatedAt"`
}

func (p *Pair) reservesFor(tokenIn common.Address) (reserveIn, reserveOut *big.Int) {
	if tokenIn == p.Token0.Address {
		return p.Reserve0, p.Reserve1
	}
	return p.Reserve1, p.Reserve0
}

// GetAmountOut returns the output for amountIn of tokenIn, or zero when the
// pool cannot serve the trade.
func (p *Pair) GetAmountOut(amountIn *big.Int, tokenIn common.Address) *big.Int {
	if amountIn == nil || amountIn.Sign() <= 0 {
		return big.NewInt(0)
	}

	reserveIn, reserveOut := p.reservesFor(tokenIn)
	if reserveIn == nil || reserveOut == nil || reserveIn.Sign() == 0 || reserveOut.Sign() == 0 {
		return big.NewInt(0)
	}

	// Apply fee (e.g., 0.3% fee means multiply by 9970/10000)
	feeMultiplier := big.NewInt(10000 - int64(p.Fee))
	amountInWithFee := new(big.Int).Mul(amountIn, feeMultiplier)

	// numerator = amountInWithFee * reserveOut
	numerator := new(big.Int).Mul(amountInWithFee, reserveOut)

	// denominator = reserveIn * 10000 + amountInWithFee
	denominator := new(big.Int).Mul(reserveIn, big.NewInt(10000))
	denominator.Add(denominator, amountInWithFee)

	return new(big.Int).Div(numerator, denominator)
}

// GetAmountIn returns the input of tokenIn required to receive amountOut, or
// zero when the pool cannot serve the trade. The result is rounded up.
func (p *Pair) GetAmountIn(amountOut *big.Int, tokenIn common.Address) *big.Int {
	if amountOut == nil || amountOut.Sign() <= 0 {
		return big.NewInt(0)
	}

	reserveIn, reserveOut := p.reservesFor(tokenIn)
	if reserveIn == nil || reserveOut == nil || reserveIn.Sign() == 0 || amountOut.Cmp(reserveOut) >= 0 {
		return big.NewInt(0)
	}

	// numerator = reserveIn * amountOut * 10000
	numerator := new(big.Int).Mul(reserveIn, amountOut)
	numerator.Mul(numerator, big.NewInt(10000))

	// denominator = (reserveOut - amountOut) * (10000 - fee)
	denominator := new(big.Int).Sub(reserveOut, amountOut)
	denominator.Mul(denominator, big.NewInt(10000-int64(p.Fee)))

	amountIn := new(big.Int).Div(numerator, denominator)
	return amountIn.Add(amountIn, big.NewInt(1))
}
