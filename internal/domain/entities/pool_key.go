package entities

import (
	"bytes"

	"github.com/ethereum/go-ethereum/common"
)

// PoolKey identifies a pool by its unordered token pair and, for fee-tiered
// protocols, its fee in hundredths of a bip.
type PoolKey struct {
	TokenA common.Address
	TokenB common.Address
	Fee    *uint32
}

func NewPoolKey(tokenA, tokenB common.Address) PoolKey {
	return PoolKey{TokenA: tokenA, TokenB: tokenB}
}

func NewFeePoolKey(tokenA, tokenB common.Address, fee uint32) PoolKey {
	return PoolKey{TokenA: tokenA, TokenB: tokenB, Fee: &fee}
}

// Sorted returns the tokens in canonical (ascending byte) order
func (k PoolKey) Sorted() (token0, token1 common.Address) {
	return SortTokens(k.TokenA, k.TokenB)
}

func (k PoolKey) HasFee() bool {
	return k.Fee != nil
}

// SortTokens sorts two addresses in ascending byte order (Uniswap convention)
func SortTokens(tokenA, tokenB common.Address) (common.Address, common.Address) {
	if bytes.Compare(tokenA.Bytes(), tokenB.Bytes()) < 0 {
		return tokenA, tokenB
	}
	return tokenB, tokenA
}
