package entities

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// SwapPath is the ordered list of tokens a swap hops through
type SwapPath []common.Address

func (p SwapPath) First() common.Address {
	if len(p) == 0 {
		return common.Address{}
	}
	return p[0]
}

func (p SwapPath) Last() common.Address {
	if len(p) == 0 {
		return common.Address{}
	}
	return p[len(p)-1]
}

// Hops returns the consecutive (tokenIn, tokenOut) pairs of the path
func (p SwapPath) Hops() [][2]common.Address {
	if len(p) < 2 {
		return nil
	}
	hops := make([][2]common.Address, 0, len(p)-1)
	for i := 0; i+1 < len(p); i++ {
		hops = append(hops, [2]common.Address{p[i], p[i+1]})
	}
	return hops
}

// Addresses returns the path as a plain address slice for ABI packing
func (p SwapPath) Addresses() []common.Address {
	return append([]common.Address(nil), p...)
}

func (p SwapPath) String() string {
	parts := make([]string, len(p))
	for i, a := range p {
		parts[i] = a.Hex()
	}
	return strings.Join(parts, ">")
}
