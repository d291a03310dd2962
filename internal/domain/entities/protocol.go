package entities

import (
	"fmt"
	"strings"
)

// ProtocolType identifies an AMM deployment family sharing one contract layout
type ProtocolType string

const (
	ProtocolUniswapV2     ProtocolType = "uniswap_v2"
	ProtocolSushiswap     ProtocolType = "sushiswap"
	ProtocolPancakeswapV2 ProtocolType = "pancakeswap_v2"
	ProtocolUniswapV3     ProtocolType = "uniswap_v3"
)

// IsFeeTiered reports whether pools of this protocol are keyed by a fee tier
// in addition to the token pair.
func (p ProtocolType) IsFeeTiered() bool {
	return p == ProtocolUniswapV3
}

// FeeBps returns the pool fee in basis points for fixed-fee protocols
func (p ProtocolType) FeeBps() uint64 {
	switch p {
	case ProtocolPancakeswapV2:
		return 25
	case ProtocolUniswapV2, ProtocolSushiswap:
		return 30
	default:
		return 0
	}
}

// ParseProtocolType parses a protocol name such as "uniswap_v2"
func ParseProtocolType(s string) (ProtocolType, error) {
	p := ProtocolType(strings.ToLower(strings.TrimSpace(s)))
	switch p {
	case ProtocolUniswapV2, ProtocolSushiswap, ProtocolPancakeswapV2, ProtocolUniswapV3:
		return p, nil
	}
	return "", fmt.Errorf("unknown protocol %q", s)
}
