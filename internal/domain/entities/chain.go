package entities

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// Chain is an EIP-155 chain id
type Chain uint64

const (
	ChainMainnet  Chain = 1
	ChainGoerli   Chain = 5
	ChainOptimism Chain = 10
	ChainBSC      Chain = 56
	ChainPolygon  Chain = 137
	ChainGanache  Chain = 1337
	ChainBase     Chain = 8453
	ChainArbitrum Chain = 42161
	ChainSepolia  Chain = 11155111
)

var chainNames = map[Chain]string{
	ChainMainnet:  "mainnet",
	ChainGoerli:   "goerli",
	ChainOptimism: "optimism",
	ChainBSC:      "bsc",
	ChainPolygon:  "polygon",
	ChainGanache:  "ganache",
	ChainBase:     "base",
	ChainArbitrum: "arbitrum",
	ChainSepolia:  "sepolia",
}

func (c Chain) String() string {
	if name, ok := chainNames[c]; ok {
		return name
	}
	return strconv.FormatUint(uint64(c), 10)
}

// ID returns the chain id as a big integer, as used in transactions
func (c Chain) ID() *big.Int {
	return new(big.Int).SetUint64(uint64(c))
}

// ChainFromID converts a chain id reported by an RPC node
func ChainFromID(id *big.Int) Chain {
	if id == nil || !id.IsUint64() {
		return 0
	}
	return Chain(id.Uint64())
}

// ParseChain accepts either a known chain name or a decimal chain id
func ParseChain(s string) (Chain, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for c, name := range chainNames {
		if name == s {
			return c, nil
		}
	}
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("unknown chain %q", s)
	}
	return Chain(id), nil
}
