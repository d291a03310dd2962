package amm

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/bimakw/amm-sdk/internal/domain/entities"
)

var (
	uniswapV2CodeHash     = common.HexToHash("0x96e8ac4277198ff8b6f785478aa9a39f403cb768dd02cbee326c3e7da348845f")
	sushiswapCodeHash     = common.HexToHash("0xe18a34eb0e04b04f7a0ac29a6e80748dca96319b42c54d679cb821dca90c6303")
	pancakeswapV2CodeHash = common.HexToHash("0x00fb7f630766e6a796048ea87d01acd3068e8ff67d078148a3fa3f4a84f69bd5")
	uniswapV3CodeHash     = common.HexToHash("0xe34f199b19b2b4f47f68442619d555527d244f78a3297ea89325f843f87b8b54")
)

// codeHashes holds the pool init code hash of each protocol per chain where
// it is known to be deployed.
var codeHashes = map[entities.ProtocolType]map[entities.Chain]common.Hash{
	entities.ProtocolUniswapV2: {
		entities.ChainMainnet: uniswapV2CodeHash,
		entities.ChainGoerli:  uniswapV2CodeHash,
		entities.ChainBase:    uniswapV2CodeHash,
	},
	entities.ProtocolSushiswap: {
		entities.ChainMainnet:  sushiswapCodeHash,
		entities.ChainPolygon:  sushiswapCodeHash,
		entities.ChainArbitrum: sushiswapCodeHash,
	},
	entities.ProtocolPancakeswapV2: {
		entities.ChainBSC: pancakeswapV2CodeHash,
	},
	entities.ProtocolUniswapV3: {
		entities.ChainMainnet:  uniswapV3CodeHash,
		entities.ChainGoerli:   uniswapV3CodeHash,
		entities.ChainOptimism: uniswapV3CodeHash,
		entities.ChainPolygon:  uniswapV3CodeHash,
		entities.ChainArbitrum: uniswapV3CodeHash,
	},
}

// fallbackCodeHashes are used when the chain is unset or not in codeHashes.
// A pool derived with a fallback hash is not guaranteed to exist.
var fallbackCodeHashes = map[entities.ProtocolType]common.Hash{
	entities.ProtocolUniswapV2:     uniswapV2CodeHash,
	entities.ProtocolSushiswap:     sushiswapCodeHash,
	entities.ProtocolPancakeswapV2: pancakeswapV2CodeHash,
	entities.ProtocolUniswapV3:     uniswapV3CodeHash,
}

// CodeHash returns the pool init code hash of protocol on chain. The second
// result is false when the protocol fallback was used.
func CodeHash(protocol entities.ProtocolType, chain *entities.Chain) (common.Hash, bool) {
	if chain != nil {
		if h, ok := codeHashes[protocol][*chain]; ok {
			return h, true
		}
	}
	return fallbackCodeHashes[protocol], false
}
