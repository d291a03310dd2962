// Package addressbook lists the canonical factory and router deployments of
// the supported AMM protocols per chain.
package addressbook

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/bimakw/amm-sdk/internal/domain/entities"
)

// Deployment holds the contract addresses of one protocol on one chain.
// Router is the zero address when the protocol has no V2-style router.
type Deployment struct {
	Factory common.Address `yaml:"factory" json:"factory"`
	Router  common.Address `yaml:"router" json:"router"`
}

func (d Deployment) HasRouter() bool {
	return d.Router != (common.Address{})
}

type key struct {
	chain    entities.Chain
	protocol entities.ProtocolType
}

// Book maps (chain, protocol) to deployments and chains to their wrapped
// native token. A Book is read-only once built.
type Book struct {
	deployments map[key]Deployment
	wrappers    map[entities.Chain]common.Address
}

func New() *Book {
	return &Book{
		deployments: make(map[key]Deployment),
		wrappers:    make(map[entities.Chain]common.Address),
	}
}

// Add registers a deployment, replacing any previous entry
func (b *Book) Add(chain entities.Chain, protocol entities.ProtocolType, d Deployment) *Book {
	b.deployments[key{chain, protocol}] = d
	return b
}

// AddNativeWrapper registers the wrapped native token of a chain
func (b *Book) AddNativeWrapper(chain entities.Chain, wrapper common.Address) *Book {
	b.wrappers[chain] = wrapper
	return b
}

// Lookup returns the deployment of protocol on chain
func (b *Book) Lookup(chain entities.Chain, protocol entities.ProtocolType) (Deployment, bool) {
	d, ok := b.deployments[key{chain, protocol}]
	return d, ok
}

// NativeWrapper returns the wrapped native token (WETH, WBNB) of chain
func (b *Book) NativeWrapper(chain entities.Chain) (common.Address, bool) {
	w, ok := b.wrappers[chain]
	return w, ok
}

var defaultBook = New().
	Add(entities.ChainMainnet, entities.ProtocolUniswapV2, Deployment{
		Factory: common.HexToAddress("0x5C69bEe701ef814a2B6a3EDD4B1652CB9cc5aA6f"),
		Router:  common.HexToAddress("0x7a250d5630B4cF539739dF2C5dAcb4c659F2488D"),
	}).
	Add(entities.ChainGoerli, entities.ProtocolUniswapV2, Deployment{
		Factory: common.HexToAddress("0x5C69bEe701ef814a2B6a3EDD4B1652CB9cc5aA6f"),
		Router:  common.HexToAddress("0x7a250d5630B4cF539739dF2C5dAcb4c659F2488D"),
	}).
	Add(entities.ChainBase, entities.ProtocolUniswapV2, Deployment{
		Factory: common.HexToAddress("0x8909Dc15e40173Ff4699343b6eB8132c65e18eC6"),
		Router:  common.HexToAddress("0x4752ba5DBc23f44D87826276BF6Fd6b1C372aD24"),
	}).
	Add(entities.ChainMainnet, entities.ProtocolSushiswap, Deployment{
		Factory: common.HexToAddress("0xC0AEe478e3658e2610c5F7A4A2E1777cE9e4f2Ac"),
		Router:  common.HexToAddress("0xd9e1cE17f2641f24aE83637ab66a2cca9C378B9F"),
	}).
	Add(entities.ChainBSC, entities.ProtocolPancakeswapV2, Deployment{
		Factory: common.HexToAddress("0xcA143Ce32Fe78f1f7019d7d551a6402fC5350c73"),
		Router:  common.HexToAddress("0x10ED43C718714eb63d5aA57B78B54704E256024E"),
	}).
	Add(entities.ChainMainnet, entities.ProtocolUniswapV3, Deployment{
		Factory: common.HexToAddress("0x1F98431c8aD98523631AE4a59f267346ea31F984"),
	}).
	AddNativeWrapper(entities.ChainMainnet, entities.WETH.Address).
	AddNativeWrapper(entities.ChainGoerli, common.HexToAddress("0xB4FBF271143F4FBf7B91A5ded31805e42b2208d6")).
	AddNativeWrapper(entities.ChainBase, common.HexToAddress("0x4200000000000000000000000000000000000006")).
	AddNativeWrapper(entities.ChainBSC, common.HexToAddress("0xbb4CdB9CBd36B01bD1cBaEBF2De08d9173bc095c"))

// Clone returns a copy of the book that can be extended independently
func (b *Book) Clone() *Book {
	cp := New()
	for k, d := range b.deployments {
		cp.deployments[k] = d
	}
	for c, w := range b.wrappers {
		cp.wrappers[c] = w
	}
	return cp
}

// Default returns the built-in book of well-known deployments
func Default() *Book {
	return defaultBook
}
