// Package amm builds calls against Uniswap V2/V3-style AMM deployments.
//
// A Protocol ties one Factory to one Router over a shared chain client.
// Builders return unsent calls; pool addresses are derived offline with
// CREATE2, and the only network access is the quote taken before a swap.
package amm

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/bimakw/amm-sdk/internal/domain/entities"
	"github.com/bimakw/amm-sdk/internal/infrastructure/addressbook"
	"github.com/bimakw/amm-sdk/internal/infrastructure/contract"
)

// Protocol is a factory and router of one deployment
type Protocol struct {
	client  contract.Caller
	factory *Factory
	router  *Router
	book    *addressbook.Book
}

// Option configures a Protocol at construction
type Option func(*Protocol)

// UseQuoter quotes swaps through q instead of the router
func UseQuoter(q Quoter) Option {
	return func(p *Protocol) {
		p.router = p.router.WithQuoter(q)
	}
}

// UseCodeHash derives pools with hash instead of the built-in table
func UseCodeHash(hash common.Hash) Option {
	return func(p *Protocol) {
		p.factory = p.factory.WithCodeHash(hash)
	}
}

// UseChain sets the chain used for code hash and native wrapper lookups
func UseChain(chain entities.Chain) Option {
	return func(p *Protocol) {
		p.factory.SetChain(chain)
	}
}

// UseAddressBook resolves native wrappers from book
func UseAddressBook(book *addressbook.Book) Option {
	return func(p *Protocol) {
		p.book = book
	}
}

// New binds the factory and router of a deployment
func New(client contract.Caller, factory, router common.Address, protocol entities.ProtocolType, opts ...Option) *Protocol {
	p := &Protocol{
		client:  client,
		factory: NewFactory(client, factory, protocol),
		router:  NewRouter(client, router),
		book:    addressbook.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewWithChain looks the deployment up in the default address book. It
// returns false when the book lists no factory and router for the pair.
func NewWithChain(client contract.Caller, chain entities.Chain, protocol entities.ProtocolType, opts ...Option) (*Protocol, bool) {
	return NewWithAddressBook(addressbook.Default(), client, chain, protocol, opts...)
}

// NewWithAddressBook is NewWithChain with a caller-supplied book
func NewWithAddressBook(book *addressbook.Book, client contract.Caller, chain entities.Chain, protocol entities.ProtocolType, opts ...Option) (*Protocol, bool) {
	d, ok := book.Lookup(chain, protocol)
	if !ok || !d.HasRouter() {
		return nil, false
	}
	opts = append([]Option{UseChain(chain), UseAddressBook(book)}, opts...)
	return New(client, d.Factory, d.Router, protocol, opts...), true
}

func (p *Protocol) Client() contract.Caller { return p.client }
func (p *Protocol) Factory() *Factory { return p.factory }
func (p *Protocol) Router() *Router { return p.router }
func (p *Protocol) Type() entities.ProtocolType { return p.factory.Protocol() }

func (p *Protocol) Chain() (entities.Chain, bool) {
	return p.factory.Chain()
}

// SetChain has the same single-writer contract as Factory.SetChain
func (p *Protocol) SetChain(chain entities.Chain) {
	p.factory.SetChain(chain)
}

// WithQuoter returns a copy of the protocol whose router quotes through q.
// The copy shares the factory.
func (p *Protocol) WithQuoter(q Quoter) *Protocol {
	cp := *p
	cp.router = p.router.WithQuoter(q)
	return &cp
}

func (p *Protocol) PairCodeHash(chain *entities.Chain) common.Hash {
	return p.factory.PairCodeHash(chain)
}

func (p *Protocol) CreatePair(tokenA, tokenB common.Address) (*contract.Call[common.Address], error) {
	return p.factory.CreatePair(tokenA, tokenB)
}

func (p *Protocol) PairFor(tokenA, tokenB common.Address) *Pair {
	return p.factory.PairFor(tokenA, tokenB)
}

func (p *Protocol) AddLiquidity(params AddLiquidityParams) (*contract.Call[AddLiquidityResult], error) {
	return p.router.AddLiquidity(params)
}

func (p *Protocol) RemoveLiquidity(params RemoveLiquidityParams) (*contract.Call[RemoveLiquidityResult], error) {
	return p.router.RemoveLiquidity(params)
}

// NativeWrapper returns the wrapped native token of the configured chain
func (p *Protocol) NativeWrapper() (common.Address, bool) {
	chain, ok := p.Chain()
	if !ok || p.book == nil {
		return common.Address{}, false
	}
	return p.book.NativeWrapper(chain)
}

// Swap quotes and builds a swap call. An unset NativeWrapper is filled from
// the address book for the configured chain.
func (p *Protocol) Swap(ctx context.Context, params SwapParams) (*contract.Call[[]*big.Int], error) {
	plan, err := p.PrepareSwap(ctx, params)
	if err != nil {
		return nil, err
	}
	return plan.Call, nil
}

func (p *Protocol) PrepareSwap(ctx context.Context, params SwapParams) (*SwapPlan, error) {
	if params.NativeWrapper == (common.Address{}) {
		if w, ok := p.NativeWrapper(); ok {
			params.NativeWrapper = w
		}
	}
	return p.router.PrepareSwap(ctx, p.factory, params)
}
