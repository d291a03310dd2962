package amm

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/bimakw/amm-sdk/internal/domain/entities"
	"github.com/bimakw/amm-sdk/internal/infrastructure/contract"
)

// Fee tiers of fee-tiered pools, in hundredths of a bip
const (
	FeeLowest uint32 = 100
	FeeLow    uint32 = 500
	FeeMedium uint32 = 3000
	FeeHigh   uint32 = 10000
)

// FeeTiers lists the tiers enabled on the canonical V3 factory
var FeeTiers = []uint32{FeeLowest, FeeLow, FeeMedium, FeeHigh}

// MaxFee is the largest fee a uint24 argument carries
const MaxFee uint32 = 1<<24 - 1

// DefaultFeeTier is used when a fee-tiered pool is derived without a fee
const DefaultFeeTier = FeeMedium

// Factory builds calls against a pool factory and derives pool addresses
// offline with CREATE2.
//
// SetChain must not be called concurrently with other methods. Handles that
// were derived before a SetChain keep the address they were derived with.
type Factory struct {
	contract *contract.Contract
	protocol entities.ProtocolType
	chain    *entities.Chain
	codeHash *common.Hash
}

// NewFactory binds a factory deployed at address. client is shared with the
// pools derived from it and may be nil when only offline derivation is needed.
func NewFactory(client contract.Caller, address common.Address, protocol entities.ProtocolType) *Factory {
	table := contract.UniswapV2Factory
	if protocol.IsFeeTiered() {
		table = contract.UniswapV3Factory
	}
	return &Factory{
		contract: contract.New(address, table, client),
		protocol: protocol,
	}
}

func (f *Factory) Address() common.Address { return f.contract.Address() }
func (f *Factory) Protocol() entities.ProtocolType { return f.protocol }
func (f *Factory) Client() contract.Caller { return f.contract.Caller() }
func (f *Factory) Contract() *contract.Contract { return f.contract }

// Chain returns the configured chain, if any
func (f *Factory) Chain() (entities.Chain, bool) {
	if f.chain == nil {
		return 0, false
	}
	return *f.chain, true
}

func (f *Factory) SetChain(chain entities.Chain) {
	f.chain = &chain
}

// WithCodeHash returns a copy of the factory that derives every pool with
// hash, for forks and private deployments missing from the built-in table.
func (f *Factory) WithCodeHash(hash common.Hash) *Factory {
	cp := *f
	cp.codeHash = &hash
	return &cp
}

// PairCodeHash returns the pool init code hash for chain, the configured
// chain when chain is nil, or the protocol fallback.
func (f *Factory) PairCodeHash(chain *entities.Chain) common.Hash {
	h, _ := f.codeHashFor(chain)
	return h
}

// CodeHashKnown reports whether PairCodeHash(chain) comes from the table
// rather than the protocol fallback.
func (f *Factory) CodeHashKnown(chain *entities.Chain) bool {
	_, known := f.codeHashFor(chain)
	return known
}

func (f *Factory) codeHashFor(chain *entities.Chain) (common.Hash, bool) {
	if f.codeHash != nil {
		return *f.codeHash, true
	}
	if chain == nil {
		chain = f.chain
	}
	return CodeHash(f.protocol, chain)
}

// CreatePair builds an unsent createPair call. Repeated calls with the same
// tokens yield equal calls.
func (f *Factory) CreatePair(tokenA, tokenB common.Address) (*contract.Call[common.Address], error) {
	if f.protocol.IsFeeTiered() {
		return nil, fmt.Errorf("%w: %s pools need a fee tier, use CreatePool", ErrUnsupportedProtocol, f.protocol)
	}
	if tokenA == tokenB {
		return nil, ErrIdenticalAddresses
	}
	return contract.NewCall(f.contract, "createPair", contract.Address, tokenA, tokenB)
}

// CreatePool builds an unsent createPool call for a fee-tiered factory
func (f *Factory) CreatePool(tokenA, tokenB common.Address, fee uint32) (*contract.Call[common.Address], error) {
	if !f.protocol.IsFeeTiered() {
		return nil, fmt.Errorf("%w: %s has no fee tiers, use CreatePair", ErrUnsupportedProtocol, f.protocol)
	}
	if tokenA == tokenB {
		return nil, ErrIdenticalAddresses
	}
	if err := checkFee(fee); err != nil {
		return nil, err
	}
	return contract.NewCall(f.contract, "createPool", contract.Address, tokenA, tokenB, feeArg(fee))
}

// GetPair builds a getPair lookup, used to check a derived address against
// the deployed factory.
func (f *Factory) GetPair(tokenA, tokenB common.Address) (*contract.Call[common.Address], error) {
	if f.protocol.IsFeeTiered() {
		return f.GetPool(tokenA, tokenB, DefaultFeeTier)
	}
	return contract.NewCall(f.contract, "getPair", contract.Address, tokenA, tokenB)
}

// GetPool builds a getPool lookup for a fee-tiered factory
func (f *Factory) GetPool(tokenA, tokenB common.Address, fee uint32) (*contract.Call[common.Address], error) {
	if !f.protocol.IsFeeTiered() {
		return nil, fmt.Errorf("%w: %s has no fee tiers, use GetPair", ErrUnsupportedProtocol, f.protocol)
	}
	if err := checkFee(fee); err != nil {
		return nil, err
	}
	return contract.NewCall(f.contract, "getPool", contract.Address, tokenA, tokenB, feeArg(fee))
}

// AllPairsLength builds a call counting the pairs created by the factory
func (f *Factory) AllPairsLength() (*contract.Call[*big.Int], error) {
	if f.protocol.IsFeeTiered() {
		return nil, fmt.Errorf("%w: %s does not enumerate pools", ErrUnsupportedProtocol, f.protocol)
	}
	return contract.NewCall(f.contract, "allPairsLength", contract.Uint)
}

// FeeAmountTickSpacing builds a call reading the tick spacing of a fee tier;
// zero means the tier is not enabled.
func (f *Factory) FeeAmountTickSpacing(fee uint32) (*contract.Call[*big.Int], error) {
	if !f.protocol.IsFeeTiered() {
		return nil, fmt.Errorf("%w: %s has no fee tiers", ErrUnsupportedProtocol, f.protocol)
	}
	if err := checkFee(fee); err != nil {
		return nil, err
	}
	return contract.NewCall(f.contract, "feeAmountTickSpacing", contract.Uint, feeArg(fee))
}

// CheckFeeTier fails with ErrInvalidFee unless fee is enabled on the factory.
// The tiers in FeeTiers are accepted offline; any other tier is looked up
// with feeAmountTickSpacing and needs a client. Fixed-fee protocols accept
// every fee.
func (f *Factory) CheckFeeTier(ctx context.Context, fee uint32) error {
	if !f.protocol.IsFeeTiered() {
		return nil
	}
	for _, tier := range FeeTiers {
		if fee == tier {
			return nil
		}
	}
	call, err := f.FeeAmountTickSpacing(fee)
	if err != nil {
		return err
	}
	spacing, err := call.Call(ctx)
	switch {
	case errors.Is(err, contract.ErrNoCaller):
		return fmt.Errorf("%w: %d is not a standard tier", ErrInvalidFee, fee)
	case err != nil:
		return err
	case spacing.Sign() == 0:
		return fmt.Errorf("%w: %d is not enabled", ErrInvalidFee, fee)
	}
	return nil
}

// CreatedQuery builds a log filter for PairCreated or PoolCreated events
func (f *Factory) CreatedQuery(fromBlock, toBlock *big.Int) (ethereum.FilterQuery, error) {
	event := "PairCreated"
	if f.protocol.IsFeeTiered() {
		event = "PoolCreated"
	}
	return f.contract.FilterQuery(event, fromBlock, toBlock)
}

// PairFor derives the pool of two tokens without touching the network. For
// fee-tiered protocols the pool of DefaultFeeTier is returned.
func (f *Factory) PairFor(tokenA, tokenB common.Address) *Pair {
	return f.pairForKey(entities.NewPoolKey(tokenA, tokenB))
}

// PoolFor derives the pool of two tokens at a fee tier. Fixed-fee protocols
// ignore fee.
func (f *Factory) PoolFor(tokenA, tokenB common.Address, fee uint32) (*Pair, error) {
	if err := checkFee(fee); err != nil {
		return nil, err
	}
	return f.pairForKey(entities.NewFeePoolKey(tokenA, tokenB, fee)), nil
}

// PoolAddress is the CREATE2 address of the pool identified by key
func (f *Factory) PoolAddress(key entities.PoolKey) (common.Address, error) {
	if key.Fee != nil {
		if err := checkFee(*key.Fee); err != nil {
			return common.Address{}, err
		}
	}
	addr, _ := f.derive(key)
	return addr, nil
}

func (f *Factory) pairForKey(key entities.PoolKey) *Pair {
	addr, fee := f.derive(key)
	token0, token1 := key.Sorted()
	return newPair(f.contract.Caller(), addr, f.protocol, token0, token1, fee)
}

// derive computes keccak256(0xff ++ factory ++ salt ++ codeHash)[12:] where
// salt is keccak256(token0 ++ token1) for fixed-fee pools and
// keccak256(abi.encode(token0, token1, fee)) for fee-tiered pools.
func (f *Factory) derive(key entities.PoolKey) (common.Address, *uint32) {
	token0, token1 := key.Sorted()

	var (
		salt [32]byte
		fee  *uint32
	)
	if f.protocol.IsFeeTiered() {
		tier := DefaultFeeTier
		if key.Fee != nil {
			tier = *key.Fee
		}
		fee = &tier
		copy(salt[:], crypto.Keccak256(
			common.LeftPadBytes(token0.Bytes(), 32),
			common.LeftPadBytes(token1.Bytes(), 32),
			common.LeftPadBytes(new(big.Int).SetUint64(uint64(tier)).Bytes(), 32),
		))
	} else {
		copy(salt[:], crypto.Keccak256(token0.Bytes(), token1.Bytes()))
	}

	codeHash := f.PairCodeHash(nil)
	return crypto.CreateAddress2(f.Address(), salt, codeHash.Bytes()), fee
}

func checkFee(fee uint32) error {
	if fee > MaxFee {
		return fmt.Errorf("%w: %d exceeds uint24", ErrInvalidFee, fee)
	}
	return nil
}

// feeArg converts a fee tier to the value accepted by a uint24 ABI argument
func feeArg(fee uint32) *big.Int {
	return new(big.Int).SetUint64(uint64(fee))
}
