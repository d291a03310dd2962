package amm

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/bimakw/amm-sdk/internal/domain/entities"
	"github.com/bimakw/amm-sdk/internal/infrastructure/contract"
)

// Quoter returns the amounts along path for a swap. For exact-in amounts the
// first entry is the input and the last the expected output; for exact-out
// the last entry is the output and the first the required input.
type Quoter interface {
	Quote(ctx context.Context, factory *Factory, amount entities.Amount, path entities.SwapPath) ([]*big.Int, error)
}

// QuoterFunc adapts a function to the Quoter interface
type QuoterFunc func(ctx context.Context, factory *Factory, amount entities.Amount, path entities.SwapPath) ([]*big.Int, error)

func (f QuoterFunc) Quote(ctx context.Context, factory *Factory, amount entities.Amount, path entities.SwapPath) ([]*big.Int, error) {
	return f(ctx, factory, amount, path)
}

// Router builds liquidity and swap calls against a V2-style router.
// A Router is immutable and safe for concurrent use.
type Router struct {
	contract *contract.Contract
	quoter   Quoter
}

// NewRouter binds a router deployed at address. Swaps are quoted through the
// router's getAmountsOut/getAmountsIn unless another Quoter is set.
func NewRouter(client contract.Caller, address common.Address) *Router {
	return &Router{contract: contract.New(address, contract.UniswapV2Router, client)}
}

func (r *Router) Address() common.Address { return r.contract.Address() }
func (r *Router) Client() contract.Caller { return r.contract.Caller() }
func (r *Router) Contract() *contract.Contract { return r.contract }

// WithQuoter returns a copy of the router quoting swaps through q
func (r *Router) WithQuoter(q Quoter) *Router {
	cp := *r
	cp.quoter = q
	return &cp
}

// Quoter returns the quoter used by Swap
func (r *Router) Quoter() Quoter {
	if r.quoter == nil {
		return r
	}
	return r.quoter
}

type AddLiquidityParams struct {
	TokenA         common.Address
	TokenB         common.Address
	AmountADesired *big.Int
	AmountBDesired *big.Int
	AmountAMin     *big.Int
	AmountBMin     *big.Int
	To             common.Address
	Deadline       *big.Int
}

type AddLiquidityResult struct {
	AmountA   *big.Int
	AmountB   *big.Int
	Liquidity *big.Int
}

type RemoveLiquidityParams struct {
	TokenA     common.Address
	TokenB     common.Address
	Liquidity  *big.Int
	AmountAMin *big.Int
	AmountBMin *big.Int
	To         common.Address
	Deadline   *big.Int
}

type RemoveLiquidityResult struct {
	AmountA *big.Int
	AmountB *big.Int
}

// AddLiquidity builds an addLiquidity call. The deadline is passed through
// as-is; it is enforced by the router when the transaction executes.
func (r *Router) AddLiquidity(p AddLiquidityParams) (*contract.Call[AddLiquidityResult], error) {
	if p.TokenA == p.TokenB {
		return nil, ErrIdenticalAddresses
	}
	if err := nonNegative(
		named{"amountADesired", p.AmountADesired},
		named{"amountBDesired", p.AmountBDesired},
		named{"amountAMin", p.AmountAMin},
		named{"amountBMin", p.AmountBMin},
		named{"deadline", p.Deadline},
	); err != nil {
		return nil, err
	}
	if p.AmountAMin.Cmp(p.AmountADesired) > 0 {
		return nil, fmt.Errorf("%w: amountAMin %s exceeds amountADesired %s", ErrInvalidAmount, p.AmountAMin, p.AmountADesired)
	}
	if p.AmountBMin.Cmp(p.AmountBDesired) > 0 {
		return nil, fmt.Errorf("%w: amountBMin %s exceeds amountBDesired %s", ErrInvalidAmount, p.AmountBMin, p.AmountBDesired)
	}

	return contract.NewCall(r.contract, "addLiquidity", decodeAddLiquidity,
		p.TokenA, p.TokenB,
		p.AmountADesired, p.AmountBDesired,
		p.AmountAMin, p.AmountBMin,
		p.To, p.Deadline,
	)
}

// RemoveLiquidity builds a removeLiquidity call burning liquidity LP tokens
func (r *Router) RemoveLiquidity(p RemoveLiquidityParams) (*contract.Call[RemoveLiquidityResult], error) {
	if p.TokenA == p.TokenB {
		return nil, ErrIdenticalAddresses
	}
	if err := nonNegative(
		named{"liquidity", p.Liquidity},
		named{"amountAMin", p.AmountAMin},
		named{"amountBMin", p.AmountBMin},
		named{"deadline", p.Deadline},
	); err != nil {
		return nil, err
	}
	if p.Liquidity.Sign() == 0 {
		return nil, fmt.Errorf("%w: liquidity must be positive", ErrInvalidAmount)
	}

	return contract.NewCall(r.contract, "removeLiquidity", decodeRemoveLiquidity,
		p.TokenA, p.TokenB,
		p.Liquidity,
		p.AmountAMin, p.AmountBMin,
		p.To, p.Deadline,
	)
}

// GetAmountsOut builds the router's read-only exact-in quote
func (r *Router) GetAmountsOut(amountIn *big.Int, path entities.SwapPath) (*contract.Call[[]*big.Int], error) {
	if err := nonNegative(named{"amountIn", amountIn}); err != nil {
		return nil, err
	}
	return contract.NewCall(r.contract, "getAmountsOut", contract.UintSlice, amountIn, path.Addresses())
}

// GetAmountsIn builds the router's read-only exact-out quote
func (r *Router) GetAmountsIn(amountOut *big.Int, path entities.SwapPath) (*contract.Call[[]*big.Int], error) {
	if err := nonNegative(named{"amountOut", amountOut}); err != nil {
		return nil, err
	}
	return contract.NewCall(r.contract, "getAmountsIn", contract.UintSlice, amountOut, path.Addresses())
}

// Quote implements Quoter with an eth_call to the router itself
func (r *Router) Quote(ctx context.Context, _ *Factory, amount entities.Amount, path entities.SwapPath) ([]*big.Int, error) {
	var (
		call *contract.Call[[]*big.Int]
		err  error
	)
	if amount.IsExactIn() {
		call, err = r.GetAmountsOut(amount.Value, path)
	} else {
		call, err = r.GetAmountsIn(amount.Value, path)
	}
	if err != nil {
		return nil, err
	}
	return call.Call(ctx)
}

type named struct {
	name  string
	value *big.Int
}

func nonNegative(values ...named) error {
	for _, v := range values {
		if v.value == nil {
			return fmt.Errorf("%w: %s missing", ErrInvalidAmount, v.name)
		}
		if v.value.Sign() < 0 {
			return fmt.Errorf("%w: %s is negative", ErrInvalidAmount, v.name)
		}
	}
	return fitsUint256(values...)
}

// fitsUint256 rejects values the ABI encoder would silently wrap
func fitsUint256(values ...named) error {
	for _, v := range values {
		if v.value != nil && v.value.BitLen() > 256 {
			return fmt.Errorf("%w: %s exceeds uint256", ErrInvalidAmount, v.name)
		}
	}
	return nil
}

func decodeAddLiquidity(outs []interface{}) (AddLiquidityResult, error) {
	vals, err := contract.Uints(outs)
	if err != nil {
		return AddLiquidityResult{}, err
	}
	if len(vals) != 3 {
		return AddLiquidityResult{}, fmt.Errorf("decode addLiquidity: got %d outputs", len(vals))
	}
	return AddLiquidityResult{AmountA: vals[0], AmountB: vals[1], Liquidity: vals[2]}, nil
}

func decodeRemoveLiquidity(outs []interface{}) (RemoveLiquidityResult, error) {
	vals, err := contract.Uints(outs)
	if err != nil {
		return RemoveLiquidityResult{}, err
	}
	if len(vals) != 2 {
		return RemoveLiquidityResult{}, fmt.Errorf("decode removeLiquidity: got %d outputs", len(vals))
	}
	return RemoveLiquidityResult{AmountA: vals[0], AmountB: vals[1]}, nil
}
