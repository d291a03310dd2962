package amm

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/bimakw/amm-sdk/internal/domain/entities"
	"github.com/bimakw/amm-sdk/internal/infrastructure/contract"
)

// SwapParams describes a swap along Path. SlippageTolerance is a fraction in
// [0, 1), e.g. 0.005 for 0.5%. When NativeWrapper is set, paths starting or
// ending at it use the router's native-currency entry points.
type SwapParams struct {
	Amount            entities.Amount
	SlippageTolerance float64
	Path              entities.SwapPath
	To                common.Address
	Deadline          *big.Int
	NativeWrapper     common.Address
}

// SwapPlan is a prepared swap: the quote it was bounded against and the
// unsent call.
type SwapPlan struct {
	Kind entities.AmountKind
	Path entities.SwapPath
	// Amounts is the quote, one entry per token of Path
	Amounts []*big.Int
	// Limit is amountOutMin for exact-in swaps and amountInMax for exact-out
	Limit     *big.Int
	NativeIn  bool
	NativeOut bool
	Call      *contract.Call[[]*big.Int]
}

// Method is the router function the plan calls
func (p *SwapPlan) Method() string {
	return p.Call.Method()
}

// ExpectedIn is the quoted input amount
func (p *SwapPlan) ExpectedIn() *big.Int {
	return p.Amounts[0]
}

// ExpectedOut is the quoted output amount
func (p *SwapPlan) ExpectedOut() *big.Int {
	return p.Amounts[len(p.Amounts)-1]
}

// Swap quotes the swap and builds the router call bounded by the slippage
// tolerance. See PrepareSwap.
func (r *Router) Swap(ctx context.Context, factory *Factory, p SwapParams) (*contract.Call[[]*big.Int], error) {
	plan, err := r.PrepareSwap(ctx, factory, p)
	if err != nil {
		return nil, err
	}
	return plan.Call, nil
}

// PrepareSwap validates p, quotes it, and selects the router entry point.
// The quote is the only network access; its errors are returned unchanged
// and no call is built.
func (r *Router) PrepareSwap(ctx context.Context, factory *Factory, p SwapParams) (*SwapPlan, error) {
	if err := validatePath(p.Path); err != nil {
		return nil, err
	}
	if _, err := toleranceRat(p.SlippageTolerance); err != nil {
		return nil, err
	}
	if p.Amount.Value == nil || p.Amount.Value.Sign() <= 0 {
		return nil, fmt.Errorf("%w: swap amount must be positive", ErrInvalidAmount)
	}
	if err := fitsUint256(named{"amount", p.Amount.Value}); err != nil {
		return nil, err
	}
	if p.Amount.Kind != entities.AmountExactIn && p.Amount.Kind != entities.AmountExactOut {
		return nil, fmt.Errorf("%w: unknown kind %s", ErrInvalidAmount, p.Amount.Kind)
	}
	if p.Deadline == nil || p.Deadline.Sign() < 0 {
		return nil, fmt.Errorf("%w: deadline missing", ErrInvalidAmount)
	}
	if err := fitsUint256(named{"deadline", p.Deadline}); err != nil {
		return nil, err
	}

	native := p.NativeWrapper != (common.Address{})
	nativeIn := native && p.Path.First() == p.NativeWrapper
	nativeOut := native && p.Path.Last() == p.NativeWrapper
	if nativeIn && nativeOut {
		return nil, fmt.Errorf("%w: path starts and ends at the native wrapper", ErrInvalidPath)
	}

	amounts, err := r.Quoter().Quote(ctx, factory, p.Amount, p.Path)
	if err != nil {
		return nil, err
	}
	if len(amounts) != len(p.Path) {
		return nil, fmt.Errorf("%w: got %d amounts for a path of %d tokens", ErrInvalidQuote, len(amounts), len(p.Path))
	}
	for i, a := range amounts {
		if a == nil {
			return nil, fmt.Errorf("%w: amount %d missing", ErrInvalidQuote, i)
		}
	}

	plan := &SwapPlan{
		Kind:      p.Amount.Kind,
		Path:      p.Path,
		Amounts:   amounts,
		NativeIn:  nativeIn,
		NativeOut: nativeOut,
	}
	path := p.Path.Addresses()

	if p.Amount.IsExactIn() {
		minOut, err := MinimumOut(amounts[len(amounts)-1], p.SlippageTolerance)
		if err != nil {
			return nil, err
		}
		plan.Limit = minOut

		switch {
		case nativeIn:
			plan.Call, err = contract.NewCall(r.contract, "swapExactETHForTokens", contract.UintSlice,
				minOut, path, p.To, p.Deadline)
			if err == nil {
				plan.Call = plan.Call.WithValue(p.Amount.Value)
			}
		case nativeOut:
			plan.Call, err = contract.NewCall(r.contract, "swapExactTokensForETH", contract.UintSlice,
				p.Amount.Value, minOut, path, p.To, p.Deadline)
		default:
			plan.Call, err = contract.NewCall(r.contract, "swapExactTokensForTokens", contract.UintSlice,
				p.Amount.Value, minOut, path, p.To, p.Deadline)
		}
		if err != nil {
			return nil, err
		}
		return plan, nil
	}

	maxIn, err := MaximumIn(amounts[0], p.SlippageTolerance)
	if err != nil {
		return nil, err
	}
	if err := fitsUint256(named{"amountInMax", maxIn}); err != nil {
		return nil, err
	}
	plan.Limit = maxIn

	switch {
	case nativeIn:
		plan.Call, err = contract.NewCall(r.contract, "swapETHForExactTokens", contract.UintSlice,
			p.Amount.Value, path, p.To, p.Deadline)
		if err == nil {
			plan.Call = plan.Call.WithValue(maxIn)
		}
	case nativeOut:
		plan.Call, err = contract.NewCall(r.contract, "swapTokensForExactETH", contract.UintSlice,
			p.Amount.Value, maxIn, path, p.To, p.Deadline)
	default:
		plan.Call, err = contract.NewCall(r.contract, "swapTokensForExactTokens", contract.UintSlice,
			p.Amount.Value, maxIn, path, p.To, p.Deadline)
	}
	if err != nil {
		return nil, err
	}
	return plan, nil
}

func validatePath(path entities.SwapPath) error {
	if len(path) < 2 {
		return fmt.Errorf("%w: need at least 2 tokens, got %d", ErrInvalidPath, len(path))
	}
	for i := 1; i < len(path); i++ {
		if path[i] == path[i-1] {
			return fmt.Errorf("%w: token %s repeated at hop %d", ErrInvalidPath, path[i].Hex(), i)
		}
	}
	return nil
}
