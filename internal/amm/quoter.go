package amm

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"

	"github.com/bimakw/amm-sdk/internal/domain/entities"
	"github.com/bimakw/amm-sdk/internal/infrastructure/contract"
)

// BatchCaller is implemented by clients that can run several eth_calls at once
type BatchCaller interface {
	Multicall(ctx context.Context, calls []ethereum.CallMsg) ([][]byte, error)
}

// ReserveQuoter quotes swaps from pool reserves instead of the router. Each
// hop's pair is derived through the factory and its reserves fetched in one
// batch when the client supports it; amounts follow the constant-product
// formula with the protocol's fee.
type ReserveQuoter struct{}

func NewReserveQuoter() *ReserveQuoter {
	return &ReserveQuoter{}
}

func (q *ReserveQuoter) Quote(ctx context.Context, factory *Factory, amount entities.Amount, path entities.SwapPath) ([]*big.Int, error) {
	if factory == nil {
		return nil, fmt.Errorf("%w: reserve quotes need a factory", ErrUnsupportedProtocol)
	}
	if factory.Protocol().IsFeeTiered() {
		return nil, fmt.Errorf("%w: %s pools have no reserves", ErrUnsupportedProtocol, factory.Protocol())
	}
	if err := validatePath(path); err != nil {
		return nil, err
	}

	route, err := q.Route(ctx, factory, path)
	if err != nil {
		return nil, err
	}

	var amounts []*big.Int
	if amount.IsExactIn() {
		amounts = route.AmountsOut(amount.Value)
	} else {
		amounts = route.AmountsIn(amount.Value)
	}
	if amounts == nil {
		return nil, fmt.Errorf("%w: along %s", ErrInsufficientLiquidity, path)
	}
	return amounts, nil
}

// Route fetches the reserves of every hop of path
func (q *ReserveQuoter) Route(ctx context.Context, factory *Factory, path entities.SwapPath) (*entities.Route, error) {
	hops := path.Hops()
	pairs := make([]*Pair, len(hops))
	calls := make([]*contract.Call[Reserves], len(hops))
	msgs := make([]ethereum.CallMsg, len(hops))
	for i, hop := range hops {
		pairs[i] = factory.PairFor(hop[0], hop[1])
		call, err := pairs[i].GetReserves()
		if err != nil {
			return nil, err
		}
		calls[i] = call
		msgs[i] = call.Msg(common.Address{})
	}

	raw, err := fetch(ctx, factory.Client(), msgs)
	if err != nil {
		return nil, err
	}

	route := &entities.Route{Hops: make([]entities.Hop, len(hops))}
	for i, hop := range hops {
		reserves, err := calls[i].Decode(raw[i])
		if err != nil {
			return nil, fmt.Errorf("reserves of %s: %w", pairs[i].Address().Hex(), err)
		}
		route.Hops[i] = entities.Hop{
			Pair:     pairs[i].Snapshot(reserves),
			TokenIn:  hop[0],
			TokenOut: hop[1],
		}
	}
	return route, nil
}

func fetch(ctx context.Context, client contract.Caller, msgs []ethereum.CallMsg) ([][]byte, error) {
	if client == nil {
		return nil, contract.ErrNoCaller
	}
	if batch, ok := client.(BatchCaller); ok {
		return batch.Multicall(ctx, msgs)
	}
	out := make([][]byte, len(msgs))
	for i, msg := range msgs {
		raw, err := client.CallContract(ctx, msg)
		if err != nil {
			return nil, err
		}
		out[i] = raw
	}
	return out, nil
}
