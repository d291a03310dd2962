package amm

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"

	"github.com/bimakw/amm-sdk/internal/domain/entities"
	"github.com/bimakw/amm-sdk/internal/infrastructure/contract"
)

// Pair is a handle to a pool contract at a derived address. Creating a
// handle never touches the network; the pool may not be deployed.
type Pair struct {
	contract *contract.Contract
	protocol entities.ProtocolType
	token0   common.Address
	token1   common.Address
	fee      *uint32
}

// Reserves is the result of getReserves on a constant-product pool
type Reserves struct {
	Reserve0           *big.Int
	Reserve1           *big.Int
	BlockTimestampLast uint32
}

func newPair(client contract.Caller, address common.Address, protocol entities.ProtocolType, token0, token1 common.Address, fee *uint32) *Pair {
	table := contract.UniswapV2Pair
	if protocol.IsFeeTiered() {
		table = contract.UniswapV3Pool
	}
	return &Pair{
		contract: contract.New(address, table, client),
		protocol: protocol,
		token0:   token0,
		token1:   token1,
		fee:      fee,
	}
}

func (p *Pair) Address() common.Address { return p.contract.Address() }
func (p *Pair) Token0() common.Address { return p.token0 }
func (p *Pair) Token1() common.Address { return p.token1 }
func (p *Pair) Protocol() entities.ProtocolType { return p.protocol }
func (p *Pair) Contract() *contract.Contract { return p.contract }

// Fee returns the fee tier of a fee-tiered pool
func (p *Pair) Fee() (uint32, bool) {
	if p.fee == nil {
		return 0, false
	}
	return *p.fee, true
}

// Other returns the token paired with token, or false if token is not in the pool
func (p *Pair) Other(token common.Address) (common.Address, bool) {
	switch token {
	case p.token0:
		return p.token1, true
	case p.token1:
		return p.token0, true
	}
	return common.Address{}, false
}

// GetReserves builds a getReserves call. Only fixed-fee pools keep reserves.
func (p *Pair) GetReserves() (*contract.Call[Reserves], error) {
	if p.protocol.IsFeeTiered() {
		return nil, fmt.Errorf("%w: %s pools have no reserves", ErrUnsupportedProtocol, p.protocol)
	}
	return contract.NewCall(p.contract, "getReserves", decodeReserves)
}

// Liquidity builds a call reading the in-range liquidity of a fee-tiered pool
func (p *Pair) Liquidity() (*contract.Call[*big.Int], error) {
	if !p.protocol.IsFeeTiered() {
		return nil, fmt.Errorf("%w: %s pools have no liquidity()", ErrUnsupportedProtocol, p.protocol)
	}
	return contract.NewCall(p.contract, "liquidity", contract.Uint)
}

// FilterQuery builds a log filter for one of the pool's events (Sync, Swap,
// Mint, Burn for fixed-fee pools).
func (p *Pair) FilterQuery(event string, fromBlock, toBlock *big.Int) (ethereum.FilterQuery, error) {
	return p.contract.FilterQuery(event, fromBlock, toBlock)
}

// Snapshot combines the handle with fetched reserves for off-chain math
func (p *Pair) Snapshot(r Reserves) entities.Pair {
	return entities.Pair{
		Address:  p.Address(),
		Token0:   entities.Token{Address: p.token0},
		Token1:   entities.Token{Address: p.token1},
		Reserve0: r.Reserve0,
		Reserve1: r.Reserve1,
		Protocol: p.protocol,
		Fee:      p.protocol.FeeBps(),
	}
}

func decodeReserves(outs []interface{}) (Reserves, error) {
	vals, err := contract.Uints(outs)
	if err != nil {
		return Reserves{}, err
	}
	if len(vals) != 3 {
		return Reserves{}, fmt.Errorf("decode reserves: got %d outputs", len(vals))
	}
	return Reserves{
		Reserve0:           vals[0],
		Reserve1:           vals[1],
		BlockTimestampLast: uint32(vals[2].Uint64()),
	}, nil
}
