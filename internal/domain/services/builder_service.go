package services

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"github.com/bimakw/amm-sdk/internal/amm"
	"github.com/bimakw/amm-sdk/internal/infrastructure/contract"
	"github.com/bimakw/amm-sdk/internal/metrics"
)

// LogFilterer reads logs from the chain
type LogFilterer interface {
	FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error)
}

// UnsignedCall is a built call in a form API clients can sign and send
type UnsignedCall struct {
	To       string `json:"to"`
	Data     string `json:"data"`
	Value    string `json:"value"`
	Method   string `json:"method"`
	Selector string `json:"selector"`
}

func NewUnsignedCall[T any](c *contract.Call[T]) *UnsignedCall {
	sel := c.Selector()
	return &UnsignedCall{
		To:       c.To().Hex(),
		Data:     hexutil.Encode(c.Data()),
		Value:    c.Value().String(),
		Method:   c.Method(),
		Selector: hexutil.Encode(sel[:]),
	}
}

// PairInfo describes a derived pool
type PairInfo struct {
	Address       string  `json:"address"`
	Token0        string  `json:"token0"`
	Token1        string  `json:"token1"`
	Fee           *uint32 `json:"fee,omitempty"`
	Protocol      string  `json:"protocol"`
	Chain         string  `json:"chain,omitempty"`
	CodeHash      string  `json:"codeHash"`
	CodeHashKnown bool    `json:"codeHashKnown"`
}

// SwapResult is a prepared swap with its quote
type SwapResult struct {
	*UnsignedCall
	Kind      string   `json:"kind"`
	Path      []string `json:"path"`
	Amounts   []string `json:"amounts"`
	Limit     string   `json:"limit"`
	NativeIn  bool     `json:"nativeIn"`
	NativeOut bool     `json:"nativeOut"`
}

// PoolCreated is a decoded PairCreated or PoolCreated event
type PoolCreated struct {
	Pool        string  `json:"pool"`
	Token0      string  `json:"token0"`
	Token1      string  `json:"token1"`
	Fee         *uint32 `json:"fee,omitempty"`
	BlockNumber uint64  `json:"blockNumber"`
	TxHash      string  `json:"txHash"`
}

// BuilderService exposes the protocol's builders to the API
type BuilderService struct {
	protocol *amm.Protocol
	logs     LogFilterer
	events   *contract.EventDecoder
	logger   *zap.Logger
}

// NewBuilderService creates a builder service. logs may be nil, in which case
// PoolsCreated is unavailable.
func NewBuilderService(protocol *amm.Protocol, logs LogFilterer, logger *zap.Logger) *BuilderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BuilderService{
		protocol: protocol,
		logs:     logs,
		events:   contract.NewEventDecoder(contract.UniswapV2Factory, contract.UniswapV3Factory),
		logger:   logger,
	}
}

func (s *BuilderService) Protocol() *amm.Protocol {
	return s.protocol
}

// DerivePair derives a pool address offline. fee is only used by fee-tiered
// protocols; a tier outside FeeTiers is checked against the factory.
func (s *BuilderService) DerivePair(ctx context.Context, tokenA, tokenB common.Address, fee *uint32) (*PairInfo, error) {
	if tokenA == tokenB {
		metrics.ObserveBuild("derive", amm.ErrorKind(amm.ErrIdenticalAddresses))
		return nil, amm.ErrIdenticalAddresses
	}

	factory := s.protocol.Factory()
	pair := factory.PairFor(tokenA, tokenB)
	if fee != nil && factory.Protocol().IsFeeTiered() {
		var err error
		if err = factory.CheckFeeTier(ctx, *fee); err == nil {
			pair, err = factory.PoolFor(tokenA, tokenB, *fee)
		}
		if err != nil {
			metrics.ObserveBuild("derive", amm.ErrorKind(err))
			return nil, err
		}
	}

	info := &PairInfo{
		Address:       pair.Address().Hex(),
		Token0:        pair.Token0().Hex(),
		Token1:        pair.Token1().Hex(),
		Protocol:      string(factory.Protocol()),
		CodeHash:      factory.PairCodeHash(nil).Hex(),
		CodeHashKnown: factory.CodeHashKnown(nil),
	}
	if f, ok := pair.Fee(); ok {
		info.Fee = &f
	}
	if chain, ok := factory.Chain(); ok {
		info.Chain = chain.String()
	}

	if !info.CodeHashKnown {
		metrics.FallbackCodeHash.WithLabelValues(info.Protocol).Inc()
		s.logger.Warn("pool derived with fallback code hash, it may not be deployed",
			zap.String("protocol", info.Protocol),
			zap.String("chain", info.Chain),
			zap.String("pool", info.Address),
		)
	}
	return info, nil
}

// CreatePair builds createPair, or createPool on a fee-tiered protocol. The
// fee tier defaults to DefaultFeeTier and must be enabled on the factory.
func (s *BuilderService) CreatePair(ctx context.Context, tokenA, tokenB common.Address, fee *uint32) (*UnsignedCall, error) {
	var (
		call *contract.Call[common.Address]
		err  error
	)
	if s.protocol.Type().IsFeeTiered() {
		tier := amm.DefaultFeeTier
		if fee != nil {
			tier = *fee
		}
		if err = s.protocol.Factory().CheckFeeTier(ctx, tier); err == nil {
			call, err = s.protocol.Factory().CreatePool(tokenA, tokenB, tier)
		}
	} else {
		call, err = s.protocol.CreatePair(tokenA, tokenB)
	}
	return observe(s, "createPair", call, err)
}

// PairCount reads how many pairs the factory has created
func (s *BuilderService) PairCount(ctx context.Context) (*big.Int, error) {
	call, err := s.protocol.Factory().AllPairsLength()
	if err != nil {
		return nil, err
	}
	n, err := call.Call(ctx)
	if err != nil {
		s.logger.Error("allPairsLength failed", zap.Error(err))
		return nil, err
	}
	return n, nil
}

func (s *BuilderService) AddLiquidity(p amm.AddLiquidityParams) (*UnsignedCall, error) {
	call, err := s.protocol.AddLiquidity(p)
	return observe(s, "addLiquidity", call, err)
}

func (s *BuilderService) RemoveLiquidity(p amm.RemoveLiquidityParams) (*UnsignedCall, error) {
	call, err := s.protocol.RemoveLiquidity(p)
	return observe(s, "removeLiquidity", call, err)
}

// Swap quotes and builds a slippage-bounded swap
func (s *BuilderService) Swap(ctx context.Context, p amm.SwapParams) (*SwapResult, error) {
	plan, err := s.protocol.PrepareSwap(ctx, p)
	if err != nil {
		kind := amm.ErrorKind(err)
		if amm.IsValidation(err) {
			metrics.ValidationFailures.WithLabelValues(kind).Inc()
		} else {
			s.logger.Error("swap quote failed",
				zap.String("path", p.Path.String()),
				zap.String("kind", kind),
				zap.Error(err),
			)
		}
		return nil, err
	}
	metrics.ObserveBuild(plan.Method(), "")

	res := &SwapResult{
		UnsignedCall: NewUnsignedCall(plan.Call),
		Kind:         plan.Kind.String(),
		Path:         make([]string, len(plan.Path)),
		Amounts:      make([]string, len(plan.Amounts)),
		Limit:        plan.Limit.String(),
		NativeIn:     plan.NativeIn,
		NativeOut:    plan.NativeOut,
	}
	for i, a := range plan.Path {
		res.Path[i] = a.Hex()
	}
	for i, a := range plan.Amounts {
		res.Amounts[i] = a.String()
	}

	s.logger.Debug("swap built",
		zap.String("method", plan.Method()),
		zap.String("path", p.Path.String()),
		zap.String("limit", res.Limit),
	)
	return res, nil
}

// PoolsCreated lists pools created by the factory between two blocks
func (s *BuilderService) PoolsCreated(ctx context.Context, fromBlock, toBlock *big.Int) ([]PoolCreated, error) {
	if s.logs == nil {
		return nil, fmt.Errorf("%w: no log source configured", amm.ErrUnsupportedProtocol)
	}

	q, err := s.protocol.Factory().CreatedQuery(fromBlock, toBlock)
	if err != nil {
		return nil, err
	}
	logs, err := s.logs.FilterLogs(ctx, q)
	if err != nil {
		return nil, err
	}

	pools := make([]PoolCreated, 0, len(logs))
	for _, l := range logs {
		ev, err := s.events.Decode(l)
		if err != nil {
			s.logger.Warn("skipping undecodable factory log",
				zap.String("tx", l.TxHash.Hex()),
				zap.Error(err),
			)
			continue
		}
		pools = append(pools, poolFromEvent(ev))
	}
	return pools, nil
}

func poolFromEvent(ev *contract.Event) PoolCreated {
	p := PoolCreated{
		BlockNumber: ev.Log.BlockNumber,
		TxHash:      ev.Log.TxHash.Hex(),
	}
	if a, ok := ev.Fields["token0"].(common.Address); ok {
		p.Token0 = a.Hex()
	}
	if a, ok := ev.Fields["token1"].(common.Address); ok {
		p.Token1 = a.Hex()
	}
	for _, key := range []string{"pair", "pool"} {
		if a, ok := ev.Fields[key].(common.Address); ok {
			p.Pool = a.Hex()
		}
	}
	if fee, ok := ev.Fields["fee"].(*big.Int); ok && fee.IsUint64() {
		f := uint32(fee.Uint64())
		p.Fee = &f
	}
	return p
}

func observe[T any](s *BuilderService, method string, call *contract.Call[T], err error) (*UnsignedCall, error) {
	if err != nil {
		metrics.ObserveBuild(method, amm.ErrorKind(err))
		s.logger.Debug("build rejected", zap.String("method", method), zap.Error(err))
		return nil, err
	}
	metrics.ObserveBuild(call.Method(), "")
	return NewUnsignedCall(call), nil
}
