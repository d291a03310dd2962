// Package contract turns ABI tables into unsent, inspectable contract calls.
//
// A Contract pairs an address with a parsed ABI and the chain client used to
// simulate calls. Builders create a Call[T] per invocation; nothing is sent
// until the caller signs and broadcasts the transaction built from it.
package contract

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Caller is the read-only capability of a chain client: it executes an
// eth_call and returns the raw return data.
type Caller interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg) ([]byte, error)
}

// CallerFunc adapts a function to the Caller interface
type CallerFunc func(ctx context.Context, msg ethereum.CallMsg) ([]byte, error)

func (f CallerFunc) CallContract(ctx context.Context, msg ethereum.CallMsg) ([]byte, error) {
	return f(ctx, msg)
}

var ErrNoCaller = errors.New("contract: no chain client configured")

// Contract binds an ABI to an address
type Contract struct {
	address common.Address
	abi     *abi.ABI
	caller  Caller
}

// New creates a contract binding. caller may be nil for pure call building.
func New(address common.Address, table *abi.ABI, caller Caller) *Contract {
	return &Contract{address: address, abi: table, caller: caller}
}

func (c *Contract) Address() common.Address { return c.address }
func (c *Contract) ABI() *abi.ABI { return c.abi }
func (c *Contract) Caller() Caller { return c.caller }

// Selector returns the 4-byte function selector of method
func (c *Contract) Selector(method string) ([4]byte, error) {
	var sel [4]byte
	m, ok := c.abi.Methods[method]
	if !ok {
		return sel, fmt.Errorf("contract: method %q not found", method)
	}
	copy(sel[:], m.ID)
	return sel, nil
}

// Decoder converts unpacked ABI outputs into a typed result
type Decoder[T any] func(outputs []interface{}) (T, error)

// Call is an unsent contract invocation whose result decodes to T
type Call[T any] struct {
	contract *Contract
	method   string
	args     []interface{}
	data     []byte
	value    *big.Int
	decode   Decoder[T]
}

// NewCall packs method and args against the contract's ABI
func NewCall[T any](c *Contract, method string, decode Decoder[T], args ...interface{}) (*Call[T], error) {
	data, err := c.abi.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}
	return &Call[T]{
		contract: c,
		method:   method,
		args:     args,
		data:     data,
		decode:   decode,
	}, nil
}

func (c *Call[T]) Method() string { return c.method }
func (c *Call[T]) To() common.Address { return c.contract.address }
func (c *Call[T]) Args() []interface{} { return c.args }

// Data returns the ABI-encoded calldata
func (c *Call[T]) Data() []byte {
	return common.CopyBytes(c.data)
}

// Selector returns the first four bytes of the calldata
func (c *Call[T]) Selector() [4]byte {
	var sel [4]byte
	copy(sel[:], c.data)
	return sel
}

// Value returns the native value attached to the call (zero if none)
func (c *Call[T]) Value() *big.Int {
	if c.value == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(c.value)
}

// WithValue returns a copy of the call carrying native value
func (c *Call[T]) WithValue(v *big.Int) *Call[T] {
	cp := *c
	if v != nil {
		cp.value = new(big.Int).Set(v)
	} else {
		cp.value = nil
	}
	return &cp
}

// Msg returns the call as an eth_call / gas estimation message
func (c *Call[T]) Msg(from common.Address) ethereum.CallMsg {
	to := c.contract.address
	return ethereum.CallMsg{
		From:  from,
		To:    &to,
		Value: c.Value(),
		Data:  c.Data(),
	}
}

// Call simulates the invocation with eth_call and decodes the result.
// Transport errors are returned as-is.
func (c *Call[T]) Call(ctx context.Context) (T, error) {
	return c.CallFrom(ctx, common.Address{})
}

// CallFrom simulates the invocation as sent by from
func (c *Call[T]) CallFrom(ctx context.Context, from common.Address) (T, error) {
	var zero T
	if c.contract.caller == nil {
		return zero, ErrNoCaller
	}
	raw, err := c.contract.caller.CallContract(ctx, c.Msg(from))
	if err != nil {
		return zero, err
	}
	return c.Decode(raw)
}

// Decode unpacks raw return data of this call
func (c *Call[T]) Decode(raw []byte) (T, error) {
	var zero T
	outs, err := c.contract.abi.Unpack(c.method, raw)
	if err != nil {
		return zero, fmt.Errorf("unpack %s: %w", c.method, err)
	}
	if c.decode == nil {
		return zero, nil
	}
	return c.decode(outs)
}

// TxParams are the transaction fields this package never chooses itself
type TxParams struct {
	ChainID   *big.Int
	Nonce     uint64
	Gas       uint64
	GasTipCap *big.Int
	GasFeeCap *big.Int
}

// Transaction assembles an unsigned EIP-1559 transaction for the call
func (c *Call[T]) Transaction(p TxParams) *types.Transaction {
	to := c.contract.address
	return types.NewTx(&types.DynamicFeeTx{
		ChainID:   p.ChainID,
		Nonce:     p.Nonce,
		GasTipCap: p.GasTipCap,
		GasFeeCap: p.GasFeeCap,
		Gas:       p.Gas,
		To:        &to,
		Value:     c.Value(),
		Data:      c.Data(),
	})
}
