package contract

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Address decodes a single address output
func Address(outs []interface{}) (common.Address, error) {
	if len(outs) != 1 {
		return common.Address{}, fmt.Errorf("decode address: got %d outputs", len(outs))
	}
	addr, ok := outs[0].(common.Address)
	if !ok {
		return common.Address{}, fmt.Errorf("decode address: unexpected type %T", outs[0])
	}
	return addr, nil
}

// Uint decodes a single unsigned integer output
func Uint(outs []interface{}) (*big.Int, error) {
	vals, err := Uints(outs)
	if err != nil {
		return nil, err
	}
	if len(vals) != 1 {
		return nil, fmt.Errorf("decode uint: got %d outputs", len(vals))
	}
	return vals[0], nil
}

// Uints decodes a tuple of integer outputs such as (uint256, uint256)
func Uints(outs []interface{}) ([]*big.Int, error) {
	vals := make([]*big.Int, len(outs))
	for i, o := range outs {
		v, err := toBig(o)
		if err != nil {
			return nil, fmt.Errorf("decode output %d: %w", i, err)
		}
		vals[i] = v
	}
	return vals, nil
}

// UintSlice decodes a single uint256[] output
func UintSlice(outs []interface{}) ([]*big.Int, error) {
	if len(outs) != 1 {
		return nil, fmt.Errorf("decode uint256[]: got %d outputs", len(outs))
	}
	vals, ok := outs[0].([]*big.Int)
	if !ok {
		return nil, fmt.Errorf("decode uint256[]: unexpected type %T", outs[0])
	}
	return vals, nil
}

func toBig(v interface{}) (*big.Int, error) {
	switch x := v.(type) {
	case *big.Int:
		return new(big.Int).Set(x), nil
	case uint8:
		return new(big.Int).SetUint64(uint64(x)), nil
	case uint16:
		return new(big.Int).SetUint64(uint64(x)), nil
	case uint32:
		return new(big.Int).SetUint64(uint64(x)), nil
	case uint64:
		return new(big.Int).SetUint64(x), nil
	default:
		return nil, fmt.Errorf("unexpected type %T", v)
	}
}
