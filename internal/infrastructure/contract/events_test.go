package contract

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventTopics(t *testing.T) {
	assert.Equal(t,
		common.HexToHash("0x0d3648bd0f6ba80134a33ba9275ac585d9d315f0ad8355cddefde31afa28d0e9"),
		UniswapV2Factory.Events["PairCreated"].ID)
	assert.Equal(t,
		common.HexToHash("0x783cca1c0412dd0d695e784568c96da2e9c22ff989357a2e8b1d9b2b4e6b7118"),
		UniswapV3Factory.Events["PoolCreated"].ID)
	assert.Equal(t,
		common.HexToHash("0x1c411e9a96e071241c2f21f7726b17ae89e3cab4c78be50e062b03a9fffbbad1"),
		UniswapV2Pair.Events["Sync"].ID)
	assert.Equal(t,
		common.HexToHash("0xd78ad95fa46c994b6551d0da85fc275fe613ce37657fb8d5e3d130840159d822"),
		UniswapV2Pair.Events["Swap"].ID)
}

func TestDecodeSync(t *testing.T) {
	ev := UniswapV2Pair.Events["Sync"]
	data, err := ev.Inputs.NonIndexed().Pack(big.NewInt(111), big.NewInt(222))
	require.NoError(t, err)

	d := NewEventDecoder(UniswapV2Factory, UniswapV2Pair)
	got, err := d.Decode(types.Log{
		Address: pair,
		Topics:  []common.Hash{ev.ID},
		Data:    data,
	})
	require.NoError(t, err)

	assert.Equal(t, "Sync", got.Name)
	assert.Equal(t, pair, got.Address)
	assert.Equal(t, int64(111), got.Fields["reserve0"].(*big.Int).Int64())
	assert.Equal(t, int64(222), got.Fields["reserve1"].(*big.Int).Int64())
}

func TestDecodePairCreated(t *testing.T) {
	ev := UniswapV2Factory.Events["PairCreated"]
	data, err := ev.Inputs.NonIndexed().Pack(pair, big.NewInt(12))
	require.NoError(t, err)

	d := NewEventDecoder(UniswapV2Factory, UniswapV2Pair)
	got, err := d.Decode(types.Log{
		Topics: []common.Hash{
			ev.ID,
			common.BytesToHash(tokenA.Bytes()),
			common.BytesToHash(tokenB.Bytes()),
		},
		Data: data,
	})
	require.NoError(t, err)

	assert.Equal(t, "PairCreated", got.Name)
	assert.Equal(t, tokenA, got.Fields["token0"])
	assert.Equal(t, tokenB, got.Fields["token1"])
	assert.Equal(t, pair, got.Fields["pair"])
	assert.Equal(t, int64(12), got.Fields["allPairsLength"].(*big.Int).Int64())
}

func TestDecodeUnknownEvent(t *testing.T) {
	d := NewEventDecoder(UniswapV2Pair)

	_, err := d.Decode(types.Log{})
	assert.ErrorIs(t, err, ErrUnknownEvent)

	_, err = d.Decode(types.Log{Topics: []common.Hash{UniswapV2Factory.Events["PairCreated"].ID}})
	assert.ErrorIs(t, err, ErrUnknownEvent)
}

func TestDecodeTopicCountMismatch(t *testing.T) {
	ev := UniswapV2Factory.Events["PairCreated"]
	data, err := ev.Inputs.NonIndexed().Pack(pair, big.NewInt(1))
	require.NoError(t, err)

	_, err = NewEventDecoder(UniswapV2Factory).Decode(types.Log{
		Topics: []common.Hash{ev.ID, common.BytesToHash(tokenA.Bytes())},
		Data:   data,
	})
	assert.Error(t, err)
}

func TestFilterQuery(t *testing.T) {
	c := New(pair, UniswapV2Pair, nil)

	q, err := c.FilterQuery("Sync", big.NewInt(100), nil)
	require.NoError(t, err)
	assert.Equal(t, []common.Address{pair}, q.Addresses)
	require.Len(t, q.Topics, 1)
	assert.Equal(t, []common.Hash{UniswapV2Pair.Events["Sync"].ID}, q.Topics[0])
	assert.Equal(t, int64(100), q.FromBlock.Int64())
	assert.Nil(t, q.ToBlock)

	_, err = c.FilterQuery("Transfer", nil, nil)
	assert.Error(t, err)
}
