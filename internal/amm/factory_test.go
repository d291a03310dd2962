package amm

import (
	"context"
	"encoding/hex"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bimakw/amm-sdk/internal/domain/entities"
	"github.com/bimakw/amm-sdk/internal/infrastructure/contract"
)

var (
	uniswapV2Factory = common.HexToAddress("0x5C69bEe701ef814a2B6a3EDD4B1652CB9cc5aA6f")
	uniswapV3Factory = common.HexToAddress("0x1F98431c8aD98523631AE4a59f267346ea31F984")
	sushiFactory     = common.HexToAddress("0xC0AEe478e3658e2610c5F7A4A2E1777cE9e4f2Ac")
	uniswapV2Router  = common.HexToAddress("0x7a250d5630B4cF539739dF2C5dAcb4c659F2488D")

	usdc = entities.USDC.Address
	weth = entities.WETH.Address
	dai  = entities.DAI.Address

	token1 = common.HexToAddress("0x0000000000000000000000000000000000000001")
	token2 = common.HexToAddress("0x0000000000000000000000000000000000000002")
)

// offline returns a client that fails the test if it is ever used
func offline(t *testing.T) contract.Caller {
	return contract.CallerFunc(func(ctx context.Context, msg ethereum.CallMsg) ([]byte, error) {
		t.Fatalf("unexpected network call to %s", msg.To.Hex())
		return nil, nil
	})
}

func TestPairForGolden(t *testing.T) {
	mainnet := entities.ChainMainnet

	tests := []struct {
		name     string
		factory  common.Address
		protocol entities.ProtocolType
		tokenA   common.Address
		tokenB   common.Address
		want     string
	}{
		{"uniswap v2 usdc/weth", uniswapV2Factory, entities.ProtocolUniswapV2, usdc, weth, "0xB4e16d0168e52d35CaCD2c6185b44281Ec28C9Dc"},
		{"uniswap v2 dai/weth", uniswapV2Factory, entities.ProtocolUniswapV2, dai, weth, "0xA478c2975Ab1Ea89e8196811F51A7B7Ade33eB11"},
		{"sushiswap usdc/weth", sushiFactory, entities.ProtocolSushiswap, usdc, weth, "0x397FF1542f962076d0BFE58eA045FfA2d347ACa0"},
		{"unknown factory with v2 hash", common.HexToAddress("0xFAC0000000000000000000000000000000000000"), entities.ProtocolUniswapV2, token1, token2, "0x7a476E25F8c969E439d8D3754deb92D4699E995C"},
		{"v3 default tier", common.HexToAddress("0xFAC0000000000000000000000000000000000000"), entities.ProtocolUniswapV3, token1, token2, "0x0089f6525B925D0CD00B36988772635174eb75AC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewFactory(offline(t), tt.factory, tt.protocol)
			f.SetChain(mainnet)
			assert.Equal(t, common.HexToAddress(tt.want), f.PairFor(tt.tokenA, tt.tokenB).Address())
		})
	}
}

func TestPairForCustomCodeHash(t *testing.T) {
	h := common.HexToHash("0xabababababababababababababababababababababababababababababababab")
	f := NewFactory(offline(t), common.HexToAddress("0xFAC0000000000000000000000000000000000000"), entities.ProtocolUniswapV2).WithCodeHash(h)

	pair := f.PairFor(token1, token2)
	assert.Equal(t, common.HexToAddress("0x66ef96221f3390fA64f74Af8EFf6c438C26308ad"), pair.Address())
	assert.Equal(t, h, f.PairCodeHash(nil))
	assert.True(t, f.CodeHashKnown(nil))
}

func TestPoolForGolden(t *testing.T) {
	f := NewFactory(offline(t), uniswapV3Factory, entities.ProtocolUniswapV3)
	f.SetChain(entities.ChainMainnet)

	low, err := f.PoolFor(usdc, weth, FeeLow)
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress("0x88e6A0c2dDD26FEEb64F039a2c41296FcB3f5640"), low.Address())
	fee, ok := low.Fee()
	require.True(t, ok)
	assert.Equal(t, FeeLow, fee)

	medium, err := f.PoolFor(weth, usdc, FeeMedium)
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress("0x8ad599c3A0ff1De082011EFDDc58f1908eb6e6D8"), medium.Address())
	assert.Equal(t, medium.Address(), f.PairFor(usdc, weth).Address())
	addr, err := f.PoolAddress(entities.NewFeePoolKey(usdc, weth, FeeMedium))
	require.NoError(t, err)
	assert.Equal(t, medium.Address(), addr)
}

func TestFeeOutsideUint24(t *testing.T) {
	f := NewFactory(offline(t), uniswapV3Factory, entities.ProtocolUniswapV3)
	tooBig := MaxFee + 1

	_, err := f.PoolFor(usdc, weth, tooBig)
	assert.ErrorIs(t, err, ErrInvalidFee)
	_, err = f.PoolAddress(entities.NewFeePoolKey(usdc, weth, tooBig))
	assert.ErrorIs(t, err, ErrInvalidFee)
	_, err = f.CreatePool(usdc, weth, tooBig)
	assert.ErrorIs(t, err, ErrInvalidFee)
	_, err = f.GetPool(usdc, weth, tooBig)
	assert.ErrorIs(t, err, ErrInvalidFee)
	_, err = f.FeeAmountTickSpacing(tooBig)
	assert.ErrorIs(t, err, ErrInvalidFee)
	assert.Equal(t, "invalid_fee", ErrorKind(err))

	// the largest uint24 still encodes
	_, err = f.PoolFor(usdc, weth, MaxFee)
	assert.NoError(t, err)
	call, err := f.CreatePool(usdc, weth, MaxFee)
	require.NoError(t, err)
	assert.Equal(t, common.LeftPadBytes(big.NewInt(1<<24-1).Bytes(), 32), call.Data()[68:100])
}

func TestAllPairsLength(t *testing.T) {
	f := NewFactory(contract.CallerFunc(func(ctx context.Context, msg ethereum.CallMsg) ([]byte, error) {
		return contract.UniswapV2Factory.Methods["allPairsLength"].Outputs.Pack(big.NewInt(412))
	}), uniswapV2Factory, entities.ProtocolUniswapV2)

	call, err := f.AllPairsLength()
	require.NoError(t, err)
	n, err := call.Call(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(412), n.Int64())

	_, err = NewFactory(nil, uniswapV3Factory, entities.ProtocolUniswapV3).AllPairsLength()
	assert.ErrorIs(t, err, ErrUnsupportedProtocol)
}

func TestCheckFeeTier(t *testing.T) {
	// tick spacing 1 for tier 200, 0 (disabled) otherwise
	node := contract.CallerFunc(func(ctx context.Context, msg ethereum.CallMsg) ([]byte, error) {
		method := contract.UniswapV3Factory.Methods["feeAmountTickSpacing"]
		args, err := method.Inputs.Unpack(msg.Data[4:])
		require.NoError(t, err)
		spacing := big.NewInt(0)
		if args[0].(*big.Int).Int64() == 200 {
			spacing = big.NewInt(1)
		}
		return method.Outputs.Pack(spacing)
	})
	ctx := context.Background()

	standard := NewFactory(offline(t), uniswapV3Factory, entities.ProtocolUniswapV3)
	for _, tier := range FeeTiers {
		assert.NoError(t, standard.CheckFeeTier(ctx, tier), "tier %d", tier)
	}

	f := NewFactory(node, uniswapV3Factory, entities.ProtocolUniswapV3)
	assert.NoError(t, f.CheckFeeTier(ctx, 200))
	assert.ErrorIs(t, f.CheckFeeTier(ctx, 250), ErrInvalidFee)
	assert.ErrorIs(t, f.CheckFeeTier(ctx, MaxFee+1), ErrInvalidFee)

	// without a client only the standard tiers are known
	assert.ErrorIs(t, NewFactory(nil, uniswapV3Factory, entities.ProtocolUniswapV3).CheckFeeTier(ctx, 200), ErrInvalidFee)

	assert.NoError(t, NewFactory(nil, uniswapV2Factory, entities.ProtocolUniswapV2).CheckFeeTier(ctx, 12345))
}

func TestPairForIsSymmetric(t *testing.T) {
	f := NewFactory(offline(t), uniswapV2Factory, entities.ProtocolUniswapV2)

	ab := f.PairFor(usdc, weth)
	ba := f.PairFor(weth, usdc)
	assert.Equal(t, ab.Address(), ba.Address())
	assert.Equal(t, ab.Token0(), ba.Token0())
	assert.Equal(t, usdc, ab.Token0())
	assert.Equal(t, weth, ab.Token1())

	// deterministic
	assert.Equal(t, ab.Address(), f.PairFor(usdc, weth).Address())

	_, ok := ab.Fee()
	assert.False(t, ok)

	other, ok := ab.Other(usdc)
	require.True(t, ok)
	assert.Equal(t, weth, other)
	_, ok = ab.Other(dai)
	assert.False(t, ok)
}

func TestPairCodeHash(t *testing.T) {
	f := NewFactory(nil, uniswapV2Factory, entities.ProtocolPancakeswapV2)

	_, ok := f.Chain()
	assert.False(t, ok)
	assert.Equal(t, pancakeswapV2CodeHash, f.PairCodeHash(nil))
	assert.False(t, f.CodeHashKnown(nil))

	bsc := entities.ChainBSC
	assert.True(t, f.CodeHashKnown(&bsc))

	ganache := entities.ChainGanache
	assert.Equal(t, pancakeswapV2CodeHash, f.PairCodeHash(&ganache))
	assert.False(t, f.CodeHashKnown(&ganache))

	f.SetChain(entities.ChainBSC)
	chain, ok := f.Chain()
	require.True(t, ok)
	assert.Equal(t, entities.ChainBSC, chain)
	assert.True(t, f.CodeHashKnown(nil))
}

func TestSetChainDoesNotRederive(t *testing.T) {
	h := common.HexToHash("0x0101010101010101010101010101010101010101010101010101010101010101")
	f := NewFactory(offline(t), uniswapV2Factory, entities.ProtocolUniswapV2)
	f.SetChain(entities.ChainMainnet)

	before := f.PairFor(usdc, weth)
	f.SetChain(entities.ChainGanache)
	after := f.PairFor(usdc, weth)

	// ganache falls back to the same uniswap hash
	assert.Equal(t, before.Address(), after.Address())

	custom := f.WithCodeHash(h).PairFor(usdc, weth)
	assert.NotEqual(t, before.Address(), custom.Address())
	assert.Equal(t, common.HexToAddress("0xB4e16d0168e52d35CaCD2c6185b44281Ec28C9Dc"), before.Address())
}

func TestCreatePair(t *testing.T) {
	f := NewFactory(offline(t), uniswapV2Factory, entities.ProtocolUniswapV2)

	call, err := f.CreatePair(usdc, weth)
	require.NoError(t, err)
	sel := call.Selector()
	assert.Equal(t, "c9c65396", hex.EncodeToString(sel[:]))
	assert.Equal(t, uniswapV2Factory, call.To())

	again, err := f.CreatePair(usdc, weth)
	require.NoError(t, err)
	assert.Equal(t, call.Data(), again.Data())

	_, err = f.CreatePair(usdc, usdc)
	assert.ErrorIs(t, err, ErrIdenticalAddresses)

	_, err = f.CreatePool(usdc, weth, FeeLow)
	assert.ErrorIs(t, err, ErrUnsupportedProtocol)
}

func TestCreatePool(t *testing.T) {
	f := NewFactory(offline(t), uniswapV3Factory, entities.ProtocolUniswapV3)

	call, err := f.CreatePool(usdc, weth, FeeLow)
	require.NoError(t, err)
	data := call.Data()
	assert.Equal(t, "a1671295", hex.EncodeToString(data[:4]))
	assert.Equal(t, common.LeftPadBytes(big.NewInt(500).Bytes(), 32), data[68:100])

	_, err = f.CreatePair(usdc, weth)
	assert.ErrorIs(t, err, ErrUnsupportedProtocol)
}

func TestGetPairMatchesDerivation(t *testing.T) {
	f := NewFactory(contract.CallerFunc(func(ctx context.Context, msg ethereum.CallMsg) ([]byte, error) {
		return contract.UniswapV2Factory.Methods["getPair"].Outputs.Pack(
			common.HexToAddress("0xB4e16d0168e52d35CaCD2c6185b44281Ec28C9Dc"))
	}), uniswapV2Factory, entities.ProtocolUniswapV2)

	call, err := f.GetPair(usdc, weth)
	require.NoError(t, err)
	onchain, err := call.Call(context.Background())
	require.NoError(t, err)
	assert.Equal(t, f.PairFor(usdc, weth).Address(), onchain)
}

func TestGetPool(t *testing.T) {
	f := NewFactory(nil, uniswapV3Factory, entities.ProtocolUniswapV3)

	call, err := f.GetPool(usdc, weth, FeeHigh)
	require.NoError(t, err)
	sel := call.Selector()
	assert.Equal(t, "1698ee82", hex.EncodeToString(sel[:]))

	viaPair, err := f.GetPair(usdc, weth)
	require.NoError(t, err)
	assert.Equal(t, "getPool", viaPair.Method())

	_, err = NewFactory(nil, uniswapV2Factory, entities.ProtocolUniswapV2).GetPool(usdc, weth, FeeHigh)
	assert.ErrorIs(t, err, ErrUnsupportedProtocol)
}

func TestCreatedQuery(t *testing.T) {
	q, err := NewFactory(nil, uniswapV2Factory, entities.ProtocolUniswapV2).CreatedQuery(big.NewInt(1), big.NewInt(2))
	require.NoError(t, err)
	assert.Equal(t, contract.UniswapV2Factory.Events["PairCreated"].ID, q.Topics[0][0])

	q, err = NewFactory(nil, uniswapV3Factory, entities.ProtocolUniswapV3).CreatedQuery(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, contract.UniswapV3Factory.Events["PoolCreated"].ID, q.Topics[0][0])
	assert.Equal(t, []common.Address{uniswapV3Factory}, q.Addresses)
}

func TestPairReserves(t *testing.T) {
	f := NewFactory(contract.CallerFunc(func(ctx context.Context, msg ethereum.CallMsg) ([]byte, error) {
		return contract.UniswapV2Pair.Methods["getReserves"].Outputs.Pack(big.NewInt(10), big.NewInt(20), uint32(1700000000))
	}), uniswapV2Factory, entities.ProtocolUniswapV2)

	pair := f.PairFor(usdc, weth)
	call, err := pair.GetReserves()
	require.NoError(t, err)
	assert.Equal(t, pair.Address(), call.To())

	r, err := call.Call(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(10), r.Reserve0.Int64())
	assert.Equal(t, int64(20), r.Reserve1.Int64())
	assert.Equal(t, uint32(1700000000), r.BlockTimestampLast)

	snap := pair.Snapshot(r)
	assert.Equal(t, uint64(30), snap.Fee)
	assert.Equal(t, usdc, snap.Token0.Address)

	q, err := pair.FilterQuery("Sync", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []common.Address{pair.Address()}, q.Addresses)

	_, err = pair.Liquidity()
	assert.ErrorIs(t, err, ErrUnsupportedProtocol)

	v3, err := NewFactory(nil, uniswapV3Factory, entities.ProtocolUniswapV3).PoolFor(usdc, weth, FeeLow)
	require.NoError(t, err)
	_, err = v3.GetReserves()
	assert.ErrorIs(t, err, ErrUnsupportedProtocol)
	_, err = v3.Liquidity()
	assert.NoError(t, err)
}
