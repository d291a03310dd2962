package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bimakw/amm-sdk/internal/domain/entities"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

// clearEnv blanks the overrides so the host environment cannot leak in
func clearEnv(t *testing.T) {
	for _, key := range []string{
		"ETH_RPC_URL", "AMM_CHAIN", "REDIS_ADDR", "REDIS_PASSWORD", "PORT",
		"AMM_PROTOCOL", "AMM_FACTORY", "AMM_ROUTER", "AMM_NATIVE_WRAPPER",
		"AMM_CODE_HASH", "AMM_QUOTE_SOURCE", "LOG_LEVEL", "TOKENS_FILE", "QUOTE_CACHE_TTL_MS",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, entities.ProtocolUniswapV2, cfg.ProtocolType())
	assert.Equal(t, QuoteSourceRouter, cfg.AMM.QuoteSource)
	assert.Equal(t, 3*time.Second, cfg.QuoteCacheTTL())
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout())
	assert.Equal(t, "info", cfg.Log.Level)

	_, _, ok := cfg.Deployment()
	assert.False(t, ok)
	_, ok = cfg.ChainOverride()
	assert.False(t, ok)
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
server:
  port: "9000"
chain:
  rpc_url: http://localhost:8545
  chain: ganache
amm:
  protocol: sushiswap
  factory: "0xC0AEe478e3658e2610c5F7A4A2E1777cE9e4f2Ac"
  router: "0xd9e1cE17f2641f24aE83637ab66a2cca9C378B9F"
  native_wrapper: "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"
  code_hash: "0xe18a34eb0e04b04f7a0ac29a6e80748dca96319b42c54d679cb821dca90c6303"
  quote_source: reserves
cache:
  quote_ttl_ms: 500
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, entities.ProtocolSushiswap, cfg.ProtocolType())
	assert.Equal(t, QuoteSourceReserves, cfg.AMM.QuoteSource)
	assert.Equal(t, 500*time.Millisecond, cfg.QuoteCacheTTL())

	chain, ok := cfg.ChainOverride()
	require.True(t, ok)
	assert.Equal(t, entities.ChainGanache, chain)

	factory, router, ok := cfg.Deployment()
	require.True(t, ok)
	assert.Equal(t, common.HexToAddress("0xC0AEe478e3658e2610c5F7A4A2E1777cE9e4f2Ac"), factory)
	assert.Equal(t, common.HexToAddress("0xd9e1cE17f2641f24aE83637ab66a2cca9C378B9F"), router)

	w, ok := cfg.NativeWrapper()
	require.True(t, ok)
	assert.Equal(t, entities.WETH.Address, w)

	h, ok := cfg.CodeHash()
	require.True(t, ok)
	assert.Equal(t, common.HexToHash("0xe18a34eb0e04b04f7a0ac29a6e80748dca96319b42c54d679cb821dca90c6303"), h)
}

func TestEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "server:\n  port: \"9000\"\n")
	t.Setenv("PORT", "7000")
	t.Setenv("AMM_PROTOCOL", "pancakeswap_v2")
	t.Setenv("QUOTE_CACHE_TTL_MS", "100")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "7000", cfg.Server.Port)
	assert.Equal(t, entities.ProtocolPancakeswapV2, cfg.ProtocolType())
	assert.Equal(t, 100*time.Millisecond, cfg.QuoteCacheTTL())
}

func TestLoadRejectsInvalid(t *testing.T) {
	clearEnv(t)
	tests := []struct {
		name string
		body string
	}{
		{"unknown protocol", "amm:\n  protocol: curve\n"},
		{"bad factory", "amm:\n  factory: nope\n  router: \"0xd9e1cE17f2641f24aE83637ab66a2cca9C378B9F\"\n"},
		{"factory without router", "amm:\n  factory: \"0xC0AEe478e3658e2610c5F7A4A2E1777cE9e4f2Ac\"\n"},
		{"short code hash", "amm:\n  code_hash: \"0x1234\"\n"},
		{"unknown quote source", "amm:\n  quote_source: oracle\n"},
		{"unknown chain", "chain:\n  chain: atlantis\n"},
		{"malformed yaml", "amm: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
