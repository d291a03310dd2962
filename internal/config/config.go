package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"gopkg.in/yaml.v3"

	"github.com/bimakw/amm-sdk/internal/domain/entities"
)

const (
	QuoteSourceRouter   = "router"
	QuoteSourceReserves = "reserves"
)

type Config struct {
	Server struct {
		Port             string `yaml:"port"`
		RequestTimeoutMs int    `yaml:"request_timeout_ms"`
	} `yaml:"server"`

	Chain struct {
		RPCURL string `yaml:"rpc_url"`
		// Chain overrides the chain id reported by the node, by name or id
		Chain string `yaml:"chain"`
	} `yaml:"chain"`

	AMM struct {
		Protocol      string `yaml:"protocol"`
		Factory       string `yaml:"factory"`
		Router        string `yaml:"router"`
		NativeWrapper string `yaml:"native_wrapper"`
		CodeHash      string `yaml:"code_hash"`
		QuoteSource   string `yaml:"quote_source"`
	} `yaml:"amm"`

	Cache struct {
		QuoteTTLMs int `yaml:"quote_ttl_ms"`
	} `yaml:"cache"`

	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`

	TokensFile string `yaml:"tokens_file"`
}

// Load reads the YAML file at path, applies environment overrides and fills
// defaults. An empty path skips the file.
func Load(path string) (*Config, error) {
	var c Config
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	c.applyEnv()
	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) applyEnv() {
	setFromEnv(&c.Chain.RPCURL, "ETH_RPC_URL")
	setFromEnv(&c.Chain.Chain, "AMM_CHAIN")
	setFromEnv(&c.Redis.Addr, "REDIS_ADDR")
	setFromEnv(&c.Redis.Password, "REDIS_PASSWORD")
	setFromEnv(&c.Server.Port, "PORT")
	setFromEnv(&c.AMM.Protocol, "AMM_PROTOCOL")
	setFromEnv(&c.AMM.Factory, "AMM_FACTORY")
	setFromEnv(&c.AMM.Router, "AMM_ROUTER")
	setFromEnv(&c.AMM.NativeWrapper, "AMM_NATIVE_WRAPPER")
	setFromEnv(&c.AMM.CodeHash, "AMM_CODE_HASH")
	setFromEnv(&c.AMM.QuoteSource, "AMM_QUOTE_SOURCE")
	setFromEnv(&c.Log.Level, "LOG_LEVEL")
	setFromEnv(&c.TokensFile, "TOKENS_FILE")

	if v := os.Getenv("QUOTE_CACHE_TTL_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil {
			c.Cache.QuoteTTLMs = ms
		}
	}
}

func setFromEnv(dst *string, key string) {
	if value := os.Getenv(key); value != "" {
		*dst = value
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if c.Server.RequestTimeoutMs == 0 {
		c.Server.RequestTimeoutMs = 30000
	}
	if c.Chain.RPCURL == "" {
		c.Chain.RPCURL = "https://eth.llamarpc.com"
	}
	if c.AMM.Protocol == "" {
		c.AMM.Protocol = string(entities.ProtocolUniswapV2)
	}
	if c.AMM.QuoteSource == "" {
		c.AMM.QuoteSource = QuoteSourceRouter
	}
	if c.Cache.QuoteTTLMs == 0 {
		c.Cache.QuoteTTLMs = 3000
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate checks values that cannot be fixed by defaults
func (c *Config) Validate() error {
	var errs []error

	if _, err := entities.ParseProtocolType(c.AMM.Protocol); err != nil {
		errs = append(errs, err)
	}
	for name, addr := range map[string]string{
		"amm.factory":        c.AMM.Factory,
		"amm.router":         c.AMM.Router,
		"amm.native_wrapper": c.AMM.NativeWrapper,
	} {
		if addr != "" && !common.IsHexAddress(addr) {
			errs = append(errs, fmt.Errorf("%s: invalid address %q", name, addr))
		}
	}
	if (c.AMM.Factory == "") != (c.AMM.Router == "") {
		errs = append(errs, errors.New("amm.factory and amm.router must be set together"))
	}
	if c.AMM.CodeHash != "" {
		if b, err := hexutil.Decode(c.AMM.CodeHash); err != nil || len(b) != common.HashLength {
			errs = append(errs, fmt.Errorf("amm.code_hash: want 32 bytes of 0x-prefixed hex, got %q", c.AMM.CodeHash))
		}
	}
	if c.AMM.QuoteSource != QuoteSourceRouter && c.AMM.QuoteSource != QuoteSourceReserves {
		errs = append(errs, fmt.Errorf("amm.quote_source: unknown source %q", c.AMM.QuoteSource))
	}
	if c.Chain.Chain != "" {
		if _, err := entities.ParseChain(c.Chain.Chain); err != nil {
			errs = append(errs, fmt.Errorf("chain.chain: %w", err))
		}
	}
	if c.Cache.QuoteTTLMs < 0 {
		errs = append(errs, errors.New("cache.quote_ttl_ms must not be negative"))
	}

	return errors.Join(errs...)
}

func (c *Config) ProtocolType() entities.ProtocolType {
	p, _ := entities.ParseProtocolType(c.AMM.Protocol)
	return p
}

// ChainOverride returns the configured chain, if any
func (c *Config) ChainOverride() (entities.Chain, bool) {
	if c.Chain.Chain == "" {
		return 0, false
	}
	chain, err := entities.ParseChain(c.Chain.Chain)
	return chain, err == nil
}

// Deployment returns the explicitly configured factory and router
func (c *Config) Deployment() (factory, router common.Address, ok bool) {
	if c.AMM.Factory == "" || c.AMM.Router == "" {
		return common.Address{}, common.Address{}, false
	}
	return common.HexToAddress(c.AMM.Factory), common.HexToAddress(c.AMM.Router), true
}

func (c *Config) NativeWrapper() (common.Address, bool) {
	if c.AMM.NativeWrapper == "" {
		return common.Address{}, false
	}
	return common.HexToAddress(c.AMM.NativeWrapper), true
}

func (c *Config) CodeHash() (common.Hash, bool) {
	if c.AMM.CodeHash == "" {
		return common.Hash{}, false
	}
	return common.HexToHash(c.AMM.CodeHash), true
}

func (c *Config) QuoteCacheTTL() time.Duration {
	return time.Duration(c.Cache.QuoteTTLMs) * time.Millisecond
}

func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Server.RequestTimeoutMs) * time.Millisecond
}
