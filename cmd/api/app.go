package main

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/bimakw/amm-sdk/internal/amm"
	"github.com/bimakw/amm-sdk/internal/config"
	"github.com/bimakw/amm-sdk/internal/domain/entities"
	"github.com/bimakw/amm-sdk/internal/domain/services"
	"github.com/bimakw/amm-sdk/internal/infrastructure/addressbook"
	"github.com/bimakw/amm-sdk/internal/infrastructure/cache"
	"github.com/bimakw/amm-sdk/internal/infrastructure/contract"
)

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.TimeKey = "time"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.EncodeDuration = zapcore.MillisDurationEncoder
	return cfg.Build()
}

// buildProtocol binds the configured deployment, or the address book entry
// for chain when none is configured.
func buildProtocol(cfg *config.Config, client contract.Caller, chain entities.Chain) (*amm.Protocol, error) {
	book := addressbook.Default()
	if w, ok := cfg.NativeWrapper(); ok {
		book = book.Clone().AddNativeWrapper(chain, w)
	}

	opts := []amm.Option{amm.UseAddressBook(book)}
	if h, ok := cfg.CodeHash(); ok {
		opts = append(opts, amm.UseCodeHash(h))
	}

	protocol := cfg.ProtocolType()
	if factory, router, ok := cfg.Deployment(); ok {
		opts = append(opts, amm.UseChain(chain))
		return amm.New(client, factory, router, protocol, opts...), nil
	}

	p, ok := amm.NewWithAddressBook(book, client, chain, protocol, opts...)
	if !ok {
		return nil, fmt.Errorf("%w: no %s router on %s, set amm.factory and amm.router",
			amm.ErrUnknownDeployment, protocol, chain)
	}
	return p, nil
}

// buildQuoter picks the quote source and puts the cache in front of it
func buildQuoter(cfg *config.Config, p *amm.Protocol, c cache.Cache, logger *zap.Logger) amm.Quoter {
	var source amm.Quoter = p.Router()
	if cfg.AMM.QuoteSource == config.QuoteSourceReserves {
		source = amm.NewReserveQuoter()
	}
	return services.NewCachedQuoter(source, c, cfg.QuoteCacheTTL(), logger)
}

func newCache(cfg *config.Config, logger *zap.Logger) cache.Cache {
	if cfg.Redis.Addr == "" {
		logger.Info("using in-memory quote cache")
		return cache.NewInMemoryCache()
	}

	rc, err := cache.NewRedisCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logger.Warn("redis unavailable, using in-memory quote cache",
			zap.String("addr", cfg.Redis.Addr),
			zap.Error(err),
		)
		return cache.NewInMemoryCache()
	}
	logger.Info("connected to redis", zap.String("addr", cfg.Redis.Addr))
	return rc
}

func loadTokens(cfg *config.Config) (*entities.TokenRegistry, error) {
	registry := entities.DefaultRegistry()
	if cfg.TokensFile == "" {
		return registry, nil
	}
	if err := registry.LoadFromFile(cfg.TokensFile); err != nil {
		return nil, fmt.Errorf("load tokens: %w", err)
	}
	return registry, nil
}
