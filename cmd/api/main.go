package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/bimakw/amm-sdk/internal/config"
	"github.com/bimakw/amm-sdk/internal/domain/services"
	"github.com/bimakw/amm-sdk/internal/infrastructure/ethereum"
	"github.com/bimakw/amm-sdk/internal/metrics"
	"github.com/bimakw/amm-sdk/internal/presentation/handlers"
)

const (
	version = "0.1.0"
)

func main() {
	cfgPath := flag.String("config", getEnv("CONFIG_PATH", ""), "path to config.yaml")
	flag.Parse()

	// .env is optional
	_ = godotenv.Load()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		panic(err)
	}

	logger, err := newLogger(cfg.Log.Level)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	// Initialize Ethereum client
	ethClient, err := ethereum.NewClient(cfg.Chain.RPCURL)
	if err != nil {
		logger.Fatal("failed to connect to ethereum", zap.Error(err))
	}
	defer ethClient.Close()

	chain := ethClient.Chain()
	if override, ok := cfg.ChainOverride(); ok {
		chain = override
	}
	logger.Info("connected to ethereum",
		zap.String("chain_id", ethClient.ChainID().String()),
		zap.String("chain", chain.String()),
	)

	protocol, err := buildProtocol(cfg, ethClient, chain)
	if err != nil {
		logger.Fatal("no deployment", zap.Error(err))
	}
	if !protocol.Factory().CodeHashKnown(nil) {
		logger.Warn("no init code hash known for this chain, derived pool addresses use the protocol fallback",
			zap.String("protocol", string(protocol.Type())),
			zap.String("chain", chain.String()),
		)
	}

	quoteCache := newCache(cfg, logger)
	protocol = protocol.WithQuoter(buildQuoter(cfg, protocol, quoteCache, logger))

	registry, err := loadTokens(cfg)
	if err != nil {
		logger.Fatal("failed to load tokens", zap.Error(err))
	}

	builder := services.NewBuilderService(protocol, ethClient, logger)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.RequestTimeout()))
	r.Use(corsMiddleware)

	// Routes
	handlers.Mount(r, version, builder, registry)
	r.Handle("/metrics", metrics.Handler(nil))

	// Start server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		logger.Info("starting AMM API",
			zap.String("version", version),
			zap.String("port", cfg.Server.Port),
			zap.String("protocol", string(protocol.Type())),
			zap.String("factory", protocol.Factory().Address().Hex()),
			zap.String("router", protocol.Router().Address().Hex()),
			zap.String("quote_source", cfg.AMM.QuoteSource),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
		return
	}
	logger.Info("server stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
