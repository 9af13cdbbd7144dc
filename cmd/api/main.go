package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/bimakw/amm-quoter/internal/config"
	"github.com/bimakw/amm-quoter/internal/domain/entities"
	"github.com/bimakw/amm-quoter/internal/domain/events"
	"github.com/bimakw/amm-quoter/internal/domain/services"
	"github.com/bimakw/amm-quoter/internal/infrastructure/cache"
	"github.com/bimakw/amm-quoter/internal/infrastructure/dex"
	"github.com/bimakw/amm-quoter/internal/infrastructure/ethereum"
	"github.com/bimakw/amm-quoter/internal/logging"
	"github.com/bimakw/amm-quoter/internal/presentation/handlers"
)

const (
	version = "0.3.0"
)

func main() {
	// A missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	cfg, err := config.FromEnv()
	if err != nil {
		// No logger yet; zap's example logger is enough to report this.
		zap.NewExample().Fatal("invalid configuration", zap.Error(err))
	}

	logger, err := logging.NewLogger(cfg.LogLevel)
	if err != nil {
		zap.NewExample().Fatal("invalid log level", zap.Error(err))
	}
	defer logger.Sync()

	// Initialize Ethereum client
	ethClient, err := ethereum.NewClient(context.Background(), cfg.RPCEndpoint)
	if err != nil {
		logger.Fatal("failed to connect to Ethereum", zap.Error(err))
	}
	defer ethClient.Close()
	logger.Info("connected to Ethereum", zap.String("chainId", ethClient.ChainID().String()))

	// Initialize LP token cache
	lpCache := newLPTokenCache(cfg, logger)

	tokens := entities.DefaultRegistry()
	if cfg.TokensFile != "" {
		if err := tokens.LoadFromFile(cfg.TokensFile); err != nil {
			logger.Fatal("failed to load tokens", zap.String("file", cfg.TokensFile), zap.Error(err))
		}
	}
	logger.Info("token registry loaded", zap.Int("tokens", tokens.Count()))

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := services.NewMetrics(reg)

	// Chain access
	reader := dex.NewUniswapV2Reader(ethClient, cfg.FactoryAddress, cfg.MaxPairs)
	routerBuilder, err := dex.NewUniswapV2RouterBuilder(cfg.RouterAddress)
	if err != nil {
		logger.Fatal("failed to build router ABI", zap.Error(err))
	}
	submitter := ethereum.NewDryRunSubmitter(ethClient)

	// Initialize services
	decoder := events.NewDecoder(logger.Named("events"), metrics.EventsDecoded())
	tracker := services.NewReserveTracker(reader, decoder, cfg.PoolMap, logger.Named("tracker"))
	logger.Info("event ingestion configured", zap.Int("pools", len(cfg.PoolMap)))
	routerService := services.NewRouterService(reader, tracker, cfg.FeeBps, cfg.Deadline, logger.Named("router"), metrics)
	liquidityService := services.NewLiquidityService(tracker, reader, reader, lpCache, logger.Named("liquidity"), metrics)
	liquidityTxService := services.NewLiquidityTxService(routerBuilder, submitter, cfg.Deadline, logger.Named("liquidity_tx"))
	poolService := services.NewPoolService(reader, tracker, logger.Named("pools"))

	r := handlers.NewRouter(handlers.Handlers{
		Health:    handlers.NewHealthHandler(version, ethClient),
		Quote:     handlers.NewQuoteHandler(routerService, tokens),
		Price:     handlers.NewPriceHandler(liquidityService, tokens),
		Liquidity: handlers.NewLiquidityHandler(liquidityService, liquidityTxService, tokens),
		Position:  handlers.NewPositionHandler(liquidityService),
		Pool:      handlers.NewPoolHandler(poolService),
		Events:    handlers.NewEventsHandler(tracker),
		Metrics:   promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	})

	// Start server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		logger.Info("starting AMM quoter API", zap.String("version", version), zap.String("port", cfg.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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

// newLPTokenCache uses Redis when configured and reachable, otherwise an
// in-process map.
func newLPTokenCache(cfg *config.Config, logger *zap.Logger) cache.LPTokenCache {
	if cfg.RedisAddr == "" {
		logger.Info("using in-memory LP token cache")
		return cache.NewInMemoryLPTokenCache()
	}

	redisCache, err := cache.NewRedisLPTokenCache(cfg.RedisAddr, cfg.RedisPassword, 0)
	if err != nil {
		logger.Warn("failed to connect to Redis, using in-memory LP token cache", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		return cache.NewInMemoryLPTokenCache()
	}
	logger.Info("connected to Redis", zap.String("addr", cfg.RedisAddr))
	return redisCache
}
