package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tcgmarket/market-indexer/internal/adapter"
	"github.com/tcgmarket/market-indexer/internal/api/server"
	"github.com/tcgmarket/market-indexer/internal/cache"
	"github.com/tcgmarket/market-indexer/internal/catalog"
	"github.com/tcgmarket/market-indexer/internal/config"
	"github.com/tcgmarket/market-indexer/internal/logger"
	"github.com/tcgmarket/market-indexer/internal/messaging"
	"github.com/tcgmarket/market-indexer/internal/providers/ethereum"
	"github.com/tcgmarket/market-indexer/internal/providers/notifier"
	"github.com/tcgmarket/market-indexer/internal/providers/pokemontcg"
	"github.com/tcgmarket/market-indexer/internal/reconciler"
	"github.com/tcgmarket/market-indexer/internal/scheduler"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadIndexerConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		Service:         "market-indexer",
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting Market Indexer")

	if !common.IsHexAddress(cfg.Ethereum.RegistryAddress) {
		logger.FatalCtx(ctx, "Invalid registry address", zap.String("registry_address", cfg.Ethereum.RegistryAddress))
	}

	// Initialize adapters
	clock := adapter.NewClock()
	fs := adapter.NewFileSystem()
	jsonAdapter := adapter.NewJSON()
	jcs := adapter.NewJCS()

	// Connect to Ethereum
	ethClient, err := adapter.NewEthClientDialer().Dial(ctx, cfg.Ethereum.RPCURL)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to Ethereum", zap.Error(err), zap.String("rpc_url", cfg.Ethereum.RPCURL))
	}
	logger.InfoCtx(ctx, "Connected to Ethereum", zap.String("rpc_url", cfg.Ethereum.RPCURL))

	// Load contract ABIs
	abis, err := ethereum.LoadABIs(fs, ethereum.ABIPaths{
		Registry:   cfg.Ethereum.ABI.Registry,
		Collection: cfg.Ethereum.ABI.Collection,
		Booster:    cfg.Ethereum.ABI.Booster,
	})
	if err != nil {
		logger.FatalCtx(ctx, "Failed to load contract ABIs", zap.Error(err))
	}

	marketplaceClient := ethereum.NewClient(ethClient, common.HexToAddress(cfg.Ethereum.RegistryAddress), abis)
	defer marketplaceClient.Close()

	// Initialize catalog loader
	httpClient := adapter.NewHTTPClient(cfg.Catalog.HTTPTimeout)
	tcgClient := pokemontcg.NewClient(httpClient, cfg.Catalog.APIURL, cfg.Catalog.APIKey)
	catalogLoader := catalog.NewLoader(tcgClient, cfg.Catalog.SetID, cfg.Catalog.PageSize)

	// Initialize snapshot publisher
	publisher := messaging.NewNoopPublisher()
	if cfg.NATS.URL != "" {
		publisher, err = notifier.NewPublisher(notifier.Config{
			URL:            cfg.NATS.URL,
			SubjectPrefix:  cfg.NATS.SubjectPrefix,
			MaxReconnects:  cfg.NATS.MaxReconnects,
			ReconnectWait:  cfg.NATS.ReconnectWait,
			ConnectionName: cfg.NATS.ConnectionName,
		}, adapter.NewNatsDialer(), jsonAdapter)
		if err != nil {
			logger.FatalCtx(ctx, "Failed to connect to NATS", zap.Error(err), zap.String("url", cfg.NATS.URL))
		}
		logger.InfoCtx(ctx, "Connected to NATS", zap.String("subject_prefix", cfg.NATS.SubjectPrefix))
	} else {
		logger.WarnCtx(ctx, "NATS URL not configured, snapshot notifications are disabled")
	}
	defer publisher.Close()

	// Initialize serving cache and reconciler
	store := cache.NewStore(jsonAdapter, jcs)
	rec := reconciler.New(marketplaceClient, store, publisher, clock, reconciler.Config{
		CardOwnershipMode: cfg.Reconciler.CardOwnershipMode,
		WorkerPoolSize:    cfg.Reconciler.Worker.WorkerPoolSize,
		WorkerQueueSize:   cfg.Reconciler.Worker.WorkerQueueSize,
	})
	defer rec.Close()

	passScheduler := scheduler.New(scheduler.Config{Interval: cfg.Reconciler.Interval}, rec, catalogLoader)

	srv := server.New(server.Config{
		Debug:        cfg.Debug,
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}, store, rec)

	logger.InfoCtx(ctx, "Initialized market indexer",
		zap.String("address", cfg.Server.Addr()),
		zap.String("registry_address", cfg.Ethereum.RegistryAddress),
		zap.String("card_ownership_mode", string(cfg.Reconciler.CardOwnershipMode)),
		zap.Duration("interval", cfg.Reconciler.Interval),
	)

	// The API serves empty snapshots until the first passes publish
	errCh := make(chan error, 2)
	go func() {
		if err := srv.Start(); err != nil {
			errCh <- fmt.Errorf("server: %w", err)
		}
	}()
	go func() {
		if err := passScheduler.Start(ctx); err != nil {
			errCh <- fmt.Errorf("scheduler: %w", err)
		}
	}()

	// Wait for interrupt signal or error
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
	case err := <-errCh:
		logger.ErrorCtx(ctx, err)
	}

	// Shutdown context with timeout (don't use the canceled ctx)
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.ErrorCtx(shutdownCtx, err)
	}

	// Cancel in-flight passes, nothing partial is published
	cancel()
	if err := passScheduler.Stop(shutdownCtx); err != nil {
		logger.ErrorCtx(shutdownCtx, err)
	}

	logger.Info("Market indexer stopped")
}
