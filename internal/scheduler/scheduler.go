package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/tcgmarket/market-indexer/internal/catalog"
	"github.com/tcgmarket/market-indexer/internal/domain"
	"github.com/tcgmarket/market-indexer/internal/logger"
	"github.com/tcgmarket/market-indexer/internal/reconciler"
)

// Scheduler drives the reconciliation passes for the lifetime of the service
type Scheduler interface {
	// Start loads the catalog, runs one pass of each kind and then schedules them
	// This is a blocking call that runs until the context is canceled or Stop is called
	Start(ctx context.Context) error

	// Stop stops scheduling and waits for in-flight passes
	Stop(ctx context.Context) error

	// Name returns the scheduler's name for logging and identification
	Name() string
}

// Config holds the scheduler configuration
type Config struct {
	Interval time.Duration // delay between two passes of the same kind
}

type passScheduler struct {
	config     Config
	reconciler reconciler.Reconciler
	loader     catalog.Loader
	cron       *cron.Cron

	running   atomic.Bool
	stopOnce  sync.Once
	stopChan  chan struct{}
	stoppedCh chan struct{}
}

// New creates a scheduler for the card and booster passes
func New(config Config, r reconciler.Reconciler, loader catalog.Loader) Scheduler {
	if config.Interval <= 0 {
		config.Interval = 5 * time.Second
	}

	return &passScheduler{
		config:     config,
		reconciler: r,
		loader:     loader,
		cron: cron.New(cron.WithChain(
			cron.SkipIfStillRunning(newCronLogger()),
			cron.Recover(newCronLogger()),
		)),
		stopChan:  make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}
}

// Name returns the scheduler's name
func (s *passScheduler) Name() string {
	return "pass-scheduler"
}

// Start runs the startup passes and then the scheduled ones
func (s *passScheduler) Start(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return fmt.Errorf("scheduler already running")
	}
	defer close(s.stoppedCh)

	logger.InfoCtx(ctx, "Starting pass scheduler", zap.Duration("interval", s.config.Interval))

	// Startup order: the card pass needs the catalog
	s.reconciler.SetCatalog(s.loader.Load(ctx))
	s.runPass(ctx, domain.ItemKindCard)
	s.runPass(ctx, domain.ItemKindBooster)

	spec := fmt.Sprintf("@every %s", s.config.Interval)
	for _, kind := range []domain.ItemKind{domain.ItemKindCard, domain.ItemKindBooster} {
		if _, err := s.cron.AddFunc(spec, func() { s.runPass(ctx, kind) }); err != nil {
			return fmt.Errorf("failed to schedule %s pass: %w", kind, err)
		}
	}
	s.cron.Start()

	select {
	case <-ctx.Done():
		logger.InfoCtx(ctx, "Pass scheduler stopping due to context cancellation", zap.Error(ctx.Err()))
	case <-s.stopChan:
		logger.InfoCtx(ctx, "Pass scheduler stop requested")
	}

	// Wait for in-flight passes
	<-s.cron.Stop().Done()
	return nil
}

// Stop signals the scheduler loop and waits for it to drain, bounded by ctx
func (s *passScheduler) Stop(ctx context.Context) error {
	if !s.running.Load() {
		return nil
	}

	logger.InfoCtx(ctx, "Stopping pass scheduler")
	s.stopOnce.Do(func() { close(s.stopChan) })

	select {
	case <-s.stoppedCh:
		logger.InfoCtx(ctx, "Pass scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		logger.WarnCtx(ctx, "Pass scheduler stop interrupted by context timeout")
		return ctx.Err()
	}
}

// runPass runs one pass, the reconciler already logs and records failures
func (s *passScheduler) runPass(ctx context.Context, kind domain.ItemKind) {
	if ctx.Err() != nil {
		return
	}

	var err error
	switch kind {
	case domain.ItemKindCard:
		err = s.reconciler.RunCardPass(ctx)
	case domain.ItemKindBooster:
		err = s.reconciler.RunBoosterPass(ctx)
	}

	switch {
	case err == nil:
	case errors.Is(err, domain.ErrPassInProgress):
		logger.DebugCtx(ctx, "Skipping pass, previous run still in progress", zap.String("pass", kind.String()))
	case errors.Is(err, context.Canceled):
		logger.DebugCtx(ctx, "Pass canceled", zap.String("pass", kind.String()))
	default:
		logger.WarnCtx(ctx, "Pass failed, keeping previous snapshot", zap.String("pass", kind.String()), zap.Error(err))
	}
}

// cronLogger routes cron's own logging through zap
type cronLogger struct {
	log *zap.Logger
}

func newCronLogger() cron.Logger {
	return &cronLogger{log: logger.Component("cron")}
}

func (l *cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug(msg, fields(keysAndValues)...)
}

func (l *cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error(msg, append(fields(keysAndValues), zap.Error(err))...)
}

func fields(keysAndValues []interface{}) []zap.Field {
	out := make([]zap.Field, 0, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			key = fmt.Sprint(keysAndValues[i])
		}
		out = append(out, zap.Any(key, keysAndValues[i+1]))
	}
	return out
}
