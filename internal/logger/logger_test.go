package logger

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observeLogs(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	previous := log
	log = zap.New(core)
	t.Cleanup(func() { log = previous })
	return logs
}

func TestInitialize_WithoutSentry(t *testing.T) {
	previous := log
	t.Cleanup(func() { log = previous })

	require.NoError(t, Initialize(Config{Debug: true, Service: "market-indexer"}))
	assert.NotNil(t, log)
	assert.Nil(t, sentryClient)
}

func TestHelpers(t *testing.T) {
	logs := observeLogs(t)
	ctx := context.Background()

	Info("info")
	WarnCtx(ctx, "warn", zap.String("kind", "card"))
	Error(errors.New("boom"))
	ErrorCtx(ctx, nil)
	DebugCtx(ctx, "debug")

	entries := logs.AllUntimed()
	require.Len(t, entries, 5)
	assert.Equal(t, "info", entries[0].Message)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, "card", entries[1].ContextMap()["kind"])
	assert.Equal(t, "boom", entries[2].Message)
	assert.Equal(t, "error occurred", entries[3].Message)
	assert.Equal(t, zapcore.DebugLevel, entries[4].Level)
}

func TestWithPass(t *testing.T) {
	logs := observeLogs(t)

	ctx, passLog := WithPass(context.Background(), PassInfo{Kind: "booster", RunID: "01J0000000000000000000000"})
	require.NotNil(t, ctx)
	passLog.Info("pass started")

	entries := logs.AllUntimed()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "booster", fields["pass"])
	assert.Equal(t, "01J0000000000000000000000", fields["runID"])
}

func TestComponent(t *testing.T) {
	logs := observeLogs(t)

	Component("cron").Info("tick")

	entries := logs.AllUntimed()
	require.Len(t, entries, 1)
	assert.Equal(t, "cron", entries[0].LoggerName)
}
