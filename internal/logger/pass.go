package logger

import (
	"context"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"
)

// PassInfo identifies a single reconciliation run for log correlation
type PassInfo struct {
	Kind  string
	RunID string
}

// WithPass returns a context carrying a sentry hub tagged with the pass info,
// and a logger bound to that context
func WithPass(ctx context.Context, info PassInfo) (context.Context, *zap.Logger) {
	if ctx == nil {
		ctx = context.Background()
	}

	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	hub = hub.Clone()
	hub.ConfigureScope(func(scope *sentry.Scope) {
		scope.SetTag("pass.kind", info.Kind)
		scope.SetTag("pass.run_id", info.RunID)
	})
	ctx = sentry.SetHubOnContext(ctx, hub)

	return ctx, FromContext(ctx).With(
		zap.String("pass", info.Kind),
		zap.String("runID", info.RunID),
	)
}

// Component returns the global logger named after a component
func Component(name string) *zap.Logger {
	return log.Named(name)
}
