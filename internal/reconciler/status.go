package reconciler

import (
	"time"

	"github.com/tcgmarket/market-indexer/internal/domain"
)

func (r *reconciler) passStatus(kind domain.ItemKind) *domain.PassStatus {
	if kind == domain.ItemKindBooster {
		return &r.status.Boosters
	}
	return &r.status.Cards
}

func (r *reconciler) markStarted(kind domain.ItemKind, runID string, startedAt time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.passStatus(kind)
	s.Running = true
	s.RunID = runID
	s.Runs++
	s.LastStartedAt = startedAt
}

func (r *reconciler) markFailed(kind domain.ItemKind, err error, duration time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.passStatus(kind)
	s.Running = false
	s.Failures++
	s.LastDuration = duration
	s.LastError = err.Error()
	s.LastErrorAt = r.clock.Now()
}

func (r *reconciler) markSucceeded(kind domain.ItemKind, result passResult, duration time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.passStatus(kind)
	s.Running = false
	s.LastDuration = duration
	s.LastSuccessAt = r.clock.Now()
	s.LastError = ""
	s.Owners = result.snapshot.OwnerCount()
	s.Items = result.snapshot.ItemCount()
	s.ForSale = len(result.snapshot.ForSale())
	s.Skipped = result.skipped
	s.Digest = result.snapshot.Digest()
}

// Status returns a copy of the current status
func (r *reconciler) Status() domain.ReconcilerStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()

	status := r.status
	snapshot := r.catalog.Load()
	status.CatalogSetID = snapshot.SetID()
	status.CatalogSize = snapshot.Len()
	return status
}
