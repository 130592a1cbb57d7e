package domain

import "time"

// PassStatus describes the latest run of one pass kind
type PassStatus struct {
	Kind          ItemKind
	Running       bool
	RunID         string
	Runs          uint64
	Failures      uint64
	LastStartedAt time.Time
	LastSuccessAt time.Time
	LastDuration  time.Duration
	LastError     string
	LastErrorAt   time.Time
	Owners        int
	Items         int
	ForSale       int
	Skipped       int
	Digest        string
}

// ReconcilerStatus describes the reconciler as a whole
type ReconcilerStatus struct {
	CatalogSetID string
	CatalogSize  int
	Cards        PassStatus
	Boosters     PassStatus
}
