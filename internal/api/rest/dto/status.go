package dto

import (
	"time"

	"github.com/tcgmarket/market-indexer/internal/domain"
)

// HealthResponse is returned by the health check
type HealthResponse struct {
	Status string `json:"status"`
}

// PassStatusResponse describes the latest run of one pass kind
type PassStatusResponse struct {
	Running       bool       `json:"running"`
	RunID         string     `json:"runId,omitempty"`
	Runs          uint64     `json:"runs"`
	Failures      uint64     `json:"failures"`
	LastStartedAt *time.Time `json:"lastStartedAt,omitempty"`
	LastSuccessAt *time.Time `json:"lastSuccessAt,omitempty"`
	LastDuration  string     `json:"lastDuration,omitempty"`
	LastError     string     `json:"lastError,omitempty"`
	LastErrorAt   *time.Time `json:"lastErrorAt,omitempty"`
	Owners        int        `json:"owners"`
	Items         int        `json:"items"`
	ForSale       int        `json:"forSale"`
	Skipped       int        `json:"skipped"`
	Digest        string     `json:"digest,omitempty"`
}

// CatalogStatusResponse describes the loaded card catalog
type CatalogStatusResponse struct {
	SetID string `json:"setId"`
	Size  int    `json:"size"`
}

// StatusResponse describes the indexer
type StatusResponse struct {
	Catalog  CatalogStatusResponse `json:"catalog"`
	Cards    PassStatusResponse    `json:"cards"`
	Boosters PassStatusResponse    `json:"boosters"`
}

// ToStatusResponse converts the reconciler status
func ToStatusResponse(status domain.ReconcilerStatus) StatusResponse {
	return StatusResponse{
		Catalog: CatalogStatusResponse{
			SetID: status.CatalogSetID,
			Size:  status.CatalogSize,
		},
		Cards:    toPassStatusResponse(status.Cards),
		Boosters: toPassStatusResponse(status.Boosters),
	}
}

func toPassStatusResponse(s domain.PassStatus) PassStatusResponse {
	resp := PassStatusResponse{
		Running:       s.Running,
		RunID:         s.RunID,
		Runs:          s.Runs,
		Failures:      s.Failures,
		LastStartedAt: timePtr(s.LastStartedAt),
		LastSuccessAt: timePtr(s.LastSuccessAt),
		LastError:     s.LastError,
		LastErrorAt:   timePtr(s.LastErrorAt),
		Owners:        s.Owners,
		Items:         s.Items,
		ForSale:       s.ForSale,
		Skipped:       s.Skipped,
		Digest:        s.Digest,
	}
	if s.LastDuration > 0 {
		resp.LastDuration = s.LastDuration.String()
	}
	return resp
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
