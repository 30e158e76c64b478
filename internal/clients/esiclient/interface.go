package esiclient

import (
	"context"
	"time"

	"github.com/evetools/ratwatch/internal/types"
)

// KillsResult is one batch fetch of the global system kill counters.
// LastModified is the server-reported freshness timestamp and doubles as the
// persistence dedup key downstream.
type KillsResult struct {
	LastModified time.Time
	Kills        []types.KillSnapshot
}

type EsiInterface interface {
	FetchSystemKills(ctx context.Context) (*KillsResult, error)
	FetchSovereigntyStructures(ctx context.Context) ([]types.SovSnapshot, error)
}
