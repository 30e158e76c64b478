package esiclient

import (
	"context"
	"time"

	"github.com/evetools/ratwatch/internal/observability/metrics"
	"github.com/evetools/ratwatch/internal/types"
)

type esiClientWithMetrics struct {
	esi EsiInterface
}

func NewClientWithMetrics(esi EsiInterface) *esiClientWithMetrics {
	return &esiClientWithMetrics{esi: esi}
}

func (e *esiClientWithMetrics) FetchSystemKills(ctx context.Context) (*KillsResult, error) {
	return runEsiClientMethodWithMetrics("FetchSystemKills", func() (*KillsResult, error) {
		return e.esi.FetchSystemKills(ctx)
	})
}

func (e *esiClientWithMetrics) FetchSovereigntyStructures(ctx context.Context) ([]types.SovSnapshot, error) {
	return runEsiClientMethodWithMetrics("FetchSovereigntyStructures", func() ([]types.SovSnapshot, error) {
		return e.esi.FetchSovereigntyStructures(ctx)
	})
}

func runEsiClientMethodWithMetrics[T any](method string, f func() (T, error)) (T, error) {
	startTime := time.Now()
	v, err := f()
	duration := time.Since(startTime)

	metrics.RecordEsiClientLatency(duration, method, err != nil)
	return v, err
}
