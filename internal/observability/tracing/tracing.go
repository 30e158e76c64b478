package tracing

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// NewCycleContext tags ctx with a fresh traceId and the cycle sequence
// number, so every log line of one cycle can be correlated.
func NewCycleContext(ctx context.Context, cycle uint64) context.Context {
	id := uuid.New().String()
	logger := log.With().
		Str("traceId", id).
		Uint64("cycle", cycle).
		Logger()
	return logger.WithContext(ctx)
}
