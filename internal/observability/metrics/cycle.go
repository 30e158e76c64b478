package metrics

import (
	"context"
	"time"
)

// cycleFunction alias is private and should be used only here
type cycleFunction = func(ctx context.Context) error

// RecordCycleDuration wraps one full report cycle and observes its duration
// with a success/error status label.
func RecordCycleDuration(f cycleFunction) cycleFunction {
	return func(ctx context.Context) error {
		startTime := time.Now()
		err := f(ctx)
		duration := time.Since(startTime).Seconds()

		status := Success
		if err != nil {
			status = Error
		}
		cycleDurationHistogram.WithLabelValues(status.String()).Observe(duration)

		return err
	}
}
