package types

import (
	"fmt"
)

// SovereigntyGapError reports a tracked system with no sovereignty record in
// the upstream response. Unlike missing kill records, which default to zero,
// a sovereignty gap fails the whole cycle before anything is persisted.
type SovereigntyGapError struct {
	SystemID int64
	Name     string
}

func (e *SovereigntyGapError) Error() string {
	return fmt.Sprintf("no sovereignty record for tracked system %s (%d)", e.Name, e.SystemID)
}
