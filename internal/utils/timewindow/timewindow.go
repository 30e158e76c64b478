// Package timewindow implements the daily time-of-day interval math behind
// the downtime guard. Windows are minute-granular, inclusive on both ends and
// evaluated against the UTC clock.
package timewindow

import (
	"fmt"
	"time"
)

type Window struct {
	start int // minutes since midnight
	end   int
}

// Parse builds a Window from two "HH:MM" strings. Windows that would wrap
// past midnight are rejected; the Tranquility downtime never does.
func Parse(start, end string) (Window, error) {
	startMin, err := parseClock(start)
	if err != nil {
		return Window{}, err
	}
	endMin, err := parseClock(end)
	if err != nil {
		return Window{}, err
	}
	if endMin < startMin {
		return Window{}, fmt.Errorf("window end %s precedes start %s", end, start)
	}

	return Window{start: startMin, end: endMin}, nil
}

func parseClock(value string) (int, error) {
	t, err := time.Parse("15:04", value)
	if err != nil {
		return 0, fmt.Errorf("invalid clock value %q: %w", value, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// Contains reports whether the UTC time-of-day of t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	utc := t.UTC()
	minute := utc.Hour()*60 + utc.Minute()
	return minute >= w.start && minute <= w.end
}

func (w Window) String() string {
	return fmt.Sprintf("%02d:%02d-%02d:%02d", w.start/60, w.start%60, w.end/60, w.end%60)
}
