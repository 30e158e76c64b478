package report

import (
	"html/template"
)

// Status is the three-bucket classification of a kill total against the two
// configured thresholds.
type Status int

const (
	// StatusNeedsALot: total at or below the low threshold.
	StatusNeedsALot Status = iota
	// StatusNeedsMore: total above the low threshold but at or below the high one.
	StatusNeedsMore
	// StatusAllGood: total above the high threshold.
	StatusAllGood
)

type Thresholds struct {
	Low  int64
	High int64
}

// Classify buckets a kill total. Both comparisons are strict greater-than, so
// a total sitting exactly on a threshold falls into the lower bucket.
func Classify(total int64, t Thresholds) Status {
	switch {
	case total > t.High:
		return StatusAllGood
	case total > t.Low:
		return StatusNeedsMore
	default:
		return StatusNeedsALot
	}
}

const (
	iconAllGood   = "iVBORw0KGgoAAAANSUhEUgAAAAgAAAAICAIAAABLbSncAAAAEUlEQVR4nGMI/9SOFTEMLQkAR2t0AZEjuFsAAAAASUVORK5CYII="
	iconNeedsMore = "iVBORw0KGgoAAAANSUhEUgAAAAgAAAAICAIAAABLbSncAAAAEUlEQVR4nGP49zwGK2IYWhIAhZCQQY1Wt40AAAAASUVORK5CYII="
	iconNeedsALot = "iVBORw0KGgoAAAANSUhEUgAAAAgAAAAICAIAAABLbSncAAAAEUlEQVR4nGN46+SKFTEMLQkAgORdAe63lz0AAAAASUVORK5CYII="
)

// Icon returns the inline PNG data URI for a status.
func (s Status) Icon() template.URL {
	var encoded string
	switch s {
	case StatusAllGood:
		encoded = iconAllGood
	case StatusNeedsMore:
		encoded = iconNeedsMore
	default:
		encoded = iconNeedsALot
	}
	return template.URL("data:image/png;base64," + encoded)
}
