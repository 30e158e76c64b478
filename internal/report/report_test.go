package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testThresholds = Thresholds{Low: 300, High: 500}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		total    int64
		expected Status
	}{
		{"below low", 250, StatusNeedsALot},
		{"exactly low", 300, StatusNeedsALot},
		{"between", 400, StatusNeedsMore},
		{"exactly high", 500, StatusNeedsMore},
		{"above high", 600, StatusAllGood},
		{"zero", 0, StatusNeedsALot},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Classify(tc.total, testThresholds))
		})
	}
}

func TestStatusIconsAreDistinct(t *testing.T) {
	assert.NotEqual(t, StatusAllGood.Icon(), StatusNeedsMore.Icon())
	assert.NotEqual(t, StatusNeedsMore.Icon(), StatusNeedsALot.Icon())
	assert.True(t, strings.HasPrefix(string(StatusAllGood.Icon()), "data:image/png;base64,"))
}

func TestBuildStatusReport(t *testing.T) {
	rows := []StatusRow{
		{Name: "1DQ1-A", Occupancy: 5.6, OneHourKills: 120, SixHourKills: 640, DayKills: 2100},
		{Name: "T5ZI-S", Occupancy: 1, OneHourKills: 0, SixHourKills: 12, DayKills: 45},
	}

	html, err := BuildStatusReport(rows, testThresholds)
	require.NoError(t, err)

	// Rows appear in input order with their aggregates.
	assert.Less(t, strings.Index(html, "1DQ1-A"), strings.Index(html, "T5ZI-S"))
	assert.Contains(t, html, "<td>2100</td>")
	assert.Contains(t, html, "<td>640</td>")

	// ADM renders without trailing zeros: 5.6 stays 5.6, 1 stays 1.
	assert.Contains(t, html, "<td>5.6</td>")
	assert.Contains(t, html, "<td>1</td>")

	// Icon classifies the 24h column.
	assert.Contains(t, html, string(StatusAllGood.Icon()))
	assert.Contains(t, html, string(StatusNeedsALot.Icon()))
}

func TestBuildStatusReport_EscapesSystemNames(t *testing.T) {
	rows := []StatusRow{{Name: "<script>alert(1)</script>"}}

	html, err := BuildStatusReport(rows, testThresholds)
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>")
}

func TestBuildWeeklyReport(t *testing.T) {
	labels := []string{"28.08", "27.08", "26.08"}
	rows := []WeeklyRow{
		{Name: "1DQ1-A", DayTotals: []int64{600, 400, 100}},
	}

	html, err := BuildWeeklyReport(labels, rows, testThresholds)
	require.NoError(t, err)

	for _, label := range labels {
		assert.Contains(t, html, label)
	}
	assert.Contains(t, html, string(StatusAllGood.Icon()))
	assert.Contains(t, html, string(StatusNeedsMore.Icon()))
	assert.Contains(t, html, string(StatusNeedsALot.Icon()))
}

func TestBuildWeeklyReport_RejectsMismatchedRow(t *testing.T) {
	labels := []string{"28.08", "27.08"}
	rows := []WeeklyRow{
		{Name: "1DQ1-A", DayTotals: []int64{600}},
	}

	_, err := BuildWeeklyReport(labels, rows, testThresholds)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1DQ1-A")
}
