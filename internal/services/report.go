package services

import (
	"context"
	"fmt"
	"time"

	"github.com/evetools/ratwatch/internal/report"
)

const (
	statusReportFilename = "rattingReport.png"
	weeklyReportFilename = "lastDaysReport.png"
)

func (s *Service) thresholds() report.Thresholds {
	return report.Thresholds{
		Low:  s.cfg.Report.LowThreshold,
		High: s.cfg.Report.HighThreshold,
	}
}

// renderStatusReport builds the current-status table. The 1h column is the
// cycle's raw kill count; the 6h/24h columns are fresh trailing sums over
// history, queried per system per window.
func (s *Service) renderStatusReport(ctx context.Context, snapshot *cycleSnapshot) ([]byte, error) {
	now := s.now().UTC()

	rows := make([]report.StatusRow, 0, len(snapshot.systems))
	for _, entry := range snapshot.systems {
		sixHours, err := s.db.SumNpcKillsSince(ctx, entry.system.SystemID, now.Add(-6*time.Hour))
		if err != nil {
			return nil, fmt.Errorf("6h aggregate for %s: %w", entry.system.Name, err)
		}
		day, err := s.db.SumNpcKillsSince(ctx, entry.system.SystemID, now.Add(-24*time.Hour))
		if err != nil {
			return nil, fmt.Errorf("24h aggregate for %s: %w", entry.system.Name, err)
		}

		rows = append(rows, report.StatusRow{
			Name:         entry.system.Name,
			Occupancy:    entry.occupancy,
			OneHourKills: entry.kills.NpcKills,
			SixHourKills: sixHours,
			DayKills:     day,
		})
	}

	html, err := report.BuildStatusReport(rows, s.thresholds())
	if err != nil {
		return nil, err
	}
	return s.renderer.Render(ctx, html, s.cfg.Report.StatusWidth)
}

// renderWeeklyReport builds the trailing-week table: the seven full UTC
// calendar days before today, most recent first, each summed independently.
func (s *Service) renderWeeklyReport(ctx context.Context) ([]byte, error) {
	now := s.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	labels := make([]string, 0, 7)
	starts := make([]time.Time, 0, 7)
	for back := 1; back <= 7; back++ {
		day := today.AddDate(0, 0, -back)
		labels = append(labels, day.Format("02.01"))
		starts = append(starts, day)
	}

	rows := make([]report.WeeklyRow, 0, len(s.cfg.Report.Systems))
	for _, system := range s.cfg.Report.Systems {
		totals := make([]int64, 0, len(starts))
		for _, start := range starts {
			total, err := s.db.SumNpcKillsBetween(ctx, system.SystemID, start, start.AddDate(0, 0, 1))
			if err != nil {
				return nil, fmt.Errorf("daily aggregate for %s: %w", system.Name, err)
			}
			totals = append(totals, total)
		}
		rows = append(rows, report.WeeklyRow{Name: system.Name, DayTotals: totals})
	}

	html, err := report.BuildWeeklyReport(labels, rows, s.thresholds())
	if err != nil {
		return nil, err
	}
	return s.renderer.Render(ctx, html, s.cfg.Report.WeeklyWidth)
}
