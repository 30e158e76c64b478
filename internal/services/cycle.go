package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/evetools/ratwatch/internal/clients/esiclient"
	"github.com/evetools/ratwatch/internal/config"
	"github.com/evetools/ratwatch/internal/db/model"
	"github.com/evetools/ratwatch/internal/observability/metrics"
	"github.com/evetools/ratwatch/internal/types"
)

// recordShift moves persisted timestamps slightly past the upstream
// Last-Modified, so "as of" times line up with the expected reporting cadence.
const recordShift = 5 * time.Minute

// systemSnapshot is one tracked system's view of the current cycle.
type systemSnapshot struct {
	system    config.TrackedSystem
	kills     types.KillSnapshot
	occupancy float64
}

// cycleSnapshot is the reconciled state of one cycle: exactly one entry per
// tracked system, in configured order. Discarded when the cycle ends.
type cycleSnapshot struct {
	lastModified time.Time
	systems      []systemSnapshot
}

// runCycle executes one full fetch-persist-render-publish-prune sequence.
// Any error aborts the rest of the sequence; the scheduler logs it and moves
// on to the next refresh slot.
func (s *Service) runCycle(ctx context.Context) error {
	killsResult, err := s.esi.FetchSystemKills(ctx)
	if err != nil {
		return fmt.Errorf("kill fetch failed: %w", err)
	}

	sovereignty, err := s.esi.FetchSovereigntyStructures(ctx)
	if err != nil {
		return fmt.Errorf("sovereignty fetch failed: %w", err)
	}

	snapshot, err := s.reconcile(killsResult, sovereignty)
	if err != nil {
		return err
	}

	if err := s.persistHistory(ctx, snapshot); err != nil {
		return fmt.Errorf("history write failed: %w", err)
	}

	statusImage, err := s.renderStatusReport(ctx, snapshot)
	if err != nil {
		return fmt.Errorf("status report failed: %w", err)
	}

	var weeklyImage []byte
	if s.cfg.Report.EnableWeeklyStats {
		weeklyImage, err = s.renderWeeklyReport(ctx)
		if err != nil {
			return fmt.Errorf("weekly report failed: %w", err)
		}
	}

	if err := s.publish(ctx, statusImage, weeklyImage); err != nil {
		return fmt.Errorf("publish failed: %w", err)
	}

	return s.pruneHistory(ctx)
}

// reconcile maps the raw fetches onto the configured system list. Systems
// missing from the kill batch get a zero-valued snapshot; a system missing
// from the sovereignty batch fails the cycle.
func (s *Service) reconcile(killsResult *esiclient.KillsResult, sovereignty []types.SovSnapshot) (*cycleSnapshot, error) {
	killsByID := make(map[int64]types.KillSnapshot, len(killsResult.Kills))
	for _, kill := range killsResult.Kills {
		if _, ok := killsByID[kill.SystemID]; !ok {
			killsByID[kill.SystemID] = kill
		}
	}

	sovByID := make(map[int64]types.SovSnapshot, len(sovereignty))
	for _, sov := range sovereignty {
		// First match wins; sovereignty lists one structure per system but
		// the contract only promises at least one.
		if _, ok := sovByID[sov.SystemID]; !ok {
			sovByID[sov.SystemID] = sov
		}
	}

	snapshot := &cycleSnapshot{
		lastModified: killsResult.LastModified,
		systems:      make([]systemSnapshot, 0, len(s.cfg.Report.Systems)),
	}
	for _, system := range s.cfg.Report.Systems {
		kills, ok := killsByID[system.SystemID]
		if !ok {
			kills = types.KillSnapshot{SystemID: system.SystemID}
		}

		sov, ok := sovByID[system.SystemID]
		if !ok {
			return nil, &types.SovereigntyGapError{SystemID: system.SystemID, Name: system.Name}
		}

		snapshot.systems = append(snapshot.systems, systemSnapshot{
			system:    system,
			kills:     kills,
			occupancy: sov.OccupancyLevel,
		})
	}

	return snapshot, nil
}

// persistHistory appends one record per tracked system unless history already
// holds a record at or past the batch's freshness timestamp, in which case
// the whole write is skipped: the upstream snapshot has not advanced since
// the last poll.
func (s *Service) persistHistory(ctx context.Context, snapshot *cycleSnapshot) error {
	alreadyCaptured, err := s.db.HasHistorySince(ctx, snapshot.lastModified)
	if err != nil {
		return err
	}
	if alreadyCaptured {
		metrics.IncSkippedPersist()
		log.Ctx(ctx).Debug().
			Time("last_modified", snapshot.lastModified).
			Msg("upstream snapshot unchanged, skipping history write")
		return nil
	}

	recordedAt := snapshot.lastModified.Add(recordShift)
	records := make([]*model.HistoryDocument, 0, len(snapshot.systems))
	for _, entry := range snapshot.systems {
		records = append(records, &model.HistoryDocument{
			SystemID:       entry.system.SystemID,
			NpcKills:       entry.kills.NpcKills,
			OccupancyLevel: entry.occupancy,
			RecordedAt:     recordedAt,
		})
	}

	if err := s.db.InsertHistoryRecords(ctx, records); err != nil {
		return err
	}

	log.Ctx(ctx).Info().
		Int("records", len(records)).
		Time("recorded_at", recordedAt).
		Msg("history records written")
	return nil
}

// pruneHistory drops records older than the retention window. The existence
// probe is cheap; the delete only runs when something is actually due.
func (s *Service) pruneHistory(ctx context.Context) error {
	cutoff := s.now().UTC().Add(-s.cfg.Poller.Retention())

	due, err := s.db.HasHistoryOlderThan(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("retention probe failed: %w", err)
	}
	if !due {
		return nil
	}

	deleted, err := s.db.DeleteHistoryOlderThan(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("retention sweep failed: %w", err)
	}

	metrics.RecordPrunedRecords(deleted)
	log.Ctx(ctx).Info().
		Int64("deleted", deleted).
		Time("cutoff", cutoff).
		Msg("pruned aged history records")
	return nil
}
