package db

import (
	"context"
	"time"

	"github.com/evetools/ratwatch/internal/db/model"
	"github.com/evetools/ratwatch/internal/observability/metrics"
)

type DbWithMetrics struct {
	db DbInterface
}

func NewDbWithMetrics(db DbInterface) *DbWithMetrics {
	return &DbWithMetrics{db: db}
}

func (d *DbWithMetrics) Ping(ctx context.Context) error {
	return d.db.Ping(ctx)
}

func (d *DbWithMetrics) InsertHistoryRecords(ctx context.Context, records []*model.HistoryDocument) error {
	return d.run("InsertHistoryRecords", func() error {
		return d.db.InsertHistoryRecords(ctx, records)
	})
}

func (d *DbWithMetrics) HasHistorySince(ctx context.Context, since time.Time) (result bool, err error) {
	//nolint:errcheck
	d.run("HasHistorySince", func() error {
		result, err = d.db.HasHistorySince(ctx, since)
		return err
	})
	return
}

func (d *DbWithMetrics) HasHistoryOlderThan(ctx context.Context, cutoff time.Time) (result bool, err error) {
	//nolint:errcheck
	d.run("HasHistoryOlderThan", func() error {
		result, err = d.db.HasHistoryOlderThan(ctx, cutoff)
		return err
	})
	return
}

func (d *DbWithMetrics) SumNpcKillsSince(ctx context.Context, systemID int64, since time.Time) (result int64, err error) {
	//nolint:errcheck
	d.run("SumNpcKillsSince", func() error {
		result, err = d.db.SumNpcKillsSince(ctx, systemID, since)
		return err
	})
	return
}

func (d *DbWithMetrics) SumNpcKillsBetween(ctx context.Context, systemID int64, from time.Time, to time.Time) (result int64, err error) {
	//nolint:errcheck
	d.run("SumNpcKillsBetween", func() error {
		result, err = d.db.SumNpcKillsBetween(ctx, systemID, from, to)
		return err
	})
	return
}

func (d *DbWithMetrics) DeleteHistoryOlderThan(ctx context.Context, cutoff time.Time) (result int64, err error) {
	//nolint:errcheck
	d.run("DeleteHistoryOlderThan", func() error {
		result, err = d.db.DeleteHistoryOlderThan(ctx, cutoff)
		return err
	})
	return
}

// run executes the passed lambda and records spent time, method name and
// error outcome to the db latency histogram.
func (d *DbWithMetrics) run(method string, f func() error) error {
	startTime := time.Now()
	err := f()
	duration := time.Since(startTime)

	metrics.RecordDbLatency(duration, method, err != nil)
	return err
}
