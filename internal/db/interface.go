package db

import (
	"context"
	"time"

	"github.com/evetools/ratwatch/internal/db/model"
)

type DbInterface interface {
	Ping(ctx context.Context) error
	InsertHistoryRecords(ctx context.Context, records []*model.HistoryDocument) error
	HasHistorySince(ctx context.Context, since time.Time) (bool, error)
	HasHistoryOlderThan(ctx context.Context, cutoff time.Time) (bool, error)
	SumNpcKillsSince(ctx context.Context, systemID int64, since time.Time) (int64, error)
	SumNpcKillsBetween(ctx context.Context, systemID int64, from time.Time, to time.Time) (int64, error)
	DeleteHistoryOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
