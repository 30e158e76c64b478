package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/evetools/ratwatch/internal/db/model"
)

// InsertHistoryRecords appends one cycle's batch in a single ordered insert.
func (db *Database) InsertHistoryRecords(ctx context.Context, records []*model.HistoryDocument) error {
	if len(records) == 0 {
		return nil
	}

	docs := make([]interface{}, 0, len(records))
	for _, record := range records {
		docs = append(docs, record)
	}

	_, err := db.collection(model.HistoryCollection).
		InsertMany(ctx, docs, options.InsertMany().SetOrdered(true))
	return err
}

// HasHistorySince reports whether any record carries recorded_at >= since.
// This is the dedup probe: the upstream freshness timestamp goes in, and a
// hit means the batch was already captured on an earlier poll.
func (db *Database) HasHistorySince(ctx context.Context, since time.Time) (bool, error) {
	return db.existsHistory(ctx, bson.M{"recorded_at": bson.M{"$gte": since}})
}

// HasHistoryOlderThan is the cheap existence probe that gates the retention
// sweep; the strict $lt matches the sweep's own cutoff inequality.
func (db *Database) HasHistoryOlderThan(ctx context.Context, cutoff time.Time) (bool, error) {
	return db.existsHistory(ctx, bson.M{"recorded_at": bson.M{"$lt": cutoff}})
}

func (db *Database) existsHistory(ctx context.Context, filter bson.M) (bool, error) {
	err := db.collection(model.HistoryCollection).
		FindOne(ctx, filter, options.FindOne().SetProjection(bson.M{"_id": 1})).
		Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// SumNpcKillsSince totals npc_kills for one system over records with
// recorded_at >= since, computed by aggregation so history never has to be
// loaded into memory.
func (db *Database) SumNpcKillsSince(ctx context.Context, systemID int64, since time.Time) (int64, error) {
	return db.sumNpcKills(ctx, bson.M{
		"system_id":   systemID,
		"recorded_at": bson.M{"$gte": since},
	})
}

// SumNpcKillsBetween totals npc_kills for one system over the half-open
// window [from, to).
func (db *Database) SumNpcKillsBetween(ctx context.Context, systemID int64, from time.Time, to time.Time) (int64, error) {
	return db.sumNpcKills(ctx, bson.M{
		"system_id":   systemID,
		"recorded_at": bson.M{"$gte": from, "$lt": to},
	})
}

func (db *Database) sumNpcKills(ctx context.Context, match bson.M) (int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"total": bson.M{"$sum": "$npc_kills"},
		}}},
	}

	cursor, err := db.collection(model.HistoryCollection).Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	var results []struct {
		Total int64 `bson:"total"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return 0, err
	}
	if len(results) == 0 {
		return 0, nil
	}
	return results[0].Total, nil
}

// DeleteHistoryOlderThan removes every record strictly older than cutoff and
// returns the number of deleted records. A record aged exactly the retention
// window survives.
func (db *Database) DeleteHistoryOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := db.collection(model.HistoryCollection).
		DeleteMany(ctx, bson.M{"recorded_at": bson.M{"$lt": cutoff}})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}
