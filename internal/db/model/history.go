package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const HistoryCollection = "history"

// HistoryDocument is one persisted per-system snapshot of a cycle. Records
// are append-only: RecordedAt is the upstream freshness timestamp shifted
// forward five minutes, and for a given system it only ever grows.
type HistoryDocument struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	SystemID       int64              `bson:"system_id"`
	NpcKills       int64              `bson:"npc_kills"`
	OccupancyLevel float64            `bson:"occupancy_level"`
	RecordedAt     time.Time          `bson:"recorded_at"`
}
