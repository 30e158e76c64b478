package types

// KillSnapshot is one system's kill counters from a single ESI fetch. It only
// lives for the cycle that fetched it and is replaced wholesale on the next.
type KillSnapshot struct {
	SystemID  int64 `json:"system_id"`
	NpcKills  int64 `json:"npc_kills"`
	PodKills  int64 `json:"pod_kills"`
	ShipKills int64 `json:"ship_kills"`
}

// SovSnapshot is one system's sovereignty occupancy (ADM) from a single ESI
// fetch, same per-cycle lifecycle as KillSnapshot.
type SovSnapshot struct {
	SystemID       int64   `json:"solar_system_id"`
	OccupancyLevel float64 `json:"vulnerability_occupancy_level"`
}
