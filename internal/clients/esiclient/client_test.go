package esiclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evetools/ratwatch/internal/config"
)

func testConfig(baseURL string) *config.ESIConfig {
	return &config.ESIConfig{
		BaseURL:       baseURL,
		UserAgent:     "ratwatch-test",
		Timeout:       5,
		MaxRetryTimes: 3,
		RetryInterval: 0, // no artificial delay in tests
	}
}

func TestFetchSystemKills(t *testing.T) {
	lastModified := time.Date(2023, 5, 3, 12, 0, 0, 0, time.UTC)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, systemKillsEndpoint, r.URL.Path)
		assert.Equal(t, "ratwatch-test", r.Header.Get("User-Agent"))

		w.Header().Set("Last-Modified", lastModified.Format(http.TimeFormat))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`[
			{"system_id": 30000142, "npc_kills": 42, "pod_kills": 3, "ship_kills": 7},
			{"system_id": 30002187, "npc_kills": 891, "pod_kills": 0, "ship_kills": 1}
		]`))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))
	result, err := client.FetchSystemKills(context.Background())
	require.NoError(t, err)

	assert.WithinDuration(t, lastModified, result.LastModified, 0)
	require.Len(t, result.Kills, 2)
	assert.Equal(t, int64(30000142), result.Kills[0].SystemID)
	assert.Equal(t, int64(42), result.Kills[0].NpcKills)
	assert.Equal(t, int64(891), result.Kills[1].NpcKills)
}

func TestFetchSystemKills_RetriesOnServerError(t *testing.T) {
	requestCount := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestCount++
		if requestCount <= 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Last-Modified", time.Now().UTC().Format(http.TimeFormat))
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))
	result, err := client.FetchSystemKills(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, requestCount)
	assert.Empty(t, result.Kills)
}

func TestFetchSystemKills_GivesUpAfterMaxRetries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))
	_, err := client.FetchSystemKills(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "failed to fetch system kills")
}

func TestFetchSovereigntyStructures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, sovereigntyEndpoint, r.URL.Path)
		_, _ = w.Write([]byte(`[
			{"solar_system_id": 30000142, "vulnerability_occupancy_level": 5.2},
			{"solar_system_id": 30002187, "vulnerability_occupancy_level": 1}
		]`))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))
	structures, err := client.FetchSovereigntyStructures(context.Background())
	require.NoError(t, err)

	require.Len(t, structures, 2)
	assert.Equal(t, int64(30000142), structures[0].SystemID)
	assert.InDelta(t, 5.2, structures[0].OccupancyLevel, 1e-9)
}

func TestFetchSystemKills_MissingLastModifiedFallsBackToNow(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))
	before := time.Now().UTC()
	result, err := client.FetchSystemKills(context.Background())
	require.NoError(t, err)

	assert.False(t, result.LastModified.Before(before.Add(-time.Second)))
	assert.False(t, result.LastModified.After(time.Now().UTC().Add(time.Second)))
}
