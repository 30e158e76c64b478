//go:build integration

package db_test

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evetools/ratwatch/internal/config"
	"github.com/evetools/ratwatch/internal/db"
	"github.com/evetools/ratwatch/internal/db/model"
	"github.com/evetools/ratwatch/testutil"
)

const (
	mongoUsername = "user"
	mongoPassword = "password"
	mongoDatabase = "test-database"

	// this version corresponds to docker tag for mongodb
	// it should be in sync with mongo version used in production
	mongoVersion = "7.0.5"
)

var testDB *db.Database

func TestMain(m *testing.M) {
	// first setup container with MongoDb
	dbConfig, cleanup, err := setupMongoContainer()
	if err != nil {
		log.Fatalf("failed to setup mongo container: %v", err)
	}

	// apply migrations
	err = model.Setup(context.Background(), dbConfig)
	if err != nil {
		cleanup()
		log.Fatalf("failed to init mongo database: %v", err)
	}

	// using config from container mongo initialize client used in tests
	testDB, err = setupClient(dbConfig)
	if err != nil {
		cleanup()
		log.Fatalf("failed to setup client: %v", err)
	}

	// integration tests run on this line
	code := m.Run()
	cleanup()

	os.Exit(code)
}

// setupMongoContainer setups container with mongodb returning db credentials through config.DbConfig,
// cleanup function that MUST be called in the end to cleanup docker resources and an error if there is any
func setupMongoContainer() (*config.DbConfig, func(), error) {
	pool, err := dockertest.NewPool("")
	if err != nil {
		return nil, nil, err
	}

	// there can be only 1 container with the same name, so we add
	// random string in the end in case there is still old container running
	suffix, err := testutil.RandomAlphaNum(3)
	if err != nil {
		return nil, nil, err
	}
	containerName := "mongo-integration-tests-db-" + suffix
	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Name:       containerName,
		Repository: "mongo",
		Tag:        mongoVersion,
		Env: []string{
			"MONGO_INITDB_ROOT_USERNAME=" + mongoUsername,
			"MONGO_INITDB_ROOT_PASSWORD=" + mongoPassword,
			"MONGO_INITDB_DATABASE=" + mongoDatabase,
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{
			Name: "no",
		}
	})
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		err := pool.Purge(resource)
		if err != nil {
			log.Fatalf("failed to purge resource: %v", err)
		}
	}

	// get host port (randomly chosen) that is mapped to mongo port inside container
	hostPort := resource.GetPort("27017/tcp")

	return &config.DbConfig{
		Username: mongoUsername,
		Password: mongoPassword,
		DbName:   mongoDatabase,
		Address:  fmt.Sprintf("mongodb://localhost:%s/", hostPort),
	}, cleanup, nil
}

func setupClient(cfg *config.DbConfig) (*db.Database, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return db.New(ctx, *cfg)
}

// resetHistory wipes the collection so tests do not see each other's records.
func resetHistory(t *testing.T, ctx context.Context) {
	t.Helper()

	_, err := testDB.DeleteHistoryOlderThan(ctx, time.Now().UTC().AddDate(100, 0, 0))
	require.NoError(t, err)
}

func historyRecord(systemID int64, npcKills int64, recordedAt time.Time) *model.HistoryDocument {
	return &model.HistoryDocument{
		SystemID:       systemID,
		NpcKills:       npcKills,
		OccupancyLevel: gofakeit.Float64Range(0, 6),
		RecordedAt:     recordedAt,
	}
}

func TestPing(t *testing.T) {
	require.NoError(t, testDB.Ping(context.Background()))
}

func TestInsertAndProbeHistory(t *testing.T) {
	ctx := context.Background()
	resetHistory(t, ctx)

	base := time.Now().UTC().Truncate(time.Millisecond)
	records := []*model.HistoryDocument{
		historyRecord(30004759, 120, base.Add(-2*time.Hour)),
		historyRecord(30004808, 45, base.Add(-2*time.Hour)),
	}
	require.NoError(t, testDB.InsertHistoryRecords(ctx, records))

	// The dedup probe matches records at or past the given instant.
	captured, err := testDB.HasHistorySince(ctx, base.Add(-2*time.Hour))
	require.NoError(t, err)
	assert.True(t, captured)

	captured, err = testDB.HasHistorySince(ctx, base.Add(-time.Hour))
	require.NoError(t, err)
	assert.False(t, captured)

	old, err := testDB.HasHistoryOlderThan(ctx, base.Add(-time.Hour))
	require.NoError(t, err)
	assert.True(t, old)

	old, err = testDB.HasHistoryOlderThan(ctx, base.Add(-3*time.Hour))
	require.NoError(t, err)
	assert.False(t, old)
}

func TestInsertHistoryRecords_EmptyBatch(t *testing.T) {
	require.NoError(t, testDB.InsertHistoryRecords(context.Background(), nil))
}

func TestSumNpcKills(t *testing.T) {
	ctx := context.Background()
	resetHistory(t, ctx)

	base := time.Now().UTC().Truncate(time.Millisecond)
	require.NoError(t, testDB.InsertHistoryRecords(ctx, []*model.HistoryDocument{
		historyRecord(30004759, 100, base.Add(-30*time.Hour)),
		historyRecord(30004759, 200, base.Add(-5*time.Hour)),
		historyRecord(30004759, 300, base.Add(-1*time.Hour)),
		// another system's records never leak into the sums
		historyRecord(30004808, 999, base.Add(-1*time.Hour)),
	}))

	total, err := testDB.SumNpcKillsSince(ctx, 30004759, base.Add(-6*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(500), total)

	total, err = testDB.SumNpcKillsSince(ctx, 30004759, base.Add(-48*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(600), total)

	// Half-open window: the record sitting exactly on `to` is excluded.
	total, err = testDB.SumNpcKillsBetween(ctx, 30004759, base.Add(-30*time.Hour), base.Add(-5*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(100), total)

	total, err = testDB.SumNpcKillsSince(ctx, 30000142, base.Add(-48*time.Hour))
	require.NoError(t, err)
	assert.Zero(t, total, "unknown system sums to zero")
}

func TestDeleteHistoryOlderThan(t *testing.T) {
	ctx := context.Background()
	resetHistory(t, ctx)

	cutoff := time.Now().UTC().Truncate(time.Millisecond)
	require.NoError(t, testDB.InsertHistoryRecords(ctx, []*model.HistoryDocument{
		historyRecord(30004759, 1, cutoff.Add(-time.Hour)),
		historyRecord(30004759, 2, cutoff.Add(-time.Minute)),
		historyRecord(30004759, 3, cutoff), // exactly at the cutoff survives
		historyRecord(30004759, 4, cutoff.Add(time.Hour)),
	}))

	deleted, err := testDB.DeleteHistoryOlderThan(ctx, cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	remaining, err := testDB.SumNpcKillsSince(ctx, 30004759, cutoff.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(7), remaining)
}
