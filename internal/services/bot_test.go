package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evetools/ratwatch/internal/types"
)

func healthyEsi(sov []types.SovSnapshot) *fakeEsi {
	return &fakeEsi{
		kills: killsAt(time.Date(2023, 5, 3, 13, 55, 0, 0, time.UTC)),
		sov:   sov,
	}
}

func TestStep_RunsCycleAndCoolsDown(t *testing.T) {
	cfg := serviceConfig()
	h := newHarness(cfg, healthyEsi(sovFor(cfg, 1)))

	start := h.clock
	require.NoError(t, h.service.step(context.Background()))

	assert.Equal(t, 1, h.esi.fetchCnt)
	assert.Equal(t, start.Add(5*time.Minute), h.clock, "cooldown runs until the refresh slot")
}

func TestStep_MaintenanceWindowSkipsFetching(t *testing.T) {
	cfg := serviceConfig()
	h := newHarness(cfg, healthyEsi(sovFor(cfg, 1)))

	// Inside the 10:58-11:10 maintenance window.
	h.clock = time.Date(2023, 5, 3, 11, 5, 0, 0, time.UTC)

	require.NoError(t, h.service.step(context.Background()))

	assert.Zero(t, h.esi.fetchCnt, "no upstream calls during downtime")
	assert.Equal(t, []string{cfg.Discord.DowntimePresence}, h.discord.presences)
	assert.Equal(t, "ratwatch is waiting out daily downtime", h.service.AnswerCommand("status"))

	// The wait holds until the wider drain window has fully passed.
	assert.True(t, h.clock.After(time.Date(2023, 5, 3, 11, 15, 0, 0, time.UTC)))

	// The next step resumes normal operation.
	require.NoError(t, h.service.step(context.Background()))
	assert.Equal(t, 1, h.esi.fetchCnt)
	assert.Equal(t, []string{cfg.Discord.DowntimePresence, cfg.Discord.WorkingPresence}, h.discord.presences)
	assert.Equal(t, "ratwatch is watching for kills", h.service.AnswerCommand("status"))
}

func TestStep_FailedCycleDoesNotStopTheLoop(t *testing.T) {
	cfg := serviceConfig()

	// Sovereignty batch is empty, so every cycle fails.
	h := newHarness(cfg, healthyEsi(nil))

	start := h.clock
	require.NoError(t, h.service.step(context.Background()), "cycle errors are absorbed by the scheduler")
	assert.Equal(t, start.Add(5*time.Minute), h.clock, "the refresh cadence holds after a failure")
	assert.Empty(t, h.discord.ops)
}

func TestRunBot_StopsOnCancellation(t *testing.T) {
	cfg := serviceConfig()
	h := newHarness(cfg, healthyEsi(sovFor(cfg, 1)))

	ctx, cancel := context.WithCancel(context.Background())
	sleeps := 0
	baseSleep := h.service.sleep
	h.service.sleep = func(ctx context.Context, d time.Duration) error {
		sleeps++
		if sleeps > 3 {
			cancel()
		}
		return baseSleep(ctx, d)
	}

	err := h.service.RunBot(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.GreaterOrEqual(t, h.esi.fetchCnt, 1, "at least one cycle ran before shutdown")
}

func TestAnswerCommand(t *testing.T) {
	cfg := serviceConfig()
	h := newHarness(cfg, &fakeEsi{})

	assert.Equal(t, "ratwatch is starting up", h.service.AnswerCommand("status"))
	assert.Empty(t, h.service.AnswerCommand("help"), "unknown commands are ignored")
	assert.Empty(t, h.service.AnswerCommand(""))
}
