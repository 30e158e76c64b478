package services

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/evetools/ratwatch/internal/clients/discordclient"
	"github.com/evetools/ratwatch/internal/clients/esiclient"
	"github.com/evetools/ratwatch/internal/config"
	"github.com/evetools/ratwatch/internal/db"
	"github.com/evetools/ratwatch/internal/renderer"
	"github.com/evetools/ratwatch/internal/utils/timewindow"
)

type Service struct {
	cfg      *config.Config
	db       db.DbInterface
	esi      esiclient.EsiInterface
	discord  discordclient.DiscordInterface
	renderer renderer.Renderer

	maintenance timewindow.Window
	drain       timewindow.Window

	cycleSeq   uint64
	inDowntime bool
	state      atomic.Value

	// Clock and sleeper are injectable so the scheduler is testable without
	// real waits. Both default to the wall clock.
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

func NewService(
	cfg *config.Config,
	db db.DbInterface,
	esi esiclient.EsiInterface,
	discord discordclient.DiscordInterface,
	renderer renderer.Renderer,
) *Service {
	// Windows were validated when the config loaded.
	maintenance, _ := cfg.Poller.MaintenanceWindow()
	drain, _ := cfg.Poller.DrainWindow()

	s := &Service{
		cfg:         cfg,
		db:          db,
		esi:         esi,
		discord:     discord,
		renderer:    renderer,
		maintenance: maintenance,
		drain:       drain,
		now:         time.Now,
		sleep:       sleepWithContext,
	}
	s.state.Store(stateStarting)
	return s
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
