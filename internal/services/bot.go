package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/evetools/ratwatch/internal/observability/metrics"
	"github.com/evetools/ratwatch/internal/observability/tracing"
)

const (
	stateStarting = "starting up"
	stateWorking  = "watching for kills"
	stateDowntime = "waiting out daily downtime"

	// downtimePollInterval is how often the drain wait rechecks the clock.
	downtimePollInterval = time.Second
	// cooldownPollInterval caps the cooldown wait slices so cancellation is
	// picked up promptly even with long refresh intervals.
	cooldownPollInterval = 5 * time.Second
)

// RunBot drives the report loop until ctx is cancelled. A failed cycle is
// logged and skipped; only cancellation ends the loop.
func (s *Service) RunBot(ctx context.Context) error {
	log.Ctx(ctx).Info().
		Stringer("maintenance_window", s.maintenance).
		Stringer("drain_window", s.drain).
		Int("refresh_minutes", s.cfg.Poller.RefreshMinutes).
		Msg("starting report loop")

	s.state.Store(stateWorking)
	if err := s.discord.SetPresence(ctx, s.cfg.Discord.WorkingPresence); err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("failed to set working presence")
	}

	for {
		if err := s.step(ctx); err != nil {
			return err
		}
	}
}

// step runs one scheduler iteration: either waits out the downtime drain, or
// runs a full cycle and cools down until the refresh interval has elapsed
// since cycle start. Only ctx errors are returned.
func (s *Service) step(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if s.maintenance.Contains(s.now()) {
		return s.waitOutDowntime(ctx)
	}

	if s.inDowntime {
		s.inDowntime = false
		s.state.Store(stateWorking)
		if err := s.discord.SetPresence(ctx, s.cfg.Discord.WorkingPresence); err != nil {
			log.Ctx(ctx).Warn().Err(err).Msg("failed to restore working presence")
		}
	}

	start := s.now()
	s.cycleSeq++
	cycleCtx := tracing.NewCycleContext(ctx, s.cycleSeq)

	if err := metrics.RecordCycleDuration(s.runCycle)(cycleCtx); err != nil {
		log.Ctx(cycleCtx).Error().Err(err).Msg("cycle failed, skipping until next refresh")
	}

	return s.waitUntil(ctx, start.Add(s.cfg.Poller.RefreshInterval()))
}

// waitOutDowntime parks the bot while Tranquility restarts. Entry is gated on
// the maintenance window but the wait runs until the wider drain window has
// passed, absorbing restart jitter on both ends.
func (s *Service) waitOutDowntime(ctx context.Context) error {
	if !s.inDowntime {
		s.inDowntime = true
		s.state.Store(stateDowntime)
		log.Ctx(ctx).Info().Stringer("drain_window", s.drain).Msg("daily downtime, pausing fetches")
		if err := s.discord.SetPresence(ctx, s.cfg.Discord.DowntimePresence); err != nil {
			log.Ctx(ctx).Warn().Err(err).Msg("failed to set downtime presence")
		}
	}

	for s.drain.Contains(s.now()) {
		if err := s.sleep(ctx, downtimePollInterval); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) waitUntil(ctx context.Context, deadline time.Time) error {
	for {
		remaining := deadline.Sub(s.now())
		if remaining <= 0 {
			return nil
		}
		if remaining > cooldownPollInterval {
			remaining = cooldownPollInterval
		}
		if err := s.sleep(ctx, remaining); err != nil {
			return err
		}
	}
}

// AnswerCommand backs the prefix command intake on the chat connector. It
// runs on the connector's own goroutine and only reads the published state.
func (s *Service) AnswerCommand(command string) string {
	switch command {
	case "status":
		return fmt.Sprintf("ratwatch is %s", s.state.Load())
	default:
		return ""
	}
}
