package services

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/evetools/ratwatch/internal/observability/metrics"
)

// publish replaces the channel content: wipe everything posted before, then
// post the fresh artifacts in sequence.
func (s *Service) publish(ctx context.Context, statusImage []byte, weeklyImage []byte) error {
	if err := s.discord.ClearChannel(ctx); err != nil {
		return err
	}

	if err := s.discord.PostImage(ctx, statusReportFilename, statusImage); err != nil {
		return err
	}

	if weeklyImage != nil {
		if err := s.discord.PostImage(ctx, weeklyReportFilename, weeklyImage); err != nil {
			return err
		}
	}

	metrics.RecordReportPublished(s.now())
	log.Ctx(ctx).Info().Bool("weekly", weeklyImage != nil).Msg("report published")
	return nil
}
