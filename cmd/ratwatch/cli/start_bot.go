package cli

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/evetools/ratwatch/internal/clients/discordclient"
	"github.com/evetools/ratwatch/internal/clients/esiclient"
	"github.com/evetools/ratwatch/internal/config"
	"github.com/evetools/ratwatch/internal/db"
	dbmodel "github.com/evetools/ratwatch/internal/db/model"
	"github.com/evetools/ratwatch/internal/observability/metrics"
	"github.com/evetools/ratwatch/internal/renderer"
	"github.com/evetools/ratwatch/internal/services"
)

func StartBotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start-bot",
		Short: "Starts the ratwatch report bot",
		Args:  cobra.ExactArgs(0),
		RunE:  startBot,
	}

	return cmd
}

func startBot(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	log := log.Ctx(ctx)

	cfgPath := GetConfigPath()
	cfg, err := config.New(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msgf("error while loading config file: %s", cfgPath)
	}

	if err := dbmodel.Setup(ctx, &cfg.Db); err != nil {
		log.Fatal().Err(err).Msg("error while setting up history db model")
	}

	var dbClient db.DbInterface
	dbClient, err = db.New(ctx, cfg.Db)
	if err != nil {
		log.Fatal().Err(err).Msg("error while creating db client")
	}
	dbClient = db.NewDbWithMetrics(dbClient)

	var esiClient esiclient.EsiInterface = esiclient.NewClient(&cfg.ESI)
	esiClient = esiclient.NewClientWithMetrics(esiClient)

	discordClient, err := discordclient.NewClient(&cfg.Discord)
	if err != nil {
		log.Fatal().Err(err).Msg("error while creating discord client")
	}
	if err := discordClient.Open(); err != nil {
		log.Fatal().Err(err).Msg("error while connecting to discord gateway")
	}
	defer discordClient.Close()

	htmlRenderer := renderer.NewChromeRenderer()

	service := services.NewService(cfg, dbClient, esiClient, discordClient, htmlRenderer)
	discordClient.HandleCommands(service.AnswerCommand)

	metrics.Init(cfg.Metrics.GetMetricsPort())

	return service.RunBot(ctx)
}
