package main

import (
	"context"
	"os"

	"github.com/ethanbaker/concierge/internal/api"
	"github.com/ethanbaker/concierge/pkg/utils"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// Start the API server
func main() {
	var envFile string

	root := &cobra.Command{
		Use:          "concierge-api",
		Short:        "Serve the hotel concierge chat widget and JSON API",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Load global config
			cfg := utils.NewConfigFromEnv(utils.EnvFile(envFile))
			utils.ConfigureLogging(cfg)

			return api.Run(cmd.Context(), cfg)
		},
	}
	root.Flags().StringVar(&envFile, "env-file", "", "path to the .env file (defaults to $ENV_FILE or .env)")

	if err := root.ExecuteContext(context.Background()); err != nil {
		log.Error().Err(err).Msg("concierge api exited")
		os.Exit(1)
	}
}
