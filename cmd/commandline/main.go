package main

import (
	"context"
	"os"

	"github.com/ethanbaker/concierge/internal/commandline"
	"github.com/ethanbaker/concierge/internal/concierge"
	"github.com/ethanbaker/concierge/pkg/utils"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// Chat with the concierge from a terminal
func main() {
	var envFile string

	root := &cobra.Command{
		Use:          "concierge",
		Short:        "Chat with the hotel concierge from the terminal",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Load global config
			cfg := utils.NewConfigFromEnv(utils.EnvFile(envFile))
			if !cfg.Has("LOG_LEVEL") {
				cfg.Set("LOG_LEVEL", "warn")
			}
			utils.ConfigureLogging(cfg)

			svc, err := concierge.NewServiceFromConfig(cfg)
			if err != nil {
				return err
			}
			defer func() {
				if err := svc.Close(context.WithoutCancel(cmd.Context())); err != nil {
					log.Error().Err(err).Str("component", "commandline").Msg("failed to close service")
				}
			}()

			return commandline.Run(cmd.Context(), svc, os.Stdin, os.Stdout)
		},
	}
	root.Flags().StringVar(&envFile, "env-file", "", "path to the .env file (defaults to $ENV_FILE or .env)")

	if err := root.ExecuteContext(context.Background()); err != nil {
		log.Error().Err(err).Msg("concierge exited")
		os.Exit(1)
	}
}
