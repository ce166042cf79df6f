package main

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ananyateklu/second-brain-sub004/internal/config"
	"github.com/ananyateklu/second-brain-sub004/internal/itemservice"
	"github.com/ananyateklu/second-brain-sub004/internal/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Error().Err(err).Msg("item service failed")
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var port int
	var dbDriver string

	cmd := &cobra.Command{
		Use:           "item-service",
		Short:         "Reference backend for second brain items",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.NewService()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.HTTPPort = port
			}
			if cmd.Flags().Changed("db-driver") {
				cfg.DBDriver = dbDriver
				if err := cfg.ResolveDefaults(); err != nil {
					return err
				}
			}
			return itemservice.Run(cmd.Context(), cfg, itemservice.WithLogger(logger.New("item-service")))
		},
	}
	cmd.Flags().IntVar(&port, "port", 11545, "Override SECONDBRAIN_SERVICE_HTTP_PORT")
	cmd.Flags().StringVar(&dbDriver, "db-driver", "sqlite", "Override SECONDBRAIN_SERVICE_DB_DRIVER (sqlite, postgres)")
	return cmd
}
