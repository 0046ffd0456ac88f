package commands

import (
	"errors"
	"log"

	"github.com/spf13/cobra"

	"renthub/internal/config"
	"renthub/internal/database"
)

// IndexesCmd creates the MongoDB indexes and exits.
func IndexesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "indexes",
		Short: "Create MongoDB indexes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.AppEnv
			if cfg.MongoURI == "" {
				return errors.New("ENV MONGO_URI is required")
			}

			client, err := database.Connect(cfg.MongoURI)
			if err != nil {
				return err
			}
			defer database.Disconnect(client)

			if err := database.EnsureAll(client.Database(cfg.DBName)); err != nil {
				return err
			}
			log.Println("[INDEX] [INFO] all indexes ready")
			return nil
		},
	}
}
