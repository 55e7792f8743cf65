package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"searchbridge/internal/platform/config"
	"searchbridge/internal/platform/postgres"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the Postgres schema and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}
			if cfg.StoreDriver != config.StorePostgres {
				return fmt.Errorf("migrate requires SEARCHBRIDGE_STORE_DRIVER=postgres")
			}
			db, err := postgres.Open(ctx, cfg.Database.URL, postgres.Options{MaxOpenConns: 2, MaxIdleConns: 1})
			if err != nil {
				return err
			}
			defer db.Close()
			return postgres.Migrate(ctx, db, log)
		},
	}
}
