package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	mongodb "github.com/cobranzacloud/cobranza-cloud/internal/infrastructure/db/mongo"
)

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the MongoDB indexes the API relies on",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: a.cfg.Mongo.URI, Database: a.cfg.Mongo.Database})
			if err != nil {
				return err
			}
			defer func() { _ = client.Disconnect(context.WithoutCancel(ctx)) }()

			if err := mongodb.EnsureIndexes(ctx, db); err != nil {
				return fmt.Errorf("ensure indexes: %w", err)
			}
			a.log.Info().Str("database", a.cfg.Mongo.Database).Msg("indexes ensured")
			return nil
		},
	}
}
