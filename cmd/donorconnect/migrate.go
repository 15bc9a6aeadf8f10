package main

import (
	"context"
	"fmt"

	"donorconnect/internal/db"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var migrateCommand = &cli.Command{
	Name:  "migrate",
	Usage: "Create the database schema and tables",
	Action: func(c *cli.Context) error {
		cfg, err := loadConfig(c.String("env-prefix"))
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		ctx := context.Background()

		pool, err := db.Connect(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()

		if err := db.Migrate(ctx, pool, cfg.DatabaseSchema); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}

		logrus.WithField("schema", cfg.DatabaseSchema).Info("Database migrated")

		return nil
	},
}
