package main

import (
	"context"
	"fmt"

	"donorconnect/internal/db"
	"donorconnect/internal/seed"
	"donorconnect/internal/store"

	"github.com/k0kubun/pp/v3"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var seedCommand = &cli.Command{
	Name:  "seed",
	Usage: "Reset the database and load the demo data",
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

		logrus.Info("Connected to database")

		logrus.Info("Clearing existing data...")
		if err := store.TruncateAll(ctx, pool); err != nil {
			return err
		}

		logrus.Info("Seeding demo data...")
		summary, err := seed.Run(ctx, seed.Repositories{
			Users:     store.NewUserRepository(pool),
			Donors:    store.NewDonorRepository(pool),
			Donations: store.NewDonationRepository(pool),
			Campaigns: store.NewCampaignRepository(pool),
			Tasks:     store.NewTaskRepository(pool),
		})
		if err != nil {
			return err
		}

		logrus.Info("Database seeded successfully")
		_, _ = pp.Println(summary)

		return nil
	},
}
