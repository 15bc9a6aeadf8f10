package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"donorconnect/internal/auth"
	"donorconnect/internal/db"
	"donorconnect/internal/insights"
	"donorconnect/internal/server"
	"donorconnect/internal/storage"
	"donorconnect/internal/store"
	"donorconnect/pkg/types"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var serveCommand = &cli.Command{
	Name:   "serve",
	Usage:  "Start the HTTP server",
	Action: serve,
}

func serve(cCtx *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	config, err := loadConfig(cCtx.String("env-prefix"))
	if err != nil {
		return err
	}

	if !config.IsProduction() {
		logger.SetLevel(logrus.DebugLevel)
	}

	keys, err := loadCookieKeys(config, logger)
	if err != nil {
		return err
	}

	sessions, err := auth.NewSessionManager(auth.SessionConfig{
		Secret:     []byte(config.SessionSecret),
		CookieName: config.CookieName,
		MaxAge:     time.Duration(config.SessionMaxAgeSec) * time.Second,
		Secure:     config.CookieSecure,
		HashKey:    keys.hash,
		BlockKey:   keys.block,
	})
	if err != nil {
		return err
	}

	generator, err := newInsightGenerator(config, logger)
	if err != nil {
		return err
	}

	exporter, err := newReportExporter(ctx, config, logger)
	if err != nil {
		return err
	}

	pool, err := db.Connect(ctx, config)
	if err != nil {
		return err
	}
	defer pool.Close()

	repos := server.Repositories{
		Users:     store.NewUserRepository(pool),
		Donors:    store.NewDonorRepository(pool),
		Donations: store.NewDonationRepository(pool),
		Campaigns: store.NewCampaignRepository(pool),
		Tasks:     store.NewTaskRepository(pool),
	}

	srv, err := server.New(config, logger, sessions, repos, generator, exporter, keys.csrf)
	if err != nil {
		return err
	}

	go func() {
		logger.WithField("port", config.ServerPort).Infof("server starting http://localhost:%d", config.ServerPort)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Stop(shutdownCtx)
}

func newInsightGenerator(config *types.Config, logger *logrus.Logger) (*insights.Generator, error) {
	if config.AnthropicAPIKey == "" {
		logger.Warn("ANTHROPIC_API_KEY not configured, ai insights are disabled")
		return insights.NewGenerator(nil), nil
	}

	client, err := insights.NewAnthropicClient(insights.AnthropicOptions{
		APIKey:    config.AnthropicAPIKey,
		Model:     config.AnthropicModel,
		BaseURL:   config.AnthropicBaseURL,
		MaxTokens: config.AnthropicMaxTokens,
	})
	if err != nil {
		return nil, err
	}

	return insights.NewGenerator(client), nil
}

func newReportExporter(ctx context.Context, config *types.Config, logger *logrus.Logger) (*storage.ReportExporter, error) {
	if config.ReportBucket == "" {
		logger.Info("REPORT_BUCKET not configured, donor report export is disabled")
		return storage.NewReportExporter(nil, "", ""), nil
	}

	awsConfig, err := loadAWSConfig(ctx)
	if err != nil {
		return nil, err
	}

	return storage.NewReportExporter(s3.NewFromConfig(awsConfig), config.ReportBucket, config.ReportPrefix), nil
}
