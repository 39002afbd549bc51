package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"

	"llmsmoke/app/internal/app/bootstrap"
	"llmsmoke/app/internal/config"
	applog "llmsmoke/app/internal/log"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	err := run(ctx, os.Stdout, os.Stderr)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %s\n", eris.ToString(err, true))
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout, stderr io.Writer) error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return eris.Wrap(err, "loading configuration")
	}

	logger, err := applog.NewLoggerWithOutput(cfg.LogLevel, stderr)
	if err != nil {
		return eris.Wrap(err, "initialising logger")
	}

	_, flush, err := applog.InitSentry(logger, applog.SentrySettings{
		DSN:         cfg.SentryDSN,
		Environment: cfg.Environment,
		Tags: map[string]string{
			"endpoint": cfg.Endpoint,
			"model":    cfg.Model,
		},
	})
	if err != nil {
		return eris.Wrap(err, "initialising sentry")
	}
	defer flush()

	app, err := bootstrap.Build(ctx, bootstrap.Dependencies{
		Config: *cfg,
		Logger: logger,
		Output: stdout,
	})
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := app.Cleanup(); closeErr != nil {
			logger.WithError(closeErr).Error("closing history database")
		}
	}()

	report, err := app.Runner.Run(ctx)
	if err != nil {
		return err
	}

	logger.WithFields(logrus.Fields{
		"run_id":      report.RunID,
		"shape_drift": report.ShapeDrift,
	}).Debug("smoke run complete")

	return nil
}
