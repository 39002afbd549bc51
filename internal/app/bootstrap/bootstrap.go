package bootstrap

import (
	"context"
	"io"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"

	"llmsmoke/app/internal/config"
	"llmsmoke/app/internal/db"
	"llmsmoke/app/internal/history"
	"llmsmoke/app/internal/llm"
	"llmsmoke/app/internal/smoke"
)

type Dependencies struct {
	Config config.Config
	Logger *logrus.Logger
	Output io.Writer
}

type Result struct {
	Runner  *smoke.Runner
	History history.Repository
	Cleanup func() error
}

// Build composes the smoke-test components. History is wired only when a database path is configured.
func Build(ctx context.Context, deps Dependencies) (Result, error) {
	client, err := llm.NewClient(llm.ClientOptions{
		APIKey:  deps.Config.APIKey,
		BaseURL: deps.Config.Endpoint,
		Timeout: deps.Config.Timeout,
		Logger:  deps.Logger,
	})
	if err != nil {
		return Result{}, eris.Wrap(err, "creating llm client")
	}

	prober, err := llm.NewProber(llm.ProberOptions{Client: client})
	if err != nil {
		return Result{}, eris.Wrap(err, "initialising prober")
	}

	cleanup := func() error { return nil }
	var repository history.Repository

	if deps.Config.HistoryDB != "" {
		gormDB, err := db.Open(db.Options{Path: deps.Config.HistoryDB})
		if err != nil {
			return Result{}, eris.Wrap(err, "opening history database")
		}

		closeOnError := func(wrapper error) (Result, error) {
			if closeErr := db.Close(gormDB); closeErr != nil && deps.Logger != nil {
				deps.Logger.WithError(closeErr).Error("closing history database after bootstrap failure")
			}
			return Result{}, wrapper
		}

		if err := history.Migrate(ctx, gormDB, deps.Logger); err != nil {
			return closeOnError(eris.Wrap(err, "running history migrations"))
		}

		repo, err := history.NewRepository(gormDB, deps.Logger)
		if err != nil {
			return closeOnError(eris.Wrap(err, "creating history repository"))
		}

		repository = repo
		cleanup = func() error {
			return db.Close(gormDB)
		}
	}

	runner, err := smoke.NewRunner(smoke.Options{
		Prober:   prober,
		Request:  llm.UserRequest(deps.Config.Model, deps.Config.Prompt),
		Endpoint: client.BaseURL(),
		Output:   deps.Output,
		History:  repository,
		Logger:   deps.Logger,
	})
	if err != nil {
		if closeErr := cleanup(); closeErr != nil && deps.Logger != nil {
			deps.Logger.WithError(closeErr).Error("closing history database after bootstrap failure")
		}
		return Result{}, eris.Wrap(err, "initialising smoke runner")
	}

	return Result{
		Runner:  runner,
		History: repository,
		Cleanup: cleanup,
	}, nil
}
