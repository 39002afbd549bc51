package bootstrap

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"

	"llmsmoke/app/internal/config"
	"llmsmoke/app/internal/history"
	"llmsmoke/app/internal/llm"
)

func silentLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func baseConfig() config.Config {
	return config.Config{
		Endpoint: "http://127.0.0.1:8080/v1",
		APIKey:   "sk-xxx",
		Model:    "mlx-community/Llama-3.2-3B-Instruct",
		Prompt:   "Say this is a test!",
	}
}

func TestBuildWithoutHistory(t *testing.T) {
	t.Parallel()

	result, err := Build(context.Background(), Dependencies{Config: baseConfig(), Logger: silentLogger(), Output: io.Discard})
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	if result.Runner == nil {
		t.Fatalf("expected runner to be built")
	}

	if result.History != nil {
		t.Fatalf("expected history to be disabled")
	}

	if err := result.Cleanup(); err != nil {
		t.Fatalf("Cleanup returned error: %v", err)
	}
}

func TestBuildWithHistory(t *testing.T) {
	t.Parallel()

	cfg := baseConfig()
	cfg.HistoryDB = filepath.Join(t.TempDir(), "history.db")

	result, err := Build(context.Background(), Dependencies{Config: cfg, Logger: silentLogger(), Output: io.Discard})
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	if result.History == nil {
		t.Fatalf("expected history repository to be wired")
	}

	repo, ok := result.History.(*history.GormRepository)
	if !ok {
		t.Fatalf("expected gorm-backed history, got %T", result.History)
	}

	runs, err := repo.List(context.Background(), 0)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(runs) != 0 {
		t.Fatalf("expected empty history, got %d runs", len(runs))
	}

	if err := result.Cleanup(); err != nil {
		t.Fatalf("Cleanup returned error: %v", err)
	}
}

func TestBuildRejectsInvalidEndpoint(t *testing.T) {
	t.Parallel()

	cfg := baseConfig()
	cfg.Endpoint = "ftp://127.0.0.1/v1"

	_, err := Build(context.Background(), Dependencies{Config: cfg, Logger: silentLogger(), Output: io.Discard})
	if err == nil {
		t.Fatalf("expected error for invalid endpoint")
	}

	if llm.KindOf(err) != llm.KindClient {
		t.Fatalf("expected client error, got %q (%v)", llm.KindOf(err), err)
	}
}

func TestBuildRequiresOutput(t *testing.T) {
	t.Parallel()

	if _, err := Build(context.Background(), Dependencies{Config: baseConfig(), Logger: silentLogger()}); err == nil {
		t.Fatalf("expected error when output is missing")
	}
}
