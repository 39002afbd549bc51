package history

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Repository defines persistence operations for smoke-test runs.
type Repository interface {
	Save(ctx context.Context, run *Run) error
	LatestSuccess(ctx context.Context, endpoint, model string) (*Run, error)
}

// GormRepository persists runs using a Gorm database connection.
type GormRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

// NewRepository constructs a Gorm-backed repository implementation.
func NewRepository(db *gorm.DB, logger *logrus.Logger) (*GormRepository, error) {
	if db == nil {
		return nil, eris.New("gorm DB is required")
	}

	return &GormRepository{db: db, logger: logger}, nil
}

var _ Repository = (*GormRepository)(nil)

// Save inserts the run. Runs are append-only, re-saving a run ID is an error.
func (r *GormRepository) Save(ctx context.Context, run *Run) error {
	if run == nil {
		return eris.New("run is nil")
	}

	run.RunID = strings.TrimSpace(run.RunID)
	if run.RunID == "" {
		return eris.New("run id is required")
	}

	if run.Outcome == "" {
		return eris.New("run outcome is required")
	}

	if err := r.db.WithContext(ctx).Create(run).Error; err != nil {
		r.logError(logrus.Fields{"run_id": run.RunID}, err, "saving run")
		return eris.Wrapf(err, "saving run: %s", run.RunID)
	}

	return nil
}

// LatestSuccess returns the most recent successful run for the target, or nil when none exists.
func (r *GormRepository) LatestSuccess(ctx context.Context, endpoint, model string) (*Run, error) {
	var run Run
	err := r.db.WithContext(ctx).
		Where("endpoint = ? AND model = ? AND outcome = ?", strings.TrimSpace(endpoint), strings.TrimSpace(model), OutcomeSuccess).
		Order("created_at DESC").
		Order("id DESC").
		First(&run).Error
	if err != nil {
		if eris.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logError(logrus.Fields{"endpoint": endpoint, "model": model}, err, "fetching latest successful run")
		return nil, eris.Wrap(err, "fetching latest successful run")
	}

	return &run, nil
}

// List returns the most recent runs, newest first, for inspecting a history file. A non-positive limit returns every run.
func (r *GormRepository) List(ctx context.Context, limit int) ([]Run, error) {
	var runs []Run

	query := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&runs).Error; err != nil {
		r.logError(nil, err, "listing runs")
		return nil, eris.Wrap(err, "listing runs")
	}

	return runs, nil
}

func (r *GormRepository) logError(fields logrus.Fields, err error, message string) {
	if r.logger == nil {
		return
	}

	entry := r.logger.WithField("error", err.Error())
	if len(fields) > 0 {
		entry = entry.WithFields(fields)
	}
	entry.Error(message)
}
