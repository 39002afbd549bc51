package history

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Migrate applies the run history schema.
func Migrate(ctx context.Context, db *gorm.DB, logger *logrus.Logger) error {
	if db == nil {
		return eris.New("gorm DB is required")
	}

	logFields := logrus.Fields{"component": "history.migrate"}
	if logger != nil {
		logger.WithFields(logFields).Debug("applying run history schema")
	}

	if err := db.WithContext(ctx).AutoMigrate(&Run{}); err != nil {
		if logger != nil {
			logger.WithFields(logFields).WithField("error", err.Error()).Error("run history schema migration failed")
		}
		return eris.Wrap(err, "auto migrating run history schema")
	}

	return nil
}
