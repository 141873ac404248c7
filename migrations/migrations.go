// Package migrations holds the schema and data migrations applied at startup.
package migrations

import (
	"context"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
)

type step struct {
	name string
	run  func(ctx context.Context, database *mongo.Database, log *logrus.Logger) error
}

var steps = []step{
	{"create indexes", CreateIndexes},
	{"backfill attendance version", BackfillAttendanceVersion},
	{"update loginAttempts", UpdateLoginAttempts},
}

// RunAll applies every migration in order and stops at the first failure.
func RunAll(ctx context.Context, database *mongo.Database, log *logrus.Logger) error {
	for _, s := range steps {
		if err := s.run(ctx, database, log); err != nil {
			log.WithError(err).WithField("migration", s.name).Error("migration failed")
			return err
		}
	}
	return nil
}
