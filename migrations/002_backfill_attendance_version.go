package migrations

import (
	"context"

	"WorkForce360/util"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// BackfillAttendanceVersion gives records written without a version the starting value 0.
func BackfillAttendanceVersion(ctx context.Context, database *mongo.Database, log *logrus.Logger) error {
	result, err := database.Collection(util.AttendanceCollection).UpdateMany(
		ctx,
		bson.M{"version": bson.M{"$exists": false}},
		bson.M{"$set": bson.M{"version": int64(0)}},
	)
	if err != nil {
		log.WithError(err).Error("attendance version backfill failed")
		return err
	}
	log.WithField("modified", result.ModifiedCount).Info("Migration applied: attendance versions backfilled")
	return nil
}
