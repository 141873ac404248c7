package migrations

import (
	"context"

	"WorkForce360/util"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

/*
* loginAttempts must be a number on every user
* Missing values start at 0, string values are reset to 0
 */
func UpdateLoginAttempts(ctx context.Context, database *mongo.Database, log *logrus.Logger) error {
	coll := database.Collection(util.UserCollection)

	missing, err := coll.UpdateMany(ctx,
		bson.M{"loginAttempts": bson.M{"$exists": false}},
		bson.M{"$set": bson.M{"loginAttempts": 0, "isBlocked": false}},
	)
	if err != nil {
		log.WithError(err).Error("loginAttempts backfill failed")
		return err
	}

	wrongType, err := coll.UpdateMany(ctx,
		bson.M{"loginAttempts": bson.M{"$type": "string"}},
		bson.M{"$set": bson.M{"loginAttempts": 0}},
	)
	if err != nil {
		log.WithError(err).Error("loginAttempts type migration failed")
		return err
	}
	log.WithFields(logrus.Fields{
		"missing":   missing.ModifiedCount,
		"converted": wrongType.ModifiedCount,
	}).Info("Migration applied: loginAttempts normalized")
	return nil
}
