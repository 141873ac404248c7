package migrations

import (
	"context"

	"WorkForce360/util"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// IndexPlan lists the indexes of every collection.
var IndexPlan = map[string][]mongo.IndexModel{
	util.OrganizationCollection: {
		{Keys: bson.D{{Key: "code", Value: 1}}, Options: options.Index().SetUnique(true).SetName("uniq_code")},
	},
	util.UserCollection: {
		{
			Keys:    bson.D{{Key: "organizationCode", Value: 1}, {Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_org_email"),
		},
		{
			Keys: bson.D{{Key: "organizationCode", Value: 1}, {Key: "employeeCode", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_org_employee_code").
				SetPartialFilterExpression(bson.M{"employeeCode": bson.M{"$exists": true}}),
		},
		{Keys: bson.D{{Key: "organizationCode", Value: 1}, {Key: "role", Value: 1}}, Options: options.Index().SetName("org_role")},
	},
	util.RoleCollection: {
		{
			Keys:    bson.D{{Key: "organizationCode", Value: 1}, {Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_org_name"),
		},
		{Keys: bson.D{{Key: "level", Value: 1}}, Options: options.Index().SetName("level")},
	},
	util.PermissionCollection: {
		{
			Keys:    bson.D{{Key: "organizationCode", Value: 1}, {Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_org_name"),
		},
		{Keys: bson.D{{Key: "module", Value: 1}}, Options: options.Index().SetName("module")},
	},
	util.AttendanceCollection: {
		{
			Keys:    bson.D{{Key: "organizationCode", Value: 1}, {Key: "employeeId", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_org_employee_date"),
		},
		{Keys: bson.D{{Key: "isLoggedIn", Value: 1}, {Key: "date", Value: 1}}, Options: options.Index().SetName("open_sessions")},
	},
	util.LeaveTypeCollection: {
		{
			Keys:    bson.D{{Key: "organizationCode", Value: 1}, {Key: "code", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_org_code"),
		},
	},
	util.LeaveApplicationCollection: {
		{
			Keys:    bson.D{{Key: "organizationCode", Value: 1}, {Key: "employeeId", Value: 1}, {Key: "startDate", Value: 1}},
			Options: options.Index().SetName("org_employee_start"),
		},
		{Keys: bson.D{{Key: "leaveTypeId", Value: 1}}, Options: options.Index().SetName("leave_type")},
	},
	util.PayrollCollection: {
		{
			Keys: bson.D{
				{Key: "organizationCode", Value: 1}, {Key: "employeeId", Value: 1},
				{Key: "year", Value: 1}, {Key: "month", Value: 1},
			},
			Options: options.Index().SetUnique(true).SetName("uniq_org_employee_period"),
		},
	},
	util.DocumentCollection: {
		{Keys: bson.D{{Key: "organizationCode", Value: 1}, {Key: "employeeId", Value: 1}}, Options: options.Index().SetName("org_employee")},
	},
}

/*
* Create every index of IndexPlan
* Existing indexes with the same definition are left alone by the server
 */
func CreateIndexes(ctx context.Context, database *mongo.Database, log *logrus.Logger) error {
	for collection, models := range IndexPlan {
		names, err := database.Collection(collection).Indexes().CreateMany(ctx, models)
		if err != nil {
			log.WithError(err).WithField("collection", collection).Error("index creation failed")
			return err
		}
		log.WithFields(logrus.Fields{"collection": collection, "indexes": names}).Debug("indexes ensured")
	}
	log.Info("Migration applied: indexes ensured")
	return nil
}
