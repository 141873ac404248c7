package repository

import (
	"context"
	"time"

	"WorkForce360/models"
	"WorkForce360/util"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type AttendanceRepository interface {
	// Insert returns ErrDuplicate when the employee already has a record for the day.
	Insert(ctx context.Context, rec *models.AttendanceRecord) error
	FindByID(ctx context.Context, t Tenant, id primitive.ObjectID) (*models.AttendanceRecord, error)
	FindForDay(ctx context.Context, t Tenant, employeeID primitive.ObjectID, day time.Time) ([]models.AttendanceRecord, error)
	// Replace writes rec only if the stored version still equals rec.Version and bumps it.
	Replace(ctx context.Context, t Tenant, rec *models.AttendanceRecord) error
	DeleteForDay(ctx context.Context, t Tenant, employeeID primitive.ObjectID, day time.Time) (int64, error)
	FindByEmployeeBetween(ctx context.Context, t Tenant, employeeID primitive.ObjectID, from, to time.Time) ([]models.AttendanceRecord, error)
	FindByDay(ctx context.Context, t Tenant, day time.Time) ([]models.AttendanceRecord, error)
	// FindOpenBefore is a maintenance query across every tenant.
	FindOpenBefore(ctx context.Context, cutoff time.Time) ([]models.AttendanceRecord, error)
}

type MongoAttendanceRepository struct {
	coll *mongo.Collection
}

func NewMongoAttendanceRepository(database *mongo.Database) *MongoAttendanceRepository {
	return &MongoAttendanceRepository{coll: database.Collection(util.AttendanceCollection)}
}

func (r *MongoAttendanceRepository) Insert(ctx context.Context, rec *models.AttendanceRecord) error {
	if rec.OrganizationCode == "" {
		return ErrNoTenant
	}
	id, err := insertOne(ctx, r.coll, rec)
	if err != nil {
		return err
	}
	rec.ID = id.(primitive.ObjectID)
	return nil
}

func (r *MongoAttendanceRepository) FindByID(ctx context.Context, t Tenant, id primitive.ObjectID) (*models.AttendanceRecord, error) {
	filter, err := t.Filter(bson.M{"_id": id})
	if err != nil {
		return nil, err
	}
	var rec models.AttendanceRecord
	if err := findOne(ctx, r.coll, filter, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *MongoAttendanceRepository) FindForDay(ctx context.Context, t Tenant, employeeID primitive.ObjectID, day time.Time) ([]models.AttendanceRecord, error) {
	filter, err := t.Filter(bson.M{"employeeId": employeeID, "date": day})
	if err != nil {
		return nil, err
	}
	return findAll[models.AttendanceRecord](ctx, r.coll, filter, sortBy(bson.E{Key: "checkIn", Value: 1}))
}

func (r *MongoAttendanceRepository) Replace(ctx context.Context, t Tenant, rec *models.AttendanceRecord) error {
	filter, err := t.Filter(bson.M{"_id": rec.ID, "version": rec.Version})
	if err != nil {
		return err
	}
	next := *rec
	next.Version = rec.Version + 1
	res, err := r.coll.ReplaceOne(ctx, filter, &next)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrVersionConflict
	}
	rec.Version = next.Version
	return nil
}

func (r *MongoAttendanceRepository) DeleteForDay(ctx context.Context, t Tenant, employeeID primitive.ObjectID, day time.Time) (int64, error) {
	filter, err := t.Filter(bson.M{"employeeId": employeeID, "date": day})
	if err != nil {
		return 0, err
	}
	res, err := r.coll.DeleteMany(ctx, filter)
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (r *MongoAttendanceRepository) FindByEmployeeBetween(ctx context.Context, t Tenant, employeeID primitive.ObjectID, from, to time.Time) ([]models.AttendanceRecord, error) {
	filter, err := t.Filter(bson.M{
		"employeeId": employeeID,
		"date":       bson.M{"$gte": from, "$lt": to},
	})
	if err != nil {
		return nil, err
	}
	return findAll[models.AttendanceRecord](ctx, r.coll, filter, sortBy(bson.E{Key: "date", Value: 1}))
}

func (r *MongoAttendanceRepository) FindByDay(ctx context.Context, t Tenant, day time.Time) ([]models.AttendanceRecord, error) {
	filter, err := t.Filter(bson.M{"date": day})
	if err != nil {
		return nil, err
	}
	return findAll[models.AttendanceRecord](ctx, r.coll, filter, sortBy(bson.E{Key: "checkIn", Value: 1}))
}

func (r *MongoAttendanceRepository) FindOpenBefore(ctx context.Context, cutoff time.Time) ([]models.AttendanceRecord, error) {
	return findAll[models.AttendanceRecord](ctx, r.coll, bson.M{
		"isLoggedIn": true,
		"date":       bson.M{"$lt": cutoff},
	})
}
