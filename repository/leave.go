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

type LeaveTypeRepository interface {
	Create(ctx context.Context, lt *models.LeaveType) error
	FindByID(ctx context.Context, t Tenant, id primitive.ObjectID) (*models.LeaveType, error)
	FindByName(ctx context.Context, t Tenant, name string) (*models.LeaveType, error)
	List(ctx context.Context, t Tenant) ([]models.LeaveType, error)
	Update(ctx context.Context, t Tenant, lt *models.LeaveType) error
	Delete(ctx context.Context, t Tenant, id primitive.ObjectID) error
}

type LeaveFilter struct {
	EmployeeID *primitive.ObjectID
	Status     string
}

type LeaveApplicationRepository interface {
	Create(ctx context.Context, app *models.LeaveApplication) error
	FindByID(ctx context.Context, t Tenant, id primitive.ObjectID) (*models.LeaveApplication, error)
	// FindBlockingOverlaps returns pending or approved applications intersecting [start, end].
	FindBlockingOverlaps(ctx context.Context, t Tenant, employeeID primitive.ObjectID, start, end time.Time) ([]models.LeaveApplication, error)
	List(ctx context.Context, t Tenant, filter LeaveFilter) ([]models.LeaveApplication, error)
	FindByEmployeeBetween(ctx context.Context, t Tenant, employeeID primitive.ObjectID, from, to time.Time) ([]models.LeaveApplication, error)
	CountByLeaveType(ctx context.Context, t Tenant, leaveTypeID primitive.ObjectID) (int64, error)
	// UpdateIfStatus replaces app only while the stored status is still expected.
	UpdateIfStatus(ctx context.Context, t Tenant, app *models.LeaveApplication, expected string) error
}

type MongoLeaveTypeRepository struct {
	coll *mongo.Collection
}

func NewMongoLeaveTypeRepository(database *mongo.Database) *MongoLeaveTypeRepository {
	return &MongoLeaveTypeRepository{coll: database.Collection(util.LeaveTypeCollection)}
}

func (r *MongoLeaveTypeRepository) Create(ctx context.Context, lt *models.LeaveType) error {
	if lt.OrganizationCode == "" {
		return ErrNoTenant
	}
	id, err := insertOne(ctx, r.coll, lt)
	if err != nil {
		return err
	}
	lt.ID = id.(primitive.ObjectID)
	return nil
}

func (r *MongoLeaveTypeRepository) FindByID(ctx context.Context, t Tenant, id primitive.ObjectID) (*models.LeaveType, error) {
	filter, err := t.Filter(bson.M{"_id": id})
	if err != nil {
		return nil, err
	}
	var lt models.LeaveType
	if err := findOne(ctx, r.coll, filter, &lt); err != nil {
		return nil, err
	}
	return &lt, nil
}

func (r *MongoLeaveTypeRepository) FindByName(ctx context.Context, t Tenant, name string) (*models.LeaveType, error) {
	filter, err := t.Filter(bson.M{"name": name})
	if err != nil {
		return nil, err
	}
	var lt models.LeaveType
	if err := findOne(ctx, r.coll, filter, &lt); err != nil {
		return nil, err
	}
	return &lt, nil
}

func (r *MongoLeaveTypeRepository) List(ctx context.Context, t Tenant) ([]models.LeaveType, error) {
	filter, err := t.Filter(bson.M{})
	if err != nil {
		return nil, err
	}
	return findAll[models.LeaveType](ctx, r.coll, filter, sortBy(bson.E{Key: "name", Value: 1}))
}

func (r *MongoLeaveTypeRepository) Update(ctx context.Context, t Tenant, lt *models.LeaveType) error {
	filter, err := t.Filter(bson.M{"_id": lt.ID})
	if err != nil {
		return err
	}
	return replaceOne(ctx, r.coll, filter, lt)
}

func (r *MongoLeaveTypeRepository) Delete(ctx context.Context, t Tenant, id primitive.ObjectID) error {
	filter, err := t.Filter(bson.M{"_id": id})
	if err != nil {
		return err
	}
	return deleteOne(ctx, r.coll, filter)
}

type MongoLeaveApplicationRepository struct {
	coll *mongo.Collection
}

func NewMongoLeaveApplicationRepository(database *mongo.Database) *MongoLeaveApplicationRepository {
	return &MongoLeaveApplicationRepository{coll: database.Collection(util.LeaveApplicationCollection)}
}

func (r *MongoLeaveApplicationRepository) Create(ctx context.Context, app *models.LeaveApplication) error {
	if app.OrganizationCode == "" {
		return ErrNoTenant
	}
	id, err := insertOne(ctx, r.coll, app)
	if err != nil {
		return err
	}
	app.ID = id.(primitive.ObjectID)
	return nil
}

func (r *MongoLeaveApplicationRepository) FindByID(ctx context.Context, t Tenant, id primitive.ObjectID) (*models.LeaveApplication, error) {
	filter, err := t.Filter(bson.M{"_id": id})
	if err != nil {
		return nil, err
	}
	var app models.LeaveApplication
	if err := findOne(ctx, r.coll, filter, &app); err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *MongoLeaveApplicationRepository) FindBlockingOverlaps(ctx context.Context, t Tenant, employeeID primitive.ObjectID, start, end time.Time) ([]models.LeaveApplication, error) {
	filter, err := t.Filter(bson.M{
		"employeeId": employeeID,
		"status":     bson.M{"$in": bson.A{models.LeavePending, models.LeaveApproved}},
		"startDate":  bson.M{"$lte": end},
		"endDate":    bson.M{"$gte": start},
	})
	if err != nil {
		return nil, err
	}
	return findAll[models.LeaveApplication](ctx, r.coll, filter)
}

func (r *MongoLeaveApplicationRepository) List(ctx context.Context, t Tenant, f LeaveFilter) ([]models.LeaveApplication, error) {
	query := bson.M{}
	if f.EmployeeID != nil {
		query["employeeId"] = *f.EmployeeID
	}
	if f.Status != "" {
		query["status"] = f.Status
	}
	filter, err := t.Filter(query)
	if err != nil {
		return nil, err
	}
	return findAll[models.LeaveApplication](ctx, r.coll, filter, sortBy(bson.E{Key: "appliedAt", Value: -1}))
}

func (r *MongoLeaveApplicationRepository) FindByEmployeeBetween(ctx context.Context, t Tenant, employeeID primitive.ObjectID, from, to time.Time) ([]models.LeaveApplication, error) {
	filter, err := t.Filter(bson.M{
		"employeeId": employeeID,
		"startDate":  bson.M{"$gte": from, "$lt": to},
	})
	if err != nil {
		return nil, err
	}
	return findAll[models.LeaveApplication](ctx, r.coll, filter)
}

func (r *MongoLeaveApplicationRepository) CountByLeaveType(ctx context.Context, t Tenant, leaveTypeID primitive.ObjectID) (int64, error) {
	filter, err := t.Filter(bson.M{"leaveTypeId": leaveTypeID})
	if err != nil {
		return 0, err
	}
	return r.coll.CountDocuments(ctx, filter)
}

func (r *MongoLeaveApplicationRepository) UpdateIfStatus(ctx context.Context, t Tenant, app *models.LeaveApplication, expected string) error {
	filter, err := t.Filter(bson.M{"_id": app.ID, "status": expected})
	if err != nil {
		return err
	}
	res, err := r.coll.ReplaceOne(ctx, filter, app)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrVersionConflict
	}
	return nil
}
