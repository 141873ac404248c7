package repository

import (
	"context"

	"WorkForce360/models"
	"WorkForce360/util"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type PayrollFilter struct {
	Month      int
	Year       int
	EmployeeID *primitive.ObjectID
}

type PayrollRepository interface {
	// Create returns ErrDuplicate when the period already has a record for the employee.
	Create(ctx context.Context, rec *models.PayrollRecord) error
	FindByID(ctx context.Context, t Tenant, id primitive.ObjectID) (*models.PayrollRecord, error)
	FindByPeriod(ctx context.Context, t Tenant, employeeID primitive.ObjectID, month, year int) (*models.PayrollRecord, error)
	List(ctx context.Context, t Tenant, filter PayrollFilter) ([]models.PayrollRecord, error)
	Update(ctx context.Context, t Tenant, rec *models.PayrollRecord) error
	Delete(ctx context.Context, t Tenant, id primitive.ObjectID) error
}

type MongoPayrollRepository struct {
	coll *mongo.Collection
}

func NewMongoPayrollRepository(database *mongo.Database) *MongoPayrollRepository {
	return &MongoPayrollRepository{coll: database.Collection(util.PayrollCollection)}
}

func (r *MongoPayrollRepository) Create(ctx context.Context, rec *models.PayrollRecord) error {
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

func (r *MongoPayrollRepository) FindByID(ctx context.Context, t Tenant, id primitive.ObjectID) (*models.PayrollRecord, error) {
	filter, err := t.Filter(bson.M{"_id": id})
	if err != nil {
		return nil, err
	}
	var rec models.PayrollRecord
	if err := findOne(ctx, r.coll, filter, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *MongoPayrollRepository) FindByPeriod(ctx context.Context, t Tenant, employeeID primitive.ObjectID, month, year int) (*models.PayrollRecord, error) {
	filter, err := t.Filter(bson.M{"employeeId": employeeID, "month": month, "year": year})
	if err != nil {
		return nil, err
	}
	var rec models.PayrollRecord
	if err := findOne(ctx, r.coll, filter, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *MongoPayrollRepository) List(ctx context.Context, t Tenant, f PayrollFilter) ([]models.PayrollRecord, error) {
	query := bson.M{}
	if f.Month != 0 {
		query["month"] = f.Month
	}
	if f.Year != 0 {
		query["year"] = f.Year
	}
	if f.EmployeeID != nil {
		query["employeeId"] = *f.EmployeeID
	}
	filter, err := t.Filter(query)
	if err != nil {
		return nil, err
	}
	return findAll[models.PayrollRecord](ctx, r.coll, filter,
		sortBy(bson.E{Key: "year", Value: -1}, bson.E{Key: "month", Value: -1}))
}

func (r *MongoPayrollRepository) Update(ctx context.Context, t Tenant, rec *models.PayrollRecord) error {
	filter, err := t.Filter(bson.M{"_id": rec.ID})
	if err != nil {
		return err
	}
	return replaceOne(ctx, r.coll, filter, rec)
}

func (r *MongoPayrollRepository) Delete(ctx context.Context, t Tenant, id primitive.ObjectID) error {
	filter, err := t.Filter(bson.M{"_id": id})
	if err != nil {
		return err
	}
	return deleteOne(ctx, r.coll, filter)
}
