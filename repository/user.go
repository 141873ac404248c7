package repository

import (
	"context"

	"WorkForce360/models"
	"WorkForce360/role"
	"WorkForce360/util"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type UserFilter struct {
	Status     string
	Department string
	Role       role.Level
}

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, t Tenant, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, t Tenant, email string) (*models.User, error)
	ExistsByEmployeeCode(ctx context.Context, t Tenant, code string) (bool, error)
	List(ctx context.Context, t Tenant, filter UserFilter) ([]models.User, error)
	Update(ctx context.Context, t Tenant, user *models.User) error
	Delete(ctx context.Context, t Tenant, id primitive.ObjectID) error
	CountByRole(ctx context.Context, t Tenant, level role.Level) (int64, error)
	FindActiveAbove(ctx context.Context, t Tenant, level role.Level) ([]models.User, error)
}

type MongoUserRepository struct {
	coll *mongo.Collection
}

func NewMongoUserRepository(database *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{coll: database.Collection(util.UserCollection)}
}

func (r *MongoUserRepository) Create(ctx context.Context, user *models.User) error {
	if user.OrganizationCode == "" {
		return ErrNoTenant
	}
	id, err := insertOne(ctx, r.coll, user)
	if err != nil {
		return err
	}
	user.ID = id.(primitive.ObjectID)
	return nil
}

func (r *MongoUserRepository) FindByID(ctx context.Context, t Tenant, id primitive.ObjectID) (*models.User, error) {
	filter, err := t.Filter(bson.M{"_id": id})
	if err != nil {
		return nil, err
	}
	var user models.User
	if err := findOne(ctx, r.coll, filter, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *MongoUserRepository) FindByEmail(ctx context.Context, t Tenant, email string) (*models.User, error) {
	filter, err := t.Filter(bson.M{"email": email})
	if err != nil {
		return nil, err
	}
	var user models.User
	if err := findOne(ctx, r.coll, filter, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *MongoUserRepository) ExistsByEmployeeCode(ctx context.Context, t Tenant, code string) (bool, error) {
	filter, err := t.Filter(bson.M{"employeeCode": code})
	if err != nil {
		return false, err
	}
	n, err := r.coll.CountDocuments(ctx, filter)
	return n > 0, err
}

func (r *MongoUserRepository) List(ctx context.Context, t Tenant, f UserFilter) ([]models.User, error) {
	query := bson.M{}
	if f.Status != "" {
		query["status"] = f.Status
	}
	if f.Department != "" {
		query["department"] = f.Department
	}
	if f.Role != 0 {
		query["role"] = f.Role
	}
	filter, err := t.Filter(query)
	if err != nil {
		return nil, err
	}
	return findAll[models.User](ctx, r.coll, filter, sortBy(bson.E{Key: "fullName", Value: 1}))
}

func (r *MongoUserRepository) Update(ctx context.Context, t Tenant, user *models.User) error {
	filter, err := t.Filter(bson.M{"_id": user.ID})
	if err != nil {
		return err
	}
	return replaceOne(ctx, r.coll, filter, user)
}

func (r *MongoUserRepository) Delete(ctx context.Context, t Tenant, id primitive.ObjectID) error {
	filter, err := t.Filter(bson.M{"_id": id})
	if err != nil {
		return err
	}
	return deleteOne(ctx, r.coll, filter)
}

func (r *MongoUserRepository) CountByRole(ctx context.Context, t Tenant, level role.Level) (int64, error) {
	filter, err := t.Filter(bson.M{"role": level})
	if err != nil {
		return 0, err
	}
	return r.coll.CountDocuments(ctx, filter)
}

func (r *MongoUserRepository) FindActiveAbove(ctx context.Context, t Tenant, level role.Level) ([]models.User, error) {
	filter, err := t.Filter(bson.M{
		"role":   bson.M{"$lt": level},
		"status": models.UserStatusActive,
	})
	if err != nil {
		return nil, err
	}
	return findAll[models.User](ctx, r.coll, filter,
		sortBy(bson.E{Key: "role", Value: 1}, bson.E{Key: "fullName", Value: 1}))
}
