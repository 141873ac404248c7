package repository

import (
	"context"

	"WorkForce360/models"
	"WorkForce360/util"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type PermissionRepository interface {
	Create(ctx context.Context, p *models.Permission) error
	FindByID(ctx context.Context, t Tenant, id primitive.ObjectID) (*models.Permission, error)
	FindByIDs(ctx context.Context, t Tenant, ids []primitive.ObjectID) ([]models.Permission, error)
	FindByName(ctx context.Context, t Tenant, name string) (*models.Permission, error)
	List(ctx context.Context, t Tenant, module string) ([]models.Permission, error)
	Update(ctx context.Context, t Tenant, p *models.Permission) error
	Delete(ctx context.Context, t Tenant, id primitive.ObjectID) error
}

type MongoPermissionRepository struct {
	coll *mongo.Collection
}

func NewMongoPermissionRepository(database *mongo.Database) *MongoPermissionRepository {
	return &MongoPermissionRepository{coll: database.Collection(util.PermissionCollection)}
}

func (r *MongoPermissionRepository) Create(ctx context.Context, p *models.Permission) error {
	if p.OrganizationCode == "" && !p.IsSystemPermission {
		return ErrNoTenant
	}
	id, err := insertOne(ctx, r.coll, p)
	if err != nil {
		return err
	}
	p.ID = id.(primitive.ObjectID)
	return nil
}

func (r *MongoPermissionRepository) FindByID(ctx context.Context, t Tenant, id primitive.ObjectID) (*models.Permission, error) {
	var p models.Permission
	if err := findOne(ctx, r.coll, t.WithSystem("isSystemPermission", bson.M{"_id": id}), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *MongoPermissionRepository) FindByIDs(ctx context.Context, t Tenant, ids []primitive.ObjectID) ([]models.Permission, error) {
	if len(ids) == 0 {
		return []models.Permission{}, nil
	}
	return findAll[models.Permission](ctx, r.coll, t.WithSystem("isSystemPermission", bson.M{"_id": bson.M{"$in": ids}}))
}

func (r *MongoPermissionRepository) FindByName(ctx context.Context, t Tenant, name string) (*models.Permission, error) {
	var p models.Permission
	if err := findOne(ctx, r.coll, t.Exact("isSystemPermission", bson.M{"name": name}), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *MongoPermissionRepository) List(ctx context.Context, t Tenant, module string) ([]models.Permission, error) {
	query := bson.M{}
	if module != "" {
		query["module"] = module
	}
	return findAll[models.Permission](ctx, r.coll, t.WithSystem("isSystemPermission", query),
		sortBy(bson.E{Key: "module", Value: 1}, bson.E{Key: "action", Value: 1}))
}

// Update and Delete only reach the tenant's own permissions, or system ones for the empty tenant.
func (r *MongoPermissionRepository) Update(ctx context.Context, t Tenant, p *models.Permission) error {
	return replaceOne(ctx, r.coll, t.Exact("isSystemPermission", bson.M{"_id": p.ID}), p)
}

func (r *MongoPermissionRepository) Delete(ctx context.Context, t Tenant, id primitive.ObjectID) error {
	return deleteOne(ctx, r.coll, t.Exact("isSystemPermission", bson.M{"_id": id}))
}
