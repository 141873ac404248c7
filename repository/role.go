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

// RoleRepository scopes lookups to the tenant's roles plus the shared system roles.
// Writes always target tenant roles; system roles are seeded with the empty tenant.
type RoleRepository interface {
	Create(ctx context.Context, r *models.Role) error
	FindByID(ctx context.Context, t Tenant, id primitive.ObjectID) (*models.Role, error)
	FindByName(ctx context.Context, t Tenant, name string) (*models.Role, error)
	List(ctx context.Context, t Tenant) ([]models.Role, error)
	FindActiveByLevel(ctx context.Context, t Tenant, level role.Level) ([]models.Role, error)
	Update(ctx context.Context, t Tenant, r *models.Role) error
	AddPermissions(ctx context.Context, t Tenant, id primitive.ObjectID, permissionIDs []primitive.ObjectID) error
	RemovePermissions(ctx context.Context, t Tenant, id primitive.ObjectID, permissionIDs []primitive.ObjectID) error
	Delete(ctx context.Context, t Tenant, id primitive.ObjectID) error
	CountReferencing(ctx context.Context, permissionID primitive.ObjectID) (int64, error)
}

type MongoRoleRepository struct {
	coll *mongo.Collection
}

func NewMongoRoleRepository(database *mongo.Database) *MongoRoleRepository {
	return &MongoRoleRepository{coll: database.Collection(util.RoleCollection)}
}

func (r *MongoRoleRepository) Create(ctx context.Context, doc *models.Role) error {
	if doc.OrganizationCode == "" && !doc.IsSystemRole {
		return ErrNoTenant
	}
	id, err := insertOne(ctx, r.coll, doc)
	if err != nil {
		return err
	}
	doc.ID = id.(primitive.ObjectID)
	return nil
}

func (r *MongoRoleRepository) FindByID(ctx context.Context, t Tenant, id primitive.ObjectID) (*models.Role, error) {
	var doc models.Role
	if err := findOne(ctx, r.coll, t.WithSystem("isSystemRole", bson.M{"_id": id}), &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *MongoRoleRepository) FindByName(ctx context.Context, t Tenant, name string) (*models.Role, error) {
	var doc models.Role
	if err := findOne(ctx, r.coll, t.Exact("isSystemRole", bson.M{"name": name}), &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *MongoRoleRepository) List(ctx context.Context, t Tenant) ([]models.Role, error) {
	return findAll[models.Role](ctx, r.coll, t.WithSystem("isSystemRole", bson.M{}),
		sortBy(bson.E{Key: "level", Value: 1}, bson.E{Key: "name", Value: 1}))
}

func (r *MongoRoleRepository) FindActiveByLevel(ctx context.Context, t Tenant, level role.Level) ([]models.Role, error) {
	return findAll[models.Role](ctx, r.coll, t.WithSystem("isSystemRole", bson.M{"level": level, "isActive": true}))
}

func (r *MongoRoleRepository) Update(ctx context.Context, t Tenant, doc *models.Role) error {
	filter, err := t.Filter(bson.M{"_id": doc.ID, "isSystemRole": false})
	if err != nil {
		return err
	}
	return replaceOne(ctx, r.coll, filter, doc)
}

func (r *MongoRoleRepository) AddPermissions(ctx context.Context, t Tenant, id primitive.ObjectID, permissionIDs []primitive.ObjectID) error {
	return r.updatePermissions(ctx, t, id, bson.M{"$addToSet": bson.M{"permissions": bson.M{"$each": permissionIDs}}})
}

func (r *MongoRoleRepository) RemovePermissions(ctx context.Context, t Tenant, id primitive.ObjectID, permissionIDs []primitive.ObjectID) error {
	return r.updatePermissions(ctx, t, id, bson.M{"$pull": bson.M{"permissions": bson.M{"$in": permissionIDs}}})
}

func (r *MongoRoleRepository) updatePermissions(ctx context.Context, t Tenant, id primitive.ObjectID, update bson.M) error {
	filter, err := t.Filter(bson.M{"_id": id, "isSystemRole": false})
	if err != nil {
		return err
	}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoRoleRepository) Delete(ctx context.Context, t Tenant, id primitive.ObjectID) error {
	filter, err := t.Filter(bson.M{"_id": id, "isSystemRole": false})
	if err != nil {
		return err
	}
	return deleteOne(ctx, r.coll, filter)
}

// CountReferencing counts roles of any tenant that hold the permission.
func (r *MongoRoleRepository) CountReferencing(ctx context.Context, permissionID primitive.ObjectID) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{"permissions": permissionID})
}
