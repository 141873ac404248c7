package repository

import (
	"context"

	"WorkForce360/models"
	"WorkForce360/util"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// OrganizationRepository is global: organizations are the tenants themselves.
type OrganizationRepository interface {
	Create(ctx context.Context, org *models.Organization) error
	FindByCode(ctx context.Context, code string) (*models.Organization, error)
	List(ctx context.Context) ([]models.Organization, error)
	Update(ctx context.Context, org *models.Organization) error
}

type MongoOrganizationRepository struct {
	coll *mongo.Collection
}

func NewMongoOrganizationRepository(database *mongo.Database) *MongoOrganizationRepository {
	return &MongoOrganizationRepository{coll: database.Collection(util.OrganizationCollection)}
}

func (r *MongoOrganizationRepository) Create(ctx context.Context, org *models.Organization) error {
	id, err := insertOne(ctx, r.coll, org)
	if err != nil {
		return err
	}
	org.ID = id.(primitive.ObjectID)
	return nil
}

func (r *MongoOrganizationRepository) FindByCode(ctx context.Context, code string) (*models.Organization, error) {
	var org models.Organization
	if err := findOne(ctx, r.coll, bson.M{"code": code}, &org); err != nil {
		return nil, err
	}
	return &org, nil
}

func (r *MongoOrganizationRepository) List(ctx context.Context) ([]models.Organization, error) {
	return findAll[models.Organization](ctx, r.coll, bson.M{}, sortBy(bson.E{Key: "code", Value: 1}))
}

func (r *MongoOrganizationRepository) Update(ctx context.Context, org *models.Organization) error {
	return replaceOne(ctx, r.coll, bson.M{"_id": org.ID}, org)
}
