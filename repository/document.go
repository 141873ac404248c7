package repository

import (
	"context"

	"WorkForce360/models"
	"WorkForce360/util"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type DocumentRepository interface {
	Create(ctx context.Context, doc *models.Document) error
	FindByID(ctx context.Context, t Tenant, id primitive.ObjectID) (*models.Document, error)
	List(ctx context.Context, t Tenant, employeeID *primitive.ObjectID) ([]models.Document, error)
	Delete(ctx context.Context, t Tenant, id primitive.ObjectID) error
}

type MongoDocumentRepository struct {
	coll *mongo.Collection
}

func NewMongoDocumentRepository(database *mongo.Database) *MongoDocumentRepository {
	return &MongoDocumentRepository{coll: database.Collection(util.DocumentCollection)}
}

func (r *MongoDocumentRepository) Create(ctx context.Context, doc *models.Document) error {
	if doc.OrganizationCode == "" {
		return ErrNoTenant
	}
	id, err := insertOne(ctx, r.coll, doc)
	if err != nil {
		return err
	}
	doc.ID = id.(primitive.ObjectID)
	return nil
}

func (r *MongoDocumentRepository) FindByID(ctx context.Context, t Tenant, id primitive.ObjectID) (*models.Document, error) {
	filter, err := t.Filter(bson.M{"_id": id})
	if err != nil {
		return nil, err
	}
	var doc models.Document
	if err := findOne(ctx, r.coll, filter, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *MongoDocumentRepository) List(ctx context.Context, t Tenant, employeeID *primitive.ObjectID) ([]models.Document, error) {
	query := bson.M{}
	if employeeID != nil {
		query["employeeId"] = *employeeID
	}
	filter, err := t.Filter(query)
	if err != nil {
		return nil, err
	}
	return findAll[models.Document](ctx, r.coll, filter, sortBy(bson.E{Key: "createdAt", Value: -1}))
}

func (r *MongoDocumentRepository) Delete(ctx context.Context, t Tenant, id primitive.ObjectID) error {
	filter, err := t.Filter(bson.M{"_id": id})
	if err != nil {
		return err
	}
	return deleteOne(ctx, r.coll, filter)
}
