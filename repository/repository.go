// Package repository holds the persistence contracts of every entity and their
// MongoDB implementations. Tenant-scoped methods take a Tenant and build their
// filters through it, so a query without an organization code cannot be issued.
package repository

import (
	"context"
	"errors"

	"WorkForce360/config/db"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound        = errors.New("document not found")
	ErrDuplicate       = errors.New("duplicate key")
	ErrVersionConflict = errors.New("document was modified concurrently")
	ErrNoTenant        = errors.New("organization code is required for tenant scoped access")
)

// Tenant is an organization code used as the partition key.
type Tenant string

func (t Tenant) Code() string { return string(t) }

func (t Tenant) IsSystem() bool { return t == "" }

// Filter adds the organization code to f.
func (t Tenant) Filter(f bson.M) (bson.M, error) {
	if t == "" {
		return nil, ErrNoTenant
	}
	out := bson.M{}
	for k, v := range f {
		out[k] = v
	}
	out["organizationCode"] = string(t)
	return out, nil
}

// WithSystem matches documents of the tenant or documents flagged by systemField.
// The empty tenant matches system documents only.
func (t Tenant) WithSystem(systemField string, f bson.M) bson.M {
	out := bson.M{}
	for k, v := range f {
		out[k] = v
	}
	if t == "" {
		out[systemField] = true
		return out
	}
	out["$or"] = bson.A{
		bson.M{"organizationCode": string(t)},
		bson.M{systemField: true},
	}
	return out
}

// Exact matches the tenant's own documents, or only system documents for the empty tenant.
func (t Tenant) Exact(systemField string, f bson.M) bson.M {
	out := bson.M{}
	for k, v := range f {
		out[k] = v
	}
	if t == "" {
		out[systemField] = true
		return out
	}
	out["organizationCode"] = string(t)
	return out
}

func findOne(ctx context.Context, coll *mongo.Collection, filter interface{}, out interface{}) error {
	err := coll.FindOne(ctx, filter).Decode(out)
	if db.IsNoDocuments(err) {
		return ErrNotFound
	}
	return err
}

func findAll[T any](ctx context.Context, coll *mongo.Collection, filter interface{}, opts ...*optionsFind) ([]T, error) {
	cur, err := coll.Find(ctx, filter, toFindOptions(opts)...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []T{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func insertOne(ctx context.Context, coll *mongo.Collection, doc interface{}) (interface{}, error) {
	res, err := coll.InsertOne(ctx, doc)
	if err != nil {
		if db.IsDuplicateKey(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return res.InsertedID, nil
}

func replaceOne(ctx context.Context, coll *mongo.Collection, filter interface{}, doc interface{}) error {
	res, err := coll.ReplaceOne(ctx, filter, doc)
	if err != nil {
		if db.IsDuplicateKey(err) {
			return ErrDuplicate
		}
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func deleteOne(ctx context.Context, coll *mongo.Collection, filter interface{}) error {
	res, err := coll.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
