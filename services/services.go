// Package services holds the business rules of every module. Services take a
// context.Context and typed inputs, talk to storage through the repository
// interfaces and report failures as util.AppError values.
package services

import (
	"context"
	"errors"
	"time"

	"WorkForce360/models"
	"WorkForce360/repository"
	"WorkForce360/role"
	"WorkForce360/util"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Cache is the subset of the Redis helper the services rely on.
type Cache interface {
	SetCache(ctx context.Context, key string, value interface{}) error
	GetCache(ctx context.Context, key string, target interface{}) (bool, error)
	DeleteCache(ctx context.Context, keys ...string) error
	DeletePrefix(ctx context.Context, prefix string) error
}

// NoopCache is used when Redis is not configured.
type NoopCache struct{}

func (NoopCache) SetCache(context.Context, string, interface{}) error        { return nil }
func (NoopCache) GetCache(context.Context, string, interface{}) (bool, error) { return false, nil }
func (NoopCache) DeleteCache(context.Context, ...string) error                { return nil }
func (NoopCache) DeletePrefix(context.Context, string) error                  { return nil }

// Actor is the authenticated caller of an operation.
type Actor struct {
	UserID           string
	Email            string
	Level            role.Level
	OrganizationCode string
}

func (a Actor) IsSuperAdmin() bool { return a.Level == role.SuperAdmin }

// SystemActor runs maintenance work such as seeding and scheduled jobs.
var SystemActor = Actor{UserID: "system", Level: role.SuperAdmin}

// ParseID converts a hex id from a path or body into an ObjectID.
func ParseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, util.Validation(util.INVALID_ID)
	}
	return oid, nil
}

/*
* Map repository sentinels onto the error taxonomy.
* notFound is the message used for a missing document.
 */
func storeError(err error, notFound string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return util.NotFound(notFound)
	case errors.Is(err, repository.ErrNoTenant):
		return util.Validation(util.ORGANIZATION_CODE_REQUIRED)
	}
	if _, ok := util.AsAppError(err); ok {
		return err
	}
	return util.Internal("storage failure", err)
}

// logFailure records unexpected errors; classified business errors are not logged.
func logFailure(log *logrus.Logger, err error, fields logrus.Fields) {
	if err == nil {
		return
	}
	if appErr, ok := util.AsAppError(err); ok && appErr.Kind != util.KindInternal {
		return
	}
	log.WithFields(fields).WithError(err).Error("operation failed")
}

// organizationLocation is the organization's timezone, or fallback when it is unset or unknown.
func organizationLocation(org *models.Organization, fallback *time.Location) *time.Location {
	if org == nil || org.Timezone == "" {
		return fallback
	}
	loc, err := time.LoadLocation(org.Timezone)
	if err != nil {
		return fallback
	}
	return loc
}

// clock is swapped in tests to pin the current time.
type clock func() time.Time
