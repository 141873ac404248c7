package models

import (
	"time"

	"WorkForce360/role"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	DataAccessAll  = "ALL"
	DataAccessTeam = "TEAM"
	DataAccessOwn  = "OWN"
)

func ValidDataAccessLevel(level string) bool {
	switch level {
	case DataAccessAll, DataAccessTeam, DataAccessOwn:
		return true
	}
	return false
}

type Role struct {
	ID               primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Name             string               `json:"name" bson:"name"`
	DisplayName      string               `json:"displayName" bson:"displayName"`
	Description      string               `json:"description,omitempty" bson:"description,omitempty"`
	Permissions      []primitive.ObjectID `json:"permissions" bson:"permissions"`
	IsActive         bool                 `json:"isActive" bson:"isActive"`
	IsSystemRole     bool                 `json:"isSystemRole" bson:"isSystemRole"`
	Level            role.Level           `json:"level" bson:"level"`
	DataAccessLevel  string               `json:"dataAccessLevel" bson:"dataAccessLevel"`
	OrganizationCode string               `json:"organizationCode,omitempty" bson:"organizationCode,omitempty"`
	CreatedAt        time.Time            `json:"createdAt" bson:"createdAt"`
	CreatedBy        string               `json:"createdBy" bson:"createdBy"`
	UpdatedAt        time.Time            `json:"updatedAt" bson:"updatedAt"`
	UpdatedBy        string               `json:"updatedBy" bson:"updatedBy"`
}

func (r *Role) HasPermissionID(id primitive.ObjectID) bool {
	for _, p := range r.Permissions {
		if p == id {
			return true
		}
	}
	return false
}
