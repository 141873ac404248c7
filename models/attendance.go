package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	AttendancePresent      = "present"
	AttendanceAbsent       = "absent"
	AttendanceLate         = "late"
	AttendanceHalfDay      = "half-day"
	AttendanceWorkFromHome = "work-from-home"
)

// AttendanceRecord is one employee's clock record for one local calendar day.
// CheckIn is the first arrival of the day; reopening never moves it.
type AttendanceRecord struct {
	ID               primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	EmployeeID       primitive.ObjectID `json:"employeeId" bson:"employeeId"`
	OrganizationCode string             `json:"organizationCode" bson:"organizationCode"`
	Date             time.Time          `json:"date" bson:"date"`
	CheckIn          time.Time          `json:"checkIn" bson:"checkIn"`
	CheckOut         *time.Time         `json:"checkOut,omitempty" bson:"checkOut,omitempty"`
	LastCheckIn      *time.Time         `json:"lastCheckIn,omitempty" bson:"lastCheckIn,omitempty"`
	TotalHours       float64            `json:"totalHours" bson:"totalHours"`
	Status           string             `json:"status" bson:"status"`
	Notes            string             `json:"notes,omitempty" bson:"notes,omitempty"`
	IsLoggedIn       bool               `json:"isLoggedIn" bson:"isLoggedIn"`
	SessionCount     int                `json:"sessionCount" bson:"sessionCount"`
	Version          int64              `json:"-" bson:"version"`
	CreatedAt        time.Time          `json:"createdAt" bson:"createdAt"`
	CreatedBy        string             `json:"createdBy" bson:"createdBy"`
	UpdatedAt        time.Time          `json:"updatedAt" bson:"updatedAt"`
	UpdatedBy        string             `json:"updatedBy" bson:"updatedBy"`
}

func (r *AttendanceRecord) IsOpen() bool {
	return r.IsLoggedIn && r.CheckOut == nil
}
