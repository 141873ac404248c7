package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	LeavePending   = "pending"
	LeaveApproved  = "approved"
	LeaveRejected  = "rejected"
	LeaveCancelled = "cancelled"
)

type LeaveType struct {
	ID               primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	OrganizationCode string             `json:"organizationCode" bson:"organizationCode"`
	Name             string             `json:"name" bson:"name"`
	Code             string             `json:"code" bson:"code"`
	Description      string             `json:"description,omitempty" bson:"description,omitempty"`
	DaysPerYear      float64            `json:"daysPerYear" bson:"daysPerYear"`
	IsPaid           bool               `json:"isPaid" bson:"isPaid"`
	IsActive         bool               `json:"isActive" bson:"isActive"`
	CreatedAt        time.Time          `json:"createdAt" bson:"createdAt"`
	CreatedBy        string             `json:"createdBy" bson:"createdBy"`
	UpdatedAt        time.Time          `json:"updatedAt" bson:"updatedAt"`
	UpdatedBy        string             `json:"updatedBy" bson:"updatedBy"`
}

type LeaveApplication struct {
	ID               primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	OrganizationCode string              `json:"organizationCode" bson:"organizationCode"`
	EmployeeID       primitive.ObjectID  `json:"employeeId" bson:"employeeId"`
	LeaveTypeID      primitive.ObjectID  `json:"leaveTypeId" bson:"leaveTypeId"`
	StartDate        time.Time           `json:"startDate" bson:"startDate"`
	EndDate          time.Time           `json:"endDate" bson:"endDate"`
	TotalDays        int                 `json:"totalDays" bson:"totalDays"`
	Reason           string              `json:"reason" bson:"reason"`
	Status           string              `json:"status" bson:"status"`
	AppliedAt        time.Time           `json:"appliedAt" bson:"appliedAt"`
	ApprovedBy       *primitive.ObjectID `json:"approvedBy,omitempty" bson:"approvedBy,omitempty"`
	ApprovedAt       *time.Time          `json:"approvedAt,omitempty" bson:"approvedAt,omitempty"`
	RejectedBy       *primitive.ObjectID `json:"rejectedBy,omitempty" bson:"rejectedBy,omitempty"`
	RejectedAt       *time.Time          `json:"rejectedAt,omitempty" bson:"rejectedAt,omitempty"`
	RejectionReason  string              `json:"rejectionReason,omitempty" bson:"rejectionReason,omitempty"`
	CancelledAt      *time.Time          `json:"cancelledAt,omitempty" bson:"cancelledAt,omitempty"`
	UpdatedAt        time.Time           `json:"updatedAt" bson:"updatedAt"`
	UpdatedBy        string              `json:"updatedBy" bson:"updatedBy"`
}

// Blocking reports whether the application still holds its dates.
func (l *LeaveApplication) Blocking() bool {
	return l.Status == LeavePending || l.Status == LeaveApproved
}

type LeaveBalance struct {
	LeaveTypeID primitive.ObjectID `json:"leaveTypeId"`
	Name        string             `json:"name"`
	Allocated   float64            `json:"allocated"`
	Used        float64            `json:"used"`
	Pending     float64            `json:"pending"`
	Available   float64            `json:"available"`
}
