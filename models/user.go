package models

import (
	"time"

	"WorkForce360/role"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	UserStatusActive    = "active"
	UserStatusInactive  = "inactive"
	UserStatusSuspended = "suspended"
)

const (
	EmployeeTypeFullTime = "full_time"
	EmployeeTypePartTime = "part_time"
	EmployeeTypeContract = "contract"
	EmployeeTypeIntern   = "intern"
)

type User struct {
	ID               primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	FullName         string              `json:"fullName" bson:"fullName"`
	Email            string              `json:"email" bson:"email"`
	Phone            string              `json:"phone" bson:"phone"`
	Password         string              `json:"-" bson:"password"`
	Role             role.Level          `json:"role" bson:"role"`
	Status           string              `json:"status" bson:"status"`
	OrganizationCode string              `json:"organizationCode" bson:"organizationCode"`
	OrganizationName string              `json:"organizationName" bson:"organizationName"`
	EmployeeCode     string              `json:"employeeCode,omitempty" bson:"employeeCode,omitempty"`
	Department       string              `json:"department,omitempty" bson:"department,omitempty"`
	Designation      string              `json:"designation,omitempty" bson:"designation,omitempty"`
	JoiningDate      *time.Time          `json:"joiningDate,omitempty" bson:"joiningDate,omitempty"`
	EmployeeType     string              `json:"employeeType,omitempty" bson:"employeeType,omitempty"`
	ReportingManager *primitive.ObjectID `json:"reportingManager,omitempty" bson:"reportingManager,omitempty"`
	Salary           *SalaryStructure    `json:"salary,omitempty" bson:"salary,omitempty"`
	Bank             *BankDetails        `json:"bank,omitempty" bson:"bank,omitempty"`
	LoginAttempts    int                 `json:"-" bson:"loginAttempts"`
	IsBlocked        bool                `json:"isBlocked" bson:"isBlocked"`
	LastLoginAt      *time.Time          `json:"lastLoginAt,omitempty" bson:"lastLoginAt,omitempty"`
	CreatedAt        time.Time           `json:"createdAt" bson:"createdAt"`
	CreatedBy        string              `json:"createdBy" bson:"createdBy"`
	UpdatedAt        time.Time           `json:"updatedAt" bson:"updatedAt"`
	UpdatedBy        string              `json:"updatedBy" bson:"updatedBy"`
}

func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}

type SalaryStructure struct {
	Basic      float64        `json:"basic" bson:"basic"`
	Currency   string         `json:"currency,omitempty" bson:"currency,omitempty"`
	Allowances []PayComponent `json:"allowances,omitempty" bson:"allowances,omitempty"`
	Deductions []PayComponent `json:"deductions,omitempty" bson:"deductions,omitempty"`
}

type BankDetails struct {
	AccountHolder string `json:"accountHolder" bson:"accountHolder"`
	AccountNumber string `json:"accountNumber" bson:"accountNumber"`
	BankName      string `json:"bankName" bson:"bankName"`
	IFSC          string `json:"ifsc,omitempty" bson:"ifsc,omitempty"`
}

// Identity is the narrow view of a user other modules consume.
type Identity struct {
	ID               primitive.ObjectID `json:"id"`
	FullName         string             `json:"fullName"`
	EmployeeCode     string             `json:"employeeCode"`
	OrganizationCode string             `json:"organizationCode"`
	Status           string             `json:"status"`
	Role             role.Level         `json:"role"`
	JoiningDate      *time.Time         `json:"joiningDate,omitempty"`
}

func (i Identity) IsActive() bool {
	return i.Status == UserStatusActive
}

func (u *User) Identity() Identity {
	return Identity{
		ID:               u.ID,
		FullName:         u.FullName,
		EmployeeCode:     u.EmployeeCode,
		OrganizationCode: u.OrganizationCode,
		Status:           u.Status,
		Role:             u.Role,
		JoiningDate:      u.JoiningDate,
	}
}
