package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	PayrollDraft     = "draft"
	PayrollGenerated = "generated"
	PayrollPaid      = "paid"
	PayrollCancelled = "cancelled"
)

const (
	ComponentFixed      = "fixed"
	ComponentPercentage = "percentage"
)

// PayComponent is an allowance or deduction; percentages are of basic salary.
type PayComponent struct {
	Name   string  `json:"name" bson:"name"`
	Type   string  `json:"type" bson:"type"`
	Value  float64 `json:"value" bson:"value"`
	Amount float64 `json:"amount" bson:"amount"`
}

type PayrollRecord struct {
	ID               primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	OrganizationCode string             `json:"organizationCode" bson:"organizationCode"`
	EmployeeID       primitive.ObjectID `json:"employeeId" bson:"employeeId"`
	Month            int                `json:"month" bson:"month"`
	Year             int                `json:"year" bson:"year"`
	BasicSalary      float64            `json:"basicSalary" bson:"basicSalary"`
	Allowances       []PayComponent     `json:"allowances" bson:"allowances"`
	Deductions       []PayComponent     `json:"deductions" bson:"deductions"`
	GrossSalary      float64            `json:"grossSalary" bson:"grossSalary"`
	TotalDeductions  float64            `json:"totalDeductions" bson:"totalDeductions"`
	NetSalary        float64            `json:"netSalary" bson:"netSalary"`
	Status           string             `json:"status" bson:"status"`
	GeneratedBy      string             `json:"generatedBy" bson:"generatedBy"`
	GeneratedAt      time.Time          `json:"generatedAt" bson:"generatedAt"`
	PaidAt           *time.Time         `json:"paidAt,omitempty" bson:"paidAt,omitempty"`
	PayslipURL       string             `json:"payslipUrl,omitempty" bson:"payslipUrl,omitempty"`
	UpdatedAt        time.Time          `json:"updatedAt" bson:"updatedAt"`
	UpdatedBy        string             `json:"updatedBy" bson:"updatedBy"`
}
