package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	DocumentContract = "contract"
	DocumentIDProof  = "id_proof"
	DocumentPayslip  = "payslip"
	DocumentPolicy   = "policy"
	DocumentOther    = "other"
)

func ValidDocumentCategory(category string) bool {
	switch category {
	case DocumentContract, DocumentIDProof, DocumentPayslip, DocumentPolicy, DocumentOther:
		return true
	}
	return false
}

type Document struct {
	ID               primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	OrganizationCode string              `json:"organizationCode" bson:"organizationCode"`
	EmployeeID       *primitive.ObjectID `json:"employeeId,omitempty" bson:"employeeId,omitempty"`
	Title            string              `json:"title" bson:"title"`
	Category         string              `json:"category" bson:"category"`
	FileName         string              `json:"fileName" bson:"fileName"`
	ContentType      string              `json:"contentType,omitempty" bson:"contentType,omitempty"`
	Size             int64               `json:"size" bson:"size"`
	URL              string              `json:"url" bson:"url"`
	StorageKey       string              `json:"-" bson:"storageKey"`
	UploadedBy       string              `json:"uploadedBy" bson:"uploadedBy"`
	CreatedAt        time.Time           `json:"createdAt" bson:"createdAt"`
}
