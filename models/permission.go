package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	ModuleUsers      = "users"
	ModuleEmployees  = "employees"
	ModuleAttendance = "attendance"
	ModuleLeave      = "leave"
	ModulePayroll    = "payroll"
	ModuleDocuments  = "documents"
	ModuleSettings   = "settings"
	ModuleReports    = "reports"
	ModuleDashboard  = "dashboard"
	ModuleSystem     = "system"
)

const (
	ActionCreate    = "create"
	ActionRead      = "read"
	ActionUpdate    = "update"
	ActionDelete    = "delete"
	ActionApprove   = "approve"
	ActionExport    = "export"
	ActionImport    = "import"
	ActionConfigure = "configure"
)

var (
	Modules = []string{
		ModuleUsers, ModuleEmployees, ModuleAttendance, ModuleLeave, ModulePayroll,
		ModuleDocuments, ModuleSettings, ModuleReports, ModuleDashboard, ModuleSystem,
	}
	Actions = []string{
		ActionCreate, ActionRead, ActionUpdate, ActionDelete,
		ActionApprove, ActionExport, ActionImport, ActionConfigure,
	}
)

func ValidModule(module string) bool { return contains(Modules, module) }
func ValidAction(action string) bool { return contains(Actions, action) }

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

// PermissionName builds "module:action" or "module:action:resource".
func PermissionName(module, action, resource string) string {
	name := module + ":" + action
	if resource = strings.TrimSpace(resource); resource != "" {
		name += ":" + resource
	}
	return name
}

type Permission struct {
	ID                 primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name               string             `json:"name" bson:"name"`
	DisplayName        string             `json:"displayName" bson:"displayName"`
	Description        string             `json:"description,omitempty" bson:"description,omitempty"`
	Module             string             `json:"module" bson:"module"`
	Action             string             `json:"action" bson:"action"`
	Resource           string             `json:"resource,omitempty" bson:"resource,omitempty"`
	IsSystemPermission bool               `json:"isSystemPermission" bson:"isSystemPermission"`
	OrganizationCode   string             `json:"organizationCode,omitempty" bson:"organizationCode,omitempty"`
	CreatedAt          time.Time          `json:"createdAt" bson:"createdAt"`
	CreatedBy          string             `json:"createdBy" bson:"createdBy"`
	UpdatedAt          time.Time          `json:"updatedAt" bson:"updatedAt"`
	UpdatedBy          string             `json:"updatedBy" bson:"updatedBy"`
}
