package services

import (
	"time"

	"WorkForce360/config/storage"
	"WorkForce360/repository"

	"github.com/sirupsen/logrus"
)

// Dependencies are the infrastructure pieces the services are built from.
type Dependencies struct {
	Store            *repository.Store
	Cache            Cache
	Tokens           TokenIssuer
	Uploader         storage.Uploader
	Location         *time.Location
	LoginMaxAttempts int
	Log              *logrus.Logger
}

// Registry holds one instance of every service, shared by controllers and jobs.
type Registry struct {
	Access        *AccessService
	Organizations *OrganizationService
	Permissions   *PermissionService
	Roles         *RoleService
	Users         *UserService
	Auth          *AuthService
	Attendance    *AttendanceService
	Leave         *LeaveService
	Payroll       *PayrollService
	Documents     *DocumentService
}

func NewRegistry(d Dependencies) *Registry {
	store := d.Store
	access := NewAccessService(store.Roles, store.Permissions, d.Cache, d.Log)
	orgs := NewOrganizationService(store.Organizations, d.Cache, d.Log)
	permissions := NewPermissionService(store.Permissions, store.Roles, access, d.Log)
	roles := NewRoleService(store.Roles, store.Permissions, store.Users, access, d.Log)
	users := NewUserService(store.Users, store.Roles, store.Organizations, d.Log)

	return &Registry{
		Access:        access,
		Organizations: orgs,
		Permissions:   permissions,
		Roles:         roles,
		Users:         users,
		Auth:          NewAuthService(store.Users, orgs, permissions, d.Tokens, d.LoginMaxAttempts, d.Log),
		Attendance:    NewAttendanceService(store.Attendance, users, store.Organizations, d.Location, d.Log),
		Leave: NewLeaveService(store.LeaveTypes, store.LeaveApplications, store.Users, store.Organizations,
			roles, d.Location, d.Log),
		Payroll:   NewPayrollService(store.Payroll, store.Users, d.Log),
		Documents: NewDocumentService(store.Documents, store.Users, d.Uploader, d.Log),
	}
}
