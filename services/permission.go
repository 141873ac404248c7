package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"WorkForce360/models"
	"WorkForce360/repository"
	"WorkForce360/util"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PermissionService struct {
	permissions repository.PermissionRepository
	roles       repository.RoleRepository
	access      *AccessService
	now         clock
	log         *logrus.Logger
}

func NewPermissionService(permissions repository.PermissionRepository, roles repository.RoleRepository,
	access *AccessService, log *logrus.Logger) *PermissionService {
	return &PermissionService{permissions: permissions, roles: roles, access: access, now: time.Now, log: log}
}

type PermissionInput struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Description string `json:"description"`
	Module      string `json:"module" binding:"required"`
	Action      string `json:"action" binding:"required"`
	Resource    string `json:"resource"`
}

type PermissionUpdate struct {
	DisplayName *string `json:"displayName"`
	Description *string `json:"description"`
}

type BulkSkip struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

type BulkResult struct {
	Created []models.Permission `json:"created"`
	Skipped []BulkSkip          `json:"skipped"`
}

// CreatePermission makes a system permission when the tenant is empty.
func (s *PermissionService) CreatePermission(ctx context.Context, t repository.Tenant, in PermissionInput, actor Actor) (*models.Permission, error) {
	module := strings.ToLower(strings.TrimSpace(in.Module))
	action := strings.ToLower(strings.TrimSpace(in.Action))
	if !models.ValidModule(module) {
		return nil, util.Validation(util.INVALID_MODULE)
	}
	if !models.ValidAction(action) {
		return nil, util.Validation(util.INVALID_ACTION)
	}
	resource := strings.TrimSpace(in.Resource)
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = models.PermissionName(module, action, resource)
	}
	displayName := strings.TrimSpace(in.DisplayName)
	if displayName == "" {
		displayName = name
	}

	_, err := s.permissions.FindByName(ctx, t, name)
	if err == nil {
		return nil, util.Conflict(util.PERMISSION_ALREADY_EXISTS)
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, storeError(err, util.PERMISSION_NOT_FOUND)
	}

	now := s.now()
	p := &models.Permission{
		Name:               name,
		DisplayName:        displayName,
		Description:        in.Description,
		Module:             module,
		Action:             action,
		Resource:           resource,
		IsSystemPermission: t.IsSystem(),
		OrganizationCode:   t.Code(),
		CreatedAt:          now,
		CreatedBy:          actor.UserID,
		UpdatedAt:          now,
		UpdatedBy:          actor.UserID,
	}
	if err := s.permissions.Create(ctx, p); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, util.Conflict(util.PERMISSION_ALREADY_EXISTS)
		}
		logFailure(s.log, err, logrus.Fields{"permission": name, "organizationCode": t.Code()})
		return nil, storeError(err, util.PERMISSION_NOT_FOUND)
	}
	return p, nil
}

/*
* Create each permission on its own
* Rejected inputs are reported as skipped, earlier creations stay
 */
func (s *PermissionService) BulkCreatePermissions(ctx context.Context, t repository.Tenant, inputs []PermissionInput, actor Actor) (*BulkResult, error) {
	out := &BulkResult{Created: []models.Permission{}, Skipped: []BulkSkip{}}
	for _, in := range inputs {
		p, err := s.CreatePermission(ctx, t, in, actor)
		if err == nil {
			out.Created = append(out.Created, *p)
			continue
		}
		appErr, ok := util.AsAppError(err)
		if !ok || appErr.Kind == util.KindInternal {
			return out, err
		}
		name := in.Name
		if name == "" {
			name = models.PermissionName(in.Module, in.Action, in.Resource)
		}
		out.Skipped = append(out.Skipped, BulkSkip{Name: name, Reason: appErr.Message})
	}
	return out, nil
}

// InitializeDefaultPermissions creates module:action for the whole cross product, skipping existing names.
func (s *PermissionService) InitializeDefaultPermissions(ctx context.Context, t repository.Tenant, actor Actor) (int, error) {
	created := 0
	for _, module := range models.Modules {
		for _, action := range models.Actions {
			_, err := s.CreatePermission(ctx, t, PermissionInput{Module: module, Action: action}, actor)
			if util.IsKind(err, util.KindConflict) {
				continue
			}
			if err != nil {
				return created, err
			}
			created++
		}
	}
	if created > 0 {
		s.log.WithFields(logrus.Fields{"organizationCode": t.Code(), "created": created}).Info("default permissions initialized")
	}
	return created, nil
}

func (s *PermissionService) GetPermission(ctx context.Context, t repository.Tenant, id primitive.ObjectID) (*models.Permission, error) {
	p, err := s.permissions.FindByID(ctx, t, id)
	if err != nil {
		return nil, storeError(err, util.PERMISSION_NOT_FOUND)
	}
	return p, nil
}

func (s *PermissionService) ListPermissions(ctx context.Context, t repository.Tenant, module string) ([]models.Permission, error) {
	module = strings.ToLower(strings.TrimSpace(module))
	if module != "" && !models.ValidModule(module) {
		return nil, util.Validation(util.INVALID_MODULE)
	}
	perms, err := s.permissions.List(ctx, t, module)
	if err != nil {
		return nil, storeError(err, util.PERMISSION_NOT_FOUND)
	}
	return perms, nil
}

// permissionOwner is the scope a stored permission is written back through.
func permissionOwner(p *models.Permission) repository.Tenant {
	if p.IsSystemPermission {
		return repository.Tenant("")
	}
	return repository.Tenant(p.OrganizationCode)
}

// UpdatePermission only touches descriptive fields; system permissions are reserved to SuperAdmin.
func (s *PermissionService) UpdatePermission(ctx context.Context, t repository.Tenant, id primitive.ObjectID, in PermissionUpdate, actor Actor) (*models.Permission, error) {
	p, err := s.permissions.FindByID(ctx, t, id)
	if err != nil {
		return nil, storeError(err, util.PERMISSION_NOT_FOUND)
	}
	if p.IsSystemPermission && !actor.IsSuperAdmin() {
		return nil, util.Forbidden(util.SYSTEM_PERMISSION_IMMUTABLE)
	}
	if in.DisplayName != nil {
		p.DisplayName = strings.TrimSpace(*in.DisplayName)
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	p.UpdatedAt = s.now()
	p.UpdatedBy = actor.UserID
	if err := s.permissions.Update(ctx, permissionOwner(p), p); err != nil {
		logFailure(s.log, err, logrus.Fields{"permissionId": id.Hex()})
		return nil, storeError(err, util.PERMISSION_NOT_FOUND)
	}
	return p, nil
}

func (s *PermissionService) DeletePermission(ctx context.Context, t repository.Tenant, id primitive.ObjectID, actor Actor) error {
	p, err := s.permissions.FindByID(ctx, t, id)
	if err != nil {
		return storeError(err, util.PERMISSION_NOT_FOUND)
	}
	if p.IsSystemPermission {
		return util.Forbidden(util.SYSTEM_PERMISSION_IMMUTABLE)
	}
	refs, err := s.roles.CountReferencing(ctx, id)
	if err != nil {
		return storeError(err, util.ROLE_NOT_FOUND)
	}
	if refs > 0 {
		return util.Conflict(util.PERMISSION_IN_USE)
	}
	if err := s.permissions.Delete(ctx, permissionOwner(p), id); err != nil {
		logFailure(s.log, err, logrus.Fields{"permissionId": id.Hex()})
		return storeError(err, util.PERMISSION_NOT_FOUND)
	}
	s.access.Invalidate(ctx, t)
	s.log.WithFields(logrus.Fields{"permission": p.Name, "by": actor.UserID}).Info("permission deleted")
	return nil
}
