package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"WorkForce360/models"
	"WorkForce360/repository"
	"WorkForce360/role"
	"WorkForce360/util"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RoleService struct {
	roles       repository.RoleRepository
	permissions repository.PermissionRepository
	users       repository.UserRepository
	access      *AccessService
	now         clock
	log         *logrus.Logger
}

func NewRoleService(roles repository.RoleRepository, permissions repository.PermissionRepository,
	users repository.UserRepository, access *AccessService, log *logrus.Logger) *RoleService {
	return &RoleService{roles: roles, permissions: permissions, users: users, access: access, now: time.Now, log: log}
}

type RoleInput struct {
	Name            string   `json:"name" binding:"required"`
	DisplayName     string   `json:"displayName"`
	Description     string   `json:"description"`
	Level           int      `json:"level" binding:"required,min=1,max=100"`
	DataAccessLevel string   `json:"dataAccessLevel"`
	Permissions     []string `json:"permissions"`
}

type RoleUpdate struct {
	Name            *string `json:"name"`
	DisplayName     *string `json:"displayName"`
	Description     *string `json:"description"`
	Level           *int    `json:"level" binding:"omitempty,min=1,max=100"`
	DataAccessLevel *string `json:"dataAccessLevel"`
	IsActive        *bool   `json:"isActive"`
}

func normalizeRoleName(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

/*
* Parse and dedupe the ids, then make sure every one of them exists
* in the tenant or among the system permissions
 */
func (s *RoleService) resolvePermissionIDs(ctx context.Context, t repository.Tenant, raw []string) ([]primitive.ObjectID, error) {
	ids := make([]primitive.ObjectID, 0, len(raw))
	seen := map[primitive.ObjectID]bool{}
	for _, hex := range raw {
		id, err := ParseID(hex)
		if err != nil {
			return nil, util.Validationf("invalid permission id %q", hex)
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	found, err := s.permissions.FindByIDs(ctx, t, ids)
	if err != nil {
		return nil, storeError(err, util.PERMISSION_NOT_FOUND)
	}
	exists := map[primitive.ObjectID]bool{}
	for _, p := range found {
		exists[p.ID] = true
	}
	for _, id := range ids {
		if !exists[id] {
			return nil, util.NotFoundf("%s: %s", util.PERMISSION_NOT_FOUND, id.Hex())
		}
	}
	return ids, nil
}

func (s *RoleService) ensureNameFree(ctx context.Context, t repository.Tenant, name string, self primitive.ObjectID) error {
	existing, err := s.roles.FindByName(ctx, t, name)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return storeError(err, util.ROLE_NOT_FOUND)
	}
	if existing.ID != self {
		return util.Conflict(util.ROLE_NAME_ALREADY_EXISTS)
	}
	return nil
}

func (s *RoleService) CreateRole(ctx context.Context, t repository.Tenant, in RoleInput, actor Actor) (*models.Role, error) {
	if t.IsSystem() {
		return nil, util.Validation(util.ORGANIZATION_CODE_REQUIRED)
	}
	name := normalizeRoleName(in.Name)
	if name == "" {
		return nil, util.Validation("role name is required")
	}
	level := role.Level(in.Level)
	if !level.Valid() {
		return nil, util.Validation(util.INVALID_ROLE_LEVEL)
	}
	if !actor.IsSuperAdmin() && level.Outranks(actor.Level) {
		return nil, util.Forbidden(util.INSUFFICIENT_AUTHORITY)
	}
	dataAccess := strings.ToUpper(strings.TrimSpace(in.DataAccessLevel))
	if dataAccess == "" {
		dataAccess = models.DataAccessOwn
	}
	if !models.ValidDataAccessLevel(dataAccess) {
		return nil, util.Validation(util.INVALID_DATA_ACCESS)
	}
	if err := s.ensureNameFree(ctx, t, name, primitive.NilObjectID); err != nil {
		return nil, err
	}
	permissionIDs, err := s.resolvePermissionIDs(ctx, t, in.Permissions)
	if err != nil {
		return nil, err
	}

	displayName := strings.TrimSpace(in.DisplayName)
	if displayName == "" {
		displayName = strings.TrimSpace(in.Name)
	}
	now := s.now()
	r := &models.Role{
		Name:             name,
		DisplayName:      displayName,
		Description:      in.Description,
		Permissions:      permissionIDs,
		IsActive:         true,
		IsSystemRole:     false,
		Level:            level,
		DataAccessLevel:  dataAccess,
		OrganizationCode: t.Code(),
		CreatedAt:        now,
		CreatedBy:        actor.UserID,
		UpdatedAt:        now,
		UpdatedBy:        actor.UserID,
	}
	if err := s.roles.Create(ctx, r); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, util.Conflict(util.ROLE_NAME_ALREADY_EXISTS)
		}
		logFailure(s.log, err, logrus.Fields{"role": name, "organizationCode": t.Code()})
		return nil, storeError(err, util.ROLE_NOT_FOUND)
	}
	s.access.Invalidate(ctx, t)
	s.log.WithFields(logrus.Fields{"role": name, "level": int(level), "organizationCode": t.Code()}).Info("role created")
	return r, nil
}

// mutableRole loads a role and refuses system roles.
func (s *RoleService) mutableRole(ctx context.Context, t repository.Tenant, id primitive.ObjectID) (*models.Role, error) {
	r, err := s.roles.FindByID(ctx, t, id)
	if err != nil {
		return nil, storeError(err, util.ROLE_NOT_FOUND)
	}
	if r.IsSystemRole {
		return nil, util.Forbidden(util.SYSTEM_ROLE_IMMUTABLE)
	}
	return r, nil
}

func (s *RoleService) UpdateRole(ctx context.Context, t repository.Tenant, id primitive.ObjectID, in RoleUpdate, actor Actor) (*models.Role, error) {
	r, err := s.mutableRole(ctx, t, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := normalizeRoleName(*in.Name)
		if name == "" {
			return nil, util.Validation("role name is required")
		}
		if err := s.ensureNameFree(ctx, t, name, r.ID); err != nil {
			return nil, err
		}
		r.Name = name
	}
	if in.DisplayName != nil {
		r.DisplayName = strings.TrimSpace(*in.DisplayName)
	}
	if in.Description != nil {
		r.Description = *in.Description
	}
	if in.Level != nil {
		level := role.Level(*in.Level)
		if !level.Valid() {
			return nil, util.Validation(util.INVALID_ROLE_LEVEL)
		}
		if !actor.IsSuperAdmin() && level.Outranks(actor.Level) {
			return nil, util.Forbidden(util.INSUFFICIENT_AUTHORITY)
		}
		r.Level = level
	}
	if in.DataAccessLevel != nil {
		dataAccess := strings.ToUpper(strings.TrimSpace(*in.DataAccessLevel))
		if !models.ValidDataAccessLevel(dataAccess) {
			return nil, util.Validation(util.INVALID_DATA_ACCESS)
		}
		r.DataAccessLevel = dataAccess
	}
	if in.IsActive != nil {
		r.IsActive = *in.IsActive
	}
	r.UpdatedAt = s.now()
	r.UpdatedBy = actor.UserID

	if err := s.roles.Update(ctx, t, r); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, util.Conflict(util.ROLE_NAME_ALREADY_EXISTS)
		}
		logFailure(s.log, err, logrus.Fields{"roleId": id.Hex()})
		return nil, storeError(err, util.ROLE_NOT_FOUND)
	}
	s.access.Invalidate(ctx, t)
	return r, nil
}

// DeleteRole refuses while any user of the organization holds the role's level.
func (s *RoleService) DeleteRole(ctx context.Context, t repository.Tenant, id primitive.ObjectID, actor Actor) error {
	r, err := s.mutableRole(ctx, t, id)
	if err != nil {
		return err
	}
	holders, err := s.users.CountByRole(ctx, t, r.Level)
	if err != nil {
		return storeError(err, util.ROLE_NOT_FOUND)
	}
	if holders > 0 {
		return util.Conflict(util.ROLE_IN_USE)
	}
	if err := s.roles.Delete(ctx, t, id); err != nil {
		logFailure(s.log, err, logrus.Fields{"roleId": id.Hex()})
		return storeError(err, util.ROLE_NOT_FOUND)
	}
	s.access.Invalidate(ctx, t)
	s.log.WithFields(logrus.Fields{"roleId": id.Hex(), "by": actor.UserID}).Info("role deleted")
	return nil
}

/*
* Every id must exist; ids the role already holds are skipped
* Nothing left to add is a conflict
 */
func (s *RoleService) AddPermissions(ctx context.Context, t repository.Tenant, id primitive.ObjectID, permissionIDs []string, actor Actor) (*models.Role, error) {
	r, err := s.mutableRole(ctx, t, id)
	if err != nil {
		return nil, err
	}
	ids, err := s.resolvePermissionIDs(ctx, t, permissionIDs)
	if err != nil {
		return nil, err
	}
	var toAdd []primitive.ObjectID
	for _, pid := range ids {
		if !r.HasPermissionID(pid) {
			toAdd = append(toAdd, pid)
		}
	}
	if len(toAdd) == 0 {
		return nil, util.Conflict(util.PERMISSIONS_ALREADY_ASSIGNED)
	}
	if err := s.roles.AddPermissions(ctx, t, id, toAdd); err != nil {
		logFailure(s.log, err, logrus.Fields{"roleId": id.Hex()})
		return nil, storeError(err, util.ROLE_NOT_FOUND)
	}
	r.Permissions = append(r.Permissions, toAdd...)
	r.UpdatedAt = s.now()
	r.UpdatedBy = actor.UserID
	s.access.Invalidate(ctx, t)
	return r, nil
}

func (s *RoleService) RemovePermissions(ctx context.Context, t repository.Tenant, id primitive.ObjectID, permissionIDs []string, actor Actor) (*models.Role, error) {
	r, err := s.mutableRole(ctx, t, id)
	if err != nil {
		return nil, err
	}
	remove := map[primitive.ObjectID]bool{}
	for _, hex := range permissionIDs {
		pid, err := ParseID(hex)
		if err != nil {
			return nil, util.Validationf("invalid permission id %q", hex)
		}
		if r.HasPermissionID(pid) {
			remove[pid] = true
		}
	}
	if len(remove) == 0 {
		return nil, util.Validation(util.PERMISSIONS_NOT_ASSIGNED)
	}
	toRemove := make([]primitive.ObjectID, 0, len(remove))
	kept := make([]primitive.ObjectID, 0, len(r.Permissions))
	for _, pid := range r.Permissions {
		if remove[pid] {
			toRemove = append(toRemove, pid)
			continue
		}
		kept = append(kept, pid)
	}
	if err := s.roles.RemovePermissions(ctx, t, id, toRemove); err != nil {
		logFailure(s.log, err, logrus.Fields{"roleId": id.Hex()})
		return nil, storeError(err, util.ROLE_NOT_FOUND)
	}
	r.Permissions = kept
	r.UpdatedAt = s.now()
	r.UpdatedBy = actor.UserID
	s.access.Invalidate(ctx, t)
	return r, nil
}

func (s *RoleService) GetRole(ctx context.Context, t repository.Tenant, id primitive.ObjectID) (*models.Role, error) {
	r, err := s.roles.FindByID(ctx, t, id)
	if err != nil {
		return nil, storeError(err, util.ROLE_NOT_FOUND)
	}
	return r, nil
}

func (s *RoleService) ListRoles(ctx context.Context, t repository.Tenant) ([]models.Role, error) {
	roles, err := s.roles.List(ctx, t)
	if err != nil {
		return nil, storeError(err, util.ROLE_NOT_FOUND)
	}
	return roles, nil
}

func (s *RoleService) HasPermission(ctx context.Context, t repository.Tenant, id primitive.ObjectID, name string) (bool, error) {
	r, err := s.roles.FindByID(ctx, t, id)
	if err != nil {
		return false, storeError(err, util.ROLE_NOT_FOUND)
	}
	perms, err := s.permissions.FindByIDs(ctx, t, r.Permissions)
	if err != nil {
		return false, storeError(err, util.PERMISSION_NOT_FOUND)
	}
	for _, p := range perms {
		if p.Name == name {
			return true, nil
		}
	}
	return false, nil
}

// GetUsersAboveRole lists the active users who outrank level, highest authority first.
func (s *RoleService) GetUsersAboveRole(ctx context.Context, t repository.Tenant, level role.Level) ([]models.User, error) {
	if !level.Valid() {
		return nil, util.Validation(util.INVALID_ROLE_LEVEL)
	}
	users, err := s.users.FindActiveAbove(ctx, t, level)
	if err != nil {
		return nil, storeError(err, util.USER_NOT_FOUND)
	}
	return users, nil
}

var systemRoleGrants = map[role.Level]struct {
	dataAccess string
	modules    map[string][]string
}{
	role.HR: {models.DataAccessAll, map[string][]string{
		models.ModuleUsers:      {models.ActionCreate, models.ActionRead, models.ActionUpdate},
		models.ModuleEmployees:  {models.ActionCreate, models.ActionRead, models.ActionUpdate, models.ActionDelete},
		models.ModuleAttendance: {models.ActionCreate, models.ActionRead, models.ActionUpdate, models.ActionExport},
		models.ModuleLeave:      {models.ActionCreate, models.ActionRead, models.ActionUpdate, models.ActionApprove},
		models.ModulePayroll:    {models.ActionCreate, models.ActionRead, models.ActionUpdate},
		models.ModuleDocuments:  {models.ActionCreate, models.ActionRead, models.ActionDelete},
		models.ModuleReports:    {models.ActionRead, models.ActionExport},
		models.ModuleDashboard:  {models.ActionRead},
	}},
	role.Manager: {models.DataAccessTeam, map[string][]string{
		models.ModuleEmployees:  {models.ActionRead},
		models.ModuleAttendance: {models.ActionCreate, models.ActionRead},
		models.ModuleLeave:      {models.ActionCreate, models.ActionRead, models.ActionApprove},
		models.ModuleDocuments:  {models.ActionRead},
		models.ModuleReports:    {models.ActionRead},
		models.ModuleDashboard:  {models.ActionRead},
	}},
	role.Employee: {models.DataAccessOwn, map[string][]string{
		models.ModuleAttendance: {models.ActionCreate, models.ActionRead},
		models.ModuleLeave:      {models.ActionCreate, models.ActionRead},
		models.ModuleDocuments:  {models.ActionRead},
		models.ModuleDashboard:  {models.ActionRead},
	}},
}

/*
* Create the five canonical system roles when missing
* SuperAdmin and Admin hold every system permission
* Existing system roles are left untouched
 */
func (s *RoleService) SeedSystemRoles(ctx context.Context) (int, error) {
	system := repository.Tenant("")
	perms, err := s.permissions.List(ctx, system, "")
	if err != nil {
		return 0, storeError(err, util.PERMISSION_NOT_FOUND)
	}

	created := 0
	for _, level := range role.Canonical() {
		name := level.String()
		_, err := s.roles.FindByName(ctx, system, name)
		if err == nil {
			continue
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return created, storeError(err, util.ROLE_NOT_FOUND)
		}

		dataAccess := models.DataAccessAll
		var ids []primitive.ObjectID
		grant, limited := systemRoleGrants[level]
		if limited {
			dataAccess = grant.dataAccess
		}
		for _, p := range perms {
			if !limited || contains(grant.modules[p.Module], p.Action) {
				ids = append(ids, p.ID)
			}
		}

		now := s.now()
		r := &models.Role{
			Name:            name,
			DisplayName:     strings.ReplaceAll(name, "_", " "),
			Permissions:     ids,
			IsActive:        true,
			IsSystemRole:    true,
			Level:           level,
			DataAccessLevel: dataAccess,
			CreatedAt:       now,
			CreatedBy:       SystemActor.UserID,
			UpdatedAt:       now,
			UpdatedBy:       SystemActor.UserID,
		}
		if err := s.roles.Create(ctx, r); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				continue
			}
			return created, storeError(err, util.ROLE_NOT_FOUND)
		}
		created++
	}
	if created > 0 {
		s.access.Invalidate(ctx, system)
		s.log.WithField("created", created).Info("system roles seeded")
	}
	return created, nil
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
