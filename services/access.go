package services

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"WorkForce360/models"
	"WorkForce360/repository"
	"WorkForce360/role"
	"WorkForce360/util"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AccessService resolves what a role level may do inside an organization.
type AccessService struct {
	roles       repository.RoleRepository
	permissions repository.PermissionRepository
	cache       Cache
	log         *logrus.Logger
}

func NewAccessService(roles repository.RoleRepository, permissions repository.PermissionRepository,
	cache Cache, log *logrus.Logger) *AccessService {
	if cache == nil {
		cache = NoopCache{}
	}
	return &AccessService{roles: roles, permissions: permissions, cache: cache, log: log}
}

func permissionsKey(t repository.Tenant, level role.Level) string {
	return util.RolePermissionsKey + t.Code() + ":" + strconv.Itoa(int(level))
}

/*
* Collect the permission names of every active role at this level,
* tenant roles and system roles alike
* Results are cached per organization and level
 */
func (s *AccessService) PermissionNames(ctx context.Context, t repository.Tenant, level role.Level) ([]string, error) {
	key := permissionsKey(t, level)
	var names []string
	hit, err := s.cache.GetCache(ctx, key, &names)
	if err != nil {
		s.log.WithError(err).WithField("key", key).Warn("permission cache read failed")
	}
	if hit {
		return names, nil
	}

	roles, err := s.roles.FindActiveByLevel(ctx, t, level)
	if err != nil {
		return nil, storeError(err, util.ROLE_NOT_FOUND)
	}
	seen := map[primitive.ObjectID]bool{}
	var ids []primitive.ObjectID
	for _, r := range roles {
		for _, id := range r.Permissions {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	perms, err := s.permissions.FindByIDs(ctx, t, ids)
	if err != nil {
		return nil, storeError(err, util.PERMISSION_NOT_FOUND)
	}
	names = make([]string, 0, len(perms))
	for _, p := range perms {
		names = append(names, p.Name)
	}
	sort.Strings(names)

	if err := s.cache.SetCache(ctx, key, names); err != nil {
		s.log.WithError(err).WithField("key", key).Warn("permission cache write failed")
	}
	return names, nil
}

// Can reports whether the level holds module:action, or a resource scoped form of it.
func (s *AccessService) Can(ctx context.Context, t repository.Tenant, level role.Level, module, action string) (bool, error) {
	if level == role.SuperAdmin {
		return true, nil
	}
	names, err := s.PermissionNames(ctx, t, level)
	if err != nil {
		return false, err
	}
	want := models.PermissionName(module, action, "")
	for _, name := range names {
		if name == want || strings.HasPrefix(name, want+":") {
			return true, nil
		}
	}
	return false, nil
}

// Invalidate drops cached permission sets; the system tenant invalidates every organization.
func (s *AccessService) Invalidate(ctx context.Context, t repository.Tenant) {
	prefix := util.RolePermissionsKey
	if !t.IsSystem() {
		prefix += t.Code() + ":"
	}
	if err := s.cache.DeletePrefix(ctx, prefix); err != nil {
		s.log.WithError(err).WithField("prefix", prefix).Warn("permission cache invalidation failed")
	}
}
