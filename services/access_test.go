package services

import (
	"context"
	"testing"

	"WorkForce360/models"
	"WorkForce360/repository"
	"WorkForce360/role"
	"WorkForce360/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanFollowsSystemGrants(t *testing.T) {
	f := newAccessFixture(t)
	f.seed(t)
	ctx := context.Background()

	cases := []struct {
		level  role.Level
		module string
		action string
		want   bool
	}{
		{role.SuperAdmin, models.ModuleSystem, models.ActionConfigure, true},
		{role.Admin, models.ModulePayroll, models.ActionDelete, true},
		{role.HR, models.ModuleLeave, models.ActionApprove, true},
		{role.HR, models.ModuleSystem, models.ActionConfigure, false},
		{role.Manager, models.ModuleLeave, models.ActionApprove, true},
		{role.Manager, models.ModulePayroll, models.ActionRead, false},
		{role.Employee, models.ModuleAttendance, models.ActionCreate, true},
		{role.Employee, models.ModuleUsers, models.ActionRead, false},
	}
	for _, tc := range cases {
		ok, err := f.access.Can(ctx, tenant, tc.level, tc.module, tc.action)
		require.NoError(t, err)
		assert.Equal(t, tc.want, ok, "%s %s:%s", tc.level, tc.module, tc.action)
	}
}

func TestCanIncludesTenantRolesAtTheSameLevel(t *testing.T) {
	f := newAccessFixture(t)
	f.seed(t)
	ctx := context.Background()
	exportID := f.permissionID(t, "", "reports:export")

	ok, err := f.access.Can(ctx, tenant, role.Employee, models.ModuleReports, models.ActionExport)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = f.roleSvc.CreateRole(ctx, tenant, RoleInput{Name: "REPORTING", Level: 5, Permissions: []string{exportID}}, f.admin)
	require.NoError(t, err)

	ok, err = f.access.Can(ctx, tenant, role.Employee, models.ModuleReports, models.ActionExport)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.access.Can(ctx, repository.Tenant("OTHER1"), role.Employee, models.ModuleReports, models.ActionExport)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCanMatchesResourceScopedPermission(t *testing.T) {
	f := newAccessFixture(t)
	ctx := context.Background()
	p, err := f.permSvc.CreatePermission(ctx, tenant, PermissionInput{
		Module: "documents", Action: "read", Resource: "contracts",
	}, f.admin)
	require.NoError(t, err)
	assert.Equal(t, "documents:read:contracts", p.Name)

	_, err = f.roleSvc.CreateRole(ctx, tenant, RoleInput{Name: "LEGAL", Level: 9, Permissions: []string{p.ID.Hex()}}, f.admin)
	require.NoError(t, err)

	ok, err := f.access.Can(ctx, tenant, 9, models.ModuleDocuments, models.ActionRead)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.access.Can(ctx, tenant, 9, models.ModuleDocuments, models.ActionDelete)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPermissionNamesAreCachedUntilInvalidated(t *testing.T) {
	f := newAccessFixture(t)
	f.seed(t)
	ctx := context.Background()

	names, err := f.access.PermissionNames(ctx, tenant, role.Manager)
	require.NoError(t, err)
	assert.Contains(t, names, "leave:approve")
	assert.Contains(t, f.cache.entries, util.RolePermissionsKey+testOrg+":4")

	// A write behind the service's back is invisible while cached.
	manager := f.systemRole(t, role.Manager)
	manager.Permissions = nil
	f.roles.docs[manager.ID] = *manager

	cached, err := f.access.PermissionNames(ctx, tenant, role.Manager)
	require.NoError(t, err)
	assert.Equal(t, names, cached)

	f.access.Invalidate(ctx, repository.Tenant(""))
	assert.Empty(t, f.cache.entries)

	fresh, err := f.access.PermissionNames(ctx, tenant, role.Manager)
	require.NoError(t, err)
	assert.Empty(t, fresh)
}

func TestInvalidateIsScopedToOrganization(t *testing.T) {
	f := newAccessFixture(t)
	f.seed(t)
	ctx := context.Background()
	_, err := f.access.PermissionNames(ctx, tenant, role.HR)
	require.NoError(t, err)
	_, err = f.access.PermissionNames(ctx, repository.Tenant("OTHER1"), role.HR)
	require.NoError(t, err)

	f.access.Invalidate(ctx, tenant)

	assert.NotContains(t, f.cache.entries, util.RolePermissionsKey+testOrg+":3")
	assert.Contains(t, f.cache.entries, util.RolePermissionsKey+"OTHER1:3")
}
