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

func TestInitializeDefaultPermissions(t *testing.T) {
	f := newAccessFixture(t)
	ctx := context.Background()

	created, err := f.permSvc.InitializeDefaultPermissions(ctx, tenant, f.admin)
	require.NoError(t, err)
	assert.Equal(t, len(models.Modules)*len(models.Actions), created)

	created, err = f.permSvc.InitializeDefaultPermissions(ctx, tenant, f.admin)
	require.NoError(t, err)
	assert.Zero(t, created)

	p, err := f.permissions.FindByName(ctx, tenant, "payroll:approve")
	require.NoError(t, err)
	assert.False(t, p.IsSystemPermission)
	assert.Equal(t, testOrg, p.OrganizationCode)
}

func TestCreatePermissionValidation(t *testing.T) {
	f := newAccessFixture(t)
	ctx := context.Background()

	_, err := f.permSvc.CreatePermission(ctx, tenant, PermissionInput{Module: "cafeteria", Action: "read"}, f.admin)
	assert.True(t, util.IsKind(err, util.KindValidation))

	_, err = f.permSvc.CreatePermission(ctx, tenant, PermissionInput{Module: "leave", Action: "teleport"}, f.admin)
	assert.True(t, util.IsKind(err, util.KindValidation))

	p, err := f.permSvc.CreatePermission(ctx, tenant, PermissionInput{Module: " Leave ", Action: "READ"}, f.admin)
	require.NoError(t, err)
	assert.Equal(t, "leave:read", p.Name)
	assert.Equal(t, "leave:read", p.DisplayName)

	_, err = f.permSvc.CreatePermission(ctx, tenant, PermissionInput{Module: "leave", Action: "read"}, f.admin)
	assert.True(t, util.IsKind(err, util.KindConflict))

	_, err = f.permSvc.CreatePermission(ctx, repository.Tenant("OTHER1"), PermissionInput{Module: "leave", Action: "read"}, f.admin)
	assert.NoError(t, err)
}

func TestBulkCreatePermissionsSkipsRejected(t *testing.T) {
	f := newAccessFixture(t)

	res, err := f.permSvc.BulkCreatePermissions(context.Background(), tenant, []PermissionInput{
		{Module: "leave", Action: "read"},
		{Module: "leave", Action: "read"},
		{Module: "cafeteria", Action: "read"},
		{Module: "payroll", Action: "export"},
	}, f.admin)
	require.NoError(t, err)

	assert.Len(t, res.Created, 2)
	require.Len(t, res.Skipped, 2)
	assert.Equal(t, BulkSkip{Name: "leave:read", Reason: util.PERMISSION_ALREADY_EXISTS}, res.Skipped[0])
	assert.Equal(t, "cafeteria:read", res.Skipped[1].Name)
}

func TestSystemPermissionsAreProtected(t *testing.T) {
	f := newAccessFixture(t)
	f.seed(t)
	ctx := context.Background()
	p, err := f.permissions.FindByName(ctx, repository.Tenant(""), "leave:read")
	require.NoError(t, err)
	desc := "read leave"

	_, err = f.permSvc.UpdatePermission(ctx, tenant, p.ID, PermissionUpdate{Description: &desc}, f.admin)
	assert.True(t, util.IsKind(err, util.KindForbidden))

	root := Actor{UserID: "root", Level: role.SuperAdmin}
	updated, err := f.permSvc.UpdatePermission(ctx, tenant, p.ID, PermissionUpdate{Description: &desc}, root)
	require.NoError(t, err)
	assert.Equal(t, desc, updated.Description)

	err = f.permSvc.DeletePermission(ctx, tenant, p.ID, root)
	assert.True(t, util.IsKind(err, util.KindForbidden))
}

func TestDeletePermissionInUse(t *testing.T) {
	f := newAccessFixture(t)
	ctx := context.Background()
	p, err := f.permSvc.CreatePermission(ctx, tenant, PermissionInput{Module: "reports", Action: "export"}, f.admin)
	require.NoError(t, err)
	r, err := f.roleSvc.CreateRole(ctx, tenant, RoleInput{Name: "ANALYST", Level: 6, Permissions: []string{p.ID.Hex()}}, f.admin)
	require.NoError(t, err)

	err = f.permSvc.DeletePermission(ctx, tenant, p.ID, f.admin)
	assert.True(t, util.IsKind(err, util.KindConflict))

	_, err = f.roleSvc.RemovePermissions(ctx, tenant, r.ID, []string{p.ID.Hex()}, f.admin)
	require.NoError(t, err)
	require.NoError(t, f.permSvc.DeletePermission(ctx, tenant, p.ID, f.admin))

	_, err = f.permSvc.GetPermission(ctx, tenant, p.ID)
	assert.True(t, util.IsKind(err, util.KindNotFound))
}

func TestListPermissionsByModule(t *testing.T) {
	f := newAccessFixture(t)
	f.seed(t)
	ctx := context.Background()
	_, err := f.permSvc.CreatePermission(ctx, tenant, PermissionInput{Module: "leave", Action: "read", Resource: "team"}, f.admin)
	require.NoError(t, err)

	perms, err := f.permSvc.ListPermissions(ctx, tenant, "LEAVE")
	require.NoError(t, err)
	assert.Len(t, perms, len(models.Actions)+1)

	_, err = f.permSvc.ListPermissions(ctx, tenant, "cafeteria")
	assert.True(t, util.IsKind(err, util.KindValidation))
}

func TestPermissionWritesStayInsideTenant(t *testing.T) {
	f := newAccessFixture(t)
	ctx := context.Background()
	other := repository.Tenant("OTHER1")
	p, err := f.permSvc.CreatePermission(ctx, other, PermissionInput{Module: "reports", Action: "export"}, f.admin)
	require.NoError(t, err)
	desc := "hijacked"

	_, err = f.permSvc.UpdatePermission(ctx, tenant, p.ID, PermissionUpdate{Description: &desc}, f.admin)
	assert.True(t, util.IsKind(err, util.KindNotFound))
	assert.True(t, util.IsKind(f.permSvc.DeletePermission(ctx, tenant, p.ID, f.admin), util.KindNotFound))

	assert.ErrorIs(t, f.permissions.Update(ctx, tenant, p), repository.ErrNotFound)
	assert.ErrorIs(t, f.permissions.Delete(ctx, tenant, p.ID), repository.ErrNotFound)

	kept, err := f.permSvc.GetPermission(ctx, other, p.ID)
	require.NoError(t, err)
	assert.Empty(t, kept.Description)
}
