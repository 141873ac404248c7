package controllers

import (
	"WorkForce360/config/authorization"
	"WorkForce360/models"
	"WorkForce360/repository"
	"WorkForce360/role"
	"WorkForce360/services"

	"github.com/gin-gonic/gin"
)

func (ctl *Controller) Permission(router *gin.Engine) {
	perm := router.Group("/permissions")
	{
		perm.POST("/create", ctl.gate.Authorize(models.ModuleSettings, models.ActionConfigure), ctl.CreatePermission)
		perm.POST("/bulk", ctl.gate.Authorize(models.ModuleSettings, models.ActionConfigure), ctl.BulkCreatePermissions)
		perm.POST("/initialize", ctl.gate.Authorize(models.ModuleSettings, models.ActionConfigure), ctl.InitializePermissions)
		perm.GET("/fetch/:id", ctl.gate.Authorize(models.ModuleSettings, models.ActionRead), ctl.FetchPermission)
		perm.GET("/fetchAll", ctl.gate.Authorize(models.ModuleSettings, models.ActionRead), ctl.FetchPermissions)
		perm.PUT("/update/:id", ctl.gate.Authorize(models.ModuleSettings, models.ActionConfigure), ctl.UpdatePermission)
		perm.DELETE("/delete/:id", ctl.gate.Authorize(models.ModuleSettings, models.ActionConfigure), ctl.DeletePermission)
	}
}

/*
* Super admins write system permissions unless they send ?scope=tenant
* Everyone else writes into their organization
 */
func permissionScope(c *gin.Context) repository.Tenant {
	actor := authorization.ActorFrom(c)
	if actor.Level == role.SuperAdmin && c.Query("scope") != "tenant" {
		return repository.Tenant("")
	}
	return authorization.TenantFrom(c)
}

func (ctl *Controller) CreatePermission(c *gin.Context) {
	var in services.PermissionInput
	if !bindJSON(c, &in) {
		return
	}
	perm, err := ctl.svc.Permissions.CreatePermission(c.Request.Context(), permissionScope(c), in, authorization.ActorFrom(c))
	if err != nil {
		fail(c, err)
		return
	}
	created(c, perm)
}

func (ctl *Controller) BulkCreatePermissions(c *gin.Context) {
	var body struct {
		Permissions []services.PermissionInput `json:"permissions" binding:"required,min=1,dive"`
	}
	if !bindJSON(c, &body) {
		return
	}
	res, err := ctl.svc.Permissions.BulkCreatePermissions(c.Request.Context(), permissionScope(c), body.Permissions, authorization.ActorFrom(c))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, res)
}

// Fill in every module:action pair missing from the scope.
func (ctl *Controller) InitializePermissions(c *gin.Context) {
	count, err := ctl.svc.Permissions.InitializeDefaultPermissions(c.Request.Context(), permissionScope(c), authorization.ActorFrom(c))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"created": count})
}

func (ctl *Controller) FetchPermission(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	perm, err := ctl.svc.Permissions.GetPermission(c.Request.Context(), authorization.TenantFrom(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, perm)
}

func (ctl *Controller) FetchPermissions(c *gin.Context) {
	perms, err := ctl.svc.Permissions.ListPermissions(c.Request.Context(), authorization.TenantFrom(c), c.Query("module"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, perms)
}

func (ctl *Controller) UpdatePermission(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	var in services.PermissionUpdate
	if !bindJSON(c, &in) {
		return
	}
	perm, err := ctl.svc.Permissions.UpdatePermission(c.Request.Context(), authorization.TenantFrom(c), id, in, authorization.ActorFrom(c))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, perm)
}

func (ctl *Controller) DeletePermission(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	if err := ctl.svc.Permissions.DeletePermission(c.Request.Context(), authorization.TenantFrom(c), id, authorization.ActorFrom(c)); err != nil {
		fail(c, err)
		return
	}
	ok(c, "Deleted successfully")
}
