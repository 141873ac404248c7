package controllers

import (
	"WorkForce360/config/authorization"
	"WorkForce360/models"
	"WorkForce360/services"

	"github.com/gin-gonic/gin"
)

func (ctl *Controller) Role(router *gin.Engine) {
	role := router.Group("/roles")
	{
		role.POST("/create", ctl.gate.Authorize(models.ModuleSettings, models.ActionConfigure), ctl.CreateRole)
		role.GET("/fetch/:id", ctl.gate.Authorize(models.ModuleSettings, models.ActionRead), ctl.FetchRoleById)
		role.GET("/fetchAll", ctl.gate.Authorize(models.ModuleSettings, models.ActionRead), ctl.ReadRoles)
		role.PUT("/update/:id", ctl.gate.Authorize(models.ModuleSettings, models.ActionConfigure), ctl.UpdateRole)
		role.DELETE("/delete/:id", ctl.gate.Authorize(models.ModuleSettings, models.ActionConfigure), ctl.DeleteRole)
		role.POST("/:id/permissions", ctl.gate.Authorize(models.ModuleSettings, models.ActionConfigure), ctl.AddRolePermissions)
		role.DELETE("/:id/permissions", ctl.gate.Authorize(models.ModuleSettings, models.ActionConfigure), ctl.RemoveRolePermissions)
		role.GET("/:id/has/:name", ctl.gate.Authorize(models.ModuleSettings, models.ActionRead), ctl.RoleHasPermission)
	}
}

type permissionIDs struct {
	PermissionIDs []string `json:"permissionIds" binding:"required,min=1"`
}

/*
* Bind the role and move to services
* Names are uppercased and unique per organization
 */
func (ctl *Controller) CreateRole(c *gin.Context) {
	var in services.RoleInput
	if !bindJSON(c, &in) {
		return
	}
	role, err := ctl.svc.Roles.CreateRole(c.Request.Context(), authorization.TenantFrom(c), in, authorization.ActorFrom(c))
	if err != nil {
		fail(c, err)
		return
	}
	created(c, role)
}

// Tenant roles followed by the system roles.
func (ctl *Controller) ReadRoles(c *gin.Context) {
	roles, err := ctl.svc.Roles.ListRoles(c.Request.Context(), authorization.TenantFrom(c))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, roles)
}

func (ctl *Controller) FetchRoleById(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	role, err := ctl.svc.Roles.GetRole(c.Request.Context(), authorization.TenantFrom(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, role)
}

func (ctl *Controller) UpdateRole(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	var in services.RoleUpdate
	if !bindJSON(c, &in) {
		return
	}
	role, err := ctl.svc.Roles.UpdateRole(c.Request.Context(), authorization.TenantFrom(c), id, in, authorization.ActorFrom(c))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, role)
}

/*
* System roles and roles still held by users cannot be deleted
 */
func (ctl *Controller) DeleteRole(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	if err := ctl.svc.Roles.DeleteRole(c.Request.Context(), authorization.TenantFrom(c), id, authorization.ActorFrom(c)); err != nil {
		fail(c, err)
		return
	}
	ok(c, "Deleted successfully")
}

func (ctl *Controller) AddRolePermissions(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	var body permissionIDs
	if !bindJSON(c, &body) {
		return
	}
	role, err := ctl.svc.Roles.AddPermissions(c.Request.Context(), authorization.TenantFrom(c), id, body.PermissionIDs, authorization.ActorFrom(c))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, role)
}

func (ctl *Controller) RemoveRolePermissions(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	var body permissionIDs
	if !bindJSON(c, &body) {
		return
	}
	role, err := ctl.svc.Roles.RemovePermissions(c.Request.Context(), authorization.TenantFrom(c), id, body.PermissionIDs, authorization.ActorFrom(c))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, role)
}

func (ctl *Controller) RoleHasPermission(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	name := c.Param("name")
	has, err := ctl.svc.Roles.HasPermission(c.Request.Context(), authorization.TenantFrom(c), id, name)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"permission": name, "hasPermission": has})
}
