package controllers

import (
	"strconv"

	"WorkForce360/config/authorization"
	"WorkForce360/models"
	"WorkForce360/repository"
	"WorkForce360/role"
	"WorkForce360/services"
	"WorkForce360/util"

	"github.com/gin-gonic/gin"
)

func (ctl *Controller) Users(router *gin.Engine) {
	users := router.Group("/users")
	{
		users.POST("/create", ctl.gate.Authorize(models.ModuleUsers, models.ActionCreate), ctl.CreateUser)
		users.GET("/fetch/:id", ctl.gate.Authorize(models.ModuleEmployees, models.ActionRead), ctl.FetchUser)
		users.GET("/fetchAll", ctl.gate.Authorize(models.ModuleEmployees, models.ActionRead), ctl.FetchUsers)
		users.PUT("/update/:id", ctl.UpdateUser)
		users.PUT("/status/:id", ctl.gate.Authorize(models.ModuleUsers, models.ActionUpdate), ctl.SetUserStatus)
		users.DELETE("/delete/:id", ctl.gate.Authorize(models.ModuleUsers, models.ActionDelete), ctl.DeleteUser)
		users.GET("/above/:level", ctl.FetchUsersAbove)
	}
}

func (ctl *Controller) CreateUser(c *gin.Context) {
	var in services.EmployeeInput
	if !bindJSON(c, &in) {
		return
	}
	user, err := ctl.svc.Users.CreateEmployee(c.Request.Context(), authorization.TenantFrom(c), in, authorization.ActorFrom(c))
	if err != nil {
		fail(c, err)
		return
	}
	created(c, user)
}

func (ctl *Controller) FetchUser(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	user, err := ctl.svc.Users.GetUser(c.Request.Context(), authorization.TenantFrom(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, user)
}

/*
* Optional filters: status, department and role
 */
func (ctl *Controller) FetchUsers(c *gin.Context) {
	level, err := queryInt(c, "role", 0)
	if err != nil {
		fail(c, err)
		return
	}
	filter := repository.UserFilter{
		Status:     c.Query("status"),
		Department: c.Query("department"),
		Role:       role.Level(level),
	}
	users, err := ctl.svc.Users.ListUsers(c.Request.Context(), authorization.TenantFrom(c), filter)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, users)
}

// Users may edit their own profile; the service decides what else is allowed.
func (ctl *Controller) UpdateUser(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	var in services.UserUpdate
	if !bindJSON(c, &in) {
		return
	}
	user, err := ctl.svc.Users.UpdateUser(c.Request.Context(), authorization.TenantFrom(c), id, in, authorization.ActorFrom(c))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, user)
}

func (ctl *Controller) SetUserStatus(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if !bindJSON(c, &body) {
		return
	}
	user, err := ctl.svc.Users.SetUserStatus(c.Request.Context(), authorization.TenantFrom(c), id, body.Status, authorization.ActorFrom(c))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, user)
}

func (ctl *Controller) DeleteUser(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	if err := ctl.svc.Users.DeleteUser(c.Request.Context(), authorization.TenantFrom(c), id, authorization.ActorFrom(c)); err != nil {
		fail(c, err)
		return
	}
	ok(c, "Deleted successfully")
}

/*
* Active users whose level outranks the one in the path
 */
func (ctl *Controller) FetchUsersAbove(c *gin.Context) {
	level, err := strconv.Atoi(c.Param("level"))
	if err != nil || !role.Level(level).Valid() {
		fail(c, util.Validation(util.INVALID_ROLE_LEVEL))
		return
	}
	users, err := ctl.svc.Roles.GetUsersAboveRole(c.Request.Context(), authorization.TenantFrom(c), role.Level(level))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, users)
}
