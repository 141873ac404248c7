package controllers

import (
	"time"

	"WorkForce360/config/authorization"
	"WorkForce360/models"
	"WorkForce360/repository"
	"WorkForce360/role"
	"WorkForce360/services"

	"github.com/gin-gonic/gin"
)

func (ctl *Controller) Leave(router *gin.Engine) {
	leave := router.Group("/leave")
	{
		types := leave.Group("/types")
		{
			types.POST("/create", ctl.gate.Authorize(models.ModuleLeave, models.ActionUpdate), ctl.CreateLeaveType)
			types.GET("/fetchAll", ctl.gate.Authorize(models.ModuleLeave, models.ActionRead), ctl.FetchLeaveTypes)
			types.PUT("/update/:id", ctl.gate.Authorize(models.ModuleLeave, models.ActionUpdate), ctl.UpdateLeaveType)
			types.DELETE("/delete/:id", ctl.gate.Authorize(models.ModuleLeave, models.ActionUpdate), ctl.DeleteLeaveType)
		}
		leave.POST("/apply", ctl.gate.Authorize(models.ModuleLeave, models.ActionCreate), ctl.ApplyLeave)
		leave.POST("/approve/:id", ctl.gate.Authorize(models.ModuleLeave, models.ActionApprove), ctl.ApproveLeave)
		leave.POST("/reject/:id", ctl.gate.Authorize(models.ModuleLeave, models.ActionApprove), ctl.RejectLeave)
		leave.POST("/cancel/:id", ctl.gate.Authorize(models.ModuleLeave, models.ActionCreate), ctl.CancelLeave)
		leave.GET("/fetchAll", ctl.gate.Authorize(models.ModuleLeave, models.ActionRead), ctl.FetchLeaveApplications)
		leave.GET("/balance/:employeeId", ctl.gate.Authorize(models.ModuleLeave, models.ActionRead), ctl.LeaveBalance)
		leave.GET("/approvers/:employeeId", ctl.gate.Authorize(models.ModuleLeave, models.ActionRead), ctl.LeaveApprovers)
	}
}

func (ctl *Controller) CreateLeaveType(c *gin.Context) {
	var in services.LeaveTypeInput
	if !bindJSON(c, &in) {
		return
	}
	lt, err := ctl.svc.Leave.CreateLeaveType(c.Request.Context(), authorization.TenantFrom(c), in, authorization.ActorFrom(c))
	if err != nil {
		fail(c, err)
		return
	}
	created(c, lt)
}

func (ctl *Controller) FetchLeaveTypes(c *gin.Context) {
	types, err := ctl.svc.Leave.ListLeaveTypes(c.Request.Context(), authorization.TenantFrom(c))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, types)
}

func (ctl *Controller) UpdateLeaveType(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	var in services.LeaveTypeUpdate
	if !bindJSON(c, &in) {
		return
	}
	lt, err := ctl.svc.Leave.UpdateLeaveType(c.Request.Context(), authorization.TenantFrom(c), id, in, authorization.ActorFrom(c))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, lt)
}

func (ctl *Controller) DeleteLeaveType(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	if err := ctl.svc.Leave.DeleteLeaveType(c.Request.Context(), authorization.TenantFrom(c), id); err != nil {
		fail(c, err)
		return
	}
	ok(c, "Deleted successfully")
}

/*
* Apply for the caller, or for employeeId when a superior applies on their behalf
 */
func (ctl *Controller) ApplyLeave(c *gin.Context) {
	var in services.ApplyLeaveInput
	if !bindJSON(c, &in) {
		return
	}
	app, err := ctl.svc.Leave.ApplyLeave(c.Request.Context(), authorization.TenantFrom(c), in, authorization.ActorFrom(c))
	if err != nil {
		fail(c, err)
		return
	}
	created(c, app)
}

func (ctl *Controller) ApproveLeave(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	app, err := ctl.svc.Leave.ApproveLeave(c.Request.Context(), authorization.TenantFrom(c), id, authorization.ActorFrom(c))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, app)
}

func (ctl *Controller) RejectLeave(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	var body struct {
		Reason string `json:"reason" binding:"required"`
	}
	if !bindJSON(c, &body) {
		return
	}
	app, err := ctl.svc.Leave.RejectLeave(c.Request.Context(), authorization.TenantFrom(c), id, body.Reason, authorization.ActorFrom(c))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, app)
}

func (ctl *Controller) CancelLeave(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	app, err := ctl.svc.Leave.CancelLeave(c.Request.Context(), authorization.TenantFrom(c), id, authorization.ActorFrom(c))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, app)
}

/*
* Managers and above see every application, optionally filtered by employeeId
* Everyone else only sees their own
 */
func (ctl *Controller) FetchLeaveApplications(c *gin.Context) {
	actor := authorization.ActorFrom(c)
	raw := c.Query("employeeId")
	if !actor.Level.AtLeast(role.Manager) {
		raw = actor.UserID
	}
	employeeID, err := optionalID(raw)
	if err != nil {
		fail(c, err)
		return
	}
	filter := repository.LeaveFilter{EmployeeID: employeeID, Status: c.Query("status")}
	apps, err := ctl.svc.Leave.ListLeaveApplications(c.Request.Context(), authorization.TenantFrom(c), filter)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, apps)
}

func (ctl *Controller) LeaveBalance(c *gin.Context) {
	employeeID, err := targetEmployee(c, c.Param("employeeId"))
	if err != nil {
		fail(c, err)
		return
	}
	year, err := queryInt(c, "year", time.Now().Year())
	if err != nil {
		fail(c, err)
		return
	}
	balances, err := ctl.svc.Leave.GetLeaveBalance(c.Request.Context(), authorization.TenantFrom(c), employeeID, year)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, balances)
}

func (ctl *Controller) LeaveApprovers(c *gin.Context) {
	employeeID, valid := pathID(c, "employeeId")
	if !valid {
		return
	}
	approvers, err := ctl.svc.Leave.GetApprovers(c.Request.Context(), authorization.TenantFrom(c), employeeID)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, approvers)
}
