package controllers

import (
	"strings"
	"time"

	"WorkForce360/config/authorization"
	"WorkForce360/models"
	"WorkForce360/role"
	"WorkForce360/services"

	"github.com/gin-gonic/gin"
)

func (ctl *Controller) Attendance(router *gin.Engine) {
	att := router.Group("/attendance")
	{
		att.POST("/clock-in", ctl.gate.Authorize(models.ModuleAttendance, models.ActionCreate), ctl.ClockIn)
		att.POST("/clock-out", ctl.gate.Authorize(models.ModuleAttendance, models.ActionCreate), ctl.ClockOut)
		att.GET("/today", ctl.gate.Authorize(models.ModuleAttendance, models.ActionRead), ctl.TodayStatus)
		att.POST("/reset", ctl.gate.RequireLevel(role.Admin), ctl.gate.Authorize(models.ModuleAttendance, models.ActionUpdate), ctl.ResetToday)
		att.POST("/mark", ctl.gate.Authorize(models.ModuleAttendance, models.ActionUpdate), ctl.MarkAttendance)
		att.POST("/:id/check-out", ctl.gate.Authorize(models.ModuleAttendance, models.ActionUpdate), ctl.MarkCheckOut)
		att.GET("/monthly/:employeeId", ctl.gate.Authorize(models.ModuleAttendance, models.ActionRead), ctl.MonthlyAttendance)
		att.GET("/daily", ctl.gate.RequireLevel(role.Manager), ctl.gate.Authorize(models.ModuleAttendance, models.ActionRead), ctl.DailyAttendance)
	}
}

type clockBody struct {
	EmployeeID   string `json:"employeeId"`
	Notes        string `json:"notes"`
	WorkFromHome bool   `json:"workFromHome"`
}

// bindOptionalJSON accepts an empty body as the zero value.
func bindOptionalJSON(c *gin.Context, target interface{}) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	return bindJSON(c, target)
}

/*
* Open a session for the caller, or for employeeId when HR clocks someone in
 */
func (ctl *Controller) ClockIn(c *gin.Context) {
	var body clockBody
	if !bindOptionalJSON(c, &body) {
		return
	}
	employeeID, err := targetEmployee(c, body.EmployeeID)
	if err != nil {
		fail(c, err)
		return
	}
	res, err := ctl.svc.Attendance.ClockIn(c.Request.Context(), authorization.TenantFrom(c), employeeID,
		services.MarkInput{Notes: body.Notes, WorkFromHome: body.WorkFromHome}, authorization.ActorFrom(c))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, res)
}

func (ctl *Controller) ClockOut(c *gin.Context) {
	var body clockBody
	if !bindOptionalJSON(c, &body) {
		return
	}
	employeeID, err := targetEmployee(c, body.EmployeeID)
	if err != nil {
		fail(c, err)
		return
	}
	res, err := ctl.svc.Attendance.ClockOut(c.Request.Context(), authorization.TenantFrom(c), employeeID, body.Notes, authorization.ActorFrom(c))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, res)
}

func (ctl *Controller) TodayStatus(c *gin.Context) {
	employeeID, err := targetEmployee(c, c.Query("employeeId"))
	if err != nil {
		fail(c, err)
		return
	}
	status, err := ctl.svc.Attendance.GetTodayStatus(c.Request.Context(), authorization.TenantFrom(c), employeeID, time.Now())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, status)
}

// Remove today's records of an employee.
func (ctl *Controller) ResetToday(c *gin.Context) {
	var body clockBody
	if !bindOptionalJSON(c, &body) {
		return
	}
	employeeID, err := targetEmployee(c, body.EmployeeID)
	if err != nil {
		fail(c, err)
		return
	}
	deleted, err := ctl.svc.Attendance.ResetToday(c.Request.Context(), authorization.TenantFrom(c), employeeID, time.Now())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"deleted": deleted})
}

/*
* Record a check-in at an explicit time
* Used to correct attendance after the fact
 */
func (ctl *Controller) MarkAttendance(c *gin.Context) {
	var body struct {
		EmployeeID   string    `json:"employeeId" binding:"required"`
		CheckIn      time.Time `json:"checkIn" binding:"required"`
		Notes        string    `json:"notes"`
		WorkFromHome bool      `json:"workFromHome"`
	}
	if !bindJSON(c, &body) {
		return
	}
	employeeID, err := targetEmployee(c, body.EmployeeID)
	if err != nil {
		fail(c, err)
		return
	}
	res, err := ctl.svc.Attendance.MarkAttendance(c.Request.Context(), authorization.TenantFrom(c), employeeID, body.CheckIn,
		services.MarkInput{Notes: body.Notes, WorkFromHome: body.WorkFromHome}, authorization.ActorFrom(c))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"record": res.Record, "isUpdate": res.IsUpdate})
}

func (ctl *Controller) MarkCheckOut(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	var body struct {
		CheckOut *time.Time `json:"checkOut"`
		Notes    string     `json:"notes"`
	}
	if !bindOptionalJSON(c, &body) {
		return
	}
	checkOut := time.Now()
	if body.CheckOut != nil {
		checkOut = *body.CheckOut
	}
	rec, err := ctl.svc.Attendance.MarkCheckOut(c.Request.Context(), authorization.TenantFrom(c), id, checkOut, body.Notes, authorization.ActorFrom(c))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, rec)
}

/*
* Defaults to the current month
 */
func (ctl *Controller) MonthlyAttendance(c *gin.Context) {
	employeeID, err := targetEmployee(c, c.Param("employeeId"))
	if err != nil {
		fail(c, err)
		return
	}
	now := time.Now()
	year, err := queryInt(c, "year", now.Year())
	if err != nil {
		fail(c, err)
		return
	}
	month, err := queryInt(c, "month", int(now.Month()))
	if err != nil {
		fail(c, err)
		return
	}
	res, err := ctl.svc.Attendance.GetMonthlyAttendance(c.Request.Context(), authorization.TenantFrom(c), employeeID, year, month)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, res)
}

// The date is read in the organization's timezone; today when omitted.
func (ctl *Controller) DailyAttendance(c *gin.Context) {
	res, err := ctl.svc.Attendance.GetDailyAttendanceOn(c.Request.Context(), authorization.TenantFrom(c), strings.TrimSpace(c.Query("date")))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, res)
}
