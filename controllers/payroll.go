package controllers

import (
	"strings"

	"WorkForce360/config/authorization"
	"WorkForce360/models"
	"WorkForce360/repository"
	"WorkForce360/services"
	"WorkForce360/util"

	"github.com/gin-gonic/gin"
)

func (ctl *Controller) Payroll(router *gin.Engine) {
	payroll := router.Group("/payroll")
	{
		payroll.POST("/generate", ctl.gate.Authorize(models.ModulePayroll, models.ActionCreate), ctl.GeneratePayroll)
		payroll.GET("/fetch/:id", ctl.gate.Authorize(models.ModulePayroll, models.ActionRead), ctl.FetchPayroll)
		payroll.GET("/fetchAll", ctl.gate.Authorize(models.ModulePayroll, models.ActionRead), ctl.FetchPayrolls)
		payroll.PUT("/status/:id", ctl.gate.Authorize(models.ModulePayroll, models.ActionUpdate), ctl.UpdatePayrollStatus)
		payroll.POST("/payslip/:id", ctl.gate.Authorize(models.ModulePayroll, models.ActionUpdate), ctl.AttachPayslip)
		payroll.DELETE("/delete/:id", ctl.gate.Authorize(models.ModulePayroll, models.ActionDelete), ctl.DeletePayroll)
	}
}

func (ctl *Controller) GeneratePayroll(c *gin.Context) {
	var in services.GeneratePayrollInput
	if !bindJSON(c, &in) {
		return
	}
	rec, err := ctl.svc.Payroll.GeneratePayroll(c.Request.Context(), authorization.TenantFrom(c), in, authorization.ActorFrom(c))
	if err != nil {
		fail(c, err)
		return
	}
	created(c, rec)
}

func (ctl *Controller) FetchPayroll(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	rec, err := ctl.svc.Payroll.GetPayroll(c.Request.Context(), authorization.TenantFrom(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, rec)
}

/*
* Optional filters: month, year and employeeId
 */
func (ctl *Controller) FetchPayrolls(c *gin.Context) {
	month, err := queryInt(c, "month", 0)
	if err != nil {
		fail(c, err)
		return
	}
	year, err := queryInt(c, "year", 0)
	if err != nil {
		fail(c, err)
		return
	}
	employeeID, err := optionalID(c.Query("employeeId"))
	if err != nil {
		fail(c, err)
		return
	}
	list, err := ctl.svc.Payroll.ListPayroll(c.Request.Context(), authorization.TenantFrom(c),
		repository.PayrollFilter{Month: month, Year: year, EmployeeID: employeeID})
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, list)
}

func (ctl *Controller) UpdatePayrollStatus(c *gin.Context) {
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
	rec, err := ctl.svc.Payroll.UpdatePayrollStatus(c.Request.Context(), authorization.TenantFrom(c), id, body.Status, authorization.ActorFrom(c))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, rec)
}

/*
* A multipart "file" is stored as a payslip document and its url attached
* Otherwise the json body carries an already hosted url
 */
func (ctl *Controller) AttachPayslip(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	ctx := c.Request.Context()
	tenant := authorization.TenantFrom(c)
	actor := authorization.ActorFrom(c)

	var url string
	if strings.HasPrefix(c.ContentType(), gin.MIMEMultipartPOSTForm) {
		rec, err := ctl.svc.Payroll.GetPayroll(ctx, tenant, id)
		if err != nil {
			fail(c, err)
			return
		}
		header, err := c.FormFile("file")
		if err != nil {
			fail(c, util.Validation("file is required"))
			return
		}
		file, err := header.Open()
		if err != nil {
			fail(c, util.Validation("file could not be read"))
			return
		}
		defer file.Close()
		doc, err := ctl.svc.Documents.UploadDocument(ctx, tenant, services.UploadInput{
			Title:       "Payslip " + header.Filename,
			Category:    models.DocumentPayslip,
			EmployeeID:  rec.EmployeeID.Hex(),
			FileName:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
			File:        file,
		}, actor)
		if err != nil {
			fail(c, err)
			return
		}
		url = doc.URL
	} else {
		var body struct {
			URL string `json:"url" binding:"required,url"`
		}
		if !bindJSON(c, &body) {
			return
		}
		url = body.URL
	}

	rec, err := ctl.svc.Payroll.AttachPayslip(ctx, tenant, id, url, actor)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, rec)
}

func (ctl *Controller) DeletePayroll(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	if err := ctl.svc.Payroll.DeletePayroll(c.Request.Context(), authorization.TenantFrom(c), id); err != nil {
		fail(c, err)
		return
	}
	ok(c, "Deleted successfully")
}
