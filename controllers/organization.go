package controllers

import (
	"WorkForce360/config/authorization"
	"WorkForce360/models"
	"WorkForce360/role"
	"WorkForce360/services"

	"github.com/gin-gonic/gin"
)

func (ctl *Controller) Organization(router *gin.Engine) {
	org := router.Group("/organization")
	{
		org.GET("/fetch", ctl.FetchOrganization)
		org.PUT("/update", ctl.gate.Authorize(models.ModuleSettings, models.ActionConfigure), ctl.UpdateOrganization)
		org.GET("/fetchAll", ctl.gate.RequireLevel(role.SuperAdmin), ctl.FetchOrganizations)
		org.POST("/create", ctl.gate.RequireLevel(role.SuperAdmin), ctl.CreateOrganization)
		org.PUT("/status", ctl.gate.RequireLevel(role.SuperAdmin), ctl.SetOrganizationStatus)
	}
}

// Fetch the organization resolved for this request.
func (ctl *Controller) FetchOrganization(c *gin.Context) {
	org, err := ctl.svc.Organizations.GetOrganization(c.Request.Context(), authorization.TenantFrom(c).Code())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, org)
}

func (ctl *Controller) UpdateOrganization(c *gin.Context) {
	var in services.OrganizationUpdate
	if !bindJSON(c, &in) {
		return
	}
	org, err := ctl.svc.Organizations.UpdateOrganization(c.Request.Context(), authorization.TenantFrom(c).Code(), in, authorization.ActorFrom(c))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, org)
}

func (ctl *Controller) FetchOrganizations(c *gin.Context) {
	orgs, err := ctl.svc.Organizations.ListOrganizations(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, orgs)
}

func (ctl *Controller) CreateOrganization(c *gin.Context) {
	var in services.OrganizationInput
	if !bindJSON(c, &in) {
		return
	}
	org, err := ctl.svc.Organizations.CreateOrganization(c.Request.Context(), in, authorization.ActorFrom(c))
	if err != nil {
		fail(c, err)
		return
	}
	created(c, org)
}

/*
* Activate or deactivate the organization of the request
 */
func (ctl *Controller) SetOrganizationStatus(c *gin.Context) {
	var body struct {
		IsActive *bool `json:"isActive" binding:"required"`
	}
	if !bindJSON(c, &body) {
		return
	}
	org, err := ctl.svc.Organizations.SetActive(c.Request.Context(), authorization.TenantFrom(c).Code(), *body.IsActive, authorization.ActorFrom(c))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, org)
}
