package controllers

import (
	"net/http"

	"WorkForce360/config/authorization"
	"WorkForce360/services"

	"github.com/gin-gonic/gin"
)

// Auth registers the public credential routes.
func (ctl *Controller) Auth(router *gin.Engine) {
	auth := router.Group("/auth")
	{
		auth.POST("/register", ctl.Register)
		auth.POST("/login", ctl.Login)
	}
	router.GET("/health", Health)
}

// ChangePasswordRoute lives behind JWTAuth and Organization.
func (ctl *Controller) ChangePasswordRoute(router *gin.Engine) {
	router.POST("/auth/change-password", ctl.ChangePassword)
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

/*
* Create the organization together with its first admin
* Returns the admin's token so the caller is signed in
 */
func (ctl *Controller) Register(c *gin.Context) {
	var in services.RegisterInput
	if !bindJSON(c, &in) {
		return
	}
	res, err := ctl.svc.Auth.RegisterOrganization(c.Request.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	created(c, res)
}

/*
* Bind the credentials and move to services
* Unknown users and wrong passwords answer the same way
 */
func (ctl *Controller) Login(c *gin.Context) {
	var in services.LoginInput
	if !bindJSON(c, &in) {
		return
	}
	res, err := ctl.svc.Auth.Login(c.Request.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, res)
}

func (ctl *Controller) ChangePassword(c *gin.Context) {
	var in services.ChangePasswordInput
	if !bindJSON(c, &in) {
		return
	}
	userID, err := services.ParseID(authorization.ActorFrom(c).UserID)
	if err != nil {
		fail(c, err)
		return
	}
	if err := ctl.svc.Auth.ChangePassword(c.Request.Context(), authorization.TenantFrom(c), userID, in.OldPassword, in.NewPassword); err != nil {
		fail(c, err)
		return
	}
	ok(c, "password changed")
}
