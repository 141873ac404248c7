package routes

import (
	"WorkForce360/config/authorization"
	"WorkForce360/controllers"

	"github.com/gin-gonic/gin"
)

func Routes(r *gin.Engine, ctl *controllers.Controller, gate *authorization.Gate) {

	//public
	ctl.Auth(r)
	//privateroutes
	r.Use(gate.JWTAuth(), gate.Organization())
	ctl.ChangePasswordRoute(r)
	ctl.Organization(r)
	ctl.Users(r)
	ctl.Role(r)
	ctl.Permission(r)
	ctl.Attendance(r)
	ctl.Leave(r)
	ctl.Payroll(r)
	ctl.Documents(r)
}
