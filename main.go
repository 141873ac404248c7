package main

import (
	"context"

	"WorkForce360/config"
	"WorkForce360/controllers"
	"WorkForce360/jobs"
	"WorkForce360/migrations"
	"WorkForce360/routes"
	"WorkForce360/server"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var (
	startServer = server.Start
	isTest      = false
)

func main() {
	run()
}

func run() {
	cfg := config.Get()
	defaultopts := server.GetDefaultOptions()

	options := server.Options{
		CacheEnabled:     defaultopts.CacheEnabled,
		MongoEnabled:     defaultopts.MongoEnabled,
		WebServerEnabled: defaultopts.WebServerEnabled,
		WebServerPort:    defaultopts.WebServerPort,

		JobsEnabled: defaultopts.JobsEnabled && !isTest,
		JobsHandler: func(app *server.App) {
			if isTest {
				return
			}
			ctx := context.Background()
			if err := jobs.SeedAccessControl(ctx, app.Services.Permissions, app.Services.Roles, app.Log); err != nil {
				app.Log.WithError(err).Fatal("could not seed access control")
			}
			if _, err := jobs.StartDailyScheduler(app.Services.Attendance, app.Log); err != nil {
				app.Log.WithError(err).Fatal("could not start scheduler")
			}
		},

		WebServerPreHandler: func(r *gin.Engine, app *server.App) {
			if isTest {
				return
			}
			r.Use(cors.New(cors.Config{
				AllowOrigins:     cfg.CORSOrigins,
				AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
				AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Organization-Code", "X-Request-ID"},
				ExposeHeaders:    []string{"X-Request-ID"},
				AllowCredentials: !allowsAnyOrigin(cfg.CORSOrigins),
			}))
			routes.Routes(r, controllers.New(app.Services, app.Gate), app.Gate)
		},

		MigrationEnabled: defaultopts.MigrationEnabled && !isTest,
		MigrationHandler: func(app *server.App) {
			if isTest {
				return
			}
			if err := migrations.RunAll(context.Background(), app.DB, app.Log); err != nil {
				app.Log.WithError(err).Fatal("migrations failed")
			}
		},
	}
	startServer(options)
}

// Credentials cannot be combined with a wildcard origin.
func allowsAnyOrigin(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
