// Package server wires configuration, storage and the HTTP engine together.
// Start connects Mongo and Redis, runs migrations and jobs, then serves the
// routes installed by the WebServerPreHandler until the process is signalled.
package server

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"WorkForce360/config"
	"WorkForce360/config/authorization"
	"WorkForce360/config/db"
	"WorkForce360/config/jwt"
	"WorkForce360/config/logger"
	"WorkForce360/config/redis"
	"WorkForce360/config/storage"
	"WorkForce360/repository"
	"WorkForce360/services"
	"WorkForce360/util"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
)

const documentFolder = "workforce360"

// App is what the handlers of Options receive once the infrastructure is up.
type App struct {
	Config   *config.Config
	Log      *logrus.Logger
	DB       *mongo.Database
	Services *services.Registry
	Gate     *authorization.Gate
}

type Options struct {
	CacheEnabled     bool
	MongoEnabled     bool
	WebServerEnabled bool
	WebServerPort    string

	JobsEnabled bool
	JobsHandler func(app *App)

	WebServerPreHandler func(r *gin.Engine, app *App)

	MigrationEnabled bool
	MigrationHandler func(app *App)
}

func GetDefaultOptions() Options {
	cfg := config.Get()
	return Options{
		CacheEnabled:     cfg.RedisAddr != "",
		MongoEnabled:     true,
		WebServerEnabled: true,
		WebServerPort:    cfg.Port,
		JobsEnabled:      cfg.JobsEnabled,
		MigrationEnabled: cfg.MigrationsEnabled,
	}
}

func Start(opts Options) {
	cfg := config.Get()
	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err := run(opts, cfg, log); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}

func run(opts Options, cfg *config.Config, log *logrus.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := Bootstrap(ctx, opts, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := db.Disconnect(shutdownCtx); err != nil {
			log.WithError(err).Warn("mongo disconnect failed")
		}
	}()

	if opts.MigrationEnabled && opts.MigrationHandler != nil {
		opts.MigrationHandler(app)
	}
	if opts.JobsEnabled && opts.JobsHandler != nil {
		opts.JobsHandler(app)
	}
	if !opts.WebServerEnabled {
		<-ctx.Done()
		return nil
	}

	r := NewEngine(app, opts.WebServerPreHandler)
	srv := &http.Server{
		Addr:              ":" + opts.WebServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		log.WithField("port", opts.WebServerPort).Info("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}
	log.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

/*
* Connect the stores and build the services
* Redis and Cloudinary are optional, Mongo and the jwt secret are not
 */
func Bootstrap(ctx context.Context, opts Options, cfg *config.Config, log *logrus.Logger) (*App, error) {
	if !opts.MongoEnabled {
		return nil, errors.New("mongo is required")
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is not set")
	}
	if err := util.RegisterValidators(); err != nil {
		return nil, err
	}
	database, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		return nil, err
	}

	var cache services.Cache = services.NoopCache{}
	if opts.CacheEnabled {
		client, err := redis.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.WithError(err).Warn("redis unavailable, caching disabled")
		} else {
			cache = redis.NewCache(client, cfg.CacheTTL)
		}
	}

	var uploader storage.Uploader = storage.Disabled{}
	if cfg.CloudinaryURL != "" {
		cld, err := storage.NewCloudinary(cfg.CloudinaryURL, documentFolder)
		if err != nil {
			log.WithError(err).Warn("cloudinary not configured, document upload disabled")
		} else {
			uploader = cld
		}
	}

	tokens := jwt.NewManager(cfg.JWTSecret, cfg.JWTTTL)
	registry := services.NewRegistry(services.Dependencies{
		Store:            repository.NewStore(database),
		Cache:            cache,
		Tokens:           tokens,
		Uploader:         uploader,
		Location:         util.LoadLocation(cfg.AppTimezone),
		LoginMaxAttempts: cfg.LoginMaxAttempts,
		Log:              log,
	})
	return &App{
		Config:   cfg,
		Log:      log,
		DB:       database,
		Services: registry,
		Gate:     authorization.NewGate(tokens, registry.Access, log),
	}, nil
}

// NewEngine builds the gin engine with the shared middlewares and validators.
func NewEngine(app *App, pre func(r *gin.Engine, app *App)) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), authorization.RequestID())
	if app != nil && app.Log != nil {
		r.Use(authorization.AccessLog(app.Log))
	}
	if err := util.RegisterValidators(); err != nil && app != nil && app.Log != nil {
		app.Log.WithError(err).Error("custom validators not registered")
	}
	if pre != nil {
		pre(r, app)
	}
	return r
}
