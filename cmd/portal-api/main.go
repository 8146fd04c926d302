package main

import (
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/spc-registrar/portal-api/api/swagger"
	"github.com/spc-registrar/portal-api/internal/bus"
	"github.com/spc-registrar/portal-api/internal/handler"
	"github.com/spc-registrar/portal-api/internal/middleware"
	"github.com/spc-registrar/portal-api/internal/refdata"
	"github.com/spc-registrar/portal-api/internal/registrar"
	"github.com/spc-registrar/portal-api/internal/repository"
	"github.com/spc-registrar/portal-api/internal/service"
	"github.com/spc-registrar/portal-api/internal/store"
	"github.com/spc-registrar/portal-api/internal/verification"
	"github.com/spc-registrar/portal-api/internal/wizard"
	"github.com/spc-registrar/portal-api/pkg/cache"
	"github.com/spc-registrar/portal-api/pkg/config"
	"github.com/spc-registrar/portal-api/pkg/database"
	"github.com/spc-registrar/portal-api/pkg/logger"
	corsmiddleware "github.com/spc-registrar/portal-api/pkg/middleware/cors"
	reqidmiddleware "github.com/spc-registrar/portal-api/pkg/middleware/requestid"
)

// @title SPC Registrar Portal API
// @version 0.1.0
// @description Document request portal for the San Pablo Colleges registrar
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Warnw("postgres unavailable, request tracking disabled", "error", err)
		db = nil
	}

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, falling back to in-memory storage", "error", err)
		redisClient = nil
	}

	events := bus.New(logr)
	metrics := service.NewMetricsService()

	var kv store.Store
	if redisClient != nil {
		kv = store.NewRedis(redisClient, "portal")
	} else {
		kv = store.NewMemory()
	}

	upstream := registrar.NewClient(cfg.Upstream, metrics, logr)

	refCache := repository.NewCacheRepository(redisClient, logr)
	loader := refdata.NewLoader(upstream, refCache, metrics, logr, refdata.LoaderConfig{CacheTTL: cfg.RefData.CacheTTL})
	stopWatch := loader.WatchBus(events)
	defer stopWatch()

	flow := verification.NewFlow(upstream, kv, logr, verification.FlowConfig{
		ResendCooldown: cfg.Upstream.ResendCooldown,
	})

	var requestRepo *repository.RequestRepository
	if db != nil {
		requestRepo = repository.NewRequestRepository(db)
	}

	machine := wizard.NewMachine(wizard.NewValidator())
	wizardSvc := service.NewWizardService(
		machine,
		flow,
		loader,
		upstream,
		trackerOrNil(requestRepo),
		events,
		metrics,
		nil,
		logr,
		service.WizardServiceConfig{
			TokenSecret: cfg.Session.Secret,
			SessionTTL:  cfg.Wizard.SessionTTL,
		},
	)

	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			wizardSvc.Sweep()
		}
	}()

	wizardHandler := handler.NewWizardHandler(wizardSvc)
	referenceHandler := handler.NewReferenceHandler(loader, events)
	metricsHandler := handler.NewMetricsHandler(metrics, db)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	api.POST("/wizard/sessions", wizardHandler.Start)
	session := api.Group("/wizard/sessions/current", middleware.Session(wizardSvc))
	session.GET("", wizardHandler.State)
	session.PUT("/draft", wizardHandler.UpdateDraft)
	session.POST("/alumni-file", wizardHandler.AttachAlumniFile)
	session.POST("/verification/send", wizardHandler.SendVerification)
	session.POST("/verification/verify", wizardHandler.VerifyCode)
	session.POST("/advance", wizardHandler.Advance)
	session.POST("/back", wizardHandler.Back)
	session.POST("/submit", wizardHandler.Submit)

	api.GET("/reference", referenceHandler.All)
	api.GET("/reference/documents", referenceHandler.Documents)
	api.POST("/reference/documents/refresh", referenceHandler.RefreshDocuments)
	api.GET("/reference/purposes", referenceHandler.Purposes)
	api.GET("/reference/departments", referenceHandler.Departments)
	api.GET("/reference/courses", referenceHandler.Courses)

	if requestRepo != nil {
		trackingSvc := service.NewTrackingService(requestRepo, events, logr)
		trackingHandler := handler.NewTrackingHandler(trackingSvc)
		api.GET("/requests/track/:reference", trackingHandler.Track)
		api.GET("/requests", trackingHandler.List)
		api.PATCH("/requests/:reference/status", trackingHandler.UpdateStatus)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

// trackerOrNil keeps the nil-interface check in the wizard service honest
// when the repository pointer itself is nil.
func trackerOrNil(repo *repository.RequestRepository) service.TrackedRequestWriter {
	if repo == nil {
		return nil
	}
	return repo
}
