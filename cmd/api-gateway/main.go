package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/digiboard/digiboard-api/api/swagger"
	"github.com/digiboard/digiboard-api/internal/handler"
	"github.com/digiboard/digiboard-api/internal/middleware"
	"github.com/digiboard/digiboard-api/internal/models"
	"github.com/digiboard/digiboard-api/internal/repository"
	"github.com/digiboard/digiboard-api/internal/service"
	"github.com/digiboard/digiboard-api/pkg/cache"
	"github.com/digiboard/digiboard-api/pkg/config"
	"github.com/digiboard/digiboard-api/pkg/database"
	"github.com/digiboard/digiboard-api/pkg/logger"
	corsmiddleware "github.com/digiboard/digiboard-api/pkg/middleware/cors"
	reqidmiddleware "github.com/digiboard/digiboard-api/pkg/middleware/requestid"
)

// @title DigiBoard API
// @version 1.0.0
// @description Admin backend for teachers and weekly lecture schedules
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	// Redis is optional; a miss just disables caching.
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	// Repositories.
	teacherRepo := repository.NewTeacherRepository(db)
	lectureRepo := repository.NewLectureRepository(db)
	userRepo := repository.NewUserRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	// Services.
	metricsSvc := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Dashboard.CacheTTL, logr, cfg.Dashboard.CacheEnabled && redisClient != nil)
	authSvc := service.NewAuthService(userRepo, nil, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "digiboard-api",
	})
	teacherSvc := service.NewTeacherService(teacherRepo, cacheSvc, nil, logr)
	lectureSvc := service.NewLectureService(lectureRepo, teacherRepo, cacheSvc, nil, logr, cfg.Schedule.ConflictPolicy)
	scheduleSvc := service.NewScheduleService(lectureRepo, logr)
	dashboardSvc := service.NewDashboardService(teacherRepo, lectureRepo, scheduleSvc, cacheSvc, cfg.Dashboard.CacheTTL, logr)
	importSvc := service.NewImportService(teacherRepo, lectureSvc, cfg.Import.MaxReportedRows, logr)

	// Handlers.
	authHandler := handler.NewAuthHandler(authSvc)
	teacherHandler := handler.NewTeacherHandler(teacherSvc)
	lectureHandler := handler.NewLectureHandler(lectureSvc)
	scheduleHandler := handler.NewScheduleHandler(scheduleSvc)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc)
	importHandler := handler.NewImportHandler(importSvc, cfg.Import.MaxFileSizeBytes)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)

		authed := auth.Group("")
		authed.Use(middleware.JWT(authSvc))
		authed.POST("/logout", authHandler.Logout)
		authed.POST("/change-password", authHandler.ChangePassword)
		authed.GET("/me", authHandler.Me)
	}

	protected := api.Group("")
	protected.Use(middleware.JWT(authSvc))

	staffOrAdmin := middleware.RequireRoles(models.RoleAdmin, models.RoleStaff)
	adminOnly := middleware.RequireRoles(models.RoleAdmin)

	teachers := protected.Group("/teachers")
	{
		teachers.GET("", staffOrAdmin, teacherHandler.List)
		teachers.GET("/:id", staffOrAdmin, teacherHandler.Get)
		teachers.POST("", adminOnly, teacherHandler.Create)
		teachers.PUT("/:id", adminOnly, teacherHandler.Update)
		teachers.DELETE("/:id", adminOnly, teacherHandler.Delete)
	}

	lectures := protected.Group("/lectures")
	{
		lectures.GET("", staffOrAdmin, lectureHandler.List)
		lectures.GET("/:id", staffOrAdmin, lectureHandler.Get)
		lectures.POST("", adminOnly, lectureHandler.Create)
		lectures.PUT("/:id", adminOnly, lectureHandler.Update)
		lectures.DELETE("/:id", adminOnly, lectureHandler.Delete)
		lectures.PATCH("/:id/status", adminOnly, lectureHandler.SetStatus)
		lectures.POST("/bulk-status", adminOnly, lectureHandler.BulkStatus)
		lectures.POST("/bulk-delete", adminOnly, lectureHandler.BulkDelete)
		lectures.POST("/check-conflicts", staffOrAdmin, lectureHandler.CheckConflicts)
	}

	schedule := protected.Group("/schedule")
	{
		schedule.GET("/week", staffOrAdmin, scheduleHandler.Week)
		schedule.GET("/today", staffOrAdmin, scheduleHandler.Today)
		schedule.GET("/next", staffOrAdmin, scheduleHandler.Next)
		schedule.GET("/export/:format", staffOrAdmin, scheduleHandler.Export)
	}

	protected.GET("/dashboard/stats", staffOrAdmin, dashboardHandler.Stats)

	importGroup := protected.Group("/import")
	{
		importGroup.POST("/teachers", adminOnly, importHandler.Teachers)
		importGroup.POST("/lectures", adminOnly, importHandler.Lectures)
		importGroup.GET("/teachers/template", staffOrAdmin, importHandler.TeacherTemplate)
		importGroup.GET("/lectures/template", staffOrAdmin, importHandler.LectureTemplate)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting",
		"addr", addr,
		"env", cfg.Env,
		"conflict_policy", cfg.Schedule.ConflictPolicy)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
