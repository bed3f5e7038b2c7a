package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/ecole-admin-api/api/swagger"
	"github.com/noah-isme/ecole-admin-api/internal/handler"
	appMiddleware "github.com/noah-isme/ecole-admin-api/internal/middleware"
	"github.com/noah-isme/ecole-admin-api/internal/repository"
	"github.com/noah-isme/ecole-admin-api/internal/service"
	"github.com/noah-isme/ecole-admin-api/pkg/cache"
	"github.com/noah-isme/ecole-admin-api/pkg/config"
	"github.com/noah-isme/ecole-admin-api/pkg/database"
	"github.com/noah-isme/ecole-admin-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/ecole-admin-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/ecole-admin-api/pkg/middleware/requestid"
)

// @title École Admin API
// @version 1.0.0
// @description Backend for the school administration console
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	metrics := service.NewMetricsService()

	var cacheSvc *service.CacheService
	if cfg.Cache.Enabled {
		client, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, caching disabled", zap.Error(err))
		} else {
			cacheRepo := repository.NewCacheRepository(client, logr)
			defer cacheRepo.Close()
			cacheSvc = service.NewCacheService(cacheRepo, metrics, cfg.Cache.ReportTTL, logr, true)
		}
	}
	if cacheSvc == nil {
		cacheSvc = service.NewCacheService(nil, metrics, 0, logr, false)
	}

	studentRepo := repository.NewStudentRepository(db)
	absenceRepo := repository.NewAbsenceRepository(db)
	gradeRepo := repository.NewGradeRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	userRepo := repository.NewUserRepository(db)

	validate := validator.New()
	periods := service.NewPeriodService()

	studentSvc := service.NewStudentService(studentRepo, validate, logr)
	absenceSvc := service.NewAbsenceService(absenceRepo, studentRepo, validate, logr)
	gradeSvc := service.NewGradeService(gradeRepo, studentRepo, scheduleRepo, validate, logr)
	paymentSvc := service.NewPaymentService(paymentRepo, validate, logr)
	scheduleSvc := service.NewScheduleService(scheduleRepo, validate, logr)
	attendanceSvc := service.NewAttendanceService(absenceRepo, studentRepo, periods, cacheSvc, metrics, logr)
	financeSvc := service.NewFinanceService(paymentRepo, studentRepo, cacheSvc, metrics, logr)
	exportSvc := service.NewExportService(attendanceSvc, financeSvc, nil, nil, logr)
	dashboardSvc := service.NewDashboardService(studentRepo, attendanceSvc, financeSvc, gradeSvc, periods, cacheSvc, cfg.Cache.DashboardTTL, logr)
	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	if cfg.Seed.Enabled {
		seedSvc := service.NewSeedService(studentRepo, absenceRepo, gradeRepo, paymentRepo, scheduleRepo, logr)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := seedSvc.Run(ctx); err != nil {
			logr.Warn("seeding demo data failed", zap.Error(err))
		}
		cancel()
	}

	authHandler := handler.NewAuthHandler(authSvc)
	studentHandler := handler.NewStudentHandler(studentSvc, dashboardSvc)
	absenceHandler := handler.NewAbsenceHandler(absenceSvc, dashboardSvc)
	gradeHandler := handler.NewGradeHandler(gradeSvc, dashboardSvc)
	paymentHandler := handler.NewPaymentHandler(paymentSvc, dashboardSvc)
	scheduleHandler := handler.NewScheduleHandler(scheduleSvc, dashboardSvc)
	reportHandler := handler.NewReportHandler(attendanceSvc, financeSvc, exportSvc, periods)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc)
	metricsHandler := handler.NewMetricsHandler(metrics)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(appMiddleware.Metrics(metrics))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
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
	auth.GET("/status", authHandler.Status)
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	protected := api.Group("")
	protected.Use(appMiddleware.JWT(authSvc))
	protected.GET("/auth/me", authHandler.Me)

	protected.GET("/students", studentHandler.List)
	protected.POST("/students", studentHandler.Create)
	protected.GET("/students/:id", studentHandler.Get)
	protected.PUT("/students/:id", studentHandler.Update)
	protected.POST("/students/:id/archive", studentHandler.Archive)
	protected.DELETE("/students/:id", studentHandler.Delete)

	protected.GET("/absences", absenceHandler.List)
	protected.POST("/absences", absenceHandler.Create)
	protected.PUT("/absences/:id", absenceHandler.Update)
	protected.DELETE("/absences/:id", absenceHandler.Delete)

	protected.GET("/grades", gradeHandler.List)
	protected.GET("/grades/grouped", gradeHandler.Grouped)
	protected.GET("/grades/classes", gradeHandler.Classes)
	protected.POST("/grades", gradeHandler.Create)
	protected.PUT("/grades/:id", gradeHandler.Update)
	protected.DELETE("/grades/:id", gradeHandler.Delete)

	protected.GET("/payments", paymentHandler.List)
	protected.POST("/payments", paymentHandler.Create)
	protected.PUT("/payments/:id", paymentHandler.Update)
	protected.DELETE("/payments/:id", paymentHandler.Delete)

	protected.GET("/schedule", scheduleHandler.List)
	protected.GET("/schedule/classes", scheduleHandler.Classes)
	protected.GET("/schedule/slots", scheduleHandler.Slots)
	protected.GET("/schedule/grid", scheduleHandler.Grid)
	protected.POST("/schedule", scheduleHandler.Create)
	protected.PUT("/schedule/:id", scheduleHandler.Update)
	protected.DELETE("/schedule/:id", scheduleHandler.Delete)

	protected.GET("/reports/attendance", reportHandler.Attendance)
	protected.GET("/reports/attendance/export", reportHandler.AttendanceExport)
	protected.GET("/reports/finance", reportHandler.Finance)
	protected.GET("/reports/finance/export", reportHandler.FinanceExport)

	protected.GET("/dashboard", dashboardHandler.Summary)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
