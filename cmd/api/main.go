package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/classpulse/classpulse-api/api/swagger"
	"github.com/classpulse/classpulse-api/internal/handler"
	"github.com/classpulse/classpulse-api/internal/middleware"
	"github.com/classpulse/classpulse-api/internal/models"
	"github.com/classpulse/classpulse-api/internal/repository"
	"github.com/classpulse/classpulse-api/internal/service"
	"github.com/classpulse/classpulse-api/pkg/cache"
	"github.com/classpulse/classpulse-api/pkg/config"
	"github.com/classpulse/classpulse-api/pkg/database"
	"github.com/classpulse/classpulse-api/pkg/logger"
	corsmiddleware "github.com/classpulse/classpulse-api/pkg/middleware/cors"
	reqidmiddleware "github.com/classpulse/classpulse-api/pkg/middleware/requestid"
	"github.com/classpulse/classpulse-api/pkg/storage"
)

// @title ClassPulse API
// @version 1.0.0
// @description Class scheduling, cancellation notifications and attendance tracking
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
		logr.Sugar().Fatalw("database connection failed", "error", err)
	}
	defer db.Close()

	var cacheRepo *repository.CacheRepository
	if redisClient, err := cache.NewRedis(cfg.Redis); err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
	} else {
		cacheRepo = repository.NewCacheRepository(redisClient, logr)
		defer cacheRepo.Close() //nolint:errcheck
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	userRepo := repository.NewUserRepository(db)
	classRepo := repository.NewClassRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	cancellationRepo := repository.NewCancellationRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	reportRepo := repository.NewReportRepository(db)

	metrics := service.NewMetricsService()
	var cacheSvc *service.CacheService
	if cacheRepo != nil {
		cacheSvc = service.NewCacheService(cacheRepo, metrics, logr)
	}

	authSvc := service.NewAuthService(userRepo, cfg.JWT, nil, logr)
	userSvc := service.NewUserService(userRepo, logr)
	classSvc := service.NewClassService(classRepo, nil, logr)
	enrollmentSvc := service.NewEnrollmentService(enrollmentRepo, classRepo, nil, logr)
	notificationSvc := service.NewNotificationService(notificationRepo, enrollmentRepo, metrics, logr)
	cancellationSvc := service.NewCancellationService(cancellationRepo, classRepo, notificationSvc, cacheSvc, nil, logr)
	attendanceSvc := service.NewAttendanceService(attendanceRepo, cfg.Attendance.LowRateThreshold, nil, logr)
	dashboardSvc := service.NewDashboardService(classRepo, enrollmentRepo, cancellationRepo, cacheSvc, cfg.Dashboard, logr)

	var reportSvc *service.ReportService
	if cfg.Reports.Enabled {
		store, err := storage.NewLocalStorage(cfg.Reports.StorageDir)
		if err != nil {
			logr.Sugar().Fatalw("report storage init failed", "error", err)
		}
		signer := storage.NewSignedURLSigner(cfg.Reports.SignedURLSecret, cfg.Reports.SignedURLTTL)
		reportSvc = service.NewReportService(reportRepo, attendanceRepo, classRepo, service.NewExportService(), store, signer, metrics, cfg.Reports, nil, logr)
		reportSvc.Start(ctx)
		defer reportSvc.Stop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	healthHandler := handler.NewHealthHandler(db)
	r.GET("/health", healthHandler.Health)
	r.GET("/ready", healthHandler.Ready)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.Registry(), promhttp.HandlerOpts{})))
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	authHandler := handler.NewAuthHandler(authSvc)
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	authed := api.Group("")
	authed.Use(middleware.JWT(authSvc))

	userHandler := handler.NewUserHandler(userSvc)
	authed.GET("/users/:id", middleware.RequireSelfParam("id"), userHandler.Get)

	classHandler := handler.NewClassHandler(classSvc)
	authed.POST("/classes", middleware.RequireRoles(models.RoleTeacher), classHandler.Create)
	authed.GET("/classes/:id", classHandler.Get)
	authed.PATCH("/classes/:id", middleware.RequireRoles(models.RoleTeacher), classHandler.Update)
	authed.GET("/classes/teacher/:teacherId", classHandler.ListByTeacher)
	authed.GET("/classes/student/:studentId", classHandler.ListByStudent)

	enrollmentHandler := handler.NewEnrollmentHandler(enrollmentSvc)
	authed.POST("/enrollments", enrollmentHandler.Enroll)
	authed.GET("/enrollments/class/:classId", enrollmentHandler.ListByClass)
	authed.GET("/enrollments/student/:studentId", enrollmentHandler.ListByStudent)

	cancellationHandler := handler.NewCancellationHandler(cancellationSvc)
	authed.POST("/cancellations", middleware.RequireRoles(models.RoleTeacher), cancellationHandler.Cancel)
	authed.GET("/cancellations/teacher/:teacherId", cancellationHandler.ListByTeacher)
	authed.GET("/cancellations/class/:classId", cancellationHandler.ListByClass)

	notificationHandler := handler.NewNotificationHandler(notificationSvc)
	authed.GET("/notifications/user/:userId", middleware.RequireSelfParam("userId"), notificationHandler.ListByUser)
	authed.PATCH("/notifications/:id/read", notificationHandler.MarkRead)

	attendanceHandler := handler.NewAttendanceHandler(attendanceSvc)
	authed.POST("/attendance", middleware.RequireRoles(models.RoleTeacher), attendanceHandler.Mark)
	authed.GET("/attendance/class/:classId/date/:date", middleware.RequireRoles(models.RoleTeacher), attendanceHandler.ListByClassAndDate)
	authed.GET("/attendance/student/:studentId", middleware.RequireSelfParam("studentId"), attendanceHandler.ListByStudent)
	authed.GET("/attendance/student/:studentId/summary", middleware.RequireSelfParam("studentId"), attendanceHandler.Summary)
	authed.PATCH("/attendance/:id", middleware.RequireRoles(models.RoleTeacher), attendanceHandler.Update)

	dashboardHandler := handler.NewDashboardHandler(dashboardSvc)
	authed.GET("/stats/teacher/:teacherId", middleware.RequireRoles(models.RoleTeacher), dashboardHandler.TeacherStats)

	if reportSvc != nil {
		reportHandler := handler.NewReportHandler(reportSvc)
		authed.POST("/reports", middleware.RequireRoles(models.RoleTeacher), reportHandler.Create)
		authed.GET("/reports/:id", middleware.RequireRoles(models.RoleTeacher), reportHandler.Status)
		api.GET("/reports/download", reportHandler.Download)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
