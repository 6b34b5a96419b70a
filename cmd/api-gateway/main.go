package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/mentor-connect-api/api/swagger"
	"github.com/noah-isme/mentor-connect-api/internal/handler"
	"github.com/noah-isme/mentor-connect-api/internal/llm"
	"github.com/noah-isme/mentor-connect-api/internal/middleware"
	"github.com/noah-isme/mentor-connect-api/internal/models"
	"github.com/noah-isme/mentor-connect-api/internal/repository"
	"github.com/noah-isme/mentor-connect-api/internal/roster"
	"github.com/noah-isme/mentor-connect-api/internal/service"
	"github.com/noah-isme/mentor-connect-api/pkg/cache"
	"github.com/noah-isme/mentor-connect-api/pkg/config"
	"github.com/noah-isme/mentor-connect-api/pkg/database"
	"github.com/noah-isme/mentor-connect-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/mentor-connect-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/mentor-connect-api/pkg/middleware/requestid"
)

// @title Mentor Connect API
// @version 0.1.0
// @description Student mentoring platform with an AI counsellor
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	masterData, err := roster.Load(cfg.Roster.MentorFile, cfg.Roster.StudentFile)
	if err != nil {
		logr.Sugar().Fatalw("failed to load master datasets", "error", err)
	}
	logr.Sugar().Infow("master datasets loaded",
		"mentors", masterData.MentorCount(),
		"students", masterData.StudentCount())

	model, err := llm.New(cfg.LLM)
	if err != nil {
		logr.Sugar().Fatalw("failed to init llm client", "error", err)
	}

	metricsSvc := service.NewMetricsService()

	var cacheRepo service.CacheRepository
	if cfg.Cache.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, caching disabled", zap.Error(err))
		} else {
			defer redisClient.Close()
			cacheRepo = repository.NewCacheRepository(redisClient, logr)
		}
	}
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Cache.TTL, logr, cfg.Cache.Enabled)

	mentorRepo := repository.NewMentorRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	convRepo := repository.NewConversationRepository(db)

	authSvc := service.NewAuthService(mentorRepo, studentRepo, nil, logr, service.AuthConfig{
		Secret:        cfg.JWT.Secret,
		Expiry:        cfg.JWT.Expiration,
		Issuer:        "mentor-connect-api",
		AdminUsername: cfg.Admin.Username,
		AdminPassword: cfg.Admin.Password,
	})
	mentorSvc := service.NewMentorService(mentorRepo, studentRepo, masterData, cacheSvc, nil, logr)
	studentSvc := service.NewStudentService(studentRepo, mentorRepo, masterData, nil, logr)
	briefingSvc := service.NewBriefingService(studentRepo)
	chatSvc := service.NewChatService(convRepo, briefingSvc, model, metricsSvc, logr, service.ChatConfig{
		MaxTokens: cfg.LLM.MaxTokens,
		Timeout:   cfg.LLM.Timeout,
	})
	reportSvc := service.NewReportService(studentRepo)

	authHandler := handler.NewAuthHandler(authSvc)
	mentorHandler := handler.NewMentorHandler(mentorSvc)
	studentHandler := handler.NewStudentHandler(studentSvc)
	chatHandler := handler.NewChatHandler(chatSvc)
	reportHandler := handler.NewReportHandler(reportSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc, db)

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
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	api.POST("/auth/login", authHandler.Login)

	authed := api.Group("")
	authed.Use(middleware.JWT(authSvc))

	authed.GET("/auth/me", authHandler.Me)

	authed.POST("/mentors", middleware.RequireRoles(models.RoleAdmin), mentorHandler.Create)
	authed.GET("/mentors", middleware.RequireRoles(models.RoleAdmin), mentorHandler.List)
	authed.GET("/mentors/:mentorId", middleware.SelfOr("mentorId", models.RoleAdmin), mentorHandler.Get)
	authed.GET("/mentors/:mentorId/students", middleware.SelfOr("mentorId", models.RoleAdmin), mentorHandler.Students)

	authed.POST("/students", middleware.RequireRoles(models.RoleMentor), studentHandler.Create)
	authed.GET("/students/:studentId", middleware.SelfOr("studentId", models.RoleAdmin, models.RoleMentor), studentHandler.Get)
	authed.GET("/students/:studentId/report", middleware.RequireRoles(models.RoleAdmin, models.RoleMentor), reportHandler.Progress)

	authed.POST("/chat", middleware.RequireRoles(models.RoleStudent), chatHandler.Send)
	authed.GET("/chat/history", middleware.RequireRoles(models.RoleStudent), chatHandler.History)

	authed.GET("/system/metrics", middleware.RequireRoles(models.RoleAdmin), metricsHandler.System)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	srv := &http.Server{Addr: addr, Handler: r}
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
