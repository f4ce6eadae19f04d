package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/vacuno/ganado-api/api/swagger"
	"github.com/vacuno/ganado-api/internal/middleware"
	"github.com/vacuno/ganado-api/internal/models"
	"github.com/vacuno/ganado-api/internal/service"
	"github.com/vacuno/ganado-api/pkg/config"
	"github.com/vacuno/ganado-api/pkg/logger"
	"github.com/vacuno/ganado-api/pkg/middleware/cors"
	"github.com/vacuno/ganado-api/pkg/middleware/requestid"
)

// RouterDeps bundles everything the HTTP surface needs.
type RouterDeps struct {
	Config  *config.Config
	Logger  *zap.Logger
	Metrics *service.Metrics

	Auth    *service.AuthService
	Users   *service.UserService
	Cattle  *service.CattleService
	Health  *service.HealthRecordService
	Weights *service.WeightRecordService
	Reports *service.ReportService
	Exports *service.ExportService
	Stats   *service.StatsService
}

// NewRouter wires middlewares and routes into a gin engine.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.Middleware())
	router.Use(logger.GinMiddleware(deps.Logger))
	router.Use(cors.New(deps.Config.CORS.AllowedOrigins))
	router.Use(middleware.Metrics(deps.Metrics))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if deps.Config.Env != config.EnvProduction {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	authHandler := NewAuthHandler(deps.Auth)
	userHandler := NewUserHandler(deps.Users)
	cattleHandler := NewCattleHandler(deps.Cattle)
	healthHandler := NewHealthRecordHandler(deps.Health)
	weightHandler := NewWeightRecordHandler(deps.Weights)
	reportHandler := NewReportHandler(deps.Reports, deps.Exports)
	statsHandler := NewStatsHandler(deps.Stats)

	api := router.Group(deps.Config.APIPrefix)

	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.GET("/me", middleware.JWT(deps.Auth), authHandler.Me)
	}

	// Unauthenticated by design: access control lives in the signed token.
	api.GET("/downloads/:token", reportHandler.Download)

	secured := api.Group("")
	secured.Use(middleware.JWT(deps.Auth))

	users := secured.Group("/users")
	{
		users.GET("", middleware.RequireAdmin(), userHandler.List)
		users.GET("/:id", middleware.RequireRoles(string(models.RoleAdmin), middleware.RoleSelf), userHandler.Get)
		users.DELETE("/:id", middleware.RequireAdmin(), userHandler.Deactivate)
	}

	cattle := secured.Group("/cattle")
	{
		cattle.GET("", cattleHandler.List)
		cattle.POST("", cattleHandler.Create)
		cattle.GET("/:id", cattleHandler.Get)
		cattle.PATCH("/:id", cattleHandler.Update)
		cattle.PATCH("/:id/weight", cattleHandler.UpdateWeight)
		cattle.PATCH("/:id/status", cattleHandler.UpdateStatus)
		cattle.DELETE("/:id", middleware.RequireAdmin(), cattleHandler.Delete)

		cattle.GET("/:id/health-records", healthHandler.ListByCattle)
		cattle.POST("/:id/health-records", healthHandler.Create)
		cattle.GET("/:id/weight-records", weightHandler.History)
		cattle.POST("/:id/weight-records", weightHandler.Create)
	}

	healthRecords := secured.Group("/health-records")
	{
		healthRecords.GET("/:id", healthHandler.Get)
		healthRecords.PATCH("/:id", healthHandler.Update)
		healthRecords.PATCH("/:id/medication", healthHandler.AssignMedication)
		healthRecords.PATCH("/:id/professional", healthHandler.AssignProfessional)
	}

	weightRecords := secured.Group("/weight-records")
	{
		weightRecords.PATCH("/:id", weightHandler.Update)
	}

	reports := secured.Group("/reports")
	{
		reports.POST("", reportHandler.Create)
		reports.GET("", reportHandler.List)
		reports.GET("/:id", reportHandler.Get)
		reports.PATCH("/:id/params", reportHandler.MergeParams)
		reports.GET("/:id/download", reportHandler.ResolveDownload)
	}

	secured.GET("/stats/herd", statsHandler.HerdSummary)

	return router
}
