package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/careledger/careledger/internal/config"
	"github.com/careledger/careledger/internal/handler/middleware"
	"github.com/careledger/careledger/internal/service"
	"github.com/careledger/careledger/pkg/metrics"
)

// Dependencies carries everything the router wires into handlers.
type Dependencies struct {
	Config  *config.Config
	Log     *zap.Logger
	Metrics *metrics.Collector

	AuthSvc        *service.AuthService
	UserSvc        *service.UserService
	PatientSvc     *service.PatientService
	AppointmentSvc *service.AppointmentService
	InsightSvc     *service.InsightService
	StatsSvc       *service.StatsService
	AuditSvc       *service.AuditService
}

// NewRouter assembles the full HTTP surface. Everything under /api/v1 except
// login sits behind the session gate; role policy is applied per route group.
func NewRouter(deps Dependencies) *gin.Engine {
	if deps.Config.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(deps.Log))
	r.Use(middleware.Metrics(deps.Metrics))
	r.Use(middleware.CORS(deps.Config.CORS))
	r.Use(middleware.RateLimit(deps.Config.RateLimit))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": deps.Config.App.Name,
			"version": deps.Config.App.Version,
		})
	})
	r.GET("/metrics", gin.WrapH(metrics.MetricsHandler()))

	authHandler := NewAuthHandler(deps.AuthSvc)
	userHandler := NewUserHandler(deps.UserSvc)
	patientHandler := NewPatientHandler(deps.PatientSvc)
	apptHandler := NewAppointmentHandler(deps.AppointmentSvc)
	insightHandler := NewInsightHandler(deps.InsightSvc)
	statsHandler := NewStatsHandler(deps.StatsSvc)
	auditHandler := NewAuditHandler(deps.AuditSvc)

	api := r.Group("/api/v1")

	api.POST("/auth/login", middleware.AuthRateLimit(deps.Config.RateLimit), authHandler.Login)

	authed := api.Group("", middleware.Auth(deps.AuthSvc))
	{
		authed.POST("/auth/logout", authHandler.Logout)
		authed.GET("/auth/me", authHandler.Me)
	}

	patients := authed.Group("/patients", middleware.Require(middleware.OpReadPatients))
	{
		patients.GET("", patientHandler.List)
		patients.GET("/search", patientHandler.Search)
		patients.GET("/:id", patientHandler.Get)
		patients.GET("/:id/history", patientHandler.History)
		patients.GET("/:id/predictions", insightHandler.Predictions)
		patients.GET("/:id/images", insightHandler.Images)
	}

	clinical := authed.Group("/patients", middleware.Require(middleware.OpManagePatients))
	{
		clinical.POST("", patientHandler.Create)
		clinical.PUT("/:id", patientHandler.Update)
		clinical.POST("/:id/vitals", patientHandler.RecordVitals)
	}

	// Deleting a record destroys its whole history trail, so only admins may.
	authed.DELETE("/patients/:id", middleware.Require(middleware.OpDeletePatients), patientHandler.Delete)

	appointments := authed.Group("/appointments", middleware.Require(middleware.OpAppointments))
	{
		appointments.GET("", apptHandler.List)
		appointments.GET("/:id", apptHandler.Get)
	}
	apptManage := authed.Group("/appointments", middleware.Require(middleware.OpManagePatients))
	{
		apptManage.POST("", apptHandler.Create)
		apptManage.PUT("/:id", apptHandler.Update)
		apptManage.DELETE("/:id", apptHandler.Delete)
	}

	analysis := authed.Group("", middleware.Require(middleware.OpRunAnalysis))
	{
		analysis.POST("/predictions", insightHandler.Predict)
		analysis.POST("/images/analyze", insightHandler.AnalyzeImage)
	}

	stats := authed.Group("", middleware.Require(middleware.OpViewStats))
	{
		stats.GET("/stats", statsHandler.Stats)
	}
	export := authed.Group("", middleware.Require(middleware.OpExportData))
	{
		export.GET("/patients/export", statsHandler.ExportCSV)
	}

	admin := authed.Group("", middleware.Require(middleware.OpManageUsers))
	{
		admin.POST("/users", userHandler.Create)
		admin.GET("/users", userHandler.List)
		admin.DELETE("/users/:id", userHandler.Delete)
	}

	audit := authed.Group("", middleware.Require(middleware.OpViewAudit))
	{
		audit.GET("/audit", auditHandler.List)
	}

	return r
}
