// Package v1 wires the HTTP surface of the platform.
package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"milltrack/internal/domain/auth"
	"milltrack/internal/infrastructure/http/v1/handlers"
	"milltrack/internal/infrastructure/http/v1/middleware"
	"milltrack/pkg/logger"
)

// RouterConfig bundles everything the router needs.
type RouterConfig struct {
	Logger     *logger.Logger
	JWTService *auth.JWTService

	AuthHandler        *handlers.AuthHandler
	UserHandler        *handlers.UserHandler
	PartyHandler       *handlers.PartyHandler
	MeasurementHandler *handlers.MeasurementHandler
	ProductionHandler  *handlers.ProductionHandler
	QCHandler          *handlers.QCHandler
	DispatchHandler    *handlers.DispatchHandler
	LogisticsHandler   *handlers.LogisticsHandler
}

// NewRouter builds the gin engine with all v1 routes.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(
		middleware.Recovery(),
		middleware.Trace(),
		middleware.RequestLogger(cfg.Logger),
		middleware.ErrorHandler(),
	)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")

	// Public
	api.POST("/auth/login", cfg.AuthHandler.Login)

	// Authenticated
	authed := api.Group("")
	authed.Use(middleware.Auth(cfg.JWTService))

	authed.GET("/auth/me", cfg.AuthHandler.Me)
	authed.POST("/auth/serial",
		middleware.RequireRole(auth.RoleMeasurementCaptain, auth.RoleProductionManager),
		cfg.AuthHandler.NextSerial)

	// User administration (admin only; RequireRole always admits admin)
	users := authed.Group("/users", middleware.RequireRole())
	{
		users.POST("", cfg.UserHandler.Create)
		users.GET("", cfg.UserHandler.List)
		users.GET("/:id", cfg.UserHandler.Get)
		users.PATCH("/:id/active", cfg.UserHandler.SetActive)
		users.PUT("/:id/serial-prefix", cfg.UserHandler.AssignSerialPrefix)
	}

	parties := authed.Group("/parties")
	{
		parties.POST("", cfg.PartyHandler.Create)
		parties.GET("", cfg.PartyHandler.List)
		parties.GET("/:id", cfg.PartyHandler.Get)
		parties.PUT("/:id", cfg.PartyHandler.Update)
		parties.DELETE("/:id", middleware.RequireRole(), cfg.PartyHandler.Delete)
	}

	measurements := authed.Group("/measurements",
		middleware.RequireRole(auth.RoleMeasurementCaptain, auth.RoleProductionManager))
	{
		measurements.POST("", cfg.MeasurementHandler.Create)
		measurements.GET("", cfg.MeasurementHandler.List)
		measurements.GET("/:id", cfg.MeasurementHandler.Get)
		measurements.PUT("/:id", cfg.MeasurementHandler.Update)
		measurements.DELETE("/:id", cfg.MeasurementHandler.Delete)
	}

	papers := authed.Group("/papers",
		middleware.RequireRole(auth.RoleProductionManager))
	{
		papers.POST("", cfg.ProductionHandler.CreatePaper)
		papers.GET("", cfg.ProductionHandler.ListPapers)
		papers.GET("/dashboard", cfg.ProductionHandler.Dashboard)
		papers.GET("/:id", cfg.ProductionHandler.GetPaper)
		papers.PATCH("/:id", cfg.ProductionHandler.UpdatePaper)
		papers.PATCH("/:id/status", cfg.ProductionHandler.UpdatePaperStatus)
		papers.DELETE("/:id", cfg.ProductionHandler.DeletePaper)
	}

	schedules := authed.Group("/schedules",
		middleware.RequireRole(auth.RoleProductionManager))
	{
		schedules.POST("", cfg.ProductionHandler.SchedulePaper)
		schedules.GET("/pending", cfg.ProductionHandler.PendingForScheduling)
		schedules.GET("/department/:name", cfg.ProductionHandler.DepartmentSchedule)
		schedules.PATCH("/:id/status", cfg.ProductionHandler.UpdateScheduleStatus)
	}

	qcGroup := authed.Group("/qc",
		middleware.RequireRole(auth.RoleQCSupervisor))
	{
		qcGroup.POST("/checks", cfg.QCHandler.CreateCheck)
		qcGroup.GET("/checks", cfg.QCHandler.ListChecks)
		qcGroup.GET("/checks/:id", cfg.QCHandler.GetCheck)
		qcGroup.POST("/checks/:id/certificate", cfg.QCHandler.IssueCertificate)
		qcGroup.GET("/reworks", cfg.QCHandler.ListReworks)
		qcGroup.POST("/reworks/:id/complete", cfg.QCHandler.CompleteRework)
	}

	dispatches := authed.Group("/dispatches",
		middleware.RequireRole(auth.RoleDispatchExecutive))
	{
		dispatches.POST("", cfg.DispatchHandler.Create)
		dispatches.GET("", cfg.DispatchHandler.List)
		dispatches.GET("/:id", cfg.DispatchHandler.Get)
		dispatches.PATCH("/:id/status", cfg.DispatchHandler.UpdateStatus)
		dispatches.POST("/:id/gate-pass", cfg.DispatchHandler.IssueGatePass)
	}
	authed.POST("/gate-passes/:id/verify",
		middleware.RequireRole(auth.RoleDispatchExecutive),
		cfg.DispatchHandler.VerifyGatePass)

	logisticsGroup := authed.Group("",
		middleware.RequireRole(auth.RoleLogisticsManager))
	{
		logisticsGroup.POST("/vehicles", cfg.LogisticsHandler.CreateVehicle)
		logisticsGroup.GET("/vehicles", cfg.LogisticsHandler.ListVehicles)
		logisticsGroup.PUT("/vehicles/:id", cfg.LogisticsHandler.UpdateVehicle)
		logisticsGroup.POST("/drivers", cfg.LogisticsHandler.CreateDriver)
		logisticsGroup.GET("/drivers", cfg.LogisticsHandler.ListDrivers)
		logisticsGroup.PUT("/drivers/:id", cfg.LogisticsHandler.UpdateDriver)
		logisticsGroup.POST("/deliveries", cfg.LogisticsHandler.Assign)
		logisticsGroup.GET("/deliveries", cfg.LogisticsHandler.ListAssignments)
		logisticsGroup.GET("/deliveries/live", cfg.LogisticsHandler.LiveDeliveries)
		logisticsGroup.PATCH("/deliveries/:id/status", cfg.LogisticsHandler.UpdateAssignmentStatus)
	}

	return router
}
