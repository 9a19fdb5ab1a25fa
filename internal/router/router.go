package router

import (
	"github.com/Jacksonnavigator/School-Fee-Payment-Update/internal/archive"
	"github.com/Jacksonnavigator/School-Fee-Payment-Update/internal/config"
	"github.com/Jacksonnavigator/School-Fee-Payment-Update/internal/export"
	"github.com/Jacksonnavigator/School-Fee-Payment-Update/internal/handler"
	"github.com/Jacksonnavigator/School-Fee-Payment-Update/internal/middleware"
	"github.com/Jacksonnavigator/School-Fee-Payment-Update/internal/session"
	"github.com/Jacksonnavigator/School-Fee-Payment-Update/internal/store"
	"github.com/Jacksonnavigator/School-Fee-Payment-Update/internal/workflow"

	"github.com/gin-gonic/gin"
)

// Deps are the services the API fronts, constructed once at startup and
// passed by handle (no ambient globals).
type Deps struct {
	Store    *store.Store
	Session  *session.Machine
	Workflow *workflow.Processor
	Archiver *archive.Archiver
	Exporter *export.Exporter
}

// Setup configures the gin engine and the API routes.
func Setup(cfg *config.Config, deps Deps) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	api := r.Group("/api")

	// login, first-run registration and recovery do not require a session
	authHandler := handler.NewAuthHandler(deps.Store, deps.Session, cfg.JWT.Secret, cfg.JWT.ExpireHours)
	api.GET("/auth/state", authHandler.State)
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.GET("/auth/question", authHandler.SecurityQuestion)
	api.POST("/auth/recover", authHandler.ResetPassword)

	protected := api.Group("")
	protected.Use(middleware.Auth(cfg.JWT.Secret, deps.Store))

	protected.POST("/auth/logout", authHandler.Logout)

	studentHandler := handler.NewStudentHandler(deps.Store, cfg.FeeStructure)
	protected.POST("/students", studentHandler.Add)
	protected.GET("/students", studentHandler.List)
	protected.GET("/students/:id", studentHandler.Get)
	protected.GET("/students/:id/payments", studentHandler.History)

	paymentHandler := handler.NewPaymentHandler(deps.Workflow)
	protected.POST("/payments", paymentHandler.Create)

	backupHandler := handler.NewBackupHandler(deps.Archiver)
	protected.POST("/backups", backupHandler.Create)

	exportHandler := handler.NewExportHandler(deps.Exporter)
	protected.GET("/export/csv", exportHandler.CSV)
	protected.GET("/export/xlsx", exportHandler.XLSX)

	return r
}
