package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	httpmw "github.com/callguardhq/callguard/internal/infrastructure/http/middleware"
	"github.com/callguardhq/callguard/pkg/config"
	"github.com/callguardhq/callguard/pkg/jwt"
)

// Router holds all handlers
type Router struct {
	cfg            *config.Config
	jwtManager     *jwt.Manager
	callHandler    *CallHandler
	issueHandler   *IssueHandler
	reportHandler  *ReportHandler
	webhookHandler *TranscriptionWebhookHandler
	pipelineCtrl   *PipelineController
	storageHandler *StorageHandler
}

// NewRouter creates a new router with all handlers
func NewRouter(
	cfg *config.Config,
	jwtManager *jwt.Manager,
	callHandler *CallHandler,
	issueHandler *IssueHandler,
	reportHandler *ReportHandler,
	webhookHandler *TranscriptionWebhookHandler,
	pipelineCtrl *PipelineController,
	storageHandler *StorageHandler,
) *Router {
	return &Router{
		cfg:            cfg,
		jwtManager:     jwtManager,
		callHandler:    callHandler,
		issueHandler:   issueHandler,
		reportHandler:  reportHandler,
		webhookHandler: webhookHandler,
		pipelineCtrl:   pipelineCtrl,
		storageHandler: storageHandler,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", rt.healthCheck)

	// API v1 group
	v1 := e.Group("/v1")

	rt.setupCallRoutes(v1)
	rt.setupIssueRoutes(v1)
	rt.setupWebhookRoutes(v1)
	rt.setupStorageRoutes(v1)
}

// setupCallRoutes configures call lifecycle and analysis routes
func (rt *Router) setupCallRoutes(g *echo.Group) {
	calls := g.Group("/calls")

	auth := rt.requireAuth()

	// Reads
	calls.GET("", rt.callHandler.ListCalls)
	calls.GET("/:id", rt.callHandler.GetCall)
	calls.GET("/:id/analysis", rt.callHandler.GetAnalysis)
	calls.GET("/:id/issues", rt.issueHandler.ListCallIssues)
	calls.GET("/:id/report.pdf", rt.reportHandler.DownloadPDF)

	// Mutations require a bearer token; deletion is admin-only
	calls.POST("", rt.callHandler.CreateCall, auth)
	calls.DELETE("/:id", rt.callHandler.DeleteCall, auth, httpmw.RequireRole(jwt.RoleAdmin))
	calls.POST("/:id/transcript", rt.callHandler.AttachTranscript, auth)
	calls.POST("/:id/analyze", rt.callHandler.AnalyzeCall, auth)
	calls.POST("/:id/recording", rt.callHandler.UploadRecording, auth)
	calls.POST("/:id/process", rt.pipelineCtrl.ProcessCall, auth)
}

// setupIssueRoutes configures the cross-call issue feed
func (rt *Router) setupIssueRoutes(g *echo.Group) {
	g.GET("/issues", rt.issueHandler.ListIssues)
}

// setupWebhookRoutes configures provider webhook routes. These are
// authenticated by HMAC signature, not JWT.
func (rt *Router) setupWebhookRoutes(g *echo.Group) {
	webhooks := g.Group("/webhooks")
	webhooks.POST("/assemblyai", rt.webhookHandler.HandleAssemblyAIWebhook)
}

// setupStorageRoutes configures operator storage diagnostics
func (rt *Router) setupStorageRoutes(g *echo.Group) {
	if rt.storageHandler == nil {
		return
	}
	store := g.Group("/storage", rt.requireAuth())
	store.GET("/info", rt.storageHandler.BucketInfo)
	store.GET("/recordings", rt.storageHandler.ListRecordings)
	store.GET("/download-url", rt.storageHandler.RecordingURL)
}

func (rt *Router) requireAuth() echo.MiddlewareFunc {
	return httpmw.EchoAuth(rt.jwtManager)
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"environment": rt.cfg.Server.Environment,
	})
}
