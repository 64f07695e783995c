// Package api exposes the platform over HTTP with gin.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Harshavardhan123-cloud/agentic-ai-platform/internal/auth"
	"github.com/Harshavardhan123-cloud/agentic-ai-platform/internal/codegen"
	"github.com/Harshavardhan123-cloud/agentic-ai-platform/internal/complexity"
	"github.com/Harshavardhan123-cloud/agentic-ai-platform/internal/dashboard"
	"github.com/Harshavardhan123-cloud/agentic-ai-platform/internal/explain"
	"github.com/Harshavardhan123-cloud/agentic-ai-platform/internal/payment"
	"github.com/Harshavardhan123-cloud/agentic-ai-platform/internal/platform"
	"github.com/Harshavardhan123-cloud/agentic-ai-platform/internal/store"
	"github.com/Harshavardhan123-cloud/agentic-ai-platform/internal/viz"
	"github.com/Harshavardhan123-cloud/agentic-ai-platform/internal/ws"
)

const serviceVersion = "2.0.0"

// Server wires every subsystem behind the HTTP routes.
type Server struct {
	logger *slog.Logger

	platform   *platform.Platform
	generator  *codegen.Generator
	analyzer   *complexity.Analyzer
	visualizer *viz.Generator
	textAgent  *explain.TextAgent
	audioAgent *explain.AudioAgent
	dashboard  *dashboard.Dashboard
	hub        *ws.Hub
	auth       *auth.Manager
	store      *store.Store
	payments   *payment.Client

	allowedOrigins []string
	audioDir       string
	requestTimeout time.Duration
}

// Options carries the subsystem handles for NewServer.
type Options struct {
	Logger         *slog.Logger
	Platform       *platform.Platform
	Generator      *codegen.Generator
	Analyzer       *complexity.Analyzer
	Visualizer     *viz.Generator
	TextAgent      *explain.TextAgent
	AudioAgent     *explain.AudioAgent
	Dashboard      *dashboard.Dashboard
	Hub            *ws.Hub
	Auth           *auth.Manager
	Store          *store.Store
	Payments       *payment.Client
	AllowedOrigins []string
	AudioDir       string

	// RequestTimeout bounds LLM-backed requests; zero disables the bound.
	RequestTimeout time.Duration
}

func NewServer(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		logger:         logger,
		platform:       opts.Platform,
		generator:      opts.Generator,
		analyzer:       opts.Analyzer,
		visualizer:     opts.Visualizer,
		textAgent:      opts.TextAgent,
		audioAgent:     opts.AudioAgent,
		dashboard:      opts.Dashboard,
		hub:            opts.Hub,
		auth:           opts.Auth,
		store:          opts.Store,
		payments:       opts.Payments,
		allowedOrigins: opts.AllowedOrigins,
		audioDir:       opts.AudioDir,
		requestTimeout: opts.RequestTimeout,
	}
}

// llmContext derives the context for LLM-backed work from the request.
func (s *Server) llmContext(c *gin.Context) (context.Context, context.CancelFunc) {
	if s.requestTimeout <= 0 {
		return c.Request.Context(), func() {}
	}
	return context.WithTimeout(c.Request.Context(), s.requestTimeout)
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), s.requestLogger())

	corsConfig := cors.DefaultConfig()
	if len(s.allowedOrigins) == 0 || (len(s.allowedOrigins) == 1 && s.allowedOrigins[0] == "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = s.allowedOrigins
	}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	router.Use(cors.New(corsConfig))

	router.GET("/api/health", s.handleHealth)
	router.GET("/ws", func(c *gin.Context) { s.hub.Serve(c.Writer, c.Request) })
	if s.audioDir != "" {
		router.Static("/audio_cache", s.audioDir)
	}

	authGroup := router.Group("/api/auth")
	{
		authGroup.POST("/login", s.handleLogin)
		authGroup.POST("/refresh", s.handleRefresh)
		authGroup.GET("/protected", s.auth.Middleware(), s.handleProtected)
	}

	protected := router.Group("/api", s.auth.Middleware())
	{
		protected.POST("/generate-code", s.handleGenerateCode)
		protected.POST("/analyze-complexity", s.handleAnalyzeComplexity)
		protected.POST("/suggest-optimization", s.handleSuggestOptimization)
		protected.POST("/explain", s.handleExplain)
		protected.POST("/explain-audio", s.handleExplainAudio)
	}

	router.POST("/api/visualize", s.handleVisualize)
	router.GET("/api/platform/stats", s.handlePlatformStats)
	router.GET("/api/gateway/stats", s.handleGatewayStats)
	router.GET("/api/guardrails/stats", s.handleGuardrailsStats)

	conversations := router.Group("/api/conversations")
	{
		conversations.POST("", s.handleCreateConversation)
		conversations.GET("/:id", s.handleGetConversation)
		conversations.POST("/:id/translate", s.handleTranslateConversation)
	}

	dash := router.Group("/api/dashboard")
	{
		dash.GET("", s.handleDashboard)
		dash.GET("/agents", s.handleDashboardAgents)
		dash.GET("/agents/:name", s.handleDashboardAgent)
		dash.GET("/system", s.handleDashboardSystem)
		dash.GET("/activity", s.handleDashboardActivity)
	}

	pay := router.Group("/api/payment")
	{
		pay.GET("/plans", s.handlePlans)
		pay.POST("/create-guest-order", s.handleCreateGuestOrder)
		pay.POST("/register-with-payment", s.handleRegisterWithPayment)
		pay.POST("/create-order", s.auth.Middleware(), s.handleCreateOrder)
		pay.POST("/verify", s.auth.Middleware(), s.handleVerifyPayment)
		pay.GET("/status", s.auth.Middleware(), s.handleSubscriptionStatus)
	}

	return router
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":             "healthy",
		"service":            "Agentic AI Platform API",
		"version":            serviceVersion,
		"platform_available": s.platform != nil,
	})
}
