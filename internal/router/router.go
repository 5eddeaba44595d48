package router

import (
	"github.com/gin-gonic/gin"

	"github.com/assuredtransfer/aft-request-api/internal/config"
	"github.com/assuredtransfer/aft-request-api/internal/database"
	"github.com/assuredtransfer/aft-request-api/internal/handlers"
	"github.com/assuredtransfer/aft-request-api/internal/middleware"
	"github.com/assuredtransfer/aft-request-api/internal/service"
)

// SetupRouter configures all API routes
func SetupRouter(
	cfg *config.Config,
	db *database.DB,
	authService *service.AuthService,
	requestService *service.RequestService,
	transitionService *service.TransitionService,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CorrelationID())
	if cfg.CORS.Enabled {
		router.Use(middleware.CORS(&cfg.CORS))
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		if err := db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(503, gin.H{"status": "unhealthy", "details": err.Error()})
			return
		}
		c.JSON(200, gin.H{"status": "healthy"})
	})

	// Create handlers
	authHandler := handlers.NewAuthHandler(authService)
	requestHandler := handlers.NewRequestHandler(requestService)
	transitionHandler := handlers.NewTransitionHandler(transitionService)

	// API v1 routes
	v1 := router.Group("/api/v1")

	// Public routes
	v1.POST("/auth/login", authHandler.Login)

	// Authenticated routes
	authed := v1.Group("")
	authed.Use(middleware.Authentication(authService))
	{
		authed.GET("/auth/me", authHandler.Me)
		authed.GET("/users", authHandler.ListUsers)

		requests := authed.Group("/requests")
		{
			requests.POST("", requestHandler.CreateRequest)
			requests.GET("", requestHandler.ListRequests)
			requests.GET("/:requestId", requestHandler.GetRequest)
			requests.PUT("/:requestId", requestHandler.UpdateRequest)
			requests.DELETE("/:requestId", requestHandler.DeleteRequest)
			requests.GET("/:requestId/history", requestHandler.GetRequestHistory)

			// Lifecycle transitions
			requests.POST("/:requestId/submit", transitionHandler.SubmitRequest)
			requests.POST("/:requestId/approve", transitionHandler.ApproveRequest)
			requests.POST("/:requestId/reject", transitionHandler.RejectRequest)
			requests.POST("/:requestId/cancel", transitionHandler.CancelRequest)
			requests.POST("/:requestId/return-to-draft", transitionHandler.ReturnRequestToDraft)
			requests.POST("/:requestId/antivirus-scan", transitionHandler.RecordAntivirusScan)
			requests.POST("/:requestId/initiate-transfer", transitionHandler.InitiateTransfer)
			requests.POST("/:requestId/dta-sign", transitionHandler.DTASignRequest)
			requests.POST("/:requestId/sme-sign", transitionHandler.SMESignRequest)
			requests.POST("/:requestId/disposition", transitionHandler.RecordDisposition)
		}
	}

	return router
}
