package router

import (
	"time"

	"tasktracker/internal/handlers"
	"tasktracker/internal/middleware"
	"tasktracker/internal/monitoring"
	"tasktracker/internal/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type Dependencies struct {
	Accounts    services.AccountService
	Tasks       services.TaskService
	Tokens      services.TokenService
	Monitor     *monitoring.Monitor
	AuthLimiter *middleware.IPRateLimiter
	CORSOrigins []string
	Log         *logrus.Logger
}

// SetupRouter builds the HTTP API. Auth endpoints are rate limited per
// client IP when AuthLimiter is set.
func SetupRouter(deps Dependencies) *gin.Engine {
	r := gin.New()

	r.Use(middleware.RecoveryWithLog(deps.Log))
	r.Use(middleware.RequestID())
	r.Use(middleware.LoggerMiddleware(deps.Log))
	r.Use(deps.Monitor.Middleware())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     deps.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", deps.Monitor.HealthHandler())
	r.GET("/health/ready", deps.Monitor.ReadinessHandler())
	r.GET("/health/live", deps.Monitor.LivenessHandler())
	r.GET("/metrics", deps.Monitor.MetricsHandler())

	authHandler := handlers.NewAuthHandler(deps.Accounts, deps.Tokens, deps.Log)
	registerHandler := handlers.NewRegisterHandler(deps.Accounts, deps.Log)
	userHandler := handlers.NewUserHandler()
	taskHandler := handlers.NewTaskHandler(deps.Tasks, deps.Log)

	api := r.Group("/api")

	auth := api.Group("/auth")
	if deps.AuthLimiter != nil {
		auth.Use(middleware.RateLimit(deps.AuthLimiter))
	}
	auth.POST("/register", registerHandler.Registration)
	auth.POST("/token", authHandler.Token)
	auth.POST("/refresh", authHandler.Refresh)
	auth.POST("/logout", authHandler.Logout)

	protected := api.Group("")
	protected.Use(middleware.Authenticate(deps.Tokens, deps.Accounts, deps.Log))
	protected.GET("/me", userHandler.Me)

	tasks := protected.Group("/tasks")
	tasks.GET("", taskHandler.ListTasks)
	tasks.POST("", taskHandler.QuickAdd)
	tasks.GET("/:id", taskHandler.GetTask)
	tasks.PUT("/:id", taskHandler.UpdateTask)
	tasks.POST("/:id/status", taskHandler.UpdateStatus)
	tasks.DELETE("/:id", taskHandler.DeleteTask)

	return r
}
