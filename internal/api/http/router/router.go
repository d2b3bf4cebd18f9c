package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dtroode/smart-todo-server/internal/api/http/handler"
	"github.com/dtroode/smart-todo-server/internal/api/http/middleware"
	"github.com/dtroode/smart-todo-server/internal/logger"
	"github.com/dtroode/smart-todo-server/internal/model"
	"github.com/dtroode/smart-todo-server/internal/service"
)

// Router wires services into the HTTP route table.
type Router struct {
	authService     *service.Auth
	taskService     *service.Task
	insightsService *service.Insights
	tokenService    *service.TokenService
	contextManager  model.ContextManager
	logger          *logger.Logger
}

// New creates a new Router instance.
func New(
	authService *service.Auth,
	taskService *service.Task,
	insightsService *service.Insights,
	tokenService *service.TokenService,
	contextManager model.ContextManager,
	logger *logger.Logger,
) *Router {
	return &Router{
		authService:     authService,
		taskService:     taskService,
		insightsService: insightsService,
		tokenService:    tokenService,
		contextManager:  contextManager,
		logger:          logger,
	}
}

// Register builds the gin engine with middleware and all routes. Auth routes
// are open; task and insights routes require a bearer token.
func (r *Router) Register() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	engine.Use(gin.Recovery())

	logging := middleware.NewLogging(r.logger)
	engine.Use(logging.Handle())

	authenticate := middleware.NewAuthenticate(r.tokenService, r.contextManager, r.logger)

	api := engine.Group("/api")

	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authHandler := handler.NewAuth(r.authService, r.tokenService, r.logger)
	authRoutes := api.Group("/auth")
	authRoutes.POST("/register", authHandler.Register)
	authRoutes.POST("/login", authHandler.Login)
	authRoutes.POST("/refresh", authHandler.Refresh)
	authRoutes.POST("/logout", authHandler.Logout)

	taskHandler := handler.NewTask(r.taskService, r.contextManager, r.logger)
	taskRoutes := api.Group("/tasks", authenticate.Handle())
	taskRoutes.GET("", taskHandler.List)
	taskRoutes.POST("", taskHandler.Create)
	taskRoutes.PATCH("/:id", taskHandler.Update)
	taskRoutes.DELETE("/:id", taskHandler.Delete)

	insightsHandler := handler.NewInsights(r.insightsService, r.logger)
	insightsRoutes := api.Group("/insights", authenticate.Handle())
	insightsRoutes.GET("", insightsHandler.Generate)
	insightsRoutes.GET("/latest", insightsHandler.Latest)

	return engine
}
