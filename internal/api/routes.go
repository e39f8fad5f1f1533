package api

import (
	"group-chat-service/internal/api/handlers"
	"group-chat-service/internal/middleware"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Router wires the HTTP surface: the REST read path, the websocket
// endpoint and the service plumbing routes.
type Router struct {
	engine      *gin.Engine
	jwtSecret   string
	pollHandler *handlers.PollHandler
	chatHandler *handlers.ChatHandler
	wsHandler   *handlers.WSHandler
}

func NewRouter(jwtSecret string, pollHandler *handlers.PollHandler, chatHandler *handlers.ChatHandler, wsHandler *handlers.WSHandler) *Router {
	return &Router{
		engine:      gin.New(),
		jwtSecret:   jwtSecret,
		pollHandler: pollHandler,
		chatHandler: chatHandler,
		wsHandler:   wsHandler,
	}
}

// SetupRoutes configures all the routes for the application
func (r *Router) SetupRoutes() {
	r.engine.Use(gin.Recovery())

	// Swagger documentation
	r.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check route
	r.engine.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// WebSocket endpoint (token passed as query parameter)
	ws := r.engine.Group("/api/v1")
	ws.Use(middleware.WSAuth(r.jwtSecret))
	ws.GET("/ws", r.wsHandler.Serve)

	// REST read path (requires JWT authentication)
	protected := r.engine.Group("/api/v1")
	protected.Use(middleware.JWTAuth(r.jwtSecret))
	{
		r.pollHandler.RegisterRoutes(protected)
		r.chatHandler.RegisterRoutes(protected)
	}
}

func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
