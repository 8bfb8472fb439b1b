package bootstrap

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	httpHandler "catalog-admin/internal/handler/http"
	wsHandler "catalog-admin/internal/handler/websocket"
	"catalog-admin/internal/middleware"
)

// RouterDeps are the handlers and optional middleware the router mounts.
// Auth and RateLimiter may be nil.
type RouterDeps struct {
	Config      *Config
	Log         *logrus.Logger
	Posts       *httpHandler.PostHandler
	Forms       *httpHandler.FormHandler
	Auth        *httpHandler.AuthHandler
	WebSocket   *wsHandler.WebSocketHandler
	RateLimiter middleware.RateLimiter
}

// NewRouter builds the gin engine serving every route.
func NewRouter(d RouterDeps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(LoggerMiddleware(d.Log))
	router.Use(cors.New(corsConfig(d.Config.CORSAllowedOrigins)))

	// guard wraps routes that change data.
	var guard []gin.HandlerFunc
	if d.Config.AuthEnabled() {
		guard = append(guard, middleware.Auth(d.Config.JWTSecret, httpHandler.TokenCookie))
	}

	api := router.Group("/api")
	if d.RateLimiter != nil {
		api.Use(middleware.RateLimit(d.RateLimiter, d.Config.RateLimitMax, d.Config.RateLimitWindow))
	}
	{
		api.GET("/posts", d.Posts.List)
		api.GET("/posts/:id", d.Posts.Get)
	}
	writes := api.Group("/posts", guard...)
	{
		writes.POST("", d.Posts.Create)
		writes.PATCH("/:id", d.Posts.Patch)
		writes.DELETE("/:id", d.Posts.Delete)
	}
	if d.Auth != nil {
		api.POST("/auth/token", d.Auth.Login)
	}

	actions := router.Group("/actions/posts", guard...)
	{
		actions.POST("/create", d.Forms.Create)
		actions.POST("/update", d.Forms.Update)
		actions.POST("/publish", d.Forms.Publish)
		actions.POST("/delete", d.Forms.Delete)
	}

	if d.WebSocket != nil {
		router.GET("/ws/posts", d.WebSocket.HandleConnection)
	}
	router.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"message": "pong"}) })

	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Requested-With", middleware.RequestIDHeader},
		ExposeHeaders:    []string{middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			cfg.AllowCredentials = false
			return cfg
		}
	}
	cfg.AllowOrigins = origins
	return cfg
}
