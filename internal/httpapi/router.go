package httpapi

import (
	"net/http"
	"time"

	"github.com/chatbridge/gateway/internal/agent"
	"github.com/chatbridge/gateway/internal/config"
	"github.com/chatbridge/gateway/internal/httpapi/handlers"
	"github.com/chatbridge/gateway/internal/httpapi/middleware"
	"github.com/chatbridge/gateway/internal/logging"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func NewRouter(gdb *gorm.DB, cfg config.Config, log *logging.Logger, agentClient *agent.Client) *gin.Engine {
	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.HandleMethodNotAllowed = true

	httpLog := log.Sub("http")
	r.Use(middleware.Errors(httpLog, cfg.Production()))
	r.Use(middleware.Recovery(httpLog))
	r.Use(middleware.RequestID())
	r.Use(middleware.AccessLog(httpLog))

	if len(cfg.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Content-Type", "Authorization", middleware.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"message": "route not found"}})
	})
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": gin.H{"message": "method not allowed"}})
	})

	h := handlers.New(gdb, agentClient, log.Sub("handlers"))

	r.GET("/health", h.Health)

	hist := r.Group("/history")
	{
		hist.POST("", h.CreateConversation)
		hist.GET("", h.ListConversations)
		hist.GET("/:id", h.GetConversation)
		hist.PUT("/:id", h.AppendMessages)
		hist.DELETE("/:id", h.DeleteConversation)
	}

	ag := r.Group("/agent")
	ag.Use(middleware.NewRateLimiter(cfg.RateLimitRPM).Middleware())
	{
		ag.POST("/chat", h.AgentChat)
		ag.GET("/status", h.AgentStatus)
		ag.GET("/tools", h.AgentTools)
	}

	return r
}
