package httpserver

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/recipe-genie/server/internal/core"
	logx "github.com/recipe-genie/server/pkg/logger"
)

func (srv *HTTPServer) mapHandlers() {
	srv.registerMiddlewares()
	srv.registerSystemRoutes()
	srv.registerConversationRoutes(srv.gin.Group("/api/v1"))
}

func (srv *HTTPServer) registerMiddlewares() {
	srv.gin.Use(gin.Recovery())
	srv.gin.Use(requestLogger())

	if core.ParseEnvironment(srv.environment).IsProduction() {
		logx.Info().Msg("HTTP mode: production")
	} else {
		logx.Info().Str("environment", srv.environment).Msg("HTTP mode: development")
	}
}

func (srv *HTTPServer) registerSystemRoutes() {
	srv.gin.GET("/health", srv.healthCheck)
}

func (srv *HTTPServer) registerConversationRoutes(api *gin.RouterGroup) {
	conversations := api.Group("/conversations")
	{
		conversations.POST("", srv.createConversation)
		conversations.POST("/:id/messages", srv.sendMessage)
		conversations.GET("/:id/messages", srv.listMessages)
		conversations.DELETE("/:id", srv.clearConversation)
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logx.Debug().
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", c.Writer.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("HTTP request")
	}
}
