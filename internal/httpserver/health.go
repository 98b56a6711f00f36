package httpserver

import (
	"github.com/gin-gonic/gin"
)

// Health response constants (single source for version and service identity).
const (
	HealthVersion = "1.0.0"
	ServiceName   = "recipe-genie"
)

func (srv *HTTPServer) healthCheck(c *gin.Context) {
	OK(c, gin.H{
		"status":  "healthy",
		"version": HealthVersion,
		"service": ServiceName,
	})
}
