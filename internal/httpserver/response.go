package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	errx "github.com/recipe-genie/server/internal/core/error"
	logx "github.com/recipe-genie/server/pkg/logger"
)

const MessageSuccess = "success"

// Resp is the standard JSON response body.
type Resp struct {
	ErrorCode int    `json:"error_code"`
	Message   string `json:"message"`
	Data      any    `json:"data,omitempty"`
}

// OK sends 200 JSON with data.
func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Resp{Message: MessageSuccess, Data: data})
}

// Created sends 201 JSON with data.
func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, Resp{Message: MessageSuccess, Data: data})
}

// Error maps err onto its AppError status and safe message. Details of
// client errors are returned; details of server errors are only logged.
func Error(c *gin.Context, err error) {
	status := errx.StatusOf(err)
	message := errx.MessageOf(err)
	var appErr *errx.AppError
	if status < http.StatusInternalServerError && errors.As(err, &appErr) {
		message = appErr.Error()
	}
	if status >= http.StatusInternalServerError {
		logx.Error().Err(err).Str("path", c.FullPath()).Int("status", status).Msg("Request failed")
	} else {
		logx.Debug().Err(err).Str("path", c.FullPath()).Int("status", status).Msg("Request rejected")
	}
	c.AbortWithStatusJSON(status, Resp{
		ErrorCode: status,
		Message:   message,
	})
}
