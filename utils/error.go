package utils

import (
	"fmt"
	"net/http"

	"flightbot/config"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse defines the structure of error responses
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// ErrorHandler is a middleware to catch panics and return structured errors.
// The panic message is only exposed outside production.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				Logger := GetLogger()
				Logger.Error("Unhandled panic",
					zap.Any("error", err),
					zap.String("path", c.Request.URL.Path),
				)

				resp := ErrorResponse{Error: "Internal server error"}
				if !config.IsProduction() {
					resp.Message = fmt.Sprint(err)
				}
				c.AbortWithStatusJSON(http.StatusInternalServerError, resp)
			}
		}()
		c.Next()
	}
}

// NotFoundHandler answers unknown routes.
func NotFoundHandler(c *gin.Context) {
	c.JSON(http.StatusNotFound, ErrorResponse{Error: "Not found"})
}

// JSONError sends a standardized JSON error response
func JSONError(c *gin.Context, status int, message string, details string) {
	Logger := GetLogger()
	Logger.Warn(message, zap.String("details", details), zap.Int("status", status))
	c.AbortWithStatusJSON(status, ErrorResponse{Error: message, Message: details})
}
