package handlers

import (
	"net/http"

	"flightbot/utils"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports liveness together with the latest dependency snapshot.
func HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "dependencies": utils.GetHealthStatus()})
}

// RootHandler answers the bare root path.
func RootHandler(c *gin.Context) {
	c.String(http.StatusOK, "Server is running")
}
