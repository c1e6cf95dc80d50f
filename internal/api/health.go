package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SimpleHealthCheck is used by Docker health checks and load balancers.
func SimpleHealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}
