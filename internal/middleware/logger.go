package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wattzwebdesign/simply-qr/internal/pkg/logger"
)

// Logger records one line per request with latency and client info.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()

		c.Next()

		latency := time.Since(startTime)
		statusCode := c.Writer.Status()
		clientIP := c.ClientIP()
		reqMethod := c.Request.Method
		reqURI := c.Request.RequestURI
		userAgent := c.Request.UserAgent()

		if statusCode >= 500 {
			logger.Errorf("[%s] %s %s %d %v \"%s\"",
				clientIP, reqMethod, reqURI, statusCode, latency, userAgent)
		} else if statusCode >= 400 {
			logger.Warnf("[%s] %s %s %d %v \"%s\"",
				clientIP, reqMethod, reqURI, statusCode, latency, userAgent)
		} else {
			logger.Infof("[%s] %s %s %d %v \"%s\"",
				clientIP, reqMethod, reqURI, statusCode, latency, userAgent)
		}
	}
}
