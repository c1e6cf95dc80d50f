package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/wattzwebdesign/simply-qr/internal/api"
	"github.com/wattzwebdesign/simply-qr/internal/config"
	"github.com/wattzwebdesign/simply-qr/internal/middleware"
)

// Handlers bundles everything SetupRoutes wires into the engine.
type Handlers struct {
	Auth      *api.AuthHandler
	QRCode    *api.QRCodeHandler
	Analytics *api.AnalyticsHandler
	Redirect  *api.RedirectHandler
}

// SetupRoutes registers all routes. The redirect endpoint stays outside the
// API group: it is public, unauthenticated and skips CORS handling.
func SetupRoutes(r *gin.Engine, cfg *config.Config, db *gorm.DB, h Handlers) {
	r.GET("/api/v1/health", api.SimpleHealthCheck)

	// Public scan resolution.
	r.GET("/r/:shortCode", h.Redirect.Handle)

	apiGroup := r.Group("/api/v1")
	apiGroup.Use(middleware.Cors())

	auth := apiGroup.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
	}

	authorized := apiGroup.Group("/")
	authorized.Use(middleware.JWT(cfg.JWT, db))
	{
		qrcodes := authorized.Group("/qrcodes")
		{
			qrcodes.GET("", h.QRCode.List)
			qrcodes.POST("", h.QRCode.Create)
			qrcodes.GET("/:id", h.QRCode.Get)
			qrcodes.PUT("/:id", h.QRCode.Update)
			qrcodes.DELETE("/:id", h.QRCode.Delete)
			qrcodes.GET("/:id/image", h.QRCode.Image)
		}

		analytics := authorized.Group("/analytics")
		{
			analytics.GET("", h.Analytics.Overview)
			analytics.GET("/:id", h.Analytics.CodeStats)
		}
	}
}
