package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wattzwebdesign/simply-qr/internal/model"
	"github.com/wattzwebdesign/simply-qr/internal/pkg/logger"
	"github.com/wattzwebdesign/simply-qr/internal/service"
)

type codeResolver interface {
	ResolveShortCode(ctx context.Context, sc string) (*model.QRCode, error)
}

type scanEnqueuer interface {
	Enqueue(job service.ScanJob) bool
}

// RedirectHandler resolves short codes into redirects. It is the only
// unauthenticated surface besides the health check.
type RedirectHandler struct {
	resolver codeResolver
	recorder scanEnqueuer
}

func NewRedirectHandler(resolver codeResolver, recorder scanEnqueuer) *RedirectHandler {
	return &RedirectHandler{resolver: resolver, recorder: recorder}
}

// Handle serves GET /r/:shortCode. Terminal states:
//
//	unknown code            -> 404
//	deactivated code        -> 410
//	active, destination set -> 302, scan recorded off the request path
//	active, no destination  -> 500 (misconfigured entry)
//
// The redirect never waits on analytics; the scan job is handed to a
// bounded queue and dropped if the queue is full.
func (h *RedirectHandler) Handle(c *gin.Context) {
	sc := c.Param("shortCode")

	code, err := h.resolver.ResolveShortCode(c.Request.Context(), sc)
	if errors.Is(err, service.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"code": 404,
			"msg":  "qr code not found",
		})
		return
	}
	if err != nil {
		logger.Errorf("short code lookup for %s failed: %v", sc, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"code": 500,
			"msg":  "redirect failed",
		})
		return
	}

	if !code.IsActive {
		c.JSON(http.StatusGone, gin.H{
			"code": 410,
			"msg":  "this qr code has been deactivated",
		})
		return
	}

	if code.RedirectURL == "" {
		logger.Warnf("qr code %d (%s) is active but has no destination", code.ID, code.ShortCode)
		c.JSON(http.StatusInternalServerError, gin.H{
			"code": 500,
			"msg":  "this qr code has no destination configured",
		})
		return
	}

	h.recorder.Enqueue(service.ScanJob{
		CodeID:    code.ID,
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		Referer:   c.Request.Referer(),
	})

	c.Redirect(http.StatusFound, code.RedirectURL)
}
