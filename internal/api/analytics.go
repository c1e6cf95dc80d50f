package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/wattzwebdesign/simply-qr/internal/service"
)

type AnalyticsHandler struct {
	svc *service.AnalyticsService
}

func NewAnalyticsHandler(svc *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{svc: svc}
}

// Overview serves the account-wide dashboard numbers.
func (h *AnalyticsHandler) Overview(c *gin.Context) {
	overview, err := h.svc.GetOverview(currentUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code": 500,
			"msg":  "failed to retrieve analytics",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code": 200,
		"data": overview,
	})
}

// CodeStats serves per-code analytics; ?days= bounds the time window.
func (h *AnalyticsHandler) CodeStats(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))

	stats, err := h.svc.GetCodeStats(currentUserID(c), id, days)
	if errors.Is(err, service.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"code": 404,
			"msg":  "qr code not found",
		})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code": 500,
			"msg":  "failed to retrieve analytics",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code": 200,
		"data": stats,
	})
}
