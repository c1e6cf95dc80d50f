package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/wattzwebdesign/simply-qr/internal/model"
	"github.com/wattzwebdesign/simply-qr/internal/service"
)

type QRCodeHandler struct {
	svc     *service.QRCodeService
	baseURL string
}

func NewQRCodeHandler(svc *service.QRCodeService, baseURL string) *QRCodeHandler {
	return &QRCodeHandler{svc: svc, baseURL: baseURL}
}

// currentUserID reads the user id set by the JWT middleware.
func currentUserID(c *gin.Context) uint {
	v, _ := c.Get("userId")
	id, _ := v.(uint)
	return id
}

func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code": 400,
			"msg":  "invalid id",
		})
		return 0, false
	}
	return uint(id), true
}

// codeView augments the stored entry with its scan URL for the frontend.
func (h *QRCodeHandler) codeView(code *model.QRCode) gin.H {
	return gin.H{
		"qrcode":   code,
		"scan_url": service.ScanURL(h.baseURL, code.ShortCode),
	}
}

func (h *QRCodeHandler) List(c *gin.Context) {
	filters := service.ListFilters{
		Search:   c.Query("search"),
		Folder:   c.Query("folder"),
		Favorite: c.Query("favorite") == "true",
		Sort:     c.Query("sort"),
		Order:    c.Query("order"),
	}

	codes, err := h.svc.List(currentUserID(c), filters)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code": 500,
			"msg":  "failed to retrieve qr codes",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code": 200,
		"data": gin.H{"qrcodes": codes},
	})
}

func (h *QRCodeHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	code, err := h.svc.GetByID(currentUserID(c), id)
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
			"msg":  "failed to retrieve qr code",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code": 200,
		"data": h.codeView(code),
	})
}

func (h *QRCodeHandler) Create(c *gin.Context) {
	var input service.CreateQRCodeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code": 400,
			"msg":  "invalid request body",
		})
		return
	}

	code, err := h.svc.Create(currentUserID(c), input)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code": 400,
			"msg":  err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"code": 201,
		"msg":  "qr code created",
		"data": h.codeView(code),
	})
}

func (h *QRCodeHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code": 400,
			"msg":  "invalid request body",
		})
		return
	}

	code, err := h.svc.Update(currentUserID(c), id, updates)
	if errors.Is(err, service.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"code": 404,
			"msg":  "qr code not found",
		})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code": 400,
			"msg":  err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code": 200,
		"msg":  "qr code updated",
		"data": h.codeView(code),
	})
}

func (h *QRCodeHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	err := h.svc.Delete(currentUserID(c), id)
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
			"msg":  "failed to delete qr code",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code": 200,
		"msg":  "qr code deleted",
	})
}

// Image renders the code as a PNG with its stored appearance settings.
func (h *QRCodeHandler) Image(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	code, err := h.svc.GetByID(currentUserID(c), id)
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
			"msg":  "failed to retrieve qr code",
		})
		return
	}

	png, err := service.RenderPNG(code, h.baseURL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code": 500,
			"msg":  "failed to render qr code",
		})
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}
