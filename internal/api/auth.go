package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wattzwebdesign/simply-qr/internal/config"
	"github.com/wattzwebdesign/simply-qr/internal/middleware"
	"github.com/wattzwebdesign/simply-qr/internal/service"
)

type AuthHandler struct {
	svc    *service.AuthService
	jwtCfg config.JWTConfig
}

func NewAuthHandler(svc *service.AuthService, jwtCfg config.JWTConfig) *AuthHandler {
	return &AuthHandler{svc: svc, jwtCfg: jwtCfg}
}

type registerRequest struct {
	Email    string `json:"email" binding:"required"`
	Username string `json:"username"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code": 400,
			"msg":  "email and password are required",
		})
		return
	}

	user, err := h.svc.Register(req.Email, req.Username, req.Password)
	if errors.Is(err, service.ErrEmailTaken) {
		c.JSON(http.StatusConflict, gin.H{
			"code": 409,
			"msg":  "email already registered",
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

	token, err := middleware.GenerateToken(h.jwtCfg, user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code": 500,
			"msg":  "failed to generate token",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code": 200,
		"data": gin.H{
			"token": token,
			"user": gin.H{
				"id":       user.ID,
				"email":    user.Email,
				"username": user.Username,
			},
		},
	})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code": 400,
			"msg":  "email and password are required",
		})
		return
	}

	user, err := h.svc.Login(req.Email, req.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		c.JSON(http.StatusUnauthorized, gin.H{
			"code": 401,
			"msg":  "invalid email or password",
		})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code": 500,
			"msg":  "login failed",
		})
		return
	}

	token, err := middleware.GenerateToken(h.jwtCfg, user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code": 500,
			"msg":  "failed to generate token",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code": 200,
		"data": gin.H{
			"token": token,
			"user": gin.H{
				"id":       user.ID,
				"email":    user.Email,
				"username": user.Username,
			},
		},
	})
}
