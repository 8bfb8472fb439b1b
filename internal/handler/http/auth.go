package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"catalog-admin/internal/service"
)

// TokenCookie carries the operator token for browser form submissions.
const TokenCookie = "catalog_token"

// AuthHandler issues operator tokens.
type AuthHandler struct {
	authService  *service.AuthService
	cookieMaxAge int
	secureCookie bool
}

func NewAuthHandler(authService *service.AuthService, cookieMaxAgeSeconds int, secureCookie bool) *AuthHandler {
	return &AuthHandler{authService: authService, cookieMaxAge: cookieMaxAgeSeconds, secureCookie: secureCookie}
}

type LoginRequest struct {
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

// Login handles POST /api/auth/token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).Warn("Handler.Login: Invalid input format")
		ErrorResponse(c, http.StatusBadRequest, "password is required")
		return
	}

	token, err := h.authService.Login(c.Request.Context(), req.Password)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(TokenCookie, token, h.cookieMaxAge, "/", "", h.secureCookie, true)
	SuccessResponse(c, http.StatusOK, LoginResponse{Message: "Login successful", Token: token})
}
