package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"gateway-inject/internal/middleware"
)

// AuthHandler handles token-related HTTP requests
type AuthHandler struct {
	authService *middleware.AuthService
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(authService *middleware.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// TokenRequest carries a token to validate
type TokenRequest struct {
	Token string `json:"token" binding:"required"`
}

// TokenResponse is returned when a token is issued
type TokenResponse struct {
	Token string `json:"token"`
}

// UserInfo describes the authenticated caller
type UserInfo struct {
	ID       string   `json:"id"`
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
}

// @Summary Validate Token
// @Description Validate a JWT token
// @Tags auth
// @Accept json
// @Produce json
// @Param token body TokenRequest true "Token to validate"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/validate [post]
func (h *AuthHandler) ValidateToken(c *gin.Context) {
	var req TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	claims, err := h.authService.ValidateToken(req.Token)
	if err != nil {
		middleware.AbortWithError(c, http.StatusUnauthorized, "Invalid or expired token")
		return
	}

	var expiresAt time.Time
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}

	c.JSON(http.StatusOK, gin.H{
		"valid": true,
		"user": UserInfo{
			ID:       claims.UserID,
			Username: claims.Username,
			Roles:    claims.Roles,
		},
		"expires_at": expiresAt,
	})
}

// @Summary Get Current User
// @Description Get information about the currently authenticated user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} UserInfo
// @Failure 401 {object} ErrorResponse
// @Router /auth/me [get]
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	roles := c.GetStringSlice("roles")
	if roles == nil {
		roles = []string{}
	}

	c.JSON(http.StatusOK, UserInfo{
		ID:       c.GetString("user_id"),
		Username: c.GetString("username"),
		Roles:    roles,
	})
}

// DevToken issues an admin token for local testing
func (h *AuthHandler) DevToken(c *gin.Context) {
	token, err := h.authService.GenerateToken("demo-user", "demo", []string{string(middleware.RoleAdmin)})
	if err != nil {
		middleware.AbortWithError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}
	c.JSON(http.StatusOK, TokenResponse{Token: token})
}
