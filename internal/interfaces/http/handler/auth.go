package handler

import (
	appaccount "github.com/crm/backend/internal/application/account"
	"github.com/crm/backend/internal/infrastructure/auth"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	BaseHandler
	accounts *appaccount.Service
	jwt      *auth.JWTService
}

// NewAuthHandler creates an auth handler
func NewAuthHandler(accounts *appaccount.Service, jwt *auth.JWTService) *AuthHandler {
	return &AuthHandler{accounts: accounts, jwt: jwt}
}

// RegisterRoutes registers auth routes
func (h *AuthHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/auth/login", h.Login)
}

// LoginRequest is the login payload
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued token
type LoginResponse struct {
	Token       string   `json:"token"`
	Username    string   `json:"username"`
	Authorities []string `json:"authorities"`
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	acct, err := h.accounts.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if acct == nil {
		h.Unauthorized(c, "Invalid username or password")
		return
	}

	token, err := h.jwt.GenerateToken(acct)
	if err != nil {
		h.InternalError(c, "Failed to issue token")
		return
	}

	h.Success(c, LoginResponse{
		Token:       token,
		Username:    acct.Username,
		Authorities: acct.Authorities,
	})
}
