package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/receiptflow/internal/application/service"
	"github.com/sangkips/receiptflow/internal/presentation/http/dto/request"
	"github.com/sangkips/receiptflow/internal/presentation/http/dto/response"
)

// AuthHandler handles admin sign-in
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login handles admin login
func (h *AuthHandler) Login(c *gin.Context) {
	var req request.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	out, err := h.authService.Login(c.Request.Context(), &service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Login successful", response.NewLoginResponse(out))
}
