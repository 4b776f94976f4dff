package controller

import (
	"net/http"

	"taskify-api/internal/middleware"
	"taskify-api/internal/service"

	"github.com/gin-gonic/gin"
)

// AuthController serves registration, login, logout and the current user.
type AuthController struct {
	auth *service.AuthService
}

func NewAuthController(auth *service.AuthService) *AuthController {
	return &AuthController{auth: auth}
}

// Register creates an account and returns 201 with a token.
func (h *AuthController) Register(c *gin.Context) {
	var in service.RegisterInput
	if err := bindJSON(c, &in); err != nil {
		respondError(c, err)
		return
	}
	user, token, err := h.auth.Register(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully", "token": token, "user": user})
}

// Login exchanges credentials for a new token.
func (h *AuthController) Login(c *gin.Context) {
	var in service.LoginInput
	if err := bindJSON(c, &in); err != nil {
		respondError(c, service.ErrInvalidCredentials)
		return
	}
	user, token, err := h.auth.Login(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Login successful", "token": token, "user": user})
}

// Logout (auth): revokes all of the caller's tokens.
func (h *AuthController) Logout(c *gin.Context) {
	if err := h.auth.Logout(c.Request.Context(), middleware.CurrentUser(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// User (auth): returns the caller.
func (h *AuthController) User(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		respondError(c, service.ErrUnauthenticated)
		return
	}
	c.JSON(http.StatusOK, user)
}
