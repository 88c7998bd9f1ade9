package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/kleinfit/klein-data-pipeline/internal/config"
	"github.com/kleinfit/klein-data-pipeline/pkg/jwt"
)

// AuthHandler exchanges the configured ops API key for a bearer token.
type AuthHandler struct {
	cfg *config.Config
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(cfg *config.Config) *AuthHandler {
	return &AuthHandler{cfg: cfg}
}

// TokenRequest is the body of POST /auth/token
type TokenRequest struct {
	APIKey string `json:"apiKey" binding:"required"`
}

// IssueToken handles POST /auth/token
func (h *AuthHandler) IssueToken(c *gin.Context) {
	var req TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "apiKey is required"})
		return
	}

	if h.cfg.Server.APIKeyHash == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "API key authentication is not configured"})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(h.cfg.Server.APIKeyHash), []byte(req.APIKey)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid API key"})
		return
	}

	expiresIn := time.Duration(h.cfg.JWT.ExpiresIn) * time.Second
	token, err := jwt.Generate(h.cfg.JWT.Secret, "ops", expiresIn)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":     token,
		"expiresIn": h.cfg.JWT.ExpiresIn,
	})
}
