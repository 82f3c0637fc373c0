package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/andresuchdata/dgm-dashboard/backend-go/internal/auth"
)

type TokenIssuer interface {
	Issue(id auth.Identity) (string, time.Time, error)
}

type AuthHandler struct {
	authenticator auth.Authenticator
	tokens        TokenIssuer
}

func NewAuthHandler(authenticator auth.Authenticator, tokens TokenIssuer) *AuthHandler {
	return &AuthHandler{authenticator: authenticator, tokens: tokens}
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	DGM       string    `json:"dgm"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required", "details": err.Error()})
		return
	}

	id, err := h.authenticator.Authenticate(c.Request.Context(), strings.TrimSpace(req.Username), req.Password)
	if err != nil {
		errorResponse(c, "login failed", err)
		return
	}

	token, expires, err := h.tokens.Issue(id)
	if err != nil {
		errorResponse(c, "failed to issue token", err)
		return
	}

	c.JSON(http.StatusOK, loginResponse{Token: token, DGM: id.Name, ExpiresAt: expires})
}
