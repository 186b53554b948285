package handlers

import (
	"errors"
	"net/http"
	"strings"

	"tasktracker/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type AuthHandler struct {
	accounts services.AccountService
	tokens   services.TokenService
	log      *logrus.Logger
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	*services.TokenPair
	User UserProfile `json:"user"`
}

func NewAuthHandler(accounts services.AccountService, tokens services.TokenService, log *logrus.Logger) *AuthHandler {
	return &AuthHandler{accounts: accounts, tokens: tokens, log: log}
}

func (h *AuthHandler) Token(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.accounts.Authenticate(c.Request.Context(), strings.TrimSpace(req.Username), req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "invalid_credentials",
				"message": "Invalid username or password",
			})
			return
		}
		h.log.WithError(err).Error("login failed")
		internalError(c)
		return
	}

	pair, err := h.tokens.Issue(c.Request.Context(), user)
	if err != nil {
		h.log.WithError(err).Error("token generation failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "token_generation_failed",
			"message": "Failed to generate authentication tokens",
		})
		return
	}

	c.JSON(http.StatusOK, LoginResponse{TokenPair: pair, User: newUserProfile(user)})
}
