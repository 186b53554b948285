package handlers

import (
	"errors"
	"net/http"

	"tasktracker/internal/services"

	"github.com/gin-gonic/gin"
)

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Logout revokes the refresh token. Unknown tokens still log out.
func (h *AuthHandler) Logout(c *gin.Context) {
	var req LogoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	err := h.tokens.Revoke(c.Request.Context(), req.RefreshToken)
	if err != nil && !errors.Is(err, services.ErrInvalidRefreshToken) {
		h.log.WithError(err).Error("logout failed")
		internalError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Successfully logged out"})
}
