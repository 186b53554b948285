package handlers

import (
	"errors"
	"net/http"

	"tasktracker/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type RegisterHandler struct {
	accounts services.AccountService
	log      *logrus.Logger
}

func NewRegisterHandler(accounts services.AccountService, log *logrus.Logger) *RegisterHandler {
	return &RegisterHandler{accounts: accounts, log: log}
}

type RegistrationResponse struct {
	Message string      `json:"message"`
	User    UserProfile `json:"user"`
}

func (h *RegisterHandler) Registration(c *gin.Context) {
	var req services.RegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.accounts.RegisterNewUser(c.Request.Context(), req)
	switch {
	case errors.Is(err, services.ErrInvalidRegistration):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username and email are required."})
		return
	case errors.Is(err, services.ErrPasswordMismatch):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Passwords do not match!"})
		return
	case errors.Is(err, services.ErrDuplicateAccount):
		c.JSON(http.StatusConflict, gin.H{"error": "Username already exists."})
		return
	case err != nil:
		h.log.WithError(err).Error("registration failed")
		c.JSON(http.StatusConflict, gin.H{"error": "registration could not be completed"})
		return
	}

	c.JSON(http.StatusCreated, RegistrationResponse{
		Message: "Registration successful. Please log in.",
		User:    newUserProfile(user),
	})
}
