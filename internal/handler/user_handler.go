package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/classpulse/classpulse-api/internal/models"
	"github.com/classpulse/classpulse-api/pkg/response"
)

// UserProvider is the service surface the user handler needs.
type UserProvider interface {
	Get(ctx context.Context, id string) (*models.User, error)
}

// UserHandler serves user lookups.
type UserHandler struct {
	users UserProvider
}

// NewUserHandler constructs the user handler.
func NewUserHandler(users UserProvider) *UserHandler {
	return &UserHandler{users: users}
}

// Get godoc
// @Summary Look up a user by ID
// @Tags users
// @Produce json
// @Param id path string true "user ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /users/{id} [get]
func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.users.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, user, nil)
}
