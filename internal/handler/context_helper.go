package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/classpulse/classpulse-api/internal/middleware"
	"github.com/classpulse/classpulse-api/internal/models"
	appErrors "github.com/classpulse/classpulse-api/pkg/errors"
)

// claimsFromContext returns the authenticated claims or an unauthorized error.
func claimsFromContext(c *gin.Context) (*models.JWTClaims, error) {
	claims, ok := middleware.CurrentUser(c)
	if !ok {
		return nil, appErrors.ErrUnauthorized
	}
	return claims, nil
}
