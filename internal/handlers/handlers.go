// internal/handlers/handlers.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/novamart/marketplace-backend/internal/apperrors"
	"github.com/novamart/marketplace-backend/internal/utils"
)

// respondError maps the service error taxonomy onto HTTP statuses.
// Unrecognized errors are persistence failures: logged, reported
// generically.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrValidation),
		errors.Is(err, apperrors.ErrEmptyCart):
		utils.BadRequestResponse(c, err.Error(), nil)
	case errors.Is(err, apperrors.ErrNotFound):
		utils.NotFoundResponse(c, err.Error())
	case errors.Is(err, apperrors.ErrStockExhausted),
		errors.Is(err, apperrors.ErrAlreadyAssigned):
		utils.ConflictResponse(c, err.Error())
	case errors.Is(err, apperrors.ErrForbidden):
		utils.ForbiddenResponse(c, err.Error())
	default:
		logrus.WithError(err).WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
		}).Error("Request failed")
		utils.InternalErrorResponse(c, "")
	}
}

// currentUserID reads the authenticated subject set by the auth
// middleware. For delivery routes the subject is the agent id.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	userIDStr, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return uuid.Nil, false
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		utils.UnauthorizedResponse(c, "")
		return uuid.Nil, false
	}

	return userID, true
}
