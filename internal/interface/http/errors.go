package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/restaurant-review-api/internal/application"
	"github.com/oksasatya/restaurant-review-api/internal/domain/apperror"
	"github.com/oksasatya/restaurant-review-api/internal/interface/middleware"
	"github.com/oksasatya/restaurant-review-api/pkg/helpers"
	"github.com/oksasatya/restaurant-review-api/pkg/response"
	"github.com/oksasatya/restaurant-review-api/pkg/validation"
)

// writeError is the single place where domain errors become HTTP statuses.
func writeError(c *gin.Context, log logrus.FieldLogger, err error) {
	var verr *apperror.ValidationError
	var missing *apperror.MissingScopesError
	switch {
	case errors.As(err, &verr):
		response.Error[any](c, http.StatusBadRequest, "validation failed", verr.Fields)
	case errors.Is(err, apperror.ErrInactiveUser):
		response.Error[any](c, http.StatusBadRequest, "Inactive user", nil)
	case errors.Is(err, application.ErrInvalidCredentials):
		middleware.Unauthenticated(c, "incorrect username or password")
	case errors.Is(err, apperror.ErrUnauthenticated):
		middleware.Unauthenticated(c, "could not validate credentials")
	case errors.As(err, &missing):
		response.Error[any](c, http.StatusForbidden, "not enough permissions", gin.H{"missing_scopes": missing.Missing})
	case errors.Is(err, apperror.ErrForbidden):
		response.Error[any](c, http.StatusForbidden, "not enough permissions", nil)
	case errors.Is(err, apperror.ErrNotFound):
		response.Error[any](c, http.StatusNotFound, "not found", nil)
	case errors.Is(err, apperror.ErrConflict):
		response.Error[any](c, http.StatusConflict, "already exists", nil)
	case errors.Is(err, application.ErrPhotoStorageDisabled), errors.Is(err, application.ErrSearchDisabled):
		response.Error[any](c, http.StatusServiceUnavailable, err.Error(), nil)
	default:
		helpers.LogError(log, "request failed", err, logrus.Fields{
			"path":       c.FullPath(),
			"request_id": c.GetString(middleware.CtxRequestIDKey),
		})
		response.Error[any](c, http.StatusInternalServerError, "internal server error", nil)
	}
}

// bindError answers a failed gin binding with per-field details.
func bindError(c *gin.Context, err error) {
	response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
}
