package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-reorder-service/internal/application"
	"github.com/oksasatya/go-reorder-service/internal/interface/middleware"
	"github.com/oksasatya/go-reorder-service/pkg/helpers"
	"github.com/oksasatya/go-reorder-service/pkg/response"
	"github.com/oksasatya/go-reorder-service/pkg/validation"
)

type errorMapping struct {
	target error
	status int
}

// ordered: the first match wins
var errorMappings = []errorMapping{
	{application.ErrValidation, http.StatusBadRequest},
	{application.ErrInvalidAdjustment, http.StatusUnprocessableEntity},
	{application.ErrNotFound, http.StatusNotFound},
	{application.ErrDuplicateEmail, http.StatusConflict},
	{application.ErrDuplicateName, http.StatusConflict},
	{application.ErrDuplicateSKU, http.StatusConflict},
	{application.ErrInvalidCredentials, http.StatusUnauthorized},
	{application.ErrUnauthenticated, http.StatusUnauthorized},
	{application.ErrUserNotFound, http.StatusUnauthorized},
	{helpers.ErrTokenExpired, http.StatusUnauthorized},
	{helpers.ErrTokenInvalid, http.StatusUnauthorized},
	{helpers.ErrTokenMalformed, http.StatusUnauthorized},
	{application.ErrExportUnavailable, http.StatusServiceUnavailable},
}

// StatusFor maps an application error to its HTTP status; unknown errors are 500.
func StatusFor(err error) int {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return m.status
		}
	}
	return http.StatusInternalServerError
}

// writeError renders err. Unexpected errors are logged once here and reported
// as "internal error" without detail.
func writeError(c *gin.Context, logger *logrus.Logger, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		logger.WithError(err).WithFields(logrus.Fields{
			"request_id": c.GetString(middleware.CtxRequestIDKey),
			"route":      c.FullPath(),
		}).Error("request failed")
		response.Error[any](c, status, "internal error", nil)
		return
	}
	response.Error[any](c, status, err.Error(), nil)
}

func writeBindError(c *gin.Context, err error) {
	response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
}

// currentUserID returns the id set by middleware.Gate; routes using it are
// always mounted behind the gate.
func currentUserID(c *gin.Context) string {
	return c.GetString(middleware.CtxUserIDKey)
}
