package controller

import (
	"context"
	"errors"
	"io"
	"net/http"

	"taskify-api/internal/service"
	"taskify-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

const invalidData = "The given data was invalid."

// respondError writes the JSON envelope for err.
func respondError(c *gin.Context, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": invalidData, "errors": verr.Fields})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	case errors.Is(err, service.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthenticated"})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Unauthorized"})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case c.Request.Context().Err() != nil || isContextErr(err):
		// Client went away; nothing useful to send.
		c.Abort()
	default:
		logger.Error(c.Request.Context(), "Request failed", "error", err, "path", c.FullPath())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// bindJSON decodes the request body into dst. An empty body leaves dst zero so
// field validation reports what is missing.
func bindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		return service.FieldError("body", "The request body must be a valid JSON object.")
	}
	return nil
}

// bindOrZero is bindJSON for routes that authorize before validating: an
// undecodable body becomes the zero input and fails validation after the
// ownership check instead of before it.
func bindOrZero[T any](c *gin.Context, dst *T) {
	if err := bindJSON(c, dst); err != nil {
		var zero T
		*dst = zero
	}
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
