package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/clinigo/agenda-api/pkg/errors"
)

// OK writes the standard success envelope.
func OK(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{"status": "success", "data": data})
}

// Error maps application errors onto HTTP statuses and writes the standard
// error envelope. Unknown errors become 500 without leaking internals.
func Error(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "internal server error"})
		return
	}

	status := http.StatusInternalServerError
	switch appErr.Code {
	case apperrors.ErrNotFound:
		status = http.StatusNotFound
	case apperrors.ErrBadRequest:
		status = http.StatusBadRequest
	case apperrors.ErrInvalidTransition:
		status = http.StatusUnprocessableEntity
	case apperrors.ErrUnauthorized:
		status = http.StatusForbidden
	case apperrors.ErrConflict:
		status = http.StatusConflict
	case apperrors.ErrCascadeFailure:
		status = http.StatusBadGateway
	}

	c.JSON(status, gin.H{"status": "error", "message": appErr.Message})
}
