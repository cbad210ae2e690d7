package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/schoolbook/marksdesk/internal/app/models/dto"
	"github.com/schoolbook/marksdesk/internal/pkg/apperrors"
	"github.com/schoolbook/marksdesk/internal/pkg/logger"
)

// UnauthorizedMessage is the only message an authentication failure carries
const UnauthorizedMessage = "Invalid or expired credentials"

// HandleAPIError maps an application error onto its HTTP response.
// Errors outside the taxonomy are logged and reported as 500.
func HandleAPIError(c *gin.Context, err error) {
	detail := describeError(err)
	status := detail.Code.Status()
	if status == http.StatusInternalServerError {
		logger.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("requestId", c.GetString(ContextKeyRequestID)).
			Msg("Unhandled error")
	}
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(detail))
}

func describeError(err error) *dto.ErrorDetail {
	switch {
	case errors.Is(err, apperrors.ErrValidationFailed):
		return dto.HandleValidationError(err)
	case errors.Is(err, apperrors.ErrInvalidID):
		return dto.NewErrorDetail(dto.ErrorCodeResourceInvalid, apperrors.MessageOf(err, "Invalid identifier"))
	case errors.Is(err, apperrors.ErrUnauthorized):
		return dto.NewErrorDetail(dto.ErrorCodeUnauthorized, UnauthorizedMessage)
	case errors.Is(err, apperrors.ErrResourceNotFound):
		return dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, apperrors.MessageOf(err, "Resource not found"))
	case errors.Is(err, apperrors.ErrConflict):
		return dto.NewErrorDetail(dto.ErrorCodeConflict, apperrors.MessageOf(err, "Resource already exists"))
	default:
		return dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")
	}
}
