package handler

import (
	"errors"
	"net/http"

	"ripple-chat/internal/transport/httpdto"
	ripple_errors "ripple-chat/pkg/errors"

	"github.com/gin-gonic/gin"
)

// respondError maps service errors onto the response envelope. Forbidden and
// not-found both collapse to the same generic message so callers cannot
// discover which conversations exist.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ripple_errors.ErrForbidden), errors.Is(err, ripple_errors.ErrNotFound):
		c.JSON(http.StatusForbidden, httpdto.NewErrorResponse("you don't have access to this conversation", "FORBIDDEN"))
	case errors.Is(err, ripple_errors.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
	case errors.Is(err, ripple_errors.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
	case errors.Is(err, ripple_errors.ErrAlreadyExists):
		c.JSON(http.StatusConflict, httpdto.NewErrorResponse("already exists", "ALREADY_EXISTS"))
	case errors.Is(err, ripple_errors.ErrContentFlagged):
		c.JSON(http.StatusUnprocessableEntity, httpdto.NewErrorResponse("message content was flagged", "CONTENT_FLAGGED"))
	default:
		c.JSON(http.StatusInternalServerError, httpdto.NewErrorResponse("request failed", "INTERNAL_ERROR"))
	}
}
