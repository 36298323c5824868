package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	marianerrors "github.com/mongodb/marian/internal/errors"
)

// ErrorCode is a wire-stable error identifier included in error responses.
type ErrorCode string

const (
	ErrorCodeStillIndexing   ErrorCode = "STILL_INDEXING"
	ErrorCodeBacklogExceeded ErrorCode = "BACKLOG_EXCEEDED"
	ErrorCodePoolUnavailable ErrorCode = "POOL_UNAVAILABLE"
	ErrorCodeQueryTooLong    ErrorCode = "QUERY_TOO_LONG"
	ErrorCodeAlreadyIndexing ErrorCode = "ALREADY_INDEXING"
	ErrorCodeNotFound        ErrorCode = "NOT_FOUND"
	ErrorCodeInvalidRequest  ErrorCode = "INVALID_REQUEST"
	ErrorCodeInternalError   ErrorCode = "INTERNAL_ERROR"
)

// APIError is the standardized error response body.
type APIError struct {
	Error   string    `json:"error"`
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// SendError writes a standardized error response.
func SendError(c *gin.Context, statusCode int, code ErrorCode, message string) {
	c.JSON(statusCode, APIError{Error: "request failed", Code: code, Message: message})
}

// SendSearchError maps one of §6/§7's wire-stable sentinel errors to its
// HTTP status code: still-indexing/backlog-exceeded/pool-unavailable → 503,
// query-too-long → 400, anything else → 500.
func SendSearchError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, marianerrors.ErrStillIndexing):
		SendError(c, http.StatusServiceUnavailable, ErrorCodeStillIndexing, err.Error())
	case errors.Is(err, marianerrors.ErrBacklogExceeded):
		SendError(c, http.StatusServiceUnavailable, ErrorCodeBacklogExceeded, err.Error())
	case errors.Is(err, marianerrors.ErrPoolUnavailable):
		SendError(c, http.StatusServiceUnavailable, ErrorCodePoolUnavailable, err.Error())
	case errors.Is(err, marianerrors.ErrQueryTooLong):
		SendError(c, http.StatusBadRequest, ErrorCodeQueryTooLong, err.Error())
	default:
		SendError(c, http.StatusInternalServerError, ErrorCodeInternalError, err.Error())
	}
}

// SendInternalError sends a standardized internal server error.
func SendInternalError(c *gin.Context, operation string, err error) {
	SendError(c, http.StatusInternalServerError, ErrorCodeInternalError, "internal error during "+operation+": "+err.Error())
}
