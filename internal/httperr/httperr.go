package httperr

import (
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

func Forbidden(c *gin.Context, code, message string) {
	Write(c, http.StatusForbidden, code, message)
}

func StatusFor(kind Kind) int {
	switch kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

// FromError writes the response for an error returned by a use case.
// Anything that is not a BusinessError is treated as infrastructure.
func FromError(c *gin.Context, err error) {
	if be, ok := AsBusiness(err); ok {
		Write(c, StatusFor(be.Kind), be.Code, be.Message)
		return
	}

	_ = c.Error(err)
	if hub := sentry.CurrentHub(); hub.Client() != nil {
		hub.CaptureException(err)
	}

	if IsTimeout(err) {
		Write(c, http.StatusServiceUnavailable, "service_unavailable", "Service temporarily unavailable, try again.")
		return
	}
	Internal(c, "internal_error", "Internal server error.")
}
