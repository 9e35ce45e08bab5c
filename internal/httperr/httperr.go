package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Kind    string `json:"kind,omitempty"`
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

// StatusFor maps a business kind to its HTTP status.
func StatusFor(kind Kind) int {
	switch kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindExpired:
		return http.StatusGone
	case KindInvalidState, KindInvalidTransition, KindAlreadyCompleted:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

var messages = map[Kind]string{
	KindValidation:        "Invalid input.",
	KindInvalidState:      "Operation not allowed in the current state.",
	KindInvalidTransition: "Status transition not allowed.",
	KindNotFound:          "Resource not found.",
	KindExpired:           "This invitation is no longer valid.",
	KindAlreadyCompleted:  "Booking already completed.",
}

// FromError writes the response for an engine error. Non-business errors are
// reported as internal with the given fallback code.
func FromError(c *gin.Context, err error, fallbackCode string) {
	var be BusinessError
	if errors.As(err, &be) {
		c.JSON(StatusFor(be.Kind), HTTPError{
			Code:    be.Code,
			Kind:    string(be.Kind),
			Message: messages[be.Kind],
		})
		return
	}
	_ = c.Error(err)
	Internal(c, fallbackCode, "Internal error.")
}
