package httperr

import (
	"net/http"

	"hotel-reservation-engine/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

type Response struct {
	Status int `json:"-"`
	Error  struct {
		Message string `json:"message"`
		Code    string `json:"code,omitempty"`
	} `json:"error"`
	Detail any `json:"detail,omitempty"`
}

// preserves original error for future monitoring
func AbortWithError(c *gin.Context, status int, err error, msg string, detail any) {
	if err == nil {
		panic("AbortWithError: err cannot be nil")
	}

	resp := Response{Status: status}
	resp.Error.Message = msg
	resp.Error.Code = codeFor(status)
	resp.Detail = detail

	_ = c.Error(gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}

// Abort classifies err and responds with the matching status. Internal errors never leak
// their message.
func Abort(c *gin.Context, err error) {
	status := StatusOf(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "Internal server error"
	}
	AbortWithError(c, status, err, msg, nil)
}

func StatusOf(err error) int {
	switch errs.Classify(err) {
	case errs.CategoryValidation:
		return http.StatusBadRequest
	case errs.CategoryNotFound:
		return http.StatusNotFound
	case errs.CategoryConflict:
		return http.StatusConflict
	case errs.CategoryAuthorization:
		return http.StatusForbidden
	case errs.CategoryPolicyViolation:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func codeFor(status int) string {
	switch status {
	case http.StatusBadRequest:
		return string(errs.CategoryValidation)
	case http.StatusUnauthorized:
		return "UNAUTHENTICATED"
	case http.StatusForbidden:
		return string(errs.CategoryAuthorization)
	case http.StatusNotFound:
		return string(errs.CategoryNotFound)
	case http.StatusConflict:
		return string(errs.CategoryConflict)
	case http.StatusUnprocessableEntity:
		return string(errs.CategoryPolicyViolation)
	case http.StatusTooManyRequests:
		return "RATE_LIMITED"
	default:
		return string(errs.CategoryInternal)
	}
}
