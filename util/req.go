package util

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hushmail/hushmail-be/log"
)

const (
	ErrCodeNotAuthenticated = "NOT_AUTHENTICATED"
	ErrCodeInvalidData      = "INVALID_DATA"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeForbidden        = "FORBIDDEN"
	ErrCodeRateLimited      = "RATE_LIMITED"
	ErrCodeInternal         = "INTERNAL_ERROR"
)

type HTTPError struct {
	Status  int
	Code    string
	Message string
	// Fields holds per-field validation messages keyed by JSON field name.
	Fields map[string]string
	// IError is the underlying cause. It is only rendered outside release mode.
	IError error
}

func (he *HTTPError) Error() string {
	return fmt.Sprintf("%v (statusCode=%v)", he.Message, he.Status)
}

var (
	UnauthenticatedHTTPErr = HTTPError{
		Status:  http.StatusUnauthorized,
		Code:    ErrCodeNotAuthenticated,
		Message: "Not authenticated",
	}
)

func NotFoundHTTPErr(message string) *HTTPError {
	return &HTTPError{Status: http.StatusNotFound, Code: ErrCodeNotFound, Message: message}
}

func ForbiddenHTTPErr(message string) *HTTPError {
	return &HTTPError{Status: http.StatusForbidden, Code: ErrCodeForbidden, Message: message}
}

func ValidationHTTPErr(fields map[string]string) *HTTPError {
	return &HTTPError{
		Status:  http.StatusBadRequest,
		Code:    ErrCodeInvalidData,
		Message: "validation failed",
		Fields:  fields,
	}
}

func BadRequestHTTPErr(message string, cause error) *HTTPError {
	return &HTTPError{Status: http.StatusBadRequest, Code: ErrCodeInvalidData, Message: message, IError: cause}
}

// BuildDbHTTPErr logs the store failure and hides it behind a generic 500.
func BuildDbHTTPErr(err error) *HTTPError {
	log.Error.Println("database error occurred", err)
	return &HTTPError{
		Status:  http.StatusInternalServerError,
		Code:    ErrCodeInternal,
		Message: "database error",
		IError:  err,
	}
}

type HandlerOpts struct {
	// SuccessStatus overrides the 200 used for successful responses.
	SuccessStatus int
}

type Handler func(c *gin.Context) (interface{}, *HTTPError)

func HandlerWrapper(handler Handler, opts *HandlerOpts) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, httpErr := handler(c)
		if httpErr != nil {
			HandleHTTPErrorRes(c, httpErr)
			return
		}
		status := http.StatusOK
		if opts != nil && opts.SuccessStatus != 0 {
			status = opts.SuccessStatus
		}
		if res == nil {
			c.JSON(status, gin.H{"success": true})
			return
		}
		c.JSON(status, res)
	}
}

/*
HandleHTTPErrorRes handles creating the appropriate response for the HTTP error.
break the route after calling this function
*/
func HandleHTTPErrorRes(c *gin.Context, err *HTTPError) {
	body := gin.H{
		"success": false,
		"message": err.Message,
		"code":    err.Code,
	}
	if len(err.Fields) > 0 {
		body["errors"] = err.Fields
	}
	if err.IError != nil && gin.Mode() != gin.ReleaseMode {
		body["details"] = err.IError.Error()
	}
	c.AbortWithStatusJSON(err.Status, body)
}
