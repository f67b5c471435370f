// Package response defines the JSON envelope every endpoint returns.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Status string

const (
	StatusSuccess  Status = "Success"
	StatusError    Status = "Error"
	StatusFailure  Status = "Failure"
	StatusConflict Status = "Conflict"
)

// ErrorDetail is the error variant of the payload.
type ErrorDetail struct {
	Code   string `json:"code"`
	Detail string `json:"detail,omitempty"`
}

// Envelope holds exactly one of Data (success) or Error (failure).
type Envelope struct {
	Status  Status       `json:"status"`
	Message string       `json:"msg"`
	Data    any          `json:"data,omitempty"`
	Error   *ErrorDetail `json:"error,omitempty"`
}

func Success(msg string, data any) Envelope {
	if data == nil {
		data = struct{}{}
	}
	return Envelope{Status: StatusSuccess, Message: msg, Data: data}
}

func Fail(status Status, msg, code, detail string) Envelope {
	return Envelope{
		Status:  status,
		Message: msg,
		Error:   &ErrorDetail{Code: code, Detail: detail},
	}
}

// OK writes a 200 success envelope.
func OK(c *gin.Context, msg string, data any) {
	c.JSON(http.StatusOK, Success(msg, data))
}

// Abort writes an error envelope and stops the handler chain.
func Abort(c *gin.Context, httpStatus int, env Envelope) {
	c.AbortWithStatusJSON(httpStatus, env)
}
