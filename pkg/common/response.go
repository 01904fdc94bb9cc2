package common

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response is the standard API response envelope
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Meta    interface{} `json:"meta,omitempty"`
}

// SuccessResponse writes a 200 response with the standard envelope
func SuccessResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

// CreatedResponse writes a 201 response with the standard envelope
func CreatedResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{Success: true, Data: data})
}

// SuccessResponseWithMeta writes a 200 response with pagination metadata
func SuccessResponseWithMeta(c *gin.Context, data interface{}, meta interface{}) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data, Meta: meta})
}

// ErrorResponse writes an error response with the given status code
func ErrorResponse(c *gin.Context, status int, message string) {
	c.JSON(status, Response{Success: false, Error: message})
}

// AppErrorResponse maps an error onto the envelope. AppErrors carry their
// own status; anything else becomes a 500.
func AppErrorResponse(c *gin.Context, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.Code, Response{Success: false, Error: appErr.Message})
		return
	}
	c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "internal server error"})
}
