package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response is the JSON envelope of every /api/v1 lobby reply. Exactly one of
// Data and Error is set.
type Response struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`
}

// ErrorInfo carries a stable machine code plus the text a lobby surface shows.
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Success answers 200 with a room, a room list or a join notice.
func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    data,
	})
}

// Created answers 201 with a newly created room.
func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, Response{
		Success: true,
		Data:    data,
	})
}

// Error answers statusCode with code and message in the envelope.
func Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, Response{
		Success: false,
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
		},
	})
}

// BadRequest rejects a body that does not bind.
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, "BAD_REQUEST", message)
}

// EmptyName rejects a blank room name with the alert text.
func EmptyName(c *gin.Context, message string) {
	Error(c, http.StatusUnprocessableEntity, "EMPTY_NAME", message)
}

// Unauthorized rejects a bearer token that does not validate.
func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, "UNAUTHORIZED", message)
}

// NotFound covers a missing room and one the caller may not modify.
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, "NOT_FOUND", message)
}

// PreconditionRequired answers a delete sent without confirm=true.
func PreconditionRequired(c *gin.Context, message string) {
	Error(c, http.StatusPreconditionRequired, "CONFIRMATION_REQUIRED", message)
}

// InternalError hides storage failures behind a generic message.
func InternalError(c *gin.Context, message string) {
	Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", message)
}
