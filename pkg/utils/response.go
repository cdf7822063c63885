package utils

import "github.com/gin-gonic/gin"

// ErrorResponse represents the standard error response format
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse represents a standard success response with just a message
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorJSON sends a JSON error response with the specified HTTP status code
func ErrorJSON(ctx *gin.Context, statusCode int, message string) {
	ctx.JSON(statusCode, ErrorResponse{Error: message})
}

// MessageJSON sends a JSON success response carrying only a message
func MessageJSON(ctx *gin.Context, statusCode int, message string) {
	ctx.JSON(statusCode, MessageResponse{Message: message})
}
