package models

import "github.com/gin-gonic/gin"

// ApiResponse is the envelope every HTTP endpoint answers with.
type ApiResponse struct {
	Message         string `json:"message"`
	Data            any    `json:"data,omitempty"`
	Error           bool   `json:"error,omitempty"`
	RequestedEntity string `json:"requested_entity,omitempty"`
}

func SuccessResponse(c *gin.Context, message string, data any) ApiResponse {
	return ApiResponse{
		Message:         message,
		Data:            data,
		RequestedEntity: c.Request.Method + " " + c.FullPath(),
	}
}

func ErrorResponse(c *gin.Context, message string) ApiResponse {
	return ApiResponse{
		Message:         message,
		Error:           true,
		RequestedEntity: c.Request.Method + " " + c.FullPath(),
	}
}
