package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Body is the envelope shared by every error response.
type Body struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// Success writes {"success": true} merged with fields.
func Success(c *gin.Context, status int, fields gin.H) {
	if status == 0 {
		status = http.StatusOK
	}
	out := make(gin.H, len(fields)+1)
	for k, v := range fields {
		out[k] = v
	}
	out["success"] = true
	c.JSON(status, out)
}

// Error writes {"success": false, "message": message}.
func Error(c *gin.Context, status int, message string) {
	if status == 0 {
		status = http.StatusBadRequest
	}
	c.JSON(status, Body{Success: false, Message: message})
}

// Abort writes an error and stops the handler chain.
func Abort(c *gin.Context, status int, message string) {
	Error(c, status, message)
	c.Abort()
}
