package response

import (
	"github.com/gin-gonic/gin"
)

// ErrorBody is the flat error response consumed by the exam frontend.
type ErrorBody struct {
	Error string `json:"error"`
}

// Success sends data as-is with the given status code. The exam wire contract
// uses flat payloads (no envelope), so data is the whole body.
func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, data)
}

// Fail sends a flat {"error": message} body for the given error code.
func Fail(c *gin.Context, statusCode int, code ErrCode) {
	c.JSON(statusCode, ErrorBody{Error: GetMessage(code)})
}

// FailWithFields sends an error with field-level validation details.
func FailWithFields(c *gin.Context, statusCode int, code ErrCode, fields map[string]string) {
	c.JSON(statusCode, gin.H{
		"error":  GetMessage(code),
		"campos": fields,
	})
}

// AbortFail aborts the middleware chain and sends an error response.
func AbortFail(c *gin.Context, statusCode int, code ErrCode) {
	c.AbortWithStatusJSON(statusCode, ErrorBody{Error: GetMessage(code)})
}
