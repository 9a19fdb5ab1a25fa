package util

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response is the data payload of a successful API reply.
type Response map[string]interface{}

// business codes carried next to the HTTP status
const (
	CodeOK           = 0
	CodeInvalidParam = 40001
	CodeAuth         = 40101
	CodeNotFound     = 40401
	CodeServerErr    = 50001
)

// Success writes the uniform success envelope.
func Success(c *gin.Context, data Response) {
	c.JSON(http.StatusOK, gin.H{
		"code": CodeOK,
		"data": data,
	})
}

// Error writes the uniform error envelope. Prefer the shorthands below;
// Error itself covers the odd statuses (403 for closed registration, 409
// for a session conflict) that none of them map to.
func Error(c *gin.Context, httpStatus int, code int, msg string) {
	c.JSON(httpStatus, gin.H{
		"code":    code,
		"message": msg,
	})
}

// Invalid rejects bad input: malformed ids, unknown forms, short passwords.
func Invalid(c *gin.Context, msg string) {
	Error(c, http.StatusBadRequest, CodeInvalidParam, msg)
}

// Unauthorized covers bad credentials and missing or stale session tokens.
func Unauthorized(c *gin.Context, msg string) {
	Error(c, http.StatusUnauthorized, CodeAuth, msg)
}

// NotFound covers lookups of students or operators that do not exist.
func NotFound(c *gin.Context, msg string) {
	Error(c, http.StatusNotFound, CodeNotFound, msg)
}

// ServerError covers storage and rendering failures the caller cannot fix.
func ServerError(c *gin.Context, msg string) {
	Error(c, http.StatusInternalServerError, CodeServerErr, msg)
}
