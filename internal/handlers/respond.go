package handlers

import (
	"strconv"

	"restopos/internal/apierr"

	"github.com/gin-gonic/gin"
)

// respondOK writes the success envelope.
func respondOK(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{"ok": true, "data": data})
}

// respondErr writes the failure envelope with the error's HTTP status.
func respondErr(c *gin.Context, e *apierr.Error) {
	c.JSON(e.Status, gin.H{
		"ok":      false,
		"error":   e.Code,
		"message": e.Message,
		"details": e.Details,
	})
}

func badInput(c *gin.Context, message string) {
	respondErr(c, apierr.Validation(message))
}

// idParam parses a numeric path parameter; 0 means invalid.
func idParam(c *gin.Context, name string) uint {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		return 0
	}
	return uint(v)
}

func currentUserID(c *gin.Context) uint {
	return c.MustGet("userID").(uint)
}

// NotFoundRoute is the catch-all for unknown endpoints.
func NotFoundRoute(c *gin.Context) {
	respondErr(c, apierr.NotFound("Endpoint not found"))
}
