package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

const (
	timeoutKey = "requestTimeout"

	DefaultTimeout = 5 * time.Second
)

// Deadline stores the per-request store budget for handlers to read with
// Timeout. Non-positive durations fall back to DefaultTimeout.
func Deadline(d time.Duration) gin.HandlerFunc {
	if d <= 0 {
		d = DefaultTimeout
	}
	return func(c *gin.Context) {
		c.Set(timeoutKey, d)
		c.Next()
	}
}

func Timeout(c *gin.Context) time.Duration {
	if d := c.GetDuration(timeoutKey); d > 0 {
		return d
	}
	return DefaultTimeout
}
