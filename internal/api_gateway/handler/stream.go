package handler

import (
	"io"
	"time"

	"github.com/gin-gonic/gin"
)

const streamHeartbeat = 25 * time.Second

// streamEvents writes every update as a server-sent event named event,
// with a ping between updates, until updates is closed.
func streamEvents[T any](c *gin.Context, event string, updates <-chan T, heartbeat time.Duration) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	ticker := time.NewTicker(heartbeat)
	defer ticker.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case u, ok := <-updates:
			if !ok {
				return false
			}
			c.SSEvent(event, u)
			return true
		case t := <-ticker.C:
			c.SSEvent("ping", t.UTC().Format(time.RFC3339))
			return true
		}
	})
}
