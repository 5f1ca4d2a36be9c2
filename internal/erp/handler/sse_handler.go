package handler

import (
	"io"
	"strings"
	"time"

	"github.com/Unload-CM/dmc-erp/internal/erp/sse"
	"github.com/gin-gonic/gin"
)

const keepaliveInterval = 30 * time.Second

// SSEHandler 변경 알림 스트림
type SSEHandler struct {
	hub *sse.Hub
}

func NewSSEHandler(hub *sse.Hub) *SSEHandler {
	return &SSEHandler{hub: hub}
}

// Stream GET /api/v1/events?token=xxx&collections=inventory,purchase_orders
// Without collections every change is streamed.
func (h *SSEHandler) Stream(c *gin.Context) {
	var collections []string
	for _, name := range strings.Split(c.Query("collections"), ",") {
		if name = strings.TrimSpace(name); name != "" {
			collections = append(collections, name)
		}
	}

	client := h.hub.Subscribe(GetUserID(c), collections)

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	io.WriteString(c.Writer, "retry: 5000\n\n")
	c.SSEvent("connected", gin.H{"client_id": client.ID})
	c.Writer.Flush()

	heartbeat := time.NewTicker(keepaliveInterval)
	defer heartbeat.Stop()

	gone := c.Request.Context().Done()
	for {
		select {
		case <-gone:
			h.hub.Unregister(client.ID)
			return
		case ev, ok := <-client.Events:
			if !ok {
				return
			}
			c.SSEvent(ev.EventType, ev.Data)
		case <-heartbeat.C:
			io.WriteString(c.Writer, ": keepalive\n\n")
		}
		c.Writer.Flush()
	}
}
