package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/chatbridge/gateway/internal/db"
	"github.com/gin-gonic/gin"
)

const probeTimeout = 2 * time.Second

// Health reports gateway liveness plus store and agent connectivity.
// Always 200; degraded dependencies show up in the payload.
func (h *Handler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), probeTimeout)
	defer cancel()

	dbStatus := "connected"
	if err := db.Ping(ctx, h.DB); err != nil {
		dbStatus = "disconnected"
	}

	agentStatus := "reachable"
	if _, err := h.Agent.Status(ctx); err != nil {
		agentStatus = "unreachable"
	}

	status := "ok"
	if dbStatus != "connected" || agentStatus != "reachable" {
		status = "degraded"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    status,
		"service":   serviceName,
		"uptime":    time.Since(h.started).Seconds(),
		"database":  dbStatus,
		"agent":     agentStatus,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
