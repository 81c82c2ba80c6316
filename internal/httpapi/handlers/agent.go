package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/chatbridge/gateway/internal/agent"
	"github.com/chatbridge/gateway/internal/apperr"
	"github.com/gin-gonic/gin"
)

// mapAgentErr translates agent client failures: transport failures become a
// fixed 502, upstream error responses are relayed with their own status.
func mapAgentErr(err error) error {
	var ue *agent.UpstreamError
	if errors.As(err, &ue) {
		return apperr.Upstream(ue.StatusCode, ue.Message)
	}
	if errors.Is(err, agent.ErrUnavailable) {
		return apperr.UpstreamUnavailable("agent service unavailable")
	}
	return err
}

func (h *Handler) AgentChat(c *gin.Context) {
	var req agent.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperr.BadRequest("invalid json body"))
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		_ = c.Error(apperr.BadRequest("message is required"))
		return
	}

	raw, err := h.Agent.Chat(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(mapAgentErr(err))
		return
	}
	relayJSON(c, raw)
}

func (h *Handler) AgentStatus(c *gin.Context) {
	raw, err := h.Agent.Status(c.Request.Context())
	if err != nil {
		_ = c.Error(mapAgentErr(err))
		return
	}
	relayJSON(c, raw)
}

func (h *Handler) AgentTools(c *gin.Context) {
	raw, err := h.Agent.Tools(c.Request.Context())
	if err != nil {
		_ = c.Error(mapAgentErr(err))
		return
	}
	relayJSON(c, raw)
}

func relayJSON(c *gin.Context, raw json.RawMessage) {
	c.Data(http.StatusOK, "application/json; charset=utf-8", raw)
}
