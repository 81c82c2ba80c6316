package handlers

import (
	"time"

	"github.com/chatbridge/gateway/internal/agent"
	"github.com/chatbridge/gateway/internal/history"
	"github.com/chatbridge/gateway/internal/logging"
	"gorm.io/gorm"
)

const serviceName = "chat-gateway"

type Handler struct {
	DB      *gorm.DB
	History *history.Service
	Agent   *agent.Client
	Log     *logging.Logger

	started time.Time
}

func New(gdb *gorm.DB, agentClient *agent.Client, log *logging.Logger) *Handler {
	repo := history.NewRepo(gdb)
	return &Handler{
		DB:      gdb,
		History: history.NewService(repo),
		Agent:   agentClient,
		Log:     log,
		started: time.Now(),
	}
}
