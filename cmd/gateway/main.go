package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chatbridge/gateway/internal/agent"
	"github.com/chatbridge/gateway/internal/config"
	"github.com/chatbridge/gateway/internal/db"
	"github.com/chatbridge/gateway/internal/httpapi"
	"github.com/chatbridge/gateway/internal/logging"
)

func main() {
	cfg := config.Load()
	log := logging.New(cfg.LogLevel, cfg.Production())

	gdb, err := db.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("open store")
	}
	if err := db.Migrate(gdb); err != nil {
		log.Fatal().Err(err).Msg("migrate store")
	}

	agentClient := agent.NewClient(cfg.AgentBaseURL, cfg.AgentTimeout)
	router := httpapi.NewRouter(gdb, cfg, log, agentClient)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       time.Minute,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server")
		}
	}()

	log.Info().
		Str("addr", cfg.HTTPAddr).
		Str("db_driver", cfg.DBDriver).
		Str("agent", cfg.AgentBaseURL).
		Msg("gateway started")

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
	if err := db.Close(gdb); err != nil {
		log.Error().Err(err).Msg("close store")
	}
	log.Info().Msg("gateway stopped")
}
