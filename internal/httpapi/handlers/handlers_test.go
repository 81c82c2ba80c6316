package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/chatbridge/gateway/internal/agent"
	"github.com/chatbridge/gateway/internal/config"
	"github.com/chatbridge/gateway/internal/db"
	"github.com/chatbridge/gateway/internal/httpapi"
	"github.com/chatbridge/gateway/internal/logging"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestEnv(t *testing.T, agentURL string) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb, err := db.Open("sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	t.Cleanup(func() { _ = db.Close(gdb) })

	cfg := config.Config{
		AppEnv:       "test",
		AgentBaseURL: agentURL,
		AgentTimeout: 2 * time.Second,
	}
	log := logging.NewWriter(io.Discard, "silent")
	client := agent.NewClient(agentURL, cfg.AgentTimeout)

	return httpapi.NewRouter(gdb, cfg, log, client), gdb
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}
