package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fieldex/fieldex/internal/config"
	"github.com/fieldex/fieldex/internal/logging"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.Default()
	cfg.Nav.StoreDir = t.TempDir()

	srv, err := NewServer(cfg, &logging.Logger{Logger: zap.NewNop()})
	require.NoError(t, err)
	return srv
}

func TestServerRoutes(t *testing.T) {
	srv := newTestServer(t)

	t.Run("root", func(t *testing.T) {
		w := httptest.NewRecorder()
		srv.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusOK, w.Code)

		var resp map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "fieldex", resp["service"])
	})

	t.Run("services registered", func(t *testing.T) {
		w := httptest.NewRecorder()
		srv.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/services", nil))
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Services []struct {
				ID string `json:"id"`
			} `json:"services"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Services, 3)
		assert.Equal(t, "menu", resp.Services[0].ID)
		assert.Equal(t, "nav", resp.Services[1].ID)
		assert.Equal(t, "record", resp.Services[2].ID)
	})

	t.Run("metrics exposed", func(t *testing.T) {
		w := httptest.NewRecorder()
		srv.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("request id echoed", func(t *testing.T) {
		w := httptest.NewRecorder()
		srv.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	})
}
