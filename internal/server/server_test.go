package server_test

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/alkime/fader/internal/config"
	"github.com/alkime/fader/internal/scale"
	"github.com/alkime/fader/internal/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*server.Server, *server.Bridge, *server.Bridge, *[]float64) {
	t.Helper()

	cfg := &config.Config{
		Env:       "test",
		LogLevel:  "info",
		ServeAddr: "127.0.0.1:0",
	}

	// Create a test logger (only show errors during tests)
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))

	level := server.NewBridge(0)
	peak := server.NewPeakBridge()

	var sent []float64
	srv := server.New(cfg, logger, scale.Decibel(), level, peak, func(db float64) {
		sent = append(sent, db)
	})

	return srv, level, peak, &sent
}

func TestHealthEndpoint(t *testing.T) {
	srv, _, _, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	srv.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code, "Health endpoint should return 200 OK")
	assert.Contains(t, w.Body.String(), "healthy", "Response should contain 'healthy'")
	assert.Contains(t, w.Body.String(), "fader", "Response should contain service name 'fader'")
}

func TestGetLevel(t *testing.T) {
	srv, level, _, _ := newTestServer(t)
	level.Set(-12.5)

	req := httptest.NewRequest(http.MethodGet, "/api/level", nil)
	w := httptest.NewRecorder()

	srv.Router().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"db": -12.5}`, w.Body.String())
}

func TestPutLevel(t *testing.T) {
	srv, _, _, sent := newTestServer(t)

	req := httptest.NewRequest(http.MethodPut, "/api/level", strings.NewReader(`{"db": -6}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	srv.Router().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, []float64{-6}, *sent, "Level change should be forwarded to the UI")
	assert.JSONEq(t, `{"db": -6}`, w.Body.String())
}

func TestPutLevelClampsToRange(t *testing.T) {
	srv, _, _, sent := newTestServer(t)

	req := httptest.NewRequest(http.MethodPut, "/api/level", strings.NewReader(`{"db": 99}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	srv.Router().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, []float64{10}, *sent, "Out-of-range levels should clamp to the scale")
}

func TestPutLevelRejectsBadJSON(t *testing.T) {
	srv, _, _, sent := newTestServer(t)

	req := httptest.NewRequest(http.MethodPut, "/api/level", strings.NewReader(`not json`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	srv.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, *sent, "Malformed requests should not reach the UI")
}

func TestGetPeak(t *testing.T) {
	srv, _, peak, _ := newTestServer(t)

	// Silence: no finite dBFS value
	req := httptest.NewRequest(http.MethodGet, "/api/peak", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"dbfs": null, "silence": true}`, w.Body.String())

	peak.Set(-3.5)

	w = httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/peak", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"dbfs": -3.5, "silence": false}`, w.Body.String())
}

func TestSecurityHeaders(t *testing.T) {
	srv, _, _, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	srv.Router().ServeHTTP(w, req)

	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
}
