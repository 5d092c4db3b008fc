package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/billiards/internal/config"
	"github.com/playmatatu/billiards/internal/table"
	"github.com/playmatatu/billiards/internal/ws"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Environment:         "development",
		FrontendURL:         "http://localhost:5173",
		JWTSecret:           "test-secret",
		SeatTokenTTLMinutes: 60,
	}

	ctx, cancel := context.WithCancel(context.Background())
	hub := ws.NewHub()
	go hub.Run(ctx)
	m := table.NewManager(ctx, cfg, nil, nil, hub)
	t.Cleanup(func() {
		m.Shutdown()
		cancel()
	})

	router := gin.New()
	SetupRoutes(router, nil, nil, cfg, m, hub)
	return router
}

func TestRoutesServePublicEndpoints(t *testing.T) {
	r := newTestRouter(t)

	for _, path := range []string{"/api/v1/health", "/api/v1/table/geometry"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusOK {
			t.Errorf("GET %s = %d, want 200", path, w.Code)
		}
		if w.Header().Get("Cache-Control") == "" {
			t.Errorf("GET %s missing dev no-cache header", path)
		}
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/table", nil))
	if w.Code != http.StatusCreated {
		t.Errorf("POST /api/v1/table = %d, want 201", w.Code)
	}
}

func TestRoutesProtectAdmin(t *testing.T) {
	r := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/admin/tables", nil))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("admin without credentials = %d, want 401", w.Code)
	}
}

func TestRoutesWebSocketNeedsSeatToken(t *testing.T) {
	r := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/table/table_x/ws", nil))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("ws without token = %d, want 401", w.Code)
	}
}
