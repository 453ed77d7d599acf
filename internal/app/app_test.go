package app

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newMemoryApp(t *testing.T) *App {
	t.Helper()

	t.Setenv("PARLEY_TOKEN_SECRET", strings.Repeat("s", 32))
	t.Setenv("PARLEY_DATABASE_URL", "")
	// Keep hashing cheap in tests.
	t.Setenv("PARLEY_ARGON2_MEMORY_KIB", "8192")
	t.Setenv("PARLEY_ARGON2_ITERATIONS", "1")
	t.Setenv("PARLEY_ARGON2_PARALLELISM", "1")

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	a, err := New(LoadConfig(), log)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return a
}

func TestApp_HealthAndReadiness(t *testing.T) {
	a := newMemoryApp(t)

	srv := httptest.NewServer(a.Handler())
	t.Cleanup(srv.Close)

	for _, path := range []string{"/healthz", "/readyz"} {
		resp, err := srv.Client().Get(srv.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		_ = resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("GET %s status=%d", path, resp.StatusCode)
		}
	}
}

func TestApp_ReadinessRequiresDB(t *testing.T) {
	t.Setenv("PARLEY_READINESS_REQUIRE_DB", "true")
	a := newMemoryApp(t)

	srv := httptest.NewServer(a.Handler())
	t.Cleanup(srv.Close)

	resp, err := srv.Client().Get(srv.URL + "/readyz")
	if err != nil {
		t.Fatalf("GET /readyz: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 without DB, got %d", resp.StatusCode)
	}
}

func TestApp_MetricsExposed(t *testing.T) {
	a := newMemoryApp(t)

	srv := httptest.NewServer(a.Handler())
	t.Cleanup(srv.Close)

	// Generate one request so the counter exists.
	resp, err := srv.Client().Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	_ = resp.Body.Close()

	resp, err = srv.Client().Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /metrics status=%d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if !strings.Contains(string(body), "http_requests_total") {
		t.Fatalf("metrics output missing http_requests_total")
	}
}

func TestApp_ServesAPIRoutes(t *testing.T) {
	a := newMemoryApp(t)

	srv := httptest.NewServer(a.Handler())
	t.Cleanup(srv.Close)

	resp, err := srv.Client().Post(srv.URL+"/user", "application/json",
		strings.NewReader(`{"email":"alice@x.com","password":"password123","nickname":"Alice"}`))
	if err != nil {
		t.Fatalf("POST /user: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("POST /user status=%d", resp.StatusCode)
	}

	resp, err = srv.Client().Get(srv.URL + "/user/alice@x.com")
	if err != nil {
		t.Fatalf("GET /user/alice@x.com: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /user/alice@x.com status=%d", resp.StatusCode)
	}
}

func TestApp_RequiresTokenSecret(t *testing.T) {
	t.Setenv("PARLEY_TOKEN_SECRET", "")

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	if _, err := New(LoadConfig(), log); err == nil {
		t.Fatalf("expected error without token secret")
	}
}
