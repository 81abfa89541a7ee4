package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"repurpose/internal/config"

	"github.com/rs/zerolog"
)

func testConfig() *config.Config {
	return &config.Config{
		Environment:        "development",
		CORSAllowedOrigins: []string{"https://app.example"},
		LLMProvider:        "anthropic",
		FreeDailyLimit:     3,
		UsageStore:         "memory",
		Extractor:          "regex",
		FetchTimeoutSec:    5,
		FetchBlockPrivate:  true,
	}
}

func TestNewServesRoutes(t *testing.T) {
	h, closer, err := New(context.Background(), testConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	defer closer.Close()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("healthz status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/generate", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET /generate status = %d", rec.Code)
	}

	// No API key configured: the request is admitted, then rejected as misconfigured.
	rec = httptest.NewRecorder()
	body := `{"url":"https://a.example/post","email":"a@example.com"}`
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/generate", strings.NewReader(body)))
	if rec.Code != http.StatusInternalServerError || !strings.Contains(rec.Body.String(), "API key not configured") {
		t.Errorf("status %d body %s", rec.Code, rec.Body)
	}
}

func TestNewCORSPreflight(t *testing.T) {
	h, closer, err := New(context.Background(), testConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	defer closer.Close()

	req := httptest.NewRequest(http.MethodOptions, "/generate", nil)
	req.Header.Set("Origin", "https://app.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
}

func TestNewSQLiteStore(t *testing.T) {
	cfg := testConfig()
	cfg.UsageStore = "sqlite"
	cfg.SQLitePath = filepath.Join(t.TempDir(), "usage.db")

	_, closer, err := New(context.Background(), cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if err := closer.Close(); err != nil {
		t.Errorf("Close returned error: %v", err)
	}
}

func TestNewRejectsBadSettings(t *testing.T) {
	cases := map[string]func(*config.Config){
		"unknown store":     func(c *config.Config) { c.UsageStore = "cassandra" },
		"unknown extractor": func(c *config.Config) { c.Extractor = "magic" },
		"unknown provider":  func(c *config.Config) { c.LLMProvider = "llama" },
		"postgres no dsn":   func(c *config.Config) { c.UsageStore = "postgres" },
		"redis no url":      func(c *config.Config) { c.UsageStore = "redis" },
	}
	for name, mut := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := testConfig()
			mut(cfg)
			if _, _, err := New(context.Background(), cfg, zerolog.Nop()); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestPrepareDSN(t *testing.T) {
	tests := []struct {
		dsn         string
		development bool
		want        string
	}{
		{"postgres://u:p@localhost:5432/db", true, "postgres://u:p@localhost:5432/db?sslmode=disable"},
		{"postgres://u:p@localhost:5432/db?sslmode=require", true, "postgres://u:p@localhost:5432/db?sslmode=require"},
		{"host=localhost dbname=db", true, "host=localhost dbname=db sslmode=disable"},
		{"postgres://u:p@db:6543/db?sslmode=require", false, "postgres://u:p@db:6543/db?sslmode=require&default_query_exec_mode=simple_protocol"},
	}
	for _, tt := range tests {
		if got := prepareDSN(tt.dsn, tt.development); got != tt.want {
			t.Errorf("prepareDSN(%q, %v) = %q, want %q", tt.dsn, tt.development, got, tt.want)
		}
	}
}
