package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/wricardo/warboard/game/engine"
	"github.com/wricardo/warboard/transport/mcp"
	"go.uber.org/zap"
)

func TestConstants(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}

	expectedAppName := "Warboard Server"
	if AppName != expectedAppName {
		t.Errorf("Expected app name %s, got %s", expectedAppName, AppName)
	}
}

func TestInitializeServices(t *testing.T) {
	originalPresetDir := *presetDir
	*presetDir = "configs"
	defer func() { *presetDir = originalPresetDir }()

	if _, err := os.Stat("configs"); os.IsNotExist(err) {
		t.Skip("Skipping test - configs directory not found")
	}

	app, err := initializeServices(zap.NewNop())
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}

	if app.game == nil || app.sessions == nil || app.notifier == nil {
		t.Fatal("Expected all services to be initialized")
	}
	if app.sessions.Notifier() != app.notifier {
		t.Error("Session manager should publish through the shared notifier")
	}
}

func TestInitializeServices_InvalidPresetDir(t *testing.T) {
	originalPresetDir := *presetDir
	*presetDir = "/non/existent/path"
	defer func() { *presetDir = originalPresetDir }()

	if _, err := initializeServices(zap.NewNop()); err == nil {
		t.Error("Expected error for non-existent preset directory")
	}
}

func TestFlagDefaults(t *testing.T) {
	if *port <= 0 || *port > 65535 {
		t.Errorf("Invalid default port: %d", *port)
	}
	if *host == "" {
		t.Error("Host should have a default value")
	}
	if *presetDir == "" {
		t.Error("Preset directory should have a default value")
	}
	if *sessionTTL <= 0 {
		t.Errorf("Invalid default session TTL: %v", *sessionTTL)
	}
}

func TestGetSessionTTLDefault(t *testing.T) {
	tests := []struct {
		env      string
		expected time.Duration
	}{
		{"", 24 * time.Hour},
		{"2h", 2 * time.Hour},
		{"garbage", 24 * time.Hour},
		{"-5m", 24 * time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			t.Setenv("SESSION_TTL", tt.env)
			if got := getSessionTTLDefault(); got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestGetPresetDirDefault(t *testing.T) {
	t.Setenv("PRESET_DIR", "")
	if got := getPresetDirDefault(); got != "configs" {
		t.Errorf("Expected configs, got %s", got)
	}

	t.Setenv("PRESET_DIR", "/srv/presets")
	if got := getPresetDirDefault(); got != "/srv/presets" {
		t.Errorf("Expected /srv/presets, got %s", got)
	}
}

func TestNgrokShouldRun(t *testing.T) {
	t.Setenv("NGROK_ENABLED", "")
	if ngrokShouldRun() {
		t.Error("ngrok should be off by default")
	}

	t.Setenv("NGROK_ENABLED", "1")
	if !ngrokShouldRun() {
		t.Error("NGROK_ENABLED=1 should enable ngrok")
	}
}

func TestNgrokAuthToken(t *testing.T) {
	t.Setenv("NGROK_AUTHTOKEN", "")
	t.Setenv("NGROK_AUTH_TOKEN", "underscore")
	if got := ngrokAuthToken(); got != "underscore" {
		t.Errorf("Expected fallback token, got %q", got)
	}

	t.Setenv("NGROK_AUTHTOKEN", "primary")
	if got := ngrokAuthToken(); got != "primary" {
		t.Errorf("Expected NGROK_AUTHTOKEN to win, got %q", got)
	}
}

func TestNewAPIHandler(t *testing.T) {
	originalPresetDir := *presetDir
	*presetDir = "configs"
	defer func() { *presetDir = originalPresetDir }()

	if _, err := os.Stat("configs"); os.IsNotExist(err) {
		t.Skip("Skipping test - configs directory not found")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := initializeServices(zap.NewNop())
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}

	server := httptest.NewServer(newAPIHandler(ctx, app, zap.NewNop()))
	defer server.Close()

	resp, err := http.Post(server.URL+"/api/create_game", "application/json", strings.NewReader(`{"primary_side":"Blue"}`))
	if err != nil {
		t.Fatalf("create_game failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d", resp.StatusCode)
	}

	var info struct {
		ID          string      `json:"id"`
		PrimarySide engine.Side `json:"primary_side"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if info.PrimarySide != engine.Blue {
		t.Errorf("Expected primary side Blue, got %s", info.PrimarySide)
	}
	if !app.sessions.Exists(info.ID) {
		t.Error("Game created over HTTP should be in the session store")
	}
}

func TestMCPHandler(t *testing.T) {
	handler := mcpHandler(mcp.NewClient("http://localhost:0"))

	t.Run("rejects GET", func(t *testing.T) {
		rr := httptest.NewRecorder()
		handler(rr, httptest.NewRequest(http.MethodGet, "/mcp", nil))
		if rr.Code != http.StatusMethodNotAllowed {
			t.Errorf("Expected status 405, got %d", rr.Code)
		}
	})

	t.Run("lists tools", func(t *testing.T) {
		body := `{"jsonrpc":"2.0","id":1,"method":"tools/list","params":{}}`
		rr := httptest.NewRecorder()
		handler(rr, httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader(body)))

		if rr.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", rr.Code)
		}
		for _, tool := range []string{"create_game", "move_piece", "submit_setup"} {
			if !strings.Contains(rr.Body.String(), tool) {
				t.Errorf("Expected tool %s in tools/list response", tool)
			}
		}
	})
}
