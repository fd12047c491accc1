package config

import (
	"strings"
	"testing"
	"time"
)

func setRequiredEnvVars(t *testing.T) {
	t.Helper()
	t.Setenv("DISCORD_CLIENT_ID", "discord-client-id")
	t.Setenv("DISCORD_CLIENT_SECRET", "discord-client-secret")
	t.Setenv("GITHUB_CLIENT_ID", "github-client-id")
	t.Setenv("GITHUB_CLIENT_SECRET", "github-client-secret")
	t.Setenv("GEMINI_API_KEY", "test-api-key")
	t.Setenv("APP_BASE_URL", "http://localhost:3000")
}

func TestLoad_AllRequiredVarsSet_ReturnsConfig(t *testing.T) {
	setRequiredEnvVars(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.DiscordClientID != "discord-client-id" {
		t.Errorf("DiscordClientID = %q, want %q", cfg.DiscordClientID, "discord-client-id")
	}
	if cfg.GitHubClientSecret != "github-client-secret" {
		t.Errorf("GitHubClientSecret = %q, want %q", cfg.GitHubClientSecret, "github-client-secret")
	}
	if cfg.GeminiAPIKey != "test-api-key" {
		t.Errorf("GeminiAPIKey = %q, want %q", cfg.GeminiAPIKey, "test-api-key")
	}
	if cfg.BaseURL != "http://localhost:3000" {
		t.Errorf("BaseURL = %q, want %q", cfg.BaseURL, "http://localhost:3000")
	}
}

func TestLoad_MissingRequiredVars_ListsAllInError(t *testing.T) {
	setRequiredEnvVars(t)
	t.Setenv("DISCORD_CLIENT_ID", "")
	t.Setenv("GEMINI_API_KEY", "")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for missing required vars")
	}
	if !strings.Contains(err.Error(), "DISCORD_CLIENT_ID") {
		t.Errorf("error should mention DISCORD_CLIENT_ID: %v", err)
	}
	if !strings.Contains(err.Error(), "GEMINI_API_KEY") {
		t.Errorf("error should mention GEMINI_API_KEY: %v", err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnvVars(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.SessionMaxAge != 30*24*60*60 {
		t.Errorf("SessionMaxAge = %d, want %d", cfg.SessionMaxAge, 30*24*60*60)
	}
	if cfg.UpstreamTimeout != 30*time.Second {
		t.Errorf("UpstreamTimeout = %v, want %v", cfg.UpstreamTimeout, 30*time.Second)
	}
	if cfg.UpstreamRatePerMin != 60 {
		t.Errorf("UpstreamRatePerMin = %d, want 60", cfg.UpstreamRatePerMin)
	}
	if cfg.ServerPort != "8080" {
		t.Errorf("ServerPort = %q, want %q", cfg.ServerPort, "8080")
	}
	if cfg.CORSAllowedOrigin != "http://localhost:3000" {
		t.Errorf("CORSAllowedOrigin = %q, want %q", cfg.CORSAllowedOrigin, "http://localhost:3000")
	}
	if cfg.DatabaseURL != "" {
		t.Errorf("DatabaseURL should default to empty, got %q", cfg.DatabaseURL)
	}
}

func TestLoad_CookieSecure_DerivedFromBaseURL(t *testing.T) {
	setRequiredEnvVars(t)
	t.Setenv("APP_BASE_URL", "https://chat.example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if !cfg.CookieSecure {
		t.Error("CookieSecure should be true for https BaseURL")
	}
}

func TestLoad_InvalidOptionalValues_FallBackToDefaults(t *testing.T) {
	setRequiredEnvVars(t)
	t.Setenv("SESSION_MAX_AGE", "not-a-number")
	t.Setenv("UPSTREAM_TIMEOUT", "not-a-duration")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.SessionMaxAge != 30*24*60*60 {
		t.Errorf("SessionMaxAge = %d, want default", cfg.SessionMaxAge)
	}
	if cfg.UpstreamTimeout != 30*time.Second {
		t.Errorf("UpstreamTimeout = %v, want default", cfg.UpstreamTimeout)
	}
}

func TestRedirectURL_BuildsCallbackPath(t *testing.T) {
	cfg := &Config{BaseURL: "http://localhost:3000/"}

	got := cfg.RedirectURL("discord")
	want := "http://localhost:3000/api/auth/discord/callback"
	if got != want {
		t.Errorf("RedirectURL() = %q, want %q", got, want)
	}
}
