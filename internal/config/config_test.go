package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("OWNER_ID", "42")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Owner() != 42 {
		t.Errorf("owner = %d, want 42", cfg.Owner())
	}
	if cfg.DatabaseURL != "sqlite://./data/clubs.db" {
		t.Errorf("database url = %q", cfg.DatabaseURL)
	}
	if cfg.SessionTTL != 30*time.Minute {
		t.Errorf("session ttl = %s, want 30m", cfg.SessionTTL)
	}
	if cfg.PollTimeout != time.Minute {
		t.Errorf("poll timeout = %s, want 1m", cfg.PollTimeout)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{"missing owner", map[string]string{"OWNER_ID": ""}, "OWNER_ID"},
		{"bad owner", map[string]string{"OWNER_ID": "abc"}, "parse env:"},
		{"bad ttl", map[string]string{"OWNER_ID": "1", "SESSION_TTL": "soon"}, "parse env:"},
		{"zero ttl", map[string]string{"OWNER_ID": "1", "SESSION_TTL": "0s"}, "SESSION_TTL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestRequireBot(t *testing.T) {
	cfg := Config{PollTimeout: time.Minute}
	if err := cfg.RequireBot(); err == nil {
		t.Error("expected error for missing token")
	}
	cfg.BotToken = "token"
	if err := cfg.RequireBot(); err != nil {
		t.Errorf("RequireBot failed: %v", err)
	}
}
