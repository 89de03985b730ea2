package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const minimalYAML = `
database:
  user: ksef
  password: ${KSEF_TEST_DB_PASSWORD}
ksef:
  environment: demo
  nip: "5265877635"
  auth:
    token: ${KSEF_TEST_TOKEN}
`

func TestParse_AppliesDefaultsAndExpandsEnv(t *testing.T) {
	t.Setenv("KSEF_TEST_DB_PASSWORD", "s3cret")
	t.Setenv("KSEF_TEST_TOKEN", "token-from-env")

	cfg, err := Parse([]byte(minimalYAML))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}

	if cfg.Database.Password != "s3cret" {
		t.Fatalf("expected expanded password, got %q", cfg.Database.Password)
	}
	if cfg.KSeF.Auth.Token != "token-from-env" {
		t.Fatalf("expected expanded token, got %q", cfg.KSeF.Auth.Token)
	}
	if cfg.KSeF.Environment != "DEMO" {
		t.Fatalf("expected normalized environment DEMO, got %q", cfg.KSeF.Environment)
	}
	if cfg.KSeF.Auth.Method != "token" {
		t.Fatalf("expected default auth method token, got %q", cfg.KSeF.Auth.Method)
	}
	if cfg.Server.Port != 8080 || cfg.Database.Port != 5432 || cfg.Database.SSLMode != "disable" {
		t.Fatalf("unexpected server/database defaults: %+v %+v", cfg.Server, cfg.Database)
	}
	if cfg.KSeF.RequestTimeout != 30*time.Second {
		t.Fatalf("expected request timeout 30s, got %s", cfg.KSeF.RequestTimeout)
	}
	if cfg.Incoming.MaxFetchDuration != 30*time.Minute {
		t.Fatalf("expected max fetch duration 30m, got %s", cfg.Incoming.MaxFetchDuration)
	}
	if cfg.Submission.ReservationTTL != 10*time.Minute {
		t.Fatalf("expected reservation ttl 10m, got %s", cfg.Submission.ReservationTTL)
	}
	if !cfg.Monitoring.Enabled {
		t.Fatal("expected monitoring enabled by default")
	}
	if cfg.Scheduler.Enabled {
		t.Fatal("expected scheduler disabled by default")
	}
	if cfg.Scheduler.AttentionInterval != 15*time.Minute || cfg.Scheduler.CheckBatchSize != 50 {
		t.Fatalf("unexpected scheduler defaults: %+v", cfg.Scheduler)
	}
}

func TestParse_ExplicitValuesOverrideDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
database:
  user: ksef
ksef:
  nip: "5265877635"
  request_timeout: 5s
incoming:
  max_fetch_duration: 1m
monitoring:
  enabled: false
`))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	if cfg.KSeF.RequestTimeout != 5*time.Second {
		t.Fatalf("expected 5s, got %s", cfg.KSeF.RequestTimeout)
	}
	if cfg.Incoming.MaxFetchDuration != time.Minute {
		t.Fatalf("expected 1m, got %s", cfg.Incoming.MaxFetchDuration)
	}
	if cfg.Monitoring.Enabled {
		t.Fatal("expected monitoring disabled")
	}
}

func TestParse_ValidationFailures(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "missing nip",
			yaml: "database:\n  user: ksef\n",
			want: "NIP",
		},
		{
			name: "short nip",
			yaml: "database:\n  user: ksef\nksef:\n  nip: \"123\"\n",
			want: "NIP",
		},
		{
			name: "unknown environment",
			yaml: "database:\n  user: ksef\nksef:\n  nip: \"5265877635\"\n  environment: staging\n",
			want: "Environment",
		},
		{
			name: "unknown auth method",
			yaml: "database:\n  user: ksef\nksef:\n  nip: \"5265877635\"\n  auth:\n    method: oauth\n",
			want: "Method",
		},
		{
			name: "missing database user",
			yaml: "ksef:\n  nip: \"5265877635\"\n",
			want: "User",
		},
		{
			name: "export window too small",
			yaml: "database:\n  user: ksef\nksef:\n  nip: \"5265877635\"\nincoming:\n  max_export_window: 1h\n",
			want: "max_export_window",
		},
		{
			name: "negative status poll interval",
			yaml: "database:\n  user: ksef\nksef:\n  nip: \"5265877635\"\nscheduler:\n  status_poll_interval: -1m\n",
			want: "StatusPollInterval",
		},
		{
			name: "negative attention interval",
			yaml: "database:\n  user: ksef\nksef:\n  nip: \"5265877635\"\nscheduler:\n  attention_interval: -15m\n",
			want: "AttentionInterval",
		},
		{
			name: "negative fetch interval",
			yaml: "database:\n  user: ksef\nksef:\n  nip: \"5265877635\"\nscheduler:\n  fetch_interval: -1h\n",
			want: "FetchInterval",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil {
				t.Fatalf("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error mentioning %q, got %v", tt.want, err)
			}
		})
	}
}

func TestLoad_ReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("database:\n  user: ksef\nksef:\n  nip: \"5265877635\"\n"), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.KSeF.NIP != "5265877635" {
		t.Fatalf("unexpected nip %q", cfg.KSeF.NIP)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestNewLogger(t *testing.T) {
	if _, err := NewLogger(LoggingConfig{Level: "debug", Format: "console"}); err != nil {
		t.Fatalf("NewLogger(console) failed: %v", err)
	}
	if _, err := NewLogger(LoggingConfig{Level: "info", Format: "json"}); err != nil {
		t.Fatalf("NewLogger(json) failed: %v", err)
	}
	if _, err := NewLogger(LoggingConfig{Level: "loud", Format: "json"}); err == nil {
		t.Fatal("expected error for invalid level")
	}
}
