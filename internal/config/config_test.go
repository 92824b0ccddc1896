package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("COMMUNITY_CONFIG_FILE", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.AppPort != 8080 {
		t.Fatalf("expected default port 8080 got %d", cfg.AppPort)
	}
	if cfg.Store.Driver != DriverMemory {
		t.Fatalf("expected memory driver got %q", cfg.Store.Driver)
	}
	if cfg.Events.Exchange != "community_events" {
		t.Fatalf("unexpected exchange %q", cfg.Events.Exchange)
	}
	if cfg.ObjectStore.Enabled() {
		t.Fatal("object store should be disabled without a bucket")
	}
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("COMMUNITY_PORT", "9090")
	t.Setenv("COMMUNITY_STORE_DRIVER", "REDIS")
	t.Setenv("COMMUNITY_REDIS_DB", "3")
	t.Setenv("COMMUNITY_RATE_LIMIT", "false")
	t.Setenv("COMMUNITY_EVENT_TIMEOUT", "750ms")
	t.Setenv("COMMUNITY_EVENT_WORKERS", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.AppPort != 9090 {
		t.Fatalf("expected port 9090 got %d", cfg.AppPort)
	}
	if cfg.Store.Driver != DriverRedis || cfg.Store.RedisDB != 3 {
		t.Fatalf("unexpected store config %+v", cfg.Store)
	}
	if cfg.RateLimit.Enabled {
		t.Fatal("expected rate limiting disabled")
	}
	if cfg.Events.PublishTimeout != 750*time.Millisecond {
		t.Fatalf("unexpected publish timeout %s", cfg.Events.PublishTimeout)
	}
	if cfg.Events.Workers != 1 {
		t.Fatalf("invalid integer should fall back, got %d", cfg.Events.Workers)
	}
}

func TestLoadYAMLOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "community.yaml")
	contents := []byte(`
port: 7000
store:
  driver: s3
  s3Prefix: snapshots
objectStore:
  bucket: eco-media
events:
  queueSize: 16
  publishTimeout: 2s
`)
	if err := os.WriteFile(path, contents, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("COMMUNITY_CONFIG_FILE", path)
	t.Setenv("COMMUNITY_PORT", "7100")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.AppPort != 7100 {
		t.Fatalf("environment should win over file, got %d", cfg.AppPort)
	}
	if cfg.Store.Driver != DriverS3 || cfg.Store.S3Prefix != "snapshots" {
		t.Fatalf("unexpected store config %+v", cfg.Store)
	}
	if cfg.ObjectStore.Bucket != "eco-media" || cfg.ObjectStore.Region != "us-east-1" {
		t.Fatalf("unexpected object store config %+v", cfg.ObjectStore)
	}
	if cfg.Events.QueueSize != 16 || cfg.Events.PublishTimeout != 2*time.Second {
		t.Fatalf("unexpected events config %+v", cfg.Events)
	}
	if cfg.Events.Exchange != "community_events" {
		t.Fatalf("defaults should survive overlay, got %q", cfg.Events.Exchange)
	}
}

func TestLoadRejectsInvalidDriver(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "unknown driver", env: map[string]string{"COMMUNITY_STORE_DRIVER": "cassandra"}},
		{name: "s3 without bucket", env: map[string]string{"COMMUNITY_STORE_DRIVER": "s3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}
