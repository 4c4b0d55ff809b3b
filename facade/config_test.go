package facade_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/momentics/hioload-collator/facade"
)

func TestDefaultConfigValid(t *testing.T) {
	if err := facade.DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoadConfigFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "connmon.yaml")
	content := `
listen_addr: "127.0.0.1:9900"
path: /events
max_batch: 64
max_backoff: 200ms
log_format: json
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONNMON_MAX_BATCH", "8")
	t.Setenv("CONNMON_LOG_LEVEL", "debug")

	cfg, err := facade.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.ListenAddr != "127.0.0.1:9900" || cfg.Path != "/events" {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.MaxBackoff != 200*time.Millisecond {
		t.Errorf("MaxBackoff = %v, want 200ms", cfg.MaxBackoff)
	}
	if cfg.MaxBatch != 8 {
		t.Errorf("MaxBatch = %d, want env override 8", cfg.MaxBatch)
	}
	if cfg.LogLevel != "debug" || cfg.LogFormat != "json" {
		t.Errorf("log = %s/%s", cfg.LogLevel, cfg.LogFormat)
	}
	if cfg.OutboundQueue != facade.DefaultConfig().OutboundQueue {
		t.Errorf("unset field lost its default: %d", cfg.OutboundQueue)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := facade.LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestValidateCollectsErrors(t *testing.T) {
	cfg := facade.DefaultConfig()
	cfg.Path = "ws"
	cfg.MinBackoff = 0
	cfg.LogFormat = "xml"
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"path", "backoff", "log_format"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
}

func TestLoadConfigBadEnv(t *testing.T) {
	t.Setenv("CONNMON_MAX_BATCH", "many")
	if _, err := facade.LoadConfig(""); err == nil {
		t.Fatal("expected env parse error")
	}
}

func TestApplyEnvIgnoresUnprefixedVariables(t *testing.T) {
	t.Setenv("PATH", "/usr/bin:/bin")
	t.Setenv("LOG_LEVEL", "bogus")
	t.Setenv("MAX_BATCH", "99")
	t.Setenv("ECHO", "true")

	cfg := facade.DefaultConfig()
	if err := cfg.ApplyEnv(); err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}
	def := facade.DefaultConfig()
	if cfg.Path != def.Path {
		t.Errorf("Path = %q, want %q", cfg.Path, def.Path)
	}
	if cfg.LogLevel != def.LogLevel {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, def.LogLevel)
	}
	if cfg.MaxBatch != def.MaxBatch || cfg.Echo != def.Echo {
		t.Errorf("MaxBatch=%d Echo=%v picked up unprefixed variables", cfg.MaxBatch, cfg.Echo)
	}

	t.Setenv("CONNMON_PATH", "/events")
	t.Setenv("CONNMON_SNAPSHOT_LOG_RATE", "0.5")
	if err := cfg.ApplyEnv(); err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}
	if cfg.Path != "/events" || cfg.SnapshotLogRate != 0.5 {
		t.Errorf("prefixed overrides not applied: path=%q rate=%v", cfg.Path, cfg.SnapshotLogRate)
	}
}

func TestLoadConfigKeepsFilePathWithSystemPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "connmon.yaml")
	if err := os.WriteFile(path, []byte("path: /monitor\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PATH", "/usr/local/bin:/usr/bin")
	cfg, err := facade.LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Path != "/monitor" {
		t.Fatalf("Path = %q, want /monitor", cfg.Path)
	}
}
