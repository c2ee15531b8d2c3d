package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNormalizeAppliesDefaults(t *testing.T) {
	var cfg Config
	out, res := NormalizeAndValidate(cfg)

	if !res.OK() {
		t.Fatalf("empty config should validate with warnings only, got errors: %v", res.Errors)
	}
	if out.App.Port != 38520 {
		t.Errorf("port = %d, want 38520", out.App.Port)
	}
	if out.Intake.PublicRatePerMin != 30 || out.Intake.Burst != 10 || out.Intake.MaxUploadMB != 10 {
		t.Errorf("intake defaults = %+v", out.Intake)
	}
	if out.Worker.RetrySeconds != 60 || out.Worker.Batch != 20 {
		t.Errorf("worker defaults = %+v", out.Worker)
	}
	if len(res.Warnings) == 0 {
		t.Error("expected warnings about empty admin token and base url")
	}
}

func TestNormalizeTrimsBaseURL(t *testing.T) {
	var cfg Config
	cfg.App.BaseURL = "  https://hire.example.com/  "
	out, _ := NormalizeAndValidate(cfg)
	if out.App.BaseURL != "https://hire.example.com" {
		t.Fatalf("base url = %q", out.App.BaseURL)
	}
}

func TestMailEnabledRequiresEndpointAndFrom(t *testing.T) {
	var cfg Config
	cfg.Mail.Enabled = true
	_, res := NormalizeAndValidate(cfg)
	if res.OK() {
		t.Fatal("mail enabled without endpoint/from should not validate")
	}
	joined := strings.Join(res.Errors, "\n")
	if !strings.Contains(joined, "mail.endpoint") || !strings.Contains(joined, "mail.from_address") {
		t.Fatalf("errors = %v", res.Errors)
	}
}

func TestEnsureUserConfigCopiesDefault(t *testing.T) {
	dir := t.TempDir()
	defaultPath := filepath.Join(dir, "default.yml")
	if err := os.WriteFile(defaultPath, []byte("app:\n  port: 4000\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	dataDir := filepath.Join(dir, "data")
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		t.Fatal(err)
	}

	userPath, err := EnsureUserConfig(dataDir, defaultPath)
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	cfg, err := Load(userPath)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.App.Port != 4000 {
		t.Fatalf("port = %d, want 4000", cfg.App.Port)
	}

	// Existing user config is left alone.
	if err := os.WriteFile(userPath, []byte("app:\n  port: 5000\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	again, err := EnsureUserConfig(dataDir, defaultPath)
	if err != nil {
		t.Fatal(err)
	}
	cfg, err = Load(again)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.App.Port != 5000 {
		t.Fatalf("port = %d, want 5000 (user config overwritten)", cfg.App.Port)
	}
}
