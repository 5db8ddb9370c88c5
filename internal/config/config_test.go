package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/MuazAshraf/ppt-translator/internal/translate"
	"github.com/MuazAshraf/ppt-translator/internal/types"
)

func newManager(t *testing.T) *ConfigManager {
	t.Helper()
	cm, err := NewConfigManager(filepath.Join(t.TempDir(), DefaultConfigFileName))
	if err != nil {
		t.Fatalf("NewConfigManager() error = %v", err)
	}
	return cm
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cm := newManager(t)
	if err := cm.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	cfg := cm.GetConfig()
	if cfg.OpenAIBaseURL != DefaultBaseURL {
		t.Errorf("OpenAIBaseURL = %q, want default", cfg.OpenAIBaseURL)
	}
	if cfg.OpenAIModel != DefaultModel {
		t.Errorf("OpenAIModel = %q, want default", cfg.OpenAIModel)
	}
	if cfg.DefaultService != DefaultService {
		t.Errorf("DefaultService = %q, want default", cfg.DefaultService)
	}
	if cfg.RunDelayMs != DefaultRunDelayMs {
		t.Errorf("RunDelayMs = %d, want default", cfg.RunDelayMs)
	}
}

func TestLoadInvalidJSONUsesDefaults(t *testing.T) {
	cm := newManager(t)
	if err := os.WriteFile(cm.GetConfigPath(), []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if err := cm.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cm.GetConfig().DefaultService != DefaultService {
		t.Error("invalid config should fall back to defaults")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	cm := newManager(t)
	cm.SetConfig(&types.Config{
		DeepLAPIKey:    "dl-key",
		DefaultService: "deepl",
		RunDelayMs:     250,
	})
	if err := cm.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	cm2, err := NewConfigManager(cm.GetConfigPath())
	if err != nil {
		t.Fatalf("NewConfigManager() error = %v", err)
	}
	if err := cm2.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	cfg := cm2.GetConfig()
	if cfg.DeepLAPIKey != "dl-key" {
		t.Errorf("DeepLAPIKey = %q, want dl-key", cfg.DeepLAPIKey)
	}
	if cfg.DefaultService != "deepl" {
		t.Errorf("DefaultService = %q, want deepl", cfg.DefaultService)
	}
	if cfg.RunDelayMs != 250 {
		t.Errorf("RunDelayMs = %d, want 250", cfg.RunDelayMs)
	}
	// Empty fields are backfilled with defaults.
	if cfg.OpenAIModel != DefaultModel {
		t.Errorf("OpenAIModel = %q, want default backfill", cfg.OpenAIModel)
	}
}

func TestAPIKeyEnvFallback(t *testing.T) {
	cm := newManager(t)
	if err := cm.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	t.Setenv(EnvOpenAIAPIKey, "env-openai")
	t.Setenv(EnvDeepLAPIKey, "env-deepl")

	if got := cm.GetOpenAIAPIKey(); got != "env-openai" {
		t.Errorf("GetOpenAIAPIKey() = %q, want env value", got)
	}
	if got := cm.GetDeepLAPIKey(); got != "env-deepl" {
		t.Errorf("GetDeepLAPIKey() = %q, want env value", got)
	}

	// A config value wins over the environment.
	cm.SetConfig(&types.Config{OpenAIAPIKey: "cfg-openai"})
	if got := cm.GetOpenAIAPIKey(); got != "cfg-openai" {
		t.Errorf("GetOpenAIAPIKey() = %q, want config value", got)
	}
}

func TestServiceAPIKey(t *testing.T) {
	cm := newManager(t)
	cm.SetConfig(&types.Config{
		OpenAIAPIKey: "oa",
		DeepLAPIKey:  "dl",
	})

	tests := []struct {
		service string
		want    string
	}{
		{service: "openai", want: "oa"},
		{service: "deepl", want: "dl"},
		{service: "google", want: ""},
		{service: "unknown", want: ""},
	}
	for _, tt := range tests {
		if got := cm.ServiceAPIKey(tt.service); got != tt.want {
			t.Errorf("ServiceAPIKey(%q) = %q, want %q", tt.service, got, tt.want)
		}
	}
}

func TestServiceOptions(t *testing.T) {
	cm := newManager(t)
	cm.SetConfig(&types.Config{
		OpenAIAPIKey:  "oa",
		OpenAIBaseURL: "https://proxy.example/v1",
		OpenAIModel:   "gpt-4o",
		DeepLAPIKey:   "dl",
	})

	tests := []struct {
		service string
		want    translate.Options
	}{
		{service: "openai", want: translate.Options{APIKey: "oa", BaseURL: "https://proxy.example/v1", Model: "gpt-4o"}},
		{service: "deepl", want: translate.Options{APIKey: "dl"}},
		{service: "google", want: translate.Options{}},
	}
	for _, tt := range tests {
		if got := cm.ServiceOptions(tt.service); got != tt.want {
			t.Errorf("ServiceOptions(%q) = %+v, want %+v", tt.service, got, tt.want)
		}
	}
}

func TestGetLibreOfficePathPrecedence(t *testing.T) {
	cm := newManager(t)
	if err := cm.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if got := cm.GetLibreOfficePath(); got != DefaultSofficeBinary() {
		t.Errorf("GetLibreOfficePath() = %q, want platform default", got)
	}

	t.Setenv(EnvLibreOfficePath, "/opt/libreoffice/soffice")
	if got := cm.GetLibreOfficePath(); got != "/opt/libreoffice/soffice" {
		t.Errorf("GetLibreOfficePath() = %q, want env value", got)
	}

	cm.SetConfig(&types.Config{LibreOfficePath: "/usr/local/bin/soffice"})
	if got := cm.GetLibreOfficePath(); got != "/usr/local/bin/soffice" {
		t.Errorf("GetLibreOfficePath() = %q, want config value", got)
	}
}
