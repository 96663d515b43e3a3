package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != 5000 {
		t.Errorf("Port = %d, want 5000", cfg.Port)
	}
	if cfg.Model != "deepseek-chat" {
		t.Errorf("Model = %q", cfg.Model)
	}
	if cfg.DeepSeekBaseURL != "https://api.deepseek.com" {
		t.Errorf("DeepSeekBaseURL = %q", cfg.DeepSeekBaseURL)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("CLINIC_MODEL", "deepseek-reasoner")
	t.Setenv("SECRET_PASSWORD", "hunter2")

	cfg := Load()

	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.Model != "deepseek-reasoner" {
		t.Errorf("Model = %q", cfg.Model)
	}
	if cfg.SecretPassword != "hunter2" {
		t.Errorf("SecretPassword = %q", cfg.SecretPassword)
	}
}

func TestLoadInvalidIntFallsBack(t *testing.T) {
	t.Setenv("PORT", "not-a-number")

	if cfg := Load(); cfg.Port != 5000 {
		t.Errorf("Port = %d, want fallback 5000", cfg.Port)
	}
}
