package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.FollowUp.ScoreThreshold != 6 {
		t.Errorf("expected default threshold 6, got %d", cfg.FollowUp.ScoreThreshold)
	}
	if cfg.FollowUp.MaxFollowUps != 1 {
		t.Errorf("expected default max follow-ups 1, got %d", cfg.FollowUp.MaxFollowUps)
	}
	if cfg.FollowUp.MinAnswerLength != 50 {
		t.Errorf("expected default min answer length 50, got %d", cfg.FollowUp.MinAnswerLength)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("expected default log level info, got %s", cfg.Log.Level)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "parley.yaml")
	content := []byte("llm:\n  provider: ollama\n  model: llama3\nlog:\n  level: debug\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.LLM.Provider != "ollama" {
		t.Errorf("expected provider ollama, got %s", cfg.LLM.Provider)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("expected log level debug, got %s", cfg.Log.Level)
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("PARLEY_LLM_MODEL", "qwen-max")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.LLM.Model != "qwen-max" {
		t.Errorf("expected env override qwen-max, got %s", cfg.LLM.Model)
	}
}
