package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := LoadDefaultConfig()

	if cfg.Server.Port != 2852 {
		t.Errorf("Expected default port 2852, got %d", cfg.Server.Port)
	}
	if cfg.Data.KeyColumn != "pup_webmail" {
		t.Errorf("Expected default key column 'pup_webmail', got '%s'", cfg.Data.KeyColumn)
	}
	if cfg.Data.SimilarityThreshold != 0.8 {
		t.Errorf("Expected default threshold 0.8, got %v", cfg.Data.SimilarityThreshold)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should validate, got error: %v", err)
	}
}

func TestConfigValidation(t *testing.T) {
	cfg := LoadDefaultConfig()
	cfg.Server.Port = 0
	if err := cfg.Validate(); err == nil {
		t.Error("Config with port 0 should fail validation")
	}

	cfg = LoadDefaultConfig()
	cfg.Data.SimilarityThreshold = 1.5
	if err := cfg.Validate(); err == nil {
		t.Error("Config with threshold above 1 should fail validation")
	}

	cfg = LoadDefaultConfig()
	cfg.Data.KeyColumn = ""
	if err := cfg.Validate(); err == nil {
		t.Error("Config with empty key column should fail validation")
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scrubdeck.yml")
	content := []byte("server:\n  address: 127.0.0.1\n  port: 9999\ndata:\n  key_column: member_id\n")
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("Expected port 9999, got %d", cfg.Server.Port)
	}
	if cfg.Data.KeyColumn != "member_id" {
		t.Errorf("Expected key column 'member_id', got '%s'", cfg.Data.KeyColumn)
	}
	// Unset fields fall back to defaults.
	if cfg.Data.SimilarityThreshold != 0.8 {
		t.Errorf("Expected default threshold to survive partial config, got %v", cfg.Data.SimilarityThreshold)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig("does-not-exist.yml"); err == nil {
		t.Error("Expected an error for a missing config file")
	}
}
