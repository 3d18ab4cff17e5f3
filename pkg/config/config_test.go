package config

import (
	"strings"
	"testing"
)

func setWooEnv(t *testing.T) {
	t.Helper()
	t.Setenv("WOO_BASE_URL", "https://shop.example.com/")
	t.Setenv("WOO_CONSUMER_KEY", "ck_test")
	t.Setenv("WOO_CONSUMER_SECRET", "cs_test")
}

func TestLoadDefaults(t *testing.T) {
	setWooEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.App.Port != "8080" {
		t.Fatalf("unexpected default port %q", cfg.App.Port)
	}
	if !cfg.App.IsDev() {
		t.Fatal("expected development default")
	}
	if cfg.Flags.StrictProductIDs {
		t.Fatal("strict product ids should default off")
	}
	if cfg.Woo.BaseURL != "https://shop.example.com" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.Woo.BaseURL)
	}
}

func TestLoadFailsFastWithoutWooCredentials(t *testing.T) {
	t.Setenv("WOO_BASE_URL", "")
	t.Setenv("WOO_CONSUMER_KEY", "")
	t.Setenv("WOO_CONSUMER_SECRET", "cs_test")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for missing credentials")
	}
	if !strings.Contains(err.Error(), "WOO_BASE_URL") || !strings.Contains(err.Error(), "WOO_CONSUMER_KEY") {
		t.Fatalf("expected missing variables to be named, got %v", err)
	}
	if strings.Contains(err.Error(), "WOO_CONSUMER_SECRET") {
		t.Fatalf("secret was provided, should not be reported missing: %v", err)
	}
}
