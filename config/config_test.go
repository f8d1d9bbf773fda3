package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.yml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yml"))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Web.Port != 8080 || cfg.Auth.TokenTTL != 8*time.Hour || !cfg.Auth.ProtectUploads {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Storage.Driver != "local" || cfg.Web.MaxUploadMB != 10 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadConfigFileAndEnvOverrides(t *testing.T) {
	path := writeFile(t, `
system:
  env: production
web:
  port: 9000
  allowed_origin: https://admin.example.com
database:
  driver: memory
auth:
  secret: from-file
  token_ttl: 2h
  protect_uploads: false
storage:
  driver: s3
  s3:
    bucket: imgs
`)
	t.Setenv("CATALOG_AUTH_SECRET", "from-env")
	t.Setenv("CATALOG_WEB_PORT", "9100")
	t.Setenv("CATALOG_AUTH_PROTECT_UPLOADS", "true")
	t.Setenv("CATALOG_DB_MAX_CONN", "not-a-number")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if !cfg.IsProduction() {
		t.Fatalf("expected production env")
	}
	if cfg.Auth.Secret != "from-env" || cfg.Web.Port != 9100 || !cfg.Auth.ProtectUploads {
		t.Fatalf("env overrides not applied: %+v", cfg.Auth)
	}
	if cfg.Auth.TokenTTL != 2*time.Hour || cfg.Storage.S3.Bucket != "imgs" {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	// invalid numbers keep the previous value
	if cfg.Database.MaxConn != 20 {
		t.Fatalf("expected default max_conn, got %d", cfg.Database.MaxConn)
	}
	// untouched sections keep defaults
	if cfg.Database.Port != 5432 || cfg.Storage.S3.Prefix != "product-images" {
		t.Fatalf("defaults lost: %+v", cfg)
	}
	if cfg.Addr() != "0.0.0.0:9100" {
		t.Fatalf("unexpected addr %s", cfg.Addr())
	}
}

func TestLoadConfigRejectsUnknownDrivers(t *testing.T) {
	path := writeFile(t, "storage:\n  driver: ftp\n")
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected error for unknown storage driver")
	}
	path = writeFile(t, "database:\n  driver: sqlite\n")
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected error for unknown database driver")
	}
}

func TestLoadConfigBadYAML(t *testing.T) {
	path := writeFile(t, "web: [unclosed\n")
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestDSN(t *testing.T) {
	cfg := DefaultAppConfig
	want := "host=127.0.0.1 port=5432 user=postgres password=postgres dbname=catalog sslmode=disable"
	if got := cfg.DSN(); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}
