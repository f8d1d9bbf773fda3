package logging

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"catalog-management/config"
)

func TestInitWritesRotatedFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "catalog.log")
	logger, flush, err := Init(config.LogConfig{Mode: config.EnvProduction, FileEnable: true, Filename: file})
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	zap.L().Info("hello from the catalog")
	flush()

	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if len(data) == 0 {
		t.Fatalf("expected log output in %s", file)
	}
	if logger == nil {
		t.Fatalf("expected logger")
	}
}

func TestInitDevelopment(t *testing.T) {
	logger, flush, err := Init(config.LogConfig{Mode: config.EnvDevelopment})
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer flush()
	if !logger.Core().Enabled(zap.DebugLevel) {
		t.Fatalf("expected debug level in development mode")
	}
}
