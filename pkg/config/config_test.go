package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "adsheet.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
images_dir = "covers"
inventory  = "inventory.json"
output_dir = "ads"
mode       = "genre"
tile       = 160
min_bucket = 40

[catalog]
backend    = "mongo"
uri        = "mongodb://localhost:27017"
database   = "store"
collection = "records"

[cache]
backend    = "redis"
redis_addr = "localhost:6379"
`)

	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if f.ImagesDir != "covers" || f.Inventory != "inventory.json" || f.OutputDir != "ads" {
		t.Errorf("paths = %q %q %q", f.ImagesDir, f.Inventory, f.OutputDir)
	}
	if f.Mode != "genre" || f.TilePx != 160 || f.MinBucket != 40 {
		t.Errorf("mode/tile/min_bucket = %q %d %d", f.Mode, f.TilePx, f.MinBucket)
	}
	if f.Catalog.Backend != "mongo" || f.Catalog.Collection != "records" {
		t.Errorf("catalog = %+v", f.Catalog)
	}
	if f.Cache.Backend != "redis" || f.Cache.RedisAddr != "localhost:6379" {
		t.Errorf("cache = %+v", f.Cache)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, `tiel = 192`)
	if _, err := Load(path); err == nil {
		t.Error("Load should reject unknown keys")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Error("Load should fail for a missing file")
	}
}
