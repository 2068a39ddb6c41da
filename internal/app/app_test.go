package app

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func writeTestMetadata(t *testing.T, dir string) {
	t.Helper()
	files := map[string]string{
		"states.json":      `[{"state_id": 27, "state_name": "Maharashtra"}]`,
		"districts.json":   `[{"district_id": 466, "state_id": 27, "district_name": "Akola", "markets": [{"id": 1, "mkt_name": "Akola"}]}]`,
		"markets.json":     `[{"id": 1, "state_id": 27, "district_id": 466, "mkt_name": "Akola"}]`,
		"commodities.json": `[{"cmdt_id": 106, "cmdt_name": "Soyabean", "cmdt_group_id": 7}]`,
		"grades.json":      `[{"grade_id": 1, "grade_name": "FAQ"}]`,
	}
	for name, body := range files {
		writeFile(t, filepath.Join(dir, name), body)
	}
}

func TestNewApp(t *testing.T) {
	dir := t.TempDir()
	metadataDir := filepath.Join(dir, "metadata")
	writeTestMetadata(t, metadataDir)

	configPath := filepath.Join(dir, "agmark.toml")
	writeFile(t, configPath, `
environment = "test"

[server]
host = "127.0.0.1"
port = 18080

[storage.downloads]
path = "`+filepath.ToSlash(filepath.Join(dir, "downloads"))+`"

[catalog]
path = "`+filepath.ToSlash(metadataDir)+`"

[logging]
level = "error"
`)

	a, err := NewApp(configPath)
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	defer a.Close()

	if a.Config.Environment != "test" {
		t.Errorf("Environment = %s, want test", a.Config.Environment)
	}
	if a.Config.Server.Port != 18080 {
		t.Errorf("Port = %d, want 18080", a.Config.Server.Port)
	}
	if a.MarketService == nil || a.Catalog == nil || a.Cache == nil || a.Client == nil {
		t.Error("expected all services to be initialized")
	}

	if id, err := a.Catalog.StateID("Maharashtra"); err != nil || id != 27 {
		t.Errorf("StateID = %d, %v, want 27", id, err)
	}
}

func TestNewAppMissingCatalog(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "agmark.toml")
	writeFile(t, configPath, `
[storage.downloads]
path = "`+filepath.ToSlash(filepath.Join(dir, "downloads"))+`"

[catalog]
path = "`+filepath.ToSlash(filepath.Join(dir, "missing"))+`"
`)

	if _, err := NewApp(configPath); err == nil {
		t.Fatal("expected startup failure for a missing catalog directory")
	}
}
