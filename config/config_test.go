package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestLoadDirectoryMergesFiles(t *testing.T) {
	t.Setenv(PasswordEnv, "")
	os.Unsetenv(PasswordEnv)
	dir := t.TempDir()
	writeConfig(t, dir, "app.yaml", `database:
  driver: mysql
  host: db.internal
  user: dash
ui:
  mode: ansi
`)
	writeConfig(t, dir, "poll.yml", `database:
  name: school
poll:
  cadence_frames: 30
`)
	writeConfig(t, dir, "notes.txt", "not: [yaml")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got := filepath.Clean(cfg.LoadedFrom); got != filepath.Clean(dir) {
		t.Fatalf("expected LoadedFrom=%s, got %s", dir, got)
	}
	if cfg.Database.Host != "db.internal" || cfg.Database.User != "dash" {
		t.Fatalf("expected database host/user from app.yaml, got %+v", cfg.Database)
	}
	if cfg.Database.Name != "school" {
		t.Fatalf("expected database.name to merge from poll.yml, got %q", cfg.Database.Name)
	}
	if cfg.Poll.CadenceFrames != 30 {
		t.Fatalf("expected cadence 30, got %d", cfg.Poll.CadenceFrames)
	}
	if cfg.UI.Mode != UIModeANSI {
		t.Fatalf("expected ui.mode=ansi, got %q", cfg.UI.Mode)
	}
}

func TestLoadLaterFileWins(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "10-base.yaml", "poll:\n  cadence_frames: 10\n")
	writeConfig(t, dir, "20-override.yaml", "poll:\n  cadence_frames: 20\n")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Poll.CadenceFrames != 20 {
		t.Fatalf("expected lexically later file to win, got %d", cfg.Poll.CadenceFrames)
	}
}

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "empty.yaml", "database:\n  user: root\n")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Database.Driver != "mysql" {
		t.Fatalf("expected default driver mysql, got %q", cfg.Database.Driver)
	}
	if cfg.Database.Table != DefaultTable {
		t.Fatalf("expected default table %q, got %q", DefaultTable, cfg.Database.Table)
	}
	if cfg.Poll.CadenceFrames != DefaultCadence {
		t.Fatalf("expected default cadence %d, got %d", DefaultCadence, cfg.Poll.CadenceFrames)
	}
	if cfg.UI.Mode != UIModeTview || cfg.UI.TargetFPS != DefaultTargetFPS {
		t.Fatalf("unexpected ui defaults: %+v", cfg.UI)
	}
	if cfg.UI.Title != DefaultTitle || cfg.UI.LogLines != DefaultLogLines {
		t.Fatalf("unexpected ui defaults: %+v", cfg.UI)
	}
	if cfg.Database.ConnectTimeoutMS != DefaultConnectTimeoutMS {
		t.Fatalf("expected default connect timeout, got %d", cfg.Database.ConnectTimeoutMS)
	}
	if !cfg.Database.ExitOnFailure() {
		t.Fatalf("expected connect failure to be fatal by default")
	}
}

func TestLoadExitOnConnectFailureFalse(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "db.yaml", "database:\n  exit_on_connect_failure: false\n")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Database.ExitOnFailure() {
		t.Fatalf("expected exit_on_connect_failure=false to be honoured")
	}
}

func TestLoadPasswordFromEnvironment(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "db.yaml", "database:\n  password: from-file\n")
	t.Setenv(PasswordEnv, "from-env")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Database.Password != "from-env" {
		t.Fatalf("expected env password to override file, got %q", cfg.Database.Password)
	}
}

func TestLoadRejectsSingleFilePath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "runtime.yaml")
	if err := os.WriteFile(path, []byte("poll:\n  cadence_frames: 5\n"), 0o644); err != nil {
		t.Fatalf("write runtime.yaml: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected Load() to reject non-directory config path")
	}
}

func TestLoadRejectsEmptyDirectory(t *testing.T) {
	if _, err := Load(t.TempDir()); err == nil {
		t.Fatalf("expected Load() to reject a directory without YAML files")
	}
}

func TestLoadReportsParseErrorWithFileName(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "broken.yaml", "database: [unclosed\n")
	_, err := Load(dir)
	if err == nil {
		t.Fatalf("expected parse error")
	}
	if !strings.Contains(err.Error(), "broken.yaml") {
		t.Fatalf("expected error to name the file, got %v", err)
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "bad.yaml", `database:
  driver: sqlite
  table: "Admin; DROP TABLE Admin"
ui:
  mode: gui
logging:
  enabled: true
`)
	_, err := Load(dir)
	if err == nil {
		t.Fatalf("expected validation error")
	}
	msg := err.Error()
	for _, want := range []string{"database.path", "database.table", "ui.mode", "logging.dir"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("expected error to mention %s, got %v", want, msg)
		}
	}
}

func TestValidateRejectsUnknownDriver(t *testing.T) {
	cfg := Config{Database: DatabaseConfig{Driver: "postgres", Table: "Admin"}, UI: UIConfig{Mode: UIModeHeadless}}
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "postgres") {
		t.Fatalf("expected unsupported driver error, got %v", err)
	}
}
