package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"admindash/admindb"
	"admindash/config"
)

func TestResolveUIMode(t *testing.T) {
	cases := []struct {
		mode string
		tty  bool
		want string
	}{
		{config.UIModeTview, true, config.UIModeTview},
		{config.UIModeTview, false, config.UIModeHeadless},
		{config.UIModeANSI, true, config.UIModeANSI},
		{config.UIModeANSI, false, config.UIModeHeadless},
		{config.UIModeHeadless, true, config.UIModeHeadless},
	}
	for _, tc := range cases {
		if got := resolveUIMode(tc.mode, tc.tty); got != tc.want {
			t.Fatalf("mode %s tty=%v: expected %s, got %s", tc.mode, tc.tty, tc.want, got)
		}
	}
}

func TestBuildPollerWithoutConnectionIsNil(t *testing.T) {
	p, err := buildPoller(nil, "Admin")
	if err != nil {
		t.Fatalf("buildPoller: %v", err)
	}
	if p != nil {
		t.Fatalf("expected untyped nil poller, got %#v", p)
	}
}

func TestDatabaseOptions(t *testing.T) {
	opts := databaseOptions(config.DatabaseConfig{
		Driver:           "mysql",
		Host:             "db",
		Port:             3307,
		User:             "u",
		Password:         "p",
		Name:             "school",
		ConnectTimeoutMS: 1500,
	})
	if opts.Database != "school" || opts.Port != 3307 || opts.ConnectTimeout != 1500*time.Millisecond {
		t.Fatalf("unexpected options %+v", opts)
	}
}

func TestOpenDatabaseSQLiteWithPreflight(t *testing.T) {
	path := filepath.Join(t.TempDir(), "admin.db")
	ctx := context.Background()
	seedDB, err := admindb.Open(ctx, admindb.Options{Driver: admindb.DriverSQLite, Path: path})
	if err != nil {
		t.Fatalf("seed open: %v", err)
	}
	if _, err := seedDB.ExecContext(ctx, `CREATE TABLE Admin (Admin_ID INTEGER PRIMARY KEY, Name TEXT, Username TEXT, Password TEXT)`); err != nil {
		t.Fatalf("create: %v", err)
	}
	seedDB.Close()

	cfg := config.DatabaseConfig{Driver: "sqlite", Path: path, Table: "Admin", ConnectTimeoutMS: 1000, Preflight: true}
	db, err := openDatabase(ctx, cfg)
	if err != nil {
		t.Fatalf("openDatabase: %v", err)
	}
	defer db.Close()

	p, err := buildPoller(db, cfg.Table)
	if err != nil || p == nil {
		t.Fatalf("expected poller, got %v (err=%v)", p, err)
	}
	if res := p.Poll(ctx); !res.OK() || len(res.Records) != 0 {
		t.Fatalf("expected empty successful poll, got %+v", res)
	}
}

func TestOpenDatabaseSQLitePreflightRejectsMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.db")
	cfg := config.DatabaseConfig{Driver: "sqlite", Path: path, Table: "Admin", ConnectTimeoutMS: 1000, Preflight: true}
	if _, err := openDatabase(context.Background(), cfg); err == nil {
		t.Fatalf("expected preflight to fail for a missing file")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected missing file to stay missing, stat err=%v", err)
	}
}
