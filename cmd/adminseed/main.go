// Command adminseed creates the Admin table and fills it with sample rows so
// the dashboard has something to show during local development.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"regexp"
	"time"

	"admindash/admindb"
	"admindash/config"
)

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func main() {
	var (
		configDir = flag.String("config", "", "Config directory; when set, its database section is used instead of -db")
		dbPath    = flag.String("db", "data/admin.db", "SQLite database file to seed")
		table     = flag.String("table", admindb.DefaultTable, "Table to create and fill")
		count     = flag.Int("n", 5, "Number of sample rows to insert")
		reset     = flag.Bool("reset", false, "Delete existing rows before inserting")
	)
	flag.Parse()

	opts := admindb.Options{Driver: admindb.DriverSQLite, Path: *dbPath}
	if *configDir != "" {
		cfg, err := config.Load(*configDir)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
		opts = admindb.Options{
			Driver:         cfg.Database.Driver,
			DSN:            cfg.Database.DSN,
			Host:           cfg.Database.Host,
			Port:           cfg.Database.Port,
			User:           cfg.Database.User,
			Password:       cfg.Database.Password,
			Database:       cfg.Database.Name,
			Path:           cfg.Database.Path,
			ConnectTimeout: time.Duration(cfg.Database.ConnectTimeoutMS) * time.Millisecond,
		}
		*table = cfg.Database.Table
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := admindb.Open(ctx, opts)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	n, err := seed(ctx, db, *table, sampleRecords(*count), *reset)
	if err != nil {
		log.Fatalf("failed to seed %s: %v", *table, err)
	}
	fmt.Fprintf(os.Stdout, "Wrote %d rows to %s\n", n, *table)
}

// sampleRecords returns n deterministic rows with ids starting at 1.
func sampleRecords(n int) []admindb.Record {
	if n < 0 {
		n = 0
	}
	out := make([]admindb.Record, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, admindb.Record{
			ID:       int64(i),
			Name:     fmt.Sprintf("Administrator %d", i),
			Username: fmt.Sprintf("admin%02d", i),
			Password: fmt.Sprintf("changeme-%02d", i),
		})
	}
	return out
}

// seed creates table when missing and upserts records in one transaction.
// The DDL sticks to types both MySQL and SQLite accept.
func seed(ctx context.Context, db *sql.DB, table string, records []admindb.Record, reset bool) (int, error) {
	if !identPattern.MatchString(table) {
		return 0, fmt.Errorf("%w: %q", admindb.ErrInvalidTable, table)
	}
	cols := admindb.DefaultColumns()
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	%s INTEGER NOT NULL PRIMARY KEY,
	%s VARCHAR(255),
	%s VARCHAR(255),
	%s VARCHAR(255)
)`, table, cols.ID, cols.Name, cols.Username, cols.Password)
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return 0, fmt.Errorf("create table: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if reset {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return 0, fmt.Errorf("reset: %w", err)
		}
	}
	del := fmt.Sprintf("DELETE FROM %s WHERE %s = ?", table, cols.ID)
	ins := fmt.Sprintf("INSERT INTO %s (%s, %s, %s, %s) VALUES (?, ?, ?, ?)", table, cols.ID, cols.Name, cols.Username, cols.Password)
	for _, rec := range records {
		if _, err := tx.ExecContext(ctx, del, rec.ID); err != nil {
			return 0, fmt.Errorf("replace id %d: %w", rec.ID, err)
		}
		if _, err := tx.ExecContext(ctx, ins, rec.ID, rec.Name, rec.Username, rec.Password); err != nil {
			return 0, fmt.Errorf("insert id %d: %w", rec.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return len(records), nil
}
