// Package sqliteutil holds SQLite checks run before the dashboard connects to a
// local database file.
package sqliteutil

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// PreflightResult reports the outcome of a SQLite preflight check.
type PreflightResult struct {
	Healthy      bool // File opened read-only and quick_check passed.
	TablePresent bool // The expected table exists.
	Elapsed      time.Duration
	CheckError   error // Nil when quick_check succeeded.
}

// Preflight verifies that path is an existing, readable SQLite database before
// the dashboard starts polling it. The file is opened read-only and is never
// created or modified. A missing table is reported but not treated as an error:
// polls against it fail and the dashboard shows its fallback until the table
// appears.
func Preflight(path, table string, timeout time.Duration, logf func(string, ...any)) (PreflightResult, error) {
	if logf == nil {
		logf = log.Printf
	}
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	start := time.Now().UTC()
	res := PreflightResult{}

	if strings.TrimSpace(path) == "" {
		return res, errors.New("preflight: empty path")
	}
	info, err := os.Stat(path)
	if err != nil {
		return res, fmt.Errorf("preflight: %w", err)
	}
	if info.IsDir() {
		return res, fmt.Errorf("preflight: %s is a directory", path)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	db, err := sql.Open("sqlite", readOnlyURI(path))
	if err != nil {
		return res, fmt.Errorf("preflight: open %s: %w", path, err)
	}
	defer db.Close()
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.ExecContext(ctx, fmt.Sprintf("pragma busy_timeout=%d", timeout.Milliseconds())); err != nil {
		return res, fmt.Errorf("preflight: set busy_timeout: %w", err)
	}

	checkErr := quickCheck(ctx, db)
	res.CheckError = checkErr
	if checkErr != nil {
		res.Elapsed = time.Since(start)
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return res, fmt.Errorf("preflight: %s timed out after %s", path, timeout)
		}
		return res, fmt.Errorf("preflight: quick_check %s: %w", path, checkErr)
	}
	res.Healthy = true

	present, err := tableExists(ctx, db, table)
	res.Elapsed = time.Since(start)
	if err != nil {
		return res, fmt.Errorf("preflight: table lookup: %w", err)
	}
	res.TablePresent = present
	if !present {
		logf("Preflight: table %q not found in %s; polls will fail until it exists", table, path)
	}
	return res, nil
}

func readOnlyURI(path string) string {
	return "file:" + path + "?mode=ro"
}

func quickCheck(ctx context.Context, db *sql.DB) error {
	rows, err := db.QueryContext(ctx, "pragma quick_check")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		if scanErr := rows.Scan(&status); scanErr != nil {
			return scanErr
		}
		if strings.TrimSpace(status) != "ok" {
			return fmt.Errorf("quick_check reported %q", status)
		}
	}
	return rows.Err()
}

func tableExists(ctx context.Context, db *sql.DB, table string) (bool, error) {
	var n int
	err := db.QueryRowContext(ctx,
		"select count(*) from sqlite_master where type in ('table', 'view') and name = ? collate nocase",
		table).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
