package admindb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"
)

// Supported driver names.
const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

const defaultConnectTimeout = 5 * time.Second

// Options describes how to reach the store. DSN, when set, is passed to the
// driver as-is and the individual fields are ignored.
type Options struct {
	Driver         string
	DSN            string
	Host           string
	Port           int
	User           string
	Password       string
	Database       string
	Path           string
	ConnectTimeout time.Duration
}

// DataSourceName builds the driver-specific connection string.
func (o Options) DataSourceName() (string, error) {
	if dsn := strings.TrimSpace(o.DSN); dsn != "" {
		return dsn, nil
	}
	timeout := o.ConnectTimeout
	if timeout <= 0 {
		timeout = defaultConnectTimeout
	}
	switch strings.ToLower(strings.TrimSpace(o.Driver)) {
	case DriverMySQL:
		host := strings.TrimSpace(o.Host)
		if host == "" {
			host = "127.0.0.1"
		}
		port := o.Port
		if port <= 0 {
			port = 3306
		}
		cfg := mysql.NewConfig()
		cfg.User = o.User
		cfg.Passwd = o.Password
		cfg.Net = "tcp"
		cfg.Addr = net.JoinHostPort(host, strconv.Itoa(port))
		cfg.DBName = o.Database
		cfg.Timeout = timeout
		return cfg.FormatDSN(), nil
	case DriverSQLite:
		path := strings.TrimSpace(o.Path)
		if path == "" {
			return "", errors.New("admindb: sqlite path is empty")
		}
		return fmt.Sprintf("%s?_pragma=busy_timeout(%d)", path, timeout.Milliseconds()), nil
	default:
		return "", fmt.Errorf("admindb: unsupported driver %q", o.Driver)
	}
}

// Open connects to the store and verifies the connection with a ping. The
// handle is limited to a single connection owned by the caller for the life
// of the process.
func Open(ctx context.Context, opts Options) (*sql.DB, error) {
	dsn, err := opts.DataSourceName()
	if err != nil {
		return nil, err
	}
	driver := strings.ToLower(strings.TrimSpace(opts.Driver))
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("admindb: open %s: %w", driver, err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	timeout := opts.ConnectTimeout
	if timeout <= 0 {
		timeout = defaultConnectTimeout
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("admindb: connect %s: %w", driver, err)
	}
	return db, nil
}
