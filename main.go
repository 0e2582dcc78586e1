package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"admindash/admindb"
	"admindash/config"
	"admindash/sqliteutil"
	"admindash/ui"

	"golang.org/x/term"
)

// Version is overridden at build time with -ldflags "-X main.Version=...".
var Version = "dev"

const (
	defaultConfigPath = "data/config"
	envConfigPath     = "ADMINDASH_CONFIG_PATH"
	statsLogInterval  = time.Minute
)

// Purpose: Report whether stdout is a TTY for UI gating.
// Key aspects: Uses term.IsTerminal on stdout fd.
// Upstream: main UI selection.
// Downstream: term.IsTerminal.
func isStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// Purpose: Load configuration from env/default locations.
// Key aspects: Tries env override first, then the default config dir.
// Upstream: main startup.
// Downstream: config.Load and os.IsNotExist.
func loadDashboardConfig() (*config.Config, error) {
	candidates := make([]string, 0, 2)
	if envPath := strings.TrimSpace(os.Getenv(envConfigPath)); envPath != "" {
		candidates = append(candidates, envPath)
	}
	candidates = append(candidates, defaultConfigPath)

	var lastErr error
	for _, path := range candidates {
		cfg, err := config.Load(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				lastErr = err
				continue
			}
			return nil, err
		}
		return cfg, nil
	}
	return nil, fmt.Errorf("unable to load config; tried %s (last error: %v)", strings.Join(candidates, ", "), lastErr)
}

// resolveUIMode downgrades console modes to headless when stdout is not a
// terminal.
func resolveUIMode(mode string, tty bool) string {
	switch mode {
	case config.UIModeTview, config.UIModeANSI:
		if !tty {
			log.Printf("UI: %s mode requires an interactive console; running headless", mode)
			return config.UIModeHeadless
		}
		return mode
	default:
		return config.UIModeHeadless
	}
}

func databaseOptions(db config.DatabaseConfig) admindb.Options {
	return admindb.Options{
		Driver:         db.Driver,
		DSN:            db.DSN,
		Host:           db.Host,
		Port:           db.Port,
		User:           db.User,
		Password:       db.Password,
		Database:       db.Name,
		Path:           db.Path,
		ConnectTimeout: time.Duration(db.ConnectTimeoutMS) * time.Millisecond,
	}
}

// Purpose: Establish the single store connection used for the whole run.
// Key aspects: SQLite files get a read-only preflight first when enabled.
// Upstream: main startup.
// Downstream: sqliteutil.Preflight and admindb.Open.
func openDatabase(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error) {
	opts := databaseOptions(cfg)
	if cfg.Driver == admindb.DriverSQLite && cfg.Preflight && strings.TrimSpace(cfg.DSN) == "" {
		res, err := sqliteutil.Preflight(cfg.Path, cfg.Table, opts.ConnectTimeout, log.Printf)
		if err != nil {
			return nil, err
		}
		log.Printf("Preflight: %s ok in %s (table present=%v)", cfg.Path, res.Elapsed.Round(time.Millisecond), res.TablePresent)
	}
	return admindb.Open(ctx, opts)
}

// buildPoller returns nil, not a typed nil, when there is no connection so the
// loop knows not to poll.
func buildPoller(db *sql.DB, table string) (ui.Poller, error) {
	if db == nil {
		return nil, nil
	}
	exec, err := admindb.NewExecutor(db, table, admindb.DefaultColumns())
	if err != nil {
		return nil, err
	}
	return exec, nil
}

// Purpose: Periodically record dashboard stats in the log file only.
// Key aspects: Never echoes to the console, so the System pane stays quiet.
// Upstream: main startup.
// Downstream: logFanout.WriteFileOnlyLine.
func startStatsLogger(ctx context.Context, fanout *logFanout, loop *ui.Loop, metrics *ui.Metrics) {
	go func() {
		ticker := time.NewTicker(statsLogInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				status := ui.FormatStatus(metrics.Snapshot(), loop.Connected(), loop.Scheduler().Cadence(), now)
				fanout.WriteFileOnlyLine("Stats: "+status, now)
			}
		}
	}()
}

// Purpose: Program entrypoint; wires configuration, store, and frame loop.
// Key aspects: One connection for the process lifetime; UI mode picks the frame driver.
// Upstream: OS process start.
// Downstream: openDatabase, ui.Loop, ui.Dashboard / ui.RunTicker.
func main() {
	cfg, err := loadDashboardConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	fanout, err := setupLogging(cfg.Logging, os.Stderr)
	log.SetOutput(fanout)
	log.SetFlags(0)
	defer fanout.Close()
	if err != nil {
		log.Printf("Logging: file logging disabled: %v", err)
	}
	log.Printf("Admin dashboard v%s starting (config %s)", Version, cfg.LoadedFrom)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := openDatabase(ctx, cfg.Database)
	if err != nil {
		log.Printf("Database: %v", err)
		if cfg.Database.ExitOnFailure() {
			fanout.Close()
			os.Exit(1)
		}
		log.Printf("Database: continuing without a connection; no data will be shown")
		db = nil
	} else {
		log.Printf("Database: connected (%s)", cfg.Database.Driver)
		defer db.Close()
	}

	poller, err := buildPoller(db, cfg.Database.Table)
	if err != nil {
		log.Fatalf("Database: %v", err)
	}

	metrics := ui.NewMetrics()
	loop := ui.NewLoop(
		ui.NewFrameScheduler(cfg.Poll.CadenceFrames),
		poller,
		ui.NewSnapshotStore(),
		ui.NewTableRenderer(admindb.DefaultColumns()),
		metrics,
	)
	startStatsLogger(ctx, fanout, loop, metrics)

	mode := resolveUIMode(cfg.UI.Mode, isStdoutTTY())
	switch mode {
	case config.UIModeTview:
		runDashboard(ctx, cfg.UI, loop, metrics, fanout)
	case config.UIModeANSI:
		// Log lines would scroll the repainted table away.
		fanout.SetConsoleSink(nil, false)
		ui.RunTicker(ctx, cfg.UI.TargetFPS, loop, metrics, ui.NewANSIConsole(cfg.UI, os.Stdout))
	default:
		cfg.Print()
		ui.RunTicker(ctx, cfg.UI.TargetFPS, loop, metrics, ui.NewLogPresenter(log.Printf))
	}
	log.Printf("Shutting down")
}

func runDashboard(ctx context.Context, cfg config.UIConfig, loop *ui.Loop, metrics *ui.Metrics, fanout *logFanout) {
	dash := ui.NewDashboard(cfg, loop, metrics)
	done := make(chan error, 1)
	go func() { done <- dash.Run(ctx) }()

	ready := make(chan struct{})
	go func() {
		dash.WaitReady()
		close(ready)
	}()
	select {
	case <-ready:
		// The System pane timestamps lines itself.
		fanout.SetConsoleSink(dash.SystemWriter(), false)
	case err := <-done:
		if err != nil {
			log.Printf("UI: %v", err)
		}
		return
	}

	err := <-done
	fanout.SetConsoleSink(os.Stderr, true)
	if err != nil {
		log.Printf("UI: %v", err)
	}
}
