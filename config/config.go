package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DefaultCadence          = 60
	DefaultTargetFPS        = 60
	DefaultLogLines         = 8
	DefaultTitle            = "Admin Records"
	DefaultTable            = "Admin"
	DefaultConnectTimeoutMS = 5000
	DefaultRetentionDays    = 7

	// PasswordEnv overrides database.password so secrets can stay out of YAML.
	PasswordEnv = "ADMINDASH_DB_PASSWORD"
)

// UI modes.
const (
	UIModeTview    = "tview"
	UIModeANSI     = "ansi"
	UIModeHeadless = "headless"
)

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Config represents the complete dashboard configuration
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Poll     PollConfig     `yaml:"poll"`
	UI       UIConfig       `yaml:"ui"`
	Logging  LoggingConfig  `yaml:"logging"`

	// LoadedFrom is the directory the configuration was read from.
	LoadedFrom string `yaml:"-"`
}

// DatabaseConfig describes the record source. Either DSN or the discrete
// fields may be used; DSN wins when both are set.
type DatabaseConfig struct {
	Driver           string `yaml:"driver"`
	DSN              string `yaml:"dsn"`
	Host             string `yaml:"host"`
	Port             int    `yaml:"port"`
	User             string `yaml:"user"`
	Password         string `yaml:"password"`
	Name             string `yaml:"name"`
	Path             string `yaml:"path"`
	Table            string `yaml:"table"`
	ConnectTimeoutMS int    `yaml:"connect_timeout_ms"`
	// ExitOnConnectFailure defaults to true. When false the dashboard starts
	// without a connection and shows the fallback message.
	ExitOnConnectFailure *bool `yaml:"exit_on_connect_failure"`
	// Preflight runs an integrity check on SQLite files before opening them.
	Preflight bool `yaml:"preflight"`
}

// PollConfig controls how often the record source is queried.
type PollConfig struct {
	CadenceFrames int `yaml:"cadence_frames"`
}

// UIConfig controls the local console.
type UIConfig struct {
	// Mode is tview, ansi or headless.
	Mode        string `yaml:"mode"`
	TargetFPS   int    `yaml:"target_fps"`
	Title       string `yaml:"title"`
	Color       bool   `yaml:"color"`
	ClearScreen bool   `yaml:"clear_screen"`
	LogLines    int    `yaml:"log_lines"`
	EnableMouse bool   `yaml:"enable_mouse"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Enabled       bool   `yaml:"enabled"`
	Dir           string `yaml:"dir"`
	RetentionDays int    `yaml:"retention_days"`
}

// Load reads every *.yaml / *.yml file in dir, in lexical order, into a
// single Config. Later files override keys set by earlier ones.
func Load(dir string) (*Config, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read config directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("config path %q is not a directory", dir)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list config directory: %w", err)
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".yaml", ".yml":
			files = append(files, entry.Name())
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no YAML files found in %s", dir)
	}
	sort.Strings(files)

	var cfg Config
	for _, name := range files {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", name, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", name, err)
		}
	}
	cfg.LoadedFrom = dir

	if pw, ok := os.LookupEnv(PasswordEnv); ok {
		cfg.Database.Password = pw
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	db := &c.Database
	db.Driver = strings.ToLower(strings.TrimSpace(db.Driver))
	if db.Driver == "" {
		db.Driver = "mysql"
	}
	if strings.TrimSpace(db.Table) == "" {
		db.Table = DefaultTable
	}
	if db.ConnectTimeoutMS <= 0 {
		db.ConnectTimeoutMS = DefaultConnectTimeoutMS
	}
	if db.ExitOnConnectFailure == nil {
		exit := true
		db.ExitOnConnectFailure = &exit
	}
	if c.Poll.CadenceFrames <= 0 {
		c.Poll.CadenceFrames = DefaultCadence
	}
	c.UI.Mode = strings.ToLower(strings.TrimSpace(c.UI.Mode))
	if c.UI.Mode == "" {
		c.UI.Mode = UIModeTview
	}
	if c.UI.TargetFPS <= 0 {
		c.UI.TargetFPS = DefaultTargetFPS
	}
	if strings.TrimSpace(c.UI.Title) == "" {
		c.UI.Title = DefaultTitle
	}
	if c.UI.LogLines <= 0 {
		c.UI.LogLines = DefaultLogLines
	}
	if c.Logging.RetentionDays <= 0 {
		c.Logging.RetentionDays = DefaultRetentionDays
	}
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	switch c.Database.Driver {
	case "mysql":
	case "sqlite":
		if strings.TrimSpace(c.Database.DSN) == "" && strings.TrimSpace(c.Database.Path) == "" {
			errs = append(errs, errors.New("database.path is required for the sqlite driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("database.driver %q is not supported (mysql, sqlite)", c.Database.Driver))
	}
	if !tableNamePattern.MatchString(c.Database.Table) {
		errs = append(errs, fmt.Errorf("database.table %q is not a plain identifier", c.Database.Table))
	}
	if c.Database.Port < 0 || c.Database.Port > 65535 {
		errs = append(errs, fmt.Errorf("database.port %d is out of range", c.Database.Port))
	}
	switch c.UI.Mode {
	case UIModeTview, UIModeANSI, UIModeHeadless:
	default:
		errs = append(errs, fmt.Errorf("ui.mode %q is not supported (tview, ansi, headless)", c.UI.Mode))
	}
	if c.Logging.Enabled && strings.TrimSpace(c.Logging.Dir) == "" {
		errs = append(errs, errors.New("logging.dir is required when logging.enabled is true"))
	}
	return errors.Join(errs...)
}

// ExitOnFailure reports whether a failed initial connection is fatal.
func (d DatabaseConfig) ExitOnFailure() bool {
	return d.ExitOnConnectFailure == nil || *d.ExitOnConnectFailure
}

// Print displays the configuration
func (c *Config) Print() {
	target := c.Database.Path
	if c.Database.Driver == "mysql" {
		host := c.Database.Host
		if host == "" {
			host = "127.0.0.1"
		}
		port := c.Database.Port
		if port == 0 {
			port = 3306
		}
		target = fmt.Sprintf("%s@%s:%d/%s", c.Database.User, host, port, c.Database.Name)
	}
	if strings.TrimSpace(c.Database.DSN) != "" {
		target = "custom DSN"
	}
	fmt.Printf("Database: %s %s (table %s)\n", c.Database.Driver, target, c.Database.Table)
	fmt.Printf("Poll: every %d frames at %d fps\n", c.Poll.CadenceFrames, c.UI.TargetFPS)
	fmt.Printf("UI: %s\n", c.UI.Mode)
	if c.Logging.Enabled {
		fmt.Printf("Logging: %s (retain %d days)\n", c.Logging.Dir, c.Logging.RetentionDays)
	}
}
