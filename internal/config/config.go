// Package config loads worktime settings from worktime.yaml, WORKTIME_*
// environment variables and built-in defaults, in that order of
// precedence (env wins).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

const (
	EnvPrefix      = "WORKTIME"
	configName     = "worktime"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
	Sessions SessionsConfig `mapstructure:"sessions"`
}

type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`
}

// AuthConfig names the headers the gateway uses to forward the verified
// caller.
type AuthConfig struct {
	UserHeader string `mapstructure:"user_header"`
	RoleHeader string `mapstructure:"role_header"`
}

type DatabaseConfig struct {
	Driver         string        `mapstructure:"driver"`
	Path           string        `mapstructure:"path"`
	DSN            string        `mapstructure:"dsn"`
	MaxConns       int32         `mapstructure:"max_conns"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type SessionsConfig struct {
	SingleOpenPerUser bool `mapstructure:"single_open_per_user"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.cors_origins", []string{"*"})

	v.SetDefault("auth.user_header", "X-User-Id")
	v.SetDefault("auth.role_header", "X-User-Role")

	v.SetDefault("database.driver", DriverSQLite)
	v.SetDefault("database.path", "~/.worktime/worktime.db")
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.connect_timeout", "30s")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "auto")

	v.SetDefault("sessions.single_open_per_user", false)
}

// Manager holds the current configuration. Once Watch starts, viper's
// watcher goroutine owns the viper instance it re-reads, so reloads decode
// from a fresh instance and nothing else touches m.v.
type Manager struct {
	mu   sync.RWMutex
	v    *viper.Viper
	file string
	cfg  *Config
}

// NewManager reads configuration. An empty path searches ".", "./configs"
// and "$HOME/.worktime" for worktime.yaml; a missing file there is not an
// error. An explicit path must exist.
func NewManager(path string) (*Manager, error) {
	v, err := readViper(path)
	if err != nil {
		return nil, err
	}
	cfg, err := decode(v)
	if err != nil {
		return nil, err
	}
	return &Manager{v: v, file: v.ConfigFileUsed(), cfg: cfg}, nil
}

func readViper(path string) (*viper.Viper, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".worktime"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}
	return v, nil
}

// Load is NewManager for callers that never watch the file.
func Load(path string) (*Config, error) {
	m, err := NewManager(path)
	if err != nil {
		return nil, err
	}
	return m.Config(), nil
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	cfg.Database.Path = expandHome(cfg.Database.Path)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Config returns a copy of the current configuration.
func (m *Manager) Config() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c := *m.cfg
	c.Server.CORSOrigins = append([]string(nil), m.cfg.Server.CORSOrigins...)
	return &c
}

// ConfigFile reports the file in use, or "" when running on defaults.
func (m *Manager) ConfigFile() string {
	return m.file
}

// Watch re-reads the file whenever it changes and passes the new config to
// onChange. Invalid edits are reported through onError and leave the
// previous config in place. Only settings read at call time (such as the
// log level) take effect without a restart.
func (m *Manager) Watch(onChange func(*Config), onError func(error)) {
	m.v.OnConfigChange(func(e fsnotify.Event) {
		var cfg *Config
		v, err := readViper(m.file)
		if err == nil {
			cfg, err = decode(v)
		}
		if err == nil {
			m.mu.Lock()
			m.cfg = cfg
			m.mu.Unlock()
		}

		if err != nil {
			if onError != nil {
				onError(fmt.Errorf("reloading %s: %w", e.Name, err))
			}
			return
		}
		if onChange != nil {
			onChange(m.Config())
		}
	})
	m.v.WatchConfig()
}

var (
	validLogLevels  = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	validLogFormats = map[string]bool{"auto": true, "text": true, "json": true}
)

// Validate reports the first setting that cannot work.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return errors.New("server.addr must not be empty")
	}
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 || c.Server.ShutdownTimeout <= 0 {
		return errors.New("server timeouts must be positive")
	}
	if c.Auth.UserHeader == "" || c.Auth.RoleHeader == "" {
		return errors.New("auth.user_header and auth.role_header must be set")
	}

	switch c.Database.Driver {
	case DriverSQLite:
		if c.Database.Path == "" {
			return errors.New("database.path is required for the sqlite driver")
		}
	case DriverPostgres:
		if c.Database.DSN == "" {
			return errors.New("database.dsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("database.driver must be %q or %q, got %q", DriverSQLite, DriverPostgres, c.Database.Driver)
	}
	if c.Database.MaxConns <= 0 {
		return fmt.Errorf("database.max_conns must be positive, got %d", c.Database.MaxConns)
	}
	if c.Database.ConnectTimeout <= 0 {
		return errors.New("database.connect_timeout must be positive")
	}

	if !validLogLevels[strings.ToLower(c.Log.Level)] {
		return fmt.Errorf("log.level must be one of debug, info, warn, error; got %q", c.Log.Level)
	}
	if !validLogFormats[strings.ToLower(c.Log.Format)] {
		return fmt.Errorf("log.format must be one of auto, text, json; got %q", c.Log.Format)
	}
	return nil
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
