package sql

import (
	"fmt"
	"os"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/artisandb/artisan"
)

// ConnConfig describes one named database connection.
type ConnConfig struct {
	// Driver is the dialect / database-sql driver name.
	Driver string `yaml:"driver"`
	// DSN is the data source name passed to the driver.
	DSN string `yaml:"dsn"`
	// MaxOpenConns caps the pool size. Zero keeps the driver default.
	MaxOpenConns int `yaml:"max_open_conns"`
	// MaxIdleConns caps idle pooled connections. Zero keeps the default.
	MaxIdleConns int `yaml:"max_idle_conns"`
	// ConnMaxLifetime bounds connection reuse. Zero disables the bound.
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

// Config is the connection configuration document, typically loaded from
// a YAML file:
//
//	default: app
//	connections:
//	  app:
//	    driver: sqlite
//	    dsn: file:app.db?_pragma=foreign_keys(1)
//	  reports:
//	    driver: mysql
//	    dsn: user:pass@tcp(db:3306)/reports
type Config struct {
	Default     string                `yaml:"default"`
	Connections map[string]ConnConfig `yaml:"connections"`
}

// LoadConfig reads and decodes a YAML connection configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("dialect/sql: read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("dialect/sql: decode config: %w", err)
	}
	return &cfg, nil
}

// Manager hands out drivers for named connections, opening each underlying
// pool at most once on first access and caching it for the process
// lifetime.
type Manager struct {
	cfg   *Config
	mu    sync.Mutex
	conns map[string]*Driver
}

// NewManager returns a Manager over the given configuration.
func NewManager(cfg *Config) *Manager {
	return &Manager{cfg: cfg, conns: make(map[string]*Driver)}
}

// Connection returns the driver for the named connection, opening it on
// first use. An empty name selects the configured default.
func (m *Manager) Connection(name string) (*Driver, error) {
	if name == "" {
		name = m.cfg.Default
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if drv, ok := m.conns[name]; ok {
		return drv, nil
	}
	cc, ok := m.cfg.Connections[name]
	if !ok {
		return nil, artisan.NewUsageError("unknown connection %q", name)
	}
	drv, err := Open(cc.Driver, cc.DSN)
	if err != nil {
		return nil, fmt.Errorf("dialect/sql: open connection %q: %w", name, err)
	}
	db := drv.DB()
	if cc.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cc.MaxOpenConns)
	}
	if cc.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cc.MaxIdleConns)
	}
	if cc.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cc.ConnMaxLifetime)
	}
	m.conns[name] = drv
	return drv, nil
}

// Close closes every opened connection, returning the first error.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var first error
	for name, drv := range m.conns {
		if err := drv.Close(); err != nil && first == nil {
			first = err
		}
		delete(m.conns, name)
	}
	return first
}
