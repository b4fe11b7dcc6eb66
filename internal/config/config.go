package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Balancer holds all configuration for the combatlab tool.
type Balancer struct {
	LogLevel string `yaml:"log_level"` // debug | info | warn | error

	Simulation Simulation     `yaml:"simulation"`
	EHP        EHP            `yaml:"ehp"`
	Weights    Weights        `yaml:"weights"`
	Database   DatabaseConfig `yaml:"database"`
}

// Simulation tunes the Monte Carlo runner.
type Simulation struct {
	Iterations int    `yaml:"iterations"`
	MaxTurns   int    `yaml:"max_turns"`
	CapPolicy  string `yaml:"cap_policy"` // draw | hp
	Workers    int    `yaml:"workers"`    // 0 = runtime.NumCPU()
	Seed       uint64 `yaml:"seed"`
	Precedence string `yaml:"precedence"` // fail_over_crit | crit_over_fail
}

// EHP is the incoming-hit profile of the EHP calculator.
type EHP struct {
	PhysicalHit float64 `yaml:"physical_hit"`
	MagicalHit  float64 `yaml:"magical_hit"`
	Accuracy    float64 `yaml:"accuracy"`
}

// Weights configures the dynamic weight analysis.
type Weights struct {
	Iterations int `yaml:"iterations"`
	// Overrides replace entries of the embedded static weight table.
	Overrides map[string]float64 `yaml:"overrides"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// DefaultBalancer returns Balancer config with sensible defaults.
// Persistence is off by default.
func DefaultBalancer() Balancer {
	return Balancer{
		LogLevel: "info",
		Simulation: Simulation{
			Iterations: 10000,
			MaxTurns:   100,
			CapPolicy:  "draw",
			Seed:       1,
			Precedence: "fail_over_crit",
		},
		EHP: EHP{
			PhysicalHit: 20,
			MagicalHit:  20,
			Accuracy:    50,
		},
		Weights: Weights{
			Iterations: 2000,
		},
		Database: DatabaseConfig{
			Host:     "127.0.0.1",
			Port:     5432,
			User:     "combatlab",
			Password: "combatlab",
			DBName:   "combatlab",
			SSLMode:  "disable",
		},
	}
}

// LoadBalancer loads config from a YAML file.
// If the file doesn't exist, returns defaults.
func LoadBalancer(path string) (Balancer, error) {
	cfg := DefaultBalancer()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}

// SlogLevel parses LogLevel. Empty means info.
func (b Balancer) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if b.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(b.LogLevel))); err != nil {
		return slog.LevelInfo, fmt.Errorf("log level %q: %w", b.LogLevel, err)
	}
	return lvl, nil
}
