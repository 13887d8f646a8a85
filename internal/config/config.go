package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Simulation holds all configuration for the battle simulator.
type Simulation struct {
	LogLevel string `yaml:"log_level"` // debug, info, warn, error

	// Data files. Empty paths fall back to the embedded defaults.
	BalancePath  string `yaml:"balance_path"`
	ScenarioPath string `yaml:"scenario_path"`

	Database DatabaseConfig `yaml:"database"`
	Combat   Combat         `yaml:"combat"`
	Campaign Campaign       `yaml:"campaign"`
	Runner   Runner         `yaml:"runner"`
	API      API            `yaml:"api"`
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
	MaxConns int32  `yaml:"max_conns"` // 0 keeps the pgxpool default
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// Runner controls headless batch runs.
type Runner struct {
	Runs        int     `yaml:"runs"`
	SeedBase    int64   `yaml:"seed_base"`
	SeedStep    int64   `yaml:"seed_step"`
	TickRate    float64 `yaml:"tick_rate"` // frames per simulated second
	MaxTicks    int     `yaml:"max_ticks"` // battle is abandoned as undecided after this
	Parallelism int     `yaml:"parallelism"`
}

// FrameDelta returns the fixed frame delta in seconds.
func (r Runner) FrameDelta() float32 {
	if r.TickRate <= 0 {
		return 1.0 / 60.0
	}
	return float32(1.0 / r.TickRate)
}

// API holds the HTTP/websocket listener settings.
type API struct {
	Enabled     bool   `yaml:"enabled"`
	BindAddress string `yaml:"bind_address"`
	Port        int    `yaml:"port"`
}

// Addr returns host:port for net/http.
func (a API) Addr() string {
	return fmt.Sprintf("%s:%d", a.BindAddress, a.Port)
}

// DefaultSimulation returns Simulation config with sensible defaults.
func DefaultSimulation() Simulation {
	return Simulation{
		LogLevel: "info",
		Database: DatabaseConfig{
			Enabled:  false,
			Host:     "127.0.0.1",
			Port:     5432,
			User:     "squadfall",
			Password: "squadfall",
			DBName:   "squadfall",
			SSLMode:  "disable",
		},
		Combat:   DefaultCombat(),
		Campaign: DefaultCampaign(),
		Runner: Runner{
			Runs:        5,
			SeedBase:    42,
			SeedStep:    1,
			TickRate:    60,
			MaxTicks:    60 * 60 * 5, // five simulated minutes
			Parallelism: 4,
		},
		API: API{
			Enabled:     false,
			BindAddress: "0.0.0.0",
			Port:        8085,
		},
	}
}

// LoadSimulation loads simulator config from a YAML file.
// If the file doesn't exist, returns defaults.
func LoadSimulation(path string) (Simulation, error) {
	cfg := DefaultSimulation()

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
