package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// GameServer holds all configuration for the game server.
type GameServer struct {
	// Network
	BindAddress string `yaml:"bind_address"`
	Port        int    `yaml:"port"`

	// Logging
	LogLevel string `yaml:"log_level"`

	// Websocket client tuning
	WriteTimeout  time.Duration `yaml:"write_timeout"`   // per-write deadline
	ReadTimeout   time.Duration `yaml:"read_timeout"`    // idle client disconnect
	SendQueueSize int           `yaml:"send_queue_size"` // per-client outbox capacity

	// Database. An empty host disables match-result persistence; the
	// server runs fully in-memory in that case.
	Database DatabaseConfig `yaml:"database"`

	// Room simulation
	Room RoomConfig `yaml:"room"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
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

// Enabled reports whether persistence is configured at all.
func (d DatabaseConfig) Enabled() bool {
	return d.Host != ""
}

// RoomConfig holds the authoritative simulation parameters for one room.
type RoomConfig struct {
	TickInterval   time.Duration `yaml:"tick_interval"`   // fixed simulation step
	EnemyCount     int           `yaml:"enemy_count"`     // initial battlefield size
	Hearts         int           `yaml:"hearts"`          // starting health per player
	ArrivalRadius  float64       `yaml:"arrival_radius"`  // distance to center that costs a heart
	IdleTimeout    time.Duration `yaml:"idle_timeout"`    // dissolve a room with no inbound traffic
	SnapshotChance float64       `yaml:"snapshot_chance"` // per-tick probability of a full roomState broadcast
}

// DefaultGameServer returns GameServer config with sensible defaults.
func DefaultGameServer() GameServer {
	return GameServer{
		BindAddress:   "0.0.0.0",
		Port:          4000,
		LogLevel:      "info",
		WriteTimeout:  5 * time.Second,
		ReadTimeout:   120 * time.Second,
		SendQueueSize: 256,
		Database: DatabaseConfig{
			Port:    5432,
			User:    "typeroyale",
			DBName:  "typeroyale",
			SSLMode: "disable",
		},
		Room: DefaultRoom(),
	}
}

// DefaultRoom returns the simulation parameters used in production.
func DefaultRoom() RoomConfig {
	return RoomConfig{
		TickInterval:   80 * time.Millisecond,
		EnemyCount:     10,
		Hearts:         3,
		ArrivalRadius:  24,
		IdleTimeout:    90 * time.Second,
		SnapshotChance: 0.08,
	}
}

// LoadGameServer reads the game server config from a YAML file.
// Missing keys keep their default values.
func LoadGameServer(path string) (GameServer, error) {
	cfg := DefaultGameServer()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %q: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %q: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("validating config %q: %w", path, err)
	}
	return cfg, nil
}

// Validate checks that the loaded values can actually run a room.
func (c GameServer) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.Room.TickInterval <= 0 {
		return fmt.Errorf("tick_interval must be positive, got %v", c.Room.TickInterval)
	}
	if c.Room.EnemyCount <= 0 {
		return fmt.Errorf("enemy_count must be positive, got %d", c.Room.EnemyCount)
	}
	if c.Room.Hearts <= 0 {
		return fmt.Errorf("hearts must be positive, got %d", c.Room.Hearts)
	}
	if c.Room.ArrivalRadius <= 0 {
		return fmt.Errorf("arrival_radius must be positive, got %v", c.Room.ArrivalRadius)
	}
	if c.Room.SnapshotChance < 0 || c.Room.SnapshotChance > 1 {
		return fmt.Errorf("snapshot_chance must be in [0,1], got %v", c.Room.SnapshotChance)
	}
	return nil
}
