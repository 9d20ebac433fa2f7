package config

import (
	"github.com/tapeball/cricket-scoring-service/internal/logger"
)

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// PostgresConfig holds connection and pool tuning parameters. Durations are
// expressed in seconds to keep the YAML flat and env-overridable.
type PostgresConfig struct {
	Host              string `mapstructure:"host"`
	Port              int    `mapstructure:"port"`
	User              string `mapstructure:"user"`
	Password          string `mapstructure:"password"`
	DBName            string `mapstructure:"dbname"`
	SSLMode           string `mapstructure:"sslmode"`
	MaxConns          int32  `mapstructure:"max_conns"`
	MinConns          int32  `mapstructure:"min_conns"`
	MaxConnLifetime   int    `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime   int    `mapstructure:"max_conn_idle_time"`
	HealthCheckPeriod int    `mapstructure:"health_check_period"`
	RunMigrations     bool   `mapstructure:"run_migrations"`
}

// MatchConfig carries the defaults applied to a match when the creator
// does not override them.
type MatchConfig struct {
	OversPerInnings   int `mapstructure:"overs_per_innings"`
	PowerplayOvers    int `mapstructure:"powerplay_overs"`
	MaxOversPerBowler int `mapstructure:"max_overs_per_bowler"`
}

// Config is the root of the application configuration tree.
type Config struct {
	Server   ServerConfig        `mapstructure:"server"`
	Postgres PostgresConfig      `mapstructure:"postgres"`
	Logger   logger.LoggerConfig `mapstructure:"logger"`
	Match    MatchConfig         `mapstructure:"match"`
	// Storage selects the repository backend: "postgres" or "memory".
	Storage string `mapstructure:"storage"`
}
