package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Load reads the YAML config at path and applies APP_-prefixed environment
// overrides (APP_POSTGRES_PASSWORD beats postgres.password, and so on).
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()

	setDefaults(v)

	var config Config
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config file not found: %w", err)
	}
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)

	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("postgres.max_conns", 10)
	v.SetDefault("postgres.min_conns", 2)
	v.SetDefault("postgres.max_conn_lifetime", 3600)
	v.SetDefault("postgres.max_conn_idle_time", 1800)
	v.SetDefault("postgres.health_check_period", 60)
	v.SetDefault("postgres.run_migrations", true)

	v.SetDefault("storage", "postgres")

	// tape-ball house rules: ten overs a side, three powerplay overs,
	// two overs max per bowler
	v.SetDefault("match.overs_per_innings", 10)
	v.SetDefault("match.powerplay_overs", 3)
	v.SetDefault("match.max_overs_per_bowler", 2)
}
