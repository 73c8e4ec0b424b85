// Package config provides a reusable loader for gridcache client
// configuration files and environment variables: a viper-based
// load/merge/env-override pipeline populating an endpoint, optional
// credentials, and TCP tuning knobs.
//
// Version: v0.1.0
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/solidgrid/gridcache/conn"
	"github.com/solidgrid/gridcache/pkg/utils"
)

// Version is the semantic version of this configuration package.
const Version = "v0.1.0"

// Config is the unified configuration for a gridcache client. It mirrors
// the structure of the YAML files under cmd/gridcache-cli/config.
type Config struct {
	Endpoint string `mapstructure:"endpoint" json:"endpoint"`

	Username string `mapstructure:"username" json:"username"`
	Password string `mapstructure:"password" json:"password"`

	TCP struct {
		NoDelay         bool `mapstructure:"no_delay" json:"no_delay"`
		DialTimeoutMS   int  `mapstructure:"dial_timeout_ms" json:"dial_timeout_ms"`
		ReadTimeoutMS   int  `mapstructure:"read_timeout_ms" json:"read_timeout_ms"`
		WriteTimeoutMS  int  `mapstructure:"write_timeout_ms" json:"write_timeout_ms"`
		ReadBufferSize  int  `mapstructure:"read_buffer_size" json:"read_buffer_size"`
		WriteBufferSize int  `mapstructure:"write_buffer_size" json:"write_buffer_size"`
	} `mapstructure:"tcp" json:"tcp"`
}

// AppConfig holds the configuration loaded via Load or LoadFromEnv.
var AppConfig Config

// Load reads configuration files and merges any environment-specific
// overrides. The resulting configuration is stored in AppConfig and
// returned.
//
// The function uses the provided environment name to merge additional
// config files. If env is empty, only the default configuration is loaded.
func Load(env string) (*Config, error) {
	// Best-effort: a .env file is optional, present mainly in local dev.
	_ = godotenv.Load(".env")

	viper.SetConfigName("default")
	viper.AddConfigPath("cmd/gridcache-cli/config")
	viper.AddConfigPath("config")
	viper.SetConfigType("yaml")
	if err := viper.ReadInConfig(); err != nil {
		return nil, utils.Wrap(err, "load config")
	}

	if env != "" {
		viper.SetConfigName(env)
		if err := viper.MergeInConfig(); err != nil {
			return nil, utils.Wrap(err, fmt.Sprintf("merge %s config", env))
		}
	}

	viper.SetEnvPrefix("gridcache")
	viper.AutomaticEnv()

	if err := viper.Unmarshal(&AppConfig); err != nil {
		return nil, utils.Wrap(err, "unmarshal config")
	}
	return &AppConfig, nil
}

// LoadFromEnv loads configuration using the GRIDCACHE_ENV environment
// variable; unset or empty means only the default configuration is read.
func LoadFromEnv() (*Config, error) {
	return Load(os.Getenv("GRIDCACHE_ENV"))
}

// ConnConfig adapts the loaded Config into conn.Config, converting
// millisecond durations and treating an empty username as "no
// credentials" (conn.Config distinguishes absent credentials from the
// empty string via a nil pointer; a cluster with a blank password is not a
// case this client needs to support).
func (c *Config) ConnConfig() conn.Config {
	cc := conn.Config{
		Endpoint:        c.Endpoint,
		NoDelay:         c.TCP.NoDelay,
		DialTimeout:     time.Duration(c.TCP.DialTimeoutMS) * time.Millisecond,
		ReadTimeout:     time.Duration(c.TCP.ReadTimeoutMS) * time.Millisecond,
		WriteTimeout:    time.Duration(c.TCP.WriteTimeoutMS) * time.Millisecond,
		ReadBufferSize:  c.TCP.ReadBufferSize,
		WriteBufferSize: c.TCP.WriteBufferSize,
	}
	if c.Username != "" {
		u, p := c.Username, c.Password
		cc.Username, cc.Password = &u, &p
	}
	return cc
}
