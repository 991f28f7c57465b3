// Package config loads the powerparts settings through Viper.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	pkgcatalog "github.com/HerbHall/powerparts/pkg/catalog"
)

// EnvPrefix is prepended to environment overrides, e.g.
// POWERPARTS_SERVER_PORT=9090.
const EnvPrefix = "POWERPARTS"

// Config is a read-only view over a Viper instance. A Config built from a
// nil Viper decodes to zero Settings.
type Config struct {
	v *viper.Viper
}

// New wraps v.
func New(v *viper.Viper) *Config {
	return &Config{v: v}
}

// Settings is the typed form of the full configuration tree.
type Settings struct {
	Server  ServerSettings  `mapstructure:"server"`
	Catalog CatalogSettings `mapstructure:"catalog"`
	Log     LogSettings     `mapstructure:"log"`
}

type ServerSettings struct {
	Host      string  `mapstructure:"host"`
	Port      string  `mapstructure:"port"`
	RateLimit float64 `mapstructure:"rate_limit"`
	Burst     int     `mapstructure:"burst"`
}

type CatalogSettings struct {
	Mosfets      string `mapstructure:"mosfets"`
	Inductors    string `mapstructure:"inductors"`
	Capacitors   string `mapstructure:"capacitors"`
	Cache        bool   `mapstructure:"cache"`
	DisplayCount int    `mapstructure:"display_count"`
}

type LogSettings struct {
	Development bool `mapstructure:"development"`
}

// Addr returns host:port for the HTTP listener.
func (s ServerSettings) Addr() string {
	return s.Host + ":" + s.Port
}

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.rate_limit", 20.0)
	v.SetDefault("server.burst", 40)
	v.SetDefault("catalog.mosfets", pkgcatalog.BuiltinMosfets)
	v.SetDefault("catalog.inductors", pkgcatalog.BuiltinInductors)
	v.SetDefault("catalog.capacitors", pkgcatalog.BuiltinCapacitors)
	v.SetDefault("catalog.cache", false)
	v.SetDefault("catalog.display_count", 3)
	v.SetDefault("log.development", false)
}

// Load builds a Config from defaults, an optional YAML file and
// POWERPARTS_* environment variables, in increasing precedence.
func Load(path string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config %q: %w", path, err)
			}
		}
	}
	return New(v), nil
}

// Settings decodes the whole tree into Settings.
func (c *Config) Settings() (Settings, error) {
	var s Settings
	if err := c.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("decode settings: %w", err)
	}
	return s, nil
}

// Unmarshal decodes the tree into target. A nil Viper leaves target untouched.
func (c *Config) Unmarshal(target any) error {
	if c.v == nil {
		return nil
	}
	return c.v.Unmarshal(target)
}
