// Copyright (c) 2026 The Slimcache Authors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

// Package config loads slimcached's runtime configuration: the handful
// of knobs that shape the cuckoo table (slot count, key/value limits,
// d, max hops) plus the ambient listen/metrics/logging settings a
// runnable server needs. Modeled on marmos91-dittofs's
// pkg/config/config.go: built-in defaults, overlaid by a YAML file when
// one is found. An SLIMCACHE_* environment variable overrides a key
// only when that file also sets the key; without a file the
// environment is not read.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// StorageConfig parameterizes the cuckoo table.
type StorageConfig struct {
	Slots   int `mapstructure:"slots" yaml:"slots"`
	D       int `mapstructure:"d" yaml:"d"`
	MaxHops int `mapstructure:"max_hops" yaml:"max_hops"`
	KeyMax  int `mapstructure:"key_max" yaml:"key_max"`
	ValMax  int `mapstructure:"val_max" yaml:"val_max"`
}

// ServerConfig parameterizes the TCP listener and worker pool.
type ServerConfig struct {
	ListenAddr string `mapstructure:"listen_addr" yaml:"listen_addr"`
	Workers    int    `mapstructure:"workers" yaml:"workers"`
}

// MetricsConfig parameterizes the optional /metrics HTTP endpoint
// that supplements (does not replace) the STATS verb.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Addr    string `mapstructure:"addr" yaml:"addr"`
}

// LoggingConfig controls the structured logger's level, mirroring the
// shape of marmos91-dittofs's LoggingConfig.
type LoggingConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
}

// Config is the full set of slimcached runtime settings.
type Config struct {
	Storage StorageConfig `mapstructure:"storage" yaml:"storage"`
	Server  ServerConfig  `mapstructure:"server" yaml:"server"`
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

// Default returns the built-in baseline: cuckoo.DefaultConfig's shape
// plus a loopback listener and disabled metrics endpoint.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Slots:   1 << 16,
			D:       4,
			MaxHops: 8,
			KeyMax:  250,
			ValMax:  1024,
		},
		Server: ServerConfig{
			ListenAddr: "127.0.0.1:11211",
			Workers:    1,
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Addr:    "127.0.0.1:9090",
		},
		Logging: LoggingConfig{
			Level: "INFO",
		},
	}
}

// Load starts from Default() and overlays the YAML file at configPath
// (or ./slimcache.yaml) when present. Environment variables override
// only keys the file sets, and a flag overrides only the key whose
// dotted name it carries (e.g. "server.workers"). With no file and nil
// flags, Load returns Default() unchanged. flags may be nil.
func Load(configPath string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setupViper(v, configPath)

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("config: bind flags: %w", err)
		}
	}

	fileFound, err := readConfigFile(v)
	if err != nil {
		return nil, fmt.Errorf("config: read file: %w", err)
	}

	cfg := Default()
	if !fileFound && flags == nil {
		return cfg, nil
	}

	if err := v.Unmarshal(cfg, viper.DecodeHook(mapstructure.StringToTimeDurationHookFunc())); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	return cfg, nil
}

// Save writes cfg to path in YAML, respecting the yaml struct tags
// rather than viper's own (mapstructure-oriented) serialization, per
// marmos91-dittofs's SaveConfig. Used by the "config init" command to
// seed a starter file a deployer can then edit by hand.
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

// setupViper wires environment variable support (SLIMCACHE_*, with
// "." replaced by "_" to match nested keys like storage.slots →
// SLIMCACHE_STORAGE_SLOTS) and an optional explicit config file path,
// per marmos91-dittofs's setupViper.
func setupViper(v *viper.Viper, configPath string) {
	v.SetEnvPrefix("SLIMCACHE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("slimcache")
		v.SetConfigType("yaml")
	}
}

// readConfigFile reads the configuration file if present, tolerating
// its absence (defaults then carry the value).
func readConfigFile(v *viper.Viper) (bool, error) {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
