// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Emberworks

package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the relay server configuration, loaded from cocotte.yaml,
// COCOTTE_* environment variables, and command-line flags, in rising
// precedence.
type Config struct {
	HTTP struct {
		Addr string `mapstructure:"addr"`
	} `mapstructure:"http"`

	Serial struct {
		Port string `mapstructure:"port"`
		Baud int    `mapstructure:"baud"`
	} `mapstructure:"serial"`

	Bridge struct {
		URL      string `mapstructure:"url"`
		Username string `mapstructure:"username"`
	} `mapstructure:"bridge"`

	Redis struct {
		Enabled  bool   `mapstructure:"enabled"`
		Addr     string `mapstructure:"addr"`
		Password string `mapstructure:"password"`
	} `mapstructure:"redis"`

	Poll struct {
		Connected    time.Duration `mapstructure:"connected"`
		Disconnected time.Duration `mapstructure:"disconnected"`
	} `mapstructure:"poll"`

	Cook struct {
		TimeScale      int           `mapstructure:"time_scale"`
		CompletionHold time.Duration `mapstructure:"completion_hold"`
	} `mapstructure:"cook"`

	Buffer struct {
		Capacity int `mapstructure:"capacity"`
	} `mapstructure:"buffer"`
}

// loadConfig reads the config file (if any), applies environment
// overrides, and folds in the shared connection flags.
func loadConfig() (Config, error) {
	v := viper.New()

	v.SetDefault("http.addr", ":8080")
	v.SetDefault("serial.baud", 115200)
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("poll.connected", 2*time.Second)
	v.SetDefault("poll.disconnected", 10*time.Second)
	v.SetDefault("cook.time_scale", 60)
	v.SetDefault("cook.completion_hold", 2*time.Second)
	v.SetDefault("buffer.capacity", 10)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("cocotte")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/cocotte")
	}

	v.SetEnvPrefix("COCOTTE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	// Flags beat file and environment.
	if portName != "" {
		cfg.Serial.Port = portName
	}
	if baudRate != 0 {
		cfg.Serial.Baud = baudRate
	}
	if bridgeURL != "" {
		cfg.Bridge.URL = bridgeURL
	}
	if bridgeUsername != "" {
		cfg.Bridge.Username = bridgeUsername
	}
	return cfg, nil
}
