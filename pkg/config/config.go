// FWT Dashboard
// Copyright (c) 2026 The FWT Dashboard Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of FWT Dashboard.
//
// FWT Dashboard is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// FWT Dashboard is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with FWT Dashboard.  If not, see <http://www.gnu.org/licenses/>.

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/go-playground/validator/v10"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog/log"
)

const (
	SchemaVersion = 1
	CfgEnv        = "FWT_DASHBOARD_CFG"
	CfgFile       = "fwtd.toml"
	LogFile       = "fwtd.log"
)

// Values is the full TOML configuration tree.
type Values struct {
	Service      Service   `toml:"service,omitempty"`
	Supabase     Supabase  `toml:"supabase,omitempty"`
	Provider     Provider  `toml:"provider,omitempty"`
	Cache        Cache     `toml:"cache,omitempty"`
	Auth         Auth      `toml:"auth,omitempty"`
	Telemetry    Telemetry `toml:"telemetry,omitempty"`
	ConfigSchema int       `toml:"config_schema"`
	DebugLogging bool      `toml:"debug_logging"`
}

type Service struct {
	Host           string   `toml:"host,omitempty"`
	AllowedOrigins []string `toml:"allowed_origins,omitempty,multiline"`
	Port           int      `toml:"port,omitempty" validate:"omitempty,min=1,max=65535"`
	RateLimitRPM   int      `toml:"rate_limit_rpm,omitempty" validate:"omitempty,min=1"`
	RateLimitBurst int      `toml:"rate_limit_burst,omitempty" validate:"omitempty,min=1"`
}

type Supabase struct {
	// URL is the project REST root, e.g. https://xyz.supabase.co/rest/v1.
	URL        string `toml:"url,omitempty" validate:"omitempty,url"`
	ServiceKey string `toml:"service_key,omitempty"`
	// Schema selects a non-default Postgres schema via profile headers.
	Schema string `toml:"schema,omitempty"`
}

type Provider struct {
	// URL is the results provider GraphQL endpoint.
	URL            string `toml:"url,omitempty" validate:"omitempty,url"`
	TimeoutSeconds int    `toml:"timeout_seconds,omitempty" validate:"omitempty,min=1"`
}

type Cache struct {
	EventTTLSeconds   int `toml:"event_ttl_seconds,omitempty" validate:"omitempty,min=1"`
	AthleteTTLSeconds int `toml:"athlete_ttl_seconds,omitempty" validate:"omitempty,min=1"`
}

type Auth struct {
	// JWTSecret verifies Supabase-issued HS256 bearer tokens. Auth is
	// disabled when empty; the admin endpoints then reject everything.
	JWTSecret string `toml:"jwt_secret,omitempty"`
}

type Telemetry struct {
	// DSN is the Sentry project key. Error reporting stays off while
	// either Enabled is false or DSN is empty.
	DSN     string `toml:"dsn,omitempty" validate:"omitempty,url"`
	Enabled bool   `toml:"enabled"`
}

// BaseDefaults are the values a fresh install starts from.
var BaseDefaults = Values{
	ConfigSchema: SchemaVersion,
	Service: Service{
		Host:           "0.0.0.0",
		Port:           8000,
		RateLimitRPM:   100,
		RateLimitBurst: 20,
	},
	Provider: Provider{
		URL:            "https://liveheats.com/api/graphql",
		TimeoutSeconds: 30,
	},
	Cache: Cache{
		EventTTLSeconds:   300,
		AthleteTTLSeconds: 600,
	},
}

// Instance wraps Values with concurrency-safe access and persistence.
type Instance struct {
	vals    Values
	cfgPath string
	mu      sync.RWMutex
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// NewConfig loads the config file in configDir, creating it with defaults
// when missing. The FWT_DASHBOARD_CFG environment variable overrides the
// full file path.
func NewConfig(configDir string, defaults Values) (*Instance, error) {
	cfgPath := filepath.Join(configDir, CfgFile)
	if envPath, ok := os.LookupEnv(CfgEnv); ok && envPath != "" {
		cfgPath = envPath
	}

	cfg := &Instance{
		vals:    defaults,
		cfgPath: cfgPath,
	}

	if _, err := os.Stat(cfgPath); errors.Is(err, os.ErrNotExist) {
		log.Info().Str("path", cfgPath).Msg("config file missing, writing defaults")
		if err := cfg.Save(); err != nil {
			return nil, fmt.Errorf("failed to write default config: %w", err)
		}
		return cfg, nil
	}

	if err := cfg.Load(); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// Load re-reads the config file into the instance.
func (c *Instance) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cfgPath == "" {
		return errors.New("config path not set")
	}

	data, err := os.ReadFile(c.cfgPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	newVals := BaseDefaults
	if err := toml.Unmarshal(data, &newVals); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := validate.Struct(&newVals); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if newVals.ConfigSchema != SchemaVersion {
		log.Warn().
			Int("fileSchema", newVals.ConfigSchema).
			Int("appSchema", SchemaVersion).
			Msg("config schema mismatch")
	}

	c.vals = newVals
	return nil
}

// Save writes the current values to the config file.
func (c *Instance) Save() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.cfgPath == "" {
		return errors.New("config path not set")
	}

	if err := os.MkdirAll(filepath.Dir(c.cfgPath), 0o750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(&c.vals)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(c.cfgPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func (c *Instance) Path() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cfgPath
}

func (c *Instance) Service() Service {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Service
}

func (c *Instance) Supabase() Supabase {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Supabase
}

func (c *Instance) Provider() Provider {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Provider
}

func (c *Instance) Cache() Cache {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Cache
}

func (c *Instance) Auth() Auth {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Auth
}

func (c *Instance) Telemetry() Telemetry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Telemetry
}

func (c *Instance) DebugLogging() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.DebugLogging
}

func (c *Instance) SetDebugLogging(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.DebugLogging = enabled
}
