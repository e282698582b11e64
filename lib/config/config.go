// Copyright 2026 The Cabinet Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Environment represents the deployment environment.
type Environment string

const (
	// Development is for local development machines, typically without
	// a launcher process running.
	Development Environment = "development"
	// Staging is for pre-production cabinets.
	Staging Environment = "staging"
	// Production is for deployed arcade cabinets.
	Production Environment = "production"
)

// Duration wraps time.Duration so config files can write "2s" or
// "120s" instead of nanosecond integers. Implements both yaml and text
// unmarshaling, so the same field works for file and env-var loading.
type Duration time.Duration

// UnmarshalYAML parses a duration string like "2s" or "1500ms".
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	return d.UnmarshalText([]byte(raw))
}

// UnmarshalText parses a duration string. Used by env-var overrides.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("parsing duration %q: %w", text, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML renders the duration in time.Duration string form.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Std returns the duration as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config is the master configuration for a Cabinet host.
type Config struct {
	// Environment identifies the deployment type (development, staging,
	// production).
	Environment Environment `yaml:"environment" env:"CABINET_ENVIRONMENT"`

	// Launcher configures the protocol client connection.
	Launcher LauncherConfig `yaml:"launcher"`

	// Session configures the supervisor's heartbeat and idle watchdog.
	Session SessionConfig `yaml:"session"`

	// Per-environment overrides, applied after the base config loads.
	Development *Overrides `yaml:"development,omitempty"`
	Staging     *Overrides `yaml:"staging,omitempty"`
	Production  *Overrides `yaml:"production,omitempty"`
}

// Overrides contains fields that can be overridden per environment.
type Overrides struct {
	Launcher *LauncherConfig `yaml:"launcher,omitempty"`
	Session  *SessionConfig  `yaml:"session,omitempty"`
}

// LauncherConfig configures the TCP protocol client.
type LauncherConfig struct {
	// Address is the launcher's listen address in host:port form.
	// The launcher only ever binds loopback; the port is fixed by the
	// launcher side, not negotiated.
	Address string `yaml:"address" env:"CABINET_LAUNCHER_ADDRESS"`

	// DialTimeout bounds the TCP connect for every protocol call.
	DialTimeout Duration `yaml:"dial_timeout" env:"CABINET_DIAL_TIMEOUT"`

	// IOTimeout bounds each send and receive phase of a protocol call.
	// A hung launcher surfaces as a transport error instead of stalling
	// the host tick forever.
	IOTimeout Duration `yaml:"io_timeout" env:"CABINET_IO_TIMEOUT"`

	// Sandbox short-circuits every protocol call to a benign no-op.
	// When nil, the development environment implies sandbox mode; see
	// Config.Sandboxed.
	Sandbox *bool `yaml:"sandbox,omitempty" env:"CABINET_SANDBOX"`
}

// SessionConfig configures the session supervisor.
type SessionConfig struct {
	// HeartbeatInterval is the real wall-clock cadence of MSG_ALIVE.
	HeartbeatInterval Duration `yaml:"heartbeat_interval" env:"CABINET_HEARTBEAT_INTERVAL"`

	// IdleTimeout is the accumulated simulation-time span of operator
	// inactivity after which the supervisor terminates the session.
	IdleTimeout Duration `yaml:"idle_timeout" env:"CABINET_IDLE_TIMEOUT"`

	// DisconnectTimeout is a larger inactivity span reserved for a
	// future launcher-side disconnect. Carried in config so cabinets
	// can already tune it; the supervisor exposes it but acts only on
	// IdleTimeout.
	DisconnectTimeout Duration `yaml:"disconnect_timeout" env:"CABINET_DISCONNECT_TIMEOUT"`
}

// DefaultPort is the launcher's fixed loopback port.
const DefaultPort = 21037

// Default returns the default configuration. These defaults are a
// usable base for production cabinets; the config file and CABINET_*
// variables override them.
func Default() *Config {
	return &Config{
		Environment: Production,
		Launcher: LauncherConfig{
			Address:     fmt.Sprintf("127.0.0.1:%d", DefaultPort),
			DialTimeout: Duration(2 * time.Second),
			IOTimeout:   Duration(5 * time.Second),
		},
		Session: SessionConfig{
			HeartbeatInterval: Duration(2 * time.Second),
			IdleTimeout:       Duration(120 * time.Second),
			DisconnectTimeout: Duration(160 * time.Second),
		},
	}
}

// Load loads configuration from the CABINET_CONFIG environment
// variable, falling back to defaults plus CABINET_* field overrides
// when it is not set. Unlike a server daemon, a game build often ships
// with no config file at all, so an absent file is not an error here.
func Load() (*Config, error) {
	if path := os.Getenv("CABINET_CONFIG"); path != "" {
		return LoadFile(path)
	}

	cfg := Default()
	if err := cfg.applyEnvVars(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile loads configuration from a specific file path, applies
// environment-section overrides, then CABINET_* variable overrides.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	cfg.applyEnvironmentOverrides()

	if err := cfg.applyEnvVars(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvVars overrides individual fields from CABINET_* environment
// variables. Absent variables leave the current values untouched.
func (c *Config) applyEnvVars() error {
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("parsing CABINET_* environment overrides: %w", err)
	}
	return nil
}

// applyEnvironmentOverrides applies the section matching c.Environment.
func (c *Config) applyEnvironmentOverrides() {
	var overrides *Overrides

	switch c.Environment {
	case Development:
		overrides = c.Development
	case Staging:
		overrides = c.Staging
	case Production:
		overrides = c.Production
	}

	if overrides == nil {
		return
	}

	if overrides.Launcher != nil {
		if overrides.Launcher.Address != "" {
			c.Launcher.Address = overrides.Launcher.Address
		}
		if overrides.Launcher.DialTimeout != 0 {
			c.Launcher.DialTimeout = overrides.Launcher.DialTimeout
		}
		if overrides.Launcher.IOTimeout != 0 {
			c.Launcher.IOTimeout = overrides.Launcher.IOTimeout
		}
		if overrides.Launcher.Sandbox != nil {
			c.Launcher.Sandbox = overrides.Launcher.Sandbox
		}
	}

	if overrides.Session != nil {
		if overrides.Session.HeartbeatInterval != 0 {
			c.Session.HeartbeatInterval = overrides.Session.HeartbeatInterval
		}
		if overrides.Session.IdleTimeout != 0 {
			c.Session.IdleTimeout = overrides.Session.IdleTimeout
		}
		if overrides.Session.DisconnectTimeout != 0 {
			c.Session.DisconnectTimeout = overrides.Session.DisconnectTimeout
		}
	}
}

// Sandboxed reports whether protocol calls should short-circuit to
// no-ops. An explicit launcher.sandbox value wins; otherwise the
// development environment implies sandbox mode.
func (c *Config) Sandboxed() bool {
	if c.Launcher.Sandbox != nil {
		return *c.Launcher.Sandbox
	}
	return c.Environment == Development
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.Environment != Development && c.Environment != Staging && c.Environment != Production {
		errs = append(errs, fmt.Errorf("invalid environment: %s", c.Environment))
	}

	if c.Launcher.Address == "" {
		errs = append(errs, fmt.Errorf("launcher.address is required"))
	} else if _, _, err := net.SplitHostPort(c.Launcher.Address); err != nil {
		errs = append(errs, fmt.Errorf("launcher.address must be host:port: %w", err))
	}

	if c.Launcher.DialTimeout <= 0 {
		errs = append(errs, fmt.Errorf("launcher.dial_timeout must be positive"))
	}
	if c.Launcher.IOTimeout <= 0 {
		errs = append(errs, fmt.Errorf("launcher.io_timeout must be positive"))
	}

	if c.Session.HeartbeatInterval <= 0 {
		errs = append(errs, fmt.Errorf("session.heartbeat_interval must be positive"))
	}
	if c.Session.IdleTimeout <= 0 {
		errs = append(errs, fmt.Errorf("session.idle_timeout must be positive"))
	}
	if c.Session.DisconnectTimeout <= c.Session.IdleTimeout {
		errs = append(errs, fmt.Errorf("session.disconnect_timeout must exceed session.idle_timeout"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
