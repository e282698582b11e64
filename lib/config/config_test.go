// Copyright 2026 The Cabinet Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cabinet.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("writing config file: %v", err)
	}
	return path
}

func TestDefaultValidates(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default().Validate() = %v, want nil", err)
	}
	if cfg.Launcher.Address != "127.0.0.1:21037" {
		t.Errorf("default address = %q, want 127.0.0.1:21037", cfg.Launcher.Address)
	}
	if cfg.Session.HeartbeatInterval.Std() != 2*time.Second {
		t.Errorf("default heartbeat interval = %v, want 2s", cfg.Session.HeartbeatInterval.Std())
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
environment: staging
launcher:
  address: "127.0.0.1:22000"
  dial_timeout: 500ms
session:
  idle_timeout: 90s
  disconnect_timeout: 150s
`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	if cfg.Environment != Staging {
		t.Errorf("Environment = %q, want staging", cfg.Environment)
	}
	if cfg.Launcher.Address != "127.0.0.1:22000" {
		t.Errorf("Address = %q, want 127.0.0.1:22000", cfg.Launcher.Address)
	}
	if cfg.Launcher.DialTimeout.Std() != 500*time.Millisecond {
		t.Errorf("DialTimeout = %v, want 500ms", cfg.Launcher.DialTimeout.Std())
	}
	// Unset fields keep defaults.
	if cfg.Launcher.IOTimeout.Std() != 5*time.Second {
		t.Errorf("IOTimeout = %v, want default 5s", cfg.Launcher.IOTimeout.Std())
	}
	if cfg.Session.IdleTimeout.Std() != 90*time.Second {
		t.Errorf("IdleTimeout = %v, want 90s", cfg.Session.IdleTimeout.Std())
	}
}

func TestEnvironmentSectionOverrides(t *testing.T) {
	path := writeConfig(t, `
environment: development
development:
  launcher:
    address: "127.0.0.1:31037"
  session:
    idle_timeout: 30s
`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	if cfg.Launcher.Address != "127.0.0.1:31037" {
		t.Errorf("Address = %q, want development override 127.0.0.1:31037", cfg.Launcher.Address)
	}
	if cfg.Session.IdleTimeout.Std() != 30*time.Second {
		t.Errorf("IdleTimeout = %v, want 30s", cfg.Session.IdleTimeout.Std())
	}
	// DisconnectTimeout keeps the base default.
	if cfg.Session.DisconnectTimeout.Std() != 160*time.Second {
		t.Errorf("DisconnectTimeout = %v, want 160s", cfg.Session.DisconnectTimeout.Std())
	}
}

func TestEnvVarOverrides(t *testing.T) {
	t.Setenv("CABINET_CONFIG", "")
	t.Setenv("CABINET_LAUNCHER_ADDRESS", "127.0.0.1:25000")
	t.Setenv("CABINET_HEARTBEAT_INTERVAL", "1s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Launcher.Address != "127.0.0.1:25000" {
		t.Errorf("Address = %q, want env override 127.0.0.1:25000", cfg.Launcher.Address)
	}
	if cfg.Session.HeartbeatInterval.Std() != time.Second {
		t.Errorf("HeartbeatInterval = %v, want 1s", cfg.Session.HeartbeatInterval.Std())
	}
}

func TestSandboxed(t *testing.T) {
	sandboxOn := true
	sandboxOff := false

	tests := []struct {
		name    string
		env     Environment
		sandbox *bool
		want    bool
	}{
		{"development implies sandbox", Development, nil, true},
		{"production defaults to live", Production, nil, false},
		{"explicit sandbox wins in production", Production, &sandboxOn, true},
		{"explicit live wins in development", Development, &sandboxOff, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Environment = tt.env
			cfg.Launcher.Sandbox = tt.sandbox
			if got := cfg.Sandboxed(); got != tt.want {
				t.Errorf("Sandboxed() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := Default()
	cfg.Environment = "carnival"
	cfg.Launcher.Address = "not-an-address"
	cfg.Session.DisconnectTimeout = cfg.Session.IdleTimeout

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() = nil, want error")
	}
	for _, fragment := range []string{"invalid environment", "host:port", "disconnect_timeout"} {
		if !strings.Contains(err.Error(), fragment) {
			t.Errorf("Validate() error missing %q: %v", fragment, err)
		}
	}
}
