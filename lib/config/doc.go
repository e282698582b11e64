// Copyright 2026 The Cabinet Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for Cabinet components.
//
// Configuration is loaded from a single YAML file specified by:
//   - CABINET_CONFIG environment variable, or
//   - --config flag passed to the command
//
// The config file may contain environment-specific sections
// (development, staging, production) that override base values when the
// environment matches. After the file is applied, individual fields can
// be overridden from CABINET_* environment variables; this is the only
// env-var surface, intended for containerized hosts that cannot easily
// mount a file.
//
// Sandbox mode deserves a note: when launcher.sandbox is left unset,
// the development environment implies it. A game build running on a
// workstation with no launcher process gets safe no-op protocol calls
// without any explicit configuration.
package config
