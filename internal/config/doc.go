// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for perfburger.
//
// # Key Types
//
//   - Config: main configuration structure
//   - APIConfig: backend location, timeout and request throttle
//   - StorageConfig: where credentials are persisted
//   - ChatConfig, AuthConfig, UIConfig, LogConfig: behavior knobs
//
// # Configuration Precedence
//
// Configuration is loaded from (highest first):
//   - Environment variables (PERFBURGER_*), including values from .env files
//   - ~/.perfburger/config.toml
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	client := api.New(cfg.API.BaseURL, store, api.WithTimeout(cfg.Timeout()))
package config
