// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config loads the console's settings.
//
// Settings come from, in order of precedence:
//   - Environment variables (QCONSOLE_*, NO_COLOR)
//   - ~/.quake-console/config.toml
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	con := console.New(cfg.ConsoleOptions(termenv.ColorProfile()))
package config
