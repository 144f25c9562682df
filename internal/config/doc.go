// Reelpick - Personal Movie Recommendation Engine
// Copyright 2026 M. White (mwhite-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mwhite-dev/reelpick

// Package config loads and validates Reelpick configuration.
//
// Configuration is layered with Koanf v2, in order of precedence:
//
//  1. Built-in defaults
//  2. Optional YAML config file (CONFIG_PATH or well-known paths)
//  3. Environment variables (REELPICK_* prefix)
//
// The package also loads the mood mapping library, a YAML file that maps
// mood names to emotional-dimension rules consumed by the selection engine.
package config
