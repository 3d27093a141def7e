// Copyright 2025 DraftbotAI
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cloud provides components for interacting with external services.
// This file contains general-purpose utility functions that support the
// cloud package, chiefly the hierarchical configuration loader.
//
// Functions:
//   - fileExists: A simple helper to check if a file exists.
//   - LoadConfig: Implements a hierarchical configuration loader. It first
//     reads a base configuration file and then overwrites values with a
//     second, environment-specific file (e.g., .env.local.toml,
//     .env.test.toml). The environment is determined by an environment
//     variable.
package cloud

import (
	"errors"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// Cloud constants define key strings used for configuration loading.
const (
	ConfigFileBaseName  = ".env"                // The base name for configuration files (e.g., ".env.toml").
	ConfigFileExtension = ".toml"               // The file extension for configuration files.
	ConfigSeparator     = "."                   // The separator used in config file names (e.g., ".env.local.toml").
	EnvConfigFilePrefix = "STORM_CONFIG_PREFIX" // The environment variable for specifying the config directory.
	EnvConfigRuntime    = "STORM_RUNTIME"       // The environment variable for the runtime context (e.g., "local", "test", "prod").
	MaxRetries          = 3                     // The maximum number of times to retry a failed API call.
)

// fileExists checks if a file or directory exists at the given path.
func fileExists(in string) bool {
	_, err := os.Stat(in)
	return !errors.Is(err, os.ErrNotExist)
}

// LoadConfig provides hierarchical configuration loading. It first loads a
// base configuration file and then overwrites its values with an
// environment-specific file. The directory prefix and environment name come
// from environment variables; the environment defaults to "test" so a bare
// checkout runs the test profile.
func LoadConfig(baseConfig interface{}) {
	configurationFilePrefix := os.Getenv(EnvConfigFilePrefix)
	if len(configurationFilePrefix) > 0 && !strings.HasSuffix(configurationFilePrefix, string(os.PathSeparator)) {
		configurationFilePrefix = configurationFilePrefix + string(os.PathSeparator)
	}

	runtimeEnvironment := os.Getenv(EnvConfigRuntime)
	if runtimeEnvironment == "" {
		runtimeEnvironment = "test"
	}

	baseConfigFileName := configurationFilePrefix + ConfigFileBaseName + ConfigFileExtension
	envConfigFileName := configurationFilePrefix + ConfigFileBaseName + ConfigSeparator + runtimeEnvironment + ConfigFileExtension
	slog.Info("loading configuration",
		"base", baseConfigFileName,
		"environment", envConfigFileName)

	if fileExists(baseConfigFileName) {
		_, err := toml.DecodeFile(baseConfigFileName, baseConfig)
		if err != nil {
			log.Fatalf("failed to decode base configuration file %s with error: %s", baseConfigFileName, err)
		}
	}

	// Values in the environment file overwrite the base config.
	if fileExists(envConfigFileName) {
		_, err := toml.DecodeFile(envConfigFileName, baseConfig)
		if err != nil {
			log.Fatalf("failed to decode environment configuration file: %s with error: %s", envConfigFileName, err)
		}
	}
}
