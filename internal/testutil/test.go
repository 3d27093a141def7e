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

// Package test provides utility functions and fixture data to support the
// application's test suite: a cached test configuration and canned scripts
// matching the seeded subject ontology.
package test

import (
	"log"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/DraftbotAI/SocialStormAI-Refactor-sub001/internal/cloud"
)

// StateManager caches the test configuration so it is loaded once per test
// run instead of once per test.
type StateManager struct {
	config *cloud.Config
}

var state = &StateManager{}

// HandleErr fails the test when err is non-nil. A convenience to reduce
// boilerplate error checking in tests.
func HandleErr(err error, t *testing.T) {
	if err != nil {
		t.Errorf("Error reading config file: %v", err)
	}
}

// GetTestScript returns a short-form script whose subjects all resolve
// against the seeded ontology, so tests never depend on a live model.
func GetTestScript() string {
	return `Rome hides a secret beneath its most famous fountain.
The Trevi Fountain collects over a million euros in coins every year.
All of that money is donated to charity programs across the city.
Ancient aqueducts still feed the fountain with water today.
Visitors toss a coin over their left shoulder to guarantee a return to Rome.`
}

// GetTestMultiSubjectScript returns a script whose second line names two
// subjects, exercising the combined-phrase path.
func GetTestMultiSubjectScript() string {
	return `Pets rule the internet for a reason.
Cats and dogs are both beloved companions around the world.
A cat sleeps for nearly seventy percent of its life.`
}

// SetupOS configures the environment so the config loader uses the test
// configuration files (configs/.env.test.toml). The prefix is anchored at
// the module root so tests resolve it regardless of which package directory
// `go test` runs them from.
func SetupOS() (err error) {
	_, thisFile, _, _ := runtime.Caller(0)
	moduleRoot := filepath.Join(filepath.Dir(thisFile), "..", "..")
	err = os.Setenv(cloud.EnvConfigFilePrefix, filepath.Join(moduleRoot, "configs"))
	if err != nil {
		return err
	}
	err = os.Setenv(cloud.EnvConfigRuntime, "test")
	return err
}

// GetConfig is a singleton accessor for the test configuration.
func GetConfig() *cloud.Config {
	if state.config == nil {
		err := SetupOS()
		if err != nil {
			log.Fatalf("failed to setup environment for test: %v\n", err)
		}
		config := cloud.NewConfig()
		cloud.LoadConfig(config)
		state.config = config
	}
	return state.config
}
