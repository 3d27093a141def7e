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

package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/DraftbotAI/SocialStormAI-Refactor-sub001/internal/cloud"
	"github.com/DraftbotAI/SocialStormAI-Refactor-sub001/internal/core/progress"
	"github.com/DraftbotAI/SocialStormAI-Refactor-sub001/internal/core/services"
	"github.com/DraftbotAI/SocialStormAI-Refactor-sub001/internal/core/workflow"
)

// StateManager holds the shared components for the application.
type StateManager struct {
	config   *cloud.Config
	cloud    *cloud.ServiceClients
	progress progress.Store
	voices   *services.VoiceCatalog
	renderer *workflow.VideoRenderWorkflow
}

var state = &StateManager{}

// SetupOS points the config loader at the configs directory unless the
// caller already set the environment.
func SetupOS() (err error) {
	// Secrets (API keys) come from the process environment; .env makes
	// local development painless and is ignored when absent.
	_ = godotenv.Load()

	if os.Getenv(cloud.EnvConfigFilePrefix) == "" {
		if err = os.Setenv(cloud.EnvConfigFilePrefix, "configs"); err != nil {
			return err
		}
	}
	if os.Getenv(cloud.EnvConfigRuntime) == "" {
		err = os.Setenv(cloud.EnvConfigRuntime, "local")
	}
	return err
}

// GetConfig loads the application configuration once.
func GetConfig() *cloud.Config {
	if state.config == nil {
		if err := SetupOS(); err != nil {
			log.Fatalf("failed to setup environment: %v\n", err)
		}
		config := cloud.NewConfig()
		cloud.LoadConfig(config)
		state.config = config
	}
	return state.config
}

// InitState initializes the application state and dependencies.
func InitState(ctx context.Context) {
	config := GetConfig()

	cloudClients, err := cloud.NewCloudServiceClients(ctx, config)
	if err != nil {
		panic(err)
	}
	state.cloud = cloudClients

	state.progress = progress.NewMemoryStore()
	state.voices = services.NewVoiceCatalog(config.Voices)
	state.renderer = workflow.NewVideoRenderWorkflow(config, cloudClients, state.progress)
}
