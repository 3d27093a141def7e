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

// Package workflow_test contains integration tests for the render workflow.
// This file provides the shared setup for the package through TestMain:
// the test configuration is loaded once, telemetry is initialized, and the
// service clients container is built from the test profile. The test profile
// configures no buckets, keys or projects, so every client slot stays empty
// and nothing here touches the network.
package workflow_test

import (
	"context"
	"os"
	"testing"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"

	"github.com/DraftbotAI/SocialStormAI-Refactor-sub001/internal/cloud"
	"github.com/DraftbotAI/SocialStormAI-Refactor-sub001/internal/telemetry"
	test "github.com/DraftbotAI/SocialStormAI-Refactor-sub001/internal/testutil"
)

// Shared resources for the suite, initialized once in TestMain.
var (
	ctx          context.Context
	config       *cloud.Config
	cloudClients *cloud.ServiceClients
)

const tName = "github.com/DraftbotAI/socialstorm/tests/workflow"

var (
	tracer = otel.Tracer(tName)
	logger = otelslog.NewLogger(tName)
)

// TestMain sets up the shared configuration, telemetry and client container
// before any test in the package runs, and tears them down afterwards.
func TestMain(m *testing.M) {
	var cancel context.CancelFunc
	ctx, cancel = context.WithCancel(context.Background())
	defer cancel()

	config = test.GetConfig()

	telemetry.SetupLogging()
	shutdown, err := telemetry.SetupOpenTelemetry(ctx, config)
	if err != nil {
		panic(err)
	}

	cloudClients, err = cloud.NewCloudServiceClients(ctx, config)
	if err != nil {
		panic(err)
	}
	defer cloudClients.Close()

	logger.Info("completed workflow test setup")

	exitCode := m.Run()

	if err := shutdown(ctx); err != nil {
		logger.Error("failed to shutdown telemetry", "error", err)
	}

	os.Exit(exitCode)
}
