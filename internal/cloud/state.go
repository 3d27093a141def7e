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
// This file initializes and holds all the client objects the render
// pipeline needs. It acts as a dependency injection container, creating a
// single shared `ServiceClients` struct that is passed throughout the
// application.
//
// Logic Flow:
//  1. `NewCloudServiceClients` is called at application startup with the
//     loaded configuration.
//  2. It initializes the GCS client, the Gemini client, the stock provider
//     clients and the TTS synthesizers, each only when configured.
//  3. Everything is bundled into one ServiceClients struct used by the API
//     layer and the workflows.
//
// Structs:
//   - ServiceClients: the container holding every initialized client.
//
// Functions:
//   - Close: gracefully shuts down all client connections.
//   - NewCloudServiceClients: the factory building the container from config.
package cloud

import (
	"context"
	"log/slog"
	"os"

	"cloud.google.com/go/storage"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/DraftbotAI/SocialStormAI-Refactor-sub001/internal/core/services"
)

// EnvGeminiAPIKey names the environment variable carrying the Gemini API
// key. Secrets stay out of the TOML files.
const EnvGeminiAPIKey = "GEMINI_API_KEY"

// ServiceClients is the central container for every client that talks to an
// external service. The struct is assembled once at startup and shared.
type ServiceClients struct {
	StorageClient *storage.Client                         // Client for Google Cloud Storage, nil when upload is disabled.
	GenAIClient   *genai.Client                           // Client for the Gemini API, nil when no API key is present.
	AgentModels   map[string]*QuotaAwareGenerativeAIModel // Configured Gemini models keyed by logical name (e.g. "combiner").
	Publisher     *VideoPublisher                         // Finished-video publisher over StorageClient.
	StockSources  []services.ClipSource                   // Ordered stock tiers: pexels, pixabay, then photos.
	Synthesizers  map[string]services.Synthesizer         // TTS providers keyed by name (e.g. "openai").
}

// Close gracefully shuts down all active client connections. Useful in
// tests and controlled shutdowns; the root context handles the rest.
func (c *ServiceClients) Close() {
	if c.StorageClient != nil {
		_ = c.StorageClient.Close()
	}
	if c.GenAIClient != nil {
		_ = c.GenAIClient.Close()
	}
}

// NewCloudServiceClients initializes every configured external client.
// Unconfigured services are skipped, not failed: the pipeline degrades
// (no upload, heuristic-only phrase combining, fewer clip tiers) instead
// of refusing to start.
func NewCloudServiceClients(ctx context.Context, config *Config) (*ServiceClients, error) {
	clients := &ServiceClients{
		AgentModels:  make(map[string]*QuotaAwareGenerativeAIModel),
		Synthesizers: make(map[string]services.Synthesizer),
	}

	if config.Storage.OutputBucket != "" {
		sc, err := storage.NewClient(ctx)
		if err != nil {
			return nil, err
		}
		clients.StorageClient = sc
	}
	clients.Publisher = NewVideoPublisher(clients.StorageClient, config.Storage)

	if apiKey := os.Getenv(EnvGeminiAPIKey); apiKey != "" {
		gc, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
		if err != nil {
			return nil, err
		}
		clients.GenAIClient = gc

		// Configure each agent model and wrap it with the rate limiter.
		for amKey, values := range config.AgentModels {
			model := gc.GenerativeModel(values.Model)
			model.SetTemperature(values.Temperature)
			model.SetTopP(values.TopP)
			model.SetTopK(values.TopK)
			model.SetMaxOutputTokens(values.MaxTokens)
			if values.SystemInstructions != "" {
				model.SystemInstruction = &genai.Content{
					Parts: []genai.Part{genai.Text(values.SystemInstructions)},
				}
			}
			clients.AgentModels[amKey] = NewQuotaAwareModel(model, values.RateLimit)
		}
	} else {
		slog.Info("no gemini api key present, multi-subject phrases use the local heuristic only")
	}

	// Stock tiers in cascade order. The photo tier reuses the Pexels key.
	if pexels, ok := config.StockProviders["pexels"]; ok && pexels.APIKey != "" {
		clients.StockSources = append(clients.StockSources, NewPexelsClient(pexels))
	}
	if pixabay, ok := config.StockProviders["pixabay"]; ok && pixabay.APIKey != "" {
		clients.StockSources = append(clients.StockSources, NewPixabayClient(pixabay))
	}
	if pexels, ok := config.StockProviders["pexels"]; ok && pexels.APIKey != "" {
		clients.StockSources = append(clients.StockSources, NewPexelsImageClient(pexels))
	}

	if openaiCfg, ok := config.TTSProviders["openai"]; ok && openaiCfg.APIKey != "" {
		clients.Synthesizers["openai"] = NewOpenAISynthesizer(openaiCfg)
	}

	return clients, nil
}
