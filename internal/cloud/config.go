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

// Package cloud defines the data structures for application configuration,
// loaded from TOML files, and the clients for every external service the
// render pipeline talks to: Google Cloud Storage, the Gemini API, the stock
// video providers and the TTS providers.
//
// This file centralizes all configuration-related structs, making it easy
// to understand and manage the application's configurable parameters.
//
// Structs:
//   - Storage: GCS bucket and public-URL settings for finished videos.
//   - Caches: Directories and validity thresholds for the artifact caches.
//   - StockProvider: API settings for one stock video/image provider.
//   - TTSProvider: API settings for one text-to-speech provider.
//   - GeminiModel: Configuration for a Gemini model used by the pipeline.
//   - Pipeline: Worker counts, timeouts and media tuning knobs.
//   - Config: The top-level struct aggregating all of the above.
//
// Functions:
//   - NewConfig: A constructor that initializes a new Config object with empty maps.
package cloud

import "github.com/DraftbotAI/SocialStormAI-Refactor-sub001/internal/core/services"

// Storage holds the settings for publishing finished videos.
type Storage struct {
	OutputBucket  string `toml:"output_bucket"`   // GCS bucket for finished videos; empty disables upload.
	PublicBaseURL string `toml:"public_base_url"` // Base URL for served objects, default https://storage.googleapis.com.
	LocalOutput   string `toml:"local_output"`    // Directory served at /output when upload is disabled or fails.
}

// Caches configures the content-addressed artifact stores.
type Caches struct {
	AudioDir      string `toml:"audio_dir"`       // Directory for synthesized narration files.
	VideoDir      string `toml:"video_dir"`       // Directory for muxed scene videos.
	MinAudioBytes int64  `toml:"min_audio_bytes"` // Validity floor for audio artifacts; smaller files are treated as absent.
	MinVideoBytes int64  `toml:"min_video_bytes"` // Validity floor for video artifacts.
}

// StockProvider holds the API settings for one stock footage provider.
type StockProvider struct {
	APIKey            string `toml:"api_key"`             // Provider API key; empty disables the provider.
	BaseURL           string `toml:"base_url"`            // Override for the provider endpoint, mainly for tests.
	RequestsPerMinute int    `toml:"requests_per_minute"` // Client-side rate limit.
}

// TTSProvider holds the API settings for one text-to-speech provider.
type TTSProvider struct {
	APIKey            string `toml:"api_key"`             // Provider API key; empty disables the provider.
	Model             string `toml:"model"`               // Provider model name, e.g. "tts-1".
	RequestsPerMinute int    `toml:"requests_per_minute"` // Client-side rate limit.
}

// GeminiModel configures one Gemini model used by the pipeline, currently
// only the combined-phrase generator for multi-subject lines.
type GeminiModel struct {
	Model              string  `toml:"model"`               // The Gemini model name.
	SystemInstructions string  `toml:"system_instructions"` // System instructions sent with every request.
	Temperature        float32 `toml:"temperature"`         // Sampling temperature.
	TopP               float32 `toml:"top_p"`               // The top_p parameter.
	TopK               int32   `toml:"top_k"`               // The top_k parameter.
	MaxTokens          int32   `toml:"max_tokens"`          // Output token cap.
	RateLimit          int     `toml:"rate_limit"`          // Requests per second allowed by the client-side limiter.
}

// Pipeline holds the render tuning knobs.
type Pipeline struct {
	SceneWorkers      int     `toml:"scene_workers"`       // Concurrent scene renders per job.
	FFmpegProcesses   int     `toml:"ffmpeg_processes"`    // Global cap on concurrent ffmpeg invocations.
	JobTimeoutSeconds int     `toml:"job_timeout_seconds"` // Watchdog: a job exceeding this is failed and cleaned up.
	MusicVolume       float64 `toml:"music_volume"`        // Music bed volume relative to narration, e.g. 0.15.
	MusicDir          string  `toml:"music_dir"`           // Root of the mood-folder music library; empty disables music.
	LibraryDir        string  `toml:"library_dir"`         // Root of the curated clip library; empty disables the tier.
	OutroPath         string  `toml:"outro_path"`          // Pre-rendered outro clip appended to every video; empty disables.
	FFmpegPath        string  `toml:"ffmpeg_path"`         // ffmpeg binary, default "ffmpeg" on PATH.
	FFprobePath       string  `toml:"ffprobe_path"`        // ffprobe binary, default "ffprobe" on PATH.
	WorkRoot          string  `toml:"work_root"`           // Parent directory for per-job scratch dirs.
}

// Config represents the overall configuration for the application, loaded
// from TOML files. It acts as the root container for all other
// configuration structs.
type Config struct {
	// Application holds general application settings.
	Application struct {
		Name            string `toml:"name"`              // The name of the application.
		Port            int    `toml:"port"`              // HTTP listen port.
		ThreadPoolSize  int    `toml:"thread_pool_size"`  // Default worker pool size for parallel tasks.
		GoogleProjectId string `toml:"google_project_id"` // GCP project for telemetry export; empty keeps telemetry local.
	} `toml:"application"`
	Storage        Storage                  `toml:"storage"`         // Output storage configuration.
	Caches         Caches                   `toml:"caches"`          // Artifact cache configuration.
	StockProviders map[string]StockProvider `toml:"stock_providers"` // Stock providers keyed by name ("pexels", "pixabay").
	TTSProviders   map[string]TTSProvider   `toml:"tts_providers"`   // TTS providers keyed by name ("openai").
	AgentModels    map[string]GeminiModel   `toml:"agent_models"`    // Gemini models keyed by a logical name ("combiner").
	Voices         []services.Voice         `toml:"voices"`          // The narration voice catalog.
	Pipeline       Pipeline                 `toml:"pipeline"`        // Render pipeline tuning.
}

// NewConfig is a constructor function that creates a new, initialized Config
// instance. The maps must be initialized so the TOML loader can populate
// them without nil map panics.
func NewConfig() *Config {
	return &Config{
		StockProviders: make(map[string]StockProvider),
		TTSProviders:   make(map[string]TTSProvider),
		AgentModels:    make(map[string]GeminiModel),
	}
}
