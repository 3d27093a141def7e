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
// This file implements the OpenAI text-to-speech synthesizer registered
// with the narration dispatcher under the provider name "openai".
package cloud

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"golang.org/x/time/rate"
)

// OpenAISynthesizer converts narration text to speech through the OpenAI
// audio API. Calls are rate limited client-side; the narration cache in
// front of the dispatcher means most renders never reach this type at all.
type OpenAISynthesizer struct {
	Client  openai.Client
	Model   string
	Limiter *rate.Limiter
}

// NewOpenAISynthesizer builds a synthesizer from provider config.
func NewOpenAISynthesizer(cfg TTSProvider) *OpenAISynthesizer {
	model := cfg.Model
	if model == "" {
		model = string(openai.SpeechModelTTS1)
	}
	return &OpenAISynthesizer{
		Client:  openai.NewClient(option.WithAPIKey(cfg.APIKey)),
		Model:   model,
		Limiter: newProviderLimiter(cfg.RequestsPerMinute),
	}
}

// Synthesize implements the dispatcher's synthesizer interface. voiceID is
// the provider's own voice name (e.g. "onyx"), already resolved from the
// catalog by the caller.
func (s *OpenAISynthesizer) Synthesize(ctx context.Context, text, voiceID string) ([]byte, error) {
	if err := s.Limiter.Wait(ctx); err != nil {
		return nil, err
	}
	callCtx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	resp, err := s.Client.Audio.Speech.New(callCtx, openai.AudioSpeechNewParams{
		Model: openai.SpeechModel(s.Model),
		Input: text,
		Voice: openai.AudioSpeechNewParamsVoice(voiceID),
	})
	if err != nil {
		return nil, fmt.Errorf("openai speech synthesis: %w", err)
	}
	defer resp.Body.Close()
	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading synthesized audio: %w", err)
	}
	return audio, nil
}
