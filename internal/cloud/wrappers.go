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
// This file implements a wrapper around the standard Generative AI client.
// The wrapper uses the Decorator pattern to add rate limiting and a retry
// mechanism to the Gemini model without altering its code.
//
// Why this is important:
//   - Rate Limiting: the Gemini API has per-minute quotas. The wrapper
//     prevents the application from exceeding them, which would otherwise
//     surface as errors mid-render.
//   - Retry Logic: network requests fail for transient reasons. The wrapper
//     retries a bounded number of times before giving up.
//
// Structs:
//   - QuotaAwareGenerativeAIModel: wraps *genai.GenerativeModel with a limiter.
//   - GeminiPhraseGenerator: the combined-phrase generator used by the
//     multi-subject resolver, backed by a quota-aware model.
package cloud

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"golang.org/x/time/rate"

	"github.com/DraftbotAI/SocialStormAI-Refactor-sub001/internal/core/subject"
)

// QuotaAwareGenerativeAIModel is a decorator over *genai.GenerativeModel
// that enforces a client-side request rate and retries transient failures.
type QuotaAwareGenerativeAIModel struct {
	Model     *genai.GenerativeModel // The configured Gemini model handle.
	RateLimit *rate.Limiter          // Client-side limiter, tokens per second.
}

// NewQuotaAwareModel wraps a configured model with a limiter allowing
// requestsPerSecond steady-state requests and an equal burst.
func NewQuotaAwareModel(wrapped *genai.GenerativeModel, requestsPerSecond int) *QuotaAwareGenerativeAIModel {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 1
	}
	return &QuotaAwareGenerativeAIModel{
		Model:     wrapped,
		RateLimit: rate.NewLimiter(rate.Every(time.Second/time.Duration(requestsPerSecond)), requestsPerSecond),
	}
}

// GenerateContent waits for limiter clearance, then calls the model,
// retrying up to MaxRetries times with a linear backoff.
func (q *QuotaAwareGenerativeAIModel) GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	var lastErr error
	for attempt := 0; attempt <= MaxRetries; attempt++ {
		if err := q.RateLimit.Wait(ctx); err != nil {
			return nil, err
		}
		resp, err := q.Model.GenerateContent(ctx, parts...)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(attempt+1) * time.Second):
		}
	}
	return nil, fmt.Errorf("generation failed after %d retries: %w", MaxRetries, lastErr)
}

// GenerateText runs GenerateContent and concatenates the text parts of
// every candidate, stripping markdown fences the model sometimes adds.
func (q *QuotaAwareGenerativeAIModel) GenerateText(ctx context.Context, prompt string) (string, error) {
	resp, err := q.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				b.WriteString(string(text))
			}
		}
	}
	value := strings.TrimSpace(b.String())
	value = strings.TrimPrefix(value, "```json")
	value = strings.TrimPrefix(value, "```")
	value = strings.TrimSuffix(value, "```")
	return strings.TrimSpace(value), nil
}

// GeminiPhraseGenerator produces combined visual phrases for lines naming
// multiple subjects. It satisfies the multi-subject resolver's generator
// interface; the resolver sanitizes everything that comes back, so this
// type only has to deliver the raw model text.
type GeminiPhraseGenerator struct {
	Agent *QuotaAwareGenerativeAIModel
}

// CombinedPhrase asks the model for one combined phrase for the line.
func (g *GeminiPhraseGenerator) CombinedPhrase(ctx context.Context, line, topic string) (string, error) {
	prompt := fmt.Sprintf("%s\n\nTopic: %s\nLine: %s", subject.CombinePromptContract, topic, line)
	return g.Agent.GenerateText(ctx, prompt)
}
