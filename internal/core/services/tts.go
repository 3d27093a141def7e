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

package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/DraftbotAI/SocialStormAI-Refactor-sub001/internal/core/media"
)

// Synthesizer converts one narration line to audio bytes. Implementations
// wrap a single provider; the dispatcher routes by provider name.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, voiceID string) ([]byte, error)
}

// TTSDispatcher routes narration requests to a named provider and fronts
// every provider with the content-addressed audio cache. The cache key is
// derived from text, voice and provider together, so switching voices never
// serves a stale artifact.
type TTSDispatcher struct {
	Cache *media.Cache

	mu        sync.RWMutex
	providers map[string]Synthesizer
}

// NewTTSDispatcher returns a dispatcher over the audio cache.
func NewTTSDispatcher(cache *media.Cache) *TTSDispatcher {
	return &TTSDispatcher{Cache: cache, providers: make(map[string]Synthesizer)}
}

// Register adds a provider under a name. Later registrations with the same
// name replace earlier ones.
func (d *TTSDispatcher) Register(name string, s Synthesizer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.providers[name] = s
}

// Providers lists the registered provider names, sorted.
func (d *TTSDispatcher) Providers() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	names := make([]string, 0, len(d.providers))
	for n := range d.providers {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Narrate returns the path to an audio file speaking text in the given
// voice. Cache hits skip the provider entirely; misses synthesize, validate
// and store before returning. Unknown providers are an error, not a silent
// fallback to a different voice.
func (d *TTSDispatcher) Narrate(ctx context.Context, provider, voiceID, text string) (string, error) {
	d.mu.RLock()
	synth, ok := d.providers[provider]
	d.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("unknown tts provider %q (registered: %v)", provider, d.Providers())
	}

	key := d.Cache.Key(text, voiceID, provider)
	if path, ok := d.Cache.Get(key); ok {
		slog.Debug("tts cache hit", "provider", provider, "voice", voiceID)
		return path, nil
	}

	audio, err := synth.Synthesize(ctx, text, voiceID)
	if err != nil {
		return "", fmt.Errorf("tts synthesis failed on provider %q: %w", provider, err)
	}
	path, err := d.Cache.PutBytes(key, audio)
	if err != nil {
		return "", fmt.Errorf("tts artifact rejected: %w", err)
	}
	return path, nil
}
