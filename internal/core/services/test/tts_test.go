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

package services_test

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DraftbotAI/SocialStormAI-Refactor-sub001/internal/core/media"
	"github.com/DraftbotAI/SocialStormAI-Refactor-sub001/internal/core/services"
)

// fakeSynth returns deterministic audio bytes and counts synthesis calls so
// tests can prove cache hits skipped the provider.
type fakeSynth struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeSynth) Synthesize(_ context.Context, text, voiceID string) ([]byte, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return bytes.Repeat([]byte(voiceID+":"+text+";"), 8), nil
}

func (f *fakeSynth) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func newDispatcher(t *testing.T, synth services.Synthesizer) *services.TTSDispatcher {
	t.Helper()
	d := services.NewTTSDispatcher(media.NewAudioCache(t.TempDir(), 16))
	if synth != nil {
		d.Register("openai", synth)
	}
	return d
}

// TestNarrateCachesByContent verifies the content-addressed cache: the same
// (text, voice, provider) triple synthesizes once and then serves from disk.
func TestNarrateCachesByContent(t *testing.T) {
	synth := &fakeSynth{}
	d := newDispatcher(t, synth)
	ctx := context.Background()

	first, err := d.Narrate(ctx, "openai", "onyx", "The Trevi Fountain collects coins.")
	require.NoError(t, err)
	assert.FileExists(t, first)

	second, err := d.Narrate(ctx, "openai", "onyx", "The Trevi Fountain collects coins.")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, synth.callCount())
}

// TestNarrateVoiceChangesKey verifies that switching the voice misses the
// cache instead of serving another voice's artifact.
func TestNarrateVoiceChangesKey(t *testing.T) {
	synth := &fakeSynth{}
	d := newDispatcher(t, synth)
	ctx := context.Background()

	onyx, err := d.Narrate(ctx, "openai", "onyx", "Same line.")
	require.NoError(t, err)
	nova, err := d.Narrate(ctx, "openai", "nova", "Same line.")
	require.NoError(t, err)

	assert.NotEqual(t, onyx, nova)
	assert.Equal(t, 2, synth.callCount())
}

// TestNarrateUnknownProvider verifies that an unregistered provider is a
// hard error naming the registered alternatives, never a silent fallback.
func TestNarrateUnknownProvider(t *testing.T) {
	d := newDispatcher(t, &fakeSynth{})

	_, err := d.Narrate(context.Background(), "elevenlabs", "rachel", "Hello.")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown tts provider")
	assert.Contains(t, err.Error(), "openai")
}

// TestNarrateRejectsTruncatedAudio verifies that a provider response below
// the validity floor is refused rather than cached.
func TestNarrateRejectsTruncatedAudio(t *testing.T) {
	d := services.NewTTSDispatcher(media.NewAudioCache(t.TempDir(), 1024))
	d.Register("openai", &fakeSynth{})

	_, err := d.Narrate(context.Background(), "openai", "onyx", "x")
	assert.Error(t, err)
}

func TestNarrateProviderError(t *testing.T) {
	d := newDispatcher(t, &fakeSynth{err: fmt.Errorf("quota exhausted")})

	_, err := d.Narrate(context.Background(), "openai", "onyx", "Hello.")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "quota exhausted")
}

func TestProvidersSorted(t *testing.T) {
	d := services.NewTTSDispatcher(media.NewAudioCache(t.TempDir(), 16))
	d.Register("openai", &fakeSynth{})
	d.Register("google", &fakeSynth{})

	assert.Equal(t, []string{"google", "openai"}, d.Providers())
}
