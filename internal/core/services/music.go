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
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/DraftbotAI/SocialStormAI-Refactor-sub001/internal/core/ontology"
)

// moodKeywords maps script vocabulary to background-music mood folders.
// First mood whose keyword list intersects the script wins; order encodes
// priority.
var moodKeywords = []struct {
	mood  string
	words []string
}{
	{"epic", []string{"ancient", "empire", "battle", "legend", "giant", "massive", "volcano", "storm"}},
	{"mysterious", []string{"secret", "hidden", "mystery", "unknown", "dark", "beneath", "lost"}},
	{"upbeat", []string{"fun", "happy", "cute", "pet", "pets", "play", "dance", "party", "food", "pizza"}},
	{"calm", []string{"peaceful", "quiet", "gentle", "ocean", "garden", "sunset", "morning"}},
}

const defaultMood = "upbeat"

// MusicPicker selects a background track by script mood from a directory
// laid out as <root>/<mood>/*.mp3. It remembers the previous pick per mood
// so back-to-back jobs do not repeat a track when alternatives exist.
type MusicPicker struct {
	Root string

	mu       sync.Mutex
	previous map[string]string // mood -> last picked path
	rng      *rand.Rand
}

// NewMusicPicker returns a picker rooted at dir.
func NewMusicPicker(dir string, seed int64) *MusicPicker {
	return &MusicPicker{
		Root:     dir,
		previous: make(map[string]string),
		rng:      rand.New(rand.NewSource(seed)),
	}
}

// MoodFor classifies a script into a music mood.
func MoodFor(script string) string {
	words := make(map[string]bool)
	for _, w := range ontology.SlugWords(script) {
		words[w] = true
	}
	for _, m := range moodKeywords {
		for _, kw := range m.words {
			if words[kw] {
				return m.mood
			}
		}
	}
	return defaultMood
}

// Pick returns a track path for the script's mood, or "" when no music is
// available (the video is then assembled without a music bed). It never
// returns the same track twice in a row for a mood unless that mood has
// only one track.
func (p *MusicPicker) Pick(script string) string {
	if p.Root == "" {
		return ""
	}
	mood := MoodFor(script)
	tracks := p.tracksFor(mood)
	if len(tracks) == 0 {
		// Fall back to any track in the root before giving up.
		tracks = p.tracksFor("")
	}
	if len(tracks) == 0 {
		return ""
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	prev := p.previous[mood]
	if len(tracks) > 1 && prev != "" {
		filtered := tracks[:0]
		for _, t := range tracks {
			if t != prev {
				filtered = append(filtered, t)
			}
		}
		tracks = filtered
	}
	pick := tracks[p.rng.Intn(len(tracks))]
	p.previous[mood] = pick
	return pick
}

func (p *MusicPicker) tracksFor(mood string) []string {
	dir := p.Root
	if mood != "" {
		dir = filepath.Join(p.Root, mood)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext == ".mp3" || ext == ".m4a" || ext == ".wav" {
			out = append(out, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(out)
	return out
}
