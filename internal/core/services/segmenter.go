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

// Package services holds the render pipeline's business logic: script
// segmentation, clip search and scoring, TTS dispatch with its cache, the
// music mood picker and the voice catalog. Commands in internal/core/commands
// are thin orchestration over these services.
package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/DraftbotAI/SocialStormAI-Refactor-sub001/internal/core/model"
	"github.com/DraftbotAI/SocialStormAI-Refactor-sub001/internal/core/ontology"
)

// fillerPatterns are stripped from a line before it is considered as the
// hook; short-form scripts open with these constantly.
var fillerPatterns = []string{
	"hey guys,", "hey guys", "hey everyone,", "hey everyone",
	"welcome back,", "welcome back", "in this video,", "in this video",
	"did you know that", "did you know", "fun fact:", "fun fact,",
	"listen up,", "so,",
}

// SegmentScript splits a script into the ordered scene list: one hook scene
// first, one mega-scene grouping the next two lines when at least two
// remain, then one normal scene per remaining line. It never returns an
// error; malformed values are wrapped into safe scenes so slice positions
// stay stable for the mega-scene's paired-clip logic.
func SegmentScript(script, topic string) []*model.Scene {
	lines := splitLines(script)
	if len(lines) == 0 {
		lines = []string{"untitled"}
	}
	if strings.TrimSpace(topic) == "" {
		topic = GuessTopic(lines)
	}

	hookIdx := pickHookIndex(lines, topic)
	hookText := stripFiller(lines[hookIdx])
	if hookText == "" {
		hookText = firstSentence(lines[hookIdx])
	}
	if hookText == "" {
		hookText = lines[hookIdx]
	}

	scenes := []*model.Scene{{
		ID:            "scene-0",
		Texts:         []string{hookText},
		Type:          model.SceneTypeHook,
		OrigIndices:   []int{hookIdx},
		VisualSubject: ontology.Slug(topic),
	}}

	// Remaining lines in original order, hook removed.
	type rest struct {
		text string
		idx  int
	}
	remaining := make([]rest, 0, len(lines)-1)
	for i, l := range lines {
		if i != hookIdx {
			remaining = append(remaining, rest{text: l, idx: i})
		}
	}

	switch {
	case len(remaining) >= 2:
		// Mega-scene: the first two remaining lines share one clip. The
		// visual subject comes from the second line of the pair, which
		// tends to be the more concrete one.
		scenes = append(scenes, repair(&model.Scene{
			ID:          "scene-1",
			Texts:       []string{remaining[0].text, remaining[1].text},
			IsMegaScene: true,
			Type:        model.SceneTypeMega,
			OrigIndices: []int{remaining[0].idx, remaining[1].idx},
		}, topic))
		for n, r := range remaining[2:] {
			scenes = append(scenes, repair(&model.Scene{
				ID:          fmt.Sprintf("scene-%d", n+2),
				Texts:       []string{r.text},
				Type:        model.SceneTypeNormal,
				OrigIndices: []int{r.idx},
			}, topic))
		}
	case len(remaining) == 1:
		// One line left: a single scene, never a degenerate mega grouping.
		scenes = append(scenes, repair(&model.Scene{
			ID:          "scene-1",
			Texts:       []string{remaining[0].text},
			Type:        model.SceneTypeSingle,
			OrigIndices: []int{remaining[0].idx},
		}, topic))
	}

	return scenes
}

// GuessTopic picks the most frequent word longer than three characters
// across the lines; ties break lexically for determinism.
func GuessTopic(lines []string) string {
	freq := make(map[string]int)
	for _, l := range lines {
		for _, w := range ontology.SlugWords(l) {
			if len(w) > 3 {
				freq[w]++
			}
		}
	}
	words := make([]string, 0, len(freq))
	for w := range freq {
		words = append(words, w)
	}
	sort.Slice(words, func(i, j int) bool {
		if freq[words[i]] != freq[words[j]] {
			return freq[words[i]] > freq[words[j]]
		}
		return words[i] < words[j]
	})
	if len(words) == 0 {
		return ""
	}
	return words[0]
}

// pickHookIndex prefers the first line containing the topic, else the first
// line that survives filler stripping, else line zero.
func pickHookIndex(lines []string, topic string) int {
	topicSlug := ontology.Slug(topic)
	if topicSlug != "" {
		for i, l := range lines {
			if strings.Contains(ontology.Slug(l), topicSlug) {
				return i
			}
		}
	}
	for i, l := range lines {
		if stripFiller(l) != "" {
			return i
		}
	}
	return 0
}

func stripFiller(line string) string {
	l := strings.TrimSpace(line)
	lower := strings.ToLower(l)
	for _, p := range fillerPatterns {
		if strings.HasPrefix(lower, p) {
			l = strings.TrimSpace(l[len(p):])
			lower = strings.ToLower(l)
		}
	}
	return l
}

func firstSentence(line string) string {
	for _, sep := range []string{". ", "! ", "? "} {
		if i := strings.Index(line, sep); i >= 0 {
			return strings.TrimSpace(line[:i+1])
		}
	}
	return strings.TrimSpace(line)
}

func splitLines(script string) []string {
	var out []string
	for _, l := range strings.Split(script, "\n") {
		if t := strings.TrimSpace(l); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// repair wraps a malformed scene into a safe one instead of dropping it.
// Downstream logic indexes scenes by position, so array length stability
// matters more than the broken value.
func repair(s *model.Scene, topic string) *model.Scene {
	if s == nil {
		return &model.Scene{
			ID:            "scene-repaired",
			Texts:         []string{topic},
			Type:          model.SceneTypeNormal,
			OrigIndices:   []int{-1},
			VisualSubject: ontology.Slug(topic),
		}
	}
	kept := make([]string, 0, len(s.Texts))
	for _, t := range s.Texts {
		if strings.TrimSpace(t) != "" {
			kept = append(kept, strings.TrimSpace(t))
		}
	}
	if len(kept) == 0 {
		kept = []string{topic}
	}
	s.Texts = kept
	if s.IsMegaScene && len(s.Texts) != 2 {
		// A mega-scene that lost a line degrades to a normal scene.
		s.IsMegaScene = false
		s.Type = model.SceneTypeNormal
	}
	if len(s.OrigIndices) == 0 {
		s.OrigIndices = []int{-1}
	}
	return s
}
