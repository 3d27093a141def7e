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

// Package services_test contains unit tests for the render pipeline's
// business logic services: segmentation, scoring, clip search, TTS dispatch,
// music selection and the voice catalog.
package services_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/DraftbotAI/SocialStormAI-Refactor-sub001/internal/core/model"
	"github.com/DraftbotAI/SocialStormAI-Refactor-sub001/internal/core/services"
	test "github.com/DraftbotAI/SocialStormAI-Refactor-sub001/internal/testutil"
)

// TestSegmentScriptPartition verifies the scene layout for a typical
// five-line script: one hook, one mega-scene holding exactly two lines, and
// one normal scene per remaining line, with every input line used once.
func TestSegmentScriptPartition(t *testing.T) {
	script := test.GetTestScript()
	scenes := services.SegmentScript(script, "trevi fountain")

	assert.Len(t, scenes, 4)

	hook := scenes[0]
	assert.Equal(t, "scene-0", hook.ID)
	assert.Equal(t, model.SceneTypeHook, hook.Type)
	assert.Len(t, hook.Texts, 1)
	assert.Equal(t, "trevi fountain", hook.VisualSubject)

	mega := scenes[1]
	assert.Equal(t, "scene-1", mega.ID)
	assert.True(t, mega.IsMegaScene)
	assert.Equal(t, model.SceneTypeMega, mega.Type)
	assert.Len(t, mega.Texts, 2)

	for i, s := range scenes[2:] {
		assert.Equal(t, model.SceneTypeNormal, s.Type)
		assert.Len(t, s.Texts, 1)
		assert.Equal(t, fmt.Sprintf("scene-%d", i+2), s.ID)
	}

	// Every script line appears in exactly one scene.
	lineCount := len(strings.Split(strings.TrimSpace(script), "\n"))
	used := make(map[int]int)
	total := 0
	for _, s := range scenes {
		for _, idx := range s.OrigIndices {
			used[idx]++
			total++
		}
	}
	assert.Equal(t, lineCount, total)
	for idx, n := range used {
		assert.Equal(t, 1, n, "line %d used %d times", idx, n)
	}
}

// TestSegmentScriptHookPrefersTopicLine verifies that the hook is the first
// line mentioning the topic, not simply the first line.
func TestSegmentScriptHookPrefersTopicLine(t *testing.T) {
	scenes := services.SegmentScript(test.GetTestScript(), "trevi fountain")
	assert.Contains(t, strings.ToLower(scenes[0].Texts[0]), "trevi fountain")
	assert.Equal(t, []int{1}, scenes[0].OrigIndices)
}

// TestSegmentScriptStripsFillerFromHook verifies that a filler opener is
// removed before the line becomes the hook.
func TestSegmentScriptStripsFillerFromHook(t *testing.T) {
	script := "Hey guys, did you know that octopuses have three hearts?\nThey also have blue blood."
	scenes := services.SegmentScript(script, "octopus")

	assert.Equal(t, "octopuses have three hearts?", scenes[0].Texts[0])
}

// TestSegmentScriptSingleLine verifies the degenerate input: one line yields
// one hook scene and nothing else.
func TestSegmentScriptSingleLine(t *testing.T) {
	scenes := services.SegmentScript("The Colosseum could hold fifty thousand spectators.", "colosseum")

	assert.Len(t, scenes, 1)
	assert.Equal(t, model.SceneTypeHook, scenes[0].Type)
}

// TestSegmentScriptTwoLines verifies that a leftover single line becomes a
// single scene, never a one-line mega grouping.
func TestSegmentScriptTwoLines(t *testing.T) {
	script := "The Colosseum could hold fifty thousand spectators.\nIts arena floor hid a maze of tunnels."
	scenes := services.SegmentScript(script, "colosseum")

	assert.Len(t, scenes, 2)
	assert.Equal(t, model.SceneTypeSingle, scenes[1].Type)
	assert.False(t, scenes[1].IsMegaScene)
}

// TestSegmentScriptThreeLines is the smallest script that produces a mega
// scene: hook plus a two-line mega, no normal scenes.
func TestSegmentScriptThreeLines(t *testing.T) {
	script := "The Colosseum could hold fifty thousand spectators.\nIts arena floor hid a maze of tunnels.\nWild animals were hoisted up through trapdoors."
	scenes := services.SegmentScript(script, "colosseum")

	assert.Len(t, scenes, 2)
	assert.True(t, scenes[1].IsMegaScene)
	assert.Len(t, scenes[1].Texts, 2)
}

// TestSegmentScriptNeverReturnsEmpty verifies segmentation is total even on
// garbage input.
func TestSegmentScriptNeverReturnsEmpty(t *testing.T) {
	scenes := services.SegmentScript("", "")
	assert.NotEmpty(t, scenes)
	for _, s := range scenes {
		assert.NotEmpty(t, s.Texts)
	}
}

// TestGuessTopic verifies the frequency heuristic on the fixture script,
// where "fountain" appears on three of five lines.
func TestGuessTopic(t *testing.T) {
	lines := strings.Split(test.GetTestScript(), "\n")
	assert.Equal(t, "fountain", services.GuessTopic(lines))
	// Deterministic on repeat.
	assert.Equal(t, "fountain", services.GuessTopic(lines))
}
