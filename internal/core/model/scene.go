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

// Package model defines the data structures shared across the render
// pipeline. These objects live in memory for the duration of one job; the
// only durable artifacts the system writes are the content-addressed cache
// files and the finished video.
package model

// SceneType classifies a scene's role in the final video.
type SceneType string

const (
	// SceneTypeHook is the opening scene; exactly one per job, always first.
	SceneTypeHook SceneType = "hook-summary"
	// SceneTypeMega is a grouped scene: two script lines sharing one clip
	// with two narration tracks. At most one per job, always second.
	SceneTypeMega SceneType = "context-mega"
	// SceneTypeNormal is one script line, one clip, one narration.
	SceneTypeNormal SceneType = "normal"
	// SceneTypeSingle is a normal scene produced when only one line remained
	// after hook extraction, so no mega grouping was possible.
	SceneTypeSingle SceneType = "single"
)

// Scene is one narrated unit of the final video. Scenes are created once by
// the segmenter and are read-only afterwards, except for defensive repair:
// a malformed scene is wrapped into a safe one rather than dropped, so the
// slice length stays aligned with the position-indexed mega-scene logic.
type Scene struct {
	ID            string    `json:"id"`
	Texts         []string  `json:"texts"` // never empty
	IsMegaScene   bool      `json:"is_mega_scene"`
	Type          SceneType `json:"type"`
	OrigIndices   []int     `json:"orig_indices"` // positions of Texts in the input script
	VisualSubject string    `json:"visual_subject"`
}

// Narration returns the scene's script lines joined for narration. Mega
// scenes narrate each line separately and never call this.
func (s *Scene) Narration() string {
	if len(s.Texts) == 0 {
		return ""
	}
	return s.Texts[0]
}

// RenderJob carries the per-job parameters shared by every pipeline command.
type RenderJob struct {
	JobID    string
	Script   string
	Topic    string
	VoiceID  string
	Provider string // TTS provider name, e.g. "openai"
	WorkDir  string // exclusive per-job scratch dir, removed on completion
}

// SceneFile pairs a finished, muxed scene video with the index it must
// occupy in the assembled output. Scenes complete in arbitrary order; the
// assembler sorts on Index to restore script order.
type SceneFile struct {
	Index int
	Path  string
}
