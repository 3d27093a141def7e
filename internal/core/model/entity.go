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

package model

// EntityType buckets canonical entities for search staging and for the
// multi-subject category-strength heuristic.
type EntityType string

const (
	EntityTypeLandmark EntityType = "landmark"
	EntityTypeAnimal   EntityType = "animal"
	EntityTypeObject   EntityType = "object"
	EntityTypeFood     EntityType = "food"
	EntityTypePerson   EntityType = "person"
	EntityTypeSymbol   EntityType = "symbol"
	EntityTypeOther    EntityType = "other"
)

// CanonicalEntity is the normalized, de-aliased identifier for a visual
// subject. Canonical is a diacritics-stripped, lowercased, punctuation-
// collapsed slug; every synonym and language variant maps to exactly one
// canonical slug in the resolver's alias table.
type CanonicalEntity struct {
	Canonical        string     `json:"canonical"`
	Type             EntityType `json:"type"`
	Parents          []string   `json:"parents,omitempty"`
	Synonyms         []string   `json:"synonyms,omitempty"`
	LanguageVariants []string   `json:"language_variants,omitempty"`
	Features         []string   `json:"features,omitempty"` // e.g. "night", "aerial", "close-up"
	Actions          []string   `json:"actions,omitempty"`
}

// SubjectSource records which tier of the fallback chain produced a
// resolution.
type SubjectSource string

const (
	SubjectSourceRanked    SubjectSource = "ranked"
	SubjectSourceMainTopic SubjectSource = "fallback-mainTopic"
	SubjectSourceGeneric   SubjectSource = "fallback-generic"
)

// SubjectResolution is the outcome of resolving one scene line to a literal,
// filmable subject. Primary is never empty and never a banned generic.
type SubjectResolution struct {
	Primary    string        `json:"primary"`
	Confidence float64       `json:"confidence"` // in [0,1]
	Candidates []string      `json:"candidates,omitempty"`
	Source     SubjectSource `json:"source"`
}

// SubjectHint is optional structured guidance supplied with a scene
// (primary phrase, distinguishing feature, parent entity, alternates).
type SubjectHint struct {
	Primary    string     `json:"primary,omitempty"`
	Feature    string     `json:"feature,omitempty"`
	Parent     string     `json:"parent,omitempty"`
	Alternates []string   `json:"alternates,omitempty"`
	Type       EntityType `json:"type,omitempty"`
}

// ClipCandidate is one scoreable search result from a clip source.
type ClipCandidate struct {
	SourceSystem string  `json:"source_system"` // "library", "pexels", "pixabay", "kenburns"
	FileRef      string  `json:"file_ref"`      // download URL or library path
	Width        int     `json:"width"`
	Height       int     `json:"height"`
	Duration     float64 `json:"duration_seconds"`
	Text         string  `json:"text"` // combined name/tags/description metadata
	Score        int     `json:"score"`
}

// Portrait reports whether the candidate is taller than wide, the preferred
// aspect for 9:16 output.
func (c *ClipCandidate) Portrait() bool {
	return c.Height > c.Width
}
