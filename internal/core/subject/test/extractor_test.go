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

// Package subject_test covers subject extraction: the tiered ranking, the
// banned-generic filter and the fallback chain down to the generic sentinel.
package subject_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/DraftbotAI/SocialStormAI-Refactor-sub001/internal/core/model"
	"github.com/DraftbotAI/SocialStormAI-Refactor-sub001/internal/core/ontology"
	"github.com/DraftbotAI/SocialStormAI-Refactor-sub001/internal/core/subject"
)

func newExtractor() *subject.Extractor {
	return subject.NewExtractor(ontology.NewResolver(ontology.SeedEntities()))
}

// TestExtractCanonicalPhrase verifies the top tier: a registered canonical
// phrase appearing verbatim in the line wins with near-certain confidence.
func TestExtractCanonicalPhrase(t *testing.T) {
	res := newExtractor().Extract(
		"The Trevi Fountain collects over a million euros in coins every year.",
		"rome", nil)

	assert.Equal(t, "trevi fountain", res.Primary)
	assert.GreaterOrEqual(t, res.Confidence, subject.ScoreCanonicalPhrase)
	assert.Equal(t, model.SubjectSourceRanked, res.Source)
	assert.Contains(t, res.Candidates, "trevi fountain")
}

// TestExtractHeadNounReconstruction verifies the modifier+head-noun tier on
// a line with no canonical match: "ancient marble fountain" (trigram) must
// outrank "marble fountain" (bigram) and the bare noun.
func TestExtractHeadNounReconstruction(t *testing.T) {
	res := newExtractor().Extract(
		"An ancient marble fountain stands in the square.", "", nil)

	assert.Equal(t, "ancient marble fountain", res.Primary)
	assert.Equal(t, model.SubjectSourceRanked, res.Source)
	assert.GreaterOrEqual(t, res.Confidence, subject.ScoreTrigram)
}

// TestExtractBannedGenericsFallThrough verifies that a line made entirely of
// generic vocabulary falls back to the main topic instead of resolving to
// "amazing" or "secret".
func TestExtractBannedGenericsFallThrough(t *testing.T) {
	res := newExtractor().Extract(
		"This is the most amazing secret in the world today.", "Rome", nil)

	assert.Equal(t, "rome", res.Primary)
	assert.Equal(t, model.SubjectSourceMainTopic, res.Source)
}

// TestExtractGenericSentinel verifies the floor of the fallback chain: no
// usable candidates and no usable topic still yields a searchable subject.
func TestExtractGenericSentinel(t *testing.T) {
	res := newExtractor().Extract(
		"This is the most amazing secret in the world today.", "", nil)

	assert.Equal(t, subject.GenericSentinel, res.Primary)
	assert.Equal(t, model.SubjectSourceGeneric, res.Source)
	assert.NotEmpty(t, res.Primary)
}

// TestExtractHintShortCircuits verifies that a structured hint bypasses
// ranking entirely and carries its feature into the subject.
func TestExtractHintShortCircuits(t *testing.T) {
	hint := &model.SubjectHint{Primary: "Eiffel Tower", Feature: "night"}
	res := newExtractor().Extract("irrelevant line", "irrelevant topic", hint)

	assert.Equal(t, "eiffel tower night", res.Primary)
	assert.Equal(t, subject.ScoreCanonicalPhrase, res.Confidence)
}

// TestExtractHintWithGenericPrimaryIsIgnored verifies that a hint whose
// primary is a banned generic does not short-circuit ranking.
func TestExtractHintWithGenericPrimaryIsIgnored(t *testing.T) {
	hint := &model.SubjectHint{Primary: "beautiful footage"}
	res := newExtractor().Extract(
		"The Colosseum towers over Rome.", "rome", hint)

	assert.Equal(t, "colosseum", res.Primary)
	assert.Equal(t, model.SubjectSourceRanked, res.Source)
}

// TestExtractDeterministic runs the same extraction twice and expects
// identical results, the property the content-addressed caches depend on.
func TestExtractDeterministic(t *testing.T) {
	e := newExtractor()
	line := "Ancient aqueducts still feed the fountain with water today."
	a := e.Extract(line, "rome", nil)
	b := e.Extract(line, "rome", nil)

	assert.Equal(t, a.Primary, b.Primary)
	assert.Equal(t, a.Confidence, b.Confidence)
	assert.Equal(t, a.Candidates, b.Candidates)
}
