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

// Package ontology_test covers slug normalization, canonical entity
// resolution and staged query generation.
package ontology_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/DraftbotAI/SocialStormAI-Refactor-sub001/internal/core/model"
	"github.com/DraftbotAI/SocialStormAI-Refactor-sub001/internal/core/ontology"
)

func TestSlugNormalization(t *testing.T) {
	assert.Equal(t, "the trevi fountain", ontology.Slug("  The Trèvi-Fountain!  "))
	assert.Equal(t, "fontaine de trevi", ontology.Slug("Fontaine de Trévi"))
	assert.Equal(t, "cafe au lait", ontology.Slug("Café au Lait"))
	assert.Equal(t, "", ontology.Slug("!!! ... ???"))
}

// TestSlugIdempotent verifies Slug(Slug(x)) == Slug(x), the property the
// alias table depends on.
func TestSlugIdempotent(t *testing.T) {
	for _, in := range []string{"Trèvi Fountain", "LA TOUR EIFFEL", "cat & dog", "  spaced   out  "} {
		once := ontology.Slug(in)
		assert.Equal(t, once, ontology.Slug(once))
	}
}

func TestSlugWords(t *testing.T) {
	assert.Equal(t, []string{"trevi", "fountain"}, ontology.SlugWords("The Trevi Fountain"))
	assert.Nil(t, ontology.SlugWords("---"))
}

// TestResolverSynonyms verifies that every alias of a seed entity resolves to
// the same canonical entity, in both directions.
func TestResolverSynonyms(t *testing.T) {
	resolver := ontology.NewResolver(ontology.SeedEntities())

	direct := resolver.Resolve("Trevi Fountain")
	assert.Equal(t, "trevi fountain", direct.Canonical)
	assert.Equal(t, model.EntityTypeLandmark, direct.Type)

	viaSynonym := resolver.Resolve("Fontana di Trevi")
	assert.Equal(t, direct.Canonical, viaSynonym.Canonical)

	viaVariant := resolver.Resolve("fontaine de trévi")
	assert.Equal(t, direct.Canonical, viaVariant.Canonical)

	assert.True(t, resolver.IsSameCanonical("cats", "kitten"))
	assert.True(t, resolver.IsSameCanonical("kitten", "cats"))
	assert.False(t, resolver.IsSameCanonical("cat", "dog"))
}

// TestResolverUnknownPhraseRegistration verifies that resolving an unknown
// phrase synthesizes an entity once and converges on it afterwards.
func TestResolverUnknownPhraseRegistration(t *testing.T) {
	resolver := ontology.NewResolver(ontology.SeedEntities())

	assert.False(t, resolver.Known("haunted lighthouse"))
	first := resolver.Resolve("Haunted Lighthouse")
	assert.Equal(t, "haunted lighthouse", first.Canonical)
	assert.Equal(t, model.EntityTypeOther, first.Type)

	assert.True(t, resolver.Known("haunted lighthouse"))
	second := resolver.Resolve("haunted   lighthouse!")
	assert.Equal(t, first.Canonical, second.Canonical)
}

func TestResolverEmptyPhrase(t *testing.T) {
	resolver := ontology.NewResolver(ontology.SeedEntities())
	e := resolver.Resolve("???")
	assert.Equal(t, "untitled subject", e.Canonical)
}

func TestResolverLookupNeverSynthesizes(t *testing.T) {
	resolver := ontology.NewResolver(ontology.SeedEntities())
	assert.NotNil(t, resolver.Lookup("trevi fountain"))
	assert.Nil(t, resolver.Lookup("never registered"))
	assert.False(t, resolver.Known("never registered"))
}

// TestStageQueriesLandmark verifies the tier layout for a landmark entity:
// feature and action combinations in Stage A, the canonical plus viewing
// variants in Stage B, synonyms and parents in Stage C.
func TestStageQueriesLandmark(t *testing.T) {
	resolver := ontology.NewResolver(ontology.SeedEntities())
	q := ontology.StageQueries(resolver.Resolve("trevi fountain"))

	assert.Contains(t, q.StageA, "trevi fountain night")
	assert.Contains(t, q.StageA, "trevi fountain tossing a coin")

	assert.Equal(t, "trevi fountain", q.StageB[0])
	assert.Contains(t, q.StageB, "trevi fountain aerial")
	assert.Contains(t, q.StageB, "trevi fountain close up")

	assert.Contains(t, q.StageC, "fontana di trevi")
	assert.Contains(t, q.StageC, "trevi fountain rome")
}

// TestStageQueriesDeduplicated verifies that no term appears twice across
// tiers, so a provider is never queried twice for one scene.
func TestStageQueriesDeduplicated(t *testing.T) {
	e := &model.CanonicalEntity{
		Canonical: "eiffel tower",
		Type:      model.EntityTypeLandmark,
		Features:  []string{"aerial"}, // collides with the landmark view variant
		Synonyms:  []string{"Eiffel Tower"},
	}
	q := ontology.StageQueries(e)

	seen := make(map[string]int)
	for _, term := range q.Flatten() {
		seen[term]++
	}
	for term, n := range seen {
		assert.Equal(t, 1, n, "term %q appears %d times", term, n)
	}
	// The synonym that slugs to the canonical itself is dropped entirely.
	assert.NotContains(t, q.StageC, "eiffel tower")
}

func TestStagedQueriesFlattenOrder(t *testing.T) {
	q := &ontology.StagedQueries{
		StageA: []string{"a1", "a2"},
		StageB: []string{"b1"},
		StageC: []string{"c1"},
	}
	assert.Equal(t, []string{"a1", "a2", "b1", "c1"}, q.Flatten())
}
