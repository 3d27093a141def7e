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
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/DraftbotAI/SocialStormAI-Refactor-sub001/internal/core/services"
	test "github.com/DraftbotAI/SocialStormAI-Refactor-sub001/internal/testutil"
)

func sampleVoices() []services.Voice {
	return []services.Voice{
		{ID: "storyteller", Name: "Fable", Provider: "openai", ProviderRef: "fable"},
		{ID: "narrator-m", Name: "Atlas", Provider: "openai", ProviderRef: "onyx", Gender: "male"},
		{ID: "narrator-m", Name: "Duplicate", Provider: "openai", ProviderRef: "echo"},
		{ID: "", Name: "Nameless", Provider: "openai"},
	}
}

// TestVoiceCatalogDedupAndOrder verifies that duplicate IDs keep their first
// registration, empty IDs are dropped, and the listing order is stable
// (provider, then name).
func TestVoiceCatalogDedupAndOrder(t *testing.T) {
	catalog := services.NewVoiceCatalog(sampleVoices())

	list := catalog.List()
	assert.Len(t, list, 2)
	assert.Equal(t, "Atlas", list[0].Name)
	assert.Equal(t, "Fable", list[1].Name)

	kept, err := catalog.Lookup("narrator-m")
	assert.NoError(t, err)
	assert.Equal(t, "onyx", kept.ProviderRef)
}

func TestVoiceCatalogLookupUnknown(t *testing.T) {
	catalog := services.NewVoiceCatalog(sampleVoices())
	_, err := catalog.Lookup("ghost")
	assert.Error(t, err)
}

func TestVoiceCatalogDefault(t *testing.T) {
	catalog := services.NewVoiceCatalog(sampleVoices())
	def, err := catalog.Default()
	assert.NoError(t, err)
	assert.Equal(t, "narrator-m", def.ID)

	_, err = services.NewVoiceCatalog(nil).Default()
	assert.Error(t, err)
}

// TestVoiceCatalogFromConfig verifies the catalog loads from the TOML voice
// table and that provider references stay internal to the server.
func TestVoiceCatalogFromConfig(t *testing.T) {
	config := test.GetConfig()
	catalog := services.NewVoiceCatalog(config.Voices)

	voices := catalog.List()
	assert.NotEmpty(t, voices)
	for _, v := range voices {
		assert.NotEmpty(t, v.ID)
		assert.NotEmpty(t, v.Provider)
		assert.NotEmpty(t, v.ProviderRef)
	}
}
