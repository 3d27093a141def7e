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
	"fmt"
	"sort"
)

// Voice is one narration voice offered to clients.
type Voice struct {
	ID          string `json:"id" toml:"id"`
	Name        string `json:"name" toml:"name"`
	Provider    string `json:"provider" toml:"provider"`
	ProviderRef string `json:"-" toml:"provider_ref"` // provider's own voice identifier
	Gender      string `json:"gender,omitempty" toml:"gender"`
	Preview     string `json:"preview_url,omitempty" toml:"preview"`
}

// VoiceCatalog is the fixed set of voices loaded from configuration at
// startup. Lookups are read-only after construction.
type VoiceCatalog struct {
	byID    map[string]Voice
	ordered []Voice
}

// NewVoiceCatalog builds a catalog, keeping first occurrence on duplicate
// IDs and a stable listing order (provider, then name).
func NewVoiceCatalog(voices []Voice) *VoiceCatalog {
	c := &VoiceCatalog{byID: make(map[string]Voice, len(voices))}
	for _, v := range voices {
		if v.ID == "" {
			continue
		}
		if _, dup := c.byID[v.ID]; dup {
			continue
		}
		c.byID[v.ID] = v
		c.ordered = append(c.ordered, v)
	}
	sort.SliceStable(c.ordered, func(i, j int) bool {
		if c.ordered[i].Provider != c.ordered[j].Provider {
			return c.ordered[i].Provider < c.ordered[j].Provider
		}
		return c.ordered[i].Name < c.ordered[j].Name
	})
	return c
}

// List returns every voice in stable order.
func (c *VoiceCatalog) List() []Voice {
	out := make([]Voice, len(c.ordered))
	copy(out, c.ordered)
	return out
}

// Lookup resolves a client voice ID to its catalog entry.
func (c *VoiceCatalog) Lookup(id string) (Voice, error) {
	v, ok := c.byID[id]
	if !ok {
		return Voice{}, fmt.Errorf("unknown voice %q", id)
	}
	return v, nil
}

// Default returns the first voice in listing order, used when a request
// omits the voice ID.
func (c *VoiceCatalog) Default() (Voice, error) {
	if len(c.ordered) == 0 {
		return Voice{}, fmt.Errorf("voice catalog is empty")
	}
	return c.ordered[0], nil
}
