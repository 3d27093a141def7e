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

// Package ontology owns the canonical subject vocabulary: the seed entity
// table loaded at startup, the alias table mapping every synonym and
// language variant onto exactly one canonical slug, and the staged query
// terms generated from a resolved entity. The ontology grows monotonically
// within a process: resolving an unknown phrase synthesizes a minimal entity
// and registers it; nothing is ever removed.
package ontology

import (
	"fmt"
	"sync"

	"github.com/DraftbotAI/SocialStormAI-Refactor-sub001/internal/core/model"
)

// Resolver maps raw phrases to canonical entities. The seed table is
// immutable after construction; runtime additions land in an append-only
// extension table. Safe for concurrent use.
type Resolver struct {
	mu       sync.RWMutex
	seed     map[string]*model.CanonicalEntity // canonical slug -> entity, fixed at startup
	extended map[string]*model.CanonicalEntity // canonical slug -> entity, append-only
	aliases  map[string]string                 // alias slug -> canonical slug
}

// NewResolver builds a resolver over the given seed entities. Every
// canonical slug, synonym and language variant is indexed in the alias
// table. Duplicate aliases keep their first registration; the seed table is
// curated, so a collision indicates a seed bug, and first-wins keeps
// resolution deterministic.
func NewResolver(seed []*model.CanonicalEntity) *Resolver {
	r := &Resolver{
		seed:     make(map[string]*model.CanonicalEntity, len(seed)),
		extended: make(map[string]*model.CanonicalEntity),
		aliases:  make(map[string]string),
	}
	for _, e := range seed {
		canon := Slug(e.Canonical)
		if canon == "" {
			continue
		}
		e.Canonical = canon
		r.seed[canon] = e
		r.index(e)
	}
	return r
}

// index registers an entity's canonical slug and all its aliases. Caller
// holds the write lock (or is the constructor).
func (r *Resolver) index(e *model.CanonicalEntity) {
	if _, exists := r.aliases[e.Canonical]; !exists {
		r.aliases[e.Canonical] = e.Canonical
	}
	for _, alias := range append(append([]string{}, e.Synonyms...), e.LanguageVariants...) {
		s := Slug(alias)
		if s == "" {
			continue
		}
		if _, exists := r.aliases[s]; !exists {
			r.aliases[s] = e.Canonical
		}
	}
}

// Resolve returns the canonical entity for a raw phrase. Resolution never
// fails: an unknown phrase is synthesized into a minimal entity of type
// "other" and registered, so later resolutions of the same phrase (or its
// slug) converge on the same entity.
func (r *Resolver) Resolve(phrase string) *model.CanonicalEntity {
	s := Slug(phrase)
	if s == "" {
		s = "untitled subject"
	}

	r.mu.RLock()
	if canon, ok := r.aliases[s]; ok {
		e := r.lookup(canon)
		r.mu.RUnlock()
		return e
	}
	r.mu.RUnlock()

	return r.Register(&model.CanonicalEntity{Canonical: s, Type: model.EntityTypeOther})
}

// Lookup returns the entity for an exact canonical slug, or nil. Unlike
// Resolve it never synthesizes.
func (r *Resolver) Lookup(canonical string) *model.CanonicalEntity {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lookup(Slug(canonical))
}

func (r *Resolver) lookup(canon string) *model.CanonicalEntity {
	if e, ok := r.seed[canon]; ok {
		return e
	}
	return r.extended[canon]
}

// Register adds an entity to the extension table and indexes its aliases.
// Registering a slug that already resolves returns the existing entity, so
// two goroutines racing to register the same unknown phrase converge.
func (r *Resolver) Register(e *model.CanonicalEntity) *model.CanonicalEntity {
	canon := Slug(e.Canonical)
	if canon == "" {
		canon = "untitled subject"
	}
	e.Canonical = canon

	r.mu.Lock()
	defer r.mu.Unlock()
	if existingCanon, ok := r.aliases[canon]; ok {
		if existing := r.lookup(existingCanon); existing != nil {
			return existing
		}
	}
	r.extended[canon] = e
	r.index(e)
	return e
}

// IsSameCanonical reports whether two phrases resolve to the same canonical
// entity. Symmetric by construction.
func (r *Resolver) IsSameCanonical(a, b string) bool {
	return r.Resolve(a).Canonical == r.Resolve(b).Canonical
}

// Known reports whether a phrase already resolves without synthesis.
func (r *Resolver) Known(phrase string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.aliases[Slug(phrase)]
	return ok
}

// CanonicalPhrases returns every canonical slug currently registered,
// seed and extension alike. Used by the subject extractor's longest-phrase
// scan.
func (r *Resolver) CanonicalPhrases() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.seed)+len(r.extended))
	for c := range r.seed {
		out = append(out, c)
	}
	for c := range r.extended {
		out = append(out, c)
	}
	return out
}

// String implements fmt.Stringer for debug logging.
func (r *Resolver) String() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return fmt.Sprintf("ontology.Resolver{seed:%d extended:%d aliases:%d}", len(r.seed), len(r.extended), len(r.aliases))
}
