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

package ontology

import "github.com/DraftbotAI/SocialStormAI-Refactor-sub001/internal/core/model"

// StagedQueries holds the search-term tiers for one entity, most concrete
// first. The clip search walks A then B then C, stopping at the first tier
// that yields a usable result.
type StagedQueries struct {
	StageA []string // canonical + feature combinations
	StageB []string // canonical alone, plus domain-typical viewing variants
	StageC []string // synonyms, alternates, language variants
}

// landmarkViews are the viewing variants appended for landmark-typed
// entities in Stage B; stock libraries tag establishing shots this way.
var landmarkViews = []string{"aerial", "close-up", "night"}

// StageQueries expands a resolved entity into its three query tiers.
//
// Stage A pairs the canonical with each feature and action ("trevi fountain
// night", "trevi fountain tossing a coin"). Stage B is the bare canonical
// plus type-typical view variants. Stage C is every registered synonym and
// language variant. Tiers are deduplicated against earlier tiers so a
// provider is never queried twice with the same term for one scene.
func StageQueries(e *model.CanonicalEntity) *StagedQueries {
	out := &StagedQueries{}
	seen := make(map[string]bool)
	add := func(dst *[]string, term string) {
		s := Slug(term)
		if s == "" || seen[s] {
			return
		}
		seen[s] = true
		*dst = append(*dst, s)
	}

	for _, f := range e.Features {
		add(&out.StageA, e.Canonical+" "+f)
	}
	for _, a := range e.Actions {
		add(&out.StageA, e.Canonical+" "+a)
	}

	add(&out.StageB, e.Canonical)
	if e.Type == model.EntityTypeLandmark {
		for _, v := range landmarkViews {
			add(&out.StageB, e.Canonical+" "+v)
		}
	}

	for _, s := range e.Synonyms {
		add(&out.StageC, s)
	}
	for _, v := range e.LanguageVariants {
		add(&out.StageC, v)
	}
	for _, p := range e.Parents {
		add(&out.StageC, e.Canonical+" "+p)
	}

	return out
}

// Flatten returns all tiers as one ordered slice, Stage A first.
func (q *StagedQueries) Flatten() []string {
	out := make([]string, 0, len(q.StageA)+len(q.StageB)+len(q.StageC))
	out = append(out, q.StageA...)
	out = append(out, q.StageB...)
	out = append(out, q.StageC...)
	return out
}
