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

// Package subject turns one scene line into a literal, filmable visual
// subject. The extractor ranks candidates across fixed tiers; the
// multi-subject resolver (multisubject.go) handles lines naming two or more
// things. Both components always produce a usable answer: resolution
// failures degrade through the main topic to a fixed sentinel, never to an
// error.
package subject

import (
	"sort"
	"strings"

	"github.com/DraftbotAI/SocialStormAI-Refactor-sub001/internal/core/model"
	"github.com/DraftbotAI/SocialStormAI-Refactor-sub001/internal/core/ontology"
)

// Tier scores. The canonical-phrase tier always beats reconstruction, which
// always beats token-frequency hints; the context boost can promote within
// a tier but never across tiers.
const (
	ScoreCanonicalPhrase = 0.95
	ScoreTrigram         = 0.80
	ScoreBigram          = 0.70
	ScoreBareHeadNoun    = 0.60
	ScoreObjectHint      = 0.50
	ScoreFreqToken       = 0.45
	ContextBoost         = 0.05

	// ConfidenceFloor is the acceptance threshold: below it the main topic
	// (when usable) replaces the ranked winner.
	ConfidenceFloor = 0.55

	// GenericSentinel is the subject of last resort. It is deliberately
	// searchable ("cinematic b-roll" returns results on every provider).
	GenericSentinel = "cinematic b-roll"
)

// Extractor resolves scene lines against the ontology.
type Extractor struct {
	Resolver *ontology.Resolver
}

// NewExtractor returns an extractor over the given resolver.
func NewExtractor(r *ontology.Resolver) *Extractor {
	return &Extractor{Resolver: r}
}

type scored struct {
	phrase string
	score  float64
}

// Extract resolves one scene line to a subject. mainTopic is the job topic
// used as the first fallback; hint, when non-nil, short-circuits ranking
// with the caller's structured knowledge.
func (e *Extractor) Extract(line, mainTopic string, hint *model.SubjectHint) *model.SubjectResolution {
	if hint != nil && usable(hint.Primary) {
		primary := ontology.Slug(hint.Primary)
		if hint.Feature != "" {
			primary = primary + " " + ontology.Slug(hint.Feature)
		}
		return &model.SubjectResolution{
			Primary:    primary,
			Confidence: ScoreCanonicalPhrase,
			Candidates: []string{primary},
			Source:     model.SubjectSourceRanked,
		}
	}

	slugLine := ontology.Slug(line)
	words := strings.Fields(slugLine)
	boost := contextBoost(slugLine)

	candidates := make([]scored, 0, 8)
	candidates = append(candidates, e.canonicalMatches(slugLine, boost)...)
	candidates = append(candidates, headNounPhrases(words, boost)...)
	candidates = append(candidates, tokenHints(words, boost)...)

	// Banned generics are filtered before ranking, not demoted.
	kept := candidates[:0]
	for _, c := range candidates {
		if usable(c.phrase) {
			kept = append(kept, c)
		}
	}

	// Rank: score desc, then longer phrase, then lexical. The total order
	// makes extraction deterministic for identical input.
	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].score != kept[j].score {
			return kept[i].score > kept[j].score
		}
		if len(kept[i].phrase) != len(kept[j].phrase) {
			return len(kept[i].phrase) > len(kept[j].phrase)
		}
		return kept[i].phrase < kept[j].phrase
	})

	ranked := make([]string, 0, len(kept))
	seen := make(map[string]bool, len(kept))
	for _, c := range kept {
		if !seen[c.phrase] {
			seen[c.phrase] = true
			ranked = append(ranked, c.phrase)
		}
	}

	if len(kept) > 0 && kept[0].score >= ConfidenceFloor {
		return &model.SubjectResolution{
			Primary:    kept[0].phrase,
			Confidence: kept[0].score,
			Candidates: ranked,
			Source:     model.SubjectSourceRanked,
		}
	}

	if topic := ontology.Slug(mainTopic); usable(topic) {
		return &model.SubjectResolution{
			Primary:    topic,
			Confidence: 0.4,
			Candidates: ranked,
			Source:     model.SubjectSourceMainTopic,
		}
	}

	return &model.SubjectResolution{
		Primary:    GenericSentinel,
		Confidence: 0.1,
		Candidates: ranked,
		Source:     model.SubjectSourceGeneric,
	}
}

// canonicalMatches finds every registered canonical phrase appearing
// verbatim in the slugged line. Longer phrases outrank shorter via the
// length tie-break, so "statue of liberty" beats "statue".
func (e *Extractor) canonicalMatches(slugLine string, boost float64) []scored {
	var out []scored
	padded := " " + slugLine + " "
	for _, canon := range e.Resolver.CanonicalPhrases() {
		if strings.Contains(padded, " "+canon+" ") {
			out = append(out, scored{phrase: canon, score: min1(ScoreCanonicalPhrase + boost)})
		}
	}
	return out
}

// headNounPhrases reconstructs "modifier + head noun" phrases around each
// head noun in the line: trigram above bigram above the bare noun.
func headNounPhrases(words []string, boost float64) []scored {
	var out []scored
	for i, w := range words {
		if !headNouns[w] {
			continue
		}
		mods := make([]string, 0, 2)
		for j := i - 1; j >= 0 && len(mods) < 2; j-- {
			if stopwords[words[j]] || headNouns[words[j]] {
				break
			}
			mods = append([]string{words[j]}, mods...)
		}
		switch len(mods) {
		case 2:
			out = append(out, scored{phrase: strings.Join(append(mods, w), " "), score: min1(ScoreTrigram + boost)})
			out = append(out, scored{phrase: mods[1] + " " + w, score: min1(ScoreBigram + boost)})
		case 1:
			out = append(out, scored{phrase: mods[0] + " " + w, score: min1(ScoreBigram + boost)})
		}
		out = append(out, scored{phrase: w, score: min1(ScoreBareHeadNoun + boost)})
	}
	return out
}

// tokenHints is the lowest accepted tier: object-hint nouns, then long
// tokens that repeat in the line.
func tokenHints(words []string, boost float64) []scored {
	var out []scored
	freq := make(map[string]int, len(words))
	for _, w := range words {
		if !stopwords[w] && len(w) > 3 {
			freq[w]++
		}
	}
	for _, w := range words {
		if objectHints[w] {
			out = append(out, scored{phrase: w, score: min1(ScoreObjectHint + boost)})
		}
	}
	for w, n := range freq {
		if n >= 2 {
			out = append(out, scored{phrase: w, score: min1(ScoreFreqToken + boost)})
		}
	}
	return out
}

func contextBoost(slugLine string) float64 {
	for _, kw := range domainKeywords {
		if strings.Contains(slugLine, kw) {
			return ContextBoost
		}
	}
	return 0
}

// usable reports whether a phrase is acceptable as a subject: non-empty and
// containing at least one word outside the banned-generic set.
func usable(phrase string) bool {
	words := strings.Fields(ontology.Slug(phrase))
	if len(words) == 0 {
		return false
	}
	for _, w := range words {
		if !bannedGenerics[w] && !stopwords[w] {
			return true
		}
	}
	return false
}

func min1(f float64) float64 {
	if f > 1 {
		return 1
	}
	return f
}
