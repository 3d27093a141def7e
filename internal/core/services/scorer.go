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
	"sort"
	"strings"

	"github.com/DraftbotAI/SocialStormAI-Refactor-sub001/internal/core/model"
	"github.com/DraftbotAI/SocialStormAI-Refactor-sub001/internal/core/ontology"
)

// Additive score components. Signals accumulate rather than override so a
// portrait partial match can legitimately beat a landscape exact match on a
// tiny file.
const (
	ScoreExactAllWords  = 50
	ScoreFuzzyMajority  = 30 // >= 60% of subject words present
	ScorePartialAnyWord = 10
	ScoreSubstring      = 15 // whole subject phrase appears in metadata
	ScorePerKeyword     = 5  // per individual subject word found

	BonusPortrait = 10
	BonusMinRes   = 5 // at least 1080 on the short side
	BonusCodec    = 3 // source already h264/mp4

	PenaltyUsedClip  = -1000 // effectively removes a claimed clip
	PenaltyShortClip = -5    // under 4 seconds, loops visibly

	// StrongMatchThreshold gates tier advancement: a source result at or
	// above it stops the search cascade.
	StrongMatchThreshold = 50

	// FloorScore separates real matches from noise. It only discards
	// candidates outright when a strong leader exists; with no strong
	// leader the best available clip is still served, because a weak clip
	// beats a failed scene.
	FloorScore = 12

	minShortSide  = 1080
	minClipLength = 4.0
)

// Scorer ranks clip candidates against a resolved subject. usedRefs is the
// job-wide claim set: a FileRef present there was already selected by another
// scene and is effectively excluded.
type Scorer struct{}

// Score computes the additive relevance score of one candidate for a subject.
func (Scorer) Score(c *model.ClipCandidate, subject string, usedRefs map[string]bool) int {
	subjectWords := ontology.SlugWords(subject)
	meta := ontology.Slug(c.Text + " " + c.FileRef)
	metaWords := make(map[string]bool)
	for _, w := range strings.Fields(meta) {
		metaWords[w] = true
	}

	found := 0
	for _, w := range subjectWords {
		if metaWords[w] || strings.Contains(meta, w) {
			found++
		}
	}

	score := 0
	switch {
	case len(subjectWords) > 0 && found == len(subjectWords):
		score += ScoreExactAllWords
	case len(subjectWords) > 0 && found*10 >= len(subjectWords)*6:
		score += ScoreFuzzyMajority
	case found > 0:
		score += ScorePartialAnyWord
	}
	if phrase := ontology.Slug(subject); phrase != "" && strings.Contains(meta, phrase) {
		score += ScoreSubstring
	}
	score += found * ScorePerKeyword

	if c.Portrait() {
		score += BonusPortrait
	}
	if shortSide(c.Width, c.Height) >= minShortSide {
		score += BonusMinRes
	}
	if hasGoodCodec(c.FileRef) {
		score += BonusCodec
	}
	if c.Duration > 0 && c.Duration < minClipLength {
		score += PenaltyShortClip
	}
	if usedRefs[c.FileRef] {
		score += PenaltyUsedClip
	}
	return score
}

// Rank scores and orders candidates best first. The order is total: score
// desc, then longer metadata text (more specific match), then FileRef
// lexically, so identical inputs always produce identical rankings.
// Already-claimed clips are excluded outright. When the leader clears
// StrongMatchThreshold, candidates below FloorScore are discarded entirely
// so an irrelevant-but-nonzero clip can never ride along; without a strong
// leader everything stays ranked and the caller decides whether the weak
// best is worth using.
func (s Scorer) Rank(candidates []*model.ClipCandidate, subject string, usedRefs map[string]bool) []*model.ClipCandidate {
	ranked := make([]*model.ClipCandidate, 0, len(candidates))
	for _, c := range candidates {
		if usedRefs[c.FileRef] {
			continue
		}
		c.Score = s.Score(c, subject, usedRefs)
		ranked = append(ranked, c)
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		if len(ranked[i].Text) != len(ranked[j].Text) {
			return len(ranked[i].Text) > len(ranked[j].Text)
		}
		return ranked[i].FileRef < ranked[j].FileRef
	})
	if len(ranked) > 0 && ranked[0].Score >= StrongMatchThreshold {
		kept := ranked[:0]
		for _, c := range ranked {
			if c.Score >= FloorScore {
				kept = append(kept, c)
			}
		}
		ranked = kept
	}
	return ranked
}

func shortSide(w, h int) int {
	if w < h {
		return w
	}
	return h
}

func hasGoodCodec(ref string) bool {
	lower := strings.ToLower(ref)
	return strings.Contains(lower, ".mp4") || strings.Contains(lower, "h264")
}
