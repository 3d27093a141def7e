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

package subject

import (
	"context"
	"log/slog"
	"strings"
	"time"
	"unicode"

	"github.com/DraftbotAI/SocialStormAI-Refactor-sub001/internal/core/ontology"
)

// NoMatch is the sentinel a combined-phrase generator returns when it
// cannot produce a usable phrase. Treated the same as an empty response.
const NoMatch = "NO_MATCH"

// DefaultCombineTimeout bounds one generator call. Deliberately much
// shorter than the job watchdog: a slow model must not stall a scene.
const DefaultCombineTimeout = 8 * time.Second

// multiSeparators mark a line as naming two or more things.
var multiSeparators = []string{" and ", "/", "&", " vs ", " versus ", " plus "}

// PhraseGenerator produces a single combined literal phrase for a line that
// names multiple subjects. The production implementation calls Gemini under
// the contract in CombinePromptContract; tests inject fakes.
type PhraseGenerator interface {
	CombinedPhrase(ctx context.Context, line, topic string) (string, error)
}

// CombinePromptContract is the instruction block sent with every combined-
// phrase request. The sanitizer enforces the same bounds on the way back,
// so a model that ignores the contract still cannot poison a scene.
const CombinePromptContract = `Return ONE literal, filmable visual phrase combining every subject in the line.
Rules: 3 to 10 words, all lowercase, no sentence punctuation, no generic nouns
(thing, footage, scene, view). Prefer a combo framing such as "together",
"side by side". If no combined visual exists, return exactly NO_MATCH.`

// MultiResolver resolves lines naming two or more things into one combined
// visual phrase instead of forcing a scene split. It never lets an error
// escape: every failure path degrades through the heuristic, then the main
// topic, then empty.
type MultiResolver struct {
	Generator PhraseGenerator    // may be nil: heuristic-only mode
	Resolver  *ontology.Resolver // canonicalizes heuristic nouns ("cats" -> "cat")
	Timeout   time.Duration
}

// NewMultiResolver wires a multi-subject resolver. A nil generator is
// valid and skips straight to the local heuristic.
func NewMultiResolver(gen PhraseGenerator, res *ontology.Resolver) *MultiResolver {
	return &MultiResolver{Generator: gen, Resolver: res, Timeout: DefaultCombineTimeout}
}

// IsMultiSubject reports whether the line names two or more things.
func IsMultiSubject(line string) bool {
	l := " " + strings.ToLower(line) + " "
	for _, sep := range multiSeparators {
		if strings.Contains(l, sep) {
			return true
		}
	}
	return false
}

// strategy is one rung of the fallback ladder: a pure attempt that either
// yields a phrase or passes.
type strategy func(ctx context.Context, line, topic string) (string, bool)

// Combine resolves a multi-subject line to one phrase, or "" when every
// fallback is exhausted. The contract with callers is total: no error, no
// panic, always a phrase or empty.
func (m *MultiResolver) Combine(ctx context.Context, line, topic string) string {
	strategies := []strategy{
		m.generated,
		m.heuristic,
		func(_ context.Context, _, topic string) (string, bool) {
			t := ontology.Slug(topic)
			return t, usable(t)
		},
	}
	for _, s := range strategies {
		if phrase, ok := s(ctx, line, topic); ok {
			return phrase
		}
	}
	return ""
}

// generated runs the external generator, time-boxed, and sanitizes the
// response. Any failure (timeout, error, NO_MATCH, unusable output) passes
// to the next strategy.
func (m *MultiResolver) generated(ctx context.Context, line, topic string) (string, bool) {
	if m.Generator == nil {
		return "", false
	}
	timeout := m.Timeout
	if timeout <= 0 {
		timeout = DefaultCombineTimeout
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	raw, err := m.Generator.CombinedPhrase(callCtx, line, topic)
	if err != nil {
		slog.Warn("combined-phrase generation failed, falling back", "error", err)
		return "", false
	}
	phrase := SanitizeCombined(raw)
	return phrase, phrase != ""
}

// heuristic scores the line's nouns by category strength (animals > food >
// weather > places) and joins the top two as "a and b together".
func (m *MultiResolver) heuristic(_ context.Context, line, _ string) (string, bool) {
	words := ontology.SlugWords(line)

	type rankedWord struct {
		canon    string
		strength int
		pos      int
	}
	var picks []rankedWord
	seen := make(map[string]bool)
	for i, w := range words {
		if stopwords[w] || categoryStrength(w) == 0 {
			continue
		}
		canon := w
		if m.Resolver != nil {
			canon = m.Resolver.Resolve(w).Canonical
		}
		if seen[canon] {
			continue
		}
		seen[canon] = true
		picks = append(picks, rankedWord{canon: canon, strength: categoryStrength(w), pos: i})
	}
	if len(picks) < 2 {
		return "", false
	}
	// Stable selection: strength desc, line position asc.
	best, second := -1, -1
	for i := range picks {
		if best == -1 || picks[i].strength > picks[best].strength {
			second = best
			best = i
		} else if second == -1 || picks[i].strength > picks[second].strength {
			second = i
		}
	}
	a, b := picks[best], picks[second]
	if a.pos > b.pos {
		a, b = b, a
	}
	return a.canon + " and " + b.canon + " together", true
}

// leadIns are chat-style prefixes stripped from generated phrases.
var leadIns = []string{
	"sure,", "sure!", "here is", "here's", "the combined phrase is",
	"combined phrase:", "subject:", "phrase:", "answer:",
}

// SanitizeCombined enforces the combined-phrase contract on a raw model
// response: strip lead-ins and markup, drop emoji and punctuation,
// lowercase, clamp to the 3-10 word window (over-long responses are
// truncated, under-length rejected), and reject NO_MATCH and generic-only
// results. Returns "" when the response is unusable.
func SanitizeCombined(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	if strings.EqualFold(strings.Trim(s, " .!\"'"), NoMatch) {
		return ""
	}

	lower := strings.ToLower(s)
	for _, lead := range leadIns {
		if strings.HasPrefix(lower, lead) {
			s = s[len(lead):]
			lower = strings.ToLower(s)
		}
	}

	// Keep letters, digits and spaces only; everything else (emoji,
	// quotes, sentence punctuation) collapses to a space.
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}

	words := strings.Fields(b.String())
	if len(words) > 10 {
		words = words[:10]
	}
	if len(words) < 3 {
		return ""
	}
	phrase := strings.Join(words, " ")
	if !usable(phrase) {
		return ""
	}
	return phrase
}
