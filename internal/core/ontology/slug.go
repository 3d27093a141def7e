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

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// deaccenter decomposes characters and drops combining marks, so "Trèvi"
// folds to "Trevi" before slugging.
var deaccenter = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slug normalizes a raw phrase into canonical form: diacritics stripped,
// lowercased, punctuation collapsed to single spaces, surrounding space
// trimmed. Slugging is idempotent: Slug(Slug(x)) == Slug(x).
func Slug(in string) string {
	folded, _, err := transform.String(deaccenter, in)
	if err != nil {
		// Fold failure leaves the input usable, just unfolded.
		folded = in
	}
	folded = strings.ToLower(folded)

	var b strings.Builder
	b.Grow(len(folded))
	lastSpace := true
	for _, r := range folded {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastSpace = false
		default:
			if !lastSpace {
				b.WriteRune(' ')
				lastSpace = true
			}
		}
	}
	return strings.TrimSpace(b.String())
}

// SlugWords returns the slug split into its words.
func SlugWords(in string) []string {
	s := Slug(in)
	if s == "" {
		return nil
	}
	return strings.Fields(s)
}
