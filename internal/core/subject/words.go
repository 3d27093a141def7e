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

// Word tables backing the extractor and the multi-subject heuristic. These
// are fixed vocabulary, not configuration: changing them changes ranking
// semantics, so they live in code next to the logic that interprets them.

// stopwords are skipped when scanning for candidate tokens and when
// reconstructing modifier+head-noun phrases.
var stopwords = map[string]bool{
	"a": true, "an": true, "the": true, "and": true, "or": true, "but": true,
	"of": true, "in": true, "on": true, "at": true, "to": true, "for": true,
	"with": true, "from": true, "by": true, "about": true, "into": true,
	"over": true, "under": true, "is": true, "are": true, "was": true,
	"were": true, "be": true, "been": true, "has": true, "have": true,
	"had": true, "this": true, "that": true, "these": true, "those": true,
	"it": true, "its": true, "they": true, "their": true, "there": true,
	"your": true, "you": true, "we": true, "our": true, "i": true,
	"not": true, "no": true, "so": true, "as": true, "if": true,
	"than": true, "then": true, "when": true, "while": true, "where": true,
	"most": true, "more": true, "very": true, "just": true, "also": true,
	"can": true, "will": true, "would": true, "could": true, "should": true,
	"do": true, "does": true, "did": true, "all": true, "both": true,
	"each": true, "every": true, "some": true, "any": true, "still": true,
	"even": true, "ever": true, "never": true, "only": true, "too": true,
	"up": true, "down": true, "out": true, "off": true, "per": true,
	"one": true, "two": true, "million": true, "thousand": true, "year": true,
	"years": true, "see": true, "like": true, "get": true, "make": true,
	"hides": true, "below": true, "beneath": true, "lies": true,
}

// bannedGenerics are never acceptable as a resolved subject; a resolution
// landing here falls through to the main topic or the generic sentinel.
var bannedGenerics = map[string]bool{
	"thing": true, "things": true, "stuff": true, "something": true,
	"video": true, "videos": true, "footage": true, "clip": true,
	"clips": true, "scene": true, "scenes": true, "image": true,
	"images": true, "picture": true, "pictures": true, "photo": true,
	"view": true, "views": true, "place": true, "places": true,
	"nice": true, "beautiful": true, "amazing": true, "awesome": true,
	"great": true, "incredible": true, "world": true, "time": true,
	"day": true, "people": true, "person": true, "everyone": true,
	"fact": true, "facts": true, "secret": true, "secrets": true,
	"story": true, "stories": true, "way": true, "ways": true,
	"today": true, "life": true,
}

// headNouns anchor the modifier+head-noun reconstruction tier: a line like
// "the ancient marble fountain" yields "ancient marble fountain" (trigram)
// over "marble fountain" (bigram) over "fountain" (bare).
var headNouns = map[string]bool{
	"fountain": true, "bridge": true, "castle": true, "statue": true,
	"temple": true, "tower": true, "palace": true, "cathedral": true,
	"church": true, "museum": true, "market": true, "harbor": true,
	"mountain": true, "volcano": true, "canyon": true, "waterfall": true,
	"beach": true, "forest": true, "desert": true, "glacier": true,
	"skyline": true, "lighthouse": true, "pyramid": true, "ruins": true,
	"dome": true, "amphitheatre": true, "aqueduct": true,
}

// domainKeywords earn a small context boost when present anywhere in the
// line; their presence means the line is talking about filmable scenery.
var domainKeywords = []string{"fountain", "bridge", "castle", "statue", "temple"}

// objectHints are concrete nouns accepted at the lowest tier when nothing
// stronger is found.
var objectHints = map[string]bool{
	"coin": true, "coins": true, "tunnel": true, "tunnels": true,
	"door": true, "gate": true, "bell": true, "clock": true, "train": true,
	"boat": true, "ship": true, "plane": true, "car": true, "street": true,
	"garden": true, "lantern": true, "mask": true, "sword": true,
	"crown": true, "map": true, "book": true, "telescope": true,
}

// Category strength for the multi-subject heuristic: when two or more
// things are named, the two strongest-category nouns form the combo phrase.
// Animals beat food beat weather beat places.
var animalWords = map[string]bool{
	"cat": true, "cats": true, "kitten": true, "dog": true, "dogs": true,
	"puppy": true, "bird": true, "birds": true, "eagle": true, "lion": true,
	"tiger": true, "bear": true, "horse": true, "fox": true, "wolf": true,
	"octopus": true, "dolphin": true, "whale": true, "shark": true,
	"elephant": true, "monkey": true, "rabbit": true, "snake": true,
	"owl": true, "penguin": true,
}

var foodWords = map[string]bool{
	"pizza": true, "sushi": true, "pasta": true, "burger": true,
	"bread": true, "cheese": true, "chocolate": true, "coffee": true,
	"espresso": true, "ramen": true, "taco": true, "cake": true,
	"icecream": true, "croissant": true,
}

var weatherWords = map[string]bool{
	"rain": true, "snow": true, "storm": true, "lightning": true,
	"thunder": true, "fog": true, "wind": true, "tornado": true,
	"hurricane": true, "sunshine": true, "clouds": true,
}

var placeWords = map[string]bool{
	"city": true, "beach": true, "mountain": true, "forest": true,
	"desert": true, "island": true, "village": true, "park": true,
	"rome": true, "paris": true, "tokyo": true, "london": true,
}

// categoryStrength returns the multi-subject ranking weight of a word, or 0
// when the word belongs to no category.
func categoryStrength(word string) int {
	switch {
	case animalWords[word]:
		return 4
	case foodWords[word]:
		return 3
	case weatherWords[word]:
		return 2
	case placeWords[word]:
		return 1
	default:
		return 0
	}
}
