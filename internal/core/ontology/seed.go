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

// SeedEntities is the immutable startup ontology. The resolver copies it
// into its tables at construction; runtime additions go to the append-only
// extension table, never here.
//
// Features drive Stage A query terms ("trevi fountain night"); synonyms and
// language variants drive Stage C.
func SeedEntities() []*model.CanonicalEntity {
	return []*model.CanonicalEntity{
		{
			Canonical: "trevi fountain",
			Type:      model.EntityTypeLandmark,
			Parents:   []string{"rome", "italy"},
			Synonyms:  []string{"fontana di trevi"},
			LanguageVariants: []string{
				"fontaine de trevi",
			},
			Features: []string{"night", "coins", "baroque"},
			Actions:  []string{"tossing a coin"},
		},
		{
			Canonical: "eiffel tower",
			Type:      model.EntityTypeLandmark,
			Parents:   []string{"paris", "france"},
			Synonyms:  []string{"la tour eiffel", "tour eiffel"},
			Features:  []string{"night", "sparkling", "aerial"},
		},
		{
			Canonical: "colosseum",
			Type:      model.EntityTypeLandmark,
			Parents:   []string{"rome", "italy"},
			Synonyms:  []string{"coliseum", "flavian amphitheatre"},
			Features:  []string{"aerial", "interior", "sunset"},
		},
		{
			Canonical: "pantheon",
			Type:      model.EntityTypeLandmark,
			Parents:   []string{"rome", "italy"},
			Features:  []string{"dome", "interior", "oculus"},
		},
		{
			Canonical: "statue of liberty",
			Type:      model.EntityTypeLandmark,
			Parents:   []string{"new york", "usa"},
			Synonyms:  []string{"lady liberty"},
			Features:  []string{"aerial", "torch", "harbor"},
		},
		{
			Canonical: "golden gate bridge",
			Type:      model.EntityTypeLandmark,
			Parents:   []string{"san francisco", "usa"},
			Features:  []string{"fog", "aerial", "sunset"},
		},
		{
			Canonical: "great wall of china",
			Type:      model.EntityTypeLandmark,
			Parents:   []string{"china"},
			Synonyms:  []string{"great wall"},
			Features:  []string{"aerial", "mountains"},
		},
		{
			Canonical: "taj mahal",
			Type:      model.EntityTypeLandmark,
			Parents:   []string{"agra", "india"},
			Features:  []string{"sunrise", "reflection"},
		},
		{
			Canonical: "neuschwanstein castle",
			Type:      model.EntityTypeLandmark,
			Parents:   []string{"bavaria", "germany"},
			Synonyms:  []string{"neuschwanstein"},
			Features:  []string{"winter", "aerial", "fog"},
		},
		{
			Canonical: "cat",
			Type:      model.EntityTypeAnimal,
			Synonyms:  []string{"cats", "kitten", "kittens", "feline"},
			Actions:   []string{"playing", "sleeping"},
		},
		{
			Canonical: "dog",
			Type:      model.EntityTypeAnimal,
			Synonyms:  []string{"dogs", "puppy", "puppies", "canine"},
			Actions:   []string{"running", "fetching"},
		},
		{
			Canonical: "eagle",
			Type:      model.EntityTypeAnimal,
			Synonyms:  []string{"eagles", "bald eagle"},
			Actions:   []string{"soaring"},
		},
		{
			Canonical: "octopus",
			Type:      model.EntityTypeAnimal,
			Synonyms:  []string{"octopuses", "octopi"},
			Features:  []string{"underwater"},
		},
		{
			Canonical: "pizza",
			Type:      model.EntityTypeFood,
			Synonyms:  []string{"pizzas", "margherita"},
			Features:  []string{"wood fired", "close-up"},
		},
		{
			Canonical: "sushi",
			Type:      model.EntityTypeFood,
			Features:  []string{"close-up", "chef"},
		},
		{
			Canonical: "espresso",
			Type:      model.EntityTypeFood,
			Synonyms:  []string{"coffee", "cappuccino"},
			Features:  []string{"pour", "close-up"},
		},
		{
			Canonical: "lightning",
			Type:      model.EntityTypeOther,
			Synonyms:  []string{"thunderstorm", "thunder"},
			Features:  []string{"night", "slow motion"},
		},
		{
			Canonical: "waterfall",
			Type:      model.EntityTypeOther,
			Synonyms:  []string{"waterfalls", "cascade"},
			Features:  []string{"aerial", "slow motion"},
		},
	}
}
