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

// This file holds canned example values used by tests and by prompt
// construction. Keeping them beside the model types keeps fixtures honest:
// when a struct changes, the example breaks in the same package.
package model

// GetExampleScene returns a representative normal scene.
func GetExampleScene() *Scene {
	return &Scene{
		ID:            "scene-2",
		Texts:         []string{"The Trevi Fountain hides thousands of coins below the surface."},
		Type:          SceneTypeNormal,
		OrigIndices:   []int{2},
		VisualSubject: "trevi fountain",
	}
}

// GetExampleScript returns a short script exercising the hook, mega and
// normal segmentation paths.
func GetExampleScript() string {
	return "Rome is full of secrets most tourists never see.\n" +
		"The Trevi Fountain collects over a million euros in coins each year.\n" +
		"All of it is donated to charity.\n" +
		"Beneath the Colosseum lies a maze of tunnels for animals and gladiators.\n" +
		"And the Pantheon still has the world's largest unreinforced concrete dome."
}

// GetExampleCandidates returns scoreable clip candidates for ranking tests.
func GetExampleCandidates() []*ClipCandidate {
	return []*ClipCandidate{
		{SourceSystem: "pexels", FileRef: "https://videos.example/trevi-night.mp4", Width: 1080, Height: 1920, Duration: 12, Text: "trevi fountain rome night water coins"},
		{SourceSystem: "pexels", FileRef: "https://videos.example/fountain-generic.mp4", Width: 1920, Height: 1080, Duration: 8, Text: "fountain water park"},
		{SourceSystem: "pixabay", FileRef: "https://videos.example/rome-street.mp4", Width: 1280, Height: 720, Duration: 3, Text: "rome street people walking"},
	}
}
