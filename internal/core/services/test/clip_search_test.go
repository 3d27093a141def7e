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

package services_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/zeebo/assert"

	"github.com/DraftbotAI/SocialStormAI-Refactor-sub001/internal/core/model"
	"github.com/DraftbotAI/SocialStormAI-Refactor-sub001/internal/core/ontology"
	"github.com/DraftbotAI/SocialStormAI-Refactor-sub001/internal/core/services"
)

// fakeSource returns canned candidates per query and counts searches, so
// tests can assert that the cascade stopped where it should.
type fakeSource struct {
	name    string
	results map[string][]*model.ClipCandidate
	err     error

	mu       sync.Mutex
	searches int
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) Search(_ context.Context, query string, _ int) ([]*model.ClipCandidate, error) {
	f.mu.Lock()
	f.searches++
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.results[query], nil
}

func (f *fakeSource) searchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.searches
}

func strongCandidate(ref string) *model.ClipCandidate {
	return &model.ClipCandidate{
		SourceSystem: "fake",
		FileRef:      ref,
		Text:         "trevi fountain at night",
		Width:        1080,
		Height:       1920,
		Duration:     12,
	}
}

func staged(terms ...string) *ontology.StagedQueries {
	return &ontology.StagedQueries{StageA: terms}
}

// TestFindBestStrongMatchStopsCascade verifies that a strong match on the
// first source ends the search without touching later sources.
func TestFindBestStrongMatchStopsCascade(t *testing.T) {
	first := &fakeSource{
		name:    "library",
		results: map[string][]*model.ClipCandidate{"trevi fountain": {strongCandidate("lib/trevi.mp4")}},
	}
	second := &fakeSource{name: "pexels"}

	searcher := services.NewClipSearcher(first, second)
	got, err := searcher.FindBest(context.Background(), "trevi fountain", staged("trevi fountain"))

	assert.NoError(t, err)
	assert.Equal(t, "lib/trevi.mp4", got.FileRef)
	assert.Equal(t, 1, first.searchCount())
	assert.Equal(t, 0, second.searchCount())
}

// TestFindBestClaimsWinner verifies claim-on-selection: a second search for
// the same subject cannot receive the clip the first search claimed.
func TestFindBestClaimsWinner(t *testing.T) {
	src := &fakeSource{
		name:    "library",
		results: map[string][]*model.ClipCandidate{"trevi fountain": {strongCandidate("lib/trevi.mp4")}},
	}
	searcher := services.NewClipSearcher(src)

	first, err := searcher.FindBest(context.Background(), "trevi fountain", staged("trevi fountain"))
	assert.NoError(t, err)
	assert.Equal(t, "lib/trevi.mp4", first.FileRef)

	_, err = searcher.FindBest(context.Background(), "trevi fountain", staged("trevi fountain"))
	assert.Error(t, err)
}

// TestFindBestFallsToRunnerUp verifies that when the top clip is already
// claimed, the next strong candidate wins instead.
func TestFindBestFallsToRunnerUp(t *testing.T) {
	a := strongCandidate("lib/trevi-a.mp4")
	b := strongCandidate("lib/trevi-b.mp4")
	src := &fakeSource{
		name:    "library",
		results: map[string][]*model.ClipCandidate{"trevi fountain": {a, b}},
	}
	searcher := services.NewClipSearcher(src)

	first, err := searcher.FindBest(context.Background(), "trevi fountain", staged("trevi fountain"))
	assert.NoError(t, err)
	second, err := searcher.FindBest(context.Background(), "trevi fountain", staged("trevi fountain"))
	assert.NoError(t, err)
	assert.True(t, first.FileRef != second.FileRef)
}

// TestFindBestSkipsFailedDownloads verifies that a FileRef marked as a
// failed download is never selected again within the job.
func TestFindBestSkipsFailedDownloads(t *testing.T) {
	src := &fakeSource{
		name:    "library",
		results: map[string][]*model.ClipCandidate{"trevi fountain": {strongCandidate("lib/broken.mp4")}},
	}
	searcher := services.NewClipSearcher(src)
	searcher.MarkFailed("lib/broken.mp4")
	assert.True(t, searcher.Failed("lib/broken.mp4"))

	_, err := searcher.FindBest(context.Background(), "trevi fountain", staged("trevi fountain"))
	assert.Error(t, err)
}

// TestFindBestReleaseAllowsOtherSubjects verifies that releasing a claim
// after a failed download removes it from the claim set.
func TestFindBestReleaseAllowsOtherSubjects(t *testing.T) {
	src := &fakeSource{
		name:    "library",
		results: map[string][]*model.ClipCandidate{"trevi fountain": {strongCandidate("lib/trevi.mp4")}},
	}
	searcher := services.NewClipSearcher(src)

	_, err := searcher.FindBest(context.Background(), "trevi fountain", staged("trevi fountain"))
	assert.NoError(t, err)

	searcher.Release("lib/trevi.mp4")
	again, err := searcher.FindBest(context.Background(), "trevi fountain", staged("trevi fountain"))
	assert.NoError(t, err)
	assert.Equal(t, "lib/trevi.mp4", again.FileRef)
}

// TestFindBestBrokenSourceDoesNotSinkScene verifies that a failing provider
// is skipped and the next source still serves the scene.
func TestFindBestBrokenSourceDoesNotSinkScene(t *testing.T) {
	broken := &fakeSource{name: "pexels", err: fmt.Errorf("http 500")}
	working := &fakeSource{
		name:    "pixabay",
		results: map[string][]*model.ClipCandidate{"trevi fountain": {strongCandidate("https://pixabay/trevi.mp4")}},
	}
	searcher := services.NewClipSearcher(broken, working)

	got, err := searcher.FindBest(context.Background(), "trevi fountain", staged("trevi fountain"))
	assert.NoError(t, err)
	assert.Equal(t, "https://pixabay/trevi.mp4", got.FileRef)
}

// TestFindBestWeakMatchStillWins verifies the global-best path: no candidate
// reaches the strong threshold, but the best one above the floor is accepted
// after all sources are exhausted.
func TestFindBestWeakMatchStillWins(t *testing.T) {
	weak := &model.ClipCandidate{FileRef: "lib/fountain.mov", Text: "fountain plaza"}
	src := &fakeSource{
		name:    "library",
		results: map[string][]*model.ClipCandidate{"trevi fountain": {weak}},
	}
	searcher := services.NewClipSearcher(src)

	got, err := searcher.FindBest(context.Background(), "trevi fountain", staged("trevi fountain"))
	assert.NoError(t, err)
	assert.Equal(t, "lib/fountain.mov", got.FileRef)
	assert.True(t, got.Score < services.StrongMatchThreshold)
	assert.True(t, got.Score >= services.FloorScore)
}

// TestFindBestBelowFloorStillServes verifies that a candidate set earning no
// bonuses (landscape, sub-1080, not mp4) is still served when it is all there
// is: the floor gates ranking around a strong leader, it does not fail the
// scene.
func TestFindBestBelowFloorStillServes(t *testing.T) {
	weak := &model.ClipCandidate{FileRef: "city.webm", Text: "city timelapse", Width: 1280, Height: 720}
	src := &fakeSource{
		name:    "pixabay",
		results: map[string][]*model.ClipCandidate{"octopus": {weak}},
	}
	searcher := services.NewClipSearcher(src)

	got, err := searcher.FindBest(context.Background(), "octopus", staged("octopus"))
	assert.NoError(t, err)
	assert.Equal(t, "city.webm", got.FileRef)
	assert.True(t, got.Score < services.FloorScore)
}

// TestFindBestNoCandidates verifies the terminal error is reserved for
// finding no candidates anywhere.
func TestFindBestNoCandidates(t *testing.T) {
	src := &fakeSource{name: "library"}
	searcher := services.NewClipSearcher(src)

	_, err := searcher.FindBest(context.Background(), "octopus", staged("octopus"))
	assert.Error(t, err)
}

// TestFindBestConcurrentClaimsAreExclusive runs many concurrent searches
// over a small pool and verifies no clip is handed out twice, the invariant
// the parallel scene workers depend on.
func TestFindBestConcurrentClaimsAreExclusive(t *testing.T) {
	pool := []*model.ClipCandidate{
		strongCandidate("lib/a.mp4"),
		strongCandidate("lib/b.mp4"),
		strongCandidate("lib/c.mp4"),
		strongCandidate("lib/d.mp4"),
	}
	src := &fakeSource{
		name:    "library",
		results: map[string][]*model.ClipCandidate{"trevi fountain": pool},
	}
	searcher := services.NewClipSearcher(src)

	var wg sync.WaitGroup
	var mu sync.Mutex
	claimed := make(map[string]int)
	for i := 0; i < len(pool); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c, err := searcher.FindBest(context.Background(), "trevi fountain", staged("trevi fountain"))
			if err != nil {
				return
			}
			mu.Lock()
			claimed[c.FileRef]++
			mu.Unlock()
		}()
	}
	wg.Wait()

	for _, n := range claimed {
		assert.Equal(t, 1, n)
	}
}
