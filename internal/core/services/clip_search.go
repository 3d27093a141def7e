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
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/DraftbotAI/SocialStormAI-Refactor-sub001/internal/core/model"
	"github.com/DraftbotAI/SocialStormAI-Refactor-sub001/internal/core/ontology"
)

// ClipSource is one searchable clip provider. Sources are ordered by trust:
// the curated library first, then stock video providers, then still images
// rendered with a slow zoom as the last resort.
type ClipSource interface {
	Name() string
	Search(ctx context.Context, query string, limit int) ([]*model.ClipCandidate, error)
}

// DefaultSearchLimit is how many results one query requests from a source.
const DefaultSearchLimit = 10

// ClipSearcher walks sources and staged queries until a strong match is
// found, claiming the winning clip so later scenes in the same job cannot
// select it again.
type ClipSearcher struct {
	Sources []ClipSource
	Scorer  Scorer

	mu      sync.Mutex
	used    map[string]bool // FileRefs claimed by earlier scenes in this job
	failed  map[string]bool // FileRefs that failed download; never retried
	noMatch error
}

// NewClipSearcher builds a searcher over the given ordered sources.
func NewClipSearcher(sources ...ClipSource) *ClipSearcher {
	return &ClipSearcher{
		Sources: sources,
		used:    make(map[string]bool),
		failed:  make(map[string]bool),
	}
}

// FindBest resolves the best clip for a subject. It walks each source in
// order and, within a source, each staged query tier most-concrete first.
// The first candidate scoring at or above StrongMatchThreshold wins
// immediately; otherwise the best global candidate wins after all sources
// are exhausted, even when it never reached FloorScore. The error is
// reserved for finding no usable candidate anywhere. The winner is claimed
// atomically so two concurrent scenes cannot select the same clip.
func (s *ClipSearcher) FindBest(ctx context.Context, subject string, queries *ontology.StagedQueries) (*model.ClipCandidate, error) {
	terms := queries.Flatten()
	if len(terms) == 0 {
		terms = []string{ontology.Slug(subject)}
	}

	var best *model.ClipCandidate
	for _, src := range s.Sources {
		for _, term := range terms {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			found, err := src.Search(ctx, term, DefaultSearchLimit)
			if err != nil {
				// A broken source must not sink the scene; the next
				// source or term still gets its chance.
				slog.Warn("clip source search failed",
					"source", src.Name(), "query", term, "error", err)
				continue
			}
			ranked := s.Scorer.Rank(found, subject, s.snapshotUsed())
			if len(ranked) == 0 {
				continue
			}
			top := ranked[0]
			if top.Score >= StrongMatchThreshold {
				if s.claim(top.FileRef) {
					return top, nil
				}
				// Lost the race for this clip; runner-up may still work.
				for _, c := range ranked[1:] {
					if c.Score >= StrongMatchThreshold && s.claim(c.FileRef) {
						return c, nil
					}
				}
			}
			if best == nil || top.Score > best.Score {
				best = top
			}
		}
	}

	if best == nil {
		return nil, fmt.Errorf("no usable clip candidates found for subject %q", subject)
	}
	if !s.claim(best.FileRef) {
		return nil, fmt.Errorf("best clip for subject %q was claimed by another scene", subject)
	}
	return best, nil
}

// MarkFailed records a FileRef whose download failed. The same URL is never
// retried within a job; a second attempt would fail the same way and burn
// the provider quota.
func (s *ClipSearcher) MarkFailed(fileRef string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failed[fileRef] = true
}

// Failed reports whether a FileRef already failed download in this job.
func (s *ClipSearcher) Failed(fileRef string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failed[fileRef]
}

// Release un-claims a clip whose download failed so it does not count
// against later candidates (MarkFailed keeps it excluded anyway).
func (s *ClipSearcher) Release(fileRef string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.used, fileRef)
}

// claim atomically marks a FileRef as selected. Returns false when another
// scene got there first or the ref already failed download.
func (s *ClipSearcher) claim(fileRef string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.used[fileRef] || s.failed[fileRef] {
		return false
	}
	s.used[fileRef] = true
	return true
}

// snapshotUsed copies the claim set for lock-free scoring. Claimed and
// failed refs both score as unusable.
func (s *ClipSearcher) snapshotUsed() map[string]bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]bool, len(s.used)+len(s.failed))
	for ref := range s.used {
		out[ref] = true
	}
	for ref := range s.failed {
		out[ref] = true
	}
	return out
}
