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
	"os"
	"path/filepath"
	"strings"

	"github.com/DraftbotAI/SocialStormAI-Refactor-sub001/internal/core/model"
	"github.com/DraftbotAI/SocialStormAI-Refactor-sub001/internal/core/ontology"
)

// MediaLibrary is the curated local clip tier, searched before any stock
// provider. A library clip matches when its normalized filename contains
// every word of the query.
type MediaLibrary struct {
	Root string
}

// NewMediaLibrary returns a library rooted at dir. A missing or empty dir is
// valid; searches simply return nothing.
func NewMediaLibrary(dir string) *MediaLibrary {
	return &MediaLibrary{Root: dir}
}

// Name implements ClipSource.
func (l *MediaLibrary) Name() string { return "library" }

// Search implements ClipSource by scanning the library directory. Width,
// height and duration are left zero; the library tier is trusted curated
// content, so the scorer judges it on name relevance alone and the
// transcoder probes real dimensions later.
func (l *MediaLibrary) Search(ctx context.Context, query string, limit int) ([]*model.ClipCandidate, error) {
	if l.Root == "" {
		return nil, nil
	}
	queryWords := ontology.SlugWords(query)
	if len(queryWords) == 0 {
		return nil, nil
	}

	var out []*model.ClipCandidate
	err := filepath.WalkDir(l.Root, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil // unreadable entries are skipped, not fatal
		}
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext != ".mp4" && ext != ".mov" && ext != ".webm" {
			return nil
		}
		base := strings.TrimSuffix(filepath.Base(path), ext)
		normalized := ontology.Slug(base)
		for _, w := range queryWords {
			if !strings.Contains(normalized, w) {
				return nil
			}
		}
		out = append(out, &model.ClipCandidate{
			SourceSystem: l.Name(),
			FileRef:      path,
			Text:         normalized,
		})
		if len(out) >= limit {
			return filepath.SkipAll
		}
		return nil
	})
	// Unreadable entries and a missing root are absorbed in the callback;
	// only context cancellation propagates.
	if err != nil {
		return out, err
	}
	return out, nil
}
