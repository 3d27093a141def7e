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

// Package cloud provides components for interacting with external services.
// This file implements the stock footage provider clients. Each client
// satisfies the clip-source interface used by the search cascade and is
// rate limited client-side so a burst of concurrent scenes cannot burn the
// provider quota.
//
// Structs:
//   - PexelsClient: searches the Pexels video API.
//   - PixabayClient: searches the Pixabay video API.
//   - PexelsImageClient: searches the Pexels photo API; its results are
//     rendered into video with a slow zoom as the last-resort tier.
package cloud

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"

	"github.com/DraftbotAI/SocialStormAI-Refactor-sub001/internal/core/model"
)

const (
	defaultPexelsVideoURL = "https://api.pexels.com/videos/search"
	defaultPexelsPhotoURL = "https://api.pexels.com/v1/search"
	defaultPixabayURL     = "https://pixabay.com/api/videos/"
)

// stockHTTP is the shared transport policy for provider calls.
var stockHTTP = &http.Client{Timeout: 30 * time.Second}

func newProviderLimiter(requestsPerMinute int) *rate.Limiter {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 60
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), requestsPerMinute)
}

// fetchJSON performs one rate-limited GET and returns the response body.
// Non-200 statuses are errors; the search cascade logs and moves on.
func fetchJSON(ctx context.Context, limiter *rate.Limiter, reqURL string, header http.Header) (string, error) {
	if err := limiter.Wait(ctx); err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", err
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	resp, err := stockHTTP.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %s", resp.Status)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", err
	}
	if !gjson.ValidBytes(body) {
		return "", fmt.Errorf("provider returned invalid json")
	}
	return string(body), nil
}

// PexelsClient searches the Pexels video API.
type PexelsClient struct {
	APIKey  string
	BaseURL string
	Limiter *rate.Limiter
}

// NewPexelsClient builds a Pexels video client from provider config.
func NewPexelsClient(cfg StockProvider) *PexelsClient {
	base := cfg.BaseURL
	if base == "" {
		base = defaultPexelsVideoURL
	}
	return &PexelsClient{APIKey: cfg.APIKey, BaseURL: base, Limiter: newProviderLimiter(cfg.RequestsPerMinute)}
}

// Name implements the clip-source interface.
func (c *PexelsClient) Name() string { return "pexels" }

// Search implements the clip-source interface. Each Pexels video carries
// multiple renditions; the largest portrait file is preferred, falling back
// to the largest file of any orientation.
func (c *PexelsClient) Search(ctx context.Context, query string, limit int) ([]*model.ClipCandidate, error) {
	reqURL := fmt.Sprintf("%s?query=%s&per_page=%d&orientation=portrait",
		c.BaseURL, url.QueryEscape(query), limit)
	header := http.Header{"Authorization": []string{c.APIKey}}
	body, err := fetchJSON(ctx, c.Limiter, reqURL, header)
	if err != nil {
		return nil, fmt.Errorf("pexels search %q: %w", query, err)
	}

	var out []*model.ClipCandidate
	for _, video := range gjson.Get(body, "videos").Array() {
		best := pickPexelsFile(video.Get("video_files"))
		if best == nil {
			continue
		}
		out = append(out, &model.ClipCandidate{
			SourceSystem: c.Name(),
			FileRef:      best.Get("link").String(),
			Width:        int(best.Get("width").Int()),
			Height:       int(best.Get("height").Int()),
			Duration:     video.Get("duration").Float(),
			Text:         video.Get("url").String() + " " + video.Get("user.name").String(),
		})
	}
	return out, nil
}

// pickPexelsFile chooses one rendition: portrait beats landscape, then
// larger area beats smaller.
func pickPexelsFile(files gjson.Result) *gjson.Result {
	var best *gjson.Result
	bestPortrait := false
	bestArea := int64(0)
	for _, f := range files.Array() {
		w, h := f.Get("width").Int(), f.Get("height").Int()
		portrait := h > w
		area := w * h
		if best == nil || (portrait && !bestPortrait) || (portrait == bestPortrait && area > bestArea) {
			ff := f
			best = &ff
			bestPortrait = portrait
			bestArea = area
		}
	}
	return best
}

// PixabayClient searches the Pixabay video API.
type PixabayClient struct {
	APIKey  string
	BaseURL string
	Limiter *rate.Limiter
}

// NewPixabayClient builds a Pixabay client from provider config.
func NewPixabayClient(cfg StockProvider) *PixabayClient {
	base := cfg.BaseURL
	if base == "" {
		base = defaultPixabayURL
	}
	return &PixabayClient{APIKey: cfg.APIKey, BaseURL: base, Limiter: newProviderLimiter(cfg.RequestsPerMinute)}
}

// Name implements the clip-source interface.
func (c *PixabayClient) Name() string { return "pixabay" }

// Search implements the clip-source interface. Pixabay tags are the only
// text metadata available, so they carry the whole relevance signal.
func (c *PixabayClient) Search(ctx context.Context, query string, limit int) ([]*model.ClipCandidate, error) {
	reqURL := fmt.Sprintf("%s?key=%s&q=%s&per_page=%d",
		c.BaseURL, url.QueryEscape(c.APIKey), url.QueryEscape(query), limit)
	body, err := fetchJSON(ctx, c.Limiter, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("pixabay search %q: %w", query, err)
	}

	var out []*model.ClipCandidate
	for _, hit := range gjson.Get(body, "hits").Array() {
		rendition := hit.Get("videos.large")
		if rendition.Get("url").String() == "" {
			rendition = hit.Get("videos.medium")
		}
		if rendition.Get("url").String() == "" {
			continue
		}
		out = append(out, &model.ClipCandidate{
			SourceSystem: c.Name(),
			FileRef:      rendition.Get("url").String(),
			Width:        int(rendition.Get("width").Int()),
			Height:       int(rendition.Get("height").Int()),
			Duration:     hit.Get("duration").Float(),
			Text:         hit.Get("tags").String(),
		})
	}
	return out, nil
}

// PexelsImageClient searches the Pexels photo API. It is the last tier of
// the cascade: a matching still is better than an unrelated video, and the
// renderer turns it into motion with a slow zoom.
type PexelsImageClient struct {
	APIKey  string
	BaseURL string
	Limiter *rate.Limiter
}

// NewPexelsImageClient builds a Pexels photo client from provider config.
func NewPexelsImageClient(cfg StockProvider) *PexelsImageClient {
	base := cfg.BaseURL
	if base == "" {
		base = defaultPexelsPhotoURL
	}
	return &PexelsImageClient{APIKey: cfg.APIKey, BaseURL: base, Limiter: newProviderLimiter(cfg.RequestsPerMinute)}
}

// Name implements the clip-source interface.
func (c *PexelsImageClient) Name() string { return "kenburns" }

// Search implements the clip-source interface over still photos.
func (c *PexelsImageClient) Search(ctx context.Context, query string, limit int) ([]*model.ClipCandidate, error) {
	reqURL := fmt.Sprintf("%s?query=%s&per_page=%d&orientation=portrait",
		c.BaseURL, url.QueryEscape(query), limit)
	header := http.Header{"Authorization": []string{c.APIKey}}
	body, err := fetchJSON(ctx, c.Limiter, reqURL, header)
	if err != nil {
		return nil, fmt.Errorf("pexels photo search %q: %w", query, err)
	}

	var out []*model.ClipCandidate
	for _, photo := range gjson.Get(body, "photos").Array() {
		src := photo.Get("src.large2x").String()
		if src == "" {
			src = photo.Get("src.original").String()
		}
		if src == "" {
			continue
		}
		out = append(out, &model.ClipCandidate{
			SourceSystem: c.Name(),
			FileRef:      src,
			Width:        int(photo.Get("width").Int()),
			Height:       int(photo.Get("height").Int()),
			Text:         photo.Get("alt").String(),
		})
	}
	return out, nil
}
