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
// This file implements the finished-video publisher for Google Cloud
// Storage. Upload is best-effort: a job whose render succeeded never fails
// because publishing did, the video is simply served from local disk
// instead.
package cloud

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"cloud.google.com/go/storage"
)

// defaultPublicBaseURL is the standard public object endpoint.
const defaultPublicBaseURL = "https://storage.googleapis.com"

// VideoPublisher writes finished videos to a GCS bucket and returns the
// public URL. A nil or unconfigured publisher is valid: Publish then
// reports not-configured and the caller keeps the local path.
type VideoPublisher struct {
	Client        *storage.Client
	Bucket        string
	PublicBaseURL string
}

// NewVideoPublisher builds a publisher from storage config. When no bucket
// is configured the client is left nil and publishing is disabled.
func NewVideoPublisher(client *storage.Client, cfg Storage) *VideoPublisher {
	base := cfg.PublicBaseURL
	if base == "" {
		base = defaultPublicBaseURL
	}
	return &VideoPublisher{Client: client, Bucket: cfg.OutputBucket, PublicBaseURL: strings.TrimSuffix(base, "/")}
}

// Enabled reports whether uploads are configured.
func (p *VideoPublisher) Enabled() bool {
	return p != nil && p.Client != nil && p.Bucket != ""
}

// Publish uploads the file at localPath under objectKey and returns the
// public URL.
func (p *VideoPublisher) Publish(ctx context.Context, localPath, objectKey string) (string, error) {
	if !p.Enabled() {
		return "", fmt.Errorf("video publishing is not configured")
	}
	f, err := os.Open(localPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	w := p.Client.Bucket(p.Bucket).Object(objectKey).NewWriter(ctx)
	w.ContentType = "video/mp4"
	if _, err := io.Copy(w, f); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("uploading %q: %w", objectKey, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finalizing upload of %q: %w", objectKey, err)
	}
	return fmt.Sprintf("%s/%s/%s", p.PublicBaseURL, p.Bucket, objectKey), nil
}
