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

package media

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/h2non/filetype"
)

// Downloader fetches remote clips into the work directory and verifies that
// what arrived is actually media. Providers occasionally return an HTML
// error page with a 200 status; the magic-byte check catches that before a
// corrupt file reaches ffmpeg.
type Downloader struct {
	Client   *http.Client
	MinBytes int64
}

// NewDownloader returns a downloader with a bounded per-request timeout.
func NewDownloader(minBytes int64) *Downloader {
	if minBytes <= 0 {
		minBytes = DefaultMinVideoBytes
	}
	return &Downloader{
		Client:   &http.Client{Timeout: 60 * time.Second},
		MinBytes: minBytes,
	}
}

// Fetch downloads url to dst. Local paths (library clips) are passed
// through untouched after validation. Fetch makes exactly one attempt; the
// caller decides whether a different candidate should be tried, never the
// same URL again.
func (d *Downloader) Fetch(ctx context.Context, url, dst string) (string, error) {
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		if err := d.validate(url, false); err != nil {
			return "", fmt.Errorf("library clip %q unusable: %w", url, err)
		}
		return url, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := d.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("downloading clip: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("downloading clip: unexpected status %s", resp.Status)
	}

	tmp := dst + ".part"
	f, err := os.Create(tmp)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		_ = os.Remove(tmp)
		return "", fmt.Errorf("downloading clip: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return "", err
	}
	if err := d.validate(tmp, allowImage(url)); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("downloaded clip failed validation: %w", err)
	}
	if err := os.Rename(tmp, dst); err != nil {
		return "", err
	}
	return dst, nil
}

// validate checks size and magic bytes. Image downloads (Ken Burns inputs)
// skip the size floor; a 40 KB JPEG is perfectly usable.
func (d *Downloader) validate(path string, image bool) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !image && info.Size() < d.MinBytes {
		return fmt.Errorf("file is %d bytes, below the %d byte minimum", info.Size(), d.MinBytes)
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	head := make([]byte, 262)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF {
		return err
	}
	kind, err := filetype.Match(head[:n])
	if err != nil {
		return err
	}
	if image {
		if strings.HasPrefix(kind.MIME.Value, "image/") {
			return nil
		}
		return fmt.Errorf("expected an image, got %q", kind.MIME.Value)
	}
	if strings.HasPrefix(kind.MIME.Value, "video/") {
		return nil
	}
	return fmt.Errorf("expected a video, got %q", kind.MIME.Value)
}

func allowImage(url string) bool {
	lower := strings.ToLower(url)
	for _, ext := range []string{".jpg", ".jpeg", ".png", ".webp"} {
		if strings.Contains(lower, ext) {
			return true
		}
	}
	return false
}
