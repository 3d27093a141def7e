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

package media_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DraftbotAI/SocialStormAI-Refactor-sub001/internal/core/media"
)

// mp4Payload is a minimal buffer carrying the mp4 ftyp signature, enough to
// pass magic-byte validation.
func mp4Payload(size int) []byte {
	payload := append([]byte{0x00, 0x00, 0x00, 0x18}, []byte("ftypisom")...)
	return append(payload, bytes.Repeat([]byte{0}, size)...)
}

// TestFetchDownloadsAndValidates verifies the happy path: the clip lands at
// the destination and the temporary .part file is gone.
func TestFetchDownloadsAndValidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(mp4Payload(256))
	}))
	defer srv.Close()

	d := media.NewDownloader(16)
	dst := filepath.Join(t.TempDir(), "clip.mp4")

	got, err := d.Fetch(context.Background(), srv.URL+"/videos/trevi.mp4", dst)
	require.NoError(t, err)
	assert.Equal(t, dst, got)
	assert.FileExists(t, dst)
	_, err = os.Stat(dst + ".part")
	assert.True(t, os.IsNotExist(err))
}

// TestFetchRejectsHTMLErrorPage verifies the provider failure mode the
// validator exists for: a 200 response whose body is an HTML error page.
func TestFetchRejectsHTMLErrorPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(bytes.Repeat([]byte("<html>service unavailable</html>"), 16))
	}))
	defer srv.Close()

	d := media.NewDownloader(16)
	dst := filepath.Join(t.TempDir(), "clip.mp4")

	_, err := d.Fetch(context.Background(), srv.URL+"/videos/trevi.mp4", dst)
	assert.Error(t, err)
	_, statErr := os.Stat(dst + ".part")
	assert.True(t, os.IsNotExist(statErr))
}

func TestFetchRejectsBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	d := media.NewDownloader(16)
	_, err := d.Fetch(context.Background(), srv.URL+"/clip.mp4", filepath.Join(t.TempDir(), "clip.mp4"))
	assert.Error(t, err)
}

// TestFetchPassesThroughLibraryClips verifies that local library paths skip
// the network entirely and are returned in place.
func TestFetchPassesThroughLibraryClips(t *testing.T) {
	dir := t.TempDir()
	local := filepath.Join(dir, "library-clip.mp4")
	require.NoError(t, os.WriteFile(local, mp4Payload(256), 0o644))

	d := media.NewDownloader(16)
	got, err := d.Fetch(context.Background(), local, filepath.Join(dir, "unused.mp4"))
	require.NoError(t, err)
	assert.Equal(t, local, got)
}

func TestFetchRejectsMissingLibraryClip(t *testing.T) {
	d := media.NewDownloader(16)
	_, err := d.Fetch(context.Background(), "/nonexistent/clip.mp4", filepath.Join(t.TempDir(), "x.mp4"))
	assert.Error(t, err)
}
