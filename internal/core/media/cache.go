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
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"
)

// Default validity thresholds. Provider errors and truncated downloads
// produce tiny files; anything under the threshold is treated as absent.
const (
	DefaultMinAudioBytes = 10_000
	DefaultMinVideoBytes = 50_000
)

// Cache is a content-addressed artifact store. The key is the sha256 of the
// inputs that produced the artifact, so identical inputs always land on the
// same file and a re-render is a stat call instead of a provider call.
type Cache struct {
	Dir      string
	Ext      string // artifact extension including the dot, e.g. ".mp3"
	MinBytes int64
	Kind     types.Type // expected container type; filetype.Unknown skips the check
}

// NewAudioCache returns a cache for synthesized narration files.
func NewAudioCache(dir string, minBytes int64) *Cache {
	if minBytes <= 0 {
		minBytes = DefaultMinAudioBytes
	}
	return &Cache{Dir: dir, Ext: ".mp3", MinBytes: minBytes, Kind: filetype.GetType("mp3")}
}

// NewVideoCache returns a cache for muxed scene videos.
func NewVideoCache(dir string, minBytes int64) *Cache {
	if minBytes <= 0 {
		minBytes = DefaultMinVideoBytes
	}
	return &Cache{Dir: dir, Ext: ".mp4", MinBytes: minBytes, Kind: filetype.GetType("mp4")}
}

// Key derives the cache key from the identity parts of an artifact. Parts
// are joined with a separator that cannot occur inside them after slugging,
// so ("ab","c") and ("a","bc") never collide.
func (c *Cache) Key(parts ...string) string {
	h := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(h[:])
}

// Path returns the artifact path for a key. The file may not exist.
func (c *Cache) Path(key string) string {
	return filepath.Join(c.Dir, key+c.Ext)
}

// Get returns the cached artifact path when a valid artifact exists for the
// key. Invalid artifacts (too small, wrong container) are removed so the
// caller regenerates them.
func (c *Cache) Get(key string) (string, bool) {
	path := c.Path(key)
	if err := c.Validate(path); err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("evicting invalid cache artifact", "path", path, "error", err)
			_ = os.Remove(path)
		}
		return "", false
	}
	return path, true
}

// Put stores an artifact under key via a same-directory rename, so readers
// never observe a half-written file. The source file is consumed.
func (c *Cache) Put(key, srcPath string) (string, error) {
	if err := c.Validate(srcPath); err != nil {
		return "", fmt.Errorf("refusing to cache invalid artifact %q: %w", srcPath, err)
	}
	if err := os.MkdirAll(c.Dir, 0o755); err != nil {
		return "", err
	}
	dst := c.Path(key)
	if err := os.Rename(srcPath, dst); err != nil {
		// Cross-device rename fails; fall back to copy.
		if err := copyFile(srcPath, dst); err != nil {
			return "", err
		}
		_ = os.Remove(srcPath)
	}
	return dst, nil
}

// PutBytes stores raw artifact bytes under key.
func (c *Cache) PutBytes(key string, data []byte) (string, error) {
	if err := os.MkdirAll(c.Dir, 0o755); err != nil {
		return "", err
	}
	tmp := c.Path(key) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", err
	}
	return c.Put(key, tmp)
}

// Validate checks that the file at path is a plausible artifact: present,
// at least MinBytes long, and carrying the expected container signature.
func (c *Cache) Validate(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.Size() < c.MinBytes {
		return fmt.Errorf("artifact is %d bytes, below the %d byte minimum", info.Size(), c.MinBytes)
	}
	if c.Kind == filetype.Unknown {
		return nil
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
	// mp3 files may start with an ID3 tag the matcher reports separately,
	// and some encoders omit the tag entirely; accept any audio match.
	if c.Kind.MIME.Subtype == "mpeg" || c.Ext == ".mp3" {
		if strings.HasPrefix(kind.MIME.Value, "audio/") || kind == filetype.Unknown {
			return nil
		}
		return fmt.Errorf("artifact has type %q, expected audio", kind.MIME.Value)
	}
	if kind != c.Kind {
		return fmt.Errorf("artifact has type %q, expected %q", kind.MIME.Value, c.Kind.MIME.Value)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	tmp := dst + ".part"
	out, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, dst)
}
