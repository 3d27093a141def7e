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

// Package media owns the on-disk artifact layer: the ffmpeg/ffprobe
// transcoder, the content-addressed caches, and clip downloading. Everything
// here works on local files; nothing in this package talks to a clip
// provider's search API.
package media

import "context"

// Output geometry for the finished vertical video.
const (
	OutputWidth  = 1080
	OutputHeight = 1920
)

// OutputPixFmt is the pixel format every segment entering the stream-copy
// concat must share; a mismatched input corrupts the output at the seam.
const OutputPixFmt = "yuv420p"

// Scene padding around the narration so clips do not cut on the first
// syllable.
const (
	LeadInSeconds   = 0.5
	TrailOutSeconds = 1.0
)

// ProbeResult is the subset of ffprobe output the pipeline acts on.
type ProbeResult struct {
	Width      int
	Height     int
	Duration   float64
	VideoCodec string
	PixFmt     string
	HasAudio   bool
}

// Portrait reports whether the probed media is taller than wide.
func (p *ProbeResult) Portrait() bool { return p.Height > p.Width }

// Transcoder is the media-manipulation surface the pipeline depends on.
// The production implementation shells out to ffmpeg; tests substitute
// fakes so no test needs the binary installed.
type Transcoder interface {
	// Probe inspects a local media file.
	Probe(ctx context.Context, path string) (*ProbeResult, error)

	// Trim cuts [start, start+duration) out of src into dst, re-encoding.
	Trim(ctx context.Context, src, dst string, start, duration float64) error

	// ScalePadBlur converts src to 1080x1920: portrait sources scale and
	// crop to fill; landscape sources are centered over a blurred,
	// stretched copy of themselves.
	ScalePadBlur(ctx context.Context, src, dst string) error

	// Mux combines a video track and a narration track into dst, padding
	// the video with the lead-in and trail-out around the audio.
	Mux(ctx context.Context, video, audio, dst string) error

	// Concat joins normalized scene files in order into dst without
	// re-encoding.
	Concat(ctx context.Context, srcs []string, dst string) error

	// AddSilentAudio gives dst a silent stereo track when src has none, so
	// concatenation never mixes audio-less segments.
	AddSilentAudio(ctx context.Context, src, dst string) error

	// OverlayMusic mixes a music bed under the narration at low volume.
	OverlayMusic(ctx context.Context, video, music, dst string, musicVolume float64) error

	// KenBurns renders a still image into a duration-long vertical video
	// with a slow zoom.
	KenBurns(ctx context.Context, image, dst string, duration float64) error

	// Loop repeats src until it covers at least duration seconds.
	Loop(ctx context.Context, src, dst string, duration float64) error
}
