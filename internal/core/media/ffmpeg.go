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
	"log/slog"
	"math/rand"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// FFmpeg shells out to ffmpeg/ffprobe. A semaphore bounds concurrent
// processes: scene workers run in parallel and an unbounded ffmpeg fan-out
// will exhaust memory on small hosts.
type FFmpeg struct {
	FFmpegPath  string
	FFprobePath string
	sem         chan struct{}
}

// NewFFmpeg returns a transcoder running at most maxProcs ffmpeg processes
// at once. Empty paths default to the binaries on PATH.
func NewFFmpeg(ffmpegPath, ffprobePath string, maxProcs int) *FFmpeg {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	if maxProcs <= 0 {
		maxProcs = 2
	}
	return &FFmpeg{
		FFmpegPath:  ffmpegPath,
		FFprobePath: ffprobePath,
		sem:         make(chan struct{}, maxProcs),
	}
}

func (f *FFmpeg) acquire(ctx context.Context) error {
	select {
	case f.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *FFmpeg) release() { <-f.sem }

// run executes one ffmpeg invocation under the semaphore. Stderr is kept in
// the error because ffmpeg reports everything useful there.
func (f *FFmpeg) run(ctx context.Context, args []string) error {
	if err := f.acquire(ctx); err != nil {
		return err
	}
	defer f.release()

	slog.Debug("running ffmpeg", "args", strings.Join(args, " "))
	cmd := exec.CommandContext(ctx, f.FFmpegPath, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg %v: %w: %s", args, err, tail(string(out), 500))
	}
	return nil
}

// Probe implements Transcoder using ffprobe's JSON output.
func (f *FFmpeg) Probe(ctx context.Context, path string) (*ProbeResult, error) {
	if err := f.acquire(ctx); err != nil {
		return nil, err
	}
	defer f.release()

	cmd := exec.CommandContext(ctx, f.FFprobePath, ProbeArgs(path)...)
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ffprobe %q: %w", path, err)
	}
	return ParseProbe(string(out))
}

// ParseProbe extracts the pipeline-relevant fields from ffprobe JSON.
func ParseProbe(raw string) (*ProbeResult, error) {
	if !gjson.Valid(raw) {
		return nil, fmt.Errorf("ffprobe produced invalid json")
	}
	res := &ProbeResult{
		Duration: gjson.Get(raw, "format.duration").Float(),
	}
	for _, stream := range gjson.Get(raw, "streams").Array() {
		switch stream.Get("codec_type").String() {
		case "video":
			if res.Width == 0 {
				res.Width = int(stream.Get("width").Int())
				res.Height = int(stream.Get("height").Int())
				res.VideoCodec = stream.Get("codec_name").String()
				res.PixFmt = stream.Get("pix_fmt").String()
				if res.Duration == 0 {
					res.Duration = stream.Get("duration").Float()
				}
			}
		case "audio":
			res.HasAudio = true
		}
	}
	if res.Width == 0 && !res.HasAudio {
		return nil, fmt.Errorf("no usable streams in probe output")
	}
	return res, nil
}

// Trim implements Transcoder.
func (f *FFmpeg) Trim(ctx context.Context, src, dst string, start, duration float64) error {
	return f.run(ctx, TrimArgs(src, dst, start, duration))
}

// ScalePadBlur implements Transcoder.
func (f *FFmpeg) ScalePadBlur(ctx context.Context, src, dst string) error {
	return f.run(ctx, ScalePadBlurArgs(src, dst))
}

// Mux implements Transcoder. The narration is delayed by the lead-in and
// the output runs until lead-in + narration + trail-out, so the clip
// breathes around the voice instead of cutting on the first syllable.
func (f *FFmpeg) Mux(ctx context.Context, video, audio, dst string) error {
	probe, err := f.Probe(ctx, audio)
	if err != nil {
		return fmt.Errorf("probing narration: %w", err)
	}
	total := LeadInSeconds + probe.Duration + TrailOutSeconds
	return f.run(ctx, MuxArgs(video, audio, dst, total))
}

// Concat implements Transcoder via the concat demuxer, writing the list
// file next to the destination.
func (f *FFmpeg) Concat(ctx context.Context, srcs []string, dst string) error {
	if len(srcs) == 0 {
		return fmt.Errorf("nothing to concatenate")
	}
	list := dst + ".txt"
	var b strings.Builder
	for _, s := range srcs {
		abs, err := filepath.Abs(s)
		if err != nil {
			return err
		}
		fmt.Fprintf(&b, "file '%s'\n", strings.ReplaceAll(abs, "'", `'\''`))
	}
	if err := os.WriteFile(list, []byte(b.String()), 0o644); err != nil {
		return err
	}
	defer os.Remove(list)
	return f.run(ctx, ConcatArgs(list, dst))
}

// AddSilentAudio implements Transcoder.
func (f *FFmpeg) AddSilentAudio(ctx context.Context, src, dst string) error {
	return f.run(ctx, SilentAudioArgs(src, dst))
}

// OverlayMusic implements Transcoder.
func (f *FFmpeg) OverlayMusic(ctx context.Context, video, music, dst string, musicVolume float64) error {
	return f.run(ctx, OverlayMusicArgs(video, music, dst, musicVolume))
}

// KenBurns implements Transcoder. The pan direction is randomized per
// invocation so consecutive image scenes do not all drift the same way.
func (f *FFmpeg) KenBurns(ctx context.Context, image, dst string, duration float64) error {
	return f.run(ctx, KenBurnsArgs(image, dst, duration, rand.Intn(2) == 0))
}

// Loop implements Transcoder.
func (f *FFmpeg) Loop(ctx context.Context, src, dst string, duration float64) error {
	return f.run(ctx, LoopArgs(src, dst, duration))
}

// Argument builders are separated from execution so tests can assert on the
// exact invocations without running ffmpeg.

// ProbeArgs builds the ffprobe invocation for one file.
func ProbeArgs(path string) []string {
	return []string{
		"-v", "error",
		"-show_format", "-show_streams",
		"-of", "json",
		path,
	}
}

// TrimArgs re-encodes so cut points are frame-accurate; stream-copy trims
// snap to keyframes and drift by up to a GOP.
func TrimArgs(src, dst string, start, duration float64) []string {
	return []string{
		"-y",
		"-ss", formatSeconds(start),
		"-t", formatSeconds(duration),
		"-i", src,
		"-c:v", "libx264", "-preset", "veryfast", "-crf", "23",
		"-pix_fmt", "yuv420p",
		"-an",
		dst,
	}
}

// ScalePadBlurArgs produces the 1080x1920 frame: the source scaled to fit,
// centered over a blurred full-frame stretch of itself.
func ScalePadBlurArgs(src, dst string) []string {
	filter := fmt.Sprintf(
		"[0:v]scale=%d:%d,setsar=1,boxblur=20:10[bg];"+
			"[0:v]scale=%d:%d:force_original_aspect_ratio=decrease[fg];"+
			"[bg][fg]overlay=(W-w)/2:(H-h)/2,setsar=1",
		OutputWidth, OutputHeight, OutputWidth, OutputHeight)
	return []string{
		"-y",
		"-i", src,
		"-filter_complex", filter,
		"-c:v", "libx264", "-preset", "veryfast", "-crf", "23",
		"-pix_fmt", "yuv420p",
		"-an",
		dst,
	}
}

// MuxArgs pairs a video with a narration track, delaying the audio by the
// lead-in and bounding the output at totalSeconds.
func MuxArgs(video, audio, dst string, totalSeconds float64) []string {
	delayMs := int(LeadInSeconds * 1000)
	return []string{
		"-y",
		"-i", video,
		"-i", audio,
		"-filter_complex", fmt.Sprintf("[1:a]adelay=%d|%d[a]", delayMs, delayMs),
		"-map", "0:v", "-map", "[a]",
		"-t", formatSeconds(totalSeconds),
		"-c:v", "libx264", "-preset", "veryfast", "-crf", "23",
		"-c:a", "aac", "-b:a", "128k",
		"-pix_fmt", "yuv420p",
		dst,
	}
}

// ConcatArgs joins pre-normalized segments without re-encoding. Inputs must
// already share codec, resolution and pixel format.
func ConcatArgs(listFile, dst string) []string {
	return []string{
		"-y",
		"-f", "concat", "-safe", "0",
		"-i", listFile,
		"-c", "copy",
		dst,
	}
}

// SilentAudioArgs adds a silent stereo track to a video that has none.
func SilentAudioArgs(src, dst string) []string {
	return []string{
		"-y",
		"-i", src,
		"-f", "lavfi", "-i", "anullsrc=channel_layout=stereo:sample_rate=44100",
		"-map", "0:v", "-map", "1:a",
		"-shortest",
		"-c:v", "copy", "-c:a", "aac", "-b:a", "128k",
		dst,
	}
}

// OverlayMusicArgs loops the music bed under the narration at the given
// volume; the output length follows the video.
func OverlayMusicArgs(video, music, dst string, musicVolume float64) []string {
	filter := fmt.Sprintf(
		"[1:a]volume=%s,aloop=loop=-1:size=2e9[m];[0:a][m]amix=inputs=2:duration=first:dropout_transition=2[a]",
		strconv.FormatFloat(musicVolume, 'f', -1, 64))
	return []string{
		"-y",
		"-i", video,
		"-i", music,
		"-filter_complex", filter,
		"-map", "0:v", "-map", "[a]",
		"-c:v", "copy", "-c:a", "aac", "-b:a", "128k",
		dst,
	}
}

// KenBurnsArgs renders a still into a vertical clip with a slow horizontal
// pan, sweeping the zoom window across the image in the given direction.
// The image is oversampled to 4x output so the motion does not shimmer.
func KenBurnsArgs(image, dst string, duration float64, leftToRight bool) []string {
	frames := int(duration * 25)
	if frames <= 0 {
		frames = 125
	}
	pan := fmt.Sprintf("(iw-iw/zoom)*on/%d", frames)
	if !leftToRight {
		pan = fmt.Sprintf("(iw-iw/zoom)*(1-on/%d)", frames)
	}
	filter := fmt.Sprintf(
		"scale=%d:%d:force_original_aspect_ratio=increase,crop=%d:%d,"+
			"zoompan=z='1.15':d=%d:x='%s':y='ih/2-(ih/zoom/2)':s=%dx%d,"+
			"format=yuv420p",
		OutputWidth*2, OutputHeight*2, OutputWidth*2, OutputHeight*2,
		frames, pan, OutputWidth, OutputHeight)
	return []string{
		"-y",
		"-loop", "1",
		"-i", image,
		"-vf", filter,
		"-t", formatSeconds(duration),
		"-r", "25",
		"-c:v", "libx264", "-preset", "veryfast", "-crf", "23",
		"-pix_fmt", "yuv420p",
		"-an",
		dst,
	}
}

// LoopArgs repeats src until the output covers duration seconds.
func LoopArgs(src, dst string, duration float64) []string {
	return []string{
		"-y",
		"-stream_loop", "-1",
		"-i", src,
		"-t", formatSeconds(duration),
		"-c:v", "libx264", "-preset", "veryfast", "-crf", "23",
		"-pix_fmt", "yuv420p",
		"-an",
		dst,
	}
}

func formatSeconds(s float64) string {
	return strconv.FormatFloat(s, 'f', 3, 64)
}

func tail(s string, n int) string {
	if len(s) <= n {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(s[len(s)-n:])
}
