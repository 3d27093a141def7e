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

// This file defines the command that assembles finished scene segments into
// the final video: a conformance pass over every input, lossless
// concatenation, the music bed, the outro and a final sanity check on the
// produced file.
package commands

import (
	goctx "context"
	"fmt"
	"path/filepath"

	"github.com/DraftbotAI/SocialStormAI-Refactor-sub001/internal/core/cor"
	"github.com/DraftbotAI/SocialStormAI-Refactor-sub001/internal/core/media"
	"github.com/DraftbotAI/SocialStormAI-Refactor-sub001/internal/core/model"
	"github.com/DraftbotAI/SocialStormAI-Refactor-sub001/internal/core/services"
)

// MediaAssembler concatenates the ordered scene segments and finishes the
// video with music and the outro.
type MediaAssembler struct {
	cor.BaseCommand
	transcoder  media.Transcoder
	music       *services.MusicPicker
	musicVolume float64
	outroPath   string
}

// NewMediaAssembler is the constructor for the MediaAssembler command. An
// empty outroPath disables the outro; a nil music picker disables music.
func NewMediaAssembler(name string, transcoder media.Transcoder, music *services.MusicPicker, musicVolume float64, outroPath string) *MediaAssembler {
	if musicVolume <= 0 {
		musicVolume = 0.15
	}
	return &MediaAssembler{
		BaseCommand: *cor.NewBaseCommand(name),
		transcoder:  transcoder,
		music:       music,
		musicVolume: musicVolume,
		outroPath:   outroPath,
	}
}

// IsExecutable requires the ordered scene files and the render job.
func (m *MediaAssembler) IsExecutable(context cor.Context) bool {
	return context != nil &&
		context.Get(m.GetInputParam()) != nil &&
		context.Get(GetRenderJobParameterName()) != nil
}

// Execute assembles the final video and stores its local path as output.
func (m *MediaAssembler) Execute(context cor.Context) {
	job := context.Get(GetRenderJobParameterName()).(*model.RenderJob)
	sceneFiles := context.Get(m.GetInputParam()).([]model.SceneFile)
	ctx := context.GetContext()

	if len(sceneFiles) == 0 {
		m.GetErrorCounter().Add(ctx, 1)
		context.AddError(m.GetName(), fmt.Errorf("no scene segments to assemble"))
		return
	}

	finalPath, err := m.assemble(ctx, context, job, sceneFiles)
	if err != nil {
		m.GetErrorCounter().Add(ctx, 1)
		context.AddError(m.GetName(), err)
		return
	}

	m.GetSuccessCounter().Add(ctx, 1)
	context.Add(m.GetOutputParam(), finalPath)
	context.Add(cor.CtxOut, finalPath)
}

func (m *MediaAssembler) assemble(ctx goctx.Context, cc cor.Context, job *model.RenderJob, sceneFiles []model.SceneFile) (string, error) {
	// Conformance pass: every input entering the concat demuxer must agree
	// on geometry, codec and the presence of an audio track, or the output
	// glitches at the seam. Segments from the cache normally conform
	// already; this repairs the exceptions instead of trusting them.
	inputs := make([]string, 0, len(sceneFiles))
	for i, sf := range sceneFiles {
		conformed, err := m.conform(ctx, cc, job, sf.Path, fmt.Sprintf("part_%03d", i))
		if err != nil {
			return "", fmt.Errorf("conforming segment %d: %w", i, err)
		}
		inputs = append(inputs, conformed)
	}

	joined := filepath.Join(job.WorkDir, "joined.mp4")
	if err := m.transcoder.Concat(ctx, inputs, joined); err != nil {
		return "", fmt.Errorf("concatenating segments: %w", err)
	}
	cc.AddTempFile(joined)

	// Music covers the scenes only; the outro joins afterwards and keeps its
	// own soundtrack.
	finalPath := joined
	if m.music != nil {
		if track := m.music.Pick(job.Script); track != "" {
			withMusic := filepath.Join(job.WorkDir, "with_music.mp4")
			if err := m.transcoder.OverlayMusic(ctx, joined, track, withMusic, m.musicVolume); err != nil {
				return "", fmt.Errorf("overlaying music: %w", err)
			}
			cc.AddTempFile(withMusic)
			finalPath = withMusic
		}
	}

	if m.outroPath != "" {
		outro, err := m.conform(ctx, cc, job, m.outroPath, "outro")
		if err != nil {
			return "", fmt.Errorf("conforming outro: %w", err)
		}
		withOutro := filepath.Join(job.WorkDir, "with_outro.mp4")
		if err := m.transcoder.Concat(ctx, []string{finalPath, outro}, withOutro); err != nil {
			return "", fmt.Errorf("appending outro: %w", err)
		}
		cc.AddTempFile(withOutro)
		finalPath = withOutro
	}

	// Final sanity check: the finished file must probe as real video of a
	// plausible length before anyone is told the job succeeded.
	probe, err := m.transcoder.Probe(ctx, finalPath)
	if err != nil {
		return "", fmt.Errorf("probing final video: %w", err)
	}
	if probe.Duration <= 0 || probe.Width == 0 {
		return "", fmt.Errorf("final video failed verification: %dx%d over %.2fs", probe.Width, probe.Height, probe.Duration)
	}
	return finalPath, nil
}

// conform re-encodes src when its geometry, codec or pixel format differs
// from the output profile and guarantees an audio track, returning a
// concat-safe path.
func (m *MediaAssembler) conform(ctx goctx.Context, cc cor.Context, job *model.RenderJob, src, tag string) (string, error) {
	probe, err := m.transcoder.Probe(ctx, src)
	if err != nil {
		return "", err
	}

	out := src
	wrongPixFmt := probe.PixFmt != "" && probe.PixFmt != media.OutputPixFmt
	if probe.Width != media.OutputWidth || probe.Height != media.OutputHeight || probe.VideoCodec != "h264" || wrongPixFmt {
		scaled := filepath.Join(job.WorkDir, tag+"_scaled.mp4")
		if err := m.transcoder.ScalePadBlur(ctx, out, scaled); err != nil {
			return "", err
		}
		cc.AddTempFile(scaled)
		out = scaled
		// Scaling strips audio; re-probe so the silent-track repair fires.
		probe, err = m.transcoder.Probe(ctx, out)
		if err != nil {
			return "", err
		}
	}
	if !probe.HasAudio {
		withAudio := filepath.Join(job.WorkDir, tag+"_audio.mp4")
		if err := m.transcoder.AddSilentAudio(ctx, out, withAudio); err != nil {
			return "", err
		}
		cc.AddTempFile(withAudio)
		out = withAudio
	}
	return out, nil
}
