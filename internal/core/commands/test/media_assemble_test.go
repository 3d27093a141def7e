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

// Tests for the final assembly command over the fake transcoder: segment
// conformance, concatenation, the music bed and the outro.
package commands_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DraftbotAI/SocialStormAI-Refactor-sub001/internal/core/commands"
	"github.com/DraftbotAI/SocialStormAI-Refactor-sub001/internal/core/cor"
	"github.com/DraftbotAI/SocialStormAI-Refactor-sub001/internal/core/model"
	"github.com/DraftbotAI/SocialStormAI-Refactor-sub001/internal/core/services"
)

// stageSceneFiles writes n finished segments and wires them as the
// assembler's input, the way the scene renderer hands them off.
func stageSceneFiles(t *testing.T, job *model.RenderJob, n int) cor.Context {
	t.Helper()
	files := make([]model.SceneFile, 0, n)
	for i := 0; i < n; i++ {
		path := filepath.Join(job.WorkDir, fmt.Sprintf("scene_%d.mp4", i))
		require.NoError(t, os.WriteFile(path, mp4Stub(), 0o644))
		files = append(files, model.SceneFile{Index: i, Path: path})
	}
	chainCtx := newJobContext(job)
	chainCtx.Add(cor.CtxIn, files)
	return chainCtx
}

func countOps(trans *fakeTranscoder, op string) int {
	n := 0
	for _, c := range trans.ops() {
		if c == op {
			n++
		}
	}
	return n
}

// TestMediaAssemblerConcatenatesSegments verifies the plain path: conforming
// segments concat without repair and the joined file becomes the output.
func TestMediaAssemblerConcatenatesSegments(t *testing.T) {
	trans := &fakeTranscoder{videoHasAudio: true}
	job := &model.RenderJob{JobID: "job-a1", WorkDir: t.TempDir()}
	chainCtx := stageSceneFiles(t, job, 3)

	cmd := commands.NewMediaAssembler("media-assembler", trans, nil, 0.15, "")
	assert.True(t, cmd.IsExecutable(chainCtx))
	cmd.Execute(chainCtx)

	require.False(t, chainCtx.HasErrors(), "errors: %v", chainCtx.GetErrors())
	assert.Equal(t, filepath.Join(job.WorkDir, "joined.mp4"), chainCtx.Get(cor.CtxOut))
	assert.Equal(t, 1, countOps(trans, "concat"))
	assert.Zero(t, countOps(trans, "scalepadblur"))
	assert.Zero(t, countOps(trans, "silentaudio"))
}

// TestMediaAssemblerRepairsSilentSegments verifies that segments probing
// without an audio track get a silent one before the concat, per segment.
func TestMediaAssemblerRepairsSilentSegments(t *testing.T) {
	trans := &fakeTranscoder{videoHasAudio: false}
	job := &model.RenderJob{JobID: "job-a2", WorkDir: t.TempDir()}
	chainCtx := stageSceneFiles(t, job, 3)

	commands.NewMediaAssembler("media-assembler", trans, nil, 0.15, "").Execute(chainCtx)

	require.False(t, chainCtx.HasErrors(), "errors: %v", chainCtx.GetErrors())
	assert.Equal(t, 3, countOps(trans, "silentaudio"))
}

// TestMediaAssemblerAddsMusicAndOutro verifies the finishing order: the
// music bed covers the scene concat only, and the outro joins afterwards
// with its own soundtrack intact.
func TestMediaAssemblerAddsMusicAndOutro(t *testing.T) {
	trans := &fakeTranscoder{videoHasAudio: true}
	job := &model.RenderJob{JobID: "job-a3", Script: "An epic battle for the ages.", WorkDir: t.TempDir()}
	chainCtx := stageSceneFiles(t, job, 2)

	musicDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(musicDir, "bed.mp3"), []byte("not really audio"), 0o644))
	picker := services.NewMusicPicker(musicDir, 1)

	outro := filepath.Join(t.TempDir(), "outro.mp4")
	require.NoError(t, os.WriteFile(outro, mp4Stub(), 0o644))

	commands.NewMediaAssembler("media-assembler", trans, picker, 0.15, outro).Execute(chainCtx)

	require.False(t, chainCtx.HasErrors(), "errors: %v", chainCtx.GetErrors())
	assert.Equal(t, filepath.Join(job.WorkDir, "with_outro.mp4"), chainCtx.Get(cor.CtxOut))

	var sequence []string
	for _, op := range trans.ops() {
		if op == "concat" || op == "overlaymusic" {
			sequence = append(sequence, op)
		}
	}
	assert.Equal(t, []string{"concat", "overlaymusic", "concat"}, sequence)
}

// TestMediaAssemblerRepairsPixelFormat verifies a segment probing with a
// non-yuv420p pixel format is re-encoded before the stream-copy concat,
// which would otherwise corrupt at the seam.
func TestMediaAssemblerRepairsPixelFormat(t *testing.T) {
	trans := &fakeTranscoder{videoHasAudio: true, videoPixFmt: "yuv444p"}
	job := &model.RenderJob{JobID: "job-a5", WorkDir: t.TempDir()}
	chainCtx := stageSceneFiles(t, job, 2)

	commands.NewMediaAssembler("media-assembler", trans, nil, 0.15, "").Execute(chainCtx)

	require.False(t, chainCtx.HasErrors(), "errors: %v", chainCtx.GetErrors())
	assert.Equal(t, 2, countOps(trans, "scalepadblur"))
}

func TestMediaAssemblerRejectsEmptyInput(t *testing.T) {
	trans := &fakeTranscoder{videoHasAudio: true}
	job := &model.RenderJob{JobID: "job-a4", WorkDir: t.TempDir()}
	chainCtx := newJobContext(job)
	chainCtx.Add(cor.CtxIn, []model.SceneFile{})

	commands.NewMediaAssembler("media-assembler", trans, nil, 0.15, "").Execute(chainCtx)
	assert.True(t, chainCtx.HasErrors())
}
