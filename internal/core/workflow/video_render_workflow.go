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

// Package workflow defines the high-level business logic orchestrations,
// combining commands into coherent pipelines. This file implements the
// video render workflow: script in, published vertical video out.
package workflow

import (
	goctx "context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/DraftbotAI/SocialStormAI-Refactor-sub001/internal/cloud"
	"github.com/DraftbotAI/SocialStormAI-Refactor-sub001/internal/core/commands"
	"github.com/DraftbotAI/SocialStormAI-Refactor-sub001/internal/core/cor"
	"github.com/DraftbotAI/SocialStormAI-Refactor-sub001/internal/core/media"
	"github.com/DraftbotAI/SocialStormAI-Refactor-sub001/internal/core/model"
	"github.com/DraftbotAI/SocialStormAI-Refactor-sub001/internal/core/ontology"
	"github.com/DraftbotAI/SocialStormAI-Refactor-sub001/internal/core/progress"
	"github.com/DraftbotAI/SocialStormAI-Refactor-sub001/internal/core/services"
	"github.com/DraftbotAI/SocialStormAI-Refactor-sub001/internal/core/subject"
)

// DefaultJobTimeout is the watchdog ceiling for one render when the
// configuration does not set one. A job exceeding it is failed and its
// scratch space reclaimed.
const DefaultJobTimeout = 10 * time.Minute

// VideoRenderWorkflow orchestrates the full render: segmentation, parallel
// scene rendering, assembly, publishing and cleanup. One instance serves
// all jobs; per-job state lives in the chain context.
type VideoRenderWorkflow struct {
	cor.BaseCommand
	chain    cor.Chain
	config   *cloud.Config
	progress progress.Store
}

// Execute runs the render chain. This is the cor.Command entry point; most
// callers use StartJob, which adds the watchdog and progress tracking.
func (w *VideoRenderWorkflow) Execute(context cor.Context) {
	w.chain.Execute(context)
}

// progressMark is a pass-through command that records a progress milestone
// for the running job. Placing these between the work commands keeps all
// job-state reporting inside the chain itself.
type progressMark struct {
	cor.BaseCommand
	store   progress.Store
	percent int
	status  string
}

func newProgressMark(store progress.Store, percent int, status string) *progressMark {
	return &progressMark{
		BaseCommand: *cor.NewBaseCommand(fmt.Sprintf("progress-%d", percent)),
		store:       store,
		percent:     percent,
		status:      status,
	}
}

// IsExecutable only needs the job; marks run even before any output exists.
func (p *progressMark) IsExecutable(context cor.Context) bool {
	return context != nil && context.Get(commands.GetRenderJobParameterName()) != nil
}

// Execute records the milestone and passes the pipeline value through.
func (p *progressMark) Execute(context cor.Context) {
	job := context.Get(commands.GetRenderJobParameterName()).(*model.RenderJob)
	p.store.Set(job.JobID, model.JobProgress{Percent: p.percent, Status: p.status})
	if in := context.Get(cor.CtxIn); in != nil {
		context.Add(cor.CtxOut, in)
	}
}

// initializeChain wires the command sequence with progress milestones
// between the stages.
func (w *VideoRenderWorkflow) initializeChain(
	resolver *ontology.Resolver,
	extractor *subject.Extractor,
	multi *subject.MultiResolver,
	sources []services.ClipSource,
	downloader *media.Downloader,
	tts *services.TTSDispatcher,
	transcoder media.Transcoder,
	videoCache *media.Cache,
	music *services.MusicPicker,
	publisher commands.Publisher) {

	out := cor.NewBaseChain(w.GetName())

	out.AddCommand(newProgressMark(w.progress, 5, "segmenting script"))
	out.AddCommand(commands.NewScriptSegmenter("script-segmenter"))
	out.AddCommand(newProgressMark(w.progress, 10, "rendering scenes"))
	out.AddCommand(commands.NewSceneRenderer(
		"scene-renderer",
		resolver,
		extractor,
		multi,
		sources,
		downloader,
		tts,
		transcoder,
		videoCache,
		w.config.Pipeline.SceneWorkers,
	))
	out.AddCommand(newProgressMark(w.progress, 80, "assembling video"))
	out.AddCommand(commands.NewMediaAssembler(
		"media-assembler",
		transcoder,
		music,
		w.config.Pipeline.MusicVolume,
		w.config.Pipeline.OutroPath,
	))
	out.AddCommand(newProgressMark(w.progress, 85, "publishing video"))
	out.AddCommand(commands.NewStorageUploader(
		"storage-uploader",
		publisher,
		w.config.Storage.LocalOutput,
		"/output",
	))
	out.AddCommand(newProgressMark(w.progress, 95, "cleaning up"))
	out.AddCommand(commands.NewWorkdirCleanup("workdir-cleanup"))

	w.chain = out
}

// NewVideoRenderWorkflow builds the workflow and every service it depends
// on from the configuration and the initialized external clients.
func NewVideoRenderWorkflow(
	config *cloud.Config,
	serviceClients *cloud.ServiceClients,
	store progress.Store) *VideoRenderWorkflow {

	resolver := ontology.NewResolver(ontology.SeedEntities())
	extractor := subject.NewExtractor(resolver)

	// The combined-phrase generator is optional; without a configured
	// Gemini model the multi-subject resolver runs heuristic-only.
	var gen subject.PhraseGenerator
	if agent, ok := serviceClients.AgentModels["combiner"]; ok {
		gen = &cloud.GeminiPhraseGenerator{Agent: agent}
	}
	multi := subject.NewMultiResolver(gen, resolver)

	audioCache := media.NewAudioCache(config.Caches.AudioDir, config.Caches.MinAudioBytes)
	videoCache := media.NewVideoCache(config.Caches.VideoDir, config.Caches.MinVideoBytes)

	tts := services.NewTTSDispatcher(audioCache)
	for name, synth := range serviceClients.Synthesizers {
		tts.Register(name, synth)
	}

	transcoder := media.NewFFmpeg(
		config.Pipeline.FFmpegPath,
		config.Pipeline.FFprobePath,
		config.Pipeline.FFmpegProcesses,
	)
	downloader := media.NewDownloader(config.Caches.MinVideoBytes)

	// Clip tiers in trust order: the curated library always goes first.
	var sources []services.ClipSource
	if config.Pipeline.LibraryDir != "" {
		sources = append(sources, services.NewMediaLibrary(config.Pipeline.LibraryDir))
	}
	sources = append(sources, serviceClients.StockSources...)

	var music *services.MusicPicker
	if config.Pipeline.MusicDir != "" {
		music = services.NewMusicPicker(config.Pipeline.MusicDir, time.Now().UnixNano())
	}

	out := &VideoRenderWorkflow{
		BaseCommand: *cor.NewBaseCommand("video-render-workflow"),
		config:      config,
		progress:    store,
	}
	out.initializeChain(resolver, extractor, multi, sources, downloader, tts, transcoder, videoCache, music, serviceClients.Publisher)
	return out
}

// StartJob launches one render asynchronously under the watchdog timeout
// and reports its lifecycle through the progress store. It returns
// immediately; clients poll the progress endpoint.
func (w *VideoRenderWorkflow) StartJob(parent goctx.Context, job *model.RenderJob) error {
	workDir := filepath.Join(w.config.Pipeline.WorkRoot, job.JobID)
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return fmt.Errorf("creating job scratch dir: %w", err)
	}
	job.WorkDir = workDir

	timeout := DefaultJobTimeout
	if w.config.Pipeline.JobTimeoutSeconds > 0 {
		timeout = time.Duration(w.config.Pipeline.JobTimeoutSeconds) * time.Second
	}

	w.progress.Set(job.JobID, model.JobProgress{Percent: 0, Status: "queued"})

	go func() {
		ctx, cancel := goctx.WithTimeout(goctx.WithoutCancel(parent), timeout)
		defer cancel()

		chainCtx := cor.NewBaseContext()
		chainCtx.SetContext(ctx)
		chainCtx.Add(commands.GetRenderJobParameterName(), job)
		defer chainCtx.Close()
		// The cleanup command removes the scratch dir on success; this
		// covers the failure paths.
		defer os.RemoveAll(workDir)

		w.Execute(chainCtx)

		if chainCtx.HasErrors() {
			status := "failed"
			if ctx.Err() == goctx.DeadlineExceeded {
				status = "failed: render timed out"
			}
			first := firstError(chainCtx.GetErrors())
			w.progress.Set(job.JobID, model.JobProgress{
				Percent: 100,
				Status:  status,
				Error:   first,
			})
			return
		}

		url, _ := chainCtx.Get(cor.CtxIn).(string)
		w.progress.Set(job.JobID, model.JobProgress{
			Percent: 100,
			Status:  "done",
			Output:  url,
		})
	}()

	return nil
}

func firstError(errs map[string]error) string {
	for name, err := range errs {
		return fmt.Sprintf("%s: %v", name, err)
	}
	return ""
}
