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

// This file defines the command that renders every scene of a job in
// parallel. It is the performance-critical heart of the pipeline.
//
// Logic Flow:
//  1. It receives the segmented scene list from the context.
//  2. Worker Pool Pattern: a configurable number of worker goroutines pull
//     scene jobs from a channel and push results back on another, so
//     network-bound stages (clip search, download, narration) overlap.
//  3. Each worker resolves the scene's visual subject, finds and claims a
//     clip, synthesizes narration, and cuts, normalizes and muxes the scene
//     into a finished 1080x1920 segment. Finished segments land in the
//     content-addressed video cache, so an identical scene in a later job
//     is a file stat instead of a render.
//  4. Results carry the output position assigned before fan-out; after the
//     pool drains, the segments are sorted back into script order.
package commands

import (
	goctx "context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/DraftbotAI/SocialStormAI-Refactor-sub001/internal/core/cor"
	"github.com/DraftbotAI/SocialStormAI-Refactor-sub001/internal/core/media"
	"github.com/DraftbotAI/SocialStormAI-Refactor-sub001/internal/core/model"
	"github.com/DraftbotAI/SocialStormAI-Refactor-sub001/internal/core/ontology"
	"github.com/DraftbotAI/SocialStormAI-Refactor-sub001/internal/core/services"
	"github.com/DraftbotAI/SocialStormAI-Refactor-sub001/internal/core/subject"
)

// maxClipAttempts bounds how many distinct candidates a scene tries when
// downloads fail. The same URL is never attempted twice.
const maxClipAttempts = 3

// SceneRenderer renders all scenes of a job concurrently.
type SceneRenderer struct {
	cor.BaseCommand
	resolver        *ontology.Resolver
	extractor       *subject.Extractor
	multi           *subject.MultiResolver
	sources         []services.ClipSource
	downloader      *media.Downloader
	tts             *services.TTSDispatcher
	transcoder      media.Transcoder
	videoCache      *media.Cache
	numberOfWorkers int
}

// NewSceneRenderer is the constructor for the SceneRenderer command.
func NewSceneRenderer(
	name string,
	resolver *ontology.Resolver,
	extractor *subject.Extractor,
	multi *subject.MultiResolver,
	sources []services.ClipSource,
	downloader *media.Downloader,
	tts *services.TTSDispatcher,
	transcoder media.Transcoder,
	videoCache *media.Cache,
	numberOfWorkers int) *SceneRenderer {
	if numberOfWorkers <= 0 {
		numberOfWorkers = 3
	}
	return &SceneRenderer{
		BaseCommand:     *cor.NewBaseCommand(name),
		resolver:        resolver,
		extractor:       extractor,
		multi:           multi,
		sources:         sources,
		downloader:      downloader,
		tts:             tts,
		transcoder:      transcoder,
		videoCache:      videoCache,
		numberOfWorkers: numberOfWorkers,
	}
}

// IsExecutable requires the scene list and the render job in the context.
func (s *SceneRenderer) IsExecutable(context cor.Context) bool {
	return context != nil &&
		context.Get(s.GetInputParam()) != nil &&
		context.Get(GetRenderJobParameterName()) != nil
}

// sceneRenderJob packages one scene for a worker, including the output
// positions its segments must occupy.
type sceneRenderJob struct {
	ctx     goctx.Context
	scene   *model.Scene
	seqBase int
}

// sceneRenderResult carries finished segments or the first error back.
type sceneRenderResult struct {
	files []model.SceneFile
	err   error
}

// Execute fans the scenes out to the worker pool and collects the finished
// segments in script order.
func (s *SceneRenderer) Execute(context cor.Context) {
	job := context.Get(GetRenderJobParameterName()).(*model.RenderJob)
	scenes := context.Get(s.GetInputParam()).([]*model.Scene)

	// The claim set is per job: two scenes in one job must never select
	// the same clip, but separate jobs may.
	searcher := services.NewClipSearcher(s.sources...)

	var wg sync.WaitGroup
	jobs := make(chan *sceneRenderJob, len(scenes))
	results := make(chan *sceneRenderResult, len(scenes))

	for w := 0; w < s.numberOfWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				files, err := s.renderScene(j.ctx, context, job, searcher, j.scene, j.seqBase)
				results <- &sceneRenderResult{files: files, err: err}
			}
		}()
	}

	// Output positions are assigned before fan-out so completion order
	// cannot reorder the final video. A mega-scene occupies two slots.
	seq := 0
	for _, scene := range scenes {
		sceneCtx, span := s.Tracer.Start(context.GetContext(), fmt.Sprintf("%s_scene_%s", s.GetName(), scene.ID))
		span.SetAttributes(
			attribute.String("scene.id", scene.ID),
			attribute.String("scene.type", string(scene.Type)),
		)
		span.End()
		jobs <- &sceneRenderJob{ctx: sceneCtx, scene: scene, seqBase: seq}
		seq += len(scene.Texts)
	}
	close(jobs)
	wg.Wait()
	close(results)

	sceneFiles := make([]model.SceneFile, 0, seq)
	for r := range results {
		if r.err != nil {
			s.GetErrorCounter().Add(context.GetContext(), 1)
			context.AddError(s.GetName(), r.err)
		} else {
			sceneFiles = append(sceneFiles, r.files...)
		}
	}
	if context.HasErrors() {
		return
	}

	sort.Slice(sceneFiles, func(i, j int) bool { return sceneFiles[i].Index < sceneFiles[j].Index })

	s.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(s.GetOutputParam(), sceneFiles)
	context.Add(cor.CtxOut, sceneFiles)
}

// renderScene produces one finished segment per scene line. Mega-scenes
// share a single clip split into disjoint halves, one per line.
func (s *SceneRenderer) renderScene(
	ctx goctx.Context,
	cc cor.Context,
	job *model.RenderJob,
	searcher *services.ClipSearcher,
	scene *model.Scene,
	seqBase int) ([]model.SceneFile, error) {

	_, span := s.Tracer.Start(ctx, fmt.Sprintf("%s_render_%s", s.GetName(), scene.ID))
	defer span.End()

	subjectPhrase := s.resolveSubject(ctx, scene, job.Topic)
	span.SetAttributes(attribute.String("scene.subject", subjectPhrase))

	candidate, clipPath, err := s.acquireClip(ctx, cc, job, searcher, scene, subjectPhrase)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("scene %s: %w", scene.ID, err)
	}

	var clipProbe *media.ProbeResult
	if candidate.SourceSystem != "kenburns" {
		clipProbe, err = s.transcoder.Probe(ctx, clipPath)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			return nil, fmt.Errorf("scene %s: probing clip: %w", scene.ID, err)
		}
	}

	files := make([]model.SceneFile, 0, len(scene.Texts))
	for k, text := range scene.Texts {
		path, err := s.renderSegment(ctx, cc, job, scene, candidate, clipPath, clipProbe, text, k)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			return nil, fmt.Errorf("scene %s line %d: %w", scene.ID, k, err)
		}
		files = append(files, model.SceneFile{Index: seqBase + k, Path: path})
	}
	span.SetStatus(codes.Ok, "scene rendered")
	return files, nil
}

// resolveSubject turns a scene into one searchable visual subject. Every
// path is total; the worst case is the extractor's generic sentinel.
func (s *SceneRenderer) resolveSubject(ctx goctx.Context, scene *model.Scene, topic string) string {
	if scene.VisualSubject != "" {
		return scene.VisualSubject
	}
	// Mega-scenes take their subject from the second line of the pair,
	// which tends to be the more concrete one.
	line := scene.Texts[0]
	if scene.IsMegaScene && len(scene.Texts) > 1 {
		line = scene.Texts[1]
	}
	if subject.IsMultiSubject(line) {
		if combined := s.multi.Combine(ctx, line, topic); combined != "" {
			return combined
		}
	}
	return s.extractor.Extract(line, topic, nil).Primary
}

// acquireClip finds, claims and downloads the scene's clip. A failed
// download releases the claim, marks the URL dead and moves to the next
// candidate, up to maxClipAttempts distinct candidates.
func (s *SceneRenderer) acquireClip(
	ctx goctx.Context,
	cc cor.Context,
	job *model.RenderJob,
	searcher *services.ClipSearcher,
	scene *model.Scene,
	subjectPhrase string) (*model.ClipCandidate, string, error) {

	entity := s.resolver.Resolve(subjectPhrase)
	queries := ontology.StageQueries(entity)

	var lastErr error
	for attempt := 0; attempt < maxClipAttempts; attempt++ {
		candidate, err := searcher.FindBest(ctx, subjectPhrase, queries)
		if err != nil {
			if lastErr != nil {
				return nil, "", fmt.Errorf("%w (after download failure: %v)", err, lastErr)
			}
			return nil, "", err
		}

		dst := filepath.Join(job.WorkDir, fmt.Sprintf("clip_%s_%d%s", scene.ID, attempt, clipExt(candidate)))
		local, err := s.downloader.Fetch(ctx, candidate.FileRef, dst)
		if err != nil {
			searcher.MarkFailed(candidate.FileRef)
			searcher.Release(candidate.FileRef)
			lastErr = err
			continue
		}
		if local != candidate.FileRef {
			cc.AddTempFile(local)
		}
		return candidate, local, nil
	}
	return nil, "", fmt.Errorf("no downloadable clip for subject %q: %w", subjectPhrase, lastErr)
}

// renderSegment produces one finished, cache-resident segment for one
// narration line.
func (s *SceneRenderer) renderSegment(
	ctx goctx.Context,
	cc cor.Context,
	job *model.RenderJob,
	scene *model.Scene,
	candidate *model.ClipCandidate,
	clipPath string,
	clipProbe *media.ProbeResult,
	text string,
	half int) (string, error) {

	audioPath, err := s.tts.Narrate(ctx, job.Provider, job.VoiceID, text)
	if err != nil {
		return "", err
	}
	audioProbe, err := s.transcoder.Probe(ctx, audioPath)
	if err != nil {
		return "", fmt.Errorf("probing narration: %w", err)
	}
	total := media.LeadInSeconds + audioProbe.Duration + media.TrailOutSeconds

	// The mux cache key carries everything that shapes the segment: the
	// narration identity, the clip and which half of it this line uses.
	muxKey := s.videoCache.Key(text, job.VoiceID, job.Provider, candidate.FileRef, fmt.Sprintf("half-%d", half))
	if cached, ok := s.videoCache.Get(muxKey); ok {
		return cached, nil
	}

	base := filepath.Join(job.WorkDir, fmt.Sprintf("seg_%s_%d", scene.ID, half))
	var visual string

	if candidate.SourceSystem == "kenburns" {
		visual = base + "_kb.mp4"
		if err := s.transcoder.KenBurns(ctx, clipPath, visual, total); err != nil {
			return "", err
		}
		cc.AddTempFile(visual)
	} else {
		// Mega halves cut disjoint windows so the viewer does not watch
		// the same seconds twice back to back.
		start, available := 0.0, clipProbe.Duration
		if scene.IsMegaScene && len(scene.Texts) == 2 {
			halfLen := clipProbe.Duration / 2
			start = float64(half) * halfLen
			available = halfLen
		}

		trimmed := base + "_cut.mp4"
		cutLen := total
		if available < cutLen {
			cutLen = available
		}
		if err := s.transcoder.Trim(ctx, clipPath, trimmed, start, cutLen); err != nil {
			return "", err
		}
		cc.AddTempFile(trimmed)

		if cutLen < total {
			looped := base + "_loop.mp4"
			if err := s.transcoder.Loop(ctx, trimmed, looped, total); err != nil {
				return "", err
			}
			cc.AddTempFile(looped)
			trimmed = looped
		}

		visual = base + "_fit.mp4"
		if err := s.transcoder.ScalePadBlur(ctx, trimmed, visual); err != nil {
			return "", err
		}
		cc.AddTempFile(visual)
	}

	muxed := base + "_mux.mp4"
	if err := s.transcoder.Mux(ctx, visual, audioPath, muxed); err != nil {
		return "", err
	}
	// Put validates size and container before admitting the artifact.
	return s.videoCache.Put(muxKey, muxed)
}

func clipExt(c *model.ClipCandidate) string {
	if c.SourceSystem == "kenburns" {
		return ".jpg"
	}
	if ext := filepath.Ext(c.FileRef); ext == ".mov" || ext == ".webm" {
		return ext
	}
	return ".mp4"
}
