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

// Package commands provides the concrete implementations of the Chain of
// Responsibility (COR) pattern's Command interface for the video render
// pipeline. Each command is one stage of turning a script into a finished
// vertical video: segmentation, parallel scene rendering, assembly,
// publishing and cleanup.
package commands

import (
	"fmt"
	"strings"

	"github.com/DraftbotAI/SocialStormAI-Refactor-sub001/internal/core/cor"
	"github.com/DraftbotAI/SocialStormAI-Refactor-sub001/internal/core/model"
	"github.com/DraftbotAI/SocialStormAI-Refactor-sub001/internal/core/services"
)

// GetRenderJobParameterName returns the context key under which the render
// job parameters are stored for every command in the workflow.
func GetRenderJobParameterName() string {
	return "__RENDER_JOB__"
}

// ScriptSegmenter is the first command of the render chain. It splits the
// job's script into the ordered scene list (hook, optional mega-scene,
// normal scenes) and derives the main topic when the request omitted one.
type ScriptSegmenter struct {
	cor.BaseCommand
}

// NewScriptSegmenter constructs the segmentation command.
func NewScriptSegmenter(name string) *ScriptSegmenter {
	return &ScriptSegmenter{BaseCommand: *cor.NewBaseCommand(name)}
}

// IsExecutable requires the render job in the context.
func (s *ScriptSegmenter) IsExecutable(context cor.Context) bool {
	return context != nil &&
		context.Get(GetRenderJobParameterName()) != nil &&
		context.GetContext() != nil
}

// Execute segments the script. Segmentation is total, so the only error
// this command can record is an empty script after trimming.
func (s *ScriptSegmenter) Execute(context cor.Context) {
	job := context.Get(GetRenderJobParameterName()).(*model.RenderJob)

	if strings.TrimSpace(job.Script) == "" {
		s.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(s.GetName(), fmt.Errorf("script is empty"))
		return
	}
	if strings.TrimSpace(job.Topic) == "" {
		job.Topic = services.GuessTopic(strings.Split(job.Script, "\n"))
	}

	scenes := services.SegmentScript(job.Script, job.Topic)

	s.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(s.GetOutputParam(), scenes)
	context.Add(cor.CtxOut, scenes)
}
