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

// This file defines the final command of the render chain: removing the
// job's scratch directory. The caches and the published video live outside
// the scratch dir, so nothing durable is touched.
package commands

import (
	"log/slog"
	"os"

	"github.com/DraftbotAI/SocialStormAI-Refactor-sub001/internal/core/cor"
	"github.com/DraftbotAI/SocialStormAI-Refactor-sub001/internal/core/model"
)

// WorkdirCleanup removes the per-job scratch directory. It passes its input
// through unchanged so the published URL stays the chain's final output.
type WorkdirCleanup struct {
	cor.BaseCommand
}

// NewWorkdirCleanup is the constructor for the WorkdirCleanup command.
func NewWorkdirCleanup(name string) *WorkdirCleanup {
	return &WorkdirCleanup{BaseCommand: *cor.NewBaseCommand(name)}
}

// IsExecutable requires only the render job; cleanup runs even when the
// upstream output is missing.
func (w *WorkdirCleanup) IsExecutable(context cor.Context) bool {
	return context != nil && context.Get(GetRenderJobParameterName()) != nil
}

// Execute deletes the scratch directory. Failure to delete is logged, not
// fatal; a leaked scratch dir must not fail a finished render.
func (w *WorkdirCleanup) Execute(context cor.Context) {
	job := context.Get(GetRenderJobParameterName()).(*model.RenderJob)

	if job.WorkDir != "" {
		if err := os.RemoveAll(job.WorkDir); err != nil {
			slog.Warn("failed to remove job scratch dir", "job", job.JobID, "dir", job.WorkDir, "error", err)
		}
	}

	w.GetSuccessCounter().Add(context.GetContext(), 1)
	if in := context.Get(w.GetInputParam()); in != nil {
		context.Add(w.GetOutputParam(), in)
		context.Add(cor.CtxOut, in)
	}
}
