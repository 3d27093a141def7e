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

// This file defines the command that publishes the finished video. Cloud
// upload is best-effort: when it is disabled or fails, the video is copied
// into the locally served output directory and the job still succeeds.
package commands

import (
	goctx "context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/DraftbotAI/SocialStormAI-Refactor-sub001/internal/core/cor"
	"github.com/DraftbotAI/SocialStormAI-Refactor-sub001/internal/core/model"
)

// Publisher is the upload surface this command depends on. The cloud
// package's GCS publisher satisfies it; tests substitute fakes.
type Publisher interface {
	Enabled() bool
	Publish(ctx goctx.Context, localPath, objectKey string) (string, error)
}

// StorageUploader publishes the final video and emits the URL clients
// receive from the progress endpoint.
type StorageUploader struct {
	cor.BaseCommand
	publisher Publisher
	localDir  string // directory served at /output
	localBase string // URL path prefix for locally served files, e.g. "/output"
}

// NewStorageUploader is the constructor for the StorageUploader command.
func NewStorageUploader(name string, publisher Publisher, localDir, localBase string) *StorageUploader {
	if localBase == "" {
		localBase = "/output"
	}
	return &StorageUploader{
		BaseCommand: *cor.NewBaseCommand(name),
		publisher:   publisher,
		localDir:    localDir,
		localBase:   localBase,
	}
}

// IsExecutable requires the final video path and the render job.
func (u *StorageUploader) IsExecutable(context cor.Context) bool {
	return context != nil &&
		context.Get(u.GetInputParam()) != nil &&
		context.Get(GetRenderJobParameterName()) != nil
}

// Execute publishes the video. The output is always a URL: the public
// object URL on successful upload, the locally served path otherwise. A
// render that finished never fails at this stage.
func (u *StorageUploader) Execute(context cor.Context) {
	job := context.Get(GetRenderJobParameterName()).(*model.RenderJob)
	finalPath := context.Get(u.GetInputParam()).(string)
	ctx := context.GetContext()

	objectKey := fmt.Sprintf("videos/%s.mp4", job.JobID)

	if u.publisher != nil && u.publisher.Enabled() {
		url, err := u.publisher.Publish(ctx, finalPath, objectKey)
		if err == nil {
			u.GetSuccessCounter().Add(ctx, 1)
			context.Add(u.GetOutputParam(), url)
			context.Add(cor.CtxOut, url)
			return
		}
		slog.Warn("upload failed, serving video locally", "job", job.JobID, "error", err)
	}

	localURL, err := u.keepLocal(finalPath, job.JobID)
	if err != nil {
		u.GetErrorCounter().Add(ctx, 1)
		context.AddError(u.GetName(), err)
		return
	}
	u.GetSuccessCounter().Add(ctx, 1)
	context.Add(u.GetOutputParam(), localURL)
	context.Add(cor.CtxOut, localURL)
}

// keepLocal moves the finished video out of the scratch dir, which is
// deleted at job end, into the served output directory.
func (u *StorageUploader) keepLocal(finalPath, jobID string) (string, error) {
	if err := os.MkdirAll(u.localDir, 0o755); err != nil {
		return "", err
	}
	name := jobID + ".mp4"
	dst := filepath.Join(u.localDir, name)
	if err := os.Rename(finalPath, dst); err != nil {
		// Rename fails across filesystems; copy instead.
		in, err := os.Open(finalPath)
		if err != nil {
			return "", err
		}
		defer in.Close()
		out, err := os.Create(dst)
		if err != nil {
			return "", err
		}
		if _, err := io.Copy(out, in); err != nil {
			out.Close()
			return "", err
		}
		if err := out.Close(); err != nil {
			return "", err
		}
	}
	return u.localBase + "/" + name, nil
}
