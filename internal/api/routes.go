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

// Package api contains the HTTP route definitions for the render server:
// submitting a render job, polling its progress and listing the available
// narration voices.
package api

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/DraftbotAI/SocialStormAI-Refactor-sub001/internal/core/model"
	"github.com/DraftbotAI/SocialStormAI-Refactor-sub001/internal/core/progress"
	"github.com/DraftbotAI/SocialStormAI-Refactor-sub001/internal/core/services"
	"github.com/DraftbotAI/SocialStormAI-Refactor-sub001/internal/core/workflow"
)

// MaxScriptBytes bounds the accepted script size. Short-form scripts are a
// few kilobytes; anything larger is a client mistake.
const MaxScriptBytes = 64 * 1024

// CreateVideoRequest is the body of POST /api/v1/videos.
type CreateVideoRequest struct {
	Script  string `json:"script" binding:"required"`
	Topic   string `json:"topic"`
	VoiceID string `json:"voice_id"`
}

// CreateVideoResponse returns the job handle clients poll.
type CreateVideoResponse struct {
	JobID string `json:"job_id"`
}

// VideoRouter sets up the routes for submitting renders and polling their
// progress.
func VideoRouter(r *gin.RouterGroup, renderer *workflow.VideoRenderWorkflow, store progress.Store, voices *services.VoiceCatalog) {
	videos := r.Group("/videos")
	{
		videos.POST("", func(c *gin.Context) {
			var req CreateVideoRequest
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if strings.TrimSpace(req.Script) == "" {
				c.JSON(http.StatusBadRequest, gin.H{"error": "script must not be empty"})
				return
			}
			if len(req.Script) > MaxScriptBytes {
				c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "script too large"})
				return
			}

			voice, err := resolveVoice(voices, req.VoiceID)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}

			job := &model.RenderJob{
				JobID:    uuid.NewString(),
				Script:   req.Script,
				Topic:    req.Topic,
				VoiceID:  voice.ProviderRef,
				Provider: voice.Provider,
			}
			if err := renderer.StartJob(c.Request.Context(), job); err != nil {
				log.Printf("failed to start render job: %v\n", err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "could not start render"})
				return
			}
			c.JSON(http.StatusAccepted, CreateVideoResponse{JobID: job.JobID})
		})

		videos.GET("/:id/progress", func(c *gin.Context) {
			id := c.Param("id")
			p, ok := store.Get(id)
			if !ok {
				c.JSON(http.StatusNotFound, gin.H{"error": "unknown job"})
				return
			}
			c.JSON(http.StatusOK, p)
		})
	}
}

// VoiceRouter sets up the narration voice catalog endpoint.
func VoiceRouter(r *gin.RouterGroup, voices *services.VoiceCatalog) {
	r.GET("/voices", func(c *gin.Context) {
		c.JSON(http.StatusOK, voices.List())
	})
}

// resolveVoice maps the requested voice ID to a catalog entry, falling back
// to the catalog default when the request omitted one. An unknown ID is an
// error, never a silent substitution.
func resolveVoice(voices *services.VoiceCatalog, id string) (services.Voice, error) {
	if id == "" {
		return voices.Default()
	}
	return voices.Lookup(id)
}
