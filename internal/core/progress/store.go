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

// Package progress tracks per-job render state for the progress endpoint.
package progress

import (
	"sync"

	"github.com/DraftbotAI/SocialStormAI-Refactor-sub001/internal/core/model"
)

// Store is the job progress surface shared between the render workflow
// (writer) and the API layer (reader). Implementations must be safe for
// concurrent use.
type Store interface {
	Get(jobID string) (model.JobProgress, bool)
	Set(jobID string, p model.JobProgress)
	Delete(jobID string)
}

// MemoryStore is the in-process Store implementation. Progress is
// deliberately not durable: a restarted server has also lost the render
// goroutines the entries described.
type MemoryStore struct {
	mu   sync.RWMutex
	jobs map[string]model.JobProgress
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{jobs: make(map[string]model.JobProgress)}
}

// Get implements Store.
func (s *MemoryStore) Get(jobID string) (model.JobProgress, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.jobs[jobID]
	return p, ok
}

// Set implements Store. Writes are last-wins; the workflow is the only
// writer for a given job.
func (s *MemoryStore) Set(jobID string, p model.JobProgress) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[jobID] = p
}

// Delete implements Store.
func (s *MemoryStore) Delete(jobID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.jobs, jobID)
}
