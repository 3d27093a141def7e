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

package progress_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/DraftbotAI/SocialStormAI-Refactor-sub001/internal/core/model"
	"github.com/DraftbotAI/SocialStormAI-Refactor-sub001/internal/core/progress"
)

func TestMemoryStoreLifecycle(t *testing.T) {
	store := progress.NewMemoryStore()

	_, ok := store.Get("job-1")
	assert.False(t, ok)

	store.Set("job-1", model.JobProgress{Percent: 10, Status: "rendering scenes"})
	got, ok := store.Get("job-1")
	assert.True(t, ok)
	assert.Equal(t, 10, got.Percent)
	assert.Equal(t, "rendering scenes", got.Status)

	store.Set("job-1", model.JobProgress{Percent: 100, Status: "done", Output: "/output/job-1.mp4"})
	got, _ = store.Get("job-1")
	assert.True(t, got.Done())
	assert.Equal(t, "/output/job-1.mp4", got.Output)

	store.Delete("job-1")
	_, ok = store.Get("job-1")
	assert.False(t, ok)
}

// TestMemoryStoreConcurrentAccess exercises the store from many goroutines;
// the workflow writes progress while the API layer polls it.
func TestMemoryStoreConcurrentAccess(t *testing.T) {
	store := progress.NewMemoryStore()
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := fmt.Sprintf("job-%d", n%4)
			store.Set(id, model.JobProgress{Percent: n, Status: "working"})
			store.Get(id)
		}(i)
	}
	wg.Wait()

	for i := 0; i < 4; i++ {
		_, ok := store.Get(fmt.Sprintf("job-%d", i))
		assert.True(t, ok)
	}
}
