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

package cor

import (
	"context"
	"log"
	"os"
	"sync"
)

// BaseContext is the default Context implementation. All maps and slices are
// guarded by a single mutex: the scene render command writes errors and temp
// files from many goroutines at once.
type BaseContext struct {
	mu        sync.Mutex
	data      map[string]interface{}
	errors    map[string]error
	tempFiles []string
	context   context.Context
}

// NewBaseContext returns an empty, ready-to-use context.
func NewBaseContext() Context {
	return &BaseContext{
		data:      make(map[string]interface{}),
		errors:    make(map[string]error),
		tempFiles: make([]string, 0),
	}
}

// SetContext sets the underlying Go context. Only the chain calls this,
// between commands, so it shares the same lock as the data map.
func (c *BaseContext) SetContext(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.context = ctx
}

// GetContext retrieves the underlying Go context.
func (c *BaseContext) GetContext() context.Context {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.context
}

// Close removes every temporary file tracked during the job.
func (c *BaseContext) Close() {
	for _, file := range c.GetTempFiles() {
		err := os.Remove(file)
		if err != nil && !os.IsNotExist(err) {
			log.Printf("failed to remove temporary file '%s': %v\n", file, err)
		}
	}
}

// Add stores a key-value pair and returns the context for chaining.
func (c *BaseContext) Add(key string, value interface{}) Context {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return c
}

// AddTempFile tracks a file path for cleanup at job end.
func (c *BaseContext) AddTempFile(file string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tempFiles = append(c.tempFiles, file)
}

// GetTempFiles returns a copy of the tracked temporary file paths.
func (c *BaseContext) GetTempFiles() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.tempFiles))
	copy(out, c.tempFiles)
	return out
}

// AddError records an error under the given command name.
func (c *BaseContext) AddError(key string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errors[key] = err
}

// GetErrors returns a copy of the collected errors.
func (c *BaseContext) GetErrors() map[string]error {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]error, len(c.errors))
	for k, v := range c.errors {
		out[k] = v
	}
	return out
}

// Get retrieves a value by key, or nil when absent.
func (c *BaseContext) Get(key string) interface{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data[key]
}

// Remove deletes a key-value pair.
func (c *BaseContext) Remove(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
}

// HasErrors reports whether any command has recorded an error.
func (c *BaseContext) HasErrors() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.errors) > 0
}
