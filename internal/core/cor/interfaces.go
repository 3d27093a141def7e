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

// Package cor (Chain of Responsibility) is the workflow framework the render
// pipeline is built on. A video job is expressed as a chain of commands, each
// an atomic unit of work that reads its input from a shared context and
// writes its output back for the next command. The framework carries
// OpenTelemetry tracing and counters so every pipeline step is observable.
package cor

import (
	"context"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// CtxIn and CtxOut are the well-known context keys the chain uses to pipe
// the primary output of one command into the primary input of the next.
const (
	CtxIn  = "__IN__"
	CtxOut = "__OUT__"
)

// Context is the shared state bag passed through a chain of commands for a
// single job. Implementations must be safe for concurrent use: the scene
// render command fans work out to one goroutine per scene, and those
// goroutines report errors and temp files through the same context.
type Context interface {
	// SetContext sets the standard Go context, carrying cancellation and
	// trace information for the currently-executing command.
	SetContext(context context.Context)

	// GetContext retrieves the standard Go context.
	GetContext() context.Context

	// Add stores a key-value pair. Returns the Context for chaining.
	Add(key string, value interface{}) Context

	// AddError records an error under the name of the command that raised it.
	AddError(key string, err error)

	// GetErrors returns all errors collected so far.
	GetErrors() map[string]error

	// Get retrieves a value by key, or nil when absent.
	Get(key string) interface{}

	// Remove deletes a key-value pair.
	Remove(key string)

	// HasErrors reports whether any command has failed.
	HasErrors() bool

	// AddTempFile tracks an intermediate file for cleanup at job end.
	AddTempFile(file string)

	// GetTempFiles returns every tracked temporary file path.
	GetTempFiles() []string

	// Close removes all tracked temporary files. Deferred by the job runner.
	Close()
}

// Executable is anything with a core execution step.
type Executable interface {
	Execute(context Context)
}

// Command is an atomic, observable unit of pipeline work.
type Command interface {
	Executable

	// GetName returns the command name used in logs, spans and counters.
	GetName() string

	// GetInputParam returns the context key holding this command's input.
	GetInputParam() string

	// GetOutputParam returns the context key this command writes its output to.
	GetOutputParam() string

	// IsExecutable is the precondition check run before Execute.
	IsExecutable(context Context) bool

	GetTracer() trace.Tracer
	GetMeter() metric.Meter
	GetSuccessCounter() metric.Int64Counter
	GetErrorCounter() metric.Int64Counter
}

// Chain is an ordered sequence of commands. A Chain is itself a Command, so
// chains can nest.
type Chain interface {
	Command

	// ContinueOnFailure configures whether the chain keeps executing after a
	// command records an error. The render pipeline leaves this false: a
	// failed scene must fail the whole job rather than ship a partial video.
	ContinueOnFailure(bool) Chain

	// AddCommand appends a command to the execution sequence.
	AddCommand(command Command) Chain
}
