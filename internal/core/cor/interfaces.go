// Copyright 2025 Reelscope, LLC
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

// Package cor (Chain of Responsibility) provides the fundamental building
// blocks for creating workflows. This file defines the core interfaces
// governing the behavior of all components within the pattern.
package cor

import (
	"context"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// CtxIn and CtxOut are the keys managing the primary data flow within a
// BaseChain: the chain moves each command's CtxOut value into CtxIn for
// the next command.
const (
	CtxIn  = "__IN__"
	CtxOut = "__OUT__"
)

// Context is the shared state object passed through a chain of commands.
// It acts as a property bag for a single workflow execution, carrying
// data, errors, warnings, progress, and temporary-file bookkeeping
// between commands.
type Context interface {
	// SetContext sets the standard Go context, used for cancellation and
	// trace propagation.
	SetContext(context context.Context)

	// GetContext retrieves the standard Go context.
	GetContext() context.Context

	// Add stores a key-value pair, returning the Context for chaining.
	Add(key string, value interface{}) Context

	// Get retrieves a value by key, nil when absent.
	Get(key string) interface{}

	// Remove deletes a key-value pair.
	Remove(key string)

	// AddError records an error produced by a command. The key should be
	// the command name. An error halts a chain that is not configured to
	// continue on failure.
	AddError(key string, err error)

	// GetErrors returns all errors collected during the workflow.
	GetErrors() map[string]error

	// HasErrors reports whether any errors have been recorded.
	HasErrors() bool

	// AddWarning records a non-fatal, user-visible notice (quota update
	// failure, scene truncation). Warnings never halt the chain.
	AddWarning(message string)

	// GetWarnings returns all warnings in the order recorded.
	GetWarnings() []string

	// ReportProgress publishes a completion percentage for the run.
	// Values are clamped to be monotonically non-decreasing.
	ReportProgress(percent int)

	// OnProgress registers the callback invoked by ReportProgress.
	OnProgress(fn func(percent int))

	// AddTempFile tracks a temporary file created during the workflow so
	// Close can remove it.
	AddTempFile(file string)

	// GetTempFiles returns all tracked temporary file paths.
	GetTempFiles() []string

	// Close deletes all tracked temporary files. Deferred at the start of
	// a workflow so cleanup runs on every exit path.
	Close()
}

// Executable is any object with a core execution step.
type Executable interface {
	Execute(context Context)
}

// Command represents an atomic, testable unit of work: the fundamental
// building block of a workflow.
type Command interface {
	Executable

	// GetName returns the command name, used for logging and telemetry.
	GetName() string

	// GetInputParam returns the context key holding the command's input.
	GetInputParam() string

	// GetOutputParam returns the context key receiving the command's output.
	GetOutputParam() string

	// IsExecutable checks the preconditions for Execute.
	IsExecutable(context Context) bool

	// GetTracer returns the OpenTelemetry tracer for this command.
	GetTracer() trace.Tracer

	// GetMeter returns the OpenTelemetry meter for creating metrics.
	GetMeter() metric.Meter

	// GetSuccessCounter returns a counter for successful executions.
	GetSuccessCounter() metric.Int64Counter

	// GetErrorCounter returns a counter for failed executions.
	GetErrorCounter() metric.Int64Counter
}

// Chain is a sequence of commands. A Chain is itself a Command, so chains
// nest (Composite pattern).
type Chain interface {
	Command

	// ContinueOnFailure configures whether the chain keeps executing after
	// a command records an error.
	ContinueOnFailure(bool) Chain

	// AddCommand appends a command to the execution sequence.
	AddCommand(command Command) Chain
}
