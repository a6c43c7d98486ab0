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
// blocks for creating workflows. This file defines `BaseContext`, the
// default implementation of the `Context` interface: the shared state
// machine passed through the chain of commands for one run.
package cor

import (
	"context"
	"log/slog"
	"os"
)

// BaseContext is the default implementation of the Context interface.
type BaseContext struct {
	data       map[string]interface{} // Arbitrary key-value data shared between commands.
	errors     map[string]error       // Errors keyed by the command name that produced them.
	warnings   []string               // Non-fatal user-visible notices, in order recorded.
	tempFiles  []string               // Paths of temporary files to clean up at run end.
	context    context.Context        // The standard Go context for cancellation and tracing.
	progressFn func(percent int)      // Callback receiving progress updates, may be nil.
	progress   int                    // Last reported percentage, enforces monotonicity.
}

// NewBaseContext creates an empty run context.
func NewBaseContext() Context {
	return &BaseContext{
		data:      make(map[string]interface{}),
		errors:    make(map[string]error),
		warnings:  make([]string, 0),
		tempFiles: make([]string, 0),
	}
}

// SetContext sets the underlying standard Go context. The BaseChain uses
// this to scope OpenTelemetry spans per command.
func (c *BaseContext) SetContext(context context.Context) {
	c.context = context
}

// GetContext retrieves the underlying standard Go context.
func (c *BaseContext) GetContext() context.Context {
	return c.context
}

// Close removes every tracked temporary file. Deferred at run start so the
// files are gone on success, rejection, and failure alike.
func (c *BaseContext) Close() {
	for _, file := range c.GetTempFiles() {
		if err := os.Remove(file); err != nil && !os.IsNotExist(err) {
			slog.Warn("failed to remove temporary file", "path", file, "error", err)
		}
	}
}

// Add stores a key-value pair in the context's data map.
func (c *BaseContext) Add(key string, value interface{}) Context {
	c.data[key] = value
	return c
}

// Get retrieves a value from the context's data map by its key.
func (c *BaseContext) Get(key string) interface{} {
	return c.data[key]
}

// Remove deletes a key-value pair from the context's data map.
func (c *BaseContext) Remove(key string) {
	delete(c.data, key)
}

// AddError records an error keyed by the command name.
func (c *BaseContext) AddError(key string, err error) {
	c.errors[key] = err
}

// GetErrors returns the map of all errors collected during the workflow.
func (c *BaseContext) GetErrors() map[string]error {
	return c.errors
}

// HasErrors reports whether any errors have been recorded.
func (c *BaseContext) HasErrors() bool {
	return len(c.errors) > 0
}

// AddWarning records a non-fatal, user-visible notice.
func (c *BaseContext) AddWarning(message string) {
	c.warnings = append(c.warnings, message)
}

// GetWarnings returns all warnings in the order recorded.
func (c *BaseContext) GetWarnings() []string {
	return c.warnings
}

// ReportProgress publishes a completion percentage. Reports below the last
// published value are ignored so callers always observe a monotonically
// non-decreasing sequence.
func (c *BaseContext) ReportProgress(percent int) {
	if percent < c.progress {
		return
	}
	if percent > 100 {
		percent = 100
	}
	c.progress = percent
	if c.progressFn != nil {
		c.progressFn(percent)
	}
}

// OnProgress registers the callback invoked by ReportProgress.
func (c *BaseContext) OnProgress(fn func(percent int)) {
	c.progressFn = fn
}

// AddTempFile adds a file path to the cleanup list.
func (c *BaseContext) AddTempFile(file string) {
	c.tempFiles = append(c.tempFiles, file)
}

// GetTempFiles returns the slice of all tracked temporary file paths.
func (c *BaseContext) GetTempFiles() []string {
	return c.tempFiles
}
