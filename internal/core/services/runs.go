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

// This file, `runs.go`, defines the RunService: it owns the lifecycle of
// analysis runs. A run is started for an authenticated user, executes the
// pipeline on its own goroutine, exposes monotonic progress for polling,
// and holds the finished report in memory until the process exits.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/reelscope/shortform-analyzer/internal/core/commands"
	"github.com/reelscope/shortform-analyzer/internal/core/cor"
	"github.com/reelscope/shortform-analyzer/internal/core/model"
)

// Workflow is the pipeline a run executes. *workflow.AnalysisWorkflow is
// the production implementation.
type Workflow interface {
	Execute(context cor.Context)
}

// Run lifecycle states.
const (
	RunStateRunning  = "running"
	RunStateComplete = "complete"
	RunStateFailed   = "failed"
)

var (
	// ErrRunNotFound indicates an unknown run ID.
	ErrRunNotFound = errors.New("services: run not found")
	// ErrQuotaExhausted rejects a run before it starts when the user has
	// no remaining quota.
	ErrQuotaExhausted = errors.New("services: usage limit reached")
)

// RunParams are the caller-tunable knobs for one analysis run, already
// clamped into their valid ranges by the HTTP layer.
type RunParams struct {
	Threshold   float64
	MinSceneLen int
}

// Run is the observable state of one analysis. Progress only moves
// forward; Report and Error are set exactly once, on completion.
type Run struct {
	ID        string
	Username  string
	State     string
	Progress  int
	Report    *model.AnalysisReport
	Error     string
	StartedAt time.Time
}

// RunService starts analysis runs and answers polls about them.
type RunService struct {
	mu       sync.RWMutex
	runs     map[string]*Run
	workflow Workflow
	timeout  time.Duration
}

// NewRunService creates a RunService executing runs against the given
// workflow, each bounded by the timeout.
func NewRunService(wf Workflow, timeout time.Duration) *RunService {
	return &RunService{
		runs:     make(map[string]*Run),
		workflow: wf,
		timeout:  timeout,
	}
}

// Start validates quota, registers a run, and launches the pipeline on a
// background goroutine.
//
// Inputs:
//   - user: The authenticated user charged for the run.
//   - upload: The raw bytes of the uploaded video.
//   - params: Clamped detector parameters.
//
// Outputs:
//   - *Run: The registered run, in the running state.
//   - error: ErrQuotaExhausted when the user has no remaining runs.
func (s *RunService) Start(user *model.User, upload []byte, params RunParams) (*Run, error) {
	if usage, limit := user.QuotaState(); limit-usage <= 0 {
		return nil, fmt.Errorf("%w: %d of %d used", ErrQuotaExhausted, usage, limit)
	}

	run := &Run{
		ID:        uuid.NewString(),
		Username:  user.Username,
		State:     RunStateRunning,
		StartedAt: time.Now(),
	}
	s.mu.Lock()
	s.runs[run.ID] = run
	s.mu.Unlock()

	go s.execute(run, user, upload, params)
	return run, nil
}

// execute drives the workflow for one run and records its outcome.
func (s *RunService) execute(run *Run, user *model.User, upload []byte, params RunParams) {
	// The run owns this goroutine; a panic anywhere in the pipeline must
	// fail the one run, not the process. Registered first so temp-file
	// cleanup and the context cancel still execute while unwinding.
	defer func() {
		if r := recover(); r != nil {
			slog.Error("analysis run panicked",
				slog.String("run_id", run.ID),
				slog.Any("panic", r))
			s.mu.Lock()
			run.State = RunStateFailed
			run.Error = "an unexpected error occurred during analysis"
			s.mu.Unlock()
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	wfCtx := cor.NewBaseContext()
	defer wfCtx.Close()
	wfCtx.SetContext(ctx)
	wfCtx.Add(cor.CtxIn, upload)
	wfCtx.Add(commands.ParamUser, user)
	wfCtx.Add(commands.ParamThreshold, params.Threshold)
	wfCtx.Add(commands.ParamMinSceneLen, params.MinSceneLen)
	wfCtx.OnProgress(func(percent int) {
		s.mu.Lock()
		run.Progress = percent
		s.mu.Unlock()
	})

	s.workflow.Execute(wfCtx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if wfCtx.HasErrors() {
		run.State = RunStateFailed
		for name, err := range wfCtx.GetErrors() {
			// One failing command is what stops the chain, so the first
			// error reported is the one shown to the user.
			run.Error = err.Error()
			slog.Error("analysis run failed",
				slog.String("run_id", run.ID),
				slog.String("command", name),
				slog.String("error", err.Error()))
			break
		}
		return
	}

	report, ok := wfCtx.Get(commands.ParamReport).(*model.AnalysisReport)
	if !ok {
		run.State = RunStateFailed
		run.Error = "the analysis produced no report"
		return
	}

	run.State = RunStateComplete
	run.Progress = 100
	run.Report = report
	slog.Info("analysis run complete",
		slog.String("run_id", run.ID),
		slog.String("username", run.Username),
		slog.Int("scenes", len(report.SceneResults)),
		slog.Duration("elapsed", time.Since(run.StartedAt)))
}

// Get returns a snapshot of a run's observable state.
func (s *RunService) Get(id string) (*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	run, ok := s.runs[id]
	if !ok {
		return nil, ErrRunNotFound
	}
	snapshot := *run
	return &snapshot, nil
}
