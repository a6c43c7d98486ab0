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

package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reelscope/shortform-analyzer/internal/core/cor"
	"github.com/reelscope/shortform-analyzer/internal/core/model"
)

func TestSessionLifecycle(t *testing.T) {
	svc := NewSessionService(time.Hour)
	user := &model.User{Username: "alice", Usage: 1, Limit: 10}

	token := svc.Create(user)
	require.NotEmpty(t, token)

	resolved, err := svc.Resolve(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", resolved.Username)

	svc.Invalidate(token)
	_, err = svc.Resolve(token)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionExpiry(t *testing.T) {
	svc := NewSessionService(-time.Second)
	token := svc.Create(&model.User{Username: "bob"})

	_, err := svc.Resolve(token)
	assert.ErrorIs(t, err, ErrSessionNotFound, "a token past its ttl must not resolve")
}

func TestSessionUnknownToken(t *testing.T) {
	svc := NewSessionService(time.Hour)
	_, err := svc.Resolve("not-a-token")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRunStartRejectsExhaustedQuota(t *testing.T) {
	svc := NewRunService(nil, time.Minute)
	user := &model.User{Username: "carol", Usage: 5, Limit: 5}

	_, err := svc.Start(user, []byte("upload"), RunParams{Threshold: 27, MinSceneLen: 30})
	assert.ErrorIs(t, err, ErrQuotaExhausted)
}

func TestRunGetUnknown(t *testing.T) {
	svc := NewRunService(nil, time.Minute)
	_, err := svc.Get("missing")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

// panicWorkflow stands in for a pipeline that blows up mid-command.
type panicWorkflow struct{}

func (w *panicWorkflow) Execute(_ cor.Context) {
	panic("nil frame buffer")
}

func TestRunSurvivesWorkflowPanic(t *testing.T) {
	svc := NewRunService(&panicWorkflow{}, time.Minute)
	user := &model.User{Username: "dave", Usage: 0, Limit: 5}

	run, err := svc.Start(user, []byte("upload"), RunParams{Threshold: 27, MinSceneLen: 30})
	require.NoError(t, err)

	deadline := time.Now().Add(5 * time.Second)
	for {
		snapshot, err := svc.Get(run.ID)
		require.NoError(t, err)
		if snapshot.State != RunStateRunning {
			assert.Equal(t, RunStateFailed, snapshot.State)
			assert.Equal(t, "an unexpected error occurred during analysis", snapshot.Error)
			assert.Nil(t, snapshot.Report)
			return
		}
		require.True(t, time.Now().Before(deadline), "run never left the running state")
		time.Sleep(10 * time.Millisecond)
	}
}
