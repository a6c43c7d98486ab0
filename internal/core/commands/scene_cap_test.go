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

package commands

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reelscope/shortform-analyzer/internal/core/cor"
	"github.com/reelscope/shortform-analyzer/internal/core/model"
)

func makeIntervals(n int) []model.SceneInterval {
	out := make([]model.SceneInterval, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, model.SceneInterval{Start: float64(i), End: float64(i + 1)})
	}
	return out
}

func TestSceneCapTruncates(t *testing.T) {
	cmd := NewSceneCap("scene_cap", 30)
	cmd.InputParamName = ParamScenes
	cmd.OutputParamName = ParamScenes

	ctx := cor.NewBaseContext()
	ctx.SetContext(context.Background())
	ctx.Add(ParamScenes, makeIntervals(42))

	cmd.Execute(ctx)

	kept := ctx.Get(ParamScenes).([]model.SceneInterval)
	require.Len(t, kept, 30)
	// Truncation keeps the earliest scenes in order.
	assert.Equal(t, 0.0, kept[0].Start)
	assert.Equal(t, 30.0, kept[29].End)

	warnings := ctx.GetWarnings()
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "first 30")
	assert.False(t, ctx.HasErrors())
}

func TestSceneCapUnderLimit(t *testing.T) {
	cmd := NewSceneCap("scene_cap", 30)
	cmd.InputParamName = ParamScenes
	cmd.OutputParamName = ParamScenes

	ctx := cor.NewBaseContext()
	ctx.SetContext(context.Background())
	ctx.Add(ParamScenes, makeIntervals(3))

	cmd.Execute(ctx)

	assert.Len(t, ctx.Get(ParamScenes).([]model.SceneInterval), 3)
	assert.Empty(t, ctx.GetWarnings())
}

func TestSceneCapExactLimit(t *testing.T) {
	cmd := NewSceneCap("scene_cap", 30)
	cmd.InputParamName = ParamScenes
	cmd.OutputParamName = ParamScenes

	ctx := cor.NewBaseContext()
	ctx.SetContext(context.Background())
	ctx.Add(ParamScenes, makeIntervals(30))

	cmd.Execute(ctx)

	assert.Len(t, ctx.Get(ParamScenes).([]model.SceneInterval), 30)
	assert.Empty(t, ctx.GetWarnings(), "hitting the limit exactly is not a truncation")
}
