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

// This file defines the cost-control command that caps how many detected
// scenes proceed to model analysis. Truncation keeps list order, so the
// retained scenes are always the earliest ones, and it is surfaced to the
// user as a warning rather than silently shrinking the report.
package commands

import (
	"fmt"
	"log/slog"

	"github.com/reelscope/shortform-analyzer/internal/core/cor"
	"github.com/reelscope/shortform-analyzer/internal/core/model"
)

// SceneCap truncates the interval list to the analysis ceiling.
type SceneCap struct {
	cor.BaseCommand
	maxScenes int
}

// NewSceneCap is the constructor for the SceneCap command.
func NewSceneCap(name string, maxScenes int) *SceneCap {
	return &SceneCap{
		BaseCommand: *cor.NewBaseCommand(name),
		maxScenes:   maxScenes,
	}
}

// Execute applies the ceiling and records a warning when scenes are cut.
func (c *SceneCap) Execute(context cor.Context) {
	ctx, span := c.GetTracer().Start(context.GetContext(), c.GetName())
	defer span.End()

	intervals := context.Get(c.GetInputParam()).([]model.SceneInterval)

	if c.maxScenes > 0 && len(intervals) > c.maxScenes {
		dropped := len(intervals) - c.maxScenes
		intervals = intervals[:c.maxScenes]
		context.AddWarning(fmt.Sprintf(
			"detected %d scenes; analyzing the first %d (skipped %d to stay within the per-run limit)",
			c.maxScenes+dropped, c.maxScenes, dropped))
		slog.InfoContext(ctx, "capped scene list",
			slog.Int("kept", c.maxScenes),
			slog.Int("dropped", dropped))
	}

	c.GetSuccessCounter().Add(ctx, 1)
	context.Add(c.GetOutputParam(), intervals)
}
