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

// This file defines the command that segments the ingested video into
// scene intervals with ffmpeg's content detector. Detector parameters
// come from the context (already clamped by the caller); the configured
// defaults apply when a run omits them.
package commands

import (
	"log/slog"

	"github.com/reelscope/shortform-analyzer/internal/cloud"
	"github.com/reelscope/shortform-analyzer/internal/core/cor"
	"github.com/reelscope/shortform-analyzer/internal/core/model"
	"github.com/reelscope/shortform-analyzer/internal/media"
)

// SceneDetect segments the video into contiguous scene intervals.
type SceneDetect struct {
	cor.BaseCommand
	limits cloud.Limits
}

// NewSceneDetect is the constructor for the SceneDetect command.
func NewSceneDetect(name string, limits cloud.Limits) *SceneDetect {
	return &SceneDetect{
		BaseCommand: *cor.NewBaseCommand(name),
		limits:      limits,
	}
}

// Execute runs the detector and publishes the interval list.
//
// Inputs:
//   - context: The shared `cor.Context` for this workflow execution.
func (c *SceneDetect) Execute(context cor.Context) {
	ctx, span := c.GetTracer().Start(context.GetContext(), c.GetName())
	defer span.End()

	videoPath := context.Get(c.GetInputParam()).(string)

	threshold := c.limits.DefaultThreshold
	if v, ok := context.Get(ParamThreshold).(float64); ok {
		threshold = v
	}
	minSceneLen := c.limits.DefaultMinSceneLen
	if v, ok := context.Get(ParamMinSceneLen).(int); ok {
		minSceneLen = v
	}

	intervals, err := media.DetectScenes(ctx, videoPath, threshold, minSceneLen)
	if err != nil {
		c.GetErrorCounter().Add(ctx, 1)
		context.AddError(c.GetName(), err)
		return
	}
	if len(intervals) == 0 {
		// Degenerate container durations produce no intervals; treat the
		// whole video as a single scene rather than failing the run.
		if md, ok := context.Get(ParamVideoMetadata).(*media.Metadata); ok && md.Duration > 0 {
			intervals = []model.SceneInterval{{Start: 0, End: md.Duration}}
		}
	}

	slog.InfoContext(ctx, "detected scenes",
		slog.Int("count", len(intervals)),
		slog.Float64("threshold", threshold),
		slog.Int("min_scene_len", minSceneLen))

	c.GetSuccessCounter().Add(ctx, 1)
	context.Add(c.GetOutputParam(), intervals)
	context.ReportProgress(progressSegmented)
}
