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

// This file defines the first command of the analysis pipeline: it takes
// the raw upload bytes off the context, persists them to a temp file the
// rest of the pipeline can hand to ffmpeg, probes the container, and
// rejects anything over the duration ceiling before a single model token
// is spent.
package commands

import (
	goctx "context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/reelscope/shortform-analyzer/internal/core/cor"
	"github.com/reelscope/shortform-analyzer/internal/media"
)

// ErrVideoTooLong rejects uploads over the configured duration ceiling.
// It is a terminal, user-visible error raised before any analysis cost.
var ErrVideoTooLong = errors.New("video exceeds the maximum supported duration")

// MediaIngest persists the uploaded bytes and gates on duration.
type MediaIngest struct {
	cor.BaseCommand
	maxDurationSeconds float64
	persist            func(data []byte) (string, error)
	probe              func(ctx goctx.Context, path string) (*media.Metadata, error)
}

// NewMediaIngest is the constructor for the MediaIngest command.
//
// Inputs:
//   - name: A string name for this command instance.
//   - maxDurationSeconds: The duration ceiling for accepted uploads.
//
// Outputs:
//   - *MediaIngest: A pointer to the newly instantiated command.
func NewMediaIngest(name string, maxDurationSeconds float64) *MediaIngest {
	return &MediaIngest{
		BaseCommand:        *cor.NewBaseCommand(name),
		maxDurationSeconds: maxDurationSeconds,
		persist:            media.WriteUploadToTemp,
		probe:              media.Probe,
	}
}

// Execute writes the upload to disk, probes it, and enforces the gate.
//
// Inputs:
//   - context: The shared `cor.Context` for this workflow execution.
func (c *MediaIngest) Execute(context cor.Context) {
	ctx, span := c.GetTracer().Start(context.GetContext(), c.GetName())
	defer span.End()

	data := context.Get(c.GetInputParam()).([]byte)

	videoPath, err := c.persist(data)
	if err != nil {
		c.GetErrorCounter().Add(ctx, 1)
		context.AddError(c.GetName(), err)
		return
	}
	// Track the file immediately so cleanup covers every exit path below.
	context.AddTempFile(videoPath)

	md, err := c.probe(ctx, videoPath)
	if err != nil {
		c.GetErrorCounter().Add(ctx, 1)
		context.AddError(c.GetName(), err)
		return
	}

	if md.Duration > c.maxDurationSeconds {
		c.GetErrorCounter().Add(ctx, 1)
		context.AddError(c.GetName(), fmt.Errorf("%w: %.2fs > %.0fs",
			ErrVideoTooLong, md.Duration, c.maxDurationSeconds))
		return
	}

	slog.InfoContext(ctx, "ingested upload",
		slog.String("path", videoPath),
		slog.Float64("duration_seconds", md.Duration),
		slog.Float64("frame_rate", md.FrameRate),
		slog.Bool("has_audio", md.HasAudio))

	c.GetSuccessCounter().Add(ctx, 1)
	context.Add(ParamVideoMetadata, md)
	context.Add(c.GetOutputParam(), videoPath)
}
