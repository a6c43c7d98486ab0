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

// This file defines the final command of the pipeline: it gathers the
// scene results, the overall summary, and any warnings accumulated along
// the way into the report handed back to the caller.
package commands

import (
	"log/slog"

	"github.com/reelscope/shortform-analyzer/internal/core/cor"
	"github.com/reelscope/shortform-analyzer/internal/core/model"
	"github.com/reelscope/shortform-analyzer/internal/media"
)

// ReportAssemble packages the run's outputs into an AnalysisReport.
type ReportAssemble struct {
	cor.BaseCommand
}

// NewReportAssemble is the constructor for the ReportAssemble command.
func NewReportAssemble(name string) *ReportAssemble {
	return &ReportAssemble{BaseCommand: *cor.NewBaseCommand(name)}
}

// Execute assembles and publishes the final report.
func (c *ReportAssemble) Execute(context cor.Context) {
	ctx, span := c.GetTracer().Start(context.GetContext(), c.GetName())
	defer span.End()

	results := context.Get(c.GetInputParam()).([]*model.SceneAnalysisResult)

	report := &model.AnalysisReport{
		SceneResults: results,
		Warnings:     context.GetWarnings(),
	}
	if summary, ok := context.Get(ParamSummary).(string); ok {
		report.OverallSummary = summary
	}
	if md, ok := context.Get(ParamVideoMetadata).(*media.Metadata); ok {
		report.VideoDuration = md.Duration
	}

	slog.InfoContext(ctx, "assembled report",
		slog.Int("scenes", len(report.SceneResults)),
		slog.Int("warnings", len(report.Warnings)))

	c.GetSuccessCounter().Add(ctx, 1)
	context.Add(c.GetOutputParam(), report)
	context.ReportProgress(progressDone)
}
