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

// This file defines the command that condenses the per-scene results into
// one overall marketing summary. An empty scene list produces an empty
// summary with no model call; a failed call produces a fixed placeholder
// string so the report stays renderable.
package commands

import (
	"fmt"
	"strings"
	"text/template"

	"go.opentelemetry.io/otel/metric"
	"google.golang.org/genai"

	"github.com/reelscope/shortform-analyzer/internal/cloud"
	"github.com/reelscope/shortform-analyzer/internal/core/cor"
	"github.com/reelscope/shortform-analyzer/internal/core/model"
)

// SummaryFailedText replaces the overall summary when the model call
// fails. A fixed string keeps the failure visible without leaking error
// internals into a user-facing report.
const SummaryFailedText = "The overall summary could not be generated for this run."

// summaryPromptData is the payload rendered into the summary template.
type summaryPromptData struct {
	SceneCount int
	SceneLines string
	Transcript string
}

// SummaryCreate produces the whole-video marketing summary.
type SummaryCreate struct {
	cor.BaseCommand
	generativeAIModel  *cloud.QuotaAwareGenerativeAIModel
	promptTemplate     *template.Template
	inputTokenCounter  metric.Int64Counter
	outputTokenCounter metric.Int64Counter
	retryCounter       metric.Int64Counter
}

// NewSummaryCreate is the constructor for the SummaryCreate command.
func NewSummaryCreate(
	name string,
	model *cloud.QuotaAwareGenerativeAIModel,
	prompt *template.Template) *SummaryCreate {
	out := &SummaryCreate{
		BaseCommand:       *cor.NewBaseCommand(name),
		generativeAIModel: model,
		promptTemplate:    prompt,
	}

	out.inputTokenCounter, _ = out.GetMeter().Int64Counter(fmt.Sprintf("%s.genai.token.input", out.GetName()))
	out.outputTokenCounter, _ = out.GetMeter().Int64Counter(fmt.Sprintf("%s.genai.token.output", out.GetName()))
	out.retryCounter, _ = out.GetMeter().Int64Counter(fmt.Sprintf("%s.genai.retry", out.GetName()))

	return out
}

// Execute builds the summary prompt from the scene results and calls the
// summary model.
func (c *SummaryCreate) Execute(context cor.Context) {
	ctx, span := c.GetTracer().Start(context.GetContext(), c.GetName())
	defer span.End()

	results := context.Get(c.GetInputParam()).([]*model.SceneAnalysisResult)

	if len(results) == 0 {
		c.GetSuccessCounter().Add(ctx, 1)
		context.Add(c.GetOutputParam(), "")
		return
	}

	transcriptText := ""
	if transcript, ok := context.Get(ParamTranscript).(*model.Transcript); ok {
		transcriptText = transcript.Text
	}

	data := &summaryPromptData{
		SceneCount: len(results),
		SceneLines: buildSceneLines(results),
		Transcript: transcriptText,
	}

	var prompt strings.Builder
	if err := c.promptTemplate.Execute(&prompt, data); err != nil {
		c.GetErrorCounter().Add(ctx, 1)
		context.AddWarning(fmt.Sprintf("summary prompt rendering failed: %v", err))
		context.Add(c.GetOutputParam(), SummaryFailedText)
		return
	}

	content := []*genai.Content{{
		Role:  "user",
		Parts: []*genai.Part{cloud.NewTextPart(prompt.String())},
	}}

	summary, err := cloud.GenerateMultiModalResponse(ctx,
		c.inputTokenCounter, c.outputTokenCounter, c.retryCounter, 0,
		c.generativeAIModel, content)
	if err != nil {
		c.GetErrorCounter().Add(ctx, 1)
		context.AddWarning(fmt.Sprintf("summary generation failed: %v", err))
		context.Add(c.GetOutputParam(), SummaryFailedText)
		return
	}

	c.GetSuccessCounter().Add(ctx, 1)
	context.Add(c.GetOutputParam(), summary)
}

// buildSceneLines renders one prompt line per scene. The psychology and
// hook fields ride along because the summary is asked to name the
// dominant persuasion technique across the video.
func buildSceneLines(results []*model.SceneAnalysisResult) string {
	var lines strings.Builder
	for _, r := range results {
		fmt.Fprintf(&lines, "Scene %d (%.2fs-%.2fs): %s (Psychology: %s, Hook: %s)\n",
			r.SceneNo, r.Start, r.End, r.VisualDescription, r.PsychologicalEffects, r.HookFactor)
	}
	return lines.String()
}
