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

// This file defines the command at the heart of the pipeline: per-scene
// vision analysis.
//
// Logic Flow:
//  1. For each retained scene interval, grab the frame at the interval
//     midpoint as the scene's representative image. A failed grab (seeks
//     near the end of the file can land past the last frame) skips the
//     scene with a warning instead of failing the run.
//  2. Collect the transcript segments spoken during the interval.
//  3. Render the prompt template with the scene metadata, transcript, a
//     hook instruction for the opening two scenes, and a full example of
//     the required JSON shape, then send it with the frame to the vision
//     model.
//  4. Parse the constrained five-key JSON response. A failed call or
//     malformed response yields a result with every analysis field set to
//     the error sentinel, so one bad scene never hides the others.
//
// Scenes are processed sequentially, newest progress never less than the
// last: the per-scene progress updates are what the client polls.
package commands

import (
	goctx "context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"text/template"

	"go.opentelemetry.io/otel/metric"
	"google.golang.org/genai"

	"github.com/reelscope/shortform-analyzer/internal/cloud"
	"github.com/reelscope/shortform-analyzer/internal/core/cor"
	"github.com/reelscope/shortform-analyzer/internal/core/model"
	"github.com/reelscope/shortform-analyzer/internal/media"
	"github.com/reelscope/shortform-analyzer/internal/transcribe"
)

// hookSceneCount is how many opening scenes get a real hook-factor
// assessment; every later scene's hook factor is the not-applicable mark.
const hookSceneCount = 2

// scenePromptData is the payload rendered into the scene prompt template.
type scenePromptData struct {
	SceneNumber     int
	StartTime       string
	EndTime         string
	Duration        string
	Transcript      string
	HookInstruction string
	ExampleJSON     string
}

// SceneAnalyze runs the vision model over each retained scene.
type SceneAnalyze struct {
	cor.BaseCommand
	generativeAIModel  *cloud.QuotaAwareGenerativeAIModel
	promptTemplate     *template.Template
	hookInstruction    string
	inputTokenCounter  metric.Int64Counter
	outputTokenCounter metric.Int64Counter
	retryCounter       metric.Int64Counter
}

// NewSceneAnalyze is the constructor for the SceneAnalyze command.
//
// Inputs:
//   - name: A string name for this command instance.
//   - model: The rate-limited client for the vision model.
//   - prompt: The parsed Go template for the per-scene prompt.
//   - hookInstruction: The extra instruction injected for scenes 1 and 2.
//
// Outputs:
//   - *SceneAnalyze: A pointer to the newly instantiated command.
func NewSceneAnalyze(
	name string,
	model *cloud.QuotaAwareGenerativeAIModel,
	prompt *template.Template,
	hookInstruction string) *SceneAnalyze {
	out := &SceneAnalyze{
		BaseCommand:       *cor.NewBaseCommand(name),
		generativeAIModel: model,
		promptTemplate:    prompt,
		hookInstruction:   hookInstruction,
	}

	out.inputTokenCounter, _ = out.GetMeter().Int64Counter(fmt.Sprintf("%s.genai.token.input", out.GetName()))
	out.outputTokenCounter, _ = out.GetMeter().Int64Counter(fmt.Sprintf("%s.genai.token.output", out.GetName()))
	out.retryCounter, _ = out.GetMeter().Int64Counter(fmt.Sprintf("%s.genai.retry", out.GetName()))

	return out
}

// IsExecutable requires the interval list plus the video path.
func (c *SceneAnalyze) IsExecutable(context cor.Context) bool {
	return context != nil &&
		context.Get(c.GetInputParam()) != nil &&
		context.Get(ParamVideoPath) != nil
}

// Execute analyzes each scene in order and publishes the result list.
func (c *SceneAnalyze) Execute(context cor.Context) {
	ctx, span := c.GetTracer().Start(context.GetContext(), c.GetName())
	defer span.End()

	intervals := context.Get(c.GetInputParam()).([]model.SceneInterval)
	videoPath := context.Get(ParamVideoPath).(string)

	var segments []model.TranscriptSegment
	if transcript, ok := context.Get(ParamTranscript).(*model.Transcript); ok {
		segments = transcript.Segments
	}

	exampleJSON, _ := json.MarshalIndent(model.GetExampleSceneAnalysis(), "", "  ")

	results := make([]*model.SceneAnalysisResult, 0, len(intervals))
	for i, interval := range intervals {
		sceneNo := i + 1

		img, frameJPEG, ok := media.ExtractFrame(ctx, videoPath, interval.Midpoint())
		if !ok {
			context.AddWarning(fmt.Sprintf("no frame could be read for scene %d; scene skipped", sceneNo))
			context.ReportProgress(sceneProgress(i, len(intervals)))
			continue
		}

		sceneTranscript := transcribe.AlignSegments(segments, interval)

		fields, err := c.analyzeScene(ctx, sceneNo, interval, sceneTranscript, string(exampleJSON), frameJPEG)
		if err != nil {
			c.GetErrorCounter().Add(ctx, 1)
			slog.WarnContext(ctx, "scene analysis failed",
				slog.Int("scene", sceneNo),
				slog.String("error", err.Error()))
			fields = model.SceneAnalysisFields{
				VisualContent:        model.AnalysisErrorSentinel,
				OnScreenText:         model.AnalysisErrorSentinel,
				Vibes:                model.AnalysisErrorSentinel,
				PsychologicalEffects: model.AnalysisErrorSentinel,
				HookFactor:           model.AnalysisErrorSentinel,
			}
		} else {
			fields.HookFactor = shapeHookFactor(fields.HookFactor, sceneNo)
		}

		results = append(results, &model.SceneAnalysisResult{
			SceneNo:              sceneNo,
			Start:                interval.Start,
			End:                  interval.End,
			Duration:             interval.Duration(),
			VisualDescription:    fields.VisualContent,
			OnScreenText:         fields.OnScreenText,
			Vibes:                fields.Vibes,
			PsychologicalEffects: fields.PsychologicalEffects,
			HookFactor:           fields.HookFactor,
			AudioTranscript:      sceneTranscript,
			FrameJPEG:            frameJPEG,
			FrameImage:           img,
		})
		context.ReportProgress(sceneProgress(i, len(intervals)))
	}

	c.GetSuccessCounter().Add(ctx, 1)
	context.Add(c.GetOutputParam(), results)
}

// analyzeScene renders the prompt, issues the multimodal call, and parses
// the constrained JSON response.
func (c *SceneAnalyze) analyzeScene(
	ctx goctx.Context,
	sceneNo int,
	interval model.SceneInterval,
	sceneTranscript string,
	exampleJSON string,
	frameJPEG []byte) (model.SceneAnalysisFields, error) {
	hookInstruction := ""
	if sceneNo <= hookSceneCount {
		hookInstruction = c.hookInstruction
	}

	data := &scenePromptData{
		SceneNumber:     sceneNo,
		StartTime:       fmt.Sprintf("%.2fs", interval.Start),
		EndTime:         fmt.Sprintf("%.2fs", interval.End),
		Duration:        fmt.Sprintf("%.2fs", interval.Duration()),
		Transcript:      sceneTranscript,
		HookInstruction: hookInstruction,
		ExampleJSON:     exampleJSON,
	}

	var prompt strings.Builder
	if err := c.promptTemplate.Execute(&prompt, data); err != nil {
		return model.SceneAnalysisFields{}, fmt.Errorf("rendering scene prompt: %w", err)
	}

	content := []*genai.Content{{
		Role: "user",
		Parts: []*genai.Part{
			cloud.NewTextPart(prompt.String()),
			cloud.NewInlineImage(frameJPEG, "image/jpeg"),
		},
	}}

	raw, err := cloud.GenerateMultiModalResponse(ctx,
		c.inputTokenCounter, c.outputTokenCounter, c.retryCounter, 0,
		c.generativeAIModel, content)
	if err != nil {
		return model.SceneAnalysisFields{}, err
	}
	return parseSceneAnalysis(raw)
}

// shapeHookFactor applies the opening-scene rule to a successful
// analysis: whatever the model said about a scene past the first two is
// overwritten with the not-applicable mark. For the opening scenes the
// model's answer passes through untouched, blank included, so a declined
// assessment stays distinguishable from "not applicable".
func shapeHookFactor(hook string, sceneNo int) string {
	if sceneNo > hookSceneCount {
		return model.HookNotApplicable
	}
	return hook
}

// parseSceneAnalysis decodes the model's five-key JSON response.
func parseSceneAnalysis(raw string) (model.SceneAnalysisFields, error) {
	var fields model.SceneAnalysisFields
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return model.SceneAnalysisFields{}, fmt.Errorf("malformed scene analysis response: %w", err)
	}
	return fields, nil
}

// sceneProgress maps a completed zero-based scene index onto the
// analysis portion of the progress bar.
func sceneProgress(completedIndex, total int) int {
	if total <= 0 {
		return progressDone
	}
	return progressSegmented + analysisSpan*(completedIndex+1)/total
}
