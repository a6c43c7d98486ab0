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

// Package workflow defines the high-level business logic orchestrations,
// combining various commands into coherent pipelines. This file implements
// the end-to-end analysis of one uploaded short-form video.
package workflow

import (
	"fmt"
	"text/template"

	"github.com/reelscope/shortform-analyzer/internal/cloud"
	"github.com/reelscope/shortform-analyzer/internal/core/commands"
	"github.com/reelscope/shortform-analyzer/internal/core/cor"
	"github.com/reelscope/shortform-analyzer/internal/quota"
	"github.com/reelscope/shortform-analyzer/internal/transcribe"
)

// AnalysisWorkflow orchestrates the entire process of analyzing one
// uploaded video: ingest and duration gate, transcription, scene
// segmentation, per-scene vision analysis, overall summary, usage
// recording, and final report assembly. It is structured as a Chain of
// Responsibility (cor.Chain) executing a fixed sequence of commands.
//
// The workflow is triggered per upload by the HTTP layer; the context it
// receives carries the raw upload bytes as CtxIn plus the authenticated
// user and the (pre-clamped) detector parameters under their named keys.
type AnalysisWorkflow struct {
	cor.BaseCommand
	config          *cloud.Config
	visionModel     *cloud.QuotaAwareGenerativeAIModel
	summaryModel    *cloud.QuotaAwareGenerativeAIModel
	transcriber     *transcribe.Transcriber
	quotaStore      *quota.Store
	sceneTemplate   *template.Template
	summaryTemplate *template.Template
	chain           cor.Chain
}

// Execute runs the entire analysis workflow by invoking the underlying
// chain. The final report lands under the workflow's output parameter.
func (w *AnalysisWorkflow) Execute(context cor.Context) {
	w.chain.Execute(context)
}

// initializeChain builds the sequence of commands making up this
// workflow. Commands hand intermediate values to each other through the
// named context parameters in the commands package.
func (w *AnalysisWorkflow) initializeChain() {
	out := cor.NewBaseChain(w.GetName())

	// Step 1: Persist the upload bytes to a temp file, probe the
	// container, and reject anything over the duration ceiling.
	ingest := commands.NewMediaIngest("media-ingest", w.config.Limits.MaxVideoDurationSeconds)
	ingest.OutputParamName = commands.ParamVideoPath
	out.AddCommand(ingest)

	// Step 2: Extract the audio track and transcribe it. Best-effort:
	// failure downgrades to a warning and the run continues.
	transcribeCmd := commands.NewAudioTranscribe("audio-transcribe", w.transcriber)
	transcribeCmd.InputParamName = commands.ParamVideoPath
	out.AddCommand(transcribeCmd)

	// Step 3: Segment the video into scene intervals with the content
	// detector, honoring the per-run threshold and minimum scene length.
	detect := commands.NewSceneDetect("scene-detect", w.config.Limits)
	detect.InputParamName = commands.ParamVideoPath
	detect.OutputParamName = commands.ParamScenes
	out.AddCommand(detect)

	// Step 4: Cap the interval list at the per-run analysis ceiling.
	capCmd := commands.NewSceneCap("scene-cap", w.config.Limits.MaxAnalyzeScenes)
	capCmd.InputParamName = commands.ParamScenes
	capCmd.OutputParamName = commands.ParamScenes
	out.AddCommand(capCmd)

	// Step 5: Analyze each retained scene with the vision model, one
	// frame and one aligned transcript slice per scene.
	analyze := commands.NewSceneAnalyze("scene-analyze", w.visionModel, w.sceneTemplate, w.config.PromptTemplates.HookPrompt)
	analyze.InputParamName = commands.ParamScenes
	analyze.OutputParamName = commands.ParamSceneResults
	out.AddCommand(analyze)

	// Step 6: Condense the scene results into the overall marketing
	// summary.
	summary := commands.NewSummaryCreate("summary-create", w.summaryModel, w.summaryTemplate)
	summary.InputParamName = commands.ParamSceneResults
	summary.OutputParamName = commands.ParamSummary
	out.AddCommand(summary)

	// Step 7: Record one unit of quota usage now that the model cost has
	// been spent. Store failures surface as warnings, not run failures.
	out.AddCommand(commands.NewUsageRecord("usage-record", w.quotaStore))

	// Step 8: Assemble the final report from the scene results, summary,
	// and accumulated warnings.
	assemble := commands.NewReportAssemble("report-assemble")
	assemble.InputParamName = commands.ParamSceneResults
	assemble.OutputParamName = commands.ParamReport
	out.AddCommand(assemble)

	w.chain = out
}

// NewAnalysisWorkflow is the constructor for the AnalysisWorkflow. It
// compiles the prompt templates and initializes the command chain.
//
// Inputs:
//   - config: The application's overall configuration.
//   - serviceClients: The initialized external service clients.
//   - quotaStore: The credential/quota store used for usage recording.
//   - visionModelName: The agent model config key for per-scene analysis.
//   - summaryModelName: The agent model config key for the summary.
//
// Returns:
//   - A pointer to a newly created and fully initialized AnalysisWorkflow.
//   - An error when a prompt template fails to compile or a model key is
//     missing from the configuration.
func NewAnalysisWorkflow(
	config *cloud.Config,
	serviceClients *cloud.ServiceClients,
	quotaStore *quota.Store,
	visionModelName string,
	summaryModelName string,
) (*AnalysisWorkflow, error) {
	sceneTemplate, err := template.New("scene").Parse(config.PromptTemplates.ScenePrompt)
	if err != nil {
		return nil, err
	}
	summaryTemplate, err := template.New("summary").Parse(config.PromptTemplates.SummaryPrompt)
	if err != nil {
		return nil, err
	}

	visionModel, ok := serviceClients.AgentModels[visionModelName]
	if !ok {
		return nil, fmt.Errorf("agent model %q not configured", visionModelName)
	}
	summaryModel, ok := serviceClients.AgentModels[summaryModelName]
	if !ok {
		return nil, fmt.Errorf("agent model %q not configured", summaryModelName)
	}

	out := &AnalysisWorkflow{
		BaseCommand:     *cor.NewBaseCommand("analysis-workflow"),
		config:          config,
		visionModel:     visionModel,
		summaryModel:    summaryModel,
		transcriber:     transcribe.NewTranscriber(serviceClients.OpenAIClient, config.Transcriber.Model),
		quotaStore:      quotaStore,
		sceneTemplate:   sceneTemplate,
		summaryTemplate: summaryTemplate,
	}
	out.initializeChain()
	return out, nil
}
