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

package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reelscope/shortform-analyzer/internal/cloud"
	"github.com/reelscope/shortform-analyzer/internal/core/cor"
)

func testConfig() *cloud.Config {
	config := cloud.NewConfig()
	config.PromptTemplates.ScenePrompt = "Scene {{.SceneNumber}}: {{.Transcript}} {{.HookInstruction}} {{.ExampleJSON}}"
	config.PromptTemplates.HookPrompt = "Assess the hook."
	config.PromptTemplates.SummaryPrompt = "{{.SceneCount}} scenes: {{.SceneLines}}"
	return config
}

func testClients() *cloud.ServiceClients {
	return &cloud.ServiceClients{
		AgentModels: map[string]*cloud.QuotaAwareGenerativeAIModel{
			"vision":  {},
			"summary": {},
		},
	}
}

func TestNewAnalysisWorkflow(t *testing.T) {
	wf, err := NewAnalysisWorkflow(testConfig(), testClients(), nil, "vision", "summary")
	require.NoError(t, err)
	assert.Equal(t, "analysis-workflow", wf.GetName())
	assert.NotNil(t, wf.chain)
}

func TestAnalysisWorkflowCommandOrder(t *testing.T) {
	wf, err := NewAnalysisWorkflow(testConfig(), testClients(), nil, "vision", "summary")
	require.NoError(t, err)

	chain, ok := wf.chain.(*cor.BaseChain)
	require.True(t, ok)

	names := make([]string, 0, len(chain.Commands()))
	for _, cmd := range chain.Commands() {
		names = append(names, cmd.GetName())
	}
	// Transcription runs before segmentation: the progress bar reaches 20
	// once audio is handled and 40 once the scene list exists.
	assert.Equal(t, []string{
		"media-ingest",
		"audio-transcribe",
		"scene-detect",
		"scene-cap",
		"scene-analyze",
		"summary-create",
		"usage-record",
		"report-assemble",
	}, names)
}

func TestNewAnalysisWorkflowMissingModel(t *testing.T) {
	_, err := NewAnalysisWorkflow(testConfig(), testClients(), nil, "vision", "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing")
}

func TestNewAnalysisWorkflowBadTemplate(t *testing.T) {
	config := testConfig()
	config.PromptTemplates.ScenePrompt = "{{.Unclosed"
	_, err := NewAnalysisWorkflow(config, testClients(), nil, "vision", "summary")
	assert.Error(t, err)
}
