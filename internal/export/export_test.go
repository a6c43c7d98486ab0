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

package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reelscope/shortform-analyzer/internal/core/model"
)

func sampleReport() *model.AnalysisReport {
	return &model.AnalysisReport{
		VideoDuration:  21.5,
		OverallSummary: "A fast-paced serum ad leaning on urgency.",
		Warnings:       []string{"the analysis completed but the usage counter could not be updated"},
		SceneResults: []*model.SceneAnalysisResult{
			{
				SceneNo:              1,
				Start:                0,
				End:                  4.25,
				Duration:             4.25,
				VisualDescription:    "Close-up of a serum bottle, café lighting",
				OnScreenText:         "GLOW IN 7 DAYS",
				Vibes:                "bright, energetic",
				PsychologicalEffects: "curiosity",
				HookFactor:           "Strong pattern interrupt",
				AudioTranscript:      "Tired of dull skin?",
			},
			{
				SceneNo:              2,
				Start:                4.25,
				End:                  21.5,
				Duration:             17.25,
				VisualDescription:    "Model applies serum | before/after split",
				OnScreenText:         "",
				Vibes:                "aspirational",
				PsychologicalEffects: "social proof",
				HookFactor:           model.HookNotApplicable,
				AudioTranscript:      "Meet the glow serum.",
			},
		},
	}
}

func TestToCSV(t *testing.T) {
	out, err := ToCSV(sampleReport())
	require.NoError(t, err)

	require.True(t, bytes.HasPrefix(out, []byte{0xEF, 0xBB, 0xBF}), "CSV must carry a UTF-8 BOM")

	records, err := csv.NewReader(bytes.NewReader(out[3:])).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, csvHeader, records[0])
	assert.Equal(t, "1", records[1][0])
	assert.Equal(t, "0.00s", records[1][1])
	assert.Equal(t, "4.25s", records[1][2])
	assert.Equal(t, "17.25s", records[2][3])
	assert.Equal(t, "-", records[2][8])
}

func TestToCSVDeterministic(t *testing.T) {
	report := sampleReport()
	first, err := ToCSV(report)
	require.NoError(t, err)
	second, err := ToCSV(report)
	require.NoError(t, err)
	assert.Equal(t, first, second, "exporting twice must yield identical bytes")
}

func TestToCSVEmptyReport(t *testing.T) {
	out, err := ToCSV(&model.AnalysisReport{})
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(out[3:])).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1, "an empty report still exports the header row")
}

func TestToMarkdown(t *testing.T) {
	out := string(ToMarkdown(sampleReport()))

	assert.Contains(t, out, "# Video Analysis Report")
	assert.Contains(t, out, "## Overall Summary")
	assert.Contains(t, out, "## Scene Breakdown")
	assert.Contains(t, out, "| Scene No | Start Time |")
	assert.Contains(t, out, "usage counter could not be updated")

	// Pipes inside model text must not break the table.
	assert.Contains(t, out, `Model applies serum \| before/after split`)

	// Every table row has the full column count; escaped pipes inside
	// cells are not cell separators.
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "| ") {
			assert.Equal(t, len(csvHeader)-1, strings.Count(line, " | "),
				"row %q has the wrong column count", line)
		}
	}
}

func TestToMarkdownNoSummary(t *testing.T) {
	report := sampleReport()
	report.OverallSummary = ""
	report.Warnings = nil

	out := string(ToMarkdown(report))
	assert.NotContains(t, out, "## Overall Summary")
	assert.NotContains(t, out, "## Notes")
	assert.Contains(t, out, "## Scene Breakdown")
}
