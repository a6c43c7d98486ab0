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
	"fmt"
	"strings"

	"github.com/reelscope/shortform-analyzer/internal/core/model"
)

// ToMarkdown renders the report as a Markdown document: the overall
// summary, any run warnings, and the scene table.
//
// Inputs:
//   - report: The finished analysis report.
//
// Outputs:
//   - []byte: The encoded Markdown document.
func ToMarkdown(report *model.AnalysisReport) []byte {
	var b strings.Builder

	b.WriteString("# Video Analysis Report\n\n")
	fmt.Fprintf(&b, "Video duration: %s\n\n", formatTime(report.VideoDuration))

	if report.OverallSummary != "" {
		b.WriteString("## Overall Summary\n\n")
		b.WriteString(report.OverallSummary)
		b.WriteString("\n\n")
	}

	if len(report.Warnings) > 0 {
		b.WriteString("## Notes\n\n")
		for _, w := range report.Warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Scene Breakdown\n\n")
	b.WriteString("| " + strings.Join(csvHeader, " | ") + " |\n")
	b.WriteString("|" + strings.Repeat(" --- |", len(csvHeader)) + "\n")
	for _, r := range report.SceneResults {
		cells := []string{
			fmt.Sprintf("%d", r.SceneNo),
			formatTime(r.Start),
			formatTime(r.End),
			formatTime(r.Duration),
			escapeCell(r.VisualDescription),
			escapeCell(r.OnScreenText),
			escapeCell(r.Vibes),
			escapeCell(r.PsychologicalEffects),
			escapeCell(r.HookFactor),
			escapeCell(r.AudioTranscript),
		}
		b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}

	return []byte(b.String())
}

// escapeCell keeps free-form model text from breaking the table layout.
func escapeCell(in string) string {
	out := strings.ReplaceAll(in, "|", "\\|")
	out = strings.ReplaceAll(out, "\r\n", " ")
	out = strings.ReplaceAll(out, "\n", " ")
	return out
}
