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

// Package export renders a finished analysis report into the downloadable
// formats offered to the user: CSV for spreadsheets and Markdown for
// documents. Exports are pure functions of the report; exporting twice
// yields byte-identical output.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/reelscope/shortform-analyzer/internal/core/model"
)

// utf8BOM is prepended to CSV output so spreadsheet applications detect
// the encoding instead of mangling non-ASCII analysis text.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// csvHeader is the fixed column set of the scene table, in render order.
var csvHeader = []string{
	"Scene No",
	"Start Time",
	"End Time",
	"Duration",
	"Visual Description",
	"On-Screen Text",
	"Vibes",
	"Psychological Effects",
	"Hook Factor",
	"Audio Transcript",
}

// ToCSV renders the per-scene table as UTF-8 CSV with a byte order mark.
//
// Inputs:
//   - report: The finished analysis report.
//
// Outputs:
//   - []byte: The encoded CSV document.
//   - error: Non-nil only when the underlying writer fails.
func ToCSV(report *model.AnalysisReport) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(utf8BOM)

	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("writing csv header: %w", err)
	}
	for _, r := range report.SceneResults {
		row := []string{
			fmt.Sprintf("%d", r.SceneNo),
			formatTime(r.Start),
			formatTime(r.End),
			formatTime(r.Duration),
			r.VisualDescription,
			r.OnScreenText,
			r.Vibes,
			r.PsychologicalEffects,
			r.HookFactor,
			r.AudioTranscript,
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("writing csv row %d: %w", r.SceneNo, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// formatTime renders a timestamp or duration for export.
func formatTime(seconds float64) string {
	return fmt.Sprintf("%.2fs", seconds)
}
