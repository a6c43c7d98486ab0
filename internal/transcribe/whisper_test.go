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

package transcribe

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reelscope/shortform-analyzer/internal/core/model"
)

func TestVerboseTranscriptionDecode(t *testing.T) {
	body := `{
	  "task": "transcribe",
	  "language": "english",
	  "duration": 12.4,
	  "text": "Grab yours today. Link in bio.",
	  "segments": [
	    {"id": 0, "start": 0.0, "end": 5.2, "text": " Grab yours today."},
	    {"id": 1, "start": 5.2, "end": 12.4, "text": " Link in bio."}
	  ]
	}`

	var raw verboseTranscription
	require.NoError(t, json.Unmarshal([]byte(body), &raw))
	require.Len(t, raw.Segments, 2)
	assert.Equal(t, 5.2, raw.Segments[0].End)
	assert.Equal(t, " Link in bio.", raw.Segments[1].Text)
}

func TestAlignSegments(t *testing.T) {
	segments := []model.TranscriptSegment{
		{Start: 0.0, End: 4.0, Text: "Tired of dull skin?"},
		{Start: 4.5, End: 9.0, Text: "Meet the glow serum."},
		{Start: 9.5, End: 14.0, Text: "Grab yours today."},
	}

	first := alignScene(t, segments, 0, 5)
	assert.Equal(t, "Tired of dull skin? Meet the glow serum.", first)

	second := alignScene(t, segments, 5, 10)
	assert.Equal(t, "Grab yours today.", second)
}

func alignScene(t *testing.T, segs []model.TranscriptSegment, start, end float64) string {
	t.Helper()
	return AlignSegments(segs, model.SceneInterval{Start: start, End: end})
}

func TestAlignSegmentsBoundary(t *testing.T) {
	segments := []model.TranscriptSegment{
		{Start: 5.0, End: 8.0, Text: "On the cut."},
	}

	// A segment starting exactly at a boundary belongs to the later scene.
	assert.Empty(t, AlignSegments(segments, model.SceneInterval{Start: 0, End: 5}))
	assert.Equal(t, "On the cut.", AlignSegments(segments, model.SceneInterval{Start: 5, End: 10}))
}

func TestAlignSegmentsNoMatch(t *testing.T) {
	segments := []model.TranscriptSegment{
		{Start: 20.0, End: 25.0, Text: "Late talk."},
		{Start: 2.0, End: 3.0, Text: ""},
	}
	assert.Empty(t, AlignSegments(segments, model.SceneInterval{Start: 0, End: 10}))
	assert.Empty(t, AlignSegments(nil, model.SceneInterval{Start: 0, End: 10}))
}
