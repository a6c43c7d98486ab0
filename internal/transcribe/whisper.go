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

// Package transcribe turns an extracted audio track into a timed transcript
// via the Whisper API and aligns transcript segments onto scene intervals.
package transcribe

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/reelscope/shortform-analyzer/internal/core/model"
)

// verboseTranscription mirrors the verbose_json response shape. The SDK's
// default parsed type drops segment timings, so the raw body is decoded
// into this struct instead and normalized to model types exactly once at
// this boundary.
type verboseTranscription struct {
	Text     string           `json:"text"`
	Segments []verboseSegment `json:"segments"`
}

type verboseSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Transcriber calls the Whisper API for a configured model.
type Transcriber struct {
	client openai.Client
	model  string
}

// NewTranscriber wires a Transcriber to an API client and model name.
func NewTranscriber(client openai.Client, modelName string) *Transcriber {
	return &Transcriber{client: client, model: modelName}
}

// Transcribe sends an audio file for transcription and returns the full
// text plus per-segment timings.
//
// Inputs:
//   - ctx: Context bounding the API call.
//   - audioPath: Path to the audio file on local disk.
//
// Outputs:
//   - *model.Transcript: The transcript with timed segments.
//   - error: Non-nil when the file cannot be read or the API call fails.
func (t *Transcriber) Transcribe(ctx context.Context, audioPath string) (*model.Transcript, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return nil, fmt.Errorf("opening audio file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var raw verboseTranscription
	_, err = t.client.Audio.Transcriptions.New(ctx,
		openai.AudioTranscriptionNewParams{
			Model:          openai.AudioModel(t.model),
			File:           f,
			ResponseFormat: openai.AudioResponseFormatVerboseJSON,
		},
		option.WithResponseBodyInto(&raw),
	)
	if err != nil {
		return nil, fmt.Errorf("transcription request: %w", err)
	}

	transcript := &model.Transcript{
		Text:     strings.TrimSpace(raw.Text),
		Segments: make([]model.TranscriptSegment, 0, len(raw.Segments)),
	}
	for _, s := range raw.Segments {
		transcript.Segments = append(transcript.Segments, model.TranscriptSegment{
			Start: s.Start,
			End:   s.End,
			Text:  strings.TrimSpace(s.Text),
		})
	}
	return transcript, nil
}

// AlignSegments collects the transcript text spoken during a scene. A
// segment belongs to the scene whose interval contains its start time, so
// a segment straddling a cut is attributed to exactly one scene.
func AlignSegments(segments []model.TranscriptSegment, scene model.SceneInterval) string {
	var parts []string
	for _, seg := range segments {
		if seg.Start >= scene.Start && seg.Start < scene.End && seg.Text != "" {
			parts = append(parts, seg.Text)
		}
	}
	return strings.Join(parts, " ")
}
