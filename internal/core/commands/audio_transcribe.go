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

// This file defines the command that extracts the audio track and sends
// it for Whisper transcription. Transcription is best-effort: a silent
// video, a missing audio stream, or an API failure downgrades to a
// warning and the pipeline continues without a transcript, because a
// visual-only analysis is still worth producing.
package commands

import (
	"fmt"
	"log/slog"

	"github.com/reelscope/shortform-analyzer/internal/core/cor"
	"github.com/reelscope/shortform-analyzer/internal/media"
	"github.com/reelscope/shortform-analyzer/internal/transcribe"
)

// AudioTranscribe produces a timed transcript of the video's audio track.
type AudioTranscribe struct {
	cor.BaseCommand
	transcriber *transcribe.Transcriber
}

// NewAudioTranscribe is the constructor for the AudioTranscribe command.
func NewAudioTranscribe(name string, transcriber *transcribe.Transcriber) *AudioTranscribe {
	return &AudioTranscribe{
		BaseCommand: *cor.NewBaseCommand(name),
		transcriber: transcriber,
	}
}

// Execute extracts the audio and requests the transcript. The transcript
// lands under ParamTranscript; on any failure the key stays unset and a
// warning is recorded instead of an error.
func (c *AudioTranscribe) Execute(context cor.Context) {
	ctx, span := c.GetTracer().Start(context.GetContext(), c.GetName())
	defer span.End()

	videoPath := context.Get(c.GetInputParam()).(string)

	if md, ok := context.Get(ParamVideoMetadata).(*media.Metadata); ok && !md.HasAudio {
		context.AddWarning("no audio track found; the report will not include transcripts")
		c.GetSuccessCounter().Add(ctx, 1)
		context.ReportProgress(progressTranscribed)
		return
	}

	audioPath, err := media.ExtractAudio(ctx, videoPath)
	if err != nil {
		c.GetErrorCounter().Add(ctx, 1)
		context.AddWarning(fmt.Sprintf("audio extraction failed; continuing without transcript: %v", err))
		context.ReportProgress(progressTranscribed)
		return
	}
	context.AddTempFile(audioPath)

	transcript, err := c.transcriber.Transcribe(ctx, audioPath)
	if err != nil {
		c.GetErrorCounter().Add(ctx, 1)
		context.AddWarning(fmt.Sprintf("transcription failed; continuing without transcript: %v", err))
		context.ReportProgress(progressTranscribed)
		return
	}

	slog.InfoContext(ctx, "transcribed audio",
		slog.Int("segments", len(transcript.Segments)),
		slog.Int("characters", len(transcript.Text)))

	c.GetSuccessCounter().Add(ctx, 1)
	context.Add(ParamTranscript, transcript)
	context.ReportProgress(progressTranscribed)
}
