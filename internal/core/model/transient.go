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

// Package model defines the core data structures for the application.
// This file contains the data models used in memory during the execution
// of an analysis run. They serve as intermediate containers for data as it
// is processed and passed between the commands of the pipeline; none of
// them outlive the session they were created in.
package model

import (
	"image"
	"sync"
)

// Sentinel values substituted when a field cannot be computed. They
// distinguish "computed but empty" from "failed to compute".
const (
	// AnalysisErrorSentinel fills every field of a scene analysis whose
	// model call failed or returned malformed JSON.
	AnalysisErrorSentinel = "Error"
	// HookNotApplicable is the hook factor for every scene past the
	// opening two.
	HookNotApplicable = "-"
)

// User is one record from the credential/quota store. Usage is
// monotonically non-decreasing within a billing period; a run is rejected
// once Usage >= Limit. One record is shared between a session and every
// run it starts, so quota reads and writes after authentication go
// through the locked accessors below.
type User struct {
	mu       sync.Mutex
	Username string `json:"username"`
	Password string `json:"-"` // Opaque credential, never rendered.
	Usage    int    `json:"usage"`
	Limit    int    `json:"limit"`
	RowIndex int    `json:"-"` // Position in the backing worksheet, header offset included.
}

// Remaining returns the number of runs left in the current period.
func (u *User) Remaining() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.Limit - u.Usage
}

// QuotaState returns the usage count and limit as one consistent pair.
func (u *User) QuotaState() (usage, limit int) {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.Usage, u.Limit
}

// SetUsage replaces the usage count, normally after the backing store
// accepted the same value.
func (u *User) SetUsage(usage int) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.Usage = usage
}

// SceneInterval is a contiguous time span of the video treated as one
// analytical unit. Intervals in a detection result are ordered,
// non-overlapping, and collectively span the whole video.
type SceneInterval struct {
	Start float64 `json:"start"` // Seconds, >= 0.
	End   float64 `json:"end"`   // Seconds, > Start.
}

// Duration returns the interval length in seconds.
func (s SceneInterval) Duration() float64 {
	return s.End - s.Start
}

// Midpoint returns the representative timestamp for frame extraction.
func (s SceneInterval) Midpoint() float64 {
	return s.Start + (s.End-s.Start)/2
}

// TranscriptSegment is one timestamped piece of the audio transcript,
// normalized into this single shape immediately after receipt from the
// transcription model.
type TranscriptSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Transcript is the full output of the audio transcriber.
type Transcript struct {
	Text     string              `json:"text"`
	Segments []TranscriptSegment `json:"segments"`
}

// SceneAnalysisFields mirrors the fixed JSON object the vision model is
// constrained to return: exactly these five keys.
type SceneAnalysisFields struct {
	VisualContent        string `json:"visual_content"`
	OnScreenText         string `json:"on_screen_text"`
	Vibes                string `json:"vibes"`
	PsychologicalEffects string `json:"psychological_effects"`
	HookFactor           string `json:"hook_factor"`
}

// SceneAnalysisResult is the assembled analysis of one retained scene.
// Created once, immutable afterward, ordered by SceneNo.
type SceneAnalysisResult struct {
	SceneNo              int         `json:"scene_no"` // 1-based.
	Start                float64     `json:"start"`
	End                  float64     `json:"end"`
	Duration             float64     `json:"duration"`
	VisualDescription    string      `json:"visual_description"`
	OnScreenText         string      `json:"on_screen_text"`
	Vibes                string      `json:"vibes"`
	PsychologicalEffects string      `json:"psychological_effects"`
	HookFactor           string      `json:"hook_factor"` // "-" for SceneNo > 2 unless the call failed.
	AudioTranscript      string      `json:"audio_transcript"`
	FrameJPEG            []byte      `json:"frame_jpeg,omitempty"` // Encoded representative frame, for display; dropped from exports.
	FrameImage           image.Image `json:"-"`                    // Decoded raster, display only.
}

// AnalysisReport is the final product of one run. It is handed to
// presentation and export and is not persisted beyond the session.
type AnalysisReport struct {
	SceneResults   []*SceneAnalysisResult `json:"scene_results"`
	OverallSummary string                 `json:"overall_summary"`
	VideoDuration  float64                `json:"video_duration"`
	Warnings       []string               `json:"warnings,omitempty"`
}
