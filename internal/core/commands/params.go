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

// Package commands contains the individual workflow steps of the analysis
// pipeline. Each command does one thing: persist the upload, transcribe
// it, segment it, analyze a scene batch, summarize, record usage, and
// assemble the report. Commands communicate through named context
// parameters; the keys below are the shared vocabulary.
package commands

// Context parameter names shared between commands in a workflow.
const (
	ParamUser          = "user"           // *model.User running the analysis.
	ParamThreshold     = "threshold"      // float64 detector sensitivity, already clamped.
	ParamMinSceneLen   = "min_scene_len"  // int minimum scene length in frames, already clamped.
	ParamVideoPath     = "video_path"     // string path to the ingested video file.
	ParamVideoMetadata = "video_metadata" // *media.Metadata from the ingest probe.
	ParamScenes        = "scenes"         // []model.SceneInterval to analyze.
	ParamTranscript    = "transcript"     // *model.Transcript, absent when transcription failed.
	ParamSceneResults  = "scene_results"  // []*model.SceneAnalysisResult in scene order.
	ParamSummary       = "summary"        // string overall marketing summary.
	ParamReport        = "report"         // *model.AnalysisReport, the finished product.
)

// Run progress percentages, fixed so the client-side progress bar moves
// through the same stations on every run: audio first, then
// segmentation, then the per-scene sweep up to done.
const (
	progressTranscribed = 20
	progressSegmented   = 40
	progressDone        = 100
	analysisSpan        = progressDone - progressSegmented
)
