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

// Package cloud defines the data structures for application configuration,
// loaded from TOML files, along with the service clients built from them.
// It provides a structured way to manage settings for the analysis limits,
// GenAI models, the Whisper transcriber, prompt templates, and the
// spreadsheet-backed quota store.
//
// Structs:
//   - Limits: Cost-control ceilings and scene-detector parameter ranges.
//   - PromptTemplates: Text templates for prompts sent to GenAI models.
//   - GenAiLLMModel: Configuration for a single generative model.
//   - Transcriber: Configuration for the speech-to-text model.
//   - QuotaStore: Configuration for the credential/quota worksheet.
//   - Config: The top-level struct aggregating all other sections.
//
// Functions:
//   - NewConfig: A constructor that initializes a new Config object with
//     empty maps and the default limits.
package cloud

import "google.golang.org/genai"

// DefaultSafetySettings defines the default content safety thresholds for
// GenAI models. Uploaded marketing clips are trusted input, so the
// thresholds are non-restrictive to keep the structured JSON responses
// from being blocked mid-pipeline.
var DefaultSafetySettings = []*genai.SafetySetting{
	{
		Category:  genai.HarmCategoryDangerousContent,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
	{
		Category:  genai.HarmCategoryHarassment,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
	{
		Category:  genai.HarmCategoryHateSpeech,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
	{
		Category:  genai.HarmCategorySexuallyExplicit,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
}

// Limits holds the cost-control ceilings for a single analysis run plus the
// valid ranges for the caller-tunable scene-detector parameters.
type Limits struct {
	MaxVideoDurationSeconds float64 `toml:"max_video_duration_seconds"` // Uploads longer than this are rejected before any model call.
	MaxAnalyzeScenes        int     `toml:"max_analyze_scenes"`         // Detected intervals beyond this count are truncated, not analyzed.
	DefaultThreshold        float64 `toml:"default_threshold"`          // Default content-change sensitivity for the scene detector.
	MinThreshold            float64 `toml:"min_threshold"`              // Lower clamp for the threshold parameter.
	MaxThreshold            float64 `toml:"max_threshold"`              // Upper clamp for the threshold parameter.
	DefaultMinSceneLen      int     `toml:"default_min_scene_len"`      // Default minimum scene length in frames.
	MinMinSceneLen          int     `toml:"min_min_scene_len"`          // Lower clamp for min scene length.
	MaxMinSceneLen          int     `toml:"max_min_scene_len"`          // Upper clamp for min scene length.
}

// PromptTemplates holds the templates for the prompts sent to the models.
type PromptTemplates struct {
	ScenePrompt   string `toml:"scene"`   // Per-scene vision analysis prompt (Go template).
	HookPrompt    string `toml:"hook"`    // Extra instruction injected for opening scenes (scene 1 and 2).
	SummaryPrompt string `toml:"summary"` // System instruction for the whole-video summary.
}

// GenAiLLMModel represents the configuration for one generative model.
type GenAiLLMModel struct {
	Model              string  `toml:"model"`               // The model name (e.g., "gemini-2.0-flash").
	SystemInstructions string  `toml:"system_instructions"` // The system instructions for the model.
	Temperature        float32 `toml:"temperature"`         // Sampling temperature.
	TopP               float32 `toml:"top_p"`               // Nucleus sampling parameter.
	TopK               float32 `toml:"top_k"`               // Top-K sampling parameter.
	MaxTokens          int32   `toml:"max_tokens"`          // Upper bound on response size, bounds cost per call.
	OutputFormat       string  `toml:"output_format"`       // Response MIME type (e.g., "application/json").
	RateLimit          int     `toml:"rate_limit"`          // Requests per second allowed against this model.
}

// Transcriber represents the configuration for the speech-to-text model.
type Transcriber struct {
	Model     string `toml:"model"`       // The transcription model name (e.g., "whisper-1").
	APIKeyEnv string `toml:"api_key_env"` // Environment variable holding the API key.
}

// QuotaStore represents the configuration for the credential/quota
// worksheet. Rows are keyed by username; the usage column is located by
// header name, never by a fixed offset.
type QuotaStore struct {
	SpreadsheetID   string `toml:"spreadsheet_id"`   // The spreadsheet holding the user records.
	Worksheet       string `toml:"worksheet"`        // The worksheet (tab) name, e.g. "Sheet1".
	CredentialsFile string `toml:"credentials_file"` // Path to the service-account credentials JSON.
	UsageColumn     string `toml:"usage_column"`     // Header name of the usage column, validated at startup.
}

// Config represents the overall configuration for the application, loaded
// from TOML files. It acts as the root container for all other
// configuration structs.
type Config struct {
	// Application holds general application settings.
	Application struct {
		Name            string `toml:"name"`              // The name of the application.
		GoogleProjectId string `toml:"google_project_id"` // The Google Cloud project ID for the GenAI backend.
		GoogleLocation  string `toml:"location"`          // The Google Cloud location for the GenAI backend.
	} `toml:"application"`
	Server struct {
		Addr string `toml:"addr"` // Listen address, e.g. ":8080".
	} `toml:"server"`
	Limits          Limits                   `toml:"limits"`           // Cost-control limits and detector parameter ranges.
	PromptTemplates PromptTemplates          `toml:"prompt_templates"` // Prompt templates configuration.
	QuotaStore      QuotaStore               `toml:"quota_store"`      // Credential/quota worksheet configuration.
	Transcriber     Transcriber              `toml:"transcriber"`      // Speech-to-text configuration.
	AgentModels     map[string]GenAiLLMModel `toml:"agent_models"`     // GenAI models keyed by a logical name ("vision", "summary").
}

// NewConfig creates a new, initialized Config instance. The map fields are
// initialized to avoid nil map panics in the loader, and the limits carry
// the product defaults so a minimal TOML file still yields a safe setup.
//
// Outputs:
//   - *Config: A pointer to a new Config struct ready for LoadConfig.
func NewConfig() *Config {
	out := &Config{
		AgentModels: make(map[string]GenAiLLMModel),
	}
	out.Limits = Limits{
		MaxVideoDurationSeconds: 60,
		MaxAnalyzeScenes:        30,
		DefaultThreshold:        27.0,
		MinThreshold:            10.0,
		MaxThreshold:            50.0,
		DefaultMinSceneLen:      30,
		MinMinSceneLen:          10,
		MaxMinSceneLen:          60,
	}
	return out
}
