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

// Package cloud provides components for interacting with external model
// services. This file contains general-purpose helpers supporting the
// package: hierarchical configuration loading, file system checks, and
// resilient interaction with the GenAI API.
//
// Functions:
//   - fileExists: A simple helper to check if a file exists.
//   - LoadConfig: Hierarchical configuration loader. It reads a base
//     configuration file and overwrites values with an environment-specific
//     file (e.g., .env.local.toml, .env.test.toml), selected by env vars.
//   - GenerateMultiModalResponse: A wrapper for GenAI model calls with a
//     retry mechanism and OpenTelemetry token/retry counters.
//   - NewTextPart, NewInlineImage: Factory functions for genai.Part values.
package cloud

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"go.opentelemetry.io/otel/metric"
	"google.golang.org/genai"
)

// Configuration loading constants, primarily for locating the TOML files
// and bounding API retry behavior.
const (
	ConfigFileBaseName  = ".env"                    // The base name for configuration files (e.g., ".env.toml").
	ConfigFileExtension = ".toml"                   // The file extension for configuration files.
	ConfigSeparator     = "."                       // The separator in config file names (e.g., ".env.local.toml").
	EnvConfigFilePrefix = "REELSCOPE_CONFIG_PREFIX" // Environment variable for the config directory.
	EnvConfigRuntime    = "REELSCOPE_RUNTIME"       // Environment variable for the runtime context (e.g., "local", "test").
	MaxRetries          = 3                         // The maximum number of times to retry a failed API call.
)

// fileExists checks if a file or directory exists at the given path.
func fileExists(in string) bool {
	_, err := os.Stat(in)
	return !errors.Is(err, os.ErrNotExist)
}

// LoadConfig provides a hierarchical configuration loading mechanism. It
// first loads a base configuration file and then overwrites its values
// with an environment-specific configuration file. The directory and
// environment are determined by environment variables.
//
// Inputs:
//   - baseConfig: A pointer to the target configuration struct that will be
//     populated from the TOML files.
func LoadConfig(baseConfig interface{}) {
	configurationFilePrefix := os.Getenv(EnvConfigFilePrefix)
	if len(configurationFilePrefix) > 0 && !strings.HasSuffix(configurationFilePrefix, string(os.PathSeparator)) {
		configurationFilePrefix = configurationFilePrefix + string(os.PathSeparator)
	}

	runtimeEnvironment := os.Getenv(EnvConfigRuntime)
	if runtimeEnvironment == "" {
		runtimeEnvironment = "local"
	}

	baseConfigFileName := configurationFilePrefix + ConfigFileBaseName + ConfigFileExtension
	envConfigFileName := configurationFilePrefix + ConfigFileBaseName + ConfigSeparator + runtimeEnvironment + ConfigFileExtension

	if fileExists(baseConfigFileName) {
		_, err := toml.DecodeFile(baseConfigFileName, baseConfig)
		if err != nil {
			log.Fatalf("failed to decode base configuration file %s with error: %s", baseConfigFileName, err)
		}
	}

	// Values in the environment-specific file overwrite the base config.
	if fileExists(envConfigFileName) {
		_, err := toml.DecodeFile(envConfigFileName, baseConfig)
		if err != nil {
			log.Fatalf("failed to decode environment configuration file: %s with error: %s", envConfigFileName, err)
		}
	}
}

// GenerateMultiModalResponse executes a multi-modal request against a
// GenAI model with retries and telemetry. The concatenated candidate text
// is returned with any markdown JSON fencing stripped, since the models
// occasionally wrap a constrained-JSON response in a code fence.
//
// Inputs:
//   - ctx: The context for the request.
//   - inputTokenCounter: OTel counter for prompt tokens used.
//   - outputTokenCounter: OTel counter for response tokens generated.
//   - retryCounter: OTel counter for the number of retries.
//   - tryCount: The current attempt number (starts at 0).
//   - model: The rate-limited, quota-aware generative model to use.
//   - content: The multi-modal prompt content.
//
// Outputs:
//   - string: The concatenated text content from the model response.
//   - error: An error if the request fails after all retries.
func GenerateMultiModalResponse(
	ctx context.Context,
	inputTokenCounter metric.Int64Counter,
	outputTokenCounter metric.Int64Counter,
	retryCounter metric.Int64Counter,
	tryCount int,
	model *QuotaAwareGenerativeAIModel,
	content []*genai.Content) (value string, err error) {
	resp, err := model.GenerateContent(ctx, content)
	if err != nil {
		if tryCount < MaxRetries {
			retryCounter.Add(ctx, 1)
			return GenerateMultiModalResponse(ctx, inputTokenCounter, outputTokenCounter, retryCounter, tryCount+1, model, content)
		}
		return "", err
	}

	if resp.UsageMetadata != nil {
		inputTokenCounter.Add(ctx, int64(resp.UsageMetadata.PromptTokenCount))
		outputTokenCounter.Add(ctx, int64(resp.UsageMetadata.CandidatesTokenCount))
	}

	value = ""
	for _, candidate := range resp.Candidates {
		if candidate.Content != nil {
			for _, part := range candidate.Content.Parts {
				value += fmt.Sprint(part.Text)
			}
		}
	}
	value = strings.TrimSpace(value)
	value = strings.TrimPrefix(value, "```json")
	value = strings.TrimSuffix(value, "```")
	return strings.TrimSpace(value), nil
}

// NewTextPart creates a text part for a multi-modal prompt.
func NewTextPart(in string) *genai.Part {
	return &genai.Part{Text: in}
}

// NewInlineImage creates an inline image part from raw encoded bytes.
// This is how a single representative frame travels to the vision model:
// as baseline JPEG data inside the request rather than a file reference.
func NewInlineImage(data []byte, mimeType string) *genai.Part {
	return &genai.Part{InlineData: &genai.Blob{MIMEType: mimeType, Data: data}}
}
