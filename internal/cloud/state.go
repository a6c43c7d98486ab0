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
// services. This file initializes and holds all the client objects needed
// by the application, acting as a dependency injection container: a single
// shared `ServiceClients` struct is created at startup and passed through
// the application.
//
// Logic Flow:
//  1. `NewServiceClients` is called at application startup with the
//     loaded configuration.
//  2. It initializes the GenAI client, the Sheets service backing the
//     quota store, and the OpenAI client used for Whisper transcription.
//  3. It reads the agent model configurations and wraps each model in the
//     rate-limiting QuotaAwareGenerativeAIModel decorator.
//  4. The bundle is used by handlers and workflows to do their work.
package cloud

import (
	"context"
	"os"

	"github.com/openai/openai-go"
	openaioption "github.com/openai/openai-go/option"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
	"google.golang.org/genai"
)

// ServiceClients is a container for all the clients that talk to external
// services. A single instance is shared across the application.
type ServiceClients struct {
	GenAIClient   *genai.Client                           // Client for the generative vision/summary models.
	SheetsService *sheets.Service                         // Client for the credential/quota worksheet.
	OpenAIClient  openai.Client                           // Client for Whisper audio transcription.
	AgentModels   map[string]*QuotaAwareGenerativeAIModel // Configured GenAI models, keyed by logical name.
}

// NewServiceClients initializes all external service clients from the
// provided configuration.
//
// Inputs:
//   - ctx: The root context for the application.
//   - config: The loaded application configuration.
//
// Outputs:
//   - *ServiceClients: The fully initialized container.
//   - error: An error if any client fails to initialize.
func NewServiceClients(ctx context.Context, config *Config) (*ServiceClients, error) {
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:  config.Application.GoogleProjectId,
		Location: config.Application.GoogleLocation,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		return nil, err
	}

	// The quota store connection fails closed: an error here propagates and
	// no login will succeed without it.
	sheetsOpts := []option.ClientOption{option.WithScopes(sheets.SpreadsheetsScope)}
	if config.QuotaStore.CredentialsFile != "" {
		sheetsOpts = append(sheetsOpts, option.WithCredentialsFile(config.QuotaStore.CredentialsFile))
	}
	ss, err := sheets.NewService(ctx, sheetsOpts...)
	if err != nil {
		return nil, err
	}

	oc := openai.NewClient(openaioption.WithAPIKey(os.Getenv(config.Transcriber.APIKeyEnv)))

	// Wrap each configured agent model in the rate limiter so per-scene
	// bursts stay inside the model quota.
	agentModels := make(map[string]*QuotaAwareGenerativeAIModel)
	for amKey, values := range config.AgentModels {
		model := &genai.GenerateContentConfig{
			Temperature:       genai.Ptr[float32](values.Temperature),
			TopP:              genai.Ptr[float32](values.TopP),
			TopK:              genai.Ptr[float32](values.TopK),
			MaxOutputTokens:   values.MaxTokens,
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: values.SystemInstructions}}},
			SafetySettings:    DefaultSafetySettings,
			ResponseMIMEType:  values.OutputFormat,
		}
		agentModels[amKey] = NewQuotaAwareModel(model, values.Model, gc.Models, values.RateLimit)
	}

	return &ServiceClients{
		GenAIClient:   gc,
		SheetsService: ss,
		OpenAIClient:  oc,
		AgentModels:   agentModels,
	}, nil
}
