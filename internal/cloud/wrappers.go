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
// services. This file implements a decorator around the GenAI client that
// adds rate limiting and a retry mechanism, so a burst of per-scene
// analysis calls cannot blow through the model quota.
package cloud

import (
	"context"
	"errors"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// retryKey is the context key carrying the current retry count across
// recursive GenerateContent attempts.
type retryKey struct{}

// QuotaAwareGenerativeAIModel wraps a configured generate-content call with
// a rate limiter. It carries the generation config and model name so every
// caller issues identically-configured requests.
type QuotaAwareGenerativeAIModel struct {
	GenerativeContentConfig *genai.GenerateContentConfig // Generation parameters applied to every call.
	ModelName               string                       // The model to invoke.
	ModelHandle             *genai.Models                // Handle into the GenAI client.
	RateLimit               *rate.Limiter                // Limits request frequency against the model quota.
}

// NewQuotaAwareModel creates a new QuotaAwareGenerativeAIModel allowing a
// burst of requestsPerSecond calls, replenished once per second.
//
// Inputs:
//   - wrapped: The generation config shared by all calls to this model.
//   - name: The model name (e.g., "gemini-2.0-flash").
//   - handle: The genai.Models handle from the client.
//   - requestsPerSecond: The maximum number of API calls allowed per second.
//
// Outputs:
//   - *QuotaAwareGenerativeAIModel: A pointer to the newly created wrapper.
func NewQuotaAwareModel(wrapped *genai.GenerateContentConfig, name string, handle *genai.Models, requestsPerSecond int) *QuotaAwareGenerativeAIModel {
	return &QuotaAwareGenerativeAIModel{
		GenerativeContentConfig: wrapped,
		ModelName:               name,
		ModelHandle:             handle,
		RateLimit:               rate.NewLimiter(rate.Every(time.Second/1), requestsPerSecond),
	}
}

// GenerateContent issues a generate-content request under the rate limit.
// A rate-limited request waits for a token rather than failing; a failed
// request is retried up to three times with a backoff wait, tracking the
// attempt count in the context.
//
// Inputs:
//   - ctx: The context for the request.
//   - content: The multi-modal content of the prompt.
//
// Outputs:
//   - *genai.GenerateContentResponse: The model response on success.
//   - error: An error once retries are exhausted.
func (q *QuotaAwareGenerativeAIModel) GenerateContent(ctx context.Context, content []*genai.Content) (resp *genai.GenerateContentResponse, err error) {
	if err := q.RateLimit.Wait(ctx); err != nil {
		return nil, err
	}
	resp, err = q.ModelHandle.GenerateContent(ctx, q.ModelName, content, q.GenerativeContentConfig)
	if err != nil {
		retryCount, ok := ctx.Value(retryKey{}).(int)
		if !ok {
			retryCount = 0
		}
		if retryCount >= 3 {
			return nil, errors.New("failed generation on max retries")
		}
		errCtx := context.WithValue(ctx, retryKey{}, retryCount+1)
		// Give the service time to recover before re-queueing.
		time.Sleep(5 * time.Second)
		return q.GenerateContent(errCtx, content)
	}
	return resp, err
}
