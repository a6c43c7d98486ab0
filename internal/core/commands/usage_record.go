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

// This file defines the command that records one unit of quota usage
// after an analysis completes. By the time this runs the model cost has
// already been spent, so a store failure is reported as a warning rather
// than failing the run and throwing the results away.
package commands

import (
	"log/slog"

	"github.com/reelscope/shortform-analyzer/internal/core/cor"
	"github.com/reelscope/shortform-analyzer/internal/core/model"
	"github.com/reelscope/shortform-analyzer/internal/quota"
)

// UsageRecord bumps the user's usage counter in the quota store.
type UsageRecord struct {
	cor.BaseCommand
	store *quota.Store
}

// NewUsageRecord is the constructor for the UsageRecord command.
func NewUsageRecord(name string, store *quota.Store) *UsageRecord {
	return &UsageRecord{
		BaseCommand: *cor.NewBaseCommand(name),
		store:       store,
	}
}

// IsExecutable requires a user on the context.
func (c *UsageRecord) IsExecutable(context cor.Context) bool {
	return context != nil && context.Get(ParamUser) != nil
}

// Execute records the usage increment.
func (c *UsageRecord) Execute(context cor.Context) {
	ctx, span := c.GetTracer().Start(context.GetContext(), c.GetName())
	defer span.End()

	user := context.Get(ParamUser).(*model.User)

	if err := c.store.IncrementUsage(ctx, user); err != nil {
		c.GetErrorCounter().Add(ctx, 1)
		slog.WarnContext(ctx, "usage update failed",
			slog.String("username", user.Username),
			slog.String("error", err.Error()))
		context.AddWarning("the analysis completed but the usage counter could not be updated")
		return
	}

	c.GetSuccessCounter().Add(ctx, 1)
}
