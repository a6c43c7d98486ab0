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

// Package main contains the setup and initialization logic for the
// application's state. This file creates the centralized state manager
// holding all shared dependencies: configuration, external service
// clients, the quota store, sessions, and the analysis run service.
//
// Functions:
//   - SetupOS: Configures the environment variables the configuration
//     loader uses to find the TOML files.
//   - GetConfig: A singleton loader for the application configuration.
//   - InitState: Creates all service clients, the quota store, and the
//     analysis workflow, and wires them into the services.
package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/reelscope/shortform-analyzer/internal/cloud"
	"github.com/reelscope/shortform-analyzer/internal/core/services"
	"github.com/reelscope/shortform-analyzer/internal/core/workflow"
	"github.com/reelscope/shortform-analyzer/internal/quota"
)

// Agent model config keys the server expects in the TOML files.
const (
	visionModelKey  = "vision"
	summaryModelKey = "summary"
)

// sessionTTL bounds how long a login stays valid without re-authenticating.
const sessionTTL = 12 * time.Hour

// runTimeout bounds one full analysis: a 60-second video with 30 scenes
// finishes well inside this.
const runTimeout = 15 * time.Minute

// StateManager holds all the shared dependencies for the application,
// acting as a centralized container for service clients and services.
type StateManager struct {
	config         *cloud.Config
	cloud          *cloud.ServiceClients
	quotaStore     *quota.Store
	sessionService *services.SessionService
	runService     *services.RunService
}

// state is the package-level singleton instance of StateManager.
var state = &StateManager{}

// SetupOS sets the environment variables that the configuration loader
// uses to find the correct TOML files.
func SetupOS() (err error) {
	err = os.Setenv(cloud.EnvConfigFilePrefix, "configs")
	if err != nil {
		return err
	}
	// The config loader overlays ".env.<runtime>.toml" over the base file.
	if os.Getenv(cloud.EnvConfigRuntime) == "" {
		err = os.Setenv(cloud.EnvConfigRuntime, "local")
	}
	return err
}

// GetConfig provides a singleton instance of the application
// configuration, loading it from the TOML files on first use.
func GetConfig() *cloud.Config {
	if state.config == nil {
		if err := SetupOS(); err != nil {
			log.Fatalf("failed to set up config environment: %v\n", err)
		}
		config := cloud.NewConfig()
		cloud.LoadConfig(&config)
		state.config = config
	}
	return state.config
}

// InitState initializes the entire application state: external service
// clients, the quota store (validated against the worksheet layout),
// sessions, the analysis workflow, and the run service.
func InitState(ctx context.Context) {
	config := GetConfig()

	cloudClients, err := cloud.NewServiceClients(ctx, config)
	if err != nil {
		panic(err)
	}
	state.cloud = cloudClients

	// The store constructor validates the usage column so a misconfigured
	// worksheet fails the boot, not a user's first completed run.
	store, err := quota.NewStore(ctx, cloudClients.SheetsService, &config.QuotaStore)
	if err != nil {
		panic(err)
	}
	state.quotaStore = store

	analysisWorkflow, err := workflow.NewAnalysisWorkflow(config, cloudClients, store, visionModelKey, summaryModelKey)
	if err != nil {
		panic(err)
	}

	state.sessionService = services.NewSessionService(sessionTTL)
	state.runService = services.NewRunService(analysisWorkflow, runTimeout)
}
