// Copyright 2024 Google, LLC
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

package main

import (
	"context"
	"log"
	"os"

	"github.com/mrnkim/brand-integration-assistant/internal/cloud"
	"github.com/mrnkim/brand-integration-assistant/internal/core/services"
	"github.com/mrnkim/brand-integration-assistant/internal/core/workflow"
	"github.com/mrnkim/brand-integration-assistant/internal/vector"
)

// StateManager holds the shared components for the application.
type StateManager struct {
	config           *cloud.Config
	cloud            *cloud.ServiceClients
	libraryService   *services.LibraryService
	searchService    *services.SearchService
	metadataService  *services.MetadataService
	alignmentService *services.AlignmentService
}

var state = &StateManager{}

// SetupOS points the config loader at the local configs directory when the
// environment has not already chosen one.
func SetupOS() (err error) {
	if os.Getenv(cloud.EnvConfigFilePrefix) == "" {
		if err = os.Setenv(cloud.EnvConfigFilePrefix, "configs"); err != nil {
			return err
		}
	}
	if os.Getenv(cloud.EnvConfigRuntime) == "" {
		err = os.Setenv(cloud.EnvConfigRuntime, "local")
	}
	return err
}

// GetConfig loads the application configuration once and caches it.
func GetConfig() *cloud.Config {
	if state.config == nil {
		if err := SetupOS(); err != nil {
			log.Fatalf("failed to setup config environment: %v\n", err)
		}
		// Create a default config, then load it from the TOML files.
		config := cloud.NewConfig()
		cloud.LoadConfig(config)
		state.config = config
	}
	return state.config
}

// InitState initializes the application state and dependencies.
func InitState(ctx context.Context) {
	config := GetConfig()

	serviceClients, err := cloud.NewServiceClients(ctx, config)
	if err != nil {
		panic(err)
	}
	state.cloud = serviceClients

	state.libraryService = &services.LibraryService{
		Client:         serviceClients.VideoAI,
		ContentIndexID: config.VideoAI.ContentIndexID,
		AdsIndexID:     config.VideoAI.AdsIndexID,
	}

	state.searchService = &services.SearchService{
		Library: state.libraryService,
	}

	contentWorkflow := workflow.NewTagEnrichmentWorkflow(
		config, serviceClients, config.VideoAI.ContentIndexID, vector.ScopeContent)
	adsWorkflow := workflow.NewTagEnrichmentWorkflow(
		config, serviceClients, config.VideoAI.AdsIndexID, vector.ScopeAd)
	state.metadataService = services.NewMetadataService(contentWorkflow, adsWorkflow)

	// Alignment needs both the vector store and the text embedder; without
	// them the endpoint reports the feature as unavailable.
	if serviceClients.VectorStore != nil && serviceClients.Embedder != nil {
		state.alignmentService = &services.AlignmentService{
			Library:    state.libraryService,
			Embedder:   serviceClients.Embedder,
			Store:      serviceClients.VectorStore,
			EmbedModel: config.TextEmbedding.Model,
		}
	}
}
