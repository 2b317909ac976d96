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
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mrnkim/brand-integration-assistant/internal/cloud"
	"github.com/mrnkim/brand-integration-assistant/internal/core/services"
	"github.com/mrnkim/brand-integration-assistant/internal/telemetry"
)

// Shared state for all subcommands, initialized once by the root
// command's PersistentPreRunE.
var (
	cfg            *cloud.Config
	serviceClients *cloud.ServiceClients
	libraryService *services.LibraryService
)

var rootCmd = &cobra.Command{
	Use:   "tagger",
	Short: "Batch metadata enrichment for the video libraries",
	Long: `tagger walks a video library and runs the enrichment pipeline
(analyze into hashtags, classify into structured metadata, persist, and
refresh embeddings) over every video, with a bounded worker pool.`,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" {
			return nil
		}
		telemetry.SetupLogging()

		cfg = cloud.NewConfig()
		cloud.LoadConfig(cfg)

		var err error
		serviceClients, err = cloud.NewServiceClients(cmd.Context(), cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize service clients: %w", err)
		}
		libraryService = &services.LibraryService{
			Client:         serviceClients.VideoAI,
			ContentIndexID: cfg.VideoAI.ContentIndexID,
			AdsIndexID:     cfg.VideoAI.AdsIndexID,
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if serviceClients != nil {
			serviceClients.Close()
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("tagger failed", "error", err)
		os.Exit(1)
	}
}
