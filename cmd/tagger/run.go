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

	"github.com/spf13/cobra"

	"github.com/mrnkim/brand-integration-assistant/internal/core/services"
	"github.com/mrnkim/brand-integration-assistant/internal/core/workflow"
	"github.com/mrnkim/brand-integration-assistant/internal/vector"
)

var (
	runLibrary string
	runWorkers int
	runAll     bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Enrich every video in a library",
	Long: `run walks the chosen library and pushes each video through the
enrichment pipeline. By default only untagged videos are processed; pass
--all to re-tag the whole library.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		indexID, err := libraryService.IndexID(runLibrary)
		if err != nil {
			return err
		}
		scope := vector.ScopeContent
		if runLibrary == services.LibraryAds {
			scope = vector.ScopeAd
		}

		videos, err := libraryService.ListAll(cmd.Context(), runLibrary)
		if err != nil {
			return fmt.Errorf("failed to list %s library: %w", runLibrary, err)
		}

		videoIDs := make([]string, 0, len(videos))
		for _, v := range videos {
			if runAll || v.UserMetadata.IsEmpty() {
				videoIDs = append(videoIDs, v.ID)
			}
		}
		slog.Info("starting enrichment run",
			"library", runLibrary,
			"total", len(videos),
			"selected", len(videoIDs),
			"workers", runWorkers)
		if len(videoIDs) == 0 {
			return nil
		}

		wf := workflow.NewTagEnrichmentWorkflow(cfg, serviceClients, indexID, scope)
		runner := workflow.NewBatchRunner(wf, runWorkers)
		results := runner.Run(cmd.Context(), videoIDs)

		succeeded, failed := 0, 0
		for _, r := range results {
			if r.Err != nil {
				failed++
				continue
			}
			succeeded++
		}
		slog.Info("enrichment run finished", "succeeded", succeeded, "failed", failed)
		if failed > 0 {
			return fmt.Errorf("%d of %d videos failed, see the log for details", failed, len(videoIDs))
		}
		return nil
	},
}

func init() {
	runCmd.Flags().StringVar(&runLibrary, "library", services.LibraryContent, "library to process (content or ads)")
	runCmd.Flags().IntVar(&runWorkers, "workers", 4, "number of parallel enrichment workers")
	runCmd.Flags().BoolVar(&runAll, "all", false, "re-tag videos that already have metadata")
	rootCmd.AddCommand(runCmd)
}
