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
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mrnkim/brand-integration-assistant/internal/core/model"
	"github.com/mrnkim/brand-integration-assistant/internal/core/services"
	"github.com/mrnkim/brand-integration-assistant/internal/vector"
)

var alignLibrary string

var alignCmd = &cobra.Command{
	Use:   "align",
	Short: "Precompute embeddings for contextual alignment",
	Long: `align walks the chosen library and refreshes the vector store:
the provider's video embedding for every video, and a text embedding of
each video's metadata. Run it after a large enrichment run so alignment
queries see the new tags.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if serviceClients.VectorStore == nil {
			return fmt.Errorf("no vector store configured, set [vector_store] dsn in the config")
		}
		if serviceClients.Embedder == nil {
			return fmt.Errorf("no text-embedding provider configured, set [text_embedding] api_key in the config")
		}

		indexID, err := libraryService.IndexID(alignLibrary)
		if err != nil {
			return err
		}
		videoScope := vector.ScopeContent
		if alignLibrary == services.LibraryAds {
			videoScope = vector.ScopeAd
		}

		alignment := &services.AlignmentService{
			Library:    libraryService,
			Embedder:   serviceClients.Embedder,
			Store:      serviceClients.VectorStore,
			EmbedModel: cfg.TextEmbedding.Model,
		}

		videos, err := libraryService.ListAll(cmd.Context(), alignLibrary)
		if err != nil {
			return fmt.Errorf("failed to list %s library: %w", alignLibrary, err)
		}
		slog.Info("starting embedding sync", "library", alignLibrary, "videos", len(videos))

		failed := 0
		for _, v := range videos {
			if err := syncVideoEmbedding(cmd.Context(), indexID, videoScope, v); err != nil {
				slog.Warn("video embedding sync failed", "video_id", v.ID, "error", err)
				failed++
				continue
			}
			if err := alignment.SyncText(cmd.Context(), alignLibrary, v); err != nil {
				slog.Warn("text embedding sync failed", "video_id", v.ID, "error", err)
				failed++
			}
		}
		slog.Info("embedding sync finished", "synced", len(videos)-failed, "failed", failed)
		if failed > 0 {
			return fmt.Errorf("%d of %d videos failed to sync", failed, len(videos))
		}
		return nil
	},
}

// syncVideoEmbedding replaces the stored provider embedding segments for
// one video.
func syncVideoEmbedding(ctx context.Context, indexID, scope string, video *model.Video) error {
	segments, err := serviceClients.VideoAI.GetVideoEmbedding(ctx, indexID, video.ID)
	if err != nil {
		return err
	}
	store := serviceClients.VectorStore
	if err := store.DeleteVideo(ctx, video.ID, scope); err != nil {
		return err
	}
	for _, seg := range segments {
		entry := &vector.Entry{
			VideoID: video.ID,
			Scope:   scope,
			Start:   seg.Start,
			End:     seg.End,
			Vector:  seg.Vector,
		}
		if err := store.Upsert(ctx, entry); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	alignCmd.Flags().StringVar(&alignLibrary, "library", services.LibraryContent, "library to sync (content or ads)")
	rootCmd.AddCommand(alignCmd)
}
