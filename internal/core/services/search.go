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

package services

import (
	"context"
	"log/slog"

	"github.com/mrnkim/brand-integration-assistant/internal/core/model"
)

// VideoSearchResult groups the segment-level hits for one video together
// with the video's record so the UI can render a single card per video
// with its matching clips.
type VideoSearchResult struct {
	Video *model.Video          `json:"video"`
	Clips []*model.SearchResult `json:"clips"`
}

// SearchService runs semantic queries against a library and shapes the
// raw segment hits into per-video groups.
type SearchService struct {
	Library *LibraryService
}

// Search executes a natural-language query against the named library.
//
// Inputs:
//   - ctx: the request context
//   - library: "content" or "ads"
//   - query: the natural-language search text
//   - limit: maximum number of segment hits to request from the index
//
// Outputs:
//   - a slice of VideoSearchResult, one per distinct video, ordered by
//     each video's best segment score
//   - an error on index failure or an unknown library name
func (s *SearchService) Search(ctx context.Context, library, query string, limit int) ([]*VideoSearchResult, error) {
	indexID, err := s.Library.IndexID(library)
	if err != nil {
		return nil, err
	}
	hits, err := s.Library.Client.Search(ctx, indexID, query, limit)
	if err != nil {
		return nil, err
	}

	// Group segment hits per video, preserving the index's ranking: the
	// first time a video appears fixes its position in the output.
	byVideo := make(map[string]*VideoSearchResult)
	var ordered []*VideoSearchResult
	for _, hit := range hits {
		group, ok := byVideo[hit.VideoID]
		if !ok {
			video, err := s.Library.Client.GetVideo(ctx, indexID, hit.VideoID)
			if err != nil {
				// A hit for a video that was deleted mid-search is not
				// worth failing the whole query over.
				slog.WarnContext(ctx, "search hit references an unavailable video",
					slog.String("video_id", hit.VideoID), slog.Any("error", err))
				continue
			}
			group = &VideoSearchResult{Video: video}
			byVideo[hit.VideoID] = group
			ordered = append(ordered, group)
		}
		group.Clips = append(group.Clips, hit)
	}
	return ordered, nil
}
