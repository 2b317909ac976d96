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

// Package services contains the business logic between the HTTP layer and
// the external collaborators. This file defines the LibraryService, the
// access layer for the two video libraries (content and ads) held in the
// external index.
package services

import (
	"context"
	"fmt"

	"github.com/mrnkim/brand-integration-assistant/internal/core/model"
	"github.com/mrnkim/brand-integration-assistant/internal/videoai"
)

// Library names accepted by the HTTP layer and the batch tagger.
const (
	LibraryContent = "content"
	LibraryAds     = "ads"
)

// LibraryService resolves library names to index IDs and proxies the
// browse operations.
type LibraryService struct {
	Client         *videoai.Client // The external index client.
	ContentIndexID string          // Index backing the content library.
	AdsIndexID     string          // Index backing the ads library.
}

// IndexID maps a library name to its index ID.
func (s *LibraryService) IndexID(library string) (string, error) {
	switch library {
	case LibraryContent:
		return s.ContentIndexID, nil
	case LibraryAds:
		return s.AdsIndexID, nil
	default:
		return "", fmt.Errorf("unknown library %q", library)
	}
}

// List returns one page of a library. An empty pageToken starts at the
// first page; the returned token is empty on the last.
func (s *LibraryService) List(ctx context.Context, library, pageToken string) ([]*model.Video, string, error) {
	indexID, err := s.IndexID(library)
	if err != nil {
		return nil, "", err
	}
	return s.Client.ListVideos(ctx, indexID, pageToken)
}

// Get returns a single video from a library.
func (s *LibraryService) Get(ctx context.Context, library, videoID string) (*model.Video, error) {
	indexID, err := s.IndexID(library)
	if err != nil {
		return nil, err
	}
	return s.Client.GetVideo(ctx, indexID, videoID)
}

// ListAll walks every page of a library and returns the full video list.
// Used by the batch tagger and the stats endpoint; the admin libraries
// are hundreds of videos, not millions, so a full walk is acceptable.
func (s *LibraryService) ListAll(ctx context.Context, library string) ([]*model.Video, error) {
	var out []*model.Video
	pageToken := ""
	for {
		page, next, err := s.List(ctx, library, pageToken)
		if err != nil {
			return nil, err
		}
		out = append(out, page...)
		if next == "" {
			return out, nil
		}
		pageToken = next
	}
}

// LibraryStats summarizes one library for the dashboard.
type LibraryStats struct {
	Library  string `json:"library"`
	Total    int    `json:"total"`
	Tagged   int    `json:"tagged"`
	Untagged int    `json:"untagged"`
}

// Stats counts how much of a library has been enriched with metadata.
func (s *LibraryService) Stats(ctx context.Context, library string) (*LibraryStats, error) {
	videos, err := s.ListAll(ctx, library)
	if err != nil {
		return nil, err
	}
	stats := &LibraryStats{Library: library, Total: len(videos)}
	for _, v := range videos {
		if v.UserMetadata.IsEmpty() {
			stats.Untagged++
		} else {
			stats.Tagged++
		}
	}
	return stats, nil
}
