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
	"fmt"

	"github.com/mrnkim/brand-integration-assistant/internal/core/model"
	"github.com/mrnkim/brand-integration-assistant/internal/core/workflow"
)

// MetadataService exposes the tag-enrichment pipeline to the HTTP layer.
// It owns one workflow per library, each bound to its index and
// embedding scope.
type MetadataService struct {
	workflows map[string]*workflow.TagEnrichmentWorkflow
}

// NewMetadataService builds the service from the per-library workflows.
func NewMetadataService(content, ads *workflow.TagEnrichmentWorkflow) *MetadataService {
	return &MetadataService{
		workflows: map[string]*workflow.TagEnrichmentWorkflow{
			LibraryContent: content,
			LibraryAds:     ads,
		},
	}
}

// Enrich runs the full pipeline for one video: analyze the video into
// hashtags, classify them into the six-category metadata record, persist
// the record on the index, and refresh the video's embeddings. The
// resulting metadata is returned so the caller can render it immediately.
func (s *MetadataService) Enrich(ctx context.Context, library, videoID string) (model.VideoMetadata, error) {
	wf, ok := s.workflows[library]
	if !ok {
		return model.VideoMetadata{}, fmt.Errorf("unknown library %q", library)
	}
	return wf.Run(ctx, videoID)
}
