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

// Package commands provides the concrete Command implementations for the
// tag-enrichment workflow. This file defines the embedding sync step:
// pulling the provider-computed embedding segments for a video and
// caching them in the pgvector store so the alignment service can query
// them without a provider round trip.
package commands

import (
	"github.com/mrnkim/brand-integration-assistant/internal/core/cor"
	"github.com/mrnkim/brand-integration-assistant/internal/core/model"
	"github.com/mrnkim/brand-integration-assistant/internal/vector"
	"github.com/mrnkim/brand-integration-assistant/internal/videoai"
)

// EmbeddingSync refreshes the vector store's rows for one video: fetch
// the segments from the provider, drop the stale rows, insert the new
// ones. The previous command's metadata output is passed through
// untouched so this step can sit at the end of the chain without
// changing what the workflow returns.
type EmbeddingSync struct {
	cor.BaseCommand
	client  *videoai.Client
	store   *vector.Store
	indexID string
	scope   string
}

// NewEmbeddingSync constructs the command for one library index and
// vector-store scope.
func NewEmbeddingSync(name string, client *videoai.Client, store *vector.Store, indexID, scope string) *EmbeddingSync {
	return &EmbeddingSync{
		BaseCommand: *cor.NewBaseCommand(name),
		client:      client,
		store:       store,
		indexID:     indexID,
		scope:       scope,
	}
}

// IsExecutable requires the video record; the metadata input is only
// passed through.
func (e *EmbeddingSync) IsExecutable(context cor.Context) bool {
	return context != nil && context.GetContext() != nil &&
		context.Get(VideoParameterName) != nil
}

// Execute refreshes the stored embeddings for the video.
func (e *EmbeddingSync) Execute(context cor.Context) {
	video := context.Get(VideoParameterName).(*model.Video)

	segments, err := e.client.GetVideoEmbedding(context.GetContext(), e.indexID, video.ID)
	if err != nil {
		e.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(e.GetName(), err)
		return
	}

	if err := e.store.DeleteVideo(context.GetContext(), video.ID, e.scope); err != nil {
		e.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(e.GetName(), err)
		return
	}
	for _, seg := range segments {
		entry := &vector.Entry{
			VideoID: video.ID,
			Scope:   e.scope,
			Start:   seg.Start,
			End:     seg.End,
			Vector:  seg.Vector,
		}
		if err := e.store.Upsert(context.GetContext(), entry); err != nil {
			e.GetErrorCounter().Add(context.GetContext(), 1)
			context.AddError(e.GetName(), err)
			return
		}
	}

	e.GetSuccessCounter().Add(context.GetContext(), 1)
	// Pass the metadata through as this command's output.
	if md := context.Get(e.GetInputParam()); md != nil {
		context.Add(e.GetOutputParam(), md)
	}
}
