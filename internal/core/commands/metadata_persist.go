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
// tag-enrichment workflow. This file defines the persistence step: a PUT
// of the classified metadata back onto the video record in the external
// index. Unlike generation, persistence failures propagate — a write that
// silently vanished would leave the library looking tagged when it is not.
package commands

import (
	"github.com/mrnkim/brand-integration-assistant/internal/core/cor"
	"github.com/mrnkim/brand-integration-assistant/internal/core/model"
	"github.com/mrnkim/brand-integration-assistant/internal/videoai"
)

// MetadataPersist writes the classified metadata to the external index.
type MetadataPersist struct {
	cor.BaseCommand
	client  *videoai.Client
	indexID string
}

// NewMetadataPersist constructs the command for one library index.
func NewMetadataPersist(name string, client *videoai.Client, indexID string) *MetadataPersist {
	return &MetadataPersist{
		BaseCommand: *cor.NewBaseCommand(name),
		client:      client,
		indexID:     indexID,
	}
}

// IsExecutable requires the classified metadata and the video record.
func (m *MetadataPersist) IsExecutable(context cor.Context) bool {
	if context == nil || context.GetContext() == nil {
		return false
	}
	_, ok := context.Get(m.GetInputParam()).(model.VideoMetadata)
	return ok && context.Get(VideoParameterName) != nil
}

// Execute issues the metadata update. The metadata is re-published as the
// command output so the workflow's caller receives what was stored.
func (m *MetadataPersist) Execute(context cor.Context) {
	md := context.Get(m.GetInputParam()).(model.VideoMetadata)
	video := context.Get(VideoParameterName).(*model.Video)

	if err := m.client.UpdateVideoMetadata(context.GetContext(), m.indexID, video.ID, md); err != nil {
		m.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(m.GetName(), err)
		return
	}

	m.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(m.GetOutputParam(), md)
}
