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

// Package commands provides the concrete Command implementations that the
// tag-enrichment workflow chains together. This file defines the first
// step: resolving a video ID into the full video record from the external
// index.
package commands

import (
	"github.com/mrnkim/brand-integration-assistant/internal/core/cor"
	"github.com/mrnkim/brand-integration-assistant/internal/videoai"
)

// VideoParameterName is the context key under which the fetched video
// record stays available to every later command in the chain, independent
// of the CtxIn/CtxOut piping.
const VideoParameterName = "__video__"

// VideoFetch resolves a video ID (the chain's initial input) into a
// *model.Video. The record is published both as the command output and
// under VideoParameterName.
type VideoFetch struct {
	cor.BaseCommand
	client  *videoai.Client
	indexID string
}

// NewVideoFetch constructs the command for one library index.
func NewVideoFetch(name string, client *videoai.Client, indexID string) *VideoFetch {
	return &VideoFetch{
		BaseCommand: *cor.NewBaseCommand(name),
		client:      client,
		indexID:     indexID,
	}
}

// Execute fetches the video record.
func (v *VideoFetch) Execute(context cor.Context) {
	videoID, ok := context.Get(v.GetInputParam()).(string)
	if !ok || videoID == "" {
		v.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(v.GetName(), errMissingVideoID)
		return
	}

	video, err := v.client.GetVideo(context.GetContext(), v.indexID, videoID)
	if err != nil {
		v.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(v.GetName(), err)
		return
	}

	v.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(VideoParameterName, video)
	context.Add(v.GetOutputParam(), video)
}
