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
// tag-enrichment workflow. This file wraps the hashtag classifier as a
// chain step.
package commands

import (
	"github.com/mrnkim/brand-integration-assistant/internal/core/classifier"
	"github.com/mrnkim/brand-integration-assistant/internal/core/cor"
	"github.com/mrnkim/brand-integration-assistant/internal/core/model"
)

// HashtagClassify turns the raw hashtag blob from the generation step
// into a structured VideoMetadata record. The classifier itself never
// sets Source; this command carries the video's existing Source label
// forward so a metadata update does not erase it.
type HashtagClassify struct {
	cor.BaseCommand
}

// NewHashtagClassify constructs the command.
func NewHashtagClassify(name string) *HashtagClassify {
	return &HashtagClassify{BaseCommand: *cor.NewBaseCommand(name)}
}

// IsExecutable accepts any context that carries a string input — the
// classifier is total, so even an empty blob is processable.
func (h *HashtagClassify) IsExecutable(context cor.Context) bool {
	if context == nil || context.GetContext() == nil {
		return false
	}
	_, ok := context.Get(h.GetInputParam()).(string)
	return ok
}

// Execute classifies the hashtag blob.
func (h *HashtagClassify) Execute(context cor.Context) {
	raw, _ := context.Get(h.GetInputParam()).(string)

	md := classifier.Classify(raw)
	if video, ok := context.Get(VideoParameterName).(*model.Video); ok {
		md.Source = video.UserMetadata.Source
	}

	h.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(h.GetOutputParam(), md)
}
