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
// tag-enrichment workflow. This file defines the generation step: asking
// the provider's LLM-backed analyze endpoint for a hashtag blob
// describing the video.
//
// Failure semantics follow the rest of the system's treatment of
// generation: a generation failure is logged and yields an empty blob
// rather than aborting the chain. The classifier downstream turns an
// empty blob into all-empty metadata, so a video whose analyze call
// failed simply stays untagged until the next run — preferable to failing
// a whole batch because one generative call timed out.
package commands

import (
	"bytes"
	"fmt"
	"log/slog"
	"text/template"

	"github.com/mrnkim/brand-integration-assistant/internal/cloud"
	"github.com/mrnkim/brand-integration-assistant/internal/core/cor"
	"github.com/mrnkim/brand-integration-assistant/internal/core/model"
)

// HashtagGenerate calls the rate-limited analyze endpoint with the
// configured hashtag prompt and outputs the raw generated text.
type HashtagGenerate struct {
	cor.BaseCommand
	analyzer       *cloud.QuotaAwareAnalyzer
	promptTemplate *template.Template
}

// NewHashtagGenerate constructs the command. The template may reference
// {{.Filename}} and the six current metadata fields so the prompt can
// steer the model with what is already known about the video.
func NewHashtagGenerate(name string, analyzer *cloud.QuotaAwareAnalyzer, prompt *template.Template) *HashtagGenerate {
	return &HashtagGenerate{
		BaseCommand:    *cor.NewBaseCommand(name),
		analyzer:       analyzer,
		promptTemplate: prompt,
	}
}

// IsExecutable requires the fetched video record from the previous step.
func (h *HashtagGenerate) IsExecutable(context cor.Context) bool {
	return context != nil && context.Get(VideoParameterName) != nil
}

// Execute renders the prompt and runs the analyze call. The output is the
// raw hashtag text; empty on generation failure.
func (h *HashtagGenerate) Execute(context cor.Context) {
	video, ok := context.Get(VideoParameterName).(*model.Video)
	if !ok {
		h.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(h.GetName(), errMissingVideo)
		return
	}

	vocabulary := map[string]string{
		"Filename":     video.Filename,
		"Source":       video.UserMetadata.Source,
		"Sector":       video.UserMetadata.Sector,
		"Emotions":     video.UserMetadata.Emotions,
		"Brands":       video.UserMetadata.Brands,
		"Locations":    video.UserMetadata.Locations,
		"Demographics": video.UserMetadata.Demographics,
	}
	var doc bytes.Buffer
	if err := h.promptTemplate.Execute(&doc, vocabulary); err != nil {
		h.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(h.GetName(), fmt.Errorf("render hashtag prompt: %w", err))
		return
	}

	out, err := h.analyzer.Analyze(context.GetContext(), video.ID, doc.String())
	if err != nil {
		// Log-and-return-empty: generation failures must not fail the chain.
		slog.WarnContext(context.GetContext(), "hashtag generation failed",
			"video_id", video.ID, "error", err)
		out = ""
	}

	h.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(h.GetOutputParam(), out)
}
