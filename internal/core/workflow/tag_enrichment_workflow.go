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

// Package workflow defines the high-level orchestrations that combine
// pipeline commands into coherent chains. This file implements tag
// enrichment: the end-to-end path from a bare video ID to classified,
// persisted user metadata.
package workflow

import (
	"context"
	"errors"
	"text/template"

	"github.com/mrnkim/brand-integration-assistant/internal/cloud"
	"github.com/mrnkim/brand-integration-assistant/internal/core/commands"
	"github.com/mrnkim/brand-integration-assistant/internal/core/cor"
	"github.com/mrnkim/brand-integration-assistant/internal/core/model"
	"github.com/mrnkim/brand-integration-assistant/internal/vector"
)

// TagEnrichmentWorkflow runs one video through fetch → generate →
// classify → persist, optionally followed by an embedding sync into the
// vector store. The same workflow instance serves both the HTTP handler
// (one video per request) and the batch tagger (many videos through the
// worker pool); commands are stateless, so the chain is reusable and each
// execution owns its own cor.Context.
type TagEnrichmentWorkflow struct {
	cor.BaseCommand
	chain cor.Chain
}

// Execute runs the underlying chain. Provided so the workflow itself
// satisfies cor.Command and can nest inside larger chains.
func (w *TagEnrichmentWorkflow) Execute(context cor.Context) {
	w.chain.Execute(context)
}

// Run is the convenience entry point: it builds a fresh chain context for
// one video ID, executes the workflow, and unpacks the result.
//
// Inputs:
//   - ctx: the Go context for cancellation and tracing.
//   - videoID: the video to enrich.
//
// Outputs:
//   - model.VideoMetadata: the metadata that was persisted.
//   - error: the first chain error, when any command failed.
func (w *TagEnrichmentWorkflow) Run(ctx context.Context, videoID string) (model.VideoMetadata, error) {
	chainCtx := cor.NewBaseContext()
	chainCtx.SetContext(ctx)
	chainCtx.Add(cor.CtxIn, videoID)

	w.Execute(chainCtx)

	if chainCtx.HasErrors() {
		errs := make([]error, 0, len(chainCtx.GetErrors()))
		for _, err := range chainCtx.GetErrors() {
			errs = append(errs, err)
		}
		return model.VideoMetadata{}, errors.Join(errs...)
	}

	md, ok := chainCtx.Get(cor.CtxIn).(model.VideoMetadata)
	if !ok {
		return model.VideoMetadata{}, errors.New("enrichment chain produced no metadata")
	}
	return md, nil
}

// NewTagEnrichmentWorkflow builds the enrichment chain for one library
// index. The embedding sync step is only added when a vector store is
// available; tagging works without one.
//
// Inputs:
//   - config: the application configuration (prompt template, index IDs).
//   - serviceClients: the shared external clients.
//   - indexID: the library index the videos live in.
//   - scope: the vector-store scope for synced embeddings.
func NewTagEnrichmentWorkflow(
	config *cloud.Config,
	serviceClients *cloud.ServiceClients,
	indexID string,
	scope string) *TagEnrichmentWorkflow {

	hashtagTemplate, err := template.New("hashtag-template").Parse(config.PromptTemplates.Hashtag)
	if err != nil {
		panic(err)
	}

	out := cor.NewBaseChain("tag-enrichment")
	out.AddCommand(commands.NewVideoFetch("fetch-video", serviceClients.VideoAI, indexID))
	out.AddCommand(commands.NewHashtagGenerate("generate-hashtags", serviceClients.Analyzer, hashtagTemplate))
	out.AddCommand(commands.NewHashtagClassify("classify-hashtags"))
	out.AddCommand(commands.NewMetadataPersist("persist-metadata", serviceClients.VideoAI, indexID))
	if serviceClients.VectorStore != nil {
		out.AddCommand(newEmbeddingSyncStep(serviceClients, indexID, scope))
	}

	return &TagEnrichmentWorkflow{
		BaseCommand: *cor.NewBaseCommand("tag-enrichment-workflow"),
		chain:       out,
	}
}

func newEmbeddingSyncStep(serviceClients *cloud.ServiceClients, indexID, scope string) cor.Command {
	if scope == "" {
		scope = vector.ScopeContent
	}
	return commands.NewEmbeddingSync("sync-embeddings", serviceClients.VideoAI, serviceClients.VectorStore, indexID, scope)
}
