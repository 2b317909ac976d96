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

// Package cloud provides the container of external service clients.
// This file is central to the application's wiring: NewServiceClients is
// called once at startup, initializes every external connection from the
// loaded Config, and bundles them into a single ServiceClients struct
// that is passed to the services and workflows. It is a plain dependency
// injection container — no globals, no lazy init.
//
// Logic Flow:
//  1. Build the raw video-AI HTTP client from the VideoAI config block.
//  2. Wrap its analyze endpoint in the quota-aware decorator.
//  3. Connect the pgvector embedding store (optional: alignment features
//     degrade gracefully when no DSN is configured).
//  4. Build the text-embedding client for the alignment service.
package cloud

import (
	"context"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/mrnkim/brand-integration-assistant/internal/vector"
	"github.com/mrnkim/brand-integration-assistant/internal/videoai"
)

// ServiceClients holds every initialized external connection the
// application uses. One instance is shared by the HTTP handlers, the
// enrichment workflow, and the batch tagger.
type ServiceClients struct {
	VideoAI     *videoai.Client     // Raw client for the video-understanding API.
	Analyzer    *QuotaAwareAnalyzer // Rate-limited wrapper over the analyze endpoint.
	VectorStore *vector.Store       // pgvector embedding cache; nil when unconfigured.
	Embedder    *openai.Client      // Text-embedding client for contextual alignment; nil when unconfigured.
}

// Close tears down the connections that hold resources. HTTP clients need
// no explicit shutdown; the vector store pool does.
func (c *ServiceClients) Close() {
	if c.VectorStore != nil {
		c.VectorStore.Close()
	}
}

// NewServiceClients initializes all external clients from the loaded
// configuration.
//
// Inputs:
//   - ctx: the application root context, used for connection setup.
//   - config: the loaded application configuration.
//
// Outputs:
//   - *ServiceClients: the fully initialized container.
//   - error: when a configured client fails to initialize. An absent
//     vector-store DSN or embedding key is not an error — the related
//     features are simply unavailable.
func NewServiceClients(ctx context.Context, config *Config) (*ServiceClients, error) {
	va := videoai.NewClient(
		config.VideoAI.BaseURL,
		config.VideoAI.APIKey,
		time.Duration(config.VideoAI.TimeoutInSeconds)*time.Second,
	)

	out := &ServiceClients{
		VideoAI:  va,
		Analyzer: NewQuotaAwareAnalyzer(va, config.VideoAI.AnalyzeRateLimit),
	}

	if config.VectorStore.DSN != "" {
		vs, err := vector.NewStore(ctx, config.VectorStore.DSN, config.VectorStore.Table)
		if err != nil {
			return nil, err
		}
		out.VectorStore = vs
	}

	if config.TextEmbedding.APIKey != "" {
		out.Embedder = openai.NewClient(config.TextEmbedding.APIKey)
	}

	return out, nil
}
