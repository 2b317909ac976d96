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

// Package cloud defines the data structures for application configuration,
// loaded from TOML files, and the shared container of external service
// clients. This file centralizes the configuration structs so the
// application's tunable surface is visible in one place.
//
// Structs:
//   - VideoAI: endpoint, credentials, and index IDs for the external
//     video-understanding service.
//   - VectorStore: connection settings for the pgvector-backed store.
//   - TextEmbedding: the text-embedding model used by the alignment service.
//   - PromptTemplates: prompt text sent to the provider's analyze endpoint.
//   - Config: the top-level aggregate.
package cloud

// VideoAI holds everything needed to reach the external
// video-understanding API: where it lives, how to authenticate, and which
// index holds each library.
type VideoAI struct {
	BaseURL          string `toml:"base_url"`           // Root URL of the provider's REST API.
	APIKey           string `toml:"api_key"`            // Per-account API key, sent as x-api-key.
	ContentIndexID   string `toml:"content_index_id"`   // The index backing the content library.
	AdsIndexID       string `toml:"ads_index_id"`       // The index backing the ads library.
	TimeoutInSeconds int    `toml:"timeout_in_seconds"` // HTTP timeout for all provider calls.
	AnalyzeRateLimit int    `toml:"analyze_rate_limit"` // Max analyze calls per minute across the process.
}

// VectorStore configures the Postgres/pgvector database that caches video
// embeddings for the alignment service.
type VectorStore struct {
	DSN        string `toml:"dsn"`        // Postgres connection string.
	Table      string `toml:"table"`      // Embeddings table name.
	Dimensions int    `toml:"dimensions"` // Vector width; must match the provider's embedding model.
}

// TextEmbedding configures the model that turns an ad's metadata text into
// a vector for the text half of contextual alignment.
type TextEmbedding struct {
	APIKey string `toml:"api_key"` // API key for the embedding provider.
	Model  string `toml:"model"`   // Model identifier (e.g. "text-embedding-3-small").
}

// PromptTemplates holds the prompt text for generative calls. The hashtag
// template is a Go text/template; see workflow.NewTagEnrichmentWorkflow
// for the variables it may reference.
type PromptTemplates struct {
	Hashtag string `toml:"hashtag"`
}

// Config is the top-level application configuration, loaded from TOML files.
type Config struct {
	Application struct {
		Name           string `toml:"name"`             // The service name, used in telemetry.
		Port           int    `toml:"port"`             // HTTP listen port for the API server.
		ThreadPoolSize int    `toml:"thread_pool_size"` // Worker count for the batch enrichment pool.
		OTLPEndpoint   string `toml:"otlp_endpoint"`    // OTLP collector address; empty means stdout tracing.
	} `toml:"application"`
	VideoAI         VideoAI         `toml:"video_ai"`
	VectorStore     VectorStore     `toml:"vector_store"`
	TextEmbedding   TextEmbedding   `toml:"text_embedding"`
	PromptTemplates PromptTemplates `toml:"prompt_templates"`
}

// NewConfig returns an empty Config ready for the loader to populate.
func NewConfig() *Config {
	return &Config{}
}
