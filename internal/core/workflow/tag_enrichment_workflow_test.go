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

// Package workflow_test contains integration-style tests for the
// enrichment workflow. A httptest server stands in for the external
// video-understanding service, so the full chain — fetch, generate,
// classify, persist — runs end to end without network access or
// credentials.
package workflow_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/zeebo/assert"
	"go.opentelemetry.io/contrib/bridges/otelslog"

	"github.com/mrnkim/brand-integration-assistant/internal/cloud"
	"github.com/mrnkim/brand-integration-assistant/internal/core/model"
	"github.com/mrnkim/brand-integration-assistant/internal/core/workflow"
	test "github.com/mrnkim/brand-integration-assistant/internal/testutil"
)

const testIndexID = "idx-content"

// logger emits test progress through the OTel slog bridge so test runs
// show up in traces the same way production logs do.
var logger = otelslog.NewLogger("github.com/mrnkim/brand-integration-assistant/tests/workflow")

// fakeProvider simulates the three provider endpoints the enrichment
// chain touches and records what was persisted.
type fakeProvider struct {
	mu        sync.Mutex
	persisted map[string]model.VideoMetadata
	analyzed  []string
	server    *httptest.Server
}

func newFakeProvider(t *testing.T) *fakeProvider {
	t.Helper()
	f := &fakeProvider{persisted: make(map[string]model.VideoMetadata)}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /analyze", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			VideoID string `json:"video_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.mu.Lock()
		f.analyzed = append(f.analyzed, req.VideoID)
		f.mu.Unlock()
		_, _ = fmt.Fprintf(w, `{"id": "gen-1", "data": %q}`, test.GetTestHashtagText())
	})
	mux.HandleFunc("GET /indexes/{index}/videos/{video}", func(w http.ResponseWriter, r *http.Request) {
		videoID := r.PathValue("video")
		if videoID == "missing" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"code": "resource_not_found", "message": "no such video"}`))
			return
		}
		_, _ = w.Write([]byte(strings.Replace(test.GetTestVideoJSON(), "video-001", videoID, 1)))
	})
	mux.HandleFunc("PUT /indexes/{index}/videos/{video}", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			UserMetadata model.VideoMetadata `json:"user_metadata"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.mu.Lock()
		f.persisted[r.PathValue("video")] = req.UserMetadata
		f.mu.Unlock()
	})

	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

// newTestClients wires the service-client container at the fake provider.
func newTestClients(f *fakeProvider) (*cloud.Config, *cloud.ServiceClients) {
	config := cloud.NewConfig()
	config.VideoAI.BaseURL = f.server.URL
	config.VideoAI.APIKey = "test-key"
	config.VideoAI.ContentIndexID = testIndexID
	// High enough that tests never wait on the limiter.
	config.VideoAI.AnalyzeRateLimit = 600
	config.PromptTemplates.Hashtag = "Generate descriptive hashtags for the video {{.Filename}}."

	clients, err := cloud.NewServiceClients(context.Background(), config)
	if err != nil {
		panic(err)
	}
	return config, clients
}

func TestTagEnrichmentWorkflow(t *testing.T) {
	provider := newFakeProvider(t)
	config, clients := newTestClients(provider)

	wf := workflow.NewTagEnrichmentWorkflow(config, clients, testIndexID, "")
	md, err := wf.Run(context.Background(), "video-001")
	assert.NoError(t, err)
	logger.InfoContext(context.Background(), "enrichment complete", "metadata", md)

	// The sample hashtag blob covers every category plus two tokens not
	// in any vocabulary; those are dropped because locations and brands
	// were already filled.
	assert.Equal(t, "female, 25-34", md.Demographics)
	assert.Equal(t, "beauty", md.Sector)
	assert.Equal(t, "happy/positive", md.Emotions)
	assert.Equal(t, "seoul", md.Locations)
	assert.Equal(t, "fentybeauty", md.Brands)
	// Source came from the existing record, not from the classifier.
	assert.Equal(t, "campaign-7", md.Source)

	// The same metadata was persisted on the provider side.
	persisted, ok := provider.persisted["video-001"]
	assert.True(t, ok)
	assert.DeepEqual(t, md, persisted)
}

func TestTagEnrichmentWorkflowMissingVideo(t *testing.T) {
	provider := newFakeProvider(t)
	config, clients := newTestClients(provider)

	wf := workflow.NewTagEnrichmentWorkflow(config, clients, testIndexID, "")
	_, err := wf.Run(context.Background(), "missing")
	assert.Error(t, err)

	// The chain stopped before the generate step.
	provider.mu.Lock()
	defer provider.mu.Unlock()
	assert.Equal(t, 0, len(provider.analyzed))
}

func TestBatchRunnerProcessesAllVideosDespiteFailures(t *testing.T) {
	provider := newFakeProvider(t)
	config, clients := newTestClients(provider)

	wf := workflow.NewTagEnrichmentWorkflow(config, clients, testIndexID, "")
	runner := workflow.NewBatchRunner(wf, 2)

	results := runner.Run(context.Background(), []string{"v1", "missing", "v2", "v3"})
	assert.Equal(t, 4, len(results))

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			assert.Equal(t, "missing", r.VideoID)
			continue
		}
		assert.Equal(t, "beauty", r.Metadata.Sector)
	}
	assert.Equal(t, 1, failed)

	// Every healthy video got its metadata persisted.
	provider.mu.Lock()
	defer provider.mu.Unlock()
	assert.Equal(t, 3, len(provider.persisted))
}
