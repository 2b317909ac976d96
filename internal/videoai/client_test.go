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

package videoai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrnkim/brand-integration-assistant/internal/core/model"
)

const testAPIKey = "test-key-123"

// newFakeAPI stands in for the external video-understanding service. Every
// handler first verifies the API key header, which is the one piece of
// behavior shared by all endpoints.
func newFakeAPI(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-api-key") != testAPIKey {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"code": "api_key_invalid", "message": "bad key"}`))
			return
		}
		handler(w, r)
	}))
}

func TestListVideosWalksPages(t *testing.T) {
	srv := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/indexes/idx-content/videos", r.URL.Path)
		if r.URL.Query().Get("page_token") == "" {
			_, _ = w.Write([]byte(`{
				"data": [{"_id": "v1", "metadata": {"filename": "a.mp4", "duration": 10}}],
				"next_page_token": "page-2"
			}`))
			return
		}
		assert.Equal(t, "page-2", r.URL.Query().Get("page_token"))
		_, _ = w.Write([]byte(`{
			"data": [{"_id": "v2", "metadata": {"filename": "b.mp4", "duration": 20}}]
		}`))
	})
	defer srv.Close()

	client := NewClient(srv.URL, testAPIKey, time.Second)

	videos, next, err := client.ListVideos(context.Background(), "idx-content", "")
	require.NoError(t, err)
	require.Len(t, videos, 1)
	assert.Equal(t, "v1", videos[0].ID)
	assert.Equal(t, "a.mp4", videos[0].Filename)
	assert.Equal(t, "page-2", next)

	videos, next, err = client.ListVideos(context.Background(), "idx-content", next)
	require.NoError(t, err)
	require.Len(t, videos, 1)
	assert.Equal(t, "v2", videos[0].ID)
	assert.Empty(t, next)
}

func TestGetVideoReshapesWireRecord(t *testing.T) {
	srv := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/indexes/idx-ads/videos/v42", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"_id": "v42",
			"metadata": {"filename": "promo.mp4", "duration": 15.5, "width": 1080, "height": 1920},
			"hls": {"thumbnail_urls": ["https://cdn.example.com/v42.jpg", "https://cdn.example.com/v42-alt.jpg"]},
			"user_metadata": {"source": "campaign-7", "sector": "beauty"}
		}`))
	})
	defer srv.Close()

	client := NewClient(srv.URL, testAPIKey, time.Second)
	video, err := client.GetVideo(context.Background(), "idx-ads", "v42")
	require.NoError(t, err)

	assert.Equal(t, "v42", video.ID)
	assert.Equal(t, "promo.mp4", video.Filename)
	assert.Equal(t, 15.5, video.Duration)
	assert.Equal(t, 1080, video.Width)
	// Only the first thumbnail URL is kept.
	assert.Equal(t, "https://cdn.example.com/v42.jpg", video.ThumbnailURL)
	assert.Equal(t, "campaign-7", video.UserMetadata.Source)
	assert.Equal(t, "beauty", video.UserMetadata.Sector)
}

func TestSearchSendsVisualAndAudioOptions(t *testing.T) {
	srv := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/search", r.URL.Path)

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "idx-content", req["index_id"])
		assert.Equal(t, "city skyline at night", req["query_text"])
		assert.ElementsMatch(t, []any{"visual", "audio"}, req["search_options"])

		_, _ = w.Write([]byte(`{
			"data": [
				{"video_id": "v1", "score": 84.2, "start": 3, "end": 9, "confidence": "high"},
				{"video_id": "v2", "score": 71.0, "start": 0, "end": 5, "confidence": "medium"}
			]
		}`))
	})
	defer srv.Close()

	client := NewClient(srv.URL, testAPIKey, time.Second)
	hits, err := client.Search(context.Background(), "idx-content", "city skyline at night", 10)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "v1", hits[0].VideoID)
	assert.Equal(t, 84.2, hits[0].Score)
	assert.Equal(t, "high", hits[0].Confidence)
}

func TestAnalyzeReturnsRawBlob(t *testing.T) {
	srv := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "v1", req["video_id"])
		assert.Equal(t, false, req["stream"])
		_, _ = w.Write([]byte(`{"id": "gen-1", "data": "#female #beauty #seoul"}`))
	})
	defer srv.Close()

	client := NewClient(srv.URL, testAPIKey, time.Second)
	out, err := client.Analyze(context.Background(), "v1", "generate hashtags")
	require.NoError(t, err)
	assert.Equal(t, "#female #beauty #seoul", out)
}

func TestUpdateVideoMetadataPutsUserMetadata(t *testing.T) {
	var got updateMetadataRequest
	srv := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/indexes/idx-content/videos/v1", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	})
	defer srv.Close()

	client := NewClient(srv.URL, testAPIKey, time.Second)
	md := model.VideoMetadata{Source: "partner-3", Demographics: "female, 25-34"}
	require.NoError(t, client.UpdateVideoMetadata(context.Background(), "idx-content", "v1", md))
	assert.Equal(t, md, got.UserMetadata)
}

func TestCreateIndexTaskUploadsMultipart(t *testing.T) {
	srv := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tasks", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "idx-content", r.FormValue("index_id"))

		file, header, err := r.FormFile("video_file")
		require.NoError(t, err)
		defer func() { _ = file.Close() }()
		assert.Equal(t, "clip.mp4", header.Filename)

		_, _ = w.Write([]byte(`{"_id": "task-9", "index_id": "idx-content", "status": "pending"}`))
	})
	defer srv.Close()

	client := NewClient(srv.URL, testAPIKey, time.Second)
	task, err := client.CreateIndexTask(context.Background(), "idx-content", "clip.mp4", "video/mp4",
		strings.NewReader("fake video bytes"))
	require.NoError(t, err)
	assert.Equal(t, "task-9", task.ID)
	assert.Equal(t, model.TaskPending, task.Status)
	assert.False(t, task.Done())
}

func TestGetVideoEmbeddingReturnsSegments(t *testing.T) {
	srv := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/indexes/idx-ads/videos/v1/embeddings", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"video_embedding": {
				"segments": [
					{"start_offset_sec": 0, "end_offset_sec": 6, "embedding": [0.1, 0.2]},
					{"start_offset_sec": 6, "end_offset_sec": 12, "embedding": [0.3, 0.4]}
				]
			}
		}`))
	})
	defer srv.Close()

	client := NewClient(srv.URL, testAPIKey, time.Second)
	segments, err := client.GetVideoEmbedding(context.Background(), "idx-ads", "v1")
	require.NoError(t, err)
	require.Len(t, segments, 2)
	assert.Equal(t, 6.0, segments[0].End)
	assert.Equal(t, []float32{0.3, 0.4}, segments[1].Vector)
}

func TestErrorEnvelopeIsSurfaced(t *testing.T) {
	srv := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"code": "resource_not_found", "message": "video does not exist"}`))
	})
	defer srv.Close()

	client := NewClient(srv.URL, testAPIKey, time.Second)
	_, err := client.GetVideo(context.Background(), "idx-content", "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "resource_not_found")
	assert.Contains(t, err.Error(), "video does not exist")
}

func TestBadAPIKeyIsRejected(t *testing.T) {
	srv := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be reached with a bad key")
	})
	defer srv.Close()

	client := NewClient(srv.URL, "wrong-key", time.Second)
	_, err := client.GetTask(context.Background(), "task-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api_key_invalid")
}
