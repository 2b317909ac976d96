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

// Package videoai is the HTTP client for the external video-understanding
// service. The service owns everything computationally heavy in this
// system — indexing, embedding extraction, semantic ranking, and the
// LLM-backed analyze endpoint — so this client is deliberately thin: it
// shapes JSON in and out and reports failures, nothing more.
//
// Every method takes a context.Context and honors its cancellation; the
// underlying http.Client carries the request timeout configured at
// construction time.
package videoai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"github.com/mrnkim/brand-integration-assistant/internal/core/model"
)

// Client talks to the external video-understanding API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient constructs a Client for the given API endpoint. A zero timeout
// falls back to 30 seconds; analyze calls on long videos are the slowest
// thing this client does and routinely take double-digit seconds.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// ListVideos returns one page of the given library index. An empty
// pageToken requests the first page; the returned token is empty on the
// last page.
func (c *Client) ListVideos(ctx context.Context, indexID, pageToken string) ([]*model.Video, string, error) {
	endpoint := fmt.Sprintf("%s/indexes/%s/videos", c.baseURL, url.PathEscape(indexID))
	if pageToken != "" {
		endpoint += "?page_token=" + url.QueryEscape(pageToken)
	}

	var page videoPage
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &page); err != nil {
		return nil, "", fmt.Errorf("list videos for index %s: %w", indexID, err)
	}

	out := make([]*model.Video, 0, len(page.Data))
	for i := range page.Data {
		out = append(out, page.Data[i].toModel())
	}
	return out, page.NextPageToken, nil
}

// GetVideo fetches a single video record, including its user metadata.
func (c *Client) GetVideo(ctx context.Context, indexID, videoID string) (*model.Video, error) {
	endpoint := fmt.Sprintf("%s/indexes/%s/videos/%s", c.baseURL, url.PathEscape(indexID), url.PathEscape(videoID))

	var item videoItem
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &item); err != nil {
		return nil, fmt.Errorf("get video %s: %w", videoID, err)
	}
	return item.toModel(), nil
}

// Search runs a semantic text query against one library index and returns
// the ranked segment hits. Ranking is entirely the provider's; results are
// passed through in the order received.
func (c *Client) Search(ctx context.Context, indexID, query string, limit int) ([]*model.SearchResult, error) {
	body := searchRequest{
		IndexID:       indexID,
		QueryText:     query,
		SearchOptions: []string{"visual", "audio"},
		PageLimit:     limit,
	}

	var resp searchResponse
	if err := c.do(ctx, http.MethodPost, c.baseURL+"/search", body, &resp); err != nil {
		return nil, fmt.Errorf("search index %s: %w", indexID, err)
	}

	out := make([]*model.SearchResult, 0, len(resp.Data))
	for _, d := range resp.Data {
		out = append(out, &model.SearchResult{
			VideoID:    d.VideoID,
			Score:      d.Score,
			Start:      d.Start,
			End:        d.End,
			Confidence: d.Confidence,
		})
	}
	return out, nil
}

// Analyze asks the service's LLM-backed endpoint to generate free text
// about a video. The prompt decides what comes back; the enrichment
// pipeline sends a hashtag-generation prompt and feeds the raw blob to
// the classifier.
func (c *Client) Analyze(ctx context.Context, videoID, prompt string) (string, error) {
	body := analyzeRequest{VideoID: videoID, Prompt: prompt, Stream: false}

	var resp analyzeResponse
	if err := c.do(ctx, http.MethodPost, c.baseURL+"/analyze", body, &resp); err != nil {
		return "", fmt.Errorf("analyze video %s: %w", videoID, err)
	}
	return resp.Data, nil
}

// UpdateVideoMetadata replaces the user_metadata block on a video record.
// This is the persistence half of the enrichment pipeline; unlike hashtag
// generation, a failure here is propagated untouched so the caller can
// surface it.
func (c *Client) UpdateVideoMetadata(ctx context.Context, indexID, videoID string, md model.VideoMetadata) error {
	endpoint := fmt.Sprintf("%s/indexes/%s/videos/%s", c.baseURL, url.PathEscape(indexID), url.PathEscape(videoID))
	if err := c.do(ctx, http.MethodPut, endpoint, updateMetadataRequest{UserMetadata: md}, nil); err != nil {
		return fmt.Errorf("update metadata for video %s: %w", videoID, err)
	}
	return nil
}

// CreateIndexTask uploads a video file and registers it for indexing.
// The returned task ID is what the UI polls via GetTask.
func (c *Client) CreateIndexTask(ctx context.Context, indexID, filename, contentType string, file io.Reader) (*model.IndexingTask, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("index_id", indexID); err != nil {
		return nil, fmt.Errorf("create index task: %w", err)
	}
	fw, err := mw.CreateFormFile("video_file", filename)
	if err != nil {
		return nil, fmt.Errorf("create index task: %w", err)
	}
	if _, err := io.Copy(fw, file); err != nil {
		return nil, fmt.Errorf("create index task: read upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("create index task: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/tasks", &buf)
	if err != nil {
		return nil, fmt.Errorf("create index task: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("x-api-key", c.apiKey)

	var task taskResponse
	if err := c.send(req, &task); err != nil {
		return nil, fmt.Errorf("create index task: %w", err)
	}
	return &model.IndexingTask{ID: task.ID, VideoID: task.VideoID, IndexID: task.IndexID, Status: task.Status}, nil
}

// GetTask reports the current state of an indexing task.
func (c *Client) GetTask(ctx context.Context, taskID string) (*model.IndexingTask, error) {
	endpoint := c.baseURL + "/tasks/" + url.PathEscape(taskID)

	var task taskResponse
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &task); err != nil {
		return nil, fmt.Errorf("get task %s: %w", taskID, err)
	}
	return &model.IndexingTask{ID: task.ID, VideoID: task.VideoID, IndexID: task.IndexID, Status: task.Status}, nil
}

// GetVideoEmbedding fetches the per-segment embedding vectors the provider
// computed for a video at indexing time. The vectors are consumed opaquely
// by the alignment service and the pgvector store.
func (c *Client) GetVideoEmbedding(ctx context.Context, indexID, videoID string) ([]model.EmbeddingSegment, error) {
	endpoint := fmt.Sprintf("%s/indexes/%s/videos/%s/embeddings", c.baseURL, url.PathEscape(indexID), url.PathEscape(videoID))

	var resp embeddingResponse
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &resp); err != nil {
		return nil, fmt.Errorf("get embedding for video %s: %w", videoID, err)
	}
	return resp.VideoEmbedding.Segments, nil
}

// do marshals an optional JSON body, issues the request, and decodes the
// response into out (when out is non-nil).
func (c *Client) do(ctx context.Context, method, endpoint string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("x-api-key", c.apiKey)

	return c.send(req, out)
}

// send executes a prepared request and decodes the JSON response. Non-2xx
// responses are turned into errors carrying the provider's error envelope
// when one is present, or the raw body otherwise.
func (c *Client) send(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr apiError
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Message != "" {
			return fmt.Errorf("api error %d (%s): %s", resp.StatusCode, apiErr.Code, apiErr.Message)
		}
		return fmt.Errorf("api error %d: %s", resp.StatusCode, string(raw))
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
