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
// service. This file holds the wire DTOs: the request and response JSON
// shapes the service speaks. They are kept separate from the application's
// own model types so a change on the provider side only touches this
// package's reshaping code.
package videoai

import "github.com/mrnkim/brand-integration-assistant/internal/core/model"

// videoPage is the paged response envelope for the video listing endpoint.
type videoPage struct {
	Data          []videoItem `json:"data"`
	NextPageToken string      `json:"next_page_token,omitempty"`
}

// videoItem is one video record on the wire. System metadata (duration,
// dimensions) arrives nested under "metadata"; the user-managed block is
// "user_metadata".
type videoItem struct {
	ID       string `json:"_id"`
	Metadata struct {
		Filename string  `json:"filename"`
		Duration float64 `json:"duration"`
		Width    int     `json:"width"`
		Height   int     `json:"height"`
	} `json:"metadata"`
	HLS struct {
		ThumbnailURLs []string `json:"thumbnail_urls"`
	} `json:"hls"`
	UserMetadata model.VideoMetadata `json:"user_metadata"`
}

// toModel reshapes a wire record into the application's Video type.
func (v *videoItem) toModel() *model.Video {
	out := &model.Video{
		ID:           v.ID,
		Filename:     v.Metadata.Filename,
		Duration:     v.Metadata.Duration,
		Width:        v.Metadata.Width,
		Height:       v.Metadata.Height,
		UserMetadata: v.UserMetadata,
	}
	if len(v.HLS.ThumbnailURLs) > 0 {
		out.ThumbnailURL = v.HLS.ThumbnailURLs[0]
	}
	return out
}

// searchRequest is the body for the semantic search endpoint.
type searchRequest struct {
	IndexID       string   `json:"index_id"`
	QueryText     string   `json:"query_text"`
	SearchOptions []string `json:"search_options"`
	PageLimit     int      `json:"page_limit"`
}

// searchResponse wraps the ranked hits for one search call.
type searchResponse struct {
	Data []struct {
		VideoID    string  `json:"video_id"`
		Score      float64 `json:"score"`
		Start      float64 `json:"start"`
		End        float64 `json:"end"`
		Confidence string  `json:"confidence"`
	} `json:"data"`
}

// analyzeRequest is the body for the LLM-backed analyze endpoint.
type analyzeRequest struct {
	VideoID string `json:"video_id"`
	Prompt  string `json:"prompt"`
	// The service streams by default; the enrichment pipeline wants the
	// whole blob in one response.
	Stream bool `json:"stream"`
}

// analyzeResponse carries the raw generated text. The hashtag blob in
// "data" is exactly what the classifier consumes.
type analyzeResponse struct {
	ID   string `json:"id"`
	Data string `json:"data"`
}

// updateMetadataRequest is the body for the metadata persistence PUT.
type updateMetadataRequest struct {
	UserMetadata model.VideoMetadata `json:"user_metadata"`
}

// taskResponse is the wire shape of an indexing task.
type taskResponse struct {
	ID      string `json:"_id"`
	VideoID string `json:"video_id"`
	IndexID string `json:"index_id"`
	Status  string `json:"status"`
}

// embeddingResponse wraps the per-segment embedding vectors for one video.
type embeddingResponse struct {
	VideoEmbedding struct {
		Segments []model.EmbeddingSegment `json:"segments"`
	} `json:"video_embedding"`
}

// apiError is the provider's error envelope. Code is the provider's own
// string code ("resource_not_found" etc.), not an HTTP status.
type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
