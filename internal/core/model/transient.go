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

// Package model defines the core data structures for the application.
// This file, `transient.go`, contains struct definitions for data models
// that only live in memory while a request or pipeline run is in flight.
// They are intermediate containers passed between commands in the
// enrichment chain and between the search/alignment services and the HTTP
// layer; none of them are persisted in this form.
package model

// SearchResult is one hit from a semantic search against a library index.
type SearchResult struct {
	VideoID    string  `json:"video_id"`             // The matching video's ID.
	Score      float64 `json:"score"`                // The index's relevance score for this hit.
	Start      float64 `json:"start,omitempty"`      // Start offset of the matching segment, in seconds.
	End        float64 `json:"end,omitempty"`        // End offset of the matching segment, in seconds.
	Confidence string  `json:"confidence,omitempty"` // The index's confidence label (e.g. "high").
}

// EmbeddingSegment is one embedding vector for a span of a video, as
// produced by the external video-understanding model. A whole video is
// represented by one or more segments.
type EmbeddingSegment struct {
	Start  float64   `json:"start_offset_sec"` // Segment start, in seconds.
	End    float64   `json:"end_offset_sec"`   // Segment end, in seconds.
	Vector []float32 `json:"embedding"`        // The raw embedding values.
}

// AlignmentMatch is one content video ranked against an ad by the
// contextual-alignment service. Score is the merged text/video similarity;
// the two component scores are kept so the admin UI can explain a match.
type AlignmentMatch struct {
	VideoID    string  `json:"video_id"`
	Score      float64 `json:"score"`
	TextScore  float64 `json:"text_score"`  // Similarity between the ad's metadata text and the content video.
	VideoScore float64 `json:"video_score"` // Similarity between the two video embeddings.
}

// TagResult pairs a video with the metadata the enrichment pipeline
// produced for it. The batch tagger collects one of these per video so a
// run can be summarized at the end.
type TagResult struct {
	VideoID  string        `json:"video_id"`
	Metadata VideoMetadata `json:"metadata"`
	Err      error         `json:"-"`
}
