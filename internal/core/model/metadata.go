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
// This file contains the shapes that mirror records held by the external
// video-understanding index: the video record itself, the six-field user
// metadata block attached to it, and the indexing task used to track
// upload progress. These structs are the contract between the HTTP layer,
// the enrichment pipeline, and the external index — they are serialized
// to and from JSON on every call.
package model

// VideoMetadata is the structured "user metadata" record attached to a video
// in the external index. It always carries exactly six string fields. Each
// value is either empty or a comma-and-space-joined list of lowercase tokens.
// The Source field is never derived from hashtags; it is populated by the
// library that owns the video (e.g. the name of the ad campaign or the
// content partner) and is preserved as-is on update.
type VideoMetadata struct {
	Source       string `json:"source"`       // Origin label, set by the owning library, never by the classifier.
	Sector       string `json:"sector"`       // Industry sector tags (e.g. "beauty, fashion").
	Emotions     string `json:"emotions"`     // Emotional tone tags (e.g. "happy/positive").
	Brands       string `json:"brands"`       // Brand name tags (e.g. "fentybeauty, nike").
	Locations    string `json:"locations"`    // Location tags (e.g. "seoul, paris").
	Demographics string `json:"demographics"` // Audience tags (e.g. "female, 25-34").
}

// IsEmpty reports whether no category field carries a value. Source is
// excluded on purpose: a video with only a source label still counts as
// untagged for the backfill tool.
func (m *VideoMetadata) IsEmpty() bool {
	return m.Sector == "" && m.Emotions == "" && m.Brands == "" &&
		m.Locations == "" && m.Demographics == ""
}

// Video is a single record from the content or ads library as returned by
// the external video-understanding index.
type Video struct {
	ID           string        `json:"id"`                      // The index-assigned unique ID of the video.
	Filename     string        `json:"filename"`                // The original upload filename.
	Duration     float64       `json:"duration"`                // Length of the video in seconds.
	Width        int           `json:"width,omitempty"`         // Pixel width, when the index reports it.
	Height       int           `json:"height,omitempty"`        // Pixel height, when the index reports it.
	ThumbnailURL string        `json:"thumbnail_url,omitempty"` // A short-lived URL for the poster frame.
	UserMetadata VideoMetadata `json:"user_metadata"`           // The six-field structured metadata block.
}

// Indexing task states as reported by the external index. The UI polls
// GetTask until the state reaches TaskReady or TaskFailed.
const (
	TaskPending  = "pending"
	TaskIndexing = "indexing"
	TaskReady    = "ready"
	TaskFailed   = "failed"
)

// IndexingTask tracks the progress of one uploaded video through the
// external index's analysis pipeline.
type IndexingTask struct {
	ID      string `json:"id"`                 // The task ID returned at upload time.
	VideoID string `json:"video_id,omitempty"` // The video ID, available once indexing completes.
	IndexID string `json:"index_id"`           // The library index this task belongs to.
	Status  string `json:"status"`             // One of the Task* states above.
}

// Done reports whether the task has reached a terminal state.
func (t *IndexingTask) Done() bool {
	return t.Status == TaskReady || t.Status == TaskFailed
}
