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

package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/mrnkim/brand-integration-assistant/internal/core/model"
	"github.com/mrnkim/brand-integration-assistant/internal/vector"
)

// Score-merge parameters. A video found by both the text and the video
// search gets the weighted sum of its two scores; a video found by only
// one search keeps that score damped, so corroborated matches outrank
// single-signal ones at equal raw similarity.
const (
	textScoreWeight  = 0.5
	videoScoreWeight = 0.5
	soloScoreDamping = 0.85
)

// AlignmentService ranks content videos against an ad by combining two
// similarity signals: the ad's metadata text against the content videos'
// metadata text (via a text-embedding model), and the ad's video
// embedding against the content videos' video embeddings (via the
// provider's embedding model). The two signals live in separate vector
// spaces and are searched separately, then merged by video ID.
type AlignmentService struct {
	Library    *LibraryService
	Embedder   *openai.Client
	Store      *vector.Store
	EmbedModel string // Text-embedding model name, e.g. "text-embedding-3-small".
}

// Align returns the top-k content videos contextually aligned with the
// given ad.
//
// Inputs:
//   - ctx: the request context
//   - adID: the ad video's ID in the ads index
//   - k: the maximum number of matches to return
//
// Outputs:
//   - matches ordered by merged score, best first
//   - an error when the ad is missing, carries no metadata yet, or
//     either similarity search fails
func (s *AlignmentService) Align(ctx context.Context, adID string, k int) ([]*model.AlignmentMatch, error) {
	ad, err := s.Library.Get(ctx, LibraryAds, adID)
	if err != nil {
		return nil, fmt.Errorf("load ad %s: %w", adID, err)
	}
	if ad.UserMetadata.IsEmpty() {
		return nil, fmt.Errorf("ad %s has no metadata yet, run enrichment first", adID)
	}

	textVec, err := s.embedText(ctx, metadataText(&ad.UserMetadata))
	if err != nil {
		return nil, fmt.Errorf("embed ad metadata text: %w", err)
	}
	textMatches, err := s.Store.SimilaritySearch(ctx, textVec, vector.ScopeContentText, k)
	if err != nil {
		return nil, fmt.Errorf("text similarity search: %w", err)
	}

	videoVec, err := s.adVideoVector(ctx, adID)
	if err != nil {
		return nil, err
	}
	videoMatches, err := s.Store.SimilaritySearch(ctx, videoVec, vector.ScopeContent, k)
	if err != nil {
		return nil, fmt.Errorf("video similarity search: %w", err)
	}

	return mergeAlignmentScores(textMatches, videoMatches, k), nil
}

// SyncText refreshes the stored metadata-text embedding for one video.
// Called after enrichment so alignment queries see the new tags.
func (s *AlignmentService) SyncText(ctx context.Context, library string, video *model.Video) error {
	if video.UserMetadata.IsEmpty() {
		return nil
	}
	scope := vector.ScopeContentText
	if library == LibraryAds {
		scope = vector.ScopeAdText
	}
	vec, err := s.embedText(ctx, metadataText(&video.UserMetadata))
	if err != nil {
		return fmt.Errorf("embed metadata text for video %s: %w", video.ID, err)
	}
	if err := s.Store.DeleteVideo(ctx, video.ID, scope); err != nil {
		return err
	}
	return s.Store.Upsert(ctx, &vector.Entry{
		VideoID: video.ID,
		Scope:   scope,
		Start:   0,
		End:     video.Duration,
		Vector:  vec,
	})
}

// embedText runs one string through the text-embedding model.
func (s *AlignmentService) embedText(ctx context.Context, text string) ([]float32, error) {
	resp, err := s.Embedder.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: openai.EmbeddingModel(s.EmbedModel),
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("embedding response carried no vectors")
	}
	return resp.Data[0].Embedding, nil
}

// adVideoVector mean-pools the ad's segment embeddings into a single
// query vector. Ads are short, so averaging over segments is a fair
// whole-video summary.
func (s *AlignmentService) adVideoVector(ctx context.Context, adID string) ([]float32, error) {
	segments, err := s.Library.Client.GetVideoEmbedding(ctx, s.Library.AdsIndexID, adID)
	if err != nil {
		return nil, fmt.Errorf("load ad video embedding: %w", err)
	}
	if len(segments) == 0 {
		return nil, fmt.Errorf("ad %s has no video embedding segments", adID)
	}
	mean := make([]float32, len(segments[0].Vector))
	for _, seg := range segments {
		for i, v := range seg.Vector {
			mean[i] += v
		}
	}
	n := float32(len(segments))
	for i := range mean {
		mean[i] /= n
	}
	return mean, nil
}

// metadataText flattens the category fields into one labeled string for
// the text-embedding model. Source is excluded: it names where a video
// came from, not what it is about.
func metadataText(m *model.VideoMetadata) string {
	var parts []string
	add := func(label, value string) {
		if value != "" {
			parts = append(parts, label+": "+value)
		}
	}
	add("demographics", m.Demographics)
	add("sector", m.Sector)
	add("emotions", m.Emotions)
	add("locations", m.Locations)
	add("brands", m.Brands)
	return strings.Join(parts, ". ")
}

// mergeAlignmentScores combines the two ranked match lists by video ID
// and returns at most k results, best merged score first.
func mergeAlignmentScores(textMatches, videoMatches []vector.Match, k int) []*model.AlignmentMatch {
	merged := make(map[string]*model.AlignmentMatch)
	for _, m := range textMatches {
		merged[m.VideoID] = &model.AlignmentMatch{VideoID: m.VideoID, TextScore: m.Score}
	}
	for _, m := range videoMatches {
		match, ok := merged[m.VideoID]
		if !ok {
			match = &model.AlignmentMatch{VideoID: m.VideoID}
			merged[m.VideoID] = match
		}
		match.VideoScore = m.Score
	}

	out := make([]*model.AlignmentMatch, 0, len(merged))
	for _, match := range merged {
		switch {
		case match.TextScore > 0 && match.VideoScore > 0:
			match.Score = textScoreWeight*match.TextScore + videoScoreWeight*match.VideoScore
		case match.TextScore > 0:
			match.Score = soloScoreDamping * match.TextScore
		default:
			match.Score = soloScoreDamping * match.VideoScore
		}
		out = append(out, match)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if len(out) > k {
		out = out[:k]
	}
	return out
}
