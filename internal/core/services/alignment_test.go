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
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mrnkim/brand-integration-assistant/internal/core/model"
	"github.com/mrnkim/brand-integration-assistant/internal/vector"
)

func TestMergeAlignmentScoresWeightsCorroboratedMatches(t *testing.T) {
	text := []vector.Match{
		{VideoID: "both", Score: 0.8},
		{VideoID: "text-only", Score: 0.9},
	}
	video := []vector.Match{
		{VideoID: "both", Score: 0.9},
		{VideoID: "video-only", Score: 0.7},
	}

	out := mergeAlignmentScores(text, video, 10)
	assert.Len(t, out, 3)

	byID := make(map[string]*model.AlignmentMatch)
	for _, m := range out {
		byID[m.VideoID] = m
	}
	assert.InDelta(t, 0.5*0.8+0.5*0.9, byID["both"].Score, 1e-9)
	assert.InDelta(t, 0.85*0.9, byID["text-only"].Score, 1e-9)
	assert.InDelta(t, 0.85*0.7, byID["video-only"].Score, 1e-9)

	// A match confirmed by both signals outranks a slightly stronger
	// single-signal match.
	assert.Equal(t, "both", out[0].VideoID)
}

func TestMergeAlignmentScoresOrdersAndCaps(t *testing.T) {
	text := []vector.Match{
		{VideoID: "a", Score: 0.2},
		{VideoID: "b", Score: 0.6},
		{VideoID: "c", Score: 0.4},
	}

	out := mergeAlignmentScores(text, nil, 2)
	assert.Len(t, out, 2)
	assert.Equal(t, "b", out[0].VideoID)
	assert.Equal(t, "c", out[1].VideoID)
	assert.Greater(t, out[0].Score, out[1].Score)
}

func TestMergeAlignmentScoresEmptyInputs(t *testing.T) {
	out := mergeAlignmentScores(nil, nil, 5)
	assert.Empty(t, out)
}

func TestMetadataTextSkipsEmptyFieldsAndSource(t *testing.T) {
	md := &model.VideoMetadata{
		Source:       "campaign-7",
		Sector:       "beauty",
		Demographics: "female, 25-34",
	}
	text := metadataText(md)
	assert.Equal(t, "demographics: female, 25-34. sector: beauty", text)
	assert.NotContains(t, text, "campaign-7")
}
