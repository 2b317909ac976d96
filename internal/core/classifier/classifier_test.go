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

package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mrnkim/brand-integration-assistant/internal/core/model"
)

func TestClassifyEmptyInput(t *testing.T) {
	empty := model.VideoMetadata{}
	assert.Equal(t, empty, Classify(""))
	assert.Equal(t, empty, Classify("no hashtags in this text at all"))
	assert.Equal(t, empty, Classify("   \n\t  "))
}

func TestClassifyAllCategories(t *testing.T) {
	out := Classify("#female #25-34 #beauty #happy/positive #seoul #fentybeauty")
	assert.Equal(t, "", out.Source)
	assert.Equal(t, "female, 25-34", out.Demographics)
	assert.Equal(t, "beauty", out.Sector)
	assert.Equal(t, "happy/positive", out.Emotions)
	assert.Equal(t, "seoul", out.Locations)
	assert.Equal(t, "fentybeauty", out.Brands)
}

func TestClassifyCaseInsensitive(t *testing.T) {
	out := Classify("#MALE #Beauty")
	assert.Equal(t, "male", out.Demographics)
	assert.Equal(t, "beauty", out.Sector)
	assert.Equal(t, "", out.Emotions)
	assert.Equal(t, "", out.Locations)
	assert.Equal(t, "", out.Brands)
}

func TestClassifyNewlineSeparatedTokens(t *testing.T) {
	out := Classify("#female\n#tech\n#exciting")
	assert.Equal(t, "female", out.Demographics)
	assert.Equal(t, "tech", out.Sector)
	assert.Equal(t, "exciting", out.Emotions)
}

func TestClassifyFallbackTwoUnclassified(t *testing.T) {
	// No location or brand keyword present: the first unclassified token is
	// assumed to be a location, the next a brand.
	out := Classify("#female #randomplace #randombrand")
	assert.Equal(t, "female", out.Demographics)
	assert.Equal(t, "randomplace", out.Locations)
	assert.Equal(t, "randombrand", out.Brands)
}

func TestClassifyFallbackSingleUnclassified(t *testing.T) {
	// One unclassified token with both buckets empty: locations consumes
	// it and brands stays empty.
	out := Classify("#female #onlyoneunclassified")
	assert.Equal(t, "onlyoneunclassified", out.Locations)
	assert.Equal(t, "", out.Brands)
}

func TestClassifyFallbackSkipsFilledLocations(t *testing.T) {
	// Locations already has a keyword hit, so the first unclassified token
	// falls through to the brands slot instead.
	out := Classify("#seoul #mystery")
	assert.Equal(t, "seoul", out.Locations)
	assert.Equal(t, "mystery", out.Brands)
}

func TestClassifyFallbackDropsExtraTokens(t *testing.T) {
	// Only two fallback slots exist; the third unknown token is dropped.
	out := Classify("#one #two #three")
	assert.Equal(t, "one", out.Locations)
	assert.Equal(t, "two", out.Brands)
	assert.NotContains(t, out.Brands, "three")
	assert.NotContains(t, out.Locations, "three")
}

func TestClassifyNoFallbackWhenBucketsFilled(t *testing.T) {
	out := Classify("#seoul #nike #unknowntoken")
	assert.Equal(t, "seoul", out.Locations)
	assert.Equal(t, "nike", out.Brands)
}

func TestClassifyPreservesAppearanceOrder(t *testing.T) {
	out := Classify("#paris #seoul #tokyo")
	assert.Equal(t, "paris, seoul, tokyo", out.Locations)

	out = Classify("#55+ #male #18-25")
	assert.Equal(t, "55+, male, 18-25", out.Demographics)
}

func TestClassifyKeepsDuplicates(t *testing.T) {
	out := Classify("#beauty #beauty")
	assert.Equal(t, "beauty, beauty", out.Sector)
}

func TestClassifyPriorityOrderConsumesTokens(t *testing.T) {
	// "marathon" only appears in the location list, and sector keywords are
	// tested before location keywords, so a sector hit never leaks into a
	// later category even when mixed with unknowns.
	out := Classify("#retail #marathon #heineken")
	assert.Equal(t, "retail", out.Sector)
	assert.Equal(t, "marathon", out.Locations)
	assert.Equal(t, "heineken", out.Brands)
}

func TestClassifyIgnoresNonHashtagWords(t *testing.T) {
	out := Classify("Here are your tags: #travel and also #dubai thanks")
	assert.Equal(t, "travel", out.Sector)
	assert.Equal(t, "dubai", out.Locations)
	assert.Equal(t, "", out.Brands)
}

func TestClassifySourceNeverSet(t *testing.T) {
	out := Classify("#source #beauty #nike")
	assert.Equal(t, "", out.Source)
}
