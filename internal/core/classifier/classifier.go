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

// Package classifier buckets LLM-generated hashtags into the six fixed
// user-metadata categories. This file implements the classification
// algorithm itself.
//
// Logic Flow:
//  1. **Tokenize**: newlines are folded into spaces, the text is split on
//     whitespace, and only tokens beginning with `#` survive.
//  2. **Normalize**: each token is stripped of its leading `#` and
//     lowercased. That normalized form is the token's match key.
//  3. **Exact-match classification**: each token is tested against the
//     category keyword sets in a fixed priority order — demographics,
//     sector, emotions, locations, brands. The first set that contains the
//     token consumes it; later categories never see it.
//  4. **Positional fallback**: tokens matching no set are kept in
//     appearance order. If the locations bucket ended up empty, the first
//     unclassified token is assumed to be a location. If the brands bucket
//     ended up empty, the next unclassified token is assumed to be a
//     brand. Any further unclassified tokens are dropped.
//  5. **Serialize**: each non-empty bucket is joined with ", " into its
//     output field. Empty buckets serialize to "".
//
// The fallback in step 4 is a deliberate guess, not a membership test: a
// genuinely novel brand or location has no keyword to match, so it is
// resolved positionally. It misclassifies when the
// first unknown token is not actually a place, but it keeps the whole
// operation deterministic — the upstream hashtag generator is already
// non-deterministic, and stacking a second model call here to
// disambiguate would compound that. Callers that need precision for novel
// names must extend the keyword lists instead.
//
// Classify is a total function: any input string, including the empty
// string, yields a valid six-field VideoMetadata with no error.
package classifier

import (
	"strings"

	"github.com/mrnkim/brand-integration-assistant/internal/core/model"
)

// Classify converts a raw hashtag blob (the unstructured output of the
// analyze endpoint) into a structured VideoMetadata record. The Source
// field is always left empty; it belongs to the owning library, not to
// the hashtags.
//
// Inputs:
//   - hashtagText: arbitrary free text, possibly multi-line, containing
//     zero or more `#`-prefixed tokens.
//
// Outputs:
//   - model.VideoMetadata: the six-field classification. Never errors.
func Classify(hashtagText string) model.VideoMetadata {
	var (
		demographics []string
		sector       []string
		emotions     []string
		locations    []string
		brands       []string
		unclassified []string
	)

	flattened := strings.ReplaceAll(hashtagText, "\n", " ")
	for _, token := range strings.Fields(flattened) {
		if !strings.HasPrefix(token, "#") {
			continue
		}
		key := strings.ToLower(strings.TrimPrefix(token, "#"))

		// First match wins; a consumed token is never re-tested.
		switch {
		case demographicKeywords.contains(key):
			demographics = append(demographics, key)
		case sectorKeywords.contains(key):
			sector = append(sector, key)
		case emotionKeywords.contains(key):
			emotions = append(emotions, key)
		case locationKeywords.contains(key):
			locations = append(locations, key)
		case brandKeywords.contains(key):
			brands = append(brands, key)
		default:
			unclassified = append(unclassified, key)
		}
	}

	// Positional fallback for tokens no keyword set recognized. Applied
	// once, in this order, and only into buckets that stayed empty. Any
	// unclassified tokens beyond these two are silently dropped.
	if len(unclassified) > 0 && len(locations) == 0 {
		locations = append(locations, unclassified[0])
		unclassified = unclassified[1:]
	}
	if len(unclassified) > 0 && len(brands) == 0 {
		brands = append(brands, unclassified[0])
	}

	return model.VideoMetadata{
		Source:       "",
		Sector:       strings.Join(sector, ", "),
		Emotions:     strings.Join(emotions, ", "),
		Brands:       strings.Join(brands, ", "),
		Locations:    strings.Join(locations, ", "),
		Demographics: strings.Join(demographics, ", "),
	}
}
