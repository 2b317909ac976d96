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
// user-metadata categories. This file holds the category keyword sets.
// The sets are process-wide constants: they are populated once at package
// init and never mutated afterwards, so the classifier is safe to call
// from any number of goroutines without coordination.
package classifier

// Keyword lists per category, matched exactly against the lowercased
// hashtag body. Order inside a list does not matter (membership only);
// the order in which the categories are *tested* is fixed and lives in
// classifier.go.
var (
	demographicKeywords = newKeywordSet(
		"male", "female", "18-25", "25-34", "35-44", "45-54", "55+",
	)

	sectorKeywords = newKeywordSet(
		"beauty", "fashion", "tech", "travel", "cpg", "food", "bev", "retail",
	)

	emotionKeywords = newKeywordSet(
		"happy", "positive", "happypositive", "happy/positive", "exciting",
		"relaxing", "inspiring", "serious", "festive", "calm", "determined",
	)

	locationKeywords = newKeywordSet(
		"seoul", "dubai", "doha", "newyork", "new york", "paris", "tokyo",
		"london", "berlin", "lasvegas", "las vegas", "france", "korea",
		"qatar", "uae", "usa", "bocachica", "bocachicabeach", "marathon",
	)

	brandKeywords = newKeywordSet(
		"fentybeauty", "adidas", "nike", "spacex", "apple", "microsoft",
		"google", "amazon", "ferrari", "heineken", "redbullracing", "redbull",
		"sailgp", "fifaworldcup", "fifa", "tourdefrance", "nttdata", "oracle",
	)
)

// keywordSet is a simple membership set over lowercase strings.
type keywordSet map[string]struct{}

func newKeywordSet(words ...string) keywordSet {
	s := make(keywordSet, len(words))
	for _, w := range words {
		s[w] = struct{}{}
	}
	return s
}

func (s keywordSet) contains(word string) bool {
	_, ok := s[word]
	return ok
}
