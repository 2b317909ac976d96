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

// Package cloud provides shared infrastructure for external service
// access. This file decorates the video-AI client's analyze endpoint with
// quota awareness. The provider enforces a per-minute cap on generative
// calls and the batch tagger can easily exceed it, so every analyze call
// in the process goes through this wrapper: a token-bucket rate limiter
// gates the request and transient failures are retried a bounded number
// of times with a growing pause.
package cloud

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/mrnkim/brand-integration-assistant/internal/videoai"
)

// MaxAnalyzeRetries bounds how many times a failed analyze call is retried
// before the error is returned to the caller.
const MaxAnalyzeRetries = 3

// QuotaAwareAnalyzer wraps the raw video-AI client and enforces the
// provider's generative-call quota. All hashtag generation flows through
// one instance so the limit holds process-wide, whatever mixture of HTTP
// handlers and batch workers is active.
type QuotaAwareAnalyzer struct {
	client      *videoai.Client
	rateLimiter *rate.Limiter
}

// NewQuotaAwareAnalyzer builds the wrapper. requestsPerMinute is the
// provider-side quota; the limiter replenishes one slot per interval and
// allows a burst up to the full quota.
func NewQuotaAwareAnalyzer(client *videoai.Client, requestsPerMinute int) *QuotaAwareAnalyzer {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 10
	}
	return &QuotaAwareAnalyzer{
		client:      client,
		rateLimiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), requestsPerMinute),
	}
}

// Analyze calls the provider's generative endpoint under the quota. It
// blocks until the limiter grants a slot (or the context is canceled),
// then retries transient failures up to MaxAnalyzeRetries times, waiting
// longer between each attempt.
//
// Inputs:
//   - ctx: controls cancellation for both the limiter wait and the calls.
//   - videoID: the video to analyze.
//   - prompt: the generation prompt.
//
// Outputs:
//   - string: the raw generated text.
//   - error: the last call error once retries are exhausted.
func (q *QuotaAwareAnalyzer) Analyze(ctx context.Context, videoID, prompt string) (string, error) {
	if err := q.rateLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("analyze rate limit wait: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= MaxAnalyzeRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(time.Duration(attempt) * 2 * time.Second):
			}
		}
		out, err := q.client.Analyze(ctx, videoID, prompt)
		if err == nil {
			return out, nil
		}
		lastErr = err
	}
	return "", fmt.Errorf("analyze failed after %d retries: %w", MaxAnalyzeRetries, lastErr)
}
