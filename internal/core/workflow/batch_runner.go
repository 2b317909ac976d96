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

// Package workflow defines the high-level orchestrations. This file
// implements the batch runner that drives the tag-enrichment workflow
// across many videos at once.
//
// Logic Flow:
// A worker pool fans the video IDs out over a fixed number of goroutines.
// Jobs go in on a buffered channel, each worker runs the enrichment
// workflow for its job, and results come back on a second channel. The
// quota-aware analyzer inside the workflow is shared across all workers,
// so the pool can be sized for throughput without risking the provider's
// generative-call quota — workers simply block at the limiter.
package workflow

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mrnkim/brand-integration-assistant/internal/core/model"
)

// BatchRunner fans a list of video IDs out over a worker pool, running
// the enrichment workflow once per video.
type BatchRunner struct {
	workflow        *TagEnrichmentWorkflow
	numberOfWorkers int
}

// NewBatchRunner sizes the pool. Fewer than one worker collapses to one.
func NewBatchRunner(workflow *TagEnrichmentWorkflow, numberOfWorkers int) *BatchRunner {
	if numberOfWorkers < 1 {
		numberOfWorkers = 1
	}
	return &BatchRunner{workflow: workflow, numberOfWorkers: numberOfWorkers}
}

// Run processes every video ID and returns one TagResult per video, in
// completion order. A failed video carries its error in the result; it
// never aborts the rest of the batch.
func (b *BatchRunner) Run(ctx context.Context, videoIDs []string) []*model.TagResult {
	jobs := make(chan string, len(videoIDs))
	results := make(chan *model.TagResult, len(videoIDs))

	var wg sync.WaitGroup
	for w := 0; w < b.numberOfWorkers; w++ {
		wg.Add(1)
		go b.worker(ctx, jobs, results, &wg)
	}

	for _, id := range videoIDs {
		jobs <- id
	}
	close(jobs)

	wg.Wait()
	close(results)

	out := make([]*model.TagResult, 0, len(videoIDs))
	for r := range results {
		out = append(out, r)
	}
	return out
}

// worker pulls video IDs off the jobs channel until it closes, running
// the enrichment workflow for each.
func (b *BatchRunner) worker(ctx context.Context, jobs <-chan string, results chan<- *model.TagResult, wg *sync.WaitGroup) {
	defer wg.Done()

	for videoID := range jobs {
		if err := ctx.Err(); err != nil {
			results <- &model.TagResult{VideoID: videoID, Err: err}
			continue
		}

		md, err := b.workflow.Run(ctx, videoID)
		if err != nil {
			slog.WarnContext(ctx, "batch enrichment failed for video",
				"video_id", videoID, "error", err)
		}
		results <- &model.TagResult{VideoID: videoID, Metadata: md, Err: err}
	}
}
