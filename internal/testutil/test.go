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

// Package test provides utility functions and mock data to support the
// application's test suite. It loads the test-specific configuration files
// and supplies sample provider responses for the enrichment pipeline.
package test

import (
	"log"
	"os"
	"testing"

	"github.com/mrnkim/brand-integration-assistant/internal/cloud"
)

// StateManager caches the configuration for the duration of a test run so
// the TOML files are parsed only once.
type StateManager struct {
	config *cloud.Config
}

var state = &StateManager{}

// HandleErr fails the test when err is non-nil. A convenience to cut down
// on boilerplate error checks in test bodies.
//
// Inputs:
//   - err: The error to check.
//   - t: The *testing.T object from the current test.
func HandleErr(err error, t *testing.T) {
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

// GetTestHashtagText returns a hashtag blob shaped like the provider's
// analyze output: one line of space-separated hashtags covering every
// category plus two tokens not in any vocabulary, to exercise the
// positional fallback.
func GetTestHashtagText() string {
	return "#female #25-34 #beauty #happy/positive #seoul #fentybeauty #glowup #skincareroutine"
}

// GetTestVideoJSON returns the provider's wire representation of a single
// video record, used by the fake API servers in the client and workflow
// tests.
func GetTestVideoJSON() string {
	return `{
  "_id": "video-001",
  "metadata": {
    "filename": "summer-campaign.mp4",
    "duration": 31.5,
    "width": 1080,
    "height": 1920
  },
  "hls": {
    "thumbnail_urls": ["https://cdn.example.com/thumbs/video-001.jpg"]
  },
  "user_metadata": {
    "source": "campaign-7",
    "sector": "",
    "emotions": "",
    "brands": "",
    "locations": "",
    "demographics": ""
  }
}`
}

// SetupOS configures the environment variables the configuration loader
// depends on, pointing it at the test configuration files
// (configs/.env.test.toml).
//
// Returns:
//   - An error if setting any environment variable fails.
func SetupOS() (err error) {
	err = os.Setenv(cloud.EnvConfigFilePrefix, "configs")
	if err != nil {
		return err
	}
	err = os.Setenv(cloud.EnvConfigRuntime, "test")
	return err
}

// GetConfig is a singleton accessor for the test configuration. The config
// is loaded from the TOML files on first use and cached for the rest of
// the run.
//
// Returns:
//   - A pointer to the loaded and cached cloud.Config struct.
func GetConfig() *cloud.Config {
	if state.config == nil {
		if err := SetupOS(); err != nil {
			log.Fatalf("failed to setup environment for test: %v\n", err)
		}
		config := cloud.NewConfig()
		cloud.LoadConfig(config)
		state.config = config
	}
	return state.config
}
