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

package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/h2non/filetype"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/mrnkim/brand-integration-assistant/internal/core/services"
	"github.com/mrnkim/brand-integration-assistant/internal/telemetry"
)

func main() {
	telemetry.SetupLogging()
	slog.Info("Logging initialized")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	config := GetConfig()

	_, err := telemetry.SetupOpenTelemetry(ctx, config)
	if err != nil {
		slog.Error("Failed to setup OpenTelemetry", "error", err)
		log.Fatal(err)
	}
	slog.Info("Tracing initialized")

	InitState(ctx)
	slog.Info("Initialized State")

	r := gin.Default()

	// Add OpenTelemetry middleware
	r.Use(otelgin.Middleware(config.Application.Name))

	// A permissive CORS configuration: the admin frontend runs on its own
	// origin during development.
	r.Use(cors.Default())

	// Create the "/api/v1" group
	apiV1 := r.Group("/api/v1")
	{
		LibraryRouter(apiV1)
		MetadataRouter(apiV1)
		AlignmentRouter(apiV1)
		FileUpload(apiV1)
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", config.Application.Port),
		Handler: r,
	}

	// Start the server in a goroutine
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("failed to listen: ", "error", err)
		}
	}()
	slog.Info("Server Ready", "port", config.Application.Port)

	// Wait for an interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutdown Server ...")

	// The context is used to inform the server it has 5 seconds to finish
	// the request it is currently handling
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server Shutdown Failed:", "error", err)
	}
	state.cloud.Close()

	log.Println("Server exiting")
}

// LibraryRouter sets up the browse and search routes for the two video
// libraries. GET on a library root either lists a page or, when the "s"
// query parameter is present, runs a semantic search.
func LibraryRouter(r *gin.RouterGroup) {
	for _, library := range []string{services.LibraryContent, services.LibraryAds} {
		library := library
		group := r.Group("/" + library)

		group.GET("", func(c *gin.Context) {
			if query := c.Query("s"); query != "" {
				count, err := strconv.Atoi(c.DefaultQuery("count", "10"))
				if err != nil {
					count = 10
				}
				results, err := state.searchService.Search(c, library, query, count)
				if err != nil {
					log.Printf("Error searching %s library: %v\n", library, err)
					c.Status(http.StatusInternalServerError)
					return
				}
				c.JSON(http.StatusOK, results)
				return
			}

			videos, nextPageToken, err := state.libraryService.List(c, library, c.Query("page_token"))
			if err != nil {
				log.Printf("Error listing %s library: %v\n", library, err)
				c.Status(http.StatusInternalServerError)
				return
			}
			c.JSON(http.StatusOK, gin.H{
				"videos":          videos,
				"next_page_token": nextPageToken,
			})
		})

		group.GET("/:id", func(c *gin.Context) {
			out, err := state.libraryService.Get(c, library, c.Param("id"))
			if err != nil {
				c.Status(http.StatusNotFound)
				return
			}
			c.JSON(http.StatusOK, out)
		})
	}

	// The dashboard's one-call summary of both libraries.
	r.GET("/stats", func(c *gin.Context) {
		out := make([]*services.LibraryStats, 0, 2)
		for _, library := range []string{services.LibraryContent, services.LibraryAds} {
			stats, err := state.libraryService.Stats(c, library)
			if err != nil {
				log.Printf("Error computing stats for %s: %v\n", library, err)
				c.Status(http.StatusInternalServerError)
				return
			}
			out = append(out, stats)
		}
		c.JSON(http.StatusOK, out)
	})
}

// MetadataRouter sets up the enrichment trigger. POSTing to a video's
// hashtags resource runs the full pipeline (analyze, classify, persist,
// re-embed) and returns the resulting metadata.
func MetadataRouter(r *gin.RouterGroup) {
	r.POST("/videos/:id/hashtags", func(c *gin.Context) {
		library := c.DefaultQuery("library", services.LibraryContent)
		md, err := state.metadataService.Enrich(c, library, c.Param("id"))
		if err != nil {
			log.Printf("Error enriching video %s: %v\n", c.Param("id"), err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, md)
	})
}

// AlignmentRouter sets up the contextual-alignment route: the ranked
// content videos for one ad.
func AlignmentRouter(r *gin.RouterGroup) {
	r.GET("/ads/:id/alignment", func(c *gin.Context) {
		if state.alignmentService == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error": "alignment is not configured (vector store or text embedding missing)",
			})
			return
		}
		count, err := strconv.Atoi(c.DefaultQuery("count", "5"))
		if err != nil {
			count = 5
		}
		matches, err := state.alignmentService.Align(c, c.Param("id"), count)
		if err != nil {
			log.Printf("Error aligning ad %s: %v\n", c.Param("id"), err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, matches)
	})
}

// FileUpload sets up the routes for uploading videos into a library and
// polling the resulting indexing tasks.
func FileUpload(r *gin.RouterGroup) {
	upload := r.Group("/uploads")
	{
		upload.POST("", func(c *gin.Context) {
			form, err := c.MultipartForm()
			if err != nil {
				c.String(http.StatusBadRequest, "get form err: %s", err.Error())
				return
			}
			library := c.DefaultPostForm("library", services.LibraryContent)
			indexID, err := state.libraryService.IndexID(library)
			if err != nil {
				c.String(http.StatusBadRequest, "%s", err.Error())
				return
			}

			files := form.File["files"]
			tasks := make([]gin.H, 0, len(files))
			for _, file := range files {
				f, err := file.Open()
				if err != nil {
					c.String(http.StatusBadRequest, "open upload err: %s", err.Error())
					return
				}

				// Sniff the real content type from the first bytes rather
				// than trusting the client's header.
				head := make([]byte, 261)
				n, _ := io.ReadFull(f, head)
				kind, _ := filetype.Match(head[:n])
				if !filetype.IsVideo(head[:n]) {
					_ = f.Close()
					c.String(http.StatusBadRequest, "file %s is not a video", file.Filename)
					return
				}
				reader := io.MultiReader(bytes.NewReader(head[:n]), f)

				task, err := state.libraryService.Client.CreateIndexTask(c, indexID, file.Filename, kind.MIME.Value, reader)
				_ = f.Close()
				if err != nil {
					log.Printf("Error creating index task for %s: %v\n", file.Filename, err)
					c.String(http.StatusInternalServerError, "index file err: %s", err.Error())
					return
				}
				tasks = append(tasks, gin.H{"filename": file.Filename, "task_id": task.ID})
			}
			c.JSON(http.StatusOK, gin.H{"tasks": tasks})
		})
	}

	r.GET("/tasks/:id", func(c *gin.Context) {
		task, err := state.libraryService.Client.GetTask(c, c.Param("id"))
		if err != nil {
			c.Status(http.StatusNotFound)
			return
		}
		c.JSON(http.StatusOK, task)
	})
}
