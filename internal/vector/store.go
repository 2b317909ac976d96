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

// Package vector is the embedding store for the contextual-alignment
// feature. Video and segment embeddings fetched from the external
// video-understanding service are cached here, in a Postgres table with a
// pgvector column, so alignment queries run as database-side cosine
// searches rather than round trips to the provider. The store is a plain
// cache: the provider remains the source of truth and any row can be
// rebuilt by re-fetching the embedding.
package vector

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

// Scope values partition the embeddings table. The first two hold the
// provider's video embeddings per library; the text scopes hold metadata
// text embeddings, which live in a different model's space and must never
// be compared against the video scopes.
const (
	ScopeAd          = "ad"
	ScopeContent     = "content"
	ScopeAdText      = "ad-text"
	ScopeContentText = "content-text"
)

// Entry is one stored embedding: a vector for a span of one video in one
// library.
type Entry struct {
	ID      uuid.UUID // Row ID; assigned on upsert when zero.
	VideoID string    // The owning video in the external index.
	Scope   string    // ScopeAd or ScopeContent.
	Start   float64   // Segment start offset, in seconds.
	End     float64   // Segment end offset, in seconds.
	Vector  []float32 // The embedding values.
}

// Match is one similarity hit. Score is cosine distance converted to a
// similarity in [0, 1]: 1 means identical direction.
type Match struct {
	VideoID string
	Score   float64
}

// Store wraps a pgx connection pool over the embeddings table.
type Store struct {
	db    *pgxpool.Pool
	table string
}

// NewStore connects to Postgres and verifies the connection. The table is
// expected to exist with columns (id uuid, video_id text, scope text,
// start_sec float8, end_sec float8, vector vector(n)).
func NewStore(ctx context.Context, dsn, table string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("vector store DSN cannot be empty")
	}
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse vector store DSN: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping vector store: %w", err)
	}
	return &Store{db: pool, table: table}, nil
}

// Close releases the connection pool.
func (s *Store) Close() {
	if s.db != nil {
		s.db.Close()
	}
}

// Ping verifies the store is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Upsert stores one embedding entry, assigning a row ID when the caller
// left it zero. Re-syncing a video first deletes its rows (DeleteVideo),
// so plain inserts suffice here.
func (s *Store) Upsert(ctx context.Context, entry *Entry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	query := fmt.Sprintf(
		`INSERT INTO %s (id, video_id, scope, start_sec, end_sec, vector) VALUES ($1, $2, $3, $4, $5, $6)`,
		s.table)
	_, err := s.db.Exec(ctx, query,
		entry.ID, entry.VideoID, entry.Scope, entry.Start, entry.End,
		pgvector.NewVector(entry.Vector))
	if err != nil {
		return fmt.Errorf("upsert embedding for video %s: %w", entry.VideoID, err)
	}
	return nil
}

// DeleteVideo removes every stored embedding for one video, typically
// right before a re-sync.
func (s *Store) DeleteVideo(ctx context.Context, videoID, scope string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE video_id = $1 AND scope = $2`, s.table)
	if _, err := s.db.Exec(ctx, query, videoID, scope); err != nil {
		return fmt.Errorf("delete embeddings for video %s: %w", videoID, err)
	}
	return nil
}

// SimilaritySearch returns the k most similar videos in the given scope.
// Segments are collapsed to their best-scoring hit per video so a long
// video with many segments does not crowd out the rest of the library.
func (s *Store) SimilaritySearch(ctx context.Context, queryVec []float32, scope string, k int) ([]Match, error) {
	// <=> is pgvector's cosine distance operator; 1 - distance is the
	// cosine similarity the alignment arithmetic expects.
	query := fmt.Sprintf(`
		SELECT video_id, MAX(1 - (vector <=> $1)) AS score
		FROM %s
		WHERE scope = $2
		GROUP BY video_id
		ORDER BY score DESC
		LIMIT $3`, s.table)

	rows, err := s.db.Query(ctx, query, pgvector.NewVector(queryVec), scope, k)
	if err != nil {
		return nil, fmt.Errorf("similarity search: %w", err)
	}
	defer rows.Close()

	out := make([]Match, 0, k)
	for rows.Next() {
		var m Match
		if err := rows.Scan(&m.VideoID, &m.Score); err != nil {
			return nil, fmt.Errorf("scan similarity row: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate similarity rows: %w", err)
	}
	return out, nil
}
