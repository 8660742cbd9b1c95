// Package store persists submitted crawl jobs in a BadgerDB-backed
// key-value store so job IDs survive server restarts. The store is a
// convenience layer only; dispatch works without it.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/timshannon/badgerhold/v4"

	"github.com/crawl4ai/crawl4ai-mcp/internal/common"
)

// CrawlJob records one crawl submitted through crawl4ai_crawl.
type CrawlJob struct {
	ID          string `badgerhold:"key"`
	URL         string
	SubmittedAt time.Time
}

// JobStore is a BadgerHold-backed store for crawl jobs.
type JobStore struct {
	store  *badgerhold.Store
	logger *common.Logger
}

// Open opens (or creates) the job store at the given directory.
func Open(path string, logger *common.Logger) (*JobStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	options := badgerhold.DefaultOptions
	options.Dir = path
	options.ValueDir = path
	options.Logger = nil // Disable default badger logger

	store, err := badgerhold.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to open job store: %w", err)
	}

	logger.Debug().Str("path", path).Msg("crawl job store opened")

	return &JobStore{store: store, logger: logger}, nil
}

// Close closes the underlying database.
func (s *JobStore) Close() error {
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}

// Put records a submitted crawl job, replacing any prior record with the same ID.
func (s *JobStore) Put(job CrawlJob) error {
	if err := s.store.Upsert(job.ID, &job); err != nil {
		return fmt.Errorf("failed to store crawl job %s: %w", job.ID, err)
	}
	return nil
}

// Get returns the recorded job for id. The boolean reports whether a record
// exists; absence is not an error.
func (s *JobStore) Get(id string) (*CrawlJob, bool, error) {
	var job CrawlJob
	err := s.store.Get(id, &job)
	if err == badgerhold.ErrNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get crawl job %s: %w", id, err)
	}
	return &job, true, nil
}

// Recent returns up to limit jobs, newest first.
func (s *JobStore) Recent(limit int) ([]CrawlJob, error) {
	var jobs []CrawlJob
	if err := s.store.Find(&jobs, nil); err != nil {
		return nil, fmt.Errorf("failed to list crawl jobs: %w", err)
	}
	sort.Slice(jobs, func(i, j int) bool {
		return jobs[i].SubmittedAt.After(jobs[j].SubmittedAt)
	})
	if limit > 0 && len(jobs) > limit {
		jobs = jobs[:limit]
	}
	return jobs, nil
}
