// Package docstore is the in-memory registry of uploaded report documents,
// keyed by report ID. The edit core is stateless; this is the injected
// key-value collaborator that owns document lifetime.
package docstore

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"rptedit/internal/report"
)

// Entry is one stored report: its current structural document plus upload
// metadata.
type Entry struct {
	ID         string
	Filename   string
	Doc        *report.Document
	UploadedAt time.Time
	UpdatedAt  time.Time
}

// Store is a thread-safe registry with TTL eviction. The lock guards the
// registry itself; at most one in-flight edit per report is assumed, per the
// subsystem's concurrency contract.
type Store struct {
	mu      sync.Mutex
	reports map[string]*Entry
	ttl     time.Duration
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		reports: make(map[string]*Entry),
		ttl:     ttl,
	}
}

// Put registers a freshly decoded document and returns its new entry.
func (s *Store) Put(doc *report.Document, filename string) *Entry {
	now := time.Now()
	entry := &Entry{
		ID:         uuid.NewString(),
		Filename:   filename,
		Doc:        doc,
		UploadedAt: now,
		UpdatedAt:  now,
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports[entry.ID] = entry
	return entry
}

// Get returns the entry for a report ID, or nil.
func (s *Store) Get(id string) *Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reports[id]
}

// Update replaces the stored document for a report. Returns false if the
// report is unknown.
func (s *Store) Update(id string, doc *report.Document) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.reports[id]
	if !ok {
		return false
	}
	entry.Doc = doc
	entry.UpdatedAt = time.Now()
	return true
}

// Cleanup removes entries not touched within the TTL.
func (s *Store) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, entry := range s.reports {
		if now.Sub(entry.UpdatedAt) > s.ttl {
			delete(s.reports, id)
		}
	}
}

// Start launches the periodic cleanup loop until ctx is cancelled.
func (s *Store) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Cleanup()
			}
		}
	}()
}
