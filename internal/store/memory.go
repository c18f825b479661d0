package store

import (
	"sync"
	"time"

	"github.com/AngelCh415/weekly-pulse/internal/report"
)

// MemoryStore holds the latest computed report for the HTTP surface. Each
// pipeline run replaces the snapshot wholesale; there is no cross-run merge.
type MemoryStore struct {
	mu        sync.RWMutex
	rep       *report.Report
	updatedAt time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) SetReport(r report.Report) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rep = &r
	s.updatedAt = time.Now().UTC()
}

func (s *MemoryStore) Report() (report.Report, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.rep == nil {
		return report.Report{}, false
	}
	return *s.rep, true
}

func (s *MemoryStore) UpdatedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.updatedAt
}
