package pipeline

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/kiran-kumarb/automated-meeting-minutes-generator/internal/services"
)

// MemoryStore keeps records in process memory. It is the default
// backend; restarting the daemon starts from an empty store.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*memoryRecord
	byName  map[string]string
}

type memoryRecord struct {
	mu  sync.Mutex
	rec Record
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]*memoryRecord),
		byName:  make(map[string]string),
	}
}

func (s *MemoryStore) Create(ctx context.Context, rec *Record) (*Record, error) {
	if rec == nil || rec.ID == "" {
		return nil, fmt.Errorf("%w: record id must be set", services.ErrValidation)
	}
	if rec.Filename == "" {
		return nil, fmt.Errorf("%w: stored filename must be set", services.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[rec.ID]; exists {
		return nil, fmt.Errorf("%w: record %q already exists", services.ErrDuplicateRecording, rec.ID)
	}
	if existing, exists := s.byName[rec.Filename]; exists {
		return nil, fmt.Errorf("%w: filename %q already registered as record %q", services.ErrDuplicateRecording, rec.Filename, existing)
	}

	stored := rec.Clone()
	now := time.Now().UTC()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	if stored.Stage == "" {
		stored.Stage = StageUploaded
	}
	s.records[stored.ID] = &memoryRecord{rec: *stored}
	s.byName[stored.Filename] = stored.ID
	return stored.Clone(), nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*Record, error) {
	s.mu.RLock()
	entry, ok := s.records[id]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.rec.Clone(), nil
}

func (s *MemoryStore) FindByFilename(ctx context.Context, filename string) (*Record, error) {
	s.mu.RLock()
	id, ok := s.byName[filename]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	return s.Get(ctx, id)
}

func (s *MemoryStore) Update(ctx context.Context, id string, mutate func(*Record) error) (*Record, error) {
	s.mu.RLock()
	entry, ok := s.records[id]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: record %q", services.ErrNotFound, id)
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	working := entry.rec.Clone()
	if err := mutate(working); err != nil {
		return nil, err
	}
	working.ID = entry.rec.ID
	working.CreatedAt = entry.rec.CreatedAt
	working.UpdatedAt = time.Now().UTC()
	entry.rec = *working.Clone()
	return working.Clone(), nil
}

func (s *MemoryStore) List(ctx context.Context) ([]*Record, error) {
	s.mu.RLock()
	entries := make([]*memoryRecord, 0, len(s.records))
	for _, entry := range s.records {
		entries = append(entries, entry)
	}
	s.mu.RUnlock()

	records := make([]*Record, 0, len(entries))
	for _, entry := range entries {
		entry.mu.Lock()
		records = append(records, entry.rec.Clone())
		entry.mu.Unlock()
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].ID < records[j].ID
		}
		return records[i].CreatedAt.Before(records[j].CreatedAt)
	})
	return records, nil
}

func (s *MemoryStore) Stats(ctx context.Context) (map[Stage]int, error) {
	records, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	stats := make(map[Stage]int, len(stageRank))
	for _, rec := range records {
		stats[rec.Stage]++
	}
	return stats, nil
}

func (s *MemoryStore) Close() error {
	return nil
}
