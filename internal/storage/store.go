// Package storage persists processed labels keyed by label ID.
package storage

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/Raincor5/kitchen-system/internal/labelparse"
)

// StoredLabel is a processed label as kept in the store.
type StoredLabel struct {
	LabelID    string                 `json:"label_id"`
	RawText    string                 `json:"raw_text"`
	Parsed     labelparse.ParsedLabel `json:"parsed_data"`
	Confidence float64                `json:"confidence"`
	Timestamp  time.Time              `json:"timestamp"`
}

// Store is the label persistence contract. Save upserts by LabelID.
type Store interface {
	Save(ctx context.Context, label StoredLabel) error
	Get(ctx context.Context, labelID string) (StoredLabel, bool, error)
	List(ctx context.Context) ([]StoredLabel, error)
	// Delete reports whether a label was actually removed.
	Delete(ctx context.Context, labelID string) (bool, error)
}

// NewFromDSN returns a database-backed store when a DSN is configured and
// an in-memory store otherwise.
func NewFromDSN(dsn string, logger *slog.Logger) (Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if dsn == "" {
		logger.Info("no database configured, labels held in memory only")
		return NewMemoryStore(), nil
	}
	return NewGormStore(dsn, logger)
}

// MemoryStore keeps labels in process memory. It backs tests and
// deployments without a database.
type MemoryStore struct {
	mu     sync.RWMutex
	labels map[string]StoredLabel
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{labels: make(map[string]StoredLabel)}
}

// Save implements Store.
func (s *MemoryStore) Save(_ context.Context, label StoredLabel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.labels[label.LabelID] = label
	return nil
}

// Get implements Store.
func (s *MemoryStore) Get(_ context.Context, labelID string) (StoredLabel, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	label, ok := s.labels[labelID]
	return label, ok, nil
}

// List implements Store. Labels are returned newest first.
func (s *MemoryStore) List(_ context.Context) ([]StoredLabel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]StoredLabel, 0, len(s.labels))
	for _, label := range s.labels {
		out = append(out, label)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.After(out[j].Timestamp)
		}
		return out[i].LabelID < out[j].LabelID
	})
	return out, nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(_ context.Context, labelID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.labels[labelID]; !ok {
		return false, nil
	}
	delete(s.labels, labelID)
	return true, nil
}
