package store

import (
	"context"
	"sort"
	"sync"

	"fjacquet/ledger-import/internal/models"
)

// MockLearnedStore is an in-memory learned-frequency store for tests.
type MockLearnedStore struct {
	mu     sync.Mutex
	counts map[models.TargetKind]map[string]map[string]int64

	// Error flags for testing error conditions
	TopLearnedError       error
	IncrementLearnedError error

	TopLearnedCalls int
}

// NewMockLearnedStore returns an empty MockLearnedStore.
func NewMockLearnedStore() *MockLearnedStore {
	return &MockLearnedStore{}
}

// Seed sets a counter directly.
func (m *MockLearnedStore) Seed(kind models.TargetKind, merchantKey, target string, count int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bucket(kind, merchantKey)[target] = count
}

// Count returns a counter value.
func (m *MockLearnedStore) Count(kind models.TargetKind, merchantKey, target string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counts[kind][merchantKey][target]
}

// TopLearned returns the highest-count target, ties broken by name.
func (m *MockLearnedStore) TopLearned(_ context.Context, kind models.TargetKind, merchantKey string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TopLearnedCalls++
	if m.TopLearnedError != nil {
		return "", false, m.TopLearnedError
	}

	targets := m.counts[kind][merchantKey]
	if len(targets) == 0 {
		return "", false, nil
	}
	names := make([]string, 0, len(targets))
	for name := range targets {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if targets[names[i]] != targets[names[j]] {
			return targets[names[i]] > targets[names[j]]
		}
		return names[i] < names[j]
	})
	return names[0], true, nil
}

// IncrementLearned adds one to a counter.
func (m *MockLearnedStore) IncrementLearned(_ context.Context, kind models.TargetKind, merchantKey, target string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.IncrementLearnedError != nil {
		return m.IncrementLearnedError
	}
	m.bucket(kind, merchantKey)[target]++
	return nil
}

func (m *MockLearnedStore) bucket(kind models.TargetKind, merchantKey string) map[string]int64 {
	if m.counts == nil {
		m.counts = map[models.TargetKind]map[string]map[string]int64{}
	}
	if m.counts[kind] == nil {
		m.counts[kind] = map[string]map[string]int64{}
	}
	if m.counts[kind][merchantKey] == nil {
		m.counts[kind][merchantKey] = map[string]int64{}
	}
	return m.counts[kind][merchantKey]
}
