package usecase

import (
	"context"
	"sort"
	"sync"

	"subtrack/internal/domain"
	"subtrack/internal/domain/model"
)

// memSubRepo is a small in-memory ledger used by unit tests.
type memSubRepo struct {
	mu      sync.RWMutex
	store   map[string]*model.Subscription
	saveErr error // simulate save failures
}

func newMemSubRepo() *memSubRepo {
	return &memSubRepo{store: make(map[string]*model.Subscription)}
}

func (m *memSubRepo) Save(ctx context.Context, sub *model.Subscription) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *sub
	m.store[sub.ID] = &cp
	return nil
}

func (m *memSubRepo) FindByID(ctx context.Context, id string) (*model.Subscription, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memSubRepo) FindAll(ctx context.Context) ([]*model.Subscription, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*model.Subscription, 0, len(m.store))
	for _, s := range m.store {
		cp := *s
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].NextDate.Time.Before(out[j].NextDate.Time)
	})
	return out, nil
}

func (m *memSubRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.store, id)
	return nil
}

func (m *memSubRepo) Count(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.store), nil
}

// memEntRepo holds a single entitlement record in memory.
type memEntRepo struct {
	mu      sync.RWMutex
	state   model.Entitlement
	saves   int
	loadErr error
}

func newMemEntRepo() *memEntRepo { return &memEntRepo{} }

func (m *memEntRepo) Load(ctx context.Context) (model.Entitlement, error) {
	if m.loadErr != nil {
		return model.Entitlement{}, m.loadErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state, nil
}

func (m *memEntRepo) Save(ctx context.Context, e model.Entitlement) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = e
	m.saves++
	return nil
}

// countingCache records cache traffic; Get always misses unless primed.
type countingCache struct {
	mu            sync.Mutex
	cached        *Summary
	sets          int
	invalidations int
}

func (c *countingCache) Get(ctx context.Context) (*Summary, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cached == nil {
		return nil, false
	}
	cp := *c.cached
	return &cp, true
}

func (c *countingCache) Set(ctx context.Context, s *Summary) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := *s
	c.cached = &cp
	c.sets++
	return nil
}

func (c *countingCache) Invalidate(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cached = nil
	c.invalidations++
	return nil
}
