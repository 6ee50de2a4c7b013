package web

import (
	"context"
	"sort"
	"sync"

	"subtrack/internal/domain"
	"subtrack/internal/domain/model"
)

// --- Mock Repositories (Ports) ---

type mockSubRepo struct {
	mu   sync.Mutex
	subs map[string]*model.Subscription

	SaveError    error // To simulate errors
	FindAllError error
}

func newMockSubRepo() *mockSubRepo {
	return &mockSubRepo{subs: map[string]*model.Subscription{}}
}

func (m *mockSubRepo) Save(ctx context.Context, sub *model.Subscription) error {
	if m.SaveError != nil {
		return m.SaveError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *sub
	m.subs[sub.ID] = &cp
	return nil
}

func (m *mockSubRepo) FindByID(ctx context.Context, id string) (*model.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.subs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *mockSubRepo) FindAll(ctx context.Context) ([]*model.Subscription, error) {
	if m.FindAllError != nil {
		return nil, m.FindAllError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.Subscription, 0, len(m.subs))
	for _, s := range m.subs {
		cp := *s
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].NextDate.Time.Before(out[j].NextDate.Time)
	})
	return out, nil
}

func (m *mockSubRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.subs[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.subs, id)
	return nil
}

func (m *mockSubRepo) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subs), nil
}

type mockEntRepo struct {
	mu    sync.Mutex
	state model.Entitlement
}

func (m *mockEntRepo) Load(ctx context.Context) (model.Entitlement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state, nil
}

func (m *mockEntRepo) Save(ctx context.Context, e model.Entitlement) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = e
	return nil
}
