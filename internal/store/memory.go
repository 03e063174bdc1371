package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/gia-fashion/stylist-platform/internal/model"
)

var _ Repository = (*Memory)(nil)

// Memory implements every store in process. It backs the CLI, tests and
// database-less development.
type Memory struct {
	mu        sync.RWMutex
	seq       uint64
	sessions  map[string]model.Session
	turns     map[string][]model.Turn
	wardrobe  map[string][]model.WardrobeItem
	outfits   map[string][]model.OutfitLog
	diagnoses map[string]model.StyleDiagnosis
	events    []model.SessionEvent
	locks     map[string]time.Time

	now func() time.Time
}

// NewMemory returns an empty store.
func NewMemory() *Memory {
	return &Memory{
		sessions:  make(map[string]model.Session),
		turns:     make(map[string][]model.Turn),
		wardrobe:  make(map[string][]model.WardrobeItem),
		outfits:   make(map[string][]model.OutfitLog),
		diagnoses: make(map[string]model.StyleDiagnosis),
		locks:     make(map[string]time.Time),
		now:       time.Now,
	}
}

func (m *Memory) AppendTurn(_ context.Context, turn *model.Turn) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq++
	turn.Sequence = m.seq
	m.turns[turn.SessionID] = append(m.turns[turn.SessionID], *turn)
	return m.seq, nil
}

func (m *Memory) ListTurns(_ context.Context, sessionID string) ([]model.Turn, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return append([]model.Turn(nil), m.turns[sessionID]...), nil
}

func (m *Memory) SaveSession(_ context.Context, s *model.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions[s.ID] = *s
	return nil
}

func (m *Memory) GetSession(_ context.Context, id string) (*model.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, model.ErrSessionNotFound
	}
	return &s, nil
}

func (m *Memory) ListSessions(_ context.Context, userID string, limit, offset int) ([]model.Session, int, error) {
	m.mu.RLock()
	var out []model.Session
	for _, s := range m.sessions {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return page(out, limit, offset), len(out), nil
}

func (m *Memory) AddWardrobeItem(_ context.Context, item *model.WardrobeItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.wardrobe[item.UserID] = append(m.wardrobe[item.UserID], *item)
	return nil
}

func (m *Memory) ListWardrobe(_ context.Context, userID string, limit int) ([]model.WardrobeItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return newestFirst(m.wardrobe[userID], limit), nil
}

func (m *Memory) SaveOutfitLog(_ context.Context, log *model.OutfitLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.outfits[log.UserID] = append(m.outfits[log.UserID], *log)
	return nil
}

func (m *Memory) ListOutfitLogs(_ context.Context, userID string, limit int) ([]model.OutfitLog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return newestFirst(m.outfits[userID], limit), nil
}

func (m *Memory) SaveDiagnosis(_ context.Context, d *model.StyleDiagnosis) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.diagnoses[d.UserID] = *d
	return nil
}

func (m *Memory) GetDiagnosis(_ context.Context, userID string) (*model.StyleDiagnosis, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	d, ok := m.diagnoses[userID]
	if !ok {
		return nil, model.ErrNotFound
	}
	return &d, nil
}

func (m *Memory) PublishEvent(_ context.Context, event *model.SessionEvent) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq++
	event.Sequence = m.seq
	m.events = append(m.events, *event)
	return m.seq, nil
}

// Events returns the published events in order.
func (m *Memory) Events() []model.SessionEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return append([]model.SessionEvent(nil), m.events...)
}

func (m *Memory) Acquire(_ context.Context, key string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if exp, held := m.locks[key]; held && now.Before(exp) {
		return false, nil
	}
	m.locks[key] = now.Add(ttl)
	return true, nil
}

func (m *Memory) Release(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.locks, key)
	return nil
}

func newestFirst[T any](items []T, limit int) []T {
	out := make([]T, 0, len(items))
	for i := len(items) - 1; i >= 0; i-- {
		out = append(out, items[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

func page[T any](items []T, limit, offset int) []T {
	if offset > len(items) {
		offset = len(items)
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}
