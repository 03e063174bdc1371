package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gia-fashion/stylist-platform/internal/model"
)

func TestMemoryTurnsKeepOrder(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	for _, content := range []string{"one", "two", "three"} {
		turn := &model.Turn{SessionID: "s1", Role: model.RoleUser, Content: content}
		seq, err := m.AppendTurn(ctx, turn)
		require.NoError(t, err)
		require.Equal(t, seq, turn.Sequence)
	}
	_, err := m.AppendTurn(ctx, &model.Turn{SessionID: "s2", Content: "other"})
	require.NoError(t, err)

	turns, err := m.ListTurns(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, turns, 3)
	require.Equal(t, "one", turns[0].Content)
	require.Equal(t, "three", turns[2].Content)
	require.Less(t, turns[0].Sequence, turns[2].Sequence)

	// the returned slice is a copy
	turns[0].Content = "changed"
	again, _ := m.ListTurns(ctx, "s1")
	require.Equal(t, "one", again[0].Content)
}

func TestMemorySessions(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	_, err := m.GetSession(ctx, "missing")
	require.ErrorIs(t, err, model.ErrSessionNotFound)

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, m.SaveSession(ctx, &model.Session{ID: id, UserID: "u1", UpdatedAt: base.Add(time.Duration(i) * time.Hour)}))
	}
	require.NoError(t, m.SaveSession(ctx, &model.Session{ID: "x", UserID: "u2"}))

	got, total, err := m.ListSessions(ctx, "u1", 2, 0)
	require.NoError(t, err)
	require.Equal(t, 3, total)
	require.Equal(t, []string{"c", "b"}, ids(got))

	got, _, err = m.ListSessions(ctx, "u1", 2, 2)
	require.NoError(t, err)
	require.Equal(t, []string{"a"}, ids(got))

	got, _, err = m.ListSessions(ctx, "u1", 2, 10)
	require.NoError(t, err)
	require.Empty(t, got)
}

func ids(ss []model.Session) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = s.ID
	}
	return out
}

func TestMemoryWardrobeNewestFirst(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	for _, d := range []string{"old", "mid", "new"} {
		require.NoError(t, m.AddWardrobeItem(ctx, &model.WardrobeItem{UserID: "u1", Description: d}))
	}

	items, err := m.ListWardrobe(ctx, "u1", 2)
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, "new", items[0].Description)
	require.Equal(t, "mid", items[1].Description)

	all, _ := m.ListWardrobe(ctx, "u1", 0)
	require.Len(t, all, 3)
}

func TestMemoryDiagnosis(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	_, err := m.GetDiagnosis(ctx, "u1")
	require.ErrorIs(t, err, model.ErrNotFound)

	require.NoError(t, m.SaveDiagnosis(ctx, &model.StyleDiagnosis{UserID: "u1", BodyType: "hourglass"}))
	require.NoError(t, m.SaveDiagnosis(ctx, &model.StyleDiagnosis{UserID: "u1", BodyType: "rectangle"}))

	d, err := m.GetDiagnosis(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, "rectangle", d.BodyType)
}

func TestMemoryLocker(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	ok, err := m.Acquire(ctx, "s1", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	ok, _ = m.Acquire(ctx, "s1", time.Minute)
	require.False(t, ok)

	ok, _ = m.Acquire(ctx, "s2", time.Minute)
	require.True(t, ok, "keys are independent")

	now = now.Add(2 * time.Minute)
	ok, _ = m.Acquire(ctx, "s1", time.Minute)
	require.True(t, ok, "expired lock is taken over")

	require.NoError(t, m.Release(ctx, "s1"))
	ok, _ = m.Acquire(ctx, "s1", time.Minute)
	require.True(t, ok)
}

func TestMemoryEvents(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	ev := &model.SessionEvent{SessionID: "s1", Type: model.EventTypeChatCompleted}
	seq, err := m.PublishEvent(ctx, ev)
	require.NoError(t, err)
	require.Equal(t, seq, ev.Sequence)
	require.Len(t, m.Events(), 1)
}
