package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gia-fashion/stylist-platform/internal/model"
	"github.com/gia-fashion/stylist-platform/internal/store"
)

var _ store.Repository = (*Repository)(nil)

// Repository implements every store on a pgx pool.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository wraps an open pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Ping checks the database connection.
func (r *Repository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// Close closes the pool.
func (r *Repository) Close() {
	r.pool.Close()
}

func (r *Repository) AppendTurn(ctx context.Context, t *model.Turn) (uint64, error) {
	var seq int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO turns (id, session_id, user_id, role, content, image_url, score, shopping_query, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING seq`,
		t.ID, t.SessionID, t.UserID, string(t.Role), t.Content, t.ImageURL, t.Score, t.ShoppingQuery, t.CreatedAt,
	).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("insert turn: %w", err)
	}
	t.Sequence = uint64(seq)
	return t.Sequence, nil
}

func (r *Repository) ListTurns(ctx context.Context, sessionID string) ([]model.Turn, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT seq, id, session_id, user_id, role, content, image_url, score::float8, shopping_query, created_at
		FROM turns
		WHERE session_id = $1
		ORDER BY created_at, seq`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query turns: %w", err)
	}
	defer rows.Close()

	var turns []model.Turn
	for rows.Next() {
		var (
			t    model.Turn
			seq  int64
			role string
		)
		if err := rows.Scan(&seq, &t.ID, &t.SessionID, &t.UserID, &role, &t.Content, &t.ImageURL, &t.Score, &t.ShoppingQuery, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan turn: %w", err)
		}
		t.Sequence = uint64(seq)
		t.Role = model.Role(role)
		turns = append(turns, t)
	}
	return turns, rows.Err()
}

func (r *Repository) SaveSession(ctx context.Context, s *model.Session) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO sessions (id, user_id, occasion, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET occasion = EXCLUDED.occasion, updated_at = EXCLUDED.updated_at`,
		s.ID, s.UserID, s.Occasion, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}
	return nil
}

func (r *Repository) GetSession(ctx context.Context, id string) (*model.Session, error) {
	var s model.Session
	err := r.pool.QueryRow(ctx, `
		SELECT id, user_id, occasion, created_at, updated_at FROM sessions WHERE id = $1`, id,
	).Scan(&s.ID, &s.UserID, &s.Occasion, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return &s, nil
}

func (r *Repository) ListSessions(ctx context.Context, userID string, limit, offset int) ([]model.Session, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM sessions WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count sessions: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, occasion, created_at, updated_at
		FROM sessions
		WHERE user_id = $1
		ORDER BY updated_at DESC
		LIMIT $2 OFFSET $3`, userID, limitOrAll(limit), offset)
	if err != nil {
		return nil, 0, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var out []model.Session
	for rows.Next() {
		var s model.Session
		if err := rows.Scan(&s.ID, &s.UserID, &s.Occasion, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan session: %w", err)
		}
		out = append(out, s)
	}
	return out, total, rows.Err()
}

func (r *Repository) AddWardrobeItem(ctx context.Context, item *model.WardrobeItem) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO wardrobe_items (id, user_id, image_url, category, description, color_tags, style_tags, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		item.ID, item.UserID, item.ImageURL, item.Category, item.Description,
		nonNil(item.ColorTags), nonNil(item.StyleTags), item.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert wardrobe item: %w", err)
	}
	return nil
}

func (r *Repository) ListWardrobe(ctx context.Context, userID string, limit int) ([]model.WardrobeItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, image_url, category, description, color_tags, style_tags, created_at
		FROM wardrobe_items
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`, userID, limitOrAll(limit))
	if err != nil {
		return nil, fmt.Errorf("query wardrobe: %w", err)
	}
	defer rows.Close()

	var items []model.WardrobeItem
	for rows.Next() {
		var it model.WardrobeItem
		if err := rows.Scan(&it.ID, &it.UserID, &it.ImageURL, &it.Category, &it.Description, &it.ColorTags, &it.StyleTags, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan wardrobe item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *Repository) SaveOutfitLog(ctx context.Context, l *model.OutfitLog) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO outfit_logs (id, user_id, session_id, image_url, occasion, score, critique, shopping_query, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		l.ID, l.UserID, l.SessionID, l.ImageURL, l.Occasion, l.Score, l.Critique, l.ShoppingQuery, l.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert outfit log: %w", err)
	}
	return nil
}

func (r *Repository) ListOutfitLogs(ctx context.Context, userID string, limit int) ([]model.OutfitLog, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, session_id, image_url, occasion, score::float8, critique, shopping_query, created_at
		FROM outfit_logs
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`, userID, limitOrAll(limit))
	if err != nil {
		return nil, fmt.Errorf("query outfit logs: %w", err)
	}
	defer rows.Close()

	var logs []model.OutfitLog
	for rows.Next() {
		var l model.OutfitLog
		if err := rows.Scan(&l.ID, &l.UserID, &l.SessionID, &l.ImageURL, &l.Occasion, &l.Score, &l.Critique, &l.ShoppingQuery, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan outfit log: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

func (r *Repository) SaveDiagnosis(ctx context.Context, d *model.StyleDiagnosis) error {
	payload, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshal diagnosis: %w", err)
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO style_diagnoses (user_id, payload, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at`,
		d.UserID, payload, d.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert diagnosis: %w", err)
	}
	return nil
}

func (r *Repository) GetDiagnosis(ctx context.Context, userID string) (*model.StyleDiagnosis, error) {
	var payload []byte
	err := r.pool.QueryRow(ctx, `SELECT payload FROM style_diagnoses WHERE user_id = $1`, userID).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get diagnosis: %w", err)
	}

	var d model.StyleDiagnosis
	if err := json.Unmarshal(payload, &d); err != nil {
		return nil, fmt.Errorf("unmarshal diagnosis: %w", err)
	}
	return &d, nil
}

func (r *Repository) PublishEvent(ctx context.Context, e *model.SessionEvent) (uint64, error) {
	var metadata []byte
	if e.Metadata != nil {
		b, err := json.Marshal(e.Metadata)
		if err != nil {
			return 0, fmt.Errorf("marshal event metadata: %w", err)
		}
		metadata = b
	}

	var seq int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO session_events (id, session_id, user_id, type, reason, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING seq`,
		e.ID, e.SessionID, e.UserID, string(e.Type), e.Reason, metadata, e.CreatedAt,
	).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("insert event: %w", err)
	}
	e.Sequence = uint64(seq)
	return e.Sequence, nil
}

// Acquire takes key unless another holder's lease is still valid.
func (r *Repository) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	var got string
	err := r.pool.QueryRow(ctx, `
		INSERT INTO active_requests (key, expires_at)
		VALUES ($1, now() + $2::interval)
		ON CONFLICT (key) DO UPDATE SET expires_at = EXCLUDED.expires_at
		WHERE active_requests.expires_at < now()
		RETURNING key`, key, ttl,
	).Scan(&got)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("acquire %s: %w", key, err)
	}
	return true, nil
}

func (r *Repository) Release(ctx context.Context, key string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM active_requests WHERE key = $1`, key); err != nil {
		return fmt.Errorf("release %s: %w", key, err)
	}
	return nil
}

// limitOrAll maps a non-positive limit to NULL, which LIMIT treats as ALL.
func limitOrAll(limit int) *int {
	if limit <= 0 {
		return nil
	}
	return &limit
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
